package adapter_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/niksmo/petshop-storefront/internal/adapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeTLSConfig(t *testing.T) {
	t.Run("MissingCA", func(t *testing.T) {
		_, err := adapter.MakeTLSConfig(
			filepath.Join(t.TempDir(), "ca.pem"), "cert.pem", "key.pem",
		)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("GarbageCA", func(t *testing.T) {
		ca := filepath.Join(t.TempDir(), "ca.pem")
		require.NoError(t, os.WriteFile(ca, []byte("not a pem"), 0o600))

		_, err := adapter.MakeTLSConfig(ca, "cert.pem", "key.pem")
		assert.ErrorContains(t, err, "failed to parse CA certificate")
	})
}
