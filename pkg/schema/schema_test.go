package schema

import (
	"context"
	"errors"
	"testing"

	"github.com/hamba/avro/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/sr"
)

type stubRegistry struct {
	id  int
	err error
	got sr.Schema
}

func (r *stubRegistry) CreateSchema(
	_ context.Context, subject string, s sr.Schema,
) (sr.SubjectSchema, error) {
	r.got = s
	if r.err != nil {
		return sr.SubjectSchema{}, r.err
	}
	return sr.SubjectSchema{Subject: subject, ID: r.id}, nil
}

func TestSchemaCreater(t *testing.T) {
	t.Run("RegistersAvro", func(t *testing.T) {
		reg := &stubRegistry{id: 11}
		id, err := NewSchemaCreater(reg).DetermineID(
			t.Context(), "carts-value", CartSnapshotSchemaTextV1,
		)
		require.NoError(t, err)
		assert.Equal(t, 11, id)
		assert.Equal(t, sr.TypeAvro, reg.got.Type)
		assert.Equal(t, CartSnapshotSchemaTextV1, reg.got.Schema)
	})

	t.Run("RegistryError", func(t *testing.T) {
		reg := &stubRegistry{err: errors.New("unavailable")}
		_, err := NewSchemaCreater(reg).DetermineID(t.Context(), "s", "{}")
		assert.Error(t, err)
	})
}

func TestSchemasParse(t *testing.T) {
	for _, text := range []string{
		CartSnapshotSchemaTextV1,
		WishlistEventSchemaTextV1,
	} {
		_, err := avro.Parse(text)
		require.NoError(t, err)
	}
}
