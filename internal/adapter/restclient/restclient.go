// Package restclient implements [port.DataProvider] over the storefront
// REST contract. Every response is wrapped in a JSON envelope with data,
// success and message fields.
package restclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/niksmo/petshop-storefront/internal/core/domain"
	"github.com/niksmo/petshop-storefront/internal/core/port"
	"github.com/niksmo/petshop-storefront/pkg/retry"
)

var (
	_ port.DataProvider  = (*Provider)(nil)
	_ port.ProductLister = (*Provider)(nil)
)

// errBadResponse marks a response that arrived but cannot be used. Such
// failures are not retried.
var errBadResponse = errors.New("unusable response")

const (
	defaultTimeout = 5 * time.Second
	defaultLimit   = 20
)

// A Config used for setup [Provider].
//
// BaseURL is required, zero Timeout and MaxAttempts take defaults.
type Config struct {
	BaseURL     string
	Timeout     time.Duration
	MaxAttempts int
}

type Provider struct {
	baseURL  string
	client   *http.Client
	retryCfg retry.Config
}

func New(cfg Config) (Provider, error) {
	const op = "restclient.New"

	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		return Provider{}, fmt.Errorf("%s: invalid base url: %w", op, err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	return Provider{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.Timeout},
		retryCfg: retry.Config{
			MaxAttempts: cfg.MaxAttempts,
			Backoff:     retry.ExponentialBackoff(50 * time.Millisecond),
			ShouldRetry: func(err error) bool {
				return errors.Is(err, domain.ErrProviderUnavailable) &&
					!errors.Is(err, errBadResponse)
			},
		},
	}, nil
}

func (p Provider) SearchProducts(
	ctx context.Context, f domain.SearchFilters,
) ([]domain.Product, error) {
	const op = "restclient.Provider.SearchProducts"

	body, err := json.Marshal(newSearchRequest(f))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	env, err := do[[]product](ctx, p, http.MethodPost, "/products/search", body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return toDomainProducts(env.Data), nil
}

func (p Provider) GetProductByID(
	ctx context.Context, id int,
) (domain.Product, error) {
	const op = "restclient.Provider.GetProductByID"

	env, err := do[product](ctx, p, http.MethodGet, "/products/"+strconv.Itoa(id), nil)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return env.Data.toDomain(), nil
}

// ProductsByCategory returns one page of a category listing.
func (p Provider) ProductsByCategory(
	ctx context.Context, category string, page, limit int,
) ([]domain.Product, error) {
	const op = "restclient.Provider.ProductsByCategory"

	q := url.Values{}
	q.Set("page", strconv.Itoa(orDefault(page, 1)))
	q.Set("limit", strconv.Itoa(orDefault(limit, defaultLimit)))
	path := "/products/category/" + url.PathEscape(category) + "?" + q.Encode()

	ps, err := p.list(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

func (p Provider) Bestsellers(ctx context.Context, limit int) ([]domain.Product, error) {
	const op = "restclient.Provider.Bestsellers"

	path := "/products/bestsellers?limit=" + strconv.Itoa(orDefault(limit, 10))
	ps, err := p.list(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

func (p Provider) NewArrivals(ctx context.Context, limit int) ([]domain.Product, error) {
	const op = "restclient.Provider.NewArrivals"

	path := "/products/new?limit=" + strconv.Itoa(orDefault(limit, 10))
	ps, err := p.list(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func (p Provider) list(ctx context.Context, path string) ([]domain.Product, error) {
	env, err := do[[]product](ctx, p, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return toDomainProducts(env.Data), nil
}

// do sends the request, retrying transport failures, and decodes the
// response envelope.
func do[T any](
	ctx context.Context, p Provider, method, path string, body []byte,
) (envelope[T], error) {
	return retry.DoWithResult(ctx, p.retryCfg, func() (envelope[T], error) {
		return doOnce[T](ctx, p, method, path, body)
	})
}

func doOnce[T any](
	ctx context.Context, p Provider, method, path string, body []byte,
) (env envelope[T], err error) {
	const op = "restclient.doOnce"
	log := slog.With("op", op, "method", method, "path", path)

	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, r)
	if err != nil {
		return env, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := p.client.Do(req)
	if err != nil {
		log.Warn("request failed", "err", err)
		return env, fmt.Errorf("%w: %w", domain.ErrProviderUnavailable, err)
	}
	defer res.Body.Close()

	if err := statusErr(res.StatusCode); err != nil {
		return env, err
	}

	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return env, fmt.Errorf(
			"%w: %w: %w", domain.ErrProviderUnavailable, errBadResponse, err,
		)
	}

	if !env.Success {
		return env, fmt.Errorf(
			"%w: %w: %s", domain.ErrProviderUnavailable, errBadResponse, env.Message,
		)
	}
	return env, nil
}

func statusErr(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return domain.ErrNotFound
	case code == http.StatusBadRequest || code == http.StatusUnprocessableEntity:
		return domain.ErrValidation
	default:
		return fmt.Errorf("%w: status %d", domain.ErrProviderUnavailable, code)
	}
}
