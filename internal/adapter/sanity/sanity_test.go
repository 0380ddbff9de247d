package sanity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/niksmo/storefront/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigQueryURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "Defaults",
			cfg:  Config{ProjectID: "abc123", Dataset: "production"},
			want: "https://abc123.api.sanity.io/v2024-11-28/data/query/production",
		},
		{
			name: "CDN",
			cfg: Config{
				ProjectID: "abc123", Dataset: "staging",
				APIVersion: "v2025-01-01", UseCDN: true,
			},
			want: "https://abc123.apicdn.sanity.io/v2025-01-01/data/query/staging",
		},
		{
			name: "CustomHost",
			cfg: Config{
				ProjectID: "abc123", Dataset: "production",
				APIHost: "http://localhost:3333/",
			},
			want: "http://localhost:3333/v2024-11-28/data/query/production",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.queryURL())
		})
	}
}

func TestNewClientMissingConfig(t *testing.T) {
	_, err := NewClient(Config{Dataset: "production"})
	require.ErrorIs(t, err, ErrMissingConfig)
	assert.Contains(t, err.Error(), "project id")

	_, err = NewClient(Config{ProjectID: "abc123"})
	require.ErrorIs(t, err, ErrMissingConfig)
	assert.Contains(t, err.Error(), "dataset")
}

func newTestClient(t *testing.T, h http.HandlerFunc) Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := NewClient(
		Config{
			ProjectID: "abc123", Dataset: "production",
			Token: "secret", APIHost: srv.URL,
		},
		WithHTTPClient(srv.Client()),
		WithRetry(retry.Config{
			MaxAttempts: 3,
			Backoff:     retry.LinearBackoff(time.Millisecond),
		}),
	)
	require.NoError(t, err)
	return c
}

func TestClientQuery(t *testing.T) {
	t.Run("Result", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v2024-11-28/data/query/production", r.URL.Path)
			assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
			assert.Equal(t, `*[_type == "x" && slug == $slug]`, r.URL.Query().Get("query"))
			assert.Equal(t, `"desk"`, r.URL.Query().Get("$slug"))
			_, _ = w.Write([]byte(`{"ms":3,"result":{"name":"Desk"}}`))
		})

		var v struct{ Name string }
		found, err := c.Query(context.Background(),
			`*[_type == "x" && slug == $slug]`, map[string]any{"slug": "desk"}, &v)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "Desk", v.Name)
	})

	t.Run("NullResult", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"result":null}`))
		})

		var v struct{ Name string }
		found, err := c.Query(context.Background(), "*[0]", nil, &v)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("RetriesServerErrors", func(t *testing.T) {
		var calls atomic.Int32
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte(`{"result":[1,2]}`))
		})

		var v []int
		found, err := c.Query(context.Background(), "*", nil, &v)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, []int{1, 2}, v)
		assert.EqualValues(t, 3, calls.Load())
	})

	t.Run("NoRetryOnBadRequest", func(t *testing.T) {
		var calls atomic.Int32
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"description":"expected ']'"}}`))
		})

		var v []int
		_, err := c.Query(context.Background(), "*[", nil, &v)
		require.ErrorIs(t, err, ErrResponse)
		assert.Contains(t, err.Error(), "expected ']'")
		assert.EqualValues(t, 1, calls.Load())
	})

	t.Run("AttemptsExhausted", func(t *testing.T) {
		var calls atomic.Int32
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusTooManyRequests)
		})

		var v []int
		_, err := c.Query(context.Background(), "*", nil, &v)
		require.ErrorIs(t, err, ErrResponse)
		assert.EqualValues(t, 3, calls.Load())
	})
}
