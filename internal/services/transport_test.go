package services

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fyrsmithlabs/httplog/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInnerTransport_Tuning(t *testing.T) {
	cfg := config.Default().Client
	cfg.UserAgent = ""
	cfg.TLSHandshakeTimeout = config.Duration(3 * time.Second)
	cfg.ResponseHeaderTimeout = config.Duration(4 * time.Second)
	cfg.MaxIdleConns = 7

	rt := NewInnerTransport(cfg)
	base, ok := rt.(*http.Transport)
	require.True(t, ok, "no header wrapper without user agent or token")
	assert.Equal(t, 3*time.Second, base.TLSHandshakeTimeout)
	assert.Equal(t, 4*time.Second, base.ResponseHeaderTimeout)
	assert.Equal(t, 7, base.MaxIdleConns)
	assert.NotNil(t, base.DialContext)
	assert.NotSame(t, http.DefaultTransport, base)
}

func TestHeaderTransport(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
	}))
	defer srv.Close()

	cfg := config.Default().Client
	cfg.UserAgent = "httplog/test"
	cfg.BearerToken = config.Secret("s3cret")
	rt := NewInnerTransport(cfg)
	require.IsType(t, &headerTransport{}, rt)

	t.Run("defaults applied to a clone", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
		require.NoError(t, err)

		resp, err := rt.RoundTrip(req)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, "httplog/test", got.Get("User-Agent"))
		assert.Equal(t, "Bearer s3cret", got.Get("Authorization"))
		assert.Empty(t, req.Header.Get("Authorization"), "caller request untouched")
	})

	t.Run("caller headers win", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
		require.NoError(t, err)
		req.Header.Set("User-Agent", "custom")
		req.Header.Set("Authorization", "Basic abc")

		resp, err := rt.RoundTrip(req)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, "custom", got.Get("User-Agent"))
		assert.Equal(t, "Basic abc", got.Get("Authorization"))
	})

	t.Run("nil header", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
		require.NoError(t, err)
		req.Header = nil

		resp, err := rt.RoundTrip(req)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, "httplog/test", got.Get("User-Agent"))
	})

	rt.(*headerTransport).CloseIdleConnections()
}
