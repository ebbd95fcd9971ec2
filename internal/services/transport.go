package services

import (
	"net"
	"net/http"

	"github.com/fyrsmithlabs/httplog/internal/config"
)

// NewInnerTransport returns the network transport the logging interceptor
// wraps, tuned from cfg. When cfg sets a user agent or bearer token the
// transport adds those headers to a clone of each request.
func NewInnerTransport(cfg config.ClientConfig) http.RoundTripper {
	dialer := &net.Dialer{
		Timeout: cfg.DialTimeout.Duration(),
	}

	base := http.DefaultTransport.(*http.Transport).Clone()
	base.DialContext = dialer.DialContext
	base.TLSHandshakeTimeout = cfg.TLSHandshakeTimeout.Duration()
	base.ResponseHeaderTimeout = cfg.ResponseHeaderTimeout.Duration()
	base.MaxIdleConns = cfg.MaxIdleConns

	if cfg.UserAgent == "" && !cfg.BearerToken.IsSet() {
		return base
	}
	return &headerTransport{
		inner:     base,
		userAgent: cfg.UserAgent,
		token:     cfg.BearerToken,
	}
}

// headerTransport sets default headers without mutating the caller's request.
type headerTransport struct {
	inner     http.RoundTripper
	userAgent string
	token     config.Secret
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	if out.Header == nil {
		out.Header = make(http.Header)
	}
	if t.userAgent != "" && out.Header.Get("User-Agent") == "" {
		out.Header.Set("User-Agent", t.userAgent)
	}
	if t.token.IsSet() && out.Header.Get("Authorization") == "" {
		out.Header.Set("Authorization", "Bearer "+t.token.Value())
	}
	return t.inner.RoundTrip(out)
}

// CloseIdleConnections forwards to the wrapped transport.
func (t *headerTransport) CloseIdleConnections() {
	type closeIdler interface{ CloseIdleConnections() }
	if ci, ok := t.inner.(closeIdler); ok {
		ci.CloseIdleConnections()
	}
}
