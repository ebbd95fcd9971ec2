package httplog

import (
	"net/http"
	"time"

	"github.com/fyrsmithlabs/httplog/pkg/leveled"
)

// ClientOption configures NewClient.
type ClientOption func(*clientOptions)

type clientOptions struct {
	inner     http.RoundTripper
	timeout   time.Duration
	transport []Option
}

// WithInnerTransport sets the transport that performs the network I/O.
// Defaults to http.DefaultTransport.
func WithInnerTransport(rt http.RoundTripper) ClientOption {
	return func(o *clientOptions) {
		o.inner = rt
	}
}

// WithTimeout sets http.Client.Timeout. Zero means no client-level timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(o *clientOptions) {
		o.timeout = d
	}
}

// WithTransportOptions passes options through to NewTransport.
func WithTransportOptions(opts ...Option) ClientOption {
	return func(o *clientOptions) {
		o.transport = append(o.transport, opts...)
	}
}

// NewClient returns an http.Client whose every call goes through a logging
// Transport before reaching the network.
func NewClient(logger leveled.Logger, opts ...ClientOption) (*http.Client, error) {
	var o clientOptions
	for _, opt := range opts {
		opt(&o)
	}

	t, err := NewTransport(o.inner, logger, o.transport...)
	if err != nil {
		return nil, err
	}

	return &http.Client{
		Transport: t,
		Timeout:   o.timeout,
	}, nil
}
