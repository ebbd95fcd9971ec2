// Package httplog provides an http.RoundTripper that logs every outgoing
// call through a leveled.Logger.
//
// # Overview
//
// Transport wraps an inner RoundTripper. For each request it logs, in order:
//
//	Information  Sending request: GET https://dummyjson.com/products
//	Information  Received response: 200. Duration: 84
//
// or, when the inner transport fails:
//
//	Information  Sending request: GET https://some-error.com
//	Error        Failed http call: unknown. Duration: 12. ExceptionMessage: dial tcp: lookup some-error.com: no such host
//
// Durations are whole milliseconds measured on the monotonic clock. The
// response or error of the inner transport is returned unchanged; the
// transport never retries, rewrites bodies or interprets status codes.
//
// # Usage
//
//	adapter, _ := hostlog.NewAdapter(sink)
//	client, err := httplog.NewClient(adapter, httplog.WithTimeout(30*time.Second))
//	if err != nil {
//	    return err
//	}
//	resp, err := client.Get("https://dummyjson.com/products")
//
// # Concurrency Safety
//
// Transport is safe for concurrent use. Each call keeps its own timing and
// emits its own pair of entries; entries of different calls may interleave.
package httplog

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/fyrsmithlabs/httplog/pkg/leveled"
)

// Message templates. The hole names document the arguments only.
const (
	sendingTemplate  = "Sending request: {Method} {RequestUri}"
	receivedTemplate = "Received response: {StatusCode}. Duration: {Milliseconds}"
	failedTemplate   = "Failed http call: {StatusCode}. Duration: {Milliseconds}. ExceptionMessage: {ExceptionMessage}"
)

var (
	// ErrNilLogger is returned by NewTransport when no logger is given.
	ErrNilLogger = errors.New("httplog: logger is required")
	// ErrNilRequest is returned by RoundTrip for a nil request.
	ErrNilRequest = errors.New("httplog: nil request")
)

// Clock supplies timestamps. Values must carry a monotonic reading, as
// time.Now does, so elapsed times ignore wall-clock adjustments.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Option configures a Transport.
type Option func(*Transport)

// WithClock overrides the clock used for call timing.
func WithClock(c Clock) Option {
	return func(t *Transport) {
		if c != nil {
			t.clock = c
		}
	}
}

// Transport is a delegating http.RoundTripper that logs each call.
type Transport struct {
	inner  http.RoundTripper
	logger leveled.Logger
	clock  Clock
}

var _ http.RoundTripper = (*Transport)(nil)

// NewTransport wraps inner. A nil inner uses http.DefaultTransport.
func NewTransport(inner http.RoundTripper, logger leveled.Logger, opts ...Option) (*Transport, error) {
	if logger == nil {
		return nil, ErrNilLogger
	}
	if inner == nil {
		inner = http.DefaultTransport
	}

	t := &Transport{
		inner:  inner,
		logger: logger,
		clock:  systemClock{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// RoundTrip implements http.RoundTripper.
//
// The request, including its context, is passed to the inner transport as
// is. The terminal log entry is written before RoundTrip returns.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, ErrNilRequest
	}

	ctx := req.Context()
	start := t.clock.Now()

	if err := t.logger.Log(ctx, leveled.Information, sendingTemplate,
		[]any{req.Method, requestURI(req)}, nil); err != nil {
		return nil, fmt.Errorf("httplog: log request: %w", err)
	}

	resp, err := t.inner.RoundTrip(req)
	outcome := NewOutcome(resp, err)
	elapsed := t.elapsed(start)

	switch o := outcome.(type) {
	case Failure:
		// The caller must see the inner result untouched, so a logging
		// failure here has nowhere to go.
		_ = t.logger.Log(ctx, leveled.Error, failedTemplate,
			[]any{o.Status(), elapsed.Milliseconds(), o.Err.Error()}, nil)
		return resp, err
	case Success:
		if logErr := t.logger.Log(ctx, leveled.Information, receivedTemplate,
			[]any{o.Status(), elapsed.Milliseconds()}, nil); logErr != nil {
			if resp.Body != nil {
				resp.Body.Close()
			}
			return nil, fmt.Errorf("httplog: log response: %w", logErr)
		}
	}

	return resp, nil
}

// CloseIdleConnections forwards to the inner transport when supported.
func (t *Transport) CloseIdleConnections() {
	type closeIdler interface {
		CloseIdleConnections()
	}
	if ci, ok := t.inner.(closeIdler); ok {
		ci.CloseIdleConnections()
	}
}

// Inner returns the wrapped transport.
func (t *Transport) Inner() http.RoundTripper {
	return t.inner
}

func (t *Transport) elapsed(start time.Time) time.Duration {
	d := t.clock.Now().Sub(start)
	if d < 0 {
		return 0
	}
	return d
}

// requestURI renders the target URL with any userinfo password masked.
func requestURI(req *http.Request) string {
	if req.URL == nil {
		return ""
	}
	return req.URL.Redacted()
}
