package main

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/fyrsmithlabs/httplog/internal/logging"
	"github.com/fyrsmithlabs/httplog/internal/services"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	tracerName = "github.com/fyrsmithlabs/httplog/cmd/httplog"

	// maxBodySize bounds how much of a response body is read.
	maxBodySize = 10 << 20
)

// callResult is the outcome of one GET.
type callResult struct {
	URL    string
	Status int
	Body   []byte
	Err    error
}

// StatusError reports a response outside the 2xx range.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("response status code does not indicate success: %d (%s)", e.Code, http.StatusText(e.Code))
}

// get issues one GET through the registry's logging client inside a client
// span. Every call gets a fresh call ID, sent as X-Request-ID.
func get(ctx context.Context, reg services.Registry, rawURL string) callResult {
	res := callResult{URL: rawURL}
	safeURL := logging.RedactURL(rawURL)

	callID := uuid.NewString()
	ctx = logging.WithCallID(ctx, callID)
	ctx, span := reg.Telemetry().Tracer(tracerName).Start(ctx, http.MethodGet,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(semconv.HTTPRequestMethodGet, semconv.URLFull(safeURL)),
	)
	defer span.End()

	logger := reg.Logger()
	fail := func(err error) callResult {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		res.Err = err
		return res
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fail(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("X-Request-ID", callID)

	resp, err := reg.HTTPClient().Do(req)
	if err != nil {
		return fail(err)
	}
	defer resp.Body.Close()

	res.Status = resp.StatusCode
	span.SetAttributes(semconv.HTTPResponseStatusCode(resp.StatusCode))

	res.Body, err = io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fail(fmt.Errorf("read body: %w", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fail(&StatusError{Code: resp.StatusCode})
	}

	logger.Debug(ctx, "call complete",
		zap.String("url", safeURL),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(res.Body)),
	)
	return res
}
