package telemetry

import (
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// TestTelemetry records spans in memory. Outgoing calls share the span name
// "GET", so lookups key on the url.full attribute instead.
type TestTelemetry struct {
	*Telemetry

	recorder *tracetest.SpanRecorder
}

func NewTestTelemetry() *TestTelemetry {
	cfg := NewDefaultConfig()
	cfg.Enabled = true

	recorder := tracetest.NewSpanRecorder()
	t := &TestTelemetry{
		Telemetry: &Telemetry{
			config:         cfg,
			tracerProvider: trace.NewTracerProvider(trace.WithSpanProcessor(recorder)),
		},
		recorder: recorder,
	}
	t.healthy.Store(true)
	return t
}

// Spans returns ended spans in end order.
func (t *TestTelemetry) Spans() []trace.ReadOnlySpan {
	return t.recorder.Ended()
}

// CallSpan returns the first ended client span whose url.full is url.
func (t *TestTelemetry) CallSpan(url string) trace.ReadOnlySpan {
	for _, span := range t.Spans() {
		if span.SpanKind() != oteltrace.SpanKindClient {
			continue
		}
		if v, ok := spanAttr(span, semconv.URLFullKey); ok && v.AsString() == url {
			return span
		}
	}
	return nil
}

// AssertCall verifies a client span for url ended with status code want.
func (t *TestTelemetry) AssertCall(tb testing.TB, url string, want codes.Code) {
	tb.Helper()
	span := t.CallSpan(url)
	if span == nil {
		tb.Fatalf("no client span for %q, recorded urls: %v", url, t.callURLs())
	}
	if got := span.Status().Code; got != want {
		tb.Errorf("span for %q: status %v, want %v (%s)", url, got, want, span.Status().Description)
	}
}

// AssertSpanAttribute verifies the client span for url carries key=expected.
func (t *TestTelemetry) AssertSpanAttribute(tb testing.TB, url string, key attribute.Key, expected interface{}) {
	tb.Helper()
	span := t.CallSpan(url)
	if span == nil {
		tb.Fatalf("no client span for %q", url)
	}
	v, ok := spanAttr(span, key)
	if !ok {
		tb.Errorf("span for %q missing attribute %q", url, key)
		return
	}
	if got := v.AsInterface(); got != expected {
		tb.Errorf("span for %q attribute %q: got %v, want %v", url, key, got, expected)
	}
}

func (t *TestTelemetry) callURLs() []string {
	var urls []string
	for _, span := range t.Spans() {
		if v, ok := spanAttr(span, semconv.URLFullKey); ok {
			urls = append(urls, v.AsString())
		}
	}
	return urls
}

func spanAttr(span trace.ReadOnlySpan, key attribute.Key) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}
