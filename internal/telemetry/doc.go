// Package telemetry provides OpenTelemetry instrumentation for httplog.
//
// # Overview
//
// Spans are exported over OTLP (gRPC or HTTP/protobuf) to a collector. The
// package also hands a log.LoggerProvider to the zap OTEL bridge in
// internal/logging; without one configured, the global provider is used.
//
// # Usage
//
//	cfg := telemetry.NewDefaultConfig()
//	tel, err := telemetry.New(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer tel.Shutdown(ctx)
//
//	ctx, span := tel.Tracer("httplog.sample").Start(ctx, "sample.fetch")
//	defer span.End()
//
// # Configuration
//
//	telemetry:
//	  enabled: true
//	  endpoint: "localhost:4317"
//	  protocol: grpc            # or http/protobuf
//	  service_name: "httplog"
//	  sampling:
//	    rate: 1.0
//	  shutdown:
//	    timeout: 5s
//
// # Error Handling
//
// Exporter setup failures mark the instance degraded; Tracer then returns
// the global no-op tracer.
//
// # Testing
//
//	tt := telemetry.NewTestTelemetry()
//	_, span := tt.Tracer("test").Start(ctx, "test-span")
//	span.End()
//	tt.AssertSpanExists(t, "test-span")
package telemetry
