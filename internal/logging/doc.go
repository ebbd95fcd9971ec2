// Package logging provides the structured host logger behind httplog's sinks.
//
// # Overview
//
// Logging package wraps Zap with:
//   - Custom Trace level (-2, below Debug)
//   - Dual output (stdout + OpenTelemetry)
//   - Context field injection (trace_id, call.id, request.id)
//   - Secret, URL credential and query parameter redaction on both outputs
//   - Per-level sampling (errors never sampled)
//
// # Usage
//
// Create logger from config:
//
//	cfg := logging.NewDefaultConfig()
//	logger, err := logging.NewLogger(cfg, otelProvider)
//	if err != nil {
//	    return err
//	}
//	defer logger.Sync()
//
// Log with context:
//
//	ctx = logging.WithCallID(ctx, uuid.NewString())
//	logger.Info(ctx, "catalogue fetched", zap.Int("bytes", n))
//
// The logger is normally not called directly by HTTP code. internal/hostsink
// turns it into a hostlog.Sink so that httplog.Transport reaches it through
// hostlog.Adapter.
//
// # Sampling
//
// Sampling is off by default; a sampled-out entry hides half of a call.
// When enabled:
//   - Trace: first 1 per tick
//   - Debug: first 10 per tick
//   - Info: first 100, then 1 every 10
//   - Warn: first 100, then 1 every 100
//   - Error+: never sampled
//
// # Testing
//
// Use TestLogger for assertions:
//
//	tl := logging.NewTestLogger()
//	tl.Info(ctx, "test message", zap.String("key", "value"))
//	tl.AssertLogged(t, zapcore.InfoLevel, "test message")
//	tl.AssertNoSecrets(t)
package logging
