package logging

import (
	"errors"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/log"
	"go.uber.org/zap/zapcore"
)

// instrumentationScope names the OTEL logger the bridge writes to.
const instrumentationScope = "github.com/fyrsmithlabs/httplog"

// stdout is swapped in tests.
var stdout io.Writer = os.Stdout

// newDualCore tees the enabled outputs and applies sampling on top. Both
// outputs see the same redaction rules.
func newDualCore(cfg *Config, otelProvider log.LoggerProvider) (zapcore.Core, error) {
	rules, err := NewRedactingEncoder(newEncoder(cfg.Format), cfg.Redaction)
	if err != nil {
		return nil, fmt.Errorf("failed to create redacting encoder: %w", err)
	}

	var cores []zapcore.Core
	if cfg.Output.Stdout {
		cores = append(cores, zapcore.NewCore(rules, zapcore.AddSync(stdout), cfg.Level))
	}
	if cfg.Output.OTEL && otelProvider != nil {
		cores = append(cores, newOTELCore(cfg, otelProvider, rules))
	}

	switch len(cores) {
	case 0:
		return nil, errors.New("at least one output must be enabled and available")
	case 1:
		return newSampledCore(cores[0], cfg.Sampling), nil
	default:
		return newSampledCore(zapcore.NewTee(cores...), cfg.Sampling), nil
	}
}

// newOTELCore bridges entries to provider. The bridge has no level of its
// own and encodes fields itself, so the level gate and redaction wrap it.
func newOTELCore(cfg *Config, provider log.LoggerProvider, rules *RedactingEncoder) zapcore.Core {
	var core zapcore.Core = otelzap.NewCore(instrumentationScope, otelzap.WithLoggerProvider(provider))
	if rules.enabled {
		core = &redactingCore{Core: core, rules: rules}
	}
	return &levelFilterCore{Core: core, minLevel: cfg.Level.Zap(), hasMin: true}
}
