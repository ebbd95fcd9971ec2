package services

import (
	"context"
	"fmt"

	"github.com/fyrsmithlabs/httplog/internal/config"
	"github.com/fyrsmithlabs/httplog/internal/hostsink"
	"github.com/fyrsmithlabs/httplog/internal/logging"
	"github.com/fyrsmithlabs/httplog/internal/telemetry"
	"github.com/fyrsmithlabs/httplog/pkg/hostlog"
	"github.com/fyrsmithlabs/httplog/pkg/httplog"
	"go.opentelemetry.io/otel/log"
	"go.uber.org/zap"
)

// RegisterOption overrides a piece Register would otherwise build.
type RegisterOption func(*registerOptions)

type registerOptions struct {
	logger    *logging.Logger
	telemetry *telemetry.Telemetry
	transport []httplog.Option
}

// WithLogger uses logger instead of building one from the logging section.
func WithLogger(logger *logging.Logger) RegisterOption {
	return func(o *registerOptions) {
		o.logger = logger
	}
}

// WithTelemetry uses tel instead of building one from the telemetry section.
func WithTelemetry(tel *telemetry.Telemetry) RegisterOption {
	return func(o *registerOptions) {
		o.telemetry = tel
	}
}

// WithTransportOptions passes options to the logging transport.
func WithTransportOptions(opts ...httplog.Option) RegisterOption {
	return func(o *registerOptions) {
		o.transport = append(o.transport, opts...)
	}
}

// Register builds the logging HTTP client and its dependencies from cfg.
//
// Order: telemetry, host logger, host sink, sink adapter, logging transport
// over NewInnerTransport, client. The returned Registry's Close releases
// them in reverse.
func Register(ctx context.Context, cfg *config.Config, opts ...RegisterOption) (Registry, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	var o registerOptions
	for _, opt := range opts {
		opt(&o)
	}

	var closers []func(context.Context) error

	tel := o.telemetry
	if tel == nil {
		telCfg := telemetry.NewDefaultConfig()
		if err := cfg.Decode("telemetry", telCfg); err != nil {
			return nil, err
		}
		var err error
		tel, err = telemetry.New(ctx, telCfg)
		if err != nil {
			return nil, fmt.Errorf("telemetry: %w", err)
		}
		closers = append(closers, tel.Shutdown)
	}

	logger := o.logger
	if logger == nil {
		logCfg := logging.NewDefaultConfig()
		if err := cfg.Decode("logging", logCfg); err != nil {
			return nil, err
		}
		var provider log.LoggerProvider
		if logCfg.Output.OTEL {
			provider = tel.LoggerProvider()
		}
		var err error
		logger, err = logging.NewLogger(logCfg, provider)
		if err != nil {
			return nil, fmt.Errorf("logger: %w", err)
		}
	}

	sink, closeSink, err := hostsink.New(cfg.Host, logger)
	if err != nil {
		return nil, err
	}
	closers = append([]func(context.Context) error{
		func(context.Context) error { return closeSink() },
	}, closers...)

	adapter, err := hostlog.NewAdapter(sink)
	if err != nil {
		return nil, err
	}

	client, err := httplog.NewClient(adapter,
		httplog.WithInnerTransport(NewInnerTransport(cfg.Client)),
		httplog.WithTimeout(cfg.Client.Timeout.Duration()),
		httplog.WithTransportOptions(o.transport...),
	)
	if err != nil {
		return nil, fmt.Errorf("http client: %w", err)
	}

	logger.Debug(ctx, "services registered",
		zap.String("host.backend", cfg.Host.Backend),
		zap.Bool("telemetry.enabled", tel.IsEnabled()),
	)

	return NewRegistry(Options{
		Config:        cfg,
		Logger:        logger,
		Sink:          sink,
		LeveledLogger: adapter,
		HTTPClient:    client,
		Telemetry:     tel,
		Closers:       closers,
	}), nil
}
