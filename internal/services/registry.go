package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/fyrsmithlabs/httplog/internal/config"
	"github.com/fyrsmithlabs/httplog/internal/logging"
	"github.com/fyrsmithlabs/httplog/internal/telemetry"
	"github.com/fyrsmithlabs/httplog/pkg/hostlog"
	"github.com/fyrsmithlabs/httplog/pkg/leveled"
)

// Registry provides access to the registered dependencies.
type Registry interface {
	Config() *config.Config
	Logger() *logging.Logger
	Sink() hostlog.Sink
	LeveledLogger() leveled.Logger
	HTTPClient() *http.Client
	Telemetry() *telemetry.Telemetry
	// Close releases the host sink and flushes telemetry.
	Close(ctx context.Context) error
}

// Options configures the registry with service instances.
type Options struct {
	Config        *config.Config
	Logger        *logging.Logger
	Sink          hostlog.Sink
	LeveledLogger leveled.Logger
	HTTPClient    *http.Client
	Telemetry     *telemetry.Telemetry
	// Closers run in order on Close.
	Closers []func(context.Context) error
}

type registry struct {
	config        *config.Config
	logger        *logging.Logger
	sink          hostlog.Sink
	leveledLogger leveled.Logger
	httpClient    *http.Client
	telemetry     *telemetry.Telemetry
	closers       []func(context.Context) error
}

// NewRegistry creates a registry from already-built services.
func NewRegistry(opts Options) Registry {
	return &registry{
		config:        opts.Config,
		logger:        opts.Logger,
		sink:          opts.Sink,
		leveledLogger: opts.LeveledLogger,
		httpClient:    opts.HTTPClient,
		telemetry:     opts.Telemetry,
		closers:       opts.Closers,
	}
}

func (r *registry) Config() *config.Config          { return r.config }
func (r *registry) Logger() *logging.Logger         { return r.logger }
func (r *registry) Sink() hostlog.Sink              { return r.sink }
func (r *registry) LeveledLogger() leveled.Logger   { return r.leveledLogger }
func (r *registry) HTTPClient() *http.Client        { return r.httpClient }
func (r *registry) Telemetry() *telemetry.Telemetry { return r.telemetry }

func (r *registry) Close(ctx context.Context) error {
	var errs []error
	for _, c := range r.closers {
		if err := c(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
