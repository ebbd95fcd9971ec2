// Package http serves canned responses so the logging client can be
// exercised without reaching the internet.
package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/fyrsmithlabs/httplog/internal/logging"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// MaxDelay caps GET /delay/:ms.
const MaxDelay = 10 * time.Second

// Server provides the fixture endpoints.
type Server struct {
	echo    *echo.Echo
	logger  *logging.Logger
	config  *Config
	metrics *Metrics
}

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int
}

// Option configures a Server.
type Option func(*serverOptions)

type serverOptions struct {
	meterProvider metric.MeterProvider
}

// WithMeterProvider records request metrics on mp instead of the global
// meter provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *serverOptions) {
		o.meterProvider = mp
	}
}

// NewServer creates a new fixture server.
func NewServer(logger *logging.Logger, cfg *Config, opts ...Option) (*Server, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{
			Host: "127.0.0.1",
			Port: 8089,
		}
	}
	var o serverOptions
	for _, opt := range opts {
		opt(&o)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:    e,
		logger:  logger.Named("fixture"),
		config:  cfg,
		metrics: NewMetrics(o.meterProvider, logger),
	}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator:        uuid.NewString,
		RequestIDHandler: tagRequestID,
	}))
	e.Use(s.metrics.Middleware())
	e.Use(s.requestLogger())

	s.registerRoutes()

	return s, nil
}

// tagRequestID stores a well-formed request ID on the request context.
// Client-supplied IDs that fail validation are echoed but not logged.
func tagRequestID(c echo.Context, rid string) {
	if logging.ValidateID(rid, "requestID") != nil {
		return
	}
	req := c.Request()
	c.SetRequest(req.WithContext(logging.WithRequestID(req.Context(), rid)))
}

func (s *Server) requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			s.logger.Info(c.Request().Context(), "http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
			)
			return nil
		}
	}
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/products", s.handleProducts)
	s.echo.GET("/status/:code", s.handleStatus)
	s.echo.GET("/delay/:ms", s.handleDelay)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// handleProducts serves the catalogue, honouring optional skip and limit
// query parameters.
func (s *Server) handleProducts(c echo.Context) error {
	skip, err := queryInt(c, "skip")
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}

	products := page(skip, limit)
	return c.JSON(http.StatusOK, ProductsResponse{
		Products: products,
		Total:    len(catalogue),
		Skip:     skip,
		Limit:    len(products),
	})
}

func (s *Server) handleStatus(c echo.Context) error {
	code, err := strconv.Atoi(c.Param("code"))
	if err != nil || code < 200 || code > 599 {
		return echo.NewHTTPError(http.StatusBadRequest, "code must be between 200 and 599")
	}
	if code == http.StatusNoContent || code == http.StatusNotModified {
		return c.NoContent(code)
	}
	return c.JSON(code, StatusResponse{Code: code, Text: http.StatusText(code)})
}

func (s *Server) handleDelay(c echo.Context) error {
	ms, err := strconv.Atoi(c.Param("ms"))
	if err != nil || ms < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "ms must be a non-negative integer")
	}
	d := time.Duration(ms) * time.Millisecond
	if d > MaxDelay {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("delay exceeds %s", MaxDelay))
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-c.Request().Context().Done():
		return c.Request().Context().Err()
	}
	return c.JSON(http.StatusOK, DelayResponse{DelayedMS: ms})
}

func queryInt(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" must be a non-negative integer")
	}
	return n, nil
}

// Handler exposes the routes for in-process use, e.g. httptest.NewServer.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on the configured address and serves until Shutdown.
// It returns nil after a graceful shutdown.
func (s *Server) Start() error {
	addr := net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
	s.logger.Info(context.Background(), "starting http server", zap.String("addr", addr))
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Addr returns the listening address, or nil before Start has bound.
func (s *Server) Addr() net.Addr {
	return s.echo.ListenerAddr()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info(ctx, "shutting down http server")
	return s.echo.Shutdown(ctx)
}
