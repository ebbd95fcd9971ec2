package main

import (
	"context"
	"fmt"

	"github.com/fyrsmithlabs/httplog/internal/config"
	fixture "github.com/fyrsmithlabs/httplog/internal/http"
	"github.com/fyrsmithlabs/httplog/internal/services"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the offline fixture endpoints",
		Long: `Serve /health, /products, /status/:code and /delay/:ms until interrupted,
so the sample and get commands can run without internet access.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mutate := func(cfg *config.Config) error {
				if cmd.Flags().Changed("host") {
					cfg.Fixture.Host = host
				}
				if cmd.Flags().Changed("port") {
					cfg.Fixture.Port = port
				}
				return nil
			}
			return a.withRegistry(cmd.Context(), mutate, func(ctx context.Context, reg services.Registry) error {
				return serveFixture(ctx, reg, nil)
			})
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "listen host (default fixture.host)")
	cmd.Flags().IntVar(&port, "port", 0, "listen port (default fixture.port)")
	return cmd
}

// serveFixture runs the fixture server until ctx is done, then shuts it
// down within fixture.shutdown_timeout. started, when non-nil, receives
// the server once it is constructed.
func serveFixture(ctx context.Context, reg services.Registry, started func(*fixture.Server)) error {
	cfg := reg.Config().Fixture
	logger := reg.Logger()

	server, err := fixture.NewServer(logger, &fixture.Config{Host: cfg.Host, Port: cfg.Port})
	if err != nil {
		return fmt.Errorf("failed to create fixture server: %w", err)
	}
	if started != nil {
		started(server)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("fixture server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout.Duration())
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "fixture shutdown failed", zap.Error(err))
		return fmt.Errorf("fixture shutdown: %w", err)
	}
	return <-errCh
}
