// Httplog sends HTTP calls through a transport that writes one host log
// entry before each call and one after it.
//
// Usage:
//
//	# Run the sample: fetch the catalogue, then call an unreachable host
//	httplog run
//
//	# Probe several URLs concurrently
//	httplog get --concurrency 8 --rate 5 https://a.example https://b.example
//
//	# Serve the offline fixture and point the sample at it
//	httplog serve &
//	HTTPLOG_SAMPLE_URLS=http://127.0.0.1:8089/products,http://127.0.0.1:1 httplog run
//
// Configuration is read from ~/.config/httplog/config.yaml and HTTPLOG_*
// environment variables. See internal/config for the mapping.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fyrsmithlabs/httplog/internal/config"
	"github.com/fyrsmithlabs/httplog/internal/services"
	"github.com/spf13/cobra"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(newApp(os.Stdout)).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// app carries state shared by the subcommands.
type app struct {
	cfgFile string
	out     io.Writer

	// register builds the service registry; tests swap it to observe logs.
	register func(ctx context.Context, cfg *config.Config) (services.Registry, error)
}

func newApp(out io.Writer) *app {
	return &app{
		out: out,
		register: func(ctx context.Context, cfg *config.Config) (services.Registry, error) {
			return services.Register(ctx, cfg)
		},
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "httplog",
		Short: "HTTP client with host-logged calls",
		Long: `httplog wraps an HTTP client in a transport that reports every call to
the host logger: "Sending request" before it, then "Received response" or
"Failed http call" after it.`,
		Version:      version,
		SilenceUsage: true,
	}
	root.SetOut(a.out)
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default ~/.config/httplog/config.yaml)")

	root.AddCommand(newRunCmd(a))
	root.AddCommand(newGetCmd(a))
	root.AddCommand(newServeCmd(a))
	root.AddCommand(newVersionCmd())
	return root
}

// loadConfig reads the config file and environment overrides.
func (a *app) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadWithFile(a.cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// withRegistry loads config, registers services, runs fn and releases the
// services afterwards.
func (a *app) withRegistry(ctx context.Context, mutate func(*config.Config) error, fn func(context.Context, services.Registry) error) (err error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	if mutate != nil {
		if err := mutate(cfg); err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
	}

	reg, err := a.register(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer func() {
		// Close must run even when ctx was cancelled by a signal.
		if cerr := reg.Close(context.WithoutCancel(ctx)); cerr != nil && err == nil {
			err = fmt.Errorf("failed to release services: %w", cerr)
		}
	}()

	return fn(ctx, reg)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "httplog by Fyrsmith Labs\n")
			fmt.Fprintf(out, "Version:    %s\n", version)
			fmt.Fprintf(out, "Commit:     %s\n", gitCommit)
			fmt.Fprintf(out, "Build Date: %s\n", buildDate)
		},
	}
}
