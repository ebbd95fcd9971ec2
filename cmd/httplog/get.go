package main

import (
	"context"
	"fmt"
	"io"

	"github.com/fyrsmithlabs/httplog/internal/config"
	"github.com/fyrsmithlabs/httplog/internal/logging"
	"github.com/fyrsmithlabs/httplog/internal/services"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

func newGetCmd(a *app) *cobra.Command {
	var (
		concurrency int
		perSecond   float64
	)

	cmd := &cobra.Command{
		Use:   "get URL...",
		Short: "GET one or more URLs through the logging client",
		Long: `Issue a GET for each URL. Calls run concurrently, bounded by
--concurrency and paced by --rate, and every call is logged by the
transport whether it succeeds or fails.

Examples:
  # Two calls, one of which fails
  httplog get https://dummyjson.com/products https://some-error.com

  # At most two in flight, five per second
  httplog get --concurrency 2 --rate 5 $(cat urls.txt)`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mutate := func(cfg *config.Config) error {
				if cmd.Flags().Changed("concurrency") {
					cfg.Sample.Concurrency = concurrency
				}
				if cmd.Flags().Changed("rate") {
					cfg.Sample.Rate = perSecond
				}
				return nil
			}
			return a.withRegistry(cmd.Context(), mutate, func(ctx context.Context, reg services.Registry) error {
				return probe(ctx, reg, args, cmd.OutOrStdout())
			})
		},
	}

	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "maximum calls in flight (default sample.concurrency)")
	cmd.Flags().Float64Var(&perSecond, "rate", 0, "calls started per second, 0 for unlimited (default sample.rate)")
	return cmd
}

// probe GETs every URL and prints one line per call in argument order.
// It fails if any call failed.
func probe(ctx context.Context, reg services.Registry, urls []string, out io.Writer) error {
	sample := reg.Config().Sample
	limiter := rate.NewLimiter(rate.Inf, 1)
	if sample.Rate > 0 {
		limiter = rate.NewLimiter(rate.Limit(sample.Rate), 1)
	}

	results := make([]callResult, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(sample.Concurrency)
	for i, u := range urls {
		g.Go(func() error {
			if err := limiter.Wait(gctx); err != nil {
				return err
			}
			results[i] = get(gctx, reg, u)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		safeURL := logging.RedactURL(r.URL)
		if r.Err != nil {
			failed++
			fmt.Fprintf(out, "%s\terror\t%v\n", safeURL, r.Err)
			continue
		}
		fmt.Fprintf(out, "%s\t%d\t%d bytes\n", safeURL, r.Status, len(r.Body))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d calls failed", failed, len(urls))
	}
	return nil
}
