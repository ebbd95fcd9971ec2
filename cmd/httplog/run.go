package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/fyrsmithlabs/httplog/internal/logging"
	"github.com/fyrsmithlabs/httplog/internal/services"
	"github.com/fyrsmithlabs/httplog/pkg/hostlog"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// errNoSampleURLs is returned when sample.urls is empty.
var errNoSampleURLs = errors.New("sample.urls is empty")

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the sample calls",
		Long: `Fetch the first sample URL and log its content length, then call each
remaining sample URL and log the error each is expected to produce.

With the defaults this fetches https://dummyjson.com/products and then
https://some-error.com, which does not resolve.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withRegistry(cmd.Context(), nil, runSample)
		},
	}
}

// runSample performs the sample calls. Only a failure of the first call
// is returned; the rest are expected to fail and are logged instead.
func runSample(ctx context.Context, reg services.Registry) error {
	urls := reg.Config().Sample.URLs
	if len(urls) == 0 {
		return errNoSampleURLs
	}
	sink := reg.Sink()
	logger := reg.Logger()

	res := get(ctx, reg, urls[0])
	if res.Err != nil {
		return fmt.Errorf("fetch %s: %w", logging.RedactURL(urls[0]), res.Err)
	}
	sink(fmt.Sprintf("Content Length: %d", len(res.Body)), hostlog.Info)
	if n := gjson.GetBytes(res.Body, "products.#"); n.Exists() {
		logger.Info(ctx, "catalogue fetched", zap.Int64("products", n.Int()))
	}

	for _, u := range urls[1:] {
		res := get(ctx, reg, u)
		if res.Err != nil {
			sink("Expected error: "+res.Err.Error(), hostlog.Info)
			continue
		}
		logger.Warn(ctx, "expected failure did not occur",
			logging.URL("url", u),
			zap.Int("status", res.Status),
		)
	}
	return nil
}
