package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/brandscan/brandscan/internal/api"
	"github.com/brandscan/brandscan/internal/config"
	"github.com/brandscan/brandscan/internal/database"
	"github.com/brandscan/brandscan/internal/model"
	"github.com/brandscan/brandscan/internal/pipeline"
	"github.com/brandscan/brandscan/internal/renderer"
)

// defaultServeAddr is the default API listen address.
const defaultServeAddr = "127.0.0.1:8532"

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve stored scans over a JSON HTTP API",
		Long: `Serve exposes the local scan database over a JSON HTTP API.

Endpoints:
  GET  /api/v1/health                  liveness check
  GET  /api/v1/sites                   list scanned sites
  GET  /api/v1/sites/{site}            latest scan for a site
  GET  /api/v1/sites/{site}/history    scan history for a site
  GET  /api/v1/scans/{id}              one scan by id
  POST /api/v1/scans                   run a live scan ({"url": "..."})

Examples:
  # Serve on the default local address
  brandscan serve

  # Serve on a custom address
  brandscan serve --addr 0.0.0.0:8080

  # Disable the live-scan endpoint
  brandscan serve --no-live-scan`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	cmd.Flags().StringP("addr", "a", defaultServeAddr,
		"Listen address for the API server")
	cmd.Flags().Bool("no-live-scan", false,
		"Disable the POST /api/v1/scans live-scan endpoint")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Fetch timeout for live scans")

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	addr, err := cmd.Flags().GetString("addr")
	if err != nil {
		return err
	}
	noLiveScan, err := cmd.Flags().GetBool("no-live-scan")
	if err != nil {
		return err
	}
	timeout, err := cmd.Flags().GetDuration("timeout")
	if err != nil {
		return err
	}

	logger := setupLogger(getVerboseFlag(cmd))
	slog.SetDefault(logger)

	db, err := database.Open(config.XDGDataDir(), database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	opts := []api.ServerOption{
		api.WithLogger(logger),
	}
	if !noLiveScan {
		opts = append(opts, api.WithScanFunc(liveScanFunc(db, timeout, logger)))
	}

	srv, err := api.NewServer(db, opts...)
	if err != nil {
		return err
	}

	// Serve until interrupted
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Serving scan API on http://%s\n", addr)
	return srv.ListenAndServe(ctx, addr)
}

// liveScanFunc builds the pipeline entry point used by the API's
// live-scan endpoint. Each request gets a fresh pipeline.
func liveScanFunc(db *database.ScanDB, timeout time.Duration, logger *slog.Logger) api.ScanFunc {
	return func(ctx context.Context, target string) (*model.ScanReport, error) {
		r := renderer.NewRenderer(
			renderer.WithHTTPClient(&http.Client{Timeout: timeout}),
		)

		p := pipeline.DefaultPipeline(r,
			[]pipeline.Option{
				pipeline.WithLogger(logger),
				pipeline.WithContinueOnError(true),
			},
			pipeline.WithPipelineDB(db),
		)

		scanReport := model.NewScanReport(target)
		if err := p.Execute(ctx, scanReport); err != nil {
			return scanReport, err
		}
		return scanReport, nil
	}
}
