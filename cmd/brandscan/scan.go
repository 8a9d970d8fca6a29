package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/brandscan/brandscan/internal/config"
	"github.com/brandscan/brandscan/internal/database"
	"github.com/brandscan/brandscan/internal/log"
	"github.com/brandscan/brandscan/internal/model"
	"github.com/brandscan/brandscan/internal/pipeline"
	"github.com/brandscan/brandscan/internal/renderer"
	"github.com/brandscan/brandscan/internal/report"
)

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [url...]",
		Short: "Extract the design fingerprint of one or more web pages",
		Long: `Scan fetches each page, extracts its design signals, and classifies
them into a fingerprint:
- Color palette with assigned roles (primary, secondary, accent, ...)
- Typography summary (heading and body fonts, weights)
- Best-guess logo with alternates
- Brand-voice profile derived from the page text

Results are stored in the local scan database and can be listed with
'brandscan history'.

Examples:
  # Scan a single page
  brandscan scan https://acme.example

  # Scan several pages concurrently
  brandscan scan acme.example stripe.example linear.example

  # Output a JSON report
  brandscan scan --json https://acme.example

  # Write a Markdown report to a file
  brandscan scan --markdown -o report.md https://acme.example

Configuration file (.brandscan) example:
  sites:
    acme.example:
      cookie: "consent=accepted"
      headers:
        Accept-Language: "en-US"
    stripe.example:
      path: "/brand"`,
		Args: cobra.ArbitraryArgs,
		RunE: runScanCmd,
	}

	// Fetch behavior flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Fetch timeout for each page request")
	cmd.Flags().StringP("user-agent", "u", config.DefaultUserAgent,
		"User-Agent header for HTTP requests")
	cmd.Flags().Int64("max-body-size", config.DefaultMaxBodySize,
		"Maximum response body size in bytes")
	cmd.Flags().Int("viewport-width", config.DefaultViewportWidth,
		"Assumed viewport width in pixels for area estimation")
	cmd.Flags().Int("viewport-height", config.DefaultViewportHeight,
		"Assumed viewport height in pixels for area estimation")

	// Batch scanning flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent scans")

	// Analysis flags
	cmd.Flags().Bool("skip-tone", false,
		"Skip brand-voice tone analysis")
	cmd.Flags().Bool("keep-raw", false,
		"Keep raw extracted page signals in the report")

	// Persistence flags
	cmd.Flags().Bool("no-save", false,
		"Do not save scan results to the local database")
	cmd.Flags().DurationP("freshness", "F", config.DefaultFreshness,
		"Reuse stored scans newer than this window")
	cmd.Flags().BoolP("force", "f", false,
		"Rescan even when a stored scan is still fresh")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .brandscan in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	return cmd
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runScan(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.UserAgent, err = cmd.Flags().GetString("user-agent")
	if err != nil {
		return nil, err
	}

	cfg.MaxBodySize, err = cmd.Flags().GetInt64("max-body-size")
	if err != nil {
		return nil, err
	}

	cfg.ViewportWidth, err = cmd.Flags().GetInt("viewport-width")
	if err != nil {
		return nil, err
	}

	cfg.ViewportHeight, err = cmd.Flags().GetInt("viewport-height")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.SkipTone, err = cmd.Flags().GetBool("skip-tone")
	if err != nil {
		return nil, err
	}

	cfg.KeepRaw, err = cmd.Flags().GetBool("keep-raw")
	if err != nil {
		return nil, err
	}

	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return nil, err
	}

	cfg.Freshness, err = cmd.Flags().GetDuration("freshness")
	if err != nil {
		return nil, err
	}

	cfg.Force, err = cmd.Flags().GetBool("force")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load site-specific configurations from config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use empty config if no file found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.SiteConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		cfg.SiteConfigs = &config.File{
			Sites: make(map[string]config.SiteConfig),
		}
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)

	// Save to the database at the XDG data directory unless disabled
	cfg.SaveToDB = !noSave
	if cfg.SaveToDB {
		cfg.DBDir = config.XDGDataDir()
	}

	// Positional arguments are the target URLs
	cfg.Targets = args

	return cfg, nil
}

// setupLogger creates a structured logger based on verbosity setting.
// The secure handler masks cookies and auth headers from site configs
// before they reach the log output.
func setupLogger(verbose bool) *slog.Logger {
	return log.NewSecureLogger(os.Stderr, verbose)
}

// runScan executes the scan.
func runScan(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting scan",
		"targets", cfg.Targets,
		"batchSize", cfg.BatchSize,
		"saveToDB", cfg.SaveToDB,
	)

	// Open database connection if saving is enabled
	var db *database.ScanDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	// Normalize all target URLs
	for i, target := range cfg.Targets {
		normalized, err := normalizeTarget(target)
		if err != nil {
			return fmt.Errorf("invalid target %q: %w", target, err)
		}
		cfg.Targets[i] = normalized
	}

	// Skip targets with a stored scan still inside the freshness window
	targets, err := filterFreshTargets(ctx, cfg, db, logger)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		return nil
	}

	// Use batch processor for parallel scanning if multiple targets
	if len(targets) > 1 && cfg.BatchSize > 1 {
		return runBatchScan(ctx, cfg, targets, db, logger)
	}

	return runSequentialScan(ctx, cfg, targets, db, logger)
}

// filterFreshTargets reports stored scans for targets inside the
// freshness window and returns the targets that still need scanning.
func filterFreshTargets(ctx context.Context, cfg *config.Config, db *database.ScanDB, logger *slog.Logger) ([]string, error) {
	if db == nil || cfg.Force {
		return cfg.Targets, nil
	}

	remaining := make([]string, 0, len(cfg.Targets))
	for _, target := range cfg.Targets {
		site := model.SiteKey(target)

		recent, err := db.HasRecentScan(ctx, site, cfg.Freshness)
		if err != nil {
			return nil, fmt.Errorf("failed to check scan history: %w", err)
		}
		if !recent {
			remaining = append(remaining, target)
			continue
		}

		stored, err := db.GetLatestScan(ctx, site)
		if err != nil || stored == nil {
			remaining = append(remaining, target)
			continue
		}

		fmt.Printf("Using stored scan of %s from %s (use --force to rescan)\n",
			site, stored.ScannedAt.Format("2006-01-02 15:04"))
		if err := outputReport(cfg, stored); err != nil {
			logger.Error("report failed", "target", target, "error", err)
		}
	}

	return remaining, nil
}

// runSequentialScan scans targets one at a time.
func runSequentialScan(ctx context.Context, cfg *config.Config, targets []string, db *database.ScanDB, logger *slog.Logger) error {
	for _, target := range targets {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		// Get site-specific configuration
		siteConfig := getSiteConfig(cfg, target)
		scanURL := applySitePath(target, siteConfig)

		// Create pipeline with site-specific options
		p := createPipelineForTarget(cfg, siteConfig, db, logger)

		scanReport := model.NewScanReport(scanURL)

		fmt.Printf("Scanning %s...\n", scanURL)

		if err := p.Execute(ctx, scanReport); err != nil {
			logger.Error("scan failed", "target", scanURL, "error", err)
			fmt.Fprintf(os.Stderr, "Scan error for %s: %v\n", scanURL, err)
			continue
		}

		fmt.Printf("Scan completed in %s\n\n", scanReport.Duration.Round(time.Millisecond))

		if err := outputReport(cfg, scanReport); err != nil {
			logger.Error("report failed", "target", scanURL, "error", err)
		}
	}

	return nil
}

// runBatchScan scans multiple targets concurrently using BatchProcessor.
func runBatchScan(ctx context.Context, cfg *config.Config, targets []string, db *database.ScanDB, logger *slog.Logger) error {
	fmt.Printf("Starting batch scan of %d targets (concurrency: %d)...\n\n",
		len(targets), cfg.BatchSize)

	startTime := time.Now()

	// Warn user about batch processing limitation
	if cfg.SiteConfigs != nil && len(cfg.SiteConfigs.Sites) > 0 {
		logger.Warn("batch processing uses default site config only; site-specific configs (cookies, headers) are ignored",
			"siteCount", len(cfg.SiteConfigs.Sites))
		fmt.Fprintf(os.Stderr, "Warning: Site-specific configurations are ignored in batch mode. Use sequential mode (--batch 1) to apply per-site settings.\n\n")
	}

	// Create batch processor with pipeline factory
	bp := pipeline.NewBatchProcessor(
		func() *pipeline.Pipeline {
			var siteConfig config.SiteConfig
			if cfg.SiteConfigs != nil {
				siteConfig = cfg.SiteConfigs.Defaults
			}
			return createPipelineForTarget(cfg, siteConfig, db, logger)
		},
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	// Process with callback for streaming output
	var mu sync.Mutex
	err := bp.ProcessBatchWithCallback(ctx, targets, func(scanReport *model.ScanReport, index int) {
		mu.Lock()
		defer mu.Unlock()

		fmt.Printf("[%d/%d] Scan completed: %s\n", index+1, len(targets), scanReport.Site)

		if err := outputReport(cfg, scanReport); err != nil {
			logger.Error("report failed", "target", scanReport.Site, "error", err)
		}
	})

	elapsed := time.Since(startTime)
	fmt.Printf("\nBatch scan completed in %s\n", elapsed.Round(time.Millisecond))

	return err
}

// normalizeTarget validates a target URL, assuming https for bare
// hosts. Returns the normalized URL string.
func normalizeTarget(target string) (string, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return "", errors.New("empty target")
	}
	if !strings.Contains(target, "://") {
		target = "https://" + target
	}

	u, err := url.Parse(target)
	if err != nil {
		return "", err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", errors.New("missing host")
	}

	return u.String(), nil
}

// getSiteConfig returns the site-specific configuration for a target,
// merged over the file defaults.
func getSiteConfig(cfg *config.Config, target string) config.SiteConfig {
	if cfg.SiteConfigs == nil {
		return config.SiteConfig{}
	}
	return cfg.SiteConfigs.GetSiteConfig(model.SiteKey(target))
}

// applySitePath swaps in the configured scan path for a site, for
// sites that keep their brand surface off the root page.
func applySitePath(target string, siteConfig config.SiteConfig) string {
	if siteConfig.Path == "" {
		return target
	}
	u, err := url.Parse(target)
	if err != nil {
		return target
	}
	u.Path = siteConfig.Path
	return u.String()
}

// createPipelineForTarget creates a pipeline with the given configuration.
func createPipelineForTarget(cfg *config.Config, siteConfig config.SiteConfig, db *database.ScanDB, logger *slog.Logger) *pipeline.Pipeline {
	pipelineOpts := []pipeline.Option{
		pipeline.WithLogger(logger),
		pipeline.WithContinueOnError(true),
	}

	configOpts := []pipeline.DefaultPipelineOption{
		pipeline.WithPipelineSkipTone(cfg.SkipTone),
		pipeline.WithPipelineKeepRaw(cfg.KeepRaw),
	}
	if db != nil {
		configOpts = append(configOpts, pipeline.WithPipelineDB(db))
	}

	return pipeline.DefaultPipeline(createRenderer(cfg, siteConfig), pipelineOpts, configOpts...)
}

// createRenderer builds a page renderer honoring the global config and
// per-site overrides.
func createRenderer(cfg *config.Config, siteConfig config.SiteConfig) *renderer.Renderer {
	userAgent := cfg.UserAgent
	if siteConfig.UserAgent != "" {
		userAgent = siteConfig.UserAgent
	}

	opts := []renderer.Option{
		renderer.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		renderer.WithUserAgent(userAgent),
		renderer.WithMaxBodySize(cfg.MaxBodySize),
		renderer.WithViewport(float64(cfg.ViewportWidth), float64(cfg.ViewportHeight)),
	}
	if siteConfig.Cookie != "" {
		opts = append(opts, renderer.WithHeader("Cookie", siteConfig.Cookie))
	}
	for k, v := range siteConfig.Headers {
		opts = append(opts, renderer.WithHeader(k, v))
	}

	return renderer.NewRenderer(opts...)
}

// outputReport outputs the scan report in the requested format.
func outputReport(cfg *config.Config, scanReport *model.ScanReport) error {
	// Determine output destination
	var output *os.File
	if cfg.ReportFile != "" {
		// Create directories if they don't exist
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	// JSON output (full report with all data)
	if cfg.JSONReport {
		writer := report.NewJSONWriter(output, report.WithPrettyPrint())
		_, err := writer.Write(scanReport)
		return err
	}

	// Markdown output
	if cfg.MarkdownReport {
		writer := report.NewMarkdownWriter(output)
		_, err := writer.Write(scanReport)
		return err
	}

	// Human-readable report (default)
	writer := report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	_, err := writer.Write(scanReport)
	return err
}
