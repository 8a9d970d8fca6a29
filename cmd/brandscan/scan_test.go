package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/brandscan/brandscan/internal/config"
	"github.com/brandscan/brandscan/internal/database"
	"github.com/brandscan/brandscan/internal/model"
)

// TestNewScanCmd tests the scan command creation.
func TestNewScanCmd(t *testing.T) {
	t.Parallel()

	cmd := NewScanCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "scan [url...]" {
			t.Errorf("expected use 'scan [url...]', got %q", cmd.Use)
		}
	})

	t.Run("has short description", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" {
			t.Error("expected non-empty short description")
		}
	})

	t.Run("has timeout flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("timeout")
		if flag == nil {
			t.Fatal("expected timeout flag")
		}
		if flag.Shorthand != "t" {
			t.Errorf("expected shorthand 't', got %q", flag.Shorthand)
		}
	})

	t.Run("has user-agent flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("user-agent")
		if flag == nil {
			t.Fatal("expected user-agent flag")
		}
		if flag.Shorthand != "u" {
			t.Errorf("expected shorthand 'u', got %q", flag.Shorthand)
		}
	})

	t.Run("has batch flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("batch")
		if flag == nil {
			t.Fatal("expected batch flag")
		}
		if flag.Shorthand != "b" {
			t.Errorf("expected shorthand 'b', got %q", flag.Shorthand)
		}
	})

	t.Run("has viewport flags", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("viewport-width") == nil {
			t.Error("expected viewport-width flag")
		}
		if cmd.Flags().Lookup("viewport-height") == nil {
			t.Error("expected viewport-height flag")
		}
	})

	t.Run("has report format flags", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("json") == nil {
			t.Error("expected json flag")
		}
		if cmd.Flags().Lookup("markdown") == nil {
			t.Error("expected markdown flag")
		}
		if cmd.Flags().Lookup("output") == nil {
			t.Error("expected output flag")
		}
	})

	t.Run("has persistence flags", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("no-save") == nil {
			t.Error("expected no-save flag")
		}
		if cmd.Flags().Lookup("freshness") == nil {
			t.Error("expected freshness flag")
		}
		if cmd.Flags().Lookup("force") == nil {
			t.Error("expected force flag")
		}
	})

	t.Run("does not have db-dir flag (uses XDG)", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("db-dir") != nil {
			t.Error("db-dir flag should not exist (always uses XDG data directory)")
		}
	})
}

// TestBuildConfig tests config construction from flags.
func TestBuildConfig(t *testing.T) {
	t.Run("applies defaults and targets", func(t *testing.T) {
		cmd := NewScanCmd()
		cfg, err := buildConfig(cmd, []string{"https://acme.example"})
		if err != nil {
			t.Fatalf("buildConfig returned error: %v", err)
		}

		if cfg.Timeout != config.DefaultTimeout {
			t.Errorf("Timeout = %v", cfg.Timeout)
		}
		if cfg.BatchSize != config.DefaultBatchSize {
			t.Errorf("BatchSize = %d", cfg.BatchSize)
		}
		if len(cfg.Targets) != 1 || cfg.Targets[0] != "https://acme.example" {
			t.Errorf("Targets = %v", cfg.Targets)
		}
		if !cfg.SaveToDB {
			t.Error("SaveToDB should default to true")
		}
		if cfg.DBDir == "" {
			t.Error("DBDir should be set when saving is enabled")
		}
	})

	t.Run("no-save disables persistence", func(t *testing.T) {
		cmd := NewScanCmd()
		if err := cmd.Flags().Set("no-save", "true"); err != nil {
			t.Fatal(err)
		}

		cfg, err := buildConfig(cmd, []string{"https://acme.example"})
		if err != nil {
			t.Fatalf("buildConfig returned error: %v", err)
		}
		if cfg.SaveToDB {
			t.Error("SaveToDB should be false with --no-save")
		}
		if cfg.DBDir != "" {
			t.Errorf("DBDir = %q, expected empty", cfg.DBDir)
		}
	})

	t.Run("missing explicit config file fails", func(t *testing.T) {
		cmd := NewScanCmd()
		if err := cmd.Flags().Set("config", filepath.Join(t.TempDir(), "nope.yaml")); err != nil {
			t.Fatal(err)
		}

		if _, err := buildConfig(cmd, []string{"https://acme.example"}); err == nil {
			t.Error("expected error for missing config file")
		}
	})

	t.Run("loads site configs from file", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "brandscan.yaml")
		content := "sites:\n  acme.example:\n    cookie: \"consent=accepted\"\n"
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}

		cmd := NewScanCmd()
		if err := cmd.Flags().Set("config", configPath); err != nil {
			t.Fatal(err)
		}

		cfg, err := buildConfig(cmd, []string{"https://acme.example"})
		if err != nil {
			t.Fatalf("buildConfig returned error: %v", err)
		}
		site := getSiteConfig(cfg, "https://acme.example")
		if site.Cookie != "consent=accepted" {
			t.Errorf("Cookie = %q", site.Cookie)
		}
	})
}

// TestNormalizeTarget tests URL normalization for scan targets.
func TestNormalizeTarget(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"bare host gets https", "acme.example", "https://acme.example", false},
		{"http preserved", "http://acme.example", "http://acme.example", false},
		{"path preserved", "https://acme.example/brand", "https://acme.example/brand", false},
		{"whitespace trimmed", "  acme.example  ", "https://acme.example", false},
		{"empty rejected", "", "", true},
		{"ftp rejected", "ftp://acme.example", "", true},
		{"scheme only rejected", "https://", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := normalizeTarget(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("normalizeTarget(%q) expected error, got %q", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("normalizeTarget(%q) returned error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("normalizeTarget(%q) = %q, expected %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestApplySitePath tests the per-site path override.
func TestApplySitePath(t *testing.T) {
	t.Parallel()

	t.Run("no path keeps target", func(t *testing.T) {
		t.Parallel()

		got := applySitePath("https://acme.example", config.SiteConfig{})
		if got != "https://acme.example" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("path replaces target path", func(t *testing.T) {
		t.Parallel()

		got := applySitePath("https://acme.example/pricing", config.SiteConfig{Path: "/brand"})
		if got != "https://acme.example/brand" {
			t.Errorf("got %q", got)
		}
	})
}

// TestOutputReport tests report output in each format.
func TestOutputReport(t *testing.T) {
	t.Parallel()

	newReport := func() *model.ScanReport {
		r := model.NewScanReport("https://acme.example")
		r.Signals = &model.DesignSignals{
			Colors: model.PaletteResult{
				Primary:    "#ff5000",
				Background: "#ffffff",
				Text:       "#000000",
			},
		}
		return r
	}

	t.Run("writes JSON report to file", func(t *testing.T) {
		t.Parallel()

		outPath := filepath.Join(t.TempDir(), "nested", "report.json")
		cfg := config.NewConfig()
		cfg.JSONReport = true
		cfg.ReportFile = outPath

		if err := outputReport(cfg, newReport()); err != nil {
			t.Fatalf("outputReport returned error: %v", err)
		}

		data, err := os.ReadFile(outPath)
		if err != nil {
			t.Fatalf("report file not written: %v", err)
		}
		if !strings.Contains(string(data), "\"primary\": \"#ff5000\"") {
			t.Errorf("JSON report missing primary color: %s", data)
		}
	})

	t.Run("writes markdown report to file", func(t *testing.T) {
		t.Parallel()

		outPath := filepath.Join(t.TempDir(), "report.md")
		cfg := config.NewConfig()
		cfg.MarkdownReport = true
		cfg.ReportFile = outPath

		if err := outputReport(cfg, newReport()); err != nil {
			t.Fatalf("outputReport returned error: %v", err)
		}

		data, err := os.ReadFile(outPath)
		if err != nil {
			t.Fatalf("report file not written: %v", err)
		}
		if !strings.Contains(string(data), "# Brandscan Report") {
			t.Error("markdown report missing title")
		}
	})

	t.Run("writes human-readable report by default", func(t *testing.T) {
		t.Parallel()

		outPath := filepath.Join(t.TempDir(), "report.txt")
		cfg := config.NewConfig()
		cfg.ReportFile = outPath

		if err := outputReport(cfg, newReport()); err != nil {
			t.Fatalf("outputReport returned error: %v", err)
		}

		data, err := os.ReadFile(outPath)
		if err != nil {
			t.Fatalf("report file not written: %v", err)
		}
		if !strings.Contains(string(data), "BRANDSCAN REPORT") {
			t.Error("text report missing header")
		}
	})
}

// TestFilterFreshTargets tests freshness-based scan skipping.
func TestFilterFreshTargets(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	t.Run("nil database keeps all targets", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.Targets = []string{"https://acme.example"}

		targets, err := filterFreshTargets(context.Background(), cfg, nil, logger)
		if err != nil {
			t.Fatalf("filterFreshTargets returned error: %v", err)
		}
		if len(targets) != 1 {
			t.Errorf("targets = %v", targets)
		}
	})

	t.Run("fresh scan is skipped", func(t *testing.T) {
		t.Parallel()

		db, err := database.Open(t.TempDir(), database.DefaultOptions())
		if err != nil {
			t.Fatalf("open database: %v", err)
		}
		t.Cleanup(func() { _ = db.Close() })

		stored := model.NewScanReport("https://acme.example")
		stored.Signals = &model.DesignSignals{
			Colors: model.PaletteResult{Background: "#ffffff", Text: "#000000"},
		}
		if err := db.SaveScan(context.Background(), stored); err != nil {
			t.Fatalf("seed scan: %v", err)
		}

		cfg := config.NewConfig()
		cfg.Targets = []string{"https://acme.example", "https://other.example"}
		cfg.ReportFile = filepath.Join(t.TempDir(), "cached.txt")

		targets, err := filterFreshTargets(context.Background(), cfg, db, logger)
		if err != nil {
			t.Fatalf("filterFreshTargets returned error: %v", err)
		}
		if len(targets) != 1 || targets[0] != "https://other.example" {
			t.Errorf("targets = %v, expected only the unscanned site", targets)
		}
	})

	t.Run("force keeps fresh targets", func(t *testing.T) {
		t.Parallel()

		db, err := database.Open(t.TempDir(), database.DefaultOptions())
		if err != nil {
			t.Fatalf("open database: %v", err)
		}
		t.Cleanup(func() { _ = db.Close() })

		stored := model.NewScanReport("https://acme.example")
		if err := db.SaveScan(context.Background(), stored); err != nil {
			t.Fatalf("seed scan: %v", err)
		}

		cfg := config.NewConfig()
		cfg.Targets = []string{"https://acme.example"}
		cfg.Force = true

		targets, err := filterFreshTargets(context.Background(), cfg, db, logger)
		if err != nil {
			t.Fatalf("filterFreshTargets returned error: %v", err)
		}
		if len(targets) != 1 {
			t.Errorf("targets = %v, expected forced rescan", targets)
		}
	})
}

// TestGetSiteConfig tests per-target site config resolution.
func TestGetSiteConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.SiteConfigs = &config.File{
		Defaults: config.SiteConfig{
			Headers: map[string]string{"Accept-Language": "en-US"},
		},
		Sites: map[string]config.SiteConfig{
			"acme.example": {Cookie: "consent=accepted"},
		},
	}

	t.Run("merges site config over defaults", func(t *testing.T) {
		t.Parallel()

		site := getSiteConfig(cfg, "https://www.acme.example/pricing")
		if site.Cookie != "consent=accepted" {
			t.Errorf("Cookie = %q", site.Cookie)
		}
		if site.Headers["Accept-Language"] != "en-US" {
			t.Error("defaults not merged")
		}
	})

	t.Run("unknown site gets defaults", func(t *testing.T) {
		t.Parallel()

		site := getSiteConfig(cfg, "https://other.example")
		if site.Cookie != "" {
			t.Errorf("Cookie = %q, expected empty", site.Cookie)
		}
		if site.Headers["Accept-Language"] != "en-US" {
			t.Error("defaults not applied")
		}
	})

	t.Run("nil site configs yields zero value", func(t *testing.T) {
		t.Parallel()

		empty := config.NewConfig()
		site := getSiteConfig(empty, "https://acme.example")
		if site.Cookie != "" || len(site.Headers) != 0 {
			t.Errorf("expected zero-value site config, got %+v", site)
		}
	})
}
