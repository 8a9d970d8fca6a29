package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These are chosen for public web pages served over ordinary
// connections; all of them can be overridden via CLI flags.
const (
	// DefaultTimeout is the per-page fetch timeout. 30 seconds is
	// generous for a single HTML document; pages slower than this
	// rarely produce usable design signal anyway.
	DefaultTimeout = 30 * time.Second

	// DefaultBatchSize of 5 concurrent scans balances throughput with
	// politeness toward target sites. Higher values are safe for scan
	// lists spanning many distinct hosts.
	DefaultBatchSize = 5

	// AppName is the application name used for XDG directory paths.
	AppName = "brandscan"

	// DefaultUserAgent identifies brandscan in HTTP requests.
	// A descriptive User-Agent lets site operators identify scanner
	// traffic in their logs.
	DefaultUserAgent = "Mozilla/5.0 (compatible; brandscan/1.0; +https://github.com/brandscan/brandscan)"

	// DefaultMaxBodySize limits the response body size to read.
	// 5MB covers real-world HTML documents while preventing memory
	// exhaustion from unexpectedly large responses.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultViewportWidth and DefaultViewportHeight define the assumed
	// viewport for area estimation. A common desktop resolution keeps
	// full-page backgrounds above the large-background threshold.
	DefaultViewportWidth  = 1920
	DefaultViewportHeight = 1080

	// DefaultFreshness is the window within which an existing stored
	// scan is considered current. Batch scans skip sites scanned more
	// recently than this unless forced.
	DefaultFreshness = 24 * time.Hour
)

// Config holds all configuration options for brandscan.
// This struct is populated from CLI flags and passed through the
// application via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested
// structs (e.g., FetchConfig, ReportConfig) for simplicity. The number
// of options is manageable, and nesting would add complexity without
// significant benefit.
type Config struct {
	// Timeout is the fetch timeout for each page request.
	Timeout time.Duration

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// BatchSize is the number of concurrent scans when processing
	// multiple targets.
	BatchSize int

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .brandscan in the current
	// directory and then in the user's home directory.
	ConfigFilePath string

	// SiteConfigs holds site-specific configurations loaded from the
	// config file. Populated by LoadConfigFile and used during fetches.
	SiteConfigs *File

	// JSONReport enables JSON report output instead of the
	// human-readable format. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of the
	// human-readable format. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	// Directories are created automatically if they don't exist.
	ReportFile string

	// Targets is the list of URLs to scan.
	Targets []string

	// DBDir is the directory path for storing the SQLite database.
	// When empty, scan results are not persisted.
	// Defaults to the XDG data directory when persistence is enabled.
	DBDir string

	// SaveToDB indicates whether to save scan results to the database.
	// Automatically set to true when DBDir is configured.
	SaveToDB bool

	// SkipTone disables tone-of-voice analysis.
	SkipTone bool

	// KeepRaw retains the extracted raw page signals in the report.
	// Useful for debugging extraction; off by default to keep reports
	// small.
	KeepRaw bool

	// Freshness is the window within which a stored scan is considered
	// current. Zero means DefaultFreshness.
	Freshness time.Duration

	// Force rescans targets even when a stored scan is still within the
	// freshness window.
	Force bool

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Responses larger than this are truncated. Zero means the default.
	MaxBodySize int64

	// ViewportWidth and ViewportHeight define the assumed viewport in
	// pixels for element area estimation.
	ViewportWidth  int
	ViewportHeight int
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use
// cases. Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., timeout,
// viewport). This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Timeout:        DefaultTimeout,
		BatchSize:      DefaultBatchSize,
		UserAgent:      DefaultUserAgent,
		MaxBodySize:    DefaultMaxBodySize,
		ViewportWidth:  DefaultViewportWidth,
		ViewportHeight: DefaultViewportHeight,
		Freshness:      DefaultFreshness,
	}
}

// XDGDataDir returns the XDG data directory for brandscan.
// On Linux: ~/.local/share/brandscan
// On macOS: ~/Library/Application Support/brandscan
// On Windows: %LOCALAPPDATA%\brandscan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for brandscan.
// On Linux: ~/.config/brandscan
// On macOS: ~/Library/Application Support/brandscan
// On Windows: %APPDATA%\brandscan
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for brandscan.
// On Linux: ~/.cache/brandscan
// On macOS: ~/Library/Caches/brandscan
// On Windows: %LOCALAPPDATA%\brandscan\cache
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any scanning begins.
// The first error found is returned rather than collecting all errors,
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	if c.ViewportWidth <= 0 || c.ViewportHeight <= 0 {
		return ErrInvalidViewport
	}

	if c.Freshness < 0 {
		return ErrInvalidFreshness
	}

	return nil
}
