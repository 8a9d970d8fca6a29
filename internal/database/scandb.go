package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/brandscan/brandscan/internal/model"
)

// dbFileName is the SQLite file created inside the data directory.
const dbFileName = "brandscan.db"

// maxStoredRawSize bounds the raw page signals stored alongside a
// report. Raw signals above this size are dropped before persistence;
// the classified report is always kept whole.
const maxStoredRawSize = 512 * 1024 // 512 KB

// ScanDB provides SQLite-based storage for scan reports.
//
// Design decision: one database file covers all scanned sites rather
// than a file per site. This keeps history queries across sites cheap
// and makes backup a single-file copy.
type ScanDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures ScanDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent
	// read performance. Recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a ScanDB inside the specified directory.
// If CreateIfNotExists is true, the directory and database file are
// created as needed; otherwise a missing database is an error.
func Open(dbDir string, opts Options) (*ScanDB, error) {
	dbPath := filepath.Join(dbDir, dbFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating
	// new files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports only one writer; a single pooled connection
	// avoids lock contention between goroutines.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	sdb := &ScanDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := sdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return sdb, nil
}

// Close closes the database connection.
func (sdb *ScanDB) Close() error {
	return sdb.db.Close()
}

// Path returns the path to the SQLite database file.
func (sdb *ScanDB) Path() string {
	return sdb.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (sdb *ScanDB) createTables() error {
	schema := `
	-- Scan reports store complete results as JSON plus denormalized
	-- columns for history listings
	CREATE TABLE IF NOT EXISTS scans (
		id TEXT PRIMARY KEY,
		site TEXT NOT NULL,
		url TEXT NOT NULL,
		scanned_at DATETIME NOT NULL,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		report_json TEXT NOT NULL,
		palette_summary TEXT,
		tone_voice TEXT,
		error_message TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_scans_site ON scans(site);
	CREATE INDEX IF NOT EXISTS idx_scans_scanned_at ON scans(scanned_at);
	`

	_, err := sdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveScan persists a completed scan report. Raw page signals above
// maxStoredRawSize are dropped from the stored JSON; everything else is
// kept verbatim.
func (sdb *ScanDB) SaveScan(ctx context.Context, report *model.ScanReport) error {
	if report == nil || report.ID == "" {
		return errors.New("scan report has no ID")
	}

	stored := *report
	if stored.Raw != nil {
		if rawJSON, err := json.Marshal(stored.Raw); err != nil || len(rawJSON) > maxStoredRawSize {
			stored.Raw = nil
		}
	}

	reportJSON, err := json.Marshal(&stored)
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}

	toneVoice := ""
	if stored.Tone != nil {
		toneVoice = stored.Tone.Voice
	}

	query := `
	INSERT INTO scans (id, site, url, scanned_at, duration_ms, report_json, palette_summary, tone_voice, error_message)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		site = excluded.site,
		url = excluded.url,
		scanned_at = excluded.scanned_at,
		duration_ms = excluded.duration_ms,
		report_json = excluded.report_json,
		palette_summary = excluded.palette_summary,
		tone_voice = excluded.tone_voice,
		error_message = excluded.error_message
	`

	_, err = sdb.db.ExecContext(ctx, query,
		stored.ID,
		stored.Site,
		stored.URL,
		stored.ScannedAt.UTC().Format("2006-01-02 15:04:05"),
		stored.Duration.Milliseconds(),
		string(reportJSON),
		stored.PaletteSummary(),
		toneVoice,
		stored.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("failed to save scan: %w", err)
	}

	return nil
}

// GetLatestScan retrieves the most recent scan report for a site.
// Returns nil without error when the site was never scanned.
func (sdb *ScanDB) GetLatestScan(ctx context.Context, site string) (*model.ScanReport, error) {
	query := `
	SELECT report_json FROM scans
	WHERE site = ?
	ORDER BY scanned_at DESC
	LIMIT 1
	`
	return sdb.queryOne(ctx, query, model.SiteKey(site))
}

// GetScanByID retrieves a scan report by its UUID.
// Returns nil without error when no such scan exists.
func (sdb *ScanDB) GetScanByID(ctx context.Context, id string) (*model.ScanReport, error) {
	query := `
	SELECT report_json FROM scans
	WHERE id = ?
	`
	return sdb.queryOne(ctx, query, id)
}

// queryOne runs a single-report query and decodes the JSON row.
func (sdb *ScanDB) queryOne(ctx context.Context, query string, args ...any) (*model.ScanReport, error) {
	var reportJSON string
	err := sdb.db.QueryRowContext(ctx, query, args...).Scan(&reportJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scan: %w", err)
	}

	var report model.ScanReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	return &report, nil
}

// GetScanHistory retrieves all scan reports for a site, newest first.
func (sdb *ScanDB) GetScanHistory(ctx context.Context, site string) ([]*model.ScanReport, error) {
	query := `
	SELECT report_json FROM scans
	WHERE site = ?
	ORDER BY scanned_at DESC
	`

	rows, err := sdb.db.QueryContext(ctx, query, model.SiteKey(site))
	if err != nil {
		return nil, fmt.Errorf("failed to get scan history: %w", err)
	}
	defer rows.Close()

	var reports []*model.ScanReport
	for rows.Next() {
		var reportJSON string
		if err := rows.Scan(&reportJSON); err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}

		var report model.ScanReport
		if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
			continue // Skip malformed reports
		}
		reports = append(reports, &report)
	}

	return reports, rows.Err()
}

// ScanMetadata contains summary information about one stored scan.
// Used for history listings without loading full reports.
type ScanMetadata struct {
	// ID is the scan UUID.
	ID string `json:"id"`

	// Site is the normalized site key.
	Site string `json:"site"`

	// URL is the scanned URL.
	URL string `json:"url"`

	// ScannedAt is when the scan was performed.
	ScannedAt time.Time `json:"scanned_at"`

	// Duration is how long the scan took.
	Duration time.Duration `json:"duration"`

	// PaletteSummary is the compact role-color summary line.
	PaletteSummary string `json:"palette_summary,omitempty"`

	// ToneVoice is the one-line brand voice, if tone analysis ran.
	ToneVoice string `json:"tone_voice,omitempty"`

	// ErrorMessage carries the scan's first error, if any.
	ErrorMessage string `json:"error_message,omitempty"`
}

// GetScanHistoryWithMetadata retrieves scan metadata for a site,
// newest first. More efficient than GetScanHistory when full reports
// are not needed.
func (sdb *ScanDB) GetScanHistoryWithMetadata(ctx context.Context, site string) ([]ScanMetadata, error) {
	query := `
	SELECT id, site, url, scanned_at, duration_ms, palette_summary, tone_voice, error_message
	FROM scans
	WHERE site = ?
	ORDER BY scanned_at DESC
	`

	rows, err := sdb.db.QueryContext(ctx, query, model.SiteKey(site))
	if err != nil {
		return nil, fmt.Errorf("failed to get scan history: %w", err)
	}
	defer rows.Close()

	var results []ScanMetadata
	for rows.Next() {
		var meta ScanMetadata
		var scannedAt string
		var durationMS int64
		var palette, voice, errMsg sql.NullString

		if err := rows.Scan(&meta.ID, &meta.Site, &meta.URL, &scannedAt, &durationMS, &palette, &voice, &errMsg); err != nil {
			return nil, fmt.Errorf("failed to scan metadata row: %w", err)
		}

		meta.ScannedAt = parseTimestamp(scannedAt)
		meta.Duration = time.Duration(durationMS) * time.Millisecond
		meta.PaletteSummary = palette.String
		meta.ToneVoice = voice.String
		meta.ErrorMessage = errMsg.String
		results = append(results, meta)
	}

	return results, rows.Err()
}

// ListScannedSites returns the distinct sites with stored scans,
// alphabetically.
func (sdb *ScanDB) ListScannedSites(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT site FROM scans
	ORDER BY site
	`

	rows, err := sdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}
	defer rows.Close()

	var sites []string
	for rows.Next() {
		var site string
		if err := rows.Scan(&site); err != nil {
			return nil, fmt.Errorf("failed to scan site row: %w", err)
		}
		sites = append(sites, site)
	}

	return sites, rows.Err()
}

// HasRecentScan checks whether a site was scanned within the specified
// duration. Used to skip refetching fresh sites in batch mode.
func (sdb *ScanDB) HasRecentScan(ctx context.Context, site string, within time.Duration) (bool, error) {
	query := `
	SELECT COUNT(*) FROM scans
	WHERE site = ? AND scanned_at > datetime('now', ?)
	`

	// SQLite datetime modifier format
	modifier := fmt.Sprintf("-%d seconds", int(within.Seconds()))

	var count int
	err := sdb.db.QueryRowContext(ctx, query, model.SiteKey(site), modifier).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check recent scan: %w", err)
	}

	return count > 0, nil
}

// timestampFormats contains the timestamp formats that SQLite may
// return. The order matters: more specific formats come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple
// formats. SQLite may return timestamps in different formats depending
// on configuration. If parsing fails with all formats, returns zero
// time rather than failing the query.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
