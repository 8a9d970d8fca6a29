package database

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/brandscan/brandscan/internal/model"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) *ScanDB {
	t.Helper()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// sampleReport builds a minimal completed report for storage tests.
func sampleReport(t *testing.T, target string) *model.ScanReport {
	t.Helper()

	report := model.NewScanReport(target)
	report.Duration = 1500 * time.Millisecond
	report.Signals = &model.DesignSignals{
		Colors: model.PaletteResult{
			Primary:    "#ff5000",
			Background: "#ffffff",
			Text:       "#000000",
		},
	}
	report.Tone = &model.ToneProfile{Voice: "precise and engineering-led"}
	return report
}

// TestOpen tests database opening and creation.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "newdir", "subdir")
		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if _, err := os.Stat(filepath.Join(dbDir, dbFileName)); os.IsNotExist(err) {
			t.Error("database file was not created")
		}
	})

	t.Run("fails when database missing and creation disabled", func(t *testing.T) {
		t.Parallel()

		_, err := Open(t.TempDir(), Options{CreateIfNotExists: false})
		if err == nil {
			t.Fatal("expected error for missing database")
		}
		if !strings.Contains(err.Error(), "not found") {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

// TestSaveAndGetLatestScan round-trips a report through storage.
func TestSaveAndGetLatestScan(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	report := sampleReport(t, "https://www.acme.example/pricing")
	if err := db.SaveScan(ctx, report); err != nil {
		t.Fatalf("SaveScan failed: %v", err)
	}

	// Lookup accepts both raw site keys and full URLs.
	for _, site := range []string{"acme.example", "https://acme.example"} {
		got, err := db.GetLatestScan(ctx, site)
		if err != nil {
			t.Fatalf("GetLatestScan(%q) failed: %v", site, err)
		}
		if got == nil {
			t.Fatalf("GetLatestScan(%q) returned nil", site)
		}
		if got.ID != report.ID {
			t.Errorf("ID = %q, expected %q", got.ID, report.ID)
		}
		if got.Signals == nil || got.Signals.Colors.Primary != "#ff5000" {
			t.Errorf("stored signals = %+v", got.Signals)
		}
	}
}

// TestSaveScanUpsert verifies saving the same scan ID twice updates in
// place.
func TestSaveScanUpsert(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	report := sampleReport(t, "https://acme.example")
	if err := db.SaveScan(ctx, report); err != nil {
		t.Fatalf("SaveScan failed: %v", err)
	}

	report.Signals.Colors.Primary = "#0066cc"
	if err := db.SaveScan(ctx, report); err != nil {
		t.Fatalf("second SaveScan failed: %v", err)
	}

	history, err := db.GetScanHistory(ctx, "acme.example")
	if err != nil {
		t.Fatalf("GetScanHistory failed: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("history length = %d, expected 1", len(history))
	}
	if history[0].Signals.Colors.Primary != "#0066cc" {
		t.Errorf("Primary = %q after upsert", history[0].Signals.Colors.Primary)
	}
}

// TestSaveScanRejectsMissingID verifies the ID requirement.
func TestSaveScanRejectsMissingID(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	if err := db.SaveScan(context.Background(), &model.ScanReport{}); err == nil {
		t.Error("expected error for report without ID")
	}
}

// TestGetScanByID covers lookup hits and misses.
func TestGetScanByID(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	report := sampleReport(t, "https://acme.example")
	if err := db.SaveScan(ctx, report); err != nil {
		t.Fatalf("SaveScan failed: %v", err)
	}

	got, err := db.GetScanByID(ctx, report.ID)
	if err != nil {
		t.Fatalf("GetScanByID failed: %v", err)
	}
	if got == nil || got.URL != report.URL {
		t.Errorf("got %+v", got)
	}

	missing, err := db.GetScanByID(ctx, "no-such-id")
	if err != nil {
		t.Fatalf("GetScanByID for missing scan failed: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing scan, got %+v", missing)
	}
}

// TestScanHistoryOrder verifies newest-first ordering.
func TestScanHistoryOrder(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	older := sampleReport(t, "https://acme.example")
	older.ScannedAt = time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	newer := sampleReport(t, "https://acme.example")
	newer.ScannedAt = time.Date(2026, 2, 20, 12, 0, 0, 0, time.UTC)

	for _, r := range []*model.ScanReport{older, newer} {
		if err := db.SaveScan(ctx, r); err != nil {
			t.Fatalf("SaveScan failed: %v", err)
		}
	}

	history, err := db.GetScanHistory(ctx, "acme.example")
	if err != nil {
		t.Fatalf("GetScanHistory failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history length = %d, expected 2", len(history))
	}
	if history[0].ID != newer.ID {
		t.Errorf("history[0].ID = %q, expected the newer scan", history[0].ID)
	}
}

// TestScanHistoryMetadata verifies the denormalized columns survive the
// round trip.
func TestScanHistoryMetadata(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	report := sampleReport(t, "https://acme.example")
	if err := db.SaveScan(ctx, report); err != nil {
		t.Fatalf("SaveScan failed: %v", err)
	}

	metas, err := db.GetScanHistoryWithMetadata(ctx, "acme.example")
	if err != nil {
		t.Fatalf("GetScanHistoryWithMetadata failed: %v", err)
	}
	if len(metas) != 1 {
		t.Fatalf("metadata length = %d, expected 1", len(metas))
	}

	meta := metas[0]
	if meta.ID != report.ID {
		t.Errorf("ID = %q", meta.ID)
	}
	if !strings.Contains(meta.PaletteSummary, "primary=#ff5000") {
		t.Errorf("PaletteSummary = %q", meta.PaletteSummary)
	}
	if meta.ToneVoice != "precise and engineering-led" {
		t.Errorf("ToneVoice = %q", meta.ToneVoice)
	}
	if meta.Duration != 1500*time.Millisecond {
		t.Errorf("Duration = %v", meta.Duration)
	}
	if meta.ScannedAt.IsZero() {
		t.Error("ScannedAt is zero")
	}
}

// TestListScannedSites verifies distinct alphabetical site listing.
func TestListScannedSites(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	for _, target := range []string{
		"https://zeta.example",
		"https://acme.example",
		"https://acme.example/pricing",
	} {
		if err := db.SaveScan(ctx, sampleReport(t, target)); err != nil {
			t.Fatalf("SaveScan failed: %v", err)
		}
	}

	sites, err := db.ListScannedSites(ctx)
	if err != nil {
		t.Fatalf("ListScannedSites failed: %v", err)
	}
	want := []string{"acme.example", "zeta.example"}
	if len(sites) != len(want) {
		t.Fatalf("sites = %v, expected %v", sites, want)
	}
	for i := range want {
		if sites[i] != want[i] {
			t.Errorf("sites[%d] = %q, expected %q", i, sites[i], want[i])
		}
	}
}

// TestHasRecentScan verifies the freshness window check.
func TestHasRecentScan(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	report := sampleReport(t, "https://acme.example")
	if err := db.SaveScan(ctx, report); err != nil {
		t.Fatalf("SaveScan failed: %v", err)
	}

	recent, err := db.HasRecentScan(ctx, "acme.example", time.Hour)
	if err != nil {
		t.Fatalf("HasRecentScan failed: %v", err)
	}
	if !recent {
		t.Error("expected a recent scan within the hour")
	}

	never, err := db.HasRecentScan(ctx, "other.example", time.Hour)
	if err != nil {
		t.Fatalf("HasRecentScan failed: %v", err)
	}
	if never {
		t.Error("unscanned site reported as recent")
	}
}

// TestSaveScanDropsOversizedRaw verifies large raw signals are shed
// before persistence while the report itself survives.
func TestSaveScanDropsOversizedRaw(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	report := sampleReport(t, "https://acme.example")
	report.Raw = &model.PageSignals{
		URL:      report.URL,
		Snapshot: strings.Repeat("brand copy ", maxStoredRawSize/10),
	}
	if err := db.SaveScan(ctx, report); err != nil {
		t.Fatalf("SaveScan failed: %v", err)
	}

	got, err := db.GetScanByID(ctx, report.ID)
	if err != nil {
		t.Fatalf("GetScanByID failed: %v", err)
	}
	if got.Raw != nil {
		t.Error("oversized raw signals were stored")
	}
	if got.Signals == nil {
		t.Error("classified signals were lost")
	}
}
