package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/brandscan/brandscan/internal/database"
	"github.com/brandscan/brandscan/internal/model"
)

// newTestServer builds a server over a fresh temp-dir store, seeded
// with the given reports.
func newTestServer(t *testing.T, seed []*model.ScanReport, opts ...ServerOption) *Server {
	t.Helper()

	db, err := database.Open(t.TempDir(), database.DefaultOptions())
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	for _, report := range seed {
		if err := db.SaveScan(context.Background(), report); err != nil {
			t.Fatalf("seed scan: %v", err)
		}
	}

	srv, err := NewServer(db, opts...)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return srv
}

// seedReport builds a stored report for one site.
func seedReport(id, site string, scannedAt time.Time) *model.ScanReport {
	return &model.ScanReport{
		ID:        id,
		Site:      site,
		URL:       "https://" + site + "/",
		ScannedAt: scannedAt,
		Duration:  time.Second,
		Signals: &model.DesignSignals{
			Colors: model.PaletteResult{
				Primary:    "#ff5000",
				Background: "#ffffff",
				Text:       "#000000",
			},
		},
	}
}

// doRequest runs one request against the server's handler.
func doRequest(t *testing.T, srv *Server, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

// TestNewServer verifies constructor validation.
func TestNewServer(t *testing.T) {
	t.Parallel()

	if _, err := NewServer(nil); !errors.Is(err, ErrNilStore) {
		t.Errorf("NewServer(nil) error = %v, expected ErrNilStore", err)
	}
}

// TestHealthEndpoint verifies the liveness check.
func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, nil)
	rec := doRequest(t, srv, http.MethodGet, "/api/v1/health", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp healthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("Status = %q", resp.Status)
	}
}

// TestListSites covers the site listing with and without data.
func TestListSites(t *testing.T) {
	t.Parallel()

	t.Run("empty store returns empty list", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, nil)
		rec := doRequest(t, srv, http.MethodGet, "/api/v1/sites", nil)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var resp sitesResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(resp.Sites) != 0 {
			t.Errorf("Sites = %v", resp.Sites)
		}
	})

	t.Run("lists seeded sites", func(t *testing.T) {
		t.Parallel()

		now := time.Now().UTC()
		srv := newTestServer(t, []*model.ScanReport{
			seedReport("id-1", "acme.example", now),
			seedReport("id-2", "zebra.example", now),
		})
		rec := doRequest(t, srv, http.MethodGet, "/api/v1/sites", nil)

		var resp sitesResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(resp.Sites) != 2 || resp.Sites[0] != "acme.example" {
			t.Errorf("Sites = %v", resp.Sites)
		}
	})
}

// TestLatestScan covers the per-site latest scan lookup.
func TestLatestScan(t *testing.T) {
	t.Parallel()

	t.Run("returns newest scan", func(t *testing.T) {
		t.Parallel()

		now := time.Now().UTC()
		srv := newTestServer(t, []*model.ScanReport{
			seedReport("id-old", "acme.example", now.Add(-time.Hour)),
			seedReport("id-new", "acme.example", now),
		})
		rec := doRequest(t, srv, http.MethodGet, "/api/v1/sites/acme.example", nil)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
		var report model.ScanReport
		if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if report.ID != "id-new" {
			t.Errorf("ID = %q, expected newest scan", report.ID)
		}
	})

	t.Run("unknown site returns 404", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, nil)
		rec := doRequest(t, srv, http.MethodGet, "/api/v1/sites/unknown.example", nil)

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d", rec.Code)
		}
	})
}

// TestScanHistory verifies the metadata-only history listing.
func TestScanHistory(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	srv := newTestServer(t, []*model.ScanReport{
		seedReport("id-1", "acme.example", now.Add(-time.Hour)),
		seedReport("id-2", "acme.example", now),
	})
	rec := doRequest(t, srv, http.MethodGet, "/api/v1/sites/acme.example/history", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp historyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Site != "acme.example" {
		t.Errorf("Site = %q", resp.Site)
	}
	if len(resp.Scans) != 2 || resp.Scans[0].ID != "id-2" {
		t.Errorf("Scans = %+v, expected newest first", resp.Scans)
	}
}

// TestScanByID covers direct report lookup.
func TestScanByID(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, []*model.ScanReport{
		seedReport("id-1", "acme.example", time.Now().UTC()),
	})

	t.Run("found", func(t *testing.T) {
		t.Parallel()

		rec := doRequest(t, srv, http.MethodGet, "/api/v1/scans/id-1", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var report model.ScanReport
		if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if report.Signals == nil || report.Signals.Colors.Primary != "#ff5000" {
			t.Error("stored signals did not round-trip")
		}
	})

	t.Run("missing", func(t *testing.T) {
		t.Parallel()

		rec := doRequest(t, srv, http.MethodGet, "/api/v1/scans/no-such-id", nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d", rec.Code)
		}
	})
}

// TestCreateScan covers the live-scan endpoint.
func TestCreateScan(t *testing.T) {
	t.Parallel()

	t.Run("runs the scan and returns the report", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, nil, WithScanFunc(
			func(ctx context.Context, target string) (*model.ScanReport, error) {
				report := model.NewScanReport(target)
				report.Signals = &model.DesignSignals{
					Colors: model.PaletteResult{Background: "#ffffff", Text: "#000000"},
				}
				return report, nil
			}))

		body := []byte(`{"url": "https://acme.example"}`)
		rec := doRequest(t, srv, http.MethodPost, "/api/v1/scans", body)

		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
		var report model.ScanReport
		if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if report.Site != "acme.example" {
			t.Errorf("Site = %q", report.Site)
		}
	})

	t.Run("rejects invalid targets", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, nil, WithScanFunc(
			func(ctx context.Context, target string) (*model.ScanReport, error) {
				t.Error("scan ran for invalid target")
				return nil, nil
			}))

		cases := []struct {
			name string
			body string
		}{
			{"empty url", `{"url": ""}`},
			{"bad scheme", `{"url": "ftp://acme.example"}`},
			{"no host", `{"url": "https://"}`},
			{"malformed json", `{`},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				t.Parallel()

				rec := doRequest(t, srv, http.MethodPost, "/api/v1/scans", []byte(tc.body))
				if rec.Code != http.StatusBadRequest {
					t.Errorf("status = %d", rec.Code)
				}
			})
		}
	})

	t.Run("disabled without a scan function", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, nil)
		body := []byte(`{"url": "https://acme.example"}`)
		rec := doRequest(t, srv, http.MethodPost, "/api/v1/scans", body)

		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("status = %d", rec.Code)
		}
	})

	t.Run("failed scan with partial report returns it", func(t *testing.T) {
		t.Parallel()

		srv := newTestServer(t, nil, WithScanFunc(
			func(ctx context.Context, target string) (*model.ScanReport, error) {
				report := model.NewScanReport(target)
				report.ErrorMessage = "connection refused"
				return report, errors.New("connection refused")
			}))

		body := []byte(`{"url": "https://down.example"}`)
		rec := doRequest(t, srv, http.MethodPost, "/api/v1/scans", body)

		if rec.Code != http.StatusBadGateway {
			t.Fatalf("status = %d", rec.Code)
		}
		var report model.ScanReport
		if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if report.ErrorMessage != "connection refused" {
			t.Errorf("ErrorMessage = %q", report.ErrorMessage)
		}
	})
}
