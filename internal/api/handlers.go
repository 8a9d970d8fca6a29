package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/brandscan/brandscan/internal/database"
	"github.com/brandscan/brandscan/internal/model"
)

// maxScanRequestBody bounds the POST /scans request body.
const maxScanRequestBody = 4 * 1024

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error string `json:"error"`
}

// healthResponse is the health check payload.
type healthResponse struct {
	Status string `json:"status"`
}

// sitesResponse lists all scanned sites.
type sitesResponse struct {
	Sites []string `json:"sites"`
}

// historyResponse lists scan metadata for one site.
type historyResponse struct {
	Site  string                  `json:"site"`
	Scans []database.ScanMetadata `json:"scans"`
}

// scanRequest is the POST /scans payload.
type scanRequest struct {
	URL string `json:"url"`
}

// handleHealth reports server liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

// handleListSites returns every site with at least one stored scan.
func (s *Server) handleListSites(w http.ResponseWriter, r *http.Request) {
	sites, err := s.store.ListScannedSites(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to list sites")
		return
	}
	if sites == nil {
		sites = []string{}
	}
	s.writeJSON(w, http.StatusOK, sitesResponse{Sites: sites})
}

// handleLatestScan returns the most recent scan for a site.
func (s *Server) handleLatestScan(w http.ResponseWriter, r *http.Request) {
	site := r.PathValue("site")

	report, err := s.store.GetLatestScan(r.Context(), site)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to load scan")
		return
	}
	if report == nil {
		s.writeError(w, http.StatusNotFound, "no scans for site")
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

// handleHistory returns metadata for all scans of a site, newest first.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	site := r.PathValue("site")

	scans, err := s.store.GetScanHistoryWithMetadata(r.Context(), site)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to load history")
		return
	}
	if scans == nil {
		scans = []database.ScanMetadata{}
	}
	s.writeJSON(w, http.StatusOK, historyResponse{
		Site:  model.SiteKey(site),
		Scans: scans,
	})
}

// handleScanByID returns one stored scan report.
func (s *Server) handleScanByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	report, err := s.store.GetScanByID(r.Context(), id)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to load scan")
		return
	}
	if report == nil {
		s.writeError(w, http.StatusNotFound, "scan not found")
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

// handleCreateScan runs a live scan for the requested URL and returns
// the completed report.
func (s *Server) handleCreateScan(w http.ResponseWriter, r *http.Request) {
	if s.scan == nil {
		s.writeError(w, http.StatusServiceUnavailable, "live scanning is not enabled")
		return
	}

	var req scanRequest
	body := io.LimitReader(r.Body, maxScanRequestBody)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validateScanTarget(req.URL); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.scanTimeout)
	defer cancel()

	report, err := s.scan(ctx, req.URL)
	if err != nil {
		s.logger.Warn("live scan failed", "url", req.URL, "error", err)
		if report != nil {
			// Partial results are still worth returning.
			s.writeJSON(w, http.StatusBadGateway, report)
			return
		}
		s.writeError(w, http.StatusBadGateway, "scan failed")
		return
	}

	s.writeJSON(w, http.StatusCreated, report)
}

// validateScanTarget checks that the requested URL is scannable.
func validateScanTarget(target string) error {
	if target == "" {
		return errors.New("url is required")
	}
	u, err := url.Parse(target)
	if err != nil {
		return errors.New("url is not valid")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("url scheme must be http or https")
	}
	if u.Host == "" {
		return errors.New("url host is required")
	}
	return nil
}

// writeJSON writes a JSON response with the given status code.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to encode response", "error", err)
	}
}

// writeError writes a JSON error envelope.
func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}
