package model

import (
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ScanReport is the envelope for one completed scan: the classified
// design signals merged with tone output and scan metadata. This is the
// unit of persistence and reporting.
type ScanReport struct {
	// ID is a UUID assigned when the scan starts.
	ID string `json:"id"`

	// Site is the normalized host of the scanned URL. Used as the
	// grouping key for scan history.
	Site string `json:"site"`

	// URL is the exact URL that was scanned.
	URL string `json:"url"`

	// ScannedAt is when the scan started (UTC).
	ScannedAt time.Time `json:"scanned_at"`

	// Duration is how long the scan took end to end.
	Duration time.Duration `json:"duration"`

	// Signals is the classified design fingerprint. Nil when the page
	// could not be fetched.
	Signals *DesignSignals `json:"signals,omitempty"`

	// Tone is the brand-voice summary. Nil when tone analysis was
	// skipped or had no text to work with.
	Tone *ToneProfile `json:"tone,omitempty"`

	// Raw is the extracted page signals the classification ran on.
	// Retained for re-classification and debugging; excluded from
	// stored reports by the database layer when large.
	Raw *PageSignals `json:"raw,omitempty"`

	// PerformedSteps lists the pipeline steps that ran, in order.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// TimedOut reports whether the scan was cancelled before finishing.
	TimedOut bool `json:"timed_out,omitempty"`

	// ErrorMessage carries the first step error, if any. The scan
	// still produces whatever partial results were collected.
	ErrorMessage string `json:"error_message,omitempty"`
}

// NewScanReport creates a report shell for the given target URL with a
// fresh UUID and the current time.
func NewScanReport(target string) *ScanReport {
	return &ScanReport{
		ID:        uuid.NewString(),
		Site:      SiteKey(target),
		URL:       target,
		ScannedAt: time.Now().UTC(),
	}
}

// SiteKey derives the history grouping key from a URL: the lowercase
// host without a www prefix. Unparseable input falls back to the raw
// string so history lookups still work on whatever the user typed.
func SiteKey(target string) string {
	u, err := url.Parse(target)
	if err != nil || u.Host == "" {
		return strings.ToLower(strings.TrimPrefix(target, "www."))
	}
	host := strings.ToLower(u.Hostname())
	return strings.TrimPrefix(host, "www.")
}

// PaletteSummary returns a compact single-line summary of the selected
// colors for history listings: role colors in a fixed order, empty roles
// skipped.
func (r *ScanReport) PaletteSummary() string {
	if r.Signals == nil {
		return ""
	}
	c := r.Signals.Colors
	parts := make([]string, 0, 4)
	for _, role := range []struct{ name, hex string }{
		{"primary", c.Primary},
		{"secondary", c.Secondary},
		{"accent", c.Accent},
		{"background", c.Background},
	} {
		if role.hex != "" {
			parts = append(parts, role.name+"="+role.hex)
		}
	}
	return strings.Join(parts, " ")
}
