package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/brandscan/brandscan/internal/model"
)

// SimpleWriter outputs human-readable text reports for terminal
// display. Hex colors are rendered with a true-color swatch when the
// terminal supports it; the fatih/color package degrades gracefully
// when it does not.
type SimpleWriter struct {
	baseWriter

	// showEmpty includes role lines even when no candidate qualified.
	showEmpty bool

	// verbose includes palette scores, usage categories, and the
	// performed pipeline steps.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures whether unassigned roles are shown.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose configures verbose output.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a new simple text report writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the scan report in human-readable format.
func (w *SimpleWriter) Write(report *model.ScanReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeColors(&sb, report)
	w.writeTypography(&sb, report)
	w.writeLogo(&sb, report)
	w.writeTone(&sb, report)
	w.writeFooter(&sb, report)

	return fmt.Fprint(w.output, sb.String())
}

// writeHeader writes the report header with scan metadata.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.ScanReport) {
	sb.WriteString(strings.Repeat("=", 70) + "\n")
	sb.WriteString("BRANDSCAN REPORT\n")
	sb.WriteString(strings.Repeat("=", 70) + "\n")
	sb.WriteString(fmt.Sprintf("Site:     %s\n", report.Site))
	sb.WriteString(fmt.Sprintf("URL:      %s\n", report.URL))
	sb.WriteString(fmt.Sprintf("Scanned:  %s (%s)\n",
		report.ScannedAt.Format("2006-01-02 15:04:05 UTC"),
		humanize.Time(report.ScannedAt)))
	sb.WriteString(fmt.Sprintf("Duration: %s\n", report.Duration.Round(timePrecision(report))))

	switch {
	case report.TimedOut:
		sb.WriteString("Status:   TIMED OUT\n")
	case report.ErrorMessage != "":
		sb.WriteString(fmt.Sprintf("Status:   FAILED (%s)\n", report.ErrorMessage))
	default:
		sb.WriteString("Status:   OK\n")
	}
	sb.WriteString("\n")
}

// writeColors writes the color roles and the ranked palette.
func (w *SimpleWriter) writeColors(sb *strings.Builder, report *model.ScanReport) {
	if report.Signals == nil {
		return
	}
	c := report.Signals.Colors

	sb.WriteString("COLOR PALETTE\n")
	sb.WriteString(strings.Repeat("-", 70) + "\n")

	roles := []struct {
		name string
		hex  string
	}{
		{"Primary", c.Primary},
		{"Secondary", c.Secondary},
		{"Accent", c.Accent},
		{"Background", c.Background},
		{"Text", c.Text},
	}
	for _, role := range roles {
		if role.hex == "" {
			if w.showEmpty {
				sb.WriteString(fmt.Sprintf("  %-12s (none)\n", role.name+":"))
			}
			continue
		}
		sb.WriteString(fmt.Sprintf("  %-12s %s %s\n", role.name+":", swatch(role.hex), role.hex))
	}

	if len(c.Palette) > 0 {
		sb.WriteString("\n  Ranked palette:\n")
		for i, entry := range c.Palette {
			line := fmt.Sprintf("    %d. %s %s", i+1, swatch(entry.Color), entry.Color)
			if w.verbose {
				line += fmt.Sprintf("  score=%.1f  usage=%s", entry.Score, strings.Join(entry.Usage, ","))
			}
			sb.WriteString(line + "\n")
		}
	}
	sb.WriteString("\n")
}

// writeTypography writes the font summary.
func (w *SimpleWriter) writeTypography(sb *strings.Builder, report *model.ScanReport) {
	if report.Signals == nil {
		return
	}
	t := report.Signals.Typography

	sb.WriteString("TYPOGRAPHY\n")
	sb.WriteString(strings.Repeat("-", 70) + "\n")
	sb.WriteString(fmt.Sprintf("  Heading: %s\n", formatFontRole(t.Heading)))
	sb.WriteString(fmt.Sprintf("  Body:    %s\n", formatFontRole(t.Body)))
	if len(t.All) > 0 {
		sb.WriteString(fmt.Sprintf("  All:     %s\n", strings.Join(t.All, ", ")))
	}
	sb.WriteString("\n")
}

// writeLogo writes the best-guess logo and alternates.
func (w *SimpleWriter) writeLogo(sb *strings.Builder, report *model.ScanReport) {
	if report.Signals == nil {
		return
	}
	l := report.Signals.Logo

	sb.WriteString("LOGO\n")
	sb.WriteString(strings.Repeat("-", 70) + "\n")

	if l.Logo == nil {
		sb.WriteString("  No logo candidates found.\n\n")
		return
	}

	sb.WriteString(fmt.Sprintf("  Source:  %s\n", l.Logo.Src))
	sb.WriteString(fmt.Sprintf("  Kind:    %s (%s)\n", l.Logo.Kind, l.Logo.Format))
	if l.Logo.Width > 0 && l.Logo.Height > 0 {
		sb.WriteString(fmt.Sprintf("  Size:    %.0fx%.0f px\n", l.Logo.Width, l.Logo.Height))
	}
	if w.verbose {
		sb.WriteString(fmt.Sprintf("  Score:   %.1f\n", l.Logo.Score))
	}
	if len(l.Alternates) > 0 {
		sb.WriteString("  Alternates:\n")
		for _, alt := range l.Alternates {
			sb.WriteString(fmt.Sprintf("    - %s (%s)\n", alt.Src, alt.Format))
		}
	}
	sb.WriteString("\n")
}

// writeTone writes the brand-voice profile, if present.
func (w *SimpleWriter) writeTone(sb *strings.Builder, report *model.ScanReport) {
	if report.Tone == nil {
		return
	}

	sb.WriteString("TONE\n")
	sb.WriteString(strings.Repeat("-", 70) + "\n")
	sb.WriteString(fmt.Sprintf("  Voice: %s\n", report.Tone.Voice))
	if len(report.Tone.Descriptors) > 0 {
		sb.WriteString(fmt.Sprintf("  Descriptors: %s\n", strings.Join(report.Tone.Descriptors, ", ")))
	}
	if w.verbose {
		for _, trait := range report.Tone.Traits {
			sb.WriteString(fmt.Sprintf("    %-14s %.1f\n", trait.Name, trait.Score))
		}
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder, report *model.ScanReport) {
	if w.verbose && len(report.PerformedSteps) > 0 {
		sb.WriteString(fmt.Sprintf("Steps: %s\n", strings.Join(report.PerformedSteps, " > ")))
	}
	sb.WriteString(strings.Repeat("=", 70) + "\n")
	sb.WriteString(fmt.Sprintf("Scan ID: %s\n", report.ID))
}

// formatFontRole renders one font role as a single line.
func formatFontRole(r model.FontRoleSummary) string {
	s := r.Family
	if len(r.Weights) > 0 {
		s += " (weights: " + strings.Join(r.Weights, ", ") + ")"
	}
	if r.Fallback != "" {
		s += ", fallback " + r.Fallback
	}
	return s
}

// swatch renders a colored block for the given hex color. Falls back to
// a plain marker when the value cannot be parsed.
func swatch(hex string) string {
	r, g, b, ok := parseHex(hex)
	if !ok {
		return "[ ]"
	}
	return color.BgRGB(r, g, b).Sprint("   ")
}

// parseHex splits a #rrggbb color into its channels.
func parseHex(hex string) (r, g, b int, ok bool) {
	if len(hex) != 7 || hex[0] != '#' {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int(v >> 16), int(v >> 8 & 0xff), int(v & 0xff), true
}

// timePrecision picks a display rounding for the scan duration.
func timePrecision(report *model.ScanReport) time.Duration {
	if report.Duration >= time.Second {
		return 10 * time.Millisecond
	}
	return time.Millisecond
}
