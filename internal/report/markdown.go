package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/markdown"

	"github.com/brandscan/brandscan/internal/model"
)

// MarkdownWriter outputs reports in Markdown format, suitable for
// GitHub issues, wikis, and documentation.
//
// Design decision: We use the nao1215/markdown library rather than
// string concatenation because it guarantees well-formed tables and
// GitHub alert syntax.
type MarkdownWriter struct {
	baseWriter
}

// MarkdownWriterOption configures a MarkdownWriter.
type MarkdownWriterOption func(*MarkdownWriter)

// NewMarkdownWriter creates a new Markdown report writer.
func NewMarkdownWriter(output io.Writer, opts ...MarkdownWriterOption) *MarkdownWriter {
	w := &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the scan report as Markdown.
func (w *MarkdownWriter) Write(report *model.ScanReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Brandscan Report")
	w.writeOverview(md, report)
	w.writeStatus(md, report)

	if report.Signals != nil {
		w.writeColors(md, &report.Signals.Colors)
		w.writeTypography(md, &report.Signals.Typography)
		w.writeLogo(md, &report.Signals.Logo)
	}
	if report.Tone != nil {
		w.writeTone(md, report.Tone)
	}

	md.HorizontalRule()
	md.PlainTextf("Scan ID: `%s`", report.ID)

	rendered := md.String()
	return len(rendered), md.Build()
}

// writeOverview writes the scan metadata table.
func (w *MarkdownWriter) writeOverview(md *markdown.Markdown, report *model.ScanReport) {
	md.Table(markdown.TableSet{
		Header: []string{"Field", "Value"},
		Rows: [][]string{
			{"Site", report.Site},
			{"URL", report.URL},
			{"Scanned", report.ScannedAt.Format("2006-01-02 15:04:05 UTC")},
			{"Duration", report.Duration.String()},
		},
	})
}

// writeStatus writes a GitHub alert reflecting the scan outcome.
func (w *MarkdownWriter) writeStatus(md *markdown.Markdown, report *model.ScanReport) {
	switch {
	case report.TimedOut:
		md.Warningf("Scan timed out before completing; results below are partial.")
	case report.ErrorMessage != "":
		md.Cautionf("Scan failed: %s", report.ErrorMessage)
	case report.Signals != nil && report.Signals.Colors.Primary != "":
		md.Note(fmt.Sprintf("Primary brand color: `%s`", report.Signals.Colors.Primary))
	}
}

// writeColors writes the color role table and ranked palette.
func (w *MarkdownWriter) writeColors(md *markdown.Markdown, c *model.PaletteResult) {
	md.H2("Color Palette")

	roleRows := [][]string{}
	for _, role := range []struct{ name, hex string }{
		{"Primary", c.Primary},
		{"Secondary", c.Secondary},
		{"Accent", c.Accent},
		{"Background", c.Background},
		{"Text", c.Text},
	} {
		hex := role.hex
		if hex == "" {
			hex = "-"
		} else {
			hex = "`" + hex + "`"
		}
		roleRows = append(roleRows, []string{role.name, hex})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Role", "Color"},
		Rows:   roleRows,
	})

	if len(c.Palette) == 0 {
		md.PlainText("No qualifying brand colors were observed.")
		return
	}

	paletteRows := make([][]string, 0, len(c.Palette))
	for i, entry := range c.Palette {
		paletteRows = append(paletteRows, []string{
			fmt.Sprintf("%d", i+1),
			"`" + entry.Color + "`",
			fmt.Sprintf("%.1f", entry.Score),
			strings.Join(entry.Usage, ", "),
		})
	}
	md.H3("Ranked Palette")
	md.Table(markdown.TableSet{
		Header: []string{"Rank", "Color", "Score", "Usage"},
		Rows:   paletteRows,
	})
}

// writeTypography writes the font summary table.
func (w *MarkdownWriter) writeTypography(md *markdown.Markdown, t *model.Typography) {
	md.H2("Typography")
	md.Table(markdown.TableSet{
		Header: []string{"Role", "Family", "Weights", "Fallback"},
		Rows: [][]string{
			{"Heading", t.Heading.Family, strings.Join(t.Heading.Weights, ", "), orDash(t.Heading.Fallback)},
			{"Body", t.Body.Family, strings.Join(t.Body.Weights, ", "), orDash(t.Body.Fallback)},
		},
	})
	if len(t.All) > 0 {
		md.PlainTextf("Observed families: %s", strings.Join(t.All, ", "))
	}
}

// writeLogo writes the logo result section.
func (w *MarkdownWriter) writeLogo(md *markdown.Markdown, l *model.LogoResult) {
	md.H2("Logo")

	if l.Logo == nil {
		md.PlainText("No logo candidates found.")
		return
	}

	size := "-"
	if l.Logo.Width > 0 && l.Logo.Height > 0 {
		size = fmt.Sprintf("%.0fx%.0f px", l.Logo.Width, l.Logo.Height)
	}
	md.Table(markdown.TableSet{
		Header: []string{"Source", "Kind", "Format", "Size", "Score"},
		Rows: [][]string{
			{l.Logo.Src, string(l.Logo.Kind), string(l.Logo.Format), size, fmt.Sprintf("%.1f", l.Logo.Score)},
		},
	})

	if len(l.Alternates) > 0 {
		items := make([]string, 0, len(l.Alternates))
		for _, alt := range l.Alternates {
			items = append(items, fmt.Sprintf("%s (%s)", alt.Src, alt.Format))
		}
		md.H3("Alternates")
		md.BulletList(items...)
	}
}

// writeTone writes the brand-voice section.
func (w *MarkdownWriter) writeTone(md *markdown.Markdown, tone *model.ToneProfile) {
	md.H2("Tone")
	md.PlainText(tone.Voice)

	if len(tone.Traits) > 0 {
		rows := make([][]string, 0, len(tone.Traits))
		for _, trait := range tone.Traits {
			rows = append(rows, []string{trait.Name, fmt.Sprintf("%.1f", trait.Score)})
		}
		md.Table(markdown.TableSet{
			Header: []string{"Trait", "Score"},
			Rows:   rows,
		})
	}
}

// orDash substitutes a dash for empty table cells.
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
