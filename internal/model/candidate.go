package model

// ColorCategory identifies which kind of element a color observation
// came from. The category determines the scoring formula applied during
// aggregation, so unknown categories are a contract violation by the
// renderer rather than a missing-signal case.
type ColorCategory string

// Color categories in canonical order. The order is used when reporting
// which categories contributed to a palette entry, so it must stay
// stable across runs.
const (
	// CategoryButton marks colors sampled from button-like elements.
	// Buttons carry the strongest brand intent and dominate scoring.
	CategoryButton ColorCategory = "button"

	// CategoryLink marks anchor text colors.
	CategoryLink ColorCategory = "link"

	// CategoryBackground marks element background colors.
	CategoryBackground ColorCategory = "background"

	// CategoryText marks body text colors. Text colors do not compete
	// in brand-color scoring; they feed role selection directly.
	CategoryText ColorCategory = "text"

	// CategoryBorder marks border colors.
	CategoryBorder ColorCategory = "border"

	// CategorySVG marks fill/stroke colors from inline SVG artwork.
	// Logos usually live here, so SVG carries the strongest
	// per-instance weight.
	CategorySVG ColorCategory = "svg"

	// CategoryAccent marks colors from accent-like elements (badges,
	// highlights, callouts).
	CategoryAccent ColorCategory = "accent"
)

// Categories lists all valid color categories in canonical order.
var Categories = []ColorCategory{
	CategoryButton,
	CategoryLink,
	CategoryBackground,
	CategoryText,
	CategoryBorder,
	CategorySVG,
	CategoryAccent,
}

// Valid reports whether the category is one of the known constants.
func (c ColorCategory) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ColorCandidate is a single observed color occurrence attributed to a
// category, before aggregation. Produced by the renderer; never mutated.
type ColorCandidate struct {
	// Hex is the observed color. It may be any CSS color string; the
	// engine normalizes it and silently drops unparseable values.
	Hex string `json:"hex"`

	// Category is the element category this color was sampled from.
	Category ColorCategory `json:"category"`

	// Area is the approximate rendered area of the element in square
	// pixels. Must be non-negative.
	Area float64 `json:"area"`

	// Visible reports whether the element was visible in the rendered
	// page. Only meaningful for button candidates.
	Visible bool `json:"visible,omitempty"`

	// InHeader reports whether the element sits inside the page header.
	InHeader bool `json:"in_header,omitempty"`

	// Hero reports whether the element is part of the hero section.
	// Only meaningful for background candidates.
	Hero bool `json:"hero,omitempty"`

	// Count is the number of times this exact observation occurred.
	// Zero is treated as one. The renderer pre-folds repeated link and
	// text observations to keep candidate lists small.
	Count int `json:"count,omitempty"`
}

// Occurrences returns the effective occurrence count for the candidate.
func (c ColorCandidate) Occurrences() int {
	if c.Count < 1 {
		return 1
	}
	return c.Count
}

// FontRole distinguishes heading typography from body typography.
type FontRole string

const (
	// RoleHeading marks font usages on h1-h6 elements.
	RoleHeading FontRole = "heading"

	// RoleBody marks font usages on text-bearing elements whose
	// computed size falls in the body-readable range.
	RoleBody FontRole = "body"
)

// Valid reports whether the role is a known constant.
func (r FontRole) Valid() bool {
	return r == RoleHeading || r == RoleBody
}

// FontUsage is a single observed font application on the page.
type FontUsage struct {
	// Family is the raw font-family value as observed. The aggregator
	// normalizes it to the first family in the list with quotes stripped.
	Family string `json:"family"`

	// Role is heading or body.
	Role FontRole `json:"role"`

	// Size is the computed font size (e.g. "16px").
	Size string `json:"size,omitempty"`

	// Weight is the computed font weight (e.g. "400", "bold").
	Weight string `json:"weight,omitempty"`
}

// LogoKind identifies where a logo candidate was found.
type LogoKind string

const (
	// LogoKindImage is an <img> element.
	LogoKindImage LogoKind = "img"

	// LogoKindSVG is an inline <svg> element.
	LogoKindSVG LogoKind = "svg"

	// LogoKindFavicon is a <link rel="icon"> reference.
	LogoKindFavicon LogoKind = "favicon"
)

// LogoFormat identifies the image format of a logo candidate.
type LogoFormat string

const (
	// FormatSVG is vector artwork, the strongest logo signal.
	FormatSVG LogoFormat = "svg"

	// FormatPNG is a raster PNG.
	FormatPNG LogoFormat = "png"

	// FormatOther covers every other format (jpeg, gif, ico, webp).
	FormatOther LogoFormat = "other"
)

// LogoCandidate is a single potential logo observed on the page.
// No candidate is ever rejected outright; even a favicon-only page
// yields a low-scored winner.
type LogoCandidate struct {
	// Kind records how the candidate was found.
	Kind LogoKind `json:"kind"`

	// Src is the candidate's URI. For inline SVG this is a synthetic
	// identifier assigned by the renderer.
	Src string `json:"src"`

	// Width and Height are the rendered dimensions in pixels.
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	// InHeader reports whether the candidate sits inside the header.
	InHeader bool `json:"in_header,omitempty"`

	// HasLogoKeyword reports whether "logo" appears in the candidate's
	// src, alt text, id, or class attributes.
	HasLogoKeyword bool `json:"has_logo_keyword,omitempty"`

	// Format is the detected image format.
	Format LogoFormat `json:"format"`
}

// HeroText carries the prominent page copy passed through untouched to
// tone analysis. The engine never interprets it.
type HeroText struct {
	// Title is the document title.
	Title string `json:"title,omitempty"`

	// Headline is the first prominent heading (usually the hero h1).
	Headline string `json:"headline,omitempty"`

	// Tagline is the text immediately following the headline.
	Tagline string `json:"tagline,omitempty"`

	// MetaDescription is the meta description content.
	MetaDescription string `json:"meta_description,omitempty"`
}

// PageSignals is the complete set of raw observations extracted from one
// rendered page: the four independent candidate collections consumed by
// the classification engine plus the text snapshot used for tone
// analysis. The renderer owns construction; the engine only reads it.
type PageSignals struct {
	// URL is the page these signals were extracted from.
	URL string `json:"url"`

	// Colors is the category-tagged color candidate list.
	Colors []ColorCandidate `json:"colors"`

	// Fonts is the role-tagged font usage list.
	Fonts []FontUsage `json:"fonts"`

	// Logos is the logo candidate list.
	Logos []LogoCandidate `json:"logos"`

	// Hero is the prominent page copy for tone analysis.
	Hero HeroText `json:"hero"`

	// Snapshot is a bounded text-only snapshot of the page body,
	// used by the keyword tone analyzer.
	Snapshot string `json:"snapshot,omitempty"`
}

// MaxSnapshotSize bounds the text snapshot to keep candidate payloads
// small; tone analysis does not benefit from more text than this.
const MaxSnapshotSize = 256 * 1024 // 256 KB

// TruncateSnapshot enforces MaxSnapshotSize on the snapshot.
func (p *PageSignals) TruncateSnapshot() {
	if len(p.Snapshot) > MaxSnapshotSize {
		p.Snapshot = p.Snapshot[:MaxSnapshotSize]
	}
}
