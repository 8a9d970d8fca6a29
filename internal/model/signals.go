package model

// DesignSignals is the classified design fingerprint of one page: the
// decisive result set distilled from hundreds of raw candidates. It is
// a library boundary, not a wire format; the caller merges it with scan
// metadata and tone output before persistence.
type DesignSignals struct {
	// Colors is the selected color roles and ranked palette.
	Colors PaletteResult `json:"colors"`

	// Typography is the per-role font summary.
	Typography Typography `json:"typography"`

	// Logo is the best-guess logo and alternates.
	Logo LogoResult `json:"logo"`
}

// PaletteResult holds the assigned color roles and the ranked palette.
//
// Role fields use the empty string for "no qualifying candidate"; the
// JSON encoding omits them in that case. Background and Text always
// carry a value because they degrade to defaults rather than absence.
type PaletteResult struct {
	// Primary is the dominant brand color, or empty when no candidate
	// qualified.
	Primary string `json:"primary,omitempty"`

	// Secondary is the second interactive-element color, or empty.
	Secondary string `json:"secondary,omitempty"`

	// Background is the dominant page background. Defaults to
	// DefaultBackground when no large background was observed.
	Background string `json:"background"`

	// Backgrounds is up to three distinct large-area backgrounds,
	// largest first. Background equals Backgrounds[0] when non-empty.
	Backgrounds []string `json:"backgrounds,omitempty"`

	// Text is the dominant text color. Defaults to DefaultText.
	Text string `json:"text"`

	// TextColors is up to two distinct text colors by frequency.
	TextColors []string `json:"text_colors,omitempty"`

	// Accent is a third distinctive color, or empty.
	Accent string `json:"accent,omitempty"`

	// Palette is the ranked, deduplicated, capped list of scored
	// colors: at most MaxPaletteSize entries, descending score, ties
	// broken by first-observed order.
	Palette []PaletteEntry `json:"palette"`
}

// Default role fallbacks when a page yields no usable signal.
const (
	// DefaultBackground is assumed when no large background exists.
	DefaultBackground = "#ffffff"

	// DefaultText is assumed when no text color was observed.
	DefaultText = "#000000"
)

// MaxPaletteSize caps the ranked palette. Eight entries cover every
// realistic brand system; more is noise.
const MaxPaletteSize = 8

// PaletteEntry is one ranked palette color with its aggregate score and
// the categories that contributed to it.
type PaletteEntry struct {
	// Color is the normalized hex color.
	Color string `json:"color"`

	// Score is the aggregated total across all categories.
	Score float64 `json:"score"`

	// Usage lists the categories with a nonzero subtotal for this
	// color, in canonical category order.
	Usage []string `json:"usage"`
}

// Typography summarizes the page's font system.
type Typography struct {
	// Heading is the dominant heading font.
	Heading FontRoleSummary `json:"heading"`

	// Body is the dominant body font.
	Body FontRoleSummary `json:"body"`

	// All is the deduplicated union of families across both roles,
	// ordered by heading rank then body rank.
	All []string `json:"all"`
}

// FontRoleSummary describes the winning font family for one role.
type FontRoleSummary struct {
	// Family is the normalized family name, or DefaultFontFamily when
	// no usages were observed for the role.
	Family string `json:"family"`

	// Weights is the set of observed weights, insertion-ordered.
	Weights []string `json:"weights"`

	// Fallback is the second-ranked family for the role, if any.
	Fallback string `json:"fallback,omitempty"`
}

// Typography defaults when a role has no observed usages.
const (
	// DefaultFontFamily stands in for an unobserved font stack.
	DefaultFontFamily = "System Default"

	// DefaultFontWeight is the assumed weight for the default family.
	DefaultFontWeight = "400"
)

// LogoResult is the outcome of logo ranking: the winner (nil when the
// page offered no candidates at all) plus up to MaxLogoAlternates
// lower-ranked options.
type LogoResult struct {
	// Logo is the top-scored candidate, or nil.
	Logo *Logo `json:"logo,omitempty"`

	// Alternates are the next-ranked candidates, reduced to source and
	// format only.
	Alternates []LogoRef `json:"alternates,omitempty"`
}

// MaxLogoAlternates caps the alternates list.
const MaxLogoAlternates = 3

// Logo is the selected logo with its ranking score retained for
// explainability.
type Logo struct {
	// Src is the logo URI.
	Src string `json:"src"`

	// Kind records how the logo was found (img, svg, favicon).
	Kind LogoKind `json:"kind"`

	// Format is the detected image format.
	Format LogoFormat `json:"format"`

	// Width and Height are the rendered dimensions in pixels.
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`

	// Score is the ranking score that selected this candidate.
	Score float64 `json:"score"`
}

// LogoRef is a minimal reference to a non-winning logo candidate.
type LogoRef struct {
	// Src is the candidate URI.
	Src string `json:"src"`

	// Format is the detected image format.
	Format LogoFormat `json:"format"`
}

// ToneProfile is the brand-voice summary produced by tone analysis.
// It is computed outside the classification engine and merged into the
// scan report by the caller.
type ToneProfile struct {
	// Voice is a one-line description of the brand voice.
	Voice string `json:"voice"`

	// Descriptors are the top-scoring tone dimensions, best first.
	Descriptors []string `json:"descriptors,omitempty"`

	// Traits carries the per-dimension scores behind Descriptors,
	// for explainability.
	Traits []ToneTrait `json:"traits,omitempty"`
}

// ToneTrait is one scored tone dimension.
type ToneTrait struct {
	// Name is the tone dimension (e.g. "professional").
	Name string `json:"name"`

	// Score is the keyword-match score for the dimension.
	Score float64 `json:"score"`
}
