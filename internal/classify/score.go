package classify

import (
	"github.com/brandscan/brandscan/internal/colorutil"
	"github.com/brandscan/brandscan/internal/model"
)

// Scoring constants for the per-category formulas. Buttons dominate
// because they carry explicit brand intent; SVG carries the strongest
// per-instance weight because logos live there.
const (
	buttonVisibleBase   = 100.0
	buttonHiddenBase    = 50.0
	buttonAreaDivisor   = 1000.0
	buttonAreaBonusCap  = 50.0
	buttonVibrancyScale = 100.0

	linkCountScale    = 10.0
	linkVibrancyScale = 30.0

	backgroundHeroScore    = 30.0
	backgroundDefaultScore = 15.0

	borderCountScale    = 15.0
	borderVibrancyScale = 40.0
	borderMinVibrancy   = 0.3

	svgHeaderBonus   = 150.0
	svgDefaultBonus  = 50.0
	svgVibrancyScale = 80.0

	accentBase          = 60.0
	accentVibrancyScale = 60.0
)

// colorScore accumulates the competitive score for one normalized color.
//
// Invariant: total always equals the sum of byCategory values; every
// contribution updates both together.
type colorScore struct {
	// hex is the normalized lowercase hex color.
	hex string

	// total is the aggregate score across all categories.
	total float64

	// byCategory holds the per-category subtotals.
	byCategory map[model.ColorCategory]float64

	// vibrancy is computed once at first insertion and never recomputed.
	vibrancy float64

	// firstSeen is the insertion index used for stable tie-breaking.
	firstSeen int
}

// subtotal returns the category subtotal, zero when absent.
func (s *colorScore) subtotal(c model.ColorCategory) float64 {
	return s.byCategory[c]
}

// aggregator accumulates color scores for one classification run. It is
// a local value owned by the invocation; nothing is shared across scans.
type aggregator struct {
	// entries indexes scores by normalized hex.
	entries map[string]*colorScore

	// order preserves insertion order for deterministic tie-breaking.
	order []*colorScore

	// linkCounts and borderCounts fold occurrence frequencies per
	// distinct color; their formulas apply once per color at finalize.
	linkCounts   map[string]int
	borderCounts map[string]int
}

func newAggregator() *aggregator {
	return &aggregator{
		entries:      make(map[string]*colorScore),
		linkCounts:   make(map[string]int),
		borderCounts: make(map[string]int),
	}
}

// entry returns the score entry for hex, creating it on first sight.
// Vibrancy is computed exactly once here.
func (a *aggregator) entry(hex string) *colorScore {
	if e, ok := a.entries[hex]; ok {
		return e
	}
	e := &colorScore{
		hex:        hex,
		byCategory: make(map[model.ColorCategory]float64),
		vibrancy:   colorutil.Vibrancy(hex),
		firstSeen:  len(a.order),
	}
	a.entries[hex] = e
	a.order = append(a.order, e)
	return e
}

// add applies a contribution to both the total and the category
// subtotal, preserving the additivity invariant.
func (a *aggregator) add(hex string, category model.ColorCategory, score float64) {
	e := a.entry(hex)
	e.total += score
	e.byCategory[category] += score
}

// observe routes one candidate to its category formula. Unparseable
// colors are dropped silently; that is a normal outcome, not an error.
// Text candidates do not compete for brand-color score at all; they are
// consumed directly by role selection.
func (a *aggregator) observe(c model.ColorCandidate) {
	hex, ok := colorutil.Normalize(c.Hex)
	if !ok {
		return
	}

	switch c.Category {
	case model.CategoryButton:
		base := buttonHiddenBase
		if c.Visible {
			base = buttonVisibleBase
		}
		areaBonus := min(c.Area/buttonAreaDivisor, buttonAreaBonusCap)
		vib := a.entry(hex).vibrancy
		score := base + areaBonus + vib*buttonVibrancyScale
		a.add(hex, c.Category, score*float64(c.Occurrences()))

	case model.CategoryLink:
		// Neutral link colors are plain text styling, not brand signal.
		if colorutil.IsNeutral(hex) {
			return
		}
		a.entry(hex) // fix first-seen order at observation time
		a.linkCounts[hex] += c.Occurrences()

	case model.CategoryBackground:
		score := backgroundDefaultScore
		if c.Hero {
			score = backgroundHeroScore
		}
		a.add(hex, c.Category, score*float64(c.Occurrences()))

	case model.CategoryBorder:
		// Low-vibrancy borders contribute nothing; the gate also
		// excludes all neutral colors (vibrancy <= saturation < 0.15).
		if colorutil.Vibrancy(hex) <= borderMinVibrancy {
			return
		}
		a.entry(hex)
		a.borderCounts[hex] += c.Occurrences()

	case model.CategorySVG:
		bonus := svgDefaultBonus
		if c.InHeader {
			bonus = svgHeaderBonus
		}
		vib := a.entry(hex).vibrancy
		score := bonus + vib*svgVibrancyScale
		a.add(hex, c.Category, score*float64(c.Occurrences()))

	case model.CategoryAccent:
		vib := a.entry(hex).vibrancy
		score := accentBase + vib*accentVibrancyScale
		a.add(hex, c.Category, score*float64(c.Occurrences()))

	case model.CategoryText:
		// Intentionally not scored.
	}
}

// finalize applies the frequency-counted link and border formulas, once
// per distinct color. Must be called exactly once, after all observe
// calls.
func (a *aggregator) finalize() {
	// Iterate in insertion order so float accumulation is reproducible.
	for _, e := range a.order {
		if count, ok := a.linkCounts[e.hex]; ok && count > 0 {
			score := float64(count)*linkCountScale + e.vibrancy*linkVibrancyScale
			a.add(e.hex, model.CategoryLink, score)
		}
		if count, ok := a.borderCounts[e.hex]; ok && count > 0 {
			score := float64(count)*borderCountScale + e.vibrancy*borderVibrancyScale
			a.add(e.hex, model.CategoryBorder, score)
		}
	}
	a.linkCounts = nil
	a.borderCounts = nil
}

// scores returns all accumulated entries in insertion order.
func (a *aggregator) scores() []*colorScore {
	return a.order
}
