package classify

import (
	"sort"

	"github.com/brandscan/brandscan/internal/colorutil"
	"github.com/brandscan/brandscan/internal/model"
)

// minBackgroundArea is the smallest element area that can claim the page
// background role. Anything smaller is a panel or card, not the page.
const minBackgroundArea = 50000.0

// colorRule is one predicate in a selection cascade. Rules are evaluated
// in order against the ranked list; the first entry matching the first
// satisfiable rule wins.
//
// Design decision: The cascades are expressed as ordered rule lists
// rather than nested conditionals so each rule stays independently
// testable and the fallback order reads top to bottom.
type colorRule func(e *colorScore) bool

// firstMatch returns the first ranked entry satisfying any rule, trying
// rules in priority order. Entries whose hex appears in exclude are
// skipped. Returns nil when nothing matches.
func firstMatch(ranked []*colorScore, rules []colorRule, exclude ...string) *colorScore {
	excluded := func(hex string) bool {
		for _, x := range exclude {
			if hex == x {
				return true
			}
		}
		return false
	}

	for _, rule := range rules {
		for _, e := range ranked {
			if excluded(e.hex) {
				continue
			}
			if rule(e) {
				return e
			}
		}
	}
	return nil
}

// primaryRules is the fallback cascade for the primary brand color:
// a strongly-scored button color first, then any punchy high scorer,
// then a button color regardless of neutrality, then whatever ranked
// highest.
var primaryRules = []colorRule{
	func(e *colorScore) bool {
		return e.subtotal(model.CategoryButton) > 50 && !colorutil.IsNeutralOrDark(e.hex)
	},
	func(e *colorScore) bool {
		return !colorutil.IsNeutralOrDark(e.hex) && e.total > 50
	},
	func(e *colorScore) bool {
		return e.subtotal(model.CategoryButton) > 50
	},
	func(e *colorScore) bool {
		return true
	},
}

// hasInteractiveSignal reports whether the color scored in any
// interactive category (link, button, border).
func hasInteractiveSignal(e *colorScore) bool {
	return e.subtotal(model.CategoryLink) != 0 ||
		e.subtotal(model.CategoryButton) != 0 ||
		e.subtotal(model.CategoryBorder) != 0
}

// secondaryRules requires an interactive-category signal, preferring
// non-neutral colors and relaxing neutrality only when nothing else
// qualifies.
var secondaryRules = []colorRule{
	func(e *colorScore) bool {
		return hasInteractiveSignal(e) && !colorutil.IsNeutralOrDark(e.hex)
	},
	hasInteractiveSignal,
}

// accentRules takes any remaining punchy color.
var accentRules = []colorRule{
	func(e *colorScore) bool {
		return !colorutil.IsNeutralOrDark(e.hex)
	},
}

// rankColors filters the score entries to valid brand colors and sorts
// them by descending total. The sort is stable over insertion order, so
// equal scores keep first-observed precedence.
func rankColors(scores []*colorScore) []*colorScore {
	ranked := make([]*colorScore, 0, len(scores))
	for _, e := range scores {
		if colorutil.IsValidBrandColor(e.hex) {
			ranked = append(ranked, e)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].total > ranked[j].total
	})
	return ranked
}

// selectPalette assigns the color roles and builds the ranked palette.
// backgrounds and texts are the raw candidate lists for those
// categories; their role assignment does not depend on the competitive
// score map. Any missing signal degrades to the documented default,
// never an error.
func selectPalette(scores []*colorScore, backgrounds, texts []model.ColorCandidate) model.PaletteResult {
	ranked := rankColors(scores)

	result := model.PaletteResult{
		Background: model.DefaultBackground,
		Text:       model.DefaultText,
	}

	if primary := firstMatch(ranked, primaryRules); primary != nil {
		result.Primary = primary.hex
	}

	if secondary := firstMatch(ranked, secondaryRules, result.Primary); secondary != nil {
		result.Secondary = secondary.hex
	}

	result.Backgrounds = selectBackgrounds(backgrounds)
	if len(result.Backgrounds) > 0 {
		result.Background = result.Backgrounds[0]
	}

	result.TextColors = selectTextColors(texts)
	if len(result.TextColors) > 0 {
		result.Text = result.TextColors[0]
	}

	if accent := firstMatch(ranked, accentRules, result.Primary, result.Secondary); accent != nil {
		result.Accent = accent.hex
	}

	result.Palette = buildRankedPalette(ranked)
	return result
}

// selectBackgrounds picks up to three distinct large-area background
// colors, largest first.
func selectBackgrounds(candidates []model.ColorCandidate) []string {
	type bg struct {
		hex  string
		area float64
	}

	large := make([]bg, 0, len(candidates))
	for _, c := range candidates {
		hex, ok := colorutil.Normalize(c.Hex)
		if !ok || c.Area <= minBackgroundArea {
			continue
		}
		large = append(large, bg{hex: hex, area: c.Area})
	}

	sort.SliceStable(large, func(i, j int) bool {
		return large[i].area > large[j].area
	})

	seen := make(map[string]bool, 3)
	out := make([]string, 0, 3)
	for _, b := range large {
		if seen[b.hex] {
			continue
		}
		seen[b.hex] = true
		out = append(out, b.hex)
		if len(out) == 3 {
			break
		}
	}
	return out
}

// selectTextColors picks the top two distinct text colors by occurrence
// frequency, ties broken by first observation. Text colors are not
// passed through brand-color validity; near-black body text is the
// normal case, not noise.
func selectTextColors(candidates []model.ColorCandidate) []string {
	counts := make(map[string]int)
	order := make([]string, 0, len(candidates))

	for _, c := range candidates {
		hex, ok := colorutil.Normalize(c.Hex)
		if !ok {
			continue
		}
		if _, seen := counts[hex]; !seen {
			order = append(order, hex)
		}
		counts[hex] += c.Occurrences()
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > 2 {
		order = order[:2]
	}
	return order
}

// buildRankedPalette reports the top entries with their scores and the
// categories that contributed, in canonical category order.
func buildRankedPalette(ranked []*colorScore) []model.PaletteEntry {
	limit := min(len(ranked), model.MaxPaletteSize)
	palette := make([]model.PaletteEntry, 0, limit)

	for _, e := range ranked[:limit] {
		usage := make([]string, 0, len(e.byCategory))
		for _, category := range model.Categories {
			if e.subtotal(category) != 0 {
				usage = append(usage, string(category))
			}
		}
		palette = append(palette, model.PaletteEntry{
			Color: e.hex,
			Score: e.total,
			Usage: usage,
		})
	}
	return palette
}
