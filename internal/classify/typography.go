package classify

import (
	"sort"
	"strings"

	"github.com/brandscan/brandscan/internal/model"
)

// fontGroup accumulates observations for one normalized family within a
// role.
type fontGroup struct {
	family    string
	count     int
	weights   []string
	weightSet map[string]bool
	firstSeen int
}

// addWeight records a weight once, preserving observation order.
func (g *fontGroup) addWeight(w string) {
	if w == "" || g.weightSet[w] {
		return
	}
	g.weightSet[w] = true
	g.weights = append(g.weights, w)
}

// normalizeFamily reduces a font-family list to its first entry with
// quotes and whitespace stripped. An empty result means the usage
// carried no usable family.
func normalizeFamily(family string) string {
	first, _, _ := strings.Cut(family, ",")
	first = strings.TrimSpace(first)
	first = strings.Trim(first, `"'`)
	return strings.TrimSpace(first)
}

// rankFamilies groups usages by normalized family and orders them by
// descending occurrence count, ties by first observation.
func rankFamilies(usages []model.FontUsage) []*fontGroup {
	groups := make(map[string]*fontGroup)
	order := make([]*fontGroup, 0)

	for _, u := range usages {
		family := normalizeFamily(u.Family)
		if family == "" {
			continue
		}
		g, ok := groups[family]
		if !ok {
			g = &fontGroup{
				family:    family,
				weightSet: make(map[string]bool),
				firstSeen: len(order),
			}
			groups[family] = g
			order = append(order, g)
		}
		g.count++
		g.addWeight(u.Weight)
	}

	sort.SliceStable(order, func(i, j int) bool {
		return order[i].count > order[j].count
	})
	return order
}

// summarizeRole builds the winning-family summary for one role's ranked
// groups, falling back to the system default when the role had no
// usages.
func summarizeRole(ranked []*fontGroup) model.FontRoleSummary {
	if len(ranked) == 0 {
		return model.FontRoleSummary{
			Family:  model.DefaultFontFamily,
			Weights: []string{model.DefaultFontWeight},
		}
	}

	summary := model.FontRoleSummary{
		Family:  ranked[0].family,
		Weights: ranked[0].weights,
	}
	if len(summary.Weights) == 0 {
		summary.Weights = []string{model.DefaultFontWeight}
	}
	if len(ranked) > 1 {
		summary.Fallback = ranked[1].family
	}
	return summary
}

// summarizeTypography groups font usages by role, ranks families by
// frequency, and reports the top family per role plus the deduplicated
// union of all observed families (heading ranking first, then body).
func summarizeTypography(usages []model.FontUsage) model.Typography {
	var heading, body []model.FontUsage
	for _, u := range usages {
		switch u.Role {
		case model.RoleHeading:
			heading = append(heading, u)
		case model.RoleBody:
			body = append(body, u)
		}
	}

	headingRanked := rankFamilies(heading)
	bodyRanked := rankFamilies(body)

	seen := make(map[string]bool)
	all := make([]string, 0, len(headingRanked)+len(bodyRanked))
	for _, ranked := range [][]*fontGroup{headingRanked, bodyRanked} {
		for _, g := range ranked {
			if seen[g.family] {
				continue
			}
			seen[g.family] = true
			all = append(all, g.family)
		}
	}

	return model.Typography{
		Heading: summarizeRole(headingRanked),
		Body:    summarizeRole(bodyRanked),
		All:     all,
	}
}
