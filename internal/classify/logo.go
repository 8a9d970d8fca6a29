package classify

import (
	"sort"

	"github.com/brandscan/brandscan/internal/model"
)

// Logo ranking bonuses. Vector formats win because they scale cleanly
// and are almost always the real logo asset; the area band rewards
// logo-sized images over icons and hero banners.
const (
	logoSVGBonus     = 50.0
	logoPNGBonus     = 30.0
	logoAreaBonus    = 30.0
	logoAreaMin      = 500.0
	logoAreaMax      = 50000.0
	logoHeaderBonus  = 40.0
	logoKeywordBonus = 30.0
)

// scoreLogo computes the ranking score for one candidate. No candidate
// is ever rejected outright; a favicon-only page still yields a
// low-scored winner.
func scoreLogo(c model.LogoCandidate) float64 {
	var score float64

	switch c.Format {
	case model.FormatSVG:
		score += logoSVGBonus
	case model.FormatPNG:
		score += logoPNGBonus
	}

	if area := c.Width * c.Height; area > logoAreaMin && area < logoAreaMax {
		score += logoAreaBonus
	}
	if c.InHeader {
		score += logoHeaderBonus
	}
	if c.HasLogoKeyword {
		score += logoKeywordBonus
	}
	return score
}

// rankLogos scores all candidates and picks the winner plus up to three
// alternates. The sort is stable, so equal scores keep first-observed
// precedence. An empty candidate list yields a nil winner.
func rankLogos(candidates []model.LogoCandidate) model.LogoResult {
	if len(candidates) == 0 {
		return model.LogoResult{}
	}

	type scored struct {
		candidate model.LogoCandidate
		score     float64
	}
	ranked := make([]scored, len(candidates))
	for i, c := range candidates {
		ranked[i] = scored{candidate: c, score: scoreLogo(c)}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	winner := ranked[0]
	result := model.LogoResult{
		Logo: &model.Logo{
			Src:    winner.candidate.Src,
			Kind:   winner.candidate.Kind,
			Format: winner.candidate.Format,
			Width:  winner.candidate.Width,
			Height: winner.candidate.Height,
			Score:  winner.score,
		},
	}

	for _, alt := range ranked[1:min(len(ranked), 1+model.MaxLogoAlternates)] {
		result.Alternates = append(result.Alternates, model.LogoRef{
			Src:    alt.candidate.Src,
			Format: alt.candidate.Format,
		})
	}
	return result
}
