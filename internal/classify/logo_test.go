package classify

import (
	"testing"

	"github.com/brandscan/brandscan/internal/model"
)

// TestScoreLogo tests the logo scoring formula components.
func TestScoreLogo(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		candidate model.LogoCandidate
		expected  float64
	}{
		{
			name: "svg in header with keyword and logo-sized area",
			candidate: model.LogoCandidate{
				Kind: model.LogoKindSVG, Src: "inline-svg-0", Format: model.FormatSVG,
				Width: 100, Height: 40, InHeader: true, HasLogoKeyword: true,
			},
			expected: 50 + 30 + 40 + 30,
		},
		{
			name: "png in header with keyword",
			candidate: model.LogoCandidate{
				Kind: model.LogoKindImage, Src: "/logo.png", Format: model.FormatPNG,
				Width: 100, Height: 40, InHeader: true, HasLogoKeyword: true,
			},
			expected: 30 + 30 + 40 + 30,
		},
		{
			name: "bare favicon",
			candidate: model.LogoCandidate{
				Kind: model.LogoKindFavicon, Src: "/favicon.ico", Format: model.FormatOther,
			},
			expected: 0,
		},
		{
			name: "area at lower boundary excluded",
			candidate: model.LogoCandidate{
				Kind: model.LogoKindImage, Src: "/a.png", Format: model.FormatPNG,
				Width: 25, Height: 20, // 500 exactly
			},
			expected: 30,
		},
		{
			name: "area at upper boundary excluded",
			candidate: model.LogoCandidate{
				Kind: model.LogoKindImage, Src: "/b.png", Format: model.FormatPNG,
				Width: 250, Height: 200, // 50000 exactly
			},
			expected: 30,
		},
		{
			name: "oversized hero image gets no area bonus",
			candidate: model.LogoCandidate{
				Kind: model.LogoKindImage, Src: "/hero.jpg", Format: model.FormatOther,
				Width: 1920, Height: 600,
			},
			expected: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := scoreLogo(tc.candidate); got != tc.expected {
				t.Errorf("scoreLogo = %v, expected %v", got, tc.expected)
			}
		})
	}
}

// TestRankLogosSVGBeatsPNG covers the format tie-break scenario: an SVG
// and a PNG identical on every other axis, where the SVG's format bonus
// decides.
func TestRankLogosSVGBeatsPNG(t *testing.T) {
	t.Parallel()

	candidates := []model.LogoCandidate{
		{
			Kind: model.LogoKindImage, Src: "/logo.png", Format: model.FormatPNG,
			Width: 100, Height: 40, InHeader: true, HasLogoKeyword: true,
		},
		{
			Kind: model.LogoKindSVG, Src: "inline-svg-0", Format: model.FormatSVG,
			Width: 100, Height: 40, InHeader: true, HasLogoKeyword: true,
		},
	}

	result := rankLogos(candidates)
	if result.Logo == nil {
		t.Fatal("expected a winner")
	}
	if result.Logo.Format != model.FormatSVG {
		t.Errorf("winner format = %q, expected svg", result.Logo.Format)
	}
	if result.Logo.Score != 150 {
		t.Errorf("winner score = %v, expected 150", result.Logo.Score)
	}
	if len(result.Alternates) != 1 {
		t.Fatalf("alternates = %v, expected 1", result.Alternates)
	}
	if result.Alternates[0].Src != "/logo.png" || result.Alternates[0].Format != model.FormatPNG {
		t.Errorf("alternate = %+v, unexpected", result.Alternates[0])
	}
}

// TestRankLogosEmpty verifies a nil winner for an empty candidate list.
func TestRankLogosEmpty(t *testing.T) {
	t.Parallel()

	result := rankLogos(nil)
	if result.Logo != nil {
		t.Errorf("expected nil winner, got %+v", result.Logo)
	}
	if len(result.Alternates) != 0 {
		t.Errorf("expected no alternates, got %v", result.Alternates)
	}
}

// TestRankLogosFaviconOnly verifies even a zero-scored favicon wins when
// it is the only candidate.
func TestRankLogosFaviconOnly(t *testing.T) {
	t.Parallel()

	result := rankLogos([]model.LogoCandidate{
		{Kind: model.LogoKindFavicon, Src: "/favicon.ico", Format: model.FormatOther},
	})
	if result.Logo == nil {
		t.Fatal("expected the favicon to win")
	}
	if result.Logo.Src != "/favicon.ico" || result.Logo.Score != 0 {
		t.Errorf("winner = %+v, unexpected", result.Logo)
	}
}

// TestRankLogosAlternatesCap verifies at most three alternates and the
// src/format-only reduction.
func TestRankLogosAlternatesCap(t *testing.T) {
	t.Parallel()

	candidates := []model.LogoCandidate{
		{Kind: model.LogoKindSVG, Src: "a", Format: model.FormatSVG, InHeader: true},
		{Kind: model.LogoKindImage, Src: "b", Format: model.FormatPNG, InHeader: true},
		{Kind: model.LogoKindImage, Src: "c", Format: model.FormatPNG},
		{Kind: model.LogoKindImage, Src: "d", Format: model.FormatOther},
		{Kind: model.LogoKindFavicon, Src: "e", Format: model.FormatOther},
	}

	result := rankLogos(candidates)
	if result.Logo == nil || result.Logo.Src != "a" {
		t.Fatalf("winner = %+v, expected candidate a", result.Logo)
	}
	if len(result.Alternates) != model.MaxLogoAlternates {
		t.Errorf("alternates count = %d, expected %d", len(result.Alternates), model.MaxLogoAlternates)
	}
}

// TestRankLogosStableTieBreak verifies first-observed wins on equal
// scores.
func TestRankLogosStableTieBreak(t *testing.T) {
	t.Parallel()

	candidates := []model.LogoCandidate{
		{Kind: model.LogoKindImage, Src: "first.png", Format: model.FormatPNG, InHeader: true},
		{Kind: model.LogoKindImage, Src: "second.png", Format: model.FormatPNG, InHeader: true},
	}

	result := rankLogos(candidates)
	if result.Logo == nil || result.Logo.Src != "first.png" {
		t.Errorf("winner = %+v, expected first-observed first.png", result.Logo)
	}
}
