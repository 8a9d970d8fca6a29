package tone

import (
	"context"
	"sort"
	"strings"

	"github.com/brandscan/brandscan/internal/model"
)

// Analyzer produces a tone profile from page signals. Implementations
// must be safe for concurrent use across independent scans.
type Analyzer interface {
	// Name returns the analyzer's name for logging and step reporting.
	Name() string

	// Analyze derives the tone profile. A page with no usable text
	// yields a nil profile and a nil error; absence of signal is not
	// a failure.
	Analyze(ctx context.Context, signals *model.PageSignals) (*model.ToneProfile, error)
}

// dimension is one tone axis with its trigger vocabulary. Hero copy
// matches count double because the headline is the voice the brand
// chose to lead with.
type dimension struct {
	name     string
	voice    string
	keywords []string
}

// dimensions is the fixed tone vocabulary, in reporting priority order
// for equal scores.
var dimensions = []dimension{
	{
		name:  "professional",
		voice: "confident and businesslike",
		keywords: []string{
			"enterprise", "solution", "professional", "compliance", "trusted",
			"industry", "proven", "reliable", "secure", "certified", "partner",
		},
	},
	{
		name:  "playful",
		voice: "upbeat and playful",
		keywords: []string{
			"fun", "awesome", "love", "happy", "joy", "play", "delight",
			"magic", "wow", "exciting", "amazing",
		},
	},
	{
		name:  "luxurious",
		voice: "refined and exclusive",
		keywords: []string{
			"luxury", "premium", "exclusive", "bespoke", "elegant", "crafted",
			"curated", "signature", "timeless", "finest",
		},
	},
	{
		name:  "bold",
		voice: "direct and ambitious",
		keywords: []string{
			"bold", "powerful", "revolution", "transform", "unleash",
			"dominate", "breakthrough", "fearless", "disrupt", "supercharge",
		},
	},
	{
		name:  "minimal",
		voice: "calm and understated",
		keywords: []string{
			"simple", "simplicity", "minimal", "clean", "effortless",
			"focus", "clarity", "essential", "lightweight",
		},
	},
	{
		name:  "technical",
		voice: "precise and engineering-led",
		keywords: []string{
			"api", "sdk", "developer", "infrastructure", "open source",
			"performance", "latency", "scalable", "deploy", "integrate",
		},
	},
	{
		name:  "friendly",
		voice: "warm and approachable",
		keywords: []string{
			"welcome", "together", "community", "help", "easy", "friendly",
			"support", "care", "everyone", "human",
		},
	},
}

// heroWeight multiplies keyword hits found in hero copy relative to
// hits in the body snapshot.
const heroWeight = 2.0

// maxDescriptors caps the reported tone descriptors.
const maxDescriptors = 3

// KeywordAnalyzer scores the fixed tone vocabulary against page text.
// It holds no per-scan state and is safe for concurrent use.
type KeywordAnalyzer struct{}

// NewKeywordAnalyzer creates the keyword-heuristic tone analyzer.
func NewKeywordAnalyzer() *KeywordAnalyzer {
	return &KeywordAnalyzer{}
}

// Name returns the analyzer name.
func (a *KeywordAnalyzer) Name() string {
	return "keyword_tone"
}

// Analyze scores every tone dimension against the hero copy and the
// page snapshot and reports the strongest dimensions.
func (a *KeywordAnalyzer) Analyze(ctx context.Context, signals *model.PageSignals) (*model.ToneProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if signals == nil {
		return nil, nil
	}

	hero := strings.ToLower(strings.Join([]string{
		signals.Hero.Title,
		signals.Hero.Headline,
		signals.Hero.Tagline,
		signals.Hero.MetaDescription,
	}, " "))
	body := strings.ToLower(signals.Snapshot)

	if strings.TrimSpace(hero) == "" && body == "" {
		return nil, nil
	}

	traits := make([]model.ToneTrait, 0, len(dimensions))
	for _, d := range dimensions {
		var score float64
		for _, kw := range d.keywords {
			score += float64(strings.Count(hero, kw)) * heroWeight
			score += float64(strings.Count(body, kw))
		}
		if score > 0 {
			traits = append(traits, model.ToneTrait{Name: d.name, Score: score})
		}
	}

	if len(traits) == 0 {
		// Text exists but matches nothing in the vocabulary; report a
		// neutral profile rather than nothing so the scan records that
		// tone analysis ran.
		return &model.ToneProfile{Voice: "neutral and descriptive"}, nil
	}

	// Stable sort keeps vocabulary priority order on equal scores.
	sort.SliceStable(traits, func(i, j int) bool {
		return traits[i].Score > traits[j].Score
	})

	descriptors := make([]string, 0, maxDescriptors)
	for _, tr := range traits[:min(len(traits), maxDescriptors)] {
		descriptors = append(descriptors, tr.Name)
	}

	return &model.ToneProfile{
		Voice:       voiceFor(traits[0].Name),
		Descriptors: descriptors,
		Traits:      traits,
	}, nil
}

// voiceFor maps a dimension name to its one-line voice summary.
func voiceFor(name string) string {
	for _, d := range dimensions {
		if d.name == name {
			return d.voice
		}
	}
	return "neutral and descriptive"
}
