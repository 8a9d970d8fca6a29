package classify

import (
	"log/slog"

	"github.com/brandscan/brandscan/internal/model"
)

// Engine runs the full classification over one page's extracted signals.
// It is stateless between invocations; every Classify call owns its own
// accumulation maps, so a single Engine is safe for concurrent scans.
type Engine struct {
	// logger for structured logging. Classification is pure, so the
	// logger only emits debug summaries.
	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets a custom logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates a classification engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// Classify converts raw page signals into the classified design
// fingerprint. It returns ErrInvalidInput only for contract violations
// in the input shape; absence of signal (no buttons, no logos, empty
// lists) always degrades to documented defaults.
//
// The computation is a single pass over the candidates plus final sorts
// over at most a few hundred distinct colors.
func (e *Engine) Classify(signals *model.PageSignals) (*model.DesignSignals, error) {
	if err := validateSignals(signals); err != nil {
		return nil, err
	}

	agg := newAggregator()
	var backgrounds, texts []model.ColorCandidate
	for _, c := range signals.Colors {
		agg.observe(c)
		// Background and text role assignment reads the raw candidate
		// lists, independent of the competitive score map.
		switch c.Category {
		case model.CategoryBackground:
			backgrounds = append(backgrounds, c)
		case model.CategoryText:
			texts = append(texts, c)
		}
	}
	agg.finalize()

	result := &model.DesignSignals{
		Colors:     selectPalette(agg.scores(), backgrounds, texts),
		Typography: summarizeTypography(signals.Fonts),
		Logo:       rankLogos(signals.Logos),
	}

	e.logger.Debug("classification completed",
		"url", signals.URL,
		"color_candidates", len(signals.Colors),
		"distinct_colors", len(agg.scores()),
		"palette_size", len(result.Colors.Palette),
		"primary", result.Colors.Primary,
		"heading_font", result.Typography.Heading.Family,
		"logo_found", result.Logo.Logo != nil,
	)

	return result, nil
}
