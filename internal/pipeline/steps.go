package pipeline

import (
	"context"
	"log/slog"

	"github.com/brandscan/brandscan/internal/classify"
	"github.com/brandscan/brandscan/internal/database"
	"github.com/brandscan/brandscan/internal/model"
	"github.com/brandscan/brandscan/internal/renderer"
	"github.com/brandscan/brandscan/internal/tone"
)

// FetchStep renders the target page and attaches the raw design
// observations to the report.
//
// Design decision: Fetching is a separate step because:
// 1. It's the only step that touches the network
// 2. Its failure is fatal for the scan while later steps degrade
// 3. It can be replaced with a saved-document source for re-analysis
type FetchStep struct {
	// renderer fetches and extracts page signals.
	renderer *renderer.Renderer

	// logger for structured logging.
	logger *slog.Logger
}

// FetchStepOption configures a FetchStep.
type FetchStepOption func(*FetchStep)

// WithFetchLogger sets a custom logger for the fetch step.
func WithFetchLogger(logger *slog.Logger) FetchStepOption {
	return func(s *FetchStep) {
		s.logger = logger
	}
}

// NewFetchStep creates a new page fetching step.
func NewFetchStep(r *renderer.Renderer, opts ...FetchStepOption) *FetchStep {
	s := &FetchStep{
		renderer: r,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *FetchStep) Name() string {
	return "fetch"
}

// Do fetches the page and stores the extracted signals on the report.
// A fetch failure is critical; without raw signals nothing downstream
// can run.
func (s *FetchStep) Do(ctx context.Context, report *model.ScanReport) error {
	signals, err := s.renderer.Render(ctx, report.URL)
	if err != nil {
		return err
	}

	report.Raw = signals
	s.logger.Debug("page fetched",
		"url", report.URL,
		"colors", len(signals.Colors),
		"fonts", len(signals.Fonts),
		"logos", len(signals.Logos),
	)
	return nil
}

// ClassifyStep runs the design classification engine over the raw
// signals collected by the fetch step.
//
// Design decision: Classification is separate from fetching because:
// 1. It is pure computation with no I/O
// 2. Stored raw signals can be re-classified without refetching
// 3. Engine failures (contract violations) should be attributable
type ClassifyStep struct {
	// engine is the classification engine.
	engine *classify.Engine

	// logger for structured logging.
	logger *slog.Logger
}

// ClassifyStepOption configures a ClassifyStep.
type ClassifyStepOption func(*ClassifyStep)

// WithClassifyLogger sets a custom logger for the classify step.
func WithClassifyLogger(logger *slog.Logger) ClassifyStepOption {
	return func(s *ClassifyStep) {
		s.logger = logger
	}
}

// NewClassifyStep creates a new classification step.
func NewClassifyStep(engine *classify.Engine, opts ...ClassifyStepOption) *ClassifyStep {
	s := &ClassifyStep{
		engine: engine,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *ClassifyStep) Name() string {
	return "classify"
}

// Do classifies the raw page signals into a design fingerprint.
func (s *ClassifyStep) Do(ctx context.Context, report *model.ScanReport) error {
	if report.Raw == nil {
		s.logger.Debug("skipping classification, no page signals")
		return nil
	}

	signals, err := s.engine.Classify(report.Raw)
	if err != nil {
		return err
	}

	report.Signals = signals
	s.logger.Debug("page classified",
		"site", report.Site,
		"primary", signals.Colors.Primary,
		"palette_size", len(signals.Colors.Palette),
	)
	return nil
}

// ToneStep derives the brand-voice profile from the page text.
//
// Design decision: Tone analysis is a separate step because:
//  1. It consumes text, not design candidates
//  2. It is optional and can be skipped via configuration
//  3. The Analyzer interface allows swapping the heuristic for an
//     LLM-backed implementation without touching the pipeline
type ToneStep struct {
	// analyzer produces the tone profile.
	analyzer tone.Analyzer

	// logger for structured logging.
	logger *slog.Logger
}

// ToneStepOption configures a ToneStep.
type ToneStepOption func(*ToneStep)

// WithToneLogger sets a custom logger for the tone step.
func WithToneLogger(logger *slog.Logger) ToneStepOption {
	return func(s *ToneStep) {
		s.logger = logger
	}
}

// NewToneStep creates a new tone analysis step. A nil analyzer falls
// back to the keyword heuristic.
func NewToneStep(analyzer tone.Analyzer, opts ...ToneStepOption) *ToneStep {
	if analyzer == nil {
		analyzer = tone.NewKeywordAnalyzer()
	}
	s := &ToneStep{
		analyzer: analyzer,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *ToneStep) Name() string {
	return "tone"
}

// Do runs tone analysis. A page without usable text yields no profile;
// that is not an error.
func (s *ToneStep) Do(ctx context.Context, report *model.ScanReport) error {
	if report.Raw == nil {
		s.logger.Debug("skipping tone analysis, no page signals")
		return nil
	}

	profile, err := s.analyzer.Analyze(ctx, report.Raw)
	if err != nil {
		return err
	}

	report.Tone = profile
	if profile != nil {
		s.logger.Debug("tone analyzed",
			"site", report.Site,
			"voice", profile.Voice,
		)
	}
	return nil
}

// PersistStep saves the completed report to the scan database.
//
// Design decision: Persistence is the last step and runs even after a
// classification failure when continueOnError is set, so partial scans
// still leave a record.
type PersistStep struct {
	// db is the scan store.
	db *database.ScanDB

	// keepRaw retains the raw page signals in the stored report.
	keepRaw bool

	// logger for structured logging.
	logger *slog.Logger
}

// PersistStepOption configures a PersistStep.
type PersistStepOption func(*PersistStep)

// WithPersistLogger sets a custom logger for the persist step.
func WithPersistLogger(logger *slog.Logger) PersistStepOption {
	return func(s *PersistStep) {
		s.logger = logger
	}
}

// WithKeepRaw retains raw page signals in the stored report.
func WithKeepRaw(keep bool) PersistStepOption {
	return func(s *PersistStep) {
		s.keepRaw = keep
	}
}

// NewPersistStep creates a new persistence step.
func NewPersistStep(db *database.ScanDB, opts ...PersistStepOption) *PersistStep {
	s := &PersistStep{
		db:     db,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *PersistStep) Name() string {
	return "persist"
}

// Do saves the report. Raw signals are dropped first unless configured
// otherwise; the stored JSON should stay small.
func (s *PersistStep) Do(ctx context.Context, report *model.ScanReport) error {
	if !s.keepRaw {
		report.Raw = nil
	}

	if err := s.db.SaveScan(ctx, report); err != nil {
		return err
	}

	s.logger.Debug("scan saved",
		"site", report.Site,
		"id", report.ID,
	)
	return nil
}

// DefaultPipelineConfig holds configuration for the default pipeline.
type DefaultPipelineConfig struct {
	// SkipTone disables the tone analysis step.
	SkipTone bool

	// KeepRaw retains raw page signals in stored reports.
	KeepRaw bool

	// DB enables the persistence step when non-nil.
	DB *database.ScanDB

	// ToneAnalyzer overrides the default keyword tone analyzer.
	ToneAnalyzer tone.Analyzer
}

// DefaultPipelineOption configures a DefaultPipelineConfig.
type DefaultPipelineOption func(*DefaultPipelineConfig)

// WithPipelineSkipTone disables tone analysis.
func WithPipelineSkipTone(skip bool) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.SkipTone = skip
	}
}

// WithPipelineKeepRaw retains raw page signals in stored reports.
func WithPipelineKeepRaw(keep bool) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.KeepRaw = keep
	}
}

// WithPipelineDB enables persistence into the given store.
func WithPipelineDB(db *database.ScanDB) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.DB = db
	}
}

// WithPipelineToneAnalyzer overrides the tone analyzer implementation.
func WithPipelineToneAnalyzer(analyzer tone.Analyzer) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.ToneAnalyzer = analyzer
	}
}

// DefaultPipeline creates a pipeline with the standard scan steps:
// fetch, classify, tone (optional), persist (optional).
//
// Design decision: We provide a default pipeline because:
// 1. Most users want the full fingerprint
// 2. Reduces boilerplate in CLI
// 3. Ensures consistent ordering
//
// The first variadic parameter accepts pipeline options (WithLogger,
// etc). The second accepts config options (WithPipelineDB, etc).
func DefaultPipeline(r *renderer.Renderer, pipelineOpts []Option, configOpts ...DefaultPipelineOption) *Pipeline {
	p := New(pipelineOpts...)

	cfg := &DefaultPipelineConfig{}
	for _, opt := range configOpts {
		opt(cfg)
	}

	p.AddSteps(
		NewFetchStep(r, WithFetchLogger(p.logger)),
		NewClassifyStep(classify.NewEngine(classify.WithLogger(p.logger)), WithClassifyLogger(p.logger)),
	)
	if !cfg.SkipTone {
		p.AddStep(NewToneStep(cfg.ToneAnalyzer, WithToneLogger(p.logger)))
	}
	if cfg.DB != nil {
		p.AddStep(NewPersistStep(cfg.DB, WithKeepRaw(cfg.KeepRaw), WithPersistLogger(p.logger)))
	}

	return p
}
