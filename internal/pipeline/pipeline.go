// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline turns raw records into ranked, annotated category
// results: fetch, normalize, filter, classify, score, annotate, rank.
// Each category yields an immutable CategoryResult; the cross-category
// highlight list is folded from those results rather than accumulated.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/pdiddy/clinical-briefing/internal/annotate"
	"github.com/pdiddy/clinical-briefing/internal/classify"
	"github.com/pdiddy/clinical-briefing/internal/normalize"
	"github.com/pdiddy/clinical-briefing/internal/rank"
	"github.com/pdiddy/clinical-briefing/internal/registry"
	"github.com/pdiddy/clinical-briefing/internal/score"
	"github.com/pdiddy/clinical-briefing/pkg/types"
)

// Fetcher retrieves raw records for one category. Implementations may
// return an error; the pipeline treats it as an empty category.
type Fetcher interface {
	Fetch(ctx context.Context, category types.Category) ([]types.RawRecord, error)
}

// Recorder observes per-category outcomes (e.g. run metrics). Optional.
type Recorder interface {
	ObserveCategory(result types.CategoryResult)
}

// Processor is the pure core: it holds immutable rule sets and turns raw
// records into ranked papers without I/O.
type Processor struct {
	registry   *registry.Registry
	classifier *classify.Classifier
	scorer     *score.Scorer
	annotator  *annotate.Annotator
}

// NewProcessor wires the core components from explicit values.
func NewProcessor(reg *registry.Registry, c *classify.Classifier, s *score.Scorer, a *annotate.Annotator) *Processor {
	return &Processor{registry: reg, classifier: c, scorer: s, annotator: a}
}

// ProcessorFromConfig builds a processor from the run configuration using
// the default scoring weights and annotation rules.
func ProcessorFromConfig(cfg types.PipelineConfig) (*Processor, error) {
	reg, err := registry.FromConfig(cfg.Registry)
	if err != nil {
		return nil, err
	}
	return NewProcessor(
		reg,
		classify.New(cfg.Classifier),
		score.New(score.DefaultWeights()),
		annotate.New(annotate.DefaultRules()),
	), nil
}

// Paper builds the fully derived Paper for one record.
func (p *Processor) Paper(raw types.RawRecord) types.Paper {
	paper := normalize.Record(raw)
	paper = p.classifier.Apply(paper)
	prestige := p.registry.Lookup(paper.Journal)
	paper.PrestigeScore = prestige.ImpactFactor
	paper.TopTierJournal = prestige.TopTier
	if paper.IsLowValue {
		return paper
	}
	return p.scorer.Apply(paper)
}

// Process normalizes, filters, scores, annotates and ranks records for
// one category. It returns the ranked papers and the number excluded as
// low value.
func (p *Processor) Process(records []types.RawRecord) ([]types.AnnotatedPaper, int) {
	papers := make([]types.AnnotatedPaper, 0, len(records))
	excluded := 0
	for _, raw := range records {
		paper := p.Paper(raw)
		if paper.IsLowValue {
			excluded++
			continue
		}
		papers = append(papers, types.AnnotatedPaper{
			Paper:      paper,
			Annotation: p.annotator.Annotate(paper),
		})
	}
	return rank.WithinCategory(papers), excluded
}

// Pipeline runs the processor over every configured category.
type Pipeline struct {
	processor   *Processor
	fetcher     Fetcher
	categories  []types.Category
	practiceTop bool
	logger      *slog.Logger
	recorder    Recorder
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger (default slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithRecorder attaches a recorder notified after each category.
func WithRecorder(r Recorder) Option {
	return func(p *Pipeline) { p.recorder = r }
}

// New returns a pipeline over cfg.Categories.
func New(cfg types.PipelineConfig, processor *Processor, fetcher Fetcher, opts ...Option) *Pipeline {
	cats := make([]types.Category, len(cfg.Categories))
	copy(cats, cfg.Categories)
	p := &Pipeline{
		processor:   processor,
		fetcher:     fetcher,
		categories:  cats,
		practiceTop: cfg.Briefing.PracticeChangingOnly,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run processes every category in configuration order. Retrieval failures
// produce empty categories; Run itself never fails.
func (p *Pipeline) Run(ctx context.Context) Result {
	started := time.Now()
	results := make([]types.CategoryResult, 0, len(p.categories))
	for _, cat := range p.categories {
		results = append(results, p.runCategory(ctx, cat))
	}
	return Result{
		categories:   results,
		practiceOnly: p.practiceTop,
		GeneratedAt:  started,
		Duration:     time.Since(started),
	}
}

func (p *Pipeline) runCategory(ctx context.Context, cat types.Category) types.CategoryResult {
	res := types.CategoryResult{Category: cat}

	records, err := p.fetcher.Fetch(ctx, cat)
	if err != nil {
		p.logger.Warn("fetch failed; category left empty", "category", cat.Name, "error", err)
		res.FetchError = err.Error()
		records = nil
	}
	res.Fetched = len(records)
	res.Papers, res.Excluded = p.processor.Process(records)

	p.logger.Info("category processed",
		"category", cat.Name,
		"fetched", res.Fetched,
		"excluded", res.Excluded,
		"ranked", len(res.Papers),
	)
	if p.recorder != nil {
		p.recorder.ObserveCategory(res)
	}
	return res
}
