// Package pipeline runs one BEFORE/AFTER comparison end to end: extract
// both documents, short-circuit on identical content, classify, reconcile,
// and optionally narrate.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/redline/internal/cache"
	"github.com/ppiankov/redline/internal/classify"
	"github.com/ppiankov/redline/internal/extract"
	"github.com/ppiankov/redline/internal/llm"
	"github.com/ppiankov/redline/internal/metrics"
	"github.com/ppiankov/redline/internal/model"
	"github.com/ppiankov/redline/internal/reconcile"
)

const (
	SideBefore = "before"
	SideAfter  = "after"
)

// SideError reports that one document could not be read
type SideError struct {
	Side string
	Err  error
}

func (e *SideError) Error() string {
	return fmt.Sprintf("%s document: %v", e.Side, e.Err)
}

func (e *SideError) Unwrap() error {
	return e.Err
}

// Pipeline orchestrates the complete comparison
type Pipeline struct {
	extractor  *extract.Extractor
	classifier *classify.Classifier
	engine     *reconcile.Engine
	cache      cache.Cache
	metrics    *metrics.Recorder
	summarizer *llm.Summarizer // nil if disabled
	renderer   *Renderer
	logger     *zap.Logger
	config     *model.Config
	now        func() time.Time
}

// Option customizes a Pipeline
type Option func(*Pipeline)

// WithLogger sets the structured logger
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithMetrics records comparisons on rec
func WithMetrics(rec *metrics.Recorder) Option {
	return func(p *Pipeline) {
		p.metrics = rec
	}
}

// WithCache overrides the cache built from configuration; nil disables it
func WithCache(c cache.Cache) Option {
	return func(p *Pipeline) {
		p.cache = c
	}
}

// WithSummarizer overrides the summarizer built from configuration
func WithSummarizer(s *llm.Summarizer) Option {
	return func(p *Pipeline) {
		p.summarizer = s
	}
}

// NewPipeline creates a new pipeline with the given configuration
func NewPipeline(cfg *model.Config, opts ...Option) *Pipeline {
	p := &Pipeline{
		classifier: classify.NewClassifier(),
		engine:     reconcile.NewEngine(),
		cache:      cache.FromConfig(cfg.Cache),
		renderer:   NewRenderer(cfg.Output),
		logger:     zap.NewNop(),
		config:     cfg,
		now:        time.Now,
	}

	if cfg.LLM.Provider != "" {
		s, err := llm.NewSummarizer(llm.ConfigFromModel(cfg.LLM, cfg.HTTP))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to initialize LLM provider: %v\n", err)
		} else {
			p.summarizer = s
		}
	}

	for _, opt := range opts {
		opt(p)
	}

	p.extractor = extract.NewExtractor(cfg.Extract, extract.NewFetcher(cfg.HTTP), p.logger.Named("extract"))

	return p
}

// Compare reads both references (paths or URLs) and compares them. It fails
// only when neither document can be read.
func (p *Pipeline) Compare(ctx context.Context, beforeRef, afterRef string) (*model.Report, error) {
	start := p.now()

	var (
		g                   errgroup.Group
		before, after       *model.Document
		beforeErr, afterErr error
	)
	g.Go(func() error {
		before, beforeErr = p.extractor.Extract(ctx, beforeRef, "")
		return nil
	})
	g.Go(func() error {
		after, afterErr = p.extractor.Extract(ctx, afterRef, "")
		return nil
	})
	_ = g.Wait()

	return p.compare(ctx, start, before, beforeErr, after, afterErr)
}

// CompareBytes compares two in-memory buffers. It never fails on content.
func (p *Pipeline) CompareBytes(ctx context.Context, beforeName string, beforeRaw []byte, afterName string, afterRaw []byte) (*model.Report, error) {
	start := p.now()
	before := p.extractor.Decode(ctx, beforeName, beforeName, beforeRaw)
	after := p.extractor.Decode(ctx, afterName, afterName, afterRaw)
	return p.compare(ctx, start, before, nil, after, nil)
}

// CompareDocuments compares two already extracted documents
func (p *Pipeline) CompareDocuments(ctx context.Context, before, after *model.Document) (*model.Report, error) {
	if before == nil {
		before = extract.EmptyDocument(SideBefore, "")
	}
	if after == nil {
		after = extract.EmptyDocument(SideAfter, "")
	}
	return p.compare(ctx, p.now(), before, nil, after, nil)
}

func (p *Pipeline) compare(ctx context.Context, start time.Time, before *model.Document, beforeErr error, after *model.Document, afterErr error) (*model.Report, error) {
	if beforeErr != nil {
		p.metrics.ObserveExtractionFailure(SideBefore)
	}
	if afterErr != nil {
		p.metrics.ObserveExtractionFailure(SideAfter)
	}
	if beforeErr != nil && afterErr != nil {
		return nil, errors.Join(
			&SideError{Side: SideBefore, Err: beforeErr},
			&SideError{Side: SideAfter, Err: afterErr},
		)
	}

	report := &model.Report{
		RunID:     uuid.NewString(),
		CreatedAt: start.UTC(),
		Before:    model.Summarize(before, nil),
		After:     model.Summarize(after, nil),
	}
	if beforeErr != nil {
		report.Before.ExtractError = beforeErr.Error()
		report.Warnings = append(report.Warnings, fmt.Sprintf("BEFORE document could not be read and was treated as empty: %v", beforeErr))
	}
	if afterErr != nil {
		report.After.ExtractError = afterErr.Error()
		report.Warnings = append(report.Warnings, fmt.Sprintf("AFTER document could not be read and was treated as empty: %v", afterErr))
	}

	logger := p.logger.With(zap.String("run_id", report.RunID))

	if beforeErr == nil && afterErr == nil && before.Hash == after.Hash {
		report.Identical = true
		p.metrics.ObserveIdentical(p.now().Sub(start))
		logger.Info("documents identical, analysis skipped", zap.String("hash", before.Hash))
		return report, nil
	}

	var (
		g                     errgroup.Group
		beforeScan, afterScan *model.ScanResult
	)
	g.Go(func() error {
		beforeScan = p.scan(logger, before)
		return nil
	})
	g.Go(func() error {
		afterScan = p.scan(logger, after)
		return nil
	})
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	outcome := p.engine.Reconcile(*beforeScan, *afterScan)

	report.Outcome = &outcome
	report.BeforeScan = beforeScan
	report.AfterScan = afterScan
	report.Before = withExtractError(model.Summarize(before, beforeScan), report.Before.ExtractError)
	report.After = withExtractError(model.Summarize(after, afterScan), report.After.ExtractError)

	p.metrics.ObserveScan(SideBefore, beforeScan)
	p.metrics.ObserveScan(SideAfter, afterScan)
	p.metrics.ObserveComparison(outcome.Verdict, p.now().Sub(start))

	logger.Info("comparison finished",
		zap.String("verdict", string(outcome.Verdict)),
		zap.Int("total_issues", outcome.TotalIssues),
		zap.Int("resolved", len(outcome.Resolved)),
		zap.Int("unresolved", len(outcome.Unresolved)),
		zap.Int("new_issues", len(outcome.NewIssues)),
		zap.Int("rate", outcome.ResolutionRate))

	// narrative runs after the verdict is fixed and never changes it
	if p.summarizer.IsEnabled() {
		summary, err := p.summarizer.GenerateSummary(ctx, *report)
		if err != nil {
			logger.Warn("LLM summary generation failed", zap.Error(err))
		} else if summary != nil {
			report.LLM = summary
		}
	}

	return report, nil
}

// scan classifies a document, consulting the cache by content hash
func (p *Pipeline) scan(logger *zap.Logger, doc *model.Document) *model.ScanResult {
	key := cache.ScanKey(doc.Hash, classify.RulesVersion)

	if cached, ok := cache.GetScan(p.cache, key); ok {
		logger.Debug("scan cache hit", zap.String("source", doc.Source))
		return cached
	}

	result := p.classifier.Classify(doc.Text)

	if err := cache.SetScan(p.cache, key, &result); err != nil {
		logger.Warn("scan cache write failed", zap.String("source", doc.Source), zap.Error(err))
	}

	return &result
}

func withExtractError(s model.DocumentSummary, extractErr string) model.DocumentSummary {
	s.ExtractError = extractErr
	return s
}

// RenderReport renders the report to the requested outputs and prints the
// console summary
func (p *Pipeline) RenderReport(report *model.Report, jsonPath string, mdPath string, verbose bool) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	if report.LLM != nil && report.LLM.Enabled && mdPath != "" {
		llmMdPath := strings.TrimSuffix(mdPath, ".md") + ".llm.md"
		if err := p.renderer.RenderLLMMarkdown(llm.RenderSeparateMarkdown(report.LLM), llmMdPath); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to write LLM summary: %v\n", err)
		} else if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote LLM Summary: %s\n", llmMdPath)
		}
	}

	p.renderer.RenderSummary(report)

	return nil
}

// Renderer returns the pipeline's renderer
func (p *Pipeline) Renderer() *Renderer {
	return p.renderer
}
