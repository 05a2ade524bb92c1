package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/redline/internal/extract"
	"github.com/ppiankov/redline/internal/model"
)

// Comparer compares one BEFORE/AFTER pair
type Comparer interface {
	Compare(ctx context.Context, beforeRef, afterRef string) (*model.Report, error)
}

// Pair is one manifest entry
type Pair struct {
	Name   string `yaml:"name"`
	Before string `yaml:"before"`
	After  string `yaml:"after"`
}

// Manifest lists the pairs of a batch run
type Manifest struct {
	Pairs []Pair `yaml:"pairs"`
}

// CompareJob compares a single pair
type CompareJob struct {
	Index    int
	Pair     Pair
	Comparer Comparer
	Logger   *zap.Logger
}

// Execute executes the compare job
func (j *CompareJob) Execute(ctx context.Context) Result {
	start := time.Now()
	report, err := j.Comparer.Compare(ctx, j.Pair.Before, j.Pair.After)
	elapsed := time.Since(start)

	if err != nil {
		j.Logger.Warn("pair failed", zap.String("pair", j.Pair.Name), zap.Error(err))
		return &PairResult{Index: j.Index, Pair: j.Pair, Error: err, Elapsed: elapsed}
	}

	j.Logger.Debug("pair compared", zap.String("pair", j.Pair.Name), zap.Duration("elapsed", elapsed))
	return &PairResult{Index: j.Index, Pair: j.Pair, Report: report, Elapsed: elapsed}
}

// PairResult represents the result of a compare job
type PairResult struct {
	Index   int
	Pair    Pair
	Report  *model.Report
	Error   error
	Elapsed time.Duration
}

// GetError returns the error from the pair result
func (r *PairResult) GetError() error {
	return r.Error
}

// BatchSummary aggregates a batch run
type BatchSummary struct {
	Total     int
	Failed    int
	Identical int
	ByVerdict map[model.Verdict]int
}

// BatchProcessor compares many pairs concurrently
type BatchProcessor struct {
	comparer    Comparer
	concurrency int
	logger      *zap.Logger
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(comparer Comparer, concurrency int, logger *zap.Logger) *BatchProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchProcessor{
		comparer:    comparer,
		concurrency: concurrency,
		logger:      logger,
	}
}

// ProcessPairs compares every pair and returns results in input order.
// A failing pair never aborts the batch.
func (b *BatchProcessor) ProcessPairs(ctx context.Context, pairs []Pair) []*PairResult {
	if len(pairs) == 0 {
		return []*PairResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for i, pair := range pairs {
		job := &CompareJob{
			Index:    i,
			Pair:     pair,
			Comparer: b.comparer,
			Logger:   b.logger,
		}
		if !pool.Submit(job) {
			break
		}
	}

	results := pool.Wait()

	pairResults := make([]*PairResult, 0, len(pairs))
	done := make(map[int]bool, len(results))
	for _, result := range results {
		pr := result.(*PairResult)
		done[pr.Index] = true
		pairResults = append(pairResults, pr)
	}

	// pairs never run because the context ended still get a result
	for i, pair := range pairs {
		if !done[i] {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			pairResults = append(pairResults, &PairResult{Index: i, Pair: pair, Error: err})
		}
	}

	sort.Slice(pairResults, func(i, j int) bool {
		return pairResults[i].Index < pairResults[j].Index
	})

	return pairResults
}

// ProcessManifest loads a manifest file and compares its pairs
func (b *BatchProcessor) ProcessManifest(ctx context.Context, path string) ([]*PairResult, error) {
	manifest, err := LoadManifest(path)
	if err != nil {
		return nil, fmt.Errorf("load manifest: %w", err)
	}

	return b.ProcessPairs(ctx, manifest.Pairs), nil
}

// LoadManifest reads a YAML manifest. Relative local paths are resolved
// against the manifest's directory and unnamed pairs get "pair-N".
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	base := filepath.Dir(path)
	for i := range manifest.Pairs {
		p := &manifest.Pairs[i]
		if p.Before == "" || p.After == "" {
			return nil, fmt.Errorf("pair %d: before and after are required", i+1)
		}
		if p.Name == "" {
			p.Name = fmt.Sprintf("pair-%d", i+1)
		}
		p.Before = resolveRef(base, p.Before)
		p.After = resolveRef(base, p.After)
	}

	return &manifest, nil
}

func resolveRef(base, ref string) string {
	if extract.IsRemote(ref) || filepath.IsAbs(ref) {
		return ref
	}
	return filepath.Join(base, ref)
}

// Summarize counts verdicts, identical pairs, and failures
func Summarize(results []*PairResult) BatchSummary {
	summary := BatchSummary{
		Total:     len(results),
		ByVerdict: make(map[model.Verdict]int),
	}

	for _, r := range results {
		switch {
		case r.Error != nil:
			summary.Failed++
		case r.Report.Identical:
			summary.Identical++
		case r.Report.Outcome != nil:
			summary.ByVerdict[r.Report.Outcome.Verdict]++
		}
	}

	return summary
}
