// Package pipeline implements the batched, order-sensitive fund scoring
// pipeline: filter the candidate table, split it into batches, score each
// batch through an external model with a shared consistency anchor,
// normalize the raw scores, and keep the top fraction.
//
// Data flows strictly downstream. Every stage except the scorer is pure,
// and the pipeline holds no state between runs.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"fundmatch/internal/fund"
)

// FundLoader supplies the candidate table. A failure here is fatal to the
// run: there is nothing to filter or score.
type FundLoader interface {
	LoadFunds(ctx context.Context) ([]fund.Fund, error)
}

// DocFetcher retrieves the optional supplementary context document.
type DocFetcher interface {
	FetchDoc(ctx context.Context, id string) (*fund.Doc, error)
}

// Deps are the external collaborators a run needs. Docs may be nil when no
// supplementary document is configured.
type Deps struct {
	Loader    FundLoader
	Docs      DocFetcher
	NewScorer ScorerFactory
	Log       *zap.Logger
}

// Options are the per-run knobs, validated before any work starts.
type Options struct {
	BatchSize           int
	SurvivingPercentage float64
	MaxWorkers          int
	UseDoc              bool
	DocID               string
}

// Result is the outcome of one pipeline run. TopFunds carries normalized
// scores sorted descending. FailedBatches counts batches whose scoring
// call failed; those funds are simply absent from the result.
type Result struct {
	TopFunds      []fund.Score
	FundNames     []string
	Filtered      int
	Scored        int
	FailedBatches int
}

// Run executes the full pipeline for one request.
func Run(ctx context.Context, deps Deps, req fund.Request, opts Options) (*Result, error) {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}

	if err := validate(opts); err != nil {
		return nil, err
	}

	funds, err := deps.Loader.LoadFunds(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}
	log.Info("loaded fund table", zap.Int("funds", len(funds)))

	filtered := Filter(funds, req)
	log.Info("filtered candidates",
		zap.Int("in", len(funds)),
		zap.Int("out", len(filtered)))

	var doc *fund.Doc
	if opts.UseDoc && deps.Docs != nil {
		doc, err = deps.Docs.FetchDoc(ctx, opts.DocID)
		if err != nil {
			// Recoverable: the run proceeds without supplementary content.
			log.Warn("supplementary document unavailable",
				zap.String("doc_id", opts.DocID), zap.Error(err))
			doc = nil
		} else {
			log.Info("loaded supplementary document", zap.String("title", doc.Title))
		}
	}

	batches, err := Split(filtered, opts.BatchSize)
	if err != nil {
		return nil, err
	}

	raw, failedBatches := ScoreAll(ctx, batches, req, doc, deps.NewScorer, opts.MaxWorkers, log)
	if failedBatches > 0 {
		log.Warn("some batches contributed no scores",
			zap.Int("failed_batches", failedBatches),
			zap.Int("total_batches", len(batches)))
	}

	normalized := Normalize(raw)

	top, err := SelectTop(normalized, opts.SurvivingPercentage)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(top))
	for i, s := range top {
		names[i] = s.FundName
	}

	return &Result{
		TopFunds:      top,
		FundNames:     names,
		Filtered:      len(filtered),
		Scored:        len(raw),
		FailedBatches: failedBatches,
	}, nil
}

func validate(opts Options) error {
	if opts.BatchSize < 1 {
		return fmt.Errorf("%w: batch size must be >= 1, got %d", ErrConfiguration, opts.BatchSize)
	}
	if opts.SurvivingPercentage <= 0 || opts.SurvivingPercentage > 1 {
		return fmt.Errorf("%w: surviving percentage must be in (0, 1], got %v", ErrConfiguration, opts.SurvivingPercentage)
	}
	if opts.MaxWorkers < 1 {
		return fmt.Errorf("%w: max workers must be >= 1, got %d", ErrConfiguration, opts.MaxWorkers)
	}
	return nil
}

// IsFatal reports whether err belongs to the fatal taxonomy (data
// unavailable or invalid configuration) rather than a degraded result.
func IsFatal(err error) bool {
	return errors.Is(err, ErrDataUnavailable) || errors.Is(err, ErrConfiguration)
}
