package pipeline

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"fundmatch/internal/fund"
)

// anchorSize is the number of already-scored funds shared with each later
// batch so the model scores on a comparable scale.
const anchorSize = 5

// BatchScorer scores one batch of funds against the request. Implementations
// call a non-deterministic external model; an error means the whole batch
// contributed nothing. A nil anchor marks the scale-setting first batch.
type BatchScorer interface {
	ScoreBatch(ctx context.Context, batch []fund.Fund, req fund.Request, anchor []fund.Score, doc *fund.Doc) ([]fund.Score, error)
}

// ScorerFactory builds a fresh scorer instance. Every worker gets its own:
// model clients are never shared across goroutines.
type ScorerFactory func() (BatchScorer, error)

// ScoreAll scores every batch and returns the unordered union of results
// plus the number of batches that failed.
//
// Batch 0 runs synchronously on the calling goroutine with no anchor; its
// first results become the anchor handed to every remaining batch. The
// rest fan out on a pool bounded by maxWorkers, and results land in the
// aggregate in completion order, so callers must not assume any positional
// correspondence with the input batches. A worker's failure is logged and
// treated as an empty contribution; it never cancels its siblings.
//
// The anchor is fixed to batch 0's results rather than a growing snapshot:
// threading later results into later dispatches would either race on
// worker scheduling or serialize the pool.
func ScoreAll(ctx context.Context, batches [][]fund.Fund, req fund.Request, doc *fund.Doc, newScorer ScorerFactory, maxWorkers int, log *zap.Logger) ([]fund.Score, int) {
	if log == nil {
		log = zap.NewNop()
	}
	if len(batches) == 0 {
		return nil, 0
	}

	var (
		mu        sync.Mutex
		aggregate []fund.Score
		failed    int
	)

	scores, err := scoreOne(ctx, batches[0], req, nil, doc, newScorer)
	if err != nil {
		log.Warn("first batch failed", zap.Int("batch", 0), zap.Error(err))
		failed++
	}
	aggregate = append(aggregate, scores...)

	anchor := make([]fund.Score, 0, anchorSize)
	for _, s := range aggregate {
		if len(anchor) == anchorSize {
			break
		}
		anchor = append(anchor, s)
	}

	remaining := batches[1:]
	if len(remaining) == 0 {
		return aggregate, failed
	}

	workers := maxWorkers
	if len(remaining) < workers {
		workers = len(remaining)
	}
	log.Info("scoring batches in parallel",
		zap.Int("batches", len(batches)),
		zap.Int("workers", workers))

	g := &errgroup.Group{}
	g.SetLimit(workers)
	for i, batch := range remaining {
		idx, batch := i+1, batch
		g.Go(func() error {
			scores, err := scoreOne(ctx, batch, req, anchor, doc, newScorer)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Warn("batch failed", zap.Int("batch", idx), zap.Error(err))
				failed++
				return nil
			}
			aggregate = append(aggregate, scores...)
			return nil
		})
	}
	// Workers never return errors; Wait only fences completion.
	_ = g.Wait()

	return aggregate, failed
}

func scoreOne(ctx context.Context, batch []fund.Fund, req fund.Request, anchor []fund.Score, doc *fund.Doc, newScorer ScorerFactory) ([]fund.Score, error) {
	scorer, err := newScorer()
	if err != nil {
		return nil, err
	}
	return scorer.ScoreBatch(ctx, batch, req, anchor, doc)
}
