// Package scoring adapts an external language model into the pipeline's
// batch scorer capability. It owns prompt assembly (rubric, anchor
// guidance, batch payload), provider clients, and structured-output
// parsing. The model is the only non-deterministic piece of the system;
// everything around it here is plain deterministic plumbing.
package scoring

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"fundmatch/internal/fund"
)

// LLMClient defines the completion interface for model providers.
type LLMClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
	CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// LLMScorer scores fund batches through an LLMClient. One scorer wraps one
// client instance; the pipeline builds a fresh scorer per worker, so a
// scorer is never used from two goroutines at once.
type LLMScorer struct {
	client LLMClient
	log    *zap.Logger
}

// NewLLMScorer creates a scorer over the given client.
func NewLLMScorer(client LLMClient, log *zap.Logger) *LLMScorer {
	if log == nil {
		log = zap.NewNop()
	}
	return &LLMScorer{client: client, log: log}
}

// ScoreBatch scores one batch of funds against the request. anchor carries
// already-scored examples for cross-batch consistency; nil means this is
// the scale-setting first batch. doc is optional supplementary context.
// The model must return one score and rationale per fund; a malformed or
// partial response is an error and the caller drops the batch.
func (s *LLMScorer) ScoreBatch(ctx context.Context, batch []fund.Fund, req fund.Request, anchor []fund.Score, doc *fund.Doc) ([]fund.Score, error) {
	if len(batch) == 0 {
		return nil, nil
	}

	system := systemPrompt(anchor, doc != nil)
	user := userPrompt(batch, req, doc)

	raw, err := s.client.CompleteWithSystem(ctx, system, user)
	if err != nil {
		return nil, fmt.Errorf("scoring call failed: %w", err)
	}

	scores, err := parseScores(raw)
	if err != nil {
		return nil, fmt.Errorf("malformed scorer output: %w", err)
	}

	s.log.Debug("scored batch",
		zap.Int("funds", len(batch)),
		zap.Int("scores", len(scores)),
		zap.Int("anchor", len(anchor)))
	return scores, nil
}
