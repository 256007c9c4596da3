package pipeline

import "fundmatch/internal/fund"

// Normalize rescales raw scores linearly onto [0, 100]. The minimum raw
// score maps to 0 and the maximum to 100. When every raw score is equal
// the scale is degenerate and each result is pinned to 50.0. New Score
// values are returned; the raw inputs are untouched and reasons pass
// through unchanged.
func Normalize(scores []fund.Score) []fund.Score {
	if len(scores) == 0 {
		return nil
	}

	min, max := scores[0].Score, scores[0].Score
	for _, s := range scores[1:] {
		if s.Score < min {
			min = s.Score
		}
		if s.Score > max {
			max = s.Score
		}
	}

	out := make([]fund.Score, len(scores))
	for i, s := range scores {
		normalized := 50.0
		if max > min {
			normalized = 100 * (s.Score - min) / (max - min)
		}
		out[i] = fund.Score{
			FundName: s.FundName,
			Score:    normalized,
			Reason:   s.Reason,
		}
	}
	return out
}
