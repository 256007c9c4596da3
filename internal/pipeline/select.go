package pipeline

import (
	"fmt"
	"math"
	"sort"

	"fundmatch/internal/fund"
)

// SelectTop ranks scores descending and keeps the top ceil(fraction * n)
// entries. fraction must be positive; values above 1 keep everything.
// Ties keep their relative input order (stable sort). The input slice is
// not modified.
func SelectTop(scores []fund.Score, fraction float64) ([]fund.Score, error) {
	if fraction <= 0 {
		return nil, fmt.Errorf("%w: surviving fraction must be > 0, got %v", ErrConfiguration, fraction)
	}
	if fraction > 1 {
		fraction = 1
	}

	sorted := make([]fund.Score, len(scores))
	copy(sorted, scores)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	keep := int(math.Ceil(fraction * float64(len(sorted))))
	return sorted[:keep], nil
}
