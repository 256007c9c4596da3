package pipeline

import (
	"fmt"

	"fundmatch/internal/fund"
)

// Split partitions funds into contiguous batches of batchSize, preserving
// order. The last batch holds the remainder. The batches are subslices of
// the input; together they cover it exactly once with no overlap. An empty
// input yields zero batches. batchSize < 1 is a configuration error.
func Split(funds []fund.Fund, batchSize int) ([][]fund.Fund, error) {
	if batchSize < 1 {
		return nil, fmt.Errorf("%w: batch size must be >= 1, got %d", ErrConfiguration, batchSize)
	}

	var batches [][]fund.Fund
	for i := 0; i < len(funds); i += batchSize {
		end := i + batchSize
		if end > len(funds) {
			end = len(funds)
		}
		batches = append(batches, funds[i:end])
	}
	return batches, nil
}
