package pipeline

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fundmatch/internal/fund"
)

func makeFunds(n int) []fund.Fund {
	funds := make([]fund.Fund, n)
	for i := range funds {
		funds[i] = fund.Fund{Name: fmt.Sprintf("fund-%02d", i)}
	}
	return funds
}

func TestSplit_Sizes(t *testing.T) {
	tests := []struct {
		total, batchSize int
		want             []int
	}{
		{23, 10, []int{10, 10, 3}},
		{10, 10, []int{10}},
		{9, 10, []int{9}},
		{20, 10, []int{10, 10}},
		{1, 10, []int{1}},
		{5, 1, []int{1, 1, 1, 1, 1}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_by_%d", tt.total, tt.batchSize), func(t *testing.T) {
			batches, err := Split(makeFunds(tt.total), tt.batchSize)
			require.NoError(t, err)
			require.Len(t, batches, len(tt.want))
			for i, size := range tt.want {
				assert.Len(t, batches[i], size, "batch %d", i)
			}
		})
	}
}

func TestSplit_IsPartition(t *testing.T) {
	funds := makeFunds(23)
	batches, err := Split(funds, 10)
	require.NoError(t, err)

	var flat []fund.Fund
	for _, b := range batches {
		flat = append(flat, b...)
	}
	if diff := cmp.Diff(funds, flat); diff != "" {
		t.Errorf("concatenated batches differ from input (-want +got):\n%s", diff)
	}
}

func TestSplit_Empty(t *testing.T) {
	batches, err := Split(nil, 10)
	require.NoError(t, err)
	assert.Empty(t, batches)
}

func TestSplit_InvalidBatchSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		_, err := Split(makeFunds(3), size)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrConfiguration)
	}
}
