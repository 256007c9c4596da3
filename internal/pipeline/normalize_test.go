package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fundmatch/internal/fund"
)

func TestNormalize_MinMax(t *testing.T) {
	scores := []fund.Score{
		{FundName: "low", Score: 2, Reason: "weak fit"},
		{FundName: "mid", Score: 11, Reason: "partial fit"},
		{FundName: "high", Score: 20, Reason: "strong fit"},
	}

	got := Normalize(scores)
	require.Len(t, got, 3)

	assert.Equal(t, 0.0, got[0].Score)
	assert.Equal(t, 50.0, got[1].Score)
	assert.Equal(t, 100.0, got[2].Score)

	// Names and reasons pass through untouched.
	for i := range scores {
		assert.Equal(t, scores[i].FundName, got[i].FundName)
		assert.Equal(t, scores[i].Reason, got[i].Reason)
	}
}

func TestNormalize_Bounds(t *testing.T) {
	scores := []fund.Score{
		{FundName: "a", Score: -4.5},
		{FundName: "b", Score: 0},
		{FundName: "c", Score: 7.25},
		{FundName: "d", Score: 33},
	}

	for _, s := range Normalize(scores) {
		assert.GreaterOrEqual(t, s.Score, 0.0, "%s below range", s.FundName)
		assert.LessOrEqual(t, s.Score, 100.0, "%s above range", s.FundName)
	}
}

func TestNormalize_AllEqual(t *testing.T) {
	scores := []fund.Score{
		{FundName: "a", Score: 42},
		{FundName: "b", Score: 42},
		{FundName: "c", Score: 42},
		{FundName: "d", Score: 42},
		{FundName: "e", Score: 42},
	}

	for _, s := range Normalize(scores) {
		assert.Equal(t, 50.0, s.Score, s.FundName)
	}
}

func TestNormalize_SingleAndEmpty(t *testing.T) {
	t.Run("single score maps to the midpoint", func(t *testing.T) {
		got := Normalize([]fund.Score{{FundName: "only", Score: 17}})
		require.Len(t, got, 1)
		assert.Equal(t, 50.0, got[0].Score)
	})

	t.Run("empty input yields empty output", func(t *testing.T) {
		assert.Empty(t, Normalize(nil))
	})
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	scores := []fund.Score{
		{FundName: "a", Score: 1},
		{FundName: "b", Score: 9},
	}
	first := Normalize(scores)

	assert.Equal(t, 1.0, scores[0].Score)
	assert.Equal(t, 9.0, scores[1].Score)
	assert.Equal(t, first, Normalize(scores))
}
