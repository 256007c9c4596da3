package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fundmatch/internal/fund"
)

func fundWithRange(name string, ranges ...string) fund.Fund {
	return fund.Fund{Name: name, InvestmentRanges: ranges, Posture: "Leader / Follower"}
}

func names(funds []fund.Fund) []string {
	out := make([]string, len(funds))
	for i, f := range funds {
		out[i] = f.Name
	}
	return out
}

func TestFilter_InvestmentRange(t *testing.T) {
	funds := []fund.Fund{
		fundWithRange("tiny", fund.RangeUnder1M),
		fundWithRange("small", fund.Range5To10M),
		fundWithRange("mid", fund.Range10To20M),
		fundWithRange("large", fund.RangeOver20M),
	}

	tests := []struct {
		name      string
		roundSize float64
		want      []string
	}{
		{"sub-1M round only matches the smallest bucket", 0.5, []string{"tiny"}},
		{"3M round widens to 5-10M", 3, []string{"tiny", "small"}},
		{"8M round widens to 10-20M", 8, []string{"tiny", "small", "mid"}},
		{"12M round accepts every bucket", 12, []string{"tiny", "small", "mid", "large"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := fund.Request{Round: fund.Round{Size: tt.roundSize}, Position: fund.PositionBoth}
			got := Filter(funds, req)
			assert.ElementsMatch(t, tt.want, names(got))
		})
	}
}

func TestFilter_RangeWideningIsMonotonic(t *testing.T) {
	// A fund passing with a smaller round must still pass with a larger one.
	funds := []fund.Fund{
		fundWithRange("a", fund.RangeUnder1M),
		fundWithRange("b", fund.Range5To10M),
		fundWithRange("c", fund.Range10To20M),
		fundWithRange("d", fund.RangeOver20M),
	}
	sizes := []float64{0.5, 3, 8, 12, 50}

	var previous []string
	for _, size := range sizes {
		req := fund.Request{Round: fund.Round{Size: size}, Position: fund.PositionBoth}
		got := names(Filter(funds, req))
		for _, name := range previous {
			assert.Contains(t, got, name, "round size %v dropped %s", size, name)
		}
		previous = got
	}
}

func TestFilter_Posture(t *testing.T) {
	funds := []fund.Fund{
		{Name: "lead", Posture: "Leader", InvestmentRanges: []string{fund.RangeUnder1M}},
		{Name: "follow", Posture: "follower", InvestmentRanges: []string{fund.RangeUnder1M}},
		{Name: "either", Posture: "Leader / Follower", InvestmentRanges: []string{fund.RangeUnder1M}},
	}
	req := fund.Request{Round: fund.Round{Size: 0.5}}

	t.Run("leader keeps leader-capable funds", func(t *testing.T) {
		req.Position = fund.PositionLeader
		assert.ElementsMatch(t, []string{"lead", "either"}, names(Filter(funds, req)))
	})

	t.Run("follower keeps follower-capable funds", func(t *testing.T) {
		req.Position = fund.PositionFollower
		assert.ElementsMatch(t, []string{"follow", "either"}, names(Filter(funds, req)))
	})

	t.Run("both applies no posture filter", func(t *testing.T) {
		req.Position = fund.PositionBoth
		assert.Len(t, Filter(funds, req), 3)
	})
}

func TestFilter_Quality(t *testing.T) {
	mk := func(name string, quality float64) fund.Fund {
		f := fundWithRange(name, fund.RangeUnder1M)
		f.QualityPerception = quality
		return f
	}
	// "missing" models a blank sheet cell, which coerces to 0 on load.
	funds := []fund.Fund{mk("top", 5), mk("good", 4), mk("ok", 3), mk("weak", 2), mk("missing", 0)}
	req := fund.Request{Round: fund.Round{Size: 0.5}, Position: fund.PositionBoth}

	tests := []struct {
		tier fund.QualityTier
		want []string
	}{
		{fund.QualityHigh, []string{"top", "good"}},
		{fund.QualityMedium, []string{"top", "good", "ok"}},
		{fund.QualityLow, []string{"weak", "missing"}},
		{fund.QualityAny, []string{"top", "good", "ok", "weak", "missing"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.tier), func(t *testing.T) {
			req.FundQuality = tt.tier
			assert.ElementsMatch(t, tt.want, names(Filter(funds, req)))
		})
	}
}

func TestFilter_Proximity(t *testing.T) {
	mk := func(name string, proximity float64) fund.Fund {
		f := fundWithRange(name, fund.RangeUnder1M)
		f.Proximity = proximity
		return f
	}
	funds := []fund.Fund{mk("near", 4), mk("border", 3), mk("far", 1)}
	req := fund.Request{Round: fund.Round{Size: 0.5}, Position: fund.PositionBoth}

	tests := []struct {
		closeness fund.Closeness
		want      []string
	}{
		{fund.CloseFunds, []string{"near", "border"}},
		{fund.DistantFunds, []string{"border", "far"}},
		{fund.IrrelevantFunds, []string{"near", "border", "far"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.closeness), func(t *testing.T) {
			req.FundCloseness = tt.closeness
			assert.ElementsMatch(t, tt.want, names(Filter(funds, req)))
		})
	}
}

func TestFilter_PreservesOrderAndInput(t *testing.T) {
	funds := []fund.Fund{
		fundWithRange("c", fund.RangeUnder1M),
		fundWithRange("a", fund.Range5To10M),
		fundWithRange("b", fund.RangeUnder1M),
	}
	req := fund.Request{Round: fund.Round{Size: 0.5}, Position: fund.PositionBoth}

	got := Filter(funds, req)
	require.Equal(t, []string{"c", "b"}, names(got))

	// Pure: the input is untouched and re-running yields identical output.
	assert.Equal(t, []string{"c", "a", "b"}, names(funds))
	assert.Equal(t, got, Filter(funds, req))
}

func TestFilter_EmptyResultIsValid(t *testing.T) {
	funds := []fund.Fund{fundWithRange("large-only", fund.RangeOver20M)}
	req := fund.Request{Round: fund.Round{Size: 0.5}, Position: fund.PositionBoth}

	got := Filter(funds, req)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}
