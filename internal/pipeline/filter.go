package pipeline

import (
	"strings"

	"fundmatch/internal/fund"
)

// Filter narrows the fund table to candidates matching the request's hard
// eligibility constraints. Pure: the input slice is not modified and row
// order is preserved. All rules are intersective; a fund must pass every
// one to survive. An empty result is valid and flows through the rest of
// the pipeline as zero batches and zero survivors.
func Filter(funds []fund.Fund, req fund.Request) []fund.Fund {
	allowed := allowedRanges(req.Round.Size)

	out := make([]fund.Fund, 0, len(funds))
	for _, f := range funds {
		if !rangesIntersect(f.InvestmentRanges, allowed) {
			continue
		}
		if !postureMatches(f.Posture, req.Position) {
			continue
		}
		if !qualityMatches(f.QualityPerception, req.FundQuality) {
			continue
		}
		if !proximityMatches(f.Proximity, req.FundCloseness) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// allowedRanges derives the acceptable investment-range buckets from the
// round size in millions of USD. Thresholds widen monotonically: a larger
// round accepts every bucket a smaller round would, plus more.
func allowedRanges(roundSize float64) []string {
	switch {
	case roundSize < 1:
		return []string{fund.RangeUnder1M}
	case roundSize < 5:
		return []string{fund.Range5To10M, fund.RangeUnder1M}
	case roundSize < 10:
		return []string{fund.Range10To20M, fund.Range5To10M, fund.RangeUnder1M}
	default:
		return []string{fund.RangeOver20M, fund.Range10To20M, fund.Range5To10M, fund.RangeUnder1M}
	}
}

func rangesIntersect(fundRanges, allowed []string) bool {
	for _, r := range fundRanges {
		for _, a := range allowed {
			if strings.Contains(r, a) {
				return true
			}
		}
	}
	return false
}

// postureMatches applies the leader/follower filter as a case-insensitive
// substring test against the raw posture column. PositionBoth applies no
// filter, as does an unset position.
func postureMatches(posture string, want fund.Position) bool {
	switch want {
	case fund.PositionLeader, fund.PositionFollower:
		return strings.Contains(strings.ToLower(posture), string(want))
	default:
		return true
	}
}

// qualityMatches applies the optional quality tier. Funds with a missing
// quality perception carry 0, so they are excluded from High and Medium
// and included in Low.
func qualityMatches(quality float64, tier fund.QualityTier) bool {
	switch tier {
	case fund.QualityHigh:
		return quality >= 4
	case fund.QualityMedium:
		return quality >= 3
	case fund.QualityLow:
		return quality < 3
	default:
		return true
	}
}

func proximityMatches(proximity float64, closeness fund.Closeness) bool {
	switch closeness {
	case fund.CloseFunds:
		return proximity >= 3
	case fund.DistantFunds:
		return proximity <= 3
	default:
		return true
	}
}
