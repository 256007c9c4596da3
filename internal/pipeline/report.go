package pipeline

import (
	"fmt"
	"strings"

	"fundmatch/internal/fund"
)

// FilterByMinScore keeps only scores at or above the threshold. Pure;
// input order is preserved.
func FilterByMinScore(scores []fund.Score, minScore float64) []fund.Score {
	out := make([]fund.Score, 0, len(scores))
	for _, s := range scores {
		if s.Score >= minScore {
			out = append(out, s)
		}
	}
	return out
}

// FormatForDisplay renders the top funds as a numbered text list for the
// CLI. limit caps how many entries are shown; scores are expected to be
// sorted already.
func FormatForDisplay(scores []fund.Score, company string, limit int) string {
	if limit <= 0 || limit > len(scores) {
		limit = len(scores)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Top funds recommended for %s:\n\n", company)
	for i, s := range scores[:limit] {
		fmt.Fprintf(&b, "%d. %s: %.1f - %s\n", i+1, s.FundName, s.Score, s.Reason)
	}
	return b.String()
}
