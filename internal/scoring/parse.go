package scoring

import (
	"encoding/json"
	"fmt"
	"strings"

	"fundmatch/internal/fund"
)

// scoreList mirrors the structured output contract:
// {"scores": [{"fund_name": ..., "score": ..., "reason": ...}]}
type scoreList struct {
	Scores []fund.Score `json:"scores"`
}

// parseScores extracts the score list from a model response. Models wrap
// JSON in code fences or prose often enough that we locate the outermost
// object instead of unmarshalling the raw text.
func parseScores(raw string) ([]fund.Score, error) {
	payload := extractJSON(raw)
	if payload == "" {
		return nil, fmt.Errorf("no JSON object in response")
	}

	var list scoreList
	if err := json.Unmarshal([]byte(payload), &list); err != nil {
		return nil, fmt.Errorf("failed to parse scores: %w", err)
	}
	if len(list.Scores) == 0 {
		return nil, fmt.Errorf("response contained no scores")
	}
	for i, s := range list.Scores {
		if s.FundName == "" {
			return nil, fmt.Errorf("score %d missing fund_name", i)
		}
	}
	return list.Scores, nil
}

// extractJSON strips markdown code fences and returns the outermost
// {...} object, or empty when none is present.
func extractJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx >= 0 {
			s = s[idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}
