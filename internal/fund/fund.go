// Package fund defines the domain types shared across the scoring pipeline:
// the candidate fund rows, the startup request being matched, and the
// per-fund score results produced by the external model.
package fund

// Investment range bucket labels as they appear in the fund table.
const (
	RangeUnder1M = "< USD 1mn"
	Range5To10M  = "USD 5-10mn"
	Range10To20M = "USD 10-20mn"
	RangeOver20M = ">USD 20mn"
)

// Position is the posture a fund takes in a round.
type Position string

const (
	PositionLeader   Position = "leader"
	PositionFollower Position = "follower"
	PositionBoth     Position = "both"
)

// QualityTier is the requested fund quality band.
type QualityTier string

const (
	QualityHigh   QualityTier = "High"
	QualityMedium QualityTier = "Medium"
	QualityLow    QualityTier = "Low"
	QualityAny    QualityTier = "Any"
)

// Closeness is the requested relationship proximity to a fund.
type Closeness string

const (
	CloseFunds      Closeness = "Close"
	DistantFunds    Closeness = "Distant"
	IrrelevantFunds Closeness = "Irrelevant"
)

// Fund is one candidate fund row. Immutable once loaded; identified by
// Name, which is assumed unique within a run (not enforced by the source
// table).
type Fund struct {
	Name              string
	Posture           string   // raw "leader?" column, matched by substring
	Geography         string
	PreferredIndustry string
	IndustryEnriched  string
	FirstCheck        string
	InvestmentRanges  []string // bucket labels, see Range* constants
	QualityPerception float64  // blank cells coerce to 0
	Proximity         float64  // blank cells coerce to 0
	Description       string
	Observations      string
}

// Round describes the funding round being raised.
type Round struct {
	Size    float64 // millions of USD
	Funding string  // round type, e.g. "Series A"
}

// Request is the startup profile and matching preferences for one pipeline
// run. Read-only for the duration of the run and safe to share across
// scoring workers.
type Request struct {
	Company            string
	CompanyDescription string
	PersonDescription  string
	Round              Round
	RoundCommitment    float64 // millions of USD already committed
	Position           Position
	Industry           string
	FundQuality        QualityTier
	FundCloseness      Closeness
	Observations       string
}

// Score is the scored outcome for a single fund. Reason is opaque rationale
// text from the model and is carried through the pipeline unchanged.
// Normalization produces new Score values rather than mutating these, so
// raw and normalized scores stay separately auditable.
type Score struct {
	FundName string  `json:"fund_name"`
	Score    float64 `json:"score"`
	Reason   string  `json:"reason"`
}
