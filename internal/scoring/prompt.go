package scoring

import (
	"fmt"
	"strings"

	"fundmatch/internal/fund"
)

// systemPrompt builds the rubric the model scores against. The criteria
// and point ranges mirror the scoring sheet the fund team uses; the model
// returns one aggregate raw score per fund, so totals are not normalized
// here and their scale can drift between runs. withDoc appends the
// supplementary-document criterion.
func systemPrompt(anchor []fund.Score, withDoc bool) string {
	var b strings.Builder
	b.WriteString(`You are a fund score agent. Score every fund.
You are given a table of funds and user inputs, and you score each fund on the following criteria:

- preferred_industry (the fund's preferred industry should be compatible with the company's industry. If there is just one intersection, the score is around 5. If there is a near perfect fit, the score is 10) | 0-10 points
- investment_geography (the fund's investment geography should be compatible with the company's geography) | -5 to 5 points. A perfect match scores 5, a workable match scores 3, incompatible scores -5
- funding_rounds_1st_check (the first check round should be compatible with the round type) | 0-5 points
- description (the description should be compatible with the company's description) | 0-3 points
- observations (use it as a situational reference of the fund) | -5 to 5 points
`)
	if withDoc {
		b.WriteString("- document content (additional context from the provided document; consider how well the fund aligns with its specific details) | 0-15 points\n")
	}
	b.WriteString("\nBegin each reason with a summary of the decision.\n")

	if guidance := anchorGuidance(anchor); guidance != "" {
		b.WriteString("\n")
		b.WriteString(guidance)
	}

	b.WriteString(`
Respond with only a JSON object of the form:
{"scores": [{"fund_name": "...", "score": 12.0, "reason": "..."}]}
One entry per fund, no other text.`)
	return b.String()
}

// anchorGuidance renders the consistency instruction from already-scored
// funds. Empty when there is no anchor (the first batch sets the scale).
func anchorGuidance(anchor []fund.Score) string {
	if len(anchor) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("IMPORTANT: Keep consistency with the scores already assigned to other funds.\nExamples of previous scores:\n")
	for _, s := range anchor {
		fmt.Fprintf(&b, "- %s: %.1f\n", s.FundName, s.Score)
	}
	b.WriteString("The total score must be on an approximate scale with the scores already assigned.\n")
	return b.String()
}

// userPrompt assembles the batch payload: the fund table, the request
// block with field explanations, and optional document content.
func userPrompt(batch []fund.Fund, req fund.Request, doc *fund.Doc) string {
	var b strings.Builder
	b.WriteString("Here is the table of funds:\n\n")
	b.WriteString(formatBatch(batch))

	b.WriteString(`

Here are the user inputs.
DISCLAIMER: fund_closeness means we want a close fund. If fund_closeness is Distant, we want a distant fund.
Inputs explanation:
- company: the company we are looking for a fund to invest in
- description_company: the description of the company
- description_person: the description of the person representing the company
- round: the round size and type
- round_commitment: what is already taken in the round; we are looking for someone to invest in the range round_commitment - round
- leader_or_follower: whether we want a round leader or a follower
- industry: the industry we are looking for a fund to invest in
- fund_closeness: how close we want the funds to be to us
- observations: any other information that should be considered when scoring the funds

`)
	b.WriteString(formatRequest(req))

	if doc != nil {
		fmt.Fprintf(&b, "\nAdditional context from document %q:\n%s\n", doc.Title, doc.Content)
	}
	return b.String()
}

// formatBatch renders funds as labelled text blocks, one per fund, with
// blank fields omitted. Plain text survives model tokenization better
// than a serialized table.
func formatBatch(batch []fund.Fund) string {
	blocks := make([]string, 0, len(batch))
	for _, f := range batch {
		var b strings.Builder
		fmt.Fprintf(&b, "Fund: %s\n", f.Name)
		writeField(&b, "Investment Geography", f.Geography)
		writeField(&b, "Preferred Industry", f.IndustryEnriched)
		if f.IndustryEnriched == "" {
			writeField(&b, "Preferred Industry", f.PreferredIndustry)
		}
		writeField(&b, "First Check", f.FirstCheck)
		writeField(&b, "Description", f.Description)
		writeField(&b, "Observations", f.Observations)
		blocks = append(blocks, strings.TrimRight(b.String(), "\n"))
	}
	return strings.Join(blocks, "\n\n")
}

func writeField(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "%s: %s\n", label, value)
}

func formatRequest(req fund.Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "company: %s\n", req.Company)
	fmt.Fprintf(&b, "description_company: %s\n", req.CompanyDescription)
	fmt.Fprintf(&b, "description_person: %s\n", req.PersonDescription)
	fmt.Fprintf(&b, "round: %.1fM USD (%s)\n", req.Round.Size, req.Round.Funding)
	fmt.Fprintf(&b, "round_commitment: %.1fM USD\n", req.RoundCommitment)
	fmt.Fprintf(&b, "leader_or_follower: %s\n", req.Position)
	fmt.Fprintf(&b, "industry: %s\n", req.Industry)
	fmt.Fprintf(&b, "fund_closeness: %s\n", req.FundCloseness)
	fmt.Fprintf(&b, "observations: %s\n", req.Observations)
	return b.String()
}
