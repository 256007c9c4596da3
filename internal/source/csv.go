// Package source loads the candidate fund table and supplementary context
// documents. These are external collaborators with no algorithmic weight:
// they either return structured data or fail, and the pipeline decides how
// fatal that failure is.
package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"fundmatch/internal/fund"
)

// Column names as they appear in the fund sheet export.
const (
	colName              = "name"
	colPosture           = "leader?"
	colGeography         = "investment_geography"
	colPreferredIndustry = "preferred_industry"
	colIndustryEnriched  = "prefered_industry_enriched"
	colFirstCheck        = "funding_rounds_1st_check"
	colInvestmentRange   = "investment_range"
	colQuality           = "vc_quality_perception"
	colProximity         = "proximity"
	colDescription       = "description"
	colObservations      = "observations"
)

// CSVLoader reads the fund table from a local CSV file or an HTTP CSV
// export endpoint. A load failure is fatal upstream: the pipeline cannot
// run without its candidate table.
type CSVLoader struct {
	path       string
	url        string
	httpClient *http.Client
}

// NewCSVLoader creates a loader. path takes precedence over url when both
// are set.
func NewCSVLoader(path, url string, timeout time.Duration) *CSVLoader {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &CSVLoader{
		path: path,
		url:  url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// LoadFunds fetches and parses the fund table. Row order is preserved.
func (l *CSVLoader) LoadFunds(ctx context.Context) ([]fund.Fund, error) {
	r, closer, err := l.open(ctx)
	if err != nil {
		return nil, err
	}
	defer closer()

	return parseFunds(r)
}

func (l *CSVLoader) open(ctx context.Context) (io.Reader, func() error, error) {
	if l.path != "" {
		f, err := os.Open(l.path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open fund table: %w", err)
		}
		return f, f.Close, nil
	}

	req, err := http.NewRequestWithContext(ctx, "GET", l.url, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch fund table: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, nil, fmt.Errorf("fund table fetch failed with status %d", resp.StatusCode)
	}
	return resp.Body, resp.Body.Close, nil
}

// parseFunds reads the header row, maps the known columns, then converts
// every data row. Unknown columns are ignored so sheet edits that add
// columns do not break loading.
func parseFunds(r io.Reader) ([]fund.Fund, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(strings.ToLower(h))] = i
	}
	if _, ok := cols[colName]; !ok {
		return nil, fmt.Errorf("fund table missing %q column", colName)
	}

	var funds []fund.Fund
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}

		get := func(col string) string {
			idx, ok := cols[col]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		name := get(colName)
		if name == "" {
			continue
		}
		funds = append(funds, fund.Fund{
			Name:              name,
			Posture:           get(colPosture),
			Geography:         get(colGeography),
			PreferredIndustry: get(colPreferredIndustry),
			IndustryEnriched:  get(colIndustryEnriched),
			FirstCheck:        get(colFirstCheck),
			InvestmentRanges:  parseRanges(get(colInvestmentRange)),
			QualityPerception: coerceFloat(get(colQuality)),
			Proximity:         coerceFloat(get(colProximity)),
			Description:       get(colDescription),
			Observations:      get(colObservations),
		})
	}
	return funds, nil
}

// parseRanges splits a bracketed range cell like "[< USD 1mn, USD 5-10mn]"
// into its bucket labels.
func parseRanges(cell string) []string {
	cell = strings.Trim(cell, "[]")
	if cell == "" {
		return nil
	}
	parts := strings.Split(cell, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// coerceFloat converts a numeric cell, treating blank or malformed values
// as 0 the way the sheet's numeric columns are cleaned.
func coerceFloat(cell string) float64 {
	if cell == "" {
		return 0
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0
	}
	return v
}
