// Package crm implements the record-identification workflow: look up
// candidate CRM records by name, let the scoring model pick the best
// match, then pull the record's list entries. This is a side workflow of
// the application, not part of the scoring pipeline; its failures are
// fatal to the lookup only.
package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"fundmatch/internal/scoring"
)

// Kind selects which record collection to search.
type Kind string

const (
	KindCompanies Kind = "companies"
	KindPeople    Kind = "people"
)

// candidateLimit caps how many records a name query returns for the model
// to disambiguate.
const candidateLimit = 50

// Match is the resolved record with the model's reasoning and any extra
// attributes it found interesting, plus the record's list entries.
type Match struct {
	RecordID     string            `json:"record_id"`
	Reason       string            `json:"reason"`
	OtherColumns map[string]string `json:"other_columns"`
	Entries      []Entry           `json:"entries"`
}

// Entry is one list membership of a record.
type Entry struct {
	List string `json:"name"`
	Slug string `json:"list_api_slug"`
}

// Client talks to the CRM REST API and uses an LLM to disambiguate
// same-name records.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	llm        scoring.LLMClient
}

// NewClient creates a CRM client. llm is used only for candidate
// disambiguation.
func NewClient(baseURL, apiKey string, timeout time.Duration, llm scoring.LLMClient) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		llm: llm,
	}
}

// FindRecord resolves a name to one CRM record. additionalInfo narrows the
// choice when several records share the name.
func (c *Client) FindRecord(ctx context.Context, name string, kind Kind, additionalInfo string) (*Match, error) {
	candidates, err := c.queryRecords(ctx, kind, name)
	if err != nil {
		return nil, fmt.Errorf("record query failed: %w", err)
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no %s records match %q", kind, name)
	}

	match, err := c.evaluateCandidates(ctx, candidates, name, additionalInfo)
	if err != nil {
		return nil, fmt.Errorf("candidate evaluation failed: %w", err)
	}

	entries, err := c.listEntries(ctx, match.RecordID, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list record entries: %w", err)
	}
	match.Entries = entries
	return match, nil
}

type queryRequest struct {
	Filter map[string]any `json:"filter"`
	Limit  int            `json:"limit"`
}

type queryResponse struct {
	Data []json.RawMessage `json:"data"`
}

// queryRecords fetches up to candidateLimit records whose name contains
// the search term, most recently interacted first.
func (c *Client) queryRecords(ctx context.Context, kind Kind, name string) ([]json.RawMessage, error) {
	reqBody := queryRequest{
		Filter: map[string]any{
			"name": map[string]any{"$contains": strings.TrimSpace(name)},
		},
		Limit: candidateLimit,
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %w", err)
	}

	url := fmt.Sprintf("%s/objects/%s/records/query", c.baseURL, kind)
	body, err := c.do(ctx, "POST", url, jsonData)
	if err != nil {
		return nil, err
	}

	var qr queryResponse
	if err := json.Unmarshal(body, &qr); err != nil {
		return nil, fmt.Errorf("failed to parse query response: %w", err)
	}
	return qr.Data, nil
}

// evaluateCandidates asks the model to pick the record matching the name
// and additional info. Candidates arrive ordered by interaction recency
// and the model is told to weight earlier entries accordingly.
func (c *Client) evaluateCandidates(ctx context.Context, candidates []json.RawMessage, name, additionalInfo string) (*Match, error) {
	var b strings.Builder
	b.WriteString("You are a helpful assistant that evaluates CRM query results and returns the best match for a name.\n\nThe query results are the following:\n")
	for _, cand := range candidates {
		b.Write(cand)
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\nThe name you are looking for is: %s\n", name)
	b.WriteString("The record that appears first had the most recent interaction. Use that to weight the results.\n")
	if additionalInfo != "" {
		fmt.Fprintf(&b, "Additional information: %s\n", additionalInfo)
	}
	b.WriteString(`
Respond with only a JSON object:
{"record_id": "...", "reason": "...", "other_columns": {"column": "value"}}`)

	raw, err := c.llm.Complete(ctx, b.String())
	if err != nil {
		return nil, err
	}

	payload := extractObject(raw)
	if payload == "" {
		return nil, fmt.Errorf("no JSON object in model response")
	}
	var match Match
	if err := json.Unmarshal([]byte(payload), &match); err != nil {
		return nil, fmt.Errorf("failed to parse model response: %w", err)
	}
	if match.RecordID == "" {
		return nil, fmt.Errorf("model response missing record_id")
	}
	return &match, nil
}

type entriesResponse struct {
	Data []Entry `json:"data"`
}

func (c *Client) listEntries(ctx context.Context, recordID string, kind Kind) ([]Entry, error) {
	url := fmt.Sprintf("%s/objects/%s/records/%s/entries", c.baseURL, kind, recordID)
	body, err := c.do(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}

	var er entriesResponse
	if err := json.Unmarshal(body, &er); err != nil {
		return nil, fmt.Errorf("failed to parse entries response: %w", err)
	}
	return er.Data, nil
}

func (c *Client) do(ctx context.Context, method, url string, payload []byte) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(data))
	}
	return data, nil
}

// extractObject returns the outermost {...} in raw, tolerating code fences
// and surrounding prose.
func extractObject(raw string) string {
	s := strings.TrimSpace(raw)
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}
