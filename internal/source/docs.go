package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"fundmatch/internal/fund"
)

// HTTPDocFetcher retrieves supplementary context documents by ID from a
// document service. Failures here are never fatal: the pipeline logs and
// scores without the document.
type HTTPDocFetcher struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPDocFetcher creates a fetcher against the given base URL.
func NewHTTPDocFetcher(baseURL string, timeout time.Duration) *HTTPDocFetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPDocFetcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type docResponse struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// FetchDoc retrieves one document as {title, content}.
func (f *HTTPDocFetcher) FetchDoc(ctx context.Context, id string) (*fund.Doc, error) {
	if f.baseURL == "" {
		return nil, fmt.Errorf("document base URL not configured")
	}

	req, err := http.NewRequestWithContext(ctx, "GET", f.baseURL+"/"+id, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("document fetch failed with status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	var doc docResponse
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return &fund.Doc{Title: doc.Title, Content: doc.Content}, nil
}
