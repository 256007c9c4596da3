package crm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLLM answers every completion with a fixed response and keeps the
// last prompt for inspection.
type fakeLLM struct {
	response string
	err      error
	prompt   string
}

func (f *fakeLLM) Complete(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.response, f.err
}

func (f *fakeLLM) CompleteWithSystem(ctx context.Context, _, userPrompt string) (string, error) {
	return f.Complete(ctx, userPrompt)
}

func newCRMServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer attio-key", r.Header.Get("Authorization"))

		switch r.URL.Path {
		case "/objects/companies/records/query":
			var req queryRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, candidateLimit, req.Limit)
			json.NewEncoder(w).Encode(map[string]any{
				"data": []map[string]any{
					{"id": "rec-1", "name": "Acme Corp", "domain": "acme.com"},
					{"id": "rec-2", "name": "Acme Labs", "domain": "acmelabs.io"},
				},
			})
		case "/objects/companies/records/rec-1/entries":
			json.NewEncoder(w).Encode(map[string]any{
				"data": []map[string]string{
					{"name": "Portfolio", "list_api_slug": "portfolio"},
				},
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestFindRecord(t *testing.T) {
	server := newCRMServer(t)
	defer server.Close()

	llm := &fakeLLM{response: `{"record_id": "rec-1", "reason": "domain matches", "other_columns": {"domain": "acme.com"}}`}
	client := NewClient(server.URL, "attio-key", 5*time.Second, llm)

	match, err := client.FindRecord(context.Background(), "Acme", KindCompanies, "based in Berlin")
	require.NoError(t, err)

	assert.Equal(t, "rec-1", match.RecordID)
	assert.Equal(t, "domain matches", match.Reason)
	assert.Equal(t, "acme.com", match.OtherColumns["domain"])
	require.Len(t, match.Entries, 1)
	assert.Equal(t, "Portfolio", match.Entries[0].List)
	assert.Equal(t, "portfolio", match.Entries[0].Slug)

	// Both candidates and the hint reach the model.
	assert.Contains(t, llm.prompt, "Acme Corp")
	assert.Contains(t, llm.prompt, "Acme Labs")
	assert.Contains(t, llm.prompt, "based in Berlin")
}

func TestFindRecord_NoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
	}))
	defer server.Close()

	client := NewClient(server.URL, "attio-key", 5*time.Second, &fakeLLM{})
	_, err := client.FindRecord(context.Background(), "Nobody", KindPeople, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no people records")
}

func TestFindRecord_LLMFailure(t *testing.T) {
	server := newCRMServer(t)
	defer server.Close()

	llm := &fakeLLM{err: errors.New("model down")}
	client := NewClient(server.URL, "attio-key", 5*time.Second, llm)

	_, err := client.FindRecord(context.Background(), "Acme", KindCompanies, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "candidate evaluation failed")
}

func TestFindRecord_MalformedModelResponse(t *testing.T) {
	server := newCRMServer(t)
	defer server.Close()

	tests := []struct {
		name, response string
	}{
		{"no JSON", "I think it is the first one"},
		{"missing record_id", `{"reason": "looks right"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient(server.URL, "attio-key", 5*time.Second, &fakeLLM{response: tt.response})
			_, err := client.FindRecord(context.Background(), "Acme", KindCompanies, "")
			assert.Error(t, err)
		})
	}
}

func TestFindRecord_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(server.URL, "bad-key", 5*time.Second, &fakeLLM{})
	_, err := client.FindRecord(context.Background(), "Acme", KindCompanies, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record query failed")
}

func TestExtractObject(t *testing.T) {
	assert.Equal(t, `{"a": 1}`, extractObject("sure: {\"a\": 1}"))
	assert.Equal(t, `{"a": 1}`, extractObject("```json\n{\"a\": 1}\n```"))
	assert.Empty(t, extractObject("no object here"))
}
