package source

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPDocFetcher_FetchDoc(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/docs/positioning", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{
			"title":   "Positioning",
			"content": "prefers hardware plays",
		})
	}))
	defer server.Close()

	fetcher := NewHTTPDocFetcher(server.URL+"/docs/", 5*time.Second)
	doc, err := fetcher.FetchDoc(context.Background(), "positioning")
	require.NoError(t, err)
	assert.Equal(t, "Positioning", doc.Title)
	assert.Equal(t, "prefers hardware plays", doc.Content)
}

func TestHTTPDocFetcher_Failures(t *testing.T) {
	t.Run("no base URL", func(t *testing.T) {
		fetcher := NewHTTPDocFetcher("", 5*time.Second)
		_, err := fetcher.FetchDoc(context.Background(), "positioning")
		assert.Error(t, err)
	})

	t.Run("not found", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		fetcher := NewHTTPDocFetcher(server.URL, 5*time.Second)
		_, err := fetcher.FetchDoc(context.Background(), "missing")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 404")
	})

	t.Run("non-JSON payload", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte("<html>nope</html>"))
		}))
		defer server.Close()

		fetcher := NewHTTPDocFetcher(server.URL, 5*time.Second)
		_, err := fetcher.FetchDoc(context.Background(), "doc")
		assert.Error(t, err)
	})
}
