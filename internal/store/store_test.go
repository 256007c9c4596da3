package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fundmatch/internal/fund"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "fundmatch.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndLoadRun(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	scores := []fund.Score{
		{FundName: "Alpha", Score: 100, Reason: "best fit"},
		{FundName: "Beta", Score: 62.5, Reason: "geography fits"},
		{FundName: "Gamma", Score: 0, Reason: "stage mismatch"},
	}

	runID, err := s.SaveRun(ctx, "Acme", scores)
	require.NoError(t, err)
	require.NotEmpty(t, runID)

	loaded, err := s.LoadRun(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, scores, loaded, "saved order must survive the round trip")
}

func TestLoadRun_Unknown(t *testing.T) {
	s := openTestStore(t)

	_, err := s.LoadRun(context.Background(), "no-such-run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSaveRun_EmptyScores(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	runID, err := s.SaveRun(ctx, "Acme", nil)
	require.NoError(t, err)

	// An empty run is indistinguishable from an unknown one on load.
	_, err = s.LoadRun(ctx, runID)
	assert.Error(t, err)

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Zero(t, runs[0].Funds)
}

func TestListRuns(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first, err := s.SaveRun(ctx, "Acme", []fund.Score{
		{FundName: "Alpha", Score: 90, Reason: "fit"},
		{FundName: "Beta", Score: 10, Reason: "weak"},
	})
	require.NoError(t, err)

	second, err := s.SaveRun(ctx, "Globex", []fund.Score{
		{FundName: "Gamma", Score: 50, Reason: "ok"},
	})
	require.NoError(t, err)

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	byID := make(map[string]RunSummary, len(runs))
	for _, r := range runs {
		assert.False(t, r.CreatedAt.IsZero())
		byID[r.ID] = r
	}
	assert.Equal(t, "Acme", byID[first].Company)
	assert.Equal(t, 2, byID[first].Funds)
	assert.Equal(t, "Globex", byID[second].Company)
	assert.Equal(t, 1, byID[second].Funds)
}

func TestOpen_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "fundmatch.db")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, path, s.Path())
	_, err = s.SaveRun(context.Background(), "Acme", []fund.Score{{FundName: "Alpha", Score: 1, Reason: "r"}})
	assert.NoError(t, err)
}
