package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCandidates() []Candidate {
	return []Candidate{
		{Name: "max_connections", Text: "Sets the maximum number of concurrent connections."},
		{Name: "shared_buffers", Text: "Sets the number of shared memory buffers used by the server."},
		{Name: "work_mem", Text: "Sets the maximum memory to be used for query workspaces."},
		{Name: "autovacuum", Text: "Starts the autovacuum subprocess."},
	}
}

func TestExactNameMatchRanksFirst(t *testing.T) {
	ranker := NewRanker()
	ranked := ranker.Rank("what is max_connections", nil, testCandidates())
	require.NotEmpty(t, ranked)
	assert.Equal(t, "max_connections", ranked[0].Name)

	// An exact name match outscores every candidate that can only win on
	// fuzzy or BM25 evidence.
	for _, r := range ranked[1:] {
		assert.GreaterOrEqual(t, ranked[0].Score, r.Score)
	}
}

func TestExactMatchIgnoresUnderscores(t *testing.T) {
	ranker := NewRanker()
	ranked := ranker.Rank("tell me about max connections", nil, testCandidates())
	require.NotEmpty(t, ranked)
	assert.Equal(t, "max_connections", ranked[0].Name)
}

func TestBestAppliesThreshold(t *testing.T) {
	ranker := NewRanker()

	_, ok := ranker.Best("entirely unrelated gibberish zzzz", nil, testCandidates())
	assert.False(t, ok, "nonsense query must not clear the relevance threshold")

	best, ok := ranker.Best("max_connections", nil, testCandidates())
	require.True(t, ok)
	assert.Equal(t, "max_connections", best.Name)
	assert.GreaterOrEqual(t, best.Score, MinRelevance)
}

func TestBestEmptyCandidates(t *testing.T) {
	ranker := NewRanker()
	_, ok := ranker.Best("max_connections", nil, nil)
	assert.False(t, ok)
}

func TestFuzzyScoresTypo(t *testing.T) {
	ranker := NewRanker()
	ranked := ranker.Rank("max_connectons", nil, testCandidates())
	require.NotEmpty(t, ranked)
	assert.Equal(t, "max_connections", ranked[0].Name)
}

func TestCosineComponent(t *testing.T) {
	candidates := []Candidate{
		{Name: "alpha", Text: "", Embedding: []float32{1, 0, 0}},
		{Name: "beta", Text: "", Embedding: []float32{0, 1, 0}},
	}
	ranker := NewRanker()
	ranked := ranker.Rank("unrelated words", []float32{1, 0, 0}, candidates)
	require.Len(t, ranked, 2)
	assert.Equal(t, "alpha", ranked[0].Name)
	assert.Greater(t, ranked[0].Score, ranked[1].Score)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 2, 3}, []float32{1, 2, 3}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.Equal(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1, 2}))
	assert.Equal(t, 0.0, cosineSimilarity(nil, nil))
}

func TestBM25PrefersTermOverlap(t *testing.T) {
	scores := bm25("shared memory buffers", testCandidates())
	require.Len(t, scores, 4)
	// shared_buffers' description carries the query terms.
	best := 0
	for i, s := range scores {
		if s > scores[best] {
			best = i
		}
	}
	assert.Equal(t, 1, best)
	assert.InDelta(t, 1.0, scores[best], 1e-9)
}
