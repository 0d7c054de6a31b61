package search

import (
	"math"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Weights are the fixed merge weights for the hybrid score components.
// Exact is deliberately at least the sum of the other three so a verbatim
// setting-name match can never be outranked by fuzzy/BM25/vector evidence.
type Weights struct {
	Exact  float64
	Fuzzy  float64
	BM25   float64
	Cosine float64
}

// DefaultWeights is the tuning used by the fallback ranker.
var DefaultWeights = Weights{Exact: 1.00, Fuzzy: 0.35, BM25: 0.30, Cosine: 0.35}

// MinRelevance is the minimum merged score a candidate must reach before the
// fallback path will answer instead of returning the not-found sentinel.
const MinRelevance = 0.25

// Candidate is one setting considered by the fallback ranker.
type Candidate struct {
	Name      string
	Text      string
	Embedding []float32
}

// Ranked is a candidate with its merged relevance score.
type Ranked struct {
	Candidate
	Score float64
}

// Ranker merges exact, fuzzy, BM25 and vector evidence into one score.
type Ranker struct {
	weights Weights
}

// NewRanker returns a Ranker with the default weights.
func NewRanker() *Ranker {
	return &Ranker{weights: DefaultWeights}
}

// Rank scores every candidate against the query and returns them ordered by
// descending score. queryEmbedding may be nil, in which case the cosine
// component contributes nothing.
func (r *Ranker) Rank(query string, queryEmbedding []float32, candidates []Candidate) []Ranked {
	if len(candidates) == 0 {
		return nil
	}

	bm25Scores := bm25(query, candidates)
	ranked := make([]Ranked, 0, len(candidates))
	for i, c := range candidates {
		score := r.weights.Exact*exactScore(query, c.Name) +
			r.weights.Fuzzy*fuzzyScore(query, c.Name) +
			r.weights.BM25*bm25Scores[i]
		if queryEmbedding != nil && len(c.Embedding) > 0 {
			score += r.weights.Cosine * clamp01(cosineSimilarity(queryEmbedding, c.Embedding))
		}
		ranked = append(ranked, Ranked{Candidate: c, Score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		// Longer names are more specific when tied
		return len(ranked[i].Name) > len(ranked[j].Name)
	})
	return ranked
}

// Best returns the top-ranked candidate if it clears the relevance threshold.
func (r *Ranker) Best(query string, queryEmbedding []float32, candidates []Candidate) (Ranked, bool) {
	ranked := r.Rank(query, queryEmbedding, candidates)
	if len(ranked) == 0 || ranked[0].Score < MinRelevance {
		return Ranked{}, false
	}
	return ranked[0], true
}

func normalize(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "_", "")
	return strings.ReplaceAll(s, " ", "")
}

// exactScore is 1 when the setting name appears verbatim in the query
// (underscores and spacing ignored), 0.6 when the query is contained in the
// name, 0 otherwise.
func exactScore(query, name string) float64 {
	nq, nn := normalize(query), normalize(name)
	if nn == "" {
		return 0
	}
	if strings.Contains(nq, nn) {
		return 1
	}
	if strings.Contains(nn, nq) {
		return 0.6
	}
	return 0
}

// fuzzyScore is the Levenshtein distance between query and name normalized
// into [0,1], 1 meaning identical.
func fuzzyScore(query, name string) float64 {
	nq, nn := normalize(query), normalize(name)
	longest := len(nq)
	if len(nn) > longest {
		longest = len(nn)
	}
	if longest == 0 {
		return 0
	}
	dist := fuzzy.LevenshteinDistance(nq, nn)
	return 1 - float64(dist)/float64(longest)
}

// bm25 returns one Okapi BM25 score per candidate, scaled so the highest
// scoring candidate gets 1.
func bm25(query string, candidates []Candidate) []float64 {
	const (
		k1 = 1.5
		b  = 0.75
	)

	docs := make([][]string, len(candidates))
	var totalLen float64
	for i, c := range candidates {
		docs[i] = tokenize(c.Text)
		totalLen += float64(len(docs[i]))
	}
	avgLen := totalLen / float64(len(candidates))
	if avgLen == 0 {
		return make([]float64, len(candidates))
	}

	// document frequency per term
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]bool)
		for _, t := range doc {
			if !seen[t] {
				seen[t] = true
				df[t]++
			}
		}
	}

	n := float64(len(candidates))
	queryTerms := tokenize(query)
	scores := make([]float64, len(candidates))
	var maxScore float64
	for i, doc := range docs {
		tf := make(map[string]int)
		for _, t := range doc {
			tf[t]++
		}
		var score float64
		for _, term := range queryTerms {
			f := float64(tf[term])
			if f == 0 {
				continue
			}
			idf := math.Log(1 + (n-float64(df[term])+0.5)/(float64(df[term])+0.5))
			score += idf * (f * (k1 + 1)) / (f + k1*(1-b+b*float64(len(doc))/avgLen))
		}
		scores[i] = score
		if score > maxScore {
			maxScore = score
		}
	}
	if maxScore > 0 {
		for i := range scores {
			scores[i] /= maxScore
		}
	}
	return scores
}

func tokenize(s string) []string {
	return strings.Fields(strings.ToLower(s))
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
