package retrieve

import (
	"sort"
	"strings"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

// Rerank blend weights: lexical overlap dominates the vector score.
const (
	rerankVectorWeight  = 0.4
	rerankKeywordWeight = 0.6
)

// rerankLexical rescores candidates as a blend of the original vector score
// and the fraction of question tokens appearing in the candidate content.
// A cheap lexical stand-in for a cross-encoder: deterministic for identical
// input, returns at most topN results, all drawn from candidates.
func rerankLexical(question string, candidates []domain.SearchResult, topN int) []domain.SearchResult {
	tokens := strings.Fields(strings.ToLower(question))

	rescored := make([]domain.SearchResult, len(candidates))
	for i, c := range candidates {
		overlap := keywordOverlap(tokens, strings.ToLower(c.Content()))
		rescored[i] = c.WithScore(rerankVectorWeight*c.Score() + rerankKeywordWeight*overlap)
	}

	sort.SliceStable(rescored, func(i, j int) bool {
		return rescored[i].Score() > rescored[j].Score()
	})

	if len(rescored) > topN {
		rescored = rescored[:topN]
	}
	return rescored
}

// keywordOverlap returns the fraction of tokens found as substrings in content.
func keywordOverlap(tokens []string, content string) float64 {
	if len(tokens) == 0 {
		return 0
	}
	found := 0
	for _, tok := range tokens {
		if strings.Contains(content, tok) {
			found++
		}
	}
	return float64(found) / float64(len(tokens))
}
