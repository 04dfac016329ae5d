package services

import (
	"sort"

	"github.com/custodia-labs/indexd/internal/core/domain"
)

// rankMatches orders matches by score desc, then ingested_at desc,
// doc_id asc and chunk_id asc, so equal scores rank identically across runs.
func rankMatches(matches []domain.SearchMatch) {
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if !a.IngestedAt.Equal(b.IngestedAt) {
			return a.IngestedAt.After(b.IngestedAt)
		}
		if a.DocID != b.DocID {
			return a.DocID < b.DocID
		}
		return a.ChunkID < b.ChunkID
	})
}

// clampK resolves a requested result count.
func clampK(k, defaultK, maxK int) int {
	if k <= 0 {
		k = defaultK
	}
	if k > maxK {
		k = maxK
	}
	return k
}
