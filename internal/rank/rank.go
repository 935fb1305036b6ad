// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rank orders papers within a category and selects the
// cross-category highlight list.
package rank

import (
	"sort"

	"github.com/pdiddy/clinical-briefing/internal/rules"
	"github.com/pdiddy/clinical-briefing/pkg/types"
)

// PracticeChangingTerms marks papers eligible for the highlight list.
var PracticeChangingTerms = rules.Terms{"guideline", "phase 3", "phase iii", "first-line", "standard of care"}

// PracticeChanging reports whether p's title or abstract contains a
// practice-changing keyword.
func PracticeChanging(p types.AnnotatedPaper) bool {
	return PracticeChangingTerms.Match(p.Title) || PracticeChangingTerms.Match(p.AbstractText())
}

// WithinCategory returns a copy of papers sorted by descending relevance.
// Equal scores keep their input (fetch) order.
func WithinCategory(papers []types.AnnotatedPaper) []types.AnnotatedPaper {
	out := make([]types.AnnotatedPaper, len(papers))
	copy(out, papers)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RelevanceScore > out[j].RelevanceScore
	})
	return out
}

// SelectTopOverall pools every category's papers in category order, keeps
// those accepted by keep (all papers when keep is nil), sorts by descending
// relevance with ties in pool order, and returns at most n papers. A paper
// listed under several categories is counted once, at its first position.
// Fewer than n qualifying papers are returned as is, never padded.
func SelectTopOverall(results []types.CategoryResult, n int, keep func(types.AnnotatedPaper) bool) []types.AnnotatedPaper {
	if n <= 0 {
		return nil
	}

	seen := make(map[string]bool)
	var pool []types.AnnotatedPaper
	for _, r := range results {
		for _, p := range r.Papers {
			if keep != nil && !keep(p) {
				continue
			}
			if p.ID != "" {
				if seen[p.ID] {
					continue
				}
				seen[p.ID] = true
			}
			pool = append(pool, p)
		}
	}

	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].RelevanceScore > pool[j].RelevanceScore
	})
	if len(pool) > n {
		pool = pool[:n]
	}
	return pool
}
