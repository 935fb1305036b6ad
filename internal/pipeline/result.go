// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"time"

	"github.com/pdiddy/clinical-briefing/internal/rank"
	"github.com/pdiddy/clinical-briefing/pkg/types"
)

// Result is the outcome of one run. It is read-only; accessors return copies.
type Result struct {
	categories   []types.CategoryResult
	practiceOnly bool

	GeneratedAt time.Time
	Duration    time.Duration
}

// NewResult builds a Result from already ranked category results.
func NewResult(categories []types.CategoryResult, practiceOnly bool, generatedAt time.Time) Result {
	return Result{categories: cloneCategories(categories), practiceOnly: practiceOnly, GeneratedAt: generatedAt}
}

// Categories returns the category results in configuration order.
func (r Result) Categories() []types.CategoryResult {
	return cloneCategories(r.categories)
}

// CategoryResults maps each category name to its ranked papers.
func (r Result) CategoryResults() map[string][]types.AnnotatedPaper {
	out := make(map[string][]types.AnnotatedPaper, len(r.categories))
	for _, c := range r.categories {
		out[c.Category.Name] = clonePapers(c.Papers)
	}
	return out
}

// CategoryCounts maps each category name to its post-filter paper count.
func (r Result) CategoryCounts() map[string]int {
	out := make(map[string]int, len(r.categories))
	for _, c := range r.categories {
		out[c.Category.Name] = len(c.Papers)
	}
	return out
}

// TopOverall returns up to n highlight papers across categories,
// restricted to practice-changing papers when the run is configured so.
func (r Result) TopOverall(n int) []types.AnnotatedPaper {
	var keep func(types.AnnotatedPaper) bool
	if r.practiceOnly {
		keep = rank.PracticeChanging
	}
	return clonePapers(rank.SelectTopOverall(r.categories, n, keep))
}

// Total returns the number of ranked papers across all categories.
func (r Result) Total() int {
	n := 0
	for _, c := range r.categories {
		n += len(c.Papers)
	}
	return n
}

// FailedCategories returns the names of categories whose retrieval failed.
func (r Result) FailedCategories() []string {
	var names []string
	for _, c := range r.categories {
		if c.FetchError != "" {
			names = append(names, c.Category.Name)
		}
	}
	return names
}

func cloneCategories(cats []types.CategoryResult) []types.CategoryResult {
	out := make([]types.CategoryResult, len(cats))
	for i, c := range cats {
		c.Papers = clonePapers(c.Papers)
		out[i] = c
	}
	return out
}

// clonePapers copies papers including the Tags and AbstractSegments
// backing arrays, so no caller can reach the Result's own data.
func clonePapers(papers []types.AnnotatedPaper) []types.AnnotatedPaper {
	if papers == nil {
		return nil
	}
	out := make([]types.AnnotatedPaper, len(papers))
	for i, p := range papers {
		if p.Tags != nil {
			p.Tags = append(types.TagSet(nil), p.Tags...)
		}
		if p.AbstractSegments != nil {
			p.AbstractSegments = append([]types.AbstractSegment(nil), p.AbstractSegments...)
		}
		out[i] = p
	}
	return out
}
