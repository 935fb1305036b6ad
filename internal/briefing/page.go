// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package briefing renders a pipeline result as the daily briefing page.
// The page is first built as GitHub-flavored Markdown, then converted to a
// self-contained HTML document. The same data can be exported as YAML or
// JSON for downstream tooling.
package briefing

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/pdiddy/clinical-briefing/internal/pipeline"
	"github.com/pdiddy/clinical-briefing/pkg/types"
)

// Output file names written by Write.
const (
	HTMLFile     = "index.html"
	MarkdownFile = "briefing.md"
)

// EmptyCategoryText is shown for a category with no ranked papers.
const EmptyCategoryText = "No recent papers found."

// Page is everything the renderer needs, detached from the pipeline.
type Page struct {
	Title string

	// Updated is the generation time in the display timezone.
	Updated time.Time

	// PracticeChangingOnly selects the highlight heading.
	PracticeChangingOnly bool

	Highlights []Highlight
	Categories []types.CategoryResult
}

// Highlight is one entry of the cross-category highlight list.
type Highlight struct {
	Category string
	types.AnnotatedPaper
}

// NewPage assembles a Page from a run result. The generation time is
// shown in cfg.Timezone (UTC when empty).
func NewPage(res pipeline.Result, cfg types.BriefingConfig) (Page, error) {
	loc := time.UTC
	if cfg.Timezone != "" {
		l, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			return Page{}, fmt.Errorf("loading timezone %q: %w", cfg.Timezone, err)
		}
		loc = l
	}

	cats := res.Categories()
	home := make(map[string]string)
	for _, c := range cats {
		for _, p := range c.Papers {
			if _, seen := home[p.ID]; !seen {
				home[p.ID] = c.Category.Name
			}
		}
	}

	top := res.TopOverall(cfg.TopN)
	highlights := make([]Highlight, len(top))
	for i, p := range top {
		highlights[i] = Highlight{Category: home[p.ID], AnnotatedPaper: p}
	}

	return Page{
		Title:                cfg.Title,
		Updated:              res.GeneratedAt.In(loc),
		PracticeChangingOnly: cfg.PracticeChangingOnly,
		Highlights:           highlights,
		Categories:           cats,
	}, nil
}

// Counts returns the per-category paper counts in display order.
func (p Page) Counts() []CategoryCount {
	out := make([]CategoryCount, len(p.Categories))
	for i, c := range p.Categories {
		out[i] = CategoryCount{Name: c.Category.Name, Papers: len(c.Papers), Failed: c.FetchError != ""}
	}
	return out
}

// CategoryCount is one row of the summary table.
type CategoryCount struct {
	Name   string `json:"name" yaml:"name"`
	Papers int    `json:"papers" yaml:"papers"`
	Failed bool   `json:"fetch_failed,omitempty" yaml:"fetch_failed,omitempty"`
}
