// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package briefing

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/clinical-briefing/pkg/types"
)

// FormatTable writes ranked category results as plain-text tables.
func FormatTable(w io.Writer, cats []types.CategoryResult) {
	for i, c := range cats {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "== %s (%d ranked, %d excluded)\n", c.Category.Name, len(c.Papers), c.Excluded)
		if c.FetchError != "" {
			fmt.Fprintf(w, "retrieval failed: %s\n", c.FetchError)
		}
		if len(c.Papers) == 0 {
			fmt.Fprintln(w, EmptyCategoryText)
			continue
		}

		fmt.Fprintf(w, "%-4s  %-6s  %-10s  %-24s  %-50s  %s\n",
			"Rank", "Score", "PMID", "Tags", "Title", "Journal")
		fmt.Fprintln(w, strings.Repeat("-", 120))
		for j, p := range c.Papers {
			fmt.Fprintf(w, "%-4d  %-6.1f  %-10s  %-24s  %-50s  %s\n",
				j+1, p.RelevanceScore, p.ID, truncate(p.Tags.String(), 24), truncate(p.Title, 50), truncate(p.Journal, 30))
		}
	}
}

// FormatJSON writes the page as an indented JSON Document.
func FormatJSON(w io.Writer, p Page) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewDocument(p))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
