// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package briefing

import (
	"fmt"
	"strings"

	"github.com/pdiddy/clinical-briefing/pkg/types"
)

// stampLayout formats the "last updated" line, e.g. "2026-10-18 15:00 KST".
const stampLayout = "2006-01-02 15:04 MST"

// Markdown renders the page as GitHub-flavored Markdown.
func Markdown(p Page) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", escape(p.Title))
	fmt.Fprintf(&b, "_Last updated: %s_\n\n", p.Updated.Format(stampLayout))

	b.WriteString("| Category | Papers |\n|---|---:|\n")
	for _, c := range p.Counts() {
		note := ""
		if c.Failed {
			note = " (retrieval failed)"
		}
		fmt.Fprintf(&b, "| %s%s | %d |\n", escape(c.Name), note, c.Papers)
	}
	b.WriteString("\n")

	heading := "Top Papers"
	if p.PracticeChangingOnly {
		heading = "Practice-Changing Highlights"
	}
	fmt.Fprintf(&b, "## %s\n\n", heading)
	if len(p.Highlights) == 0 {
		b.WriteString(EmptyCategoryText + "\n\n")
	}
	for i, h := range p.Highlights {
		fmt.Fprintf(&b, "%d. %s (%s, score %.1f)\n", i+1, link(h.Paper), escape(h.Category), h.RelevanceScore)
	}
	if len(p.Highlights) > 0 {
		b.WriteString("\n")
	}

	for _, c := range p.Categories {
		fmt.Fprintf(&b, "## %s (%d)\n\n", escape(c.Category.Name), len(c.Papers))
		if len(c.Papers) == 0 {
			b.WriteString(EmptyCategoryText + "\n\n")
			continue
		}
		for i, paper := range c.Papers {
			writePaper(&b, i+1, paper)
		}
	}
	return b.String()
}

func writePaper(b *strings.Builder, rank int, p types.AnnotatedPaper) {
	fmt.Fprintf(b, "### %d. %s\n\n", rank, link(p.Paper))

	if badges := badges(p.Paper); badges != "" {
		b.WriteString(badges + "\n\n")
	}

	meta := []string{"*" + escape(p.Journal) + "*"}
	if p.PublicationDate != "" {
		meta = append(meta, escape(p.PublicationDate))
	}
	meta = append(meta, fmt.Sprintf("Score %.1f", p.RelevanceScore))
	if p.PrestigeScore > 0 {
		meta = append(meta, fmt.Sprintf("IF %.1f", p.PrestigeScore))
	}
	b.WriteString(strings.Join(meta, " · ") + "\n\n")

	if p.ConclusionText != "" {
		fmt.Fprintf(b, "> **Conclusion:** %s\n\n", escape(p.ConclusionText))
	}

	fmt.Fprintf(b, "- **Interpretation:** %s\n", escape(p.Interpretation))
	fmt.Fprintf(b, "- **Action:** %s\n", escape(p.Action))
	fmt.Fprintf(b, "- **Order suggestion:** %s\n\n", escape(p.Order))
}

// badges renders tags as inline code spans, which the page styles as pills.
func badges(p types.Paper) string {
	var out []string
	for _, t := range p.Tags {
		out = append(out, "`"+t.Label()+"`")
	}
	if p.TopTierJournal {
		out = append(out, "`Top-tier journal`")
	}
	return strings.Join(out, " ")
}

func link(p types.Paper) string {
	title := escape(p.Title)
	if u := p.URL(); u != "" {
		return "[" + title + "](" + u + ")"
	}
	return title
}

var mdEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	`*`, `\*`,
	`_`, `\_`,
	`[`, `\[`,
	`]`, `\]`,
	`<`, `\<`,
	`>`, `\>`,
	`#`, `\#`,
	`|`, `\|`,
	`~`, `\~`,
	"\n", " ",
)

// escape neutralizes Markdown syntax in source text so titles and
// conclusions render literally.
func escape(s string) string {
	return mdEscaper.Replace(s)
}
