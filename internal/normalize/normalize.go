// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize converts raw bibliographic records into Papers.
// Normalization never fails: missing fields fall back to placeholders.
package normalize

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/clinical-briefing/internal/rules"
	"github.com/pdiddy/clinical-briefing/pkg/types"
)

// MinConclusionLen is the shortest labeled segment accepted as a fallback
// conclusion. Shorter trailing segments are usually registration numbers
// or funding lines.
const MinConclusionLen = 40

// conclusionLabels identifies structured-abstract labels that hold the conclusion.
var conclusionLabels = rules.Terms{"conclusion", "interpretation"}

// conclusionMarker finds an inline "Conclusion:" or "In conclusion," marker.
var conclusionMarker = regexp.MustCompile(`(?i)\b(?:in\s+)?conclusions?\s*[:,.\-]\s*`)

// Record builds a Paper from a raw record. Only the source fields and
// ConclusionText are set; classification and scoring fill the rest.
func Record(r types.RawRecord) types.Paper {
	p := types.Paper{
		ID:              strings.TrimSpace(r.ID),
		Title:           collapseSpace(r.Title),
		Journal:         collapseSpace(r.Journal),
		PublicationDate: collapseSpace(r.Date),
	}
	if p.Title == "" {
		p.Title = types.DefaultTitle
	}
	if p.Journal == "" {
		p.Journal = types.DefaultJournal
	}

	for _, s := range r.AbstractSegments {
		text := collapseSpace(s.Text)
		if text == "" {
			continue
		}
		p.AbstractSegments = append(p.AbstractSegments, types.AbstractSegment{
			Label: collapseSpace(s.Label),
			Text:  text,
		})
	}
	p.ConclusionText = Conclusion(p.AbstractSegments)
	return p
}

// Conclusion derives the conclusion text of an abstract, in order of preference:
//  1. the last segment labeled "Conclusion(s)" or "Interpretation";
//  2. the text after the last inline conclusion marker;
//  3. for structured abstracts, the last labeled segment of at least
//     MinConclusionLen characters.
//
// Unstructured abstracts without a marker yield "".
func Conclusion(segments []types.AbstractSegment) string {
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i].Label != "" && conclusionLabels.Match(segments[i].Label) {
			return segments[i].Text
		}
	}

	for i := len(segments) - 1; i >= 0; i-- {
		text := segments[i].Text
		locs := conclusionMarker.FindAllStringIndex(text, -1)
		if len(locs) == 0 {
			continue
		}
		if tail := strings.TrimSpace(text[locs[len(locs)-1][1]:]); tail != "" {
			return tail
		}
	}

	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i].Label == "" {
			continue
		}
		if utf8.RuneCountInString(segments[i].Text) >= MinConclusionLen {
			return segments[i].Text
		}
	}
	return ""
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
