// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the briefing pipeline:
// raw records as retrieved, derived papers, annotations, category results
// and the run configuration.
package types

import "strings"

// Placeholders used when a record is missing its title or journal.
const (
	DefaultTitle   = "No Title"
	DefaultJournal = "Unknown Journal"
)

// AbstractSegment is one block of an abstract. Label is empty for
// unstructured free text (e.g. "BACKGROUND", "CONCLUSIONS" for structured abstracts).
type AbstractSegment struct {
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
	Text  string `json:"text" yaml:"text"`
}

// RawRecord is a bibliographic entry exactly as a retrieval adapter
// produced it. Any field may be empty.
type RawRecord struct {
	// ID is the source identifier (PubMed PMID).
	ID string `json:"id" yaml:"id"`

	Title   string `json:"title" yaml:"title"`
	Journal string `json:"journal" yaml:"journal"`

	// AbstractSegments keeps the source order of the abstract blocks.
	AbstractSegments []AbstractSegment `json:"abstract_segments,omitempty" yaml:"abstract_segments,omitempty"`

	// Date is the publication date as printed by the source ("2025", "2025 Mar", "2025 Mar 14").
	Date string `json:"date,omitempty" yaml:"date,omitempty"`
}

// Paper is the normalized representation of a RawRecord plus the fields
// derived from it. A Paper is built once per run and never modified after
// the pipeline hands it out; derived fields are pure functions of the
// source fields.
type Paper struct {
	ID               string            `json:"id" yaml:"id"`
	Title            string            `json:"title" yaml:"title"`
	Journal          string            `json:"journal" yaml:"journal"`
	AbstractSegments []AbstractSegment `json:"abstract_segments,omitempty" yaml:"abstract_segments,omitempty"`

	// PublicationDate is display-only and never parsed.
	PublicationDate string `json:"publication_date,omitempty" yaml:"publication_date,omitempty"`

	// ConclusionText is the conclusion segment, the text after a
	// "Conclusion:" marker, or empty when neither exists.
	ConclusionText string `json:"conclusion,omitempty" yaml:"conclusion,omitempty"`

	Tags TagSet `json:"tags" yaml:"tags"`

	// PrestigeScore is the journal impact factor from the registry, 0 when unknown.
	PrestigeScore float64 `json:"prestige_score" yaml:"prestige_score"`

	// TopTierJournal reports whether the journal is in the registry's top-tier set.
	TopTierJournal bool `json:"top_tier_journal" yaml:"top_tier_journal"`

	RelevanceScore float64 `json:"relevance_score" yaml:"relevance_score"`

	// IsLowValue marks papers excluded before scoring (case reports, animal studies, ...).
	IsLowValue bool `json:"low_value,omitempty" yaml:"low_value,omitempty"`
}

// AbstractText joins all abstract segments with single spaces.
func (p Paper) AbstractText() string {
	parts := make([]string, 0, len(p.AbstractSegments))
	for _, s := range p.AbstractSegments {
		if t := strings.TrimSpace(s.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// URL returns the PubMed page for the paper, or "" when the ID is unknown.
func (p Paper) URL() string {
	if p.ID == "" {
		return ""
	}
	return "https://pubmed.ncbi.nlm.nih.gov/" + p.ID + "/"
}

// Annotation holds the three advisory strings produced by the annotator.
// The strings come from independent rule chains and may disagree.
type Annotation struct {
	Interpretation string `json:"interpretation" yaml:"interpretation"`
	Action         string `json:"action" yaml:"action"`
	Order          string `json:"order_suggestion" yaml:"order_suggestion"`
}

// AnnotatedPaper is what the rendering layer consumes.
type AnnotatedPaper struct {
	Paper      `yaml:",inline"`
	Annotation `yaml:",inline"`
}

// CategoryResult is the ranked, annotated output for one category.
type CategoryResult struct {
	Category Category         `json:"category" yaml:"category"`
	Papers   []AnnotatedPaper `json:"papers" yaml:"papers"`

	// Fetched counts the raw records returned by the adapter.
	Fetched int `json:"fetched" yaml:"fetched"`

	// Excluded counts records dropped by the low-value filter.
	Excluded int `json:"excluded" yaml:"excluded"`

	// FetchError records a retrieval failure. The category is still
	// rendered, as empty.
	FetchError string `json:"fetch_error,omitempty" yaml:"fetch_error,omitempty"`
}
