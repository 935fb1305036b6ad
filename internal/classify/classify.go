// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify derives study-type tags and the low-value filter from a
// paper's text. Tag rules are independent: any number may apply.
package classify

import (
	"github.com/pdiddy/clinical-briefing/internal/rules"
	"github.com/pdiddy/clinical-briefing/pkg/types"
)

// Scope selects the text a rule is evaluated against.
type Scope int

const (
	ScopeTitle Scope = iota
	ScopeTitleAbstract
	ScopeConclusion
)

// TagRule attaches Tag when any of Terms occurs in the scoped text.
type TagRule struct {
	Tag   types.Tag
	Scope Scope
	Terms rules.Terms
}

// DefaultTagRules returns the tag rules in canonical order.
func DefaultTagRules() []TagRule {
	return []TagRule{
		{Tag: types.TagRCT, Scope: ScopeTitle, Terms: rules.Terms{"randomized", "randomised", "rct", "rcts"}},
		{Tag: types.TagMetaAnalysis, Scope: ScopeTitle, Terms: rules.Terms{"meta-analysis", "meta-analyses", "meta analysis", "systematic review"}},
		{Tag: types.TagGuideline, Scope: ScopeTitleAbstract, Terms: rules.Terms{"guideline", "consensus", "recommendation"}},
		{Tag: types.TagNegative, Scope: ScopeConclusion, Terms: rules.Terms{"no significant", "no difference", "not effective"}},
		{Tag: types.TagEndoscopic, Scope: ScopeTitle, Terms: rules.Terms{"endoscopy", "endoscopic", "colonoscopy", "egd", "ercp", "eus"}},
	}
}

// LowValueTerms returns the exclusion keywords. Strict mode also drops
// retrospective and single-center studies.
func LowValueTerms(strict bool) rules.Terms {
	terms := rules.Terms{
		"case report",
		"protocol",
		"letter",
		"in vitro",
		"animal",
		"mouse",
		"mice",
		"rat",
		"rats",
	}
	if strict {
		terms = append(terms, "retrospective", "single center", "single-center", "single centre")
	}
	return terms
}

// Classifier applies a fixed rule set. It holds no mutable state.
type Classifier struct {
	tagRules []TagRule
	lowValue rules.Terms
}

// New returns a classifier configured from cfg.
func New(cfg types.ClassifierConfig) *Classifier {
	return &Classifier{
		tagRules: DefaultTagRules(),
		lowValue: LowValueTerms(cfg.Strict),
	}
}

// NewWithRules returns a classifier with explicit rules.
func NewWithRules(tagRules []TagRule, lowValue rules.Terms) *Classifier {
	return &Classifier{tagRules: tagRules, lowValue: lowValue}
}

// Classify returns the tags that apply to the given text.
func (c *Classifier) Classify(title, abstract, conclusion string) types.TagSet {
	var tags []types.Tag
	for _, r := range c.tagRules {
		if r.Terms.Match(scoped(r.Scope, title, abstract, conclusion)) {
			tags = append(tags, r.Tag)
		}
	}
	return types.NewTagSet(tags...)
}

// IsLowValue reports whether the paper should be excluded before scoring.
func (c *Classifier) IsLowValue(title, abstract string) bool {
	return c.lowValue.Match(title) || c.lowValue.Match(abstract)
}

// Apply returns p with Tags and IsLowValue set.
func (c *Classifier) Apply(p types.Paper) types.Paper {
	abstract := p.AbstractText()
	p.IsLowValue = c.IsLowValue(p.Title, abstract)
	p.Tags = c.Classify(p.Title, abstract, p.ConclusionText)
	return p
}

func scoped(s Scope, title, abstract, conclusion string) string {
	switch s {
	case ScopeTitle:
		return title
	case ScopeConclusion:
		return conclusion
	default:
		return title + "\n" + abstract
	}
}
