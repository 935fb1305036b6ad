// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package score computes the additive relevance score of a paper.
//
// Each signal contributes points independently; there is no normalization
// and no cap, so one strong signal (a guideline, a top journal) can outrank
// several weak ones. The score is never negative and never NaN.
package score

import (
	"math"

	"github.com/pdiddy/clinical-briefing/internal/rules"
	"github.com/pdiddy/clinical-briefing/pkg/types"
)

// Mention awards Points when any of Terms occurs in the title or abstract.
type Mention struct {
	Terms  rules.Terms
	Points float64
}

// Weights holds the scoring table.
type Weights struct {
	Tags map[types.Tag]float64

	// ImpactFactorDivisor scales the journal impact factor (IF / divisor).
	ImpactFactorDivisor float64

	Mentions []Mention
}

// DefaultWeights returns the standard scoring table.
func DefaultWeights() Weights {
	return Weights{
		Tags: map[types.Tag]float64{
			types.TagRCT:          10,
			types.TagMetaAnalysis: 8,
			types.TagGuideline:    15,
		},
		ImpactFactorDivisor: 2,
		Mentions: []Mention{
			{Terms: rules.Terms{"mortality"}, Points: 5},
			{Terms: rules.Terms{"survival"}, Points: 5},
			{Terms: rules.Terms{"first-line"}, Points: 4},
		},
	}
}

// Scorer applies a fixed Weights table.
type Scorer struct {
	weights Weights
}

// New returns a scorer using w.
func New(w Weights) *Scorer {
	return &Scorer{weights: w}
}

// Score returns the relevance score of p. It reads Tags, PrestigeScore,
// Title and the abstract, all of which are fixed once the paper is classified.
func (s *Scorer) Score(p types.Paper) float64 {
	total := 0.0
	for _, t := range p.Tags {
		total += nonNegative(s.weights.Tags[t])
	}
	if s.weights.ImpactFactorDivisor > 0 {
		total += nonNegative(p.PrestigeScore / s.weights.ImpactFactorDivisor)
	}

	text := p.Title + "\n" + p.AbstractText()
	for _, m := range s.weights.Mentions {
		if m.Terms.Match(text) {
			total += nonNegative(m.Points)
		}
	}
	return total
}

// Apply returns p with RelevanceScore set.
func (s *Scorer) Apply(p types.Paper) types.Paper {
	p.RelevanceScore = s.Score(p)
	return p
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
