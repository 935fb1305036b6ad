// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package annotate attaches advisory clinical notes to papers.
//
// Three independent rule chains read the conclusion (or the title when the
// conclusion is empty). Each chain is first-match-wins with its own default,
// so the three notes can disagree with each other. The notes are keyword
// heuristics, not clinical decision support.
package annotate

import (
	"github.com/pdiddy/clinical-briefing/internal/rules"
	"github.com/pdiddy/clinical-briefing/pkg/types"
)

// Fallback notes used when no rule matches.
const (
	DefaultInterpretation = "Requires individualized clinical judgment"
	DefaultAction         = "Needs further confirmation"
	DefaultOrder          = "Patient-specific judgment required"
)

var negativeTerms = rules.Terms{"no significant", "no difference", "not effective", "did not improve", "failed to"}

// Rules groups the three annotation chains.
type Rules struct {
	Interpretation rules.Chain[string]
	Action         rules.Chain[string]
	Order          rules.Chain[string]
}

// DefaultRules returns the built-in chains.
func DefaultRules() Rules {
	return Rules{
		Interpretation: rules.Chain[string]{
			Rules: []rules.Rule[string]{
				{Name: "superior", Terms: rules.Terms{"superior", "significantly improved", "significantly reduced", "significantly higher"}, Result: "Evidence favors the intervention over the comparator"},
				{Name: "noninferior", Terms: rules.Terms{"noninferior", "non-inferior", "equivalent", "comparable"}, Result: "Intervention performs comparably to the current standard"},
				{Name: "negative", Terms: negativeTerms, Result: "No clinically meaningful benefit demonstrated"},
				{Name: "association", Terms: rules.Terms{"associated with", "risk factor", "predictor"}, Result: "Observational association; causality not established"},
				{Name: "guidance", Terms: rules.Terms{"guideline", "consensus", "recommend"}, Result: "Society-level guidance; check alignment with local protocols"},
			},
			Default: DefaultInterpretation,
		},
		Action: rules.Chain[string]{
			Rules: []rules.Rule[string]{
				{Name: "adopt", Terms: rules.Terms{"superior"}, Result: "Consider adopting in practice"},
				{Name: "substitute", Terms: rules.Terms{"noninferior", "non-inferior", "equivalent"}, Result: "May substitute for the current standard"},
				{Name: "maintain", Terms: negativeTerms, Result: "Maintain current practice"},
				{Name: "guidance", Terms: rules.Terms{"guideline", "recommend"}, Result: "Review against current departmental protocol"},
			},
			Default: DefaultAction,
		},
		Order: rules.Chain[string]{
			Rules: []rules.Rule[string]{
				{Name: "hcc-surveillance", Terms: rules.Terms{"hepatocellular", "hcc"}, Result: "Liver ultrasound with or without AFP every 6 months in at-risk patients"},
				{Name: "pylori", Terms: rules.Terms{"pylori", "helicobacter"}, Result: "Test and treat H. pylori; confirm eradication at least 4 weeks after therapy"},
				{Name: "surveillance-endoscopy", Terms: rules.Terms{"barrett", "surveillance", "interval"}, Result: "Schedule surveillance endoscopy at the guideline interval"},
				{Name: "colonoscopy", Terms: rules.Terms{"adenoma", "polyp", "colorectal"}, Result: "Colonoscopy at a risk-stratified interval"},
				{Name: "pancreatic-imaging", Terms: rules.Terms{"cyst", "ipmn", "pancreatic"}, Result: "Follow-up MRI/MRCP in 6-12 months"},
				{Name: "cirrhosis", Terms: rules.Terms{"cirrhosis", "varice", "portal hypertension"}, Result: "Assess varices and consider non-selective beta-blocker"},
				{Name: "imaging", Terms: rules.Terms{"ct", "mri", "imaging"}, Result: "Repeat cross-sectional imaging in 3-6 months"},
			},
			Default: DefaultOrder,
		},
	}
}

// Annotator evaluates a fixed Rules value.
type Annotator struct {
	rules Rules
}

// New returns an annotator using r.
func New(r Rules) *Annotator {
	return &Annotator{rules: r}
}

// Annotate returns the three notes for p. Every field is non-empty as long
// as the chain defaults are.
func (a *Annotator) Annotate(p types.Paper) types.Annotation {
	text := p.ConclusionText
	if text == "" {
		text = p.Title
	}
	return types.Annotation{
		Interpretation: a.rules.Interpretation.Evaluate(text),
		Action:         a.rules.Action.Evaluate(text),
		Order:          a.rules.Order.Evaluate(text),
	}
}
