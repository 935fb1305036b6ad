// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package annotate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/clinical-briefing/pkg/types"
)

func TestAnnotate(t *testing.T) {
	a := New(DefaultRules())

	tests := []struct {
		name  string
		paper types.Paper
		want  types.Annotation
	}{
		{
			name:  "empty conclusion and unmatched title",
			paper: types.Paper{Title: "Observations on dyspepsia"},
			want:  types.Annotation{Interpretation: DefaultInterpretation, Action: DefaultAction, Order: DefaultOrder},
		},
		{
			name:  "empty everything",
			paper: types.Paper{},
			want:  types.Annotation{Interpretation: DefaultInterpretation, Action: DefaultAction, Order: DefaultOrder},
		},
		{
			name: "superior with pylori",
			paper: types.Paper{
				Title:          "Vonoprazan dual therapy",
				ConclusionText: "Vonoprazan dual therapy was superior to triple therapy for H. pylori eradication.",
			},
			want: types.Annotation{
				Interpretation: "Evidence favors the intervention over the comparator",
				Action:         "Consider adopting in practice",
				Order:          "Test and treat H. pylori; confirm eradication at least 4 weeks after therapy",
			},
		},
		{
			name: "noninferior",
			paper: types.Paper{
				ConclusionText: "EUS-guided drainage was noninferior to surgery for pancreatic pseudocyst.",
			},
			want: types.Annotation{
				Interpretation: "Intervention performs comparably to the current standard",
				Action:         "May substitute for the current standard",
				Order:          "Follow-up MRI/MRCP in 6-12 months",
			},
		},
		{
			name: "negative",
			paper: types.Paper{
				ConclusionText: "Probiotics showed no significant improvement in symptoms.",
			},
			want: types.Annotation{
				Interpretation: "No clinically meaningful benefit demonstrated",
				Action:         "Maintain current practice",
				Order:          DefaultOrder,
			},
		},
		{
			name: "title fallback when conclusion empty",
			paper: types.Paper{
				Title: "Surveillance intervals after adenoma removal",
			},
			want: types.Annotation{
				Interpretation: DefaultInterpretation,
				Action:         DefaultAction,
				Order:          "Schedule surveillance endoscopy at the guideline interval",
			},
		},
		{
			name: "conclusion takes precedence over title",
			paper: types.Paper{
				Title:          "A superior approach",
				ConclusionText: "Findings were inconclusive.",
			},
			want: types.Annotation{Interpretation: DefaultInterpretation, Action: DefaultAction, Order: DefaultOrder},
		},
		{
			name: "independent chains may disagree",
			paper: types.Paper{
				ConclusionText: "Smoking was associated with superior adherence on CT follow-up.",
			},
			want: types.Annotation{
				Interpretation: "Evidence favors the intervention over the comparator",
				Action:         "Consider adopting in practice",
				Order:          "Repeat cross-sectional imaging in 3-6 months",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.Annotate(tt.paper))
		})
	}
}

func TestAnnotateIsDeterministic(t *testing.T) {
	a := New(DefaultRules())
	p := types.Paper{ConclusionText: "Equivalent outcomes in cirrhosis."}
	assert.Equal(t, a.Annotate(p), a.Annotate(p))
}

func TestDefaultRulesHaveNonEmptyResults(t *testing.T) {
	r := DefaultRules()
	for _, chain := range []struct {
		name string
		def  string
		n    int
	}{
		{"interpretation", r.Interpretation.Default, len(r.Interpretation.Rules)},
		{"action", r.Action.Default, len(r.Action.Rules)},
		{"order", r.Order.Default, len(r.Order.Rules)},
	} {
		assert.NotEmpty(t, chain.def, chain.name)
		assert.NotZero(t, chain.n, chain.name)
	}
	for _, rule := range append(append(r.Interpretation.Rules, r.Action.Rules...), r.Order.Rules...) {
		assert.NotEmpty(t, rule.Result, rule.Name)
		assert.NotEmpty(t, rule.Terms, rule.Name)
	}
}
