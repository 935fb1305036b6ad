// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTagSetCanonicalOrder(t *testing.T) {
	set := NewTagSet(TagEndoscopic, TagRCT, TagGuideline, TagRCT)
	assert.Equal(t, TagSet{TagGuideline, TagRCT, TagEndoscopic}, set)
	assert.Equal(t, "Guideline,RCT,Endoscopic", set.String())
	assert.True(t, set.Has(TagRCT))
	assert.False(t, set.Has(TagNegative))
	assert.Nil(t, NewTagSet())
}

func TestTagLabel(t *testing.T) {
	assert.Equal(t, "Meta-analysis", TagMetaAnalysis.Label())
	assert.Equal(t, "Negative result", TagNegative.Label())
	assert.Equal(t, "RCT", TagRCT.Label())
}

func TestPaperAbstractTextAndURL(t *testing.T) {
	p := Paper{
		ID: "40000001",
		AbstractSegments: []AbstractSegment{
			{Label: "BACKGROUND", Text: " First. "},
			{Text: ""},
			{Label: "CONCLUSIONS", Text: "Second."},
		},
	}
	assert.Equal(t, "First. Second.", p.AbstractText())
	assert.Equal(t, "https://pubmed.ncbi.nlm.nih.gov/40000001/", p.URL())
	assert.Empty(t, Paper{}.URL())
}

func TestDefaultPipelineConfigIsValid(t *testing.T) {
	cfg := DefaultPipelineConfig()
	require.NoError(t, cfg.Validate())
	assert.Len(t, cfg.Categories, 3)
	assert.Equal(t, "Asia/Seoul", cfg.Briefing.Timezone)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*PipelineConfig)
		errMsg string
	}{
		{"no categories", func(c *PipelineConfig) { c.Categories = nil }, "no categories"},
		{"blank name", func(c *PipelineConfig) { c.Categories[0].Name = "  " }, "name is required"},
		{"duplicate name", func(c *PipelineConfig) { c.Categories[1].Name = "GI" }, "duplicate name"},
		{"blank query", func(c *PipelineConfig) { c.Categories[2].Query = "" }, "query is required"},
		{"empty registry key", func(c *PipelineConfig) {
			c.Registry.ImpactFactors = []JournalImpact{{Key: " ", ImpactFactor: 1}}
		}, "empty key"},
		{"NaN impact factor", func(c *PipelineConfig) {
			c.Registry.ImpactFactors = []JournalImpact{{Key: "gut", ImpactFactor: math.NaN()}}
		}, "non-negative"},
		{"negative top n", func(c *PipelineConfig) { c.Briefing.TopN = -1 }, "top_n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultPipelineConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestValidateFillsLimits(t *testing.T) {
	cfg := DefaultPipelineConfig()
	cfg.Categories = []Category{{Name: " Liver ", Query: "liver"}}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "Liver", cfg.Categories[0].Name)
	assert.Equal(t, DefaultCategoryLimit, cfg.Categories[0].Limit)
}
