// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/clinical-briefing/internal/pubmed"
	"github.com/pdiddy/clinical-briefing/internal/registry"
	"github.com/pdiddy/clinical-briefing/pkg/types"
)

func rankFixture() *pubmed.FileFetcher {
	return pubmed.NewFileFetcher(pubmed.Fixture{Categories: map[string][]types.RawRecord{
		"GI": {
			{ID: "1", Title: "Case report of gastric lesion", Journal: "Gut"},
			{ID: "2", Title: "Randomized trial of vonoprazan", Journal: "Gut"},
			{ID: "3", Title: "AGA guideline on Barrett esophagus", Journal: "Gastroenterology"},
		},
	}})
}

func TestRankRecordsTable(t *testing.T) {
	cfg := types.DefaultPipelineConfig()
	var buf bytes.Buffer
	require.NoError(t, rankRecords(context.Background(), &buf, cfg, rankFixture(), false))

	out := buf.String()
	assert.Contains(t, out, "== GI (2 ranked, 1 excluded)")
	assert.Contains(t, out, "== Liver (0 ranked, 0 excluded)")
	assert.Less(t, strings.Index(out, "AGA guideline"), strings.Index(out, "Randomized trial"))
	assert.NotContains(t, out, "Case report")
	assert.Contains(t, out, "2 papers ranked")
}

func TestRankRecordsJSON(t *testing.T) {
	cfg := types.DefaultPipelineConfig()
	var buf bytes.Buffer
	require.NoError(t, rankRecords(context.Background(), &buf, cfg, rankFixture(), true))

	var doc struct {
		Highlights []struct {
			ID       string `json:"id"`
			Category string `json:"category"`
		} `json:"highlights"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc.Highlights, 1)
	assert.Equal(t, "3", doc.Highlights[0].ID)
	assert.Equal(t, "GI", doc.Highlights[0].Category)
}

func TestLookupJournals(t *testing.T) {
	var buf bytes.Buffer
	lookupJournals(&buf, registry.Default(), []string{"Clinical Gastroenterology and Hepatology", "Digestion"})

	out := buf.String()
	assert.Contains(t, out, "clinical gastroenterology and hepatology")
	assert.Contains(t, out, "11.6")
	assert.Contains(t, out, "(none)")
}

func TestListJournals(t *testing.T) {
	var buf bytes.Buffer
	listJournals(&buf, registry.Default())
	assert.Contains(t, buf.String(), "new england journal of medicine")
}
