// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/clinical-briefing/internal/secrets"
	"github.com/pdiddy/clinical-briefing/pkg/types"
)

func newTestViper(t *testing.T, yamlContent string) *viper.Viper {
	t.Helper()
	v := viper.New()
	v.SetEnvPrefix("CLINICAL_BRIEFING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnv(v)
	if yamlContent != "" {
		path := filepath.Join(t.TempDir(), "clinical-briefing.yaml")
		require.NoError(t, os.WriteFile(path, []byte(yamlContent), 0o644))
		v.SetConfigFile(path)
		require.NoError(t, v.ReadInConfig())
	}
	return v
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(newTestViper(t, ""), secrets.Set{})
	require.NoError(t, err)
	assert.Equal(t, types.DefaultPipelineConfig(), cfg)
}

func TestLoadConfigFile(t *testing.T) {
	cfg, err := loadConfig(newTestViper(t, `
fetch:
  timeout: 10s
  recent_days: 3
categories:
  - name: Liver
    query: cirrhosis[tiab]
  - name: IBD
    query: colitis[tiab]
    limit: 5
classifier:
  strict: true
registry:
  impact_factors:
    - key: gut
      impact_factor: 24.5
briefing:
  output_dir: public
  top_n: 3
`), secrets.Set{})
	require.NoError(t, err)

	assert.Equal(t, 10*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, 3, cfg.Fetch.RecentDays)
	assert.Equal(t, "clinical-briefing", cfg.Fetch.Tool, "unset keys keep defaults")
	assert.Equal(t, []types.Category{
		{Name: "Liver", Query: "cirrhosis[tiab]", Limit: types.DefaultCategoryLimit},
		{Name: "IBD", Query: "colitis[tiab]", Limit: 5},
	}, cfg.Categories)
	assert.True(t, cfg.Classifier.Strict)
	assert.Equal(t, []types.JournalImpact{{Key: "gut", ImpactFactor: 24.5}}, cfg.Registry.ImpactFactors)
	assert.Equal(t, "public", cfg.Briefing.OutputDir)
	assert.Equal(t, 3, cfg.Briefing.TopN)
	assert.Equal(t, "Asia/Seoul", cfg.Briefing.Timezone)
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	t.Setenv("CLINICAL_BRIEFING_BRIEFING_TOP_N", "8")
	t.Setenv("CLINICAL_BRIEFING_FETCH_API_KEY", "env-key")

	cfg, err := loadConfig(newTestViper(t, "briefing:\n  top_n: 3\n"), secrets.Set{secrets.NCBIAPIKey: "file-key"})
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Briefing.TopN)
	assert.Equal(t, "env-key", cfg.Fetch.APIKey)
}

func TestLoadConfigSecrets(t *testing.T) {
	cfg, err := loadConfig(newTestViper(t, ""), secrets.Set{
		secrets.NCBIAPIKey: "file-key",
		secrets.NCBIEmail:  "me@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "file-key", cfg.Fetch.APIKey)
	assert.Equal(t, "me@example.com", cfg.Fetch.Email)
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"missing query", "categories:\n  - name: GI\n", "query is required"},
		{"duplicate name", "categories:\n  - {name: GI, query: a}\n  - {name: GI, query: b}\n", "duplicate name"},
		{"negative impact factor", "registry:\n  impact_factors:\n    - {key: gut, impact_factor: -1}\n", "non-negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(newTestViper(t, tt.content), secrets.Set{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
