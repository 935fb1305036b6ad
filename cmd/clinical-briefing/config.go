// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/pdiddy/clinical-briefing/internal/secrets"
	"github.com/pdiddy/clinical-briefing/pkg/types"
)

// envKeys are the scalar settings that can be overridden from the
// environment, e.g. CLINICAL_BRIEFING_FETCH_API_KEY. Viper only consults
// the environment for keys it already knows about.
var envKeys = []string{
	"fetch.timeout",
	"fetch.user_agent",
	"fetch.base_url",
	"fetch.api_key",
	"fetch.email",
	"fetch.tool",
	"fetch.recent_days",
	"fetch.max_retries",
	"fetch.requests_per_second",
	"classifier.strict",
	"briefing.output_dir",
	"briefing.title",
	"briefing.timezone",
	"briefing.top_n",
	"briefing.practice_changing_only",
}

func bindEnv(v *viper.Viper) {
	for _, key := range envKeys {
		_ = v.BindEnv(key)
	}
}

// decodeWithYAMLTags makes viper honor the yaml struct tags used by the
// config file and exports. Slices are replaced, not merged, so a config
// file listing two categories yields exactly two.
func decodeWithYAMLTags(dc *mapstructure.DecoderConfig) {
	dc.TagName = "yaml"
	dc.Squash = true
	dc.ZeroFields = true
}

// loadConfig layers the config file and environment held by v over the
// compiled defaults, fills credentials from the secrets directory, and
// validates the result.
func loadConfig(v *viper.Viper, s secrets.Set) (types.PipelineConfig, error) {
	cfg := types.DefaultPipelineConfig()
	if err := v.Unmarshal(&cfg, decodeWithYAMLTags); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}

	cfg.Fetch.APIKey = s.Value(secrets.NCBIAPIKey, cfg.Fetch.APIKey)
	cfg.Fetch.Email = s.Value(secrets.NCBIEmail, cfg.Fetch.Email)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
