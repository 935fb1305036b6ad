// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "clinical-briefing/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for the PubMed E-utilities adapter.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the E-utilities root (default https://eutils.ncbi.nlm.nih.gov/entrez/eutils).
	BaseURL string `json:"base_url" yaml:"base_url"`

	// APIKey raises the NCBI rate limit from 3 to 10 requests per second.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Email and Tool identify the caller per NCBI usage policy.
	Email string `json:"email,omitempty" yaml:"email,omitempty"`
	Tool  string `json:"tool" yaml:"tool"`

	// RecentDays restricts searches to papers published in the last N days (0 = no restriction).
	RecentDays int `json:"recent_days" yaml:"recent_days"`

	// MaxRetries is the number of retries on HTTP 429/5xx (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// RequestsPerSecond overrides the NCBI rate limit (0 = 3, or 10 with an API key).
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`
}

// Category is a named PubMed query group. Read-only for the run.
type Category struct {
	Name string `json:"name" yaml:"name"`

	// Query is the PubMed search expression.
	Query string `json:"query" yaml:"query"`

	// Limit caps the number of records fetched (default 20).
	Limit int `json:"limit" yaml:"limit"`
}

// ClassifierConfig selects the classifier rule set.
type ClassifierConfig struct {
	// Strict adds "retrospective" and "single center" to the low-value filter.
	Strict bool `json:"strict" yaml:"strict"`
}

// JournalImpact maps a journal-name substring to an impact factor.
type JournalImpact struct {
	Key          string  `json:"key" yaml:"key"`
	ImpactFactor float64 `json:"impact_factor" yaml:"impact_factor"`
}

// RegistryConfig overrides the built-in journal registry. Empty lists keep
// the defaults. ImpactFactors is evaluated in order; the first key contained
// in the journal name wins.
type RegistryConfig struct {
	TopTier       []string        `json:"top_tier,omitempty" yaml:"top_tier,omitempty"`
	ImpactFactors []JournalImpact `json:"impact_factors,omitempty" yaml:"impact_factors,omitempty"`
}

// BriefingConfig holds settings for the rendered page.
type BriefingConfig struct {
	// OutputDir receives index.html and briefing.md.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	Title string `json:"title" yaml:"title"`

	// Timezone is the IANA zone used for the "last updated" stamp.
	Timezone string `json:"timezone" yaml:"timezone"`

	// TopN is the size of the cross-category highlight list.
	TopN int `json:"top_n" yaml:"top_n"`

	// PracticeChangingOnly restricts the highlight list to practice-changing papers.
	PracticeChangingOnly bool `json:"practice_changing_only" yaml:"practice_changing_only"`
}

// PipelineConfig groups all settings for one run.
type PipelineConfig struct {
	Fetch      FetchConfig      `json:"fetch" yaml:"fetch"`
	Categories []Category       `json:"categories" yaml:"categories"`
	Classifier ClassifierConfig `json:"classifier" yaml:"classifier"`
	Registry   RegistryConfig   `json:"registry" yaml:"registry"`
	Briefing   BriefingConfig   `json:"briefing" yaml:"briefing"`
}

// DefaultCategoryLimit is used when a category omits its limit.
const DefaultCategoryLimit = 20

// DefaultPipelineConfig returns the configuration used when no config file
// is present: three gastroenterology categories over the last week.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Fetch: FetchConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   30 * time.Second,
				UserAgent: "clinical-briefing/0.1",
			},
			BaseURL:    "https://eutils.ncbi.nlm.nih.gov/entrez/eutils",
			Tool:       "clinical-briefing",
			RecentDays: 7,
			MaxRetries: 5,
		},
		Categories: []Category{
			{
				Name:  "GI",
				Query: `("Gastrointestinal Diseases"[Mesh] OR colonoscopy[tiab] OR "inflammatory bowel disease"[tiab] OR "colorectal cancer"[tiab]) AND english[la] AND hasabstract`,
				Limit: DefaultCategoryLimit,
			},
			{
				Name:  "Liver",
				Query: `("Liver Diseases"[Mesh] OR cirrhosis[tiab] OR hepatocellular[tiab] OR MASLD[tiab]) AND english[la] AND hasabstract`,
				Limit: DefaultCategoryLimit,
			},
			{
				Name:  "Pancreas/Biliary",
				Query: `("Pancreatic Diseases"[Mesh] OR "Biliary Tract Diseases"[Mesh] OR ERCP[tiab] OR pancreatitis[tiab]) AND english[la] AND hasabstract`,
				Limit: DefaultCategoryLimit,
			},
		},
		Briefing: BriefingConfig{
			OutputDir:            "site",
			Title:                "Daily GI Literature Briefing",
			Timezone:             "Asia/Seoul",
			TopN:                 5,
			PracticeChangingOnly: true,
		},
	}
}

// Validate checks the configuration and fills zero category limits.
func (c *PipelineConfig) Validate() error {
	if len(c.Categories) == 0 {
		return fmt.Errorf("no categories configured")
	}
	seen := make(map[string]bool, len(c.Categories))
	for i := range c.Categories {
		cat := &c.Categories[i]
		cat.Name = strings.TrimSpace(cat.Name)
		if cat.Name == "" {
			return fmt.Errorf("category %d: name is required", i+1)
		}
		if seen[cat.Name] {
			return fmt.Errorf("category %q: duplicate name", cat.Name)
		}
		seen[cat.Name] = true
		if strings.TrimSpace(cat.Query) == "" {
			return fmt.Errorf("category %q: query is required", cat.Name)
		}
		if cat.Limit <= 0 {
			cat.Limit = DefaultCategoryLimit
		}
	}
	for _, e := range c.Registry.ImpactFactors {
		if strings.TrimSpace(e.Key) == "" {
			return fmt.Errorf("registry: impact factor entry with empty key")
		}
		if math.IsNaN(e.ImpactFactor) || math.IsInf(e.ImpactFactor, 0) || e.ImpactFactor < 0 {
			return fmt.Errorf("registry: impact factor for %q must be a non-negative number", e.Key)
		}
	}
	if c.Briefing.TopN < 0 {
		return fmt.Errorf("briefing: top_n must not be negative")
	}
	return nil
}
