// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package registry resolves journal names to prestige weights.
//
// Top-tier membership is an exact, case-insensitive name match. Impact
// factors are resolved by scanning an ordered list of name substrings and
// taking the first key contained in the journal name. A journal whose name
// embeds several keys ("Clinical Gastroenterology and Hepatology" contains
// both "gastroenterology" and "hepatology") resolves to whichever key comes
// first, so the default list orders more specific keys before general ones.
package registry

import (
	"fmt"
	"math"
	"strings"

	"github.com/pdiddy/clinical-briefing/pkg/types"
)

// DefaultImpactFactors is the built-in impact-factor table, in match order.
var DefaultImpactFactors = []types.JournalImpact{
	{Key: "new england journal of medicine", ImpactFactor: 96.2},
	{Key: "lancet. gastroenterology", ImpactFactor: 30.9},
	{Key: "lancet gastroenterology", ImpactFactor: 30.9},
	{Key: "lancet", ImpactFactor: 98.4},
	{Key: "jama", ImpactFactor: 63.1},
	{Key: "bmj", ImpactFactor: 93.6},
	{Key: "nature medicine", ImpactFactor: 58.7},
	{Key: "clinical gastroenterology and hepatology", ImpactFactor: 11.6},
	{Key: "american journal of gastroenterology", ImpactFactor: 8.0},
	{Key: "journal of hepatology", ImpactFactor: 26.8},
	{Key: "gastrointestinal endoscopy", ImpactFactor: 6.7},
	{Key: "alimentary pharmacology", ImpactFactor: 6.6},
	{Key: "gastroenterology", ImpactFactor: 29.4},
	{Key: "hepatology", ImpactFactor: 12.9},
	{Key: "endoscopy", ImpactFactor: 9.3},
	{Key: "gut", ImpactFactor: 23.0},
}

// DefaultTopTier lists top-tier journals by their NLM full title, the form
// PubMed reports in Journal/Title.
var DefaultTopTier = []string{
	"gastroenterology",
	"gut",
	"hepatology (baltimore, md.)",
	"journal of hepatology",
	"the lancet. gastroenterology & hepatology",
	"the lancet gastroenterology & hepatology",
	"the new england journal of medicine",
	"lancet (london, england)",
	"jama",
	"bmj (clinical research ed.)",
}

// Prestige is the registry's verdict for one journal name.
type Prestige struct {
	TopTier bool

	// ImpactFactor is 0 when Found is false.
	ImpactFactor float64

	// Found reports whether an impact-factor key matched.
	Found bool

	// Key is the registry key that matched, for diagnostics.
	Key string
}

// Registry is an immutable journal prestige table.
type Registry struct {
	topTier map[string]bool
	entries []types.JournalImpact
}

// New builds a registry. Keys are lowercased; order is preserved.
func New(topTier []string, entries []types.JournalImpact) (*Registry, error) {
	r := &Registry{
		topTier: make(map[string]bool, len(topTier)),
		entries: make([]types.JournalImpact, 0, len(entries)),
	}
	for _, name := range topTier {
		if name = normalizeName(name); name != "" {
			r.topTier[name] = true
		}
	}
	for _, e := range entries {
		key := normalizeName(e.Key)
		if key == "" {
			return nil, fmt.Errorf("registry entry with empty key")
		}
		if math.IsNaN(e.ImpactFactor) || math.IsInf(e.ImpactFactor, 0) || e.ImpactFactor < 0 {
			return nil, fmt.Errorf("registry entry %q: impact factor must be a non-negative number", e.Key)
		}
		r.entries = append(r.entries, types.JournalImpact{Key: key, ImpactFactor: e.ImpactFactor})
	}
	return r, nil
}

// Default returns the built-in registry.
func Default() *Registry {
	r, err := New(DefaultTopTier, DefaultImpactFactors)
	if err != nil {
		panic(fmt.Sprintf("registry: invalid defaults: %v", err))
	}
	return r
}

// FromConfig builds the registry from configuration, falling back to the
// built-in lists for any list left empty.
func FromConfig(cfg types.RegistryConfig) (*Registry, error) {
	topTier := cfg.TopTier
	if len(topTier) == 0 {
		topTier = DefaultTopTier
	}
	entries := cfg.ImpactFactors
	if len(entries) == 0 {
		entries = DefaultImpactFactors
	}
	return New(topTier, entries)
}

// Lookup resolves a journal name. Unknown or empty names yield the zero Prestige.
func (r *Registry) Lookup(journal string) Prestige {
	name := normalizeName(journal)
	if name == "" {
		return Prestige{}
	}
	p := Prestige{TopTier: r.topTier[name]}
	for _, e := range r.entries {
		if strings.Contains(name, e.Key) {
			p.ImpactFactor = e.ImpactFactor
			p.Found = true
			p.Key = e.Key
			break
		}
	}
	return p
}

// Entries returns a copy of the impact-factor table in match order.
func (r *Registry) Entries() []types.JournalImpact {
	out := make([]types.JournalImpact, len(r.entries))
	copy(out, r.entries)
	return out
}

func normalizeName(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
