// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/clinical-briefing/pkg/types"
)

// Fixture is the on-disk form of captured raw records, keyed by category
// name. It lets a run be replayed offline without re-querying PubMed.
type Fixture struct {
	CapturedAt time.Time                    `yaml:"captured_at,omitempty"`
	Categories map[string][]types.RawRecord `yaml:"categories"`
}

// ReadFixture loads a fixture from a YAML file.
func ReadFixture(path string) (Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, fmt.Errorf("reading fixture: %w", err)
	}
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Fixture{}, fmt.Errorf("parsing fixture %s: %w", path, err)
	}
	return f, nil
}

// WriteFixture saves f to path as YAML.
func WriteFixture(path string, f Fixture) error {
	data, err := yaml.Marshal(&f)
	if err != nil {
		return fmt.Errorf("marshaling fixture: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing fixture: %w", err)
	}
	return nil
}

// FileFetcher serves records from a Fixture. Categories missing from the
// fixture yield no records.
type FileFetcher struct {
	fixture Fixture
}

// NewFileFetcher returns a fetcher over f.
func NewFileFetcher(f Fixture) *FileFetcher {
	return &FileFetcher{fixture: f}
}

// LoadFileFetcher reads a fixture file and returns a fetcher over it.
func LoadFileFetcher(path string) (*FileFetcher, error) {
	f, err := ReadFixture(path)
	if err != nil {
		return nil, err
	}
	return NewFileFetcher(f), nil
}

// Fetch returns the fixture records for cat, capped at cat.Limit.
func (f *FileFetcher) Fetch(ctx context.Context, cat types.Category) ([]types.RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	records := f.fixture.Categories[cat.Name]
	if cat.Limit > 0 && len(records) > cat.Limit {
		records = records[:cat.Limit]
	}
	out := make([]types.RawRecord, len(records))
	copy(out, records)
	return out, nil
}

// Fetcher is the retrieval contract shared by Client and FileFetcher.
type Fetcher interface {
	Fetch(ctx context.Context, cat types.Category) ([]types.RawRecord, error)
}

// Capture wraps a Fetcher and keeps every successfully fetched record so
// the run can be saved as a fixture.
type Capture struct {
	next Fetcher

	mu      sync.Mutex
	fixture Fixture
}

// NewCapture returns a capturing wrapper around next.
func NewCapture(next Fetcher) *Capture {
	return &Capture{next: next, fixture: Fixture{Categories: map[string][]types.RawRecord{}}}
}

// Fetch delegates to the wrapped fetcher and records the result.
func (c *Capture) Fetch(ctx context.Context, cat types.Category) ([]types.RawRecord, error) {
	records, err := c.next.Fetch(ctx, cat)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fixture.Categories[cat.Name] = append([]types.RawRecord(nil), records...)
	return records, nil
}

// Save writes the captured records to path, stamped with at.
func (c *Capture) Save(path string, at time.Time) error {
	c.mu.Lock()
	f := Fixture{CapturedAt: at, Categories: c.fixture.Categories}
	c.mu.Unlock()
	return WriteFixture(path, f)
}
