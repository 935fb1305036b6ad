// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package briefing

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/clinical-briefing/pkg/types"
)

// Document is the machine-readable form of a briefing.
type Document struct {
	Title       string                 `json:"title" yaml:"title"`
	GeneratedAt time.Time              `json:"generated_at" yaml:"generated_at"`
	Counts      []CategoryCount        `json:"counts" yaml:"counts"`
	Highlights  []ExportHighlight      `json:"highlights" yaml:"highlights"`
	Categories  []types.CategoryResult `json:"categories" yaml:"categories"`
}

// ExportHighlight is a highlight entry in a Document.
type ExportHighlight struct {
	Category             string `json:"category" yaml:"category"`
	types.AnnotatedPaper `yaml:",inline"`
}

// NewDocument converts a page into its export form.
func NewDocument(p Page) Document {
	doc := Document{
		Title:       p.Title,
		GeneratedAt: p.Updated,
		Counts:      p.Counts(),
		Highlights:  make([]ExportHighlight, len(p.Highlights)),
		Categories:  p.Categories,
	}
	for i, h := range p.Highlights {
		doc.Highlights[i] = ExportHighlight{Category: h.Category, AnnotatedPaper: h.AnnotatedPaper}
	}
	return doc
}

// Export writes the page to path as JSON (.json) or YAML (.yaml, .yml).
func Export(path string, p Page) error {
	doc := NewDocument(p)

	var (
		data []byte
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		data, err = json.MarshalIndent(doc, "", "  ")
	case ".yaml", ".yml":
		data, err = yaml.Marshal(&doc)
	default:
		return fmt.Errorf("unsupported export format %q (want .json, .yaml or .yml)", ext)
	}
	if err != nil {
		return fmt.Errorf("marshaling export: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	return nil
}
