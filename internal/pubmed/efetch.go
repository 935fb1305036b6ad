// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/pdiddy/clinical-briefing/pkg/types"
)

// ParseArticles decodes an efetch PubmedArticleSet document into raw
// records, in document order. Articles without a PMID are skipped.
func ParseArticles(data []byte) ([]types.RawRecord, error) {
	var set articleSet
	if err := xml.NewDecoder(bytes.NewReader(data)).Decode(&set); err != nil {
		return nil, fmt.Errorf("parsing efetch response: %w", err)
	}

	records := make([]types.RawRecord, 0, len(set.Articles))
	for _, a := range set.Articles {
		cit := a.Citation
		id := strings.TrimSpace(cit.PMID)
		if id == "" {
			continue
		}

		r := types.RawRecord{
			ID:      id,
			Title:   strings.TrimSpace(string(cit.Article.Title)),
			Journal: strings.TrimSpace(cit.Article.Journal.Title),
			Date:    cit.Article.Journal.Issue.PubDate.String(),
		}
		for _, seg := range cit.Article.Abstract.Segments {
			r.AbstractSegments = append(r.AbstractSegments, types.AbstractSegment{
				Label: strings.TrimSpace(seg.Label),
				Text:  strings.TrimSpace(seg.Text),
			})
		}
		records = append(records, r)
	}
	return records, nil
}

// PubMed XML structures (subset).
type articleSet struct {
	Articles []pubmedArticle `xml:"PubmedArticle"`
}

type pubmedArticle struct {
	Citation struct {
		PMID    string `xml:"PMID"`
		Article struct {
			Journal struct {
				Title string `xml:"Title"`
				Issue struct {
					PubDate pubDate `xml:"PubDate"`
				} `xml:"JournalIssue"`
			} `xml:"Journal"`
			Title    markupText `xml:"ArticleTitle"`
			Abstract struct {
				Segments []abstractText `xml:"AbstractText"`
			} `xml:"Abstract"`
		} `xml:"Article"`
	} `xml:"MedlineCitation"`
}

type pubDate struct {
	Year        string `xml:"Year"`
	Month       string `xml:"Month"`
	Day         string `xml:"Day"`
	MedlineDate string `xml:"MedlineDate"`
}

// String renders the date as PubMed prints it ("2025 Mar 14"), falling
// back to the free-form MedlineDate.
func (d pubDate) String() string {
	var parts []string
	for _, p := range []string{d.Year, d.Month, d.Day} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return strings.TrimSpace(d.MedlineDate)
	}
	return strings.Join(parts, " ")
}

// markupText collects the character data of an element and all of its
// descendants, dropping inline markup such as <i>, <sup> and <sub>.
type markupText string

func (m *markupText) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	s, err := readText(d)
	if err != nil {
		return err
	}
	*m = markupText(s)
	return nil
}

// abstractText is one AbstractText element with its optional Label.
type abstractText struct {
	Label string
	Text  string
}

func (a *abstractText) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for _, attr := range start.Attr {
		if attr.Name.Local == "Label" {
			a.Label = attr.Value
		}
	}
	s, err := readText(d)
	if err != nil {
		return err
	}
	a.Text = s
	return nil
}

// readText consumes tokens up to the end of the current element and
// returns the concatenated character data.
func readText(d *xml.Decoder) (string, error) {
	var b strings.Builder
	depth := 0
	for {
		tok, err := d.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			b.Write(t)
		case xml.StartElement:
			depth++
		case xml.EndElement:
			if depth == 0 {
				return b.String(), nil
			}
			depth--
		}
	}
}
