// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// Tag is a classifier output attached to a Paper.
type Tag string

const (
	TagRCT          Tag = "RCT"
	TagMetaAnalysis Tag = "MetaAnalysis"
	TagGuideline    Tag = "Guideline"
	TagNegative     Tag = "Negative"
	TagEndoscopic   Tag = "Endoscopic"
)

// AllTags lists every tag in canonical display order.
var AllTags = []Tag{TagGuideline, TagMetaAnalysis, TagRCT, TagNegative, TagEndoscopic}

// TagSet is a set of tags kept in canonical order without duplicates.
type TagSet []Tag

// NewTagSet builds a TagSet from tags in any order.
func NewTagSet(tags ...Tag) TagSet {
	var set TagSet
	for _, known := range AllTags {
		for _, t := range tags {
			if t == known {
				set = append(set, known)
				break
			}
		}
	}
	return set
}

// Has reports whether t is in the set.
func (s TagSet) Has(t Tag) bool {
	for _, x := range s {
		if x == t {
			return true
		}
	}
	return false
}

func (s TagSet) String() string {
	names := make([]string, len(s))
	for i, t := range s {
		names[i] = string(t)
	}
	return strings.Join(names, ",")
}

// Label returns the badge text shown on the briefing page.
func (t Tag) Label() string {
	switch t {
	case TagMetaAnalysis:
		return "Meta-analysis"
	case TagNegative:
		return "Negative result"
	default:
		return string(t)
	}
}
