// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rules provides keyword matching and ordered first-match rule
// chains shared by the classifier, the annotator, and the journal registry.
// Rule chains are plain values so their order, and therefore their
// tie-breaking, can be inspected and tested directly.
package rules

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// shortTermLen is the longest single-word term that matches only on word
// boundaries. Longer terms match as substrings.
const shortTermLen = 4

// Terms is a list of lowercase keywords. Short single-word terms such as
// "rct", "rat" or "eus" match whole words only, so "rat" does not match
// "rate" and "eus" does not match "ileus".
type Terms []string

// Match reports whether text contains any term. Matching is case-insensitive.
func (ts Terms) Match(text string) bool {
	_, ok := ts.First(text)
	return ok
}

// First returns the first term, in list order, found in text.
func (ts Terms) First(text string) (string, bool) {
	if text == "" {
		return "", false
	}
	lower := strings.ToLower(text)
	for _, t := range ts {
		if containsTerm(lower, strings.ToLower(t)) {
			return t, true
		}
	}
	return "", false
}

func containsTerm(text, term string) bool {
	if term == "" {
		return false
	}
	if !isShortWord(term) {
		return strings.Contains(text, term)
	}
	for from := 0; from < len(text); {
		idx := strings.Index(text[from:], term)
		if idx < 0 {
			return false
		}
		start := from + idx
		end := start + len(term)
		if boundaryBefore(text, start) && boundaryAfter(text, end) {
			return true
		}
		from = start + 1
	}
	return false
}

func isShortWord(term string) bool {
	if len(term) > shortTermLen {
		return false
	}
	for _, r := range term {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func boundaryBefore(text string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func boundaryAfter(text string, i int) bool {
	if i >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// Rule pairs a keyword predicate with a result.
type Rule[T any] struct {
	// Name identifies the rule in tests and debug output.
	Name   string
	Terms  Terms
	Result T
}

// Chain is an ordered list of rules evaluated first match wins, with a
// fallback result when nothing matches.
type Chain[T any] struct {
	Rules   []Rule[T]
	Default T
}

// Match returns the first rule whose terms occur in text.
func (c Chain[T]) Match(text string) (Rule[T], bool) {
	for _, r := range c.Rules {
		if r.Terms.Match(text) {
			return r, true
		}
	}
	return Rule[T]{}, false
}

// Evaluate returns the result of the first matching rule, or Default.
func (c Chain[T]) Evaluate(text string) T {
	if r, ok := c.Match(text); ok {
		return r.Result
	}
	return c.Default
}
