package trip

import (
	"strings"

	"tourcab/catalog"
)

// DefaultSuggestionLimit caps the number of suggestions shown to the user.
const DefaultSuggestionLimit = 6

// Matcher turns free text into an ordered list of destination suggestions.
// It only reads its catalog and is safe for concurrent use.
type Matcher struct {
	catalog *catalog.Catalog
	limit   int
}

type MatcherOption func(*Matcher)

// WithLimit overrides DefaultSuggestionLimit. Non-positive values are ignored.
func WithLimit(limit int) MatcherOption {
	return func(m *Matcher) {
		if limit > 0 {
			m.limit = limit
		}
	}
}

func NewMatcher(c *catalog.Catalog, opts ...MatcherOption) *Matcher {
	m := &Matcher{catalog: c, limit: DefaultSuggestionLimit}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Matcher) Catalog() *catalog.Catalog {
	return m.catalog
}

func (m *Matcher) Limit() int {
	return m.limit
}

// Suggest returns at most Limit destinations for the input.
//
// Keyword matches come first: every entry whose keyword occurs in the input
// contributes all of its destinations, in catalog order. Name matches follow:
// a destination whose name occurs in the input, or whose name contains the
// whole (trimmed) input, is appended unless it is already present.
func (m *Matcher) Suggest(input string) []catalog.Destination {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return []catalog.Destination{}
	}
	text := strings.ToLower(input)
	needle := strings.ToLower(trimmed)

	matches := make([]catalog.Destination, 0, m.limit)
	seen := make(map[string]bool)
	add := func(d catalog.Destination) bool {
		if seen[d.Name] {
			return true
		}
		seen[d.Name] = true
		matches = append(matches, d)
		return len(matches) < m.limit
	}

	for _, e := range m.catalog.Entries() {
		if !strings.Contains(text, string(e.Keyword)) {
			continue
		}
		for _, d := range e.Destinations {
			if !add(d) {
				return matches
			}
		}
	}

	for _, d := range m.catalog.Flatten() {
		name := strings.ToLower(d.Name)
		if !strings.Contains(text, name) && !strings.Contains(name, needle) {
			continue
		}
		if !add(d) {
			return matches
		}
	}
	return matches
}
