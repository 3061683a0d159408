package catalog

import (
	"fmt"
	"strings"
)

// Category is the keyword a destination is filed under. Suggestion matching
// compares categories against user text, so they stay lower case.
type Category string

const (
	CategoryBeach     Category = "beach"
	CategoryWildlife  Category = "wildlife"
	CategoryMountain  Category = "mountain"
	CategoryTea       Category = "tea"
	CategoryCultural  Category = "cultural"
	CategoryAdventure Category = "adventure"
)

// Label is the display form, e.g. "Beach".
func (c Category) Label() string {
	if c == "" {
		return ""
	}
	return strings.ToUpper(string(c[:1])) + string(c[1:])
}

type Destination struct {
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	Description string   `json:"description"`
}

// Entry groups the destinations filed under one keyword.
type Entry struct {
	Keyword      Category      `json:"keyword"`
	Destinations []Destination `json:"destinations"`
}

// Catalog is an ordered, read-only list of entries. Entry order is significant:
// it decides the order of keyword matches.
type Catalog struct {
	entries []Entry
	byName  map[string]Destination
}

// New builds a catalog. Destination names must be unique across all entries.
func New(entries ...Entry) (*Catalog, error) {
	c := &Catalog{
		entries: make([]Entry, 0, len(entries)),
		byName:  make(map[string]Destination),
	}
	seenKeywords := make(map[Category]bool)
	for _, e := range entries {
		if e.Keyword == "" {
			return nil, fmt.Errorf("catalog entry without keyword")
		}
		if seenKeywords[e.Keyword] {
			return nil, fmt.Errorf("duplicate catalog keyword %q", e.Keyword)
		}
		seenKeywords[e.Keyword] = true

		dests := make([]Destination, len(e.Destinations))
		for i, d := range e.Destinations {
			if _, dup := c.byName[d.Name]; dup {
				return nil, fmt.Errorf("duplicate destination name %q", d.Name)
			}
			if d.Category == "" {
				d.Category = e.Keyword
			}
			c.byName[d.Name] = d
			dests[i] = d
		}
		c.entries = append(c.entries, Entry{Keyword: e.Keyword, Destinations: dests})
	}
	return c, nil
}

// MustNew is like New but panics on an invalid catalog.
func MustNew(entries ...Entry) *Catalog {
	c, err := New(entries...)
	if err != nil {
		panic(err)
	}
	return c
}

// Entries returns a copy of the entries in catalog order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	for i, e := range c.entries {
		out[i] = Entry{Keyword: e.Keyword, Destinations: append([]Destination(nil), e.Destinations...)}
	}
	return out
}

// Flatten returns every destination, entry by entry, in catalog order.
func (c *Catalog) Flatten() []Destination {
	out := make([]Destination, 0, len(c.byName))
	for _, e := range c.entries {
		out = append(out, e.Destinations...)
	}
	return out
}

func (c *Catalog) Lookup(name string) (Destination, bool) {
	d, ok := c.byName[name]
	return d, ok
}

func (c *Catalog) Len() int {
	return len(c.byName)
}
