// Package ratings holds the user's title → score mapping: parsing it from a
// tabular source and publishing immutable snapshots.
package ratings

import (
	"slices"
	"strconv"
)

// Entry is one rated title.
type Entry struct {
	Title string  `json:"title"`
	Score float64 `json:"score"`
}

// FormatScore renders a score without trailing zeros ("90", "87.5").
func FormatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}

// Map is an immutable title → score mapping that remembers source order.
// Titles are case-sensitive. A nil *Map behaves as empty.
type Map struct {
	entries []Entry
	index   map[string]int
}

// NewMap builds a Map from entries in order. A repeated title keeps its first
// position and takes the later score.
func NewMap(entries []Entry) *Map {
	m := &Map{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		if i, ok := m.index[e.Title]; ok {
			m.entries[i].Score = e.Score
			continue
		}
		m.index[e.Title] = len(m.entries)
		m.entries = append(m.entries, e)
	}
	return m
}

// Empty returns a Map with no entries.
func Empty() *Map {
	return NewMap(nil)
}

// Len returns the number of titles.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Score returns the score for title.
func (m *Map) Score(title string) (float64, bool) {
	if m == nil {
		return 0, false
	}
	i, ok := m.index[title]
	if !ok {
		return 0, false
	}
	return m.entries[i].Score, true
}

// Has reports whether title is rated.
func (m *Map) Has(title string) bool {
	_, ok := m.Score(title)
	return ok
}

// Entries returns a copy of the entries in source order.
func (m *Map) Entries() []Entry {
	if m == nil {
		return []Entry{}
	}
	return slices.Clone(m.entries)
}

// Equal reports whether both maps hold the same titles, scores and order.
func (m *Map) Equal(other *Map) bool {
	if m.Len() != other.Len() {
		return false
	}
	if m.Len() == 0 {
		return true
	}
	return slices.Equal(m.entries, other.entries)
}
