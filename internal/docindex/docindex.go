// Package docindex builds the alphabetized identifier index and the flat
// pager array the browser uses to page through it.
package docindex

import (
	"sort"
	"strings"
)

// DefaultPerPage is the number of entries shown per index panel page.
const DefaultPerPage = 25

// Entry is a single cross-reference target: a page identifier plus the
// anchor fragment of the identifier's row in that page's listing.
type Entry struct {
	Page   string `json:"page"`
	Anchor string `json:"anchor"`
}

// String renders the entry in the browser's deep-link form.
func (e Entry) String() string {
	if e.Anchor == "" {
		return e.Page
	}
	return e.Page + "#" + e.Anchor
}

// Parse splits a "page#anchor" string back into an Entry.
func Parse(s string) Entry {
	page, anchor, _ := strings.Cut(s, "#")
	return Entry{Page: page, Anchor: anchor}
}

// PageAnchors lists the anchors found on one scanned page.
type PageAnchors struct {
	Page    string
	Anchors []string
}

// Build produces the full index: one entry per anchor, ordered
// case-insensitively by anchor then page. The input order is irrelevant.
func Build(pages []PageAnchors) []Entry {
	var entries []Entry
	for _, p := range pages {
		for _, a := range p.Anchors {
			if a == "" {
				continue
			}
			entries = append(entries, Entry{Page: p.Page, Anchor: a})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		ai, aj := strings.ToLower(entries[i].Anchor), strings.ToLower(entries[j].Anchor)
		if ai != aj {
			return ai < aj
		}
		if entries[i].Anchor != entries[j].Anchor {
			return entries[i].Anchor < entries[j].Anchor
		}
		return entries[i].Page < entries[j].Page
	})
	return entries
}

// Pager returns the flat array of representative entries the browser uses
// to page through the index panel: the first entry of each perPage-sized
// window. perPage values below 1 fall back to DefaultPerPage.
func Pager(entries []Entry, perPage int) []Entry {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	var reps []Entry
	for i := 0; i < len(entries); i += perPage {
		reps = append(reps, entries[i])
	}
	return reps
}

// Page returns the entries of the n-th (zero-based) panel page.
func Page(entries []Entry, n, perPage int) []Entry {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	start := n * perPage
	if n < 0 || start >= len(entries) {
		return nil
	}
	end := start + perPage
	if end > len(entries) {
		end = len(entries)
	}
	return entries[start:end]
}

// Strings renders entries in their "page#anchor" wire form.
func Strings(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.String()
	}
	return out
}
