// Package search maintains a full-text index over scanned pages and index
// entries, backed by bleve.
package search

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/docnav/docnav/internal/docindex"
	"github.com/docnav/docnav/internal/scan"
)

const (
	batchSize    = 100
	snippetBytes = 400
)

// Doc is one indexed document: a page or an index entry.
type Doc struct {
	Site    string `json:"site"`
	Kind    string `json:"kind"` // "page" or "entry"
	Label   string `json:"label"`
	Page    string `json:"page"`
	Anchor  string `json:"anchor,omitempty"`
	Snippet string `json:"snippet,omitempty"`
}

// Result is one search hit with its docnav:// URI.
type Result struct {
	URI     string  `json:"uri"`
	Site    string  `json:"site"`
	Kind    string  `json:"kind"`
	Label   string  `json:"label"`
	Score   float64 `json:"score"`
	Snippet string  `json:"snippet,omitempty"`
}

// Index wraps a bleve index on disk.
type Index struct {
	idx bleve.Index
}

// Open opens the index at path, creating it if absent.
func Open(path string) (*Index, error) {
	idx, err := bleve.Open(path)
	if err == bleve.ErrorIndexPathDoesNotExist {
		idx, err = bleve.New(path, bleve.NewIndexMapping())
	}
	if err != nil {
		return nil, fmt.Errorf("opening search index: %w", err)
	}
	return &Index{idx: idx}, nil
}

func (ix *Index) Close() error {
	return ix.idx.Close()
}

// Rebuild removes any existing index at path and builds a fresh one.
func Rebuild(path string) (*Index, error) {
	if err := os.RemoveAll(path); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("removing old index: %w", err)
	}
	return Open(path)
}

// IndexSite adds a site's pages and index entries in batches. Existing
// documents for the site are removed first.
func (ix *Index) IndexSite(site *scan.Site) (int, error) {
	if err := ix.DeleteSite(site.Name); err != nil {
		return 0, err
	}

	batch := ix.idx.NewBatch()
	count := 0
	add := func(id string, doc Doc) error {
		if err := batch.Index(id, doc); err != nil {
			return fmt.Errorf("batching doc %s: %w", id, err)
		}
		count++
		if batch.Size() >= batchSize {
			if err := ix.idx.Batch(batch); err != nil {
				return fmt.Errorf("indexing batch: %w", err)
			}
			batch = ix.idx.NewBatch()
		}
		return nil
	}

	var indexPages []docindex.PageAnchors
	for _, p := range site.Pages {
		doc := Doc{
			Site:    site.Name,
			Kind:    "page",
			Label:   p.Name,
			Page:    p.File,
			Snippet: truncateSnippet(p.Text, snippetBytes),
		}
		if err := add(docID(site.Name, p.File, ""), doc); err != nil {
			return count, err
		}
		indexPages = append(indexPages, docindex.PageAnchors{Page: p.File, Anchors: p.Anchors})
	}

	for _, e := range docindex.Build(indexPages) {
		doc := Doc{
			Site:   site.Name,
			Kind:   "entry",
			Label:  e.Anchor,
			Page:   e.Page,
			Anchor: e.Anchor,
		}
		if err := add(docID(site.Name, e.Page, e.Anchor), doc); err != nil {
			return count, err
		}
	}

	if batch.Size() > 0 {
		if err := ix.idx.Batch(batch); err != nil {
			return count, fmt.Errorf("indexing final batch: %w", err)
		}
	}
	return count, nil
}

// DeleteSite removes all documents belonging to the site.
func (ix *Index) DeleteSite(siteName string) error {
	tq := bleve.NewTermQuery(siteName)
	tq.SetField("site")
	req := bleve.NewSearchRequest(tq)
	req.Size = 10000
	res, err := ix.idx.Search(req)
	if err != nil {
		return fmt.Errorf("finding site docs: %w", err)
	}
	batch := ix.idx.NewBatch()
	for _, hit := range res.Hits {
		batch.Delete(hit.ID)
	}
	if batch.Size() > 0 {
		if err := ix.idx.Batch(batch); err != nil {
			return fmt.Errorf("deleting site docs: %w", err)
		}
	}
	return nil
}

// Search runs a match-or-prefix query, optionally filtered to one site.
func (ix *Index) Search(q, site string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 10
	}

	match := bleve.NewMatchQuery(q)
	prefix := bleve.NewPrefixQuery(strings.ToLower(q))
	var searchQuery query.Query = bleve.NewDisjunctionQuery(match, prefix)

	if site != "" {
		tq := bleve.NewTermQuery(site)
		tq.SetField("site")
		searchQuery = bleve.NewConjunctionQuery(searchQuery, tq)
	}

	req := bleve.NewSearchRequest(searchQuery)
	req.Size = limit
	req.Fields = []string{"*"}

	res, err := ix.idx.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	var results []Result
	for _, hit := range res.Hits {
		r := Result{Score: hit.Score}
		var page, anchor string
		if v, ok := hit.Fields["site"].(string); ok {
			r.Site = v
		}
		if v, ok := hit.Fields["kind"].(string); ok {
			r.Kind = v
		}
		if v, ok := hit.Fields["label"].(string); ok {
			r.Label = v
		}
		if v, ok := hit.Fields["page"].(string); ok {
			page = v
		}
		if v, ok := hit.Fields["anchor"].(string); ok {
			anchor = v
		}
		if v, ok := hit.Fields["snippet"].(string); ok {
			r.Snippet = v
		}
		r.URI = URI(r.Site, page, anchor)
		results = append(results, r)
	}
	return results, nil
}

// truncateSnippet cuts s to at most n bytes without splitting a rune.
func truncateSnippet(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// URI builds a docnav:// link for a page and optional anchor.
func URI(site, page, anchor string) string {
	uri := "docnav://" + site + "/" + page
	if anchor != "" {
		uri += "#" + anchor
	}
	return uri
}

func docID(site, page, anchor string) string {
	id := site + "/" + page
	if anchor != "" {
		id += "#" + anchor
	}
	return id
}
