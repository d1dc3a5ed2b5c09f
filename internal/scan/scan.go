// Package scan walks a generated documentation site and extracts the
// records the tree and index builders consume: page names, titles, anchors
// and class signatures.
package scan

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/docnav/docnav/internal/hierarchy"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers bounds concurrent page parsing when no worker count is
// configured.
const DefaultWorkers = 8

// Page is one scanned documentation page.
type Page struct {
	Name    string   `json:"name"`    // dotted identifier, e.g. "copads.matrix.Matrix"
	File    string   `json:"file"`    // file name relative to the site root
	Title   string   `json:"title"`   // <title> text
	Anchors []string `json:"anchors"` // id/name anchors in document order
	Text    string   `json:"text"`    // extracted body text
}

// Site is the result of scanning one documentation site.
type Site struct {
	ID        string                  `json:"id"`
	Name      string                  `json:"name"`
	Root      string                  `json:"root"`
	ScannedAt time.Time               `json:"scanned_at"`
	Pages     []Page                  `json:"pages"`
	Classes   []hierarchy.ClassRecord `json:"classes"`
}

// PageByFile returns the page with the given file name, or nil.
func (s *Site) PageByFile(file string) *Page {
	for i := range s.Pages {
		if s.Pages[i].File == file {
			return &s.Pages[i]
		}
	}
	return nil
}

// Scan walks root, parses every HTML page concurrently with the given
// number of workers (values below 1 fall back to DefaultWorkers), and
// assembles a Site. The site name defaults to the root directory's base
// name. progress may be nil.
func Scan(ctx context.Context, root string, workers int, progress func(string)) (*Site, error) {
	if workers < 1 {
		workers = DefaultWorkers
	}
	if progress == nil {
		progress = func(string) {}
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("reading site root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("site root %s is not a directory", root)
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext == ".html" || ext == ".htm" {
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking site root: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no HTML pages under %s", root)
	}

	progress(fmt.Sprintf("scanning %d pages", len(files)))

	var (
		mu    sync.Mutex
		pages []Page
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, rel := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f, err := os.Open(filepath.Join(root, rel))
			if err != nil {
				return fmt.Errorf("opening page %s: %w", rel, err)
			}
			page, err := ParsePage(f, filepath.ToSlash(rel))
			f.Close()
			if err != nil {
				return fmt.Errorf("parsing page %s: %w", rel, err)
			}
			mu.Lock()
			pages = append(pages, *page)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(pages, func(i, j int) bool { return pages[i].File < pages[j].File })

	site := &Site{
		ID:        uuid.NewString(),
		Name:      filepath.Base(filepath.Clean(root)),
		Root:      root,
		ScannedAt: time.Now().UTC(),
		Pages:     pages,
	}
	site.Classes = collectClasses(pages)

	progress(fmt.Sprintf("scanned %d pages, %d classes", len(site.Pages), len(site.Classes)))
	return site, nil
}

// collectClasses pulls class records out of class pages, in file order.
func collectClasses(pages []Page) []hierarchy.ClassRecord {
	var records []hierarchy.ClassRecord
	for _, p := range pages {
		if !strings.HasSuffix(p.File, "-class.html") {
			continue
		}
		name := className(p.Name)
		bases := parseBases(p.Text, name)
		records = append(records, hierarchy.ClassRecord{
			Name:  name,
			Href:  p.File,
			Bases: bases,
		})
	}
	return records
}

// className returns the unqualified class name from a dotted page name.
func className(dotted string) string {
	if i := strings.LastIndex(dotted, "."); i >= 0 {
		return dotted[i+1:]
	}
	return dotted
}

// parseBases finds the class signature "class Name(Base1, Base2)" in the
// page text and returns the base names. A signature without parentheses, or
// an empty base list, yields nil.
func parseBases(text, name string) []string {
	marker := "class " + name
	idx := strings.Index(text, marker)
	if idx < 0 {
		return nil
	}
	rest := text[idx+len(marker):]
	if len(rest) == 0 || rest[0] != '(' {
		return nil
	}
	end := strings.IndexByte(rest, ')')
	if end < 0 {
		return nil
	}
	var bases []string
	for _, b := range strings.Split(rest[1:end], ",") {
		b = strings.TrimSpace(b)
		// strip any module qualification: "exceptions.ValueError" → "ValueError"
		if i := strings.LastIndex(b, "."); i >= 0 {
			b = b[i+1:]
		}
		if b != "" {
			bases = append(bases, b)
		}
	}
	return bases
}
