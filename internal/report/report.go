// Package report renders a markdown summary of a scanned site and its
// validation findings, plus an HTML rendering for the viewer server.
package report

import (
	"fmt"
	"sort"
	"strings"

	gm "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	gmparser "github.com/gomarkdown/markdown/parser"

	"github.com/docnav/docnav/internal/docindex"
	"github.com/docnav/docnav/internal/scan"
	"github.com/docnav/docnav/internal/validate"
)

// Markdown builds the scan report in markdown.
func Markdown(site *scan.Site, problems []validate.Problem) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Scan report: %s\n\n", site.Name)
	fmt.Fprintf(&sb, "- Scan: `%s` at %s\n", site.ID, site.ScannedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&sb, "- Pages: %d\n", len(site.Pages))

	anchors := 0
	var indexPages []docindex.PageAnchors
	for _, p := range site.Pages {
		anchors += len(p.Anchors)
		indexPages = append(indexPages, docindex.PageAnchors{Page: p.File, Anchors: p.Anchors})
	}
	entries := docindex.Build(indexPages)
	fmt.Fprintf(&sb, "- Anchors: %d\n", anchors)
	fmt.Fprintf(&sb, "- Classes: %d\n", len(site.Classes))
	fmt.Fprintf(&sb, "- Index entries: %d (%d panel pages)\n\n",
		len(entries), len(docindex.Pager(entries, docindex.DefaultPerPage)))

	if len(problems) == 0 {
		sb.WriteString("## Validation\n\nNo problems found.\n")
		return sb.String()
	}

	fmt.Fprintf(&sb, "## Validation: %d problem(s)\n\n", len(problems))

	byKind := make(map[string][]validate.Problem)
	for _, p := range problems {
		byKind[p.Kind] = append(byKind[p.Kind], p)
	}
	kinds := make([]string, 0, len(byKind))
	for k := range byKind {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)

	for _, k := range kinds {
		fmt.Fprintf(&sb, "### %s\n\n", k)
		for _, p := range byKind[k] {
			fmt.Fprintf(&sb, "- `%s`: %s\n", p.Where, p.Message)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// HTML renders the markdown report as a standalone HTML fragment.
func HTML(md string) []byte {
	doc := gm.Parse([]byte(md), gmparser.NewWithExtensions(
		gmparser.CommonExtensions|gmparser.Autolink,
	))
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return gm.Render(doc, renderer)
}
