package scan

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// ParsePage parses a single documentation page. The page name is derived
// from the file name by stripping the generator's "-module"/"-class"
// suffixes, so "copads.matrix.Matrix-class.html" names
// "copads.matrix.Matrix".
func ParsePage(r io.Reader, file string) (*Page, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	page := &Page{
		Name: pageName(file),
		File: file,
	}

	var text strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			switch n.Data {
			case "script", "style":
				return
			case "title":
				page.Title = strings.TrimSpace(textContent(n))
				return
			}
			// deep-link targets use <a name="...">; an element carrying
			// both name and id is still a single anchor
			if v := anchorTarget(n); v != "" {
				page.Anchors = append(page.Anchors, v)
			}
		case html.TextNode:
			if t := strings.TrimSpace(n.Data); t != "" {
				if text.Len() > 0 {
					text.WriteByte(' ')
				}
				text.WriteString(t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	page.Text = text.String()
	if page.Title == "" {
		page.Title = page.Name
	}
	return page, nil
}

// anchorTarget returns the fragment target an element contributes: the
// name attribute of an <a>, falling back to any element's id.
func anchorTarget(n *html.Node) string {
	if n.Data == "a" {
		if v := attr(n, "name"); v != "" {
			return v
		}
	}
	return attr(n, "id")
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// pageName strips directories, the .html extension and the generator's
// page-kind suffixes from a file name.
func pageName(file string) string {
	name := file
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSuffix(name, ".html")
	name = strings.TrimSuffix(name, ".htm")
	name = strings.TrimSuffix(name, "-module")
	name = strings.TrimSuffix(name, "-class")
	name = strings.TrimSuffix(name, "-pysrc")
	return name
}
