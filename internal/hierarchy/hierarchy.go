// Package hierarchy builds the class inheritance tree literal from scanned
// class records. The output shares the navigation tree's entry shape:
// [label, href|null, children|null].
package hierarchy

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/docnav/docnav/internal/navtree"
)

// ErrInheritanceCycle is returned by Build when a base-class chain revisits
// a class.
var ErrInheritanceCycle = errors.New("inheritance cycle")

// ClassRecord describes one documented class: its name, the page it links
// to, and the names of its base classes as written in the class signature.
type ClassRecord struct {
	Name  string
	Href  string
	Bases []string
}

// Build assembles the inheritance forest. Every documented class appears
// exactly once, nested under its first base. A base that is not itself
// documented (object, Exception, dict, ...) becomes a placeholder root with
// a null href, with its documented subclasses nested beneath. Roots and
// siblings are ordered case-insensitively so the output is deterministic.
// Records sharing a name (unqualified names can collide across modules)
// collapse to the last record, so each name contributes one node and one
// base edge.
func Build(records []ClassRecord) ([]*navtree.Node, error) {
	records = dedupe(records)

	if err := checkCycles(records); err != nil {
		return nil, err
	}

	byName := make(map[string]ClassRecord, len(records))
	for _, r := range records {
		byName[r.Name] = r
	}

	// parent name ("" for roots with no base) → ordered child class names
	children := make(map[string][]string)
	// placeholder labels for undocumented bases, keyed by base name
	external := make(map[string]bool)

	for _, r := range records {
		parent := ""
		if len(r.Bases) > 0 {
			parent = r.Bases[0]
			if _, documented := byName[parent]; !documented {
				external[parent] = true
			}
		}
		children[parent] = append(children[parent], r.Name)
	}

	var build func(name string) *navtree.Node
	build = func(name string) *navtree.Node {
		n := &navtree.Node{Label: name}
		if r, ok := byName[name]; ok {
			n.Href = r.Href
		}
		kids := children[name]
		sortLabels(kids)
		for _, k := range kids {
			n.Children = append(n.Children, build(k))
		}
		return n
	}

	var rootLabels []string
	for _, r := range records {
		if len(r.Bases) == 0 {
			rootLabels = append(rootLabels, r.Name)
		}
	}
	for base := range external {
		rootLabels = append(rootLabels, base)
	}
	sortLabels(rootLabels)

	var roots []*navtree.Node
	for _, label := range rootLabels {
		roots = append(roots, build(label))
	}
	return roots, nil
}

// dedupe keeps one record per class name, the last one winning, in first
// appearance order.
func dedupe(records []ClassRecord) []ClassRecord {
	byName := make(map[string]ClassRecord, len(records))
	var order []string
	for _, r := range records {
		if _, seen := byName[r.Name]; !seen {
			order = append(order, r.Name)
		}
		byName[r.Name] = r
	}
	if len(order) == len(records) {
		return records
	}
	out := make([]ClassRecord, 0, len(order))
	for _, name := range order {
		out = append(out, byName[name])
	}
	return out
}

// checkCycles walks each record's first-base chain looking for a revisit.
func checkCycles(records []ClassRecord) error {
	firstBase := make(map[string]string, len(records))
	for _, r := range records {
		if len(r.Bases) > 0 {
			firstBase[r.Name] = r.Bases[0]
		}
	}

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(records))

	for _, r := range records {
		if color[r.Name] != white {
			continue
		}
		var chain []string
		name := r.Name
		for {
			if color[name] == gray {
				// trim the chain to the cycle members
				start := 0
				for i, c := range chain {
					if c == name {
						start = i
						break
					}
				}
				return fmt.Errorf("%w: %s", ErrInheritanceCycle,
					strings.Join(append(chain[start:], name), " -> "))
			}
			if color[name] == black {
				break
			}
			color[name] = gray
			chain = append(chain, name)
			next, ok := firstBase[name]
			if !ok {
				break
			}
			name = next
		}
		for _, c := range chain {
			color[c] = black
		}
	}
	return nil
}

func sortLabels(labels []string) {
	sort.Slice(labels, func(i, j int) bool {
		li, lj := strings.ToLower(labels[i]), strings.ToLower(labels[j])
		if li != lj {
			return li < lj
		}
		return labels[i] < labels[j]
	})
}
