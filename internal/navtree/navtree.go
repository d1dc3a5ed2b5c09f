// Package navtree models the navigation tree literal consumed by the
// documentation browser: an arbitrarily nested array of three-element
// entries [label, href|null, children|null].
package navtree

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrEntryArity is returned when a tree entry is not exactly
	// [label, href, children].
	ErrEntryArity = errors.New("entry must have exactly 3 elements")

	// ErrEmptyLabel is returned when an entry's label is missing or empty.
	ErrEmptyLabel = errors.New("entry label must be a non-empty string")

	// ErrEmptyChildren is returned when an entry carries an empty child
	// array. Leaves encode children as null, never as [].
	ErrEmptyChildren = errors.New("child list must be null or non-empty")
)

// Node is a single entry in a navigation or hierarchy tree. Children are
// ordered; labels are not guaranteed unique across the tree. An empty Href
// marks an undocumented target (a built-in or external base type with no
// page) and encodes as JSON null.
type Node struct {
	Label    string
	Href     string
	Children []*Node
}

// Leaf reports whether the node has no children.
func (n *Node) Leaf() bool { return len(n.Children) == 0 }

// MarshalJSON encodes the node as [label, href|null, children|null].
func (n *Node) MarshalJSON() ([]byte, error) {
	var href any
	if n.Href != "" {
		href = n.Href
	}
	var children any
	if len(n.Children) > 0 {
		children = n.Children
	}
	return json.Marshal([]any{n.Label, href, children})
}

// UnmarshalJSON decodes a [label, href|null, children|null] entry.
func (n *Node) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("decoding entry: %w", err)
	}
	if len(parts) != 3 {
		return fmt.Errorf("%w, got %d", ErrEntryArity, len(parts))
	}

	if err := json.Unmarshal(parts[0], &n.Label); err != nil || n.Label == "" {
		return ErrEmptyLabel
	}

	if !isNull(parts[1]) {
		if err := json.Unmarshal(parts[1], &n.Href); err != nil {
			return fmt.Errorf("entry %q: href: %w", n.Label, err)
		}
	}

	n.Children = nil
	if !isNull(parts[2]) {
		if err := json.Unmarshal(parts[2], &n.Children); err != nil {
			return fmt.Errorf("entry %q: children: %w", n.Label, err)
		}
		if len(n.Children) == 0 {
			return fmt.Errorf("entry %q: %w", n.Label, ErrEmptyChildren)
		}
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// Decode parses a tree literal from raw JSON.
func Decode(data []byte) ([]*Node, error) {
	var roots []*Node
	if err := json.Unmarshal(data, &roots); err != nil {
		return nil, fmt.Errorf("decoding tree literal: %w", err)
	}
	return roots, nil
}

// DecodeJS parses a tree literal wrapped in the generator's JS assignment
// form, `var name = [...];`, as well as raw JSON.
func DecodeJS(data []byte) ([]*Node, error) {
	return Decode(StripJS(data))
}

// StripJS removes a leading `var name =` (or `name =`) assignment and a
// trailing semicolon, leaving the bare array literal.
func StripJS(data []byte) []byte {
	s := bytes.TrimSpace(data)
	if i := bytes.IndexByte(s, '='); i >= 0 && i < bytes.IndexByte(s, '[') {
		s = s[i+1:]
	}
	s = bytes.TrimSpace(s)
	s = bytes.TrimSuffix(s, []byte(";"))
	return bytes.TrimSpace(s)
}

// Encode renders the forest as an indented JSON array literal.
func Encode(roots []*Node) ([]byte, error) {
	if len(roots) == 0 {
		return []byte("[]"), nil
	}
	out, err := json.MarshalIndent(roots, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding tree literal: %w", err)
	}
	return out, nil
}

// EncodeJS renders the forest as a JS assignment suitable for inclusion in
// the browser's data file.
func EncodeJS(varName string, roots []*Node) ([]byte, error) {
	body, err := Encode(roots)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "var %s = %s;\n", varName, body)
	return buf.Bytes(), nil
}

// Walk visits every node in preorder. Returning false from fn stops the
// walk.
func Walk(roots []*Node, fn func(n *Node, depth int) bool) {
	var rec func(ns []*Node, depth int) bool
	rec = func(ns []*Node, depth int) bool {
		for _, n := range ns {
			if !fn(n, depth) {
				return false
			}
			if !rec(n.Children, depth+1) {
				return false
			}
		}
		return true
	}
	rec(roots, 0)
}

// Find returns the first node with the given label in preorder, or nil.
func Find(roots []*Node, label string) *Node {
	var found *Node
	Walk(roots, func(n *Node, _ int) bool {
		if n.Label == label {
			found = n
			return false
		}
		return true
	})
	return found
}

// Count returns the total number of nodes in the forest.
func Count(roots []*Node) int {
	total := 0
	Walk(roots, func(*Node, int) bool {
		total++
		return true
	})
	return total
}

// PageRef identifies a documented page by its dotted name (e.g.
// "copads.matrix") and the file it links to.
type PageRef struct {
	Name string
	Href string
}

// BuildNav assembles the sidebar navigation forest from the scanned pages.
// Dotted page names become nested entries: "copads.matrix" nests a "matrix"
// entry under "copads". Packages that exist only as a path prefix get a
// null-href placeholder entry. Siblings are sorted case-insensitively.
func BuildNav(pages []PageRef) []*Node {
	type slot struct {
		node     *Node
		children map[string]*slot
	}
	root := &slot{children: make(map[string]*slot)}

	ensure := func(parent *slot, label string) *slot {
		if s, ok := parent.children[label]; ok {
			return s
		}
		s := &slot{
			node:     &Node{Label: label},
			children: make(map[string]*slot),
		}
		parent.children[label] = s
		return s
	}

	for _, p := range pages {
		if p.Name == "" {
			continue
		}
		cur := root
		for _, part := range strings.Split(p.Name, ".") {
			cur = ensure(cur, part)
		}
		cur.node.Href = p.Href
	}

	var collect func(s *slot) []*Node
	collect = func(s *slot) []*Node {
		labels := make([]string, 0, len(s.children))
		for l := range s.children {
			labels = append(labels, l)
		}
		sort.Slice(labels, func(i, j int) bool {
			return strings.ToLower(labels[i]) < strings.ToLower(labels[j])
		})
		var out []*Node
		for _, l := range labels {
			child := s.children[l]
			child.node.Children = collect(child)
			out = append(out, child.node)
		}
		return out
	}
	return collect(root)
}
