package navtree

import (
	"errors"
	"strings"
	"testing"
)

func TestDecode_BasicForest(t *testing.T) {
	t.Parallel()
	data := []byte(`[
		["copads", "copads-module.html", [
			["matrix", "copads.matrix-module.html", null],
			["graph", "copads.graph-module.html", null]
		]],
		["bactome", null, null]
	]`)

	roots, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(roots) != 2 {
		t.Fatalf("got %d roots, want 2", len(roots))
	}
	if roots[0].Label != "copads" || roots[0].Href != "copads-module.html" {
		t.Errorf("unexpected first root: %+v", roots[0])
	}
	if len(roots[0].Children) != 2 {
		t.Fatalf("got %d children, want 2", len(roots[0].Children))
	}
	if roots[1].Href != "" {
		t.Errorf("null href should decode to empty string, got %q", roots[1].Href)
	}
	if !roots[1].Leaf() {
		t.Error("null children should decode to a leaf")
	}
}

func TestDecode_Malformed(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		data string
		want error
	}{
		{"two elements", `[["matrix", "matrix.html"]]`, ErrEntryArity},
		{"four elements", `[["matrix", "matrix.html", null, 1]]`, ErrEntryArity},
		{"empty label", `[["", "matrix.html", null]]`, ErrEmptyLabel},
		{"null label", `[[null, "matrix.html", null]]`, ErrEmptyLabel},
		{"empty children", `[["matrix", "matrix.html", []]]`, ErrEmptyChildren},
		{"nested arity", `[["copads", null, [["matrix"]]]]`, ErrEntryArity},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode([]byte(tc.data))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tc.want) {
				t.Errorf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	t.Parallel()
	roots := []*Node{
		{Label: "copads", Href: "copads-module.html", Children: []*Node{
			{Label: "RBTree", Href: "copads.tree.RBTree-class.html"},
			{Label: "exceptions"},
		}},
	}

	out, err := Encode(roots)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Decode(out)
	if err != nil {
		t.Fatalf("decoding encoded output: %v", err)
	}
	if Count(got) != 3 {
		t.Errorf("got %d nodes, want 3", Count(got))
	}
	if got[0].Children[1].Href != "" {
		t.Errorf("empty href did not survive round trip: %q", got[0].Children[1].Href)
	}
}

func TestEncode_LeafChildrenAreNull(t *testing.T) {
	t.Parallel()
	out, err := Encode([]*Node{{Label: "matrix", Href: "m.html"}})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(out), "[]") {
		t.Errorf("leaf children must encode as null, not []: %s", out)
	}
	if !strings.Contains(string(out), "null") {
		t.Errorf("expected null children in output: %s", out)
	}
}

func TestEncode_EmptyForest(t *testing.T) {
	t.Parallel()
	out, err := Encode(nil)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "[]" {
		t.Errorf("got %q, want []", out)
	}
}

func TestStripJS(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"var assignment", `var navTreeData = ["x"];`, `["x"]`},
		{"bare assignment", `treeData = [1, 2];`, `[1, 2]`},
		{"raw json", `[["a", null, null]]`, `[["a", null, null]]`},
		{"no semicolon", `var t = []`, `[]`},
		{"equals inside literal", `[["a = b", null, null]];`, `[["a = b", null, null]]`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := string(StripJS([]byte(tc.in)))
			if got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDecodeJS(t *testing.T) {
	t.Parallel()
	roots, err := DecodeJS([]byte(`var navTreeData = [["copads", "copads-module.html", null]];`))
	if err != nil {
		t.Fatal(err)
	}
	if len(roots) != 1 || roots[0].Label != "copads" {
		t.Errorf("unexpected decode result: %+v", roots)
	}
}

func TestEncodeJS(t *testing.T) {
	t.Parallel()
	out, err := EncodeJS("navTreeData", []*Node{{Label: "copads", Href: "c.html"}})
	if err != nil {
		t.Fatal(err)
	}
	s := string(out)
	if !strings.HasPrefix(s, "var navTreeData = [") {
		t.Errorf("missing assignment prefix: %q", s)
	}
	if !strings.HasSuffix(strings.TrimSpace(s), ";") {
		t.Errorf("missing trailing semicolon: %q", s)
	}

	roots, err := DecodeJS(out)
	if err != nil {
		t.Fatalf("round trip through DecodeJS: %v", err)
	}
	if len(roots) != 1 {
		t.Errorf("got %d roots, want 1", len(roots))
	}
}

func TestWalk_StopsEarly(t *testing.T) {
	t.Parallel()
	roots := []*Node{
		{Label: "a", Children: []*Node{{Label: "b"}, {Label: "c"}}},
		{Label: "d"},
	}

	var visited []string
	Walk(roots, func(n *Node, _ int) bool {
		visited = append(visited, n.Label)
		return n.Label != "b"
	})
	if len(visited) != 2 || visited[1] != "b" {
		t.Errorf("walk did not stop at b: %v", visited)
	}
}

func TestWalk_Depth(t *testing.T) {
	t.Parallel()
	roots := []*Node{
		{Label: "a", Children: []*Node{
			{Label: "b", Children: []*Node{{Label: "c"}}},
		}},
	}

	depths := map[string]int{}
	Walk(roots, func(n *Node, depth int) bool {
		depths[n.Label] = depth
		return true
	})
	want := map[string]int{"a": 0, "b": 1, "c": 2}
	for label, d := range want {
		if depths[label] != d {
			t.Errorf("depth of %s: got %d, want %d", label, depths[label], d)
		}
	}
}

func TestFind(t *testing.T) {
	t.Parallel()
	roots := []*Node{
		{Label: "copads", Children: []*Node{
			{Label: "tree", Children: []*Node{
				{Label: "RBTree", Href: "copads.tree.RBTree-class.html"},
			}},
		}},
	}

	n := Find(roots, "RBTree")
	if n == nil {
		t.Fatal("RBTree not found")
	}
	if n.Href != "copads.tree.RBTree-class.html" {
		t.Errorf("wrong node: %+v", n)
	}
	if Find(roots, "NormalDistribution") != nil {
		t.Error("expected nil for missing label")
	}
}

func TestBuildNav_NestsDottedNames(t *testing.T) {
	t.Parallel()
	pages := []PageRef{
		{Name: "copads", Href: "copads-module.html"},
		{Name: "copads.matrix", Href: "copads.matrix-module.html"},
		{Name: "copads.graph", Href: "copads.graph-module.html"},
		{Name: "copads.tree", Href: "copads.tree-module.html"},
	}

	roots := BuildNav(pages)
	if len(roots) != 1 {
		t.Fatalf("got %d roots, want 1", len(roots))
	}
	root := roots[0]
	if root.Label != "copads" || root.Href != "copads-module.html" {
		t.Errorf("unexpected root: %+v", root)
	}
	if len(root.Children) != 3 {
		t.Fatalf("got %d children, want 3", len(root.Children))
	}
	// Case-insensitive alphabetical siblings.
	want := []string{"graph", "matrix", "tree"}
	for i, label := range want {
		if root.Children[i].Label != label {
			t.Errorf("child %d: got %q, want %q", i, root.Children[i].Label, label)
		}
	}
}

func TestBuildNav_PlaceholderPrefix(t *testing.T) {
	t.Parallel()
	// The parent package was never scanned; it exists only as a prefix.
	roots := BuildNav([]PageRef{
		{Name: "copads.statisticsdistribution", Href: "copads.statisticsdistribution-module.html"},
	})
	if len(roots) != 1 {
		t.Fatalf("got %d roots, want 1", len(roots))
	}
	if roots[0].Label != "copads" || roots[0].Href != "" {
		t.Errorf("expected null-href placeholder root, got %+v", roots[0])
	}
	if len(roots[0].Children) != 1 {
		t.Fatalf("placeholder lost its child: %+v", roots[0])
	}
}

func TestBuildNav_CaseInsensitiveSort(t *testing.T) {
	t.Parallel()
	roots := BuildNav([]PageRef{
		{Name: "Zebra", Href: "z.html"},
		{Name: "apple", Href: "a.html"},
		{Name: "Mango", Href: "m.html"},
	})
	got := []string{roots[0].Label, roots[1].Label, roots[2].Label}
	want := []string{"apple", "Mango", "Zebra"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCount(t *testing.T) {
	t.Parallel()
	if Count(nil) != 0 {
		t.Error("empty forest should count 0")
	}
	roots := []*Node{
		{Label: "a", Children: []*Node{{Label: "b"}}},
		{Label: "c"},
	}
	if got := Count(roots); got != 3 {
		t.Errorf("got %d, want 3", got)
	}
}
