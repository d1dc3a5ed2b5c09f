package docindex

import (
	"fmt"
	"testing"
)

func TestBuild_SortedByAnchorThenPage(t *testing.T) {
	t.Parallel()
	entries := Build([]PageAnchors{
		{Page: "copads.matrix-module", Anchors: []string{"transpose", "Matrix", "add"}},
		{Page: "copads.graph-module", Anchors: []string{"add", "Graph"}},
	})

	want := []string{
		"copads.graph-module#add",
		"copads.matrix-module#add",
		"copads.graph-module#Graph",
		"copads.matrix-module#Matrix",
		"copads.matrix-module#transpose",
	}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d", len(entries), len(want))
	}
	for i, w := range want {
		if entries[i].String() != w {
			t.Errorf("entry %d: got %q, want %q", i, entries[i], w)
		}
	}
}

func TestBuild_SkipsEmptyAnchors(t *testing.T) {
	t.Parallel()
	entries := Build([]PageAnchors{
		{Page: "p", Anchors: []string{"", "x", ""}},
	})
	if len(entries) != 1 || entries[0].Anchor != "x" {
		t.Errorf("got %+v, want single x entry", entries)
	}
}

func TestBuild_CaseOnlyTiesAreDeterministic(t *testing.T) {
	t.Parallel()
	entries := Build([]PageAnchors{
		{Page: "p", Anchors: []string{"tree", "Tree", "TREE"}},
	})
	got := []string{entries[0].Anchor, entries[1].Anchor, entries[2].Anchor}
	want := []string{"TREE", "Tree", "tree"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestEntry_StringParse(t *testing.T) {
	t.Parallel()
	cases := []struct {
		entry Entry
		s     string
	}{
		{Entry{Page: "copads.ragaraja-module", Anchor: "interpret"}, "copads.ragaraja-module#interpret"},
		{Entry{Page: "copads-module", Anchor: ""}, "copads-module"},
	}
	for _, tc := range cases {
		if got := tc.entry.String(); got != tc.s {
			t.Errorf("String: got %q, want %q", got, tc.s)
		}
		if got := Parse(tc.s); got != tc.entry {
			t.Errorf("Parse(%q): got %+v, want %+v", tc.s, got, tc.entry)
		}
	}
}

func TestPager_FirstOfEachWindow(t *testing.T) {
	t.Parallel()
	entries := make([]Entry, 60)
	for i := range entries {
		entries[i] = Entry{Page: "p", Anchor: fmt.Sprintf("a%03d", i)}
	}

	reps := Pager(entries, 25)
	if len(reps) != 3 {
		t.Fatalf("got %d pager entries, want 3", len(reps))
	}
	want := []string{"a000", "a025", "a050"}
	for i, w := range want {
		if reps[i].Anchor != w {
			t.Errorf("pager %d: got %q, want %q", i, reps[i].Anchor, w)
		}
	}
}

func TestPager_DefaultPerPage(t *testing.T) {
	t.Parallel()
	entries := make([]Entry, DefaultPerPage+1)
	for i := range entries {
		entries[i] = Entry{Page: "p", Anchor: fmt.Sprintf("a%03d", i)}
	}
	if got := len(Pager(entries, 0)); got != 2 {
		t.Errorf("got %d pager entries, want 2", got)
	}
	if got := len(Pager(nil, 25)); got != 0 {
		t.Errorf("empty index should produce empty pager, got %d", got)
	}
}

func TestPage_Windows(t *testing.T) {
	t.Parallel()
	entries := make([]Entry, 30)
	for i := range entries {
		entries[i] = Entry{Page: "p", Anchor: fmt.Sprintf("a%03d", i)}
	}

	first := Page(entries, 0, 25)
	if len(first) != 25 || first[0].Anchor != "a000" {
		t.Errorf("first window wrong: len=%d first=%q", len(first), first[0].Anchor)
	}
	last := Page(entries, 1, 25)
	if len(last) != 5 || last[0].Anchor != "a025" {
		t.Errorf("last window wrong: len=%d", len(last))
	}
	if Page(entries, 2, 25) != nil {
		t.Error("out-of-range page should be nil")
	}
	if Page(entries, -1, 25) != nil {
		t.Error("negative page should be nil")
	}
}
