package validate

import (
	"strings"
	"testing"

	"github.com/docnav/docnav/internal/docindex"
	"github.com/docnav/docnav/internal/hierarchy"
	"github.com/docnav/docnav/internal/navtree"
	"github.com/docnav/docnav/internal/scan"
)

func testSite() *scan.Site {
	return &scan.Site{
		Name: "copads",
		Pages: []scan.Page{
			{
				Name:    "copads",
				File:    "copads-module.html",
				Anchors: []string{"matrix", "graph"},
			},
			{
				Name:    "copads.matrix",
				File:    "copads.matrix-module.html",
				Anchors: []string{"Matrix", "add", "transpose"},
			},
		},
	}
}

func kinds(problems []Problem) map[string]int {
	m := map[string]int{}
	for _, p := range problems {
		m[p.Kind]++
	}
	return m
}

func TestTargets_Resolve(t *testing.T) {
	t.Parallel()
	targets := TargetsFromSite(testSite())

	if err := targets.Resolve("copads-module.html"); err != nil {
		t.Errorf("page-only href should resolve: %v", err)
	}
	if err := targets.Resolve("copads.matrix-module.html#add"); err != nil {
		t.Errorf("page#anchor href should resolve: %v", err)
	}
	if err := targets.Resolve("missing.html"); err == nil {
		t.Error("missing page should not resolve")
	}
	if err := targets.Resolve("copads-module.html#nope"); err == nil {
		t.Error("missing anchor should not resolve")
	}
}

func TestCheckTree_DanglingHref(t *testing.T) {
	t.Parallel()
	roots := []*navtree.Node{
		{Label: "copads", Href: "copads-module.html", Children: []*navtree.Node{
			{Label: "matrix", Href: "copads.matrix-module.html"},
			{Label: "ghost", Href: "copads.ghost-module.html"},
		}},
	}

	problems := CheckTree("nav", roots, TargetsFromSite(testSite()))
	if len(problems) != 1 {
		t.Fatalf("got %d problems, want 1: %v", len(problems), problems)
	}
	if problems[0].Kind != KindDanglingHref {
		t.Errorf("got kind %q", problems[0].Kind)
	}
	if !strings.Contains(problems[0].Where, "ghost") {
		t.Errorf("problem should locate the ghost entry: %q", problems[0].Where)
	}
}

func TestCheckTree_NilTargetsSkipsResolution(t *testing.T) {
	t.Parallel()
	roots := []*navtree.Node{{Label: "anything", Href: "nowhere.html"}}
	if problems := CheckTree("nav", roots, nil); len(problems) != 0 {
		t.Errorf("got %v, want none", problems)
	}
}

func TestCheckHierarchy_Cycle(t *testing.T) {
	t.Parallel()
	problems := CheckHierarchy([]hierarchy.ClassRecord{
		{Name: "A", Href: "a.html", Bases: []string{"B"}},
		{Name: "B", Href: "b.html", Bases: []string{"A"}},
	})
	if len(problems) != 1 || problems[0].Kind != KindCycle {
		t.Fatalf("got %v, want one cycle problem", problems)
	}
}

func TestCheckIndex(t *testing.T) {
	t.Parallel()
	targets := TargetsFromSite(testSite())

	ordered := []docindex.Entry{
		{Page: "copads.matrix-module.html", Anchor: "add"},
		{Page: "copads.matrix-module.html", Anchor: "Matrix"},
		{Page: "copads.matrix-module.html", Anchor: "transpose"},
	}
	if problems := CheckIndex(ordered, targets); len(problems) != 0 {
		t.Errorf("ordered index should pass: %v", problems)
	}

	disordered := []docindex.Entry{ordered[2], ordered[0], ordered[1]}
	problems := CheckIndex(disordered, targets)
	if kinds(problems)[KindIndexOrder] == 0 {
		t.Errorf("expected an order problem: %v", problems)
	}

	dangling := []docindex.Entry{{Page: "copads.matrix-module.html", Anchor: "determinant"}}
	problems = CheckIndex(dangling, targets)
	if kinds(problems)[KindIndexTarget] != 1 {
		t.Errorf("expected a target problem: %v", problems)
	}
}

func TestCheckLiteral_Valid(t *testing.T) {
	t.Parallel()
	data := []byte(`var navTreeData = [["copads", "copads-module.html", [["matrix", "copads.matrix-module.html", null]]]];`)
	if problems := CheckLiteral("nav-data.js", data, TargetsFromSite(testSite())); len(problems) != 0 {
		t.Errorf("valid literal reported problems: %v", problems)
	}
}

func TestCheckLiteral_SchemaViolations(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		data string
	}{
		{"not an array", `{"a": 1}`},
		{"entry too short", `[["matrix", "m.html"]]`},
		{"entry too long", `[["matrix", "m.html", null, "extra"]]`},
		{"numeric label", `[[42, "m.html", null]]`},
		{"numeric href", `[["matrix", 42, null]]`},
		{"empty children array", `[["matrix", "m.html", []]]`},
		{"nested violation", `[["copads", null, [["matrix"]]]]`},
		{"not json", `var x = [;`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			problems := CheckLiteral("literal", []byte(tc.data), nil)
			if len(problems) == 0 {
				t.Fatal("expected schema problems")
			}
			for _, p := range problems {
				if p.Kind != KindSchema {
					t.Errorf("got kind %q, want %q", p.Kind, KindSchema)
				}
			}
		})
	}
}

func TestSite_CleanScanHasNoProblems(t *testing.T) {
	t.Parallel()
	site := testSite()
	if problems := Site(site); len(problems) != 0 {
		t.Errorf("clean site reported problems: %v", problems)
	}
}

func TestSite_ReportsCycle(t *testing.T) {
	t.Parallel()
	site := testSite()
	site.Classes = []hierarchy.ClassRecord{
		{Name: "A", Href: "a.html", Bases: []string{"B"}},
		{Name: "B", Href: "b.html", Bases: []string{"A"}},
	}
	problems := Site(site)
	if kinds(problems)[KindCycle] == 0 {
		t.Errorf("expected a cycle problem: %v", problems)
	}
}
