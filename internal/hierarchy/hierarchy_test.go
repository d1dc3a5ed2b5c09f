package hierarchy

import (
	"errors"
	"testing"

	"github.com/docnav/docnav/internal/navtree"
)

func TestBuild_NestsUnderFirstBase(t *testing.T) {
	t.Parallel()
	records := []ClassRecord{
		{Name: "Distribution", Href: "copads.statisticsdistribution.Distribution-class.html"},
		{Name: "NormalDistribution", Href: "copads.statisticsdistribution.NormalDistribution-class.html", Bases: []string{"Distribution"}},
		{Name: "PoissonDistribution", Href: "copads.statisticsdistribution.PoissonDistribution-class.html", Bases: []string{"Distribution"}},
	}

	roots, err := Build(records)
	if err != nil {
		t.Fatal(err)
	}
	if len(roots) != 1 {
		t.Fatalf("got %d roots, want 1", len(roots))
	}
	root := roots[0]
	if root.Label != "Distribution" || root.Href == "" {
		t.Errorf("unexpected root: %+v", root)
	}
	if len(root.Children) != 2 {
		t.Fatalf("got %d subclasses, want 2", len(root.Children))
	}
	if root.Children[0].Label != "NormalDistribution" || root.Children[1].Label != "PoissonDistribution" {
		t.Errorf("subclass order wrong: %q, %q", root.Children[0].Label, root.Children[1].Label)
	}
}

func TestBuild_UndocumentedBaseBecomesPlaceholder(t *testing.T) {
	t.Parallel()
	records := []ClassRecord{
		{Name: "RBTree", Href: "copads.tree.RBTree-class.html", Bases: []string{"object"}},
		{Name: "BinaryTree", Href: "copads.tree.BinaryTree-class.html", Bases: []string{"object"}},
	}

	roots, err := Build(records)
	if err != nil {
		t.Fatal(err)
	}
	if len(roots) != 1 {
		t.Fatalf("got %d roots, want 1", len(roots))
	}
	if roots[0].Label != "object" {
		t.Errorf("got root %q, want object", roots[0].Label)
	}
	if roots[0].Href != "" {
		t.Errorf("undocumented base must have empty href, got %q", roots[0].Href)
	}
	if len(roots[0].Children) != 2 {
		t.Errorf("got %d children, want 2", len(roots[0].Children))
	}
}

func TestBuild_MultipleInheritanceUsesFirstBase(t *testing.T) {
	t.Parallel()
	records := []ClassRecord{
		{Name: "Graph", Href: "copads.graph.Graph-class.html"},
		{Name: "Digraph", Href: "copads.graph.Digraph-class.html", Bases: []string{"Graph", "object"}},
	}

	roots, err := Build(records)
	if err != nil {
		t.Fatal(err)
	}
	// Only "Graph" becomes a root: the second base is never materialized.
	if len(roots) != 1 || roots[0].Label != "Graph" {
		t.Fatalf("unexpected roots: %+v", roots)
	}
	if navtree.Find(roots, "Digraph") == nil {
		t.Error("Digraph not nested under Graph")
	}
	if navtree.Count(roots) != 2 {
		t.Errorf("got %d nodes, want 2", navtree.Count(roots))
	}
}

func TestBuild_ClassAppearsExactlyOnce(t *testing.T) {
	t.Parallel()
	records := []ClassRecord{
		{Name: "CopadsError", Href: "e1.html", Bases: []string{"Exception"}},
		{Name: "MatrixError", Href: "e2.html", Bases: []string{"CopadsError"}},
		{Name: "GraphError", Href: "e3.html", Bases: []string{"CopadsError"}},
		{Name: "VertexNotFoundError", Href: "e4.html", Bases: []string{"GraphError"}},
	}

	roots, err := Build(records)
	if err != nil {
		t.Fatal(err)
	}

	seen := map[string]int{}
	navtree.Walk(roots, func(n *navtree.Node, _ int) bool {
		seen[n.Label]++
		return true
	})
	for _, r := range records {
		if seen[r.Name] != 1 {
			t.Errorf("%s appears %d times, want 1", r.Name, seen[r.Name])
		}
	}
	if seen["Exception"] != 1 {
		t.Errorf("Exception placeholder appears %d times, want 1", seen["Exception"])
	}
}

func TestBuild_DeterministicRootOrder(t *testing.T) {
	t.Parallel()
	records := []ClassRecord{
		{Name: "Zebra", Href: "z.html", Bases: []string{"object"}},
		{Name: "Organism", Href: "o.html"},
		{Name: "anon", Href: "a.html"},
	}

	for i := 0; i < 5; i++ {
		roots, err := Build(records)
		if err != nil {
			t.Fatal(err)
		}
		got := []string{roots[0].Label, roots[1].Label, roots[2].Label}
		want := []string{"anon", "object", "Organism"}
		for j := range want {
			if got[j] != want[j] {
				t.Fatalf("run %d: got order %v, want %v", i, got, want)
			}
		}
	}
}

func TestBuild_DuplicateNamesCollapse(t *testing.T) {
	t.Parallel()
	// Unqualified names collide across modules: copads.tree.Node and
	// copads.graph.Node both scan as "Node". The stale first record's
	// base edge must not survive alongside the winning one.
	records := []ClassRecord{
		{Name: "Node", Href: "copads.tree.Node-class.html", Bases: []string{"Tree"}},
		{Name: "Node", Href: "copads.graph.Node-class.html", Bases: []string{"object"}},
		{Name: "Tree", Href: "copads.tree.Tree-class.html", Bases: []string{"Node"}},
	}

	roots, err := Build(records)
	if err != nil {
		t.Fatal(err)
	}

	seen := map[string]int{}
	navtree.Walk(roots, func(n *navtree.Node, _ int) bool {
		seen[n.Label]++
		return true
	})
	if seen["Node"] != 1 || seen["Tree"] != 1 {
		t.Errorf("duplicate names not collapsed: %v", seen)
	}

	node := navtree.Find(roots, "Node")
	if node == nil {
		t.Fatal("Node missing from forest")
	}
	if node.Href != "copads.graph.Node-class.html" {
		t.Errorf("last record should win: got %q", node.Href)
	}
	if len(roots) != 1 || roots[0].Label != "object" {
		t.Errorf("Node should root under object: %+v", roots)
	}
}

func TestBuild_DuplicateNameCycleStillDetected(t *testing.T) {
	t.Parallel()
	records := []ClassRecord{
		{Name: "A", Href: "a1.html", Bases: []string{"object"}},
		{Name: "A", Href: "a2.html", Bases: []string{"B"}},
		{Name: "B", Href: "b.html", Bases: []string{"A"}},
	}

	_, err := Build(records)
	if !errors.Is(err, ErrInheritanceCycle) {
		t.Errorf("got %v, want ErrInheritanceCycle", err)
	}
}

func TestBuild_CycleDetected(t *testing.T) {
	t.Parallel()
	records := []ClassRecord{
		{Name: "A", Href: "a.html", Bases: []string{"B"}},
		{Name: "B", Href: "b.html", Bases: []string{"C"}},
		{Name: "C", Href: "c.html", Bases: []string{"A"}},
	}

	_, err := Build(records)
	if err == nil {
		t.Fatal("expected cycle error")
	}
	if !errors.Is(err, ErrInheritanceCycle) {
		t.Errorf("got %v, want ErrInheritanceCycle", err)
	}
}

func TestBuild_SelfCycle(t *testing.T) {
	t.Parallel()
	_, err := Build([]ClassRecord{{Name: "Ouroboros", Href: "o.html", Bases: []string{"Ouroboros"}}})
	if !errors.Is(err, ErrInheritanceCycle) {
		t.Errorf("got %v, want ErrInheritanceCycle", err)
	}
}

func TestBuild_Empty(t *testing.T) {
	t.Parallel()
	roots, err := Build(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(roots) != 0 {
		t.Errorf("got %d roots, want 0", len(roots))
	}
}
