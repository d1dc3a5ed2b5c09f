package report

import (
	"strings"
	"testing"
	"time"

	"github.com/docnav/docnav/internal/scan"
	"github.com/docnav/docnav/internal/validate"
)

func testSite() *scan.Site {
	return &scan.Site{
		ID:        "f3a9d2c4-0000-0000-0000-00000000abcd",
		Name:      "copads",
		ScannedAt: time.Date(2026, 8, 1, 9, 30, 0, 0, time.UTC),
		Pages: []scan.Page{
			{Name: "copads", File: "copads-module.html", Anchors: []string{"matrix"}},
			{Name: "copads.matrix", File: "copads.matrix-module.html", Anchors: []string{"Matrix", "add"}},
		},
	}
}

func TestMarkdown_CleanScan(t *testing.T) {
	t.Parallel()
	md := Markdown(testSite(), nil)

	for _, want := range []string{
		"# Scan report: copads",
		"- Pages: 2",
		"- Anchors: 3",
		"- Index entries: 3 (1 panel pages)",
		"No problems found.",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("report missing %q:\n%s", want, md)
		}
	}
}

func TestMarkdown_GroupsProblemsByKind(t *testing.T) {
	t.Parallel()
	problems := []validate.Problem{
		{Kind: validate.KindDanglingHref, Where: "nav/ghost", Message: "no such page \"ghost.html\""},
		{Kind: validate.KindDanglingHref, Where: "nav/phantom", Message: "no such page \"phantom.html\""},
		{Kind: validate.KindCycle, Where: "hierarchy", Message: "inheritance cycle: A -> B -> A"},
	}
	md := Markdown(testSite(), problems)

	if !strings.Contains(md, "## Validation: 3 problem(s)") {
		t.Errorf("missing problem count:\n%s", md)
	}
	cycleAt := strings.Index(md, "### "+validate.KindCycle)
	danglingAt := strings.Index(md, "### "+validate.KindDanglingHref)
	if cycleAt < 0 || danglingAt < 0 {
		t.Fatalf("missing kind sections:\n%s", md)
	}
	if cycleAt > danglingAt {
		t.Error("kind sections not in sorted order")
	}
	if !strings.Contains(md, "`nav/ghost`") {
		t.Errorf("missing problem location:\n%s", md)
	}
}

func TestHTML_RendersMarkdown(t *testing.T) {
	t.Parallel()
	out := string(HTML("# Scan report: copads\n\n- Pages: 2\n"))
	if !strings.Contains(out, "<h1") || !strings.Contains(out, "Scan report: copads") {
		t.Errorf("heading not rendered: %s", out)
	}
	if !strings.Contains(out, "<li>") {
		t.Errorf("list not rendered: %s", out)
	}
}
