package scancache

import (
	"testing"
	"time"

	"github.com/docnav/docnav/internal/hierarchy"
	"github.com/docnav/docnav/internal/scan"
)

func TestSaveLoad_RoundTrip(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	site := &scan.Site{
		ID:        "b2c1e6a0-0000-0000-0000-000000000001",
		Name:      "copads",
		Root:      "/tmp/copads-docs",
		ScannedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		Pages: []scan.Page{
			{
				Name:    "copads.matrix",
				File:    "copads.matrix-module.html",
				Title:   "copads.matrix",
				Anchors: []string{"Matrix", "add"},
				Text:    "class Matrix(object)",
			},
		},
		Classes: []hierarchy.ClassRecord{
			{Name: "Matrix", Href: "copads.matrix.Matrix-class.html", Bases: []string{"object"}},
		},
	}

	if err := Save(dir, site); err != nil {
		t.Fatal(err)
	}
	if !Has(dir, "copads") {
		t.Fatal("Has should report the cached scan")
	}

	got, err := Load(dir, "copads")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != site.ID || got.Name != site.Name {
		t.Errorf("identity lost: %+v", got)
	}
	if !got.ScannedAt.Equal(site.ScannedAt) {
		t.Errorf("timestamp lost: %v", got.ScannedAt)
	}
	if len(got.Pages) != 1 || got.Pages[0].Text != "class Matrix(object)" {
		t.Errorf("page content lost: %+v", got.Pages)
	}
	if len(got.Classes) != 1 || got.Classes[0].Bases[0] != "object" {
		t.Errorf("class records lost: %+v", got.Classes)
	}
}

func TestSave_Overwrites(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	first := &scan.Site{Name: "bactome", Pages: []scan.Page{{Name: "a", File: "a.html"}}}
	second := &scan.Site{Name: "bactome", Pages: []scan.Page{{Name: "a", File: "a.html"}, {Name: "b", File: "b.html"}}}

	if err := Save(dir, first); err != nil {
		t.Fatal(err)
	}
	if err := Save(dir, second); err != nil {
		t.Fatal(err)
	}

	got, err := Load(dir, "bactome")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Pages) != 2 {
		t.Errorf("got %d pages, want the rewritten scan's 2", len(got.Pages))
	}
}

func TestLoad_Missing(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	if Has(dir, "nope") {
		t.Error("Has reported a scan that was never saved")
	}
	if _, err := Load(dir, "nope"); err == nil {
		t.Fatal("expected error for missing cache entry")
	}
}
