// Package validate runs the static well-formedness checks over scanned
// sites and tree literals: entry shape, dangling anchors, inheritance
// cycles and index ordering.
package validate

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/docnav/docnav/internal/docindex"
	"github.com/docnav/docnav/internal/hierarchy"
	"github.com/docnav/docnav/internal/navtree"
	"github.com/docnav/docnav/internal/scan"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed tree_schema.json
var treeSchemaJSON []byte

const treeSchemaID = "https://docnav.dev/schemas/tree-literal.json"

// Problem kinds reported by the checks.
const (
	KindSchema       = "schema"
	KindEmptyLabel   = "empty-label"
	KindDanglingHref = "dangling-href"
	KindCycle        = "inheritance-cycle"
	KindIndexOrder   = "index-order"
	KindIndexTarget  = "index-target"
)

// Problem is one validation finding. Checks collect problems instead of
// failing on the first.
type Problem struct {
	Kind    string `json:"kind"`
	Where   string `json:"where"`
	Message string `json:"message"`
}

func (p Problem) String() string {
	return fmt.Sprintf("%s: %s: %s", p.Kind, p.Where, p.Message)
}

// Targets is the set of link targets a scanned site provides: page files
// and, per page, anchor fragments.
type Targets struct {
	pages   map[string]bool
	anchors map[string]map[string]bool
}

// TargetsFromSite collects the link targets of a scanned site.
func TargetsFromSite(site *scan.Site) *Targets {
	t := &Targets{
		pages:   make(map[string]bool, len(site.Pages)),
		anchors: make(map[string]map[string]bool, len(site.Pages)),
	}
	for _, p := range site.Pages {
		t.pages[p.File] = true
		set := make(map[string]bool, len(p.Anchors))
		for _, a := range p.Anchors {
			set[a] = true
		}
		t.anchors[p.File] = set
	}
	return t
}

// HasPage reports whether the site contains the page file.
func (t *Targets) HasPage(file string) bool { return t.pages[file] }

// HasAnchor reports whether the page carries the anchor fragment.
func (t *Targets) HasAnchor(file, anchor string) bool {
	return t.anchors[file][anchor]
}

// Resolve checks an href of the form "page.html" or "page.html#anchor".
func (t *Targets) Resolve(href string) error {
	file, anchor, _ := strings.Cut(href, "#")
	if !t.HasPage(file) {
		return fmt.Errorf("no such page %q", file)
	}
	if anchor != "" && !t.HasAnchor(file, anchor) {
		return fmt.Errorf("page %q has no anchor %q", file, anchor)
	}
	return nil
}

// CheckTree verifies every node of a decoded tree: non-empty labels, and
// hrefs that resolve against the site's targets. targets may be nil to skip
// link resolution (validating a literal in isolation).
func CheckTree(where string, roots []*navtree.Node, targets *Targets) []Problem {
	var problems []Problem
	navtree.Walk(roots, func(n *navtree.Node, _ int) bool {
		if n.Label == "" {
			problems = append(problems, Problem{
				Kind:    KindEmptyLabel,
				Where:   where,
				Message: "entry with empty label",
			})
		}
		if n.Href != "" && targets != nil {
			if err := targets.Resolve(n.Href); err != nil {
				problems = append(problems, Problem{
					Kind:    KindDanglingHref,
					Where:   where + "/" + n.Label,
					Message: err.Error(),
				})
			}
		}
		return true
	})
	return problems
}

// CheckHierarchy verifies the inheritance records build an acyclic forest.
func CheckHierarchy(records []hierarchy.ClassRecord) []Problem {
	if _, err := hierarchy.Build(records); err != nil {
		if errors.Is(err, hierarchy.ErrInheritanceCycle) {
			return []Problem{{
				Kind:    KindCycle,
				Where:   "hierarchy",
				Message: err.Error(),
			}}
		}
		return []Problem{{
			Kind:    KindCycle,
			Where:   "hierarchy",
			Message: fmt.Sprintf("building hierarchy: %v", err),
		}}
	}
	return nil
}

// CheckIndex verifies index entries are in the builder's order and resolve
// against the site's targets.
func CheckIndex(entries []docindex.Entry, targets *Targets) []Problem {
	var problems []Problem
	for i := 1; i < len(entries); i++ {
		prev := strings.ToLower(entries[i-1].Anchor)
		cur := strings.ToLower(entries[i].Anchor)
		if prev > cur {
			problems = append(problems, Problem{
				Kind:    KindIndexOrder,
				Where:   entries[i].String(),
				Message: fmt.Sprintf("entry out of order after %s", entries[i-1].String()),
			})
		}
	}
	if targets != nil {
		for _, e := range entries {
			if err := targets.Resolve(e.String()); err != nil {
				problems = append(problems, Problem{
					Kind:    KindIndexTarget,
					Where:   e.String(),
					Message: err.Error(),
				})
			}
		}
	}
	return problems
}

// CheckLiteral validates raw literal bytes (JSON or the JS-wrapped form)
// against the embedded tree schema, then decodes it and runs CheckTree.
func CheckLiteral(where string, data []byte, targets *Targets) []Problem {
	raw := navtree.StripJS(data)

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return []Problem{{Kind: KindSchema, Where: where, Message: err.Error()}}
	}

	schema, err := compileTreeSchema()
	if err != nil {
		return []Problem{{Kind: KindSchema, Where: where, Message: err.Error()}}
	}
	if err := schema.Validate(doc); err != nil {
		return schemaProblems(where, err)
	}

	roots, err := navtree.Decode(raw)
	if err != nil {
		return []Problem{{Kind: KindSchema, Where: where, Message: err.Error()}}
	}
	return CheckTree(where, roots, targets)
}

func compileTreeSchema() (*jsonschema.Schema, error) {
	var doc any
	if err := json.Unmarshal(treeSchemaJSON, &doc); err != nil {
		return nil, fmt.Errorf("parsing embedded schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(treeSchemaID, doc); err != nil {
		return nil, fmt.Errorf("adding schema resource: %w", err)
	}
	schema, err := compiler.Compile(treeSchemaID)
	if err != nil {
		return nil, fmt.Errorf("compiling schema: %w", err)
	}
	return schema, nil
}

// schemaProblems flattens a jsonschema validation error into problems, one
// per leaf cause.
func schemaProblems(where string, err error) []Problem {
	verr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []Problem{{Kind: KindSchema, Where: where, Message: err.Error()}}
	}
	var problems []Problem
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			loc := where
			if len(e.InstanceLocation) > 0 {
				loc = where + "/" + strings.Join(e.InstanceLocation, "/")
			}
			problems = append(problems, Problem{
				Kind:    KindSchema,
				Where:   loc,
				Message: e.Error(),
			})
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(verr)
	return problems
}

// Site runs the full check suite over a scanned site: it builds the three
// artifacts and validates each against the site's own targets.
func Site(site *scan.Site) []Problem {
	targets := TargetsFromSite(site)

	var pages []navtree.PageRef
	var indexPages []docindex.PageAnchors
	for _, p := range site.Pages {
		pages = append(pages, navtree.PageRef{Name: p.Name, Href: p.File})
		indexPages = append(indexPages, docindex.PageAnchors{Page: p.File, Anchors: p.Anchors})
	}

	var problems []Problem
	problems = append(problems, CheckTree("nav", navtree.BuildNav(pages), targets)...)
	problems = append(problems, CheckHierarchy(site.Classes)...)
	if hroots, err := hierarchy.Build(site.Classes); err == nil {
		problems = append(problems, CheckTree("hierarchy", hroots, targets)...)
	}
	problems = append(problems, CheckIndex(docindex.Build(indexPages), targets)...)
	return problems
}
