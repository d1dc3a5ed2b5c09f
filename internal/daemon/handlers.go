package daemon

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/docnav/docnav/internal/config"
	"github.com/docnav/docnav/internal/docindex"
	"github.com/docnav/docnav/internal/hierarchy"
	"github.com/docnav/docnav/internal/navtree"
	"github.com/docnav/docnav/internal/report"
	"github.com/docnav/docnav/internal/rpc"
	"github.com/docnav/docnav/internal/scan"
	"github.com/docnav/docnav/internal/scancache"
	"github.com/docnav/docnav/internal/validate"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("daemon: encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req rpc.ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Root == "" {
		writeError(w, http.StatusBadRequest, "root is required")
		return
	}

	flusher, _ := w.(http.Flusher)
	w.Header().Set("Content-Type", "application/x-ndjson")
	w.WriteHeader(http.StatusOK)

	enc := json.NewEncoder(w)
	send := func(line rpc.ProgressLine) bool {
		if line.Message != "" {
			log.Printf("daemon: %s", line.Message)
		}
		if err := enc.Encode(line); err != nil {
			log.Printf("daemon: client disconnected: %v", err)
			return false
		}
		if flusher != nil {
			flusher.Flush()
		}
		return true
	}

	progress := func(msg string) {
		send(rpc.ProgressLine{Type: "progress", Message: msg})
	}

	result := s.runScan(r.Context(), req, progress)
	send(rpc.ProgressLine{Type: "result", Result: &result})
}

// runScan performs the scan and persists every artifact store. Concurrent
// scans of the same root are collapsed.
func (s *Server) runScan(ctx context.Context, req rpc.ScanRequest, progress func(string)) rpc.ScanResult {
	v, err, _ := s.scanGroup.Do(req.Root, func() (any, error) {
		site, err := scan.Scan(ctx, req.Root, s.cfg.Scan.Workers, progress)
		if err != nil {
			return nil, err
		}
		if req.Name != "" {
			site.Name = req.Name
		}
		return site, nil
	})
	if err != nil {
		return rpc.ScanResult{Site: req.Name, Error: err.Error()}
	}
	site := v.(*scan.Site)

	result := rpc.ScanResult{
		Site:    site.Name,
		ScanID:  site.ID,
		Pages:   len(site.Pages),
		Classes: len(site.Classes),
	}

	hashes := make(map[string]string, len(site.Pages))
	for _, p := range site.Pages {
		result.Anchors += len(p.Anchors)
		if p.Text == "" {
			continue
		}
		hash, err := s.store.Write(p.Text)
		if err != nil {
			result.Error = fmt.Sprintf("storing page text: %v", err)
			return result
		}
		hashes[p.File] = hash
	}

	progress("saving scan")
	if err := s.db.SaveSite(site, hashes); err != nil {
		result.Error = fmt.Sprintf("saving scan: %v", err)
		return result
	}
	if err := scancache.Save(config.ScanCacheDir(), site); err != nil {
		result.Error = fmt.Sprintf("caching scan: %v", err)
		return result
	}

	progress("indexing for search")
	if _, err := s.index.IndexSite(site); err != nil {
		result.Error = fmt.Sprintf("indexing site: %v", err)
		return result
	}

	progress("validating")
	problems := validate.Site(site)
	result.Problems = len(problems)
	result.Entries = len(siteEntries(site))
	return result
}

// siteFor loads the named site, or the most recent scan when name is
// empty. The scan cache is preferred because it retains page text; the
// database is the fallback.
func (s *Server) siteFor(name string) (*scan.Site, map[string]string, error) {
	if name == "" {
		latest, err := s.db.LatestSite()
		if err != nil {
			return nil, nil, err
		}
		name = latest
	}
	if scancache.Has(config.ScanCacheDir(), name) {
		site, err := scancache.Load(config.ScanCacheDir(), name)
		if err == nil {
			return site, nil, nil
		}
		log.Printf("daemon: scan cache unreadable for %s, falling back to db: %v", name, err)
	}
	return s.db.LoadSite(name)
}

func siteNav(site *scan.Site) []*navtree.Node {
	var refs []navtree.PageRef
	for _, p := range site.Pages {
		refs = append(refs, navtree.PageRef{Name: p.Name, Href: p.File})
	}
	return navtree.BuildNav(refs)
}

func siteEntries(site *scan.Site) []docindex.Entry {
	var pages []docindex.PageAnchors
	for _, p := range site.Pages {
		pages = append(pages, docindex.PageAnchors{Page: p.File, Anchors: p.Anchors})
	}
	return docindex.Build(pages)
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	var req rpc.TreeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	site, _, err := s.siteFor(req.Site)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	var roots []*navtree.Node
	switch req.Kind {
	case rpc.TreeNav, "":
		req.Kind = rpc.TreeNav
		roots = siteNav(site)
	case rpc.TreeHierarchy:
		roots, err = hierarchy.Build(site.Classes)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown tree kind %q", req.Kind))
		return
	}

	encoded, err := navtree.Encode(roots)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, rpc.TreeResponse{Site: site.Name, Kind: req.Kind, Tree: encoded})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var req rpc.IndexRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	site, _, err := s.siteFor(req.Site)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	perPage := req.PerPage
	if perPage < 1 {
		perPage = s.cfg.Index.EntriesPerPage
	}

	entries := siteEntries(site)
	pager := docindex.Pager(entries, perPage)

	resp := rpc.IndexResponse{
		Site:       site.Name,
		Total:      len(entries),
		PanelPages: len(pager),
		Pager:      docindex.Strings(pager),
	}
	if req.Page < 0 {
		resp.Entries = docindex.Strings(entries)
	} else {
		resp.Entries = docindex.Strings(docindex.Page(entries, req.Page, perPage))
	}
	writeJSON(w, resp)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req rpc.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	results, err := s.index.Search(req.Query, req.Site, req.Limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := rpc.SearchResponse{}
	for _, res := range results {
		resp.Results = append(resp.Results, rpc.SearchHit{
			URI:     res.URI,
			Site:    res.Site,
			Kind:    res.Kind,
			Label:   res.Label,
			Score:   res.Score,
			Snippet: res.Snippet,
		})
	}
	writeJSON(w, resp)
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	var req rpc.LookupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Label == "" {
		writeError(w, http.StatusBadRequest, "label is required")
		return
	}

	site, _, err := s.siteFor(req.Site)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	resp := rpc.LookupResponse{Site: site.Name, Label: req.Label}
	if n := navtree.Find(siteNav(site), req.Label); n != nil {
		resp.Found = true
		resp.Href = n.Href
	} else if hroots, err := hierarchy.Build(site.Classes); err == nil {
		if n := navtree.Find(hroots, req.Label); n != nil {
			resp.Found = true
			resp.Href = n.Href
		}
	}
	writeJSON(w, resp)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	var req rpc.PageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.File == "" {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}

	site, hashes, err := s.siteFor(req.Site)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	page := site.PageByFile(req.File)
	if page == nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no page %q in site %s", req.File, site.Name))
		return
	}

	text := page.Text
	if text == "" {
		if hash, ok := hashes[page.File]; ok {
			text, err = s.store.Read(hash)
			if err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
		}
	}
	writeJSON(w, rpc.PageResponse{File: page.File, Title: page.Title, Text: text})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req rpc.ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	site, _, err := s.siteFor(req.Site)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	resp := rpc.ValidateResponse{Site: site.Name}
	for _, p := range validate.Site(site) {
		resp.Problems = append(resp.Problems, rpc.Problem{
			Kind:    p.Kind,
			Where:   p.Where,
			Message: p.Message,
		})
	}
	writeJSON(w, resp)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	var req rpc.ReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	site, _, err := s.siteFor(req.Site)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	md := report.Markdown(site, validate.Site(site))
	writeJSON(w, rpc.ReportResponse{Site: site.Name, Markdown: md})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	infos, err := s.db.ListSites()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := rpc.StatusResponse{}
	for _, info := range infos {
		resp.Sites = append(resp.Sites, rpc.SiteStatus{
			Name:      info.Name,
			ScanID:    info.ScanID,
			Pages:     info.Pages,
			Classes:   info.Classes,
			ScannedAt: info.ScannedAt,
		})
	}
	writeJSON(w, resp)
}

// handleClearCache drops every stored scan: search documents, database
// rows, the scan cache and the page text store.
func (s *Server) handleClearCache(w http.ResponseWriter, r *http.Request) {
	infos, err := s.db.ListSites()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	for _, info := range infos {
		if err := s.index.DeleteSite(info.Name); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}
	if err := s.db.Clear(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	for _, dir := range []string{config.ScanCacheDir(), config.CASDir()} {
		if err := os.RemoveAll(dir); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}
	log.Printf("daemon: cleared %d stored scan(s)", len(infos))
	writeJSON(w, map[string]string{"status": "cleared"})
}

func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "stopping"})
	go func() {
		time.Sleep(100 * time.Millisecond)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.Stop(ctx)
		os.Exit(0)
	}()
}
