package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/docnav/docnav/internal/report"
	"github.com/docnav/docnav/internal/rpc"
)

func jsonError(w http.ResponseWriter, msg string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// handleNavData serves the browser's single data file: the navigation
// tree, the class hierarchy tree and the index pager array as JS
// assignments.
func (s *Server) handleNavData(w http.ResponseWriter, r *http.Request) {
	site := r.URL.Query().Get("site")

	nav, err := s.client.Tree(r.Context(), rpc.TreeRequest{Site: site, Kind: rpc.TreeNav})
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadGateway)
		return
	}
	hier, err := s.client.Tree(r.Context(), rpc.TreeRequest{Site: site, Kind: rpc.TreeHierarchy})
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadGateway)
		return
	}
	idx, err := s.client.Index(r.Context(), rpc.IndexRequest{Site: site})
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadGateway)
		return
	}

	pager, err := json.Marshal(idx.Pager)
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/javascript")
	fmt.Fprintf(w, "var navTreeData = %s;\n\n", nav.Tree)
	fmt.Fprintf(w, "var classTreeData = %s;\n\n", hier.Tree)
	fmt.Fprintf(w, "var indexPages = %s;\n", pager)
}

func (s *Server) handleNav(w http.ResponseWriter, r *http.Request) {
	s.proxyTree(w, r, rpc.TreeNav)
}

func (s *Server) handleHierarchy(w http.ResponseWriter, r *http.Request) {
	s.proxyTree(w, r, rpc.TreeHierarchy)
}

func (s *Server) proxyTree(w http.ResponseWriter, r *http.Request, kind string) {
	resp, err := s.client.Tree(r.Context(), rpc.TreeRequest{
		Site: r.URL.Query().Get("site"),
		Kind: kind,
	})
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, resp)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	req := rpc.IndexRequest{Site: r.URL.Query().Get("site")}

	if v := r.URL.Query().Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil {
			jsonError(w, "page must be an integer", http.StatusBadRequest)
			return
		}
		req.Page = page
	}
	if v := r.URL.Query().Get("per_page"); v != "" {
		perPage, err := strconv.Atoi(v)
		if err != nil {
			jsonError(w, "per_page must be an integer", http.StatusBadRequest)
			return
		}
		req.PerPage = perPage
	}

	resp, err := s.client.Index(r.Context(), req)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, resp)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		jsonError(w, "q query parameter is required", http.StatusBadRequest)
		return
	}

	req := rpc.SearchRequest{
		Query: q,
		Site:  r.URL.Query().Get("site"),
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			jsonError(w, "limit must be an integer", http.StatusBadRequest)
			return
		}
		req.Limit = limit
	}

	resp, err := s.client.Search(r.Context(), req)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, resp)
}

func (s *Server) handleSites(w http.ResponseWriter, r *http.Request) {
	resp, err := s.client.Status(r.Context())
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, resp)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	resp, err := s.client.Report(r.Context(), rpc.ReportRequest{
		Site: r.URL.Query().Get("site"),
	})
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(report.HTML(resp.Markdown))
}
