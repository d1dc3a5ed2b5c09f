package rpc

import (
	"encoding/json"
	"time"
)

// ScanRequest is the request body for POST /scan.
type ScanRequest struct {
	Root string `json:"root"`
	Name string `json:"name,omitempty"` // defaults to the root's base name
}

// ScanResult summarizes a completed scan.
type ScanResult struct {
	Site     string `json:"site"`
	ScanID   string `json:"scan_id"`
	Pages    int    `json:"pages"`
	Anchors  int    `json:"anchors"`
	Classes  int    `json:"classes"`
	Entries  int    `json:"entries"`
	Problems int    `json:"problems"`
	Error    string `json:"error,omitempty"`
}

// ProgressLine is a single line of NDJSON streamed from the scan endpoint.
type ProgressLine struct {
	Type    string      `json:"type"` // "progress" or "result"
	Message string      `json:"message,omitempty"`
	Result  *ScanResult `json:"result,omitempty"`
}

// Tree kinds accepted by POST /tree.
const (
	TreeNav       = "nav"
	TreeHierarchy = "hierarchy"
)

// TreeRequest is the request body for POST /tree.
type TreeRequest struct {
	Site string `json:"site,omitempty"` // defaults to the latest scan
	Kind string `json:"kind"`
}

// TreeResponse carries the encoded tree literal.
type TreeResponse struct {
	Site string          `json:"site"`
	Kind string          `json:"kind"`
	Tree json.RawMessage `json:"tree"`
}

// IndexRequest is the request body for POST /index. Page selects one panel
// page (zero-based); a negative page returns every entry.
type IndexRequest struct {
	Site    string `json:"site,omitempty"`
	Page    int    `json:"page"`
	PerPage int    `json:"per_page,omitempty"`
}

// IndexResponse is the response body for POST /index.
type IndexResponse struct {
	Site       string   `json:"site"`
	Total      int      `json:"total"`
	PanelPages int      `json:"panel_pages"`
	Entries    []string `json:"entries"`
	Pager      []string `json:"pager"`
}

// SearchRequest is the request body for POST /search.
type SearchRequest struct {
	Query string `json:"query"`
	Site  string `json:"site,omitempty"`
	Limit int    `json:"limit,omitempty"`
}

// SearchHit is one full-text search result.
type SearchHit struct {
	URI     string  `json:"uri"`
	Site    string  `json:"site"`
	Kind    string  `json:"kind"`
	Label   string  `json:"label"`
	Score   float64 `json:"score"`
	Snippet string  `json:"snippet,omitempty"`
}

// SearchResponse is the response body for POST /search.
type SearchResponse struct {
	Results []SearchHit `json:"results"`
}

// LookupRequest is the request body for POST /lookup.
type LookupRequest struct {
	Label string `json:"label"`
	Site  string `json:"site,omitempty"`
}

// LookupResponse is the response body for POST /lookup.
type LookupResponse struct {
	Site  string `json:"site"`
	Label string `json:"label"`
	Href  string `json:"href,omitempty"`
	Found bool   `json:"found"`
}

// PageRequest is the request body for POST /page.
type PageRequest struct {
	Site string `json:"site,omitempty"`
	File string `json:"file"`
}

// PageResponse is the response body for POST /page.
type PageResponse struct {
	File  string `json:"file"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

// ValidateRequest is the request body for POST /validate.
type ValidateRequest struct {
	Site string `json:"site,omitempty"`
}

// Problem is one validation finding on the wire.
type Problem struct {
	Kind    string `json:"kind"`
	Where   string `json:"where"`
	Message string `json:"message"`
}

// ValidateResponse is the response body for POST /validate.
type ValidateResponse struct {
	Site     string    `json:"site"`
	Problems []Problem `json:"problems"`
}

// ReportRequest is the request body for POST /report.
type ReportRequest struct {
	Site string `json:"site,omitempty"`
}

// ReportResponse carries the scan report in markdown.
type ReportResponse struct {
	Site     string `json:"site"`
	Markdown string `json:"markdown"`
}

// SiteStatus describes one stored site.
type SiteStatus struct {
	Name      string    `json:"name"`
	ScanID    string    `json:"scan_id"`
	Pages     int       `json:"pages"`
	Classes   int       `json:"classes"`
	ScannedAt time.Time `json:"scanned_at"`
}

// StatusResponse is the response body for GET /status.
type StatusResponse struct {
	Sites []SiteStatus `json:"sites"`
}
