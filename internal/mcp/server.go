package mcp

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/docnav/docnav/internal/daemon"
	"github.com/docnav/docnav/internal/rpc"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

//go:embed instructions.md
var instructions string

type Server struct {
	mcpServer *server.MCPServer
	client    *daemon.Client
}

func NewServer(socketPath string) (*Server, error) {
	client, err := daemon.ConnectOrSpawn(socketPath)
	if err != nil {
		return nil, fmt.Errorf("connecting to daemon: %w", err)
	}

	s := &Server{client: client}

	mcpServer := server.NewMCPServer(
		"docnav",
		"0.1.0",
		server.WithInstructions(instructions),
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	s.registerTools(mcpServer)
	s.registerResources(mcpServer)

	s.mcpServer = mcpServer
	return s, nil
}

func (s *Server) registerTools(mcpServer *server.MCPServer) {
	mcpServer.AddTool(
		mcp.NewTool("scan_site",
			mcp.WithDescription("Scan a generated documentation site directory. Parses every page, stores the scan, builds the navigation/hierarchy/index data and the search index. Synchronous; returns when complete."),
			mcp.WithString("root",
				mcp.Description("Path to the site's root directory"),
				mcp.Required(),
			),
			mcp.WithString("name",
				mcp.Description("Site name (defaults to the directory name)"),
			),
		),
		s.handleScanSite,
	)

	mcpServer.AddTool(
		mcp.NewTool("search_docs",
			mcp.WithDescription("Full-text search across scanned documentation: page text and index identifiers. Returns URIs that can be read as resources. Use `site` to filter to one site; omit to search all."),
			mcp.WithString("query",
				mcp.Description("Search query"),
				mcp.Required(),
			),
			mcp.WithString("site",
				mcp.Description("Optional site name to search within"),
			),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of results (default 10)"),
			),
		),
		s.handleSearchDocs,
	)

	mcpServer.AddTool(
		mcp.NewTool("lookup_symbol",
			mcp.WithDescription("Resolve a module or class name to its documentation page via the navigation and hierarchy trees."),
			mcp.WithString("label",
				mcp.Description("Module or class name as shown in the navigation tree"),
				mcp.Required(),
			),
			mcp.WithString("site",
				mcp.Description("Optional site name (defaults to the latest scan)"),
			),
		),
		s.handleLookupSymbol,
	)

	mcpServer.AddTool(
		mcp.NewTool("get_tree",
			mcp.WithDescription("Fetch a tree literal: `nav` for the sidebar navigation tree, `hierarchy` for the class inheritance tree. Entries are [label, href|null, children|null]."),
			mcp.WithString("kind",
				mcp.Description("Tree kind: \"nav\" or \"hierarchy\" (default \"nav\")"),
			),
			mcp.WithString("site",
				mcp.Description("Optional site name (defaults to the latest scan)"),
			),
		),
		s.handleGetTree,
	)
}

func (s *Server) registerResources(mcpServer *server.MCPServer) {
	mcpServer.AddResourceTemplate(
		mcp.NewResourceTemplate(
			"docnav://{site}/{page}",
			"Documentation page text",
			mcp.WithTemplateDescription("Read the extracted text of a scanned documentation page. Search results return these URIs."),
			mcp.WithTemplateMIMEType("text/plain"),
		),
		s.handleReadResource,
	)
}

func (s *Server) handleScanSite(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	root, _ := args["root"].(string)
	if root == "" {
		return mcp.NewToolResultError("missing required parameter: root"), nil
	}
	name, _ := args["name"].(string)

	result, err := s.client.Scan(ctx, rpc.ScanRequest{Root: root, Name: name}, nil)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scan failed: %v", err)), nil
	}
	if result.Error != "" {
		return mcp.NewToolResultError(result.Error), nil
	}

	resultJSON, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(resultJSON)), nil
}

func (s *Server) handleSearchDocs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	query, _ := args["query"].(string)
	if query == "" {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	searchReq := rpc.SearchRequest{Query: query}
	if site, ok := args["site"].(string); ok {
		searchReq.Site = site
	}
	if limit, ok := args["limit"].(float64); ok {
		searchReq.Limit = int(limit)
	}

	resp, err := s.client.Search(ctx, searchReq)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	resultJSON, _ := json.MarshalIndent(resp.Results, "", "  ")
	return mcp.NewToolResultText(string(resultJSON)), nil
}

func (s *Server) handleLookupSymbol(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	label, _ := args["label"].(string)
	if label == "" {
		return mcp.NewToolResultError("missing required parameter: label"), nil
	}

	lookupReq := rpc.LookupRequest{Label: label}
	if site, ok := args["site"].(string); ok {
		lookupReq.Site = site
	}

	resp, err := s.client.Lookup(ctx, lookupReq)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("lookup failed: %v", err)), nil
	}

	resultJSON, _ := json.MarshalIndent(resp, "", "  ")
	return mcp.NewToolResultText(string(resultJSON)), nil
}

func (s *Server) handleGetTree(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	treeReq := rpc.TreeRequest{Kind: rpc.TreeNav}
	if kind, ok := args["kind"].(string); ok && kind != "" {
		treeReq.Kind = kind
	}
	if site, ok := args["site"].(string); ok {
		treeReq.Site = site
	}

	resp, err := s.client.Tree(ctx, treeReq)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("tree failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(resp.Tree)), nil
}

func (s *Server) handleReadResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	trimmed := strings.TrimPrefix(uri, "docnav://")
	site, page, ok := strings.Cut(trimmed, "/")
	if !ok || page == "" {
		return nil, fmt.Errorf("invalid resource URI: %s", uri)
	}

	// drop any #anchor, the resource is the whole page
	if idx := strings.LastIndex(page, "#"); idx >= 0 {
		page = page[:idx]
	}

	resp, err := s.client.Page(ctx, rpc.PageRequest{Site: site, File: page})
	if err != nil {
		return nil, fmt.Errorf("getting page: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     resp.Text,
		},
	}, nil
}

func (s *Server) Run() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) Shutdown(_ context.Context) error {
	return nil
}
