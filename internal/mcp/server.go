// Package mcp exposes the dashboard views as MCP tools over stdio.
package mcp

import (
	"context"
	"encoding/json"

	"ccdash/internal/config"
	"ccdash/internal/report"
	"ccdash/internal/views"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

// Renderer assembles views; *views.Assembler implements it.
type Renderer interface {
	Render(ctx context.Context, req views.Request) (report.View, error)
}

// Options tunes the MCP surface.
type Options struct {
	Version string
	// Charts adds Mermaid blocks to rendered views.
	Charts bool
	// Refresh drops every cached API response and CSV parse.
	Refresh func(ctx context.Context) error
}

// Server holds the state for the MCP server.
type Server struct {
	views Renderer
	opts  Options
}

// NewServer creates a new MCP server.
func NewServer(r Renderer, opts Options) *Server {
	if opts.Version == "" {
		opts.Version = "dev"
	}
	return &Server{views: r, opts: opts}
}

// Build returns the SDK server with every tool registered.
func (s *Server) Build() *mcp.Server {
	srv := mcp.NewServer(&mcp.Implementation{Name: "ccdash", Title: config.AppTitle, Version: s.opts.Version}, nil)
	s.registerTools(srv)
	return srv
}

// Start runs the stdio loop until the client disconnects or ctx is done.
func (s *Server) Start(ctx context.Context) error {
	log.Info().Msg("MCP Server starting Stdio loop")
	return s.Build().Run(ctx, &mcp.StdioTransport{})
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: text}}}
}

func (s *Server) formatResult(data any) string {
	out, _ := json.MarshalIndent(data, "", "  ")
	return string(out)
}
