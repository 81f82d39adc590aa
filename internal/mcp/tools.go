package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ccdash/internal/report"
	"ccdash/internal/views"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

type noArgs struct{}

// renderArgs is views.Request plus the output format.
type renderArgs struct {
	View          string `json:"view" jsonschema:"dashboard tab: inicio, abandonos, frt, duracion, llamadas or llamadas_ccc"`
	Mode          string `json:"mode,omitempty" jsonschema:"quick range: last_24h, last_48h, last_7d, last_30d, today, yesterday or custom"`
	From          string `json:"from,omitempty" jsonschema:"custom range start (YYYY-MM-DD)"`
	To            string `json:"to,omitempty" jsonschema:"custom range end (YYYY-MM-DD)"`
	Team          string `json:"team,omitempty" jsonschema:"unit (empresa) name to filter by; empty means all"`
	SLAMaxSeconds int    `json:"sla_max_seconds,omitempty" jsonschema:"first-response SLA threshold in seconds"`
	Format        string `json:"format,omitempty" jsonschema:"markdown (default) or json"`
}

func (a renderArgs) request() views.Request {
	return views.Request{View: a.View, Mode: a.Mode, From: a.From, To: a.To, Team: a.Team, SLAMaxSeconds: a.SLAMaxSeconds}
}

func (s *Server) registerTools(srv *mcp.Server) {
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "list_views",
		Description: "List the dashboard tabs with the range modes each one accepts. Call this first to learn valid 'view' values for 'render_view'.",
	}, s.handleListViews)

	mcp.AddTool(srv, &mcp.Tool{
		Name: "render_view",
		Description: "Render one dashboard tab (KPIs, tables, notices) for a date range. " +
			"Colors follow the dashboard semaphores: 🟢 good, 🟡 warning, 🔴 bad. " +
			"Notices marked as errors mean a data source failed; report them instead of guessing values.",
	}, s.handleRenderView)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "list_users",
		Description: "List the dashboard user accounts with role and status.",
	}, s.handleListUsers)

	if s.opts.Refresh != nil {
		mcp.AddTool(srv, &mcp.Tool{
			Name:        "refresh_data",
			Description: "Drop cached API responses and CSV exports so the next render reads fresh data.",
		}, s.handleRefresh)
	}
}

func (s *Server) handleListViews(_ context.Context, _ *mcp.CallToolRequest, _ noArgs) (*mcp.CallToolResult, any, error) {
	var sb strings.Builder
	for _, info := range views.Catalog() {
		modes := make([]string, len(info.Modes))
		for i, m := range info.Modes {
			modes[i] = string(m)
		}
		fmt.Fprintf(&sb, "- `%s` %s: %s", info.Name, info.Title, info.Description)
		if len(modes) > 0 {
			fmt.Fprintf(&sb, " (modos: %s)", strings.Join(modes, ", "))
		}
		sb.WriteString("\n")
	}
	return textResult(sb.String()), nil, nil
}

func (s *Server) handleRenderView(ctx context.Context, _ *mcp.CallToolRequest, args renderArgs) (*mcp.CallToolResult, any, error) {
	if args.View == views.Usuarios {
		return nil, nil, errors.New("use list_users for the users tab")
	}
	v, err := s.views.Render(ctx, args.request())
	if err != nil {
		switch {
		case errors.Is(err, views.ErrUnknownView):
			return nil, nil, fmt.Errorf("%w; call list_views for the valid names", err)
		case errors.Is(err, views.ErrInvalidRange):
			return nil, nil, fmt.Errorf("%w; dates use YYYY-MM-DD and from must not be after to", err)
		}
		log.Error().Err(err).Str("view", args.View).Msg("MCP render failed")
		return nil, nil, err
	}
	if args.Format == "json" {
		return textResult(s.formatResult(v)), nil, nil
	}
	return textResult(report.Markdown(v, report.RenderOptions{Charts: s.opts.Charts})), nil, nil
}

func (s *Server) handleListUsers(ctx context.Context, _ *mcp.CallToolRequest, _ noArgs) (*mcp.CallToolResult, any, error) {
	v, err := s.views.Render(ctx, views.Request{View: views.Usuarios})
	if err != nil {
		return nil, nil, err
	}
	return textResult(report.Markdown(v, report.RenderOptions{})), nil, nil
}

func (s *Server) handleRefresh(ctx context.Context, _ *mcp.CallToolRequest, _ noArgs) (*mcp.CallToolResult, any, error) {
	if err := s.opts.Refresh(ctx); err != nil {
		return nil, nil, fmt.Errorf("refresh: %w", err)
	}
	return textResult("Datos actualizados."), nil, nil
}
