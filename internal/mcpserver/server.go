// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Sipekan tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/sipekan/internal/apperr"
	"github.com/starford/sipekan/internal/models"
	"github.com/starford/sipekan/internal/service"
)

const criteriaURI = "sipekan://status-criteria"

// Server wraps the MCP server with Sipekan tools.
type Server struct {
	mcp   *server.MCPServer
	svc   *service.Service
	tools map[string]server.ToolHandlerFunc
}

// New creates a new MCP server with all Sipekan tools registered.
func New(svc *service.Service) *Server {
	s := &Server{svc: svc, tools: map[string]server.ToolHandlerFunc{}}

	s.mcp = server.NewMCPServer(
		"Sipekan",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.addTool(mcp.NewTool("lookup_child",
		mcp.WithDescription("Find a registered child by code (YYYYMMDD-II-NNN) or name and return "+
			"the record with its measurement history, oldest first."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Child code or part of the name")),
	), s.lookupChild)

	s.addTool(mcp.NewTool("classify_nutrition",
		mcp.WithDescription("Screen one measurement and return the nutrition status with the "+
			"weight-for-age, height-for-age and arm circumference breakdown. Read "+
			criteriaURI+" for the rules."),
		mcp.WithString("jenis_kelamin", mcp.Required(), mcp.Description("Sex: Laki-laki or Perempuan (L/P accepted)")),
		mcp.WithNumber("berat_badan", mcp.Required(), mcp.Description("Weight in kg")),
		mcp.WithNumber("tinggi_badan", mcp.Required(), mcp.Description("Height in cm")),
		mcp.WithNumber("usia_bulan", mcp.Description("Age in months; derived from tanggal_lahir when omitted")),
		mcp.WithString("tanggal_lahir", mcp.Description("Birth date YYYY-MM-DD")),
		mcp.WithString("tanggal", mcp.Description("Measurement date YYYY-MM-DD, default today")),
		mcp.WithNumber("lingkar_lengan", mcp.Description("Mid-upper arm circumference in cm")),
	), s.classifyNutrition)

	s.addTool(mcp.NewTool("generate_child_code",
		mcp.WithDescription("Preview the child code for a name, birth date and sequence number. "+
			"Nothing is stored."),
		mcp.WithString("nama", mcp.Required(), mcp.Description("Full name of the child")),
		mcp.WithString("tanggal_lahir", mcp.Description("Birth date YYYY-MM-DD")),
		mcp.WithNumber("nomor", mcp.Description("Sequence number, default 1")),
	), s.generateChildCode)

	s.addTool(mcp.NewTool("parse_child_code",
		mcp.WithDescription("Split a child code into birth date, initials and sequence number."),
		mcp.WithString("kode", mcp.Required(), mcp.Description("Child code, e.g. 20250113-AR-001")),
	), s.parseChildCode)

	s.addTool(mcp.NewTool("upcoming_activities",
		mcp.WithDescription("List posyandu activities from now on that are not finished, soonest first."),
		mcp.WithNumber("limit", mcp.Description("Max results, default 5")),
	), s.upcomingActivities)

	s.addTool(mcp.NewTool("dashboard_stats",
		mcp.WithDescription("Headline counts: children, normal and at-risk with percentages, "+
			"measurements, activities and published articles."),
	), s.dashboardStats)

	s.addTool(mcp.NewTool("search_articles",
		mcp.WithDescription("Search published news articles by title and body."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
		mcp.WithNumber("limit", mcp.Description("Max results, default 20")),
	), s.searchArticles)

	// Resource: screening criteria.
	s.mcp.AddResource(
		mcp.NewResource(criteriaURI, "Screening Criteria",
			mcp.WithResourceDescription("How measurements are classified as Normal or Resiko Stunting."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readCriteriaResource,
	)

	return s
}

func (s *Server) addTool(tool mcp.Tool, h server.ToolHandlerFunc) {
	s.tools[tool.Name] = h
	s.mcp.AddTool(tool, h)
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func optFloat(req mcp.CallToolRequest, key string) *float64 {
	if v, ok := req.GetArguments()[key]; !ok || v == nil {
		return nil
	}
	f := req.GetFloat(key, 0)
	return &f
}

func optDate(req mcp.CallToolRequest, key string) (models.Date, error) {
	return models.ParseDate(req.GetString(key, ""))
}

func (s *Server) lookupChild(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	d, err := s.svc.LookupAnak(ctx, query)
	if errors.Is(err, apperr.ErrNotFound) {
		return mcp.NewToolResultError("no child matches " + query), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(d)
}

func (s *Server) classifyNutrition(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sex, err := req.RequireString("jenis_kelamin")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	in := service.ClassifyInput{
		JenisKelamin:  sex,
		BeratBadan:    optFloat(req, "berat_badan"),
		TinggiBadan:   optFloat(req, "tinggi_badan"),
		LingkarLengan: optFloat(req, "lingkar_lengan"),
	}
	if age := optFloat(req, "usia_bulan"); age != nil {
		m := int(*age)
		in.UsiaBulan = &m
	}
	if in.TanggalLahir, err = optDate(req, "tanggal_lahir"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if in.Tanggal, err = optDate(req, "tanggal"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(s.svc.Classify(in))
}

func (s *Server) generateChildCode(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("nama")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	code := service.GenerateCode(service.CodeInput{
		Nama:         name,
		TanggalLahir: req.GetString("tanggal_lahir", ""),
		Nomor:        req.GetInt("nomor", 1),
	})
	return mcp.NewToolResultText(code), nil
}

func (s *Server) parseChildCode(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := req.RequireString("kode")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	parsed, ok := service.ParseCode(code)
	if !ok {
		return mcp.NewToolResultError("invalid child code: " + code), nil
	}
	return jsonResult(parsed)
}

func (s *Server) upcomingActivities(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, err := s.svc.UpcomingKegiatan(ctx, req.GetInt("limit", 0))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(items)
}

func (s *Server) dashboardStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	d, err := s.svc.Dashboard(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(d)
}

func (s *Server) searchArticles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	items, err := s.svc.SearchBerita(ctx, query, req.GetInt("limit", 20))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(items)
}

func (s *Server) readCriteriaResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      criteriaURI,
			MIMEType: "text/markdown",
			Text:     StatusCriteria,
		},
	}, nil
}
