// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes tracker tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/tracker/internal/apperr"
	"github.com/starford/tracker/internal/meetingservice"
	"github.com/starford/tracker/internal/models"
	"github.com/starford/tracker/internal/phone"
)

const recordFormatURI = "tracker://record-format"

// Server wraps the MCP server with tracker tools.
type Server struct {
	mcp *server.MCPServer
	svc *meetingservice.Service
}

// New creates a new MCP server with all tracker tools registered.
func New(svc *meetingservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Tracker",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_meetings",
		mcp.WithDescription("List the meetings on a tab, optionally filtered by a case-insensitive "+
			"search over name, company and position."),
		mcp.WithString("tab", mcp.Enum(string(meetingservice.TabUpcoming), string(meetingservice.TabHistory)),
			mcp.Description("Which tab to list (default upcoming)")),
		mcp.WithString("query", mcp.Description("Optional search text")),
	), s.listMeetings)

	s.mcp.AddTool(mcp.NewTool("get_meeting",
		mcp.WithDescription("Read one meeting by id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Meeting id (UUID)")),
	), s.getMeeting)

	s.mcp.AddTool(mcp.NewTool("add_meeting",
		mcp.WithDescription("Add a meeting. Read the contract first via the get_record_contract tool "+
			"or the tracker://record-format resource."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Contact name")),
		mcp.WithString("company", mcp.Required(), mcp.Description("Company")),
		mcp.WithString("position", mcp.Required(), mcp.Description("Contact's position")),
		mcp.WithString("phone_number", mcp.Required(), mcp.Description("Phone number in any notation")),
		mcp.WithString("purpose", mcp.Required(), mcp.Enum(models.PurposeLabels()...),
			mcp.Description("Purpose label")),
		mcp.WithString("date", mcp.Description("RFC 3339 timestamp (default now)")),
		mcp.WithString("notes", mcp.Description("Free-text notes")),
	), s.addMeeting)

	s.mcp.AddTool(mcp.NewTool("delete_meeting",
		mcp.WithDescription("Delete a meeting by id. Deleting an unknown id is not an error."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Meeting id (UUID)")),
	), s.deleteMeeting)

	s.mcp.AddTool(mcp.NewTool("format_phone",
		mcp.WithDescription("Format a phone number for display and return its dial URI."),
		mcp.WithString("number", mcp.Required(), mcp.Description("Phone number in any notation")),
	), s.formatPhone)

	s.mcp.AddTool(mcp.NewTool("get_record_contract",
		mcp.WithDescription("Returns the tracker record format and purpose labels. "+
			"Call this before adding or importing meetings."),
	), s.getRecordContract)

	s.mcp.AddResource(
		mcp.NewResource(recordFormatURI, "Record Format Contract",
			mcp.WithResourceDescription("Meeting record keys, purpose labels and tab rules."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readRecordFormatResource,
	)

	return s
}

// Listen serves MCP over in/out until ctx is cancelled or in is closed.
// Transport errors are written to logger.
func (s *Server) Listen(ctx context.Context, in io.Reader, out io.Writer, logger *slog.Logger) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(slog.NewLogLogger(logger.Handler(), slog.LevelError))
	return stdio.Listen(ctx, in, out)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) *mcp.CallToolResult {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(string(out))
}

func (s *Server) listMeetings(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tab, err := meetingservice.ParseTab(req.GetString("tab", string(meetingservice.TabUpcoming)))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	items, err := s.svc.View(ctx, tab, req.GetString("query", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(items), nil
}

func (s *Server) getMeeting(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid id: %s", raw)), nil
	}
	d, err := s.svc.Get(ctx, id)
	if errors.Is(err, apperr.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", raw)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(d), nil
}

func (s *Server) addMeeting(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in := meetingservice.AddInput{
		Name:        req.GetString("name", ""),
		Company:     req.GetString("company", ""),
		Position:    req.GetString("position", ""),
		PhoneNumber: req.GetString("phone_number", ""),
		Purpose:     req.GetString("purpose", ""),
		Notes:       req.GetString("notes", ""),
	}
	if raw := req.GetString("date", ""); raw != "" {
		date, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid date %q: want RFC 3339", raw)), nil
		}
		in.Date = date
	}

	d, err := s.svc.Add(ctx, in)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(d), nil
}

func (s *Server) deleteMeeting(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid id: %s", raw)), nil
	}
	n := s.svc.Delete(ctx, id)
	return mcp.NewToolResultText(fmt.Sprintf("deleted: %d", n)), nil
}

func (s *Server) formatPhone(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	number, err := req.RequireString("number")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]string{
		"digits":    phone.OnlyDigits(number),
		"formatted": phone.Format(number),
		"dialURI":   phone.DialURI(number),
	}), nil
}

func (s *Server) getRecordContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(RecordFormatContract), nil
}

func (s *Server) readRecordFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      recordFormatURI,
			MIMEType: "text/markdown",
			Text:     RecordFormatContract,
		},
	}, nil
}
