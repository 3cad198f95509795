// Package mcpserver exposes the meeting backend as MCP tools over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/vsenathipathi/ai-meeting-intelligence/internal/api"
	"github.com/vsenathipathi/ai-meeting-intelligence/internal/journal"
	"github.com/vsenathipathi/ai-meeting-intelligence/internal/paging"
	"github.com/vsenathipathi/ai-meeting-intelligence/internal/query"
	"github.com/vsenathipathi/ai-meeting-intelligence/internal/records"
	"github.com/vsenathipathi/ai-meeting-intelligence/internal/upload"
	"github.com/vsenathipathi/ai-meeting-intelligence/internal/version"
)

// Journal records settled uploads and queries.
type Journal interface {
	Append(ctx context.Context, e journal.Entry) (journal.Entry, error)
}

// Options configures a Server. Journal may be nil.
type Options struct {
	Backend     api.Backend
	Loader      *records.Loader
	Journal     Journal
	Logger      *slog.Logger
	RowsPerPage int
}

// Server answers tool calls by driving the same controllers as the TUI.
type Server struct {
	backend     api.Backend
	loader      *records.Loader
	journal     Journal
	logger      *slog.Logger
	rowsPerPage int
	mcp         *server.MCPServer
}

func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Loader == nil {
		opts.Loader = records.NewLoader(opts.Backend, true, opts.Logger)
	}

	s := &Server{
		backend:     opts.Backend,
		loader:      opts.Loader,
		journal:     opts.Journal,
		logger:      opts.Logger,
		rowsPerPage: opts.RowsPerPage,
	}

	s.mcp = server.NewMCPServer("meetintel", version.Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	s.mcp.AddTool(mcp.NewTool("list_meetings",
		mcp.WithDescription("List processed meetings with their insights, one page at a time."),
		mcp.WithNumber("page", mcp.Description("1-based page number; defaults to 1"), mcp.Min(1)),
	), s.handleListMeetings)

	s.mcp.AddTool(mcp.NewTool("ask_meeting",
		mcp.WithDescription("Ask a natural-language question about one meeting's transcript."),
		mcp.WithNumber("meeting_id", mcp.Required(), mcp.Description("Meeting id from list_meetings")),
		mcp.WithString("question", mcp.Required(), mcp.Description("The question to ask")),
	), s.handleAskMeeting)

	s.mcp.AddTool(mcp.NewTool("upload_recording",
		mcp.WithDescription("Upload a local audio or video recording for transcription and indexing."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to the recording on this machine")),
	), s.handleUploadRecording)

	return s
}

// ServeStdio serves tool calls on stdin/stdout until the client disconnects.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

type meetingSummary struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Insights string `json:"insights"`
}

type meetingPage struct {
	Page       int              `json:"page"`
	TotalPages int              `json:"total_pages"`
	Total      int              `json:"total"`
	Meetings   []meetingSummary `json:"meetings"`
}

func (s *Server) handleListMeetings(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	page := req.GetInt("page", 1)

	// A failed fetch is logged by the loader and lists no meetings.
	recs, _ := s.loader.Load(ctx)

	pager := paging.New(s.rowsPerPage)
	pager.SetTotal(len(recs))
	for pager.Page() < page && pager.Next() {
	}

	out := meetingPage{
		Page:       pager.Page(),
		TotalPages: pager.TotalPages(),
		Total:      pager.Total(),
		Meetings:   []meetingSummary{},
	}
	for _, r := range paging.Window(pager, recs) {
		out.Meetings = append(out.Meetings, meetingSummary{ID: r.ID, Title: r.Title, Insights: r.Insights})
	}
	return jsonResult(out)
}

type answer struct {
	Answer  string              `json:"answer,omitempty"`
	Context []query.ContextItem `json:"context,omitempty"`
}

func (s *Server) handleAskMeeting(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("meeting_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	question, err := req.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var c query.Controller
	c.Select(int64(id))
	c.SetQuestion(question)
	qr, ok := c.Begin()
	if !ok {
		return mcp.NewToolResultError("question must not be empty"), nil
	}

	reply, err := s.backend.SubmitQuery(ctx, qr)
	c.Complete(reply, err)
	s.logger.Info("query_completed",
		slog.Int64("meeting_id", qr.MeetingID),
		slog.String("state", c.State().String()),
		slog.String("via", "mcp"))
	s.record(ctx, journal.QueryEntry(c))

	if c.State() == query.Failed {
		return mcp.NewToolResultError(c.Err()), nil
	}
	res := c.Result()
	return jsonResult(answer{Answer: res.Answer, Context: query.MatchedContext(res.Matches)})
}

type uploadSummary struct {
	File  string          `json:"file"`
	Size  int64           `json:"size"`
	Steps map[string]bool `json:"steps"`
}

func (s *Server) handleUploadRecording(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	f, err := upload.StatFile(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var c upload.Controller
	c.SelectFile(f)
	f, _ = c.Begin()
	reply, err := s.backend.UploadFile(ctx, f.Path)
	c.Complete(reply, err)
	s.logger.Info("upload_completed",
		slog.String("file", f.Name),
		slog.String("state", c.State().String()),
		slog.String("via", "mcp"))
	s.record(ctx, journal.UploadEntry(c))

	if c.State() == upload.Failed {
		return mcp.NewToolResultError(c.Err()), nil
	}

	out := uploadSummary{File: f.Name, Size: f.Size, Steps: map[string]bool{}}
	for _, step := range c.Steps() {
		out.Steps[step.Label] = step.OK
	}
	return jsonResult(out)
}

func (s *Server) record(ctx context.Context, e journal.Entry) {
	if s.journal == nil {
		return
	}
	if _, err := s.journal.Append(ctx, e); err != nil {
		s.logger.Warn("journal_append_failed",
			slog.String("kind", string(e.Kind)),
			slog.String("error", err.Error()))
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return mcp.NewToolResultText(string(b)), nil
}
