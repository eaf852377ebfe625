// Package mcpserver exposes the recorder over MCP so agents can drive it:
// start/stop recording, toggle the webcam, export, and inspect history.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/Trucker2827/sb1-wf5mkd/internal/session"
	"github.com/Trucker2827/sb1-wf5mkd/internal/version"
)

// Server wraps the MCP stdio server over a session controller.
type Server struct {
	ctrl *session.Controller
	mcp  *server.MCPServer
}

// New builds the MCP server and registers the tools.
func New(ctrl *session.Controller) *Server {
	s := &Server{
		ctrl: ctrl,
		mcp: server.NewMCPServer(
			"screencast",
			version.Version,
			server.WithToolCapabilities(false),
		),
	}
	s.register()
	return s
}

// ServeStdio blocks serving MCP over stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

func (s *Server) register() {
	s.mcp.AddTool(mcp.NewTool("start_recording",
		mcp.WithDescription("Start recording the configured display (with webcam overlay if the webcam is enabled)"),
	), s.handleStart)

	s.mcp.AddTool(mcp.NewTool("stop_recording",
		mcp.WithDescription("Stop the in-progress recording; no-op when idle"),
	), s.handleStop)

	s.mcp.AddTool(mcp.NewTool("toggle_webcam",
		mcp.WithDescription("Enable or disable the webcam overlay"),
	), s.handleToggleWebcam)

	s.mcp.AddTool(mcp.NewTool("status",
		mcp.WithDescription("Current recorder state"),
	), s.handleStatus)

	s.mcp.AddTool(mcp.NewTool("export_recording",
		mcp.WithDescription("Write the last recording to a timestamped WebM file"),
	), s.handleExport)

	s.mcp.AddTool(mcp.NewTool("list_sessions",
		mcp.WithDescription("Recent recording sessions, newest first"),
		mcp.WithNumber("limit", mcp.Description("Maximum number of sessions to return (default 10)")),
	), s.handleList)
}

func (s *Server) handleStart(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.ctrl.StartRecording(ctx); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.statusResult()
}

func (s *Server) handleStop(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.ctrl.StopRecording(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.statusResult()
}

func (s *Server) handleToggleWebcam(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.ctrl.ToggleWebcam(ctx); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.statusResult()
}

func (s *Server) handleStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.statusResult()
}

func (s *Server) handleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := s.ctrl.Export()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if path == "" {
		return mcp.NewToolResultText("nothing recorded yet"), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("exported to %s", path)), nil
}

func (s *Server) handleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := 10
	if v, ok := req.GetArguments()["limit"].(float64); ok && v > 0 {
		limit = int(v)
	}

	sessions, err := s.ctrl.Recent(limit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	data, err := json.MarshalIndent(sessions, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) statusResult() (*mcp.CallToolResult, error) {
	st := s.ctrl.Snapshot()
	data, err := json.MarshalIndent(map[string]any{
		"recording":      st.Recording,
		"webcam":         st.WebcamVisible,
		"sessionId":      st.SessionID,
		"display":        st.Display,
		"artifactBytes":  st.ArtifactBytes,
		"artifactChunks": st.ArtifactChunks,
		"lastExportPath": st.LastExportPath,
	}, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
