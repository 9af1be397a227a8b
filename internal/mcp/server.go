// Package mcp exposes the desktop lifecycle operations of a running daemon as
// MCP tools over stdio.
package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/deskshell/internal/ipc"
)

const (
	ServerName    = "deskshell"
	ServerVersion = "0.1.0"
)

// Desktop is the daemon API the tools call. *ipc.Client implements it.
type Desktop interface {
	Open(appID string) (*ipc.ActionData, error)
	Close(appID string) (*ipc.ActionData, error)
	Minimize(appID string) (*ipc.ActionData, error)
	Focus(appID string) (*ipc.ActionData, error)
	TaskbarClick(appID string) (*ipc.ActionData, error)
	Move(appID string, x, y int) (*ipc.ActionData, error)
	List() (*ipc.ListData, error)
}

// Server is the MCP server for desktop control.
type Server struct {
	mcpServer *mcpsdk.Server
	desktop   Desktop
}

// NewServer creates an MCP server that forwards tool calls to desktop.
func NewServer(desktop Desktop) *Server {
	s := &Server{desktop: desktop}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "open_app",
		Description: "Open an application window on the desktop. If the application is already open (even minimized) its window is shown and focused instead of opening a second one.",
	}, s.handleOpenApp)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "close_app",
		Description: "Close an application, releasing everything it holds and removing its taskbar button. Focus moves to the topmost remaining visible window.",
	}, s.handleCloseApp)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "minimize_app",
		Description: "Minimize an application window. It keeps its taskbar button and state and can be restored with open_app, focus_app or taskbar_click.",
	}, s.handleMinimizeApp)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "focus_app",
		Description: "Bring an open application window to the front, restoring it if minimized.",
	}, s.handleFocusApp)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "taskbar_click",
		Description: "Click an application's taskbar button: minimizes it when it is the focused window, otherwise restores and focuses it.",
	}, s.handleTaskbarClick)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "move_window",
		Description: "Drag a window by its title bar so its top-left corner lands at (x, y). The position is clamped to keep the window reachable.",
	}, s.handleMoveWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List open windows in stacking order (bottom first) with position, visibility and focus, plus the taskbar order.",
	}, s.handleListWindows)
}
