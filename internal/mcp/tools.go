package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/deskshell/internal/ipc"
)

func (s *Server) handleOpenApp(_ context.Context, _ *mcpsdk.CallToolRequest, args AppInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	return s.appAction(args.AppID, s.desktop.Open, func(out WindowOutput) string {
		if !out.Open {
			return fmt.Sprintf("%s could not be opened: unknown or disabled application", out.AppID)
		}
		return fmt.Sprintf("%s is open and focused", out.AppID)
	})
}

func (s *Server) handleCloseApp(_ context.Context, _ *mcpsdk.CallToolRequest, args AppInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	return s.appAction(args.AppID, s.desktop.Close, func(out WindowOutput) string {
		if !out.Changed {
			return fmt.Sprintf("%s is not open", out.AppID)
		}
		return fmt.Sprintf("%s closed", out.AppID)
	})
}

func (s *Server) handleMinimizeApp(_ context.Context, _ *mcpsdk.CallToolRequest, args AppInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	return s.appAction(args.AppID, s.desktop.Minimize, func(out WindowOutput) string {
		switch {
		case !out.Open:
			return fmt.Sprintf("%s is not open", out.AppID)
		case !out.Changed:
			return fmt.Sprintf("%s is already minimized", out.AppID)
		}
		return fmt.Sprintf("%s minimized", out.AppID)
	})
}

func (s *Server) handleFocusApp(_ context.Context, _ *mcpsdk.CallToolRequest, args AppInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	return s.appAction(args.AppID, s.desktop.Focus, func(out WindowOutput) string {
		if !out.Open {
			return fmt.Sprintf("%s is not open", out.AppID)
		}
		return fmt.Sprintf("%s is focused", out.AppID)
	})
}

func (s *Server) handleTaskbarClick(_ context.Context, _ *mcpsdk.CallToolRequest, args AppInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	return s.appAction(args.AppID, s.desktop.TaskbarClick, func(out WindowOutput) string {
		switch {
		case !out.Open:
			return fmt.Sprintf("%s has no taskbar button", out.AppID)
		case out.Visible:
			return fmt.Sprintf("%s restored and focused", out.AppID)
		}
		return fmt.Sprintf("%s minimized", out.AppID)
	})
}

func (s *Server) handleMoveWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args MoveWindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	move := func(appID string) (*ipc.ActionData, error) {
		return s.desktop.Move(appID, args.X, args.Y)
	}
	return s.appAction(args.AppID, move, func(out WindowOutput) string {
		switch {
		case !out.Open:
			return fmt.Sprintf("%s is not open", out.AppID)
		case !out.Changed:
			return fmt.Sprintf("%s is minimized and cannot be moved", out.AppID)
		case out.X != args.X || out.Y != args.Y:
			return fmt.Sprintf("%s moved to (%d, %d), clamped from (%d, %d)", out.AppID, out.X, out.Y, args.X, args.Y)
		}
		return fmt.Sprintf("%s moved to (%d, %d)", out.AppID, out.X, out.Y)
	})
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, args ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	data, err := s.desktop.List()
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}

	out := ListWindowsOutput{
		Windows:       []WindowInfo{},
		Taskbar:       []string{},
		Focused:       string(data.Focused),
		StartMenuOpen: data.StartMenuOpen,
	}
	for _, w := range data.Windows {
		if args.VisibleOnly && !w.Visible() {
			continue
		}
		out.Windows = append(out.Windows, WindowInfo{
			AppID:    string(w.App),
			Title:    w.Title,
			X:        w.Bounds.X,
			Y:        w.Bounds.Y,
			Width:    w.Bounds.Width,
			Height:   w.Bounds.Height,
			Z:        w.Z,
			Visible:  w.Visible(),
			Focused:  w.Focused,
			Degraded: w.Degraded,
			Status:   data.AppStatus[string(w.App)],
		})
	}
	for _, e := range data.Taskbar {
		out.Taskbar = append(out.Taskbar, string(e.App))
	}
	return nil, out, nil
}

func (s *Server) appAction(appID string, call func(string) (*ipc.ActionData, error), describe func(WindowOutput) string) (*mcpsdk.CallToolResult, WindowOutput, error) {
	appID = strings.TrimSpace(appID)
	if appID == "" {
		return nil, WindowOutput{}, fmt.Errorf("app_id is required")
	}
	data, err := call(appID)
	if err != nil {
		return nil, WindowOutput{}, err
	}

	out := WindowOutput{
		AppID:   data.AppID,
		Changed: data.Changed,
		Focused: data.Focused,
	}
	if w := data.Window; w != nil {
		out.Open = true
		out.Visible = w.Visible()
		out.X, out.Y, out.Z = w.Bounds.X, w.Bounds.Y, w.Z
	}
	out.Message = describe(out)
	return nil, out, nil
}
