package mcp

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/1broseidon/deskshell/internal/ipc"
	"github.com/1broseidon/deskshell/internal/platform"
	"github.com/1broseidon/deskshell/internal/shell"
)

// localDesktop drives an in-process shell the way the daemon does.
type localDesktop struct {
	sh  *shell.Shell
	err error
}

func newLocalDesktop() *localDesktop {
	return &localDesktop{sh: shell.New(shell.Options{
		Viewport: platform.Size{Width: 800, Height: 600},
		Descriptors: map[shell.AppID]shell.Descriptor{
			"notepad": {Title: "GemNotes", Width: 300, Height: 200},
			"paint":   {Title: "GemPaint", Width: 300, Height: 200},
		},
		Random: func() float64 { return 0 },
	})}
}

func (d *localDesktop) act(id string, changed bool) (*ipc.ActionData, error) {
	if d.err != nil {
		return nil, d.err
	}
	data := &ipc.ActionData{AppID: id, Changed: changed, Focused: string(d.sh.Focused())}
	if w, ok := d.sh.Snapshot().Window(shell.AppID(id)); ok {
		data.Window = &w
	}
	return data, nil
}

func (d *localDesktop) Open(id string) (*ipc.ActionData, error) {
	return d.act(id, d.sh.Lifecycle.Open(shell.AppID(id)))
}

func (d *localDesktop) Close(id string) (*ipc.ActionData, error) {
	return d.act(id, d.sh.Lifecycle.Close(shell.AppID(id)))
}

func (d *localDesktop) Minimize(id string) (*ipc.ActionData, error) {
	return d.act(id, d.sh.Lifecycle.Minimize(shell.AppID(id)))
}

func (d *localDesktop) Focus(id string) (*ipc.ActionData, error) {
	return d.act(id, d.sh.Lifecycle.Focus(shell.AppID(id)))
}

func (d *localDesktop) TaskbarClick(id string) (*ipc.ActionData, error) {
	return d.act(id, d.sh.Lifecycle.TaskbarClick(shell.AppID(id)))
}

func (d *localDesktop) Move(id string, x, y int) (*ipc.ActionData, error) {
	return d.act(id, d.sh.Drag.MoveTo(shell.AppID(id), shell.Point{X: x, Y: y}))
}

func (d *localDesktop) List() (*ipc.ListData, error) {
	if d.err != nil {
		return nil, d.err
	}
	return &ipc.ListData{State: d.sh.Snapshot(), AppStatus: map[string]string{"notepad": "story session ready"}}, nil
}

func TestNewServerRegistersTools(t *testing.T) {
	if s := NewServer(newLocalDesktop()); s.mcpServer == nil {
		t.Fatal("NewServer() returned a server without an MCP server")
	}
}

func TestAppTools(t *testing.T) {
	s := NewServer(newLocalDesktop())
	ctx := context.Background()

	_, out, err := s.handleOpenApp(ctx, nil, AppInput{AppID: "notepad"})
	if err != nil {
		t.Fatalf("open_app: %v", err)
	}
	if !out.Open || !out.Visible || out.Focused != "notepad" {
		t.Fatalf("open_app = %+v", out)
	}
	if out.Message != "notepad is open and focused" {
		t.Errorf("open_app message = %q", out.Message)
	}

	_, out, _ = s.handleOpenApp(ctx, nil, AppInput{AppID: "solitaire"})
	if out.Open || !strings.Contains(out.Message, "could not be opened") {
		t.Errorf("open_app(solitaire) = %+v", out)
	}

	_, out, _ = s.handleTaskbarClick(ctx, nil, AppInput{AppID: "notepad"})
	if out.Visible || out.Message != "notepad minimized" {
		t.Errorf("taskbar_click on focused window = %+v", out)
	}

	_, out, _ = s.handleMinimizeApp(ctx, nil, AppInput{AppID: "notepad"})
	if out.Message != "notepad is already minimized" {
		t.Errorf("minimize_app on minimized window = %q", out.Message)
	}

	_, out, _ = s.handleFocusApp(ctx, nil, AppInput{AppID: "notepad"})
	if !out.Visible || out.Focused != "notepad" {
		t.Errorf("focus_app = %+v", out)
	}

	_, out, _ = s.handleCloseApp(ctx, nil, AppInput{AppID: "notepad"})
	if !out.Changed || out.Open || out.Message != "notepad closed" {
		t.Errorf("close_app = %+v", out)
	}

	_, out, _ = s.handleCloseApp(ctx, nil, AppInput{AppID: "notepad"})
	if out.Changed || out.Message != "notepad is not open" {
		t.Errorf("close_app twice = %+v", out)
	}
}

func TestMoveWindowReportsClamping(t *testing.T) {
	s := NewServer(newLocalDesktop())
	ctx := context.Background()
	s.handleOpenApp(ctx, nil, AppInput{AppID: "paint"})

	tests := []struct {
		x, y    int
		wantX   int
		wantY   int
		message string
	}{
		{100, 50, 100, 50, "paint moved to (100, 50)"},
		{-1000, 900, -260, 364, "paint moved to (-260, 364), clamped from (-1000, 900)"},
	}
	for _, tt := range tests {
		_, out, err := s.handleMoveWindow(ctx, nil, MoveWindowInput{AppID: "paint", X: tt.x, Y: tt.y})
		if err != nil {
			t.Fatalf("move_window(%d, %d): %v", tt.x, tt.y, err)
		}
		if out.X != tt.wantX || out.Y != tt.wantY {
			t.Errorf("move_window(%d, %d) = (%d, %d), want (%d, %d)", tt.x, tt.y, out.X, out.Y, tt.wantX, tt.wantY)
		}
		if out.Message != tt.message {
			t.Errorf("move_window(%d, %d) message = %q, want %q", tt.x, tt.y, out.Message, tt.message)
		}
	}
}

func TestListWindows(t *testing.T) {
	s := NewServer(newLocalDesktop())
	ctx := context.Background()
	s.handleOpenApp(ctx, nil, AppInput{AppID: "notepad"})
	s.handleOpenApp(ctx, nil, AppInput{AppID: "paint"})
	s.handleMinimizeApp(ctx, nil, AppInput{AppID: "paint"})

	_, all, err := s.handleListWindows(ctx, nil, ListWindowsInput{})
	if err != nil {
		t.Fatalf("list_windows: %v", err)
	}
	if len(all.Windows) != 2 || strings.Join(all.Taskbar, ",") != "notepad,paint" {
		t.Fatalf("list_windows = %+v", all)
	}
	// Restoring focus to notepad raised it above the minimized paint window.
	top := all.Windows[1]
	if all.Focused != "notepad" || top.AppID != "notepad" || top.Status != "story session ready" {
		t.Errorf("list_windows top = %+v, focused %q", top, all.Focused)
	}

	_, visible, _ := s.handleListWindows(ctx, nil, ListWindowsInput{VisibleOnly: true})
	if len(visible.Windows) != 1 || visible.Windows[0].AppID != "notepad" {
		t.Errorf("list_windows(visible_only) = %+v", visible.Windows)
	}
}

func TestToolErrors(t *testing.T) {
	d := newLocalDesktop()
	s := NewServer(d)
	ctx := context.Background()

	if _, _, err := s.handleOpenApp(ctx, nil, AppInput{AppID: "  "}); err == nil {
		t.Error("open_app with empty app_id succeeded")
	}

	d.err = errors.New("failed to connect to daemon")
	if _, _, err := s.handleFocusApp(ctx, nil, AppInput{AppID: "notepad"}); err == nil {
		t.Error("focus_app succeeded without a daemon")
	}
	if _, _, err := s.handleListWindows(ctx, nil, ListWindowsInput{}); err == nil {
		t.Error("list_windows succeeded without a daemon")
	}
}
