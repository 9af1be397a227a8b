package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/1broseidon/deskshell/internal/config"
	"github.com/1broseidon/deskshell/internal/ipc"
	"github.com/1broseidon/deskshell/internal/platform"
	"github.com/1broseidon/deskshell/internal/shell"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLookupValue(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Apps["paint"] = config.AppOverride{Title: "Canvas"}

	tests := []struct {
		path    string
		want    any
		wantErr bool
	}{
		{"taskbar_height", config.DefaultTaskbarHeight, false},
		{"viewport.auto", true, false},
		{"apps.paint.title", "Canvas", false},
		{"viewport.depth", nil, true},
		{"taskbar_height.x", nil, true},
	}
	for _, tt := range tests {
		got, err := lookupValue(cfg, tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("lookupValue(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("lookupValue(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestRunConfig(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	writeFile(t, good, "taskbar_height: 40\n")
	bad := filepath.Join(dir, "bad.yaml")
	writeFile(t, bad, "taskbar_hieght: 40\n")

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"validate good", []string{"validate", "--path", good}, 0},
		{"validate missing uses defaults", []string{"validate", "--path", filepath.Join(dir, "none.yaml")}, 0},
		{"validate unknown key", []string{"validate", "--path", bad}, 1},
		{"print defaults", []string{"print", "--defaults"}, 0},
		{"explain", []string{"explain", "--path", good, "taskbar_height"}, 0},
		{"explain unknown path", []string{"explain", "--path", good, "nope"}, 1},
		{"explain without path", []string{"explain", "--path", good}, 2},
		{"unknown subcommand", []string{"reset"}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rc := runConfig(tt.args); rc != tt.want {
				t.Fatalf("runConfig(%v) rc=%d, want %d", tt.args, rc, tt.want)
			}
		})
	}
}

func TestDescribeAction(t *testing.T) {
	win := &shell.Window{
		App:        "paint",
		Bounds:     platform.Rect{X: 30, Y: 40, Width: 560, Height: 420},
		Z:          12,
		Visibility: shell.Shown,
		Focused:    true,
	}
	tests := []struct {
		cmd  string
		data ipc.ActionData
		want string
	}{
		{"open", ipc.ActionData{AppID: "paint", Changed: true, Window: win}, "paint: visible, focused at (30, 40) z=12"},
		{"focus", ipc.ActionData{AppID: "paint", Window: win}, "paint: visible, focused at (30, 40) z=12 (unchanged)"},
		{"open", ipc.ActionData{AppID: "solitaire"}, "solitaire: unknown or disabled application"},
		{"close", ipc.ActionData{AppID: "paint", Changed: true}, "paint: closed"},
		{"minimize", ipc.ActionData{AppID: "paint"}, "paint: not open"},
	}
	for _, tt := range tests {
		if got := describeAction(tt.cmd, &tt.data); got != tt.want {
			t.Errorf("describeAction(%s) = %q, want %q", tt.cmd, got, tt.want)
		}
	}
}

func TestWindowCommandsAgainstDaemon(t *testing.T) {
	dir, err := os.MkdirTemp("", "dsk")
	if err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	socket := filepath.Join(dir, "d.sock")
	t.Setenv("DESKSHELL_SOCKET", socket)

	loop := shell.NewLoop(shell.Options{
		Viewport:    platform.Size{Width: 800, Height: 600},
		Descriptors: map[shell.AppID]shell.Descriptor{"notepad": {Title: "GemNotes", Width: 300, Height: 200}},
	})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = loop.Run(ctx)
	}()
	srv, err := ipc.NewServer(loop, ipc.ServerOptions{SocketPath: socket})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() {
		srv.Stop()
		cancel()
		<-done
	})

	steps := []struct {
		name string
		rc   int
	}{
		{"open", runAppAction("open", []string{"notepad"})},
		{"move", runMove([]string{"notepad", "10", "10"})},
		{"move bad coordinates", runMove([]string{"notepad", "ten", "10"})},
		{"list", runList(nil)},
		{"status", runStatus(nil)},
		{"start-menu", runStartMenu(nil)},
		{"taskbar", runAppAction("taskbar", []string{"--json", "notepad"})},
		{"close without app", runAppAction("close", nil)},
	}
	want := map[string]int{"move bad coordinates": 2, "close without app": 2}
	for _, s := range steps {
		if s.rc != want[s.name] {
			t.Errorf("%s rc=%d, want %d", s.name, s.rc, want[s.name])
		}
	}

	st, err := loop.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	w, ok := st.Window("notepad")
	if !ok || w.Visible() || w.Origin() != (shell.Point{X: 10, Y: 10}) {
		t.Fatalf("notepad after commands = %+v (open %v)", w, ok)
	}
}
