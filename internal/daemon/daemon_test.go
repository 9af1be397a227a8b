package daemon

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/1broseidon/deskshell/internal/config"
	"github.com/1broseidon/deskshell/internal/ipc"
	"github.com/1broseidon/deskshell/internal/platform"
	"github.com/1broseidon/deskshell/internal/shell"
)

type switchableBackend struct {
	mu   sync.Mutex
	size platform.Size
	err  error
}

func (b *switchableBackend) Displays() ([]platform.Display, error) {
	d, err := b.ActiveDisplay()
	return []platform.Display{d}, err
}

func (b *switchableBackend) ActiveDisplay() (platform.Display, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return platform.Display{}, b.err
	}
	return platform.Display{Bounds: platform.Rect{Width: b.size.Width, Height: b.size.Height}}, nil
}

func (b *switchableBackend) set(size platform.Size) {
	b.mu.Lock()
	b.size = size
	b.mu.Unlock()
}

func shortSocket(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "dsk")
	if err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	return filepath.Join(dir, "d.sock")
}

func TestResolveViewport(t *testing.T) {
	cfg := config.DefaultConfig()
	configured := platform.Size{Width: cfg.Viewport.Width, Height: cfg.Viewport.Height}

	tests := []struct {
		name    string
		auto    bool
		backend platform.Backend
		want    platform.Size
	}{
		{"auto with display", true, &switchableBackend{size: platform.Size{Width: 1920, Height: 1050}}, platform.Size{Width: 1920, Height: 1050}},
		{"auto without backend", true, nil, configured},
		{"auto with failing display", true, &switchableBackend{err: errors.New("gone")}, configured},
		{"fixed size", false, &switchableBackend{size: platform.Size{Width: 1920, Height: 1050}}, configured},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg.Viewport.Auto = tt.auto
			got := ResolveViewport(cfg, tt.backend, slog.New(slog.DiscardHandler))
			if got != tt.want {
				t.Errorf("ResolveViewport() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDaemonServesIPCAndClosesOnShutdown(t *testing.T) {
	socket := shortSocket(t)
	cfg := config.DefaultConfig()
	cfg.Viewport.Auto = false

	d, err := New(Options{Config: cfg, SocketPath: socket})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- d.Run(ctx) }()

	client := ipc.NewClientWithSocket(socket)
	waitFor(t, func() bool {
		_, err := client.GetStatus()
		return err == nil
	})

	got, err := client.Open("mediaPlayer")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !got.Changed || got.Focused != "mediaPlayer" {
		t.Fatalf("Open() = %+v", got)
	}
	if held := d.Catalog().Held("mediaPlayer"); held != 1 {
		t.Fatalf("Held(mediaPlayer) = %d, want 1", held)
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Run() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("daemon did not stop")
	}
	if running := d.Catalog().Running(); len(running) != 0 {
		t.Fatalf("Running() after shutdown = %v, want none", running)
	}
	if _, err := os.Stat(socket); !os.IsNotExist(err) {
		t.Fatalf("socket still present after shutdown: %v", err)
	}
}

func TestReconcilerResizesShell(t *testing.T) {
	loop := shell.NewLoop(shell.Options{Viewport: platform.Size{Width: 800, Height: 600}})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = loop.Run(ctx)
	}()
	defer func() {
		cancel()
		<-done
	}()

	backend := &switchableBackend{size: platform.Size{Width: 800, Height: 600}}
	var notified []platform.Size
	r := NewReconciler(ReconcilerConfig{
		OnResize: func(s platform.Size) { notified = append(notified, s) },
	}, loop, func() (platform.Size, error) { return platform.Viewport(backend) })

	if r.ReconcileNow(ctx) {
		t.Fatal("ReconcileNow() = true for an unchanged viewport")
	}

	backend.set(platform.Size{Width: 1024, Height: 768})
	if !r.ReconcileNow(ctx) {
		t.Fatal("ReconcileNow() = false after the display changed")
	}
	st, err := loop.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if st.Viewport != (platform.Size{Width: 1024, Height: 768}) {
		t.Fatalf("viewport = %+v, want 1024x768", st.Viewport)
	}
	if len(notified) != 1 {
		t.Fatalf("OnResize called %d times, want 1", len(notified))
	}

	backend.mu.Lock()
	backend.err = errors.New("display gone")
	backend.mu.Unlock()
	if r.ReconcileNow(ctx) {
		t.Fatal("ReconcileNow() = true when the display is unreachable")
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}
