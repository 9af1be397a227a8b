package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if cfg.TaskbarHeight != DefaultTaskbarHeight {
		t.Fatalf("expected taskbar_height %d, got %d", DefaultTaskbarHeight, cfg.TaskbarHeight)
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.DragSliver != DefaultDragSliver {
		t.Fatalf("expected drag_sliver %d, got %d", DefaultDragSliver, res.Config.DragSliver)
	}
	if len(res.Files) != 0 {
		t.Fatalf("expected no files, got %v", res.Files)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "# empty\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Logging.Level != "info" {
		t.Fatalf("expected logging.level info, got %q", res.Config.Logging.Level)
	}
}

func TestLoadFromPath_Overrides(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", strings.Join([]string{
		"viewport:",
		"  width: 1024",
		"  auto: false",
		"taskbar_height: 30",
		"apps:",
		"  notepad:",
		"    title: Notes",
		"  doom:",
		"    disabled: true",
		"logging:",
		"  level: debug",
		"metrics_addr: 127.0.0.1:9095",
		"",
	}, "\n"))

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := res.Config
	if cfg.Viewport.Width != 1024 || cfg.Viewport.Height != DefaultViewportHeight || cfg.Viewport.Auto {
		t.Fatalf("unexpected viewport %+v", cfg.Viewport)
	}
	if cfg.TaskbarHeight != 30 {
		t.Fatalf("expected taskbar_height 30, got %d", cfg.TaskbarHeight)
	}
	if cfg.Apps["notepad"].Title != "Notes" || !cfg.Apps["doom"].Disabled {
		t.Fatalf("unexpected apps %+v", cfg.Apps)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Fatalf("expected debug level, got %v", cfg.SlogLevel())
	}
	if cfg.MetricsAddr != "127.0.0.1:9095" {
		t.Fatalf("expected metrics_addr, got %q", cfg.MetricsAddr)
	}

	src := Explain(res, "viewport.width")
	if src.Kind != SourceFile || src.Line != 2 {
		t.Fatalf("expected viewport.width from line 2, got %+v", src)
	}
	if got := Explain(res, "drag_sliver"); got.Kind != SourceDefault {
		t.Fatalf("expected drag_sliver from defaults, got %+v", got)
	}
}

func TestLoadFromPath_UnknownKeyRejected(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "taskbar_heigth: 30\n")

	if _, err := LoadFromPath(path); err == nil {
		t.Fatal("expected unknown key to fail")
	}
}

func TestLoadFromPath_ValidationErrorHasSource(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "drag_sliver: 0\nlogging:\n  level: loud\n")

	_, err := LoadFromPath(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Path != "drag_sliver" {
		t.Fatalf("expected drag_sliver error, got %q", verr.Path)
	}
	if verr.Source.Line != 1 {
		t.Fatalf("expected line 1, got %+v", verr.Source)
	}
	if !strings.Contains(err.Error(), "config.yaml:1:") {
		t.Fatalf("expected file position in %q", err.Error())
	}
}

func TestLoadFromPath_Includes(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "base.yaml", "taskbar_height: 28\ndrag_sliver: 60\napps:\n  paint:\n    width: 700\n")
	path := writeConfig(t, dir, "config.yaml", "include: base.yaml\ndrag_sliver: 50\napps:\n  paint:\n    title: Canvas\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := res.Config
	if cfg.TaskbarHeight != 28 {
		t.Fatalf("expected included taskbar_height 28, got %d", cfg.TaskbarHeight)
	}
	if cfg.DragSliver != 50 {
		t.Fatalf("expected including file to win, got %d", cfg.DragSliver)
	}
	if got := cfg.Apps["paint"]; got.Width != 700 || got.Title != "Canvas" {
		t.Fatalf("expected merged app override, got %+v", got)
	}
	if len(res.Files) != 2 {
		t.Fatalf("expected 2 files, got %v", res.Files)
	}
}

func TestLoadFromPath_IncludeCycle(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "a.yaml", "include: b.yaml\n")
	writeConfig(t, dir, "b.yaml", "include: a.yaml\n")

	_, err := LoadFromPath(filepath.Join(dir, "a.yaml"))
	if err == nil || !strings.Contains(err.Error(), "include cycle") {
		t.Fatalf("expected include cycle error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		path   string
	}{
		{"viewport width", func(c *Config) { c.Viewport.Width = 0 }, "viewport.width"},
		{"taskbar taller than viewport", func(c *Config) { c.TaskbarHeight = c.Viewport.Height }, "taskbar_height"},
		{"negative app size", func(c *Config) { c.Apps["paint"] = AppOverride{Width: -1} }, "apps.paint"},
		{"default window", func(c *Config) { c.DefaultWindow.Height = 0 }, "default_window"},
		{"metrics addr", func(c *Config) { c.MetricsAddr = "9090" }, "metrics_addr"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() = %v, want ValidationError", err)
			}
			if verr.Path != tt.path {
				t.Errorf("Validate() path = %q, want %q", verr.Path, tt.path)
			}
		})
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Apps["gemini"] = AppOverride{Title: "Chat"}
	data, err := cfg.Marshal()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	path := writeConfig(t, t.TempDir(), "config.yaml", string(data))
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load printed config: %v", err)
	}
	if res.Config.Apps["gemini"].Title != "Chat" {
		t.Fatalf("expected override to survive, got %+v", res.Config.Apps)
	}
}
