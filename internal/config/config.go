package config

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultTaskbarHeight  = 36
	DefaultDragSliver     = 40
	DefaultWindowWidth    = 480
	DefaultWindowHeight   = 360
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 800
)

// Config is the effective desktop configuration.
type Config struct {
	Viewport      ViewportConfig         `yaml:"viewport"`
	TaskbarHeight int                    `yaml:"taskbar_height"`
	DragSliver    int                    `yaml:"drag_sliver"`
	DefaultWindow WindowSize             `yaml:"default_window"`
	Apps          map[string]AppOverride `yaml:"apps,omitempty"`
	Logging       LoggingConfig          `yaml:"logging"`
	MetricsAddr   string                 `yaml:"metrics_addr,omitempty"`
}

// ViewportConfig sizes the desktop. With Auto set, the daemon asks the display
// server for the usable area of the active monitor and falls back to
// Width x Height when no display is reachable.
type ViewportConfig struct {
	Width  int  `yaml:"width"`
	Height int  `yaml:"height"`
	Auto   bool `yaml:"auto"`
}

type WindowSize struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// AppOverride replaces presentation fields of a built-in application.
type AppOverride struct {
	Title    string `yaml:"title,omitempty"`
	Icon     string `yaml:"icon,omitempty"`
	Width    int    `yaml:"width,omitempty"`
	Height   int    `yaml:"height,omitempty"`
	Disabled bool   `yaml:"disabled,omitempty"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Viewport: ViewportConfig{
			Width:  DefaultViewportWidth,
			Height: DefaultViewportHeight,
			Auto:   true,
		},
		TaskbarHeight: DefaultTaskbarHeight,
		DragSliver:    DefaultDragSliver,
		DefaultWindow: WindowSize{Width: DefaultWindowWidth, Height: DefaultWindowHeight},
		Apps:          map[string]AppOverride{},
		Logging:       LoggingConfig{Level: "info"},
	}
}

func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "deskshell", "config.yaml"), nil
}

// SlogLevel maps logging.level to a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch c.Logging.Level {
	case "debug":
		return slog.LevelDebug
	case "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// AppIDs returns the ids with overrides, sorted.
func (c *Config) AppIDs() []string {
	ids := make([]string, 0, len(c.Apps))
	for id := range c.Apps {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Marshal renders the effective configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	if c.Viewport.Width <= 0 {
		return &ValidationError{Path: "viewport.width", Err: fmt.Errorf("width must be > 0")}
	}
	if c.Viewport.Height <= 0 {
		return &ValidationError{Path: "viewport.height", Err: fmt.Errorf("height must be > 0")}
	}
	if c.TaskbarHeight < 0 {
		return &ValidationError{Path: "taskbar_height", Err: fmt.Errorf("taskbar_height must be >= 0")}
	}
	if c.TaskbarHeight >= c.Viewport.Height {
		return &ValidationError{Path: "taskbar_height", Err: fmt.Errorf("taskbar_height must be smaller than viewport.height")}
	}
	if c.DragSliver <= 0 {
		return &ValidationError{Path: "drag_sliver", Err: fmt.Errorf("drag_sliver must be > 0")}
	}
	if c.DefaultWindow.Width <= 0 || c.DefaultWindow.Height <= 0 {
		return &ValidationError{Path: "default_window", Err: fmt.Errorf("default_window width and height must be > 0")}
	}
	for _, id := range c.AppIDs() {
		o := c.Apps[id]
		if strings.TrimSpace(id) == "" {
			return &ValidationError{Path: "apps", Err: fmt.Errorf("apps contains an empty id")}
		}
		if o.Width < 0 || o.Height < 0 {
			return &ValidationError{Path: "apps." + id, Err: fmt.Errorf("width and height must be >= 0")}
		}
	}
	switch c.Logging.Level {
	case "debug", "info", "warning", "error":
	default:
		return &ValidationError{Path: "logging.level", Err: fmt.Errorf("level must be one of: debug, info, warning, error")}
	}
	if c.MetricsAddr != "" {
		if _, _, err := net.SplitHostPort(c.MetricsAddr); err != nil {
			return &ValidationError{Path: "metrics_addr", Err: fmt.Errorf("metrics_addr must be host:port: %w", err)}
		}
	}
	return nil
}

// ValidationError is a config error tied to a YAML path and, when known, the
// file position that set it.
type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }
