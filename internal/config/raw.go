package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawViewport struct {
	Width  *int  `yaml:"width"`
	Height *int  `yaml:"height"`
	Auto   *bool `yaml:"auto"`
}

type RawWindowSize struct {
	Width  *int `yaml:"width"`
	Height *int `yaml:"height"`
}

type RawAppOverride struct {
	Title    *string `yaml:"title"`
	Icon     *string `yaml:"icon"`
	Width    *int    `yaml:"width"`
	Height   *int    `yaml:"height"`
	Disabled *bool   `yaml:"disabled"`
}

type RawLogging struct {
	Level *string `yaml:"level"`
}

// RawConfig is one file as written. Nil fields were not set by that file.
type RawConfig struct {
	Include IncludeList `yaml:"include"`

	Viewport      *RawViewport              `yaml:"viewport"`
	TaskbarHeight *int                      `yaml:"taskbar_height"`
	DragSliver    *int                      `yaml:"drag_sliver"`
	DefaultWindow *RawWindowSize            `yaml:"default_window"`
	Apps          map[string]RawAppOverride `yaml:"apps"`
	Logging       *RawLogging               `yaml:"logging"`
	MetricsAddr   *string                   `yaml:"metrics_addr"`
}

// merge returns r with every field set in over applied on top.
func (r RawConfig) merge(over RawConfig) RawConfig {
	out := r
	out.Include = nil

	if over.Viewport != nil {
		v := RawViewport{}
		if r.Viewport != nil {
			v = *r.Viewport
		}
		setIf(&v.Width, over.Viewport.Width)
		setIf(&v.Height, over.Viewport.Height)
		setIf(&v.Auto, over.Viewport.Auto)
		out.Viewport = &v
	}
	setIf(&out.TaskbarHeight, over.TaskbarHeight)
	setIf(&out.DragSliver, over.DragSliver)
	if over.DefaultWindow != nil {
		w := RawWindowSize{}
		if r.DefaultWindow != nil {
			w = *r.DefaultWindow
		}
		setIf(&w.Width, over.DefaultWindow.Width)
		setIf(&w.Height, over.DefaultWindow.Height)
		out.DefaultWindow = &w
	}
	if over.Apps != nil {
		apps := make(map[string]RawAppOverride, len(r.Apps)+len(over.Apps))
		for id, o := range r.Apps {
			apps[id] = o
		}
		for id, o := range over.Apps {
			base := apps[id]
			setIf(&base.Title, o.Title)
			setIf(&base.Icon, o.Icon)
			setIf(&base.Width, o.Width)
			setIf(&base.Height, o.Height)
			setIf(&base.Disabled, o.Disabled)
			apps[id] = base
		}
		out.Apps = apps
	}
	if over.Logging != nil {
		l := RawLogging{}
		if r.Logging != nil {
			l = *r.Logging
		}
		setIf(&l.Level, over.Logging.Level)
		out.Logging = &l
	}
	setIf(&out.MetricsAddr, over.MetricsAddr)
	return out
}

func setIf[T any](dst **T, src *T) {
	if src != nil {
		v := *src
		*dst = &v
	}
}

// BuildEffectiveConfig applies raw on top of DefaultConfig.
func BuildEffectiveConfig(raw RawConfig) *Config {
	cfg := DefaultConfig()

	if v := raw.Viewport; v != nil {
		assign(&cfg.Viewport.Width, v.Width)
		assign(&cfg.Viewport.Height, v.Height)
		assign(&cfg.Viewport.Auto, v.Auto)
	}
	assign(&cfg.TaskbarHeight, raw.TaskbarHeight)
	assign(&cfg.DragSliver, raw.DragSliver)
	if w := raw.DefaultWindow; w != nil {
		assign(&cfg.DefaultWindow.Width, w.Width)
		assign(&cfg.DefaultWindow.Height, w.Height)
	}
	for id, o := range raw.Apps {
		var out AppOverride
		assign(&out.Title, o.Title)
		assign(&out.Icon, o.Icon)
		assign(&out.Width, o.Width)
		assign(&out.Height, o.Height)
		assign(&out.Disabled, o.Disabled)
		cfg.Apps[id] = out
	}
	if l := raw.Logging; l != nil {
		assign(&cfg.Logging.Level, l.Level)
	}
	assign(&cfg.MetricsAddr, raw.MetricsAddr)
	return cfg
}

func assign[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
