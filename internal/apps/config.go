package apps

import (
	"log/slog"

	"github.com/1broseidon/deskshell/internal/config"
	"github.com/1broseidon/deskshell/internal/platform"
	"github.com/1broseidon/deskshell/internal/shell"
)

// FromConfig returns the built-in catalog with the overrides of cfg applied.
func FromConfig(cfg *config.Config, opts Options) *Catalog {
	c := Builtin(opts)
	for _, id := range cfg.AppIDs() {
		o := cfg.Apps[id]
		if o.Disabled {
			c.Disable(shell.AppID(id))
			continue
		}
		c.Override(shell.AppID(id), shell.Descriptor{
			Title:  o.Title,
			Icon:   o.Icon,
			Width:  o.Width,
			Height: o.Height,
		})
	}
	return c
}

// ShellOptions builds shell options for a desktop of the given viewport,
// backed by c.
func ShellOptions(cfg *config.Config, c *Catalog, viewport platform.Size, logger *slog.Logger) shell.Options {
	return shell.Options{
		Viewport:      viewport,
		TaskbarHeight: cfg.TaskbarHeight,
		DragSliver:    cfg.DragSliver,
		DefaultSize:   platform.Size{Width: cfg.DefaultWindow.Width, Height: cfg.DefaultWindow.Height},
		Descriptors:   c.Descriptors(),
		Resolver:      c.Resolver(),
		Hooks:         c.Hooks(),
		Logger:        logger,
	}
}
