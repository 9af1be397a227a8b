// Package tui renders a desktop shell in the terminal: windows in stacking
// order, a taskbar and a start menu, driven by the mouse.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/deskshell/internal/apps"
	"github.com/1broseidon/deskshell/internal/config"
	"github.com/1broseidon/deskshell/internal/platform"
	"github.com/1broseidon/deskshell/internal/shell"
)

// Options configures a Desktop.
type Options struct {
	Config *config.Config
	Apps   apps.Options
	Logger *slog.Logger
	// Random places new windows. Nil uses math/rand/v2.
	Random func() float64
}

// Desktop is an interactive shell bound to the terminal. The viewport is the
// terminal size in cells; descriptor sizes are scaled from pixels.
type Desktop struct {
	sh      *shell.Shell
	catalog *apps.Catalog
	items   []menuItem
	logger  *slog.Logger
}

// New builds a desktop for a terminal of the given size.
func New(opts Options, size platform.Size) *Desktop {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	catalog := apps.FromConfig(cfg, opts.Apps)
	fallback := platform.Size{Width: cfg.DefaultWindow.Width, Height: cfg.DefaultWindow.Height}

	shellOpts := apps.ShellOptions(cfg, catalog, size, logger.With("component", "shell"))
	shellOpts.TaskbarHeight = taskbarRows
	shellOpts.PlacementMargin = 1
	shellOpts.Random = opts.Random
	shellOpts.DragSliver = max(1, cfg.DragSliver/cellWidth)
	shellOpts.DefaultSize = platform.Size{
		Width:  max(minWindowCols, fallback.Width/cellWidth),
		Height: max(minWindowRows, fallback.Height/cellHeight),
	}
	shellOpts.Descriptors = make(map[shell.AppID]shell.Descriptor, len(catalog.IDs()))
	var items []menuItem
	for id, d := range catalog.Descriptors() {
		shellOpts.Descriptors[id] = toCells(d, fallback)
	}
	for _, id := range catalog.IDs() {
		items = append(items, menuItem{app: id, title: shellOpts.Descriptors[id].Title})
	}

	return &Desktop{
		sh:      shell.New(shellOpts),
		catalog: catalog,
		items:   items,
		logger:  logger,
	}
}

// Shell returns the desktop's shell.
func (d *Desktop) Shell() *shell.Shell { return d.sh }

func (d *Desktop) model() model {
	return model{
		sh:     d.sh,
		items:  d.items,
		status: d.catalog.Status,
		resize: d.catalog.Resizes().Notify,
	}
}

// Run shows the desktop until the user quits or ctx is cancelled. Every open
// application is closed before it returns.
func (d *Desktop) Run(ctx context.Context) error {
	program := tea.NewProgram(d.model(),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	d.sh.SetDispatch(func(fn func()) { program.Send(dispatchMsg(fn)) })

	_, err := program.Run()
	d.closeAll()
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("desktop failed: %w", err)
	}
	return nil
}

func (d *Desktop) closeAll() {
	for _, id := range d.sh.Registry().IDs() {
		d.sh.Lifecycle.Close(id)
	}
	d.logger.Debug("desktop closed", "running", len(d.catalog.Running()))
}

// Run starts an interactive desktop on the current terminal.
func Run(ctx context.Context, opts Options) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("desktop requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		w, h = 80, 24
	}
	return New(opts, platform.Size{Width: w, Height: h}).Run(ctx)
}
