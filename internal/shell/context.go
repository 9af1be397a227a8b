package shell

import (
	"log/slog"
	"math/rand/v2"
	"sort"

	"github.com/1broseidon/deskshell/internal/platform"
)

const (
	// DefaultTaskbarHeight is the reserved strip at the bottom of the viewport.
	DefaultTaskbarHeight = 36
	// DefaultDragSliver is how much of a dragged window stays reachable at the
	// left and right viewport edges.
	DefaultDragSliver = 40
	// DefaultWindowWidth and DefaultWindowHeight size windows whose descriptor
	// does not set a size.
	DefaultWindowWidth  = 480
	DefaultWindowHeight = 360
	// DefaultPlacementMargin offsets randomized window origins from the
	// viewport edge.
	DefaultPlacementMargin = 20
)

// Context is the shell state shared by the Coordinator, the DragController and
// the z-order logic. Nothing outside this package mutates it.
type Context struct {
	registry *Registry
	taskbar  *Taskbar
	zorder   *ZOrder
	focused  AppID
	drag     *DragSession

	startMenuOpen bool
	startMenuZ    int

	viewport      platform.Size
	taskbarHeight int
	dragSliver    int
	defaultSize   platform.Size
	margin        int
	random        func() float64
}

// Options configures a Shell.
type Options struct {
	Viewport      platform.Size
	TaskbarHeight int
	DragSliver    int
	DefaultSize   platform.Size
	// PlacementMargin is the minimum offset of a new window from the top-left
	// corner of the viewport.
	PlacementMargin int

	// Descriptors is the static descriptor table, consulted first on Open.
	Descriptors map[AppID]Descriptor
	// Resolver supplies fallback descriptors for ids missing from Descriptors.
	Resolver Resolver
	Hooks    *HookTable

	Logger    *slog.Logger
	Observers []Observer

	// Random returns values in [0, 1) for window placement. Defaults to
	// math/rand/v2.
	Random func() float64

	// Dispatch schedules fn on the shell's event goroutine. It is used to
	// report failures of asynchronous hook work. When nil those failures are
	// only logged.
	Dispatch func(fn func())
}

// Shell bundles one Context with the controllers that mutate it.
type Shell struct {
	ctx       *Context
	Lifecycle *Coordinator
	Drag      *DragController
}

// New creates a shell with an empty registry.
func New(opts Options) *Shell {
	if opts.TaskbarHeight <= 0 {
		opts.TaskbarHeight = DefaultTaskbarHeight
	}
	if opts.DragSliver <= 0 {
		opts.DragSliver = DefaultDragSliver
	}
	if opts.DefaultSize.Width <= 0 {
		opts.DefaultSize.Width = DefaultWindowWidth
	}
	if opts.DefaultSize.Height <= 0 {
		opts.DefaultSize.Height = DefaultWindowHeight
	}
	if opts.PlacementMargin <= 0 {
		opts.PlacementMargin = DefaultPlacementMargin
	}
	if opts.Random == nil {
		opts.Random = rand.Float64
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	ctx := &Context{
		registry:      newRegistry(),
		taskbar:       newTaskbar(),
		zorder:        NewZOrder(BaseZ),
		viewport:      opts.Viewport,
		taskbarHeight: opts.TaskbarHeight,
		dragSliver:    opts.DragSliver,
		defaultSize:   opts.DefaultSize,
		margin:        opts.PlacementMargin,
		random:        opts.Random,
	}

	descriptors := make(map[AppID]Descriptor, len(opts.Descriptors))
	for id, d := range opts.Descriptors {
		descriptors[id] = d
	}

	coord := &Coordinator{
		ctx:         ctx,
		descriptors: descriptors,
		resolver:    opts.Resolver,
		hooks:       opts.Hooks,
		logger:      opts.Logger,
		observers:   opts.Observers,
		dispatch:    opts.Dispatch,
	}
	return &Shell{
		ctx:       ctx,
		Lifecycle: coord,
		Drag:      &DragController{ctx: ctx, lifecycle: coord},
	}
}

// AddObserver registers an observer for subsequent events.
func (s *Shell) AddObserver(o Observer) {
	s.Lifecycle.observers = append(s.Lifecycle.observers, o)
}

// SetDispatch replaces the dispatcher used for asynchronous hook failures.
func (s *Shell) SetDispatch(fn func(fn func())) {
	s.Lifecycle.dispatch = fn
}

// Registry exposes the window registry for read-only queries.
func (s *Shell) Registry() *Registry {
	return s.ctx.registry
}

// Taskbar exposes the taskbar for read-only queries.
func (s *Shell) Taskbar() *Taskbar {
	return s.ctx.taskbar
}

// ZOrder exposes the stacking counter.
func (s *Shell) ZOrder() *ZOrder {
	return s.ctx.zorder
}

// Focused returns the focused application, or "" when nothing has focus.
func (s *Shell) Focused() AppID {
	return s.ctx.focused
}

// Viewport returns the viewport size.
func (s *Shell) Viewport() platform.Size {
	return s.ctx.viewport
}

// TaskbarHeight returns the height reserved for the taskbar.
func (s *Shell) TaskbarHeight() int {
	return s.ctx.taskbarHeight
}

// Resize changes the viewport. Windows keep their positions until dragged.
func (s *Shell) Resize(size platform.Size) {
	s.ctx.viewport = size
}

// ToggleStartMenu opens or closes the start menu. Opening raises it above every
// window using the shared stacking counter.
func (s *Shell) ToggleStartMenu() bool {
	s.ctx.startMenuOpen = !s.ctx.startMenuOpen
	if s.ctx.startMenuOpen {
		s.ctx.startMenuZ = s.ctx.zorder.Next()
	}
	return s.ctx.startMenuOpen
}

// CloseStartMenu closes the start menu if it is open.
func (s *Shell) CloseStartMenu() {
	s.ctx.startMenuOpen = false
}

// Snapshot copies the current state.
func (s *Shell) Snapshot() State {
	st := State{
		Viewport:      s.ctx.viewport,
		Taskbar:       s.ctx.taskbar.Entries(),
		Focused:       s.ctx.focused,
		StartMenuOpen: s.ctx.startMenuOpen,
	}
	s.ctx.registry.each(func(rec *record) {
		if rec.window != nil {
			st.Windows = append(st.Windows, *rec.window)
		}
	})
	sort.Slice(st.Windows, func(i, j int) bool { return st.Windows[i].Z < st.Windows[j].Z })
	if s.ctx.drag != nil {
		d := *s.ctx.drag
		st.Drag = &d
	}
	return st
}
