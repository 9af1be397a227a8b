package shell

import (
	"fmt"
	"log/slog"

	"github.com/1broseidon/deskshell/internal/platform"
)

// Coordinator runs the open/close/minimize/focus operations. Each operation
// commits its registry, taskbar and z-order changes before any application
// hook can observe them, and no failure path is returned to the caller.
type Coordinator struct {
	ctx         *Context
	descriptors map[AppID]Descriptor
	resolver    Resolver
	hooks       *HookTable
	logger      *slog.Logger
	observers   []Observer
	dispatch    func(fn func())
}

// Open shows the window for id. An already open id is focused and shown
// again; otherwise a window and taskbar entry are created, focused, and the
// first-open hook runs. It reports whether a window is open for id afterwards.
func (c *Coordinator) Open(id AppID) bool {
	if rec := c.lookup(id); rec != nil {
		c.focus(rec)
		return true
	} else if c.ctx.registry.Has(id) {
		return false
	}

	desc, ok := c.resolve(id)
	if !ok {
		err := fmt.Errorf("open %q: %w", id, ErrResolution)
		c.logger.Error("cannot open application", "app", string(id), "error", err)
		c.emit(Event{Kind: EventResolutionFailed, App: id, Err: err})
		return false
	}

	rec := &record{
		id: id,
		window: &Window{
			App:        id,
			Title:      desc.Title,
			Bounds:     c.place(desc),
			Visibility: Shown,
		},
	}
	rec.lifetime = newLifetime(id, c.logger, c.reportAsync)
	rec.entry = c.ctx.taskbar.add(id, desc)
	c.ctx.registry.insert(rec)
	c.focus(rec)

	c.logger.Info("application opened", "app", string(id), "lifetime", rec.lifetime.ID())
	c.emit(Event{Kind: EventOpened, App: id, Lifetime: rec.lifetime.ID()})

	c.runFirstOpen(rec)
	return true
}

// Close tears down and removes the application. The teardown hook runs before
// the record is removed; its failure never blocks removal. If the closed
// window had focus, focus moves to the topmost remaining visible window.
func (c *Coordinator) Close(id AppID) bool {
	rec := c.ctx.registry.get(id)
	if rec == nil {
		return false
	}

	c.cancelDrag(id)
	c.runTeardown(rec)
	if c.ctx.registry.get(id) != rec {
		// The teardown hook closed the window itself.
		return true
	}

	wasFocused := c.ctx.focused == id
	if rec.window != nil {
		rec.window.Visibility = Hidden
		rec.window.Focused = false
	}
	if !c.ctx.taskbar.remove(id) {
		c.invariant(id, "taskbar entry missing on close")
	}
	c.ctx.registry.remove(id)
	if rec.lifetime != nil {
		rec.lifetime.end()
	}

	c.logger.Info("application closed", "app", string(id))
	c.emit(Event{Kind: EventClosed, App: id, Lifetime: lifetimeID(rec)})

	if wasFocused {
		c.ctx.focused = ""
		c.refocus()
	}
	return true
}

// Minimize hides the window but keeps its taskbar entry. It is a no-op for
// closed or already hidden windows.
func (c *Coordinator) Minimize(id AppID) bool {
	rec := c.lookup(id)
	if rec == nil || !rec.window.Visible() {
		return false
	}

	c.cancelDrag(id)
	rec.window.Visibility = Hidden
	rec.window.Focused = false
	c.ctx.taskbar.setActive(rec.entry, false)

	c.logger.Debug("application minimized", "app", string(id))
	c.emit(Event{Kind: EventMinimized, App: id, Lifetime: rec.lifetime.ID()})

	if c.ctx.focused == id {
		c.ctx.focused = ""
		c.refocus()
	}
	return true
}

// Focus brings the window to the front, showing it if hidden. It reports
// whether focus changed.
func (c *Coordinator) Focus(id AppID) bool {
	rec := c.lookup(id)
	if rec == nil {
		return false
	}
	return c.focus(rec)
}

// TaskbarClick toggles the application: the focused visible window is
// minimized, anything else is focused and shown.
func (c *Coordinator) TaskbarClick(id AppID) bool {
	rec := c.lookup(id)
	if rec == nil {
		return false
	}
	if c.ctx.focused == id && rec.window.Visible() {
		return c.Minimize(id)
	}
	c.focus(rec)
	return true
}

func (c *Coordinator) focus(rec *record) bool {
	if c.ctx.focused == rec.id {
		return false
	}

	if prev := c.ctx.registry.get(c.ctx.focused); prev != nil {
		if prev.window != nil {
			prev.window.Focused = false
		}
		c.ctx.taskbar.setActive(prev.entry, false)
	}

	wasHidden := !rec.window.Visible()
	rec.window.Z = c.ctx.zorder.Next()
	rec.window.Visibility = Shown
	rec.window.Focused = true
	c.ctx.taskbar.setActive(rec.entry, true)
	c.ctx.focused = rec.id

	c.emit(Event{Kind: EventFocused, App: rec.id, Lifetime: lifetimeID(rec)})
	if wasHidden {
		c.emit(Event{Kind: EventRestored, App: rec.id, Lifetime: lifetimeID(rec)})
	}
	return true
}

// refocus gives focus to the visible window with the highest z-index, if any.
func (c *Coordinator) refocus() {
	if next := topmost(c.ctx.registry, visibleOnly); next != nil {
		c.focus(next)
	}
}

// lookup returns the record for id, or nil when id is not open. A record
// without a window or taskbar entry is reported and treated as absent.
func (c *Coordinator) lookup(id AppID) *record {
	rec := c.ctx.registry.get(id)
	if rec == nil {
		return nil
	}
	if rec.window == nil || rec.entry == nil || rec.lifetime == nil {
		c.invariant(id, "open record without window handle")
		return nil
	}
	return rec
}

func (c *Coordinator) resolve(id AppID) (Descriptor, bool) {
	desc, ok := c.descriptors[id]
	if !ok && c.resolver != nil {
		desc, ok = c.resolver.Resolve(id)
	}
	if !ok {
		return Descriptor{}, false
	}
	if desc.Title == "" {
		desc.Title = string(id)
	}
	return desc, true
}

// place sizes the window from its descriptor and picks a random origin in
// the upper-left part of the viewport.
func (c *Coordinator) place(desc Descriptor) platform.Rect {
	w, h := desc.Width, desc.Height
	if w <= 0 {
		w = c.ctx.defaultSize.Width
	}
	if h <= 0 {
		h = c.ctx.defaultSize.Height
	}
	vp := c.ctx.viewport
	return platform.Rect{
		X:      int(c.ctx.random()*float64(vp.Width)/3) + c.ctx.margin,
		Y:      int(c.ctx.random()*float64(vp.Height)/4) + c.ctx.margin,
		Width:  w,
		Height: h,
	}
}

func (c *Coordinator) runFirstOpen(rec *record) {
	fn := c.hooks.Lookup(rec.id).OnFirstOpen
	if fn == nil {
		return
	}
	if err := callHook(func() error { return fn(rec.lifetime, *rec.window) }); err != nil {
		c.hookFailed(rec, "first-open", err)
	}
}

// runTeardown invokes the teardown hook at most once per lifetime.
func (c *Coordinator) runTeardown(rec *record) {
	if rec.tornDown {
		return
	}
	rec.tornDown = true
	fn := c.hooks.Lookup(rec.id).OnClose
	if fn == nil || rec.lifetime == nil {
		return
	}
	if err := callHook(func() error { return fn(rec.lifetime) }); err != nil {
		c.hookFailed(rec, "teardown", err)
	}
}

func (c *Coordinator) hookFailed(rec *record, phase string, err error) {
	err = fmt.Errorf("%s hook for %q: %w: %w", phase, rec.id, ErrHookFailure, err)
	c.logger.Error("application hook failed", "app", string(rec.id), "phase", phase, "error", err)
	if phase != "teardown" && rec.window != nil {
		rec.window.Degraded = true
	}
	c.emit(Event{Kind: EventHookFailed, App: rec.id, Lifetime: lifetimeID(rec), Err: err})
}

// reportAsync is handed to every lifetime. It runs on a worker goroutine and
// hands the failure back to the event goroutine.
func (c *Coordinator) reportAsync(lt *Lifetime, err error) {
	if c.dispatch == nil {
		lt.Logger().Error("application hook failed", "phase", "async", "error", err)
		return
	}
	c.dispatch(func() {
		rec := c.ctx.registry.get(lt.App())
		if rec == nil || rec.lifetime != lt {
			// The lifetime already ended.
			return
		}
		c.hookFailed(rec, "async", err)
	})
}

func (c *Coordinator) cancelDrag(id AppID) {
	if c.ctx.drag != nil && c.ctx.drag.App == id {
		c.ctx.drag = nil
		c.emit(Event{Kind: EventDragEnded, App: id})
	}
}

func (c *Coordinator) invariant(id AppID, msg string) {
	err := fmt.Errorf("%s: %w", msg, ErrInvariant)
	c.logger.Warn("shell invariant violated", "app", string(id), "error", err)
	c.emit(Event{Kind: EventInvariant, App: id, Err: err})
}

func (c *Coordinator) emit(ev Event) {
	for _, o := range c.observers {
		o.Observe(ev)
	}
}

func callHook(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}

func lifetimeID(rec *record) string {
	if rec.lifetime == nil {
		return ""
	}
	return rec.lifetime.ID()
}
