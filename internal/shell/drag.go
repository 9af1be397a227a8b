package shell

import "github.com/1broseidon/deskshell/internal/platform"

// Region is the part of a window a pointer-down landed on.
type Region int

const (
	// RegionBody is the window content.
	RegionBody Region = iota
	// RegionTitleBar is the draggable titlebar.
	RegionTitleBar
	// RegionControl is a close or minimize button embedded in the titlebar.
	RegionControl
)

// String returns the string representation of the region.
func (r Region) String() string {
	switch r {
	case RegionBody:
		return "body"
	case RegionTitleBar:
		return "titlebar"
	case RegionControl:
		return "control"
	default:
		return "unknown"
	}
}

// DragSession exists between a titlebar pointer-down and the matching
// pointer-up. It is never stored in the registry.
type DragSession struct {
	App     AppID `json:"app_id"`
	OffsetX int   `json:"offset_x"`
	OffsetY int   `json:"offset_y"`
}

// DragController moves windows with the pointer.
type DragController struct {
	ctx       *Context
	lifecycle *Coordinator
}

// Dragging reports whether a drag session is active.
func (d *DragController) Dragging() bool {
	return d.ctx.drag != nil
}

// Session returns the active drag session.
func (d *DragController) Session() (DragSession, bool) {
	if d.ctx.drag == nil {
		return DragSession{}, false
	}
	return *d.ctx.drag, true
}

// PointerDown focuses the window under the pointer. On the titlebar it also
// starts a drag, capturing the pointer offset from the window origin. It
// reports whether a drag started.
func (d *DragController) PointerDown(id AppID, p Point, region Region) bool {
	rec := d.lifecycle.lookup(id)
	if rec == nil || !rec.window.Visible() {
		return false
	}
	d.lifecycle.focus(rec)
	if region != RegionTitleBar {
		return false
	}
	if d.ctx.drag != nil {
		d.PointerCancel()
	}
	d.ctx.drag = &DragSession{
		App:     id,
		OffsetX: p.X - rec.window.Bounds.X,
		OffsetY: p.Y - rec.window.Bounds.Y,
	}
	d.lifecycle.emit(Event{Kind: EventDragStarted, App: id, Lifetime: rec.lifetime.ID()})
	return true
}

// PointerMove repositions the dragged window under the pointer, clamped to the
// viewport. It reports whether a window moved.
func (d *DragController) PointerMove(p Point) bool {
	s := d.ctx.drag
	if s == nil {
		return false
	}
	rec := d.lifecycle.lookup(s.App)
	if rec == nil {
		d.ctx.drag = nil
		return false
	}
	desired := Point{X: p.X - s.OffsetX, Y: p.Y - s.OffsetY}
	size := platform.Size{Width: rec.window.Bounds.Width, Height: rec.window.Bounds.Height}
	pos := ClampPosition(desired, size, d.ctx.viewport, d.ctx.taskbarHeight, d.ctx.dragSliver)
	if pos.X == rec.window.Bounds.X && pos.Y == rec.window.Bounds.Y {
		return false
	}
	rec.window.Bounds.X = pos.X
	rec.window.Bounds.Y = pos.Y
	return true
}

// PointerUp ends the drag wherever the pointer is released.
func (d *DragController) PointerUp() bool {
	return d.end()
}

// PointerCancel ends the drag without a final move.
func (d *DragController) PointerCancel() bool {
	return d.end()
}

func (d *DragController) end() bool {
	s := d.ctx.drag
	if s == nil {
		return false
	}
	d.ctx.drag = nil
	d.lifecycle.emit(Event{Kind: EventDragEnded, App: s.App})
	return true
}

// MoveTo drags the window by its titlebar origin to the given top-left
// position, applying the same clamping as a pointer drag.
func (d *DragController) MoveTo(id AppID, target Point) bool {
	rec := d.lifecycle.lookup(id)
	if rec == nil {
		return false
	}
	if !d.PointerDown(id, rec.window.Origin(), RegionTitleBar) {
		return false
	}
	d.PointerMove(target)
	d.PointerUp()
	return true
}

// ClampPosition bounds a desired window origin. Vertically the window stays
// between the top edge and the taskbar; horizontally at least sliver units of
// it remain reachable at both edges.
func ClampPosition(desired Point, win, viewport platform.Size, taskbarHeight, sliver int) Point {
	minX := -(win.Width - sliver)
	maxX := viewport.Width - sliver
	maxY := viewport.Height - win.Height - taskbarHeight

	x := max(minX, min(desired.X, maxX))
	y := max(0, min(desired.Y, maxY))
	return Point{X: x, Y: y}
}
