package tui

import (
	"github.com/1broseidon/deskshell/internal/platform"
	"github.com/1broseidon/deskshell/internal/shell"
)

const (
	// cellWidth and cellHeight convert descriptor pixel sizes to terminal cells.
	cellWidth  = 8
	cellHeight = 16

	minWindowCols = 18
	minWindowRows = 4

	taskbarRows    = 1
	startLabel     = " Start "
	controlsLabel  = "[_][x]"
	menuWidth      = 24
	taskbarPadding = 1
)

// hitKind classifies what a pointer position lands on.
type hitKind int

const (
	hitNone hitKind = iota
	hitWindow
	hitMinimize
	hitClose
	hitStartButton
	hitTaskbarEntry
	hitMenuItem
	hitMenu
	hitTaskbar
)

// hit is the result of hitTest.
type hit struct {
	kind   hitKind
	app    shell.AppID
	region shell.Region
}

// span is a horizontal run of cells [x0, x1).
type span struct {
	app    shell.AppID
	x0, x1 int
}

// menuItem is one start menu entry.
type menuItem struct {
	app   shell.AppID
	title string
}

// toCells scales a pixel descriptor size to a window size in cells.
func toCells(d shell.Descriptor, fallback platform.Size) shell.Descriptor {
	w, h := d.Width, d.Height
	if w <= 0 {
		w = fallback.Width
	}
	if h <= 0 {
		h = fallback.Height
	}
	d.Width = max(minWindowCols, w/cellWidth)
	d.Height = max(minWindowRows, h/cellHeight)
	return d
}

// taskbarRow is the screen row holding the taskbar.
func taskbarRow(viewport platform.Size) int {
	return viewport.Height - taskbarRows
}

// taskbarSpans lays out the taskbar buttons after the start button.
func taskbarSpans(entries []shell.TaskbarEntry, width int) []span {
	spans := make([]span, 0, len(entries))
	x := len(startLabel) + taskbarPadding
	for _, e := range entries {
		w := len([]rune(e.Title)) + 2
		if x+w > width {
			break
		}
		spans = append(spans, span{app: e.App, x0: x, x1: x + w})
		x += w + taskbarPadding
	}
	return spans
}

// menuRect returns the start menu box, anchored above the start button.
func menuRect(items []menuItem, viewport platform.Size) platform.Rect {
	h := len(items) + 2
	return platform.Rect{
		X:      0,
		Y:      max(0, taskbarRow(viewport)-h),
		Width:  min(menuWidth, viewport.Width),
		Height: h,
	}
}

// controlsStart is the first column of the titlebar controls of w.
func controlsStart(w shell.Window) int {
	return w.Bounds.X + w.Bounds.Width - len(controlsLabel)
}

// hitTest resolves the topmost thing under p. The start menu sits above every
// window and the taskbar below none of them.
func hitTest(st shell.State, items []menuItem, p shell.Point) hit {
	if st.StartMenuOpen {
		r := menuRect(items, st.Viewport)
		if r.Contains(p.X, p.Y) {
			i := p.Y - r.Y - 1
			if i >= 0 && i < len(items) {
				return hit{kind: hitMenuItem, app: items[i].app}
			}
			return hit{kind: hitMenu}
		}
	}

	if p.Y >= taskbarRow(st.Viewport) {
		if p.X < len(startLabel) {
			return hit{kind: hitStartButton}
		}
		for _, s := range taskbarSpans(st.Taskbar, st.Viewport.Width) {
			if p.X >= s.x0 && p.X < s.x1 {
				return hit{kind: hitTaskbarEntry, app: s.app}
			}
		}
		return hit{kind: hitTaskbar}
	}

	for i := len(st.Windows) - 1; i >= 0; i-- {
		w := st.Windows[i]
		if !w.Visible() || !w.Bounds.Contains(p.X, p.Y) {
			continue
		}
		if p.Y != w.Bounds.Y {
			return hit{kind: hitWindow, app: w.App, region: shell.RegionBody}
		}
		if c := controlsStart(w); p.X >= c {
			if p.X < c+3 {
				return hit{kind: hitMinimize, app: w.App, region: shell.RegionControl}
			}
			return hit{kind: hitClose, app: w.App, region: shell.RegionControl}
		}
		return hit{kind: hitWindow, app: w.App, region: shell.RegionTitleBar}
	}
	return hit{kind: hitNone}
}
