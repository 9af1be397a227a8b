package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/deskshell/internal/platform"
)

func TestClampPosition(t *testing.T) {
	win := platform.Size{Width: 300, Height: 200}
	viewport := platform.Size{Width: 800, Height: 600}

	tests := []struct {
		name    string
		desired Point
		want    Point
	}{
		{"inside", Point{100, 100}, Point{100, 100}},
		{"far top-left", Point{-500, -500}, Point{-260, 0}},
		{"far bottom-right", Point{5000, 5000}, Point{760, 364}},
		{"left sliver edge", Point{-260, 50}, Point{-260, 50}},
		{"right sliver edge", Point{760, 50}, Point{760, 50}},
		{"above taskbar", Point{0, 365}, Point{0, 364}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClampPosition(tt.desired, win, viewport, 36, 40)
			if got != tt.want {
				t.Errorf("ClampPosition(%v) = %v, want %v", tt.desired, got, tt.want)
			}
		})
	}
}

func TestClampPositionTallWindowPinsToTop(t *testing.T) {
	got := ClampPosition(Point{10, 300}, platform.Size{Width: 100, Height: 900}, platform.Size{Width: 800, Height: 600}, 36, 40)
	assert.Equal(t, Point{10, 0}, got)
}

func TestDragMovesWindowWithOffset(t *testing.T) {
	sh, events := newTestShell(t, nil)
	sh.Lifecycle.Open("notepad")
	origin := window(t, sh, "notepad").Origin()

	grab := Point{X: origin.X + 50, Y: origin.Y + 10}
	require.True(t, sh.Drag.PointerDown("notepad", grab, RegionTitleBar))
	assert.True(t, sh.Drag.Dragging())
	s, ok := sh.Drag.Session()
	require.True(t, ok)
	assert.Equal(t, DragSession{App: "notepad", OffsetX: 50, OffsetY: 10}, s)

	assert.True(t, sh.Drag.PointerMove(Point{X: 250, Y: 210}))
	assert.Equal(t, Point{X: 200, Y: 200}, window(t, sh, "notepad").Origin())

	assert.True(t, sh.Drag.PointerUp())
	assert.False(t, sh.Drag.Dragging())
	assert.False(t, sh.Drag.PointerMove(Point{X: 400, Y: 400}))
	assert.Equal(t, Point{X: 200, Y: 200}, window(t, sh, "notepad").Origin())

	last := (*events)[len(*events)-1]
	assert.Equal(t, EventDragEnded, last.Kind)
}

func TestDragClampsToViewport(t *testing.T) {
	sh, _ := newTestShell(t, nil)
	sh.Lifecycle.Open("notepad")
	origin := window(t, sh, "notepad").Origin()

	sh.Drag.PointerDown("notepad", Point{X: origin.X + 5, Y: origin.Y + 5}, RegionTitleBar)
	sh.Drag.PointerMove(Point{X: -500, Y: -500})

	pos := window(t, sh, "notepad").Origin()
	assert.GreaterOrEqual(t, pos.X, -(300 - 40))
	assert.GreaterOrEqual(t, pos.Y, 0)
	assert.Equal(t, Point{X: -260, Y: 0}, pos)
}

func TestPointerDownFocusesFirst(t *testing.T) {
	sh, _ := newTestShell(t, nil)
	sh.Lifecycle.Open("notepad")
	sh.Lifecycle.Open("paint")

	w := window(t, sh, "notepad")
	require.True(t, sh.Drag.PointerDown("notepad", w.Origin(), RegionTitleBar))
	assert.Equal(t, AppID("notepad"), sh.Focused())
	assertFocusOnTop(t, sh)
}

func TestPointerDownOutsideTitleBarOnlyFocuses(t *testing.T) {
	for _, region := range []Region{RegionBody, RegionControl} {
		t.Run(region.String(), func(t *testing.T) {
			sh, _ := newTestShell(t, nil)
			sh.Lifecycle.Open("notepad")
			sh.Lifecycle.Open("paint")

			assert.False(t, sh.Drag.PointerDown("notepad", Point{X: 200, Y: 200}, region))
			assert.False(t, sh.Drag.Dragging())
			assert.Equal(t, AppID("notepad"), sh.Focused())
		})
	}
}

func TestPointerDownIgnoresHiddenAndClosed(t *testing.T) {
	sh, _ := newTestShell(t, nil)
	sh.Lifecycle.Open("notepad")
	sh.Lifecycle.Minimize("notepad")

	assert.False(t, sh.Drag.PointerDown("notepad", Point{}, RegionTitleBar))
	assert.False(t, sh.Drag.PointerDown("paint", Point{}, RegionTitleBar))
	assert.False(t, sh.Drag.Dragging())
	assert.Equal(t, AppID(""), sh.Focused())
}

func TestCloseAndMinimizeCancelDrag(t *testing.T) {
	tests := []struct {
		name string
		op   func(sh *Shell)
	}{
		{"close", func(sh *Shell) { sh.Lifecycle.Close("notepad") }},
		{"minimize", func(sh *Shell) { sh.Lifecycle.Minimize("notepad") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sh, _ := newTestShell(t, nil)
			sh.Lifecycle.Open("notepad")
			w := window(t, sh, "notepad")
			require.True(t, sh.Drag.PointerDown("notepad", w.Origin(), RegionTitleBar))

			tt.op(sh)

			assert.False(t, sh.Drag.Dragging())
			assert.False(t, sh.Drag.PointerMove(Point{X: 10, Y: 10}))
		})
	}
}

func TestPointerCancelEndsDrag(t *testing.T) {
	sh, _ := newTestShell(t, nil)
	sh.Lifecycle.Open("notepad")
	w := window(t, sh, "notepad")

	sh.Drag.PointerDown("notepad", w.Origin(), RegionTitleBar)
	assert.True(t, sh.Drag.PointerCancel())
	assert.False(t, sh.Drag.PointerCancel())
	assert.False(t, sh.Drag.PointerUp())
}

func TestMoveTo(t *testing.T) {
	sh, _ := newTestShell(t, nil)
	sh.Lifecycle.Open("notepad")
	sh.Lifecycle.Open("paint")

	require.True(t, sh.Drag.MoveTo("notepad", Point{X: 10, Y: 900}))

	assert.Equal(t, Point{X: 10, Y: 364}, window(t, sh, "notepad").Origin())
	assert.Equal(t, AppID("notepad"), sh.Focused())
	assert.False(t, sh.Drag.Dragging())
	assert.False(t, sh.Drag.MoveTo("doom", Point{}))
}
