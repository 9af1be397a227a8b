package shell

import (
	"fmt"

	"github.com/1broseidon/deskshell/internal/platform"
)

// AppID names one window/application slot. At most one instance per AppID is
// open at a time.
type AppID string

// Visibility is the display state of a window.
type Visibility int

const (
	// Hidden windows are closed or minimized.
	Hidden Visibility = iota
	// Shown windows are on screen.
	Shown
)

// String returns the string representation of the visibility.
func (v Visibility) String() string {
	switch v {
	case Hidden:
		return "hidden"
	case Shown:
		return "shown"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (v Visibility) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Visibility) UnmarshalText(text []byte) error {
	switch string(text) {
	case "hidden":
		*v = Hidden
	case "shown":
		*v = Shown
	default:
		return fmt.Errorf("invalid visibility %q", text)
	}
	return nil
}

// Point is a pointer or window origin position in viewport coordinates.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Window is the on-screen representation of one open application.
type Window struct {
	App        AppID         `json:"app_id"`
	Title      string        `json:"title"`
	Bounds     platform.Rect `json:"bounds"`
	Z          int           `json:"z"`
	Visibility Visibility    `json:"visibility"`
	Focused    bool          `json:"focused"`
	// Degraded is set when a first-open hook of the current lifetime failed.
	Degraded bool `json:"degraded,omitempty"`
}

// Visible reports whether the window is shown.
func (w Window) Visible() bool {
	return w.Visibility == Shown
}

// Origin returns the window's top-left corner.
func (w Window) Origin() Point {
	return Point{X: w.Bounds.X, Y: w.Bounds.Y}
}

// TaskbarEntry is the taskbar button of one open application. It lives exactly
// as long as the window's open lifetime.
type TaskbarEntry struct {
	App    AppID  `json:"app_id"`
	Title  string `json:"title"`
	Icon   string `json:"icon,omitempty"`
	Active bool   `json:"active"`
}

// Descriptor supplies the static presentation of an application.
type Descriptor struct {
	Title  string `json:"title"`
	Icon   string `json:"icon,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// Resolver looks up descriptors for applications that have no static entry.
type Resolver interface {
	Resolve(id AppID) (Descriptor, bool)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(id AppID) (Descriptor, bool)

// Resolve calls f(id).
func (f ResolverFunc) Resolve(id AppID) (Descriptor, bool) {
	return f(id)
}

// State is a copy of the shell state, safe to hand to other goroutines.
type State struct {
	Viewport      platform.Size  `json:"viewport"`
	Windows       []Window       `json:"windows"` // paint order, lowest z first
	Taskbar       []TaskbarEntry `json:"taskbar"` // open order
	Focused       AppID          `json:"focused,omitempty"`
	Drag          *DragSession   `json:"drag,omitempty"`
	StartMenuOpen bool           `json:"start_menu_open"`
}

// Window returns the window for id from the snapshot.
func (s State) Window(id AppID) (Window, bool) {
	for _, w := range s.Windows {
		if w.App == id {
			return w, true
		}
	}
	return Window{}, false
}
