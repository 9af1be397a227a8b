package platform

import "errors"

// ErrNoDisplay is returned when no display backend is reachable.
var ErrNoDisplay = errors.New("no display available")

// Rect describes a rectangular region in viewport coordinates.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Contains reports whether the point lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Size is a width and height pair.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Display describes a physical display and its usable work area.
type Display struct {
	ID     int
	Name   string
	Bounds Rect
	Usable Rect
}

// Backend reports the displays a desktop can be sized to.
type Backend interface {
	Displays() ([]Display, error)
	ActiveDisplay() (Display, error)
}

// Viewport returns the usable size of the active display of b.
func Viewport(b Backend) (Size, error) {
	d, err := b.ActiveDisplay()
	if err != nil {
		return Size{}, err
	}
	r := d.Usable
	if r.Width <= 0 || r.Height <= 0 {
		r = d.Bounds
	}
	return Size{Width: r.Width, Height: r.Height}, nil
}

// StaticBackend is a Backend with a fixed display list.
type StaticBackend []Display

// Displays returns the configured displays.
func (s StaticBackend) Displays() ([]Display, error) {
	return s, nil
}

// ActiveDisplay returns the first display.
func (s StaticBackend) ActiveDisplay() (Display, error) {
	if len(s) == 0 {
		return Display{}, ErrNoDisplay
	}
	return s[0], nil
}
