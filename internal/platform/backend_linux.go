//go:build linux

package platform

import (
	"fmt"
	"sort"

	"github.com/1broseidon/deskshell/internal/x11"
)

// LinuxBackend reads display geometry from the X server.
type LinuxBackend struct {
	conn *x11.Connection
}

var _ Backend = (*LinuxBackend)(nil)

// NewDisplayBackend opens a connection to the X server named by $DISPLAY.
func NewDisplayBackend() (*LinuxBackend, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn}, nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// Displays returns all active displays.
func (b *LinuxBackend) Displays() ([]Display, error) {
	if b == nil || b.conn == nil {
		return nil, ErrNoDisplay
	}
	monitors, err := b.conn.GetMonitors()
	if err != nil {
		return nil, err
	}
	displays := make([]Display, 0, len(monitors))
	for _, m := range monitors {
		displays = append(displays, displayFromMonitor(m))
	}
	sort.Slice(displays, func(i, j int) bool {
		return displays[i].ID < displays[j].ID
	})
	return displays, nil
}

// ActiveDisplay returns the display under the pointer.
func (b *LinuxBackend) ActiveDisplay() (Display, error) {
	if b == nil || b.conn == nil {
		return Display{}, ErrNoDisplay
	}
	active, err := b.conn.GetActiveMonitor()
	if err != nil {
		return Display{}, err
	}
	return displayFromMonitor(*active), nil
}

func displayFromMonitor(m x11.Monitor) Display {
	r := Rect{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height}
	return Display{ID: m.ID, Name: m.Name, Bounds: r, Usable: r}
}
