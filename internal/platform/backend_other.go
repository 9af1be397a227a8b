//go:build !linux

package platform

// NoopBackend is used where no X server integration is built.
type NoopBackend struct{}

// NewDisplayBackend always fails on this platform.
func NewDisplayBackend() (*NoopBackend, error) {
	return nil, ErrNoDisplay
}

// Disconnect does nothing.
func (*NoopBackend) Disconnect() {}

// Displays returns ErrNoDisplay.
func (*NoopBackend) Displays() ([]Display, error) { return nil, ErrNoDisplay }

// ActiveDisplay returns ErrNoDisplay.
func (*NoopBackend) ActiveDisplay() (Display, error) { return Display{}, ErrNoDisplay }
