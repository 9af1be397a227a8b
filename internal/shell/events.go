package shell

// EventKind identifies a committed lifecycle transition.
type EventKind string

const (
	EventOpened           EventKind = "opened"
	EventRestored         EventKind = "restored"
	EventFocused          EventKind = "focused"
	EventMinimized        EventKind = "minimized"
	EventClosed           EventKind = "closed"
	EventResolutionFailed EventKind = "resolution_failed"
	EventHookFailed       EventKind = "hook_failed"
	EventDragStarted      EventKind = "drag_started"
	EventDragEnded        EventKind = "drag_ended"
	EventInvariant        EventKind = "invariant_violation"
)

// Event describes one transition. Err is set for failure kinds.
type Event struct {
	Kind     EventKind
	App      AppID
	Lifetime string
	Err      error
}

// Observer receives events. Observers run on the shell's event goroutine and
// must not call back into the shell.
type Observer interface {
	Observe(ev Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ev Event)

// Observe calls f(ev).
func (f ObserverFunc) Observe(ev Event) {
	f(ev)
}
