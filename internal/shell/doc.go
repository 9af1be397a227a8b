/*
Package shell implements the window and application lifecycle manager of the
simulated desktop.

A Shell owns one Context: the window registry, the stacking counter, the focus
state and the transient drag session. Three controllers mutate it:

  - Coordinator: Open, Close, Minimize, Focus and TaskbarClick. It keeps the
    registry and the taskbar in lock-step and runs application hooks.
  - DragController: the titlebar pointer state machine (idle -> dragging -> idle).
  - ZOrder: the strictly increasing stacking counter.

A Shell is not safe for concurrent use. Every mutation is expected to run on a
single event goroutine; Loop provides one for callers that have none (the IPC
daemon, the MCP bridge). Application hooks run on that goroutine and push
long-running work to Lifetime.Go.

Lifecycle operations never return errors. Resolution failures, hook failures
and invariant violations are logged through slog and published to observers.

Example usage:

	sh := shell.New(shell.Options{
		Viewport:    platform.Size{Width: 1280, Height: 800},
		Descriptors: map[shell.AppID]shell.Descriptor{"notepad": {Title: "GemNotes"}},
	})
	sh.Lifecycle.Open("notepad")
	sh.Drag.PointerDown("notepad", shell.Point{X: 40, Y: 30}, shell.RegionTitleBar)
	sh.Drag.PointerMove(shell.Point{X: 300, Y: 200})
	sh.Drag.PointerUp()
	sh.Lifecycle.Close("notepad")
*/
package shell
