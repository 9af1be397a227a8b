package shell

import (
	"context"
	"errors"
	"sync/atomic"
)

// ErrLoopStopped is returned by Do once the loop has exited.
var ErrLoopStopped = errors.New("shell loop stopped")

const loopQueueSize = 64

// Loop owns a Shell and runs every operation on it from one goroutine, in the
// order they were submitted.
type Loop struct {
	shell *Shell
	ops   chan func()
	done  chan struct{}
}

// NewLoop creates a shell driven by a new loop. Asynchronous hook failures are
// routed back through the loop.
func NewLoop(opts Options) *Loop {
	l := &Loop{
		ops:  make(chan func(), loopQueueSize),
		done: make(chan struct{}),
	}
	opts.Dispatch = l.post
	l.shell = New(opts)
	return l
}

// Run processes operations until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.ops:
			fn()
		}
	}
}

const (
	opQueued int32 = iota
	opStarted
	opAbandoned
)

// Do runs fn on the loop goroutine and waits for it to return. When Do
// returns an error fn has not run and never will; once fn has started Do
// waits for it regardless of ctx.
func (l *Loop) Do(ctx context.Context, fn func(sh *Shell)) error {
	var state atomic.Int32
	finished := make(chan struct{})
	op := func() {
		defer close(finished)
		if !state.CompareAndSwap(opQueued, opStarted) {
			return
		}
		fn(l.shell)
	}
	select {
	case l.ops <- op:
	case <-l.done:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-finished:
		return nil
	case <-l.done:
		if state.CompareAndSwap(opQueued, opAbandoned) {
			return ErrLoopStopped
		}
	case <-ctx.Done():
		if state.CompareAndSwap(opQueued, opAbandoned) {
			return ctx.Err()
		}
	}
	<-finished
	return nil
}

// Snapshot returns the shell state as seen from the loop.
func (l *Loop) Snapshot(ctx context.Context) (State, error) {
	var st State
	err := l.Do(ctx, func(sh *Shell) { st = sh.Snapshot() })
	return st, err
}

// AddObserver registers an observer. It must be called before Run.
func (l *Loop) AddObserver(o Observer) {
	l.shell.AddObserver(o)
}

func (l *Loop) post(fn func()) {
	select {
	case l.ops <- fn:
	case <-l.done:
	}
}
