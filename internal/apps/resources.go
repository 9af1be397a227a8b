package apps

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-multierror"
)

// ResourceKind classifies what an application holds between first open and
// close.
type ResourceKind string

const (
	KindTimer    ResourceKind = "timer"
	KindObserver ResourceKind = "observer"
	KindPlayer   ResourceKind = "player"
	KindCapture  ResourceKind = "capture"
	KindAudio    ResourceKind = "audio"
	KindSession  ResourceKind = "session"
	KindEmbed    ResourceKind = "embed"
)

type resource struct {
	kind    ResourceKind
	name    string
	release func() error
}

// Resources collects everything one open lifetime acquired so the teardown
// hook can release it in one place.
type Resources struct {
	mu       sync.Mutex
	items    []resource
	released bool
}

// Add registers a release function. Resources added after Release are
// released immediately.
func (r *Resources) Add(kind ResourceKind, name string, release func() error) {
	r.mu.Lock()
	if r.released {
		r.mu.Unlock()
		if release != nil {
			_ = release()
		}
		return
	}
	r.items = append(r.items, resource{kind: kind, name: name, release: release})
	r.mu.Unlock()
}

// AddCloser registers an io.Closer.
func (r *Resources) AddCloser(kind ResourceKind, name string, c io.Closer) {
	r.Add(kind, name, c.Close)
}

// AddTicker registers a ticker to stop.
func (r *Resources) AddTicker(name string, t *time.Ticker) {
	r.Add(KindTimer, name, func() error {
		t.Stop()
		return nil
	})
}

// Len returns the number of held resources.
func (r *Resources) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// Kinds returns the kinds of held resources in acquisition order.
func (r *Resources) Kinds() []ResourceKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ResourceKind, 0, len(r.items))
	for _, it := range r.items {
		out = append(out, it.kind)
	}
	return out
}

// Release frees every resource in reverse acquisition order. Every release
// function runs even if earlier ones fail; failures are combined.
func (r *Resources) Release() error {
	r.mu.Lock()
	items := r.items
	r.items = nil
	r.released = true
	r.mu.Unlock()

	var result *multierror.Error
	for i := len(items) - 1; i >= 0; i-- {
		it := items[i]
		if it.release == nil {
			continue
		}
		if err := safeRelease(it.release); err != nil {
			result = multierror.Append(result, fmt.Errorf("release %s %q: %w", it.kind, it.name, err))
		}
	}
	return result.ErrorOrNil()
}

func safeRelease(fn func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return fn()
}

// Handle is an external resource such as a player, audio context or remote
// session. Closing it twice is an error.
type Handle struct {
	Kind   ResourceKind
	Name   string
	closed atomic.Bool
}

// NewHandle creates an open handle.
func NewHandle(kind ResourceKind, name string) *Handle {
	return &Handle{Kind: kind, Name: name}
}

// Close releases the handle.
func (h *Handle) Close() error {
	if !h.closed.CompareAndSwap(false, true) {
		return fmt.Errorf("%s %q already closed", h.Kind, h.Name)
	}
	return nil
}

// Closed reports whether Close has been called.
func (h *Handle) Closed() bool {
	return h.closed.Load()
}
