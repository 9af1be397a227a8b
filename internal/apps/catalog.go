package apps

import (
	"fmt"
	"sort"
	"sync"

	"github.com/1broseidon/deskshell/internal/platform"
	"github.com/1broseidon/deskshell/internal/shell"
)

// App is an application plugged into the shell. Start runs inside the
// first-open hook; everything it acquires must be registered in res.
type App interface {
	ID() shell.AppID
	Descriptor() shell.Descriptor
	Start(lt *shell.Lifetime, win shell.Window, res *Resources) (Instance, error)
}

// Instance is a running application.
type Instance interface {
	// Status is a one-line summary shown in the window body. It may be
	// called from any goroutine.
	Status() string
}

type running struct {
	instance  Instance
	resources *Resources
	lifetime  string
}

// Catalog is the set of applications known to the desktop. It produces the
// descriptor table and hook table the shell is configured with, and tracks
// the resources of every running instance.
type Catalog struct {
	apps     map[shell.AppID]App
	override map[shell.AppID]shell.Descriptor
	disabled map[shell.AppID]bool
	resizes  *ResizeHub

	mu      sync.Mutex
	running map[shell.AppID]*running
}

// NewCatalog creates a catalog with the given applications.
func NewCatalog(apps ...App) *Catalog {
	c := &Catalog{
		apps:     make(map[shell.AppID]App),
		override: make(map[shell.AppID]shell.Descriptor),
		disabled: make(map[shell.AppID]bool),
		resizes:  NewResizeHub(),
		running:  make(map[shell.AppID]*running),
	}
	for _, a := range apps {
		c.apps[a.ID()] = a
	}
	return c
}

// Resizes returns the hub applications subscribe to for viewport changes.
func (c *Catalog) Resizes() *ResizeHub {
	return c.resizes
}

// Override replaces presentation fields of an application's descriptor. Zero
// fields keep the built-in value.
func (c *Catalog) Override(id shell.AppID, d shell.Descriptor) {
	c.override[id] = d
}

// Disable removes an application from the descriptor table, so opening it
// fails resolution.
func (c *Catalog) Disable(id shell.AppID) {
	c.disabled[id] = true
}

// IDs returns the enabled application ids, sorted.
func (c *Catalog) IDs() []shell.AppID {
	ids := make([]shell.AppID, 0, len(c.apps))
	for id := range c.apps {
		if !c.disabled[id] {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Descriptors returns the static descriptor table.
func (c *Catalog) Descriptors() map[shell.AppID]shell.Descriptor {
	out := make(map[shell.AppID]shell.Descriptor, len(c.apps))
	for _, id := range c.IDs() {
		out[id] = c.descriptor(id)
	}
	return out
}

func (c *Catalog) descriptor(id shell.AppID) shell.Descriptor {
	d := c.apps[id].Descriptor()
	if o, ok := c.override[id]; ok {
		if o.Title != "" {
			d.Title = o.Title
		}
		if o.Icon != "" {
			d.Icon = o.Icon
		}
		if o.Width > 0 {
			d.Width = o.Width
		}
		if o.Height > 0 {
			d.Height = o.Height
		}
	}
	return d
}

// Hooks builds the hook table for every enabled application.
func (c *Catalog) Hooks() *shell.HookTable {
	table := shell.NewHookTable()
	for _, id := range c.IDs() {
		app := c.apps[id]
		table.Register(id, shell.Hooks{
			OnFirstOpen: func(lt *shell.Lifetime, win shell.Window) error {
				return c.start(app, lt, win)
			},
			OnClose: func(lt *shell.Lifetime) error {
				return c.stop(lt)
			},
		})
	}
	return table
}

func (c *Catalog) start(app App, lt *shell.Lifetime, win shell.Window) error {
	res := &Resources{}
	inst, err := app.Start(lt, win, res)

	c.mu.Lock()
	c.running[lt.App()] = &running{instance: inst, resources: res, lifetime: lt.ID()}
	c.mu.Unlock()

	if err != nil {
		return fmt.Errorf("start %s: %w", lt.App(), err)
	}
	lt.Logger().Debug("application started", "resources", res.Len())
	return nil
}

func (c *Catalog) stop(lt *shell.Lifetime) error {
	c.mu.Lock()
	r, ok := c.running[lt.App()]
	if ok && r.lifetime == lt.ID() {
		delete(c.running, lt.App())
	}
	c.mu.Unlock()

	if !ok || r.lifetime != lt.ID() {
		return nil
	}
	if err := r.resources.Release(); err != nil {
		return err
	}
	lt.Logger().Debug("application resources released")
	return nil
}

// Status returns the status line of a running application.
func (c *Catalog) Status(id shell.AppID) string {
	c.mu.Lock()
	r, ok := c.running[id]
	c.mu.Unlock()
	if !ok || r.instance == nil {
		return ""
	}
	return r.instance.Status()
}

// Held returns the number of resources held by a running application.
func (c *Catalog) Held(id shell.AppID) int {
	c.mu.Lock()
	r, ok := c.running[id]
	c.mu.Unlock()
	if !ok {
		return 0
	}
	return r.resources.Len()
}

// Running returns the ids of applications with live instances, sorted.
func (c *Catalog) Running() []shell.AppID {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := make([]shell.AppID, 0, len(c.running))
	for id := range c.running {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// ResizeHub fans viewport size changes out to subscribed applications, the
// way a size observer notifies a canvas.
type ResizeHub struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func(platform.Size)
}

// NewResizeHub creates an empty hub.
func NewResizeHub() *ResizeHub {
	return &ResizeHub{subs: make(map[int]func(platform.Size))}
}

// Subscribe registers fn and returns the function that removes it.
func (h *ResizeHub) Subscribe(fn func(platform.Size)) (unsubscribe func() error) {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = fn
	h.mu.Unlock()
	return func() error {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subs[id]; !ok {
			return fmt.Errorf("resize subscription %d already removed", id)
		}
		delete(h.subs, id)
		return nil
	}
}

// Notify calls every subscriber with the new size.
func (h *ResizeHub) Notify(size platform.Size) {
	h.mu.Lock()
	fns := make([]func(platform.Size), 0, len(h.subs))
	for _, fn := range h.subs {
		fns = append(fns, fn)
	}
	h.mu.Unlock()
	for _, fn := range fns {
		fn(size)
	}
}

// Subscribers returns the number of live subscriptions.
func (h *ResizeHub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
