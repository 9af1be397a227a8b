package shell

import "sort"

// FirstOpenFunc wires an application's own behavior. It runs once per open
// lifetime, after the window is visible and focused. Long-running work must go
// through lt.Go so the event goroutine is never blocked.
type FirstOpenFunc func(lt *Lifetime, win Window) error

// CloseFunc releases everything the application acquired during the lifetime:
// timers, observers, media handles, capture sessions. It runs exactly once, on
// Close, before the registry record is removed.
type CloseFunc func(lt *Lifetime) error

// Hooks is the pair of lifecycle callbacks for one application.
type Hooks struct {
	OnFirstOpen FirstOpenFunc
	OnClose     CloseFunc
}

// HookTable maps application ids to their hooks. It is populated at
// configuration time, before the shell starts handling input.
type HookTable struct {
	hooks map[AppID]Hooks
}

// NewHookTable creates an empty table.
func NewHookTable() *HookTable {
	return &HookTable{hooks: make(map[AppID]Hooks)}
}

// Register sets the hooks for id, replacing any previous registration.
func (t *HookTable) Register(id AppID, h Hooks) {
	t.hooks[id] = h
}

// Lookup returns the hooks for id. Unregistered ids get zero Hooks.
func (t *HookTable) Lookup(id AppID) Hooks {
	if t == nil {
		return Hooks{}
	}
	return t.hooks[id]
}

// IDs returns the registered ids, sorted.
func (t *HookTable) IDs() []AppID {
	if t == nil {
		return nil
	}
	ids := make([]AppID, 0, len(t.hooks))
	for id := range t.hooks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
