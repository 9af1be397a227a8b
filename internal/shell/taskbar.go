package shell

// Taskbar holds the taskbar entries in the order they were created. The
// Coordinator keeps it in lock-step with the Registry: an entry is added on
// open, removed on close and only deactivated on minimize.
type Taskbar struct {
	entries []*TaskbarEntry
}

func newTaskbar() *Taskbar {
	return &Taskbar{}
}

func (t *Taskbar) add(id AppID, desc Descriptor) *TaskbarEntry {
	entry := &TaskbarEntry{
		App:   id,
		Title: desc.Title,
		Icon:  desc.Icon,
	}
	t.entries = append(t.entries, entry)
	return entry
}

func (t *Taskbar) remove(id AppID) bool {
	for i, e := range t.entries {
		if e.App == id {
			t.entries = append(t.entries[:i], t.entries[i+1:]...)
			return true
		}
	}
	return false
}

func (t *Taskbar) setActive(entry *TaskbarEntry, active bool) {
	if entry != nil {
		entry.Active = active
	}
}

// Len returns the number of taskbar entries.
func (t *Taskbar) Len() int {
	return len(t.entries)
}

// Entries returns copies of the entries in taskbar order.
func (t *Taskbar) Entries() []TaskbarEntry {
	out := make([]TaskbarEntry, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, *e)
	}
	return out
}
