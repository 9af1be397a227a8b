package shell

// record is the OpenAppRecord: the window and taskbar entry of one open
// application plus its open lifetime. A record exists iff the application is
// open, minimized included.
type record struct {
	id       AppID
	window   *Window
	entry    *TaskbarEntry
	lifetime *Lifetime
	tornDown bool
}

// Registry maps application ids to their open records. It remembers insertion
// order so listings follow the order windows were opened.
type Registry struct {
	records map[AppID]*record
	order   []AppID
}

func newRegistry() *Registry {
	return &Registry{records: make(map[AppID]*record)}
}

func (r *Registry) get(id AppID) *record {
	return r.records[id]
}

func (r *Registry) insert(rec *record) {
	if _, exists := r.records[rec.id]; !exists {
		r.order = append(r.order, rec.id)
	}
	r.records[rec.id] = rec
}

func (r *Registry) remove(id AppID) {
	if _, exists := r.records[id]; !exists {
		return
	}
	delete(r.records, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Has reports whether id is open.
func (r *Registry) Has(id AppID) bool {
	_, ok := r.records[id]
	return ok
}

// Len returns the number of open applications.
func (r *Registry) Len() int {
	return len(r.records)
}

// IDs returns the open application ids in open order.
func (r *Registry) IDs() []AppID {
	out := make([]AppID, len(r.order))
	copy(out, r.order)
	return out
}

func (r *Registry) each(fn func(rec *record)) {
	for _, id := range r.order {
		fn(r.records[id])
	}
}
