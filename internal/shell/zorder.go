package shell

// BaseZ is the stacking value below every allocated z-index.
const BaseZ = 20

// ZOrder is the stacking counter. Every allocation is unique and strictly
// greater than all previous ones, so two windows never tie.
type ZOrder struct {
	highest int
}

// NewZOrder creates a counter starting above base.
func NewZOrder(base int) *ZOrder {
	return &ZOrder{highest: base}
}

// Next allocates the next stacking value.
func (z *ZOrder) Next() int {
	z.highest++
	return z.highest
}

// Highest returns the last allocated value.
func (z *ZOrder) Highest() int {
	return z.highest
}

// topmost returns the record with the highest z-index among the registry
// entries accepted by filter, or nil.
func topmost(reg *Registry, filter func(rec *record) bool) *record {
	var best *record
	reg.each(func(rec *record) {
		if rec.window == nil || (filter != nil && !filter(rec)) {
			return
		}
		if best == nil || rec.window.Z > best.window.Z {
			best = rec
		}
	})
	return best
}

func visibleOnly(rec *record) bool {
	return rec.window.Visible()
}
