package orderbook

import "slices"

// Registry is the insertion-ordered store of open orders.
// It is not safe for concurrent use; board.Board serialises access.
type Registry struct {
	orders []Order
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Place appends the order. Duplicates are kept as separate entries.
func (r *Registry) Place(o Order) bool {
	r.orders = append(r.orders, o)
	return true
}

// Cancel removes the first stored order equal to o.
// When several equal orders exist only one is removed per call.
func (r *Registry) Cancel(o Order) bool {
	i := r.indexOf(o)
	if i < 0 {
		return false
	}
	r.orders = slices.Delete(r.orders, i, i+1)
	return true
}

// Find returns the first stored order equal to o.
func (r *Registry) Find(o Order) (Order, bool) {
	i := r.indexOf(o)
	if i < 0 {
		return Order{}, false
	}
	return r.orders[i], true
}

// Snapshot copies the open orders in insertion order. Later Place/Cancel
// calls do not show through the returned slice.
func (r *Registry) Snapshot() []Order {
	return slices.Clone(r.orders)
}

func (r *Registry) Len() int { return len(r.orders) }

// Reset drops every order.
func (r *Registry) Reset() {
	r.orders = nil
}

func (r *Registry) indexOf(o Order) int {
	return slices.IndexFunc(r.orders, o.Equal)
}
