package ledger

import (
	ledgerv1 "github.com/muhammadchandra19/venue-ledger/internal/domain/ledger/v1"
)

// Handle addresses an order slot. A handle goes stale once its order is
// removed; the slot's generation moves on and lookups through the old handle fail.
type Handle struct {
	Index      uint32
	Generation uint32
}

type slot struct {
	generation uint32
	live       bool
	order      ledgerv1.Order
}

// arena is a dense slab of order slots with a free list.
type arena struct {
	slots []slot
	free  []uint32
}

func (a *arena) alloc(o ledgerv1.Order) Handle {
	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		s := &a.slots[idx]
		s.live = true
		s.order = o
		return Handle{Index: idx, Generation: s.generation}
	}
	a.slots = append(a.slots, slot{live: true, order: o})
	return Handle{Index: uint32(len(a.slots) - 1)}
}

func (a *arena) release(h Handle) {
	s := &a.slots[h.Index]
	s.live = false
	s.generation++
	s.order = ledgerv1.Order{}
	a.free = append(a.free, h.Index)
}

func (a *arena) get(h Handle) (*ledgerv1.Order, bool) {
	if int(h.Index) >= len(a.slots) {
		return nil, false
	}
	s := &a.slots[h.Index]
	if !s.live || s.generation != h.Generation {
		return nil, false
	}
	return &s.order, true
}

func (a *arena) reset() {
	a.slots = a.slots[:0]
	a.free = a.free[:0]
}
