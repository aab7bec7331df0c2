package ledger

import (
	"fmt"
	"time"

	ledgerv1 "github.com/muhammadchandra19/venue-ledger/internal/domain/ledger/v1"
	snapshotv1 "github.com/muhammadchandra19/venue-ledger/internal/domain/snapshot/v1"
)

// Snapshot captures every order of the ledger. Creation times are truncated
// to the minute; the sequence keeps their relative age.
func (l *Ledger) Snapshot() *snapshotv1.Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	snapshot := &snapshotv1.Snapshot{
		Venue:    l.venue,
		Sequence: l.sequence,
		Version:  l.version,
		TakenAt:  l.now(),
		Orders:   make([]snapshotv1.BookOrder, 0, len(l.index)),
	}
	for id := range l.index {
		o, _ := l.lookup(id)
		snapshot.Orders = append(snapshot.Orders, snapshotv1.BookOrder{
			OrderID:     o.ID.String(),
			Creator:     o.Creator,
			CreatedAt:   o.CreatedAt.Truncate(time.Minute),
			Sequence:    o.Sequence,
			Kind:        o.Kind.String(),
			Item:        o.Item,
			Price:       o.Price,
			Desired:     o.Desired,
			Remaining:   o.Remaining,
			StoredItems: o.StoredItems,
			StoredMoney: o.StoredMoney,
			Version:     o.Version,
		})
	}
	return snapshot
}

// Restore replaces the ledger content with the snapshot. Every restored order
// is announced with a create event. Nothing changes if the snapshot holds an
// invalid order.
func (l *Ledger) Restore(snapshot *snapshotv1.Snapshot) error {
	if snapshot == nil {
		return fmt.Errorf("snapshot cannot be nil")
	}
	if snapshot.Venue != l.venue {
		return fmt.Errorf("snapshot for venue %q cannot restore %q", snapshot.Venue, l.venue)
	}

	orders := make([]ledgerv1.Order, 0, len(snapshot.Orders))
	seen := make(map[ledgerv1.OrderID]bool, len(snapshot.Orders))
	sequence, version := snapshot.Sequence, snapshot.Version
	for _, bo := range snapshot.Orders {
		o, err := fromBookOrder(bo)
		if err != nil {
			return err
		}
		if seen[o.ID] {
			return fmt.Errorf("order %s appears twice in snapshot", o.ID)
		}
		seen[o.ID] = true
		if o.Sequence > sequence {
			sequence = o.Sequence
		}
		if o.Version > version {
			version = o.Version
		}
		orders = append(orders, o)
	}

	var ev events
	defer l.emit(&ev)

	l.mu.Lock()
	defer l.mu.Unlock()

	l.orders.reset()
	l.index = make(map[ledgerv1.OrderID]Handle, len(orders))
	l.byItem = make(map[string]map[ledgerv1.OrderID]struct{})
	l.sequence = sequence
	l.version = version
	for _, o := range orders {
		l.insert(o)
		ev.change(l.venue, ledgerv1.OpCreate, o)
	}
	return nil
}

func fromBookOrder(bo snapshotv1.BookOrder) (ledgerv1.Order, error) {
	id, err := ledgerv1.ParseOrderID(bo.OrderID)
	if err != nil {
		return ledgerv1.Order{}, fmt.Errorf("order %q: %w", bo.OrderID, err)
	}
	kind, ok := ledgerv1.ParseKind(bo.Kind)
	if !ok {
		return ledgerv1.Order{}, fmt.Errorf("order %q: unknown kind %q", bo.OrderID, bo.Kind)
	}
	o := ledgerv1.Order{
		ID:          id,
		Creator:     bo.Creator,
		CreatedAt:   bo.CreatedAt,
		Sequence:    bo.Sequence,
		Kind:        kind,
		Item:        bo.Item,
		Price:       bo.Price,
		Desired:     bo.Desired,
		Remaining:   bo.Remaining,
		StoredItems: bo.StoredItems,
		StoredMoney: bo.StoredMoney,
		Version:     bo.Version,
	}
	if err := o.Validate(); err != nil {
		return ledgerv1.Order{}, err
	}
	return o, nil
}
