package replication

import (
	"fmt"
	"sort"
	"sync"

	ledgerv1 "github.com/muhammadchandra19/venue-ledger/internal/domain/ledger/v1"
	replicationv1 "github.com/muhammadchandra19/venue-ledger/internal/domain/replication/v1"
	"github.com/muhammadchandra19/venue-ledger/pkg/logger"
)

// Mirror is a read-only replica of one venue's ledger, fed by the
// authority's broadcasts. Applying the same message twice is harmless, and
// a copy older than the one held never replaces it. Removed orders leave a
// tombstone so a late change cannot bring them back.
type Mirror struct {
	venue  string
	logger *logger.Logger

	mu      sync.RWMutex
	orders  map[ledgerv1.OrderID]ledgerv1.Order
	removed map[ledgerv1.OrderID]struct{}
}

// NewMirror creates an empty mirror of venue.
func NewMirror(venue string, log *logger.Logger) *Mirror {
	if log == nil {
		log = logger.NewNop()
	}
	return &Mirror{
		venue:  venue,
		logger: log,
		orders:  make(map[ledgerv1.OrderID]ledgerv1.Order),
		removed: make(map[ledgerv1.OrderID]struct{}),
	}
}

// Venue returns the mirrored venue.
func (m *Mirror) Venue() string {
	return m.venue
}

// Apply creates the order if absent, replaces it if the change is newer than
// the mirrored copy, and drops it when the change reports a removal.
func (m *Mirror) Apply(msg replicationv1.OrderChanged) error {
	o, err := msg.Order.ToOrder()
	if err != nil {
		return err
	}
	op, ok := ledgerv1.ParseOp(msg.Op)
	if !ok {
		return fmt.Errorf("unknown op %q", msg.Op)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if op == ledgerv1.OpBeforeRemoved {
		delete(m.orders, o.ID)
		m.removed[o.ID] = struct{}{}
		return nil
	}
	if _, gone := m.removed[o.ID]; gone {
		m.logger.Debug("mirror dropped change of removed order",
			logger.NewField("venue", m.venue),
			logger.NewField("orderID", o.ID.String()),
			logger.NewField("op", msg.Op),
		)
		return nil
	}
	if held, ok := m.orders[o.ID]; ok && held.Version >= o.Version {
		return nil
	}
	m.orders[o.ID] = o
	return nil
}

// ApplySettled refreshes both orders of a same-ledger settlement if they are
// still mirrored with an older version. The order-changed stream stays
// authoritative.
func (m *Mirror) ApplySettled(msg replicationv1.OrderSettled) error {
	for _, s := range []replicationv1.OrderSnapshot{msg.Buy, msg.Sell} {
		o, err := s.ToOrder()
		if err != nil {
			return err
		}
		m.mu.Lock()
		if held, ok := m.orders[o.ID]; ok && held.Version < o.Version {
			m.orders[o.ID] = o
		}
		m.mu.Unlock()
	}
	return nil
}

// ApplyEnvelope routes an authority message for this venue.
func (m *Mirror) ApplyEnvelope(env *replicationv1.Envelope) error {
	if env.Venue != m.venue {
		return nil
	}
	switch env.Type {
	case replicationv1.TypeOrderChanged:
		var msg replicationv1.OrderChanged
		if err := env.Decode(&msg); err != nil {
			return err
		}
		return m.Apply(msg)
	case replicationv1.TypeOrderSettledLocal:
		var msg replicationv1.OrderSettled
		if err := env.Decode(&msg); err != nil {
			return err
		}
		return m.ApplySettled(msg)
	default:
		m.logger.Debug("mirror ignored message",
			logger.NewField("venue", m.venue),
			logger.NewField("type", string(env.Type)),
		)
		return nil
	}
}

// Get returns the mirrored order.
func (m *Mirror) Get(id ledgerv1.OrderID) (ledgerv1.Order, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.orders[id]
	return o, ok
}

// Len returns the number of mirrored orders.
func (m *Mirror) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.orders)
}

// Orders returns the mirrored orders accepted by filter, oldest first.
func (m *Mirror) Orders(filter *ledgerv1.Filter, catalog ledgerv1.Catalog) []ledgerv1.Order {
	m.mu.RLock()
	out := make([]ledgerv1.Order, 0, len(m.orders))
	for _, o := range m.orders {
		if filter.Accepts(&o, catalog) {
			out = append(out, o)
		}
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out
}
