package ledger

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	ledgerv1 "github.com/muhammadchandra19/venue-ledger/internal/domain/ledger/v1"
	"github.com/muhammadchandra19/venue-ledger/pkg/errors"
	"github.com/muhammadchandra19/venue-ledger/pkg/logger"
)

// Sink receives an offered amount of escrow and returns how much it accepted.
// Sinks run while the ledger is locked and must not call back into it.
type Sink func(offered int64) (accepted int64)

// Ledger is the order book of one venue. It holds every order together with
// its escrow and is the only place order state changes.
type Ledger struct {
	venue   string
	now     func() time.Time
	ids     func() uint64
	catalog ledgerv1.Catalog
	logger  *logger.Logger

	mu       sync.Mutex
	orders   arena
	index    map[ledgerv1.OrderID]Handle
	byItem   map[string]map[ledgerv1.OrderID]struct{}
	sequence uint64
	version  uint64

	hooksMu         sync.RWMutex
	changeHooks     []func(ledgerv1.ChangeEvent)
	settlementHooks []func(ledgerv1.SettlementEvent)
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock overrides the wall clock used for creation and settlement times.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithIDSource overrides the random source for order identifiers.
func WithIDSource(ids func() uint64) Option {
	return func(l *Ledger) { l.ids = ids }
}

// WithCatalog sets the item catalog used by tag filters.
func WithCatalog(c ledgerv1.Catalog) Option {
	return func(l *Ledger) { l.catalog = c }
}

// WithLogger sets the logger.
func WithLogger(log *logger.Logger) Option {
	return func(l *Ledger) { l.logger = log }
}

// NewLedger creates an empty ledger for venue.
func NewLedger(venue string, opts ...Option) *Ledger {
	l := &Ledger{
		venue:  venue,
		now:    time.Now,
		ids:    rand.Uint64,
		logger: logger.NewNop(),
		index:  make(map[ledgerv1.OrderID]Handle),
		byItem: make(map[string]map[ledgerv1.OrderID]struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = l.logger.WithFields(logger.NewField("venue", venue))
	return l
}

// Venue returns the venue identifier.
func (l *Ledger) Venue() string {
	return l.venue
}

// OnChange registers fn to receive every change event.
func (l *Ledger) OnChange(fn func(ledgerv1.ChangeEvent)) {
	l.hooksMu.Lock()
	defer l.hooksMu.Unlock()
	l.changeHooks = append(l.changeHooks, fn)
}

// OnSettlement registers fn to receive every settlement event.
func (l *Ledger) OnSettlement(fn func(ledgerv1.SettlementEvent)) {
	l.hooksMu.Lock()
	defer l.hooksMu.Unlock()
	l.settlementHooks = append(l.settlementHooks, fn)
}

// events collects what a mutation raised so it can be delivered after unlock.
// Hooks of concurrent mutations may run interleaved; the Version stamped on
// each order tells receivers which copy is newest.
type events struct {
	changes     []ledgerv1.ChangeEvent
	settlements []ledgerv1.SettlementEvent
}

func (e *events) change(venue string, op ledgerv1.Op, o ledgerv1.Order) {
	e.changes = append(e.changes, ledgerv1.ChangeEvent{Venue: venue, Op: op, Order: o})
}

func (l *Ledger) emit(e *events) {
	if len(e.changes) == 0 && len(e.settlements) == 0 {
		return
	}
	l.hooksMu.RLock()
	changeHooks := l.changeHooks
	settlementHooks := l.settlementHooks
	l.hooksMu.RUnlock()

	for _, ev := range e.changes {
		for _, fn := range changeHooks {
			fn(ev)
		}
	}
	for _, ev := range e.settlements {
		for _, fn := range settlementHooks {
			fn(ev)
		}
	}
}

// CreateBuy stores a buy order. The caller has already withdrawn moneyEscrowed
// from the buyer and guarantees it covers price × quantity.
func (l *Ledger) CreateBuy(creator, item string, price, quantity, moneyEscrowed int64) ledgerv1.OrderID {
	return l.create(ledgerv1.Order{
		Creator:     creator,
		Kind:        ledgerv1.KindBuy,
		Item:        item,
		Price:       price,
		Desired:     quantity,
		Remaining:   quantity,
		StoredMoney: moneyEscrowed,
	})
}

// CreateSell stores a sell order. The caller has already withdrawn quantity
// items from the seller.
func (l *Ledger) CreateSell(creator, item string, price, quantity int64) ledgerv1.OrderID {
	return l.create(ledgerv1.Order{
		Creator:     creator,
		Kind:        ledgerv1.KindSell,
		Item:        item,
		Price:       price,
		Desired:     quantity,
		Remaining:   quantity,
		StoredItems: quantity,
	})
}

func (l *Ledger) create(o ledgerv1.Order) ledgerv1.OrderID {
	var ev events
	defer l.emit(&ev)

	l.mu.Lock()
	defer l.mu.Unlock()

	o.ID = l.nextID()
	o.CreatedAt = l.now()
	l.sequence++
	o.Sequence = l.sequence
	l.stamp(&o)
	o.MustValidate()

	l.insert(o)
	ev.change(l.venue, ledgerv1.OpCreate, o)

	l.logger.Debug("order created",
		logger.NewField("orderID", o.ID.String()),
		logger.NewField("kind", o.Kind.String()),
		logger.NewField("item", o.Item),
		logger.NewField("price", o.Price),
		logger.NewField("quantity", o.Desired),
	)
	return o.ID
}

// stamp advances the ledger version and records it on o. Callers hold l.mu.
func (l *Ledger) stamp(o *ledgerv1.Order) {
	l.version++
	o.Version = l.version
}

func (l *Ledger) nextID() ledgerv1.OrderID {
	for {
		id := ledgerv1.OrderID(l.ids()) | ledgerv1.NotNullBit
		if _, taken := l.index[id]; !taken {
			return id
		}
	}
}

func (l *Ledger) insert(o ledgerv1.Order) {
	l.index[o.ID] = l.orders.alloc(o)
	items, ok := l.byItem[o.Item]
	if !ok {
		items = make(map[ledgerv1.OrderID]struct{})
		l.byItem[o.Item] = items
	}
	items[o.ID] = struct{}{}
}

func (l *Ledger) remove(id ledgerv1.OrderID) {
	h := l.index[id]
	o, _ := l.orders.get(h)
	if items, ok := l.byItem[o.Item]; ok {
		delete(items, id)
		if len(items) == 0 {
			delete(l.byItem, o.Item)
		}
	}
	delete(l.index, id)
	l.orders.release(h)
}

func (l *Ledger) lookup(id ledgerv1.OrderID) (*ledgerv1.Order, bool) {
	h, ok := l.index[id]
	if !ok {
		return nil, false
	}
	return l.orders.get(h)
}

// Cancel withdraws an order from trading. The escrow stays in place until
// collected. Cancelling a cancelled order succeeds without change.
func (l *Ledger) Cancel(id ledgerv1.OrderID) bool {
	var ev events
	defer l.emit(&ev)

	l.mu.Lock()
	defer l.mu.Unlock()

	o, ok := l.lookup(id)
	if !ok {
		return false
	}
	if o.Kind.IsCancelled() {
		return true
	}

	next := *o
	next.Kind = next.Kind.Cancelled()
	next.Remaining = 0
	l.stamp(&next)
	next.MustValidate()
	*o = next

	ev.change(l.venue, ledgerv1.OpCancel, next)
	l.logger.Debug("order cancelled", logger.NewField("orderID", id.String()))
	return true
}

// Collect offers the collectable escrow of an order to the two sinks and
// keeps whatever they refuse. The order is deleted once nothing is left in
// escrow and nothing remains to trade.
func (l *Ledger) Collect(id ledgerv1.OrderID, itemSink, moneySink Sink) ledgerv1.CollectResult {
	var ev events
	defer l.emit(&ev)

	l.mu.Lock()
	defer l.mu.Unlock()

	o, ok := l.lookup(id)
	if !ok {
		return ledgerv1.CollectNoSuchOrder
	}

	items, money := o.Collectable()
	acceptedItems := offer(itemSink, items, o)
	acceptedMoney := offer(moneySink, money, o)

	next := *o
	next.StoredItems -= acceptedItems
	next.StoredMoney -= acceptedMoney
	collected := acceptedItems > 0 || acceptedMoney > 0
	if collected {
		l.stamp(&next)
	}
	next.MustValidate()
	*o = next

	if collected {
		ev.change(l.venue, ledgerv1.OpCollect, next)
	}
	if next.IsEmpty() {
		ev.change(l.venue, ledgerv1.OpBeforeRemoved, next)
		l.remove(id)
		l.logger.Debug("order collected and removed", logger.NewField("orderID", id.String()))
		return ledgerv1.CollectFullyCollectedAndRemoved
	}
	if !collected {
		return ledgerv1.CollectNothingCollected
	}
	return ledgerv1.CollectPartiallyCollected
}

func offer(sink Sink, amount int64, o *ledgerv1.Order) int64 {
	if sink == nil || amount == 0 {
		return 0
	}
	accepted := sink(amount)
	if accepted < 0 || accepted > amount {
		panic(errors.Defect(errors.LedgerInvariantViolation,
			fmt.Sprintf("order %s: sink accepted %d of %d offered", o.ID, accepted, amount), *o))
	}
	return accepted
}

// SolvePair settles a buy order against a sell order of this ledger.
func (l *Ledger) SolvePair(buy, sell ledgerv1.OrderID) ledgerv1.SolveResult {
	return SolveAcross(l, buy, l, sell)
}

// Get returns a copy of the order.
func (l *Ledger) Get(id ledgerv1.OrderID) (ledgerv1.Order, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	o, ok := l.lookup(id)
	if !ok {
		return ledgerv1.Order{}, false
	}
	return *o, true
}

// Handle returns the slot handle currently holding id.
func (l *Ledger) Handle(id ledgerv1.OrderID) (Handle, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	h, ok := l.index[id]
	return h, ok
}

// At returns a copy of the order behind h, failing for stale handles.
func (l *Ledger) At(h Handle) (ledgerv1.Order, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	o, ok := l.orders.get(h)
	if !ok {
		return ledgerv1.Order{}, false
	}
	return *o, true
}

// Len returns the number of orders held.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.index)
}

// Items returns the items that currently have at least one order.
func (l *Ledger) Items() []string {
	l.mu.Lock()
	items := make([]string, 0, len(l.byItem))
	for item := range l.byItem {
		items = append(items, item)
	}
	l.mu.Unlock()

	sort.Strings(items)
	return items
}

// Orders returns copies of the orders accepted by filter, oldest first.
func (l *Ledger) Orders(filter *ledgerv1.Filter) []ledgerv1.Order {
	l.mu.Lock()
	var out []ledgerv1.Order
	visit := func(id ledgerv1.OrderID) {
		o, ok := l.lookup(id)
		if ok && filter.Accepts(o, l.catalog) {
			out = append(out, *o)
		}
	}
	if filter != nil && filter.Item != "" {
		for id := range l.byItem[filter.Item] {
			visit(id)
		}
	} else {
		for id := range l.index {
			visit(id)
		}
	}
	l.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out
}

// ForEach visits the orders accepted by filter, oldest first, until fn returns false.
func (l *Ledger) ForEach(filter *ledgerv1.Filter, fn func(ledgerv1.Order) bool) {
	for _, o := range l.Orders(filter) {
		if !fn(o) {
			return
		}
	}
}
