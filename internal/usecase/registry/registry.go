package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"

	ledgerv1 "github.com/muhammadchandra19/venue-ledger/internal/domain/ledger/v1"
	"github.com/muhammadchandra19/venue-ledger/internal/usecase/ledger"
	"github.com/muhammadchandra19/venue-ledger/internal/usecase/matching"
	"github.com/muhammadchandra19/venue-ledger/pkg/logger"
)

// TickResult summarises one scheduler pass.
type TickResult struct {
	Venues int
	Items  int
	Passes int
	Solves int
}

// Registry owns the ledger of every known venue, tracks which venues and
// items changed since the last tick, and fans ledger events out to
// subscribers.
type Registry struct {
	matcher       *matching.Matcher
	logger        *logger.Logger
	ledgerOptions []ledger.Option

	mu      sync.RWMutex
	ledgers map[string]*ledger.Ledger

	dirtyMu sync.Mutex
	venues  dirtySet
	items   dirtySet

	hooksMu         sync.RWMutex
	changeHooks     []func(ledgerv1.ChangeEvent)
	settlementHooks []func(ledgerv1.SettlementEvent)
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger.
func WithLogger(log *logger.Logger) Option {
	return func(r *Registry) { r.logger = log }
}

// WithLedgerOptions sets the options applied to ledgers created by Open.
func WithLedgerOptions(opts ...ledger.Option) Option {
	return func(r *Registry) { r.ledgerOptions = append(r.ledgerOptions, opts...) }
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		logger:  logger.NewNop(),
		ledgers: make(map[string]*ledger.Ledger),
		venues:  newDirtySet(),
		items:   newDirtySet(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.matcher = matching.NewMatcher(r.logger)
	return r
}

// Open returns the ledger for venue, creating it on first use.
func (r *Registry) Open(venue string) *ledger.Ledger {
	r.mu.Lock()
	defer r.mu.Unlock()

	if l, ok := r.ledgers[venue]; ok {
		return l
	}
	opts := append([]ledger.Option{ledger.WithLogger(r.logger)}, r.ledgerOptions...)
	l := ledger.NewLedger(venue, opts...)
	r.attach(l)
	return l
}

// Register adds an existing ledger. It fails if the venue is already known.
func (r *Registry) Register(l *ledger.Ledger) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.ledgers[l.Venue()]; ok {
		return fmt.Errorf("venue %q is already registered", l.Venue())
	}
	r.attach(l)
	return nil
}

func (r *Registry) attach(l *ledger.Ledger) {
	venue := l.Venue()
	r.ledgers[venue] = l
	l.OnChange(func(ev ledgerv1.ChangeEvent) {
		if !r.owns(venue, l) {
			return
		}
		r.touch(venue, ev.Order.Item)
		r.publishChange(ev)
	})
	l.OnSettlement(func(ev ledgerv1.SettlementEvent) {
		if !r.owns(venue, l) {
			return
		}
		r.publishSettlement(ev)
	})
	r.logger.Debug("venue registered", logger.NewField("venue", venue))
}

func (r *Registry) owns(venue string, l *ledger.Ledger) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ledgers[venue] == l
}

// Ledger returns the ledger of venue.
func (r *Registry) Ledger(venue string) (*ledger.Ledger, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.ledgers[venue]
	return l, ok
}

// Remove forgets venue. Events from its ledger are no longer forwarded.
func (r *Registry) Remove(venue string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.ledgers[venue]; !ok {
		return false
	}
	delete(r.ledgers, venue)
	return true
}

// Venues returns the known venues in order.
func (r *Registry) Venues() []string {
	r.mu.RLock()
	venues := make([]string, 0, len(r.ledgers))
	for v := range r.ledgers {
		venues = append(venues, v)
	}
	r.mu.RUnlock()

	sort.Strings(venues)
	return venues
}

// OnChange subscribes fn to change events of every registered ledger.
func (r *Registry) OnChange(fn func(ledgerv1.ChangeEvent)) {
	r.hooksMu.Lock()
	defer r.hooksMu.Unlock()
	r.changeHooks = append(r.changeHooks, fn)
}

// OnSettlement subscribes fn to settlement events of every registered
// ledger. A cross-ledger trade is delivered once per ledger involved, with
// Venue naming the ledger that raised it.
func (r *Registry) OnSettlement(fn func(ledgerv1.SettlementEvent)) {
	r.hooksMu.Lock()
	defer r.hooksMu.Unlock()
	r.settlementHooks = append(r.settlementHooks, fn)
}

func (r *Registry) publishChange(ev ledgerv1.ChangeEvent) {
	r.hooksMu.RLock()
	hooks := r.changeHooks
	r.hooksMu.RUnlock()
	for _, fn := range hooks {
		fn(ev)
	}
}

func (r *Registry) publishSettlement(ev ledgerv1.SettlementEvent) {
	r.hooksMu.RLock()
	hooks := r.settlementHooks
	r.hooksMu.RUnlock()
	for _, fn := range hooks {
		fn(ev)
	}
}

func (r *Registry) touch(venue, item string) {
	r.dirtyMu.Lock()
	defer r.dirtyMu.Unlock()
	r.venues.add(venue)
	r.items.add(item)
}

// Pending returns how many venues changed since the last tick.
func (r *Registry) Pending() int {
	r.dirtyMu.Lock()
	defer r.dirtyMu.Unlock()
	return r.venues.pending()
}

// Tick swaps the dirty sets and runs the matcher on every touched venue,
// restricted to the touched items. Changes raised while matching land in the
// fresh write side and are picked up by the next tick.
func (r *Registry) Tick(ctx context.Context) TickResult {
	r.dirtyMu.Lock()
	venues := r.venues.swap()
	items := r.items.swap()
	r.dirtyMu.Unlock()

	result := TickResult{Items: len(items)}
	for _, venue := range venues {
		l, ok := r.Ledger(venue)
		if !ok {
			continue
		}
		result.Venues++
		m := r.matcher.Match(ctx, l, items)
		result.Passes += m.Passes
		result.Solves += m.Solves
	}
	return result
}

// SolveAcross settles a buy order of one venue against a sell order of
// another. The caller chooses the pair; no routing happens here, and Tick
// never calls it. Collaborators that pair orders across venues call it
// directly.
func (r *Registry) SolveAcross(buyVenue string, buyID ledgerv1.OrderID, sellVenue string, sellID ledgerv1.OrderID) ledgerv1.SolveResult {
	buyBook, ok := r.Ledger(buyVenue)
	if !ok {
		return ledgerv1.SolveNoSuchOrder
	}
	sellBook, ok := r.Ledger(sellVenue)
	if !ok {
		return ledgerv1.SolveNoSuchOrder
	}
	return ledger.SolveAcross(buyBook, buyID, sellBook, sellID)
}
