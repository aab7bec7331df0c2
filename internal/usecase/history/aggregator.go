package history

import (
	"sort"
	"sync"
	"time"

	historyv1 "github.com/muhammadchandra19/venue-ledger/internal/domain/history/v1"
	ledgerv1 "github.com/muhammadchandra19/venue-ledger/internal/domain/ledger/v1"
	"github.com/muhammadchandra19/venue-ledger/pkg/logger"
)

type key struct {
	venue string
	item  string
}

// SettlementSource is anything that publishes settlement events.
type SettlementSource interface {
	OnSettlement(fn func(ledgerv1.SettlementEvent))
}

// Aggregator keeps rolling price and volume history per venue and item.
type Aggregator struct {
	cfg    historyv1.Config
	logger *logger.Logger

	mu     sync.RWMutex
	series map[key]*series
}

var _ historyv1.Reader = (*Aggregator)(nil)

// NewAggregator creates an aggregator. The config must be valid.
func NewAggregator(cfg historyv1.Config, log *logger.Logger) (*Aggregator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Aggregator{
		cfg:    cfg,
		logger: log,
		series: make(map[key]*series),
	}, nil
}

// Attach records every settlement published by src.
func (a *Aggregator) Attach(src SettlementSource) {
	src.OnSettlement(a.Record)
}

// Record adds a settlement to the history of the venue that raised it.
func (a *Aggregator) Record(ev ledgerv1.SettlementEvent) {
	if ev.Quantity <= 0 {
		return
	}
	k := key{venue: ev.Venue, item: ev.Item()}

	a.mu.Lock()
	s, ok := a.series[k]
	if !ok {
		s = newSeries(a.cfg)
		a.series[k] = s
	}
	recorded := s.record(ev.At, historyv1.Trade(ev.Price, ev.Quantity))
	a.mu.Unlock()

	if !recorded {
		a.logger.Debug("settlement older than history ring dropped",
			logger.NewField("venue", ev.Venue),
			logger.NewField("item", ev.Item()),
			logger.NewField("at", ev.At),
		)
	}
}

// Point returns the bucket covering at.
func (a *Aggregator) Point(venue, item string, at time.Time) historyv1.Entry {
	a.mu.RLock()
	defer a.mu.RUnlock()

	s, ok := a.series[key{venue, item}]
	if !ok {
		return historyv1.Entry{}
	}
	return s.point(at)
}

// Window merges the buckets intersecting [from, to).
func (a *Aggregator) Window(venue, item string, from, to time.Time) historyv1.Entry {
	a.mu.RLock()
	defer a.mu.RUnlock()

	s, ok := a.series[key{venue, item}]
	if !ok {
		return historyv1.Entry{}
	}
	return s.window(from, to)
}

// PointAcross merges Point over venues.
func (a *Aggregator) PointAcross(venues []string, item string, at time.Time) historyv1.Entry {
	var out historyv1.Entry
	for _, v := range venues {
		out = historyv1.Merge(out, a.Point(v, item, at))
	}
	return out
}

// WindowAcross merges Window over venues.
func (a *Aggregator) WindowAcross(venues []string, item string, from, to time.Time) historyv1.Entry {
	var out historyv1.Entry
	for _, v := range venues {
		out = historyv1.Merge(out, a.Window(v, item, from, to))
	}
	return out
}

// Buckets returns the non-empty buckets of a venue-item pair, oldest first.
func (a *Aggregator) Buckets(venue, item string) []historyv1.Bucket {
	a.mu.RLock()
	defer a.mu.RUnlock()

	s, ok := a.series[key{venue, item}]
	if !ok {
		return nil
	}
	out := make([]historyv1.Bucket, 0, len(s.buckets))
	for _, b := range s.buckets {
		if !b.IsEmpty() {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}
