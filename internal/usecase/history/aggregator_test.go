package history

import (
	"testing"
	"time"

	historyv1 "github.com/muhammadchandra19/venue-ledger/internal/domain/history/v1"
	ledgerv1 "github.com/muhammadchandra19/venue-ledger/internal/domain/ledger/v1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func settlement(venue, item string, price, quantity int64, at time.Time) ledgerv1.SettlementEvent {
	return ledgerv1.SettlementEvent{
		Venue:     venue,
		BuyVenue:  venue,
		SellVenue: venue,
		Buy:       ledgerv1.Order{Item: item},
		Sell:      ledgerv1.Order{Item: item},
		Price:     price,
		Quantity:  quantity,
		At:        at,
	}
}

func newTestAggregator(t *testing.T, cfg historyv1.Config) *Aggregator {
	t.Helper()
	a, err := NewAggregator(cfg, nil)
	require.NoError(t, err)
	return a
}

func TestNewAggregator_InvalidConfig(t *testing.T) {
	_, err := NewAggregator(historyv1.Config{}, nil)
	assert.Error(t, err)
}

func TestAggregator_RecordAndPoint(t *testing.T) {
	a := newTestAggregator(t, historyv1.DefaultConfig())

	a.Record(settlement("north", "iron", 10, 2, day.Add(time.Hour)))
	a.Record(settlement("north", "iron", 16, 1, day.Add(2*time.Hour)))
	a.Record(settlement("north", "iron", 8, 1, day.Add(7*time.Hour)))

	first := a.Point("north", "iron", day.Add(5*time.Hour))
	assert.Equal(t, 3.0, first.Volume)
	assert.Equal(t, int64(10), first.Min)
	assert.Equal(t, int64(16), first.Max)
	assert.InDelta(t, 12.0, first.Mean, 1e-9)

	second := a.Point("north", "iron", day.Add(6*time.Hour))
	assert.Equal(t, historyv1.Trade(8, 1), second)

	assert.True(t, a.Point("north", "iron", day.Add(13*time.Hour)).IsEmpty())
	assert.True(t, a.Point("north", "wood", day).IsEmpty())
	assert.True(t, a.Point("south", "iron", day).IsEmpty())
}

func TestAggregator_RingEviction(t *testing.T) {
	cfg := historyv1.Config{Buckets: 4, Width: time.Hour}
	a := newTestAggregator(t, cfg)

	a.Record(settlement("north", "iron", 10, 1, day))
	a.Record(settlement("north", "iron", 20, 1, day.Add(4*time.Hour)))

	assert.True(t, a.Point("north", "iron", day).IsEmpty())
	assert.Equal(t, historyv1.Trade(20, 1), a.Point("north", "iron", day.Add(4*time.Hour)))

	// A late trade for the evicted slot is dropped.
	a.Record(settlement("north", "iron", 30, 1, day.Add(30*time.Minute)))
	assert.Equal(t, historyv1.Trade(20, 1), a.Point("north", "iron", day.Add(4*time.Hour)))
	assert.Len(t, a.Buckets("north", "iron"), 1)
}

func TestAggregator_Window(t *testing.T) {
	cfg := historyv1.Config{Buckets: 10, Width: time.Hour}
	a := newTestAggregator(t, cfg)

	a.Record(settlement("north", "iron", 10, 4, day.Add(10*time.Minute)))
	a.Record(settlement("north", "iron", 20, 2, day.Add(70*time.Minute)))

	full := a.Window("north", "iron", day, day.Add(2*time.Hour))
	assert.Equal(t, 6.0, full.Volume)
	assert.InDelta(t, 40.0/3.0, full.Mean, 1e-9)

	half := a.Window("north", "iron", day.Add(30*time.Minute), day.Add(2*time.Hour))
	assert.InDelta(t, 4.0, half.Volume, 1e-9)
	assert.Equal(t, int64(10), half.Min)
	assert.Equal(t, int64(20), half.Max)
	assert.InDelta(t, 15.0, half.Mean, 1e-9)

	assert.True(t, a.Window("north", "iron", day.Add(2*time.Hour), day).IsEmpty())
}

func TestAggregator_Across(t *testing.T) {
	a := newTestAggregator(t, historyv1.DefaultConfig())
	at := day.Add(time.Hour)

	a.Record(settlement("north", "iron", 10, 1, at))
	a.Record(settlement("south", "iron", 30, 3, at))

	point := a.PointAcross([]string{"north", "south", "west"}, "iron", at)
	assert.Equal(t, 4.0, point.Volume)
	assert.Equal(t, int64(10), point.Min)
	assert.Equal(t, int64(30), point.Max)
	assert.InDelta(t, 25.0, point.Mean, 1e-9)

	window := a.WindowAcross([]string{"north", "south"}, "iron", day, day.Add(6*time.Hour))
	assert.Equal(t, point, window)
}

type fakeSource struct {
	hooks []func(ledgerv1.SettlementEvent)
}

func (f *fakeSource) OnSettlement(fn func(ledgerv1.SettlementEvent)) {
	f.hooks = append(f.hooks, fn)
}

func TestAggregator_Attach(t *testing.T) {
	a := newTestAggregator(t, historyv1.DefaultConfig())
	src := &fakeSource{}
	a.Attach(src)
	require.Len(t, src.hooks, 1)

	src.hooks[0](settlement("north", "iron", 10, 2, day))
	src.hooks[0](settlement("north", "iron", 10, 0, day))

	assert.Equal(t, 2.0, a.Point("north", "iron", day).Volume)
}
