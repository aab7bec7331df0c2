package matching

import (
	"context"
	"testing"
	"time"

	ledgerv1 "github.com/muhammadchandra19/venue-ledger/internal/domain/ledger/v1"
	ledgermock "github.com/muhammadchandra19/venue-ledger/internal/domain/ledger/v1/mock"
	"github.com/muhammadchandra19/venue-ledger/internal/usecase/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"pgregory.net/rapid"
)

func steppingClock() func() time.Time {
	t := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Minute)
		return t
	}
}

func TestMatcher_Scenario(t *testing.T) {
	l := ledger.NewLedger("harbor", ledger.WithClock(steppingClock()))
	sell := l.CreateSell("seller", "iron", 10, 5)
	buy := l.CreateBuy("buyer", "iron", 12, 3, 36)

	result := NewMatcher(nil).Match(context.Background(), l, []string{"iron"})

	assert.Equal(t, 1, result.Solves)
	assert.Equal(t, 2, result.Passes)
	b, ok := l.Get(buy)
	require.True(t, ok)
	s, ok := l.Get(sell)
	require.True(t, ok)
	assert.Equal(t, int64(0), b.Remaining)
	assert.Equal(t, int64(2), s.Remaining)
	assert.Equal(t, int64(3), b.StoredItems)
	assert.Equal(t, int64(30), s.StoredMoney)
}

func TestMatcher_BestPriceThenAge(t *testing.T) {
	l := ledger.NewLedger("harbor", ledger.WithClock(steppingClock()))
	oldCheap := l.CreateSell("s1", "iron", 9, 1)
	newCheap := l.CreateSell("s2", "iron", 9, 1)
	dear := l.CreateSell("s3", "iron", 11, 1)
	buy := l.CreateBuy("buyer", "iron", 10, 1, 10)

	var settled []ledgerv1.SettlementEvent
	l.OnSettlement(func(ev ledgerv1.SettlementEvent) { settled = append(settled, ev) })

	result := NewMatcher(nil).Match(context.Background(), l, []string{"iron"})

	assert.Equal(t, 1, result.Solves)
	require.Len(t, settled, 1)
	assert.Equal(t, oldCheap, settled[0].Sell.ID)
	assert.Equal(t, buy, settled[0].Buy.ID)
	assert.Equal(t, int64(9), settled[0].Price)

	for _, id := range []ledgerv1.OrderID{newCheap, dear} {
		o, _ := l.Get(id)
		assert.Equal(t, int64(1), o.Remaining)
	}
}

func TestMatcher_OnlyTouchedItems(t *testing.T) {
	l := ledger.NewLedger("harbor", ledger.WithClock(steppingClock()))
	l.CreateSell("seller", "wood", 3, 4)
	wood := l.CreateBuy("buyer", "wood", 3, 4, 12)
	l.CreateSell("seller", "iron", 10, 1)
	l.CreateBuy("buyer", "iron", 10, 1, 10)

	result := NewMatcher(nil).Match(context.Background(), l, []string{"iron", "iron"})

	assert.Equal(t, 1, result.Solves)
	o, _ := l.Get(wood)
	assert.Equal(t, int64(4), o.Remaining)
}

func TestMatcher_DrainsDepth(t *testing.T) {
	l := ledger.NewLedger("harbor", ledger.WithClock(steppingClock()))
	for i := 0; i < 3; i++ {
		l.CreateSell("seller", "iron", int64(8+i), 2)
	}
	buy := l.CreateBuy("buyer", "iron", 10, 10, 100)

	result := NewMatcher(nil).Match(context.Background(), l, []string{"iron"})

	assert.Equal(t, 3, result.Solves)
	assert.Equal(t, 4, result.Passes)
	o, _ := l.Get(buy)
	assert.Equal(t, int64(4), o.Remaining)
	assert.Equal(t, int64(6), o.StoredItems)
}

func TestMatcher_WithMockBook(t *testing.T) {
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	buy := ledgerv1.Order{ID: ledgerv1.NotNullBit | 1, Kind: ledgerv1.KindBuy, Item: "iron", Price: 10, Desired: 1, Remaining: 1, StoredMoney: 10, CreatedAt: created, Sequence: 1}
	sell := ledgerv1.Order{ID: ledgerv1.NotNullBit | 2, Kind: ledgerv1.KindSell, Item: "iron", Price: 10, Desired: 1, Remaining: 1, StoredItems: 1, CreatedAt: created, Sequence: 2}
	filled := ledgerv1.Order{ID: ledgerv1.NotNullBit | 3, Kind: ledgerv1.KindBuy, Item: "iron", Price: 50, Desired: 1, CreatedAt: created, Sequence: 3}

	testCases := []struct {
		name        string
		orders      []ledgerv1.Order
		solveResult ledgerv1.SolveResult
		wantSolve   bool
		wantResult  Result
	}{
		{
			name:       "no sell side",
			orders:     []ledgerv1.Order{buy},
			wantResult: Result{Passes: 1},
		},
		{
			name:       "filled buy is skipped",
			orders:     []ledgerv1.Order{filled},
			wantResult: Result{Passes: 1},
		},
		{
			name:        "rejected solve drops the item",
			orders:      []ledgerv1.Order{filled, buy, sell},
			solveResult: ledgerv1.SolveWrongOrderType,
			wantSolve:   true,
			wantResult:  Result{Passes: 1},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			book := ledgermock.NewMockBook(ctrl)

			book.EXPECT().
				ForEach(gomock.Any(), gomock.Any()).
				DoAndReturn(func(filter *ledgerv1.Filter, fn func(ledgerv1.Order) bool) {
					assert.Equal(t, "iron", filter.Item)
					for _, o := range tc.orders {
						if !fn(o) {
							return
						}
					}
				}).
				Times(1)
			book.EXPECT().Venue().Return("harbor").AnyTimes()
			if tc.wantSolve {
				book.EXPECT().SolvePair(buy.ID, sell.ID).Return(tc.solveResult).Times(1)
			}

			result := NewMatcher(nil).Match(context.Background(), book, []string{"iron"})
			assert.Equal(t, tc.wantResult, result)
		})
	}
}

func TestMatcher_TerminatesWithoutCrossedPairs(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		l := ledger.NewLedger("harbor", ledger.WithClock(steppingClock()))
		items := []string{"iron", "wood", "salt"}

		n := rapid.IntRange(0, 40).Draw(t, "orders")
		for i := 0; i < n; i++ {
			item := rapid.SampledFrom(items).Draw(t, "item")
			price := rapid.Int64Range(1, 20).Draw(t, "price")
			quantity := rapid.Int64Range(1, 10).Draw(t, "quantity")
			if rapid.Bool().Draw(t, "buy") {
				l.CreateBuy("buyer", item, price, quantity, price*quantity)
			} else {
				l.CreateSell("seller", item, price, quantity)
			}
		}

		NewMatcher(nil).Match(context.Background(), l, items)

		for _, item := range items {
			var maxBuy, minSell int64 = -1, -1
			l.ForEach(&ledgerv1.Filter{Item: item}, func(o ledgerv1.Order) bool {
				if !o.IsLive() {
					return true
				}
				if o.Kind == ledgerv1.KindBuy && o.Price > maxBuy {
					maxBuy = o.Price
				}
				if o.Kind == ledgerv1.KindSell && (minSell < 0 || o.Price < minSell) {
					minSell = o.Price
				}
				return true
			})
			if maxBuy >= 0 && minSell >= 0 && maxBuy >= minSell {
				t.Fatalf("%s still crossed: buy %d >= sell %d", item, maxBuy, minSell)
			}
		}
	})
}
