package replication

import (
	"sync"
	"testing"

	ledgerv1 "github.com/muhammadchandra19/venue-ledger/internal/domain/ledger/v1"
	replicationv1 "github.com/muhammadchandra19/venue-ledger/internal/domain/replication/v1"
	"github.com/muhammadchandra19/venue-ledger/internal/usecase/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// overWire encodes ev the way the authority does and decodes it again.
func overWire(ev ledgerv1.ChangeEvent) (*replicationv1.Envelope, error) {
	env, err := replicationv1.NewEnvelope(replicationv1.TypeOrderChanged, ev.Venue, replicationv1.OrderChanged{
		Op:    ev.Op.String(),
		Order: replicationv1.FromOrder(ev.Order),
	})
	if err != nil {
		return nil, err
	}
	raw, err := env.Marshal()
	if err != nil {
		return nil, err
	}
	return replicationv1.UnmarshalEnvelope(raw)
}

// replicate feeds every change of l into m the way the wire would.
func replicate(t *testing.T, l *ledger.Ledger, m *Mirror) *[]*replicationv1.Envelope {
	t.Helper()
	var sent []*replicationv1.Envelope
	l.OnChange(func(ev ledgerv1.ChangeEvent) {
		decoded, err := overWire(ev)
		require.NoError(t, err)
		sent = append(sent, decoded)
		require.NoError(t, m.ApplyEnvelope(decoded))
	})
	return &sent
}

func TestMirror_FollowsLedger(t *testing.T) {
	l := ledger.NewLedger("north", ledger.WithClock(steppingClock()))
	m := NewMirror("north", nil)
	replicate(t, l, m)

	sell := l.CreateSell("bob", "iron", 10, 5)
	buy := l.CreateBuy("alice", "iron", 12, 3, 36)
	require.True(t, l.SolvePair(buy, sell).Traded())

	for _, id := range []ledgerv1.OrderID{buy, sell} {
		want, _ := l.Get(id)
		got, ok := m.Get(id)
		require.True(t, ok)
		assert.Equal(t, want.StoredItems, got.StoredItems)
		assert.Equal(t, want.StoredMoney, got.StoredMoney)
		assert.Equal(t, want.Remaining, got.Remaining)
		assert.True(t, want.CreatedAt.Equal(got.CreatedAt))
	}

	require.Equal(t, ledgerv1.CollectFullyCollectedAndRemoved, l.Collect(buy, func(n int64) int64 { return n }, func(n int64) int64 { return n }))
	_, ok := m.Get(buy)
	assert.False(t, ok)
	assert.Equal(t, 1, m.Len())
}

func TestMirror_ApplyIsIdempotent(t *testing.T) {
	l := ledger.NewLedger("north", ledger.WithClock(steppingClock()))
	m := NewMirror("north", nil)
	sent := replicate(t, l, m)

	id := l.CreateSell("bob", "iron", 10, 5)
	l.Cancel(id)
	before := m.Orders(nil, nil)

	for _, env := range *sent {
		require.NoError(t, m.ApplyEnvelope(env))
	}
	assert.Equal(t, before, m.Orders(nil, nil))

	removed := replicationv1.OrderChanged{Op: ledgerv1.OpBeforeRemoved.String(), Order: replicationv1.FromOrder(before[0])}
	require.NoError(t, m.Apply(removed))
	require.NoError(t, m.Apply(removed))
	assert.Equal(t, 0, m.Len())
}

func TestMirror_IgnoresOtherVenuesAndSettlements(t *testing.T) {
	m := NewMirror("north", nil)
	o := ledgerv1.Order{ID: ledgerv1.NotNullBit | 1, Kind: ledgerv1.KindSell, Item: "iron", Desired: 1, Remaining: 1, StoredItems: 1}

	other, err := replicationv1.NewEnvelope(replicationv1.TypeOrderChanged, "south",
		replicationv1.OrderChanged{Op: "create", Order: replicationv1.FromOrder(o)})
	require.NoError(t, err)
	require.NoError(t, m.ApplyEnvelope(other))
	assert.Equal(t, 0, m.Len())

	settled, err := replicationv1.NewEnvelope(replicationv1.TypeOrderSettledLocal, "north",
		replicationv1.OrderSettled{Buy: replicationv1.FromOrder(o), Sell: replicationv1.FromOrder(o)})
	require.NoError(t, err)
	require.NoError(t, m.ApplyEnvelope(settled))
	assert.Equal(t, 0, m.Len(), "settlements never create orders")

	bad := replicationv1.OrderChanged{Op: "teleport", Order: replicationv1.FromOrder(o)}
	assert.Error(t, m.Apply(bad))
}

func TestMirror_ConvergesWhenDeliveriesInterleave(t *testing.T) {
	l := ledger.NewLedger("north", ledger.WithClock(steppingClock()))
	m := NewMirror("north", nil)

	blocked := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	var mu sync.Mutex
	var delivered []ledgerv1.Op
	l.OnChange(func(ev ledgerv1.ChangeEvent) {
		if ev.Op == ledgerv1.OpEdit {
			once.Do(func() {
				close(blocked)
				<-release
			})
		}
		env, err := overWire(ev)
		if !assert.NoError(t, err) {
			return
		}
		mu.Lock()
		delivered = append(delivered, ev.Op)
		mu.Unlock()
		assert.NoError(t, m.ApplyEnvelope(env))
	})

	sell := l.CreateSell("bob", "iron", 10, 5)
	buy := l.CreateBuy("alice", "iron", 12, 3, 36)

	solved := make(chan ledgerv1.SolveResult)
	go func() { solved <- l.SolvePair(buy, sell) }()
	<-blocked

	// The settlement is applied but its edits are still in flight.
	all := func(n int64) int64 { return n }
	require.Equal(t, ledgerv1.CollectFullyCollectedAndRemoved, l.Collect(buy, all, all))
	close(release)
	require.True(t, (<-solved).Traded())

	mu.Lock()
	assert.Equal(t, []ledgerv1.Op{
		ledgerv1.OpCreate, ledgerv1.OpCreate,
		ledgerv1.OpCollect, ledgerv1.OpBeforeRemoved,
		ledgerv1.OpEdit, ledgerv1.OpEdit,
	}, delivered)
	mu.Unlock()

	_, ok := m.Get(buy)
	assert.False(t, ok, "late edit must not bring back a removed order")
	assert.Equal(t, l.Orders(nil), m.Orders(nil, nil))
}

func TestMirror_IgnoresStaleCopies(t *testing.T) {
	m := NewMirror("north", nil)
	older := ledgerv1.Order{ID: ledgerv1.NotNullBit | 1, Kind: ledgerv1.KindSell, Item: "iron", Price: 10, Desired: 5, Remaining: 5, StoredItems: 5, Version: 1}
	newer := older
	newer.Remaining, newer.StoredItems, newer.StoredMoney, newer.Version = 2, 2, 30, 3

	apply := func(op ledgerv1.Op, o ledgerv1.Order) {
		require.NoError(t, m.Apply(replicationv1.OrderChanged{Op: op.String(), Order: replicationv1.FromOrder(o)}))
	}

	apply(ledgerv1.OpEdit, newer)
	apply(ledgerv1.OpCreate, older)
	got, ok := m.Get(older.ID)
	require.True(t, ok)
	assert.Equal(t, uint64(3), got.Version)
	assert.Equal(t, int64(2), got.Remaining)

	require.NoError(t, m.ApplySettled(replicationv1.OrderSettled{
		Buy:  replicationv1.FromOrder(older),
		Sell: replicationv1.FromOrder(older),
	}))
	got, _ = m.Get(older.ID)
	assert.Equal(t, uint64(3), got.Version, "stale settlement ignored")

	fresher := newer
	fresher.Remaining, fresher.StoredItems, fresher.StoredMoney, fresher.Version = 1, 1, 40, 4
	require.NoError(t, m.ApplySettled(replicationv1.OrderSettled{
		Buy:  replicationv1.FromOrder(fresher),
		Sell: replicationv1.FromOrder(fresher),
	}))
	got, _ = m.Get(older.ID)
	assert.Equal(t, int64(1), got.Remaining)

	apply(ledgerv1.OpBeforeRemoved, fresher)
	apply(ledgerv1.OpEdit, fresher)
	_, ok = m.Get(older.ID)
	assert.False(t, ok)
}
