package replication

import (
	"testing"

	"github.com/muhammadchandra19/venue-ledger/internal/usecase/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateOf_CatchesUpFreshMirror(t *testing.T) {
	l := ledger.NewLedger("north", ledger.WithClock(steppingClock()))
	l.CreateSell("bob", "iron", 10, 5)
	l.CreateBuy("alice", "gold", 3, 2, 6)
	l.Cancel(l.CreateSell("bob", "wood", 1, 1))

	envs, err := StateOf(l)
	require.NoError(t, err)
	require.Len(t, envs, 3)

	m := NewMirror("north", nil)
	for _, env := range envs {
		require.NoError(t, m.ApplyEnvelope(env))
	}
	assert.Equal(t, l.Orders(nil), m.Orders(nil, nil))
}
