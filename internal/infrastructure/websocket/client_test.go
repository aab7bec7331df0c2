package websocket

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	replicationv1 "github.com/muhammadchandra19/venue-ledger/internal/domain/replication/v1"
)

func TestClient_RoundTrip(t *testing.T) {
	f := setupHub(t)

	var mu sync.Mutex
	var got []*replicationv1.Envelope
	c, err := Dial(context.Background(), "ws"+f.server.URL[len("http"):]+"/", "alice", func(env *replicationv1.Envelope) {
		mu.Lock()
		got = append(got, env)
		mu.Unlock()
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	req := envelope(t, replicationv1.TypeRequestCreateSell, replicationv1.CreateSellRequest{Inventory: "alice", Item: "iron", Price: 1, Quantity: 1})
	require.NoError(t, c.Send(context.Background(), req))
	require.Eventually(t, func() bool {
		sessions, _ := f.handler.received()
		return len(sessions) == 1
	}, time.Second, 5*time.Millisecond)

	sessions, _ := f.handler.received()
	reply := envelope(t, replicationv1.TypeValidationFailed, replicationv1.ValidationFailed{RequestID: req.ID})
	f.hub.SendTo(context.Background(), sessions[0], reply)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1
	}, time.Second, 5*time.Millisecond)
	mu.Lock()
	assert.Equal(t, reply.ID, got[0].ID)
	mu.Unlock()

	require.NoError(t, c.Close())
	select {
	case <-c.Done():
	case <-time.After(time.Second):
		t.Fatal("read loop did not stop")
	}
}
