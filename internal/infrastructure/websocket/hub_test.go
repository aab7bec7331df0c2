package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	replicationv1 "github.com/muhammadchandra19/venue-ledger/internal/domain/replication/v1"
	"github.com/muhammadchandra19/venue-ledger/internal/infrastructure/inmem"
)

type recordingHandler struct {
	mu       sync.Mutex
	sessions []string
	types    []replicationv1.MessageType
}

func (r *recordingHandler) Handle(_ context.Context, session string, env *replicationv1.Envelope) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions = append(r.sessions, session)
	r.types = append(r.types, env.Type)
	return nil
}

func (r *recordingHandler) received() ([]string, []replicationv1.MessageType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.sessions...), append([]replicationv1.MessageType(nil), r.types...)
}

type hubFixture struct {
	hub      *Hub
	handler  *recordingHandler
	sessions *inmem.Sessions
	server   *httptest.Server
}

func setupHub(t *testing.T, opts ...Option) *hubFixture {
	t.Helper()
	f := &hubFixture{handler: &recordingHandler{}, sessions: inmem.NewSessions()}
	f.hub = NewHub(f.handler, f.sessions, opts...)
	f.server = httptest.NewServer(f.hub)
	t.Cleanup(func() {
		f.hub.Close()
		f.server.Close()
	})
	return f
}

func (f *hubFixture) dial(t *testing.T, principal string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/?principal=" + principal
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.Eventually(t, func() bool { return f.hub.Sessions() > 0 }, time.Second, 5*time.Millisecond)
	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) *replicationv1.Envelope {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	env, err := replicationv1.UnmarshalEnvelope(raw)
	require.NoError(t, err)
	return env
}

func envelope(t *testing.T, typ replicationv1.MessageType, payload any) *replicationv1.Envelope {
	t.Helper()
	env, err := replicationv1.NewEnvelope(typ, "north", payload)
	require.NoError(t, err)
	return env
}

func TestHub_RequiresPrincipal(t *testing.T) {
	f := setupHub(t)
	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/"

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHub_SendsStateThenBroadcasts(t *testing.T) {
	state := envelope(t, replicationv1.TypeOrderChanged, replicationv1.OrderChanged{Op: "create"})
	f := setupHub(t, WithState(func(context.Context) ([]*replicationv1.Envelope, error) {
		return []*replicationv1.Envelope{state}, nil
	}))
	conn := f.dial(t, "alice")

	assert.Equal(t, state.ID, readEnvelope(t, conn).ID)

	live := envelope(t, replicationv1.TypeOrderSettledLocal, replicationv1.OrderSettled{Price: 4})
	f.hub.Broadcast(context.Background(), live)
	assert.Equal(t, live.ID, readEnvelope(t, conn).ID)
}

func TestHub_ForwardsRequestsWithSession(t *testing.T) {
	f := setupHub(t)
	conn := f.dial(t, "alice")

	req := envelope(t, replicationv1.TypeRequestCancel, replicationv1.CancelRequest{OrderID: "8000000000000001"})
	raw, err := req.Marshal()
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, raw))

	notRequest := envelope(t, replicationv1.TypeOrderChanged, replicationv1.OrderChanged{})
	raw, err = notRequest.Marshal()
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, raw))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))

	require.Eventually(t, func() bool {
		sessions, _ := f.handler.received()
		return len(sessions) == 1
	}, time.Second, 5*time.Millisecond)

	sessions, types := f.handler.received()
	assert.Equal(t, []replicationv1.MessageType{replicationv1.TypeRequestCancel}, types)

	principal, err := f.sessions.Principal(context.Background(), sessions[0])
	require.NoError(t, err)
	assert.Equal(t, "alice", principal)

	reply := envelope(t, replicationv1.TypeValidationFailed, replicationv1.ValidationFailed{RequestID: req.ID})
	f.hub.SendTo(context.Background(), sessions[0], reply)
	f.hub.SendTo(context.Background(), "nobody", reply)
	assert.Equal(t, reply.ID, readEnvelope(t, conn).ID)
}

func TestHub_DisconnectForgetsSession(t *testing.T) {
	f := setupHub(t)
	conn := f.dial(t, "alice")

	req := envelope(t, replicationv1.TypeRequestCancel, replicationv1.CancelRequest{})
	raw, err := req.Marshal()
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, raw))
	require.Eventually(t, func() bool {
		sessions, _ := f.handler.received()
		return len(sessions) == 1
	}, time.Second, 5*time.Millisecond)
	sessions, _ := f.handler.received()

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return f.hub.Sessions() == 0 }, time.Second, 5*time.Millisecond)

	_, err = f.sessions.Principal(context.Background(), sessions[0])
	assert.Error(t, err)
}
