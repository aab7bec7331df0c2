package websocket

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/oklog/ulid/v2"

	replicationv1 "github.com/muhammadchandra19/venue-ledger/internal/domain/replication/v1"
	"github.com/muhammadchandra19/venue-ledger/pkg/errors"
	"github.com/muhammadchandra19/venue-ledger/pkg/logger"
	"github.com/muhammadchandra19/venue-ledger/pkg/util"
)

// RequestHandler processes a request envelope sent by a session.
type RequestHandler interface {
	Handle(ctx context.Context, session string, env *replicationv1.Envelope) error
}

// HandlerFunc adapts a function to RequestHandler.
type HandlerFunc func(ctx context.Context, session string, env *replicationv1.Envelope) error

func (f HandlerFunc) Handle(ctx context.Context, session string, env *replicationv1.Envelope) error {
	return f(ctx, session, env)
}

// SessionBinder records which principal opened a session.
type SessionBinder interface {
	Bind(session, principal string)
	Forget(session string)
}

// StateFunc returns the messages a new session receives before it joins
// the broadcast stream.
type StateFunc func(ctx context.Context) ([]*replicationv1.Envelope, error)

// Option configures a Hub.
type Option func(*Hub)

// WithSendBuffer sizes the per-connection best-effort buffer.
func WithSendBuffer(n int) Option {
	return func(h *Hub) { h.sendBuffer = n }
}

// WithWriteTimeout bounds a single frame write.
func WithWriteTimeout(d time.Duration) Option {
	return func(h *Hub) { h.writeTimeout = d }
}

// WithState sets the catch-up messages sent on connect.
func WithState(fn StateFunc) Option {
	return func(h *Hub) { h.state = fn }
}

// WithOnConnect sets a hook run after a session is bound and before it
// receives anything.
func WithOnConnect(fn func(ctx context.Context, session, principal string)) Option {
	return func(h *Hub) { h.onConnect = fn }
}

// WithLogger sets the logger.
func WithLogger(log *logger.Logger) Option {
	return func(h *Hub) { h.logger = log }
}

// Hub accepts client connections, forwards their requests to a handler and
// delivers authority messages back to them.
type Hub struct {
	handler      RequestHandler
	binder       SessionBinder
	state        StateFunc
	onConnect    func(ctx context.Context, session, principal string)
	logger       *logger.Logger
	upgrader     websocket.Upgrader
	sendBuffer   int
	writeTimeout time.Duration

	mu       sync.RWMutex
	sessions map[string]*session
	wg       sync.WaitGroup
}

var _ replicationv1.Broadcaster = (*Hub)(nil)

// NewHub creates a hub. Requests are passed to handler; sessions are bound
// to the principal named at handshake.
func NewHub(handler RequestHandler, binder SessionBinder, opts ...Option) *Hub {
	h := &Hub{
		handler:      handler,
		binder:       binder,
		logger:       logger.NewNop(),
		sendBuffer:   16,
		writeTimeout: 10 * time.Second,
		sessions:     make(map[string]*session),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ServeHTTP upgrades the request. The principal is taken from the
// "principal" query parameter.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	principal := r.URL.Query().Get("principal")
	if principal == "" {
		http.Error(w, "principal is required", http.StatusUnauthorized)
		return
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", logger.NewField("error", err.Error()))
		return
	}

	s := &session{
		id:        ulid.Make().String(),
		principal: principal,
		conn:      conn,
		out:       newOutbox(h.sendBuffer),
		done:      make(chan struct{}),
	}
	ctx := util.WithSessionID(context.Background(), s.id)

	h.binder.Bind(s.id, principal)
	if h.onConnect != nil {
		h.onConnect(ctx, s.id, principal)
	}

	// Broadcasts wait until the catch-up state is queued so the session sees
	// every later change after it.
	h.mu.Lock()
	if h.state != nil {
		envs, err := h.state(ctx)
		if err != nil {
			h.logger.ErrorContext(ctx, errors.NewTracer("session_state_error").Wrap(err))
		}
		for _, env := range envs {
			h.deliver(ctx, s, env)
		}
	}
	h.sessions[s.id] = s
	h.mu.Unlock()

	h.logger.InfoContext(ctx, "session connected", logger.NewField("principal", principal))

	h.wg.Add(2)
	go h.writeLoop(ctx, s)
	go h.readLoop(ctx, s)
}

// Broadcast delivers env to every connected session.
func (h *Hub) Broadcast(ctx context.Context, env *replicationv1.Envelope) {
	h.mu.RLock()
	targets := make([]*session, 0, len(h.sessions))
	for _, s := range h.sessions {
		targets = append(targets, s)
	}
	h.mu.RUnlock()

	for _, s := range targets {
		h.deliver(ctx, s, env)
	}
}

// SendTo delivers env to one session. Unknown sessions are ignored.
func (h *Hub) SendTo(ctx context.Context, id string, env *replicationv1.Envelope) {
	h.mu.RLock()
	s, ok := h.sessions[id]
	h.mu.RUnlock()
	if ok {
		h.deliver(ctx, s, env)
	}
}

func (h *Hub) deliver(ctx context.Context, s *session, env *replicationv1.Envelope) {
	frame, err := env.Marshal()
	if err != nil {
		h.logger.ErrorContext(ctx, errors.NewTracer("envelope_marshal_error").Wrap(err), logger.NewField("type", string(env.Type)))
		return
	}
	if env.Type.Reliable() {
		s.out.push(frame)
		return
	}
	if !s.out.offer(frame) {
		h.logger.DebugContext(ctx, "best-effort message dropped",
			logger.NewField("session", s.id),
			logger.NewField("type", string(env.Type)),
		)
	}
}

// Sessions returns the number of connected sessions.
func (h *Hub) Sessions() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Close disconnects every session and waits for their loops to end.
func (h *Hub) Close() {
	h.mu.RLock()
	for _, s := range h.sessions {
		s.conn.Close()
	}
	h.mu.RUnlock()
	h.wg.Wait()
}

func (h *Hub) disconnect(ctx context.Context, s *session) {
	s.closeOnce.Do(func() {
		h.mu.Lock()
		delete(h.sessions, s.id)
		h.mu.Unlock()

		h.binder.Forget(s.id)
		s.out.close()
		close(s.done)
		s.conn.Close()
		h.logger.InfoContext(ctx, "session disconnected", logger.NewField("principal", s.principal))
	})
}

func (h *Hub) readLoop(ctx context.Context, s *session) {
	defer h.wg.Done()
	defer h.disconnect(ctx, s)

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.WarnContext(ctx, "websocket read failed", logger.NewField("error", err.Error()))
			}
			return
		}

		env, err := replicationv1.UnmarshalEnvelope(raw)
		if err != nil || !env.Type.IsRequest() {
			h.logger.DebugContext(ctx, "ignoring malformed frame", logger.NewField("size", len(raw)))
			continue
		}
		reqCtx := util.WithRequestID(ctx, env.ID)
		if err := h.handler.Handle(reqCtx, s.id, env); err != nil {
			h.logger.DebugContext(reqCtx, "request rejected", logger.NewField("code", errors.CodeOf(err)))
		}
	}
}

func (h *Hub) writeLoop(ctx context.Context, s *session) {
	defer h.wg.Done()
	defer h.disconnect(ctx, s)

	for {
		select {
		case <-s.done:
			return
		case <-s.out.ready:
			for _, frame := range s.out.drain() {
				if err := s.write(frame, h.writeTimeout); err != nil {
					h.logger.WarnContext(ctx, "websocket write failed", logger.NewField("error", err.Error()))
					return
				}
			}
		case frame := <-s.out.lossy:
			if err := s.write(frame, h.writeTimeout); err != nil {
				h.logger.WarnContext(ctx, "websocket write failed", logger.NewField("error", err.Error()))
				return
			}
		}
	}
}
