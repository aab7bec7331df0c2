package websocket

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	replicationv1 "github.com/muhammadchandra19/venue-ledger/internal/domain/replication/v1"
	"github.com/muhammadchandra19/venue-ledger/pkg/errors"
	"github.com/muhammadchandra19/venue-ledger/pkg/logger"
)

// Client is a connection to a Hub. It sends requests and hands every
// message it receives to a callback.
type Client struct {
	conn   *websocket.Conn
	logger *logger.Logger

	writeMu sync.Mutex
	done    chan struct{}
}

var _ replicationv1.Sender = (*Client)(nil)

// Dial connects to the hub at rawURL as principal. onMessage is called from
// the client's read goroutine, one message at a time.
func Dial(ctx context.Context, rawURL, principal string, onMessage func(*replicationv1.Envelope), log *logger.Logger) (*Client, error) {
	if log == nil {
		log = logger.NewNop()
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, errors.NewTracer("invalid_gateway_url").Wrap(err)
	}
	q := u.Query()
	q.Set("principal", principal)
	u.RawQuery = q.Encode()

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	header := make(http.Header)
	header.Set("User-Agent", "venue-ledger-client")

	conn, _, err := dialer.DialContext(ctx, u.String(), header)
	if err != nil {
		return nil, errors.NewTracer("gateway_dial_error").Wrap(err)
	}

	c := &Client{conn: conn, logger: log, done: make(chan struct{})}
	go c.readLoop(onMessage)
	return c, nil
}

// Send writes a request envelope.
func (c *Client) Send(ctx context.Context, env *replicationv1.Envelope) error {
	frame, err := env.Marshal()
	if err != nil {
		return errors.NewTracer("envelope_marshal_error").Wrap(err)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if deadline, ok := ctx.Deadline(); ok {
		if err := c.conn.SetWriteDeadline(deadline); err != nil {
			return err
		}
	}
	return c.conn.WriteMessage(websocket.TextMessage, frame)
}

// Done is closed once the connection is gone.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Close sends a close frame and closes the connection.
func (c *Client) Close() error {
	c.writeMu.Lock()
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	c.writeMu.Unlock()
	return c.conn.Close()
}

func (c *Client) readLoop(onMessage func(*replicationv1.Envelope)) {
	defer close(c.done)
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Warn("gateway connection lost", logger.NewField("error", err.Error()))
			}
			return
		}
		env, err := replicationv1.UnmarshalEnvelope(raw)
		if err != nil {
			c.logger.Debug("ignoring malformed frame", logger.NewField("size", len(raw)))
			continue
		}
		onMessage(env)
	}
}
