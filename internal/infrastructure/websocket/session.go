package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

type session struct {
	id        string
	principal string
	conn      *websocket.Conn
	out       *outbox
	done      chan struct{}
	closeOnce sync.Once
}

// write is only called from the session's write loop.
func (s *session) write(frame []byte, timeout time.Duration) error {
	if timeout > 0 {
		if err := s.conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
			return err
		}
	}
	return s.conn.WriteMessage(websocket.TextMessage, frame)
}
