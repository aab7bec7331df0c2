package websocket

import "sync"

// outbox queues frames for one connection. Reliable frames are never
// dropped; best-effort frames go through a small buffer and are discarded
// when it is full.
type outbox struct {
	mu       sync.Mutex
	reliable [][]byte
	closed   bool

	ready chan struct{}
	lossy chan []byte
}

func newOutbox(buffer int) *outbox {
	return &outbox{
		ready: make(chan struct{}, 1),
		lossy: make(chan []byte, max(buffer, 1)),
	}
}

// push queues a reliable frame without blocking.
func (o *outbox) push(frame []byte) bool {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return false
	}
	o.reliable = append(o.reliable, frame)
	o.mu.Unlock()

	select {
	case o.ready <- struct{}{}:
	default:
	}
	return true
}

// offer queues a best-effort frame if there is room.
func (o *outbox) offer(frame []byte) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return false
	}
	select {
	case o.lossy <- frame:
		return true
	default:
		return false
	}
}

// drain takes every queued reliable frame, oldest first.
func (o *outbox) drain() [][]byte {
	o.mu.Lock()
	defer o.mu.Unlock()
	frames := o.reliable
	o.reliable = nil
	return frames
}

func (o *outbox) close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed = true
	o.reliable = nil
}
