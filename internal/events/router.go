package events

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

// DefaultBufferSize is the default channel buffer size for subscribers.
const DefaultBufferSize = 100

// Emitter publishes events. The lifecycle controller depends on this
// rather than on Router so tests can record events directly.
type Emitter interface {
	Emit(event Event)
}

// Router manages event flow from the controller to its consumers.
// Producers emit events and every subscriber receives its own copy
// through a buffered channel.
type Router struct {
	subscribers []chan Event
	bufferSize  int
	mu          sync.RWMutex
	closed      bool
	dropped     atomic.Int64
	logger      *slog.Logger
}

// NewRouter creates a new event router with the specified default buffer size.
// If bufferSize is 0 or negative, DefaultBufferSize is used.
func NewRouter(bufferSize int) *Router {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &Router{
		bufferSize: bufferSize,
		logger:     slog.Default(),
	}
}

// SetLogger replaces the logger used for drop warnings.
func (r *Router) SetLogger(logger *slog.Logger) {
	if logger != nil {
		r.logger = logger
	}
}

// Emit publishes an event to all subscribers.
// Delivery is non-blocking: a subscriber whose channel is full misses the
// event and the drop is counted. Tick events are dropped silently since the
// next tick supersedes them; anything else is logged.
// Emit is safe to call concurrently and after Close (becomes a no-op).
func (r *Router) Emit(event Event) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return
	}

	for _, ch := range r.subscribers {
		select {
		case ch <- event:
		default:
			r.dropped.Add(1)
			if event.Type() != EventTimerTick {
				r.logger.Warn("event dropped: subscriber channel full",
					"event_type", event.Type(),
					"source", event.Source(),
				)
			}
		}
	}
}

// Subscribe returns a channel that receives all emitted events.
// The channel has the router's default buffer size.
// The returned channel is closed when the router is closed.
func (r *Router) Subscribe() <-chan Event {
	return r.SubscribeBuffered(r.bufferSize)
}

// SubscribeBuffered returns a channel with the specified buffer size.
// The returned channel is closed when the router is closed.
func (r *Router) SubscribeBuffered(size int) <-chan Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		ch := make(chan Event)
		close(ch)
		return ch
	}

	ch := make(chan Event, size)
	r.subscribers = append(r.subscribers, ch)
	return ch
}

// Unsubscribe removes a subscription and closes its channel.
// It is safe to call with a channel that was never subscribed or already unsubscribed.
func (r *Router) Unsubscribe(ch <-chan Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, sub := range r.subscribers {
		if sub == ch {
			r.subscribers = append(r.subscribers[:i], r.subscribers[i+1:]...)
			close(sub)
			return
		}
	}
}

// Dropped returns how many deliveries were skipped because a subscriber was full.
func (r *Router) Dropped() int64 {
	return r.dropped.Load()
}

// Close closes all subscriber channels and marks the router as closed.
// Subsequent calls to Emit become no-ops and Subscribe returns closed channels.
// Close is safe to call multiple times.
func (r *Router) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}

	r.closed = true
	for _, ch := range r.subscribers {
		close(ch)
	}
	r.subscribers = nil
}
