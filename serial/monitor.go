package serial

import (
	"sync"
	"time"
)

// Monitor lets the receive loop wait for an unsolicited event (new data on
// the line, or a CMTI "new SMS" notification) without polling the port
// directly.
type Monitor interface {
	WaitEvent(timeout time.Duration) Event
	Reset()
	Notify(Event)
}

// ChannelMonitor is the default Monitor: a single-slot event channel, reset
// between waits so a stale notification never leaks into the next one.
type ChannelMonitor struct {
	mu oneEventQueue
}

// NewChannelMonitor returns a ready-to-use ChannelMonitor.
func NewChannelMonitor() *ChannelMonitor {
	return &ChannelMonitor{mu: oneEventQueue{ch: make(chan Event, 1)}}
}

// Notify records an event for the next WaitEvent call, overwriting any
// event that was notified but never consumed.
func (m *ChannelMonitor) Notify(e Event) { m.mu.push(e) }

// Reset discards any pending, unconsumed event.
func (m *ChannelMonitor) Reset() { m.mu.drain() }

// WaitEvent blocks until an event is notified or timeout elapses.
func (m *ChannelMonitor) WaitEvent(timeout time.Duration) Event {
	select {
	case e := <-m.mu.ch:
		return e
	case <-time.After(timeout):
		return Timeout
	}
}

// oneEventQueue is a channel-backed single-slot mailbox: pushing replaces
// any value already waiting to be read.
type oneEventQueue struct {
	mu sync.Mutex
	ch chan Event
}

func (q *oneEventQueue) push(e Event) {
	q.mu.Lock()
	defer q.mu.Unlock()
	select {
	case <-q.ch:
	default:
	}
	q.ch <- e
}

func (q *oneEventQueue) drain() {
	q.mu.Lock()
	defer q.mu.Unlock()
	select {
	case <-q.ch:
	default:
	}
}
