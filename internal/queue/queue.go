// Package queue implements the bounded, duplicate-suppressing send queue
// feeding the communication engine.
package queue

import (
	"context"
	"sync"

	"github.com/bft-labs/satelink/internal/domain"
)

// DefaultCapacity is the queue bound used by the module.
const DefaultCapacity = 10

// SendQueue is a FIFO of pending requests. A message equal to one already
// queued is not added twice. Put blocks while the queue is full.
//
// SendQueue is safe for any number of producers and one consumer.
type SendQueue struct {
	mu       sync.Mutex
	items    []domain.Message
	capacity int

	// One-slot wakeup signals. A send never blocks; waiters recheck state
	// under mu after waking.
	notEmpty chan struct{}
	notFull  chan struct{}
}

// New returns an empty queue holding at most capacity messages.
// A capacity below one means DefaultCapacity.
func New(capacity int) *SendQueue {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &SendQueue{
		items:    make([]domain.Message, 0, capacity),
		capacity: capacity,
		notEmpty: make(chan struct{}, 1),
		notFull:  make(chan struct{}, 1),
	}
}

// Capacity returns the queue bound.
func (q *SendQueue) Capacity() int {
	return q.capacity
}

// Put appends m unless an equal message is already queued. It blocks while
// the queue is full and returns false if ctx ends first.
func (q *SendQueue) Put(ctx context.Context, m domain.Message) bool {
	for {
		q.mu.Lock()
		room := len(q.items) < q.capacity
		if q.indexLocked(m) >= 0 {
			q.mu.Unlock()
			if room {
				signal(q.notFull)
			}
			return true
		}
		if room {
			q.items = append(q.items, m)
			more := len(q.items) < q.capacity
			q.mu.Unlock()
			signal(q.notEmpty)
			if more {
				signal(q.notFull)
			}
			return true
		}
		q.mu.Unlock()

		select {
		case <-q.notFull:
		case <-ctx.Done():
			return false
		}
	}
}

// Take removes and returns the head, blocking until one is available or ctx
// ends.
func (q *SendQueue) Take(ctx context.Context) (domain.Message, error) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			m := q.items[0]
			q.items[0] = domain.Message{}
			q.items = q.items[1:]
			more := len(q.items) > 0
			q.mu.Unlock()
			signal(q.notFull)
			if more {
				signal(q.notEmpty)
			}
			return m, nil
		}
		q.mu.Unlock()

		select {
		case <-q.notEmpty:
		case <-ctx.Done():
			return domain.Message{}, ctx.Err()
		}
	}
}

// PushFront returns m to the head of the queue. It is meant for a message the
// consumer took but could not send, so it may exceed the capacity by one.
// It reports false if an equal message is already queued.
func (q *SendQueue) PushFront(m domain.Message) bool {
	q.mu.Lock()
	if q.indexLocked(m) >= 0 {
		q.mu.Unlock()
		return false
	}
	q.items = append([]domain.Message{m}, q.items...)
	q.mu.Unlock()
	signal(q.notEmpty)
	return true
}

// Clear drops every queued message.
func (q *SendQueue) Clear() {
	q.mu.Lock()
	q.items = make([]domain.Message, 0, q.capacity)
	q.mu.Unlock()
	signal(q.notFull)
}

// Len returns the number of queued messages.
func (q *SendQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Contains reports whether a message equal to m is queued.
func (q *SendQueue) Contains(m domain.Message) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.indexLocked(m) >= 0
}

// Snapshot returns the queued messages, head first.
func (q *SendQueue) Snapshot() []domain.Message {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]domain.Message(nil), q.items...)
}

func (q *SendQueue) indexLocked(m domain.Message) int {
	for i, cur := range q.items {
		if cur.Equal(m) {
			return i
		}
	}
	return -1
}

func signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
