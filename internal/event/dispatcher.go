// Package event fans decoded domain events out to subscribers.
package event

import (
	"reflect"
	"sync"

	"github.com/bft-labs/satelink/internal/domain"
)

// Listener receives published events.
type Listener interface {
	OnEvent(e domain.Event)
}

type funcListener struct {
	fn func(domain.Event)
}

func (f *funcListener) OnEvent(e domain.Event) { f.fn(e) }

// Func adapts fn into a Listener. Each call returns a distinct listener that
// can later be passed to Unsubscribe.
func Func(fn func(domain.Event)) Listener {
	return &funcListener{fn: fn}
}

// Dispatcher delivers each published event to every subscribed listener,
// synchronously and in subscription order.
type Dispatcher struct {
	mu        sync.Mutex
	listeners []Listener
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Subscribe appends l. Subscribing the same listener twice delivers every
// event to it twice.
func (d *Dispatcher) Subscribe(l Listener) {
	if l == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners = append(d.listeners, l)
}

// Unsubscribe removes the first registration of l. Unknown listeners are
// ignored, and so are listeners whose dynamic type is not comparable: wrap
// those with Func or subscribe a pointer instead.
func (d *Dispatcher) Unsubscribe(l Listener) {
	if l == nil || !reflect.TypeOf(l).Comparable() {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, cur := range d.listeners {
		if cur == l {
			next := make([]Listener, 0, len(d.listeners)-1)
			next = append(next, d.listeners[:i]...)
			d.listeners = append(next, d.listeners[i+1:]...)
			return
		}
	}
}

// Publish delivers e to a snapshot of the listeners taken at call time.
// Listeners may subscribe or unsubscribe from inside OnEvent; the change
// applies from the next Publish.
func (d *Dispatcher) Publish(e domain.Event) {
	d.mu.Lock()
	snapshot := d.listeners
	d.mu.Unlock()

	for _, l := range snapshot {
		l.OnEvent(e)
	}
}

// Len returns the number of registrations.
func (d *Dispatcher) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.listeners)
}
