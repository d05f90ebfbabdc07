// Package events is a small in-process publish/subscribe bus.
package events

import (
	"log/slog"
	"sync"
)

// Handler receives an event payload.
type Handler = func(payload any)

type subscription struct {
	id int
	fn Handler
}

// Bus delivers events synchronously, in subscription order, on the emitting goroutine.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string][]subscription
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: map[string][]subscription{}}
}

// Subscribe registers fn for name and returns a function that removes it.
func (b *Bus) Subscribe(name string, fn Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.subs[name] = append(b.subs[name], subscription{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(name, id) })
	}
}

func (b *Bus) remove(name string, id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := b.subs[name]
	for i, s := range subs {
		if s.id == id {
			b.subs[name] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(b.subs[name]) == 0 {
		delete(b.subs, name)
	}
}

// Emit calls every handler subscribed to name. A panicking handler is logged and
// does not stop delivery to the rest.
func (b *Bus) Emit(name string, payload any) {
	b.mu.RLock()
	subs := append([]subscription(nil), b.subs[name]...)
	b.mu.RUnlock()

	slog.Debug("event", "name", name, "subscribers", len(subs))
	for _, s := range subs {
		deliver(name, s.fn, payload)
	}
}

func deliver(name string, fn Handler, payload any) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("event handler panicked", "name", name, "panic", r)
		}
	}()
	fn(payload)
}
