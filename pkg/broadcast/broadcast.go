// Package broadcast is a tiny in-process publish/subscribe channel for named
// events. It lets deeply nested code announce that something happened (for
// example that the session is dead) without holding a reference to whoever
// has to react.
package broadcast

import "sync"

// EventLogout announces that the session ended and every consumer must treat
// the user as anonymous.
const EventLogout = "auth:logout"

// Handler reacts to a published event.
type Handler func()

// Broadcaster fans published events out to their subscribers. The zero value
// is not usable; use New.
type Broadcaster struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[string]map[uint64]Handler
}

// New returns a Broadcaster with no subscribers.
func New() *Broadcaster {
	return &Broadcaster{
		subs: map[string]map[uint64]Handler{},
	}
}

// Subscribe registers a handler for the named event. The returned function
// removes the subscription and may be called any number of times.
func (b *Broadcaster) Subscribe(event string, handler Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	if _, ok := b.subs[event]; !ok {
		b.subs[event] = map[uint64]Handler{}
	}
	b.subs[event][id] = handler
	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs[event], id)
			if len(b.subs[event]) == 0 {
				delete(b.subs, event)
			}
		})
	}
}

// Publish synchronously invokes every handler subscribed to the named event.
// Handlers run outside the Broadcaster's lock, so they may themselves
// subscribe, unsubscribe or publish. Publishing an event nobody listens for is
// a no-op.
func (b *Broadcaster) Publish(event string) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs[event]))
	for _, handler := range b.subs[event] {
		handlers = append(handlers, handler)
	}
	b.mu.RUnlock()
	for _, handler := range handlers {
		handler()
	}
}

// Subscribers returns the number of handlers subscribed to the named event.
func (b *Broadcaster) Subscribers(event string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[event])
}
