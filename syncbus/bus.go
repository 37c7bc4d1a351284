// Package syncbus keeps concurrently open client instances eventually
// consistent: an in-process event bus for same-instance listeners, a broadcast
// hub for other live instances, and a reconciliation poll as the liveness
// backstop when broadcasts are dropped.
package syncbus

import (
	"sync"

	"github.com/trezcool/darasa/core"
)

// Handler consumes one event. Dispatch is synchronous; keep handlers quick and
// push slow work onto their own goroutine.
type Handler func(evt core.Event)

type subscription struct {
	topic   string
	handler Handler
}

// Bus is an in-process publish/subscribe bus with guaranteed delivery to all
// currently registered subscribers and FIFO ordering per topic.
type Bus struct {
	mu   sync.Mutex
	subs map[string][]*subscription
}

var _ core.Publisher = (*Bus)(nil)

func NewBus() *Bus {
	return &Bus{subs: make(map[string][]*subscription)}
}

// Subscribe registers a handler for a topic and returns its unsubscribe func.
func (b *Bus) Subscribe(topic string, h Handler) (unsubscribe func()) {
	sub := &subscription{topic: topic, handler: h}
	b.mu.Lock()
	b.subs[topic] = append(b.subs[topic], sub)
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.subs[topic]
		for i, s := range subs {
			if s == sub {
				b.subs[topic] = append(subs[:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers evt to every subscriber of its topic, in registration
// order, before returning.
func (b *Bus) Publish(evt core.Event) {
	b.mu.Lock()
	subs := make([]*subscription, len(b.subs[evt.Topic]))
	copy(subs, b.subs[evt.Topic])
	b.mu.Unlock()

	for _, sub := range subs {
		sub.handler(evt)
	}
}
