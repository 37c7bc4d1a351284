package syncbus

import (
	"sync"

	"github.com/google/uuid"

	"github.com/trezcool/darasa/core"
)

type (
	// Broadcast is a cross-instance notification channel with at-least-once,
	// unordered delivery to every *other* live instance. Instances attached
	// after a publish never see it; they rely on the reconciliation poll.
	Broadcast interface {
		Publish(evt core.Event)
		Listen(h Handler) (stop func())
		Close()
	}

	// MemBroadcast is a shared in-memory hub connecting the instances of one
	// process. It mimics a same-origin key-value channel: a publish writes the
	// event's wire key and notifies all other attached instances.
	MemBroadcast struct {
		mu        sync.RWMutex
		instances map[string]*Instance
		lastKey   string // last written well-known key; advisory, for debugging
	}

	// Instance is one client's handle on the hub.
	Instance struct {
		id  string
		hub *MemBroadcast

		mu       sync.Mutex
		handlers []Handler
		closed   bool
	}
)

var _ Broadcast = (*Instance)(nil)

func NewMemBroadcast() *MemBroadcast {
	return &MemBroadcast{instances: make(map[string]*Instance)}
}

// Attach registers a new client instance on the hub.
func (b *MemBroadcast) Attach() *Instance {
	ins := &Instance{id: uuid.New().String(), hub: b}
	b.mu.Lock()
	b.instances[ins.id] = ins
	b.mu.Unlock()
	return ins
}

// LastKey returns the most recently written wire key.
func (b *MemBroadcast) LastKey() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastKey
}

func (b *MemBroadcast) publish(senderID, key string) {
	b.mu.Lock()
	b.lastKey = key
	targets := make([]*Instance, 0, len(b.instances))
	for id, ins := range b.instances {
		if id != senderID { // the writer never hears its own broadcast
			targets = append(targets, ins)
		}
	}
	b.mu.Unlock()

	evt, err := core.ParseEventKey(key)
	if err != nil {
		return // malformed keys are dropped
	}
	for _, ins := range targets {
		ins := ins
		go ins.deliver(evt) // unordered relative to other keys
	}
}

// Publish writes the event to the shared channel, notifying all other
// attached instances at least once.
func (ins *Instance) Publish(evt core.Event) {
	ins.hub.publish(ins.id, evt.Key())
}

// Listen registers a handler for events published by other instances.
func (ins *Instance) Listen(h Handler) (stop func()) {
	ins.mu.Lock()
	ins.handlers = append(ins.handlers, h)
	i := len(ins.handlers) - 1
	ins.mu.Unlock()

	return func() {
		ins.mu.Lock()
		defer ins.mu.Unlock()
		if i < len(ins.handlers) {
			ins.handlers[i] = nil
		}
	}
}

func (ins *Instance) deliver(evt core.Event) {
	ins.mu.Lock()
	if ins.closed {
		ins.mu.Unlock()
		return
	}
	handlers := make([]Handler, len(ins.handlers))
	copy(handlers, ins.handlers)
	ins.mu.Unlock()

	for _, h := range handlers {
		if h != nil {
			h(evt)
		}
	}
}

// Close detaches the instance from the hub; a closed instance neither sends
// nor receives.
func (ins *Instance) Close() {
	ins.mu.Lock()
	ins.closed = true
	ins.handlers = nil
	ins.mu.Unlock()

	ins.hub.mu.Lock()
	delete(ins.hub.instances, ins.id)
	ins.hub.mu.Unlock()
}
