package syncbus

import "github.com/trezcool/darasa/core"

// Fanout publishes every event to the local bus and, when attached, to the
// cross-instance broadcast. Mutating services publish here so that both the
// writer's own views and other live instances are notified.
type Fanout struct {
	Bus       *Bus
	Broadcast Broadcast
}

var _ core.Publisher = (*Fanout)(nil)

func NewFanout(bus *Bus, broadcast Broadcast) *Fanout {
	return &Fanout{Bus: bus, Broadcast: broadcast}
}

func (f *Fanout) Publish(evt core.Event) {
	if f.Bus != nil {
		f.Bus.Publish(evt)
	}
	if f.Broadcast != nil {
		f.Broadcast.Publish(evt)
	}
}
