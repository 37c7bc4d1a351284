package syncbus

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/darasa/core"
)

type recorder struct {
	mu   sync.Mutex
	evts []core.Event
}

func (r *recorder) handle(evt core.Event) {
	r.mu.Lock()
	r.evts = append(r.evts, evt)
	r.mu.Unlock()
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.evts)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestMemBroadcast_deliversToOthersNotWriter(t *testing.T) {
	hub := NewMemBroadcast()
	a := hub.Attach()
	b := hub.Attach()
	c := hub.Attach()
	defer a.Close()
	defer b.Close()
	defer c.Close()

	var recA, recB, recC recorder
	a.Listen(recA.handle)
	b.Listen(recB.handle)
	c.Listen(recC.handle)

	a.Publish(core.NewEvent(core.TopicCourseDeleted, "crs_1"))

	waitFor(t, func() bool { return recB.count() == 1 && recC.count() == 1 })
	assert.Equal(t, 0, recA.count(), "the writer never hears its own broadcast")
}

func TestMemBroadcast_wireKeyIsParsed(t *testing.T) {
	hub := NewMemBroadcast()
	a := hub.Attach()
	b := hub.Attach()
	defer a.Close()
	defer b.Close()

	var rec recorder
	b.Listen(rec.handle)

	evt := core.NewEvent(core.TopicAssignmentChanged, "asg_9")
	a.Publish(evt)

	waitFor(t, func() bool { return rec.count() == 1 })
	rec.mu.Lock()
	got := rec.evts[0]
	rec.mu.Unlock()
	assert.Equal(t, core.TopicAssignmentChanged, got.Topic)
	assert.Equal(t, "asg_9", got.EntityID)

	// the well-known key holds the wire format
	parsed, err := core.ParseEventKey(hub.LastKey())
	assert.NoError(t, err)
	assert.Equal(t, "asg_9", parsed.EntityID)
}

func TestMemBroadcast_closedInstanceStopsReceiving(t *testing.T) {
	hub := NewMemBroadcast()
	a := hub.Attach()
	b := hub.Attach()
	defer a.Close()

	var rec recorder
	b.Listen(rec.handle)
	b.Close()

	a.Publish(core.NewEvent(core.TopicCourseDeleted, "crs_1"))

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, rec.count())
}

func TestMemBroadcast_lateAttacherMissesEarlierPublishes(t *testing.T) {
	hub := NewMemBroadcast()
	a := hub.Attach()
	defer a.Close()

	a.Publish(core.NewEvent(core.TopicCourseDeleted, "crs_1"))

	// an instance attached after the publish relies on the poll instead
	late := hub.Attach()
	defer late.Close()
	var rec recorder
	late.Listen(rec.handle)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, rec.count())
}
