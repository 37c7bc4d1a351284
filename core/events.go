package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Topics published on the sync bus whenever a shared entity is mutated.
const (
	TopicCourseDeleted     = "course.deleted"
	TopicEnrollmentChanged = "enrollment.changed"
	TopicAssignmentChanged = "assignment.changed"
)

// Event notifies listeners that an entity changed upstream.
type Event struct {
	Topic    string
	EntityID string
	At       time.Time // advisory; for debugging only, never for ordering decisions
}

func NewEvent(topic, entityID string) Event {
	return Event{Topic: topic, EntityID: entityID, At: time.Now().UTC()}
}

// Key encodes the event in the cross-instance wire format
// "{topic}:{entityId}:{timestamp}".
func (e Event) Key() string {
	return fmt.Sprintf("%s:%s:%d", e.Topic, e.EntityID, e.At.UnixNano())
}

// ParseEventKey decodes a broadcast key back into an Event. Entity IDs are
// opaque and may themselves contain the separator, so the timestamp is
// anchored at the last separator and the topic at the first.
func ParseEventKey(key string) (Event, error) {
	first := strings.Index(key, ":")
	last := strings.LastIndex(key, ":")
	if first < 0 || last <= first {
		return Event{}, errors.Errorf("malformed event key %q", key)
	}
	topic, entityID := key[:first], key[first+1:last]
	if topic == "" || entityID == "" {
		return Event{}, errors.Errorf("malformed event key %q", key)
	}
	nanos, err := strconv.ParseInt(key[last+1:], 10, 64)
	if err != nil {
		return Event{}, errors.Wrapf(err, "malformed event key %q", key)
	}
	return Event{Topic: topic, EntityID: entityID, At: time.Unix(0, nanos).UTC()}, nil
}

// Publisher is any sink mutating services can report entity changes to.
type Publisher interface {
	Publish(evt Event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(Event) {}

// NopPublisher discards all events.
func NopPublisher() Publisher { return nopPublisher{} }
