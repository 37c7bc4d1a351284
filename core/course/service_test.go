package course

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/darasa/core"
)

type fakeOrigin struct {
	courses map[string]Course
	calls   int
}

func newFakeOrigin() *fakeOrigin {
	return &fakeOrigin{courses: make(map[string]Course)}
}

func (o *fakeOrigin) ListCourses(context.Context) ([]Course, error) {
	o.calls++
	out := make([]Course, 0, len(o.courses))
	for _, c := range o.courses {
		out = append(out, c)
	}
	return out, nil
}

func (o *fakeOrigin) GetCourse(_ context.Context, id string) (Course, error) {
	o.calls++
	c, ok := o.courses[id]
	if !ok {
		return Course{}, core.NewOriginError("origin.GetCourse", 404, nil)
	}
	return c, nil
}

func (o *fakeOrigin) CreateCourse(_ context.Context, nc NewCourse) (Course, error) {
	o.calls++
	c := Course{
		ID:            "crs_new",
		Title:         nc.Title,
		Category:      nc.Category,
		Level:         nc.Level,
		Price:         nc.Price,
		DurationWeeks: nc.DurationWeeks,
		MaxStudents:   nc.MaxStudents,
		StartDate:     nc.StartDate,
		EndDate:       nc.EndDate,
		Schedule:      nc.Schedule,
	}
	o.courses[c.ID] = c
	return c, nil
}

func (o *fakeOrigin) UpdateCourse(_ context.Context, id string, uc UpdateCourse) (Course, error) {
	o.calls++
	c, ok := o.courses[id]
	if !ok {
		return Course{}, core.NewOriginError("origin.UpdateCourse", 404, nil)
	}
	c.Title = uc.Title
	o.courses[id] = c
	return c, nil
}

func (o *fakeOrigin) DeleteCourse(_ context.Context, id string) error {
	o.calls++
	if _, ok := o.courses[id]; !ok {
		return core.NewOriginError("origin.DeleteCourse", 404, nil)
	}
	delete(o.courses, id)
	return nil
}

func (o *fakeOrigin) ListLiveClasses(context.Context, string) ([]LiveClass, error) {
	o.calls++
	return nil, nil
}

func (o *fakeOrigin) ScheduleLiveClass(_ context.Context, courseID string, nlc NewLiveClass) (LiveClass, error) {
	o.calls++
	return LiveClass{ID: "lc_new", CourseID: courseID, Title: nlc.Title, ScheduledAt: nlc.ScheduledAt}, nil
}

func (o *fakeOrigin) DeleteLiveClass(context.Context, string) error {
	o.calls++
	return nil
}

type recordingBus struct {
	events []core.Event
}

func (b *recordingBus) Publish(evt core.Event) { b.events = append(b.events, evt) }

func TestService_Delete_publishesCourseDeleted(t *testing.T) {
	origin := newFakeOrigin()
	bus := &recordingBus{}
	svc := NewService(origin, bus)
	ctx := context.Background()

	nc := newCourseForm()
	if err := nc.Validate(); err != nil {
		t.Fatalf("Validate() failed: %v", err)
	}
	created, err := svc.Create(ctx, nc)
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}

	if assert.Len(t, bus.events, 1) {
		assert.Equal(t, core.TopicCourseDeleted, bus.events[0].Topic)
		assert.Equal(t, created.ID, bus.events[0].EntityID)
	}
}

func TestService_Delete_noEventOnOriginFailure(t *testing.T) {
	origin := newFakeOrigin()
	bus := &recordingBus{}
	svc := NewService(origin, bus)

	err := svc.Delete(context.Background(), "ghost")
	assert.Error(t, err)
	assert.Empty(t, bus.events, "nothing is broadcast for a failed mutation")
}

func TestService_Create_rejectsInvalidFormWithoutOriginCall(t *testing.T) {
	origin := newFakeOrigin()
	svc := NewService(origin, nil)

	nc := newCourseForm()
	nc.Title = ""
	_, err := svc.Create(context.Background(), nc)
	assert.Error(t, err)
	assert.Equal(t, 0, origin.calls)
}

func TestService_ScheduleLiveClass_validates(t *testing.T) {
	origin := newFakeOrigin()
	svc := NewService(origin, nil)
	ctx := context.Background()

	_, err := svc.ScheduleLiveClass(ctx, "crs_1", NewLiveClass{Title: "Q&A"})
	assert.Error(t, err, "missing schedule and meeting url")
	assert.Equal(t, 0, origin.calls)

	lc, err := svc.ScheduleLiveClass(ctx, "crs_1", NewLiveClass{
		Title:           "Q&A",
		ScheduledAt:     time.Now().UTC().Add(48 * time.Hour),
		DurationMinutes: 45,
		MeetingURL:      "https://meet.example.com/qa",
	})
	if err != nil {
		t.Fatalf("ScheduleLiveClass() failed: %v", err)
	}
	assert.Equal(t, "crs_1", lc.CourseID)
}
