package enrollment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/darasa/core"
)

type fakeOrigin struct {
	enrollments map[string][]Enrollment // courseID -> enrollments
	marked      []LiveAttendanceBatch
	calls       int
}

func newFakeOrigin() *fakeOrigin {
	return &fakeOrigin{enrollments: make(map[string][]Enrollment)}
}

func (o *fakeOrigin) ListMyEnrollments(context.Context) ([]Enrollment, error) {
	o.calls++
	var out []Enrollment
	for _, enrs := range o.enrollments {
		out = append(out, enrs...)
	}
	return out, nil
}

func (o *fakeOrigin) ListCourseEnrollments(_ context.Context, courseID string) ([]Enrollment, error) {
	o.calls++
	return o.enrollments[courseID], nil
}

func (o *fakeOrigin) MarkAttendance(_ context.Context, courseID string, na NewAttendance) (AttendanceRecord, error) {
	o.calls++
	return AttendanceRecord{
		ID:           "att_1",
		EnrollmentID: "enr_" + na.StudentID,
		Date:         na.Date,
		Status:       na.Status,
	}, nil
}

func (o *fakeOrigin) MarkLiveAttendance(_ context.Context, liveClassID string, batch LiveAttendanceBatch) error {
	o.calls++
	o.marked = append(o.marked, batch)
	return nil
}

type recordingBus struct {
	events []core.Event
}

func (b *recordingBus) Publish(evt core.Event) { b.events = append(b.events, evt) }

func TestService_MarkAttendance(t *testing.T) {
	origin := newFakeOrigin()
	bus := &recordingBus{}
	svc := NewService(origin, bus)
	ctx := context.Background()

	na := NewAttendance{
		StudentID: "std_1",
		Date:      time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		Status:    StatusPresent,
	}
	rec, err := svc.MarkAttendance(ctx, "crs_1", na)
	if err != nil {
		t.Fatalf("MarkAttendance() failed: %v", err)
	}
	assert.Equal(t, StatusPresent, rec.Status)
	if assert.Len(t, bus.events, 1) {
		assert.Equal(t, core.TopicEnrollmentChanged, bus.events[0].Topic)
	}

	// a bogus status never reaches the origin
	before := origin.calls
	na.Status = "asleep"
	_, err = svc.MarkAttendance(ctx, "crs_1", na)
	assert.Error(t, err)
	assert.Equal(t, before, origin.calls)
}

func TestService_MarkLiveAttendance(t *testing.T) {
	origin := newFakeOrigin()
	origin.enrollments["crs_1"] = []Enrollment{
		{ID: "enr_1", CourseID: "crs_1", StudentID: "std_1"},
		{ID: "enr_2", CourseID: "crs_1", StudentID: "std_2"},
	}
	bus := &recordingBus{}
	svc := NewService(origin, bus)
	ctx := context.Background()

	t.Run("partial batch rejected", func(t *testing.T) {
		batch := LiveAttendanceBatch{Entries: []LiveAttendanceEntry{
			{StudentID: "std_1", Status: StatusPresent},
		}}
		err := svc.MarkLiveAttendance(ctx, "crs_1", "lc_1", batch)
		assert.Error(t, err)
		assert.Empty(t, origin.marked)
		assert.Empty(t, bus.events)
	})

	t.Run("duplicate student rejected", func(t *testing.T) {
		batch := LiveAttendanceBatch{Entries: []LiveAttendanceEntry{
			{StudentID: "std_1", Status: StatusPresent},
			{StudentID: "std_1", Status: StatusLate},
		}}
		err := svc.MarkLiveAttendance(ctx, "crs_1", "lc_1", batch)
		assert.Error(t, err)
		assert.Empty(t, origin.marked)
	})

	t.Run("full batch is written once", func(t *testing.T) {
		batch := LiveAttendanceBatch{Entries: []LiveAttendanceEntry{
			{StudentID: "std_1", Status: StatusPresent},
			{StudentID: "std_2", Status: StatusAbsent},
		}}
		if err := svc.MarkLiveAttendance(ctx, "crs_1", "lc_1", batch); err != nil {
			t.Fatalf("MarkLiveAttendance() failed: %v", err)
		}
		assert.Len(t, origin.marked, 1)
		if assert.Len(t, bus.events, 1) {
			assert.Equal(t, core.TopicEnrollmentChanged, bus.events[0].Topic)
			assert.Equal(t, "crs_1", bus.events[0].EntityID)
		}
	})
}

func TestService_QueryMine_dropsMalformedRows(t *testing.T) {
	origin := newFakeOrigin()
	origin.enrollments["crs_1"] = []Enrollment{
		{ID: "enr_1", CourseID: "crs_1", StudentID: "std_1", PresentDays: 3, TotalAttendance: 4},
		{ID: "", CourseID: "crs_1", StudentID: "std_2"}, // malformed
	}
	svc := NewService(origin, nil)

	enrs, err := svc.QueryMine(context.Background())
	if err != nil {
		t.Fatalf("QueryMine() failed: %v", err)
	}
	if assert.Len(t, enrs, 1) {
		assert.Equal(t, "enr_1", enrs[0].ID)
	}
}
