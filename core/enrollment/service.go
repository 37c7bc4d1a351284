package enrollment

import (
	"context"
	"errors"

	"github.com/trezcool/darasa/core"
)

var (
	// errors
	errInvalidEnrollment = errors.New("invalid enrollment")
	errInvalidAttendance = errors.New("invalid attendance")
)

type (
	// Origin is the slice of the origin API this service consumes.
	Origin interface {
		ListMyEnrollments(ctx context.Context) ([]Enrollment, error)
		ListCourseEnrollments(ctx context.Context, courseID string) ([]Enrollment, error)
		MarkAttendance(ctx context.Context, courseID string, na NewAttendance) (AttendanceRecord, error)
		MarkLiveAttendance(ctx context.Context, liveClassID string, batch LiveAttendanceBatch) error
	}

	Service struct {
		origin Origin
		bus    core.Publisher
	}
)

func NewService(origin Origin, bus core.Publisher) *Service {
	if bus == nil {
		bus = core.NopPublisher()
	}
	return &Service{origin: origin, bus: bus}
}

func (svc *Service) QueryMine(ctx context.Context) ([]Enrollment, error) {
	raw, err := svc.origin.ListMyEnrollments(ctx)
	if err != nil {
		return nil, err
	}
	enrs := make([]Enrollment, 0, len(raw))
	for _, e := range raw {
		norm, err := e.Normalize()
		if err != nil {
			continue
		}
		enrs = append(enrs, norm)
	}
	return enrs, nil
}

func (svc *Service) QueryByCourse(ctx context.Context, courseID string) ([]Enrollment, error) {
	return svc.origin.ListCourseEnrollments(ctx, courseID)
}

func (svc *Service) MarkAttendance(ctx context.Context, courseID string, na NewAttendance) (AttendanceRecord, error) {
	if err := na.Validate(); err != nil {
		return AttendanceRecord{}, err
	}
	rec, err := svc.origin.MarkAttendance(ctx, courseID, na)
	if err != nil {
		return AttendanceRecord{}, err
	}
	svc.bus.Publish(core.NewEvent(core.TopicEnrollmentChanged, rec.EnrollmentID))
	return rec, nil
}

// MarkLiveAttendance writes attendance for all enrolled students of a live
// class in one batch. The batch must cover every enrolled student.
func (svc *Service) MarkLiveAttendance(ctx context.Context, courseID, liveClassID string, batch LiveAttendanceBatch) error {
	if err := batch.Validate(); err != nil {
		return err
	}

	enrolled, err := svc.origin.ListCourseEnrollments(ctx, courseID)
	if err != nil {
		return err
	}
	studentIDs := make([]string, 0, len(enrolled))
	for _, e := range enrolled {
		studentIDs = append(studentIDs, e.StudentID)
	}
	if !batch.Covers(studentIDs) {
		return core.NewValidationError(
			errInvalidAttendance,
			core.FieldError{Field: "entries", Error: "batch must cover all enrolled students"},
		)
	}

	if err := svc.origin.MarkLiveAttendance(ctx, liveClassID, batch); err != nil {
		return err
	}
	svc.bus.Publish(core.NewEvent(core.TopicEnrollmentChanged, courseID))
	return nil
}
