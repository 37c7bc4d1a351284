package course

import (
	"context"
	"errors"

	"github.com/trezcool/darasa/core"
)

var (
	// errors
	errInvalidCourse = errors.New("invalid course")
)

type (
	// Origin is the slice of the origin API this service consumes.
	Origin interface {
		ListCourses(ctx context.Context) ([]Course, error)
		GetCourse(ctx context.Context, id string) (Course, error)
		CreateCourse(ctx context.Context, nc NewCourse) (Course, error)
		UpdateCourse(ctx context.Context, id string, uc UpdateCourse) (Course, error)
		DeleteCourse(ctx context.Context, id string) error
		ListLiveClasses(ctx context.Context, courseID string) ([]LiveClass, error)
		ScheduleLiveClass(ctx context.Context, courseID string, nlc NewLiveClass) (LiveClass, error)
		DeleteLiveClass(ctx context.Context, id string) error
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

func (svc *Service) QueryAll(ctx context.Context) ([]Course, error) {
	raw, err := svc.origin.ListCourses(ctx)
	if err != nil {
		return nil, err
	}
	courses := make([]Course, 0, len(raw))
	for _, c := range raw {
		norm, err := c.Normalize()
		if err != nil {
			continue // malformed rows are dropped, never surfaced as course data
		}
		courses = append(courses, norm)
	}
	return courses, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (Course, error) {
	c, err := svc.origin.GetCourse(ctx, id)
	if err != nil {
		return Course{}, err
	}
	return c.Normalize()
}

func (svc *Service) Create(ctx context.Context, nc NewCourse) (Course, error) {
	if err := nc.Validate(); err != nil {
		return Course{}, err
	}
	return svc.origin.CreateCourse(ctx, nc)
}

func (svc *Service) Update(ctx context.Context, orig Course, uc UpdateCourse) (Course, error) {
	if err := uc.Validate(orig); err != nil {
		return Course{}, err
	}
	return svc.origin.UpdateCourse(ctx, orig.ID, uc)
}

// Delete removes the course upstream and notifies all listeners; clients
// holding stale references converge via the course.deleted topic or the poll.
func (svc *Service) Delete(ctx context.Context, id string) error {
	if err := svc.origin.DeleteCourse(ctx, id); err != nil {
		return err
	}
	svc.bus.Publish(core.NewEvent(core.TopicCourseDeleted, id))
	return nil
}

func (svc *Service) QueryLiveClasses(ctx context.Context, courseID string) ([]LiveClass, error) {
	return svc.origin.ListLiveClasses(ctx, courseID)
}

func (svc *Service) ScheduleLiveClass(ctx context.Context, courseID string, nlc NewLiveClass) (LiveClass, error) {
	if err := nlc.Validate(); err != nil {
		return LiveClass{}, err
	}
	return svc.origin.ScheduleLiveClass(ctx, courseID, nlc)
}

func (svc *Service) DeleteLiveClass(ctx context.Context, id string) error {
	return svc.origin.DeleteLiveClass(ctx, id)
}
