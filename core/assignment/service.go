package assignment

import (
	"context"
	"errors"
	"time"

	"github.com/trezcool/darasa/core"
)

var (
	// errors
	errInvalidAssignment = errors.New("invalid assignment")
	errInvalidSubmission = errors.New("invalid submission")
	errEmptySubmission   = errors.New("submission is empty")
	errInvalidGrade      = errors.New("invalid grade")
)

type (
	// Origin is the slice of the origin API this service consumes.
	Origin interface {
		ListAssignments(ctx context.Context, courseID string) ([]Assignment, error)
		CreateAssignment(ctx context.Context, courseID string, na NewAssignment) (Assignment, error)
		DeleteAssignment(ctx context.Context, id string) error
		SubmitAssignment(ctx context.Context, assignmentID string, payload SubmissionPayload) (Submission, error)
		ListSubmissions(ctx context.Context, assignmentID string) ([]Submission, error)
		GetMySubmission(ctx context.Context, assignmentID string) (Submission, error)
		GradeSubmission(ctx context.Context, submissionID string, gf GradeForm) (Submission, error)
	}

	// SubmissionCache holds optimistic local submission state; it is a
	// disposable cache that reconciliation may overwrite at any time.
	SubmissionCache interface {
		GetSubmission(assignmentID, studentID string) (Submission, bool)
		PutSubmission(sub Submission)
		RemoveSubmission(assignmentID, studentID string)
	}

	Service struct {
		origin Origin
		cache  SubmissionCache
		bus    core.Publisher
		nowFn  func() time.Time // swapped in tests
	}
)

func NewService(origin Origin, cache SubmissionCache, bus core.Publisher) *Service {
	if bus == nil {
		bus = core.NopPublisher()
	}
	return &Service{origin: origin, cache: cache, bus: bus, nowFn: time.Now}
}

func (svc *Service) QueryByCourse(ctx context.Context, courseID string) ([]Assignment, error) {
	raw, err := svc.origin.ListAssignments(ctx, courseID)
	if err != nil {
		return nil, err
	}
	asgs := make([]Assignment, 0, len(raw))
	for _, a := range raw {
		norm, err := a.Normalize()
		if err != nil {
			continue
		}
		asgs = append(asgs, norm)
	}
	return asgs, nil
}

func (svc *Service) Create(ctx context.Context, courseID string, na NewAssignment) (Assignment, error) {
	if err := na.Validate(); err != nil {
		return Assignment{}, err
	}
	a, err := svc.origin.CreateAssignment(ctx, courseID, na)
	if err != nil {
		return Assignment{}, err
	}
	svc.bus.Publish(core.NewEvent(core.TopicAssignmentChanged, a.ID))
	return a, nil
}

// Delete removes the assignment upstream. Submissions referencing it become
// orphaned; clients holding stale references converge via the bus or the poll.
func (svc *Service) Delete(ctx context.Context, id string) error {
	if err := svc.origin.DeleteAssignment(ctx, id); err != nil {
		return err
	}
	svc.bus.Publish(core.NewEvent(core.TopicAssignmentChanged, id))
	return nil
}

// Submit prepares the raw form and hands it to the origin. Validation errors
// are returned synchronously and never reach the origin. On an origin failure
// the optimistic cache entry is rolled back and the error propagates unchanged
// (no retry).
func (svc *Service) Submit(ctx context.Context, a Assignment, studentID string, form SubmissionForm) (Submission, error) {
	payload, err := PrepareSubmission(ctx, form)
	if err != nil {
		return Submission{}, err
	}

	now := svc.nowFn().UTC()
	optimistic := Submission{
		AssignmentID: a.ID,
		StudentID:    studentID,
		Content:      payload.Content(),
		SubmittedAt:  now,
		IsLate:       IsLate(a.DueDate, now),
		Grading:      Grading{Status: StatusUngraded, MaxScore: a.TotalPoints},
	}
	prev, hadPrev := svc.cache.GetSubmission(a.ID, studentID)
	svc.cache.PutSubmission(optimistic)

	sub, err := svc.origin.SubmitAssignment(ctx, a.ID, payload)
	if err != nil {
		// roll back the optimistic state
		if hadPrev {
			svc.cache.PutSubmission(prev)
		} else {
			svc.cache.RemoveSubmission(a.ID, studentID)
		}
		return Submission{}, err
	}

	sub, err = sub.Normalize(a)
	if err != nil {
		return Submission{}, err
	}
	svc.cache.PutSubmission(sub)
	svc.bus.Publish(core.NewEvent(core.TopicAssignmentChanged, a.ID))
	return sub, nil
}

func (svc *Service) QuerySubmissions(ctx context.Context, a Assignment) ([]Submission, error) {
	raw, err := svc.origin.ListSubmissions(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	subs := make([]Submission, 0, len(raw))
	for _, s := range raw {
		norm, err := s.Normalize(a)
		if err != nil {
			continue
		}
		subs = append(subs, norm)
	}
	return subs, nil
}

func (svc *Service) GetMySubmission(ctx context.Context, a Assignment) (Submission, error) {
	sub, err := svc.origin.GetMySubmission(ctx, a.ID)
	if err != nil {
		return Submission{}, err
	}
	return sub.Normalize(a)
}

// Grade validates the score against the assignment's total points, applies it
// upstream and mirrors the graded submission into the cache. Re-grading
// overwrites; there is no merge of concurrent grades.
func (svc *Service) Grade(ctx context.Context, a Assignment, sub Submission, gf GradeForm) (Submission, error) {
	if err := gf.Validate(a); err != nil {
		return Submission{}, err
	}
	graded, err := svc.origin.GradeSubmission(ctx, sub.ID, gf)
	if err != nil {
		return Submission{}, err
	}
	// recompute derived grading state locally rather than trusting the wire
	graded = ApplyGrade(graded, a, gf)
	graded.IsLate = IsLate(a.DueDate, graded.SubmittedAt)
	svc.cache.PutSubmission(graded)
	svc.bus.Publish(core.NewEvent(core.TopicAssignmentChanged, a.ID))
	return graded, nil
}
