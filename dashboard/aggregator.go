// Package dashboard composes per-learner views out of enrollments, courses,
// assignments and live classes, and keeps them fresh off the sync bus.
package dashboard

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/enrollment"
	"github.com/trezcool/darasa/syncbus"
)

type (
	// Origin is the slice of the origin API the aggregator consumes.
	Origin interface {
		ListMyEnrollments(ctx context.Context) ([]enrollment.Enrollment, error)
		GetCourse(ctx context.Context, id string) (course.Course, error)
		ListLiveClasses(ctx context.Context, courseID string) ([]course.LiveClass, error)
		ListCourses(ctx context.Context) ([]course.Course, error)
		ListCourseEnrollments(ctx context.Context, courseID string) ([]enrollment.Enrollment, error)
	}

	// EnrolledCourseView is one enrollment joined with its (re-validated)
	// course and that course's live classes.
	EnrolledCourseView struct {
		Enrollment  enrollment.Enrollment
		Course      course.Course
		LiveClasses []course.LiveClass
	}

	// StudentDashboard is the composed view for the authenticated learner.
	// ActiveCourses is always recounted from the valid views, never taken
	// from a server-provided aggregate that may be stale relative to
	// just-deleted courses.
	StudentDashboard struct {
		Views         []EnrolledCourseView
		ActiveCourses int
		LastError     error
	}

	// Aggregator owns the composed views, the reconciliation lifecycle and
	// the store. It is the sole writer of view state.
	Aggregator struct {
		origin Origin
		store  *Store
		logger core.Logger
		rec    *syncbus.Reconciler

		ctx    context.Context // live while started; cancelled on Stop
		cancel context.CancelFunc
		gen    uint64 // bumped on Stop; stale fetches discard their result
	}
)

var watchedTopics = []string{
	core.TopicCourseDeleted,
	core.TopicEnrollmentChanged,
	core.TopicAssignmentChanged,
}

func NewAggregator(origin Origin, store *Store, conf *core.Config, logger core.Logger) *Aggregator {
	a := &Aggregator{origin: origin, store: store, logger: logger}
	a.rec = syncbus.NewReconciler(conf.Sync.PollInterval, watchedTopics, a.onEvent)
	return a
}

// Start subscribes to all three trigger sources (same-instance bus events,
// cross-instance broadcasts and the periodic poll) and runs a first refresh.
func (a *Aggregator) Start(bus *syncbus.Bus, broadcast syncbus.Broadcast) error {
	a.ctx, a.cancel = context.WithCancel(context.Background())
	if err := a.rec.Start(bus, broadcast); err != nil {
		a.cancel()
		return err
	}
	go a.refresh(a.ctx)
	return nil
}

// Stop tears down the poll, the subscriptions and any in-flight fetch; a
// fetch already in flight discards its result rather than write to a stale
// store.
func (a *Aggregator) Stop() {
	atomic.AddUint64(&a.gen, 1)
	if a.cancel != nil {
		a.cancel()
	}
	a.rec.Stop()
}

// onEvent is the single reconciliation handler; it behaves identically
// whether triggered by a bus event, a broadcast or the poll (nil evt).
func (a *Aggregator) onEvent(evt *core.Event) {
	if evt != nil {
		a.logger.Debug("dashboard: reconciling after " + evt.Topic + " " + evt.EntityID)
	}
	go a.refresh(a.ctx)
}

func (a *Aggregator) refresh(ctx context.Context) {
	gen := atomic.LoadUint64(&a.gen)

	views, err := a.ComposeStudentView(ctx)
	if atomic.LoadUint64(&a.gen) != gen || ctx.Err() != nil {
		return // view torn down mid-fetch; discard either outcome
	}
	if err != nil {
		// transient faults must reach a UI-visible state; they are never
		// hidden and the action is not retried automatically
		a.logger.Error("dashboard: refresh failed", err)
		a.store.SetLastError(err)
		return
	}
	a.store.ReplaceViews(views)
}

// ComposeStudentView builds one view per enrollment, fetching course detail
// and live classes concurrently. An enrollment whose course fetch returns
// NotFound is excluded: the course was deleted after enrollment, which is a
// legitimate concurrent deletion, not a malfunction. Any other failure
// propagates.
func (a *Aggregator) ComposeStudentView(ctx context.Context) ([]EnrolledCourseView, error) {
	enrs, err := a.origin.ListMyEnrollments(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]*EnrolledCourseView, len(enrs))
	g, gctx := errgroup.WithContext(ctx)
	for i, enr := range enrs {
		i, enr := i, enr
		g.Go(func() error {
			view, err := a.composeView(gctx, enr)
			if err != nil {
				if core.IsNotFound(err) {
					return nil // excluded, not surfaced as a partial row
				}
				return err
			}
			views[i] = view
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	valid := make([]EnrolledCourseView, 0, len(views))
	for _, v := range views {
		if v != nil {
			valid = append(valid, *v)
		}
	}
	return valid, nil
}

func (a *Aggregator) composeView(ctx context.Context, enr enrollment.Enrollment) (*EnrolledCourseView, error) {
	view := &EnrolledCourseView{Enrollment: enr}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := a.origin.GetCourse(gctx, enr.CourseID)
		if err != nil {
			return err
		}
		c, err = c.Normalize()
		if err != nil {
			return err
		}
		view.Course = c
		return nil
	})
	g.Go(func() error {
		lcs, err := a.origin.ListLiveClasses(gctx, enr.CourseID)
		if err != nil {
			if core.IsNotFound(err) {
				return nil // course went away mid-compose; detail fetch decides
			}
			return err
		}
		view.LiveClasses = lcs
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return view, nil
}

// Dashboard returns the current composed state. ActiveCourses is the count of
// valid views; a deleted course disappears from it on the next reconcile.
func (a *Aggregator) Dashboard() StudentDashboard {
	views := a.store.Views()
	return StudentDashboard{
		Views:         views,
		ActiveCourses: len(views),
		LastError:     a.store.LastError(),
	}
}
