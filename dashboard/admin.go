package dashboard

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/course"
)

type (
	// CourseStats is one course row of the admin dashboard.
	CourseStats struct {
		Course        course.Course
		EnrolledCount int
	}

	// AdminDashboard is the administrator's composed overview.
	AdminDashboard struct {
		Courses       []CourseStats
		TotalCourses  int
		TotalStudents int
	}
)

// ComposeAdminView lists all courses and counts their enrollments
// concurrently. A course deleted mid-compose (NotFound on its enrollment
// list) is dropped rather than surfaced as a partial row.
func (a *Aggregator) ComposeAdminView(ctx context.Context) (AdminDashboard, error) {
	courses, err := a.origin.ListCourses(ctx)
	if err != nil {
		return AdminDashboard{}, err
	}

	stats := make([]*CourseStats, len(courses))
	g, gctx := errgroup.WithContext(ctx)
	for i, c := range courses {
		i, c := i, c
		g.Go(func() error {
			enrs, err := a.origin.ListCourseEnrollments(gctx, c.ID)
			if err != nil {
				if core.IsNotFound(err) {
					return nil
				}
				return err
			}
			stats[i] = &CourseStats{Course: c, EnrolledCount: len(enrs)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return AdminDashboard{}, err
	}

	dash := AdminDashboard{Courses: make([]CourseStats, 0, len(stats))}
	for _, st := range stats {
		if st != nil {
			dash.Courses = append(dash.Courses, *st)
			dash.TotalStudents += st.EnrolledCount
		}
	}
	dash.TotalCourses = len(dash.Courses)
	return dash, nil
}
