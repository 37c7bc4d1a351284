// Package origin implements the typed client for the origin service, the
// single backend of record. Every call either returns a typed payload or a
// *core.OriginError with an HTTP-status-derived kind; nothing is swallowed and
// no local state is mutated here.
package origin

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/assignment"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/enrollment"
)

type Client struct {
	rc     *resty.Client
	tokens core.TokenSource
}

// compile-time checks: one client serves every domain service
var (
	_ course.Origin     = (*Client)(nil)
	_ assignment.Origin = (*Client)(nil)
	_ enrollment.Origin = (*Client)(nil)
)

func NewClient(conf *core.Config, tokens core.TokenSource) *Client {
	rc := resty.New().
		SetBaseURL(conf.Origin.BaseURL).
		SetTimeout(conf.Origin.Timeout).
		SetHeader("Accept", "application/json")
	return &Client{rc: rc, tokens: tokens}
}

// apiError is the origin's error envelope.
type apiError struct {
	Error string `json:"error"`
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out interface{}) error {
	token, err := c.tokens.Token()
	if err != nil {
		return &core.OriginError{Op: op, Kind: core.KindUnauthorized, Err: err}
	}

	req := c.rc.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetError(&apiError{})
	if body != nil {
		req.SetBody(body)
	}
	if out != nil {
		req.SetResult(out)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return core.NewOriginError(op, 0, err)
	}
	if resp.IsError() {
		msg := http.StatusText(resp.StatusCode())
		if apiErr, ok := resp.Error().(*apiError); ok && apiErr.Error != "" {
			msg = apiErr.Error
		}
		return core.NewOriginError(op, resp.StatusCode(), errors.New(msg))
	}
	return nil
}

// Courses

func (c *Client) ListCourses(ctx context.Context) ([]course.Course, error) {
	var out []course.Course
	err := c.do(ctx, "origin.ListCourses", http.MethodGet, "/courses", nil, &out)
	return out, err
}

func (c *Client) GetCourse(ctx context.Context, id string) (course.Course, error) {
	var out course.Course
	err := c.do(ctx, "origin.GetCourse", http.MethodGet, "/courses/"+id, nil, &out)
	return out, err
}

func (c *Client) CreateCourse(ctx context.Context, nc course.NewCourse) (course.Course, error) {
	var out course.Course
	err := c.do(ctx, "origin.CreateCourse", http.MethodPost, "/courses", nc, &out)
	return out, err
}

func (c *Client) UpdateCourse(ctx context.Context, id string, uc course.UpdateCourse) (course.Course, error) {
	var out course.Course
	err := c.do(ctx, "origin.UpdateCourse", http.MethodPut, "/courses/"+id, uc, &out)
	return out, err
}

func (c *Client) DeleteCourse(ctx context.Context, id string) error {
	return c.do(ctx, "origin.DeleteCourse", http.MethodDelete, "/courses/"+id, nil, nil)
}

// Assignments & submissions

func (c *Client) ListAssignments(ctx context.Context, courseID string) ([]assignment.Assignment, error) {
	var out []assignment.Assignment
	err := c.do(ctx, "origin.ListAssignments", http.MethodGet, fmt.Sprintf("/courses/%s/assignments", courseID), nil, &out)
	return out, err
}

func (c *Client) CreateAssignment(ctx context.Context, courseID string, na assignment.NewAssignment) (assignment.Assignment, error) {
	var out assignment.Assignment
	err := c.do(ctx, "origin.CreateAssignment", http.MethodPost, fmt.Sprintf("/courses/%s/assignments", courseID), na, &out)
	return out, err
}

func (c *Client) DeleteAssignment(ctx context.Context, id string) error {
	return c.do(ctx, "origin.DeleteAssignment", http.MethodDelete, "/assignments/"+id, nil, nil)
}

func (c *Client) SubmitAssignment(ctx context.Context, assignmentID string, payload assignment.SubmissionPayload) (assignment.Submission, error) {
	var out assignment.Submission
	err := c.do(ctx, "origin.SubmitAssignment", http.MethodPost, fmt.Sprintf("/assignments/%s/submissions", assignmentID), payload, &out)
	return out, err
}

func (c *Client) ListSubmissions(ctx context.Context, assignmentID string) ([]assignment.Submission, error) {
	var out []assignment.Submission
	err := c.do(ctx, "origin.ListSubmissions", http.MethodGet, fmt.Sprintf("/assignments/%s/submissions", assignmentID), nil, &out)
	return out, err
}

func (c *Client) GetMySubmission(ctx context.Context, assignmentID string) (assignment.Submission, error) {
	var out assignment.Submission
	err := c.do(ctx, "origin.GetMySubmission", http.MethodGet, fmt.Sprintf("/assignments/%s/submissions/mine", assignmentID), nil, &out)
	return out, err
}

func (c *Client) GradeSubmission(ctx context.Context, submissionID string, gf assignment.GradeForm) (assignment.Submission, error) {
	var out assignment.Submission
	err := c.do(ctx, "origin.GradeSubmission", http.MethodPut, fmt.Sprintf("/submissions/%s/grade", submissionID), gf, &out)
	return out, err
}

// Enrollments & attendance

func (c *Client) ListMyEnrollments(ctx context.Context) ([]enrollment.Enrollment, error) {
	var out []enrollment.Enrollment
	err := c.do(ctx, "origin.ListMyEnrollments", http.MethodGet, "/enrollments/mine", nil, &out)
	return out, err
}

func (c *Client) ListCourseEnrollments(ctx context.Context, courseID string) ([]enrollment.Enrollment, error) {
	var out []enrollment.Enrollment
	err := c.do(ctx, "origin.ListCourseEnrollments", http.MethodGet, fmt.Sprintf("/courses/%s/enrollments", courseID), nil, &out)
	return out, err
}

func (c *Client) MarkAttendance(ctx context.Context, courseID string, na enrollment.NewAttendance) (enrollment.AttendanceRecord, error) {
	var out enrollment.AttendanceRecord
	err := c.do(ctx, "origin.MarkAttendance", http.MethodPost, fmt.Sprintf("/courses/%s/attendance", courseID), na, &out)
	return out, err
}

func (c *Client) MarkLiveAttendance(ctx context.Context, liveClassID string, batch enrollment.LiveAttendanceBatch) error {
	return c.do(ctx, "origin.MarkLiveAttendance", http.MethodPost, fmt.Sprintf("/live-classes/%s/attendance", liveClassID), batch.Entries, nil)
}

// Live classes

func (c *Client) ListLiveClasses(ctx context.Context, courseID string) ([]course.LiveClass, error) {
	var out []course.LiveClass
	err := c.do(ctx, "origin.ListLiveClasses", http.MethodGet, fmt.Sprintf("/courses/%s/live-classes", courseID), nil, &out)
	return out, err
}

func (c *Client) ScheduleLiveClass(ctx context.Context, courseID string, nlc course.NewLiveClass) (course.LiveClass, error) {
	var out course.LiveClass
	err := c.do(ctx, "origin.ScheduleLiveClass", http.MethodPost, fmt.Sprintf("/courses/%s/live-classes", courseID), nlc, &out)
	return out, err
}

func (c *Client) DeleteLiveClass(ctx context.Context, id string) error {
	return c.do(ctx, "origin.DeleteLiveClass", http.MethodDelete, "/live-classes/"+id, nil, nil)
}
