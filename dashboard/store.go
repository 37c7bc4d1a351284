package dashboard

import (
	"sync"

	"github.com/trezcool/darasa/core/assignment"
)

type submissionKey struct {
	assignmentID string
	studentID    string
}

// Store is the local entity cache. It is disposable: reconciliation may
// overwrite any of it at any time, and only the aggregator and the
// submission engine's optimistic updates write to it.
type Store struct {
	mu          sync.RWMutex
	views       []EnrolledCourseView
	submissions map[submissionKey]assignment.Submission
	lastErr     error
}

var _ assignment.SubmissionCache = (*Store)(nil)

func NewStore() *Store {
	return &Store{submissions: make(map[submissionKey]assignment.Submission)}
}

// ReplaceViews swaps the composed views wholesale; replacing a view set is
// commutative with itself, which is what makes reconciliation idempotent.
func (s *Store) ReplaceViews(views []EnrolledCourseView) {
	s.mu.Lock()
	s.views = views
	s.lastErr = nil
	s.mu.Unlock()
}

func (s *Store) Views() []EnrolledCourseView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	views := make([]EnrolledCourseView, len(s.views))
	copy(views, s.views)
	return views
}

// SetLastError records a transient origin failure so it reaches a UI-visible
// state (a dismissible banner); it is cleared by the next successful refresh.
func (s *Store) SetLastError(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}

func (s *Store) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *Store) GetSubmission(assignmentID, studentID string) (assignment.Submission, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.submissions[submissionKey{assignmentID, studentID}]
	return sub, ok
}

func (s *Store) PutSubmission(sub assignment.Submission) {
	s.mu.Lock()
	s.submissions[submissionKey{sub.AssignmentID, sub.StudentID}] = sub
	s.mu.Unlock()
}

func (s *Store) RemoveSubmission(assignmentID, studentID string) {
	s.mu.Lock()
	delete(s.submissions, submissionKey{assignmentID, studentID})
	s.mu.Unlock()
}
