package assignment

import (
	"time"

	"github.com/trezcool/darasa/core"
)

// Grading statuses. A submission goes ungraded → graded and may be re-graded
// (graded → graded with a new score); it never goes back to ungraded.
type GradingStatus string

const (
	StatusUngraded GradingStatus = "ungraded"
	StatusGraded   GradingStatus = "graded"
)

// Attachment is a binary attachment in its transportable form: base64 content
// plus the declared MIME type and original filename.
type Attachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Content     string `json:"content"` // base64
}

type Content struct {
	Text   string       `json:"text"`
	Files  []Attachment `json:"files"`
	Images []Attachment `json:"images"`
}

func (c Content) IsEmpty() bool {
	return c.Text == "" && len(c.Files) == 0 && len(c.Images) == 0
}

type Assignment struct {
	ID           string    `json:"id"`
	CourseID     string    `json:"course_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Instructions string    `json:"instructions"`
	Content      Content   `json:"content"`
	DueDate      time.Time `json:"due_date"` // UTC
	TotalPoints  float64   `json:"total_points"`
	CreatedAt    time.Time `json:"created_at"` // UTC
}

// Normalize cleans an Assignment received from the origin and checks its invariants.
func (a Assignment) Normalize() (Assignment, error) {
	a.Title = core.CleanString(a.Title)

	var flds []core.FieldError
	if a.ID == "" {
		flds = append(flds, core.FieldError{Field: "id", Error: "this field is required"})
	}
	if a.CourseID == "" {
		flds = append(flds, core.FieldError{Field: "course_id", Error: "this field is required"})
	}
	if a.Title == "" {
		flds = append(flds, core.FieldError{Field: "title", Error: "this field is required"})
	}
	if a.TotalPoints <= 0 {
		flds = append(flds, core.FieldError{Field: "total_points", Error: "must be greater than 0"})
	}
	if a.DueDate.IsZero() {
		flds = append(flds, core.FieldError{Field: "due_date", Error: "this field is required"})
	}
	if len(flds) > 0 {
		return Assignment{}, core.NewValidationError(errInvalidAssignment, flds...)
	}
	return a, nil
}

type Grading struct {
	Status     GradingStatus `json:"status"`
	Score      float64       `json:"score"`
	MaxScore   float64       `json:"max_score"`
	Percentage float64       `json:"percentage"`
	Comment    string        `json:"comment"`
	Feedback   []Attachment  `json:"feedback"`
}

// Submission is a student's single current response to one assignment; at most
// one exists per (assignment, student) and re-submission replaces its content.
type Submission struct {
	ID           string    `json:"id"`
	AssignmentID string    `json:"assignment_id"`
	StudentID    string    `json:"student_id"`
	Content      Content   `json:"content"`
	SubmittedAt  time.Time `json:"submitted_at"` // UTC
	IsLate       bool      `json:"is_late"`
	Grading      Grading   `json:"grading"`
}

func (s Submission) IsGraded() bool { return s.Grading.Status == StatusGraded }

// Normalize recomputes the derived fields of a Submission against its
// Assignment; the origin's stored values are never trusted over a recompute.
func (s Submission) Normalize(a Assignment) (Submission, error) {
	var flds []core.FieldError
	if s.ID == "" {
		flds = append(flds, core.FieldError{Field: "id", Error: "this field is required"})
	}
	if s.AssignmentID == "" {
		flds = append(flds, core.FieldError{Field: "assignment_id", Error: "this field is required"})
	}
	if s.Grading.Score < 0 {
		flds = append(flds, core.FieldError{Field: "score", Error: "must not be negative"})
	}
	if len(flds) > 0 {
		return Submission{}, core.NewValidationError(errInvalidSubmission, flds...)
	}

	s.IsLate = IsLate(a.DueDate, s.SubmittedAt)
	s.Grading.MaxScore = a.TotalPoints
	if s.IsGraded() {
		s.Grading.Percentage = Percentage(s.Grading.Score, a.TotalPoints)
	}
	return s, nil
}

// NewAssignment contains information needed to create a new Assignment.
type NewAssignment struct {
	Title        string    `json:"title" validate:"required"`
	Description  string    `json:"description"`
	Instructions string    `json:"instructions"`
	Text         string    `json:"text"`
	Files        []Upload  `json:"files" validate:"dive"`
	Images       []Upload  `json:"images" validate:"dive"`
	DueDate      time.Time `json:"due_date" validate:"required"`
	TotalPoints  float64   `json:"total_points" validate:"required,gt=0"`
}

func (na *NewAssignment) Validate() error {
	na.Title = core.CleanString(na.Title)
	na.Description = core.CleanString(na.Description)
	na.Instructions = core.CleanString(na.Instructions)
	return core.Validate.Struct(na)
}

// Upload is a raw binary attachment before encoding.
type Upload struct {
	Filename    string `json:"filename" validate:"required"`
	ContentType string `json:"content_type"` // sniffed from data when empty
	Data        []byte `json:"data" validate:"required"`
}

// SubmissionForm is a student's raw form state for one assignment.
type SubmissionForm struct {
	Text   string   `json:"text"`
	Files  []Upload `json:"files" validate:"dive"`
	Images []Upload `json:"images" validate:"dive"`
}

func (f *SubmissionForm) Validate() error {
	f.Text = core.CleanString(f.Text)
	if f.Text == "" && len(f.Files) == 0 && len(f.Images) == 0 {
		return core.NewValidationError(
			errEmptySubmission,
			core.FieldError{Field: "text", Error: "provide text, a file or an image"},
		)
	}
	return core.Validate.Struct(f)
}

// SubmissionPayload is the transportable form of a prepared submission.
type SubmissionPayload struct {
	Text   string       `json:"text"`
	Files  []Attachment `json:"files"`
	Images []Attachment `json:"images"`
}

func (p SubmissionPayload) Content() Content {
	return Content{Text: p.Text, Files: p.Files, Images: p.Images}
}

// GradeForm is the administrator's score/feedback for one submission.
type GradeForm struct {
	Score   float64 `json:"score" validate:"gte=0"`
	Comment string  `json:"comment"`
}

// Validate rejects scores outside [0, totalPoints]; the clamp in Percentage is
// a last-resort safety net, not this primary validation path.
func (gf *GradeForm) Validate(a Assignment) error {
	gf.Comment = core.CleanString(gf.Comment)
	if err := core.Validate.Struct(gf); err != nil {
		return err
	}
	if gf.Score > a.TotalPoints {
		return core.NewValidationError(
			errInvalidGrade,
			core.FieldError{Field: "score", Error: "score exceeds total points"},
		)
	}
	return nil
}
