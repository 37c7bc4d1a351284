package enrollment

import (
	"time"

	"github.com/trezcool/darasa/core"
)

type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusAbsent  AttendanceStatus = "absent"
	StatusLate    AttendanceStatus = "late"
)

func (s AttendanceStatus) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate:
		return true
	}
	return false
}

// Enrollment links a student to a course they have joined. CourseID is a weak
// reference: the course may be deleted after enrollment, so every read site
// must resolve it through the origin and treat NotFound as deletion.
type Enrollment struct {
	ID              string    `json:"id"`
	CourseID        string    `json:"course_id"`
	StudentID       string    `json:"student_id"`
	EnrollmentDate  time.Time `json:"enrollment_date"` // UTC
	PresentDays     int       `json:"present_days"`
	TotalAttendance int       `json:"total_attendance"`
}

// Normalize checks an Enrollment received from the origin.
func (e Enrollment) Normalize() (Enrollment, error) {
	var flds []core.FieldError
	if e.ID == "" {
		flds = append(flds, core.FieldError{Field: "id", Error: "this field is required"})
	}
	if e.CourseID == "" {
		flds = append(flds, core.FieldError{Field: "course_id", Error: "this field is required"})
	}
	if e.StudentID == "" {
		flds = append(flds, core.FieldError{Field: "student_id", Error: "this field is required"})
	}
	if e.PresentDays < 0 || e.TotalAttendance < 0 || e.PresentDays > e.TotalAttendance {
		flds = append(flds, core.FieldError{Field: "present_days", Error: "inconsistent attendance counters"})
	}
	if len(flds) > 0 {
		return Enrollment{}, core.NewValidationError(errInvalidEnrollment, flds...)
	}
	return e, nil
}

// AttendanceRate returns the fraction of attended days in [0, 1].
func (e Enrollment) AttendanceRate() float64 {
	if e.TotalAttendance == 0 {
		return 0
	}
	return float64(e.PresentDays) / float64(e.TotalAttendance)
}

type AttendanceRecord struct {
	ID           string           `json:"id"`
	EnrollmentID string           `json:"enrollment_id"`
	Date         time.Time        `json:"date"` // UTC
	Status       AttendanceStatus `json:"status"`
}

// NewAttendance marks one student's attendance for a course on a given date.
type NewAttendance struct {
	StudentID string           `json:"student_id" validate:"required"`
	Date      time.Time        `json:"date" validate:"required"`
	Status    AttendanceStatus `json:"status" validate:"required,attstatus"`
}

func (na *NewAttendance) Validate() error {
	na.StudentID = core.CleanString(na.StudentID)
	return core.Validate.Struct(na)
}

// LiveAttendanceEntry is one row of a live-class attendance batch.
type LiveAttendanceEntry struct {
	StudentID string           `json:"student_id" validate:"required"`
	Status    AttendanceStatus `json:"status" validate:"required,attstatus"`
}

// LiveAttendanceBatch records attendance for every enrolled student of a live
// class in a single write.
type LiveAttendanceBatch struct {
	Entries []LiveAttendanceEntry `json:"entries" validate:"required,min=1,dive"`
}

func (b *LiveAttendanceBatch) Validate() error {
	for i := range b.Entries {
		b.Entries[i].StudentID = core.CleanString(b.Entries[i].StudentID)
	}
	if err := core.Validate.Struct(b); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(b.Entries))
	for _, entry := range b.Entries {
		if _, dup := seen[entry.StudentID]; dup {
			return core.NewValidationError(
				errInvalidAttendance,
				core.FieldError{Field: "entries", Error: "duplicate student: " + entry.StudentID},
			)
		}
		seen[entry.StudentID] = struct{}{}
	}
	return nil
}

// Covers reports whether the batch has a row for every given student.
func (b *LiveAttendanceBatch) Covers(studentIDs []string) bool {
	marked := make(map[string]struct{}, len(b.Entries))
	for _, entry := range b.Entries {
		marked[entry.StudentID] = struct{}{}
	}
	for _, id := range studentIDs {
		if _, ok := marked[id]; !ok {
			return false
		}
	}
	return true
}
