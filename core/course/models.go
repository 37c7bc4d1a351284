package course

import (
	"time"

	"github.com/trezcool/darasa/core"
)

// Course levels
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

var Levels = []string{LevelBeginner, LevelIntermediate, LevelAdvanced}

type Schedule struct {
	Days      []string `json:"days" validate:"required,min=1,dive,weekday"`
	StartTime string   `json:"start_time" validate:"required"`
	EndTime   string   `json:"end_time" validate:"required"`
}

type Course struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Category         string    `json:"category"`
	Level            string    `json:"level"`
	Price            float64   `json:"price"`
	DurationWeeks    int       `json:"duration_weeks"`
	MaxStudents      int       `json:"max_students"`
	EnrolledStudents int       `json:"enrolled_students"`
	StartDate        time.Time `json:"start_date"` // UTC
	EndDate          time.Time `json:"end_date"`   // UTC
	Schedule         Schedule  `json:"schedule"`
	CreatedAt        time.Time `json:"created_at"` // UTC
	UpdatedAt        time.Time `json:"updated_at"` // UTC
}

// Normalize cleans a Course received from the origin and checks its invariants.
func (c Course) Normalize() (Course, error) {
	c.Title = core.CleanString(c.Title)
	c.Category = core.CleanString(c.Category, true /* lower */)
	c.Level = core.CleanString(c.Level, true /* lower */)

	var flds []core.FieldError
	if c.ID == "" {
		flds = append(flds, core.FieldError{Field: "id", Error: "this field is required"})
	}
	if c.Title == "" {
		flds = append(flds, core.FieldError{Field: "title", Error: "this field is required"})
	}
	if c.EndDate.IsZero() && c.DurationWeeks > 0 {
		c.EndDate = c.StartDate.AddDate(0, 0, c.DurationWeeks*7)
	}
	if !c.StartDate.Before(c.EndDate) {
		flds = append(flds, core.FieldError{Field: "end_date", Error: "end date must be after start date"})
	}
	if c.EnrolledStudents > c.MaxStudents {
		flds = append(flds, core.FieldError{Field: "enrolled_students", Error: "enrolled students exceed capacity"})
	}
	if len(flds) > 0 {
		return Course{}, core.NewValidationError(errInvalidCourse, flds...)
	}
	return c, nil
}

func (c Course) IsFull() bool { return c.EnrolledStudents >= c.MaxStudents }

// NewCourse contains information needed to create a new Course.
type NewCourse struct {
	Title         string    `json:"title" validate:"required"`
	Category      string    `json:"category" validate:"required"`
	Level         string    `json:"level" validate:"required,courselevel"`
	Price         float64   `json:"price" validate:"gte=0"`
	DurationWeeks int       `json:"duration_weeks" validate:"required,gt=0"`
	MaxStudents   int       `json:"max_students" validate:"required,gt=0"`
	StartDate     time.Time `json:"start_date" validate:"required"`
	EndDate       time.Time `json:"end_date"` // optional; derived from duration when zero
	Schedule      Schedule  `json:"schedule"`
}

func (nc *NewCourse) Validate() error {
	nc.Title = core.CleanString(nc.Title)
	nc.Category = core.CleanString(nc.Category, true /* lower */)
	nc.Level = core.CleanString(nc.Level, true /* lower */)

	if err := core.Validate.Struct(nc); err != nil {
		return err
	}

	// endDate = startDate + duration weeks, unless the admin overrode it.
	if nc.EndDate.IsZero() {
		nc.EndDate = nc.StartDate.AddDate(0, 0, nc.DurationWeeks*7)
	}
	if !nc.StartDate.Before(nc.EndDate) {
		return core.NewValidationError(
			errInvalidCourse,
			core.FieldError{Field: "end_date", Error: "end date must be after start date"},
		)
	}
	return nil
}

// UpdateCourse defines what information may be provided to modify an existing Course.
// Zero-valued fields keep the original value.
type UpdateCourse struct {
	Title         string    `json:"title"`
	Category      string    `json:"category"`
	Level         string    `json:"level" validate:"omitempty,courselevel"`
	Price         *float64  `json:"price" validate:"omitempty,gte=0"`
	DurationWeeks int       `json:"duration_weeks" validate:"omitempty,gt=0"`
	MaxStudents   int       `json:"max_students" validate:"omitempty,gt=0"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	Schedule      *Schedule `json:"schedule"`
}

func (uc *UpdateCourse) Validate(orig Course) error {
	if title := core.CleanString(uc.Title); title != "" {
		uc.Title = title
	} else {
		uc.Title = orig.Title
	}
	if cat := core.CleanString(uc.Category, true /* lower */); cat != "" {
		uc.Category = cat
	} else {
		uc.Category = orig.Category
	}
	uc.Level = core.CleanString(uc.Level, true /* lower */)

	if err := core.Validate.Struct(uc); err != nil {
		return err
	}

	start, end := uc.StartDate, uc.EndDate
	if start.IsZero() {
		start = orig.StartDate
	}
	if end.IsZero() {
		end = orig.EndDate
	}
	if !start.Before(end) {
		return core.NewValidationError(
			errInvalidCourse,
			core.FieldError{Field: "end_date", Error: "end date must be after start date"},
		)
	}
	if max := uc.MaxStudents; max > 0 && max < orig.EnrolledStudents {
		return core.NewValidationError(
			errInvalidCourse,
			core.FieldError{Field: "max_students", Error: "capacity below current enrollment"},
		)
	}
	return nil
}

// LiveClass temporal states, computed at read time and never persisted.
type State string

const (
	StateUpcoming State = "upcoming"
	StatePast     State = "past"
)

type LiveClass struct {
	ID              string    `json:"id"`
	CourseID        string    `json:"course_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	ScheduledAt     time.Time `json:"scheduled_at"` // UTC
	DurationMinutes int       `json:"duration_minutes"`
	MeetingURL      string    `json:"meeting_url"`
}

// State reports whether the class is still to come relative to now.
func (lc LiveClass) State(now time.Time) State {
	if lc.ScheduledAt.After(now) {
		return StateUpcoming
	}
	return StatePast
}

func (lc LiveClass) EndsAt() time.Time {
	return lc.ScheduledAt.Add(time.Duration(lc.DurationMinutes) * time.Minute)
}

// NewLiveClass contains information needed to schedule a new LiveClass.
type NewLiveClass struct {
	Title           string    `json:"title" validate:"required"`
	Description     string    `json:"description"`
	ScheduledAt     time.Time `json:"scheduled_at" validate:"required"`
	DurationMinutes int       `json:"duration_minutes" validate:"required,gt=0"`
	MeetingURL      string    `json:"meeting_url" validate:"required,url"`
}

func (nlc *NewLiveClass) Validate() error {
	nlc.Title = core.CleanString(nlc.Title)
	nlc.Description = core.CleanString(nlc.Description)
	nlc.MeetingURL = core.CleanString(nlc.MeetingURL)
	return core.Validate.Struct(nlc)
}
