package activity

import (
	"errors"

	"github.com/Luis-AP/gespro/core"
)

// Activity rule bounds.
const (
	MinGradeFloor = 1
	MinGradeCeil  = 10
)

var ErrNotFound = errors.New("activity not found")

// Activity is a professor-authored assignment with a deadline and a
// passing-grade threshold. ProfessorID is immutable after creation.
type Activity struct {
	ID          int           `json:"id" db:"id"`
	Name        string        `json:"name" db:"name"`
	Description string        `json:"description" db:"description"`
	DueDate     core.Date     `json:"due_date" db:"due_date"`
	MinGrade    int           `json:"min_grade" db:"min_grade"`
	ProfessorID int           `json:"professor_id" db:"professor_id"`
	CreatedAt   core.DateTime `json:"created_at" db:"created_at"`
	UpdatedAt   core.DateTime `json:"updated_at" db:"updated_at"`
}

// IsOpen reports whether the activity still accepts submissions.
// The due date itself is inclusive.
func (a Activity) IsOpen() bool {
	return !core.Today().After(a.DueDate.Time)
}

// NewActivity contains the fields of an activity creation request.
// DueDate and MinGrade arrive as strings and are parsed by the service.
type NewActivity struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	MinGrade    string `json:"min_grade"`
}

// UpdateActivity contains the fields of a partial activity update.
// Empty fields keep their original values.
type UpdateActivity struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	MinGrade    string `json:"min_grade"`
}
