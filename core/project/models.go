package project

import (
	"errors"

	"github.com/Luis-AP/gespro/core"
)

// Project statuses. OPEN -> GRADED is the only transition; GRADED is terminal.
const (
	StatusOpen   = "OPEN"
	StatusGraded = "GRADED"
)

// Grade bounds, inclusive.
const (
	GradeFloor = 0.0
	GradeCeil  = 10.0
)

var (
	// errors
	ErrNotFound = errors.New("project not found")
	// ErrDuplicateParticipation is the translation of the stored procedures'
	// SIGNAL SQLSTATE '45000' (errno 1644): a student may belong to at most
	// one project per activity.
	ErrDuplicateParticipation = errors.New("student already participates in a project for this activity")
	// ErrUnknownStudent is the translation of the members.student_id FK
	// violation raised by the AddMember procedure.
	ErrUnknownStudent = errors.New("the id doesn't belong to any student")
)

// Project is a student (or group) submission against an activity.
type Project struct {
	ID            int           `json:"id" db:"id"`
	Title         string        `json:"title" db:"title"`
	RepositoryURL string        `json:"repository_url" db:"repository_url"`
	ActivityID    int           `json:"activity_id" db:"activity_id"`
	IsGroup       bool          `json:"is_group" db:"is_group"`
	Grade         *float64      `json:"grade" db:"grade"`
	Status        string        `json:"status" db:"status"`
	CreatedAt     core.DateTime `json:"created_at" db:"created_at"`
	UpdatedAt     core.DateTime `json:"updated_at" db:"updated_at"`
}

// Member associates a student to a project. Exactly one member per project
// has IsOwner set while the project exists.
type Member struct {
	ID        int           `json:"id" db:"id"`
	ProjectID int           `json:"project_id" db:"project_id"`
	StudentID int           `json:"student_id" db:"student_id"`
	IsOwner   bool          `json:"is_owner" db:"is_owner"`
	JoinedAt  core.DateTime `json:"joined_at" db:"joined_at"`
}

// Detail is a denormalized listing row joining the parent activity and the
// aggregated member ids.
type Detail struct {
	Project
	ActivityName string    `json:"activity_name" db:"activity_name"`
	DueDate      core.Date `json:"due_date" db:"due_date"`
	ProfessorID  int       `json:"professor_id" db:"professor_id"`
	MemberIDs    []int     `json:"member_ids" db:"-"`
}

// Filter scopes a project listing. Exactly one of StudentID or ProfessorID
// must be set; ActivityID is optional.
type Filter struct {
	StudentID   int
	ProfessorID int
	ActivityID  int
}

// NewProject contains the fields of a project creation request.
type NewProject struct {
	Title         string `json:"title"`
	RepositoryURL string `json:"repository_url"`
	ActivityID    int    `json:"activity_id"`
}

// UpdateProject contains the fields of a partial project update.
// Empty fields keep their original values.
type UpdateProject struct {
	Title         string `json:"title"`
	RepositoryURL string `json:"repository_url"`
}
