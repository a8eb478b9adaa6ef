package user

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/Luis-AP/gespro/core"
)

// Roles
const (
	RoleStudent   = "student"
	RoleProfessor = "professor"
)

var (
	// errors
	ErrNotFound    = errors.New("user not found")
	ErrEmailExists = errors.New("a user with this email already exists")
)

// User is the identity record. Role decides which of the role-specific
// field groups is meaningful: StudentID/EnrollmentNumber/Major/EnrolledAt
// for students, ProfessorID/Department/Specialty for professors.
type User struct {
	ID           int           `json:"user_id" db:"user_id"`
	Email        string        `json:"email" db:"email"`
	FirstName    string        `json:"first_name" db:"first_name"`
	LastName     string        `json:"last_name" db:"last_name"`
	Role         string        `json:"role" db:"role"`
	PasswordHash []byte        `json:"-" db:"password"`
	CreatedAt    core.DateTime `json:"created_at" db:"created_at"`

	// student fields
	StudentID        int       `json:"student_id,omitempty" db:"student_id"`
	EnrollmentNumber string    `json:"enrollment_number,omitempty" db:"enrollment_number"`
	Major            string    `json:"major,omitempty" db:"major"`
	EnrolledAt       core.Date `json:"enrolled_at,omitempty" db:"enrolled_at"`

	// professor fields
	ProfessorID int    `json:"professor_id,omitempty" db:"professor_id"`
	Department  string `json:"department,omitempty" db:"department"`
	Specialty   string `json:"specialty,omitempty" db:"specialty"`
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) IsStudent() bool {
	return u.Role == RoleStudent
}

func (u *User) IsProfessor() bool {
	return u.Role == RoleProfessor
}

// NewStudent contains the fields of a student registration.
type NewStudent struct {
	Email            string `json:"email" validate:"required,email"`
	Password         string `json:"password" validate:"required"`
	FirstName        string `json:"first_name" validate:"required"`
	LastName         string `json:"last_name" validate:"required"`
	EnrollmentNumber string `json:"enrollment_number" validate:"required"`
	Major            string `json:"major"`
	EnrolledAt       string `json:"enrolled_at"`
}

func (ns *NewStudent) Validate(ctx context.Context, svc ServiceInterface) error {
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.FirstName = core.CleanString(ns.FirstName)
	ns.LastName = core.CleanString(ns.LastName)
	ns.EnrollmentNumber = core.CleanString(ns.EnrollmentNumber)
	ns.Major = core.CleanString(ns.Major)
	if err := core.Validate.Struct(ns); err != nil {
		return err
	}
	return svc.CheckEmailUniqueness(ctx, ns.Email)
}
