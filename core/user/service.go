package user

import (
	"context"

	"github.com/Luis-AP/gespro/core"
)

type (
	Repository interface {
		CheckEmailUniqueness(ctx context.Context, email string) error
		CreateStudent(ctx context.Context, usr User) (User, error)
		CreateProfessor(ctx context.Context, usr User) (User, error)
		GetUserByID(ctx context.Context, id int) (User, error)
		GetUserByEmail(ctx context.Context, email string) (User, error)
		GetProfessorByID(ctx context.Context, professorID int) (User, error)
		GetStudentByID(ctx context.Context, studentID int) (User, error)
		QueryStudents(ctx context.Context) ([]User, error)
		QueryProfessors(ctx context.Context) ([]User, error)
	}

	ServiceInterface interface {
		CheckEmailUniqueness(ctx context.Context, email string) error
		RegisterStudent(ctx context.Context, ns NewStudent) (User, error)
		Authenticate(ctx context.Context, email, pwd string) (User, error)
		GetByID(ctx context.Context, id int) (User, error)
		QueryStudents(ctx context.Context) ([]User, error)
		QueryProfessors(ctx context.Context) ([]User, error)
	}

	Service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) CheckEmailUniqueness(ctx context.Context, email string) error {
	if err := svc.repo.CheckEmailUniqueness(ctx, email); err != nil {
		if err == ErrEmailExists {
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) RegisterStudent(ctx context.Context, ns NewStudent) (User, error) {
	usr := User{
		Email:            ns.Email,
		FirstName:        ns.FirstName,
		LastName:         ns.LastName,
		Role:             RoleStudent,
		EnrollmentNumber: ns.EnrollmentNumber,
		Major:            ns.Major,
		EnrolledAt:       core.Today(),
	}
	if ns.EnrolledAt != "" {
		enrolledAt, err := core.ParseDate(ns.EnrolledAt)
		if err != nil {
			return User{}, core.NewValidationError(nil, core.FieldError{Field: "enrolled_at", Error: "invalid date format, expected YYYY-MM-DD"})
		}
		usr.EnrolledAt = enrolledAt
	}
	if err := usr.SetPassword(ns.Password); err != nil {
		return User{}, err
	}
	return svc.repo.CreateStudent(ctx, usr)
}

// Authenticate verifies the credentials and returns the matching user.
// It returns ErrNotFound for both an unknown email and a password mismatch
// so the caller cannot tell registered emails apart.
func (svc *Service) Authenticate(ctx context.Context, email, pwd string) (User, error) {
	usr, err := svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
	if err != nil {
		return User{}, err
	}
	if err = usr.CheckPassword(pwd); err != nil {
		return User{}, ErrNotFound
	}
	return usr, nil
}

func (svc *Service) GetByID(ctx context.Context, id int) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *Service) QueryStudents(ctx context.Context) ([]User, error) {
	return svc.repo.QueryStudents(ctx)
}

func (svc *Service) QueryProfessors(ctx context.Context) ([]User, error) {
	return svc.repo.QueryProfessors(ctx)
}
