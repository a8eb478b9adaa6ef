package activity

import (
	"context"
	"strconv"

	"github.com/pkg/errors"

	"github.com/Luis-AP/gespro/core"
	"github.com/Luis-AP/gespro/core/user"
)

type (
	Repository interface {
		CreateActivity(ctx context.Context, act Activity) (Activity, error)
		GetActivityByID(ctx context.Context, id int) (Activity, error)
		QueryAllActivities(ctx context.Context) ([]Activity, error)
		QueryActivitiesByProfessor(ctx context.Context, professorID int) ([]Activity, error)
		// UpdateActivity writes name, description, due_date and min_grade;
		// professor_id and created_at are never touched.
		UpdateActivity(ctx context.Context, act Activity) (Activity, error)
		DeleteActivity(ctx context.Context, id int) error
	}

	ServiceInterface interface {
		Create(ctx context.Context, na NewActivity, professorID int) (Activity, error)
		Update(ctx context.Context, ua UpdateActivity, activityID, professorID int) (Activity, error)
		Delete(ctx context.Context, activityID, professorID int) error
		Get(ctx context.Context, activityID, professorID int) (Activity, error)
		Query(ctx context.Context, professorID int) ([]Activity, error)
	}

	Service struct {
		repo    Repository
		usrRepo user.Repository
		logger  core.Logger
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository, usrRepo user.Repository, logger core.Logger) *Service {
	return &Service{repo: repo, usrRepo: usrRepo, logger: logger}
}

// Create validates and persists a new activity owned by professorID.
// professorID comes from the authenticated caller's claims; receiving an
// empty one is a programming-contract violation, not a validation error.
func (svc *Service) Create(ctx context.Context, na NewActivity, professorID int) (Activity, error) {
	if professorID == 0 {
		svc.logger.Critical("activity.Create called without a professor id")
		return Activity{}, errors.New("missing professor id from caller context")
	}

	act := Activity{
		Name:        core.CleanString(na.Name),
		Description: core.CleanString(na.Description),
		ProfessorID: professorID,
	}
	if act.Name == "" {
		return Activity{}, core.NewValidationError(nil, core.FieldError{Field: "name", Error: "the activity name is required"})
	}

	dueDate, err := parseDueDate(na.DueDate)
	if err != nil {
		return Activity{}, err
	}
	act.DueDate = dueDate

	minGrade, err := parseMinGrade(na.MinGrade)
	if err != nil {
		return Activity{}, err
	}
	act.MinGrade = minGrade

	return svc.repo.CreateActivity(ctx, act)
}

// Update applies a partial update: empty fields keep the stored values,
// supplied ones are re-validated. Only the owning professor may update.
func (svc *Service) Update(ctx context.Context, ua UpdateActivity, activityID, professorID int) (Activity, error) {
	act, err := svc.repo.GetActivityByID(ctx, activityID)
	if err != nil {
		if err == ErrNotFound {
			return Activity{}, core.NewNotFoundError(err.Error())
		}
		return Activity{}, err
	}
	if act.ProfessorID != professorID {
		return Activity{}, core.NewOwnershipError("the activity does not belong to the requesting professor")
	}

	if name := core.CleanString(ua.Name); name != "" {
		act.Name = name
	}
	if desc := core.CleanString(ua.Description); desc != "" {
		act.Description = desc
	}
	if ua.DueDate != "" {
		dueDate, err := parseDueDate(ua.DueDate)
		if err != nil {
			return Activity{}, err
		}
		act.DueDate = dueDate
	}
	if ua.MinGrade != "" {
		minGrade, err := parseMinGrade(ua.MinGrade)
		if err != nil {
			return Activity{}, err
		}
		act.MinGrade = minGrade
	}

	return svc.repo.UpdateActivity(ctx, act)
}

// Delete removes an activity, only while it is not yet past due.
func (svc *Service) Delete(ctx context.Context, activityID, professorID int) error {
	act, err := svc.repo.GetActivityByID(ctx, activityID)
	if err != nil {
		if err == ErrNotFound {
			return core.NewNotFoundError(err.Error())
		}
		return err
	}
	if act.ProfessorID != professorID {
		return core.NewOwnershipError("the activity does not belong to the requesting professor")
	}
	if !act.IsOpen() {
		return core.NewServiceError("the activity is already past due")
	}
	return svc.repo.DeleteActivity(ctx, act.ID)
}

// Get returns an activity. When professorID is non-zero the activity must
// belong to that professor; a zero professorID (student view) returns the
// activity regardless of its owner.
func (svc *Service) Get(ctx context.Context, activityID, professorID int) (Activity, error) {
	act, err := svc.repo.GetActivityByID(ctx, activityID)
	if err != nil {
		if err == ErrNotFound {
			return Activity{}, core.NewNotFoundError(err.Error())
		}
		return Activity{}, err
	}
	if professorID != 0 && act.ProfessorID != professorID {
		return Activity{}, core.NewOwnershipError("the activity does not belong to the requesting professor")
	}
	return act, nil
}

// Query returns all activities, or those of a single professor when
// professorID is non-zero. The professor must exist.
func (svc *Service) Query(ctx context.Context, professorID int) ([]Activity, error) {
	if professorID != 0 {
		if _, err := svc.usrRepo.GetProfessorByID(ctx, professorID); err != nil {
			if err == user.ErrNotFound {
				return nil, core.NewValidationError(nil, core.FieldError{Field: "professor_id", Error: "the professor id does not exist"})
			}
			return nil, err
		}
		return svc.repo.QueryActivitiesByProfessor(ctx, professorID)
	}
	return svc.repo.QueryAllActivities(ctx)
}

func parseDueDate(value string) (core.Date, error) {
	if value == "" {
		return core.Date{}, core.NewValidationError(nil, core.FieldError{Field: "due_date", Error: "the due date is required"})
	}
	dueDate, err := core.ParseDate(value)
	if err != nil {
		return core.Date{}, core.NewValidationError(nil, core.FieldError{Field: "due_date", Error: "invalid date format, expected YYYY-MM-DD"})
	}
	if core.Today().After(dueDate.Time) {
		return core.Date{}, core.NewValidationError(nil, core.FieldError{Field: "due_date", Error: "the due date cannot be in the past"})
	}
	return dueDate, nil
}

func parseMinGrade(value string) (int, error) {
	if value == "" {
		return 0, core.NewValidationError(nil, core.FieldError{Field: "min_grade", Error: "the minimum grade is required"})
	}
	minGrade, err := strconv.Atoi(value)
	if err != nil {
		return 0, core.NewValidationError(nil, core.FieldError{Field: "min_grade", Error: "the minimum grade must be a whole number"})
	}
	if minGrade < MinGradeFloor || minGrade > MinGradeCeil {
		return 0, core.NewValidationError(nil, core.FieldError{Field: "min_grade", Error: "the minimum grade must be between 1 and 10"})
	}
	return minGrade, nil
}
