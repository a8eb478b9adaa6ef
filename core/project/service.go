package project

import (
	"context"
	"strconv"

	"github.com/pkg/errors"

	"github.com/Luis-AP/gespro/core"
	"github.com/Luis-AP/gespro/core/activity"
)

type (
	Repository interface {
		// CreateProject invokes the atomic CreateProject procedure: the
		// project row and the owner member row are inserted in a single
		// transaction, which also enforces the one-project-per-activity-
		// per-student constraint (ErrDuplicateParticipation on violation).
		CreateProject(ctx context.Context, np NewProject, studentID int) (Project, error)
		GetProjectByID(ctx context.Context, id int) (Project, error)
		QueryProjectsByActivity(ctx context.Context, activityID int) ([]Project, error)
		QueryProjectDetails(ctx context.Context, filter Filter) ([]Detail, error)
		GetProjectMembers(ctx context.Context, projectID int) ([]Member, error)
		IsProjectOwner(ctx context.Context, projectID, studentID int) (bool, error)
		IsProjectMember(ctx context.Context, projectID, studentID int) (bool, error)
		// AddMember invokes the atomic AddMember procedure; it enforces the
		// same uniqueness constraint for the added student and surfaces
		// ErrUnknownStudent when the id references no student.
		AddMember(ctx context.Context, studentID, projectID int) (Member, error)
		// RemoveMember deletes the membership row and recomputes is_group
		// in the same transaction.
		RemoveMember(ctx context.Context, studentID, projectID int) error
		UpdateProject(ctx context.Context, prj Project) (Project, error)
		// UpdateProjectGrade sets the grade and flips status to GRADED
		// in a single statement.
		UpdateProjectGrade(ctx context.Context, projectID int, grade float64) error
		DeleteProject(ctx context.Context, id int) error
	}

	ServiceInterface interface {
		Create(ctx context.Context, np NewProject, studentID int) (Project, error)
		AddMember(ctx context.Context, projectID, studentID, requestingStudentID int) (Member, error)
		RemoveMember(ctx context.Context, projectID, studentID, requestingStudentID int) error
		Update(ctx context.Context, up UpdateProject, projectID, studentID int) (Project, error)
		Delete(ctx context.Context, projectID, studentID int) error
		Grade(ctx context.Context, projectID, professorID int, grade string) (Project, error)
		Query(ctx context.Context, filter Filter) ([]Detail, error)
		Grades(ctx context.Context, activityID, professorID int) ([]Project, error)
	}

	Service struct {
		repo    Repository
		actRepo activity.Repository
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository, actRepo activity.Repository) *Service {
	return &Service{repo: repo, actRepo: actRepo}
}

// Create validates and persists a new project; the creating student becomes
// its sole owner-member. The parent activity must still be open.
func (svc *Service) Create(ctx context.Context, np NewProject, studentID int) (Project, error) {
	if np.ActivityID == 0 {
		return Project{}, core.NewValidationError(nil, core.FieldError{Field: "activity_id", Error: "the activity id is required"})
	}
	act, err := svc.actRepo.GetActivityByID(ctx, np.ActivityID)
	if err != nil {
		if err == activity.ErrNotFound {
			return Project{}, core.NewNotFoundError(err.Error())
		}
		return Project{}, err
	}
	if !act.IsOpen() {
		return Project{}, core.NewServiceError("the activity deadline has passed")
	}

	np.Title = core.CleanString(np.Title)
	np.RepositoryURL = core.CleanString(np.RepositoryURL)
	if np.Title == "" {
		return Project{}, core.NewValidationError(nil, core.FieldError{Field: "title", Error: "the title is required"})
	}
	if np.RepositoryURL == "" {
		return Project{}, core.NewValidationError(nil, core.FieldError{Field: "repository_url", Error: "the repository URL is required"})
	}
	if !ValidRepositoryURL(np.RepositoryURL) {
		return Project{}, core.NewValidationError(nil, core.FieldError{Field: "repository_url", Error: repoURLText})
	}

	prj, err := svc.repo.CreateProject(ctx, np, studentID)
	if err != nil {
		if err == ErrDuplicateParticipation {
			return Project{}, core.NewServiceError(err.Error(), err)
		}
		return Project{}, err
	}
	return prj, nil
}

// AddMember adds a student to a project. Only the owner-member may add, and
// only while the parent activity is open.
func (svc *Service) AddMember(ctx context.Context, projectID, studentID, requestingStudentID int) (Member, error) {
	prj, err := svc.repo.GetProjectByID(ctx, projectID)
	if err != nil {
		if err == ErrNotFound {
			return Member{}, core.NewNotFoundError(err.Error())
		}
		return Member{}, err
	}

	isOwner, err := svc.repo.IsProjectOwner(ctx, projectID, requestingStudentID)
	if err != nil {
		return Member{}, err
	}
	if !isOwner {
		return Member{}, core.NewOwnershipError("only the project owner can add members")
	}

	act, err := svc.actRepo.GetActivityByID(ctx, prj.ActivityID)
	if err != nil {
		return Member{}, err
	}
	if !act.IsOpen() {
		return Member{}, core.NewServiceError("the activity deadline has passed")
	}

	member, err := svc.repo.AddMember(ctx, studentID, projectID)
	if err != nil {
		switch err {
		case ErrDuplicateParticipation, ErrUnknownStudent:
			return Member{}, core.NewServiceError(err.Error(), err)
		}
		return Member{}, err
	}
	return member, nil
}

// RemoveMember removes a non-owner member from a project. When a single
// member (the owner) remains afterwards the project becomes individual again.
func (svc *Service) RemoveMember(ctx context.Context, projectID, studentID, requestingStudentID int) error {
	if _, err := svc.repo.GetProjectByID(ctx, projectID); err != nil {
		if err == ErrNotFound {
			return core.NewNotFoundError(err.Error())
		}
		return err
	}

	isOwner, err := svc.repo.IsProjectOwner(ctx, projectID, requestingStudentID)
	if err != nil {
		return err
	}
	if !isOwner {
		return core.NewOwnershipError("only the project owner can remove members")
	}

	isMember, err := svc.repo.IsProjectMember(ctx, projectID, studentID)
	if err != nil {
		return err
	}
	if !isMember {
		return core.NewNotFoundError("the student does not belong to the project")
	}

	targetIsOwner, err := svc.repo.IsProjectOwner(ctx, projectID, studentID)
	if err != nil {
		return err
	}
	if targetIsOwner {
		return core.NewValidationError(errors.New("the project owner cannot be removed"))
	}

	return svc.repo.RemoveMember(ctx, studentID, projectID)
}

// Update applies a partial update to a project's title and repository URL.
// Only the owner-member may update, and only while the activity is open.
func (svc *Service) Update(ctx context.Context, up UpdateProject, projectID, studentID int) (Project, error) {
	prj, err := svc.repo.GetProjectByID(ctx, projectID)
	if err != nil {
		if err == ErrNotFound {
			return Project{}, core.NewNotFoundError(err.Error())
		}
		return Project{}, err
	}

	isOwner, err := svc.repo.IsProjectOwner(ctx, projectID, studentID)
	if err != nil {
		return Project{}, err
	}
	if !isOwner {
		return Project{}, core.NewOwnershipError("only the project owner can update the project")
	}

	act, err := svc.actRepo.GetActivityByID(ctx, prj.ActivityID)
	if err != nil {
		return Project{}, err
	}
	if !act.IsOpen() {
		return Project{}, core.NewServiceError("the project cannot be updated once the activity deadline has passed")
	}

	if url := core.CleanString(up.RepositoryURL); url != "" {
		if !ValidRepositoryURL(url) {
			return Project{}, core.NewValidationError(nil, core.FieldError{Field: "repository_url", Error: repoURLText})
		}
		prj.RepositoryURL = url
	}
	if title := core.CleanString(up.Title); title != "" {
		prj.Title = title
	}

	return svc.repo.UpdateProject(ctx, prj)
}

// Delete hard-deletes a project; membership rows cascade at the persistence
// layer. Only the owner-member may delete, and only while the activity is open.
func (svc *Service) Delete(ctx context.Context, projectID, studentID int) error {
	prj, err := svc.repo.GetProjectByID(ctx, projectID)
	if err != nil {
		if err == ErrNotFound {
			return core.NewNotFoundError(err.Error())
		}
		return err
	}

	isOwner, err := svc.repo.IsProjectOwner(ctx, projectID, studentID)
	if err != nil {
		return err
	}
	if !isOwner {
		return core.NewOwnershipError("only the project owner can delete the project")
	}

	act, err := svc.actRepo.GetActivityByID(ctx, prj.ActivityID)
	if err != nil {
		return err
	}
	if !act.IsOpen() {
		return core.NewServiceError("the project cannot be deleted once the activity deadline has passed")
	}

	return svc.repo.DeleteProject(ctx, projectID)
}

// Grade assigns a grade to a project. Only the professor owning the parent
// activity may grade, and only once the activity's due date has passed.
// The grade must parse as a float in [0, 10].
func (svc *Service) Grade(ctx context.Context, projectID, professorID int, grade string) (Project, error) {
	prj, err := svc.repo.GetProjectByID(ctx, projectID)
	if err != nil {
		if err == ErrNotFound {
			return Project{}, core.NewNotFoundError(err.Error())
		}
		return Project{}, err
	}

	act, err := svc.actRepo.GetActivityByID(ctx, prj.ActivityID)
	if err != nil {
		if err == activity.ErrNotFound {
			// FK between projects and activities is broken
			return Project{}, errors.Errorf("project %d references missing activity %d", prj.ID, prj.ActivityID)
		}
		return Project{}, err
	}
	if act.ProfessorID != professorID {
		return Project{}, core.NewOwnershipError("the project's activity does not belong to the requesting professor")
	}
	if act.IsOpen() {
		return Project{}, core.NewValidationError(errors.New("cannot grade: the activity is still open"))
	}

	value, err := strconv.ParseFloat(grade, 64)
	if err != nil || value < GradeFloor || value > GradeCeil {
		return Project{}, core.NewValidationError(nil, core.FieldError{Field: "grade", Error: "the grade must be a number between 0 and 10"})
	}

	if err = svc.repo.UpdateProjectGrade(ctx, prj.ID, value); err != nil {
		return Project{}, err
	}
	return svc.repo.GetProjectByID(ctx, prj.ID)
}

// Query returns denormalized project rows scoped by filter.
func (svc *Service) Query(ctx context.Context, filter Filter) ([]Detail, error) {
	return svc.repo.QueryProjectDetails(ctx, filter)
}

// Grades returns all projects submitted against an activity; the caller
// must be the activity's owning professor.
func (svc *Service) Grades(ctx context.Context, activityID, professorID int) ([]Project, error) {
	act, err := svc.actRepo.GetActivityByID(ctx, activityID)
	if err != nil {
		if err == activity.ErrNotFound {
			return nil, core.NewNotFoundError(err.Error())
		}
		return nil, err
	}
	if act.ProfessorID != professorID {
		return nil, core.NewOwnershipError("the activity does not belong to the requesting professor")
	}
	return svc.repo.QueryProjectsByActivity(ctx, activityID)
}
