package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/Luis-AP/gespro/core"
	"github.com/Luis-AP/gespro/core/project"
	"github.com/Luis-AP/gespro/core/user"
)

// projectRepository emulates the CreateProject and AddMember stored
// procedures, including the one-project-per-activity-per-student signal
// and the members.student_id foreign key.
type projectRepository struct {
	db *DB
}

var _ project.Repository = (*projectRepository)(nil)

func NewProjectRepository(db *DB) project.Repository {
	return &projectRepository{db: db}
}

func (repo *projectRepository) query() []project.Project {
	projects := make([]project.Project, 0, len(repo.db.project.table))
	for _, prj := range repo.db.project.table {
		projects = append(projects, *prj)
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].ID < projects[j].ID })
	return projects
}

func (repo *projectRepository) queryMembers(projectID int) []project.Member {
	members := make([]project.Member, 0)
	for _, mbr := range repo.db.project.members {
		if mbr.ProjectID == projectID {
			members = append(members, *mbr)
		}
	}
	sort.Slice(members, func(i, j int) bool { return members[i].ID < members[j].ID })
	return members
}

// participatesInActivity reports whether studentID already belongs to a
// project of the given activity.
func (repo *projectRepository) participatesInActivity(studentID, activityID int) bool {
	for _, mbr := range repo.db.project.members {
		if mbr.StudentID != studentID {
			continue
		}
		if prj, ok := repo.db.project.table[mbr.ProjectID]; ok && prj.ActivityID == activityID {
			return true
		}
	}
	return false
}

func (repo *projectRepository) studentExists(studentID int) bool {
	repo.db.user.RLock()
	defer repo.db.user.RUnlock()

	for _, usr := range repo.db.user.table {
		if usr.Role == user.RoleStudent && usr.StudentID == studentID {
			return true
		}
	}
	return false
}

func (repo *projectRepository) addMember(prj *project.Project, studentID int, owner bool) project.Member {
	repo.db.project.memberPkCount++
	mbr := project.Member{
		ID:        repo.db.project.memberPkCount,
		ProjectID: prj.ID,
		StudentID: studentID,
		IsOwner:   owner,
		JoinedAt:  core.NewDateTime(time.Now()),
	}
	repo.db.project.members[mbr.ID] = &mbr
	return mbr
}

func (repo *projectRepository) CreateProject(_ context.Context, np project.NewProject, studentID int) (project.Project, error) {
	repo.db.project.Lock()
	defer repo.db.project.Unlock()

	if !repo.studentExists(studentID) {
		return project.Project{}, project.ErrUnknownStudent
	}
	if repo.participatesInActivity(studentID, np.ActivityID) {
		return project.Project{}, project.ErrDuplicateParticipation
	}

	repo.db.project.pkCount++
	now := core.NewDateTime(time.Now())
	prj := project.Project{
		ID:            repo.db.project.pkCount,
		Title:         np.Title,
		RepositoryURL: np.RepositoryURL,
		ActivityID:    np.ActivityID,
		Status:        project.StatusOpen,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	repo.db.project.table[prj.ID] = &prj
	repo.addMember(&prj, studentID, true)
	return prj, nil
}

func (repo *projectRepository) GetProjectByID(_ context.Context, id int) (project.Project, error) {
	repo.db.project.RLock()
	defer repo.db.project.RUnlock()

	if prj, ok := repo.db.project.table[id]; ok {
		return *prj, nil
	}
	return project.Project{}, project.ErrNotFound
}

func (repo *projectRepository) QueryProjectsByActivity(_ context.Context, activityID int) ([]project.Project, error) {
	repo.db.project.RLock()
	defer repo.db.project.RUnlock()

	projects := make([]project.Project, 0)
	for _, prj := range repo.query() {
		if prj.ActivityID == activityID {
			projects = append(projects, prj)
		}
	}
	return projects, nil
}

func (repo *projectRepository) QueryProjectDetails(_ context.Context, filter project.Filter) ([]project.Detail, error) {
	repo.db.project.RLock()
	defer repo.db.project.RUnlock()
	repo.db.activity.RLock()
	defer repo.db.activity.RUnlock()

	details := make([]project.Detail, 0)
	for _, prj := range repo.query() {
		act, ok := repo.db.activity.table[prj.ActivityID]
		if !ok {
			continue
		}
		if filter.ProfessorID != 0 && act.ProfessorID != filter.ProfessorID {
			continue
		}
		if filter.ActivityID != 0 && prj.ActivityID != filter.ActivityID {
			continue
		}
		memberIDs := make([]int, 0)
		isMember := false
		for _, mbr := range repo.queryMembers(prj.ID) {
			memberIDs = append(memberIDs, mbr.StudentID)
			if mbr.StudentID == filter.StudentID {
				isMember = true
			}
		}
		if filter.StudentID != 0 && !isMember {
			continue
		}
		details = append(details, project.Detail{
			Project:      prj,
			ActivityName: act.Name,
			DueDate:      act.DueDate,
			ProfessorID:  act.ProfessorID,
			MemberIDs:    memberIDs,
		})
	}
	return details, nil
}

func (repo *projectRepository) GetProjectMembers(_ context.Context, projectID int) ([]project.Member, error) {
	repo.db.project.RLock()
	defer repo.db.project.RUnlock()
	return repo.queryMembers(projectID), nil
}

func (repo *projectRepository) IsProjectOwner(_ context.Context, projectID, studentID int) (bool, error) {
	repo.db.project.RLock()
	defer repo.db.project.RUnlock()

	for _, mbr := range repo.db.project.members {
		if mbr.ProjectID == projectID && mbr.StudentID == studentID {
			return mbr.IsOwner, nil
		}
	}
	return false, nil
}

func (repo *projectRepository) IsProjectMember(_ context.Context, projectID, studentID int) (bool, error) {
	repo.db.project.RLock()
	defer repo.db.project.RUnlock()

	for _, mbr := range repo.db.project.members {
		if mbr.ProjectID == projectID && mbr.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

func (repo *projectRepository) AddMember(_ context.Context, studentID, projectID int) (project.Member, error) {
	repo.db.project.Lock()
	defer repo.db.project.Unlock()

	prj, ok := repo.db.project.table[projectID]
	if !ok {
		return project.Member{}, project.ErrNotFound
	}
	if !repo.studentExists(studentID) {
		return project.Member{}, project.ErrUnknownStudent
	}
	if repo.participatesInActivity(studentID, prj.ActivityID) {
		return project.Member{}, project.ErrDuplicateParticipation
	}

	mbr := repo.addMember(prj, studentID, false)
	prj.IsGroup = true
	return mbr, nil
}

func (repo *projectRepository) RemoveMember(_ context.Context, studentID, projectID int) error {
	repo.db.project.Lock()
	defer repo.db.project.Unlock()

	for id, mbr := range repo.db.project.members {
		if mbr.ProjectID == projectID && mbr.StudentID == studentID {
			delete(repo.db.project.members, id)
			break
		}
	}
	if prj, ok := repo.db.project.table[projectID]; ok {
		prj.IsGroup = len(repo.queryMembers(projectID)) > 1
	}
	return nil
}

func (repo *projectRepository) UpdateProject(_ context.Context, prj project.Project) (project.Project, error) {
	repo.db.project.Lock()
	defer repo.db.project.Unlock()

	og, ok := repo.db.project.table[prj.ID]
	if !ok {
		return project.Project{}, project.ErrNotFound
	}
	og.Title = prj.Title
	og.RepositoryURL = prj.RepositoryURL
	og.UpdatedAt = core.NewDateTime(time.Now())
	return *og, nil
}

func (repo *projectRepository) UpdateProjectGrade(_ context.Context, projectID int, grade float64) error {
	repo.db.project.Lock()
	defer repo.db.project.Unlock()

	prj, ok := repo.db.project.table[projectID]
	if !ok {
		return project.ErrNotFound
	}
	prj.Grade = &grade
	prj.Status = project.StatusGraded
	prj.UpdatedAt = core.NewDateTime(time.Now())
	return nil
}

func (repo *projectRepository) DeleteProject(_ context.Context, id int) error {
	repo.db.project.Lock()
	defer repo.db.project.Unlock()

	for mid, mbr := range repo.db.project.members {
		if mbr.ProjectID == id {
			delete(repo.db.project.members, mid)
		}
	}
	delete(repo.db.project.table, id)
	return nil
}
