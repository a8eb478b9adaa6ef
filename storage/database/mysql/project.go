package mysqlrepos

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/Luis-AP/gespro/core/project"
)

// MySQL error numbers translated into domain errors.
const (
	// SIGNAL SQLSTATE '45000' raised by the CreateProject/AddMember procedures
	errNumSignaled = 1644
	// FK violation (members.student_id -> students.id)
	errNumFKViolation = 1452
)

type projectRepository struct {
	db *sqlx.DB
}

var _ project.Repository = (*projectRepository)(nil)

func NewProjectRepository(db *sqlx.DB) project.Repository {
	return &projectRepository{db: db}
}

func (repo *projectRepository) CreateProject(ctx context.Context, np project.NewProject, studentID int) (project.Project, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return project.Project{}, errors.Wrap(err, "beginning transaction")
	}

	if _, err = tx.ExecContext(
		ctx, "CALL CreateProject(?, ?, ?, ?, @new_project_id)",
		np.Title, np.RepositoryURL, np.ActivityID, studentID,
	); err != nil {
		_ = tx.Rollback()
		return project.Project{}, translateProjectErr(err, "calling CreateProject")
	}

	var id int
	if err = tx.QueryRowContext(ctx, "SELECT @new_project_id").Scan(&id); err != nil {
		_ = tx.Rollback()
		return project.Project{}, errors.Wrap(err, "reading new project id")
	}
	if err = tx.Commit(); err != nil {
		return project.Project{}, errors.Wrap(err, "committing transaction")
	}
	return repo.GetProjectByID(ctx, id)
}

func (repo *projectRepository) GetProjectByID(ctx context.Context, id int) (project.Project, error) {
	var prj project.Project
	err := repo.db.GetContext(ctx, &prj, "SELECT * FROM projects WHERE id = ?", id)
	if err != nil {
		if err == sql.ErrNoRows {
			return project.Project{}, project.ErrNotFound
		}
		return project.Project{}, errors.Wrap(err, "getting project by id")
	}
	return prj, nil
}

func (repo *projectRepository) QueryProjectsByActivity(ctx context.Context, activityID int) ([]project.Project, error) {
	projects := make([]project.Project, 0)
	err := repo.db.SelectContext(ctx, &projects, "SELECT * FROM projects WHERE activity_id = ?", activityID)
	if err != nil {
		return nil, errors.Wrap(err, "querying projects by activity")
	}
	return projects, nil
}

type detailRow struct {
	project.Detail
	RawMemberIDs sql.NullString `db:"member_ids"`
}

func (repo *projectRepository) QueryProjectDetails(ctx context.Context, filter project.Filter) ([]project.Detail, error) {
	query := `SELECT p.*, a.name AS activity_name, a.due_date, a.professor_id,
	                 GROUP_CONCAT(DISTINCT m2.student_id) AS member_ids
	          FROM projects p
	                   JOIN activities a ON p.activity_id = a.id
	                   LEFT JOIN members m ON p.id = m.project_id
	                   LEFT JOIN members m2 ON p.id = m2.project_id`

	var where []string
	var params []interface{}
	if filter.StudentID != 0 {
		where = append(where, "m.student_id = ?")
		params = append(params, filter.StudentID)
	}
	if filter.ProfessorID != 0 {
		where = append(where, "a.professor_id = ?")
		params = append(params, filter.ProfessorID)
	}
	if filter.ActivityID != 0 {
		where = append(where, "p.activity_id = ?")
		params = append(params, filter.ActivityID)
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " GROUP BY p.id, a.name, a.due_date, a.professor_id"

	var rows []detailRow
	if err := repo.db.SelectContext(ctx, &rows, query, params...); err != nil {
		return nil, errors.Wrap(err, "querying project details")
	}

	details := make([]project.Detail, 0, len(rows))
	for _, row := range rows {
		detail := row.Detail
		detail.MemberIDs = splitMemberIDs(row.RawMemberIDs)
		details = append(details, detail)
	}
	return details, nil
}

// splitMemberIDs turns the GROUP_CONCAT result into a list of student ids;
// it never returns nil.
func splitMemberIDs(raw sql.NullString) []int {
	ids := make([]int, 0)
	if !raw.Valid || raw.String == "" {
		return ids
	}
	for _, s := range strings.Split(raw.String, ",") {
		if id, err := strconv.Atoi(s); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

func (repo *projectRepository) GetProjectMembers(ctx context.Context, projectID int) ([]project.Member, error) {
	members := make([]project.Member, 0)
	err := repo.db.SelectContext(ctx, &members, "SELECT * FROM members WHERE project_id = ?", projectID)
	if err != nil {
		return nil, errors.Wrap(err, "querying project members")
	}
	return members, nil
}

func (repo *projectRepository) IsProjectOwner(ctx context.Context, projectID, studentID int) (bool, error) {
	var one int
	err := repo.db.GetContext(
		ctx, &one,
		"SELECT 1 FROM members WHERE project_id = ? AND student_id = ? AND is_owner = 1",
		projectID, studentID,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, errors.Wrap(err, "checking project owner")
	}
	return true, nil
}

func (repo *projectRepository) IsProjectMember(ctx context.Context, projectID, studentID int) (bool, error) {
	var one int
	err := repo.db.GetContext(
		ctx, &one,
		"SELECT 1 FROM members WHERE project_id = ? AND student_id = ?",
		projectID, studentID,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, errors.Wrap(err, "checking project member")
	}
	return true, nil
}

func (repo *projectRepository) AddMember(ctx context.Context, studentID, projectID int) (project.Member, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return project.Member{}, errors.Wrap(err, "beginning transaction")
	}

	if _, err = tx.ExecContext(ctx, "CALL AddMember(?, ?, @new_member_id)", studentID, projectID); err != nil {
		_ = tx.Rollback()
		return project.Member{}, translateProjectErr(err, "calling AddMember")
	}

	var id int
	if err = tx.QueryRowContext(ctx, "SELECT @new_member_id").Scan(&id); err != nil {
		_ = tx.Rollback()
		return project.Member{}, errors.Wrap(err, "reading new member id")
	}
	if err = tx.Commit(); err != nil {
		return project.Member{}, errors.Wrap(err, "committing transaction")
	}

	var member project.Member
	if err = repo.db.GetContext(ctx, &member, "SELECT * FROM members WHERE id = ?", id); err != nil {
		return project.Member{}, errors.Wrap(err, "getting member by id")
	}
	return member, nil
}

func (repo *projectRepository) RemoveMember(ctx context.Context, studentID, projectID int) error {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}

	if _, err = tx.ExecContext(
		ctx, "DELETE FROM members WHERE student_id = ? AND project_id = ?",
		studentID, projectID,
	); err != nil {
		_ = tx.Rollback()
		return errors.Wrap(err, "removing member")
	}

	// a project with a single remaining member becomes individual again
	if _, err = tx.ExecContext(ctx, `
		UPDATE projects p
		SET is_group = CASE
			WHEN (SELECT COUNT(*) FROM members m WHERE m.project_id = p.id) <= 1 THEN 0
			ELSE 1
		END
		WHERE id = ?`, projectID,
	); err != nil {
		_ = tx.Rollback()
		return errors.Wrap(err, "recomputing is_group")
	}

	return errors.Wrap(tx.Commit(), "committing transaction")
}

func (repo *projectRepository) UpdateProject(ctx context.Context, prj project.Project) (project.Project, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return project.Project{}, errors.Wrap(err, "beginning transaction")
	}

	if _, err = tx.ExecContext(
		ctx, "UPDATE projects SET title = ?, repository_url = ? WHERE id = ?",
		prj.Title, prj.RepositoryURL, prj.ID,
	); err != nil {
		_ = tx.Rollback()
		return project.Project{}, errors.Wrap(err, "updating project")
	}
	if err = tx.Commit(); err != nil {
		return project.Project{}, errors.Wrap(err, "committing transaction")
	}
	return repo.GetProjectByID(ctx, prj.ID)
}

func (repo *projectRepository) UpdateProjectGrade(ctx context.Context, projectID int, grade float64) error {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}

	if _, err = tx.ExecContext(
		ctx, "UPDATE projects SET grade = ?, status = 'GRADED' WHERE id = ?",
		grade, projectID,
	); err != nil {
		_ = tx.Rollback()
		return errors.Wrap(err, "updating project grade")
	}
	return errors.Wrap(tx.Commit(), "committing transaction")
}

func (repo *projectRepository) DeleteProject(ctx context.Context, id int) error {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}

	if _, err = tx.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id); err != nil {
		_ = tx.Rollback()
		return errors.Wrap(err, "deleting project")
	}
	return errors.Wrap(tx.Commit(), "committing transaction")
}

// translateProjectErr maps known MySQL errors raised by the stored procedures
// into domain errors; anything else is wrapped and re-raised.
func translateProjectErr(err error, msg string) error {
	if myErr, ok := err.(*mysql.MySQLError); ok {
		switch myErr.Number {
		case errNumSignaled:
			return project.ErrDuplicateParticipation
		case errNumFKViolation:
			return project.ErrUnknownStudent
		}
	}
	return errors.Wrap(err, msg)
}
