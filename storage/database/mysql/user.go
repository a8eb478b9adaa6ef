package mysqlrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/Luis-AP/gespro/core"
	"github.com/Luis-AP/gespro/core/user"
)

const selectUsers = `
	SELECT u.id AS user_id, u.email, u.password, u.first_name, u.last_name, u.created_at,
	       s.id AS student_id, s.enrollment_number, s.major, s.enrolled_at,
	       p.id AS professor_id, p.department, p.specialty
	FROM users u
	         LEFT JOIN students s ON u.id = s.user_id
	         LEFT JOIN professors p ON u.id = p.user_id`

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *sqlx.DB) user.Repository {
	return &userRepository{db: db}
}

// userRow is the scan target for selectUsers; the role-specific columns are
// NULL for the other role.
type userRow struct {
	UserID           int            `db:"user_id"`
	Email            string         `db:"email"`
	Password         []byte         `db:"password"`
	FirstName        string         `db:"first_name"`
	LastName         string         `db:"last_name"`
	CreatedAt        core.DateTime  `db:"created_at"`
	StudentID        sql.NullInt64  `db:"student_id"`
	EnrollmentNumber sql.NullString `db:"enrollment_number"`
	Major            sql.NullString `db:"major"`
	EnrolledAt       core.Date      `db:"enrolled_at"`
	ProfessorID      sql.NullInt64  `db:"professor_id"`
	Department       sql.NullString `db:"department"`
	Specialty        sql.NullString `db:"specialty"`
}

func (row userRow) toUser() user.User {
	usr := user.User{
		ID:           row.UserID,
		Email:        row.Email,
		FirstName:    row.FirstName,
		LastName:     row.LastName,
		PasswordHash: row.Password,
		CreatedAt:    row.CreatedAt,
	}
	if row.StudentID.Valid {
		usr.Role = user.RoleStudent
		usr.StudentID = int(row.StudentID.Int64)
		usr.EnrollmentNumber = row.EnrollmentNumber.String
		usr.Major = row.Major.String
		usr.EnrolledAt = row.EnrolledAt
	} else {
		usr.Role = user.RoleProfessor
		usr.ProfessorID = int(row.ProfessorID.Int64)
		usr.Department = row.Department.String
		usr.Specialty = row.Specialty.String
	}
	return usr
}

func (repo *userRepository) getUser(ctx context.Context, where string, arg interface{}) (user.User, error) {
	var row userRow
	err := repo.db.GetContext(ctx, &row, selectUsers+" WHERE "+where, arg)
	if err != nil {
		if err == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "getting user")
	}
	return row.toUser(), nil
}

func (repo *userRepository) CheckEmailUniqueness(ctx context.Context, email string) error {
	var one int
	err := repo.db.GetContext(ctx, &one, "SELECT 1 FROM users WHERE email = ?", email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil
		}
		return errors.Wrap(err, "checking email uniqueness")
	}
	return user.ErrEmailExists
}

func (repo *userRepository) CreateStudent(ctx context.Context, usr user.User) (user.User, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return user.User{}, errors.Wrap(err, "beginning transaction")
	}

	if _, err = tx.ExecContext(
		ctx, "CALL CreateStudent(?, ?, ?, ?, ?, ?, ?, @new_student_id)",
		usr.Email, usr.PasswordHash, usr.FirstName, usr.LastName,
		usr.EnrollmentNumber, usr.Major, usr.EnrolledAt,
	); err != nil {
		_ = tx.Rollback()
		return user.User{}, errors.Wrap(err, "calling CreateStudent")
	}

	var id int
	if err = tx.QueryRowContext(ctx, "SELECT @new_student_id").Scan(&id); err != nil {
		_ = tx.Rollback()
		return user.User{}, errors.Wrap(err, "reading new student id")
	}
	if err = tx.Commit(); err != nil {
		return user.User{}, errors.Wrap(err, "committing transaction")
	}
	return repo.GetStudentByID(ctx, id)
}

func (repo *userRepository) CreateProfessor(ctx context.Context, usr user.User) (user.User, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return user.User{}, errors.Wrap(err, "beginning transaction")
	}

	res, err := tx.ExecContext(
		ctx, "INSERT INTO users (email, password, first_name, last_name) VALUES (?, ?, ?, ?)",
		usr.Email, usr.PasswordHash, usr.FirstName, usr.LastName,
	)
	if err != nil {
		_ = tx.Rollback()
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	userID, err := res.LastInsertId()
	if err != nil {
		_ = tx.Rollback()
		return user.User{}, errors.Wrap(err, "reading new user id")
	}

	res, err = tx.ExecContext(
		ctx, "INSERT INTO professors (user_id, department, specialty) VALUES (?, ?, ?)",
		userID, usr.Department, usr.Specialty,
	)
	if err != nil {
		_ = tx.Rollback()
		return user.User{}, errors.Wrap(err, "inserting professor")
	}
	professorID, err := res.LastInsertId()
	if err != nil {
		_ = tx.Rollback()
		return user.User{}, errors.Wrap(err, "reading new professor id")
	}

	if err = tx.Commit(); err != nil {
		return user.User{}, errors.Wrap(err, "committing transaction")
	}
	return repo.GetProfessorByID(ctx, int(professorID))
}

func (repo *userRepository) GetUserByID(ctx context.Context, id int) (user.User, error) {
	return repo.getUser(ctx, "u.id = ?", id)
}

func (repo *userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	return repo.getUser(ctx, "u.email = ?", email)
}

func (repo *userRepository) GetProfessorByID(ctx context.Context, professorID int) (user.User, error) {
	return repo.getUser(ctx, "p.id = ?", professorID)
}

func (repo *userRepository) GetStudentByID(ctx context.Context, studentID int) (user.User, error) {
	return repo.getUser(ctx, "s.id = ?", studentID)
}

func (repo *userRepository) queryUsers(ctx context.Context, query string) ([]user.User, error) {
	var rows []userRow
	if err := repo.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	users := make([]user.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.toUser())
	}
	return users, nil
}

func (repo *userRepository) QueryStudents(ctx context.Context) ([]user.User, error) {
	return repo.queryUsers(ctx, selectUsers+" WHERE s.id IS NOT NULL ORDER BY u.last_name, u.first_name")
}

func (repo *userRepository) QueryProfessors(ctx context.Context) ([]user.User, error) {
	return repo.queryUsers(ctx, selectUsers+" WHERE p.id IS NOT NULL ORDER BY u.last_name, u.first_name")
}
