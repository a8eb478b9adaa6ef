package mysqlrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/Luis-AP/gespro/core/activity"
)

type activityRepository struct {
	db *sqlx.DB
}

var _ activity.Repository = (*activityRepository)(nil)

func NewActivityRepository(db *sqlx.DB) activity.Repository {
	return &activityRepository{db: db}
}

func (repo *activityRepository) CreateActivity(ctx context.Context, act activity.Activity) (activity.Activity, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return activity.Activity{}, errors.Wrap(err, "beginning transaction")
	}

	if _, err = tx.ExecContext(
		ctx, "CALL CreateActivity(?, ?, ?, ?, ?, @new_activity_id)",
		act.Name, act.Description, act.DueDate, act.MinGrade, act.ProfessorID,
	); err != nil {
		_ = tx.Rollback()
		return activity.Activity{}, errors.Wrap(err, "calling CreateActivity")
	}

	var id int
	if err = tx.QueryRowContext(ctx, "SELECT @new_activity_id").Scan(&id); err != nil {
		_ = tx.Rollback()
		return activity.Activity{}, errors.Wrap(err, "reading new activity id")
	}
	if err = tx.Commit(); err != nil {
		return activity.Activity{}, errors.Wrap(err, "committing transaction")
	}
	return repo.GetActivityByID(ctx, id)
}

func (repo *activityRepository) GetActivityByID(ctx context.Context, id int) (activity.Activity, error) {
	var act activity.Activity
	err := repo.db.GetContext(ctx, &act, "SELECT * FROM activities WHERE id = ?", id)
	if err != nil {
		if err == sql.ErrNoRows {
			return activity.Activity{}, activity.ErrNotFound
		}
		return activity.Activity{}, errors.Wrap(err, "getting activity by id")
	}
	return act, nil
}

func (repo *activityRepository) QueryAllActivities(ctx context.Context) ([]activity.Activity, error) {
	activities := make([]activity.Activity, 0)
	err := repo.db.SelectContext(ctx, &activities, "SELECT * FROM activities ORDER BY created_at DESC")
	if err != nil {
		return nil, errors.Wrap(err, "querying activities")
	}
	return activities, nil
}

func (repo *activityRepository) QueryActivitiesByProfessor(ctx context.Context, professorID int) ([]activity.Activity, error) {
	activities := make([]activity.Activity, 0)
	err := repo.db.SelectContext(
		ctx, &activities,
		"SELECT * FROM activities WHERE professor_id = ? ORDER BY created_at DESC",
		professorID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying activities by professor")
	}
	return activities, nil
}

// UpdateActivity never writes professor_id or created_at.
func (repo *activityRepository) UpdateActivity(ctx context.Context, act activity.Activity) (activity.Activity, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return activity.Activity{}, errors.Wrap(err, "beginning transaction")
	}

	if _, err = tx.ExecContext(
		ctx, "UPDATE activities SET name = ?, description = ?, due_date = ?, min_grade = ? WHERE id = ?",
		act.Name, act.Description, act.DueDate, act.MinGrade, act.ID,
	); err != nil {
		_ = tx.Rollback()
		return activity.Activity{}, errors.Wrap(err, "updating activity")
	}
	if err = tx.Commit(); err != nil {
		return activity.Activity{}, errors.Wrap(err, "committing transaction")
	}
	return repo.GetActivityByID(ctx, act.ID)
}

func (repo *activityRepository) DeleteActivity(ctx context.Context, id int) error {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}

	// last line of defense: never delete an expired activity
	if _, err = tx.ExecContext(
		ctx, "DELETE FROM activities WHERE id = ? AND due_date >= CURRENT_DATE()", id,
	); err != nil {
		_ = tx.Rollback()
		return errors.Wrap(err, "deleting activity")
	}
	return errors.Wrap(tx.Commit(), "committing transaction")
}
