package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/Luis-AP/gespro/core"
	"github.com/Luis-AP/gespro/core/activity"
)

type activityRepository struct {
	db *activityTable
}

var _ activity.Repository = (*activityRepository)(nil)

func NewActivityRepository(db *DB) activity.Repository {
	return &activityRepository{db: db.activity}
}

func (repo *activityRepository) query() []activity.Activity {
	activities := make([]activity.Activity, 0, len(repo.db.table))
	for _, act := range repo.db.table {
		activities = append(activities, *act)
	}
	sort.Slice(activities, func(i, j int) bool { return activities[i].ID < activities[j].ID })
	return activities
}

func (repo *activityRepository) CreateActivity(_ context.Context, act activity.Activity) (activity.Activity, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.pkCount++
	act.ID = repo.db.pkCount
	now := core.NewDateTime(time.Now())
	act.CreatedAt = now
	act.UpdatedAt = now
	repo.db.table[act.ID] = &act
	return act, nil
}

func (repo *activityRepository) GetActivityByID(_ context.Context, id int) (activity.Activity, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if act, ok := repo.db.table[id]; ok {
		return *act, nil
	}
	return activity.Activity{}, activity.ErrNotFound
}

func (repo *activityRepository) QueryAllActivities(_ context.Context) ([]activity.Activity, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *activityRepository) QueryActivitiesByProfessor(_ context.Context, professorID int) ([]activity.Activity, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	activities := make([]activity.Activity, 0)
	for _, act := range repo.query() {
		if act.ProfessorID == professorID {
			activities = append(activities, act)
		}
	}
	return activities, nil
}

func (repo *activityRepository) UpdateActivity(_ context.Context, act activity.Activity) (activity.Activity, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	og, ok := repo.db.table[act.ID]
	if !ok {
		return activity.Activity{}, activity.ErrNotFound
	}
	// professor_id and created_at are never written
	act.ProfessorID = og.ProfessorID
	act.CreatedAt = og.CreatedAt
	act.UpdatedAt = core.NewDateTime(time.Now())
	repo.db.table[act.ID] = &act
	return act, nil
}

func (repo *activityRepository) DeleteActivity(_ context.Context, id int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if act, ok := repo.db.table[id]; ok {
		if !core.Today().After(act.DueDate.Time) {
			delete(repo.db.table, id)
		}
	}
	return nil
}
