package dummydb

import (
	"sync"

	"github.com/Luis-AP/gespro/core/activity"
	"github.com/Luis-AP/gespro/core/project"
	"github.com/Luis-AP/gespro/core/user"
)

type (
	DB struct {
		user     *userTable
		activity *activityTable
		project  *projectTable
	}

	userTable struct {
		sync.RWMutex
		table   map[int]*user.User
		pkCount int
	}

	activityTable struct {
		sync.RWMutex
		table   map[int]*activity.Activity
		pkCount int
	}

	projectTable struct {
		sync.RWMutex
		table         map[int]*project.Project
		members       map[int]*project.Member
		pkCount       int
		memberPkCount int
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:     &userTable{table: make(map[int]*user.User)},
		activity: &activityTable{table: make(map[int]*activity.Activity)},
		project: &projectTable{
			table:   make(map[int]*project.Project),
			members: make(map[int]*project.Member),
		},
	}
	return db, nil
}
