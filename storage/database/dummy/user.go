package dummydb

import (
	"context"
	"sort"

	"github.com/Luis-AP/gespro/core"
	"github.com/Luis-AP/gespro/core/user"
)

type userRepository struct {
	db *userTable
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db.user}
}

func (repo *userRepository) query() []user.User {
	users := make([]user.User, 0, len(repo.db.table))
	for _, usr := range repo.db.table {
		users = append(users, *usr)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users
}

func (repo *userRepository) CheckEmailUniqueness(_ context.Context, email string) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, usr := range repo.db.table {
		if usr.Email == email {
			return user.ErrEmailExists
		}
	}
	return nil
}

func (repo *userRepository) create(usr user.User) (user.User, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.pkCount++
	usr.ID = repo.db.pkCount
	switch usr.Role {
	case user.RoleStudent:
		usr.StudentID = usr.ID
	case user.RoleProfessor:
		usr.ProfessorID = usr.ID
	}
	usr.CreatedAt = core.NewDateTime(usr.CreatedAt.Time)
	repo.db.table[usr.ID] = &usr
	return usr, nil
}

func (repo *userRepository) CreateStudent(_ context.Context, usr user.User) (user.User, error) {
	usr.Role = user.RoleStudent
	return repo.create(usr)
}

func (repo *userRepository) CreateProfessor(_ context.Context, usr user.User) (user.User, error) {
	usr.Role = user.RoleProfessor
	return repo.create(usr)
}

func (repo *userRepository) GetUserByID(_ context.Context, id int) (user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if usr, ok := repo.db.table[id]; ok {
		return *usr, nil
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, usr := range repo.db.table {
		if usr.Email == email {
			return *usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetProfessorByID(_ context.Context, professorID int) (user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, usr := range repo.db.table {
		if usr.IsProfessor() && usr.ProfessorID == professorID {
			return *usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetStudentByID(_ context.Context, studentID int) (user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, usr := range repo.db.table {
		if usr.IsStudent() && usr.StudentID == studentID {
			return *usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) QueryStudents(_ context.Context) ([]user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	students := make([]user.User, 0)
	for _, usr := range repo.query() {
		if usr.IsStudent() {
			students = append(students, usr)
		}
	}
	return students, nil
}

func (repo *userRepository) QueryProfessors(_ context.Context) ([]user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	professors := make([]user.User, 0)
	for _, usr := range repo.query() {
		if usr.IsProfessor() {
			professors = append(professors, usr)
		}
	}
	return professors, nil
}
