package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/trezcool/goose"

	"github.com/Luis-AP/gespro/core"
	appfs "github.com/Luis-AP/gespro/fs"
)

const poolSize = 5

func open(dbName string, admin bool, conf *core.Config) (*sqlx.DB, error) {
	user, password := conf.Database.User, conf.Database.Password
	if admin && conf.Database.AdminUser != "" {
		user, password = conf.Database.AdminUser, conf.Database.AdminPassword
	}

	cfg := mysql.NewConfig()
	cfg.User = user
	cfg.Passwd = password
	cfg.Net = "tcp"
	cfg.Addr = conf.Database.Address()
	cfg.DBName = dbName
	cfg.ParseTime = true
	cfg.Loc = time.UTC

	db, err := sqlx.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(poolSize)
	db.SetMaxIdleConns(poolSize)
	return db, nil
}

func Open(conf *core.Config) (*sqlx.DB, error) {
	return open(conf.Database.Name, false, conf)
}

// Ping waits for the database to be ready. Waits 100ms longer between each attempt.
func Ping(db *sqlx.DB) error {
	var err error
	maxAttempts := 30
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		err = db.Ping()
		if err == nil {
			break
		}
		time.Sleep(time.Duration(attempts) * 100 * time.Millisecond)
	}

	if err != nil {
		return errors.Wrap(err, "DB ping timeout")
	}
	return nil
}

// CreateIfNotExist connects as the admin user (falling back to the app user)
// and creates the app database if it is missing.
func CreateIfNotExist(conf *core.Config) error {
	db, err := open("", true, conf)
	if err != nil {
		return errors.Wrap(err, "opening database")
	}
	defer func() { _ = db.Close() }()

	if err = Ping(db); err != nil {
		return errors.Wrap(err, "pinging database")
	}

	if _, err = db.Exec(fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", conf.Database.Name)); err != nil {
		return errors.Wrap(err, "creating database")
	}
	return nil
}

func Migrate(db *sql.DB) error {
	if err := goose.SetDialect("mysql"); err != nil {
		return errors.Wrap(err, "setting goose dialect")
	}
	if err := goose.RunFS("up", db, appfs.FS, "migrations"); err != nil {
		return errors.Wrap(err, "migrating database")
	}
	return nil
}
