package main

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"strconv"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/Luis-AP/gespro/core/user"
	dummydb "github.com/Luis-AP/gespro/storage/database/dummy"
)

var usrRepo user.Repository

func setup(t *testing.T) *commandLine {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open(): %v", err)
	}
	usrRepo = dummydb.NewUserRepository(db)

	// start CLI
	return &commandLine{
		db:      new(sqlx.DB),
		usrRepo: usrRepo,
	}
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	extra      interface{}
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup(t)

	gooseRunFunc = func(command string, db *sql.DB, fsys fs.FS, dir string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to":
			if len(args) == 0 {
				return fmt.Errorf("up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION")
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "down-to":
			if len(args) == 0 {
				return fmt.Errorf("down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION")
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION"},
		{name: "down-to: non-int arg", args: []string{"migrate", "down-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-by-one", args: []string{"migrate", "up-by-one"}},
		{name: "up-to", args: []string{"migrate", "up-to", "1"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "redo", args: []string{"migrate", "redo"}},
		{name: "reset", args: []string{"migrate", "reset"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
		{name: "fix", args: []string{"migrate", "fix"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != nil {
				if tt.wantErr != nil {
					if err != tt.wantErr {
						t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
					}
				} else if tt.wantErrStr != "" {
					if err.Error() != tt.wantErrStr {
						t.Errorf("cli.run() error.Error() = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
					}
				} else {
					t.Errorf("cli.run() unexpected error = %v", err)
				}
			}
		})
	}
}

func Test_commandLine_addProfessor(t *testing.T) {
	cli := setup(t)

	type extra struct {
		pwd string
	}
	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"addprofessor"}, wantErr: errHelp},
		{name: "email but no names", args: []string{"addprofessor", "-email", "prof@uni.edu"}, wantErr: errHelp},
		{
			name:    "flags but no password",
			args:    []string{"addprofessor", "-email", "prof@uni.edu", "-first-name", "Ada", "-last-name", "Lovelace"},
			wantErr: errHelp,
		},
		{
			name:  "professor created",
			args:  []string{"addprofessor", "-email", "prof@uni.edu", "-first-name", "Ada", "-last-name", "Lovelace", "-department", "CS"},
			extra: extra{pwd: "s3cr3t"},
		},
		{
			name:    "duplicate email",
			args:    []string{"addprofessor", "-email", "prof@uni.edu", "-first-name", "Ada", "-last-name", "Lovelace"},
			extra:   extra{pwd: "s3cr3t"},
			wantErr: user.ErrEmailExists,
		},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			if extra, ok := tt.extra.(extra); ok {
				return []byte(extra.pwd), nil
			}
			return nil, nil
		}

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err == nil {
				usr, err := usrRepo.GetUserByEmail(context.Background(), "prof@uni.edu")
				if err != nil {
					t.Fatalf("GetUserByEmail(): %v", err)
				}
				if !usr.IsProfessor() {
					t.Errorf("created user role = %s, want %s", usr.Role, user.RoleProfessor)
				}
				if usr.CheckPassword("s3cr3t") != nil {
					t.Error("failed to set password")
				}
			} else if err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
