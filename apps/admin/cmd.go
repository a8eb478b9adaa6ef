package main

import (
	"errors"
	"flag"
	"fmt"
	"syscall"

	"github.com/jmoiron/sqlx"
	"golang.org/x/term"

	"github.com/Luis-AP/gespro/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db      *sqlx.DB
	usrRepo user.Repository
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  addprofessor -email EMAIL -first-name NAME -last-name NAME [-department DEPT] [-specialty SPEC] - create a professor account. The password will be prompted next.")
	fmt.Println("  migrate COMMAND [args] - run database migrations (up, down, status ...)")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addProfessorCmd := flag.NewFlagSet("addprofessor", flag.ExitOnError)
	addProfessorEmail := addProfessorCmd.String("email", "", "The professor's email.")
	addProfessorFirstName := addProfessorCmd.String("first-name", "", "The professor's first name.")
	addProfessorLastName := addProfessorCmd.String("last-name", "", "The professor's last name.")
	addProfessorDepartment := addProfessorCmd.String("department", "", "The professor's department.")
	addProfessorSpecialty := addProfessorCmd.String("specialty", "", "The professor's specialty.")

	switch args[1] {
	case "addprofessor":
		if err := addProfessorCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addProfessorEmail == "" || *addProfessorFirstName == "" || *addProfessorLastName == "" {
			addProfessorCmd.Usage()
			return errHelp
		}
		fmt.Print("Enter password:")
		pwd, err := readPasswordFunc(syscall.Stdin)
		fmt.Println()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			addProfessorCmd.Usage()
			return errHelp
		}
		return cli.addProfessor(
			*addProfessorEmail,
			*addProfessorFirstName,
			*addProfessorLastName,
			*addProfessorDepartment,
			*addProfessorSpecialty,
			string(pwd),
		)
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	default:
		cli.printUsage()
		return errHelp
	}
}
