package main

import (
	"context"

	"github.com/Luis-AP/gespro/core"
	"github.com/Luis-AP/gespro/core/user"
)

// addProfessor creates a professor account; professors have no
// self-registration endpoint.
func (cli *commandLine) addProfessor(email, firstName, lastName, department, specialty, pwd string) error {
	ctx := context.Background()

	usr := user.User{
		Email:      core.CleanString(email, true /* lower */),
		FirstName:  core.CleanString(firstName),
		LastName:   core.CleanString(lastName),
		Role:       user.RoleProfessor,
		Department: core.CleanString(department),
		Specialty:  core.CleanString(specialty),
	}
	if err := cli.usrRepo.CheckEmailUniqueness(ctx, usr.Email); err != nil {
		return err
	}
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}
	if _, err := cli.usrRepo.CreateProfessor(ctx, usr); err != nil {
		return err
	}
	return nil
}
