package main

import (
	"context"
	"errors"

	"github.com/vikasdeshmukh63/school-application-dashboard/core"
	"github.com/vikasdeshmukh63/school-application-dashboard/core/access"
)

// addAdmin creates an admin account in the local identity store. Admins have
// no teacher/student/parent row; the account alone carries the role.
func (cli *commandLine) addAdmin(ctx context.Context, uname, pwd string) error {
	uname = core.CleanString(uname, true /* lower */)
	if len(pwd) < 8 {
		return errors.New("password must contain at least 8 characters")
	}
	_, err := cli.idSvc.CreateAccount(ctx, core.NewIdentityAccount{
		Username: uname,
		Password: pwd,
		Role:     string(access.RoleAdmin),
	})
	return err
}
