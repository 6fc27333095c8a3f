package main

import (
	"context"
	"fmt"
	"time"

	"github.com/vijayholve/scm-app-frontend/core"
	"github.com/vijayholve/scm-app-frontend/core/entity"
	"github.com/vijayholve/scm-app-frontend/core/navigation"
	"github.com/vijayholve/scm-app-frontend/core/session"
	"github.com/vijayholve/scm-app-frontend/services/api"
)

func (cli *commandLine) login(ctx context.Context, args []string) error {
	fs := cli.newFlagSet("login")
	uname := fs.String("username", "", "The user name. The password will be prompted next.")
	account := fs.String("account", "", "The account (institution) ID.")
	userType := fs.String("type", "", "ADMIN, TEACHER or STUDENT.")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *uname == "" || *account == "" || *userType == "" {
		fs.Usage()
		return errHelp
	}
	pwd, err := cli.readPassword()
	if err != nil {
		return err
	}
	if pwd == "" {
		fs.Usage()
		return errHelp
	}

	sess, err := cli.client.Login(ctx, api.LoginRequest{
		UserName:  *uname,
		Password:  pwd,
		AccountID: *account,
		Type:      *userType,
	})
	if err != nil {
		return err
	}
	if err = cli.sessions.Login(ctx, sess); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Welcome, %s (%s)\n", sess.DisplayName(), sess.Type())
	return nil
}

func (cli *commandLine) logout(ctx context.Context) error {
	if err := cli.sessions.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "Logged out")
	return nil
}

func (cli *commandLine) whoami() error {
	sess, err := cli.current()
	if err != nil {
		return err
	}
	tw := cli.table()
	fmt.Fprintf(tw, "Name\t%s\n", sess.DisplayName())
	fmt.Fprintf(tw, "User\t%s\n", sess.Profile.UserName)
	fmt.Fprintf(tw, "Type\t%s\n", sess.Type())
	fmt.Fprintf(tw, "Account\t%s\n", sess.AccountID())
	if sess.RoleName != "" {
		fmt.Fprintf(tw, "Role\t%s\n", sess.RoleName)
	}
	if exp, ok := sess.ExpiresAt(); ok {
		fmt.Fprintf(tw, "Expires\t%s\n", exp.Local().Format(time.RFC1123))
	}
	return tw.Flush()
}

func (cli *commandLine) screens() error {
	sess := cli.sessions.Current()
	for _, scr := range navigation.Visible(sess) {
		if scr.Entity == "" {
			fmt.Fprintln(cli.out, scr.Name)
			continue
		}
		fmt.Fprintf(cli.out, "%s (%s)\n", scr.Name, entityName(scr.Entity))
	}
	return nil
}

// entityName is the command line name of kind.
func entityName(kind entity.Kind) string {
	if d, ok := entity.Lookup(string(kind)); ok {
		return d.Name
	}
	return string(kind)
}

func (cli *commandLine) can(args []string) error {
	fs := cli.newFlagSet("can")
	name := fs.String("entity", "", "The entity, e.g. students.")
	action := fs.String("action", "", "add, view, edit or delete.")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *name == "" || *action == "" {
		fs.Usage()
		return errHelp
	}
	d, err := lookupEntity(*name)
	if err != nil {
		return err
	}
	act, ok := session.ParseAction(*action)
	if !ok {
		return core.NewArgumentError(fmt.Sprintf("unknown action %q", *action))
	}
	if cli.sessions.HasPermission(string(d.Kind), act) {
		fmt.Fprintln(cli.out, "yes")
	} else {
		fmt.Fprintln(cli.out, "no")
	}
	return nil
}
