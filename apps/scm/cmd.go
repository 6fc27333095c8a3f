package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/term"

	"github.com/vijayholve/scm-app-frontend/core"
	"github.com/vijayholve/scm-app-frontend/core/entity"
	"github.com/vijayholve/scm-app-frontend/core/listing"
	"github.com/vijayholve/scm-app-frontend/core/session"
	"github.com/vijayholve/scm-app-frontend/services/api"
)

const suggestionRatio = 0.6

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp             = errors.New("help provided")
	errNotLoggedIn      = errors.New("not logged in, run: scm login")
	errPermissionDenied = errors.New("permission denied")
)

type commandLine struct {
	client   *api.Client
	sessions *session.Manager
	in       *bufio.Reader
	out      io.Writer
	confirm  listing.Confirmer
	pageSize int
}

func newCommandLine(client *api.Client, sessions *session.Manager, in io.Reader, out io.Writer) *commandLine {
	cli := &commandLine{
		client:   client,
		sessions: sessions,
		in:       bufio.NewReader(in),
		out:      out,
	}
	cli.confirm = cli.askConfirm
	return cli
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  login -username USERNAME -account ID -type ADMIN|TEACHER|STUDENT - sign in, the password is prompted next")
	fmt.Fprintln(cli.out, "  logout - sign out")
	fmt.Fprintln(cli.out, "  whoami - show the signed in user")
	fmt.Fprintln(cli.out, "  screens - list the screens you can open")
	fmt.Fprintln(cli.out, "  can -entity ENTITY -action add|view|edit|delete - check a permission")
	fmt.Fprintln(cli.out, "  list ENTITY [-search S] [-school ID] [-class ID] [-division ID] [-page N] [-size N]")
	fmt.Fprintln(cli.out, "  show ENTITY -id ID")
	fmt.Fprintln(cli.out, "  add ENTITY key=value ...")
	fmt.Fprintln(cli.out, "  edit ENTITY -id ID key=value ...")
	fmt.Fprintln(cli.out, "  delete ENTITY -id ID [-yes]")
	fmt.Fprintln(cli.out, "  export ENTITY -out FILE.xlsx [-search S] [-school ID] [-class ID] [-division ID]")
	fmt.Fprintln(cli.out, "  import students -file FILE.xlsx [-school ID] [-class ID] [-division ID]")
	fmt.Fprintln(cli.out, "  dashboard - show the counters of the home screen")
	fmt.Fprintf(cli.out, "Entities: %s\n", strings.Join(entity.Names(), ", "))
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	err := cli.dispatch(context.Background(), args[1], args[2:])
	if errors.Cause(err) == api.ErrSessionExpired {
		return api.ErrSessionExpired
	}
	var vErr *core.ValidationError
	var apiErr *api.Error
	switch {
	case errors.As(err, &vErr):
		cli.printFieldErrors(vErr.FieldMap())
	case errors.As(err, &apiErr):
		cli.printFieldErrors(apiErr.Fields)
	}
	return err
}

func (cli *commandLine) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "login":
		return cli.login(ctx, args)
	case "logout":
		return cli.logout(ctx)
	case "whoami":
		return cli.whoami()
	case "screens":
		return cli.screens()
	case "can":
		return cli.can(args)
	case "list":
		return cli.list(ctx, args)
	case "show":
		return cli.show(ctx, args)
	case "add":
		return cli.add(ctx, args)
	case "edit":
		return cli.edit(ctx, args)
	case "delete":
		return cli.remove(ctx, args)
	case "export":
		return cli.export(ctx, args)
	case "import":
		return cli.importStudents(ctx, args)
	case "dashboard":
		return cli.dashboard(ctx)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return errHelp
		}
		return err
	}
	return nil
}

// current returns the signed in session.
func (cli *commandLine) current() (*session.Session, error) {
	sess := cli.sessions.Current()
	if !sess.IsAuthenticated() {
		return nil, errNotLoggedIn
	}
	return sess, nil
}

// gate resolves the entity named by args[0] and checks the session may act on it.
func (cli *commandLine) gate(fs *flag.FlagSet, args []string, act session.Action) (entity.Descriptor, *session.Session, error) {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		fs.Usage()
		return entity.Descriptor{}, nil, errHelp
	}
	d, err := lookupEntity(args[0])
	if err != nil {
		return entity.Descriptor{}, nil, err
	}
	sess, err := cli.current()
	if err != nil {
		return entity.Descriptor{}, nil, err
	}
	if !sess.HasPermission(string(d.Kind), act) {
		return entity.Descriptor{}, nil, errors.Wrapf(errPermissionDenied, "%s %s", act, d.Name)
	}
	if err = parseFlags(fs, args[1:]); err != nil {
		return entity.Descriptor{}, nil, err
	}
	return d, sess, nil
}

func lookupEntity(name string) (entity.Descriptor, error) {
	if d, ok := entity.Lookup(name); ok {
		return d, nil
	}
	if s := suggest(strings.ToLower(name), entity.Names()); s != "" {
		return entity.Descriptor{}, errors.Errorf("unknown entity %q, did you mean %q?", name, s)
	}
	return entity.Descriptor{}, errors.Errorf("unknown entity %q", name)
}

// suggest returns the candidate closest to name, if any is close enough.
func suggest(name string, candidates []string) string {
	best, bestRatio := "", 0.0
	for _, c := range candidates {
		ratio := difflib.NewMatcher(strings.Split(name, ""), strings.Split(c, "")).Ratio()
		if ratio >= suggestionRatio && ratio > bestRatio {
			best, bestRatio = c, ratio
		}
	}
	return best
}

// parseAssignments reads key=value arguments.
func parseAssignments(args []string) (map[string]string, error) {
	out := make(map[string]string, len(args))
	for _, arg := range args {
		i := strings.Index(arg, "=")
		if i <= 0 {
			return nil, core.NewArgumentError(fmt.Sprintf("expected key=value, got %q", arg))
		}
		out[arg[:i]] = arg[i+1:]
	}
	return out, nil
}

func (cli *commandLine) askConfirm(_ context.Context, prompt string) (bool, error) {
	fmt.Fprintf(cli.out, "%s [y/N] ", prompt)
	line, err := cli.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func (cli *commandLine) readPassword() (string, error) {
	fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}

func (cli *commandLine) printFieldErrors(fields map[string]string) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(cli.out, "  %s: %s\n", k, fields[k])
	}
}

func (cli *commandLine) table() *tabwriter.Writer {
	return tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
}
