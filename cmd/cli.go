package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/lshigami/acebrainiac/internal/authoring"
	"github.com/lshigami/acebrainiac/internal/controller"
	"github.com/lshigami/acebrainiac/internal/controller/admin"
	"github.com/lshigami/acebrainiac/internal/listing"
	"github.com/lshigami/acebrainiac/internal/repository"
	"github.com/lshigami/acebrainiac/internal/service"
	"github.com/lshigami/acebrainiac/internal/session"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	out       io.Writer
	session   *session.Session
	auth      service.AuthService
	dashboard service.DashboardService
	tests     service.TestService
	testRepo  repository.TestRepository
	tickets   service.TicketService
	lists     *controller.Lists
	resources Resources
	stager    admin.Stager
}

func newCommandLine(
	sess *session.Session,
	auth service.AuthService,
	dashboard service.DashboardService,
	tests service.TestService,
	testRepo repository.TestRepository,
	tickets service.TicketService,
	lists *controller.Lists,
	resources Resources,
	stager admin.Stager,
) *commandLine {
	return &commandLine{
		out:       os.Stdout,
		session:   sess,
		auth:      auth,
		dashboard: dashboard,
		tests:     tests,
		testRepo:  testRepo,
		tickets:   tickets,
		lists:     lists,
		resources: resources,
		stager:    stager,
	}
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  login -email EMAIL                        - log in (the password is prompted next)")
	fmt.Fprintln(cli.out, "  logout                                    - end the session")
	fmt.Fprintln(cli.out, "  whoami                                    - show the logged-in admin")
	fmt.Fprintln(cli.out, "  list ENTITY [-query Q] [-page N] [...]    - list "+strings.Join(cli.lists.Names(), ", "))
	fmt.Fprintln(cli.out, "  get ENTITY ID                             - show one record")
	fmt.Fprintln(cli.out, "  create ENTITY key=value ...               - create a record")
	fmt.Fprintln(cli.out, "  update ENTITY ID key=value ...            - change fields of a record")
	fmt.Fprintln(cli.out, "  delete ENTITY ID                          - delete a record")
	fmt.Fprintln(cli.out, "  dashboard                                 - show summary counts and revenue")
	fmt.Fprintln(cli.out, "  test push -file DRAFT.yaml [-id TESTID]   - create or update a test from a draft")
	fmt.Fprintln(cli.out, "  test rm-question -id TESTID -question QID - delete one saved question")
	fmt.Fprintln(cli.out, "  ticket reply -id ID -message M [-status S] - answer a support ticket")
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	cmd, rest := args[1], args[2:]
	switch cmd {
	case "login":
		return cli.login(ctx, rest)
	case "logout":
		if err := cli.auth.Logout(ctx); err != nil {
			return err
		}
		fmt.Fprintln(cli.out, "Logged out.")
		return nil
	case "whoami":
		return cli.whoami(ctx)
	case "list":
		return cli.list(ctx, rest)
	case "get", "create", "update", "delete":
		return cli.crud(ctx, cmd, rest)
	case "dashboard":
		return cli.overview(ctx)
	case "test":
		return cli.test(ctx, rest)
	case "ticket":
		return cli.ticket(ctx, rest)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return errHelp
		}
		return err
	}
	return nil
}

func (cli *commandLine) login(ctx context.Context, args []string) error {
	loginCmd := cli.flagSet("login")
	email := loginCmd.String("email", "", "The admin's email. The password will be prompted next.")
	if err := parseFlags(loginCmd, args); err != nil {
		return err
	}
	if *email == "" {
		loginCmd.Usage()
		return errHelp
	}

	fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(os.Stdin.Fd()))
	fmt.Fprintln(cli.out)
	if err != nil {
		return err
	}
	if len(pwd) == 0 {
		loginCmd.Usage()
		return errHelp
	}

	user, err := cli.auth.Login(ctx, *email, string(pwd))
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Logged in as %s <%s>.\n", user.Name, user.Email)
	return nil
}

func (cli *commandLine) whoami(ctx context.Context) error {
	user, err := cli.auth.Whoami(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "%s <%s> (%s)\n", user.Name, user.Email, user.Role)
	if exp, ok := cli.session.ExpiresAt(); ok {
		fmt.Fprintf(cli.out, "Session expires %s\n", exp.Local().Format(time.RFC1123))
	}
	return nil
}

func (cli *commandLine) list(ctx context.Context, args []string) error {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		cli.printUsage()
		return errHelp
	}
	lst, ok := cli.lists.Get(args[0])
	if !ok {
		return errors.Errorf("unknown list %q (one of %s)", args[0], strings.Join(cli.lists.Names(), ", "))
	}

	listCmd := cli.flagSet("list " + lst.Name())
	query := listCmd.String(listing.ParamQuery, "", "Free-text search.")
	page := listCmd.Int(listing.ParamPage, 1, "Page to show.")
	filters := make(map[string]*string, len(lst.Filters()))
	for _, f := range lst.Filters() {
		usage := "Filter by " + f.Name + "."
		if f.Kind == listing.FilterDate {
			usage = "Filter by " + f.Name + " (YYYY-MM-DD)."
		}
		filters[f.Name] = listCmd.String(f.Name, "", usage)
	}
	if err := parseFlags(listCmd, args[1:]); err != nil {
		return err
	}

	for _, f := range lst.Filters() {
		if v := *filters[f.Name]; v != "" {
			if err := lst.SetParam(f.Name, v); err != nil {
				return err
			}
		}
	}
	if *query != "" {
		if err := lst.SetParam(listing.ParamQuery, *query); err != nil {
			return err
		}
	}

	p := lst.Refetch(ctx)
	if p.Err == "" && *page != p.Page {
		if err := lst.SetPage(*page); err != nil {
			return err
		}
		p = lst.Refetch(ctx)
	}
	if p.Err != "" {
		return errors.New(p.Err)
	}
	cli.printPage(lst.Name(), p)
	return nil
}

func (cli *commandLine) printPage(name string, p controller.Page) {
	if len(p.Rows) == 0 {
		fmt.Fprintf(cli.out, "No %s found.\n", name)
		return
	}
	w := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(p.Header, "\t"))
	for _, row := range p.Rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	w.Flush()
	fmt.Fprintf(cli.out, "Page %d of %d (%d %s)\n", p.Page, p.TotalPages, p.TotalItems, name)
}

func (cli *commandLine) crud(ctx context.Context, op string, args []string) error {
	if len(args) == 0 {
		cli.printUsage()
		return errHelp
	}
	name, args := args[0], args[1:]
	if name == "tests" {
		return cli.crudTest(ctx, op, args)
	}
	res, ok := cli.resources[name]
	if !ok {
		return errors.Errorf("unknown entity %q", name)
	}

	if op == "create" {
		input, err := keyValues(args)
		if err != nil {
			return err
		}
		v, err := res.create(ctx, input)
		if err != nil {
			return err
		}
		return cli.printJSON(v)
	}

	id, err := recordID(op, args)
	if err != nil {
		return err
	}
	var v interface{}
	switch op {
	case "get":
		v, err = res.get(ctx, id)
	case "update":
		var input map[string]string
		if input, err = keyValues(args[1:]); err != nil {
			return err
		}
		v, err = res.update(ctx, id, input)
	case "delete":
		if err := res.delete(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "Deleted %s %s.\n", name, id)
		return nil
	}
	if err != nil {
		return err
	}
	return cli.printJSON(v)
}

func (cli *commandLine) crudTest(ctx context.Context, op string, args []string) error {
	switch op {
	case "get":
		id, err := recordID(op, args)
		if err != nil {
			return err
		}
		t, err := cli.tests.GetTestWithQuestions(ctx, id)
		if err != nil {
			return err
		}
		return cli.printJSON(t)
	case "delete":
		id, err := recordID(op, args)
		if err != nil {
			return err
		}
		if err := cli.tests.DeleteTest(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "Deleted tests %s.\n", id)
		return nil
	default:
		return errors.New("tests are authored with `aceadmin test push`")
	}
}

func recordID(op string, args []string) (string, error) {
	if len(args) == 0 || strings.Contains(args[0], "=") {
		return "", errors.Errorf("%s needs a record id", op)
	}
	return args[0], nil
}

func keyValues(args []string) (map[string]string, error) {
	input := make(map[string]string, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok || k == "" {
			return nil, errors.Errorf("expected key=value, got %q", arg)
		}
		input[k] = v
	}
	return input, nil
}

func (cli *commandLine) printJSON(v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode output")
	}
	_, err = fmt.Fprintln(cli.out, string(b))
	return err
}

func (cli *commandLine) overview(ctx context.Context) error {
	d, err := cli.dashboard.Overview(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Students\t%d\n", d.Stats.Students)
	fmt.Fprintf(w, "Schools\t%d\n", d.Stats.Schools)
	fmt.Fprintf(w, "Tests\t%d\n", d.Stats.Tests)
	fmt.Fprintf(w, "Worksheets\t%d\n", d.Stats.Worksheets)
	fmt.Fprintf(w, "Active members\t%d\n", d.Stats.ActiveMembers)
	fmt.Fprintf(w, "Open tickets\t%d\n", d.Stats.OpenTickets)
	if len(d.Revenue) > 0 {
		fmt.Fprintln(w, "\nRevenue")
		for _, r := range d.Revenue {
			fmt.Fprintf(w, "%s\t%.2f\n", r.Month, r.Amount)
		}
	}
	if len(d.RecentTickets) > 0 {
		fmt.Fprintln(w, "\nRecent tickets")
		for _, t := range d.RecentTickets {
			fmt.Fprintf(w, "%s\t%s\t%s\n", t.ID, t.Subject, t.Status)
		}
	}
	return w.Flush()
}

func (cli *commandLine) test(ctx context.Context, args []string) error {
	if len(args) == 0 {
		cli.printUsage()
		return errHelp
	}

	switch args[0] {
	case "push":
		pushCmd := cli.flagSet("test push")
		file := pushCmd.String("file", "", "YAML draft of the test.")
		id := pushCmd.String("id", "", "Existing test to update. A new test is created when empty.")
		if err := parseFlags(pushCmd, args[1:]); err != nil {
			return err
		}
		if *file == "" {
			pushCmd.Usage()
			return errHelp
		}
		return cli.pushTest(ctx, *file, *id)
	case "rm-question":
		rmCmd := cli.flagSet("test rm-question")
		id := rmCmd.String("id", "", "The test id.")
		qid := rmCmd.String("question", "", "The saved question id.")
		if err := parseFlags(rmCmd, args[1:]); err != nil {
			return err
		}
		if *id == "" || *qid == "" {
			rmCmd.Usage()
			return errHelp
		}
		return cli.removeQuestion(ctx, *id, *qid)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) pushTest(ctx context.Context, file, id string) error {
	d, err := authoring.Load(file)
	if err != nil {
		return err
	}

	var editor *admin.TestEditor
	if id == "" {
		editor = admin.NewTestEditor(cli.testRepo, cli.stager)
	} else {
		editor, err = admin.LoadTestEditor(ctx, cli.testRepo, cli.stager, id)
		if err != nil {
			return err
		}
	}
	defer editor.Close()

	if err := authoring.Apply(ctx, d, editor, filepath.Dir(file)); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Saved test %s.\n", editor.TestID())
	return nil
}

func (cli *commandLine) removeQuestion(ctx context.Context, id, qid string) error {
	editor, err := admin.LoadTestEditor(ctx, cli.testRepo, cli.stager, id)
	if err != nil {
		return err
	}
	defer editor.Close()

	i := editor.IndexOf(qid)
	if i < 0 {
		return errors.Wrapf(admin.ErrNoSuchQuestion, "question %s of test %s", qid, id)
	}
	if err := editor.DeleteQuestion(ctx, i); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Deleted question %s.\n", qid)
	return nil
}

func (cli *commandLine) ticket(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] != "reply" {
		cli.printUsage()
		return errHelp
	}

	replyCmd := cli.flagSet("ticket reply")
	id := replyCmd.String("id", "", "The ticket id.")
	message := replyCmd.String("message", "", "The reply text.")
	status := replyCmd.String("status", "", "New ticket status (open, in_progress, resolved).")
	if err := parseFlags(replyCmd, args[1:]); err != nil {
		return err
	}
	if *id == "" {
		replyCmd.Usage()
		return errHelp
	}

	t, err := cli.tickets.Reply(ctx, *id, *message, *status)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Replied to ticket %s (%s).\n", t.ID, t.Status)
	return nil
}
