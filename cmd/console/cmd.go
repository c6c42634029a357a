package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"golang.org/x/term"

	"rfidattend/internal/auth"
	"rfidattend/internal/domain"
	"rfidattend/internal/filter"
	"rfidattend/internal/forms"
	"rfidattend/internal/present"
	"rfidattend/internal/session"
	"rfidattend/internal/views"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp        = errors.New("help provided")
	errNotLoggedIn = errors.New("not logged in: run `console login`")
)

type commandLine struct {
	api      views.Backend
	sessions *session.Manager
	out      io.Writer
	today    func() string
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  login -email EMAIL                  - log in; the password is prompted")
	fmt.Fprintln(cli.out, "  register -first F -last L -email E -section S")
	fmt.Fprintln(cli.out, "  logout                              - forget the cached session")
	fmt.Fprintln(cli.out, "  whoami                              - show the logged-in teacher")
	fmt.Fprintln(cli.out, "  students [-q QUERY]                 - list students in your section")
	fmt.Fprintln(cli.out, "  student -id ID                      - show one student")
	fmt.Fprintln(cli.out, "  add-student -first F -last L -student-id NO -rfid UID [-section S] [-row R] [-col C]")
	fmt.Fprintln(cli.out, "  edit-student -id ID [field flags]   - update a student")
	fmt.Fprintln(cli.out, "  delete-student -id ID")
	fmt.Fprintln(cli.out, "  schedules [-day DAY] [-q QUERY]")
	fmt.Fprintln(cli.out, "  summary [-section S] [-date YYYY-MM-DD] [-q QUERY]")
	fmt.Fprintln(cli.out, "  records -student-id ID [-subject S] [-date YYYY-MM-DD]")
	fmt.Fprintln(cli.out, "  seatplan                            - draw your section's seat plan")
	fmt.Fprintln(cli.out, "  tap -uid UID                        - record attendance for a card")
	fmt.Fprintln(cli.out, "Every command accepts -json to print the raw view data.")
}

func newFlagSet(name string) (*flag.FlagSet, *bool) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	asJSON := fs.Bool("json", false, "print JSON instead of a table")
	return fs, asJSON
}

// stateErr converts a view model's error string into an error.
func stateErr(msg string) error {
	if msg == "" {
		return nil
	}
	if msg == session.ErrNotLoggedIn.Error() {
		return errNotLoggedIn
	}
	return errors.New(msg)
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	ctx := context.Background()
	name, rest := args[1], args[2:]

	switch name {
	case "login":
		return cli.login(ctx, rest)
	case "register":
		return cli.register(ctx, rest)
	case "logout":
		if err := cli.sessions.Logout(ctx); err != nil {
			return err
		}
		fmt.Fprintln(cli.out, "Logged out.")
		return nil
	case "whoami":
		return cli.whoami(ctx, rest)
	case "students":
		return cli.students(ctx, rest)
	case "student":
		return cli.student(ctx, rest)
	case "add-student":
		return cli.addStudent(ctx, rest)
	case "edit-student":
		return cli.editStudent(ctx, rest)
	case "delete-student":
		return cli.deleteStudent(ctx, rest)
	case "schedules":
		return cli.schedules(ctx, rest)
	case "summary":
		return cli.summary(ctx, rest)
	case "records":
		return cli.records(ctx, rest)
	case "seatplan":
		return cli.seatplan(ctx, rest)
	case "tap":
		return cli.tap(ctx, rest)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) readPassword(prompt string) (string, error) {
	fmt.Fprint(cli.out, prompt)
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}

func (cli *commandLine) login(ctx context.Context, args []string) error {
	fs, asJSON := newFlagSet("login")
	email := fs.String("email", "", "The teacher's email. The password will be prompted next.")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		fs.Usage()
		return errHelp
	}
	pwd, err := cli.readPassword("Enter password:")
	if err != nil {
		return err
	}
	st := views.NewLogin(cli.api, cli.sessions).Submit(ctx, *email, pwd)
	if err := stateErr(st.Err); err != nil {
		return err
	}
	if *asJSON {
		return present.JSON(cli.out, st.Data)
	}
	fmt.Fprintf(cli.out, "Logged in as %s (%s).\n", st.Data.Email, st.Data.Section)
	return nil
}

func (cli *commandLine) register(ctx context.Context, args []string) error {
	fs, asJSON := newFlagSet("register")
	var form forms.Registration
	fs.StringVar(&form.FirstName, "first", "", "first name")
	fs.StringVar(&form.LastName, "last", "", "last name")
	fs.StringVar(&form.Email, "email", "", "email")
	fs.StringVar(&form.Section, "section", "", "advisory section")
	if err := fs.Parse(args); err != nil {
		return err
	}
	var err error
	if form.Password, err = cli.readPassword("Enter password:"); err != nil {
		return err
	}
	if form.ConfirmPassword, err = cli.readPassword("Confirm password:"); err != nil {
		return err
	}
	st := views.NewRegister(cli.api).Submit(ctx, form)
	if err := stateErr(st.Err); err != nil {
		return err
	}
	if *asJSON {
		return present.JSON(cli.out, st.Data)
	}
	fmt.Fprintf(cli.out, "Registered %s. You can now log in.\n", st.Data.Email)
	return nil
}

func (cli *commandLine) whoami(ctx context.Context, args []string) error {
	fs, asJSON := newFlagSet("whoami")
	if err := fs.Parse(args); err != nil {
		return err
	}
	s, err := cli.sessions.RequireTeacher(ctx)
	if errors.Is(err, session.ErrNotLoggedIn) {
		return errNotLoggedIn
	} else if err != nil {
		return err
	}
	teacher := domain.TeacherFromWire(s.Teacher)
	if *asJSON {
		return present.JSON(cli.out, teacher)
	}
	if err := present.Teacher(cli.out, teacher); err != nil {
		return err
	}
	if info, err := auth.Inspect(s.AccessToken); err == nil && !info.ExpiresAt.IsZero() {
		fmt.Fprintf(cli.out, "Token expires %s\n", info.ExpiresAt.Format("Jan 2, 2006 03:04 PM"))
	}
	return nil
}

func (cli *commandLine) students(ctx context.Context, args []string) error {
	fs, asJSON := newFlagSet("students")
	query := fs.String("q", "", "filter by name or student number")
	if err := fs.Parse(args); err != nil {
		return err
	}
	st := views.NewStudents(cli.api, cli.sessions).Load(ctx)
	if err := stateErr(st.Err); err != nil {
		return err
	}
	list := filter.Students(st.Data, *query)
	if *asJSON {
		return present.JSON(cli.out, list)
	}
	return present.Students(cli.out, list)
}

func (cli *commandLine) student(ctx context.Context, args []string) error {
	fs, asJSON := newFlagSet("student")
	id := fs.String("id", "", "student id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		fs.Usage()
		return errHelp
	}
	st := views.NewStudent(cli.api, cli.sessions, *id).Load(ctx)
	if err := stateErr(st.Err); err != nil {
		return err
	}
	if *asJSON {
		return present.JSON(cli.out, st.Data)
	}
	return present.Student(cli.out, st.Data)
}

func studentFlags(fs *flag.FlagSet, form *forms.Student) {
	fs.StringVar(&form.FirstName, "first", form.FirstName, "first name")
	fs.StringVar(&form.LastName, "last", form.LastName, "last name")
	fs.StringVar(&form.Section, "section", form.Section, "section")
	fs.StringVar(&form.StudentIDNo, "student-id", form.StudentIDNo, "student number")
	fs.StringVar(&form.RFIDUID, "rfid", form.RFIDUID, "RFID card UID")
	fs.IntVar(&form.SeatRow, "row", form.SeatRow, "seat row, from 0")
	fs.IntVar(&form.SeatCol, "col", form.SeatCol, "seat column, from 0")
}

func (cli *commandLine) addStudent(ctx context.Context, args []string) error {
	fs, asJSON := newFlagSet("add-student")
	var form forms.Student
	studentFlags(fs, &form)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if form.Section == "" {
		if s, err := cli.sessions.Current(ctx); err == nil && s != nil {
			form.Section = s.Teacher.Section
		}
	}
	st := views.NewCreateStudent(cli.api, cli.sessions).Submit(ctx, form)
	if err := stateErr(st.Err); err != nil {
		return err
	}
	if *asJSON {
		return present.JSON(cli.out, st.Data)
	}
	fmt.Fprintf(cli.out, "Added %s (%s).\n", st.Data.FullName(), st.Data.StudentIDNo)
	return nil
}

func (cli *commandLine) editStudent(ctx context.Context, args []string) error {
	// The id flag is parsed first so the form can be prefilled from the
	// stored student before the remaining flags override it.
	idFS := flag.NewFlagSet("edit-student", flag.ContinueOnError)
	idFS.SetOutput(io.Discard)
	id := idFS.String("id", "", "student id")
	_ = idFS.Parse(filterFlags(args, "id"))
	if *id == "" {
		fmt.Fprintln(cli.out, "edit-student requires -id")
		return errHelp
	}

	current := views.NewStudent(cli.api, cli.sessions, *id).Load(ctx)
	if err := stateErr(current.Err); err != nil {
		return err
	}
	form := forms.StudentFromView(current.Data)

	fs, asJSON := newFlagSet("edit-student")
	fs.String("id", *id, "student id")
	studentFlags(fs, &form)
	if err := fs.Parse(args); err != nil {
		return err
	}

	st := views.NewUpdateStudent(cli.api, cli.sessions).Submit(ctx, current.Data.StudentIDNo, form)
	if err := stateErr(st.Err); err != nil {
		return err
	}
	if *asJSON {
		return present.JSON(cli.out, st.Data)
	}
	fmt.Fprintf(cli.out, "Updated %s (%s).\n", st.Data.FullName(), st.Data.StudentIDNo)
	return nil
}

// filterFlags keeps only "-name value" or "-name=value" pairs for name.
func filterFlags(args []string, name string) []string {
	var out []string
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch a {
		case "-" + name, "--" + name:
			out = append(out, a)
			if i+1 < len(args) {
				out = append(out, args[i+1])
				i++
			}
		default:
			for _, p := range []string{"-" + name + "=", "--" + name + "="} {
				if len(a) > len(p) && a[:len(p)] == p {
					out = append(out, a)
				}
			}
		}
	}
	return out
}

func (cli *commandLine) deleteStudent(ctx context.Context, args []string) error {
	fs, _ := newFlagSet("delete-student")
	id := fs.String("id", "", "student id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		fs.Usage()
		return errHelp
	}
	st := views.NewDeleteStudent(cli.api, cli.sessions).Submit(ctx, *id)
	if err := stateErr(st.Err); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, st.Data)
	return nil
}

func (cli *commandLine) schedules(ctx context.Context, args []string) error {
	fs, asJSON := newFlagSet("schedules")
	day := fs.String("day", "", "only this weekday")
	query := fs.String("q", "", "filter by subject, room, or teacher")
	if err := fs.Parse(args); err != nil {
		return err
	}
	st := views.NewClassSchedules(cli.api, cli.sessions).Load(ctx)
	if err := stateErr(st.Err); err != nil {
		return err
	}
	list := filter.Schedules(st.Data, *day, *query)
	if *asJSON {
		return present.JSON(cli.out, list)
	}
	return present.Schedules(cli.out, list)
}

func (cli *commandLine) summary(ctx context.Context, args []string) error {
	fs, asJSON := newFlagSet("summary")
	section := fs.String("section", "", "section; defaults to yours")
	date := fs.String("date", cli.today(), "lesson date, YYYY-MM-DD")
	query := fs.String("q", "", "filter by student name or id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *section == "" {
		s, err := cli.sessions.RequireTeacher(ctx)
		if errors.Is(err, session.ErrNotLoggedIn) {
			return errNotLoggedIn
		} else if err != nil {
			return err
		}
		*section = s.Teacher.Section
	}
	st := views.NewAttendanceSummary(cli.api, *date).Fetch(ctx, *section)
	if err := stateErr(st.Err); err != nil {
		return err
	}
	view := st.Data
	view.AttendanceLogs = filter.AttendanceLogs(view.AttendanceLogs, *section, *query)
	if *asJSON {
		return present.JSON(cli.out, view)
	}
	return present.Summary(cli.out, view)
}

func (cli *commandLine) records(ctx context.Context, args []string) error {
	fs, asJSON := newFlagSet("records")
	studentID := fs.String("student-id", "", "student number")
	subject := fs.String("subject", "", "only this subject")
	date := fs.String("date", "", "only this lesson date, YYYY-MM-DD")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *studentID == "" {
		fs.Usage()
		return errHelp
	}
	st := views.NewAttendanceRecords(cli.api).Fetch(ctx, *studentID, *subject, *date)
	if err := stateErr(st.Err); err != nil {
		return err
	}
	if *asJSON {
		return present.JSON(cli.out, st.Data)
	}
	return present.Records(cli.out, st.Data)
}

func (cli *commandLine) seatplan(ctx context.Context, args []string) error {
	fs, asJSON := newFlagSet("seatplan")
	if err := fs.Parse(args); err != nil {
		return err
	}
	plan := views.NewSeatPlan(views.NewStudents(cli.api, cli.sessions))
	st := plan.Load(ctx)
	if err := stateErr(st.Err); err != nil {
		return err
	}
	if *asJSON {
		return present.JSON(cli.out, st.Data)
	}
	return present.SeatGrid(cli.out, plan.Grid())
}

func (cli *commandLine) tap(ctx context.Context, args []string) error {
	fs, asJSON := newFlagSet("tap")
	uid := fs.String("uid", "", "RFID card UID")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *uid == "" {
		fs.Usage()
		return errHelp
	}
	st := views.NewRecordTap(cli.api).Record(ctx, *uid)
	if err := stateErr(st.Err); err != nil {
		return err
	}
	if *asJSON {
		return present.JSON(cli.out, st.Data)
	}
	present.Tap(cli.out, st.Data)
	return nil
}
