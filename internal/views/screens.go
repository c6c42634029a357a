package views

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"rfidattend/internal/domain"
	"rfidattend/internal/filter"
	"rfidattend/internal/forms"
	"rfidattend/internal/result"
	"rfidattend/internal/seatplan"
	"rfidattend/internal/session"
)

// Backend is the service layer the view models call.
type Backend interface {
	Login(ctx context.Context, email, password string) result.Result[domain.SessionWire]
	Register(ctx context.Context, form domain.TeacherRegisterWire) result.Result[domain.TeacherWire]
	ListStudents(ctx context.Context, section, token string) result.Result[[]domain.StudentWire]
	GetStudent(ctx context.Context, id, token string) result.Result[domain.StudentWire]
	CreateStudent(ctx context.Context, form domain.StudentFormWire, token string) result.Result[domain.StudentWire]
	UpdateStudent(ctx context.Context, studentIDNo string, form domain.StudentFormWire, token string) result.Result[domain.StudentWire]
	DeleteStudent(ctx context.Context, id, token string) result.Result[struct{}]
	ListClassSchedules(ctx context.Context, section string) result.Result[[]domain.ClassScheduleWire]
	AttendanceSummary(ctx context.Context, section, date string) result.Result[domain.AttendanceSummaryWire]
	AttendanceRecords(ctx context.Context, studentID, subject, date string) result.Result[domain.AttendanceRecordListWire]
	PostRFID(ctx context.Context, rfidUID string) result.Result[domain.RFIDTapWire]
}

// Sessions is the cached authentication state.
type Sessions interface {
	Current(ctx context.Context) (*domain.SessionWire, error)
	RequireTeacher(ctx context.Context) (*domain.SessionWire, error)
	Login(ctx context.Context, s domain.SessionWire) error
	Logout(ctx context.Context) error
}

func mapResult[A, B any](r result.Result[A], f func(A) B) result.Result[B] {
	if !r.OK {
		return result.Result[B]{Err: r.Err}
	}
	return result.Ok(f(r.Data))
}

// invalid reports a client-side failure that never reached the backend.
func invalid[T any](msg string) result.Result[T] {
	return result.Result[T]{Err: &result.APIError{Code: http.StatusUnprocessableEntity, Message: msg, Details: "validation"}}
}

func requireSession[T any](ctx context.Context, auth Sessions) (*domain.SessionWire, *result.Result[T]) {
	s, err := auth.RequireTeacher(ctx)
	if err == nil {
		return s, nil
	}
	res := result.Result[T]{Err: &result.APIError{Code: http.StatusUnauthorized, Message: err.Error(), Details: "session"}}
	if !errors.Is(err, session.ErrNotLoggedIn) {
		res.Err.Code = http.StatusInternalServerError
	}
	return nil, &res
}

func formMessage(err error) string {
	var fe *forms.Error
	if errors.As(err, &fe) {
		return fe.First()
	}
	return err.Error()
}

// Students is the roster of the logged-in teacher's section.
type Students struct {
	*Loader[[]domain.StudentView]
}

func NewStudents(api Backend, auth Sessions) *Students {
	return &Students{NewLoader(func(ctx context.Context) result.Result[[]domain.StudentView] {
		s, fail := requireSession[[]domain.StudentView](ctx, auth)
		if fail != nil {
			return *fail
		}
		section := s.Teacher.Section
		return mapResult(api.ListStudents(ctx, section, s.AccessToken), func(w []domain.StudentWire) []domain.StudentView {
			return filter.StudentsInSection(domain.StudentsFromWire(w), section)
		})
	})}
}

// Student is one student's detail page.
type Student struct {
	*Loader[domain.StudentView]
}

func NewStudent(api Backend, auth Sessions, id string) *Student {
	return &Student{NewLoader(func(ctx context.Context) result.Result[domain.StudentView] {
		s, fail := requireSession[domain.StudentView](ctx, auth)
		if fail != nil {
			return *fail
		}
		return mapResult(api.GetStudent(ctx, id, s.AccessToken), domain.StudentFromWire)
	})}
}

// ClassSchedules lists schedules, narrowed to the teacher's section when a
// session is cached.
type ClassSchedules struct {
	*Loader[[]domain.ClassScheduleView]
}

func NewClassSchedules(api Backend, auth Sessions) *ClassSchedules {
	return &ClassSchedules{NewLoader(func(ctx context.Context) result.Result[[]domain.ClassScheduleView] {
		section := ""
		if s, err := auth.Current(ctx); err == nil && s != nil {
			section = s.Teacher.Section
		}
		return mapResult(api.ListClassSchedules(ctx, section), func(w []domain.ClassScheduleWire) []domain.ClassScheduleView {
			return filter.SchedulesInSection(domain.ClassSchedulesFromWire(w), section)
		})
	})}
}

// AttendanceSummary loads per-student totals for a section on demand.
type AttendanceSummary struct {
	*Loader[domain.AttendanceSummaryView]
	api  Backend
	date string
}

func NewAttendanceSummary(api Backend, date string) *AttendanceSummary {
	return &AttendanceSummary{Loader: NewLoader[domain.AttendanceSummaryView](nil), api: api, date: date}
}

func (v *AttendanceSummary) Fetch(ctx context.Context, section string) State[domain.AttendanceSummaryView] {
	return v.Run(ctx, func(ctx context.Context) result.Result[domain.AttendanceSummaryView] {
		return mapResult(v.api.AttendanceSummary(ctx, section, v.date), domain.AttendanceSummaryFromWire)
	})
}

// AttendanceRecords loads one student's attendance documents on demand.
type AttendanceRecords struct {
	*Loader[[]domain.AttendanceRecordView]
	api Backend
}

func NewAttendanceRecords(api Backend) *AttendanceRecords {
	return &AttendanceRecords{Loader: NewLoader[[]domain.AttendanceRecordView](nil), api: api}
}

func (v *AttendanceRecords) Fetch(ctx context.Context, studentID, subject, date string) State[[]domain.AttendanceRecordView] {
	return v.Run(ctx, func(ctx context.Context) result.Result[[]domain.AttendanceRecordView] {
		return mapResult(v.api.AttendanceRecords(ctx, studentID, subject, date), domain.AttendanceRecordsFromWire)
	})
}

// SeatPlan derives seats from the roster.
type SeatPlan struct {
	*Loader[[]domain.SeatView]
}

func NewSeatPlan(students *Students) *SeatPlan {
	return &SeatPlan{NewLoader(func(ctx context.Context) result.Result[[]domain.SeatView] {
		st := students.EnsureLoaded(ctx)
		if !st.Loaded {
			return result.Result[[]domain.SeatView]{Err: &result.APIError{Code: http.StatusInternalServerError, Message: st.Err, Details: "students"}}
		}
		return result.Ok(domain.SeatsFromStudents(st.Data))
	})}
}

// Grid lays out the loaded seats.
func (v *SeatPlan) Grid() seatplan.Grid {
	return seatplan.Build(v.Snapshot().Data)
}

// CreateStudent submits the add-student form.
type CreateStudent struct {
	*Loader[domain.StudentView]
	api  Backend
	auth Sessions
}

func NewCreateStudent(api Backend, auth Sessions) *CreateStudent {
	return &CreateStudent{Loader: NewLoader[domain.StudentView](nil), api: api, auth: auth}
}

func (v *CreateStudent) Submit(ctx context.Context, form forms.Student) State[domain.StudentView] {
	return v.Run(ctx, func(ctx context.Context) result.Result[domain.StudentView] {
		if err := forms.Validate(form); err != nil {
			return invalid[domain.StudentView](formMessage(err))
		}
		s, fail := requireSession[domain.StudentView](ctx, v.auth)
		if fail != nil {
			return *fail
		}
		return mapResult(v.api.CreateStudent(ctx, form.Wire(), s.AccessToken), domain.StudentFromWire)
	})
}

// UpdateStudent submits the edit-student form.
type UpdateStudent struct {
	*Loader[domain.StudentView]
	api  Backend
	auth Sessions
}

func NewUpdateStudent(api Backend, auth Sessions) *UpdateStudent {
	return &UpdateStudent{Loader: NewLoader[domain.StudentView](nil), api: api, auth: auth}
}

func (v *UpdateStudent) Submit(ctx context.Context, studentIDNo string, form forms.Student) State[domain.StudentView] {
	return v.Run(ctx, func(ctx context.Context) result.Result[domain.StudentView] {
		if err := forms.Validate(form); err != nil {
			return invalid[domain.StudentView](formMessage(err))
		}
		s, fail := requireSession[domain.StudentView](ctx, v.auth)
		if fail != nil {
			return *fail
		}
		return mapResult(v.api.UpdateStudent(ctx, studentIDNo, form.Wire(), s.AccessToken), domain.StudentFromWire)
	})
}

// DeleteStudent removes a student. Its payload is the success message.
type DeleteStudent struct {
	*Loader[string]
	api  Backend
	auth Sessions
}

func NewDeleteStudent(api Backend, auth Sessions) *DeleteStudent {
	return &DeleteStudent{Loader: NewLoader[string](nil), api: api, auth: auth}
}

func (v *DeleteStudent) Submit(ctx context.Context, id string) State[string] {
	return v.Run(ctx, func(ctx context.Context) result.Result[string] {
		s, fail := requireSession[string](ctx, v.auth)
		if fail != nil {
			return *fail
		}
		return mapResult(v.api.DeleteStudent(ctx, id, s.AccessToken), func(struct{}) string {
			return "Successfully deleted student data"
		})
	})
}

// RecordTap posts an RFID UID, as the record-attendance screen does.
type RecordTap struct {
	*Loader[domain.TapOutcome]
	api Backend
}

func NewRecordTap(api Backend) *RecordTap {
	return &RecordTap{Loader: NewLoader[domain.TapOutcome](nil), api: api}
}

func (v *RecordTap) Record(ctx context.Context, rfidUID string) State[domain.TapOutcome] {
	uid := strings.TrimSpace(rfidUID)
	if uid == "" {
		return v.Snapshot()
	}
	return v.Run(ctx, func(ctx context.Context) result.Result[domain.TapOutcome] {
		res := v.api.PostRFID(ctx, uid)
		if !res.OK {
			return result.Result[domain.TapOutcome]{Err: res.Err}
		}
		out := domain.TapOutcomeFromWire(res.Data)
		if !out.OK {
			return invalid[domain.TapOutcome](out.Message)
		}
		return result.Ok(out)
	})
}

// Login authenticates and caches the session.
type Login struct {
	*Loader[domain.TeacherView]
	api  Backend
	auth Sessions
}

func NewLogin(api Backend, auth Sessions) *Login {
	return &Login{Loader: NewLoader[domain.TeacherView](nil), api: api, auth: auth}
}

func (v *Login) Submit(ctx context.Context, email, password string) State[domain.TeacherView] {
	return v.Run(ctx, func(ctx context.Context) result.Result[domain.TeacherView] {
		if err := forms.Validate(forms.Login{Email: email, Password: password}); err != nil {
			return invalid[domain.TeacherView](formMessage(err))
		}
		res := v.api.Login(ctx, strings.TrimSpace(email), password)
		if !res.OK {
			return result.Result[domain.TeacherView]{Err: res.Err}
		}
		if err := v.auth.Login(ctx, res.Data); err != nil {
			return result.Fail[domain.TeacherView](result.Local(err, "session"))
		}
		return result.Ok(domain.TeacherFromWire(res.Data.Teacher))
	})
}

// Register creates a teacher account.
type Register struct {
	*Loader[domain.TeacherView]
	api Backend
}

func NewRegister(api Backend) *Register {
	return &Register{Loader: NewLoader[domain.TeacherView](nil), api: api}
}

func (v *Register) Submit(ctx context.Context, form forms.Registration) State[domain.TeacherView] {
	return v.Run(ctx, func(ctx context.Context) result.Result[domain.TeacherView] {
		if err := forms.Validate(form); err != nil {
			return invalid[domain.TeacherView](formMessage(err))
		}
		wire := form.Wire()
		return mapResult(v.api.Register(ctx, wire), func(t domain.TeacherWire) domain.TeacherView {
			if t.Email == "" {
				t.FirstName, t.LastName, t.Email, t.Section = wire.FirstName, wire.LastName, wire.Email, wire.Section
			}
			return domain.TeacherFromWire(t)
		})
	})
}
