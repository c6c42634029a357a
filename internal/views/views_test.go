package views

import (
	"context"
	"errors"
	"testing"

	"rfidattend/internal/domain"
	"rfidattend/internal/forms"
	"rfidattend/internal/result"
	"rfidattend/internal/session"
)

type memStore struct{ s *domain.SessionWire }

func (m *memStore) Load(context.Context) (*domain.SessionWire, error) { return m.s, nil }
func (m *memStore) Save(_ context.Context, s domain.SessionWire) error {
	m.s = &s
	return nil
}
func (m *memStore) Clear(context.Context) error {
	m.s = nil
	return nil
}

func loggedIn(section string) *session.Manager {
	return session.NewManager(&memStore{s: &domain.SessionWire{
		AccessToken: "tok",
		TokenType:   "bearer",
		Teacher:     domain.TeacherWire{Email: "t@school.edu", Section: section},
	}})
}

// fakeBackend panics on any method a test did not override.
type fakeBackend struct {
	Backend
	students  []domain.StudentWire
	created   *domain.StudentFormWire
	tap       result.Result[domain.RFIDTapWire]
	loginResp result.Result[domain.SessionWire]
	calls     int
}

func (f *fakeBackend) ListStudents(_ context.Context, section, token string) result.Result[[]domain.StudentWire] {
	f.calls++
	return result.Ok(f.students)
}

func (f *fakeBackend) CreateStudent(_ context.Context, form domain.StudentFormWire, token string) result.Result[domain.StudentWire] {
	f.calls++
	f.created = &form
	return result.Ok(domain.StudentWire{ID: "new", FirstName: form.FirstName, LastName: form.LastName, Section: form.Section})
}

func (f *fakeBackend) PostRFID(context.Context, string) result.Result[domain.RFIDTapWire] {
	f.calls++
	return f.tap
}

func (f *fakeBackend) Login(context.Context, string, string) result.Result[domain.SessionWire] {
	f.calls++
	return f.loginResp
}

func TestStudentsFilteredBySection(t *testing.T) {
	api := &fakeBackend{students: []domain.StudentWire{
		{ID: "1", FirstName: "Ana", Section: "ICT12A", SeatRow: 0, SeatCol: 1},
		{ID: "2", FirstName: "Ben", Section: "STEM11B"},
	}}
	v := NewStudents(api, loggedIn("ICT12A"))

	st := v.Load(context.Background())
	if st.Loading || st.Err != "" || !st.Loaded {
		t.Fatalf("state = %+v", st)
	}
	if len(st.Data) != 1 || st.Data[0].ID != "1" {
		t.Errorf("students = %+v", st.Data)
	}

	v.EnsureLoaded(context.Background())
	if api.calls != 1 {
		t.Errorf("EnsureLoaded refetched, calls = %d", api.calls)
	}
}

func TestStudentsNotLoggedIn(t *testing.T) {
	api := &fakeBackend{}
	v := NewStudents(api, session.NewManager(&memStore{}))

	st := v.Load(context.Background())
	if st.Err != session.ErrNotLoggedIn.Error() {
		t.Errorf("Err = %q", st.Err)
	}
	if api.calls != 0 {
		t.Errorf("backend called without a session")
	}
}

func TestSeatPlanDerivesFromStudents(t *testing.T) {
	api := &fakeBackend{students: []domain.StudentWire{
		{ID: "1", FirstName: "Ana", LastName: "Reyes", Section: "ICT12A", SeatRow: 1, SeatCol: 2},
	}}
	students := NewStudents(api, loggedIn("ICT12A"))
	plan := NewSeatPlan(students)

	st := plan.Load(context.Background())
	if st.Err != "" || len(st.Data) != 1 {
		t.Fatalf("state = %+v", st)
	}
	g := plan.Grid()
	if g.Rows() != 2 || g.Cols() != 3 || g[1][2] == nil {
		t.Errorf("grid %dx%d, seat = %v", g.Rows(), g.Cols(), g[1][2])
	}
}

func TestCreateStudentValidation(t *testing.T) {
	api := &fakeBackend{}
	v := NewCreateStudent(api, loggedIn("ICT12A"))

	st := v.Submit(context.Background(), forms.Student{FirstName: "Ana"})
	if st.Err == "" || st.Loaded {
		t.Fatalf("invalid form accepted: %+v", st)
	}
	if api.calls != 0 {
		t.Errorf("backend called for an invalid form")
	}

	st = v.Submit(context.Background(), forms.Student{
		FirstName: " Ana ", LastName: "Reyes", Section: "ICT12A",
		StudentIDNo: "2024-0001", RFIDUID: "04A1",
	})
	if st.Err != "" || st.Data.ID != "new" {
		t.Fatalf("state = %+v", st)
	}
	if api.created == nil || api.created.FirstName != "Ana" {
		t.Errorf("created = %+v", api.created)
	}
}

func ptr(s string) *string { return &s }

func TestRecordTap(t *testing.T) {
	tests := []struct {
		name    string
		uid     string
		tap     result.Result[domain.RFIDTapWire]
		wantErr string
		wantMsg string
	}{
		{
			name:    "recorded",
			uid:     "04A1",
			tap:     result.Ok(domain.RFIDTapWire{Message: ptr("Time in recorded")}),
			wantMsg: "Time in recorded",
		},
		{
			name:    "detail",
			uid:     "04A1",
			tap:     result.Ok(domain.RFIDTapWire{Detail: ptr("Unknown card")}),
			wantErr: "Unknown card",
		},
		{
			name:    "no class",
			uid:     "04A1",
			tap:     result.Result[domain.RFIDTapWire]{Err: &result.APIError{Code: 400, Message: "No class is currently in session at this time."}},
			wantErr: "No class is currently in session at this time.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewRecordTap(&fakeBackend{tap: tt.tap})
			st := v.Record(context.Background(), tt.uid)
			if st.Err != tt.wantErr {
				t.Errorf("Err = %q, want %q", st.Err, tt.wantErr)
			}
			if tt.wantMsg != "" && st.Data.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", st.Data.Message, tt.wantMsg)
			}
		})
	}
}

func TestRecordTapBlankIgnored(t *testing.T) {
	api := &fakeBackend{}
	v := NewRecordTap(api)
	v.Record(context.Background(), "   ")
	if api.calls != 0 {
		t.Errorf("blank UID posted")
	}
}

func TestLoginCachesSession(t *testing.T) {
	store := &memStore{}
	mgr := session.NewManager(store)
	api := &fakeBackend{loginResp: result.Ok(domain.SessionWire{
		AccessToken: "tok",
		TokenType:   "bearer",
		Teacher:     domain.TeacherWire{Email: "t@school.edu", Section: "ICT12A"},
	})}

	st := NewLogin(api, mgr).Submit(context.Background(), "t@school.edu", "secret1")
	if st.Err != "" || st.Data.Section != "ICT12A" {
		t.Fatalf("state = %+v", st)
	}
	if store.s == nil || store.s.AccessToken != "tok" {
		t.Errorf("session not persisted: %+v", store.s)
	}
	if !mgr.IsAuthenticated(context.Background()) {
		t.Errorf("manager not authenticated after login")
	}
}

func TestLoaderSupersedesStaleFetch(t *testing.T) {
	l := NewLoader[string](nil)
	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan State[string])

	go func() {
		done <- l.Run(context.Background(), func(ctx context.Context) result.Result[string] {
			close(started)
			<-release
			if !errors.Is(ctx.Err(), context.Canceled) {
				t.Errorf("superseded fetch context not cancelled")
			}
			return result.Ok("stale")
		})
	}()
	<-started

	st := l.Run(context.Background(), func(context.Context) result.Result[string] {
		return result.Ok("fresh")
	})
	if st.Data != "fresh" {
		t.Fatalf("Data = %q", st.Data)
	}
	close(release)
	<-done

	if got := l.Snapshot(); got.Data != "fresh" || got.Loading {
		t.Errorf("stale result committed: %+v", got)
	}
}

func TestActionScreensWithoutDefaultFetch(t *testing.T) {
	ctx := context.Background()
	summary := NewAttendanceSummary(nil, "").EnsureLoaded(ctx)
	if summary.Loaded || summary.Loading || summary.Err == "" {
		t.Errorf("AttendanceSummary.EnsureLoaded = %+v, want an error state", summary)
	}
	created := NewCreateStudent(nil, nil).Load(ctx)
	if created.Loaded || created.Err == "" {
		t.Errorf("CreateStudent.Load = %+v, want an error state", created)
	}
}
