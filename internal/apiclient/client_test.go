package apiclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rfidattend/internal/domain"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL, 5*time.Second)
}

func TestListStudents(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/students" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.URL.Query().Get("token"); got != "tok" {
			t.Errorf("token query = %q, want tok", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.URL.Query().Get("section"); got != "ICT12A" {
			t.Errorf("section query = %q", got)
		}
		_, _ = io.WriteString(w, `[{"id":"1","first_name":"Ana","last_name":"Reyes","section":"ICT12A","student_id_no":"2024-0001","rfid_uid":"04A1","seat_row":1,"seat_col":2}]`)
	})

	res := c.ListStudents(context.Background(), "ICT12A", "tok")
	if !res.OK {
		t.Fatalf("ListStudents() failed: %v", res.Err)
	}
	if len(res.Data) != 1 || res.Data[0].StudentIDNo != "2024-0001" || res.Data[0].SeatCol != 2 {
		t.Errorf("ListStudents() = %+v", res.Data)
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode int
		wantMsg  string
	}{
		{name: "not found", status: http.StatusNotFound, body: `{"detail":"Student not found"}`, wantCode: 404, wantMsg: "Not Found"},
		{name: "unauthorized", status: http.StatusUnauthorized, wantCode: 401, wantMsg: "Unauthorized"},
		{name: "server error", status: http.StatusInternalServerError, wantCode: 500, wantMsg: "Internal Server Error"},
		{name: "empty body", status: http.StatusOK, body: "", wantCode: 200, wantMsg: "OK"},
		{name: "null body", status: http.StatusOK, body: "null", wantCode: 200, wantMsg: "OK"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})
			res := c.GetStudent(context.Background(), "1", "tok")
			if res.OK {
				t.Fatal("GetStudent() OK = true, want failure")
			}
			if res.Err.Code != tt.wantCode || res.Err.Message != tt.wantMsg {
				t.Errorf("GetStudent() error = %+v, want code %d message %q", res.Err, tt.wantCode, tt.wantMsg)
			}
			if res.Err.Details != "[Error] (get) <getStudent()>" {
				t.Errorf("details = %q", res.Err.Details)
			}
		})
	}
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()
	c := New(srv.URL, time.Second)

	res := c.ListClassSchedules(context.Background(), "")
	if res.OK || res.Err.Code != 500 {
		t.Errorf("ListClassSchedules() = %+v, want local error 500", res)
	}
}

func TestDecodeError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{not json`)
	})
	res := c.AttendanceSummary(context.Background(), "ICT12A", "")
	if res.OK || res.Err.Code != 500 {
		t.Errorf("AttendanceSummary() = %+v, want local error 500", res)
	}
}

func TestLogin(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/teacher/login" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatal(err)
		}
		if r.PostForm.Get("username") != "t@school.edu" || r.PostForm.Get("password") != "secret1" {
			t.Errorf("form = %v", r.PostForm)
		}
		_, _ = io.WriteString(w, `{"access_token":"abc"}`)
	})

	res := c.Login(context.Background(), "t@school.edu", "secret1")
	if !res.OK {
		t.Fatalf("Login() failed: %v", res.Err)
	}
	want := domain.SessionWire{AccessToken: "abc", TokenType: "bearer", Teacher: domain.TeacherWire{Email: "t@school.edu"}}
	if res.Data != want {
		t.Errorf("Login() = %+v, want %+v", res.Data, want)
	}
}

func TestCreateStudent(t *testing.T) {
	form := domain.StudentFormWire{FirstName: "Ana", LastName: "Reyes", Section: "ICT12A", RFIDUID: "04A1B2", StudentIDNo: "2024-0001", SeatRow: 1, SeatCol: 1}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		var got domain.StudentFormWire
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatal(err)
		}
		if got != form {
			t.Errorf("body = %+v, want %+v", got, form)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":"9","first_name":"Ana","last_name":"Reyes","section":"ICT12A","student_id_no":"2024-0001","seat_row":1,"seat_col":1}`)
	})

	res := c.CreateStudent(context.Background(), form, "tok")
	if !res.OK || res.Data.ID != "9" {
		t.Errorf("CreateStudent() = %+v", res)
	}
}

func TestDeleteStudentAllowsEmptyBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/students/9" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	})
	if res := c.DeleteStudent(context.Background(), "9", "tok"); !res.OK {
		t.Errorf("DeleteStudent() failed: %v", res.Err)
	}
}

func TestPostRFID(t *testing.T) {
	tests := []struct {
		name     string
		section  string
		status   int
		body     string
		wantOK   bool
		wantCode int
		wantMsg  string
	}{
		{name: "recorded", status: http.StatusCreated, body: `{"message":"Ana Reyes marked Present (time-in)","student":"Ana Reyes"}`, wantOK: true},
		{name: "no class", section: "ICT12A", status: http.StatusBadRequest, wantCode: 400, wantMsg: "No class is currently in session for section 'ICT12A' at this time."},
		{name: "no class without section", status: http.StatusBadRequest, wantCode: 400, wantMsg: "No class is currently in session at this time."},
		{name: "unknown card", status: http.StatusNotFound, wantCode: 404, wantMsg: "Not Found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Query().Get("rfid_uid") != "04A1B2" {
					t.Errorf("rfid_uid = %q", r.URL.Query().Get("rfid_uid"))
				}
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})
			c.Section = tt.section

			res := c.PostRFID(context.Background(), "04A1B2")
			if res.OK != tt.wantOK {
				t.Fatalf("PostRFID().OK = %v, want %v (%v)", res.OK, tt.wantOK, res.Err)
			}
			if !tt.wantOK && (res.Err.Code != tt.wantCode || res.Err.Message != tt.wantMsg) {
				t.Errorf("PostRFID() error = %+v", res.Err)
			}
		})
	}
}
