package filter

import (
	"reflect"
	"testing"

	"rfidattend/internal/domain"
)

var logs = []domain.AttendanceLogView{
	{StudentID: "2024-0001", StudentName: "Ana Reyes", Section: "A", TotalLates: 1},
	{StudentID: "2024-0002", StudentName: "Ben Cruz", Section: "B", TotalAbsences: 2},
	{StudentID: "2024-0003", StudentName: "Carla Dizon", Section: "A"},
}

func ids(l []domain.AttendanceLogView) []string {
	out := []string{}
	for _, x := range l {
		out = append(out, x.StudentID)
	}
	return out
}

func TestAttendanceLogs(t *testing.T) {
	tests := []struct {
		name    string
		section string
		query   string
		want    []string
	}{
		{name: "no filter", want: []string{"2024-0001", "2024-0002", "2024-0003"}},
		{name: "section A", section: "A", want: []string{"2024-0001", "2024-0003"}},
		{name: "name query mixed case", query: "bEN", want: []string{"2024-0002"}},
		{name: "id query", query: "0003", want: []string{"2024-0003"}},
		{name: "section and query", section: "A", query: "cruz", want: []string{}},
		{name: "no match", query: "zzz", want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(AttendanceLogs(logs, tt.section, tt.query))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("AttendanceLogs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStudents(t *testing.T) {
	students := []domain.StudentView{
		{FirstName: "Ana", LastName: "Reyes", StudentIDNo: "2024-0001", Section: "A", RFIDUID: "04A1"},
		{FirstName: "Ben", LastName: "Cruz", StudentIDNo: "2024-0002", Section: "B", RFIDUID: "0B77"},
	}
	tests := []struct {
		query string
		want  int
	}{
		{query: "", want: 2},
		{query: "ana reyes", want: 1},
		{query: "CRUZ", want: 1},
		{query: "2024-000", want: 2},
		{query: "nobody", want: 0},
		{query: "04A1", want: 0},
	}
	for _, tt := range tests {
		if got := Students(students, tt.query); len(got) != tt.want {
			t.Errorf("Students(%q) returned %d rows, want %d", tt.query, len(got), tt.want)
		}
	}
	if got := StudentsInSection(students, "B"); len(got) != 1 || got[0].FirstName != "Ben" {
		t.Errorf("StudentsInSection() = %+v", got)
	}
}

func TestSchedulesAndOptions(t *testing.T) {
	schedules := []domain.ClassScheduleView{
		{Subject: "Math", TeacherName: "Santos", Room: "101", Day: "Mon", Section: "A"},
		{Subject: "Science", TeacherName: "Lopez", Room: "Lab 2", Day: "Tue", Section: "A"},
		{Subject: "English", TeacherName: "Santos", Room: "102", Day: "Mon", Section: "B"},
	}
	if got := Schedules(schedules, "Mon", ""); len(got) != 2 {
		t.Errorf("Schedules(Mon) = %d rows, want 2", len(got))
	}
	if got := Schedules(schedules, "", "lab"); len(got) != 1 || got[0].Subject != "Science" {
		t.Errorf("Schedules(lab) = %+v", got)
	}
	if got := Schedules(schedules, "Mon", "santos"); len(got) != 2 {
		t.Errorf("Schedules(Mon, santos) = %d rows, want 2", len(got))
	}
	if got := SchedulesInSection(schedules, "B"); len(got) != 1 {
		t.Errorf("SchedulesInSection(B) = %d rows, want 1", len(got))
	}
	if got := Days(schedules); !reflect.DeepEqual(got, []string{"Mon", "Tue"}) {
		t.Errorf("Days() = %v", got)
	}
	if got := Sections(logs); !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Errorf("Sections() = %v", got)
	}
}
