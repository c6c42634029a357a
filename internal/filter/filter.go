// Package filter implements the client-side narrowing used by the roster,
// schedule, and attendance tables.
package filter

import (
	"sort"
	"strings"

	"rfidattend/internal/domain"
)

func contains(field, query string) bool {
	return strings.Contains(strings.ToLower(field), query)
}

// AttendanceLogs keeps logs in section (exact, when set) whose student name
// or ID contains query, case-insensitively.
func AttendanceLogs(logs []domain.AttendanceLogView, section, query string) []domain.AttendanceLogView {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]domain.AttendanceLogView, 0, len(logs))
	for _, l := range logs {
		if section != "" && l.Section != section {
			continue
		}
		if q != "" && !contains(l.StudentName, q) && !contains(l.StudentID, q) {
			continue
		}
		out = append(out, l)
	}
	return out
}

// Students matches query against first name, last name, full name, or
// student ID number.
func Students(students []domain.StudentView, query string) []domain.StudentView {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]domain.StudentView, 0, len(students))
	for _, s := range students {
		if q != "" &&
			!contains(s.FirstName, q) &&
			!contains(s.LastName, q) &&
			!contains(s.StudentIDNo, q) &&
			!contains(s.FirstName+" "+s.LastName, q) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// StudentsInSection drops students outside section. An empty section keeps all.
func StudentsInSection(students []domain.StudentView, section string) []domain.StudentView {
	if section == "" {
		return students
	}
	out := make([]domain.StudentView, 0, len(students))
	for _, s := range students {
		if s.Section == section {
			out = append(out, s)
		}
	}
	return out
}

// Schedules keeps schedules on day (exact, when set) whose subject, teacher,
// or room contains query.
func Schedules(schedules []domain.ClassScheduleView, day, query string) []domain.ClassScheduleView {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]domain.ClassScheduleView, 0, len(schedules))
	for _, s := range schedules {
		if day != "" && s.Day != day {
			continue
		}
		if q != "" && !contains(s.Subject, q) && !contains(s.TeacherName, q) && !contains(s.Room, q) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func SchedulesInSection(schedules []domain.ClassScheduleView, section string) []domain.ClassScheduleView {
	if section == "" {
		return schedules
	}
	out := make([]domain.ClassScheduleView, 0, len(schedules))
	for _, s := range schedules {
		if s.Section == section {
			out = append(out, s)
		}
	}
	return out
}

func unique(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Sections derives the section dropdown from the loaded logs.
func Sections(logs []domain.AttendanceLogView) []string {
	values := make([]string, 0, len(logs))
	for _, l := range logs {
		values = append(values, l.Section)
	}
	return unique(values)
}

// Days derives the day dropdown from the loaded schedules.
func Days(schedules []domain.ClassScheduleView) []string {
	values := make([]string, 0, len(schedules))
	for _, s := range schedules {
		values = append(values, s.Day)
	}
	return unique(values)
}
