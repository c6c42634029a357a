// Package present renders view models as terminal tables.
package present

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"rfidattend/internal/domain"
	"rfidattend/internal/seatplan"
)

const emptySeat = "Empty"

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders a date or timestamp as "Jan 2, 2006".
func FormatDate(s string) string {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t.Format("Jan 2, 2006")
	}
	if t, ok := parseTimestamp(s); ok {
		return t.Format("Jan 2, 2006")
	}
	return s
}

// FormatTime renders a timestamp as "03:04 PM".
func FormatTime(s string) string {
	if t, ok := parseTimestamp(s); ok {
		return t.Format("03:04 PM")
	}
	return s
}

func optTime(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return FormatTime(*s)
}

func table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func row(tw io.Writer, cols ...any) {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = fmt.Sprint(c)
	}
	fmt.Fprintln(tw, strings.Join(parts, "\t"))
}

// Error prints an error banner.
func Error(w io.Writer, msg string) {
	fmt.Fprintf(w, "Error: %s\n", msg)
}

// JSON prints v indented, for -json output.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func Teacher(w io.Writer, t domain.TeacherView) error {
	tw := table(w)
	row(tw, "Name:", strings.TrimSpace(t.FirstName+" "+t.LastName))
	row(tw, "Email:", t.Email)
	row(tw, "Section:", t.Section)
	if t.Role != "" {
		row(tw, "Role:", t.Role)
	}
	return tw.Flush()
}

func Students(w io.Writer, students []domain.StudentView) error {
	if len(students) == 0 {
		fmt.Fprintln(w, "No students found.")
		return nil
	}
	tw := table(w)
	row(tw, "ID", "STUDENT NO", "NAME", "SECTION", "RFID", "SEAT")
	for _, s := range students {
		row(tw, s.ID, s.StudentIDNo, s.FullName(), s.Section, s.RFIDUID, fmt.Sprintf("%d,%d", s.SeatRow, s.SeatCol))
	}
	return tw.Flush()
}

func Student(w io.Writer, s domain.StudentView) error {
	tw := table(w)
	row(tw, "Name:", s.FullName())
	row(tw, "Student No:", s.StudentIDNo)
	row(tw, "Section:", s.Section)
	row(tw, "RFID UID:", s.RFIDUID)
	row(tw, "Seat:", fmt.Sprintf("row %d, column %d", s.SeatRow, s.SeatCol))
	return tw.Flush()
}

func Schedules(w io.Writer, schedules []domain.ClassScheduleView) error {
	if len(schedules) == 0 {
		fmt.Fprintln(w, "No class schedules found.")
		return nil
	}
	tw := table(w)
	row(tw, "DAY", "START", "END", "SUBJECT", "SECTION", "ROOM", "TEACHER")
	for _, c := range schedules {
		row(tw, c.Day, c.StartTime, c.EndTime, c.Subject, c.Section, c.Room, c.TeacherName)
	}
	return tw.Flush()
}

func Summary(w io.Writer, s domain.AttendanceSummaryView) error {
	if s.ReportDetails != "" {
		fmt.Fprintln(w, s.ReportDetails)
	}
	if len(s.AttendanceLogs) == 0 {
		fmt.Fprintln(w, "No attendance logs found.")
		return nil
	}
	tw := table(w)
	row(tw, "STUDENT ID", "NAME", "SECTION", "LATES", "ABSENCES")
	for _, l := range s.AttendanceLogs {
		row(tw, l.StudentID, l.StudentName, l.Section, l.TotalLates, l.TotalAbsences)
	}
	return tw.Flush()
}

func Records(w io.Writer, records []domain.AttendanceRecordView) error {
	if len(records) == 0 {
		fmt.Fprintln(w, "No attendance records found.")
		return nil
	}
	tw := table(w)
	row(tw, "DATE", "SUBJECT", "TIME IN", "TIME OUT", "STATUS", "LATE", "BREAKS")
	for _, r := range records {
		row(tw, FormatDate(r.LessonDate), r.Subject, optTime(r.TimeIn), optTime(r.TimeOut), r.Status, yesNo(r.Late), len(r.Breaks))
	}
	return tw.Flush()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// SeatGrid draws the seat plan with row 0 at the top.
func SeatGrid(w io.Writer, g seatplan.Grid) error {
	tw := table(w)
	header := []any{""}
	for c := 0; c < g.Cols(); c++ {
		header = append(header, fmt.Sprintf("C%d", c))
	}
	row(tw, header...)
	for r, cells := range g {
		line := []any{fmt.Sprintf("R%d", r)}
		for _, seat := range cells {
			if seat == nil {
				line = append(line, emptySeat)
				continue
			}
			line = append(line, seatplan.Initials(seat.FirstName, seat.LastName)+" "+seat.StudentID)
		}
		row(tw, line...)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "%d of %d seats occupied\n", g.Occupied(), g.Rows()*g.Cols())
	return nil
}

// Tap prints the outcome of one RFID tap.
func Tap(w io.Writer, out domain.TapOutcome) {
	if !out.OK {
		Error(w, out.Message)
		return
	}
	if out.Student != "" {
		fmt.Fprintf(w, "%s: %s\n", out.Student, out.Message)
		return
	}
	fmt.Fprintln(w, out.Message)
}
