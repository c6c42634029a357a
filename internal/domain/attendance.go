package domain

// AttendanceLogWire is one student's aggregated attendance, computed server-side.
type AttendanceLogWire struct {
	StudentID     string `json:"student_id"`
	StudentName   string `json:"student_name"`
	Section       string `json:"section"`
	TotalLates    int    `json:"total_lates"`
	TotalAbsences int    `json:"total_absences"`
}

type AttendanceSummaryWire struct {
	ReportDetails    string              `json:"report_details"`
	StudentSummaries []AttendanceLogWire `json:"student_summaries"`
}

type AttendanceLogView struct {
	StudentID     string `json:"studentId"`
	StudentName   string `json:"studentName"`
	Section       string `json:"section"`
	TotalLates    int    `json:"totalLates"`
	TotalAbsences int    `json:"totalAbsences"`
}

type AttendanceSummaryView struct {
	ReportDetails  string              `json:"reportDetails"`
	AttendanceLogs []AttendanceLogView `json:"attendanceLogs"`
}

func AttendanceLogFromWire(l AttendanceLogWire) AttendanceLogView {
	return AttendanceLogView{
		StudentID:     l.StudentID,
		StudentName:   l.StudentName,
		Section:       l.Section,
		TotalLates:    l.TotalLates,
		TotalAbsences: l.TotalAbsences,
	}
}

func AttendanceSummaryFromWire(s AttendanceSummaryWire) AttendanceSummaryView {
	logs := make([]AttendanceLogView, 0, len(s.StudentSummaries))
	for _, l := range s.StudentSummaries {
		logs = append(logs, AttendanceLogFromWire(l))
	}
	return AttendanceSummaryView{ReportDetails: s.ReportDetails, AttendanceLogs: logs}
}

// BreakWire is one break interval inside an attendance record.
type BreakWire struct {
	Start           *string `json:"start"`
	End             *string `json:"end"`
	DurationSeconds int     `json:"duration_seconds"`
	Duration        *string `json:"duration"`
}

// AttendanceRecordWire mirrors a stored attendance document. Most fields
// are nullable on the wire.
type AttendanceRecordWire struct {
	ID                *string     `json:"_id"`
	StudentID         *string     `json:"student_id"`
	StudentName       *string     `json:"student_name"`
	Section           *string     `json:"section"`
	Subject           *string     `json:"subject"`
	LessonDate        *string     `json:"lesson_date"`
	TimeIn            *string     `json:"time_in"`
	TimeOut           *string     `json:"time_out"`
	TotalBreakSeconds int         `json:"total_break_seconds"`
	Breaks            []BreakWire `json:"breaks"`
	Status            *string     `json:"status"`
	Late              bool        `json:"late"`
	LeftEarly         bool        `json:"left_early"`
	Remarks           *string     `json:"remarks"`
	FromDevice        *string     `json:"from_device"`
	CreatedAt         *string     `json:"created_at"`
	UpdatedAt         *string     `json:"updated_at"`
}

type AttendanceRecordListWire struct {
	Records []AttendanceRecordWire `json:"records"`
}

type BreakView struct {
	Start           string `json:"start"`
	End             string `json:"end"`
	DurationSeconds int    `json:"durationSeconds"`
	Duration        string `json:"duration"`
}

type AttendanceRecordView struct {
	ID                string      `json:"id"`
	StudentID         string      `json:"studentId"`
	StudentName       string      `json:"studentName"`
	Section           string      `json:"section"`
	Subject           string      `json:"subject"`
	LessonDate        string      `json:"lessonDate"`
	TimeIn            *string     `json:"timeIn"`
	TimeOut           *string     `json:"timeOut"`
	TotalBreakSeconds int         `json:"totalBreakSeconds"`
	Breaks            []BreakView `json:"breaks"`
	Status            string      `json:"status"`
	Late              bool        `json:"late"`
	LeftEarly         bool        `json:"leftEarly"`
	Remarks           string      `json:"remarks"`
	FromDevice        string      `json:"fromDevice"`
	CreatedAt         string      `json:"createdAt"`
	UpdatedAt         string      `json:"updatedAt"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func AttendanceRecordFromWire(r AttendanceRecordWire) AttendanceRecordView {
	breaks := make([]BreakView, 0, len(r.Breaks))
	for _, b := range r.Breaks {
		breaks = append(breaks, BreakView{
			Start:           deref(b.Start),
			End:             deref(b.End),
			DurationSeconds: b.DurationSeconds,
			Duration:        deref(b.Duration),
		})
	}
	return AttendanceRecordView{
		ID:                deref(r.ID),
		StudentID:         deref(r.StudentID),
		StudentName:       deref(r.StudentName),
		Section:           deref(r.Section),
		Subject:           deref(r.Subject),
		LessonDate:        deref(r.LessonDate),
		TimeIn:            r.TimeIn,
		TimeOut:           r.TimeOut,
		TotalBreakSeconds: r.TotalBreakSeconds,
		Breaks:            breaks,
		Status:            deref(r.Status),
		Late:              r.Late,
		LeftEarly:         r.LeftEarly,
		Remarks:           deref(r.Remarks),
		FromDevice:        deref(r.FromDevice),
		CreatedAt:         deref(r.CreatedAt),
		UpdatedAt:         deref(r.UpdatedAt),
	}
}

func AttendanceRecordsFromWire(l AttendanceRecordListWire) []AttendanceRecordView {
	out := make([]AttendanceRecordView, 0, len(l.Records))
	for _, r := range l.Records {
		out = append(out, AttendanceRecordFromWire(r))
	}
	return out
}
