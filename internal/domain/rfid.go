package domain

// RFIDTapWire is the backend's answer to a tap. It is either an error
// detail, a full attendance document, or a short time-in/time-out
// acknowledgement.
type RFIDTapWire struct {
	AttendanceRecordWire
	Detail  *string `json:"detail"`
	Message *string `json:"message"`
	Student *string `json:"student"`
}

// TapOutcome is the view of a tap response.
type TapOutcome struct {
	OK      bool                  `json:"ok"`
	Message string                `json:"message"`
	Student string                `json:"student,omitempty"`
	Record  *AttendanceRecordView `json:"record,omitempty"`
}

const recordedMessage = "Attendance recorded"

func TapOutcomeFromWire(t RFIDTapWire) TapOutcome {
	switch {
	case t.Detail != nil:
		return TapOutcome{Message: *t.Detail}
	case t.ID != nil:
		rec := AttendanceRecordFromWire(t.AttendanceRecordWire)
		return TapOutcome{OK: true, Message: recordedMessage, Student: rec.StudentName, Record: &rec}
	default:
		msg := deref(t.Message)
		if msg == "" {
			msg = recordedMessage
		}
		return TapOutcome{OK: true, Message: msg, Student: deref(t.Student)}
	}
}
