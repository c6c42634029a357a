package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"rfidattend/internal/domain"
	"rfidattend/internal/result"
)

func (c *Client) ListClassSchedules(ctx context.Context, section string) result.Result[[]domain.ClassScheduleWire] {
	q := url.Values{}
	if section != "" {
		q.Set("section", section)
	}
	return send[[]domain.ClassScheduleWire](ctx, c, request{
		op:     "getClassSchedules",
		method: http.MethodGet,
		path:   "/schedule/class-schedules",
		query:  q,
	})
}

// AttendanceSummary returns per-student late and absence totals. An empty
// date asks for all lesson dates.
func (c *Client) AttendanceSummary(ctx context.Context, section, date string) result.Result[domain.AttendanceSummaryWire] {
	q := url.Values{}
	if section != "" {
		q.Set("section", section)
	}
	if date != "" {
		q.Set("lesson_date", date)
	}
	return send[domain.AttendanceSummaryWire](ctx, c, request{
		op:     "getAttendanceLogs",
		method: http.MethodGet,
		path:   "/reports/attendance-summary",
		query:  q,
	})
}

func (c *Client) AttendanceRecords(ctx context.Context, studentID, subject, date string) result.Result[domain.AttendanceRecordListWire] {
	q := url.Values{}
	q.Set("student_id", studentID)
	if subject != "" {
		q.Set("subject", subject)
	}
	if date != "" {
		q.Set("date", date)
	}
	return send[domain.AttendanceRecordListWire](ctx, c, request{
		op:     "getAttendanceRecords",
		method: http.MethodGet,
		path:   "/attendance/records",
		query:  q,
	})
}

// PostRFID reports a card tap. A 400 from the backend means no class is
// scheduled for the card's section right now.
func (c *Client) PostRFID(ctx context.Context, rfidUID string) result.Result[domain.RFIDTapWire] {
	q := url.Values{}
	q.Set("rfid_uid", rfidUID)
	return send[domain.RFIDTapWire](ctx, c, request{
		op:         "postRfid",
		method:     http.MethodPost,
		path:       "/attendance/rfid",
		query:      q,
		allowEmpty: true,
		onStatus: func(code int, _ string, details string) *result.APIError {
			if code != http.StatusBadRequest {
				return nil
			}
			return &result.APIError{Code: code, Message: c.noClassMessage(), Details: details}
		},
	})
}

func (c *Client) noClassMessage() string {
	if c.Section == "" {
		return "No class is currently in session at this time."
	}
	return fmt.Sprintf("No class is currently in session for section '%s' at this time.", c.Section)
}
