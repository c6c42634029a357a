package domain

// ClassScheduleWire is one class schedule entry.
type ClassScheduleWire struct {
	ID          string `json:"_id"`
	Section     string `json:"section"`
	Subject     string `json:"subject"`
	TeacherName string `json:"teacher_name"`
	Day         string `json:"day"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Room        string `json:"room"`
	CreatedAt   string `json:"created_at"`
}

type ClassScheduleView struct {
	ID          string `json:"id"`
	Section     string `json:"section"`
	Subject     string `json:"subject"`
	TeacherName string `json:"teacherName"`
	Day         string `json:"day"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Room        string `json:"room"`
	CreatedAt   string `json:"createdAt"`
}

func ClassScheduleFromWire(c ClassScheduleWire) ClassScheduleView {
	return ClassScheduleView{
		ID:          c.ID,
		Section:     c.Section,
		Subject:     c.Subject,
		TeacherName: c.TeacherName,
		Day:         c.Day,
		StartTime:   c.StartTime,
		EndTime:     c.EndTime,
		Room:        c.Room,
		CreatedAt:   c.CreatedAt,
	}
}

func ClassSchedulesFromWire(list []ClassScheduleWire) []ClassScheduleView {
	out := make([]ClassScheduleView, 0, len(list))
	for _, c := range list {
		out = append(out, ClassScheduleFromWire(c))
	}
	return out
}
