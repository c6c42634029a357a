package domain

// StudentWire is a student as returned by the backend.
type StudentWire struct {
	ID          string `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Section     string `json:"section"`
	StudentIDNo string `json:"student_id_no"`
	RFIDUID     string `json:"rfid_uid"`
	SeatRow     int    `json:"seat_row"`
	SeatCol     int    `json:"seat_col"`
}

// StudentFormWire is the create/update body.
type StudentFormWire struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Section     string `json:"section"`
	RFIDUID     string `json:"rfid_uid"`
	StudentIDNo string `json:"student_id_no"`
	SeatRow     int    `json:"seat_row"`
	SeatCol     int    `json:"seat_col"`
}

type StudentView struct {
	ID          string `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Section     string `json:"section"`
	StudentIDNo string `json:"studentIdNo"`
	RFIDUID     string `json:"rfidUid"`
	SeatRow     int    `json:"seatRow"`
	SeatCol     int    `json:"seatCol"`
}

func StudentFromWire(s StudentWire) StudentView {
	return StudentView{
		ID:          s.ID,
		FirstName:   s.FirstName,
		LastName:    s.LastName,
		Section:     s.Section,
		StudentIDNo: s.StudentIDNo,
		RFIDUID:     s.RFIDUID,
		SeatRow:     s.SeatRow,
		SeatCol:     s.SeatCol,
	}
}

func StudentsFromWire(list []StudentWire) []StudentView {
	out := make([]StudentView, 0, len(list))
	for _, s := range list {
		out = append(out, StudentFromWire(s))
	}
	return out
}

// FullName joins first and last name.
func (s StudentView) FullName() string {
	if s.LastName == "" {
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}

// SeatView is one occupied seat in the class seat plan.
type SeatView struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	StudentID string `json:"studentId"`
	SeatRow   int    `json:"seatRow"`
	SeatCol   int    `json:"seatCol"`
}

func SeatsFromStudents(students []StudentView) []SeatView {
	out := make([]SeatView, 0, len(students))
	for _, s := range students {
		out = append(out, SeatView{
			FirstName: s.FirstName,
			LastName:  s.LastName,
			StudentID: s.StudentIDNo,
			SeatRow:   s.SeatRow,
			SeatCol:   s.SeatCol,
		})
	}
	return out
}
