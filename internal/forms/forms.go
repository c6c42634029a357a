package forms

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"rfidattend/internal/domain"
)

var validate = validator.New()

// FieldError is a single failed field with its display message.
type FieldError struct {
	Field   string
	Message string
}

// Error lists every failed field of a form, in declaration order.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, "; ")
}

// First returns the first field message, which the console shows as the banner.
func (e *Error) First() string {
	if len(e.Fields) == 0 {
		return ""
	}
	return e.Fields[0].Message
}

// Student is the add/edit student form.
type Student struct {
	FirstName   string `validate:"required"`
	LastName    string `validate:"required"`
	Section     string `validate:"required"`
	StudentIDNo string `validate:"required,min=5"`
	RFIDUID     string `validate:"required"`
	SeatRow     int    `validate:"gte=0"`
	SeatCol     int    `validate:"gte=0"`
}

func (s Student) Wire() domain.StudentFormWire {
	return domain.StudentFormWire{
		FirstName:   strings.TrimSpace(s.FirstName),
		LastName:    strings.TrimSpace(s.LastName),
		Section:     strings.TrimSpace(s.Section),
		RFIDUID:     strings.TrimSpace(s.RFIDUID),
		StudentIDNo: strings.TrimSpace(s.StudentIDNo),
		SeatRow:     s.SeatRow,
		SeatCol:     s.SeatCol,
	}
}

// StudentFromView prefills an edit form from an existing student.
func StudentFromView(v domain.StudentView) Student {
	return Student{
		FirstName:   v.FirstName,
		LastName:    v.LastName,
		Section:     v.Section,
		StudentIDNo: v.StudentIDNo,
		RFIDUID:     v.RFIDUID,
		SeatRow:     v.SeatRow,
		SeatCol:     v.SeatCol,
	}
}

// Registration is the teacher sign-up form.
type Registration struct {
	FirstName       string `validate:"required"`
	LastName        string `validate:"required"`
	Email           string `validate:"required,email"`
	Password        string `validate:"required,min=6"`
	ConfirmPassword string `validate:"eqfield=Password"`
	Section         string `validate:"required"`
}

func (r Registration) Wire() domain.TeacherRegisterWire {
	return domain.TeacherRegisterWire{
		FirstName: strings.TrimSpace(r.FirstName),
		LastName:  strings.TrimSpace(r.LastName),
		Email:     strings.TrimSpace(r.Email),
		Password:  r.Password,
		Section:   strings.TrimSpace(r.Section),
	}
}

type Login struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

var messages = map[string]string{
	"FirstName.required":      "First name is required",
	"LastName.required":       "Last name is required",
	"Section.required":        "Section is required",
	"StudentIDNo.required":    "Student ID is required",
	"StudentIDNo.min":         "Student ID must be at least 5 characters",
	"RFIDUID.required":        "RFID UID is required",
	"SeatRow.gte":             "Row cannot be negative",
	"SeatCol.gte":             "Column cannot be negative",
	"Email.required":          "Email is required",
	"Email.email":             "Please enter a valid email",
	"Password.required":       "Please enter a valid password",
	"Password.min":            "Password must be at least 6 characters long",
	"ConfirmPassword.eqfield": "Passwords do not match",
}

// Validate checks a form. It returns *Error for field failures.
func Validate(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &Error{}
	for _, fe := range verrs {
		msg, ok := messages[fe.StructField()+"."+fe.Tag()]
		if !ok {
			msg = fe.Error()
		}
		out.Fields = append(out.Fields, FieldError{Field: fe.StructField(), Message: msg})
	}
	return out
}
