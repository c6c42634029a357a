package domain

// TeacherWire is the teacher object exchanged with the backend.
type TeacherWire struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Section   string `json:"section"`
	Role      string `json:"role"`
}

// SessionWire is the authenticated teacher plus bearer token. It is the
// exact blob persisted by the session cache.
type SessionWire struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	Teacher     TeacherWire `json:"teacher"`
}

// TeacherRegisterWire is the registration body.
type TeacherRegisterWire struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Section   string `json:"section"`
}

type TeacherView struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Section   string `json:"section"`
	Role      string `json:"role"`
}

func TeacherFromWire(t TeacherWire) TeacherView {
	return TeacherView{
		ID:        t.ID,
		FirstName: t.FirstName,
		LastName:  t.LastName,
		Email:     t.Email,
		Section:   t.Section,
		Role:      t.Role,
	}
}
