package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"rfidattend/internal/domain"
	"rfidattend/internal/result"
)

// Login exchanges credentials for a bearer token. The backend takes an
// OAuth2 password form. When the response carries no teacher object the
// session is seeded with the login email only.
func (c *Client) Login(ctx context.Context, email, password string) result.Result[domain.SessionWire] {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	res := send[domain.SessionWire](ctx, c, request{
		op:          "authLogin",
		method:      http.MethodPost,
		path:        "/teacher/login",
		body:        strings.NewReader(form.Encode()),
		contentType: "application/x-www-form-urlencoded",
	})
	if !res.OK {
		return res
	}
	if res.Data.TokenType == "" {
		res.Data.TokenType = "bearer"
	}
	if res.Data.Teacher.Email == "" {
		res.Data.Teacher.Email = email
	}
	return res
}

// Register creates a teacher account.
func (c *Client) Register(ctx context.Context, form domain.TeacherRegisterWire) result.Result[domain.TeacherWire] {
	body, err := jsonBody(form)
	if err != nil {
		return result.Fail[domain.TeacherWire](result.Local(err, result.Tag("post", "authRegister")))
	}
	return send[domain.TeacherWire](ctx, c, request{
		op:          "authRegister",
		method:      http.MethodPost,
		path:        "/teacher/register",
		body:        body,
		contentType: "application/json",
		allowEmpty:  true,
	})
}
