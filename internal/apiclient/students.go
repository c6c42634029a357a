package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"rfidattend/internal/domain"
	"rfidattend/internal/result"
)

// ListStudents returns the roster visible to the token, narrowed to section
// when the backend honours it.
func (c *Client) ListStudents(ctx context.Context, section, token string) result.Result[[]domain.StudentWire] {
	q := tokenQuery(token)
	if section != "" {
		q.Set("section", section)
	}
	return send[[]domain.StudentWire](ctx, c, request{
		op:     "getStudents",
		method: http.MethodGet,
		path:   "/students",
		query:  q,
		token:  token,
	})
}

func (c *Client) GetStudent(ctx context.Context, id, token string) result.Result[domain.StudentWire] {
	return send[domain.StudentWire](ctx, c, request{
		op:     "getStudent",
		method: http.MethodGet,
		path:   "/students/" + url.PathEscape(id),
		query:  tokenQuery(token),
		token:  token,
	})
}

func (c *Client) CreateStudent(ctx context.Context, form domain.StudentFormWire, token string) result.Result[domain.StudentWire] {
	body, err := jsonBody(form)
	if err != nil {
		return result.Fail[domain.StudentWire](result.Local(err, result.Tag("post", "postStudent")))
	}
	return send[domain.StudentWire](ctx, c, request{
		op:          "postStudent",
		method:      http.MethodPost,
		path:        "/students",
		query:       tokenQuery(token),
		body:        body,
		contentType: "application/json",
		token:       token,
	})
}

// UpdateStudent replaces a student's details. The backend addresses students
// by their student ID number here, not by document id.
func (c *Client) UpdateStudent(ctx context.Context, studentIDNo string, form domain.StudentFormWire, token string) result.Result[domain.StudentWire] {
	body, err := jsonBody(form)
	if err != nil {
		return result.Fail[domain.StudentWire](result.Local(err, result.Tag("put", "putStudent")))
	}
	return send[domain.StudentWire](ctx, c, request{
		op:          "putStudent",
		method:      http.MethodPut,
		path:        "/students/" + url.PathEscape(studentIDNo),
		query:       tokenQuery(token),
		body:        body,
		contentType: "application/json",
		token:       token,
	})
}

func (c *Client) DeleteStudent(ctx context.Context, id, token string) result.Result[struct{}] {
	return send[struct{}](ctx, c, request{
		op:         "deleteStudent",
		method:     http.MethodDelete,
		path:       "/students/" + url.PathEscape(id),
		query:      tokenQuery(token),
		token:      token,
		allowEmpty: true,
	})
}
