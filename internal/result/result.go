package result

import (
	"fmt"
	"log"
)

// APIError is the uniform failure shape returned by every backend call.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s %s", e.Code, e.Message, e.Details)
}

// Result is either a success carrying Data or a failure carrying Err.
type Result[T any] struct {
	OK   bool
	Data T
	Err  *APIError
}

// Ok wraps a successful value.
func Ok[T any](data T) Result[T] {
	return Result[T]{OK: true, Data: data}
}

// Fail wraps an error. The error is logged before it is returned.
func Fail[T any](err *APIError) Result[T] {
	log.Printf("api error: code=%d message=%q details=%s", err.Code, err.Message, err.Details)
	return Result[T]{Err: err}
}

// Unwrap converts the result into Go's (value, error) pair.
func (r Result[T]) Unwrap() (T, error) {
	if !r.OK {
		return r.Data, r.Err
	}
	return r.Data, nil
}

// Message is the display text of a failed result, empty on success.
func (r Result[T]) Message() string {
	if r.OK || r.Err == nil {
		return ""
	}
	return r.Err.Message
}

// FromStatus maps an HTTP error status into an APIError.
func FromStatus(code int, statusText, details string) *APIError {
	return &APIError{Code: code, Message: statusText, Details: details}
}

// Empty reports a nominal response that carried no body.
func Empty(code int, statusText, details string) *APIError {
	return &APIError{Code: code, Message: statusText, Details: details}
}

// Local reports a failure that happened before a response was received.
func Local(err error, details string) *APIError {
	msg := "An unknown error occured"
	if err != nil {
		msg = err.Error()
	}
	return &APIError{Code: 500, Message: msg, Details: details}
}

// Tag builds the details string used to locate the failing call.
func Tag(method, operation string) string {
	return fmt.Sprintf("[Error] (%s) <%s()>", method, operation)
}
