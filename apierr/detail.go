package apierr

import "errors"

type messenger interface {
	UserMessage() string
}

// Message extracts the user-visible message from an error chain. When none
// is present the caller falls back to a generic retry prompt.
func Message(err error) (string, bool) {
	var me messenger
	if errors.As(err, &me) {
		return me.UserMessage(), true
	}
	return "", false
}

type messageError struct {
	error
	msg string
}

func (e *messageError) UserMessage() string { return e.msg }

func (e *messageError) Unwrap() error { return e.error }

type statuser interface {
	HTTPStatus() int
}

// Status extracts the HTTP status carried by an error chain. Network
// failures carry no status.
func Status(err error) (int, bool) {
	var se statuser
	if errors.As(err, &se) {
		return se.HTTPStatus(), true
	}
	return 0, false
}

type statusError struct {
	error
	status int
}

func (e *statusError) HTTPStatus() int { return e.status }

func (e *statusError) Unwrap() error { return e.error }
