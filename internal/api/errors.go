package api

import (
	"errors"
	"fmt"

	domaintypes "trashmail/internal/domain/types"
)

var (
	// ErrInvalidResponse means the server answered with something other than
	// a non-empty JSON object.
	ErrInvalidResponse = errors.New("invalid response from server")
	// ErrNotAuthenticated is returned by authenticated calls made before a
	// successful login.
	ErrNotAuthenticated = errors.New("not authenticated: call Login first")
)

// Error is a failure reported by the API itself (success=false) or a failure
// to obtain a usable reply for a command.
type Error struct {
	// Cmd is the API command that failed.
	Cmd string
	// Message is the server's msg, or a local description.
	Message string
	// Code is the server's error_code when it sent one.
	Code *int
	// Status is the HTTP status of the reply, zero when there was none.
	Status int
	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Code != nil {
		msg = fmt.Sprintf("%s (code: %d)", msg, *e.Code)
	}
	if e.Cmd != "" {
		return "trashmail " + e.Cmd + ": " + msg
	}
	return "trashmail: " + msg
}

func (e *Error) Unwrap() error { return e.Err }

// ErrorCode returns the server error code, or 0 when none was sent.
func (e *Error) ErrorCode() int {
	if e.Code == nil {
		return 0
	}
	return *e.Code
}

// ResultError builds an Error from a success=false reply, using fallback when
// the server sent no msg.
func ResultError(cmd string, res *domaintypes.APIResult, fallback string) *Error {
	e := &Error{Cmd: cmd, Message: fallback}
	if res != nil {
		e.Message = res.Message(fallback)
		e.Code = res.ErrorCode()
		e.Status = res.Status
	}
	return e
}

// Messages the service's own clients show for local failures.
const (
	MsgInvalidResponse  = "Invalid response from server"
	MsgNotAuthenticated = "Not authenticated. Call login() first."
)

// InvalidResponse builds the Error for a reply that could not be used.
func InvalidResponse(cmd string) *Error {
	return &Error{Cmd: cmd, Message: MsgInvalidResponse, Err: ErrInvalidResponse}
}

// NotAuthenticated builds the Error for a call made before logging in.
func NotAuthenticated(cmd string) *Error {
	return &Error{Cmd: cmd, Message: MsgNotAuthenticated, Err: ErrNotAuthenticated}
}

// TransportError wraps a failure to reach the server for cmd.
func TransportError(cmd, what string, err error) *Error {
	return &Error{Cmd: cmd, Message: fmt.Sprintf("%s: %v", what, err), Err: err}
}
