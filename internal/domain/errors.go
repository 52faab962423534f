package domain

import (
	"errors"
	"fmt"
)

// ErrorKind is the stable, machine-readable class of a failure. It is what
// clients see in the "code" field of an error response.
type ErrorKind string

const (
	KindAuthentication ErrorKind = "AuthenticationError"
	KindAuthorization  ErrorKind = "AuthorizationError"
	KindNotFound       ErrorKind = "NotFound"
	KindValidation     ErrorKind = "ValidationError"
	KindConflict       ErrorKind = "Conflict"
	KindServer         ErrorKind = "ServerError"
)

// Error carries a kind, a human message and optionally the underlying cause.
type Error struct {
	Kind    ErrorKind
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewAuthenticationError(message string) *Error {
	return &Error{Kind: KindAuthentication, Message: message}
}

func NewAuthorizationError(message string) *Error {
	return &Error{Kind: KindAuthorization, Message: message}
}

func NewNotFoundError(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func NewValidationError(message string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

func NewConflictError(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func NewServerError(message string, err error) *Error {
	return &Error{Kind: KindServer, Message: message, Err: err}
}

// KindOf reports the kind of err, treating anything that is not a *Error as a
// server error.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindServer
}

// IsKind reports whether err is a *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var de *Error
	return errors.As(err, &de) && de.Kind == kind
}

// Value validation errors
var (
	ErrInvalidRole         = errors.New("invalid role")
	ErrInvalidBlogStatus   = errors.New("invalid blog status")
	ErrInvalidResourceType = errors.New("invalid resource type")
)
