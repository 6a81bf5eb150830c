package trigger

import (
	"errors"
	"net/http"
)

// Kind classifies a failed trigger. The values match the Firebase callable
// error codes so clients can switch on them directly.
type Kind string

const (
	Unauthenticated  Kind = "unauthenticated"
	InvalidArgument  Kind = "invalid-argument"
	PermissionDenied Kind = "permission-denied"
	Internal         Kind = "internal"
)

const (
	msgUnauthenticated  = "You must be logged in to start a build."
	msgInvalidArgument  = "A project ID must be provided."
	msgPermissionDenied = "You do not have permission to build this project."
	msgInternal         = "Failed to trigger the build process."
)

// Status returns the wire status of the callable error envelope.
func (k Kind) Status() string {
	switch k {
	case Unauthenticated:
		return "UNAUTHENTICATED"
	case InvalidArgument:
		return "INVALID_ARGUMENT"
	case PermissionDenied:
		return "PERMISSION_DENIED"
	default:
		return "INTERNAL"
	}
}

func (k Kind) HTTPStatus() int {
	switch k {
	case Unauthenticated:
		return http.StatusUnauthorized
	case InvalidArgument:
		return http.StatusBadRequest
	case PermissionDenied:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Error is returned by TriggerBuild for every failure. Message is safe to
// show to the caller; Cause is for logs only.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// KindOf returns the kind of err. Errors that did not come from the trigger are Internal.
func KindOf(err error) Kind {
	var terr *Error
	if errors.As(err, &terr) {
		return terr.Kind
	}
	return Internal
}

func newError(kind Kind, cause error) *Error {
	var msg string
	switch kind {
	case Unauthenticated:
		msg = msgUnauthenticated
	case InvalidArgument:
		msg = msgInvalidArgument
	case PermissionDenied:
		msg = msgPermissionDenied
	default:
		kind = Internal
		msg = msgInternal
	}
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// AsError returns err as a *Error. Errors that did not come from the trigger
// become Internal with err as the cause.
func AsError(err error) *Error {
	var terr *Error
	if errors.As(err, &terr) {
		return terr
	}
	return newError(Internal, err)
}
