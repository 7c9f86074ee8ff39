package domainerrors

import (
	"errors"
	"net/http"
)

// Kind classifies a domain error independent of the transport layer.
// The set is closed: every failure the services produce falls into exactly
// one of these categories, and the HTTP boundary switches on it.
type Kind string

const (
	// KindInvalidField marks a caller-correctable input error. The Code field
	// carries a stable, field-specific identifier such as INVALID_DAYS.
	KindInvalidField Kind = "invalid_field"

	// KindNotFound marks a lookup whose subject does not exist.
	KindNotFound Kind = "not_found"

	// KindUpstream marks a non-2xx response received from a dependency. The
	// Status and Code fields carry what the dependency reported.
	KindUpstream Kind = "upstream"

	// KindUnavailable marks a dependency that produced no response at all.
	KindUnavailable Kind = "unavailable"

	// KindCommunication marks a local failure constructing or sending a
	// request to a dependency.
	KindCommunication Kind = "communication"

	// KindInternal marks an unexpected failure. Details are logged server
	// side; callers only see a generic message.
	KindInternal Kind = "internal"
)

// Error wraps domain or infrastructure failures with a kind and a stable
// machine-readable code. It is transport-agnostic and shared across the
// licensing service and the adapter services.
type Error struct {
	Kind    Kind
	Code    string
	Status  int // meaningful for KindUpstream; derived from Kind otherwise
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Kind)
}

// Unwrap implements error unwrapping for error chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// InvalidField reports a validation failure with a field-specific code.
func InvalidField(code, message string) *Error {
	return &Error{Kind: KindInvalidField, Code: code, Message: message}
}

// NotFound reports that the requested entity does not exist.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Upstream reports a non-2xx response from a dependency, preserving the
// status and error code it returned.
func Upstream(status int, code, message string) *Error {
	return &Error{Kind: KindUpstream, Status: status, Code: code, Message: message}
}

// Unavailable reports a dependency that could not be reached.
func Unavailable(message string, err error) *Error {
	return &Error{Kind: KindUnavailable, Code: "SERVICE_UNAVAILABLE", Message: message, Err: err}
}

// Communication reports a local failure building or sending a request.
func Communication(message string, err error) *Error {
	return &Error{Kind: KindCommunication, Code: "COMMUNICATION_ERROR", Message: message, Err: err}
}

// Internal reports an unexpected failure. The wrapped error is for logs
// only and never reaches the caller.
func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf extracts the kind from an error chain. Errors that are not domain
// errors are treated as internal.
func KindOf(err error) Kind {
	var derr *Error
	if errors.As(err, &derr) {
		return derr.Kind
	}
	return KindInternal
}

// HTTPStatus maps an error to the HTTP status code the boundary should
// answer with. Upstream errors keep the status the dependency reported.
func HTTPStatus(err error) int {
	var derr *Error
	if !errors.As(err, &derr) {
		return http.StatusInternalServerError
	}
	switch derr.Kind {
	case KindInvalidField:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUpstream:
		if derr.Status != 0 {
			return derr.Status
		}
		return http.StatusBadGateway
	case KindUnavailable:
		return http.StatusServiceUnavailable
	case KindCommunication:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
