package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	dErrors "medlicense/pkg/domain-errors"
)

// Envelope is the JSON shape shared by every service in the system. Success
// responses always set Success true; error responses carry Error and, when a
// stable machine code exists, Code.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Errors after WriteHeader cannot change the status code, so we ignore
	// encoding errors. The response body may be incomplete, but headers are
	// already sent.
	_ = json.NewEncoder(w).Encode(response)
}

// WriteData writes a success envelope with a data payload.
func WriteData(w http.ResponseWriter, status int, data any) {
	WriteJSON(w, status, Envelope{Success: true, Data: data})
}

// WriteDataMessage writes a success envelope with a data payload and a
// human-readable message.
func WriteDataMessage(w http.ResponseWriter, status int, data any, message string) {
	WriteJSON(w, status, Envelope{Success: true, Data: data, Message: message})
}

// WriteList writes a success envelope for list results with a derived count.
func WriteList(w http.ResponseWriter, data any, count int, message string) {
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Data: data, Count: &count, Message: message})
}

// WriteError centralizes domain error translation to HTTP responses.
// Validation errors keep their field-specific code, upstream errors keep the
// status and code reported by the dependency, and anything unrecognized is
// reduced to a generic internal error so no details leak to the caller.
func WriteError(w http.ResponseWriter, err error) {
	var derr *dErrors.Error
	if errors.As(err, &derr) && derr.Kind != dErrors.KindInternal {
		WriteJSON(w, dErrors.HTTPStatus(derr), Envelope{
			Success: false,
			Error:   derr.Message,
			Code:    derr.Code,
		})
		return
	}
	WriteInternal(w, "")
}

// WriteInternal writes the generic 500 envelope. The optional message names
// the operation that failed, never the underlying cause.
func WriteInternal(w http.ResponseWriter, message string) {
	WriteJSON(w, http.StatusInternalServerError, Envelope{
		Success: false,
		Error:   "Internal server error",
		Message: message,
	})
}

// NotFoundHandler answers requests for unknown routes.
func NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusNotFound, Envelope{
			Success: false,
			Error:   "Not Found",
			Message: fmt.Sprintf("Route %s %s not found", r.Method, r.URL.Path),
		})
	}
}
