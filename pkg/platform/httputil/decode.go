package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// DecodeJSON decodes a JSON request body into the target type.
// Returns the decoded value and true on success. On failure, writes a 400
// envelope and returns nil, false.
//
// Numeric fields declared as any keep their JSON type, which lets services
// distinguish a missing field from one of the wrong shape.
func DecodeJSON[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger) (*T, bool) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if logger != nil {
			logger.WarnContext(r.Context(), "failed to decode request body", "error", err)
		}
		WriteJSON(w, http.StatusBadRequest, Envelope{
			Success: false,
			Error:   "Invalid request body",
			Code:    "INVALID_BODY",
		})
		return nil, false
	}
	return &req, true
}
