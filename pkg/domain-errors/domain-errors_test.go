package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	err := InvalidField("INVALID_DAYS", "days must be a positive integer greater than 0")
	assert.Equal(t, "days must be a positive integer greater than 0", err.Error())

	empty := &Error{Kind: KindNotFound}
	assert.Equal(t, "not_found", empty.Error())
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Unavailable("license service is unavailable", cause)
	assert.ErrorIs(t, err, cause)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindInvalidField, KindOf(InvalidField("INVALID_FOLIO", "folio is required")))
	assert.Equal(t, KindNotFound, KindOf(fmt.Errorf("lookup: %w", NotFound("license not found"))))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid field", InvalidField("INVALID_PATIENT_ID", "patientId is required"), http.StatusBadRequest},
		{"not found", NotFound("license not found"), http.StatusNotFound},
		{"upstream keeps status", Upstream(http.StatusBadRequest, "INVALID_PATIENT_ID", "bad patient"), http.StatusBadRequest},
		{"upstream without status", &Error{Kind: KindUpstream}, http.StatusBadGateway},
		{"unavailable", Unavailable("no response", nil), http.StatusServiceUnavailable},
		{"communication", Communication("request build failed", nil), http.StatusInternalServerError},
		{"internal", Internal("unexpected", errors.New("boom")), http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("verify: %w", NotFound("gone")), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestUnavailableCarriesStableCode(t *testing.T) {
	assert.Equal(t, "SERVICE_UNAVAILABLE", Unavailable("no response", nil).Code)
	assert.Equal(t, "COMMUNICATION_ERROR", Communication("bad request setup", nil).Code)
}
