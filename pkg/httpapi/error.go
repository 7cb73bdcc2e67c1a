package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/planora/planora/pkg/composables"
	"github.com/planora/planora/pkg/serrors"
	"github.com/planora/planora/pkg/shared"
)

// ErrorEnvelope standardizes JSON error responses across all API
// namespaces.
type ErrorEnvelope struct {
	Message       string `json:"message"`
	ErrorCode     string `json:"errorCode"`
	CorrelationID string `json:"correlationId,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	if w == nil {
		return nil
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(payload)
}

func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) error {
	var correlationID string
	if r != nil {
		correlationID = composables.UseCorrelationID(r.Context())
	}
	return WriteJSON(w, status, &ErrorEnvelope{
		Message:       message,
		ErrorCode:     code,
		CorrelationID: correlationID,
	})
}

// WriteFilterError reports a query-decoding failure as FILTER_INVALID,
// naming the offending query key when the decoder identifies one.
func WriteFilterError(w http.ResponseWriter, r *http.Request, err error) {
	message := "invalid filter value"
	if field := shared.DecodeErrorField(err); field != "" {
		message = field + " filter is invalid"
	}
	_ = WriteError(w, r, http.StatusBadRequest, "FILTER_INVALID", message)
}

// StatusFor maps the service error taxonomy onto HTTP status codes.
func StatusFor(class serrors.Class) int {
	switch class {
	case serrors.ClassNotFound:
		return http.StatusNotFound
	case serrors.ClassForbidden:
		return http.StatusForbidden
	case serrors.ClassConflict:
		return http.StatusConflict
	case serrors.ClassValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// WriteServiceError converts a service error into the standard envelope.
// Unclassified errors are logged with full detail server-side and surface
// as a generic 500.
func WriteServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var be *serrors.BaseError
	if errors.As(err, &be) {
		_ = WriteError(w, r, StatusFor(be.Class), be.Code, be.Message)
		return
	}

	var ve serrors.ValidationErrors
	if errors.As(err, &ve) {
		_ = WriteError(w, r, http.StatusBadRequest, "VALIDATION_FAILED", ve.Error())
		return
	}

	if r != nil {
		composables.UseLogger(r.Context()).WithError(err).Error("unhandled service error")
	}
	_ = WriteError(w, r, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "internal server error")
}
