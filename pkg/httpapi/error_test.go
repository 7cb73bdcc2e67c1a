package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/planora/planora/pkg/composables"
	"github.com/planora/planora/pkg/serrors"
)

func TestStatusFor(t *testing.T) {
	require.Equal(t, http.StatusNotFound, StatusFor(serrors.ClassNotFound))
	require.Equal(t, http.StatusForbidden, StatusFor(serrors.ClassForbidden))
	require.Equal(t, http.StatusConflict, StatusFor(serrors.ClassConflict))
	require.Equal(t, http.StatusBadRequest, StatusFor(serrors.ClassValidation))
	require.Equal(t, http.StatusInternalServerError, StatusFor(serrors.ClassInternal))
}

func TestWriteServiceError_Envelope(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/api/assignments", nil)
	r = r.WithContext(composables.WithCorrelationID(r.Context(), "corr-123"))

	WriteServiceError(w, r, serrors.NewConflict("ASSIGNMENT_OVERLAP", "assignment overlaps an active assignment"))

	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var envelope ErrorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Equal(t, "ASSIGNMENT_OVERLAP", envelope.ErrorCode)
	require.Equal(t, "corr-123", envelope.CorrelationID)
	require.Contains(t, envelope.Message, "overlaps")
}
