package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestResponseError_Validation(t *testing.T) {
	rec := httptest.NewRecorder()
	ResponseError(rec, NewValidation(map[string]string{"name": "The name field is required."}), false)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Validation failed", body["message"])
	assert.Equal(t, map[string]any{"name": "The name field is required."}, body["errors"])
}

func TestResponseError_InternalHidesCauseUnlessDebug(t *testing.T) {
	cause := errors.New("pq: connection refused")

	rec := httptest.NewRecorder()
	ResponseError(rec, cause, false)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "An unexpected error occurred. Please try again later.", decode(t, rec)["error"])

	rec = httptest.NewRecorder()
	ResponseError(rec, NewInternal("Login failed", "generic", cause), true)
	assert.Equal(t, "pq: connection refused", decode(t, rec)["error"])
}

func TestErrorKindStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, KindBadRequest.Status())
	assert.Equal(t, http.StatusUnauthorized, KindUnauthenticated.Status())
	assert.Equal(t, http.StatusForbidden, KindUnauthorized.Status())
	assert.Equal(t, http.StatusForbidden, KindForbidden.Status())
	assert.Equal(t, http.StatusNotFound, KindNotFound.Status())
	assert.Equal(t, http.StatusConflict, KindConflict.Status())
	assert.Equal(t, http.StatusRequestEntityTooLarge, KindPayloadTooLarge.Status())
	assert.Equal(t, http.StatusTooManyRequests, KindTooManyRequests.Status())
	assert.Equal(t, http.StatusInternalServerError, KindInternal.Status())
}

func TestAsAppError(t *testing.T) {
	err := NewConflict("dup", "dup")
	wrapped := errors.Join(errors.New("outer"), err)

	assert.Same(t, err, AsAppError(wrapped))

	plain := AsAppError(errors.New("plain"))
	assert.Equal(t, KindInternal, plain.Kind)
	assert.EqualError(t, plain.Err, "plain")
}
