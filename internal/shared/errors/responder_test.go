package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestStatusName(t *testing.T) {
	assert.Equal(t, "BAD_REQUEST", statusName(http.StatusBadRequest))
	assert.Equal(t, "NOT_FOUND", statusName(http.StatusNotFound))
	assert.Equal(t, "INTERNAL_SERVER_ERROR", statusName(http.StatusInternalServerError))
	assert.Equal(t, "MULTI_STATUS", statusName(http.StatusMultiStatus))
	assert.Equal(t, "STATUS_599", statusName(599))
}

func TestChainedResponder_UsesFirstMatchingMapper(t *testing.T) {
	sentinel := stderrors.New("boom")
	responder := NewChainedResponder(func(err error) (ErrorResponse, bool) {
		if stderrors.Is(err, sentinel) {
			return ErrConflict.WithMessage(err.Error()), true
		}
		return ErrorResponse{}, false
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/users/1", nil)
	responder.RespondError(c, fmt.Errorf("wrapped: %w", sentinel))

	require.Equal(t, http.StatusConflict, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "CONFLICT", body.HTTPStatus)
	assert.Equal(t, "wrapped: boom", body.ErrorMessage)
}

func TestResponder_UnknownErrorIsInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	DefaultResponder.RespondError(c, stderrors.New("db down"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Internal server error", body.ErrorMessage)
}

func TestValidationFailed_IncludesFieldMap(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/users", nil)
	DefaultResponder.ValidationFailed(c, map[string]string{"email": "Invalid email"})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "BAD_REQUEST", body.HTTPStatus)
	assert.Equal(t, map[string]string{"email": "Invalid email"}, body.Errors)
	assert.Empty(t, ErrValidation.Errors)
}

func TestRespond_PassesEnvelopeThrough(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/users/9", nil)
	DefaultResponder.RespondError(c, fmt.Errorf("lookup: %w", ErrNotFound.WithMessage("user not found with this id: 9")))

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "user not found with this id: 9", decode(t, rec).ErrorMessage)
	assert.True(t, c.IsAborted())
}
