package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext() (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestSuccess(t *testing.T) {
	c, rec := newTestContext()

	err := Success(c, map[string]string{"key": "value"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		OK   bool              `json:"ok"`
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.OK)
	assert.Equal(t, "value", body.Data["key"])
}

func TestCreated(t *testing.T) {
	c, rec := newTestContext()

	err := Created(c, map[string]string{"id": "123"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok":true`)
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name    string
		fn      func(echo.Context, string) error
		code    int
		message string
	}{
		{"bad request", BadRequest, http.StatusBadRequest, "invalid input"},
		{"not found", NotFound, http.StatusNotFound, "no such thing"},
		{"conflict", Conflict, http.StatusConflict, "already exists"},
		{"unauthorized", Unauthorized, http.StatusUnauthorized, "who are you"},
		{"internal", InternalError, http.StatusInternalServerError, "oops"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newTestContext()
			require.NoError(t, tt.fn(c, tt.message))
			assert.Equal(t, tt.code, rec.Code)

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.OK)
			assert.Equal(t, tt.message, body.Error)
		})
	}
}

func TestValidationError(t *testing.T) {
	c, rec := newTestContext()

	err := ValidationError(c, map[string]string{"Email": "Email must be valid"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body ValidationErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.OK)
	assert.Equal(t, "Email must be valid", body.Fields["Email"])
}

func TestHandleError_MapsSentinels(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"not found", NotFoundErr("missing"), http.StatusNotFound},
		{"duplicate", DuplicateKeyErr("taken"), http.StatusConflict},
		{"bad request", BadRequestErr("nope"), http.StatusBadRequest},
		{"unauthorized", UnauthorizedErr("denied"), http.StatusUnauthorized},
		{"internal", ServerErr(errors.New("boom")), http.StatusInternalServerError},
		{"unwrapped error", errors.New("mystery"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newTestContext()
			require.NoError(t, HandleError(c, tt.err))
			assert.Equal(t, tt.code, rec.Code)
			assert.Contains(t, rec.Body.String(), `"ok":false`)
		})
	}
}

func TestHandleError_NilIsNoop(t *testing.T) {
	c, rec := newTestContext()
	require.NoError(t, HandleError(c, nil))
	assert.Empty(t, rec.Body.String())
}
