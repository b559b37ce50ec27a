package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	appErr "github.com/memoriqr/memoriqr/internal/pkg/errors"
)

func TestHandleError_StatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid", appErr.ErrInvalid, http.StatusBadRequest},
		{"code used", appErr.ErrCodeUsed, http.StatusBadRequest},
		{"code expired", appErr.ErrCodeExpired, http.StatusBadRequest},
		{"session expired", appErr.ErrSessionExpired, http.StatusUnauthorized},
		{"unauthorized", appErr.ErrUnauthorized, http.StatusUnauthorized},
		{"forbidden", appErr.ErrForbidden, http.StatusForbidden},
		{"not found", appErr.ErrNotFound, http.StatusNotFound},
		{"file not found", appErr.ErrFileNotFound, http.StatusNotFound},
		{"conflict", appErr.ErrConflict, http.StatusConflict},
		{"too many", appErr.ErrTooMany, http.StatusTooManyRequests},
		{"unknown", errors.New("db exploded"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(recorder)
			c.Request = httptest.NewRequest("GET", "/", nil)
			handleError(c, tc.err)
			require.Equal(t, tc.status, recorder.Code)
		})
	}
}

func TestHandleError_NilIsNoop(t *testing.T) {
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest("GET", "/", nil)
	handleError(c, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
}

func TestHandleError_WrappedSentinel(t *testing.T) {
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest("GET", "/", nil)
	handleError(c, errors.Join(errors.New("context"), appErr.ErrNotFound))
	require.Equal(t, http.StatusNotFound, recorder.Code)
}
