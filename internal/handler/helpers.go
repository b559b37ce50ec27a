package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/memoriqr/memoriqr/internal/pkg/errcode"
	appErr "github.com/memoriqr/memoriqr/internal/pkg/errors"
	"github.com/memoriqr/memoriqr/internal/pkg/response"
)

// handleError converts service sentinels to HTTP answers. Anything
// unrecognized is logged and reported as a generic 500 so internals
// never leak to callers.
func handleError(c *gin.Context, err error) {
	switch {
	case err == nil:
		return
	case errors.Is(err, appErr.ErrInvalid):
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "invalid request")
	case errors.Is(err, appErr.ErrCodeUsed):
		response.Error(c, http.StatusBadRequest, errcode.ErrCodeUsed, "code already used")
	case errors.Is(err, appErr.ErrCodeExpired):
		response.Error(c, http.StatusBadRequest, errcode.ErrCodeExpired, "code expired")
	case errors.Is(err, appErr.ErrSessionExpired):
		response.Error(c, http.StatusUnauthorized, errcode.ErrSessionExpired, "session expired")
	case errors.Is(err, appErr.ErrUnauthorized):
		response.Error(c, http.StatusUnauthorized, errcode.ErrUnauthorized, "unauthorized")
	case errors.Is(err, appErr.ErrForbidden):
		response.Error(c, http.StatusForbidden, errcode.ErrForbidden, "forbidden")
	case errors.Is(err, appErr.ErrNotFound):
		response.Error(c, http.StatusNotFound, errcode.ErrNotFound, "not found")
	case errors.Is(err, appErr.ErrFileNotFound):
		response.Error(c, http.StatusNotFound, errcode.ErrFileNotFound, "file not found")
	case errors.Is(err, appErr.ErrConflict):
		response.Error(c, http.StatusConflict, errcode.ErrConflict, "conflict")
	case errors.Is(err, appErr.ErrTooMany):
		response.Error(c, http.StatusTooManyRequests, errcode.ErrTooMany, "too many requests")
	default:
		logutil.GetLogger(c.Request.Context()).Error("request failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, errcode.ErrInternal, "internal error")
	}
}
