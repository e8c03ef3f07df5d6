package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/knowledge_hub/internal/apperrors"
	"github.com/SscSPs/knowledge_hub/internal/middleware"
	"github.com/SscSPs/knowledge_hub/internal/platform/observability"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// BatchErrorResponse is returned when a batch stopped part way.
type BatchErrorResponse struct {
	Error      string   `json:"error"`
	FailedItem string   `json:"failed_item"`
	Completed  []string `json:"completed"`
}

// statusFor maps a service error to its HTTP status code.
func statusFor(err error) int {
	var appErr *apperrors.AppError
	switch {
	case errors.As(err, &appErr) && appErr.Code != 0:
		return appErr.Code
	case errors.Is(err, apperrors.ErrDuplicateEmail),
		errors.Is(err, apperrors.ErrDuplicate),
		errors.Is(err, apperrors.ErrInvalidCredentials),
		errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrBucketAlreadyExists),
		errors.Is(err, apperrors.ErrInvalidFileType):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrInvalidToken),
		errors.Is(err, apperrors.ErrTokenAlreadyUsed),
		errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrBucketNotFound),
		errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// messageFor returns the client facing message. Internal failures get
// fallback instead of the raw cause.
func messageFor(err error, status int, fallback string) string {
	switch {
	case status >= http.StatusInternalServerError:
		return fallback
	case errors.Is(err, apperrors.ErrDuplicateEmail):
		return "Email already exists"
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return "Invalid credentials"
	case errors.Is(err, apperrors.ErrTokenAlreadyUsed):
		return "Refresh token has already been used"
	case errors.Is(err, apperrors.ErrInvalidToken):
		return "Invalid or expired refresh token"
	}
	return err.Error()
}

// respondError writes the error response for err. Server side failures are
// logged at error level and sent to Sentry.
func respondError(c *gin.Context, err error, fallback string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status := statusFor(err)
	msg := messageFor(err, status, fallback)

	if status >= http.StatusInternalServerError {
		logger.Error(fallback, slog.String("error", err.Error()))
		observability.CaptureError(c, err)
	} else {
		logger.Warn("Request failed", slog.Int("status", status), slog.String("error", err.Error()))
	}

	var batchErr *apperrors.BatchError
	if errors.As(err, &batchErr) {
		completed := batchErr.Completed
		if completed == nil {
			completed = []string{}
		}
		c.JSON(status, BatchErrorResponse{
			Error:      msg,
			FailedItem: batchErr.Item,
			Completed:  completed,
		})
		return
	}

	c.JSON(status, ErrorResponse{Error: msg})
}
