// internal/server/respond.go
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"recruitment-backend/internal/common/errors"
)

// errorBody is the JSON shape every failed request returns.
type errorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Details   string `json:"details,omitempty"`
	Retryable bool   `json:"retryable"`
	RequestID string `json:"requestId,omitempty"`
}

func respondError(c *gin.Context, err error) {
	std, ok := err.(*errors.StandardError)
	if !ok {
		c.JSON(http.StatusInternalServerError, errorBody{
			Code:      "INTERNAL_ERROR",
			Message:   "Unexpected error",
			RequestID: c.GetString("requestId"),
		})
		return
	}

	c.JSON(statusFor(std), errorBody{
		Code:      string(std.Code),
		Message:   std.Message,
		Details:   std.Details,
		Retryable: std.Retryable,
		RequestID: c.GetString("requestId"),
	})
}

func statusFor(std *errors.StandardError) int {
	switch std.Code {
	case errors.ErrCodeResourceNotFound:
		return http.StatusNotFound
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidStatus, errors.ErrCodeAssessmentValidationFailed:
		return http.StatusBadRequest
	case errors.ErrCodeDuplicateApplication:
		return http.StatusConflict
	default:
		if std.Retryable {
			return http.StatusServiceUnavailable
		}
		return http.StatusInternalServerError
	}
}
