// Package errors provides standardized error handling for the recruitment API.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeResourceNotFound ErrorCode = "RESOURCE_NOT_FOUND"
	ErrCodeInvalidInput     ErrorCode = "INVALID_INPUT"
	ErrCodeInvalidStatus    ErrorCode = "INVALID_STATUS"

	ErrCodeDuplicateApplication ErrorCode = "DUPLICATE_APPLICATION"

	ErrCodeAssessmentValidationFailed ErrorCode = "ASSESSMENT_VALIDATION_FAILED"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeDatabaseInsertFailed     ErrorCode = "DATABASE_INSERT_FAILED"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Retryable bool      `json:"retryable"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewResourceNotFoundError creates a non-retryable not-found error.
func NewResourceNotFoundError(resource, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeResourceNotFound,
		Message:   fmt.Sprintf("%s not found", resource),
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidInputError creates a non-retryable input validation error.
func NewInvalidInputError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidInput,
		Message:   "Invalid input",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidStatusError creates a non-retryable status transition error.
func NewInvalidStatusError(status string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidStatus,
		Message:   "Invalid status value",
		Details:   fmt.Sprintf("status: %s", status),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDuplicateApplicationError creates a non-retryable duplicate application error.
func NewDuplicateApplicationError(applicantID, jobID int64) *StandardError {
	return &StandardError{
		Code:      ErrCodeDuplicateApplication,
		Message:   "Application already exists",
		Details:   fmt.Sprintf("applicantId: %d, jobId: %d", applicantID, jobID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAssessmentValidationFailedError creates a non-retryable assessment payload error.
func NewAssessmentValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAssessmentValidationFailed,
		Message:   "Assessment payload validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryExecutionFailedError creates a retryable query execution error.
func NewQueryExecutionFailedError(queryName string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Database query execution error",
		Details:   fmt.Sprintf("query: %s, error: %s", queryName, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseInsertFailedError creates a retryable database insert error.
func NewDatabaseInsertFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseInsertFailed,
		Message:   "Database insert operation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a retryable notification send error.
func NewNotificationSendFailedError(channel string, err error) *StandardError {
	details := fmt.Sprintf("channel: %s", channel)
	if err != nil {
		details = fmt.Sprintf("channel: %s, error: %s", channel, err.Error())
	}
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Notification delivery failed",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// CodeOf extracts the error code from an error chain, or "" if none.
func CodeOf(err error) ErrorCode {
	var std *StandardError
	if errors.As(err, &std) {
		return std.Code
	}
	return ""
}

// IsRetryable reports whether the error is a transient infrastructure failure.
func IsRetryable(err error) bool {
	var std *StandardError
	if errors.As(err, &std) {
		return std.Retryable
	}
	return false
}

// IsNotFound reports whether the error is a not-found error.
func IsNotFound(err error) bool {
	return CodeOf(err) == ErrCodeResourceNotFound
}
