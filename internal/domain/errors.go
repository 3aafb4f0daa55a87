package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"
	ErrValidation   ErrorCode = "VALIDATION_ERROR"

	// Quiz generation specific errors
	ErrInvalidConfig   ErrorCode = "INVALID_CONFIG"
	ErrSchema          ErrorCode = "SCHEMA_ERROR"
	ErrLLMServiceError ErrorCode = "LLM_SERVICE_ERROR"
	ErrRetrieval       ErrorCode = "RETRIEVAL_ERROR"
	ErrMissingField    ErrorCode = "MISSING_FIELD"
	ErrQuizNotFound    ErrorCode = "QUIZ_NOT_FOUND"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Cause   error     `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Helper functions for common errors
func NewInternalError(message string, cause error) *DomainError {
	return NewError(ErrInternal, message, cause)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(ErrInvalidInput, message, nil)
}

// NewInvalidConfigError signals invalid generator construction
// parameters. It is fatal: the generator must not be used.
func NewInvalidConfigError(message string) *DomainError {
	return NewError(ErrInvalidConfig, message, nil)
}

// NewSchemaError signals that model output did not conform to the
// required question shape.
func NewSchemaError(message string, cause error) *DomainError {
	return NewError(ErrSchema, message, cause)
}

func NewLLMServiceError(cause error) *DomainError {
	return NewError(ErrLLMServiceError, "Failed to process with LLM service", cause)
}

func NewRetrievalError(cause error) *DomainError {
	return NewError(ErrRetrieval, "Failed to retrieve context", cause)
}

// NewMissingFieldError signals a precondition violation: a required
// field that the contract guarantees was absent or empty.
func NewMissingFieldError(field string) *DomainError {
	return NewError(ErrMissingField, fmt.Sprintf("missing or empty required field: %s", field), nil)
}

func NewQuizNotFoundError(quizID string) *DomainError {
	return NewError(ErrQuizNotFound, fmt.Sprintf("Quiz not found with ID: %s", quizID), nil)
}

// HasCode reports whether err is a DomainError carrying the given code.
func HasCode(err error, code ErrorCode) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}

// IsSchemaError reports whether err represents malformed model output.
// Schema errors are recoverable inside the generation retry budget;
// everything else aborts the run.
func IsSchemaError(err error) bool {
	return HasCode(err, ErrSchema)
}

// ValidationError describes a single invalid request field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors aggregates request validation failures.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", e[0].Error())
}
