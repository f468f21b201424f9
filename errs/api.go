package errs

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/rpupo63/portfolio-catalog-backend/models"
)

// Common error sentinel values
var (
	ErrBadRequest   = errors.New("malformed request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrInternal     = errors.New("internal server error")
	ErrValidation   = errors.New("validation failed")
)

// Unauthorized is the canonical 401 response error.
var Unauthorized = &ApiErr{StatusCode: http.StatusUnauthorized, err: ErrUnauthorized}

type ApiErr struct {
	StatusCode int
	err        error
	Details    string                  // Additional details about the error
	Field      string                  // Field that caused the error (single-field errors)
	Violations []models.FieldViolation // Field-level messages for validation errors
	Cause      error                   // The underlying cause of the error
}

func NewApiErr(statusCode int, message string) *ApiErr {
	return &ApiErr{
		StatusCode: statusCode,
		err:        errors.New(message),
	}
}

// implements error interface. this allows us to pass an instance of ApiErr as an argument of type `error`
func (e *ApiErr) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.err.Error(), e.Details)
	}
	return e.err.Error()
}

// GetFullError returns a recursive error message including all causes
func (e *ApiErr) GetFullError() string {
	msg := e.Error()
	if e.Cause != nil {
		if apiErr, ok := e.Cause.(*ApiErr); ok {
			msg = fmt.Sprintf("%s -> %s", msg, apiErr.GetFullError())
		} else {
			msg = fmt.Sprintf("%s -> %s", msg, e.Cause.Error())
		}
	}
	return msg
}

// this function allows us to do the following:
// err := &ApiErr{StatusCode: ..., err: someSentinelError}
// errors.Is(err, someSentinelError) ==> evaluates to true
func (e *ApiErr) Unwrap() error {
	return e.err
}

// Common error constructors with appropriate HTTP status codes
func NewNotFoundError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusNotFound, err: errors.New(message)}
}

func NewBadRequestError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusBadRequest, err: errors.New(message)}
}

func NewUnauthorizedError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusUnauthorized, err: errors.New(message)}
}

func NewInternalError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusInternalServerError, err: errors.New(message)}
}

// NewValidationError carries one message per failing entity field.
func NewValidationError(violations []models.FieldViolation) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrValidation,
		Violations: violations,
	}
}

// NewStatusError builds an ApiErr from a response status, wrapping the
// matching sentinel so errors.Is checks work on client-side errors.
func NewStatusError(statusCode int, message string) *ApiErr {
	switch statusCode {
	case http.StatusBadRequest:
		return &ApiErr{StatusCode: statusCode, err: ErrBadRequest, Details: message}
	case http.StatusUnauthorized:
		return &ApiErr{StatusCode: statusCode, err: ErrUnauthorized, Details: message}
	case http.StatusNotFound:
		return &ApiErr{StatusCode: statusCode, err: ErrNotFound, Details: message}
	default:
		return NewApiErr(statusCode, message)
	}
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
