package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates that the user is not allowed to act on the tenant's data.
var ErrForbidden = errors.New("forbidden")

// ErrJobLocked indicates that a job already has a confirmed closing.
var ErrJobLocked = errors.New("job is locked by an existing closing")

// ErrJobNotLocked indicates that a job has no confirmed closing to reopen.
var ErrJobNotLocked = errors.New("job is not closed")

// ErrReconciliation indicates that a computed split does not conserve money.
// It is a defect in the split math, never a data problem.
var ErrReconciliation = errors.New("closing split does not reconcile")

// AppError carries an HTTP-ish status code together with the underlying cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError wraps err with a status code and message.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}
