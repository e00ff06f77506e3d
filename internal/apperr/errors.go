// Package apperr defines the error vocabulary shared by the store, service and
// transport layers.
package apperr

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrAlreadyExists = errors.New("already exists")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrInvalidInput  = errors.New("invalid input")
)

// ValidationError reports per-field input problems. It matches ErrInvalidInput
// under errors.Is.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Validation converts an ozzo-validation result into a *ValidationError.
// Internal rule errors (validation.InternalError) and nil pass through untouched.
func Validation(err error) error {
	if err == nil {
		return nil
	}
	var ie validation.InternalError
	if errors.As(err, &ie) {
		return err
	}
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return &ValidationError{Fields: map[string]string{"_": err.Error()}}
	}
	fields := make(map[string]string, len(errs))
	for k, v := range errs {
		if v != nil {
			fields[k] = v.Error()
		}
	}
	return &ValidationError{Fields: fields}
}
