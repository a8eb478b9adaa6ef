package core

import "github.com/pkg/errors"

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// NotFoundError indicates that a referenced entity does not exist.
type NotFoundError struct {
	message string
}

func NewNotFoundError(msg string) error {
	return &NotFoundError{message: msg}
}

func (err NotFoundError) Error() string {
	return err.message
}

// OwnershipError indicates that the acting user is not the entity's owner.
type OwnershipError struct {
	message string
}

func NewOwnershipError(msg string) error {
	return &OwnershipError{message: msg}
}

func (err OwnershipError) Error() string {
	return err.message
}

// ServiceError indicates a business-rule violation: an expired deadline,
// a duplicate membership, an FK violation surfaced from persistence.
type ServiceError struct {
	message string
	cause   error
}

func NewServiceError(msg string, cause ...error) error {
	err := &ServiceError{message: msg}
	if len(cause) > 0 {
		err.cause = cause[0]
	}
	return err
}

func (err ServiceError) Error() string {
	return err.message
}

func (err ServiceError) Unwrap() error {
	return err.cause
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
