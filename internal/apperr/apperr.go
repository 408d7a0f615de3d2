// Package apperr defines the error taxonomy shared by the service
// layer and the HTTP handlers. The evaluator and store wrap causes
// with these types; handlers map them to status codes.
package apperr

import "fmt"

// ValidationError means an input was malformed or missing before any
// verdict could be computed.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validationf builds a ValidationError.
func Validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError means a referenced asset, test or certificate does not
// exist (or is outside the caller's tenant and deliberately reported
// as missing).
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string { return e.Entity + " not found" }

// NotFound builds a NotFoundError for the named entity.
func NotFound(entity string) *NotFoundError { return &NotFoundError{Entity: entity} }

// ConflictError means a uniqueness guarantee was violated, e.g. a
// duplicate certificate number under concurrent generation.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

// Conflictf builds a ConflictError.
func Conflictf(format string, args ...any) *ConflictError {
	return &ConflictError{Msg: fmt.Sprintf(format, args...)}
}

// AuthorizationError means the caller attempted to act across the
// tenant boundary or without the required role.
type AuthorizationError struct {
	Msg string
}

func (e *AuthorizationError) Error() string { return e.Msg }

// Forbidden builds an AuthorizationError.
func Forbidden(msg string) *AuthorizationError { return &AuthorizationError{Msg: msg} }
