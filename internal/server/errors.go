// Package server provides the HTTP REST API for the grade calculator.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/jonathan/grade-calculator/internal/editor"
	"github.com/jonathan/grade-calculator/internal/subjects"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrUserNotFound indicates user was not found
type ErrUserNotFound struct {
	UserID uuid.UUID
}

func (e *ErrUserNotFound) Error() string {
	return fmt.Sprintf("user not found: %s", e.UserID)
}

// ErrPasswordMismatch indicates current password is incorrect
type ErrPasswordMismatch struct{}

func (e *ErrPasswordMismatch) Error() string {
	return "current password is incorrect"
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrNotFound indicates a missing resource inside an existing one,
// such as a category in an editor session.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrConflict indicates a request that is well formed but refused in the current state.
type ErrConflict struct {
	Message string
}

func (e *ErrConflict) Error() string {
	return e.Message
}

// ErrUnavailable indicates a feature whose backing store is not configured.
type ErrUnavailable struct {
	Feature string
}

func (e *ErrUnavailable) Error() string {
	return fmt.Sprintf("%s is not available: no database configured", e.Feature)
}

// HTTPStatus returns the appropriate HTTP status code for an error.
// Wrapped errors are matched by their innermost typed cause.
func HTTPStatus(err error) int {
	var (
		emailExists  *ErrEmailAlreadyExists
		invalidCreds *ErrInvalidCredentials
		mismatch     *ErrPasswordMismatch
		userNotFound *ErrUserNotFound
		validation   *ErrValidation
		notFound     *ErrNotFound
		conflict     *ErrConflict
		unavailable  *ErrUnavailable
		unknownSubj  *subjects.ErrUnknownSubject
		unknownItem  *subjects.ErrUnknownItem
		noSession    *editor.ErrSessionNotFound
	)

	switch {
	case errors.As(err, &emailExists), errors.As(err, &conflict):
		return http.StatusConflict
	case errors.As(err, &invalidCreds), errors.As(err, &mismatch):
		return http.StatusUnauthorized
	case errors.As(err, &userNotFound), errors.As(err, &notFound),
		errors.As(err, &unknownSubj), errors.As(err, &noSession):
		return http.StatusNotFound
	case errors.As(err, &validation), errors.As(err, &unknownItem):
		return http.StatusBadRequest
	case errors.As(err, &unavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
