package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/grade-calculator/internal/editor"
	"github.com/jonathan/grade-calculator/internal/subjects"
	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	userID := uuid.New()
	assert.Equal(t, "email already registered: a@b.co", (&ErrEmailAlreadyExists{Email: "a@b.co"}).Error())
	assert.Equal(t, "invalid email or password", (&ErrInvalidCredentials{}).Error())
	assert.Equal(t, "user not found: "+userID.String(), (&ErrUserNotFound{UserID: userID}).Error())
	assert.Equal(t, "current password is incorrect", (&ErrPasswordMismatch{}).Error())
	assert.Equal(t, "validation error: final_grade - must be between 0 and 100",
		(&ErrValidation{Field: "final_grade", Message: "must be between 0 and 100"}).Error())
	assert.Equal(t, "category not found: c1", (&ErrNotFound{Resource: "category", ID: "c1"}).Error())
	assert.Contains(t, (&ErrUnavailable{Feature: "saved grades"}).Error(), "no database configured")
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "email exists", err: &ErrEmailAlreadyExists{Email: "a@b.co"}, expected: http.StatusConflict},
		{name: "conflict", err: &ErrConflict{Message: "last category"}, expected: http.StatusConflict},
		{name: "invalid credentials", err: &ErrInvalidCredentials{}, expected: http.StatusUnauthorized},
		{name: "password mismatch", err: &ErrPasswordMismatch{}, expected: http.StatusUnauthorized},
		{name: "user not found", err: &ErrUserNotFound{UserID: uuid.New()}, expected: http.StatusNotFound},
		{name: "resource not found", err: &ErrNotFound{Resource: "item", ID: "x"}, expected: http.StatusNotFound},
		{name: "unknown subject", err: &subjects.ErrUnknownSubject{Slug: "alchemy"}, expected: http.StatusNotFound},
		{name: "session not found", err: &editor.ErrSessionNotFound{ID: uuid.New()}, expected: http.StatusNotFound},
		{name: "validation", err: &ErrValidation{Field: "rows", Message: "too many"}, expected: http.StatusBadRequest},
		{name: "unknown item", err: &subjects.ErrUnknownItem{Subject: "english", ItemID: "x"}, expected: http.StatusBadRequest},
		{name: "unavailable", err: &ErrUnavailable{Feature: "accounts"}, expected: http.StatusServiceUnavailable},
		{name: "wrapped", err: fmt.Errorf("save: %w", &ErrValidation{Field: "f", Message: "m"}), expected: http.StatusBadRequest},
		{name: "plain", err: errors.New("boom"), expected: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}
