package db

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered user
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-" db:"password_hash"` // Never serialize to JSON
	PasswordSet  bool      `json:"password_set" db:"password_set"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FinalGrade is a user's saved final percentage for one subject in one semester
type FinalGrade struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	Subject    string    `json:"subject"`
	Semester   string    `json:"semester"`
	FinalGrade float64   `json:"final_grade"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// SemesterGrade is a saved grade joined with its owner's display name
type SemesterGrade struct {
	UserID     uuid.UUID `json:"user_id"`
	UserName   string    `json:"user_name"`
	Subject    string    `json:"subject"`
	FinalGrade float64   `json:"final_grade"`
}
