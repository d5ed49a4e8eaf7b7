package model

import (
	"errors"
	"time"
)

// User represents a login credential record. Public-facing identity lives in
// Profile; User carries only what authentication and authorization need.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"` // "-" hides from JSON output
	IsAdmin      bool      `db:"is_admin" json:"is_admin"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// RegisterRequest represents the data needed to register a new member.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the data needed to log in.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Password policy carried over from the registration form.
const MinPasswordLength = 6

var (
	// ErrUserNotFound is returned when a user cannot be found
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailExists is returned when attempting to register an email that is taken
	ErrEmailExists = errors.New("email already registered")

	// ErrInvalidCredentials is returned when login credentials are incorrect
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrPasswordTooShort is returned when the password fails the length policy
	ErrPasswordTooShort = errors.New("password too short")
)

// API error codes specific to registration.
const (
	CodeEmailTaken = "EMAIL_TAKEN"
)
