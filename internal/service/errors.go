// Package service holds the user and job application managers.
package service

import (
	"errors"
	"fmt"
)

// Service errors.
var (
	ErrNotAuthorized          = errors.New("not authorized")
	ErrEmailTaken             = errors.New("email already taken")
	ErrMissingData            = errors.New("missing data")
	ErrInvalidApplicationData = errors.New("invalid application data")
	ErrUserNotFound           = errors.New("user not found")
	ErrUserExists             = errors.New("user already exists")
	ErrJobNotFound            = errors.New("job not found")
)

// EmailTakenError reports the address that collided with an existing user.
type EmailTakenError struct {
	Email string
}

func (e *EmailTakenError) Error() string {
	return fmt.Sprintf("email %q already taken", e.Email)
}

// Is makes errors.Is(err, ErrEmailTaken) match.
func (e *EmailTakenError) Is(target error) bool {
	return target == ErrEmailTaken
}

// ValidationError describes a single rejected field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidApplicationData) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidApplicationData
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
