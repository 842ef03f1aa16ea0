// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package blog implements the post lifecycle: creation, partial editing,
// state transitions, slug assignment, and lazy category resolution.
package blog

import (
	"errors"
	"fmt"
)

// Sentinel errors for the operation outcomes the HTTP boundary maps to
// status codes. Storage failures pass through wrapped and unclassified.
var (
	// ErrForbidden means the actor is not allowed to perform the action.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound means the referenced post, category, or user is absent.
	ErrNotFound = errors.New("not found")

	// ErrConflict means a uniqueness race lost deterministically: slug
	// resolution exhausted its retry budget, or a category create collided
	// and the follow-up lookup still came back empty.
	ErrConflict = errors.New("conflict")
)

// ValidationError reports malformed or missing input. The message is safe to
// show to API clients.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// validationf builds a ValidationError from a format string.
func validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
