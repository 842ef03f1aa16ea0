// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package auth provides the authenticated actor model, the authorization
// policy, and JWT token issuing/verification.
package auth

import (
	"github.com/google/uuid"

	"inkwell/internal/models"
)

// Actor is the immutable identity performing an operation. It is decoded
// from the request token once and passed explicitly into every operation;
// nothing downstream mutates it.
type Actor struct {
	ID   uuid.UUID
	Role models.Role
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// IsAuthor reports whether the actor holds the author role.
func (a Actor) IsAuthor() bool {
	return a.Role == models.RoleAuthor
}
