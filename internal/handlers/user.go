// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkwell/internal/auth"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
)

// profileStore is the slice of store.UserStore the user handlers need.
type profileStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, u *models.User) (*models.User, error)
}

// Users groups the user profile handlers.
type Users struct {
	users profileStore
}

// NewUsers creates the user handler group.
func NewUsers(users profileStore) *Users {
	return &Users{users: users}
}

type updateUserRequest struct {
	DisplayName *string      `json:"displayName"`
	Role        *models.Role `json:"role"`
}

// Update handles PUT /api/user/{userId}. Users may edit their own display
// name; role changes are admin only.
func (h *Users) Update(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromCtx(r.Context())

	userID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if !auth.Allowed(actor, auth.ActionUpdateUser, userID) {
		Error(w, http.StatusForbidden, "forbidden")
		return
	}

	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	user, err := h.users.FindByID(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	if user == nil {
		Error(w, http.StatusNotFound, "not found")
		return
	}

	if req.DisplayName != nil {
		name := strings.TrimSpace(*req.DisplayName)
		if msg := validateDisplayName(name); msg != "" {
			Error(w, http.StatusBadRequest, msg)
			return
		}
		user.DisplayName = name
	}

	if req.Role != nil && *req.Role != user.Role {
		if !actor.IsAdmin() {
			Error(w, http.StatusForbidden, "only admins may change roles")
			return
		}
		if !req.Role.Valid() {
			Error(w, http.StatusBadRequest, "unknown role")
			return
		}
		user.Role = *req.Role
	}

	updated, err := h.users.UpdateProfile(r.Context(), user)
	if err != nil {
		respondError(w, err)
		return
	}
	if updated == nil {
		Error(w, http.StatusNotFound, "not found")
		return
	}
	JSON(w, http.StatusOK, updated)
}

// Get handles GET /api/user/{userId}, self or admin.
func (h *Users) Get(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromCtx(r.Context())

	userID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if !auth.Allowed(actor, auth.ActionUpdateUser, userID) {
		Error(w, http.StatusForbidden, "forbidden")
		return
	}

	user, err := h.users.FindByID(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	if user == nil {
		Error(w, http.StatusNotFound, "not found")
		return
	}
	JSON(w, http.StatusOK, user)
}
