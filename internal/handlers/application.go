// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/store"
)

// applicationStore is the slice of store.ApplicationStore the handlers need.
type applicationStore interface {
	Create(ctx context.Context, a *models.BloggerApplication) (*models.BloggerApplication, error)
	FindByUser(ctx context.Context, userID uuid.UUID) (*models.BloggerApplication, error)
	ListPending(ctx context.Context) ([]models.BloggerApplication, error)
	SetStatus(ctx context.Context, id uuid.UUID, status models.ApplicationStatus) (*models.BloggerApplication, error)
}

// Applications groups the blogger application handlers.
type Applications struct {
	apps  applicationStore
	users profileStore
}

// NewApplications creates the application handler group. users is needed to
// promote an applicant when a review approves them.
func NewApplications(apps applicationStore, users profileStore) *Applications {
	return &Applications{apps: apps, users: users}
}

type applyRequest struct {
	Motivation   string `json:"motivation"`
	PortfolioURL string `json:"portfolioUrl"`
}

// Apply handles POST /api/requestblogger/apply. One application per user;
// a repeat submission is a 409 whatever state the first one is in.
func (h *Applications) Apply(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromCtx(r.Context())
	if !ok {
		Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req applyRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if msg := validateApplication(req.Motivation, req.PortfolioURL); msg != "" {
		Error(w, http.StatusBadRequest, msg)
		return
	}

	app, err := h.apps.Create(r.Context(), &models.BloggerApplication{
		UserID:       actor.ID,
		Motivation:   strings.TrimSpace(req.Motivation),
		PortfolioURL: strings.TrimSpace(req.PortfolioURL),
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			Error(w, http.StatusConflict, "you have already applied")
			return
		}
		respondError(w, err)
		return
	}

	JSON(w, http.StatusCreated, app)
}

// Mine handles GET /api/requestblogger/mine, returning the caller's own
// application so they can see its status.
func (h *Applications) Mine(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromCtx(r.Context())
	if !ok {
		Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	app, err := h.apps.FindByUser(r.Context(), actor.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	if app == nil {
		Error(w, http.StatusNotFound, "not found")
		return
	}
	JSON(w, http.StatusOK, app)
}

// ListPending handles GET /api/requestblogger/pending, admin only.
func (h *Applications) ListPending(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromCtx(r.Context())
	if !actor.IsAdmin() {
		Error(w, http.StatusForbidden, "forbidden")
		return
	}

	apps, err := h.apps.ListPending(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	if apps == nil {
		apps = []models.BloggerApplication{}
	}
	JSON(w, http.StatusOK, apps)
}

type reviewRequest struct {
	Approve bool `json:"approve"`
}

// Review handles POST /api/requestblogger/{applicationId}/review, admin
// only. Approval promotes the applicant to the author role.
func (h *Applications) Review(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromCtx(r.Context())
	if !actor.IsAdmin() {
		Error(w, http.StatusForbidden, "forbidden")
		return
	}

	appID, err := uuid.Parse(chi.URLParam(r, "applicationId"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid application id")
		return
	}

	var req reviewRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	status := models.ApplicationStatusRejected
	if req.Approve {
		status = models.ApplicationStatusApproved
	}

	app, err := h.apps.SetStatus(r.Context(), appID, status)
	if err != nil {
		respondError(w, err)
		return
	}
	if app == nil {
		Error(w, http.StatusNotFound, "not found")
		return
	}

	if req.Approve {
		user, err := h.users.FindByID(r.Context(), app.UserID)
		if err != nil {
			respondError(w, err)
			return
		}
		// Promotion never demotes: an applicant who became admin in the
		// meantime keeps that role.
		if user != nil && user.Role == models.RoleReader {
			user.Role = models.RoleAuthor
			if _, err := h.users.UpdateProfile(r.Context(), user); err != nil {
				respondError(w, err)
				return
			}
		}
	}

	JSON(w, http.StatusOK, app)
}
