// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"

	"inkwell/internal/models"
)

// categoryLister is the slice of store.CategoryStore the handler needs.
type categoryLister interface {
	List(ctx context.Context) ([]models.Category, error)
}

// Categories serves the public category listing.
type Categories struct {
	categories categoryLister
}

// NewCategories creates the category handler group.
func NewCategories(categories categoryLister) *Categories {
	return &Categories{categories: categories}
}

// GetAll handles GET /api/category/getAll. Public; includes post counts.
func (h *Categories) GetAll(w http.ResponseWriter, r *http.Request) {
	cats, err := h.categories.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	if cats == nil {
		cats = []models.Category{}
	}
	JSON(w, http.StatusOK, cats)
}
