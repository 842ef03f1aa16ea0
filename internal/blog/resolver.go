// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package blog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/slug"
	"inkwell/internal/store"
)

// CategoryStore is the persistence surface the resolver needs. Implemented
// by store.CategoryStore.
type CategoryStore interface {
	FindByName(ctx context.Context, name string) (*models.Category, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, c *models.Category) (*models.Category, error)
}

// CategoryResolver maps free-text category names to persisted categories,
// creating them lazily on first use.
type CategoryResolver struct {
	categories CategoryStore
}

// NewCategoryResolver returns a resolver backed by the given store.
func NewCategoryResolver(categories CategoryStore) *CategoryResolver {
	return &CategoryResolver{categories: categories}
}

// Resolve finds or creates the category for the given free-text name.
// The name is trimmed and lowercased before lookup, so names differing only
// by case or surrounding whitespace resolve to the same category.
//
// Two concurrent first-uses of a new name can both miss the lookup; the
// unique index on the name rejects the second create, and the loser re-reads
// the winner's row. A re-read that still misses surfaces as ErrConflict.
func (r *CategoryResolver) Resolve(ctx context.Context, name string) (*models.Category, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "" {
		return nil, validationf("category name is required")
	}

	existing, err := r.categories.FindByName(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	categorySlug, err := slug.ResolveUnique(ctx, slug.Generate(normalized), r.categories.SlugExists)
	if err != nil {
		if errors.Is(err, slug.ErrExhausted) {
			return nil, fmt.Errorf("category slug for %q: %w", normalized, ErrConflict)
		}
		return nil, err
	}

	created, err := r.categories.Create(ctx, &models.Category{
		Name: normalized,
		Slug: categorySlug,
	})
	if err == nil {
		return created, nil
	}
	if !errors.Is(err, store.ErrDuplicate) {
		return nil, err
	}

	// Lost the creation race; the winner's row must be there now.
	winner, err := r.categories.FindByName(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if winner == nil {
		return nil, fmt.Errorf("category %q: %w", normalized, ErrConflict)
	}
	return winner, nil
}
