// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

// ApplicationStore manages blogger applications in the database.
type ApplicationStore struct {
	db *sql.DB
}

// NewApplicationStore returns a new ApplicationStore.
func NewApplicationStore(db *sql.DB) *ApplicationStore {
	return &ApplicationStore{db: db}
}

const applicationColumns = `id, user_id, motivation, portfolio_url, status, created_at, updated_at`

// scanApplication scans a row into a BloggerApplication struct.
func scanApplication(scanner interface{ Scan(...any) error }) (*models.BloggerApplication, error) {
	var a models.BloggerApplication
	err := scanner.Scan(
		&a.ID, &a.UserID, &a.Motivation, &a.PortfolioURL, &a.Status,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts a new application. The unique index on user_id makes a
// second application by the same user surface as ErrDuplicate.
func (s *ApplicationStore) Create(ctx context.Context, a *models.BloggerApplication) (*models.BloggerApplication, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO blogger_applications (user_id, motivation, portfolio_url, status)
		VALUES ($1, $2, $3, $4)
		RETURNING `+applicationColumns,
		a.UserID, a.Motivation, a.PortfolioURL, models.ApplicationStatusPending,
	)
	created, err := scanApplication(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("create application for %s: %w", a.UserID, ErrDuplicate)
		}
		return nil, fmt.Errorf("create application: %w", err)
	}
	return created, nil
}

// FindByUser retrieves a user's application. Returns nil if not found.
func (s *ApplicationStore) FindByUser(ctx context.Context, userID uuid.UUID) (*models.BloggerApplication, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+applicationColumns+` FROM blogger_applications WHERE user_id = $1`, userID)
	a, err := scanApplication(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find application by user: %w", err)
	}
	return a, nil
}

// ListPending returns all applications awaiting review, oldest first.
func (s *ApplicationStore) ListPending(ctx context.Context) ([]models.BloggerApplication, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+applicationColumns+`
		FROM blogger_applications
		WHERE status = 'pending'
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list pending applications: %w", err)
	}
	defer rows.Close()

	var items []models.BloggerApplication
	for rows.Next() {
		var a models.BloggerApplication
		if err := rows.Scan(
			&a.ID, &a.UserID, &a.Motivation, &a.PortfolioURL, &a.Status,
			&a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

// SetStatus updates an application's review status. Returns the updated
// application, or nil if the application does not exist.
func (s *ApplicationStore) SetStatus(ctx context.Context, id uuid.UUID, status models.ApplicationStatus) (*models.BloggerApplication, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE blogger_applications SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+applicationColumns,
		status, id,
	)
	updated, err := scanApplication(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("set application status: %w", err)
	}
	return updated, nil
}
