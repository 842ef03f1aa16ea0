// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

// PostStore handles all post-related database operations.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

const postColumns = `id, title, slug, content_markdown, content_blocks, author_id,
	category_id, status, published_at, tags, view_count, like_count,
	created_at, updated_at`

// scanPost scans a plain post row (no joined columns).
func scanPost(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	var p models.Post
	var blocks []byte
	var tags []byte
	err := scanner.Scan(
		&p.ID, &p.Title, &p.Slug, &p.ContentMarkdown, &blocks, &p.AuthorID,
		&p.CategoryID, &p.Status, &p.PublishedAt, &tags, &p.ViewCount,
		&p.LikeCount, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.ContentBlocks = blocks
	if err := json.Unmarshal(tags, &p.Tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	return &p, nil
}

// Create inserts a new post and returns it with generated ID and timestamps.
// A slug collision surfaces as ErrDuplicate.
func (s *PostStore) Create(ctx context.Context, p *models.Post) (*models.Post, error) {
	tags, err := encodeTags(p.Tags)
	if err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO posts (title, slug, content_markdown, content_blocks,
		                   author_id, category_id, status, published_at, tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+postColumns,
		p.Title, p.Slug, p.ContentMarkdown, nullBytes(p.ContentBlocks),
		p.AuthorID, p.CategoryID, p.Status, p.PublishedAt, tags,
	)
	created, err := scanPost(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("create post %q: %w", p.Slug, ErrDuplicate)
		}
		return nil, fmt.Errorf("create post: %w", err)
	}
	return created, nil
}

// FindByID retrieves a post by its UUID. Returns nil if not found.
func (s *PostStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

// FindPublishedBySlug retrieves a published post by its slug, with author
// and category names populated. Used for public post rendering. Returns nil
// if not found or not published.
func (s *PostStore) FindPublishedBySlug(ctx context.Context, slug string) (*models.Post, error) {
	p := &models.Post{}
	var blocks, tags []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT p.id, p.title, p.slug, p.content_markdown, p.content_blocks,
		       p.author_id, p.category_id, p.status, p.published_at, p.tags,
		       p.view_count, p.like_count, p.created_at, p.updated_at,
		       u.display_name, c.name
		FROM posts p
		JOIN users u ON u.id = p.author_id
		JOIN categories c ON c.id = p.category_id
		WHERE p.slug = $1 AND p.status = 'published'
	`, slug).Scan(
		&p.ID, &p.Title, &p.Slug, &p.ContentMarkdown, &blocks,
		&p.AuthorID, &p.CategoryID, &p.Status, &p.PublishedAt, &tags,
		&p.ViewCount, &p.LikeCount, &p.CreatedAt, &p.UpdatedAt,
		&p.AuthorName, &p.CategoryName,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}
	p.ContentBlocks = blocks
	if err := json.Unmarshal(tags, &p.Tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	return p, nil
}

// SlugExists reports whether any post (in any status) holds the given slug.
func (s *PostStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM posts WHERE slug = $1)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("slug exists: %w", err)
	}
	return exists, nil
}

// ListAll returns every post ordered by creation date descending, with
// author and category names populated.
func (s *PostStore) ListAll(ctx context.Context) ([]models.Post, error) {
	return s.list(ctx, `
		SELECT p.id, p.title, p.slug, p.content_markdown, p.content_blocks,
		       p.author_id, p.category_id, p.status, p.published_at, p.tags,
		       p.view_count, p.like_count, p.created_at, p.updated_at,
		       u.display_name, c.name
		FROM posts p
		JOIN users u ON u.id = p.author_id
		JOIN categories c ON c.id = p.category_id
		ORDER BY p.created_at DESC
	`)
}

// ListByAuthor returns all posts by the given author, newest first.
func (s *PostStore) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]models.Post, error) {
	return s.list(ctx, `
		SELECT p.id, p.title, p.slug, p.content_markdown, p.content_blocks,
		       p.author_id, p.category_id, p.status, p.published_at, p.tags,
		       p.view_count, p.like_count, p.created_at, p.updated_at,
		       u.display_name, c.name
		FROM posts p
		JOIN users u ON u.id = p.author_id
		JOIN categories c ON c.id = p.category_id
		WHERE p.author_id = $1
		ORDER BY p.created_at DESC
	`, authorID)
}

// list runs a joined post query and scans the result set.
func (s *PostStore) list(ctx context.Context, query string, args ...any) ([]models.Post, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var items []models.Post
	for rows.Next() {
		var p models.Post
		var blocks, tags []byte
		if err := rows.Scan(
			&p.ID, &p.Title, &p.Slug, &p.ContentMarkdown, &blocks,
			&p.AuthorID, &p.CategoryID, &p.Status, &p.PublishedAt, &tags,
			&p.ViewCount, &p.LikeCount, &p.CreatedAt, &p.UpdatedAt,
			&p.AuthorName, &p.CategoryName,
		); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		p.ContentBlocks = blocks
		if err := json.Unmarshal(tags, &p.Tags); err != nil {
			return nil, fmt.Errorf("decode tags: %w", err)
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

// Update persists the mutable fields of an existing post. The author never
// changes; the slug only changes through the service's explicit regeneration
// path, which resolves uniqueness before calling here.
func (s *PostStore) Update(ctx context.Context, p *models.Post) (*models.Post, error) {
	tags, err := encodeTags(p.Tags)
	if err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		UPDATE posts SET
			title = $1, slug = $2, content_markdown = $3, content_blocks = $4,
			category_id = $5, status = $6, published_at = $7, tags = $8,
			updated_at = NOW()
		WHERE id = $9
		RETURNING `+postColumns,
		p.Title, p.Slug, p.ContentMarkdown, nullBytes(p.ContentBlocks),
		p.CategoryID, p.Status, p.PublishedAt, tags, p.ID,
	)
	updated, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("update post %q: %w", p.Slug, ErrDuplicate)
		}
		return nil, fmt.Errorf("update post: %w", err)
	}
	return updated, nil
}

// Delete removes a post by ID. Returns false when no row matched.
func (s *PostStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete post: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete post rows: %w", err)
	}
	return n > 0, nil
}

// IncrementViewCount atomically bumps a published post's view counter.
func (s *PostStore) IncrementViewCount(ctx context.Context, slug string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE posts SET view_count = view_count + 1 WHERE slug = $1 AND status = 'published'`, slug)
	if err != nil {
		return fmt.Errorf("increment view count: %w", err)
	}
	return nil
}

// IncrementLikeCount atomically bumps a published post's like counter.
func (s *PostStore) IncrementLikeCount(ctx context.Context, slug string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE posts SET like_count = like_count + 1 WHERE slug = $1 AND status = 'published'`, slug)
	if err != nil {
		return fmt.Errorf("increment like count: %w", err)
	}
	return nil
}

// encodeTags marshals the tag set for jsonb storage. A nil set stores as [].
func encodeTags(tags []string) ([]byte, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}
	return b, nil
}

// nullBytes maps an empty byte slice to NULL for jsonb columns.
func nullBytes(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}
