// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package blog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"inkwell/internal/auth"
	"inkwell/internal/models"
	"inkwell/internal/slug"
	"inkwell/internal/store"
)

// PostStore is the persistence surface the service needs. Implemented by
// store.PostStore.
type PostStore interface {
	Create(ctx context.Context, p *models.Post) (*models.Post, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	FindPublishedBySlug(ctx context.Context, slug string) (*models.Post, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	ListAll(ctx context.Context) ([]models.Post, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]models.Post, error)
	Update(ctx context.Context, p *models.Post) (*models.Post, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	IncrementViewCount(ctx context.Context, slug string) error
	IncrementLikeCount(ctx context.Context, slug string) error
}

// Service orchestrates post lifecycle operations: authorization, validation,
// slug assignment, category resolution, and state transitions. All
// operations are synchronous and atomic at single-post granularity.
type Service struct {
	posts      PostStore
	categories *CategoryResolver

	// now is injectable for deterministic publish timestamps in tests.
	now func() time.Time
}

// NewService creates a post lifecycle service.
func NewService(posts PostStore, categories *CategoryResolver) *Service {
	return &Service{
		posts:      posts,
		categories: categories,
		now:        time.Now,
	}
}

// CreatePostInput carries the fields for a new post.
type CreatePostInput struct {
	Title           string
	ContentMarkdown string
	ContentBlocks   []byte
	CategoryName    string
	Tags            []string
}

// PostPatch carries a partial update. Nil fields are left untouched.
type PostPatch struct {
	Title           *string
	ContentMarkdown *string
	ContentBlocks   []byte
	CategoryName    *string
	Tags            []string

	// RegenerateSlug re-derives the slug from the (possibly patched) title.
	// The slug is otherwise immutable once assigned.
	RegenerateSlug bool
}

// IsZero reports whether the patch changes nothing.
func (p *PostPatch) IsZero() bool {
	return p.Title == nil && p.ContentMarkdown == nil && p.ContentBlocks == nil &&
		p.CategoryName == nil && p.Tags == nil && !p.RegenerateSlug
}

// CreatePost validates input, assigns a unique slug, resolves the category,
// and persists a new draft owned by the actor. Validation runs before any
// slug or category work so that a rejected request persists nothing.
func (s *Service) CreatePost(ctx context.Context, actor auth.Actor, in CreatePostInput) (*models.Post, error) {
	if !auth.Allowed(actor, auth.ActionCreatePost, uuid.Nil) {
		return nil, ErrForbidden
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, validationf("title is required")
	}
	if in.ContentMarkdown == "" && len(in.ContentBlocks) == 0 {
		return nil, validationf("post content is required")
	}

	postSlug, err := slug.ResolveUnique(ctx, slug.Generate(title), s.posts.SlugExists)
	if err != nil {
		if errors.Is(err, slug.ErrExhausted) {
			return nil, fmt.Errorf("post slug for %q: %w", title, ErrConflict)
		}
		return nil, err
	}

	category, err := s.categories.Resolve(ctx, in.CategoryName)
	if err != nil {
		return nil, err
	}

	created, err := s.posts.Create(ctx, &models.Post{
		Title:           title,
		Slug:            postSlug,
		ContentMarkdown: in.ContentMarkdown,
		ContentBlocks:   in.ContentBlocks,
		AuthorID:        actor.ID,
		CategoryID:      category.ID,
		Status:          models.PostStatusDraft,
		Tags:            normalizeTags(in.Tags),
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			// Slug taken between resolution and insert.
			return nil, fmt.Errorf("post slug %q: %w", postSlug, ErrConflict)
		}
		return nil, err
	}
	return created, nil
}

// EditPost applies a partial update to an existing post. Absent patch fields
// are left untouched, never nulled. An empty patch returns the post
// unchanged without touching storage.
func (s *Service) EditPost(ctx context.Context, actor auth.Actor, postID uuid.UUID, patch PostPatch) (*models.Post, error) {
	post, err := s.load(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !auth.Allowed(actor, auth.ActionEditPost, post.AuthorID) {
		return nil, ErrForbidden
	}
	if patch.IsZero() {
		return post, nil
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, validationf("title is required")
		}
		post.Title = title
	}
	if patch.ContentMarkdown != nil {
		post.ContentMarkdown = *patch.ContentMarkdown
	}
	if patch.ContentBlocks != nil {
		post.ContentBlocks = patch.ContentBlocks
	}
	if !post.HasContent() {
		return nil, validationf("post content is required")
	}
	if patch.Tags != nil {
		post.Tags = normalizeTags(patch.Tags)
	}
	if patch.CategoryName != nil {
		category, err := s.categories.Resolve(ctx, *patch.CategoryName)
		if err != nil {
			return nil, err
		}
		post.CategoryID = category.ID
	}
	if patch.RegenerateSlug {
		newSlug, err := slug.ResolveUnique(ctx, slug.Generate(post.Title), func(ctx context.Context, candidate string) (bool, error) {
			if candidate == post.Slug {
				// Keeping the current slug is not a collision.
				return false, nil
			}
			return s.posts.SlugExists(ctx, candidate)
		})
		if err != nil {
			if errors.Is(err, slug.ErrExhausted) {
				return nil, fmt.Errorf("post slug for %q: %w", post.Title, ErrConflict)
			}
			return nil, err
		}
		post.Slug = newSlug
	}

	updated, err := s.posts.Update(ctx, post)
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, fmt.Errorf("post slug %q: %w", post.Slug, ErrConflict)
		}
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	return updated, nil
}

// DeletePost removes a post after the actor passes the delete policy.
func (s *Service) DeletePost(ctx context.Context, actor auth.Actor, postID uuid.UUID) error {
	post, err := s.load(ctx, postID)
	if err != nil {
		return err
	}
	if !auth.Allowed(actor, auth.ActionDeletePost, post.AuthorID) {
		return ErrForbidden
	}

	deleted, err := s.posts.Delete(ctx, postID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// PublishPost moves a post into the published state and stamps publishedAt.
// Publishing an already-published post is a no-op that returns the post
// unchanged, keeping the original timestamp.
func (s *Service) PublishPost(ctx context.Context, actor auth.Actor, postID uuid.UUID) (*models.Post, error) {
	return s.transition(ctx, actor, postID, models.PostStatusPublished, auth.ActionPublishPost)
}

// SubmitForReview moves a draft into pending_review. Any actor who can edit
// may submit.
func (s *Service) SubmitForReview(ctx context.Context, actor auth.Actor, postID uuid.UUID) (*models.Post, error) {
	return s.transition(ctx, actor, postID, models.PostStatusPendingReview, auth.ActionEditPost)
}

// ArchivePost moves a post into the terminal archived state from any state.
func (s *Service) ArchivePost(ctx context.Context, actor auth.Actor, postID uuid.UUID) (*models.Post, error) {
	return s.transition(ctx, actor, postID, models.PostStatusArchived, auth.ActionEditPost)
}

// transition loads, authorizes, and applies a lifecycle state change.
// Re-entering the current state is an idempotent no-op.
func (s *Service) transition(ctx context.Context, actor auth.Actor, postID uuid.UUID, target models.PostStatus, action auth.Action) (*models.Post, error) {
	post, err := s.load(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !auth.Allowed(actor, action, post.AuthorID) {
		return nil, ErrForbidden
	}
	if post.Status == target {
		return post, nil
	}
	if !post.Status.CanTransitionTo(target) {
		return nil, validationf("cannot move post from %s to %s", post.Status, target)
	}

	post.Status = target
	if target == models.PostStatusPublished {
		now := s.now()
		post.PublishedAt = &now
	}

	updated, err := s.posts.Update(ctx, post)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	return updated, nil
}

// GetPost returns a single post for the authoring API.
func (s *Service) GetPost(ctx context.Context, actor auth.Actor, postID uuid.UUID) (*models.Post, error) {
	post, err := s.load(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !auth.Allowed(actor, auth.ActionViewPost, post.AuthorID) {
		return nil, ErrForbidden
	}
	return post, nil
}

// ListAll returns every post for admins and authors.
func (s *Service) ListAll(ctx context.Context, actor auth.Actor) ([]models.Post, error) {
	if !auth.Allowed(actor, auth.ActionListAllPosts, uuid.Nil) {
		return nil, ErrForbidden
	}
	return s.posts.ListAll(ctx)
}

// ListByAuthor returns an author's posts for the author themselves or an
// admin.
func (s *Service) ListByAuthor(ctx context.Context, actor auth.Actor, authorID uuid.UUID) ([]models.Post, error) {
	if !auth.Allowed(actor, auth.ActionListAuthorPosts, authorID) {
		return nil, ErrForbidden
	}
	return s.posts.ListByAuthor(ctx, authorID)
}

// GetPublishedBySlug returns a published post for the public site.
func (s *Service) GetPublishedBySlug(ctx context.Context, slug string) (*models.Post, error) {
	post, err := s.posts.FindPublishedBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}
	return post, nil
}

// RecordView bumps a published post's view counter. Best-effort; failures
// are the caller's to log, not to surface.
func (s *Service) RecordView(ctx context.Context, slug string) error {
	return s.posts.IncrementViewCount(ctx, slug)
}

// RecordLike bumps a published post's like counter.
func (s *Service) RecordLike(ctx context.Context, slug string) error {
	return s.posts.IncrementLikeCount(ctx, slug)
}

// load fetches a post, mapping absence to ErrNotFound.
func (s *Service) load(ctx context.Context, postID uuid.UUID) (*models.Post, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}
	return post, nil
}

// normalizeTags lowercases, trims, and dedupes a tag list, preserving the
// first-seen order.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
