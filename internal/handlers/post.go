// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkwell/internal/auth"
	"inkwell/internal/blog"
	"inkwell/internal/cache"
	"inkwell/internal/markdown"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
)

// Posts groups the post lifecycle HTTP handlers.
type Posts struct {
	svc       *blog.Service
	postCache *cache.PostCache
}

// NewPosts creates the post handler group. postCache may be nil when Valkey
// is not configured.
func NewPosts(svc *blog.Service, postCache *cache.PostCache) *Posts {
	return &Posts{svc: svc, postCache: postCache}
}

// createPostRequest is the body for POST /api/post/create.
type createPostRequest struct {
	Title           string          `json:"title"`
	ContentMarkdown string          `json:"contentMarkdown"`
	ContentBlocks   json.RawMessage `json:"contentBlocks"`
	Category        string          `json:"category"`
	Tags            []string        `json:"tags"`
}

// updatePostRequest is the body for PUT /api/post/author/{postId}.
// Pointer fields distinguish "absent" from "set to zero".
type updatePostRequest struct {
	Title           *string         `json:"title"`
	ContentMarkdown *string         `json:"contentMarkdown"`
	ContentBlocks   json.RawMessage `json:"contentBlocks"`
	Category        *string         `json:"category"`
	Tags            []string        `json:"tags"`
	RegenerateSlug  bool            `json:"regenerateSlug"`
}

// publicPostResponse wraps a published post with rendered HTML and reading
// metadata for the public site.
type publicPostResponse struct {
	models.Post
	ContentHTML        string `json:"contentHtml,omitempty"`
	ReadingTimeMinutes int    `json:"readingTimeMinutes"`
}

// Create handles POST /api/post/create.
func (h *Posts) Create(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromCtx(r.Context())

	var req createPostRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if msg := validatePostInput(req.Title, req.ContentMarkdown, req.Tags); msg != "" {
		Error(w, http.StatusBadRequest, msg)
		return
	}

	post, err := h.svc.CreatePost(r.Context(), actor, blog.CreatePostInput{
		Title:           req.Title,
		ContentMarkdown: req.ContentMarkdown,
		ContentBlocks:   req.ContentBlocks,
		CategoryName:    req.Category,
		Tags:            req.Tags,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	JSON(w, http.StatusCreated, post)
}

// GetAll handles GET /api/post/getAll.
func (h *Posts) GetAll(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromCtx(r.Context())

	posts, err := h.svc.ListAll(r.Context(), actor)
	if err != nil {
		respondError(w, err)
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}
	JSON(w, http.StatusOK, posts)
}

// ListByAuthor handles GET /api/post/{authorId}.
func (h *Posts) ListByAuthor(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromCtx(r.Context())

	authorID, err := uuid.Parse(chi.URLParam(r, "authorId"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid author id")
		return
	}

	posts, err := h.svc.ListByAuthor(r.Context(), actor, authorID)
	if err != nil {
		respondError(w, err)
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}
	JSON(w, http.StatusOK, posts)
}

// Get handles GET /api/post/id/{postId} for the authoring API.
func (h *Posts) Get(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromCtx(r.Context())

	postID, err := uuid.Parse(chi.URLParam(r, "postId"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid post id")
		return
	}

	post, err := h.svc.GetPost(r.Context(), actor, postID)
	if err != nil {
		respondError(w, err)
		return
	}
	JSON(w, http.StatusOK, post)
}

// Update handles PUT /api/post/author/{postId}.
func (h *Posts) Update(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromCtx(r.Context())

	postID, err := uuid.Parse(chi.URLParam(r, "postId"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid post id")
		return
	}

	var req updatePostRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	title, md := "", ""
	if req.Title != nil {
		title = *req.Title
	}
	if req.ContentMarkdown != nil {
		md = *req.ContentMarkdown
	}
	if msg := validatePostInput(title, md, req.Tags); msg != "" {
		Error(w, http.StatusBadRequest, msg)
		return
	}

	patch := blog.PostPatch{
		Title:           req.Title,
		ContentMarkdown: req.ContentMarkdown,
		CategoryName:    req.Category,
		Tags:            req.Tags,
		RegenerateSlug:  req.RegenerateSlug,
	}
	if req.ContentBlocks != nil {
		patch.ContentBlocks = req.ContentBlocks
	}

	before, err := h.svc.GetPost(r.Context(), actor, postID)
	if err != nil {
		respondError(w, err)
		return
	}

	post, err := h.svc.EditPost(r.Context(), actor, postID, patch)
	if err != nil {
		respondError(w, err)
		return
	}

	h.postCache.Invalidate(r.Context(), before.Slug)
	if post.Slug != before.Slug {
		h.postCache.Invalidate(r.Context(), post.Slug)
	}
	JSON(w, http.StatusOK, post)
}

// Delete handles DELETE /api/post/{postId}.
func (h *Posts) Delete(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromCtx(r.Context())

	postID, err := uuid.Parse(chi.URLParam(r, "postId"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid post id")
		return
	}

	post, err := h.svc.GetPost(r.Context(), actor, postID)
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.svc.DeletePost(r.Context(), actor, postID); err != nil {
		respondError(w, err)
		return
	}

	h.postCache.Invalidate(r.Context(), post.Slug)
	JSON(w, http.StatusOK, map[string]string{"message": "post deleted"})
}

// Publish handles POST /api/post/{postId}/publish.
func (h *Posts) Publish(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.PublishPost)
}

// Submit handles POST /api/post/{postId}/submit.
func (h *Posts) Submit(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.SubmitForReview)
}

// Archive handles POST /api/post/{postId}/archive.
func (h *Posts) Archive(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.ArchivePost)
}

// transition runs a lifecycle state change and invalidates the public
// cache, since visibility may have changed either way.
func (h *Posts) transition(w http.ResponseWriter, r *http.Request, op func(context.Context, auth.Actor, uuid.UUID) (*models.Post, error)) {
	actor, _ := middleware.ActorFromCtx(r.Context())

	postID, err := uuid.Parse(chi.URLParam(r, "postId"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid post id")
		return
	}

	post, err := op(r.Context(), actor, postID)
	if err != nil {
		respondError(w, err)
		return
	}

	h.postCache.Invalidate(r.Context(), post.Slug)
	JSON(w, http.StatusOK, post)
}

// GetBySlug handles GET /api/post/slug/{slug}, the public read path. The
// rendered response is cached in Valkey; view counts are recorded on every
// hit either way.
func (h *Posts) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	ctx := r.Context()

	if cached, ok := h.postCache.Get(ctx, slug); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Cache", "HIT")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(cached); err != nil {
			slog.Error("write cached post", "slug", slug, "error", err)
		}
		h.recordView(slug)
		return
	}

	post, err := h.svc.GetPublishedBySlug(ctx, slug)
	if err != nil {
		respondError(w, err)
		return
	}

	html, err := markdown.ToHTML(post.ContentMarkdown)
	if err != nil {
		slog.Error("render markdown", "slug", slug, "error", err)
		Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := publicPostResponse{
		Post:               *post,
		ContentHTML:        html,
		ReadingTimeMinutes: markdown.ReadingTime(post.ContentMarkdown),
	}

	body, err := json.Marshal(resp)
	if err != nil {
		slog.Error("encode post", "slug", slug, "error", err)
		Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.postCache.Set(ctx, slug, body)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		slog.Error("write post", "slug", slug, "error", err)
	}
	h.recordView(slug)
}

// Like handles POST /api/post/slug/{slug}/like.
func (h *Posts) Like(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	if err := h.svc.RecordLike(r.Context(), slug); err != nil {
		respondError(w, err)
		return
	}
	JSON(w, http.StatusOK, map[string]string{"message": "liked"})
}

// recordView bumps the view counter outside the request's lifetime so a
// canceled client does not lose the count.
func (h *Posts) recordView(slug string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	go func() {
		defer cancel()
		if err := h.svc.RecordView(ctx, slug); err != nil {
			slog.Warn("record view", "slug", slug, "error", err)
		}
	}()
}
