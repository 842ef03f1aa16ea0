// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// PostStatus represents the publishing state of a post.
type PostStatus string

const (
	PostStatusDraft         PostStatus = "draft"
	PostStatusPendingReview PostStatus = "pending_review"
	PostStatusPublished     PostStatus = "published"
	PostStatusArchived      PostStatus = "archived"
)

// Valid reports whether s is one of the known lifecycle states.
func (s PostStatus) Valid() bool {
	switch s {
	case PostStatusDraft, PostStatusPendingReview, PostStatusPublished, PostStatusArchived:
		return true
	}
	return false
}

// CanTransitionTo reports whether the lifecycle permits moving from s to next.
// Legal transitions: draft → pending_review → published → archived, the
// direct draft → published fast path, and any state → archived. Archived is
// terminal. Re-entering the current state is treated as a no-op by callers,
// not a transition.
func (s PostStatus) CanTransitionTo(next PostStatus) bool {
	if s == next {
		return false
	}
	switch s {
	case PostStatusDraft:
		return next == PostStatusPendingReview || next == PostStatusPublished || next == PostStatusArchived
	case PostStatusPendingReview:
		return next == PostStatusPublished || next == PostStatusArchived
	case PostStatusPublished:
		return next == PostStatusArchived
	case PostStatusArchived:
		return false
	}
	return false
}

// Post represents a blog post. Body content is carried as Markdown source,
// as structured editor blocks (raw JSON), or both; at least one must be
// present for a valid post.
type Post struct {
	ID              uuid.UUID  `json:"id"`
	Title           string     `json:"title"`
	Slug            string     `json:"slug"`
	ContentMarkdown string     `json:"contentMarkdown"`
	ContentBlocks   []byte     `json:"contentBlocks,omitempty"` // raw JSON from the block editor
	AuthorID        uuid.UUID  `json:"authorId"`
	CategoryID      uuid.UUID  `json:"categoryId"`
	Status          PostStatus `json:"status"`
	PublishedAt     *time.Time `json:"publishedAt,omitempty"`
	Tags            []string   `json:"tags"`
	ViewCount       int        `json:"viewCount"`
	LikeCount       int        `json:"likeCount"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`

	// Virtual fields populated by store methods for list/detail responses.
	AuthorName   string `json:"authorName,omitempty"`
	CategoryName string `json:"categoryName,omitempty"`
}

// IsPublished returns true if the post is in published status.
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}

// HasContent reports whether the post carries at least one body
// representation.
func (p *Post) HasContent() bool {
	return p.ContentMarkdown != "" || len(p.ContentBlocks) > 0
}
