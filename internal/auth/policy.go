// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package auth

import "github.com/google/uuid"

// Action identifies an operation subject to authorization.
type Action string

const (
	ActionCreatePost      Action = "post:create"
	ActionListAllPosts    Action = "post:list_all"
	ActionListAuthorPosts Action = "post:list_author"
	ActionViewPost        Action = "post:view"
	ActionEditPost        Action = "post:edit"
	ActionDeletePost      Action = "post:delete"
	ActionPublishPost     Action = "post:publish"
	ActionUpdateUser      Action = "user:update"
)

// Allowed is the authorization decision function. owner is the identity the
// action targets: the author being listed for ActionListAuthorPosts, the
// user being updated for ActionUpdateUser, and ignored otherwise.
//
// Edit, delete, and publish deliberately do not check post ownership: any
// author may modify any post. This matches the platform's historical policy.
// TODO: revisit whether edit/delete should require actor.ID == post.AuthorID.
func Allowed(actor Actor, action Action, owner uuid.UUID) bool {
	switch action {
	case ActionCreatePost:
		return actor.IsAuthor()
	case ActionListAllPosts, ActionViewPost, ActionEditPost, ActionDeletePost, ActionPublishPost:
		return actor.IsAdmin() || actor.IsAuthor()
	case ActionListAuthorPosts, ActionUpdateUser:
		return actor.IsAdmin() || (owner != uuid.Nil && actor.ID == owner)
	}
	return false
}
