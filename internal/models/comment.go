package models

import (
	"time"
)

type Comment struct {
	ID     string `json:"id"`
	TownID string `json:"townID"`

	// RootPostID is the post at the root of this comment's thread, fixed
	// at creation.
	RootPostID string `json:"rootPostID"`

	// ParentCommentID is empty for a top-level comment (its parent is the
	// post itself), otherwise the id of the parent comment.
	ParentCommentID string `json:"parentCommentID"`

	OwnerID string `json:"ownerID"`
	Content string `json:"commentContent"`

	// IsDeleted marks a tombstoned comment. The record stays in place so
	// replies keep their position in the thread.
	IsDeleted bool `json:"isDeleted"`

	// CommentIDs holds the ids of direct replies, in creation order.
	CommentIDs []string `json:"comments"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CommentTree is the materialized recursive view of a comment and its
// replies. Built on demand for reads, never persisted.
type CommentTree struct {
	ID              string         `json:"id"`
	RootPostID      string         `json:"rootPostID"`
	ParentCommentID string         `json:"parentCommentID"`
	OwnerID         string         `json:"ownerID"`
	Content         string         `json:"commentContent"`
	IsDeleted       bool           `json:"isDeleted"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
	Comments        []*CommentTree `json:"comments"`
}

// TreeFromComment copies the scalar fields; children are attached by the
// tree builder.
func TreeFromComment(c Comment) *CommentTree {
	return &CommentTree{
		ID:              c.ID,
		RootPostID:      c.RootPostID,
		ParentCommentID: c.ParentCommentID,
		OwnerID:         c.OwnerID,
		Content:         c.Content,
		IsDeleted:       c.IsDeleted,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
		Comments:        []*CommentTree{},
	}
}
