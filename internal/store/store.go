package store

import (
	"context"

	"posttown/internal/models"
)

// ParentKind selects which record type AppendChildID targets.
type ParentKind int

const (
	ParentPost ParentKind = iota
	ParentComment
)

// PostCommentStore is the persistence contract consumed by the controller.
// Every operation is scoped to exactly one town; ids from one town are never
// resolvable in another.
//
// AppendChildID must be atomic at the document level - an append, not a
// read-modify-write round trip - so concurrent sibling creation never loses
// updates.
type PostCommentStore interface {
	CreatePost(ctx context.Context, town string, post models.Post) (models.Post, error)
	GetPost(ctx context.Context, town, id string) (models.Post, error)
	GetAllPosts(ctx context.Context, town string) ([]models.Post, error)
	UpdatePost(ctx context.Context, town string, post models.Post) (models.Post, error)
	// DeletePost removes the post record. Deleting an absent id is a no-op.
	DeletePost(ctx context.Context, town, id string) error

	CreateComment(ctx context.Context, town string, comment models.Comment) (models.Comment, error)
	GetComment(ctx context.Context, town, id string) (models.Comment, error)
	// GetComments batch-fetches comments, preserving the order of ids and
	// omitting ids that no longer exist rather than failing.
	GetComments(ctx context.Context, town string, ids []string) ([]models.Comment, error)
	UpdateComment(ctx context.Context, town string, comment models.Comment) (models.Comment, error)
	// DeleteComment removes the comment record. Deleting an absent id is a
	// no-op.
	DeleteComment(ctx context.Context, town, id string) error

	// AppendChildID appends childID to the child-id list of the given post
	// or comment.
	AppendChildID(ctx context.Context, town string, kind ParentKind, parentID, childID string) error

	// DeleteCommentsUnder removes every comment whose rootPostID equals
	// postID, regardless of depth, in one logical step.
	DeleteCommentsUnder(ctx context.Context, town, postID string) error
}
