// Package controller implements the post/comment orchestration layer: the
// single entry point request handlers go through for every post, comment and
// attachment use case.
package controller

import (
	"context"
	"errors"

	"posttown/internal/files"
	"posttown/internal/models"
	"posttown/internal/moderation"
	"posttown/internal/store"
)

// PostTown composes the store, the session collaborator, the file
// collaborator and the moderation filter into the post/comment use cases.
// It keeps no state of its own; the store is the only shared mutable
// resource.
type PostTown struct {
	store    store.PostCommentStore
	sessions SessionResolver
	files    files.Store
	filter   *moderation.Filter
	trees    *TreeBuilder
}

func New(s store.PostCommentStore, sessions SessionResolver, fs files.Store, filter *moderation.Filter) *PostTown {
	return &PostTown{
		store:    s,
		sessions: sessions,
		files:    fs,
		filter:   filter,
		trees:    NewTreeBuilder(s),
	}
}

// CreatePost sanitizes title and content and persists the post. When file is
// non-nil its bytes go to the file collaborator first and the stored id is
// linked on the post. Overlapping coordinates are allowed; placement is not
// this layer's concern.
func (pt *PostTown) CreatePost(ctx context.Context, townID string, post models.Post, file *models.FileAttachment) (models.Post, error) {
	post.Title = pt.filter.Clean(post.Title)
	post.Content = pt.filter.Clean(post.Content)

	if file != nil && len(file.Data) > 0 {
		fileID, err := pt.files.Store(ctx, *file)
		if err != nil {
			return models.Post{}, &store.StoreError{Op: "store attachment", Err: err}
		}
		post.FileID = fileID
	}

	return pt.store.CreatePost(ctx, townID, post)
}

func (pt *PostTown) GetPost(ctx context.Context, townID, postID string) (models.Post, error) {
	return pt.store.GetPost(ctx, townID, postID)
}

func (pt *PostTown) GetAllPosts(ctx context.Context, townID string) ([]models.Post, error) {
	return pt.store.GetAllPosts(ctx, townID)
}

// UpdatePost replaces the mutable fields of a post after the ownership
// check. Identifier, owner, coordinates, attachment link and creation time
// are preserved from the stored post.
func (pt *PostTown) UpdatePost(ctx context.Context, townID, postID string, post models.Post, token string) (models.Post, error) {
	existing, err := pt.store.GetPost(ctx, townID, postID)
	if err != nil {
		return models.Post{}, err
	}
	if err := pt.authorize(townID, token, existing.OwnerID); err != nil {
		return models.Post{}, err
	}

	existing.Title = pt.filter.Clean(post.Title)
	existing.Content = pt.filter.Clean(post.Content)
	existing.IsVisible = post.IsVisible

	return pt.store.UpdatePost(ctx, townID, existing)
}

// DeletePost cascades: every comment under the post goes first, then the
// attachment, then the post record. The steps are not one transaction - a
// failure partway leaves the earlier steps applied and surfaces a
// StoreFailure; each step is idempotent, so callers retry the delete.
// Concurrent readers may observe a partially deleted tree during the
// cascade.
func (pt *PostTown) DeletePost(ctx context.Context, townID, postID, token string) (models.Post, error) {
	existing, err := pt.store.GetPost(ctx, townID, postID)
	if errors.Is(err, store.ErrNotFound) {
		// already gone, report success for idempotent retries
		return models.Post{}, nil
	}
	if err != nil {
		return models.Post{}, err
	}
	if err := pt.authorize(townID, token, existing.OwnerID); err != nil {
		return models.Post{}, err
	}

	if err := pt.store.DeleteCommentsUnder(ctx, townID, postID); err != nil {
		return models.Post{}, err
	}
	if existing.FileID != "" {
		if err := pt.files.Delete(ctx, existing.FileID); err != nil && !errors.Is(err, store.ErrNotFound) {
			return models.Post{}, &store.StoreError{Op: "delete attachment", Err: err}
		}
	}
	if err := pt.store.DeletePost(ctx, townID, postID); err != nil {
		return models.Post{}, err
	}
	return existing, nil
}

// CreateComment sanitizes, persists and links the comment. An empty
// parentCommentID links it to the post's top-level list, anything else to
// the parent comment's child list.
//
// Persisting and linking are two separate durable writes. If the link write
// fails the comment is durable but unreachable from tree traversal; the
// append is retried once and a remaining failure surfaces as a StoreFailure
// so the caller can retry the link.
func (pt *PostTown) CreateComment(ctx context.Context, townID string, comment models.Comment) (models.Comment, error) {
	comment.Content = pt.filter.Clean(comment.Content)

	if _, err := pt.store.GetPost(ctx, townID, comment.RootPostID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.Comment{}, store.ErrInvalidReference
		}
		return models.Comment{}, err
	}

	kind := store.ParentPost
	parentID := comment.RootPostID
	if comment.ParentCommentID != "" {
		parent, err := pt.store.GetComment(ctx, townID, comment.ParentCommentID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return models.Comment{}, store.ErrInvalidReference
			}
			return models.Comment{}, err
		}
		// a reply may not cross into another thread
		if parent.RootPostID != comment.RootPostID {
			return models.Comment{}, store.ErrInvalidReference
		}
		kind = store.ParentComment
		parentID = comment.ParentCommentID
	}

	created, err := pt.store.CreateComment(ctx, townID, comment)
	if err != nil {
		return models.Comment{}, err
	}

	if err := pt.store.AppendChildID(ctx, townID, kind, parentID, created.ID); err != nil {
		if err = pt.store.AppendChildID(ctx, townID, kind, parentID, created.ID); err != nil {
			return models.Comment{}, &store.StoreError{Op: "link comment", Err: err}
		}
	}
	return created, nil
}

func (pt *PostTown) GetComment(ctx context.Context, townID, commentID string) (models.Comment, error) {
	return pt.store.GetComment(ctx, townID, commentID)
}

// GetCommentTree materializes the comment forest under a post.
func (pt *PostTown) GetCommentTree(ctx context.Context, townID, postID string) ([]*models.CommentTree, error) {
	post, err := pt.store.GetPost(ctx, townID, postID)
	if err != nil {
		return nil, err
	}
	return pt.trees.BuildForest(ctx, townID, post.CommentIDs)
}

// UpdateComment rewrites a comment's content after the ownership check.
// Tombstoned comments are terminal and report NotFound.
func (pt *PostTown) UpdateComment(ctx context.Context, townID, commentID string, comment models.Comment, token string) (models.Comment, error) {
	existing, err := pt.store.GetComment(ctx, townID, commentID)
	if err != nil {
		return models.Comment{}, err
	}
	if existing.IsDeleted {
		return models.Comment{}, store.ErrNotFound
	}
	if err := pt.authorize(townID, token, existing.OwnerID); err != nil {
		return models.Comment{}, err
	}

	existing.Content = pt.filter.Clean(comment.Content)
	return pt.store.UpdateComment(ctx, townID, existing)
}

// DeleteComment tombstones the comment and cascade-deletes the subtree
// below it, so no replies are left orphaned. Deleting a missing or already
// tombstoned comment succeeds without changing anything.
func (pt *PostTown) DeleteComment(ctx context.Context, townID, commentID, token string) (models.Comment, error) {
	existing, err := pt.store.GetComment(ctx, townID, commentID)
	if errors.Is(err, store.ErrNotFound) {
		return models.Comment{}, nil
	}
	if err != nil {
		return models.Comment{}, err
	}
	if existing.IsDeleted {
		return existing, nil
	}
	if err := pt.authorize(townID, token, existing.OwnerID); err != nil {
		return models.Comment{}, err
	}

	if err := pt.deleteSubtree(ctx, townID, existing.CommentIDs); err != nil {
		return models.Comment{}, err
	}

	existing.Content = ""
	existing.IsDeleted = true
	return pt.store.UpdateComment(ctx, townID, existing)
}

// deleteSubtree removes every comment reachable from ids. Same iterative
// walk as the tree builder; the visited set keeps corrupted data from
// looping. The walk only collects ids, deletion happens afterwards in
// reverse discovery order, so a parent is never removed before its
// replies. A cascade that errors out partway leaves every surviving
// comment still reachable, and retrying the delete finishes the job.
func (pt *PostTown) deleteSubtree(ctx context.Context, townID string, ids []string) error {
	visited := make(map[string]bool)
	stack := append([]string{}, ids...)
	var order []string
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[id] {
			continue
		}
		visited[id] = true

		comment, err := pt.store.GetComment(ctx, townID, id)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		order = append(order, id)
		stack = append(stack, comment.CommentIDs...)
	}

	for i := len(order) - 1; i >= 0; i-- {
		if err := pt.store.DeleteComment(ctx, townID, order[i]); err != nil {
			return err
		}
	}
	return nil
}

// GetFile returns the attachment linked to the post.
func (pt *PostTown) GetFile(ctx context.Context, townID, postID string) (models.FileAttachment, error) {
	post, err := pt.store.GetPost(ctx, townID, postID)
	if err != nil {
		return models.FileAttachment{}, err
	}
	if post.FileID == "" {
		return models.FileAttachment{}, store.ErrNotFound
	}
	return pt.files.Fetch(ctx, post.FileID)
}

// DeleteFile removes the post's attachment and clears the link. Gated on
// post ownership; a post without an attachment reports NotFound.
func (pt *PostTown) DeleteFile(ctx context.Context, townID, postID, token string) error {
	post, err := pt.store.GetPost(ctx, townID, postID)
	if err != nil {
		return err
	}
	if err := pt.authorize(townID, token, post.OwnerID); err != nil {
		return err
	}
	if post.FileID == "" {
		return store.ErrNotFound
	}

	if err := pt.files.Delete(ctx, post.FileID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return &store.StoreError{Op: "delete attachment", Err: err}
	}

	post.FileID = ""
	_, err = pt.store.UpdatePost(ctx, townID, post)
	return err
}
