// Package files holds the file attachment collaborator: typed metadata plus
// bytes, stored outside the post/comment store.
package files

import (
	"context"

	"posttown/internal/models"
)

// Store is the attachment contract consumed by the controller.
type Store interface {
	// Store persists the attachment and returns its assigned id.
	Store(ctx context.Context, file models.FileAttachment) (string, error)
	// Fetch returns bytes plus metadata, store.ErrNotFound when absent.
	Fetch(ctx context.Context, id string) (models.FileAttachment, error)
	// Delete removes the attachment. Deleting an absent id is a no-op.
	Delete(ctx context.Context, id string) error
}
