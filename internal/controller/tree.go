package controller

import (
	"context"

	"posttown/internal/models"
	"posttown/internal/store"
)

// TreeBuilder materializes comment forests from the flat id-linked store.
//
// The walk is iterative with an explicit work stack, so thread depth never
// translates into call-stack depth. A per-traversal visited set cuts cycles
// in malformed data: a repeated id is dropped, so each comment shows up at
// most once. Ids that no longer resolve are skipped rather than failing the
// whole traversal.
type TreeBuilder struct {
	store store.PostCommentStore
}

func NewTreeBuilder(s store.PostCommentStore) *TreeBuilder {
	return &TreeBuilder{store: s}
}

// BuildForest expands ids into trees, preserving store-returned order at
// every level.
func (b *TreeBuilder) BuildForest(ctx context.Context, townID string, ids []string) ([]*models.CommentTree, error) {
	forest := []*models.CommentTree{}
	visited := make(map[string]bool)

	type frame struct {
		ids    []string
		parent *models.CommentTree // nil attaches to the forest root
	}
	stack := []frame{{ids: ids}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		fetch := make([]string, 0, len(f.ids))
		for _, id := range f.ids {
			if !visited[id] {
				fetch = append(fetch, id)
			}
		}
		if len(fetch) == 0 {
			continue
		}

		comments, err := b.store.GetComments(ctx, townID, fetch)
		if err != nil {
			return nil, err
		}

		for _, c := range comments {
			if visited[c.ID] {
				continue
			}
			visited[c.ID] = true

			node := models.TreeFromComment(c)
			if f.parent == nil {
				forest = append(forest, node)
			} else {
				f.parent.Comments = append(f.parent.Comments, node)
			}
			if len(c.CommentIDs) > 0 {
				stack = append(stack, frame{ids: c.CommentIDs, parent: node})
			}
		}
	}

	return forest, nil
}
