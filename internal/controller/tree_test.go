package controller

import (
	"context"
	"testing"

	"posttown/internal/models"
	"posttown/internal/store"
)

func TestBuildForestPreservesOrder(t *testing.T) {
	ctx := context.Background()
	pt, _, _ := newTestController()

	post, _ := pt.CreatePost(ctx, testTown, models.Post{Title: "p", OwnerID: "alice"}, nil)
	c1, _ := pt.CreateComment(ctx, testTown, models.Comment{RootPostID: post.ID, OwnerID: "alice", Content: "c1"})
	c2, _ := pt.CreateComment(ctx, testTown, models.Comment{RootPostID: post.ID, OwnerID: "bob", Content: "c2"})
	c3, _ := pt.CreateComment(ctx, testTown, models.Comment{RootPostID: post.ID, ParentCommentID: c1.ID, OwnerID: "bob", Content: "c3"})

	forest, err := pt.GetCommentTree(ctx, testTown, post.ID)
	if err != nil {
		t.Fatalf("GetCommentTree: %v", err)
	}

	if len(forest) != 2 {
		t.Fatalf("forest has %d roots, want 2", len(forest))
	}
	if forest[0].ID != c1.ID || forest[1].ID != c2.ID {
		t.Errorf("root order = [%s %s], want [%s %s]", forest[0].ID, forest[1].ID, c1.ID, c2.ID)
	}
	if len(forest[0].Comments) != 1 || forest[0].Comments[0].ID != c3.ID {
		t.Errorf("c1 children = %+v, want [%s]", forest[0].Comments, c3.ID)
	}
	if len(forest[0].Comments[0].Comments) != 0 {
		t.Errorf("c3 should be a leaf")
	}
	if len(forest[1].Comments) != 0 {
		t.Errorf("c2 should be a leaf")
	}
}

func TestBuildForestSkipsBrokenReferences(t *testing.T) {
	ctx := context.Background()
	pt, s, _ := newTestController()

	post, _ := pt.CreatePost(ctx, testTown, models.Post{Title: "p", OwnerID: "alice"}, nil)
	c1, _ := pt.CreateComment(ctx, testTown, models.Comment{RootPostID: post.ID, OwnerID: "alice", Content: "c1"})
	c2, _ := pt.CreateComment(ctx, testTown, models.Comment{RootPostID: post.ID, OwnerID: "bob", Content: "c2"})

	// remove c1 behind the controller's back, leaving the post's list stale
	if err := s.DeleteComment(ctx, testTown, c1.ID); err != nil {
		t.Fatalf("DeleteComment: %v", err)
	}

	forest, err := pt.GetCommentTree(ctx, testTown, post.ID)
	if err != nil {
		t.Fatalf("GetCommentTree: %v", err)
	}
	if len(forest) != 1 || forest[0].ID != c2.ID {
		t.Errorf("forest = %+v, want only %s", forest, c2.ID)
	}
}

func TestBuildForestCutsCycles(t *testing.T) {
	ctx := context.Background()
	pt, s, _ := newTestController()

	post, _ := pt.CreatePost(ctx, testTown, models.Post{Title: "p", OwnerID: "alice"}, nil)
	a, _ := pt.CreateComment(ctx, testTown, models.Comment{RootPostID: post.ID, OwnerID: "alice", Content: "a"})
	b, _ := pt.CreateComment(ctx, testTown, models.Comment{RootPostID: post.ID, ParentCommentID: a.ID, OwnerID: "bob", Content: "b"})

	// corrupt the store: b lists a as a child, closing the loop
	if err := s.AppendChildID(ctx, testTown, store.ParentComment, b.ID, a.ID); err != nil {
		t.Fatalf("AppendChildID: %v", err)
	}

	forest, err := pt.GetCommentTree(ctx, testTown, post.ID)
	if err != nil {
		t.Fatalf("GetCommentTree: %v", err)
	}

	counts := make(map[string]int)
	var stack []*models.CommentTree
	stack = append(stack, forest...)
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		counts[node.ID]++
		stack = append(stack, node.Comments...)
	}
	if counts[a.ID] != 1 || counts[b.ID] != 1 {
		t.Errorf("cycle produced duplicate nodes: %v", counts)
	}
}

func TestBuildForestDeepThread(t *testing.T) {
	ctx := context.Background()
	pt, _, _ := newTestController()

	post, _ := pt.CreatePost(ctx, testTown, models.Post{Title: "p", OwnerID: "alice"}, nil)

	// a thread far deeper than any sane call stack recursion budget
	const depth = 20000
	parentID := ""
	for i := 0; i < depth; i++ {
		c, err := pt.CreateComment(ctx, testTown, models.Comment{
			RootPostID:      post.ID,
			ParentCommentID: parentID,
			OwnerID:         "alice",
			Content:         "deep",
		})
		if err != nil {
			t.Fatalf("CreateComment at depth %d: %v", i, err)
		}
		parentID = c.ID
	}

	forest, err := pt.GetCommentTree(ctx, testTown, post.ID)
	if err != nil {
		t.Fatalf("GetCommentTree: %v", err)
	}

	levels := 0
	node := forest
	for len(node) > 0 {
		levels++
		node = node[0].Comments
	}
	if levels != depth {
		t.Errorf("tree has %d levels, want %d", levels, depth)
	}
}
