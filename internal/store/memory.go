package store

import (
	"context"
	"sync"
	"time"

	"posttown/internal/models"
	"posttown/internal/utils"
)

// MemoryStore is the reference PostCommentStore: per-town maps behind one
// mutex. It backs tests and single-process deployments.
type MemoryStore struct {
	mu    sync.Mutex
	towns map[string]*townData
}

type townData struct {
	posts     map[string]models.Post
	comments  map[string]models.Comment
	postOrder []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{towns: make(map[string]*townData)}
}

func (s *MemoryStore) town(name string) *townData {
	td, ok := s.towns[name]
	if !ok {
		td = &townData{
			posts:    make(map[string]models.Post),
			comments: make(map[string]models.Comment),
		}
		s.towns[name] = td
	}
	return td
}

func (s *MemoryStore) newID(td *townData) string {
	for {
		id := utils.RandStringBytesMaskImpr(8)
		if _, ok := td.posts[id]; ok {
			continue
		}
		if _, ok := td.comments[id]; ok {
			continue
		}
		return id
	}
}

func (s *MemoryStore) CreatePost(_ context.Context, town string, post models.Post) (models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	td := s.town(town)
	now := time.Now().UTC()
	post.ID = s.newID(td)
	post.TownID = town
	post.CreatedAt = now
	post.UpdatedAt = now
	if post.CommentIDs == nil {
		post.CommentIDs = []string{}
	}

	td.posts[post.ID] = clonePost(post)
	td.postOrder = append(td.postOrder, post.ID)
	return post, nil
}

func (s *MemoryStore) GetPost(_ context.Context, town, id string) (models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.town(town).posts[id]
	if !ok {
		return models.Post{}, ErrNotFound
	}
	return clonePost(post), nil
}

func (s *MemoryStore) GetAllPosts(_ context.Context, town string) ([]models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	td := s.town(town)
	posts := make([]models.Post, 0, len(td.postOrder))
	for _, id := range td.postOrder {
		if post, ok := td.posts[id]; ok {
			posts = append(posts, clonePost(post))
		}
	}
	return posts, nil
}

func (s *MemoryStore) UpdatePost(_ context.Context, town string, post models.Post) (models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	td := s.town(town)
	existing, ok := td.posts[post.ID]
	if !ok {
		return models.Post{}, ErrNotFound
	}

	post.TownID = town
	post.CreatedAt = existing.CreatedAt
	post.UpdatedAt = time.Now().UTC()
	// child lists change only through AppendChildID
	post.CommentIDs = existing.CommentIDs

	td.posts[post.ID] = clonePost(post)
	return post, nil
}

func (s *MemoryStore) DeletePost(_ context.Context, town, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	td := s.town(town)
	delete(td.posts, id)
	for i, pid := range td.postOrder {
		if pid == id {
			td.postOrder = append(td.postOrder[:i], td.postOrder[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemoryStore) CreateComment(_ context.Context, town string, comment models.Comment) (models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	td := s.town(town)
	now := time.Now().UTC()
	comment.ID = s.newID(td)
	comment.TownID = town
	comment.CreatedAt = now
	comment.UpdatedAt = now
	if comment.CommentIDs == nil {
		comment.CommentIDs = []string{}
	}

	td.comments[comment.ID] = cloneComment(comment)
	return comment, nil
}

func (s *MemoryStore) GetComment(_ context.Context, town, id string) (models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	comment, ok := s.town(town).comments[id]
	if !ok {
		return models.Comment{}, ErrNotFound
	}
	return cloneComment(comment), nil
}

func (s *MemoryStore) GetComments(_ context.Context, town string, ids []string) ([]models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	td := s.town(town)
	comments := make([]models.Comment, 0, len(ids))
	for _, id := range ids {
		if comment, ok := td.comments[id]; ok {
			comments = append(comments, cloneComment(comment))
		}
	}
	return comments, nil
}

func (s *MemoryStore) UpdateComment(_ context.Context, town string, comment models.Comment) (models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	td := s.town(town)
	existing, ok := td.comments[comment.ID]
	if !ok {
		return models.Comment{}, ErrNotFound
	}

	comment.TownID = town
	comment.CreatedAt = existing.CreatedAt
	comment.UpdatedAt = time.Now().UTC()
	comment.CommentIDs = existing.CommentIDs

	td.comments[comment.ID] = cloneComment(comment)
	return comment, nil
}

func (s *MemoryStore) DeleteComment(_ context.Context, town, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.town(town).comments, id)
	return nil
}

func (s *MemoryStore) AppendChildID(_ context.Context, town string, kind ParentKind, parentID, childID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	td := s.town(town)
	switch kind {
	case ParentPost:
		post, ok := td.posts[parentID]
		if !ok {
			return ErrNotFound
		}
		post.CommentIDs = append(post.CommentIDs, childID)
		td.posts[parentID] = post
	case ParentComment:
		comment, ok := td.comments[parentID]
		if !ok {
			return ErrNotFound
		}
		comment.CommentIDs = append(comment.CommentIDs, childID)
		td.comments[parentID] = comment
	}
	return nil
}

func (s *MemoryStore) DeleteCommentsUnder(_ context.Context, town, postID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	td := s.town(town)
	for id, comment := range td.comments {
		if comment.RootPostID == postID {
			delete(td.comments, id)
		}
	}
	return nil
}

func clonePost(p models.Post) models.Post {
	p.CommentIDs = append([]string{}, p.CommentIDs...)
	return p
}

func cloneComment(c models.Comment) models.Comment {
	c.CommentIDs = append([]string{}, c.CommentIDs...)
	return c
}
