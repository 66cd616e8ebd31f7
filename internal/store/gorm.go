package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"posttown/internal/models"
	"posttown/internal/utils"
)

// postRecord and commentRecord are the postgres rows. Child-id lists live in
// a jsonb column so AppendChildID can run as a single server-side statement.
type postRecord struct {
	ID         string   `gorm:"primaryKey;size:16"`
	TownID     string   `gorm:"primaryKey;size:64;index"`
	Title      string   `gorm:"not null"`
	Content    string   `gorm:"type:text"`
	OwnerID    string   `gorm:"not null;index"`
	IsVisible  bool     `gorm:"default:true"`
	CoordX     float64  `gorm:"column:coord_x"`
	CoordY     float64  `gorm:"column:coord_y"`
	CommentIDs []string `gorm:"type:jsonb;serializer:json;default:'[]'"`
	FileID     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (postRecord) TableName() string { return "posts" }

type commentRecord struct {
	ID              string `gorm:"primaryKey;size:16"`
	TownID          string `gorm:"primaryKey;size:64;index"`
	RootPostID      string `gorm:"not null;index"`
	ParentCommentID string
	OwnerID         string   `gorm:"not null;index"`
	Content         string   `gorm:"type:text"`
	IsDeleted       bool     `gorm:"default:false"`
	CommentIDs      []string `gorm:"type:jsonb;serializer:json;default:'[]'"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (commentRecord) TableName() string { return "comments" }

// GormStore is the postgres-backed PostCommentStore.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore migrates the schema and returns the store.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&postRecord{}, &commentRecord{}); err != nil {
		return nil, storeErr("migrate", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) CreatePost(ctx context.Context, town string, post models.Post) (models.Post, error) {
	rec := postFromModel(town, post)
	rec.ID = utils.RandStringBytesMaskImpr(8)
	if rec.CommentIDs == nil {
		rec.CommentIDs = []string{}
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return models.Post{}, storeErr("create post", err)
	}
	return rec.toModel(), nil
}

func (s *GormStore) GetPost(ctx context.Context, town, id string) (models.Post, error) {
	var rec postRecord
	err := s.db.WithContext(ctx).Where("town_id = ? AND id = ?", town, id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Post{}, ErrNotFound
	}
	if err != nil {
		return models.Post{}, storeErr("get post", err)
	}
	return rec.toModel(), nil
}

func (s *GormStore) GetAllPosts(ctx context.Context, town string) ([]models.Post, error) {
	var recs []postRecord
	if err := s.db.WithContext(ctx).Where("town_id = ?", town).Order("created_at ASC").Find(&recs).Error; err != nil {
		return nil, storeErr("get all posts", err)
	}
	posts := make([]models.Post, len(recs))
	for i, rec := range recs {
		posts[i] = rec.toModel()
	}
	return posts, nil
}

func (s *GormStore) UpdatePost(ctx context.Context, town string, post models.Post) (models.Post, error) {
	rec := postFromModel(town, post)
	res := s.db.WithContext(ctx).Model(&postRecord{}).
		Where("town_id = ? AND id = ?", town, post.ID).
		Updates(map[string]interface{}{
			"title":      rec.Title,
			"content":    rec.Content,
			"is_visible": rec.IsVisible,
			"file_id":    rec.FileID,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return models.Post{}, storeErr("update post", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.Post{}, ErrNotFound
	}
	return s.GetPost(ctx, town, post.ID)
}

func (s *GormStore) DeletePost(ctx context.Context, town, id string) error {
	if err := s.db.WithContext(ctx).Where("town_id = ? AND id = ?", town, id).Delete(&postRecord{}).Error; err != nil {
		return storeErr("delete post", err)
	}
	return nil
}

func (s *GormStore) CreateComment(ctx context.Context, town string, comment models.Comment) (models.Comment, error) {
	rec := commentFromModel(town, comment)
	rec.ID = utils.RandStringBytesMaskImpr(8)
	if rec.CommentIDs == nil {
		rec.CommentIDs = []string{}
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return models.Comment{}, storeErr("create comment", err)
	}
	return rec.toModel(), nil
}

func (s *GormStore) GetComment(ctx context.Context, town, id string) (models.Comment, error) {
	var rec commentRecord
	err := s.db.WithContext(ctx).Where("town_id = ? AND id = ?", town, id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Comment{}, ErrNotFound
	}
	if err != nil {
		return models.Comment{}, storeErr("get comment", err)
	}
	return rec.toModel(), nil
}

func (s *GormStore) GetComments(ctx context.Context, town string, ids []string) ([]models.Comment, error) {
	if len(ids) == 0 {
		return []models.Comment{}, nil
	}
	var recs []commentRecord
	if err := s.db.WithContext(ctx).Where("town_id = ? AND id IN ?", town, ids).Find(&recs).Error; err != nil {
		return nil, storeErr("get comments", err)
	}
	byID := make(map[string]commentRecord, len(recs))
	for _, rec := range recs {
		byID[rec.ID] = rec
	}
	// keep request order, drop missing ids
	comments := make([]models.Comment, 0, len(ids))
	for _, id := range ids {
		if rec, ok := byID[id]; ok {
			comments = append(comments, rec.toModel())
		}
	}
	return comments, nil
}

func (s *GormStore) UpdateComment(ctx context.Context, town string, comment models.Comment) (models.Comment, error) {
	res := s.db.WithContext(ctx).Model(&commentRecord{}).
		Where("town_id = ? AND id = ?", town, comment.ID).
		Updates(map[string]interface{}{
			"content":    comment.Content,
			"is_deleted": comment.IsDeleted,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return models.Comment{}, storeErr("update comment", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.Comment{}, ErrNotFound
	}
	return s.GetComment(ctx, town, comment.ID)
}

func (s *GormStore) DeleteComment(ctx context.Context, town, id string) error {
	if err := s.db.WithContext(ctx).Where("town_id = ? AND id = ?", town, id).Delete(&commentRecord{}).Error; err != nil {
		return storeErr("delete comment", err)
	}
	return nil
}

func (s *GormStore) AppendChildID(ctx context.Context, town string, kind ParentKind, parentID, childID string) error {
	// Single UPDATE with a jsonb concat keeps the append atomic on the
	// server; no read-modify-write round trip.
	var res *gorm.DB
	switch kind {
	case ParentPost:
		res = s.db.WithContext(ctx).Model(&postRecord{}).
			Where("town_id = ? AND id = ?", town, parentID).
			UpdateColumn("comment_ids", gorm.Expr("COALESCE(comment_ids, '[]'::jsonb) || to_jsonb(?::text)", childID))
	case ParentComment:
		res = s.db.WithContext(ctx).Model(&commentRecord{}).
			Where("town_id = ? AND id = ?", town, parentID).
			UpdateColumn("comment_ids", gorm.Expr("COALESCE(comment_ids, '[]'::jsonb) || to_jsonb(?::text)", childID))
	default:
		return ErrInvalidReference
	}
	if res.Error != nil {
		return storeErr("append child id", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) DeleteCommentsUnder(ctx context.Context, town, postID string) error {
	if err := s.db.WithContext(ctx).Where("town_id = ? AND root_post_id = ?", town, postID).Delete(&commentRecord{}).Error; err != nil {
		return storeErr("delete comments under post", err)
	}
	return nil
}

func postFromModel(town string, p models.Post) postRecord {
	return postRecord{
		ID:         p.ID,
		TownID:     town,
		Title:      p.Title,
		Content:    p.Content,
		OwnerID:    p.OwnerID,
		IsVisible:  p.IsVisible,
		CoordX:     p.Coordinates.X,
		CoordY:     p.Coordinates.Y,
		CommentIDs: p.CommentIDs,
		FileID:     p.FileID,
	}
}

func (r postRecord) toModel() models.Post {
	return models.Post{
		ID:          r.ID,
		TownID:      r.TownID,
		Title:       r.Title,
		Content:     r.Content,
		OwnerID:     r.OwnerID,
		IsVisible:   r.IsVisible,
		Coordinates: models.Coordinates{X: r.CoordX, Y: r.CoordY},
		CommentIDs:  r.CommentIDs,
		FileID:      r.FileID,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func commentFromModel(town string, c models.Comment) commentRecord {
	return commentRecord{
		ID:              c.ID,
		TownID:          town,
		RootPostID:      c.RootPostID,
		ParentCommentID: c.ParentCommentID,
		OwnerID:         c.OwnerID,
		Content:         c.Content,
		IsDeleted:       c.IsDeleted,
		CommentIDs:      c.CommentIDs,
	}
}

func (r commentRecord) toModel() models.Comment {
	return models.Comment{
		ID:              r.ID,
		TownID:          r.TownID,
		RootPostID:      r.RootPostID,
		ParentCommentID: r.ParentCommentID,
		OwnerID:         r.OwnerID,
		Content:         r.Content,
		IsDeleted:       r.IsDeleted,
		CommentIDs:      r.CommentIDs,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}
