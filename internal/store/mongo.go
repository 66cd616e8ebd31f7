package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"posttown/internal/models"
)

type postDoc struct {
	ID          string             `bson:"_id"`
	TownID      string             `bson:"townId"`
	Title       string             `bson:"title"`
	Content     string             `bson:"postContent"`
	OwnerID     string             `bson:"ownerId"`
	IsVisible   bool               `bson:"isVisible"`
	Coordinates models.Coordinates `bson:"coordinates"`
	CommentIDs  []string           `bson:"comments"`
	FileID      string             `bson:"fileId,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

type commentDoc struct {
	ID              string    `bson:"_id"`
	TownID          string    `bson:"townId"`
	RootPostID      string    `bson:"rootPostId"`
	ParentCommentID string    `bson:"parentCommentId"`
	OwnerID         string    `bson:"ownerId"`
	Content         string    `bson:"commentContent"`
	IsDeleted       bool      `bson:"isDeleted"`
	CommentIDs      []string  `bson:"comments"`
	CreatedAt       time.Time `bson:"createdAt"`
	UpdatedAt       time.Time `bson:"updatedAt"`
}

// MongoStore is the document-store PostCommentStore. AppendChildID maps to
// $push, which mongo applies atomically per document.
type MongoStore struct {
	posts    *mongo.Collection
	comments *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		posts:    db.Collection("posts"),
		comments: db.Collection("comments"),
	}
}

func (s *MongoStore) CreatePost(ctx context.Context, town string, post models.Post) (models.Post, error) {
	now := time.Now().UTC()
	doc := postDoc{
		ID:          primitive.NewObjectID().Hex(),
		TownID:      town,
		Title:       post.Title,
		Content:     post.Content,
		OwnerID:     post.OwnerID,
		IsVisible:   post.IsVisible,
		Coordinates: post.Coordinates,
		CommentIDs:  []string{},
		FileID:      post.FileID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := s.posts.InsertOne(ctx, doc); err != nil {
		return models.Post{}, storeErr("create post", err)
	}
	return doc.toModel(), nil
}

func (s *MongoStore) GetPost(ctx context.Context, town, id string) (models.Post, error) {
	var doc postDoc
	err := s.posts.FindOne(ctx, bson.M{"_id": id, "townId": town}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Post{}, ErrNotFound
	}
	if err != nil {
		return models.Post{}, storeErr("get post", err)
	}
	return doc.toModel(), nil
}

func (s *MongoStore) GetAllPosts(ctx context.Context, town string) ([]models.Post, error) {
	cur, err := s.posts.Find(ctx, bson.M{"townId": town})
	if err != nil {
		return nil, storeErr("get all posts", err)
	}
	defer cur.Close(ctx)

	posts := []models.Post{}
	for cur.Next(ctx) {
		var doc postDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, storeErr("decode post", err)
		}
		posts = append(posts, doc.toModel())
	}
	if err := cur.Err(); err != nil {
		return nil, storeErr("get all posts", err)
	}
	return posts, nil
}

func (s *MongoStore) UpdatePost(ctx context.Context, town string, post models.Post) (models.Post, error) {
	update := bson.M{"$set": bson.M{
		"title":       post.Title,
		"postContent": post.Content,
		"isVisible":   post.IsVisible,
		"fileId":      post.FileID,
		"updatedAt":   time.Now().UTC(),
	}}
	res, err := s.posts.UpdateOne(ctx, bson.M{"_id": post.ID, "townId": town}, update)
	if err != nil {
		return models.Post{}, storeErr("update post", err)
	}
	if res.MatchedCount == 0 {
		return models.Post{}, ErrNotFound
	}
	return s.GetPost(ctx, town, post.ID)
}

func (s *MongoStore) DeletePost(ctx context.Context, town, id string) error {
	if _, err := s.posts.DeleteOne(ctx, bson.M{"_id": id, "townId": town}); err != nil {
		return storeErr("delete post", err)
	}
	return nil
}

func (s *MongoStore) CreateComment(ctx context.Context, town string, comment models.Comment) (models.Comment, error) {
	now := time.Now().UTC()
	doc := commentDoc{
		ID:              primitive.NewObjectID().Hex(),
		TownID:          town,
		RootPostID:      comment.RootPostID,
		ParentCommentID: comment.ParentCommentID,
		OwnerID:         comment.OwnerID,
		Content:         comment.Content,
		IsDeleted:       comment.IsDeleted,
		CommentIDs:      []string{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if _, err := s.comments.InsertOne(ctx, doc); err != nil {
		return models.Comment{}, storeErr("create comment", err)
	}
	return doc.toModel(), nil
}

func (s *MongoStore) GetComment(ctx context.Context, town, id string) (models.Comment, error) {
	var doc commentDoc
	err := s.comments.FindOne(ctx, bson.M{"_id": id, "townId": town}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Comment{}, ErrNotFound
	}
	if err != nil {
		return models.Comment{}, storeErr("get comment", err)
	}
	return doc.toModel(), nil
}

func (s *MongoStore) GetComments(ctx context.Context, town string, ids []string) ([]models.Comment, error) {
	if len(ids) == 0 {
		return []models.Comment{}, nil
	}
	cur, err := s.comments.Find(ctx, bson.M{"townId": town, "_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, storeErr("get comments", err)
	}
	defer cur.Close(ctx)

	byID := make(map[string]commentDoc, len(ids))
	for cur.Next(ctx) {
		var doc commentDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, storeErr("decode comment", err)
		}
		byID[doc.ID] = doc
	}
	if err := cur.Err(); err != nil {
		return nil, storeErr("get comments", err)
	}

	// keep request order, drop missing ids
	comments := make([]models.Comment, 0, len(ids))
	for _, id := range ids {
		if doc, ok := byID[id]; ok {
			comments = append(comments, doc.toModel())
		}
	}
	return comments, nil
}

func (s *MongoStore) UpdateComment(ctx context.Context, town string, comment models.Comment) (models.Comment, error) {
	update := bson.M{"$set": bson.M{
		"commentContent": comment.Content,
		"isDeleted":      comment.IsDeleted,
		"updatedAt":      time.Now().UTC(),
	}}
	res, err := s.comments.UpdateOne(ctx, bson.M{"_id": comment.ID, "townId": town}, update)
	if err != nil {
		return models.Comment{}, storeErr("update comment", err)
	}
	if res.MatchedCount == 0 {
		return models.Comment{}, ErrNotFound
	}
	return s.GetComment(ctx, town, comment.ID)
}

func (s *MongoStore) DeleteComment(ctx context.Context, town, id string) error {
	if _, err := s.comments.DeleteOne(ctx, bson.M{"_id": id, "townId": town}); err != nil {
		return storeErr("delete comment", err)
	}
	return nil
}

func (s *MongoStore) AppendChildID(ctx context.Context, town string, kind ParentKind, parentID, childID string) error {
	coll := s.posts
	if kind == ParentComment {
		coll = s.comments
	}
	res, err := coll.UpdateOne(ctx,
		bson.M{"_id": parentID, "townId": town},
		bson.M{"$push": bson.M{"comments": childID}},
	)
	if err != nil {
		return storeErr("append child id", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) DeleteCommentsUnder(ctx context.Context, town, postID string) error {
	if _, err := s.comments.DeleteMany(ctx, bson.M{"townId": town, "rootPostId": postID}); err != nil {
		return storeErr("delete comments under post", err)
	}
	return nil
}

func (d postDoc) toModel() models.Post {
	return models.Post{
		ID:          d.ID,
		TownID:      d.TownID,
		Title:       d.Title,
		Content:     d.Content,
		OwnerID:     d.OwnerID,
		IsVisible:   d.IsVisible,
		Coordinates: d.Coordinates,
		CommentIDs:  d.CommentIDs,
		FileID:      d.FileID,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func (d commentDoc) toModel() models.Comment {
	return models.Comment{
		ID:              d.ID,
		TownID:          d.TownID,
		RootPostID:      d.RootPostID,
		ParentCommentID: d.ParentCommentID,
		OwnerID:         d.OwnerID,
		Content:         d.Content,
		IsDeleted:       d.IsDeleted,
		CommentIDs:      d.CommentIDs,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}
