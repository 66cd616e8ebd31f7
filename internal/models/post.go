package models

import (
	"time"
)

// Coordinates pin a post to a location on the town map.
type Coordinates struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Post struct {
	ID      string `json:"id"`
	TownID  string `json:"townID"`
	Title   string `json:"title"`
	Content string `json:"postContent"`
	OwnerID string `json:"ownerID"`

	IsVisible   bool        `json:"isVisible"`
	Coordinates Coordinates `json:"coordinates"` // immutable after creation

	// CommentIDs holds the ids of top-level comments, in creation order.
	CommentIDs []string `json:"comments"`

	// FileID references an attachment in the file store, empty when none.
	FileID string `json:"fileID,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
