package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"linklet/apperr"
)

const (
	MaxContentLen = 500
	MaxCommentLen = 300
)

type Comment struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Username  string             `bson:"username" json:"username"`
	Text      string             `bson:"text" json:"text"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// Post is the aggregate document: likes and comments are embedded so
// every mutation is a single atomic document update. Username is a
// snapshot of the author's display name at creation time and is not
// refreshed if the user ever renames.
type Post struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID   `bson:"userId" json:"userId"`
	Username  string               `bson:"username" json:"username"`
	Content   string               `bson:"content" json:"content"`
	ImageURL  string               `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Likes     int                  `bson:"likes" json:"likes"`
	LikedBy   []primitive.ObjectID `bson:"likedBy" json:"likedBy"`
	Comments  []Comment            `bson:"comments" json:"comments"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// ValidateContent trims post content and enforces the 1-500 character
// bound. Lengths are rune counts.
func ValidateContent(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%w: post content is required", apperr.ErrValidation)
	}
	if utf8.RuneCountInString(s) > MaxContentLen {
		return "", fmt.Errorf("%w: post content cannot exceed %d characters", apperr.ErrValidation, MaxContentLen)
	}
	return s, nil
}

// ValidateCommentText trims comment text and enforces the 1-300
// character bound.
func ValidateCommentText(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%w: comment text is required", apperr.ErrValidation)
	}
	if utf8.RuneCountInString(s) > MaxCommentLen {
		return "", fmt.Errorf("%w: comment text cannot exceed %d characters", apperr.ErrValidation, MaxCommentLen)
	}
	return s, nil
}
