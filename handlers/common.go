package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"linklet/apperr"
	"linklet/middleware"
	"linklet/models"
)

// Per-request database deadline, shared by all handlers.
const dbTimeout = 10 * time.Second

// UserStore is the credential store as the handlers see it.
type UserStore interface {
	Create(ctx context.Context, name, email, rawPassword string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// PostStore is the post aggregate plus feed queries as the handlers
// see them. Mutations are atomic document updates in the real store.
type PostStore interface {
	Create(ctx context.Context, authorID primitive.ObjectID, authorName, content, imageURL string) (*models.Post, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	UpdateContent(ctx context.Context, id primitive.ObjectID, content string) (*models.Post, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	ToggleLike(ctx context.Context, postID, userID primitive.ObjectID) (*models.Post, error)
	AddComment(ctx context.Context, postID primitive.ObjectID, comment models.Comment) (*models.Post, error)
	RemoveComment(ctx context.Context, postID, commentID primitive.ObjectID) (*models.Post, error)
	ListAll(ctx context.Context) ([]models.Post, error)
	ListByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]models.Post, error)
}

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}

// actor returns the authenticated identity placed in the context by
// the auth middleware.
func actor(c *gin.Context) (primitive.ObjectID, string, error) {
	id, err := primitive.ObjectIDFromHex(c.GetString(middleware.CtxUserID))
	if err != nil {
		return primitive.NilObjectID, "", apperr.ErrUnauthenticated
	}
	return id, c.GetString(middleware.CtxUserName), nil
}

// respondError converts a taxonomy error into its HTTP response.
// Anything outside the taxonomy is a store or driver failure: log the
// detail, answer with a generic 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, apperr.ErrDuplicateEmail):
		c.JSON(http.StatusBadRequest, gin.H{"message": "User already exists"})
	case errors.Is(err, apperr.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
	case errors.Is(err, apperr.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authorized"})
	case errors.Is(err, apperr.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"message": err.Error()})
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	default:
		log.Printf("internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error", "error": err.Error()})
	}
}
