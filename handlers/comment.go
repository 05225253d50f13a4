package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"linklet/apperr"
	"linklet/models"
)

type AddCommentRequest struct {
	Text string `json:"text"`
}

// AddComment appends a comment to a post. Any authenticated user may
// comment on any post.
func (h *Posts) AddComment(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, fmt.Errorf("post %w", apperr.ErrNotFound))
		return
	}

	actorID, actorName, err := actor(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Comment text is required"})
		return
	}
	text, err := models.ValidateCommentText(req.Text)
	if err != nil {
		respondError(c, err)
		return
	}

	comment := models.Comment{
		ID:        primitive.NewObjectID(),
		UserID:    actorID,
		Username:  actorName,
		Text:      text,
		CreatedAt: time.Now(),
	}

	ctx, cancel := requestContext()
	defer cancel()

	post, err := h.Store.AddComment(ctx, postID, comment)
	if err != nil {
		respondError(c, postNotFound(err))
		return
	}

	c.JSON(http.StatusCreated, post)
}

// RemoveComment deletes a comment. Allowed for the comment's author
// and for the post's owner, nobody else.
func (h *Posts) RemoveComment(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, fmt.Errorf("post %w", apperr.ErrNotFound))
		return
	}
	commentID, err := primitive.ObjectIDFromHex(c.Param("commentId"))
	if err != nil {
		respondError(c, fmt.Errorf("comment %w", apperr.ErrNotFound))
		return
	}

	actorID, _, err := actor(c)
	if err != nil {
		respondError(c, err)
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	post, err := h.Store.GetByID(ctx, postID)
	if err != nil {
		respondError(c, postNotFound(err))
		return
	}

	var comment *models.Comment
	for i := range post.Comments {
		if post.Comments[i].ID == commentID {
			comment = &post.Comments[i]
			break
		}
	}
	if comment == nil {
		respondError(c, fmt.Errorf("comment %w", apperr.ErrNotFound))
		return
	}

	if comment.UserID != actorID && post.UserID != actorID {
		respondError(c, fmt.Errorf("%w: not allowed to delete this comment", apperr.ErrForbidden))
		return
	}

	updated, err := h.Store.RemoveComment(ctx, postID, commentID)
	if err != nil {
		// A concurrent delete may have won the race since the read.
		if errors.Is(err, apperr.ErrNotFound) {
			respondError(c, fmt.Errorf("comment %w", apperr.ErrNotFound))
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}
