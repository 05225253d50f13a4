package handlers

import (
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"linklet/apperr"
	"linklet/models"
)

// Posts serves post creation, the public feed and the owner-gated
// mutations.
type Posts struct {
	Store PostStore

	// UploadDir is where image assets land; they are served back
	// under /uploads.
	UploadDir string
}

type EditPostRequest struct {
	Content string `json:"content"`
}

// Create handles the multipart post form: a content field plus an
// optional image file.
func (h *Posts) Create(c *gin.Context) {
	actorID, actorName, err := actor(c)
	if err != nil {
		respondError(c, err)
		return
	}

	content, err := models.ValidateContent(c.PostForm("content"))
	if err != nil {
		respondError(c, err)
		return
	}

	imageURL := ""
	if file, ferr := c.FormFile("image"); ferr == nil {
		imageURL, err = h.saveImage(c, file)
		if err != nil {
			respondError(c, err)
			return
		}
	}

	ctx, cancel := requestContext()
	defer cancel()

	post, err := h.Store.Create(ctx, actorID, actorName, content, imageURL)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

// List returns every post, newest first. Public.
func (h *Posts) List(c *gin.Context) {
	ctx, cancel := requestContext()
	defer cancel()

	posts, err := h.Store.ListAll(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

// ListByUser returns one author's posts, newest first. Public.
func (h *Posts) ListByUser(c *gin.Context) {
	authorID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user ID"})
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	posts, err := h.Store.ListByAuthor(ctx, authorID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

// Edit replaces a post's content. Owner only.
func (h *Posts) Edit(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, fmt.Errorf("post %w", apperr.ErrNotFound))
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
	if post.UserID != actorID {
		respondError(c, fmt.Errorf("%w: not allowed to edit this post", apperr.ErrForbidden))
		return
	}

	var req EditPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Post content is required"})
		return
	}
	content, err := models.ValidateContent(req.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	updated, err := h.Store.UpdateContent(ctx, postID, content)
	if err != nil {
		respondError(c, postNotFound(err))
		return
	}

	c.JSON(http.StatusOK, updated)
}

// Delete removes a post permanently. Owner only.
func (h *Posts) Delete(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, fmt.Errorf("post %w", apperr.ErrNotFound))
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
	if post.UserID != actorID {
		respondError(c, fmt.Errorf("%w: not allowed to delete this post", apperr.ErrForbidden))
		return
	}

	if err := h.Store.Delete(ctx, postID); err != nil {
		respondError(c, postNotFound(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

// ToggleLike flips the caller's like on a post and returns the
// post-toggle state. Repeating it converges, it never accumulates.
func (h *Posts) ToggleLike(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, fmt.Errorf("post %w", apperr.ErrNotFound))
		return
	}

	actorID, _, err := actor(c)
	if err != nil {
		respondError(c, err)
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	post, err := h.Store.ToggleLike(ctx, postID, actorID)
	if err != nil {
		respondError(c, postNotFound(err))
		return
	}

	c.JSON(http.StatusOK, post)
}

func postNotFound(err error) error {
	if errors.Is(err, apperr.ErrNotFound) {
		return fmt.Errorf("post %w", apperr.ErrNotFound)
	}
	return err
}

// saveImage stores an uploaded asset under a generated unique
// filename and returns the public path it will be served from.
func (h *Posts) saveImage(c *gin.Context, file *multipart.FileHeader) (string, error) {
	name := uuid.NewString() + filepath.Ext(file.Filename)
	dst := filepath.Join(h.UploadDir, name)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		log.Printf("saveImage: %v", err)
		return "", err
	}
	return "/uploads/" + name, nil
}
