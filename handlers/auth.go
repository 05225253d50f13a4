package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"linklet/apperr"
	"linklet/auth"
)

// Auth serves signup, login and the current-user lookup.
type Auth struct {
	Users  UserStore
	Secret []byte
}

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Auth) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Please provide all fields"})
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	user, err := h.Users.Create(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := auth.IssueToken(user.ID.Hex(), h.Secret, auth.TokenTTL)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user":  user.Public(),
	})
}

func (h *Auth) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Please provide email and password"})
		return
	}
	if req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Please provide email and password"})
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	user, err := h.Users.FindByEmail(ctx, req.Email)
	if err != nil {
		// An unknown email answers exactly like a wrong password.
		if errors.Is(err, apperr.ErrNotFound) {
			respondError(c, apperr.ErrInvalidCredentials)
			return
		}
		respondError(c, err)
		return
	}

	if !user.CheckPassword(req.Password) {
		respondError(c, apperr.ErrInvalidCredentials)
		return
	}

	token, err := auth.IssueToken(user.ID.Hex(), h.Secret, auth.TokenTTL)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user.Public(),
	})
}

// Me returns the authenticated user's record.
func (h *Auth) Me(c *gin.Context) {
	actorID, _, err := actor(c)
	if err != nil {
		respondError(c, err)
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	user, err := h.Users.FindByID(ctx, actorID)
	if err != nil {
		// The guard resolved this user moments ago; if it is gone
		// now the session is no longer valid.
		if errors.Is(err, apperr.ErrNotFound) {
			respondError(c, apperr.ErrUnauthenticated)
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user.Public()})
}
