package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/highimexy/Bugly/internal/tracker/domain"
)

// UserFinder is the slice of UserRepo the login handler needs.
type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
}

// Handler serves POST /login.
type Handler struct {
	users    UserFinder
	secret   string
	tokenTTL time.Duration
}

func NewHandler(users UserFinder, secret string, tokenTTL time.Duration) *Handler {
	return &Handler{users: users, secret: secret, tokenTTL: tokenTTL}
}

type loginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login exchanges email/password for a bearer token. Unknown users and bad
// passwords are indistinguishable to the caller.
func (h *Handler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	user, err := h.users.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		log.Error().Err(err).Msg("login lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	if !user.CheckPassword(req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := GenerateToken(h.secret, user.Email, h.tokenTTL)
	if err != nil {
		log.Error().Err(err).Msg("token generation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
