package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sahanw/restopos/config"
	"github.com/sahanw/restopos/internal/user"
)

type AuthHandler struct {
	users *user.Service
	jwt   config.JWTConfig
}

func NewAuthHandler(users *user.Service, jwt config.JWTConfig) *AuthHandler {
	return &AuthHandler{users: users, jwt: jwt}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	u, err := h.users.Authenticate(c.Request.Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, user.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	case errors.Is(err, user.ErrInactive):
		c.JSON(http.StatusForbidden, gin.H{"error": "account is disabled"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	token, err := user.GenerateToken(u, h.jwt.SecretKey, h.jwt.TTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": u})
}
