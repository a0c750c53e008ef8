package http

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tripnest/tripnest-backend/internal/auth"
	"github.com/tripnest/tripnest-backend/internal/auth/domain"
)

// Login signs in with a form-encoded email and password and sets the session cookie.
func (h *Handler) Login(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")
	if email == "" || password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	user, err := h.logins.Login(c.Request.Context(), auth.Client(c), email, password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid login credentials"})
			return
		}
		log.Printf("[login] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to sign in"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// Logout clears the session cookie.
func (h *Handler) Logout(c *gin.Context) {
	h.logins.Logout(c.Request.Context(), auth.Client(c))
	c.JSON(http.StatusOK, gin.H{"success": true})
}
