package http

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	httpapi "github.com/tripnest/tripnest-backend/internal/api/http"
	"github.com/tripnest/tripnest-backend/internal/auth"
	"github.com/tripnest/tripnest-backend/internal/auth/domain"
)

type createProfileReq struct {
	UserID   string  `json:"userId"`
	FullName *string `json:"fullName,omitempty"`
	Email    *string `json:"email,omitempty"`
}

// CreateProfile creates or updates a profile with admin privileges.
func (h *Handler) CreateProfile(c *gin.Context) {
	var req createProfileReq
	if err := httpapi.BindStrictJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User ID is required"})
		return
	}

	profile, action, err := h.profiles.CreateOrUpdate(c.Request.Context(), domain.CreateProfileRequest{
		UserID:   strings.TrimSpace(req.UserID),
		FullName: req.FullName,
		Email:    req.Email,
	})
	if err != nil {
		log.Printf("[create-profile] user=%s: %v", req.UserID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create or update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "profile": profile, "action": action})
}

type upsertProfileReq struct {
	UserID   string `json:"userId"`
	UserData struct {
		FullName string `json:"full_name"`
		Email    string `json:"email"`
	} `json:"userData"`
}

// UpsertProfile upserts the profile of the session user named in the body.
func (h *Handler) UpsertProfile(c *gin.Context) {
	var req upsertProfileReq
	if err := httpapi.BindStrictJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	profile, err := h.profiles.UpsertForSession(c.Request.Context(), auth.Client(c), req.UserID, domain.ProfileData{
		FullName: req.UserData.FullName,
		Email:    req.UserData.Email,
	})
	if err != nil {
		if errors.Is(err, domain.ErrSessionMismatch) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		log.Printf("[profile] user=%s: %v", req.UserID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

type updateProfileReq struct {
	FullName  string  `json:"fullName"`
	AvatarURL *string `json:"avatarUrl"`
}

// UpdateProfile updates name and avatar of the session user.
func (h *Handler) UpdateProfile(c *gin.Context) {
	if auth.UserFirebaseUID(c) == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req updateProfileReq
	if err := httpapi.BindStrictJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	rows, err := h.profiles.UpdateOwn(c.Request.Context(), auth.Client(c), domain.UpdateProfileRequest{
		FullName:  req.FullName,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUnauthenticated) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		log.Printf("[update-profile] user=%s: %v", auth.UserFirebaseUID(c), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "profile": rows})
}

// Me returns the session user and their profile, if any.
func (h *Handler) Me(c *gin.Context) {
	user, profile, err := h.profiles.GetForSession(c.Request.Context(), auth.Client(c))
	if err != nil {
		if errors.Is(err, domain.ErrUnauthenticated) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			return
		}
		log.Printf("[me] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "profile": profile})
}

// VerifyLinkage reports whether sampled identities have profiles.
func (h *Handler) VerifyLinkage(c *gin.Context) {
	report, err := h.profiles.VerifyLinkage(c.Request.Context())
	if err != nil {
		log.Printf("[verify-linkage] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch auth users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"results":   report.Results,
		"allLinked": report.AllLinked,
	})
}
