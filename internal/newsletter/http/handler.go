package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	httpapi "github.com/tripnest/tripnest-backend/internal/api/http"
	"github.com/tripnest/tripnest-backend/internal/newsletter/domain"
	"github.com/tripnest/tripnest-backend/internal/newsletter/service"
)

type Handler struct {
	svc *service.NewsletterService
}

func New(svc *service.NewsletterService) *Handler {
	return &Handler{svc: svc}
}

// Register attaches the newsletter routes. limit guards subscribe.
func (h *Handler) Register(rg *gin.RouterGroup, limit gin.HandlerFunc) {
	rg.POST("/subscribe", limit, h.subscribe)
}

type subscribeReq struct {
	Email string `json:"email"`
}

func (h *Handler) subscribe(c *gin.Context) {
	var req subscribeReq
	if err := httpapi.BindStrictJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	err := h.svc.Subscribe(c.Request.Context(), req.Email)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"success": true})
	case errors.Is(err, domain.ErrInvalidEmail):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrAlreadySubscribed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
