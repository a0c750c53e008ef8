package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tripnest/tripnest-backend/internal/destinations/domain"
)

func (h *Handler) list(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query"})
		return
	}

	items, err := h.svc.GetDestinations(c.Request.Context(), domain.Filters{
		Category: strings.TrimSpace(q.Category),
		Country:  strings.TrimSpace(q.Country),
		City:     strings.TrimSpace(q.City),
		Search:   strings.TrimSpace(q.Search),
	}, q.Limit, q.Offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"destinations": items})
}

func (h *Handler) get(c *gin.Context) {
	d := h.svc.GetDestinationByID(c.Request.Context(), c.Param("id"))
	if d == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "destination not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"destination": d})
}
