package http

import "github.com/gin-gonic/gin"

// Register attaches the todo routes. The group must run auth.WithClient and
// middleware.RequireSession.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.POST("", h.create)
	rg.PATCH("/:id", h.update)
	rg.DELETE("/:id", h.delete)
}
