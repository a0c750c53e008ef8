package http

import "github.com/gin-gonic/gin"

// Register attaches the auth routes. The group must run auth.WithClient.
// loginLimit guards the password endpoint.
func (h *Handler) Register(rg *gin.RouterGroup, loginLimit gin.HandlerFunc) {
	rg.POST("/create-profile", h.CreateProfile)
	rg.POST("/login", loginLimit, h.Login)
	rg.POST("/logout", h.Logout)
	rg.POST("/profile", h.UpsertProfile)
	rg.POST("/update-profile", h.UpdateProfile)
	rg.GET("/verify-linkage", h.VerifyLinkage)
	rg.GET("/me", h.Me)
	rg.GET("/session/stream", h.StreamSession)
}
