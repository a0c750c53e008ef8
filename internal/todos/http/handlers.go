package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	httpapi "github.com/tripnest/tripnest-backend/internal/api/http"
	"github.com/tripnest/tripnest-backend/internal/auth"
	"github.com/tripnest/tripnest-backend/internal/todos/domain"
)

func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), auth.Client(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"todos": items})
}

func (h *Handler) create(c *gin.Context) {
	var req domain.NewTodo
	if err := httpapi.BindStrictJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	todo, err := h.svc.Create(c.Request.Context(), auth.Client(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"todo": todo})
}

func (h *Handler) update(c *gin.Context) {
	var req domain.TodoPatch
	if err := httpapi.BindStrictJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	todo, err := h.svc.Update(c.Request.Context(), auth.Client(c), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"todo": todo})
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), auth.Client(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrTitleRequired), errors.Is(err, domain.ErrInvalidPriority):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrTodoNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
