package http

import "github.com/tripnest/tripnest-backend/internal/todos/service"

type Handler struct {
	svc *service.TodoService
}

func New(svc *service.TodoService) *Handler {
	return &Handler{svc: svc}
}
