package http

import "github.com/tripnest/tripnest-backend/internal/destinations/service"

type Handler struct {
	svc *service.DestinationService
}

func New(svc *service.DestinationService) *Handler {
	return &Handler{svc: svc}
}

type listQuery struct {
	Category string `form:"category"`
	Country  string `form:"country"`
	City     string `form:"city"`
	Search   string `form:"search"`
	Limit    int    `form:"limit"`
	Offset   int    `form:"offset"`
}
