package http

import (
	"github.com/tripnest/tripnest-backend/internal/auth/service"
	"github.com/tripnest/tripnest-backend/internal/session"
)

type Handler struct {
	profiles *service.ProfileService
	logins   *service.LoginService
	events   session.Source
}

func New(profiles *service.ProfileService, logins *service.LoginService, events session.Source) *Handler {
	return &Handler{
		profiles: profiles,
		logins:   logins,
		events:   events,
	}
}
