package bootstrap

import (
	"context"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	httpapi "github.com/tripnest/tripnest-backend/internal/api/http"
	apimw "github.com/tripnest/tripnest-backend/internal/api/http/middleware"
	"github.com/tripnest/tripnest-backend/internal/auth"
	authhttp "github.com/tripnest/tripnest-backend/internal/auth/http"
	authmw "github.com/tripnest/tripnest-backend/internal/auth/middleware"
	"github.com/tripnest/tripnest-backend/internal/auth/service"
	"github.com/tripnest/tripnest-backend/internal/backend"
	desthttp "github.com/tripnest/tripnest-backend/internal/destinations/http"
	destsvc "github.com/tripnest/tripnest-backend/internal/destinations/service"
	newshttp "github.com/tripnest/tripnest-backend/internal/newsletter/http"
	newssvc "github.com/tripnest/tripnest-backend/internal/newsletter/service"
	"github.com/tripnest/tripnest-backend/internal/session"
	"github.com/tripnest/tripnest-backend/internal/storage/objects"
	todohttp "github.com/tripnest/tripnest-backend/internal/todos/http"
	todosvc "github.com/tripnest/tripnest-backend/internal/todos/service"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	CORSOrigin  string
	Health      []httpapi.Dependency

	Factory      *backend.Factory
	Events       session.Source
	Profiles     *service.ProfileService
	Logins       *service.LoginService
	Todos        *todosvc.TodoService
	Destinations *destsvc.DestinationService
	Newsletter   *newssvc.NewsletterService
	Buckets      *objects.BucketService
}

// Deps collects the router dependencies from the container.
func (a *App) Deps(serviceName string) RouterDeps {
	return RouterDeps{
		ServiceName:  serviceName,
		Version:      a.Config.App.Version,
		CORSOrigin:   a.Config.Server.CORSOrigin,
		Health: []httpapi.Dependency{
			{Name: "postgres", Ping: a.DB.PingContext},
			{Name: "redis", Ping: func(ctx context.Context) error { return a.Redis.Ping(ctx).Err() }},
		},
		Factory:      a.Factory,
		Events:       a.Events,
		Profiles:     a.Profiles,
		Logins:       a.Logins,
		Todos:        a.Todos,
		Destinations: a.Destinations,
		Newsletter:   a.Newsletter,
		Buckets:      a.Buckets,
	}
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(apimw.RequestIDMiddleware(), apimw.Recovery(), corsMiddleware(dep.CORSOrigin))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Health...)
	healthHandler.RegisterRoutes(r)

	// 10 requests per minute per IP on password and newsletter endpoints
	strict := apimw.NewIPRateLimiter(rate.Every(6*time.Second), 10).Middleware()

	api := r.Group("/api")
	api.Use(auth.WithClient(dep.Factory))

	authhttp.New(dep.Profiles, dep.Logins, dep.Events).Register(api.Group("/auth"), strict)

	todos := api.Group("/todos")
	todos.Use(authmw.RequireSession())
	todohttp.New(dep.Todos).Register(todos)

	desthttp.New(dep.Destinations).Register(api.Group("/destinations"))
	newshttp.New(dep.Newsletter).Register(api.Group("/newsletter"), strict)
	objects.NewHandler(dep.Buckets).Register(api.Group("/storage"))

	return r
}

// corsMiddleware allows a comma-separated CORS_ORIGIN list, or any origin for "*".
func corsMiddleware(origin string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-Id"},
		ExposeHeaders:    []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	origin = strings.TrimSpace(origin)
	if origin == "" || origin == "*" {
		// credentials cannot be combined with a literal wildcard
		cfg.AllowOriginFunc = func(string) bool { return true }
	} else {
		for _, o := range strings.Split(origin, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowOrigins = append(cfg.AllowOrigins, o)
			}
		}
	}

	return cors.New(cfg)
}
