package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/tripnest/tripnest-backend/config"
	"github.com/tripnest/tripnest-backend/internal/auth"
	authrepo "github.com/tripnest/tripnest-backend/internal/auth/repository"
	authsvc "github.com/tripnest/tripnest-backend/internal/auth/service"
	"github.com/tripnest/tripnest-backend/internal/backend"
	destrepo "github.com/tripnest/tripnest-backend/internal/destinations/repository"
	destsvc "github.com/tripnest/tripnest-backend/internal/destinations/service"
	newsrepo "github.com/tripnest/tripnest-backend/internal/newsletter/repository"
	newssvc "github.com/tripnest/tripnest-backend/internal/newsletter/service"
	"github.com/tripnest/tripnest-backend/internal/session"
	"github.com/tripnest/tripnest-backend/internal/storage/objects"
	todorepo "github.com/tripnest/tripnest-backend/internal/todos/repository"
	todosvc "github.com/tripnest/tripnest-backend/internal/todos/service"
)

// App holds the long-lived clients and services. Everything is built once at
// startup; a missing dependency fails construction.
type App struct {
	Config *config.Config

	DB      *sql.DB
	Redis   *redis.Client
	Factory *backend.Factory
	Admin   *backend.Client
	Events  *session.RedisBus

	Profiles     *authsvc.ProfileService
	Logins       *authsvc.LoginService
	Todos        *todosvc.TodoService
	Destinations *destsvc.DestinationService
	Newsletter   *newssvc.NewsletterService
	Buckets      *objects.BucketService
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := OpenDB(ctx, &cfg.Backend, cfg.App.Environment, DBOptions{})
	if err != nil {
		return nil, err
	}

	rdb, err := OpenRedis(ctx, cfg.Redis)
	if err != nil {
		db.Close()
		return nil, err
	}

	app := &App{Config: cfg, DB: db, Redis: rdb}
	if err := app.wire(ctx); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

func (a *App) wire(ctx context.Context) error {
	cfg := a.Config

	fbAuth, err := auth.InitializeFirebase(ctx, &cfg.Backend)
	if err != nil {
		return err
	}
	identities := auth.NewIdentities(fbAuth)

	a.Factory, err = backend.NewFactory(a.DB, identities, backend.Options{
		URL:               cfg.Backend.URL,
		AnonKey:           cfg.Backend.AnonKey,
		ServiceRoleKey:    cfg.Backend.ServiceRoleKey,
		SessionCookieName: cfg.Session.CookieName,
		SessionTTL:        cfg.Session.TTL,
		SecureCookies:     cfg.Session.Secure,
	})
	if err != nil {
		return fmt.Errorf("backend factory: %w", err)
	}

	a.Admin, err = a.Factory.Admin()
	if err != nil {
		return fmt.Errorf("admin client: %w", err)
	}

	a.Events = session.NewRedisBus(a.Redis)

	a.Profiles = authsvc.NewProfileService(authrepo.NewProfileRepository(), a.Admin, identities, a.Events)
	a.Logins = authsvc.NewLoginService(
		auth.NewPasswordSignIn("", cfg.Backend.AnonKey),
		identities,
		a.Events,
		a.Factory.SessionTTL(),
	)
	a.Todos = todosvc.NewTodoService(todorepo.NewTodoRepository(), a.Admin)
	a.Destinations = destsvc.NewDestinationService(
		destrepo.NewDestinationRepository(),
		destrepo.NewDestinationCache(a.Redis, destrepo.DestinationCacheTTL),
		a.Factory.Public(),
	)
	a.Newsletter = newssvc.NewNewsletterService(
		newsrepo.NewSubscriberRepository(),
		a.Factory.Public(),
		newssvc.NewSendGridMailer(cfg.Newsletter.SendGridAPIKey, cfg.Newsletter.FromName, cfg.Newsletter.FromEmail),
	)

	s3Client, err := objects.NewS3Client(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	a.Buckets = objects.NewBucketService(objects.NewS3Store(s3Client, cfg.Storage.Region), objects.ImagesBucket(cfg.Storage.Bucket))

	return nil
}

func (a *App) Close() {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			log.Printf("[bootstrap] redis close: %v", err)
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			log.Printf("[bootstrap] db close: %v", err)
		}
	}
}
