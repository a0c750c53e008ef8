package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tripnest/tripnest-backend/config"
	"github.com/tripnest/tripnest-backend/internal/auth"
	authrepo "github.com/tripnest/tripnest-backend/internal/auth/repository"
	authsvc "github.com/tripnest/tripnest-backend/internal/auth/service"
	"github.com/tripnest/tripnest-backend/internal/backend"
	todorepo "github.com/tripnest/tripnest-backend/internal/todos/repository"
	todosvc "github.com/tripnest/tripnest-backend/internal/todos/service"
)

// Worker is the admin-only container used by cmd/worker. It needs no Redis;
// profile events are dropped.
type Worker struct {
	DB       *sql.DB
	Profiles *authsvc.ProfileService
	Todos    *todosvc.TodoService
}

func NewWorker(ctx context.Context, cfg *config.Config) (*Worker, error) {
	db, err := OpenDB(ctx, &cfg.Backend, cfg.App.Environment, DBOptions{})
	if err != nil {
		return nil, err
	}

	fbAuth, err := auth.InitializeFirebase(ctx, &cfg.Backend)
	if err != nil {
		db.Close()
		return nil, err
	}
	identities := auth.NewIdentities(fbAuth)

	factory, err := backend.NewFactory(db, identities, backend.Options{
		URL:            cfg.Backend.URL,
		AnonKey:        cfg.Backend.AnonKey,
		ServiceRoleKey: cfg.Backend.ServiceRoleKey,
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("backend factory: %w", err)
	}
	admin, err := factory.Admin()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("admin client: %w", err)
	}

	return &Worker{
		DB:       db,
		Profiles: authsvc.NewProfileService(authrepo.NewProfileRepository(), admin, identities, nil),
		Todos:    todosvc.NewTodoService(todorepo.NewTodoRepository(), admin),
	}, nil
}

func (w *Worker) Close() {
	w.DB.Close()
}
