package service

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tripnest/tripnest-backend/internal/backend"
	"github.com/tripnest/tripnest-backend/internal/todos/domain"
	"github.com/tripnest/tripnest-backend/internal/todos/repository"
)

type TodoService struct {
	repo  *repository.TodoRepository
	admin *backend.Client
	now   func() time.Time
	newID func() string
}

// NewTodoService wires the service. admin may be nil when GetUserTodosServer is not needed.
func NewTodoService(repo *repository.TodoRepository, admin *backend.Client) *TodoService {
	return &TodoService{
		repo:  repo,
		admin: admin,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

// List returns the session user's todos ordered by due date.
func (s *TodoService) List(ctx context.Context, client *backend.Client) ([]domain.Todo, error) {
	if client.User(ctx) == nil {
		return nil, domain.ErrUnauthenticated
	}

	var out []domain.Todo
	err := client.WithTx(ctx, func(tx *sql.Tx) error {
		var err error
		out, err = s.repo.List(ctx, tx)
		return err
	})
	if err != nil {
		log.Printf("[todos] list: %v", err)
		return nil, domain.ErrFetchTodos
	}
	return out, nil
}

// Create stores a todo owned by the session user.
func (s *TodoService) Create(ctx context.Context, client *backend.Client, in domain.NewTodo) (*domain.Todo, error) {
	u := client.User(ctx)
	if u == nil {
		return nil, domain.ErrUnauthenticated
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.ErrTitleRequired
	}
	priority := in.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if !priority.Valid() {
		return nil, domain.ErrInvalidPriority
	}

	now := s.now()
	todo := &domain.Todo{
		ID:                   s.newID(),
		UserID:               u.ID,
		Title:                title,
		Description:          in.Description,
		DueDate:              in.DueDate,
		Completed:            in.Completed,
		Priority:             priority,
		RelatedDestinationID: in.RelatedDestinationID,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	var out *domain.Todo
	err := client.WithTx(ctx, func(tx *sql.Tx) error {
		var err error
		out, err = s.repo.Insert(ctx, tx, todo)
		return err
	})
	if err != nil {
		log.Printf("[todos] create for %s: %v", u.ID, err)
		return nil, domain.ErrCreateTodo
	}
	return out, nil
}

// Update applies a partial change to one of the session user's todos.
func (s *TodoService) Update(ctx context.Context, client *backend.Client, id string, patch domain.TodoPatch) (*domain.Todo, error) {
	if client.User(ctx) == nil {
		return nil, domain.ErrUnauthenticated
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, domain.ErrTitleRequired
	}
	if patch.Priority != nil && !patch.Priority.Valid() {
		return nil, domain.ErrInvalidPriority
	}
	if !validID(id) {
		return nil, domain.ErrTodoNotFound
	}

	var out *domain.Todo
	err := client.WithTx(ctx, func(tx *sql.Tx) error {
		var err error
		out, err = s.repo.Update(ctx, tx, id, patch)
		return err
	})
	if errors.Is(err, domain.ErrTodoNotFound) {
		return nil, err
	}
	if err != nil {
		log.Printf("[todos] update %s: %v", id, err)
		return nil, domain.ErrUpdateTodo
	}
	return out, nil
}

// Delete removes one of the session user's todos. A missing or malformed id succeeds.
func (s *TodoService) Delete(ctx context.Context, client *backend.Client, id string) error {
	if client.User(ctx) == nil {
		return domain.ErrUnauthenticated
	}
	if !validID(id) {
		return nil
	}

	err := client.WithTx(ctx, func(tx *sql.Tx) error {
		return s.repo.Delete(ctx, tx, id)
	})
	if err != nil {
		log.Printf("[todos] delete %s: %v", id, err)
		return domain.ErrDeleteTodo
	}
	return nil
}

// validID reports whether id has the canonical uuid form todo ids are issued
// in. The column is a uuid, so any other string cannot match a row.
func validID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

// GetUserTodosServer lists a user's todos with admin privileges. Row policies
// do not apply, so the user filter is explicit.
func (s *TodoService) GetUserTodosServer(ctx context.Context, userID string) ([]domain.Todo, error) {
	if s.admin == nil {
		return nil, backend.ErrMissingServiceRoleKey
	}
	db, err := s.admin.DB()
	if err != nil {
		return nil, err
	}

	out, err := s.repo.ListByUser(ctx, db, userID)
	if err != nil {
		log.Printf("[todos] server list for %s: %v", userID, err)
		return nil, domain.ErrFetchTodos
	}
	return out, nil
}
