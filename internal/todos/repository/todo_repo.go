package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/tripnest/tripnest-backend/internal/backend"
	"github.com/tripnest/tripnest-backend/internal/todos/domain"
)

const todoColumns = `id, user_id, title, description, due_date, completed, priority, related_destination_id, created_at, updated_at`

// TodoRepository runs todo statements on the querier it is given. Row
// visibility comes from the caller's transaction.
type TodoRepository struct{}

func NewTodoRepository() *TodoRepository {
	return &TodoRepository{}
}

// List returns every visible todo, earliest due date first.
func (r *TodoRepository) List(ctx context.Context, q backend.Querier) ([]domain.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos ORDER BY due_date ASC`
	return r.query(ctx, q, query)
}

// ListByUser filters on user_id explicitly, for callers that bypass row policies.
func (r *TodoRepository) ListByUser(ctx context.Context, q backend.Querier, userID string) ([]domain.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE user_id = $1 ORDER BY due_date ASC`
	return r.query(ctx, q, query, userID)
}

func (r *TodoRepository) Insert(ctx context.Context, q backend.Querier, t *domain.Todo) (*domain.Todo, error) {
	query := `
		INSERT INTO todos (id, user_id, title, description, due_date, completed, priority, related_destination_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + todoColumns

	return scanTodo(q.QueryRowContext(ctx, query,
		t.ID, t.UserID, t.Title, t.Description, t.DueDate, t.Completed, string(t.Priority),
		t.RelatedDestinationID, t.CreatedAt, t.UpdatedAt,
	))
}

// Update applies the supplied fields of patch; a nullable field set to null
// is written as NULL. An empty patch returns the row unchanged.
func (r *TodoRepository) Update(ctx context.Context, q backend.Querier, id string, patch domain.TodoPatch) (*domain.Todo, error) {
	var (
		sets []string
		args = []any{id}
	)
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Description.Set {
		add("description", patch.Description.Value)
	}
	if patch.DueDate.Set {
		add("due_date", patch.DueDate.Value)
	}
	if patch.Completed != nil {
		add("completed", *patch.Completed)
	}
	if patch.Priority != nil {
		add("priority", string(*patch.Priority))
	}
	if patch.RelatedDestinationID.Set {
		add("related_destination_id", patch.RelatedDestinationID.Value)
	}
	if patch.UpdatedAt != nil {
		add("updated_at", *patch.UpdatedAt)
	}

	var query string
	if len(sets) == 0 {
		query = `SELECT ` + todoColumns + ` FROM todos WHERE id = $1`
	} else {
		query = `UPDATE todos SET ` + strings.Join(sets, ", ") + ` WHERE id = $1 RETURNING ` + todoColumns
	}

	t, err := scanTodo(q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrTodoNotFound
	}
	return t, err
}

// Delete removes the todo. Deleting a row that is not there is not an error.
func (r *TodoRepository) Delete(ctx context.Context, q backend.Querier, id string) error {
	_, err := q.ExecContext(ctx, `DELETE FROM todos WHERE id = $1`, id)
	return err
}

func (r *TodoRepository) query(ctx context.Context, q backend.Querier, query string, args ...any) ([]domain.Todo, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Todo, 0)
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTodo(row rowScanner) (*domain.Todo, error) {
	var (
		t           domain.Todo
		description sql.NullString
		dueDate     sql.NullTime
		priority    string
		relatedID   sql.NullString
	)

	if err := row.Scan(&t.ID, &t.UserID, &t.Title, &description, &dueDate, &t.Completed,
		&priority, &relatedID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}

	t.Priority = domain.Priority(priority)
	if description.Valid {
		t.Description = &description.String
	}
	if dueDate.Valid {
		t.DueDate = &dueDate.Time
	}
	if relatedID.Valid {
		t.RelatedDestinationID = &relatedID.String
	}
	return &t, nil
}
