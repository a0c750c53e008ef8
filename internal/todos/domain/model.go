package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"
)

// Failure messages surfaced to callers. The underlying cause is only logged.
var (
	ErrFetchTodos   = errors.New("Failed to fetch todos")
	ErrCreateTodo   = errors.New("Failed to create todo")
	ErrUpdateTodo   = errors.New("Failed to update todo")
	ErrDeleteTodo   = errors.New("Failed to delete todo")
	ErrTodoNotFound = errors.New("todo not found")

	ErrUnauthenticated = errors.New("user not authenticated")
	ErrTitleRequired   = errors.New("title is required")
	ErrInvalidPriority = errors.New("priority must be one of low, medium, high")
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type Todo struct {
	ID                   string     `json:"id" db:"id"`
	UserID               string     `json:"user_id" db:"user_id"`
	Title                string     `json:"title" db:"title"`
	Description          *string    `json:"description" db:"description"`
	DueDate              *time.Time `json:"due_date" db:"due_date"`
	Completed            bool       `json:"completed" db:"completed"`
	Priority             Priority   `json:"priority" db:"priority"`
	RelatedDestinationID *string    `json:"related_destination_id" db:"related_destination_id"`
	CreatedAt            time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at" db:"updated_at"`
}

// NewTodo is the caller-supplied part of a todo. Id, owner and timestamps are assigned by the server.
type NewTodo struct {
	Title                string     `json:"title"`
	Description          *string    `json:"description,omitempty"`
	DueDate              *time.Time `json:"due_date,omitempty"`
	Completed            bool       `json:"completed,omitempty"`
	Priority             Priority   `json:"priority,omitempty"`
	RelatedDestinationID *string    `json:"related_destination_id,omitempty"`
}

// Nullable is a patch field that can be absent, set to a value, or set to
// null. Value is nil for an explicit null.
type Nullable[T any] struct {
	Set   bool
	Value *T
}

func Some[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Value: &v}
}

func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}

func (n *Nullable[T]) UnmarshalJSON(b []byte) error {
	n.Set = true
	if bytes.Equal(b, []byte("null")) {
		n.Value = nil
		return nil
	}

	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

// TodoPatch holds the fields an update changes. Absent fields are left alone,
// including updated_at. Description, due date and destination link are
// cleared by an explicit null; a null title, completed or priority counts as absent.
type TodoPatch struct {
	Title                *string             `json:"title,omitempty"`
	Description          Nullable[string]    `json:"description"`
	DueDate              Nullable[time.Time] `json:"due_date"`
	Completed            *bool               `json:"completed,omitempty"`
	Priority             *Priority           `json:"priority,omitempty"`
	RelatedDestinationID Nullable[string]    `json:"related_destination_id"`
	UpdatedAt            *time.Time          `json:"updated_at,omitempty"`
}

func (p TodoPatch) Empty() bool {
	return p.Title == nil && !p.Description.Set && !p.DueDate.Set && p.Completed == nil &&
		p.Priority == nil && !p.RelatedDestinationID.Set && p.UpdatedAt == nil
}
