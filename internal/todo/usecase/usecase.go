package usecase

import "mailtodo-backend/internal/todo/domain"

// TodoUsecase defines todo business logic
type TodoUsecase interface {
	CreateTodo(task, memo, deadline string) (*domain.Todo, error)
	// GetTodos returns the "active" view (active + done, by sort order)
	// or the "trash" view
	GetTodos(view string) ([]*domain.Todo, error)
	// SetDeadline stores a new ISO deadline (empty clears it) and
	// recomputes the day count
	SetDeadline(id, deadline string) (*domain.Todo, error)
	SetCompleted(id string, done bool) (*domain.Todo, error)
	// DismissTodo suppresses a todo and feeds its title back as an
	// exclude keyword so similar mail stops surfacing
	DismissTodo(id string) error
	MoveToTrash(id string) error
	ReorderTodos(firstID, secondID string) error
	EmptyTrash() error
}
