package repository

import "mailtodo-backend/internal/todo/domain"

// TodoRepository defines the interface for todo storage operations
type TodoRepository interface {
	Create(todo *domain.Todo) error
	// Insert a todo, ignoring it when its email hash is already present.
	// Returns whether a row was actually inserted.
	CreateIgnoreDuplicate(todo *domain.Todo) (bool, error)
	FindByID(id string) (*domain.Todo, error)
	// Active and done todos, by sort order
	FindActive() ([]*domain.Todo, error)
	FindTrashed() ([]*domain.Todo, error)
	ExistsByEmailHash(hash string) (bool, error)
	Update(todo *domain.Todo) error
	UpdateStatus(id string, status domain.TodoStatus) error
	// Swap the sort order of two todos in one transaction
	SwapSortOrder(firstID, secondID string) error
	MaxSortOrder() (int, error)
	// Permanently remove everything in the trash
	DeleteTrashed() error
}
