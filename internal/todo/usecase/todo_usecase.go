package usecase

import (
	"errors"
	"log"
	"time"

	keywordusecase "mailtodo-backend/internal/keyword/usecase"
	"mailtodo-backend/internal/todo/domain"
	"mailtodo-backend/internal/todo/repository"
)

// todoUsecase implements TodoUsecase
type todoUsecase struct {
	todoRepo       repository.TodoRepository
	keywordUsecase keywordusecase.KeywordUsecase
}

// NewTodoUsecase creates a new instance of todoUsecase
func NewTodoUsecase(todoRepo repository.TodoRepository, keywordUsecase keywordusecase.KeywordUsecase) TodoUsecase {
	return &todoUsecase{
		todoRepo:       todoRepo,
		keywordUsecase: keywordUsecase,
	}
}

func (u *todoUsecase) CreateTodo(task, memo, deadline string) (*domain.Todo, error) {
	if task == "" {
		return nil, errors.New("task is empty")
	}

	maxOrder, err := u.todoRepo.MaxSortOrder()
	if err != nil {
		return nil, err
	}

	todo := &domain.Todo{
		Task:      task,
		Memo:      memo,
		Deadline:  deadline,
		DDay:      domain.DDayFor(deadline, time.Now()),
		Status:    domain.TodoStatusActive,
		SortOrder: maxOrder + 1,
	}
	if err := u.todoRepo.Create(todo); err != nil {
		return nil, err
	}
	return todo, nil
}

func (u *todoUsecase) GetTodos(view string) ([]*domain.Todo, error) {
	if view == "trash" {
		return u.todoRepo.FindTrashed()
	}
	return u.todoRepo.FindActive()
}

func (u *todoUsecase) SetDeadline(id, deadline string) (*domain.Todo, error) {
	todo, err := u.getTodo(id)
	if err != nil {
		return nil, err
	}

	todo.Deadline = deadline
	todo.DDay = domain.DDayFor(deadline, time.Now())
	if err := u.todoRepo.Update(todo); err != nil {
		return nil, err
	}
	return todo, nil
}

func (u *todoUsecase) SetCompleted(id string, done bool) (*domain.Todo, error) {
	todo, err := u.getTodo(id)
	if err != nil {
		return nil, err
	}

	if done {
		todo.Status = domain.TodoStatusDone
	} else {
		todo.Status = domain.TodoStatusActive
	}
	if err := u.todoRepo.Update(todo); err != nil {
		return nil, err
	}
	return todo, nil
}

func (u *todoUsecase) DismissTodo(id string) error {
	todo, err := u.getTodo(id)
	if err != nil {
		return err
	}

	// The keyword goes in first so the very next classification pass
	// already honors the dismissal.
	if err := u.keywordUsecase.AddExcludeKeyword(todo.Task); err != nil {
		return err
	}
	if err := u.todoRepo.UpdateStatus(todo.ID, domain.TodoStatusSuppressed); err != nil {
		return err
	}

	log.Printf("[Todo] Dismissed %q, title captured as exclude keyword", todo.Task)
	return nil
}

func (u *todoUsecase) MoveToTrash(id string) error {
	todo, err := u.getTodo(id)
	if err != nil {
		return err
	}
	return u.todoRepo.UpdateStatus(todo.ID, domain.TodoStatusTrashed)
}

func (u *todoUsecase) ReorderTodos(firstID, secondID string) error {
	return u.todoRepo.SwapSortOrder(firstID, secondID)
}

func (u *todoUsecase) EmptyTrash() error {
	return u.todoRepo.DeleteTrashed()
}

func (u *todoUsecase) getTodo(id string) (*domain.Todo, error) {
	todo, err := u.todoRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if todo == nil {
		return nil, errors.New("todo not found")
	}
	return todo, nil
}
