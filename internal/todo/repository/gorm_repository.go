package repository

import (
	"time"

	"mailtodo-backend/internal/todo/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// gormTodoRepository implements TodoRepository using GORM
type gormTodoRepository struct {
	db *gorm.DB
}

// NewGormTodoRepository creates a new GORM-based TodoRepository
func NewGormTodoRepository(db *gorm.DB) TodoRepository {
	return &gormTodoRepository{db: db}
}

func (r *gormTodoRepository) Create(todo *domain.Todo) error {
	if todo.ID == "" {
		todo.ID = uuid.New().String()
	}
	todo.CreatedAt = time.Now()
	todo.UpdatedAt = time.Now()
	return r.db.Create(todo).Error
}

func (r *gormTodoRepository) CreateIgnoreDuplicate(todo *domain.Todo) (bool, error) {
	if todo.ID == "" {
		todo.ID = uuid.New().String()
	}
	todo.CreatedAt = time.Now()
	todo.UpdatedAt = time.Now()

	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email_hash"}},
		DoNothing: true,
	}).Create(todo)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *gormTodoRepository) FindByID(id string) (*domain.Todo, error) {
	var todo domain.Todo
	err := r.db.Where("id = ?", id).First(&todo).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &todo, nil
}

func (r *gormTodoRepository) FindActive() ([]*domain.Todo, error) {
	var todos []*domain.Todo
	err := r.db.Where("status IN ?", []domain.TodoStatus{domain.TodoStatusActive, domain.TodoStatusDone}).
		Order("sort_order ASC, created_at ASC").Find(&todos).Error
	return todos, err
}

func (r *gormTodoRepository) FindTrashed() ([]*domain.Todo, error) {
	var todos []*domain.Todo
	err := r.db.Where("status = ?", domain.TodoStatusTrashed).
		Order("updated_at DESC").Find(&todos).Error
	return todos, err
}

func (r *gormTodoRepository) ExistsByEmailHash(hash string) (bool, error) {
	var count int64
	err := r.db.Model(&domain.Todo{}).Where("email_hash = ?", hash).Count(&count).Error
	return count > 0, err
}

func (r *gormTodoRepository) Update(todo *domain.Todo) error {
	todo.UpdatedAt = time.Now()
	return r.db.Save(todo).Error
}

func (r *gormTodoRepository) UpdateStatus(id string, status domain.TodoStatus) error {
	return r.db.Model(&domain.Todo{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}

func (r *gormTodoRepository) SwapSortOrder(firstID, secondID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var first, second domain.Todo
		if err := tx.Where("id = ?", firstID).First(&first).Error; err != nil {
			return err
		}
		if err := tx.Where("id = ?", secondID).First(&second).Error; err != nil {
			return err
		}
		if err := tx.Model(&domain.Todo{}).Where("id = ?", first.ID).
			Update("sort_order", second.SortOrder).Error; err != nil {
			return err
		}
		return tx.Model(&domain.Todo{}).Where("id = ?", second.ID).
			Update("sort_order", first.SortOrder).Error
	})
}

func (r *gormTodoRepository) MaxSortOrder() (int, error) {
	var max *int
	err := r.db.Model(&domain.Todo{}).Select("MAX(sort_order)").Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}

func (r *gormTodoRepository) DeleteTrashed() error {
	return r.db.Where("status = ?", domain.TodoStatusTrashed).Delete(&domain.Todo{}).Error
}
