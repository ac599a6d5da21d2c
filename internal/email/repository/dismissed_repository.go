package repository

import (
	"time"

	"mailtodo-backend/internal/email/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// gormDismissedEmailRepository implements DismissedEmailRepository using GORM
type gormDismissedEmailRepository struct {
	db *gorm.DB
}

// NewGormDismissedEmailRepository creates a new GORM-based DismissedEmailRepository
func NewGormDismissedEmailRepository(db *gorm.DB) DismissedEmailRepository {
	return &gormDismissedEmailRepository{db: db}
}

func (r *gormDismissedEmailRepository) Create(record *domain.DismissedEmail) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	record.CreatedAt = time.Now()
	return r.db.Create(record).Error
}

func (r *gormDismissedEmailRepository) AllNormalizedSubjects() ([]string, error) {
	var subjects []string
	err := r.db.Model(&domain.DismissedEmail{}).
		Pluck("normalized_subject", &subjects).Error
	return subjects, err
}
