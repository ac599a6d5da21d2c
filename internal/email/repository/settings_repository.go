package repository

import (
	"time"

	"mailtodo-backend/internal/email/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// gormMailSettingsRepository implements MailSettingsRepository using GORM
type gormMailSettingsRepository struct {
	db *gorm.DB
}

// NewGormMailSettingsRepository creates a new GORM-based MailSettingsRepository
func NewGormMailSettingsRepository(db *gorm.DB) MailSettingsRepository {
	return &gormMailSettingsRepository{db: db}
}

func (r *gormMailSettingsRepository) Get() (*domain.MailSettings, error) {
	var settings domain.MailSettings
	err := r.db.Order("updated_at DESC").First(&settings).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &settings, nil
}

func (r *gormMailSettingsRepository) Save(settings *domain.MailSettings) error {
	existing, err := r.Get()
	if err != nil {
		return err
	}
	if existing != nil {
		settings.ID = existing.ID
		settings.CreatedAt = existing.CreatedAt
	}
	if settings.ID == "" {
		settings.ID = uuid.New().String()
		settings.CreatedAt = time.Now()
	}
	settings.UpdatedAt = time.Now()
	return r.db.Save(settings).Error
}
