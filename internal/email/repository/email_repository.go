package repository

import (
	"time"

	"mailtodo-backend/internal/email/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// gormEmailRepository implements EmailRepository using GORM
type gormEmailRepository struct {
	db *gorm.DB
}

// NewGormEmailRepository creates a new GORM-based EmailRepository
func NewGormEmailRepository(db *gorm.DB) EmailRepository {
	return &gormEmailRepository{db: db}
}

func (r *gormEmailRepository) CreateIgnoreDuplicate(email *domain.Email) (bool, error) {
	if email.ID == "" {
		email.ID = uuid.New().String()
	}
	email.CreatedAt = time.Now()
	email.UpdatedAt = time.Now()

	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "content_hash"}},
		DoNothing: true,
	}).Create(email)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *gormEmailRepository) FindByID(id string) (*domain.Email, error) {
	var email domain.Email
	err := r.db.Where("id = ?", id).First(&email).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &email, nil
}

func (r *gormEmailRepository) FindByStatus(status domain.EmailStatus) ([]*domain.Email, error) {
	var emails []*domain.Email
	err := r.db.Where("status = ?", status).
		Order("received_at DESC").Find(&emails).Error
	return emails, err
}

func (r *gormEmailRepository) FindInWindow(since time.Time, statuses []domain.EmailStatus) ([]*domain.Email, error) {
	var emails []*domain.Email
	err := r.db.Where("received_at >= ? AND status IN ?", since, statuses).
		Order("received_at ASC, id ASC").Find(&emails).Error
	return emails, err
}

func (r *gormEmailRepository) UpdateStatus(id string, status domain.EmailStatus) error {
	return r.db.Model(&domain.Email{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}

func (r *gormEmailRepository) UpdateDeadline(id string, deadline string) error {
	return r.db.Model(&domain.Email{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"deadline":   deadline,
			"updated_at": time.Now(),
		}).Error
}

func (r *gormEmailRepository) MarkNotifiedByPromoteHash(hashes []string) error {
	if len(hashes) == 0 {
		return nil
	}
	return r.db.Model(&domain.Email{}).Where("promote_hash IN ?", hashes).
		Updates(map[string]interface{}{
			"notified":   true,
			"updated_at": time.Now(),
		}).Error
}

func (r *gormEmailRepository) SubjectsByStatus(status domain.EmailStatus) ([]string, error) {
	var subjects []string
	err := r.db.Model(&domain.Email{}).Where("status = ?", status).
		Pluck("subject", &subjects).Error
	return subjects, err
}

func (r *gormEmailRepository) LatestReceivedAt() (*time.Time, error) {
	var email domain.Email
	err := r.db.Order("received_at DESC").First(&email).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &email.ReceivedAt, nil
}
