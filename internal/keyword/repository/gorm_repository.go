package repository

import (
	"time"

	"mailtodo-backend/internal/keyword/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// gormKeywordRepository implements KeywordRepository using GORM
type gormKeywordRepository struct {
	db *gorm.DB
}

// NewGormKeywordRepository creates a new GORM-based KeywordRepository
func NewGormKeywordRepository(db *gorm.DB) KeywordRepository {
	return &gormKeywordRepository{db: db}
}

func (r *gormKeywordRepository) CreateIgnoreDuplicate(keyword *domain.Keyword) (bool, error) {
	if keyword.ID == "" {
		keyword.ID = uuid.New().String()
	}
	keyword.CreatedAt = time.Now()

	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "word"}, {Name: "type"}},
		DoNothing: true,
	}).Create(keyword)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *gormKeywordRepository) FindAll() ([]*domain.Keyword, error) {
	var keywords []*domain.Keyword
	err := r.db.Order("created_at ASC").Find(&keywords).Error
	return keywords, err
}

func (r *gormKeywordRepository) WordsByType(keywordType domain.KeywordType) ([]string, error) {
	var words []string
	err := r.db.Model(&domain.Keyword{}).Where("type = ?", keywordType).
		Order("created_at ASC").Pluck("word", &words).Error
	return words, err
}

func (r *gormKeywordRepository) Delete(id string) error {
	return r.db.Delete(&domain.Keyword{}, "id = ?", id).Error
}
