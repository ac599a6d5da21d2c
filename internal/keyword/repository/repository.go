package repository

import "mailtodo-backend/internal/keyword/domain"

// KeywordRepository defines the interface for keyword storage operations
type KeywordRepository interface {
	// Insert a keyword, ignoring it when the (word, type) pair already
	// exists. Returns whether a row was actually inserted.
	CreateIgnoreDuplicate(keyword *domain.Keyword) (bool, error)
	FindAll() ([]*domain.Keyword, error)
	// Words of the given type, oldest first
	WordsByType(keywordType domain.KeywordType) ([]string, error)
	Delete(id string) error
}
