package usecase

import "mailtodo-backend/internal/keyword/domain"

// KeywordUsecase defines keyword business logic
type KeywordUsecase interface {
	ListKeywords() ([]*domain.Keyword, error)
	// AddKeyword inserts a typed keyword; duplicate (word, type) pairs are
	// a no-op. Adding an include keyword immediately marks stored
	// unclassified emails that contain it as candidates.
	AddKeyword(word string, keywordType domain.KeywordType) (*domain.Keyword, error)
	// AddExcludeKeyword is the feedback-loop path: dismissing a todo or
	// email funnels its title here.
	AddExcludeKeyword(word string) error
	DeleteKeyword(id string) error
}
