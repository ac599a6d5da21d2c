package domain

import "time"

// KeywordType tags a keyword as a positive or negative classification signal
type KeywordType string

const (
	KeywordInclude KeywordType = "include"
	KeywordExclude KeywordType = "exclude"
)

// Keyword is one classification rule atom. The same phrase may exist once
// per type, never twice within one type.
type Keyword struct {
	ID        string      `json:"id" gorm:"primaryKey"`
	Word      string      `json:"word" gorm:"uniqueIndex:idx_word_type;not null"`
	Type      KeywordType `json:"type" gorm:"uniqueIndex:idx_word_type;not null"`
	CreatedAt time.Time   `json:"created_at"`
}
