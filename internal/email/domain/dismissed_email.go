package domain

import "time"

// DismissedEmail archives a message the user removed. The classifier and
// promotion engine read these as negative exemplars; records are never
// mutated after creation.
type DismissedEmail struct {
	ID                string    `json:"id" gorm:"primaryKey"`
	Subject           string    `json:"subject"`
	NormalizedSubject string    `json:"normalized_subject" gorm:"index"`
	Body              string    `json:"body" gorm:"type:text"`
	CreatedAt         time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (DismissedEmail) TableName() string {
	return "dismissed_emails"
}
