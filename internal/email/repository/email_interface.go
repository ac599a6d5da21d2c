package repository

import (
	"time"

	"mailtodo-backend/internal/email/domain"
)

// EmailRepository defines the interface for email storage operations
type EmailRepository interface {
	// Insert an email, ignoring it when the content hash already exists.
	// Returns whether a row was actually inserted.
	CreateIgnoreDuplicate(email *domain.Email) (bool, error)
	FindByID(id string) (*domain.Email, error)
	FindByStatus(status domain.EmailStatus) ([]*domain.Email, error)
	// Emails received at or after since, restricted to the given states,
	// ascending by received time then id for deterministic passes
	FindInWindow(since time.Time, statuses []domain.EmailStatus) ([]*domain.Email, error)
	UpdateStatus(id string, status domain.EmailStatus) error
	UpdateDeadline(id string, deadline string) error
	// Flag the emails behind the given promotion fingerprints as notified
	MarkNotifiedByPromoteHash(hashes []string) error
	// Subjects of emails currently in the given state
	SubjectsByStatus(status domain.EmailStatus) ([]string, error)
	// Received time of the newest stored email, nil when the store is empty
	LatestReceivedAt() (*time.Time, error)
}

// DismissedEmailRepository defines the interface for the dismissed-mail archive
type DismissedEmailRepository interface {
	Create(record *domain.DismissedEmail) error
	AllNormalizedSubjects() ([]string, error)
}

// MailSettingsRepository defines the interface for the mailbox connection settings
type MailSettingsRepository interface {
	// Get returns the stored settings, or nil when none have been saved
	Get() (*domain.MailSettings, error)
	Save(settings *domain.MailSettings) error
}
