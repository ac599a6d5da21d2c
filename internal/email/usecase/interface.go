package usecase

import (
	"context"
	"time"

	"mailtodo-backend/internal/email/domain"
	"mailtodo-backend/pkg/imapmail"
	"mailtodo-backend/pkg/sse"
)

// EmailUsecase defines the interface for email use cases
type EmailUsecase interface {
	GetEmailsByStatus(status domain.EmailStatus) ([]*domain.Email, error)
	GetEmailByID(id string) (*domain.Email, error)
	// DismissEmail archives the email, feeds its subject back as an
	// exclude keyword, and excludes it from classification
	DismissEmail(id string) error
	// DeleteEmail archives the email and moves it to trash without
	// generating a keyword
	DeleteEmail(id string) error
	// SyncMail pulls new messages from the configured mailbox and returns
	// how many were stored
	SyncMail(ctx context.Context) (int, error)
	GetMailSettings() (*domain.MailSettings, error)
	SaveMailSettings(settings *domain.MailSettings) error
	SemanticSearch(ctx context.Context, query string, limit int) ([]*domain.Email, error)
	SetEventHub(hub *sse.Hub)
	SetVectorSearchService(svc VectorSearchService)
}

// MailFetcher pulls raw messages from a mailbox
type MailFetcher interface {
	FetchSince(host string, port int, useTLS bool, user, password string, since time.Time, limit int) ([]*imapmail.RawEmail, error)
}

// VectorSearchService indexes email text for semantic search
type VectorSearchService interface {
	UpsertEmailEmbedding(ctx context.Context, emailID, subject, body string) error
	SemanticSearch(ctx context.Context, query string, limit int) ([]string, []float64, error)
	DeleteEmailEmbedding(ctx context.Context, emailID string) error
}
