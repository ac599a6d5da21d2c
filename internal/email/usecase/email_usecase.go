package usecase

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"mailtodo-backend/internal/classify"
	"mailtodo-backend/internal/email/domain"
	"mailtodo-backend/internal/email/repository"
	keywordusecase "mailtodo-backend/internal/keyword/usecase"
	"mailtodo-backend/pkg/config"
	"mailtodo-backend/pkg/fuzzy"
	"mailtodo-backend/pkg/sse"
)

// emailUsecase implements EmailUsecase interface
type emailUsecase struct {
	emailRepo      repository.EmailRepository
	dismissedRepo  repository.DismissedEmailRepository
	settingsRepo   repository.MailSettingsRepository
	keywordUsecase keywordusecase.KeywordUsecase
	fetcher        MailFetcher
	config         *config.Config

	eventHub     *sse.Hub            // optional, set after creation
	vectorSearch VectorSearchService // optional, set after creation

	syncMu sync.Mutex // one mailbox sync at a time
}

// NewEmailUsecase creates a new instance of emailUsecase
func NewEmailUsecase(
	emailRepo repository.EmailRepository,
	dismissedRepo repository.DismissedEmailRepository,
	settingsRepo repository.MailSettingsRepository,
	keywordUsecase keywordusecase.KeywordUsecase,
	fetcher MailFetcher,
	cfg *config.Config,
) EmailUsecase {
	return &emailUsecase{
		emailRepo:      emailRepo,
		dismissedRepo:  dismissedRepo,
		settingsRepo:   settingsRepo,
		keywordUsecase: keywordUsecase,
		fetcher:        fetcher,
		config:         cfg,
	}
}

// SetEventHub allows wiring the SSE hub after creation
func (u *emailUsecase) SetEventHub(hub *sse.Hub) {
	u.eventHub = hub
}

// SetVectorSearchService allows wiring VectorSearchService after creation
func (u *emailUsecase) SetVectorSearchService(svc VectorSearchService) {
	u.vectorSearch = svc
}

func (u *emailUsecase) GetEmailsByStatus(status domain.EmailStatus) ([]*domain.Email, error) {
	return u.emailRepo.FindByStatus(status)
}

func (u *emailUsecase) GetEmailByID(id string) (*domain.Email, error) {
	email, err := u.emailRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if email == nil {
		return nil, fmt.Errorf("email not found")
	}
	return email, nil
}

// DismissEmail records the email in the dismissed archive, turns its
// subject into an exclude keyword so similar mail stops surfacing, and
// parks the email in the excluded state.
func (u *emailUsecase) DismissEmail(id string) error {
	email, err := u.GetEmailByID(id)
	if err != nil {
		return err
	}

	if err := u.archive(email); err != nil {
		return err
	}
	if err := u.keywordUsecase.AddExcludeKeyword(email.Subject); err != nil {
		return fmt.Errorf("failed to add exclude keyword: %w", err)
	}
	if err := u.emailRepo.UpdateStatus(id, domain.StatusExcluded); err != nil {
		return err
	}

	u.notifyChanged()
	return nil
}

// DeleteEmail archives the email and moves it to trash. No keyword is
// generated, so similar mail keeps flowing through classification.
func (u *emailUsecase) DeleteEmail(id string) error {
	email, err := u.GetEmailByID(id)
	if err != nil {
		return err
	}

	if err := u.archive(email); err != nil {
		return err
	}
	if err := u.emailRepo.UpdateStatus(id, domain.StatusTrashed); err != nil {
		return err
	}

	if u.vectorSearch != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := u.vectorSearch.DeleteEmailEmbedding(ctx, id); err != nil {
			log.Printf("[Email] Failed to delete embedding for %s: %v", id, err)
		}
		cancel()
	}

	u.notifyChanged()
	return nil
}

func (u *emailUsecase) archive(email *domain.Email) error {
	record := &domain.DismissedEmail{
		ID:                uuid.New().String(),
		Subject:           email.Subject,
		NormalizedSubject: fuzzy.Normalize(email.Subject),
		Body:              email.Body,
	}
	if err := u.dismissedRepo.Create(record); err != nil {
		return fmt.Errorf("failed to archive email: %w", err)
	}
	return nil
}

// SyncMail fetches new messages from the configured mailbox and stores
// them as unclassified emails. Messages already stored are skipped via
// their content fingerprint, so repeated syncs are harmless.
func (u *emailUsecase) SyncMail(ctx context.Context) (int, error) {
	u.syncMu.Lock()
	defer u.syncMu.Unlock()

	settings, err := u.settingsRepo.Get()
	if err != nil {
		return 0, err
	}
	if settings == nil || settings.Host == "" {
		// No mailbox configured yet
		return 0, nil
	}

	since := u.syncSince(settings)

	rawEmails, err := u.fetcher.FetchSince(settings.Host, settings.Port, settings.UseTLS, settings.Username, settings.Password, since, u.config.SyncFetchLimit)
	if err != nil {
		return 0, fmt.Errorf("mail fetch failed: %w", err)
	}

	now := time.Now()
	inserted := 0
	for _, raw := range rawEmails {
		deadline := classify.ExtractDeadline(raw.Subject, now)
		if deadline == "" {
			deadline = classify.ExtractDeadline(raw.Body, now)
		}

		email := &domain.Email{
			ID:          uuid.New().String(),
			ContentHash: domain.ContentFingerprint(raw.Subject, raw.Body, raw.FromAddr, raw.ReceivedAt),
			PromoteHash: domain.PromotionFingerprint(raw.ReceivedAt, raw.Subject),
			ReceivedAt:  raw.ReceivedAt,
			Subject:     raw.Subject,
			Body:        raw.Body,
			FromAddr:    raw.FromAddr,
			Status:      domain.StatusUnclassified,
			Deadline:    deadline,
		}

		created, err := u.emailRepo.CreateIgnoreDuplicate(email)
		if err != nil {
			log.Printf("[Email] Failed to store message %q: %v", raw.Subject, err)
			continue
		}
		if !created {
			continue
		}
		inserted++

		u.indexEmail(ctx, email)
		if u.eventHub != nil {
			u.eventHub.Broadcast(sse.EventNewEmail, email)
		}
	}

	if inserted > 0 {
		log.Printf("[Email] Sync stored %d new emails (fetched %d)", inserted, len(rawEmails))
	}
	return inserted, nil
}

// syncSince picks the fetch cutoff: the configured start date, advanced
// to the newest stored email so resyncs stay cheap.
func (u *emailUsecase) syncSince(settings *domain.MailSettings) time.Time {
	since := time.Now().AddDate(0, 0, -u.config.LookbackDays)
	if settings.SinceDate != "" {
		if parsed, err := time.Parse("2006-01-02", settings.SinceDate); err == nil {
			since = parsed
		}
	}
	if latest, err := u.emailRepo.LatestReceivedAt(); err == nil && latest != nil && latest.After(since) {
		since = *latest
	}
	return since
}

func (u *emailUsecase) indexEmail(ctx context.Context, email *domain.Email) {
	if u.vectorSearch == nil {
		return
	}
	indexCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := u.vectorSearch.UpsertEmailEmbedding(indexCtx, email.ID, email.Subject, email.Body); err != nil {
		// Search stays best-effort; the email itself is already stored
		log.Printf("[Email] Failed to index email %s: %v", email.ID, err)
	}
}

func (u *emailUsecase) GetMailSettings() (*domain.MailSettings, error) {
	return u.settingsRepo.Get()
}

func (u *emailUsecase) SaveMailSettings(settings *domain.MailSettings) error {
	if settings.ID == "" {
		settings.ID = uuid.New().String()
	}
	if settings.Protocol == "" {
		settings.Protocol = "imap"
	}
	if settings.Port == 0 {
		settings.Port = 993
	}
	return u.settingsRepo.Save(settings)
}

// SemanticSearch resolves vector-store hits back to stored emails,
// preserving the relevance order
func (u *emailUsecase) SemanticSearch(ctx context.Context, query string, limit int) ([]*domain.Email, error) {
	if u.vectorSearch == nil {
		return nil, fmt.Errorf("semantic search is not configured")
	}

	ids, _, err := u.vectorSearch.SemanticSearch(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	emails := make([]*domain.Email, 0, len(ids))
	for _, id := range ids {
		email, err := u.emailRepo.FindByID(id)
		if err != nil || email == nil {
			continue
		}
		if email.Status == domain.StatusTrashed {
			continue
		}
		emails = append(emails, email)
	}
	return emails, nil
}

func (u *emailUsecase) notifyChanged() {
	if u.eventHub != nil {
		u.eventHub.Broadcast(sse.EventDataChanged, nil)
	}
}
