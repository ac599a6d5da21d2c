package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"mailtodo-backend/internal/email/domain"
	keyworddomain "mailtodo-backend/internal/keyword/domain"
	"mailtodo-backend/pkg/config"
	"mailtodo-backend/pkg/fuzzy"
	"mailtodo-backend/pkg/imapmail"
)

type fakeEmailRepo struct {
	emails []*domain.Email
}

func (f *fakeEmailRepo) CreateIgnoreDuplicate(email *domain.Email) (bool, error) {
	for _, e := range f.emails {
		if e.ContentHash == email.ContentHash {
			return false, nil
		}
	}
	f.emails = append(f.emails, email)
	return true, nil
}

func (f *fakeEmailRepo) FindByID(id string) (*domain.Email, error) {
	for _, e := range f.emails {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, nil
}

func (f *fakeEmailRepo) FindByStatus(status domain.EmailStatus) ([]*domain.Email, error) {
	var out []*domain.Email
	for _, e := range f.emails {
		if e.Status == status {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEmailRepo) FindInWindow(since time.Time, statuses []domain.EmailStatus) ([]*domain.Email, error) {
	return nil, nil
}

func (f *fakeEmailRepo) UpdateStatus(id string, status domain.EmailStatus) error {
	for _, e := range f.emails {
		if e.ID == id {
			e.Status = status
			return nil
		}
	}
	return errors.New("email not found")
}

func (f *fakeEmailRepo) UpdateDeadline(id string, deadline string) error {
	return nil
}

func (f *fakeEmailRepo) MarkNotifiedByPromoteHash(hashes []string) error {
	return nil
}

func (f *fakeEmailRepo) SubjectsByStatus(status domain.EmailStatus) ([]string, error) {
	return nil, nil
}

func (f *fakeEmailRepo) LatestReceivedAt() (*time.Time, error) {
	var latest *time.Time
	for _, e := range f.emails {
		if latest == nil || e.ReceivedAt.After(*latest) {
			t := e.ReceivedAt
			latest = &t
		}
	}
	return latest, nil
}

type fakeDismissedRepo struct {
	records []*domain.DismissedEmail
}

func (f *fakeDismissedRepo) Create(record *domain.DismissedEmail) error {
	f.records = append(f.records, record)
	return nil
}

func (f *fakeDismissedRepo) AllNormalizedSubjects() ([]string, error) {
	var out []string
	for _, r := range f.records {
		out = append(out, r.NormalizedSubject)
	}
	return out, nil
}

type fakeSettingsRepo struct {
	settings *domain.MailSettings
}

func (f *fakeSettingsRepo) Get() (*domain.MailSettings, error) {
	return f.settings, nil
}

func (f *fakeSettingsRepo) Save(settings *domain.MailSettings) error {
	f.settings = settings
	return nil
}

type fakeKeywordUsecase struct {
	excluded []string
}

func (f *fakeKeywordUsecase) ListKeywords() ([]*keyworddomain.Keyword, error) { return nil, nil }

func (f *fakeKeywordUsecase) AddKeyword(word string, keywordType keyworddomain.KeywordType) (*keyworddomain.Keyword, error) {
	return nil, nil
}

func (f *fakeKeywordUsecase) AddExcludeKeyword(word string) error {
	f.excluded = append(f.excluded, word)
	return nil
}

func (f *fakeKeywordUsecase) DeleteKeyword(id string) error { return nil }

type fakeFetcher struct {
	raws      []*imapmail.RawEmail
	lastSince time.Time
	calls     int
}

func (f *fakeFetcher) FetchSince(host string, port int, useTLS bool, user, password string, since time.Time, limit int) ([]*imapmail.RawEmail, error) {
	f.calls++
	f.lastSince = since
	return f.raws, nil
}

type usecaseFixture struct {
	uc        EmailUsecase
	emails    *fakeEmailRepo
	dismissed *fakeDismissedRepo
	settings  *fakeSettingsRepo
	keywords  *fakeKeywordUsecase
	fetcher   *fakeFetcher
}

func newTestUsecase() *usecaseFixture {
	f := &usecaseFixture{
		emails:    &fakeEmailRepo{},
		dismissed: &fakeDismissedRepo{},
		settings:  &fakeSettingsRepo{},
		keywords:  &fakeKeywordUsecase{},
		fetcher:   &fakeFetcher{},
	}
	f.uc = NewEmailUsecase(f.emails, f.dismissed, f.settings, f.keywords, f.fetcher, &config.Config{
		LookbackDays:   7,
		SyncFetchLimit: 10,
	})
	return f
}

func TestSyncMailWithoutSettings(t *testing.T) {
	f := newTestUsecase()

	inserted, err := f.uc.SyncMail(context.Background())
	if err != nil {
		t.Fatalf("SyncMail: %v", err)
	}
	if inserted != 0 {
		t.Errorf("inserted = %d, want 0", inserted)
	}
	if f.fetcher.calls != 0 {
		t.Errorf("fetcher called %d times without settings", f.fetcher.calls)
	}
}

func TestSyncMailStoresAndDeduplicates(t *testing.T) {
	f := newTestUsecase()
	f.settings.settings = &domain.MailSettings{
		ID: "s1", Host: "imap.example.com", Port: 993, Username: "u", Password: "p", UseTLS: true,
	}

	received := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	raw := &imapmail.RawEmail{
		ReceivedAt: received,
		Subject:    "주간 업무 보고",
		Body:       "이번 주 진행 상황입니다",
		FromAddr:   "boss@example.com",
	}
	f.fetcher.raws = []*imapmail.RawEmail{raw, raw}

	inserted, err := f.uc.SyncMail(context.Background())
	if err != nil {
		t.Fatalf("SyncMail: %v", err)
	}
	if inserted != 1 {
		t.Fatalf("inserted = %d, want 1 (same message fetched twice)", inserted)
	}

	stored := f.emails.emails[0]
	if stored.Status != domain.StatusUnclassified {
		t.Errorf("status = %v, want unclassified", stored.Status)
	}
	if stored.ContentHash != domain.ContentFingerprint(raw.Subject, raw.Body, raw.FromAddr, received) {
		t.Error("content hash does not match the message fingerprint")
	}
	if stored.PromoteHash != domain.PromotionFingerprint(received, raw.Subject) {
		t.Error("promote hash does not match the promotion fingerprint")
	}

	// Running sync again must not store the message twice
	inserted, err = f.uc.SyncMail(context.Background())
	if err != nil {
		t.Fatalf("second SyncMail: %v", err)
	}
	if inserted != 0 {
		t.Errorf("second sync inserted = %d, want 0", inserted)
	}
}

func TestSyncMailAdvancesCutoffToNewestStoredEmail(t *testing.T) {
	f := newTestUsecase()
	f.settings.settings = &domain.MailSettings{
		ID: "s1", Host: "imap.example.com", SinceDate: "2026-01-01",
	}

	newest := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f.emails.emails = []*domain.Email{
		{ID: "e1", ContentHash: "h1", ReceivedAt: time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)},
		{ID: "e2", ContentHash: "h2", ReceivedAt: newest},
	}

	if _, err := f.uc.SyncMail(context.Background()); err != nil {
		t.Fatalf("SyncMail: %v", err)
	}
	if !f.fetcher.lastSince.Equal(newest) {
		t.Errorf("fetch since = %v, want %v (newest stored email)", f.fetcher.lastSince, newest)
	}
}

func TestDismissEmailFeedsExclusionLoop(t *testing.T) {
	f := newTestUsecase()
	f.emails.emails = []*domain.Email{{
		ID:      "e1",
		Subject: "1월 보고서 제출(1/15)",
		Body:    "보고서를 제출해 주세요",
		Status:  domain.StatusCandidate,
	}}

	if err := f.uc.DismissEmail("e1"); err != nil {
		t.Fatalf("DismissEmail: %v", err)
	}

	if len(f.dismissed.records) != 1 {
		t.Fatalf("archive has %d records, want 1", len(f.dismissed.records))
	}
	record := f.dismissed.records[0]
	if record.NormalizedSubject != fuzzy.Normalize("1월 보고서 제출(1/15)") {
		t.Errorf("archived normalized subject = %q", record.NormalizedSubject)
	}

	if len(f.keywords.excluded) != 1 || f.keywords.excluded[0] != "1월 보고서 제출(1/15)" {
		t.Errorf("exclude keywords = %v, want the dismissed subject", f.keywords.excluded)
	}

	if f.emails.emails[0].Status != domain.StatusExcluded {
		t.Errorf("status = %v, want excluded", f.emails.emails[0].Status)
	}
}

func TestDeleteEmailTrashesWithoutKeyword(t *testing.T) {
	f := newTestUsecase()
	f.emails.emails = []*domain.Email{{
		ID:      "e1",
		Subject: "회의 일정 안내",
		Status:  domain.StatusCandidate,
	}}

	if err := f.uc.DeleteEmail("e1"); err != nil {
		t.Fatalf("DeleteEmail: %v", err)
	}

	if len(f.dismissed.records) != 1 {
		t.Fatalf("archive has %d records, want 1", len(f.dismissed.records))
	}
	if len(f.keywords.excluded) != 0 {
		t.Errorf("delete must not generate exclude keywords, got %v", f.keywords.excluded)
	}
	if f.emails.emails[0].Status != domain.StatusTrashed {
		t.Errorf("status = %v, want trashed", f.emails.emails[0].Status)
	}
}

func TestDismissEmailNotFound(t *testing.T) {
	f := newTestUsecase()
	if err := f.uc.DismissEmail("missing"); err == nil {
		t.Fatal("expected error for unknown email")
	}
}

func TestSaveMailSettingsAppliesDefaults(t *testing.T) {
	f := newTestUsecase()

	if err := f.uc.SaveMailSettings(&domain.MailSettings{Host: "imap.example.com", Username: "u"}); err != nil {
		t.Fatalf("SaveMailSettings: %v", err)
	}

	saved := f.settings.settings
	if saved.ID == "" {
		t.Error("expected a generated settings ID")
	}
	if saved.Protocol != "imap" {
		t.Errorf("protocol = %q, want imap", saved.Protocol)
	}
	if saved.Port != 993 {
		t.Errorf("port = %d, want 993", saved.Port)
	}
}

func TestSemanticSearchUnconfigured(t *testing.T) {
	f := newTestUsecase()
	if _, err := f.uc.SemanticSearch(context.Background(), "보고서", 5); err == nil {
		t.Fatal("expected error when no vector search service is wired")
	}
}
