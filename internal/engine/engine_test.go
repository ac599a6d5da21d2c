package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	emaildomain "mailtodo-backend/internal/email/domain"
	keyworddomain "mailtodo-backend/internal/keyword/domain"
	tododomain "mailtodo-backend/internal/todo/domain"
	"mailtodo-backend/pkg/fuzzy"
)

type fakeEmailRepo struct {
	emails []*emaildomain.Email
}

func (f *fakeEmailRepo) CreateIgnoreDuplicate(email *emaildomain.Email) (bool, error) {
	for _, e := range f.emails {
		if e.ContentHash == email.ContentHash {
			return false, nil
		}
	}
	f.emails = append(f.emails, email)
	return true, nil
}

func (f *fakeEmailRepo) FindByID(id string) (*emaildomain.Email, error) {
	for _, e := range f.emails {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, nil
}

func (f *fakeEmailRepo) FindByStatus(status emaildomain.EmailStatus) ([]*emaildomain.Email, error) {
	var out []*emaildomain.Email
	for _, e := range f.emails {
		if e.Status == status {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEmailRepo) FindInWindow(since time.Time, statuses []emaildomain.EmailStatus) ([]*emaildomain.Email, error) {
	var out []*emaildomain.Email
	for _, e := range f.emails {
		if e.ReceivedAt.Before(since) {
			continue
		}
		for _, s := range statuses {
			if e.Status == s {
				out = append(out, e)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeEmailRepo) UpdateStatus(id string, status emaildomain.EmailStatus) error {
	for _, e := range f.emails {
		if e.ID == id {
			e.Status = status
			return nil
		}
	}
	return errors.New("email not found")
}

func (f *fakeEmailRepo) UpdateDeadline(id string, deadline string) error {
	for _, e := range f.emails {
		if e.ID == id {
			e.Deadline = deadline
			return nil
		}
	}
	return errors.New("email not found")
}

func (f *fakeEmailRepo) MarkNotifiedByPromoteHash(hashes []string) error {
	for _, h := range hashes {
		for _, e := range f.emails {
			if e.PromoteHash == h {
				e.Notified = true
			}
		}
	}
	return nil
}

func (f *fakeEmailRepo) SubjectsByStatus(status emaildomain.EmailStatus) ([]string, error) {
	var out []string
	for _, e := range f.emails {
		if e.Status == status {
			out = append(out, e.Subject)
		}
	}
	return out, nil
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
	subjects []string
}

func (f *fakeDismissedRepo) Create(record *emaildomain.DismissedEmail) error {
	f.subjects = append(f.subjects, record.NormalizedSubject)
	return nil
}

func (f *fakeDismissedRepo) AllNormalizedSubjects() ([]string, error) {
	return f.subjects, nil
}

type fakeTodoRepo struct {
	todos []*tododomain.Todo
}

func (f *fakeTodoRepo) Create(todo *tododomain.Todo) error {
	f.todos = append(f.todos, todo)
	return nil
}

func (f *fakeTodoRepo) CreateIgnoreDuplicate(todo *tododomain.Todo) (bool, error) {
	if todo.EmailHash != nil {
		for _, t := range f.todos {
			if t.EmailHash != nil && *t.EmailHash == *todo.EmailHash {
				return false, nil
			}
		}
	}
	f.todos = append(f.todos, todo)
	return true, nil
}

func (f *fakeTodoRepo) FindByID(id string) (*tododomain.Todo, error) { return nil, nil }

func (f *fakeTodoRepo) FindActive() ([]*tododomain.Todo, error) { return f.todos, nil }

func (f *fakeTodoRepo) FindTrashed() ([]*tododomain.Todo, error) { return nil, nil }

func (f *fakeTodoRepo) ExistsByEmailHash(hash string) (bool, error) {
	for _, t := range f.todos {
		if t.EmailHash != nil && *t.EmailHash == hash {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTodoRepo) Update(todo *tododomain.Todo) error { return nil }

func (f *fakeTodoRepo) UpdateStatus(id string, status tododomain.TodoStatus) error { return nil }

func (f *fakeTodoRepo) SwapSortOrder(firstID, secondID string) error { return nil }

func (f *fakeTodoRepo) MaxSortOrder() (int, error) {
	max := 0
	for _, t := range f.todos {
		if t.SortOrder > max {
			max = t.SortOrder
		}
	}
	return max, nil
}

func (f *fakeTodoRepo) DeleteTrashed() error { return nil }

type fakeKeywordRepo struct {
	includes []string
	excludes []string
	gate     chan struct{} // when set, WordsByType blocks until closed
}

func (f *fakeKeywordRepo) CreateIgnoreDuplicate(keyword *keyworddomain.Keyword) (bool, error) {
	switch keyword.Type {
	case keyworddomain.KeywordInclude:
		f.includes = append(f.includes, keyword.Word)
	case keyworddomain.KeywordExclude:
		f.excludes = append(f.excludes, keyword.Word)
	}
	return true, nil
}

func (f *fakeKeywordRepo) FindAll() ([]*keyworddomain.Keyword, error) { return nil, nil }

func (f *fakeKeywordRepo) WordsByType(keywordType keyworddomain.KeywordType) ([]string, error) {
	if f.gate != nil {
		<-f.gate
	}
	if keywordType == keyworddomain.KeywordInclude {
		return f.includes, nil
	}
	return f.excludes, nil
}

func (f *fakeKeywordRepo) Delete(id string) error { return nil }

func newEmail(id, subject, body string, receivedAt time.Time, status emaildomain.EmailStatus) *emaildomain.Email {
	return &emaildomain.Email{
		ID:          id,
		ContentHash: emaildomain.ContentFingerprint(subject, body, "sender@example.com", receivedAt),
		PromoteHash: emaildomain.PromotionFingerprint(receivedAt, subject),
		ReceivedAt:  receivedAt,
		Subject:     subject,
		Body:        body,
		FromAddr:    "sender@example.com",
		Status:      status,
	}
}

func newTestEngine(emailRepo *fakeEmailRepo, dismissed *fakeDismissedRepo, todoRepo *fakeTodoRepo, keywords *fakeKeywordRepo) *Engine {
	return NewEngine(emailRepo, dismissed, todoRepo, keywords, Config{})
}

func TestRunPassPromotesCandidate(t *testing.T) {
	now := time.Now()
	emailRepo := &fakeEmailRepo{emails: []*emaildomain.Email{
		newEmail("e1", "보고서 제출 요청 (12/29)", "12/29까지 제출 바랍니다", now.Add(-time.Hour), emaildomain.StatusUnclassified),
	}}
	todoRepo := &fakeTodoRepo{}
	eng := newTestEngine(emailRepo, &fakeDismissedRepo{}, todoRepo, &fakeKeywordRepo{})

	result, err := eng.RunPass(context.Background())
	if err != nil {
		t.Fatalf("RunPass: %v", err)
	}

	if result.Promoted != 1 {
		t.Fatalf("promoted = %d, want 1", result.Promoted)
	}
	if len(todoRepo.todos) != 1 {
		t.Fatalf("todos = %d, want 1", len(todoRepo.todos))
	}
	todo := todoRepo.todos[0]
	if todo.Task != "보고서 제출 요청 (12/29)" {
		t.Errorf("task = %q", todo.Task)
	}
	if todo.Deadline == "" {
		t.Error("deadline not extracted")
	}
	if todo.EmailHash == nil || *todo.EmailHash != emailRepo.emails[0].PromoteHash {
		t.Error("todo not back-referenced to source email")
	}
	if emailRepo.emails[0].Status != emaildomain.StatusPromoted {
		t.Errorf("email status = %v, want promoted", emailRepo.emails[0].Status)
	}
}

func TestRunPassIsIdempotent(t *testing.T) {
	now := time.Now()
	emailRepo := &fakeEmailRepo{emails: []*emaildomain.Email{
		newEmail("e1", "보고서 제출 요청", "첨부 확인 후 회신 부탁드립니다", now.Add(-2*time.Hour), emaildomain.StatusUnclassified),
		newEmail("e2", "정기 뉴스레터", "이번 주 소식입니다", now.Add(-time.Hour), emaildomain.StatusUnclassified),
	}}
	todoRepo := &fakeTodoRepo{}
	keywords := &fakeKeywordRepo{excludes: []string{"뉴스레터"}}
	eng := newTestEngine(emailRepo, &fakeDismissedRepo{}, todoRepo, keywords)

	if _, err := eng.RunPass(context.Background()); err != nil {
		t.Fatalf("first pass: %v", err)
	}

	statusesAfterFirst := []emaildomain.EmailStatus{emailRepo.emails[0].Status, emailRepo.emails[1].Status}
	todosAfterFirst := len(todoRepo.todos)

	if _, err := eng.RunPass(context.Background()); err != nil {
		t.Fatalf("second pass: %v", err)
	}

	if emailRepo.emails[0].Status != statusesAfterFirst[0] || emailRepo.emails[1].Status != statusesAfterFirst[1] {
		t.Error("second pass changed email states")
	}
	if len(todoRepo.todos) != todosAfterFirst {
		t.Errorf("second pass created todos: %d -> %d", todosAfterFirst, len(todoRepo.todos))
	}

	seen := make(map[string]bool)
	for _, todo := range todoRepo.todos {
		if todo.EmailHash == nil {
			continue
		}
		if seen[*todo.EmailHash] {
			t.Errorf("duplicate todo fingerprint %s", *todo.EmailHash)
		}
		seen[*todo.EmailHash] = true
	}
}

func TestRunPassMonotonicLifecycle(t *testing.T) {
	now := time.Now()
	emailRepo := &fakeEmailRepo{emails: []*emaildomain.Email{
		newEmail("promoted", "제출 완료된 건", "", now.Add(-time.Hour), emaildomain.StatusPromoted),
		newEmail("excluded", "광고", "", now.Add(-time.Hour), emaildomain.StatusExcluded),
	}}
	eng := newTestEngine(emailRepo, &fakeDismissedRepo{}, &fakeTodoRepo{}, &fakeKeywordRepo{})

	result, err := eng.RunPass(context.Background())
	if err != nil {
		t.Fatalf("RunPass: %v", err)
	}

	if result.Evaluated != 0 {
		t.Errorf("terminal emails were re-evaluated: %d", result.Evaluated)
	}
	if emailRepo.emails[0].Status != emaildomain.StatusPromoted {
		t.Error("promoted email left its terminal state")
	}
	if emailRepo.emails[1].Status != emaildomain.StatusExcluded {
		t.Error("excluded email left its terminal state")
	}
}

func TestRunPassSkipsEmailsOutsideWindow(t *testing.T) {
	now := time.Now()
	emailRepo := &fakeEmailRepo{emails: []*emaildomain.Email{
		newEmail("old", "오래된 제출 요청", "", now.AddDate(0, 0, -30), emaildomain.StatusUnclassified),
	}}
	eng := newTestEngine(emailRepo, &fakeDismissedRepo{}, &fakeTodoRepo{}, &fakeKeywordRepo{})

	result, err := eng.RunPass(context.Background())
	if err != nil {
		t.Fatalf("RunPass: %v", err)
	}

	if result.Evaluated != 0 {
		t.Errorf("email outside the lookback window was evaluated")
	}
	if emailRepo.emails[0].Status != emaildomain.StatusUnclassified {
		t.Error("stale email changed state")
	}
}

func TestRunPassExcludeDominance(t *testing.T) {
	now := time.Now()
	emailRepo := &fakeEmailRepo{emails: []*emaildomain.Email{
		newEmail("e1", "제출 회의 안내", "", now.Add(-time.Hour), emaildomain.StatusUnclassified),
	}}
	keywords := &fakeKeywordRepo{includes: []string{"제출"}, excludes: []string{"회의"}}
	eng := newTestEngine(emailRepo, &fakeDismissedRepo{}, &fakeTodoRepo{}, keywords)

	if _, err := eng.RunPass(context.Background()); err != nil {
		t.Fatalf("RunPass: %v", err)
	}

	if emailRepo.emails[0].Status != emaildomain.StatusExcluded {
		t.Errorf("status = %v, want excluded", emailRepo.emails[0].Status)
	}
}

func TestRunPassSuppressesDismissedNearDuplicate(t *testing.T) {
	now := time.Now()
	first := newEmail("e1", "1월 보고서 제출(1/15)", "", now.Add(-24*time.Hour), emaildomain.StatusUnclassified)
	second := newEmail("e2", "1월 보고서 제출 (1/16)", "", now.Add(-time.Hour), emaildomain.StatusUnclassified)

	emailRepo := &fakeEmailRepo{emails: []*emaildomain.Email{first}}
	todoRepo := &fakeTodoRepo{}
	keywords := &fakeKeywordRepo{}
	dismissed := &fakeDismissedRepo{}
	eng := newTestEngine(emailRepo, dismissed, todoRepo, keywords)

	// First email arrives and promotes.
	if _, err := eng.RunPass(context.Background()); err != nil {
		t.Fatalf("first pass: %v", err)
	}
	if len(todoRepo.todos) != 1 {
		t.Fatalf("first email did not promote: %d todos", len(todoRepo.todos))
	}

	// User dismisses it: title becomes an exclude keyword, subject goes
	// into the dismissal archive.
	keywords.excludes = append(keywords.excludes, first.Subject)
	dismissed.subjects = append(dismissed.subjects, fuzzy.Normalize(first.Subject))

	// Second, near-identical email arrives a day later.
	emailRepo.emails = append(emailRepo.emails, second)
	if _, err := eng.RunPass(context.Background()); err != nil {
		t.Fatalf("second pass: %v", err)
	}

	if len(todoRepo.todos) != 1 {
		t.Errorf("near-duplicate created a second todo")
	}
	if second.Status == emaildomain.StatusCandidate {
		t.Errorf("near-duplicate left in the candidate pool")
	}
}

func TestRunPassArchiveMatchPromotesWithoutInsert(t *testing.T) {
	now := time.Now()
	email := newEmail("e1", "주간 보고서 제출", "", now.Add(-time.Hour), emaildomain.StatusCandidate)
	emailRepo := &fakeEmailRepo{emails: []*emaildomain.Email{email}}
	todoRepo := &fakeTodoRepo{}
	dismissed := &fakeDismissedRepo{subjects: []string{fuzzy.Normalize("주간 보고서 제출")}}
	eng := newTestEngine(emailRepo, dismissed, todoRepo, &fakeKeywordRepo{includes: []string{"없는키워드"}})

	if _, err := eng.RunPass(context.Background()); err != nil {
		t.Fatalf("RunPass: %v", err)
	}

	if len(todoRepo.todos) != 0 {
		t.Errorf("archived subject still created a todo")
	}
	if email.Status != emaildomain.StatusPromoted {
		t.Errorf("status = %v, want promoted (treated as handled)", email.Status)
	}
}

func TestRunPassGuardRejectsConcurrentPass(t *testing.T) {
	gate := make(chan struct{})
	keywords := &fakeKeywordRepo{gate: gate}
	eng := newTestEngine(&fakeEmailRepo{}, &fakeDismissedRepo{}, &fakeTodoRepo{}, keywords)

	done := make(chan error, 1)
	go func() {
		_, err := eng.RunPass(context.Background())
		done <- err
	}()

	// Wait for the first pass to take the guard and block on the gate.
	deadline := time.After(2 * time.Second)
	for {
		eng.runMu.Lock()
		running := eng.running
		eng.runMu.Unlock()
		if running {
			break
		}
		select {
		case <-deadline:
			t.Fatal("first pass never started")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	if _, err := eng.RunPass(context.Background()); !errors.Is(err, ErrPassInProgress) {
		t.Errorf("concurrent pass error = %v, want ErrPassInProgress", err)
	}

	close(gate)
	if err := <-done; err != nil {
		t.Fatalf("first pass: %v", err)
	}

	// Guard released; the next pass runs normally.
	if _, err := eng.RunPass(context.Background()); err != nil {
		t.Fatalf("pass after release: %v", err)
	}
}

type fakeAIClassifier struct {
	actionable bool
	calls      int
}

func (f *fakeAIClassifier) IsActionable(ctx context.Context, subject, body string) (bool, error) {
	f.calls++
	return f.actionable, nil
}

func (f *fakeAIClassifier) Name() string { return "fake" }

func TestRunPassConsultsAIOnlyForUnclassified(t *testing.T) {
	now := time.Now()
	emailRepo := &fakeEmailRepo{emails: []*emaildomain.Email{
		newEmail("rules", "보고서 제출 요청", "", now.Add(-2*time.Hour), emaildomain.StatusUnclassified),
		newEmail("vague", "시간 되실 때 한번 봐주세요", "", now.Add(-time.Hour), emaildomain.StatusUnclassified),
	}}
	todoRepo := &fakeTodoRepo{}
	scorer := &fakeAIClassifier{actionable: true}
	eng := newTestEngine(emailRepo, &fakeDismissedRepo{}, todoRepo, &fakeKeywordRepo{})
	eng.SetAIClassifier(scorer)

	if _, err := eng.RunPass(context.Background()); err != nil {
		t.Fatalf("RunPass: %v", err)
	}

	if scorer.calls != 1 {
		t.Errorf("AI consulted %d times, want 1 (rule-decided emails skip it)", scorer.calls)
	}
	if emailRepo.emails[1].Status != emaildomain.StatusPromoted {
		t.Errorf("AI-flagged email status = %v, want promoted", emailRepo.emails[1].Status)
	}
}
