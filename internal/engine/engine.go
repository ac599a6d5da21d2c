package engine

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"mailtodo-backend/internal/classify"
	emaildomain "mailtodo-backend/internal/email/domain"
	emailrepo "mailtodo-backend/internal/email/repository"
	keyworddomain "mailtodo-backend/internal/keyword/domain"
	keywordrepo "mailtodo-backend/internal/keyword/repository"
	tododomain "mailtodo-backend/internal/todo/domain"
	todorepo "mailtodo-backend/internal/todo/repository"
	"mailtodo-backend/pkg/ai"
	"mailtodo-backend/pkg/fuzzy"
	"mailtodo-backend/pkg/sse"
)

// ErrPassInProgress is returned when a pass is requested while another one
// is still running. The periodic and manual triggers share this guard.
var ErrPassInProgress = errors.New("classification pass already in progress")

// Config tunes one classification pass. Zero values fall back to defaults.
type Config struct {
	LookbackDays        int
	SimilarityThreshold float64
	SubKeywordThreshold int
	MemoExcerptLen      int
}

func (c Config) withDefaults() Config {
	if c.LookbackDays <= 0 {
		c.LookbackDays = 7
	}
	if c.SimilarityThreshold <= 0 {
		c.SimilarityThreshold = fuzzy.DefaultSimilarityThreshold
	}
	if c.SubKeywordThreshold <= 0 {
		c.SubKeywordThreshold = classify.DefaultSubKeywordThreshold
	}
	if c.MemoExcerptLen <= 0 {
		c.MemoExcerptLen = 500
	}
	return c
}

// Notifier pushes a user-facing notification for todos promoted during a pass
type Notifier interface {
	NotifyPromoted(ctx context.Context, todos []*tododomain.Todo) error
}

// PassResult summarizes what one pass did
type PassResult struct {
	Evaluated     int
	Candidates    int
	Excluded      int
	Promoted      int
	PromotedTodos []*tododomain.Todo
}

// Engine runs the classification and promotion pass. One logical worker:
// RunPass is guarded so the scheduler and the manual sync endpoint never
// race each other over the same rows.
type Engine struct {
	emailRepo     emailrepo.EmailRepository
	dismissedRepo emailrepo.DismissedEmailRepository
	todoRepo      todorepo.TodoRepository
	keywordRepo   keywordrepo.KeywordRepository

	events       *sse.Hub
	notifier     Notifier
	aiClassifier ai.TodoClassifier

	cfgMu sync.RWMutex
	cfg   Config

	runMu   sync.Mutex
	running bool
}

// NewEngine creates a new Engine
func NewEngine(
	emailRepo emailrepo.EmailRepository,
	dismissedRepo emailrepo.DismissedEmailRepository,
	todoRepo todorepo.TodoRepository,
	keywordRepo keywordrepo.KeywordRepository,
	cfg Config,
) *Engine {
	return &Engine{
		emailRepo:     emailRepo,
		dismissedRepo: dismissedRepo,
		todoRepo:      todoRepo,
		keywordRepo:   keywordRepo,
		cfg:           cfg.withDefaults(),
	}
}

// SetEventHub wires the SSE hub notified after each pass
func (e *Engine) SetEventHub(hub *sse.Hub) {
	e.events = hub
}

// SetNotifier wires the push-notification service for promoted todos
func (e *Engine) SetNotifier(n Notifier) {
	e.notifier = n
}

// SetAIClassifier wires an optional scorer consulted only for emails the
// rule chain leaves unclassified
func (e *Engine) SetAIClassifier(c ai.TodoClassifier) {
	e.aiClassifier = c
}

// Config returns the current pass configuration
func (e *Engine) Config() Config {
	e.cfgMu.RLock()
	defer e.cfgMu.RUnlock()
	return e.cfg
}

// UpdateConfig replaces the pass configuration; the next pass picks it up
func (e *Engine) UpdateConfig(cfg Config) {
	e.cfgMu.Lock()
	e.cfg = cfg.withDefaults()
	e.cfgMu.Unlock()
}

func (e *Engine) tryAcquire() bool {
	e.runMu.Lock()
	defer e.runMu.Unlock()
	if e.running {
		return false
	}
	e.running = true
	return true
}

func (e *Engine) release() {
	e.runMu.Lock()
	e.running = false
	e.runMu.Unlock()
}

// RunPass executes one classification + promotion pass: load a consistent
// snapshot, classify the recent window, promote candidates exactly once,
// then fan out notifications. Per-email failures are logged and skipped;
// the pass itself only fails when the snapshot cannot be loaded.
func (e *Engine) RunPass(ctx context.Context) (*PassResult, error) {
	if !e.tryAcquire() {
		return nil, ErrPassInProgress
	}
	defer e.release()

	cfg := e.Config()
	now := time.Now()

	snap, err := e.loadSnapshot()
	if err != nil {
		return nil, err
	}

	since := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, -cfg.LookbackDays)
	emails, err := e.emailRepo.FindInWindow(since, []emaildomain.EmailStatus{
		emaildomain.StatusUnclassified,
		emaildomain.StatusCandidate,
	})
	if err != nil {
		return nil, err
	}

	result := &PassResult{Evaluated: len(emails)}
	classifier := classify.NewClassifier(classify.Config{
		SimilarityThreshold: cfg.SimilarityThreshold,
		SubKeywordThreshold: cfg.SubKeywordThreshold,
	})

	for _, email := range emails {
		switch e.decide(ctx, classifier, email, snap) {
		case classify.DecisionCandidate:
			if email.Status != emaildomain.StatusCandidate {
				if err := e.emailRepo.UpdateStatus(email.ID, emaildomain.StatusCandidate); err != nil {
					log.Printf("[Engine] Failed to mark email %s as candidate: %v", email.ID, err)
					continue
				}
				email.Status = emaildomain.StatusCandidate
			}
			result.Candidates++
		case classify.DecisionExcluded:
			if err := e.emailRepo.UpdateStatus(email.ID, emaildomain.StatusExcluded); err != nil {
				log.Printf("[Engine] Failed to exclude email %s: %v", email.ID, err)
				continue
			}
			email.Status = emaildomain.StatusExcluded
			// Later emails in this pass see the fresh exclusion.
			snap.ExcludedSubjects = append(snap.ExcludedSubjects, email.Subject)
			result.Excluded++
		}
	}

	e.promote(emails, snap, cfg, now, result)

	if result.Candidates > 0 || result.Excluded > 0 || result.Promoted > 0 {
		log.Printf("[Engine] Pass done: %d evaluated, %d candidates, %d excluded, %d promoted",
			result.Evaluated, result.Candidates, result.Excluded, result.Promoted)
	}

	e.fanOut(ctx, result)
	return result, nil
}

// loadSnapshot reads the keyword store and dismissal archive once, giving
// the whole pass a consistent view.
func (e *Engine) loadSnapshot() (*classify.Snapshot, error) {
	includes, err := e.keywordRepo.WordsByType(keyworddomain.KeywordInclude)
	if err != nil {
		return nil, err
	}
	excludes, err := e.keywordRepo.WordsByType(keyworddomain.KeywordExclude)
	if err != nil {
		return nil, err
	}
	excludedSubjects, err := e.emailRepo.SubjectsByStatus(emaildomain.StatusExcluded)
	if err != nil {
		return nil, err
	}
	dismissed, err := e.dismissedRepo.AllNormalizedSubjects()
	if err != nil {
		return nil, err
	}
	return &classify.Snapshot{
		IncludeKeywords:   includes,
		ExcludeKeywords:   excludes,
		ExcludedSubjects:  excludedSubjects,
		DismissedSubjects: dismissed,
	}, nil
}

// decide runs the rule chain, falling back to the optional AI scorer for
// emails the rules leave untouched. AI errors are absorbed; the email just
// stays unclassified.
func (e *Engine) decide(ctx context.Context, classifier *classify.Classifier, email *emaildomain.Email, snap *classify.Snapshot) classify.Decision {
	decision := classifier.Classify(email.Subject, email.Body, *snap)
	if decision != classify.DecisionNone || e.aiClassifier == nil {
		return decision
	}
	if email.Status != emaildomain.StatusUnclassified {
		return decision
	}

	actionable, err := e.aiClassifier.IsActionable(ctx, email.Subject, email.Body)
	if err != nil {
		log.Printf("[Engine] AI scoring failed for email %s: %v", email.ID, err)
		return classify.DecisionNone
	}
	if actionable {
		return classify.DecisionCandidate
	}
	return classify.DecisionNone
}

// promote converts candidates into todos exactly once. Candidates matching
// the dismissal archive or an excluded subject advance to promoted without
// an insert so they leave the candidate pool for good.
func (e *Engine) promote(emails []*emaildomain.Email, snap *classify.Snapshot, cfg Config, now time.Time, result *PassResult) {
	dismissedSet := make(map[string]struct{}, len(snap.DismissedSubjects))
	for _, s := range snap.DismissedSubjects {
		dismissedSet[s] = struct{}{}
	}

	maxOrder, err := e.todoRepo.MaxSortOrder()
	if err != nil {
		log.Printf("[Engine] Failed to read sort order, promotion skipped: %v", err)
		return
	}

	for _, email := range emails {
		if email.Status != emaildomain.StatusCandidate {
			continue
		}

		if e.alreadyHandled(email, dismissedSet, snap.ExcludedSubjects, cfg.SimilarityThreshold) {
			if err := e.markPromoted(email); err == nil {
				result.Promoted++
			}
			continue
		}

		hash := emaildomain.PromotionFingerprint(email.ReceivedAt, email.Subject)
		exists, err := e.todoRepo.ExistsByEmailHash(hash)
		if err != nil {
			log.Printf("[Engine] Fingerprint lookup failed for email %s: %v", email.ID, err)
			continue
		}
		if exists {
			if err := e.markPromoted(email); err == nil {
				result.Promoted++
			}
			continue
		}

		deadline := classify.ExtractDeadline(email.Subject, now)
		if deadline == "" {
			deadline = classify.ExtractDeadline(email.Body, now)
		}
		if deadline == "" {
			deadline = email.Deadline
		}

		maxOrder++
		todo := &tododomain.Todo{
			Task:      email.Subject,
			Memo:      excerpt(email.Body, cfg.MemoExcerptLen),
			Deadline:  deadline,
			DDay:      tododomain.DDayFor(deadline, now),
			Status:    tododomain.TodoStatusActive,
			EmailHash: &hash,
			SortOrder: maxOrder,
		}
		inserted, err := e.todoRepo.CreateIgnoreDuplicate(todo)
		if err != nil {
			log.Printf("[Engine] Failed to insert todo for email %s: %v", email.ID, err)
			continue
		}

		if err := e.markPromoted(email); err != nil {
			continue
		}
		result.Promoted++
		if inserted {
			result.PromotedTodos = append(result.PromotedTodos, todo)
		}
	}
}

func (e *Engine) alreadyHandled(email *emaildomain.Email, dismissed map[string]struct{}, excludedSubjects []string, threshold float64) bool {
	if _, ok := dismissed[fuzzy.Normalize(email.Subject)]; ok {
		return true
	}
	for _, subject := range excludedSubjects {
		if fuzzy.Similarity(email.Subject, subject) >= threshold {
			return true
		}
	}
	return false
}

func (e *Engine) markPromoted(email *emaildomain.Email) error {
	if err := e.emailRepo.UpdateStatus(email.ID, emaildomain.StatusPromoted); err != nil {
		log.Printf("[Engine] Failed to mark email %s as promoted: %v", email.ID, err)
		return err
	}
	email.Status = emaildomain.StatusPromoted
	return nil
}

// fanOut signals the UI and pushes notifications after the pass's
// mutations are all committed.
func (e *Engine) fanOut(ctx context.Context, result *PassResult) {
	if result.Candidates == 0 && result.Excluded == 0 && result.Promoted == 0 {
		return
	}
	if e.events != nil {
		e.events.Broadcast(sse.EventDataChanged, nil)
	}
	if e.notifier != nil && len(result.PromotedTodos) > 0 {
		if err := e.notifier.NotifyPromoted(ctx, result.PromotedTodos); err != nil {
			log.Printf("[Engine] Push notification failed: %v", err)
		}
	}
}

func excerpt(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
