package usecase

import (
	"errors"
	"log"
	"strings"

	emaildomain "mailtodo-backend/internal/email/domain"
	emailrepo "mailtodo-backend/internal/email/repository"
	"mailtodo-backend/internal/keyword/domain"
	"mailtodo-backend/internal/keyword/repository"
)

// keywordUsecase implements KeywordUsecase
type keywordUsecase struct {
	keywordRepo repository.KeywordRepository
	emailRepo   emailrepo.EmailRepository
}

// NewKeywordUsecase creates a new instance of keywordUsecase
func NewKeywordUsecase(keywordRepo repository.KeywordRepository, emailRepo emailrepo.EmailRepository) KeywordUsecase {
	return &keywordUsecase{
		keywordRepo: keywordRepo,
		emailRepo:   emailRepo,
	}
}

func (u *keywordUsecase) ListKeywords() ([]*domain.Keyword, error) {
	return u.keywordRepo.FindAll()
}

func (u *keywordUsecase) AddKeyword(word string, keywordType domain.KeywordType) (*domain.Keyword, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return nil, errors.New("keyword is empty")
	}
	if keywordType != domain.KeywordInclude && keywordType != domain.KeywordExclude {
		return nil, errors.New("invalid keyword type")
	}

	keyword := &domain.Keyword{Word: word, Type: keywordType}
	inserted, err := u.keywordRepo.CreateIgnoreDuplicate(keyword)
	if err != nil {
		return nil, err
	}

	if inserted && keywordType == domain.KeywordInclude {
		u.markMatchingEmails(word)
	}

	return keyword, nil
}

func (u *keywordUsecase) AddExcludeKeyword(word string) error {
	word = strings.TrimSpace(word)
	if word == "" {
		return nil
	}
	_, err := u.keywordRepo.CreateIgnoreDuplicate(&domain.Keyword{
		Word: word,
		Type: domain.KeywordExclude,
	})
	return err
}

func (u *keywordUsecase) DeleteKeyword(id string) error {
	return u.keywordRepo.Delete(id)
}

// markMatchingEmails flags stored unclassified emails containing the new
// include keyword as candidates right away, without waiting for the next
// classification pass.
func (u *keywordUsecase) markMatchingEmails(word string) {
	emails, err := u.emailRepo.FindByStatus(emaildomain.StatusUnclassified)
	if err != nil {
		log.Printf("[Keyword] Failed to load unclassified emails: %v", err)
		return
	}

	lower := strings.ToLower(word)
	marked := 0
	for _, email := range emails {
		text := strings.ToLower(email.Subject + " " + email.Body)
		if !strings.Contains(text, lower) {
			continue
		}
		if err := u.emailRepo.UpdateStatus(email.ID, emaildomain.StatusCandidate); err != nil {
			log.Printf("[Keyword] Failed to mark email %s: %v", email.ID, err)
			continue
		}
		marked++
	}

	if marked > 0 {
		log.Printf("[Keyword] Include keyword %q marked %d emails as candidates", word, marked)
	}
}
