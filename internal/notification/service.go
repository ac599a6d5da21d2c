package notification

import (
	"context"
	"fmt"
	"log"

	authrepo "mailtodo-backend/internal/auth/repository"
	emailrepo "mailtodo-backend/internal/email/repository"
	tododomain "mailtodo-backend/internal/todo/domain"
	"mailtodo-backend/pkg/fcm"
)

// Service sends push notifications for todos promoted by the engine and
// records which emails were already announced.
type Service struct {
	fcmClient *fcm.Client
	fcmRepo   authrepo.FCMTokenRepository
	emailRepo emailrepo.EmailRepository
}

// NewService creates a new notification Service
func NewService(fcmClient *fcm.Client, fcmRepo authrepo.FCMTokenRepository, emailRepo emailrepo.EmailRepository) *Service {
	return &Service{
		fcmClient: fcmClient,
		fcmRepo:   fcmRepo,
		emailRepo: emailRepo,
	}
}

// NotifyPromoted pushes one notification per promoted todo to every
// registered device, then flags the source emails as notified. Tokens FCM
// rejects are pruned.
func (s *Service) NotifyPromoted(ctx context.Context, todos []*tododomain.Todo) error {
	if len(todos) == 0 {
		return nil
	}

	tokens, err := s.fcmRepo.AllTokens()
	if err != nil {
		return fmt.Errorf("failed to load device tokens: %w", err)
	}
	if len(tokens) == 0 {
		return nil
	}

	tokenStrings := make([]string, 0, len(tokens))
	for _, t := range tokens {
		tokenStrings = append(tokenStrings, t.Token)
	}

	var notifiedHashes []string
	staleTokens := make(map[string]struct{})

	for _, todo := range todos {
		body := todo.Task
		if todo.Deadline != "" {
			body = fmt.Sprintf("%s (마감: %s)", todo.Task, todo.Deadline)
		}

		failed, err := s.fcmClient.SendToDevices(ctx, tokenStrings, fcm.NotificationData{
			Title: "새로운 할 일이 등록되었습니다",
			Body:  body,
			Data: map[string]string{
				"type":    "todo-promoted",
				"todo_id": todo.ID,
			},
		})
		if err != nil {
			log.Printf("[Notification] Push for todo %s failed: %v", todo.ID, err)
			continue
		}
		for _, token := range failed {
			staleTokens[token] = struct{}{}
		}

		if todo.EmailHash != nil {
			notifiedHashes = append(notifiedHashes, *todo.EmailHash)
		}
	}

	for token := range staleTokens {
		if err := s.fcmRepo.DeleteToken(token); err != nil {
			log.Printf("[Notification] Failed to prune stale token: %v", err)
		}
	}

	if len(notifiedHashes) > 0 {
		if err := s.emailRepo.MarkNotifiedByPromoteHash(notifiedHashes); err != nil {
			return fmt.Errorf("failed to flag notified emails: %w", err)
		}
	}
	return nil
}
