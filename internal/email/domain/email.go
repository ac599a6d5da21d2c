package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// EmailStatus is the lifecycle state of an ingested email. Promoted and
// excluded are terminal for the classification engine.
type EmailStatus int

const (
	StatusUnclassified EmailStatus = 0
	StatusCandidate    EmailStatus = 1
	StatusPromoted     EmailStatus = 2
	StatusTrashed      EmailStatus = 3
	StatusExcluded     EmailStatus = 9
)

func (s EmailStatus) String() string {
	switch s {
	case StatusUnclassified:
		return "unclassified"
	case StatusCandidate:
		return "candidate"
	case StatusPromoted:
		return "promoted"
	case StatusTrashed:
		return "trashed"
	case StatusExcluded:
		return "excluded"
	default:
		return "unknown"
	}
}

// Email represents one ingested message
type Email struct {
	ID          string      `json:"id" gorm:"primaryKey"`
	ContentHash string      `json:"content_hash" gorm:"uniqueIndex;not null"` // At-most-once storage of the same message
	PromoteHash string      `json:"promote_hash" gorm:"index;not null"`       // Idempotence key for todo promotion
	ReceivedAt  time.Time   `json:"received_at" gorm:"index;not null"`
	Subject     string      `json:"subject"`
	Body        string      `json:"body" gorm:"type:text"`
	FromAddr    string      `json:"from_addr"`
	Status      EmailStatus `json:"status" gorm:"index;default:0"`
	Deadline    string      `json:"deadline,omitempty"` // ISO date extracted at ingestion, may be empty
	Memo        string      `json:"memo,omitempty" gorm:"type:text"`
	Notified    bool        `json:"notified" gorm:"default:false"` // Track if a push was sent for this email
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// ContentFingerprint identifies a message by its content so repeated syncs
// store it at most once.
func ContentFingerprint(subject, body, fromAddr string, receivedAt time.Time) string {
	sum := sha256.Sum256([]byte(subject + body + fromAddr + receivedAt.UTC().Format(time.RFC3339)))
	return hex.EncodeToString(sum[:])
}

// PromotionFingerprint is the idempotence key tying an email to the todo it
// promotes into. The subject is trimmed so sender-side whitespace drift does
// not change the key.
func PromotionFingerprint(receivedAt time.Time, subject string) string {
	sum := sha256.Sum256([]byte(receivedAt.UTC().Format(time.RFC3339) + strings.TrimSpace(subject)))
	return hex.EncodeToString(sum[:])
}
