package domain

import (
	"math"
	"time"
)

// TodoStatus represents the current state of a todo
type TodoStatus string

const (
	TodoStatusActive     TodoStatus = "active"
	TodoStatusDone       TodoStatus = "done"
	TodoStatusTrashed    TodoStatus = "trashed"
	TodoStatusSuppressed TodoStatus = "suppressed"
)

// Todo represents a durable actionable item, either user-created or
// promoted from an email.
type Todo struct {
	ID        string     `json:"id" gorm:"primaryKey"`
	Task      string     `json:"task" gorm:"not null"`
	Memo      string     `json:"memo,omitempty" gorm:"type:text"`
	Deadline  string     `json:"deadline,omitempty"` // ISO date, may be empty
	DDay      *int       `json:"d_day,omitempty"`    // Whole days until the deadline, recomputed on writes
	Status    TodoStatus `json:"status" gorm:"index;default:active"`
	EmailHash *string    `json:"email_hash,omitempty" gorm:"uniqueIndex"` // Promotion fingerprint; one todo per source email
	SortOrder int        `json:"sort_order" gorm:"index;default:0"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// DDayFor computes the whole-day count from now (truncated to midnight) to
// an ISO deadline, rounding partial days up. Empty or unparseable deadlines
// yield nil.
func DDayFor(deadline string, now time.Time) *int {
	if deadline == "" {
		return nil
	}
	target, err := time.ParseInLocation("2006-01-02", deadline, now.Location())
	if err != nil {
		return nil
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	days := int(math.Ceil(target.Sub(today).Hours() / 24))
	return &days
}
