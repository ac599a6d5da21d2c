package domain

import "time"

// MailSettings holds the single mailbox connection this instance syncs
// from. One row; saving replaces it.
type MailSettings struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Protocol  string    `json:"protocol" gorm:"default:imap"`
	Host      string    `json:"host"`
	Port      int       `json:"port" gorm:"default:993"`
	Username  string    `json:"username"`
	Password  string    `json:"-"` // Never serialized back to clients
	SinceDate string    `json:"since_date"` // ISO date; sync fetches mail from here forward
	UseTLS    bool      `json:"use_tls" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (MailSettings) TableName() string {
	return "mail_settings"
}
