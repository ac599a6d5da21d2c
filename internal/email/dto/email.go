package dto

import "mailtodo-backend/internal/email/domain"

// EmailsResponse wraps a list of emails
type EmailsResponse struct {
	Emails []*domain.Email `json:"emails"`
	Total  int             `json:"total"`
}

// MailSettingsRequest is the payload for saving mailbox connection settings
type MailSettingsRequest struct {
	Protocol  string `json:"protocol"`
	Host      string `json:"host" binding:"required"`
	Port      int    `json:"port"`
	Username  string `json:"username" binding:"required"`
	Password  string `json:"password"`
	SinceDate string `json:"since_date"`
	UseTLS    *bool  `json:"use_tls"`
}

// SyncResponse reports the outcome of a mailbox sync
type SyncResponse struct {
	Inserted int `json:"inserted"`
}
