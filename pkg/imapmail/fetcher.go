package imapmail

import (
	"fmt"
	"log"
	"time"
)

// Fetcher pulls recent messages for the ingestion layer. One connection
// per call; the mailbox is never mutated.
type Fetcher struct{}

// NewFetcher creates a new Fetcher
func NewFetcher() *Fetcher {
	return &Fetcher{}
}

// FetchSince connects to the mailbox, searches messages received on or
// after since, and returns the newest limit of them parsed. Messages that
// fail to parse are logged and skipped.
func (f *Fetcher) FetchSince(host string, port int, useTLS bool, user, password string, since time.Time, limit int) ([]*RawEmail, error) {
	c := NewClient()
	if err := c.Connect(fmt.Sprintf("%s:%d", host, port), useTLS); err != nil {
		return nil, err
	}
	defer c.Close()

	if err := c.Login(user, password); err != nil {
		return nil, fmt.Errorf("IMAP login failed: %w", err)
	}
	if err := c.SelectMailbox("INBOX"); err != nil {
		return nil, fmt.Errorf("failed to select INBOX: %w", err)
	}

	uids, err := c.SearchSince(since)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(uids) > limit {
		uids = uids[len(uids)-limit:]
	}

	var emails []*RawEmail
	for _, uid := range uids {
		msg, err := c.FetchMessage(uid)
		if err != nil {
			log.Printf("[IMAP] Failed to fetch UID %d: %v", uid, err)
			continue
		}
		parsed, err := ParseMessage(msg)
		if err != nil {
			log.Printf("[IMAP] Failed to parse UID %d: %v", uid, err)
			continue
		}
		emails = append(emails, parsed)
	}

	return emails, nil
}
