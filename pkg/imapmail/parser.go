package imapmail

import (
	"io"
	"mime"
	"regexp"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-message/mail"
)

// RawEmail is one parsed message handed to the ingestion layer
type RawEmail struct {
	ReceivedAt time.Time
	Subject    string
	Body       string
	FromAddr   string
}

var addressPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

// ParseMessage extracts the subject, plain-text body, sender address and
// received time from a fetched IMAP message
func ParseMessage(msg *imap.Message) (*RawEmail, error) {
	section := &imap.BodySectionName{}
	r := msg.GetBody(section)
	if r == nil {
		return nil, io.EOF
	}

	mr, err := mail.CreateReader(r)
	if err != nil {
		return nil, err
	}

	email := &RawEmail{
		ReceivedAt: msg.InternalDate,
	}

	header := mr.Header

	email.FromAddr = addressPattern.FindString(header.Get("From"))

	subject, err := decodeHeader(header.Get("Subject"))
	if err != nil {
		return nil, err
	}
	email.Subject = subject

	// Extract body text/plain
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}

		switch h := p.Header.(type) {
		case *mail.InlineHeader:
			contentType, _, err := h.ContentType()
			if err != nil {
				continue
			}
			if contentType == "text/plain" {
				body, err := io.ReadAll(p.Body)
				if err != nil {
					continue
				}
				email.Body = string(body)
			}
		}
	}

	return email, nil
}

// decodeHeader decodes MIME-encoded headers (e.g., "=?UTF-8?B?...?=") to plain text
func decodeHeader(encoded string) (string, error) {
	decoder := new(mime.WordDecoder)
	decoded, err := decoder.DecodeHeader(encoded)
	if err != nil {
		return "", err
	}
	return decoded, nil
}
