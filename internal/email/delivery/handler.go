package delivery

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"mailtodo-backend/internal/email/domain"
	emaildto "mailtodo-backend/internal/email/dto"
	"mailtodo-backend/internal/email/usecase"
)

type EmailHandler struct {
	emailUsecase usecase.EmailUsecase
}

func NewEmailHandler(emailUsecase usecase.EmailUsecase) *EmailHandler {
	return &EmailHandler{
		emailUsecase: emailUsecase,
	}
}

// GetEmails returns emails in the requested state (default: candidate)
func (h *EmailHandler) GetEmails(c *gin.Context) {
	status, ok := parseStatus(c.DefaultQuery("status", "candidate"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	emails, err := h.emailUsecase.GetEmailsByStatus(status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, emaildto.EmailsResponse{Emails: emails, Total: len(emails)})
}

func (h *EmailHandler) GetEmailByID(c *gin.Context) {
	id := c.Param("id")
	email, err := h.emailUsecase.GetEmailByID(id)
	if err != nil {
		if err.Error() == "email not found" {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, email)
}

// DismissEmail archives the email and registers its subject as an exclude
// keyword
func (h *EmailHandler) DismissEmail(c *gin.Context) {
	id := c.Param("id")
	if err := h.emailUsecase.DismissEmail(id); err != nil {
		if err.Error() == "email not found" {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "email dismissed"})
}

// DeleteEmail archives the email and moves it to trash
func (h *EmailHandler) DeleteEmail(c *gin.Context) {
	id := c.Param("id")
	if err := h.emailUsecase.DeleteEmail(id); err != nil {
		if err.Error() == "email not found" {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "email deleted"})
}

// SyncMail triggers an immediate mailbox sync
func (h *EmailHandler) SyncMail(c *gin.Context) {
	inserted, err := h.emailUsecase.SyncMail(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, emaildto.SyncResponse{Inserted: inserted})
}

func (h *EmailHandler) GetMailSettings(c *gin.Context) {
	settings, err := h.emailUsecase.GetMailSettings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if settings == nil {
		c.JSON(http.StatusOK, gin.H{})
		return
	}

	c.JSON(http.StatusOK, settings)
}

// SaveMailSettings stores the mailbox connection and kicks off a sync so
// the user sees mail right away
func (h *EmailHandler) SaveMailSettings(c *gin.Context) {
	var req emaildto.MailSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	settings := &domain.MailSettings{
		Protocol:  req.Protocol,
		Host:      req.Host,
		Port:      req.Port,
		Username:  req.Username,
		Password:  req.Password,
		SinceDate: req.SinceDate,
		UseTLS:    true,
	}
	if req.UseTLS != nil {
		settings.UseTLS = *req.UseTLS
	}

	// The password never leaves the server, so an empty field on update
	// means "keep the stored one"
	if existing, err := h.emailUsecase.GetMailSettings(); err == nil && existing != nil {
		settings.ID = existing.ID
		if settings.Password == "" {
			settings.Password = existing.Password
		}
	}

	if err := h.emailUsecase.SaveMailSettings(settings); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if _, err := h.emailUsecase.SyncMail(ctx); err != nil {
			log.Printf("[Email] Initial sync after saving settings failed: %v", err)
		}
	}()

	c.JSON(http.StatusOK, gin.H{"message": "mail settings saved"})
}

// SemanticSearch finds stored emails by meaning rather than exact words
func (h *EmailHandler) SemanticSearch(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'q' is required"})
		return
	}

	limit := 10
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	emails, err := h.emailUsecase.SemanticSearch(c.Request.Context(), query, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, emaildto.EmailsResponse{Emails: emails, Total: len(emails)})
}

func parseStatus(name string) (domain.EmailStatus, bool) {
	switch name {
	case "unclassified":
		return domain.StatusUnclassified, true
	case "candidate":
		return domain.StatusCandidate, true
	case "promoted":
		return domain.StatusPromoted, true
	case "trashed":
		return domain.StatusTrashed, true
	case "excluded":
		return domain.StatusExcluded, true
	default:
		return 0, false
	}
}
