package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	authDelivery "mailtodo-backend/internal/auth/delivery"
	authUsecasePkg "mailtodo-backend/internal/auth/usecase"
	emailDelivery "mailtodo-backend/internal/email/delivery"
	emailUsecasePkg "mailtodo-backend/internal/email/usecase"
	"mailtodo-backend/internal/engine"
	keywordDelivery "mailtodo-backend/internal/keyword/delivery"
	todoDelivery "mailtodo-backend/internal/todo/delivery"
	"mailtodo-backend/pkg/sse"
)

// Handler assembles the HTTP surface: delivery handlers, the SSE hub, and
// the classification engine behind the manual sync endpoint
type Handler struct {
	authUsecase    authUsecasePkg.AuthUsecase
	emailUsecase   emailUsecasePkg.EmailUsecase
	authHandler    *authDelivery.AuthHandler
	emailHandler   *emailDelivery.EmailHandler
	todoHandler    *todoDelivery.TodoHandler
	keywordHandler *keywordDelivery.KeywordHandler
	engine         *engine.Engine
	hub            *sse.Hub
}

func NewHandler(
	authUsecase authUsecasePkg.AuthUsecase,
	emailUsecase emailUsecasePkg.EmailUsecase,
	authHandler *authDelivery.AuthHandler,
	emailHandler *emailDelivery.EmailHandler,
	todoHandler *todoDelivery.TodoHandler,
	keywordHandler *keywordDelivery.KeywordHandler,
	eng *engine.Engine,
	hub *sse.Hub,
) *Handler {
	return &Handler{
		authUsecase:    authUsecase,
		emailUsecase:   emailUsecase,
		authHandler:    authHandler,
		emailHandler:   emailHandler,
		todoHandler:    todoHandler,
		keywordHandler: keywordHandler,
		engine:         eng,
		hub:            hub,
	}
}

func (h *Handler) Start(addr string) error {
	r := gin.Default()
	gin.SetMode(gin.ReleaseMode)

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h)

	return r.Run(addr)
}

// syncNow pulls new mail and runs one classification pass. A pass already
// running (the scheduler fires every minute) is reported as a conflict.
func (h *Handler) syncNow(c *gin.Context) {
	inserted, err := h.emailUsecase.SyncMail(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	result, err := h.engine.RunPass(c.Request.Context())
	if err != nil {
		if errors.Is(err, engine.ErrPassInProgress) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "inserted": inserted})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"inserted":   inserted,
		"evaluated":  result.Evaluated,
		"candidates": result.Candidates,
		"excluded":   result.Excluded,
		"promoted":   result.Promoted,
	})
}

// streamEvents holds the connection open and relays hub events as SSE
func (h *Handler) streamEvents(c *gin.Context) {
	ch := h.hub.Subscribe()
	defer h.hub.Unsubscribe(ch)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent(event.Name, event.Payload)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
