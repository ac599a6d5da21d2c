package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	authDelivery "mailtodo-backend/internal/auth/delivery"
)

func SetupRoutes(r *gin.Engine, h *Handler) {
	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		authRequired := authDelivery.AuthMiddleware(h.authUsecase)

		// SSE endpoint
		api.GET("/events", authRequired, h.streamEvents)

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.authHandler.Register)
			auth.POST("/login", h.authHandler.Login)
			auth.POST("/refresh", h.authHandler.Refresh)
			auth.POST("/logout", h.authHandler.Logout)
			auth.GET("/me", authRequired, h.authHandler.Me)
		}

		// FCM routes (protected)
		fcm := api.Group("/fcm")
		fcm.Use(authRequired)
		{
			fcm.POST("/register", h.authHandler.SaveFCMToken)
			fcm.DELETE("/register", h.authHandler.DeleteFCMToken)
		}

		// Email routes (protected)
		emails := api.Group("/emails")
		emails.Use(authRequired)
		{
			emails.GET("", h.emailHandler.GetEmails)
			emails.GET("/:id", h.emailHandler.GetEmailByID)
			emails.POST("/:id/dismiss", h.emailHandler.DismissEmail)
			emails.DELETE("/:id", h.emailHandler.DeleteEmail)
		}

		// Manual sync: fetch mail, then run one classification pass
		api.POST("/sync", authRequired, h.syncNow)

		// Semantic search (protected)
		api.GET("/search/semantic", authRequired, h.emailHandler.SemanticSearch)

		// Todo routes (protected)
		todos := api.Group("/todos")
		todos.Use(authRequired)
		{
			todos.GET("", h.todoHandler.GetTodos)
			todos.POST("", h.todoHandler.CreateTodo)
			todos.PUT("/:id/deadline", h.todoHandler.SetDeadline)
			todos.PUT("/:id/complete", h.todoHandler.SetCompleted)
			todos.POST("/:id/dismiss", h.todoHandler.DismissTodo)
			todos.DELETE("/:id", h.todoHandler.MoveToTrash)
			todos.POST("/reorder", h.todoHandler.ReorderTodos)
			todos.DELETE("/trash", h.todoHandler.EmptyTrash)
		}

		// Keyword routes (protected)
		keywords := api.Group("/keywords")
		keywords.Use(authRequired)
		{
			keywords.GET("", h.keywordHandler.GetKeywords)
			keywords.POST("", h.keywordHandler.AddKeyword)
			keywords.DELETE("/:id", h.keywordHandler.DeleteKeyword)
		}

		// Settings routes (protected) - mailbox connection and engine tuning
		settings := api.Group("/settings")
		settings.Use(authRequired)
		{
			settings.GET("/mail", h.emailHandler.GetMailSettings)
			settings.PUT("/mail", h.emailHandler.SaveMailSettings)
			settings.GET("/engine", GetEngineSettings(h.engine))
			settings.PUT("/engine", UpdateEngineSettings(h.engine))
		}
	}
}
