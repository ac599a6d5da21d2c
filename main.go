package main

import (
	"log"

	api "mailtodo-backend/cmd/api"
	authDelivery "mailtodo-backend/internal/auth/delivery"
	authdomain "mailtodo-backend/internal/auth/domain"
	authRepo "mailtodo-backend/internal/auth/repository"
	authUsecase "mailtodo-backend/internal/auth/usecase"
	emailDelivery "mailtodo-backend/internal/email/delivery"
	emaildomain "mailtodo-backend/internal/email/domain"
	emailRepo "mailtodo-backend/internal/email/repository"
	emailUsecase "mailtodo-backend/internal/email/usecase"
	"mailtodo-backend/internal/engine"
	keywordDelivery "mailtodo-backend/internal/keyword/delivery"
	keyworddomain "mailtodo-backend/internal/keyword/domain"
	keywordRepo "mailtodo-backend/internal/keyword/repository"
	keywordUsecase "mailtodo-backend/internal/keyword/usecase"
	"mailtodo-backend/internal/notification"
	todoDelivery "mailtodo-backend/internal/todo/delivery"
	tododomain "mailtodo-backend/internal/todo/domain"
	todoRepo "mailtodo-backend/internal/todo/repository"
	todoUsecase "mailtodo-backend/internal/todo/usecase"
	"mailtodo-backend/pkg/ai"
	"mailtodo-backend/pkg/chroma"
	"mailtodo-backend/pkg/config"
	"mailtodo-backend/pkg/database"
	"mailtodo-backend/pkg/fcm"
	"mailtodo-backend/pkg/imapmail"
	"mailtodo-backend/pkg/sse"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(
		&authdomain.User{},
		&authdomain.RefreshToken{},
		&authdomain.FCMToken{},
		&emaildomain.Email{},
		&emaildomain.DismissedEmail{},
		&emaildomain.MailSettings{},
		&keyworddomain.Keyword{},
		&tododomain.Todo{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	userRepository := authRepo.NewUserRepository(db)
	fcmTokenRepository := authRepo.NewFCMTokenRepository(db)
	emailRepository := emailRepo.NewGormEmailRepository(db)
	dismissedRepository := emailRepo.NewGormDismissedEmailRepository(db)
	settingsRepository := emailRepo.NewGormMailSettingsRepository(db)
	keywordRepository := keywordRepo.NewGormKeywordRepository(db)
	todoRepository := todoRepo.NewGormTodoRepository(db)

	// Initialize SSE hub
	hub := sse.NewHub()

	// Initialize use cases
	authUsecaseInstance := authUsecase.NewAuthUsecase(userRepository, cfg)
	keywordUsecaseInstance := keywordUsecase.NewKeywordUsecase(keywordRepository, emailRepository)
	emailUsecaseInstance := emailUsecase.NewEmailUsecase(emailRepository, dismissedRepository, settingsRepository, keywordUsecaseInstance, imapmail.NewFetcher(), cfg)
	emailUsecaseInstance.SetEventHub(hub)
	todoUsecaseInstance := todoUsecase.NewTodoUsecase(todoRepository, keywordUsecaseInstance)

	// Classification engine
	eng := engine.NewEngine(emailRepository, dismissedRepository, todoRepository, keywordRepository, engine.Config{
		LookbackDays:        cfg.LookbackDays,
		SimilarityThreshold: cfg.SimilarityThreshold,
		SubKeywordThreshold: cfg.SubKeywordThreshold,
		MemoExcerptLen:      cfg.MemoExcerptLen,
	})
	eng.SetEventHub(hub)

	// Optional AI scorer for emails the rules leave unclassified
	if cfg.AIProvider != "" {
		aiClassifier, err := ai.NewTodoClassifier(ai.Config{
			Provider:      ai.ProviderType(cfg.AIProvider),
			GeminiAPIKey:  cfg.GeminiAPIKey,
			OllamaBaseURL: cfg.OllamaBaseURL,
			OllamaModel:   cfg.OllamaModel,
		})
		if err != nil {
			log.Printf("[WARN] Failed to initialize AI classifier (rule chain only): %v", err)
		} else {
			eng.SetAIClassifier(aiClassifier)
			log.Printf("AI classifier initialized with provider: %s", cfg.AIProvider)
		}
	}

	// Optional semantic search over the email store
	if cfg.ChromaURL != "" {
		chromaClient, err := chroma.NewChromaClient(cfg.ChromaURL, cfg.GeminiAPIKey, cfg.ChromaCollection)
		if err != nil {
			log.Printf("[WARN] Failed to initialize Chroma client (semantic search disabled): %v", err)
		} else {
			emailUsecaseInstance.SetVectorSearchService(chromaClient)
			log.Println("Chroma client initialized successfully")
		}
	}

	// Optional push notifications for promoted todos
	if cfg.FirebaseCredentialsFile != "" {
		fcmClient, err := fcm.NewClient(cfg.FirebaseCredentialsFile)
		if err != nil {
			log.Printf("[WARN] Failed to initialize FCM client (push notifications disabled): %v", err)
		} else {
			eng.SetNotifier(notification.NewService(fcmClient, fcmTokenRepository, emailRepository))
		}
	}

	// Periodic sync + classification pass
	scheduler := engine.NewScheduler(eng, emailUsecaseInstance)
	scheduler.Start()
	defer scheduler.Stop()

	// Delivery handlers
	authHandler := authDelivery.NewAuthHandler(authUsecaseInstance, fcmTokenRepository)
	emailHandler := emailDelivery.NewEmailHandler(emailUsecaseInstance)
	todoHandler := todoDelivery.NewTodoHandler(todoUsecaseInstance)
	todoHandler.SetEventHub(hub)
	keywordHandler := keywordDelivery.NewKeywordHandler(keywordUsecaseInstance)

	handler := api.NewHandler(authUsecaseInstance, emailUsecaseInstance, authHandler, emailHandler, todoHandler, keywordHandler, eng, hub)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
