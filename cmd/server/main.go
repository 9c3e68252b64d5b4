package main

import (
	"context"
	"log"
	"os"

	"lexiai-backend/handlers"
	"lexiai-backend/logging"
	"lexiai-backend/repository"
	"lexiai-backend/service"
	"lexiai-backend/storage"
	"lexiai-backend/store"

	"github.com/gin-gonic/gin"
	"github.com/google/generative-ai-go/genai"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

func main() {
	// Load .env file from project root (relative to cmd/server/)
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../../.env"); err != nil {
			log.Printf("Warning: No .env file found, using environment variables")
		}
	}

	logger := logging.New(os.Getenv("DEBUG") != "")
	defer logger.Sync()

	ctx := context.Background()

	// Record store backend (local JSON files or Postgres)
	blobs, err := store.NewBlobStoreFromEnv(ctx)
	if err != nil {
		logger.Fatalw("Failed to initialize record store", "error", err)
	}
	recordStore := store.New(blobs)
	logger.Infow("Record store initialized")

	// File storage (local disk or S3)
	fileStorage, err := storage.NewStorageFromEnv()
	if err != nil {
		logger.Fatalw("Failed to initialize storage", "error", err)
	}
	logger.Infow("Storage initialized")

	// Repositories
	caseRepo := repository.NewCaseRepository(recordStore)
	documentRepo := repository.NewDocumentRepository(recordStore)
	messageRepo := repository.NewMessageRepository(recordStore)

	// Gemini client
	geminiClient, err := initGemini(ctx, logger)
	if err != nil {
		logger.Fatalw("Failed to initialize Gemini", "error", err)
	}

	invoker := service.NewGeminiInvoker(geminiClient, os.Getenv("GEMINI_MODEL"))
	extractor := service.NewGeminiExtractor(geminiClient, fileStorage, os.Getenv("GEMINI_MODEL"))

	// Services
	intakeService := service.NewIntakeService(
		service.IntakeWithCaseRepository(caseRepo),
		service.IntakeWithDocumentRepository(documentRepo),
		service.IntakeWithFileStorage(fileStorage),
		service.IntakeWithExtractor(extractor),
		service.IntakeWithInvoker(invoker),
		service.IntakeWithLogger(logger),
	)

	chatService := service.NewChatService(
		service.ChatWithCaseRepository(caseRepo),
		service.ChatWithDocumentRepository(documentRepo),
		service.ChatWithMessageRepository(messageRepo),
		service.ChatWithInvoker(invoker),
		service.ChatWithLogger(logger),
	)

	generatorService := service.NewGeneratorService(
		service.GeneratorWithInvoker(invoker),
		service.GeneratorWithLogger(logger),
	)

	// Handlers
	caseHandler := handlers.NewCaseHandler(caseRepo, documentRepo, messageRepo, logger)
	intakeHandler := handlers.NewIntakeHandler(intakeService)
	documentHandler := handlers.NewDocumentHandler(documentRepo, caseRepo, fileStorage, extractor, logger)
	messageHandler := handlers.NewMessageHandler(chatService)
	generatorHandler := handlers.NewGeneratorHandler(generatorService)

	// Setup Gin router
	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Case endpoints
		api.GET("/cases", caseHandler.ListCases)
		api.POST("/cases", caseHandler.CreateCase)
		api.GET("/cases/:id", caseHandler.GetCase)
		api.PATCH("/cases/:id", caseHandler.UpdateCase)
		api.DELETE("/cases/:id", caseHandler.DeleteCase)

		// Intake workflow endpoints
		api.POST("/cases/intake", intakeHandler.StartIntake)
		api.GET("/intake/:id", intakeHandler.GetIntake)
		api.POST("/intake/:id/retry", intakeHandler.RetryIntake)

		// Document endpoints
		api.GET("/cases/:id/documents", documentHandler.ListDocuments)
		api.POST("/cases/:id/documents", documentHandler.UploadDocument)
		api.DELETE("/documents/:id", documentHandler.DeleteDocument)

		// Chat endpoints
		api.GET("/cases/:id/messages", messageHandler.ListMessages)
		api.POST("/cases/:id/messages", messageHandler.SendMessage)

		// Generator endpoints
		api.GET("/generator/types", generatorHandler.ListDocumentTypes)
		api.POST("/generator", generatorHandler.Generate)
	}

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logger.Infow("Server starting", "port", port)
	if err := r.Run(":" + port); err != nil {
		logger.Fatalw("Failed to start server", "error", err)
	}
}

func initGemini(ctx context.Context, logger *zap.SugaredLogger) (*genai.Client, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		logger.Warnw("GEMINI_API_KEY not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	return client, nil
}
