package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"sispar/internal/api"
	"sispar/internal/api/handlers"
	"sispar/internal/repository"
	"sispar/internal/service"
	"sispar/pkg/auth"
	"sispar/pkg/config"
	"sispar/pkg/logger"
	"sispar/pkg/postgres"

	"go.uber.org/zap"
)

// @title SISPAR API
// @version 1.0
// @description Sistema de solicitação e análise de reembolsos corporativos com OCR e detecção de fraude

// @contact.name API Support
// @contact.email suporte@sispar.com.br

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting SISPAR service")

	// Initialize database
	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Initialize repositories
	collaboratorRepo := repository.NewCollaboratorRepository(db, appLogger)
	reimbursementRepo := repository.NewReimbursementRepository(db, appLogger)
	receiptRepo := repository.NewReceiptRepository(db, appLogger)
	analysisRepo := repository.NewAnalysisRepository(db, appLogger)

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration, cfg.JWT.RefreshExp)

	// Initialize services
	collaboratorService := service.NewCollaboratorService(collaboratorRepo, jwtManager, appLogger)

	ocrService := service.NewOCRService(&cfg.OCR, appLogger)

	// Vision analysis is optional: without an API key analyses run on the
	// OCR-only fallback.
	var vision service.VisionAnalyzer
	if cfg.Gemini.APIKey != "" {
		visionService, err := service.NewGeminiVisionService(ctx, &cfg.Gemini, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to initialize vision service", zap.Error(err))
		}
		defer visionService.Close()
		vision = visionService
	} else {
		appLogger.Warn("GEMINI_API_KEY not set, fraud analyses will use the OCR-only fallback")
	}

	uploadDir := cfg.Storage.UploadDir
	receiptService := service.NewReceiptService(receiptRepo, reimbursementRepo, ocrService,
		uploadDir, cfg.OCR.TolerancePercent, appLogger)
	reimbursementService := service.NewReimbursementService(reimbursementRepo, receiptRepo,
		analysisRepo, uploadDir, appLogger)
	analysisService := service.NewAnalysisService(analysisRepo, reimbursementRepo, receiptRepo,
		vision, uploadDir, cfg.OCR.TolerancePercent, appLogger)
	chatService := service.NewChatService(&cfg.Groq, reimbursementRepo, appLogger)

	// Initialize handlers
	collaboratorHandler := handlers.NewCollaboratorHandler(collaboratorService, appLogger)
	reimbursementHandler := handlers.NewReimbursementHandler(reimbursementService, appLogger)
	receiptHandler := handlers.NewReceiptHandler(receiptService, appLogger)
	analysisHandler := handlers.NewAnalysisHandler(analysisService, appLogger)
	chatHandler := handlers.NewChatHandler(chatService, appLogger)

	// Setup router
	app := api.SetupRouter(&cfg.Server, collaboratorHandler, reimbursementHandler, receiptHandler,
		analysisHandler, chatHandler, jwtManager, appLogger)

	// Start server
	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
