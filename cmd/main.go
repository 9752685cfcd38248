package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/savoria/tavola/adapters/llm"
	"github.com/savoria/tavola/adapters/menufile"
	mongoadapter "github.com/savoria/tavola/adapters/mongo"
	"github.com/savoria/tavola/adapters/stt"
	"github.com/savoria/tavola/domain/entities"
	"github.com/savoria/tavola/domain/repositories"
	"github.com/savoria/tavola/internal/api"
	"github.com/savoria/tavola/internal/voice"
	"github.com/savoria/tavola/usecase"
)

func main() {
	// Load .env when present; real deployments set env directly
	_ = godotenv.Load()

	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Select the menu store variant
	menuRepo, cleanup := newMenuRepository(logger)
	defer cleanup()

	// Seed the menu with the built-in sample set
	seedCtx, seedCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := menuRepo.Seed(seedCtx, entities.SampleMenu(time.Now())); err != nil {
		logger.Error("Menu seeding failed, continuing with whatever the store holds", zap.Error(err))
	}
	seedCancel()

	// Initialize adapters
	languageModel := newLanguageModel(logger)
	speechToText := newSpeechToText(logger)

	// Initialize usecase services
	assistant := usecase.NewAssistantService(menuRepo, languageModel, speechToText, logger)

	// Initialize WebSocket voice hub
	hub := voice.NewHub(assistant, logger)
	go hub.Run()

	// Initialize API routes
	api.InitRoutes(e, assistant, hub, logger)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	go func() {
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	logger.Info("Restaurant assistant server started", zap.String("port", port))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// newMenuRepository picks the store variant from MENU_STORE: "mongo" for
// the document-database variant, anything else for the flat-file one.
func newMenuRepository(logger *zap.Logger) (repositories.MenuRepository, func()) {
	if os.Getenv("MENU_STORE") == "mongo" {
		client, err := mongoadapter.NewClient(logger)
		if err != nil {
			logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
		}
		cleanup := func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Close(ctx)
		}
		return mongoadapter.NewMenuRepository(client.Database, logger), cleanup
	}

	path := os.Getenv("MENU_FILE")
	if path == "" {
		path = "menu.json"
	}
	return menufile.NewRepository(path, logger), func() {}
}

func newLanguageModel(logger *zap.Logger) repositories.LanguageModel {
	model, err := llm.NewGeminiLLM(logger)
	if err != nil {
		logger.Warn("Gemini unavailable, using mock language model", zap.Error(err))
		return llm.NewMockLanguageModel()
	}
	return model
}

func newSpeechToText(logger *zap.Logger) repositories.SpeechToText {
	if os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") == "" {
		logger.Warn("Google credentials not configured, using mock speech-to-text")
		return stt.NewMockSpeechToText(logger)
	}
	return stt.NewGoogleSpeechToText()
}
