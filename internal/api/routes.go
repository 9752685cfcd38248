package api

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/savoria/tavola/domain"
	"github.com/savoria/tavola/domain/repositories"
	"github.com/savoria/tavola/internal/auth"
	"github.com/savoria/tavola/internal/voice"
	"github.com/savoria/tavola/usecase"
)

// InitRoutes initializes all API routes
func InitRoutes(e *echo.Echo, assistant *usecase.AssistantService, hub *voice.Hub, logger *zap.Logger) {
	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "tavola-server",
		})
	})

	g := e.Group("/api")

	g.POST("/query", func(c echo.Context) error {
		return handleQuery(c, assistant, logger)
	})
	g.POST("/audio", func(c echo.Context) error {
		return handleAudio(c, assistant, logger)
	})
	g.GET("/welcome", func(c echo.Context) error {
		return handleWelcome(c, assistant, logger)
	})
	g.POST("/voice/token", func(c echo.Context) error {
		return handleVoiceToken(c, logger)
	})

	// WebSocket voice channel with JWT validation
	e.GET("/ws", func(c echo.Context) error {
		return websocketWithAuth(hub, c, logger)
	})
}

func handleQuery(c echo.Context, assistant *usecase.AssistantService, logger *zap.Logger) error {
	var req QueryRequest
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Query) == "" {
		logger.Warn("Rejected malformed query request")
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "no query provided"})
	}

	logger.Info("Received text query", zap.String("query", req.Query))

	response, err := assistant.ResolveText(c.Request().Context(), req.Query)
	if err != nil {
		logger.Error("Query resolution failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "no response generated"})
	}

	return c.JSON(http.StatusOK, QueryResponse{Response: response})
}

func handleAudio(c echo.Context, assistant *usecase.AssistantService, logger *zap.Logger) error {
	fileHeader, err := c.FormFile("audio")
	if err != nil {
		logger.Warn("Audio request without audio file")
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "no audio file provided"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error("Failed to open uploaded audio", zap.Error(err))
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unreadable audio file"})
	}
	defer file.Close()

	audioData, err := io.ReadAll(file)
	if err != nil {
		logger.Error("Failed to read uploaded audio", zap.Error(err))
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unreadable audio file"})
	}

	config := audioConfigFor(fileHeader.Filename, c.FormValue("sample_rate"))

	transcript, response, err := assistant.ResolveAudio(c.Request().Context(), audioData, config)
	if err != nil {
		if errors.Is(err, domain.ErrTranscription) {
			logger.Warn("Transcription failed", zap.Error(err))
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "could not transcribe audio"})
		}
		logger.Error("Audio resolution failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "no response generated"})
	}

	return c.JSON(http.StatusOK, AudioResponse{
		Transcript: transcript,
		Response:   response,
	})
}

func handleWelcome(c echo.Context, assistant *usecase.AssistantService, logger *zap.Logger) error {
	logger.Info("Sending welcome prompt")

	response, err := assistant.Welcome(c.Request().Context())
	if err != nil {
		logger.Error("Welcome prompt failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "no response generated"})
	}

	return c.JSON(http.StatusOK, QueryResponse{Response: response})
}

func handleVoiceToken(c echo.Context, logger *zap.Logger) error {
	clientID := uuid.NewString()

	token, err := auth.GenerateClientToken(clientID)
	if err != nil {
		logger.Error("Failed to generate voice token", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to generate token"})
	}

	return c.JSON(http.StatusOK, VoiceTokenResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(auth.TokenTTL),
		ClientID:  clientID,
	})
}

// websocketWithAuth handles WebSocket connections with JWT authentication
func websocketWithAuth(hub *voice.Hub, c echo.Context, logger *zap.Logger) error {
	var token string
	authHeader := c.Request().Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		token = strings.TrimPrefix(authHeader, "Bearer ")
	}

	if token == "" {
		logger.Warn("WebSocket connection rejected: missing token")
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing token"})
	}

	claims, err := auth.ValidateToken(token)
	if err != nil {
		logger.Warn("WebSocket connection rejected: invalid token", zap.Error(err))
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid token"})
	}

	if claims.Role != "client" || claims.ClientID == "" {
		logger.Warn("WebSocket connection rejected: invalid claims",
			zap.String("role", claims.Role))
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: "invalid token claims"})
	}

	logger.Info("WebSocket connection authenticated",
		zap.String("clientID", claims.ClientID))

	return voice.HandleConnection(hub, c, claims.ClientID, logger)
}

// audioConfigFor derives the speech encoding from the uploaded file's
// extension. Browser MediaRecorder uploads are webm/opus at 48 kHz.
func audioConfigFor(filename string, sampleRateForm string) repositories.AudioConfig {
	config := repositories.AudioConfig{
		SampleRate: 48000,
		Encoding:   "WEBM_OPUS",
		Language:   "en-US",
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".wav":
		config.Encoding = "LINEAR16"
		config.SampleRate = 16000
	case ".ogg":
		config.Encoding = "OGG_OPUS"
	case ".flac":
		config.Encoding = "FLAC"
		config.SampleRate = 16000
	}

	if sampleRateForm != "" {
		if rate, err := strconv.Atoi(sampleRateForm); err == nil && rate > 0 {
			config.SampleRate = rate
		}
	}

	return config
}
