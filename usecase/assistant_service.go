package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/savoria/tavola/domain"
	"github.com/savoria/tavola/domain/entities"
	"github.com/savoria/tavola/domain/repositories"
)

const (
	greetingTrigger  = "start conversation"
	greetingResponse = "Hello! Welcome to our restaurant. How can I help you today?"
	welcomePrompt    = "Greet the customer and ask if they want today's special or see the full menu."
)

// AssistantService orchestrates query resolution: menu rules first, then
// the grounded language-model fallback.
type AssistantService struct {
	menuRepo      repositories.MenuRepository
	languageModel repositories.LanguageModel
	speechToText  repositories.SpeechToText
	logger        *zap.Logger
}

// NewAssistantService creates a new assistant service
func NewAssistantService(
	menuRepo repositories.MenuRepository,
	languageModel repositories.LanguageModel,
	speechToText repositories.SpeechToText,
	logger *zap.Logger,
) *AssistantService {
	return &AssistantService{
		menuRepo:      menuRepo,
		languageModel: languageModel,
		speechToText:  speechToText,
		logger:        logger,
	}
}

// ResolveText answers a free-text query. The menu rules are consulted
// first; when none matches, the query goes to the language model grounded
// with a menu-derived context. Returns domain.ErrResolutionEmpty when
// neither path produces text.
func (s *AssistantService) ResolveText(ctx context.Context, query string) (string, error) {
	if strings.TrimSpace(strings.ToLower(query)) == greetingTrigger {
		return greetingResponse, nil
	}

	menu := s.loadMenu(ctx)
	today := time.Now().Format(entities.DateLayout)

	if response, matched := MatchIntent(query, menu, today); matched {
		return response, nil
	}

	s.logger.Info("No menu rule matched, asking language model", zap.String("query", query))

	menuContext := SelectContext(query, menu, today)
	response, err := s.languageModel.Ask(ctx, query, menuContext)
	if err != nil {
		s.logger.Error("Language model call failed", zap.Error(err))
		return "", fmt.Errorf("%w: %v", domain.ErrExternalService, err)
	}
	if response == "" {
		return "", domain.ErrResolutionEmpty
	}
	return response, nil
}

// ResolveAudio transcribes the recording and runs the identical text
// path. The transcript is returned alongside the response so callers can
// echo what was understood. Transcription failure is distinct from
// resolution failure.
func (s *AssistantService) ResolveAudio(ctx context.Context, audioData []byte, config repositories.AudioConfig) (transcript string, response string, err error) {
	transcript, err = s.speechToText.TranscribeAudio(ctx, audioData, config)
	if err != nil {
		s.logger.Error("Transcription failed", zap.Error(err))
		return "", "", fmt.Errorf("%w: %v", domain.ErrTranscription, err)
	}

	s.logger.Info("Transcribed audio", zap.String("transcript", transcript))

	response, err = s.ResolveText(ctx, transcript)
	return transcript, response, err
}

// Welcome produces the greeting by pushing a fixed prompt through the
// fallback path. The prompt mentions today's special, so the context
// selector grounds it with the specials listing.
func (s *AssistantService) Welcome(ctx context.Context) (string, error) {
	menu := s.loadMenu(ctx)
	today := time.Now().Format(entities.DateLayout)

	menuContext := SelectContext(welcomePrompt, menu, today)
	response, err := s.languageModel.Ask(ctx, welcomePrompt, menuContext)
	if err != nil {
		s.logger.Error("Welcome prompt failed", zap.Error(err))
		return "", fmt.Errorf("%w: %v", domain.ErrExternalService, err)
	}
	if response == "" {
		return "", domain.ErrResolutionEmpty
	}
	return response, nil
}

// loadMenu fetches the menu, degrading to empty-menu behavior when the
// store is unreachable instead of failing the request.
func (s *AssistantService) loadMenu(ctx context.Context) []entities.MenuItem {
	menu, err := s.menuRepo.List(ctx)
	if err != nil {
		s.logger.Error("Failed to load menu, continuing with empty menu", zap.Error(err))
		return nil
	}
	return menu
}
