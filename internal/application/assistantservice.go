package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/ericfisherdev/homepanel/internal/domain/model"
)

// DefaultMaxHistory caps the remembered conversation turns.
const DefaultMaxHistory = 10

const assistantSystemPrompt = "Eres un asistente virtual para un sistema domótico. Responde de manera útil, precisa y breve en español."

// AssistantService holds a bounded conversation with a language model.
type AssistantService struct {
	provider   *LanguageModelProvider
	maxHistory int
	logger     *slog.Logger

	mu      sync.Mutex
	history []model.ChatMessage
	epoch   uint64 // bumped by Reset
}

// NewAssistantService creates an AssistantService. While the provider holds no
// client, Process returns ErrAssistantNotConfigured.
func NewAssistantService(provider *LanguageModelProvider, maxHistory int, logger *slog.Logger) *AssistantService {
	if maxHistory <= 0 {
		maxHistory = DefaultMaxHistory
	}
	return &AssistantService{
		provider:   provider,
		maxHistory: maxHistory,
		logger:     logger,
	}
}

// Process sends text with the current history and returns the reply. The
// exchange is appended to the history only when the call succeeds.
func (s *AssistantService) Process(ctx context.Context, text string) (string, error) {
	llm := s.provider.Get()
	if llm == nil {
		return "", ErrAssistantNotConfigured
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyMessage
	}

	s.mu.Lock()
	epoch := s.epoch
	messages := make([]model.ChatMessage, 0, len(s.history)+2)
	messages = append(messages, model.ChatMessage{Role: model.ChatRoleSystem, Content: assistantSystemPrompt})
	messages = append(messages, s.history...)
	s.mu.Unlock()
	messages = append(messages, model.ChatMessage{Role: model.ChatRoleUser, Content: text})

	reply, err := llm.Complete(ctx, messages)
	if err != nil {
		s.logger.Error("assistant request failed", "error", err)
		return "", fmt.Errorf("assistant request: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// A Reset during the call started a new conversation.
	if s.epoch != epoch {
		return reply, nil
	}
	s.history = append(s.history,
		model.ChatMessage{Role: model.ChatRoleUser, Content: text},
		model.ChatMessage{Role: model.ChatRoleAssistant, Content: reply},
	)
	if over := len(s.history) - s.maxHistory; over > 0 {
		s.history = append([]model.ChatMessage(nil), s.history[over:]...)
	}

	return reply, nil
}

// History returns a copy of the remembered turns.
func (s *AssistantService) History() []model.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.ChatMessage(nil), s.history...)
}

// Reset forgets the conversation.
func (s *AssistantService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
	s.epoch++
}
