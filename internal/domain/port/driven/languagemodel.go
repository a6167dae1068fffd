package driven

import (
	"context"

	"github.com/ericfisherdev/homepanel/internal/domain/model"
)

// LanguageModel defines the driven port for a chat-completion backend.
type LanguageModel interface {
	Complete(ctx context.Context, messages []model.ChatMessage) (string, error)
}
