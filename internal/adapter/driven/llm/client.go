// Package llm implements the LanguageModel port against any OpenAI-compatible
// chat completions API.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/ericfisherdev/homepanel/internal/domain/model"
	"github.com/ericfisherdev/homepanel/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.LanguageModel = (*Client)(nil)

// Defaults used when the configuration leaves a field empty.
const (
	DefaultBaseURL = "https://api.aistudio.com/v1"
	DefaultModel   = "gpt-4"

	requestTimeout = 60 * time.Second
)

// ErrEmptyCompletion is returned when the API answers without any choice.
var ErrEmptyCompletion = errors.New("language model returned no choices")

// Config selects the endpoint and credentials.
type Config struct {
	APIKey string
	// URL is either the API base (".../v1") or the full chat completions
	// endpoint as stored in older configuration files.
	URL   string
	Model string
}

// Client sends conversations to the chat completions endpoint.
type Client struct {
	api   openai.Client
	model string
}

// NewClient creates a Client. Retries are disabled so a failing request
// surfaces to the operator immediately.
func NewClient(cfg Config) *Client {
	modelID := strings.TrimSpace(cfg.Model)
	if modelID == "" {
		modelID = DefaultModel
	}

	api := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(normalizeBaseURL(cfg.URL)),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(requestTimeout),
	)
	return &Client{api: api, model: modelID}
}

// Complete returns the assistant's reply to messages.
func (c *Client) Complete(ctx context.Context, messages []model.ChatMessage) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.model),
		Messages: make([]openai.ChatCompletionMessageParamUnion, 0, len(messages)),
	}
	for _, m := range messages {
		switch m.Role {
		case model.ChatRoleSystem:
			params.Messages = append(params.Messages, openai.SystemMessage(m.Content))
		case model.ChatRoleAssistant:
			params.Messages = append(params.Messages, openai.AssistantMessage(m.Content))
		default:
			params.Messages = append(params.Messages, openai.UserMessage(m.Content))
		}
	}

	completion, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return completion.Choices[0].Message.Content, nil
}

func normalizeBaseURL(raw string) string {
	base := strings.TrimRight(strings.TrimSpace(raw), "/")
	if base == "" {
		return DefaultBaseURL
	}
	return strings.TrimSuffix(base, "/chat/completions")
}
