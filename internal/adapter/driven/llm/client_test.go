package llm_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/homepanel/internal/adapter/driven/llm"
	"github.com/ericfisherdev/homepanel/internal/domain/model"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func completionJSON(content string) string {
	body, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "gpt-4",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	})
	return string(body)
}

func TestClient_Complete(t *testing.T) {
	var got chatRequest
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		auth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionJSON("Encendiendo las luces.")))
	}))
	t.Cleanup(server.Close)

	// The full endpoint form from older config files is accepted.
	client := llm.NewClient(llm.Config{APIKey: "sk-test", URL: server.URL + "/v1/chat/completions", Model: "mini"})

	reply, err := client.Complete(context.Background(), []model.ChatMessage{
		{Role: model.ChatRoleSystem, Content: "sistema"},
		{Role: model.ChatRoleUser, Content: "hola"},
		{Role: model.ChatRoleAssistant, Content: "buenas"},
		{Role: model.ChatRoleUser, Content: "enciende la luz"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Encendiendo las luces.", reply)
	assert.Equal(t, "Bearer sk-test", auth)
	assert.Equal(t, "mini", got.Model)
	require.Len(t, got.Messages, 4)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "assistant", got.Messages[2].Role)
	assert.Equal(t, "enciende la luz", got.Messages[3].Content)
}

func TestClient_CompleteAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	t.Cleanup(server.Close)

	client := llm.NewClient(llm.Config{APIKey: "wrong", URL: server.URL + "/v1"})

	_, err := client.Complete(context.Background(), []model.ChatMessage{{Role: model.ChatRoleUser, Content: "hola"}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat completion")
}

func TestClient_CompleteNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","created":1,"model":"gpt-4","choices":[]}`))
	}))
	t.Cleanup(server.Close)

	client := llm.NewClient(llm.Config{APIKey: "k", URL: server.URL + "/v1/"})

	_, err := client.Complete(context.Background(), []model.ChatMessage{{Role: model.ChatRoleUser, Content: "hola"}})

	assert.ErrorIs(t, err, llm.ErrEmptyCompletion)
}
