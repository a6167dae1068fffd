package httphandler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ericfisherdev/homepanel/internal/application"
)

// ProcessAssistant sends text to the assistant and returns its reply.
func (h *Handler) ProcessAssistant(w http.ResponseWriter, r *http.Request) {
	var req AssistantRequest
	if !decodeBody(w, r, &req) {
		return
	}

	reply, err := h.assistant.Process(r.Context(), req.Text)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, AssistantResponse{
			Success:      true,
			Response:     reply,
			ResponseHTML: renderMarkdown(reply),
		})
	case errors.Is(err, application.ErrEmptyMessage):
		writeError(w, http.StatusBadRequest, "text is required")
	case errors.Is(err, application.ErrAssistantNotConfigured):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		writeError(w, http.StatusBadGateway, "assistant request failed")
	}
}

// ResetAssistant clears the conversation history.
func (h *Handler) ResetAssistant(w http.ResponseWriter, _ *http.Request) {
	h.assistant.Reset()
	w.WriteHeader(http.StatusNoContent)
}

// SetAssistantKey swaps the language-model client for one using the given
// key. An empty key disables the assistant. The key is not persisted. Admin
// only.
func (h *Handler) SetAssistantKey(w http.ResponseWriter, r *http.Request) {
	var req AssistantKeyRequest
	if !decodeBody(w, r, &req) {
		return
	}

	key := strings.TrimSpace(req.APIKey)
	switch {
	case key == "":
		h.llm.Replace(nil)
	case h.newLLM == nil:
		writeError(w, http.StatusServiceUnavailable, "assistant cannot be configured at runtime")
		return
	default:
		h.llm.Replace(h.newLLM(key))
	}
	h.assistant.Reset()

	h.logger.Info("assistant key updated", "enabled", h.llm.HasClient(), "by", sessionFrom(r.Context()).Username)
	w.WriteHeader(http.StatusNoContent)
}
