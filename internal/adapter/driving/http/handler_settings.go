package httphandler

import (
	"errors"
	"net/http"

	"github.com/ericfisherdev/homepanel/internal/application"
)

// GetSettings returns the voice and UI preferences.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.Get(r.Context())
	if err != nil {
		h.logger.Error("failed to load settings", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load settings")
		return
	}
	writeJSON(w, http.StatusOK, toSettingsResponse(settings))
}

// UpdateSettings applies a partial settings change and returns the result.
// Admin only.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req SettingsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	settings, err := h.settings.Update(r.Context(), req.toPatch())
	switch {
	case err == nil:
		h.logger.Info("settings changed", "username", sessionFrom(r.Context()).Username)
		writeJSON(w, http.StatusOK, toSettingsResponse(settings))
	case errors.Is(err, application.ErrInvalidSettings):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "failed to save settings")
	}
}
