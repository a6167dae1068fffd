package httphandler

import (
	"net/http"
	"strings"
)

// SystemStatus returns a recent snapshot of the panel host's resources.
func (h *Handler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	st, err := h.system.Status(r.Context())
	if err != nil {
		h.logger.Error("system status failed", "error", err)
		writeError(w, http.StatusServiceUnavailable, "system status unavailable")
		return
	}
	writeJSON(w, http.StatusOK, toSystemStatusResponse(st))
}

// ListCommands returns the allow-listed commands by category.
func (h *Handler) ListCommands(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, toCommandsResponse(h.commands.Categories()))
}

// ExecuteCommand runs an allow-listed command on the panel host. The outcome,
// including a rejection, is always reported in the body with status 200.
func (h *Handler) ExecuteCommand(w http.ResponseWriter, r *http.Request) {
	var req ExecuteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Command) == "" {
		writeError(w, http.StatusBadRequest, "command is required")
		return
	}

	result := h.executor.Run(r.Context(), req.Command)
	h.logger.Info("local command",
		"username", sessionFrom(r.Context()).Username,
		"command", req.Command,
		"success", result.Success,
		"code", result.Code,
	)
	writeJSON(w, http.StatusOK, result)
}
