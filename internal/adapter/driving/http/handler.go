// Package httphandler is the HTTP driving adapter that serves the panel's
// REST API.
package httphandler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/ericfisherdev/homepanel/internal/application"
	"github.com/ericfisherdev/homepanel/internal/domain/port/driven"
)

// LanguageModelFactory builds a language-model client for an API key.
type LanguageModelFactory func(apiKey string) driven.LanguageModel

// Services groups the application services the handler drives.
type Services struct {
	Credentials *application.CredentialService
	Sessions    *application.SessionService
	Commands    application.CommandCatalog
	Executor    *application.LocalExecutor
	Registry    *application.DeviceRegistry
	Poller      *application.DevicePoller
	Dispatcher  *application.RemoteDispatcher
	Assistant   *application.AssistantService
	LLM         *application.LanguageModelProvider
	NewLLM      LanguageModelFactory
	Health      *application.HealthService
	Settings    *application.SettingsService
	System      *application.SystemService
}

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	creds      *application.CredentialService
	sessions   *application.SessionService
	commands   application.CommandCatalog
	executor   *application.LocalExecutor
	registry   *application.DeviceRegistry
	poller     *application.DevicePoller
	dispatcher *application.RemoteDispatcher
	assistant  *application.AssistantService
	llm        *application.LanguageModelProvider
	newLLM     LanguageModelFactory
	health     *application.HealthService
	settings   *application.SettingsService
	system     *application.SystemService
	logger     *slog.Logger
	now        func() time.Time
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(svc Services, logger *slog.Logger) *Handler {
	return &Handler{
		creds:      svc.Credentials,
		sessions:   svc.Sessions,
		commands:   svc.Commands,
		executor:   svc.Executor,
		registry:   svc.Registry,
		poller:     svc.Poller,
		dispatcher: svc.Dispatcher,
		assistant:  svc.Assistant,
		llm:        svc.LLM,
		newLLM:     svc.NewLLM,
		health:     svc.Health,
		settings:   svc.Settings,
		system:     svc.System,
		logger:     logger,
		now:        time.Now,
	}
}

// NewServeMux creates an http.Handler with all routes registered and wrapped
// with request ID, logging and recovery middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/health", h.Health)
	mux.HandleFunc("POST /api/v1/auth/login", h.Login)

	mux.HandleFunc("GET /api/v1/auth/verify", h.requireSession(h.Verify))
	mux.HandleFunc("POST /api/v1/auth/logout", h.requireSession(h.Logout))
	mux.HandleFunc("POST /api/v1/auth/password", h.requireSession(h.ChangePassword))
	mux.HandleFunc("POST /api/v1/users", h.requireAdmin(h.CreateUser))

	mux.HandleFunc("GET /api/v1/system/status", h.requireSession(h.SystemStatus))
	mux.HandleFunc("GET /api/v1/system/commands", h.requireSession(h.ListCommands))
	mux.HandleFunc("POST /api/v1/system/execute", h.requireSession(h.ExecuteCommand))

	mux.HandleFunc("GET /api/v1/settings", h.requireSession(h.GetSettings))
	mux.HandleFunc("PUT /api/v1/settings", h.requireAdmin(h.UpdateSettings))

	mux.HandleFunc("GET /api/v1/remote/devices", h.requireSession(h.ListDevices))
	mux.HandleFunc("POST /api/v1/remote/devices", h.requireSession(h.AddDevice))
	mux.HandleFunc("DELETE /api/v1/remote/devices/{name}", h.requireSession(h.RemoveDevice))
	mux.HandleFunc("POST /api/v1/remote/execute", h.requireSession(h.ExecuteRemote))
	mux.HandleFunc("POST /api/v1/remote/refresh", h.requireSession(h.RefreshDevices))

	mux.HandleFunc("POST /api/v1/assistant/process", h.requireSession(h.ProcessAssistant))
	mux.HandleFunc("DELETE /api/v1/assistant/history", h.requireSession(h.ResetAssistant))
	mux.HandleFunc("PUT /api/v1/assistant/key", h.requireAdmin(h.SetAssistantKey))

	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, mux)
	wrapped = loggingMiddleware(logger, wrapped)
	wrapped = requestIDMiddleware(wrapped)

	return wrapped
}

// Health reports the aggregate device health. It always answers 200 so it
// can serve as a liveness probe.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, toHealthResponse(h.health.Summary(), h.now()))
}
