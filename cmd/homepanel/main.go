package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	"github.com/ericfisherdev/homepanel/internal/adapter/driven/device"
	"github.com/ericfisherdev/homepanel/internal/adapter/driven/hostmetrics"
	"github.com/ericfisherdev/homepanel/internal/adapter/driven/jsonfile"
	"github.com/ericfisherdev/homepanel/internal/adapter/driven/llm"
	"github.com/ericfisherdev/homepanel/internal/adapter/driven/memory"
	"github.com/ericfisherdev/homepanel/internal/adapter/driven/shell"
	httphandler "github.com/ericfisherdev/homepanel/internal/adapter/driving/http"
	"github.com/ericfisherdev/homepanel/internal/application"
	"github.com/ericfisherdev/homepanel/internal/config"
	"github.com/ericfisherdev/homepanel/internal/domain/model"
	"github.com/ericfisherdev/homepanel/internal/domain/port/driven"
)

const bootstrapAdminUsername = "admin"

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on malformed env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg, os.Stderr)
	slog.SetDefault(logger)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Read the application document. A broken file is logged and the
	// defaults are used; saves will keep failing until it is fixed.
	appStore := jsonfile.NewAppConfigStore(cfg.ConfigPath)
	appCfg, err := appStore.Load(ctx)
	if err != nil {
		logger.Error("failed to load application config, using defaults", "path", cfg.ConfigPath, "error", err)
		appCfg = model.DefaultAppConfig()
	}

	// 4. Open the user and device stores.
	st, err := openStores(ctx, cfg, appStore, appCfg, logger)
	if err != nil {
		return err
	}
	defer st.close(logger)

	// 5. Credentials and sessions.
	creds := application.NewCredentialService(st.users, logger)
	creds.Load(ctx)
	bootstrapAdmin(ctx, creds, cfg.BootstrapAdminPassword, logger)

	sessions := application.NewSessionService(creds, memory.NewSessionStore(), cfg.SessionTimeout, logger)

	// 6. Local command execution.
	authorizer := application.NewPrefixAuthorizer(appCfg.RemoteControl.AllowedCommands)
	executor := application.NewLocalExecutor(authorizer, shell.NewRunner(), cfg.CommandTimeout, logger)

	// 7. Remote devices.
	deviceClient := device.NewClient()
	registry := application.NewDeviceRegistry(st.devices, st.initialDevices, logger)
	poller := application.NewDevicePoller(registry, deviceClient, cfg.PollInterval, cfg.ProbeTimeout, logger)
	dispatcher := application.NewRemoteDispatcher(registry, deviceClient, cfg.RemoteTimeout, logger)

	// 8. Assistant (may start without a client until a key is provided).
	va := appCfg.VoiceAssistant
	newLLM := func(apiKey string) driven.LanguageModel {
		return llm.NewClient(llm.Config{APIKey: apiKey, URL: va.APIURL, Model: va.Model})
	}
	var initialLLM driven.LanguageModel
	if va.APIKey != "" {
		initialLLM = newLLM(va.APIKey)
		logger.Info("assistant enabled", "model", va.Model)
	} else {
		logger.Info("no assistant API key configured, assistant disabled until one is provided")
	}
	llmProvider := application.NewLanguageModelProvider(initialLLM)
	assistant := application.NewAssistantService(llmProvider, va.MaxHistory, logger)

	// 9. HTTP API.
	handler := httphandler.NewHandler(httphandler.Services{
		Credentials: creds,
		Sessions:    sessions,
		Commands:    authorizer,
		Executor:    executor,
		Registry:    registry,
		Poller:      poller,
		Dispatcher:  dispatcher,
		Assistant:   assistant,
		LLM:         llmProvider,
		NewLLM:      newLLM,
		Health:      application.NewHealthService(registry),
		Settings:    application.NewSettingsService(appStore, logger),
		System:      application.NewSystemService(hostmetrics.NewCollector(), application.DefaultSystemStatusTTL, logger),
	}, logger)

	addr := listenAddr(cfg, appCfg)
	srv := &http.Server{
		Addr:              addr,
		Handler:           httphandler.NewServeMux(handler, logger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// Local and remote commands may run for their full timeout.
		WriteTimeout: max(cfg.CommandTimeout, cfg.RemoteTimeout) + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 10. Start polling and serving.
	poller.Start(ctx)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	logger.Info("homepanel started",
		"listen_addr", addr,
		"store", cfg.Store,
		"devices", len(st.initialDevices),
		"poll_interval", cfg.PollInterval,
	)

	// 11. Wait for shutdown signal or a listener failure.
	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case runErr = <-serveErr:
		logger.Error("http server error", "error", runErr)
	}

	// 12. Graceful shutdown: drain HTTP, then stop the poller.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	poller.Stop()

	logger.Info("shutdown complete")
	return runErr
}

// newLogger builds the process logger from the configured level and format.
func newLogger(cfg *config.Config, w *os.File) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.LogFormat == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// listenAddr prefers HOMEPANEL_LISTEN_ADDR and falls back to the web_server
// section of config.json.
func listenAddr(cfg *config.Config, appCfg model.AppConfig) string {
	if cfg.ListenAddr != "" {
		return cfg.ListenAddr
	}
	host, port := appCfg.WebServer.Host, appCfg.WebServer.Port
	if host == "" {
		host = "0.0.0.0"
	}
	if port <= 0 || port > 65535 {
		port = 8080
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// bootstrapAdmin creates the initial admin account when the store is empty
// and a password was supplied.
func bootstrapAdmin(ctx context.Context, creds *application.CredentialService, password string, logger *slog.Logger) {
	if creds.HasUsers() {
		return
	}
	if password == "" {
		logger.Warn("no users configured; set HOMEPANEL_BOOTSTRAP_ADMIN_PASSWORD or run homepanel-user add")
		return
	}
	if err := creds.AddUser(ctx, bootstrapAdminUsername, password, model.RoleAdmin); err != nil {
		logger.Error("failed to create bootstrap admin", "error", err)
		return
	}
	logger.Info("bootstrap admin created", "username", bootstrapAdminUsername)
}
