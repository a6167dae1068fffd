package application

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/ericfisherdev/homepanel/internal/domain/model"
	"github.com/ericfisherdev/homepanel/internal/domain/port/driven"
)

// SettingsService reads and updates the user-editable part of config.json.
type SettingsService struct {
	store  driven.AppConfigStore
	logger *slog.Logger
}

// NewSettingsService creates a SettingsService over store.
func NewSettingsService(store driven.AppConfigStore, logger *slog.Logger) *SettingsService {
	return &SettingsService{store: store, logger: logger}
}

// Get returns the current settings.
func (s *SettingsService) Get(ctx context.Context) (model.Settings, error) {
	cfg, err := s.store.Load(ctx)
	if err != nil {
		return model.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	return cfg.Settings(), nil
}

// Update validates patch, applies it and returns the stored result.
func (s *SettingsService) Update(ctx context.Context, patch model.SettingsPatch) (model.Settings, error) {
	if err := validateSettings(patch); err != nil {
		return model.Settings{}, err
	}

	var updated model.Settings
	err := s.store.Update(ctx, func(cfg *model.AppConfig) error {
		cfg.ApplySettings(patch)
		updated = cfg.Settings()
		return nil
	})
	if err != nil {
		s.logger.Error("failed to save settings", "error", err)
		return model.Settings{}, fmt.Errorf("%w: %w", ErrPersist, err)
	}

	s.logger.Info("settings updated",
		"theme", updated.System.Theme,
		"refresh_interval", updated.System.RefreshInterval,
	)
	return updated, nil
}

func validateSettings(p model.SettingsPatch) error {
	switch {
	case p.Rate != nil && *p.Rate <= 0:
		return fmt.Errorf("%w: voice rate must be positive", ErrInvalidSettings)
	case p.Volume != nil && (*p.Volume < 0 || *p.Volume > 1):
		return fmt.Errorf("%w: voice volume must be between 0 and 1", ErrInvalidSettings)
	case p.WakeWord != nil && strings.TrimSpace(*p.WakeWord) == "":
		return fmt.Errorf("%w: wake word is required", ErrInvalidSettings)
	case p.RefreshInterval != nil && *p.RefreshInterval <= 0:
		return fmt.Errorf("%w: refresh interval must be positive", ErrInvalidSettings)
	case p.Theme != nil && !slices.Contains(model.Themes, *p.Theme):
		return fmt.Errorf("%w: theme must be one of %s", ErrInvalidSettings, strings.Join(model.Themes, ", "))
	}
	return nil
}
