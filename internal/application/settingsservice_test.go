package application_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/homepanel/internal/application"
	"github.com/ericfisherdev/homepanel/internal/domain/model"
)

func TestSettingsService_GetFillsDefaults(t *testing.T) {
	store := &mockAppConfigStore{cfg: model.DefaultAppConfig()}
	store.cfg.VoiceAssistant.APIKey = "secret"
	svc := application.NewSettingsService(store, testLogger())

	got, err := svc.Get(context.Background())
	require.NoError(t, err)

	assert.Equal(t, model.Settings{
		Voice: model.VoiceSettings{Rate: 150, Volume: 0.8, WakeWord: "casa"},
		System: model.SystemSettings{
			RefreshInterval: model.DefaultRefreshInterval,
			Theme:           model.DefaultTheme,
			AutoStart:       true,
			LogActivity:     true,
			Notifications:   true,
		},
	}, got)
}

func TestSettingsService_UpdatePartial(t *testing.T) {
	store := &mockAppConfigStore{cfg: model.DefaultAppConfig()}
	store.cfg.VoiceAssistant.APIKey = "secret"
	svc := application.NewSettingsService(store, testLogger())

	rate, theme, notify := 180, "dark", false
	got, err := svc.Update(context.Background(), model.SettingsPatch{
		Rate:          &rate,
		Theme:         &theme,
		Notifications: &notify,
	})
	require.NoError(t, err)

	assert.Equal(t, 180, got.Voice.Rate)
	assert.InDelta(t, 0.8, got.Voice.Volume, 1e-9, "untouched fields keep their value")
	assert.Equal(t, "dark", got.System.Theme)
	assert.False(t, got.System.Notifications)
	assert.True(t, got.System.AutoStart)

	assert.Equal(t, 1, store.writes)
	assert.Equal(t, "secret", store.cfg.VoiceAssistant.APIKey, "secrets survive a settings write")
	assert.Equal(t, 180, store.cfg.VoiceAssistant.VoiceRate)
}

func TestSettingsService_UpdateValidation(t *testing.T) {
	neg, zero := -1, 0
	loud, blank, neon := 1.5, "  ", "neon"

	tests := []struct {
		name  string
		patch model.SettingsPatch
	}{
		{name: "negative rate", patch: model.SettingsPatch{Rate: &neg}},
		{name: "volume above one", patch: model.SettingsPatch{Volume: &loud}},
		{name: "blank wake word", patch: model.SettingsPatch{WakeWord: &blank}},
		{name: "zero refresh", patch: model.SettingsPatch{RefreshInterval: &zero}},
		{name: "unknown theme", patch: model.SettingsPatch{Theme: &neon}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockAppConfigStore{cfg: model.DefaultAppConfig()}
			svc := application.NewSettingsService(store, testLogger())

			_, err := svc.Update(context.Background(), tt.patch)
			assert.ErrorIs(t, err, application.ErrInvalidSettings)
			assert.Zero(t, store.writes)
		})
	}
}

func TestSettingsService_UpdatePersistFailure(t *testing.T) {
	store := &mockAppConfigStore{cfg: model.DefaultAppConfig(), saveErr: errors.New("disk full")}
	svc := application.NewSettingsService(store, testLogger())

	theme := "light"
	_, err := svc.Update(context.Background(), model.SettingsPatch{Theme: &theme})

	assert.ErrorIs(t, err, application.ErrPersist)
	assert.Empty(t, store.cfg.WebServer.Theme)
}
