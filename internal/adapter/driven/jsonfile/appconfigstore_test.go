package jsonfile_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/homepanel/internal/adapter/driven/jsonfile"
	"github.com/ericfisherdev/homepanel/internal/domain/model"
)

func TestAppConfigStore_WritesDefaultWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	store := jsonfile.NewAppConfigStore(path)

	cfg, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.DefaultAppConfig(), cfg)

	_, err = os.Stat(path)
	assert.NoError(t, err, "default document is persisted")
}

func TestAppConfigStore_ToleratesComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	doc := `{
  // listener
  "web_server": {"host": "127.0.0.1", "port": 9000, "debug": false},
  "remote_control": {
    "remote_devices": {
      "salon": {"ip": "192.168.1.20", "port": 8080, "type": "api", "token": "abc"},
      "nas": {"ip": "192.168.1.30", "port": 22, "type": "socket", "token": ""},
    },
    "allowed_commands": ["uptime"],
  },
}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	cfg, err := jsonfile.NewAppConfigStore(path).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.WebServer.Host)
	assert.Equal(t, 9000, cfg.WebServer.Port)
	assert.Equal(t, []string{"uptime"}, cfg.RemoteControl.AllowedCommands)
	assert.Equal(t, "casa", cfg.VoiceAssistant.WakeWord, "absent sections keep defaults")
	assert.Len(t, cfg.RemoteControl.RemoteDevices, 2)
}

func TestAppConfigStore_DevicesRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	doc := `{
  "web_server": {"host": "127.0.0.1", "port": 9000, "debug": true},
  "voice_assistant": {"ai_studio_api_key": "k", "voice_rate": 120, "voice_volume": 0.5, "wake_word": "hola"},
  "remote_control": {"remote_devices": {"old": {"ip": "10.0.0.1", "port": 80, "type": "api", "token": ""}}, "allowed_commands": ["uptime"]}
}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
	store := jsonfile.NewAppConfigStore(path)
	ctx := context.Background()

	devices := []model.Device{
		{Name: "salon", Address: "192.168.1.20", Port: 8080, Kind: model.DeviceKindAPI, AuthToken: "abc"},
		{Name: "nas", Address: "192.168.1.30", Port: 22, Kind: model.DeviceKindRawSocket},
	}
	require.NoError(t, store.SaveDevices(ctx, devices))

	got, err := store.LoadDevices(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, devices, got)

	var raw map[string]map[string]any
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &raw))

	assert.Equal(t, "127.0.0.1", raw["web_server"]["host"])
	assert.Equal(t, true, raw["web_server"]["debug"])
	assert.Equal(t, "hola", raw["voice_assistant"]["wake_word"])
	assert.Equal(t, []any{"uptime"}, raw["remote_control"]["allowed_commands"])
	assert.NotContains(t, raw["remote_control"]["remote_devices"], "old")
}

func TestAppConfigStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"web_server": [}`), 0o600))

	_, err := jsonfile.NewAppConfigStore(path).Load(context.Background())
	assert.Error(t, err)
}

func TestAppConfigStore_UpdateKeepsOtherSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	store := jsonfile.NewAppConfigStore(path)
	ctx := context.Background()

	require.NoError(t, store.SaveDevices(ctx, []model.Device{
		{Name: "salon", Address: "192.168.1.20", Port: 8080, Kind: model.DeviceKindAPI},
	}))

	theme := "dark"
	err := store.Update(ctx, func(cfg *model.AppConfig) error {
		cfg.ApplySettings(model.SettingsPatch{Theme: &theme})
		return nil
	})
	require.NoError(t, err)

	cfg, err := jsonfile.NewAppConfigStore(path).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "dark", cfg.WebServer.Theme)
	assert.Contains(t, cfg.RemoteControl.RemoteDevices, "salon")
}

func TestAppConfigStore_UpdateAbortsOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	store := jsonfile.NewAppConfigStore(path)
	ctx := context.Background()

	boom := errors.New("rejected")
	err := store.Update(ctx, func(cfg *model.AppConfig) error {
		cfg.WebServer.Port = 1
		return boom
	})
	require.ErrorIs(t, err, boom)

	cfg, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.WebServer.Port, "nothing written")
}
