package main

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/homepanel/internal/adapter/driven/jsonfile"
	"github.com/ericfisherdev/homepanel/internal/application"
	"github.com/ericfisherdev/homepanel/internal/config"
	"github.com/ericfisherdev/homepanel/internal/domain/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestListenAddr(t *testing.T) {
	app := model.DefaultAppConfig()
	app.WebServer.Host = "192.168.1.2"
	app.WebServer.Port = 5000

	assert.Equal(t, "127.0.0.1:9000", listenAddr(&config.Config{ListenAddr: "127.0.0.1:9000"}, app))
	assert.Equal(t, "192.168.1.2:5000", listenAddr(&config.Config{}, app))
	assert.Equal(t, "0.0.0.0:8080", listenAddr(&config.Config{}, model.AppConfig{}))
}

func TestBootstrapAdmin(t *testing.T) {
	ctx := context.Background()
	usersPath := filepath.Join(t.TempDir(), "users.json")

	creds := application.NewCredentialService(jsonfile.NewUserStore(usersPath), discardLogger())
	creds.Load(ctx)

	bootstrapAdmin(ctx, creds, "", discardLogger())
	assert.False(t, creds.HasUsers(), "no password, no account")

	bootstrapAdmin(ctx, creds, "first-run", discardLogger())
	admin, ok := creds.Lookup("admin")
	require.True(t, ok)
	assert.Equal(t, model.RoleAdmin, admin.Role)
	require.NoError(t, creds.VerifyPassword(ctx, "admin", "first-run"))

	bootstrapAdmin(ctx, creds, "other", discardLogger())
	assert.NoError(t, creds.VerifyPassword(ctx, "admin", "first-run"), "existing users are left alone")
}

func TestOpenStores_SQLiteSeedsDevicesFromConfig(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	cfg := &config.Config{Store: config.StoreSQLite, DBPath: filepath.Join(dir, "panel.db")}

	app := model.DefaultAppConfig()
	app.RemoteControl.RemoteDevices["tv"] = model.DeviceConfig{IP: "10.0.0.7", Port: 8080, Type: "api"}
	appStore := jsonfile.NewAppConfigStore(filepath.Join(dir, "config.json"))

	st, err := openStores(ctx, cfg, appStore, app, discardLogger())
	require.NoError(t, err)
	require.Len(t, st.initialDevices, 1)
	st.close(discardLogger())

	// The second start reads the table, not the config document.
	delete(app.RemoteControl.RemoteDevices, "tv")
	st, err = openStores(ctx, cfg, appStore, app, discardLogger())
	require.NoError(t, err)
	defer st.close(discardLogger())
	require.Len(t, st.initialDevices, 1)
	assert.Equal(t, "tv", st.initialDevices[0].Name)
}
