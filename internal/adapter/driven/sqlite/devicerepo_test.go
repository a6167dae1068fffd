package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/homepanel/internal/domain/model"
)

func TestDeviceRepo_SaveAndLoad(t *testing.T) {
	repo := NewDeviceRepo(setupTestDB(t))
	ctx := context.Background()

	devices := []model.Device{
		{Name: "tv", Address: "10.0.0.7", Port: 8080, Kind: model.DeviceKindAPI, AuthToken: "secret"},
		{Name: "nas", Address: "10.0.0.8", Port: 445, Kind: model.DeviceKindRawSocket},
	}
	require.NoError(t, repo.SaveDevices(ctx, devices))

	got, err := repo.LoadDevices(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, devices[1], got[0], "ordered by name")
	assert.Equal(t, devices[0], got[1])
}

func TestDeviceRepo_SaveEmptyClears(t *testing.T) {
	repo := NewDeviceRepo(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.SaveDevices(ctx, []model.Device{{Name: "tv", Address: "10.0.0.7", Port: 8080, Kind: model.DeviceKindAPI}}))
	require.NoError(t, repo.SaveDevices(ctx, nil))

	got, err := repo.LoadDevices(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDeviceRepo_PortConstraint(t *testing.T) {
	repo := NewDeviceRepo(setupTestDB(t))

	err := repo.SaveDevices(context.Background(), []model.Device{{Name: "bad", Address: "x", Port: 0, Kind: model.DeviceKindAPI}})
	assert.Error(t, err)
}
