package driven

import (
	"context"

	"github.com/ericfisherdev/homepanel/internal/domain/model"
)

// DeviceStore defines the driven port for the registered device set.
type DeviceStore interface {
	LoadDevices(ctx context.Context) ([]model.Device, error)

	// SaveDevices replaces the persisted device set.
	SaveDevices(ctx context.Context, devices []model.Device) error
}
