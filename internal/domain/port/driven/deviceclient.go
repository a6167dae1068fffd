package driven

import (
	"context"

	"github.com/ericfisherdev/homepanel/internal/domain/model"
)

// DeviceClient defines the driven port for talking to remote devices.
// Deadlines are taken from ctx.
type DeviceClient interface {
	// FetchStatus issues GET /api/status. A non-200 response is not an error;
	// Info is only decoded for 200 responses.
	FetchStatus(ctx context.Context, device model.Device) (*model.StatusReport, error)

	// Dial opens and immediately closes a TCP connection to the device.
	Dial(ctx context.Context, device model.Device) error

	// Execute issues POST /api/execute with cmd as the JSON body.
	Execute(ctx context.Context, device model.Device, cmd model.RemoteCommand) (*model.RemoteResponse, error)
}
