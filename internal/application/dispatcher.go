package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/ericfisherdev/homepanel/internal/domain/model"
	"github.com/ericfisherdev/homepanel/internal/domain/port/driven"
)

// DefaultRemoteTimeout bounds a single remote execute call.
const DefaultRemoteTimeout = 30 * time.Second

// DefaultCommandType is sent when the caller does not name one.
const DefaultCommandType = "shell"

// RemoteDispatcher forwards commands to registered devices.
//
// The remote device is trusted to authorize the command itself. The local
// allow-list is deliberately not applied here.
type RemoteDispatcher struct {
	registry *DeviceRegistry
	client   driven.DeviceClient
	timeout  time.Duration
	logger   *slog.Logger
}

// NewRemoteDispatcher creates a RemoteDispatcher. A non-positive timeout
// selects DefaultRemoteTimeout.
func NewRemoteDispatcher(registry *DeviceRegistry, client driven.DeviceClient, timeout time.Duration, logger *slog.Logger) *RemoteDispatcher {
	if timeout <= 0 {
		timeout = DefaultRemoteTimeout
	}
	return &RemoteDispatcher{
		registry: registry,
		client:   client,
		timeout:  timeout,
		logger:   logger,
	}
}

// Execute sends command to the named device and returns the device's JSON
// reply unchanged. The only error is ErrDeviceNotFound, returned before any
// network activity; transport and protocol failures are reported in the
// returned map under "success" and "error".
func (d *RemoteDispatcher) Execute(ctx context.Context, deviceName, command, commandType string) (map[string]any, error) {
	device, ok := d.registry.Get(deviceName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrDeviceNotFound, deviceName)
	}
	if commandType == "" {
		commandType = DefaultCommandType
	}

	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	resp, err := d.client.Execute(callCtx, device, model.RemoteCommand{
		Command: command,
		Type:    commandType,
		Token:   device.AuthToken,
	})
	if err != nil {
		if isTimeout(err) {
			d.logger.Warn("remote command timed out", "device", deviceName, "timeout", d.timeout)
			return failure("timeout"), nil
		}
		d.logger.Error("remote command failed", "device", deviceName, "error", err)
		return failure(err.Error()), nil
	}

	if resp.StatusCode != http.StatusOK {
		d.logger.Warn("remote command rejected", "device", deviceName, "status", resp.StatusCode)
		result := failure(fmt.Sprintf("remote API error: %d", resp.StatusCode))
		result["response"] = string(resp.Body)
		return result, nil
	}

	var result map[string]any
	if err := json.Unmarshal(resp.Body, &result); err != nil || result == nil {
		d.logger.Error("remote command returned invalid JSON", "device", deviceName, "error", err)
		out := failure("invalid response from device")
		out["response"] = string(resp.Body)
		return out, nil
	}

	d.logger.Info("remote command executed", "device", deviceName, "type", commandType)
	return result, nil
}

func failure(msg string) map[string]any {
	return map[string]any{"success": false, "error": msg}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
