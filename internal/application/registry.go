package application

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"sort"
	"strings"
	"sync"

	"github.com/ericfisherdev/homepanel/internal/domain/model"
	"github.com/ericfisherdev/homepanel/internal/domain/port/driven"
)

// DeviceRegistry holds the registered remote devices and their last observed
// health. It decides when the device set is persisted; the DeviceStore
// decides how.
type DeviceRegistry struct {
	store  driven.DeviceStore
	logger *slog.Logger

	mu      sync.RWMutex
	devices map[string]model.Device
	health  map[string]model.DeviceHealth
}

// NewDeviceRegistry creates a registry seeded with initial devices.
func NewDeviceRegistry(store driven.DeviceStore, initial []model.Device, logger *slog.Logger) *DeviceRegistry {
	devices := make(map[string]model.Device, len(initial))
	for _, d := range initial {
		devices[d.Name] = d
	}
	return &DeviceRegistry{
		store:   store,
		logger:  logger,
		devices: devices,
		health:  map[string]model.DeviceHealth{},
	}
}

// Add inserts or replaces a device and persists the device set. On a persist
// failure the device stays registered in memory and an ErrPersist error is
// returned.
func (r *DeviceRegistry) Add(ctx context.Context, device model.Device) error {
	if strings.TrimSpace(device.Name) == "" || strings.TrimSpace(device.Address) == "" {
		return fmt.Errorf("%w: name and address are required", ErrInvalidDevice)
	}
	if device.Port <= 0 || device.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidDevice, device.Port)
	}
	if device.Kind == "" {
		device.Kind = model.DeviceKindAPI
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.devices[device.Name] = device
	r.logger.Info("device registered", "device", device.Name, "addr", device.HostPort(), "kind", device.Kind)

	return r.persistLocked(ctx)
}

// Remove deletes a device and its health entry. It reports whether the device
// existed; the device set is only persisted when something was removed.
func (r *DeviceRegistry) Remove(ctx context.Context, name string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.devices[name]; !ok {
		return false, nil
	}

	delete(r.devices, name)
	delete(r.health, name)
	r.logger.Info("device removed", "device", name)

	return true, r.persistLocked(ctx)
}

// Get returns the named device.
func (r *DeviceRegistry) Get(name string) (model.Device, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.devices[name]
	return d, ok
}

// Devices returns a snapshot of the registered devices sorted by name.
func (r *DeviceRegistry) Devices() []model.Device {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Device, 0, len(r.devices))
	for _, d := range r.devices {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// List returns every device merged with its current health, sorted by name.
// The result shares no memory with the registry.
func (r *DeviceRegistry) List() []model.DeviceStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.DeviceStatus, 0, len(r.devices))
	for name, d := range r.devices {
		status := model.DeviceStatus{Device: d}
		if h, ok := r.health[name]; ok {
			h = copyHealth(h)
			status.Health = &h
		}
		out = append(out, status)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// SetHealth overwrites the health entry of a device. Updates for devices that
// are no longer registered are dropped, so a probe finishing after Remove
// cannot resurrect a health entry.
func (r *DeviceRegistry) SetHealth(name string, health model.DeviceHealth) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.devices[name]; !ok {
		return
	}
	r.health[name] = copyHealth(health)
}

// persistLocked saves the device set. Caller must hold r.mu.
func (r *DeviceRegistry) persistLocked(ctx context.Context) error {
	devices := make([]model.Device, 0, len(r.devices))
	for _, d := range r.devices {
		devices = append(devices, d)
	}
	sort.Slice(devices, func(i, j int) bool { return devices[i].Name < devices[j].Name })

	if err := r.store.SaveDevices(ctx, devices); err != nil {
		r.logger.Error("failed to save devices", "error", err)
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

func copyHealth(h model.DeviceHealth) model.DeviceHealth {
	if h.LastError != nil {
		msg := *h.LastError
		h.LastError = &msg
	}
	if h.RemoteInfo != nil {
		h.RemoteInfo = maps.Clone(h.RemoteInfo)
	}
	return h
}
