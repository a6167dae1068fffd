package jsonfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/ericfisherdev/homepanel/internal/domain/model"
	"github.com/ericfisherdev/homepanel/internal/domain/port/driven"
)

// Compile-time interface satisfaction checks.
var (
	_ driven.DeviceStore    = (*AppConfigStore)(nil)
	_ driven.AppConfigStore = (*AppConfigStore)(nil)
)

// AppConfigStore reads and writes config.json. It also serves as the
// DeviceStore, keeping devices under remote_control.remote_devices.
type AppConfigStore struct {
	path string
	mu   sync.Mutex
}

// NewAppConfigStore creates an AppConfigStore backed by path.
func NewAppConfigStore(path string) *AppConfigStore {
	return &AppConfigStore{path: path}
}

// Load returns the document. When the file does not exist the default
// document is written and returned. Fields absent from the file keep their
// default values.
func (s *AppConfigStore) Load(_ context.Context) (model.AppConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

// Update applies fn to the current document and writes it back. The read and
// the write happen under one lock so concurrent SaveDevices calls are not lost.
func (s *AppConfigStore) Update(_ context.Context, fn func(*model.AppConfig) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.loadLocked()
	if err != nil {
		return err
	}
	if err := fn(&cfg); err != nil {
		return err
	}
	return writeJSON(s.path, cfg)
}

// LoadDevices returns the devices listed in the document.
func (s *AppConfigStore) LoadDevices(ctx context.Context) ([]model.Device, error) {
	cfg, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return cfg.RemoteControl.Devices(), nil
}

// SaveDevices rewrites remote_control.remote_devices and leaves the other
// sections as they were read.
func (s *AppConfigStore) SaveDevices(_ context.Context, devices []model.Device) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.loadLocked()
	if err != nil {
		return err
	}
	cfg.RemoteControl.RemoteDevices = model.DeviceConfigs(devices)
	return writeJSON(s.path, cfg)
}

func (s *AppConfigStore) loadLocked() (model.AppConfig, error) {
	cfg := model.DefaultAppConfig()

	err := readJSONC(s.path, &cfg)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		cfg = model.DefaultAppConfig()
		if err := writeJSON(s.path, cfg); err != nil {
			return cfg, fmt.Errorf("write default config: %w", err)
		}
		return cfg, nil
	case err != nil:
		return model.AppConfig{}, fmt.Errorf("load config: %w", err)
	}

	if cfg.RemoteControl.RemoteDevices == nil {
		cfg.RemoteControl.RemoteDevices = map[string]model.DeviceConfig{}
	}
	if cfg.RemoteControl.AllowedCommands == nil {
		cfg.RemoteControl.AllowedCommands = []string{}
	}
	return cfg, nil
}
