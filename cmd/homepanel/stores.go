package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ericfisherdev/homepanel/internal/adapter/driven/jsonfile"
	sqliteadapter "github.com/ericfisherdev/homepanel/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/homepanel/internal/config"
	"github.com/ericfisherdev/homepanel/internal/domain/model"
	"github.com/ericfisherdev/homepanel/internal/domain/port/driven"
)

// stores bundles the persistence backends selected by HOMEPANEL_STORE.
type stores struct {
	users          driven.UserStore
	devices        driven.DeviceStore
	initialDevices []model.Device
	db             *sqliteadapter.DB
}

// openStores selects the JSON files or the SQLite database. With SQLite, an
// empty device table is seeded from config.json once.
func openStores(ctx context.Context, cfg *config.Config, appStore *jsonfile.AppConfigStore, appCfg model.AppConfig, logger *slog.Logger) (*stores, error) {
	if !cfg.UseSQLite() {
		logger.Info("using json stores", "users", cfg.UsersPath, "config", cfg.ConfigPath)
		return &stores{
			users:          jsonfile.NewUserStore(cfg.UsersPath),
			devices:        appStore,
			initialDevices: appCfg.RemoteControl.Devices(),
		}, nil
	}

	db, err := sqliteadapter.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	logger.Info("database opened", "path", db.Path())

	deviceRepo := sqliteadapter.NewDeviceRepo(db)
	devices, err := deviceRepo.LoadDevices(ctx)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if len(devices) == 0 {
		if seed := appCfg.RemoteControl.Devices(); len(seed) > 0 {
			if err := deviceRepo.SaveDevices(ctx, seed); err != nil {
				logger.Error("failed to import devices from config", "error", err)
			} else {
				logger.Info("imported devices from config", "count", len(seed))
			}
			devices = seed
		}
	}

	return &stores{
		users:          sqliteadapter.NewUserRepo(db),
		devices:        deviceRepo,
		initialDevices: devices,
		db:             db,
	}, nil
}

func (s *stores) close(logger *slog.Logger) {
	if s.db == nil {
		return
	}
	if err := s.db.Close(); err != nil {
		logger.Error("error closing database", "error", err)
	}
}
