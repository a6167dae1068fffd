package sqlite

import (
	"context"
	"fmt"

	"github.com/ericfisherdev/homepanel/internal/domain/model"
	"github.com/ericfisherdev/homepanel/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.DeviceStore = (*DeviceRepo)(nil)

// DeviceRepo is the SQLite implementation of the DeviceStore port.
type DeviceRepo struct {
	db *DB
}

// NewDeviceRepo creates a new DeviceRepo.
func NewDeviceRepo(db *DB) *DeviceRepo {
	return &DeviceRepo{db: db}
}

// LoadDevices returns all registered devices ordered by name.
func (r *DeviceRepo) LoadDevices(ctx context.Context) ([]model.Device, error) {
	const query = `SELECT name, address, port, kind, auth_token FROM devices ORDER BY name`

	rows, err := r.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load devices: %w", err)
	}
	defer rows.Close()

	var devices []model.Device
	for rows.Next() {
		var (
			d    model.Device
			kind string
		)
		if err := rows.Scan(&d.Name, &d.Address, &d.Port, &kind, &d.AuthToken); err != nil {
			return nil, fmt.Errorf("scan device: %w", err)
		}
		d.Kind = model.ParseDeviceKind(kind)
		devices = append(devices, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate devices: %w", err)
	}

	return devices, nil
}

// SaveDevices replaces the stored devices with the given set in one
// transaction.
func (r *DeviceRepo) SaveDevices(ctx context.Context, devices []model.Device) error {
	tx, err := r.db.Writer.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM devices`); err != nil {
		return fmt.Errorf("clear devices: %w", err)
	}

	const insert = `INSERT INTO devices (name, address, port, kind, auth_token) VALUES (?, ?, ?, ?, ?)`
	for _, d := range devices {
		if _, err := tx.ExecContext(ctx, insert, d.Name, d.Address, d.Port, string(d.Kind), d.AuthToken); err != nil {
			return fmt.Errorf("insert device %q: %w", d.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit devices: %w", err)
	}
	return nil
}
