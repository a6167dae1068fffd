package hostmetrics

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/ericfisherdev/homepanel/internal/domain/model"
)

// readBattery reports the first power supply of type Battery under
// root/class/power_supply. A host without one is not an error.
func readBattery(root string) (model.BatteryStatus, error) {
	dirs, err := filepath.Glob(filepath.Join(root, "class", "power_supply", "*"))
	if err != nil {
		return model.BatteryStatus{}, err
	}
	sort.Strings(dirs)

	for _, dir := range dirs {
		if readTrimmed(filepath.Join(dir, "type")) != "Battery" {
			continue
		}

		raw := readTrimmed(filepath.Join(dir, "capacity"))
		capacity, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return model.BatteryStatus{Present: true}, errors.New("unreadable capacity " + strconv.Quote(raw))
		}

		status := strings.ToLower(readTrimmed(filepath.Join(dir, "status")))
		if status == "" {
			status = "unknown"
		}
		return model.BatteryStatus{
			Present:  true,
			Percent:  capacity,
			Charging: status == "charging" || status == "full" || status == "not charging",
			Status:   status,
		}, nil
	}
	return model.BatteryStatus{Status: "not available"}, nil
}

// readTemperature returns the first positive thermal zone reading in degrees
// Celsius, or nil.
func readTemperature(root string) *float64 {
	zones, err := filepath.Glob(filepath.Join(root, "class", "thermal", "thermal_zone*", "temp"))
	if err != nil {
		return nil
	}
	sort.Strings(zones)

	for _, zone := range zones {
		milli, err := strconv.ParseFloat(readTrimmed(zone), 64)
		if err != nil || milli <= 0 {
			continue
		}
		celsius := milli / 1000
		return &celsius
	}
	return nil
}

func readTrimmed(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
