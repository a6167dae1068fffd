package model

import "time"

// SystemStatus is a snapshot of the panel host's resources. Sections that
// could not be read keep their zero values.
type SystemStatus struct {
	CPU         CPUStatus
	Memory      MemoryStatus
	Battery     BatteryStatus
	Info        SystemInfo
	CollectedAt time.Time
}

// CPUStatus holds processor load. Temperature is nil when the host exposes
// no thermal sensor.
type CPUStatus struct {
	Percent     float64
	Cores       int
	Temperature *float64
}

// MemoryStatus holds virtual memory usage in megabytes.
type MemoryStatus struct {
	Percent float64
	UsedMB  float64
	TotalMB float64
}

// BatteryStatus describes the first battery found. Present is false on hosts
// without one.
type BatteryStatus struct {
	Present  bool
	Percent  float64
	Charging bool
	Status   string
}

// SystemInfo holds static host facts.
type SystemInfo struct {
	OS        string
	OSVersion string
	Platform  string
	Hostname  string
	Processor string
	Uptime    time.Duration
}
