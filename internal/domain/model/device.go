package model

import (
	"net"
	"strconv"
	"time"
)

// Device is a registered remote endpoint.
type Device struct {
	Name      string
	Address   string
	Port      int
	Kind      DeviceKind
	AuthToken string
}

// HostPort returns the device address in host:port form.
func (d Device) HostPort() string {
	return net.JoinHostPort(d.Address, strconv.Itoa(d.Port))
}

// DeviceHealth is the result of the most recent probe of a device.
type DeviceHealth struct {
	Online        bool
	LastCheckedAt time.Time
	LastError     *string
	RemoteInfo    map[string]any // Only set for reachable api devices.
}

// DeviceStatus is a device merged with its last observed health. Health is nil
// when the device has not been probed yet.
type DeviceStatus struct {
	Device
	Health *DeviceHealth
}

// StatusReport is the raw outcome of a GET /api/status call.
type StatusReport struct {
	StatusCode int
	Info       map[string]any
}

// RemoteCommand is the body sent to a device's /api/execute endpoint.
type RemoteCommand struct {
	Command string `json:"command"`
	Type    string `json:"type"`
	Token   string `json:"token"`
}

// RemoteResponse is the raw HTTP outcome of a remote execute call.
type RemoteResponse struct {
	StatusCode int
	Body       []byte
}
