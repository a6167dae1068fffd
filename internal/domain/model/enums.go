package model

// Role is the privilege level of a panel user.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// DeviceKind selects how a remote device is health-checked.
type DeviceKind string

const (
	DeviceKindAPI       DeviceKind = "api"        // Speaks the /api/status and /api/execute protocol.
	DeviceKindRawSocket DeviceKind = "raw-socket" // Only reachable by TCP connect.
)

// ParseDeviceKind maps a persisted type string to a DeviceKind. Anything other
// than "api" is treated as a raw socket device.
func ParseDeviceKind(s string) DeviceKind {
	if s == string(DeviceKindAPI) {
		return DeviceKindAPI
	}
	return DeviceKindRawSocket
}
