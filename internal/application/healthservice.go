package application

import "github.com/ericfisherdev/homepanel/internal/domain/model"

// PanelStatus is the aggregate health of the registered devices.
type PanelStatus string

const (
	PanelStatusOK       PanelStatus = "ok"
	PanelStatusDegraded PanelStatus = "degraded"
	PanelStatusUnknown  PanelStatus = "unknown"
)

// HealthSummary counts devices by their last observed state.
type HealthSummary struct {
	Devices int
	Online  int
	Offline int
	Pending int // Registered but not probed yet.
	Status  PanelStatus
}

// HealthService derives summary views from the device registry.
type HealthService struct {
	registry *DeviceRegistry
}

// NewHealthService creates a new HealthService with the required dependencies.
func NewHealthService(registry *DeviceRegistry) *HealthService {
	return &HealthService{registry: registry}
}

// Summary aggregates the current device health.
func (s *HealthService) Summary() HealthSummary {
	return summarize(s.registry.List())
}

// summarize computes the aggregate status.
// Priority: degraded (any offline) > unknown (any pending) > ok.
func summarize(statuses []model.DeviceStatus) HealthSummary {
	summary := HealthSummary{Devices: len(statuses)}

	for _, st := range statuses {
		switch {
		case st.Health == nil:
			summary.Pending++
		case st.Health.Online:
			summary.Online++
		default:
			summary.Offline++
		}
	}

	switch {
	case summary.Offline > 0:
		summary.Status = PanelStatusDegraded
	case summary.Pending > 0:
		summary.Status = PanelStatusUnknown
	default:
		summary.Status = PanelStatusOK
	}
	return summary
}
