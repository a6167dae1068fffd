package httphandler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ericfisherdev/homepanel/internal/application"
	"github.com/ericfisherdev/homepanel/internal/domain/model"
)

// ListDevices returns every registered device with its last observed health.
func (h *Handler) ListDevices(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, toDevicesResponse(h.registry.List()))
}

// AddDevice registers or replaces a device.
func (h *Handler) AddDevice(w http.ResponseWriter, r *http.Request) {
	var req AddDeviceRequest
	if !decodeBody(w, r, &req) {
		return
	}

	kind := model.DeviceKindAPI
	if req.Type != "" {
		kind = model.ParseDeviceKind(req.Type)
	}
	device := model.Device{
		Name:      strings.TrimSpace(req.Name),
		Address:   strings.TrimSpace(req.IP),
		Port:      req.Port,
		Kind:      kind,
		AuthToken: req.Token,
	}

	err := h.registry.Add(r.Context(), device)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, successResponse{Success: true})
	case errors.Is(err, application.ErrInvalidDevice):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("failed to add device", "device", device.Name, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// RemoveDevice unregisters a device.
func (h *Handler) RemoveDevice(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	removed, err := h.registry.Remove(r.Context(), name)
	if err != nil {
		h.logger.Error("failed to remove device", "device", name, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if !removed {
		writeError(w, http.StatusNotFound, "device not found")
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// ExecuteRemote forwards a command to a device and relays its reply.
func (h *Handler) ExecuteRemote(w http.ResponseWriter, r *http.Request) {
	var req RemoteExecuteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Device == "" || strings.TrimSpace(req.Command) == "" {
		writeError(w, http.StatusBadRequest, "device and command are required")
		return
	}

	result, err := h.dispatcher.Execute(r.Context(), req.Device, req.Command, req.Type)
	if err != nil {
		if errors.Is(err, application.ErrDeviceNotFound) {
			writeError(w, http.StatusNotFound, "device not found")
			return
		}
		h.logger.Error("remote execute failed", "device", req.Device, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// RefreshDevices runs a poll cycle now and returns the updated device list.
func (h *Handler) RefreshDevices(w http.ResponseWriter, r *http.Request) {
	if err := h.poller.PollNow(r.Context()); err != nil {
		h.logger.Warn("manual device refresh failed", "error", err)
		writeError(w, http.StatusServiceUnavailable, "device refresh unavailable")
		return
	}
	writeJSON(w, http.StatusOK, toDevicesResponse(h.registry.List()))
}
