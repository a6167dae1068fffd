package httphandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ericfisherdev/homepanel/internal/application"
	"github.com/ericfisherdev/homepanel/internal/domain/model"
)

// maxBodyBytes limits request bodies.
const maxBodyBytes = 1 << 20

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// decodeBody reads a JSON request body into v. On failure a 400 response has
// already been written and false is returned.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// successResponse is returned by endpoints that only report an outcome.
type successResponse struct {
	Success bool `json:"success"`
}

// LoginRequest is the JSON body for the login endpoint.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries a freshly issued session token.
type LoginResponse struct {
	Success   bool   `json:"success"`
	Token     string `json:"token"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	ExpiresAt string `json:"expires_at"`
}

// VerifyResponse describes the session behind the presented token.
type VerifyResponse struct {
	Valid     bool   `json:"valid"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	ExpiresAt string `json:"expires_at"`
}

// ChangePasswordRequest is the JSON body for the password endpoint.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// CreateUserRequest is the JSON body for the admin user endpoint.
type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	Username  string `json:"username"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

// CommandCategoryResponse is one allow-list category.
type CommandCategoryResponse struct {
	Name     string   `json:"name"`
	Commands []string `json:"commands"`
}

// CommandsResponse lists the allow-listed commands by category.
type CommandsResponse struct {
	Categories []CommandCategoryResponse `json:"categories"`
}

// ExecuteRequest is the JSON body for local command execution.
type ExecuteRequest struct {
	Command string `json:"command"`
}

// DeviceResponse is a registered device with its last observed health. The
// device auth token is never returned.
type DeviceResponse struct {
	Name      string         `json:"name"`
	IP        string         `json:"ip"`
	Port      int            `json:"port"`
	Type      string         `json:"type"`
	Online    bool           `json:"online"`
	Checked   bool           `json:"checked"`
	LastCheck string         `json:"last_check,omitempty"`
	Error     string         `json:"error,omitempty"`
	Info      map[string]any `json:"info,omitempty"`
}

// DevicesResponse wraps the device list.
type DevicesResponse struct {
	Devices []DeviceResponse `json:"devices"`
}

// AddDeviceRequest is the JSON body for registering a device.
type AddDeviceRequest struct {
	Name  string `json:"name"`
	IP    string `json:"ip"`
	Port  int    `json:"port"`
	Type  string `json:"type"`
	Token string `json:"token"`
}

// RemoteExecuteRequest is the JSON body for remote command dispatch.
type RemoteExecuteRequest struct {
	Device  string `json:"device"`
	Command string `json:"command"`
	Type    string `json:"type"`
}

// AssistantRequest is the JSON body for the assistant endpoint.
type AssistantRequest struct {
	Text string `json:"text"`
}

// AssistantResponse carries the assistant reply as text and rendered HTML.
type AssistantResponse struct {
	Success      bool   `json:"success"`
	Response     string `json:"response"`
	ResponseHTML string `json:"response_html"`
}

// AssistantKeyRequest is the JSON body for replacing the language-model key.
type AssistantKeyRequest struct {
	APIKey string `json:"api_key"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status  string              `json:"status"`
	Time    string              `json:"time"`
	Devices HealthDevicesCounts `json:"devices"`
}

// HealthDevicesCounts breaks the device total down by state.
type HealthDevicesCounts struct {
	Total   int `json:"total"`
	Online  int `json:"online"`
	Offline int `json:"offline"`
	Pending int `json:"pending"`
}

// SettingsResponse is the safe projection of config.json. It never includes
// the assistant API key.
type SettingsResponse struct {
	Voice  VoiceSettingsResponse  `json:"voice"`
	System SystemSettingsResponse `json:"system"`
}

// VoiceSettingsResponse holds the voice preferences.
type VoiceSettingsResponse struct {
	Rate     int     `json:"rate"`
	Volume   float64 `json:"volume"`
	WakeWord string  `json:"wake_word"`
}

// SystemSettingsResponse holds the UI preferences.
type SystemSettingsResponse struct {
	RefreshInterval int    `json:"refresh_interval"`
	Theme           string `json:"theme"`
	AutoStart       bool   `json:"auto_start"`
	LogActivity     bool   `json:"log_activity"`
	Notifications   bool   `json:"notifications"`
}

// SettingsRequest is a partial settings update. Omitted fields are kept.
type SettingsRequest struct {
	Voice *struct {
		Rate     *int     `json:"rate"`
		Volume   *float64 `json:"volume"`
		WakeWord *string  `json:"wake_word"`
	} `json:"voice"`
	System *struct {
		RefreshInterval *int    `json:"refresh_interval"`
		Theme           *string `json:"theme"`
		AutoStart       *bool   `json:"auto_start"`
		LogActivity     *bool   `json:"log_activity"`
		Notifications   *bool   `json:"notifications"`
	} `json:"system"`
}

// SystemStatusResponse is the host resource snapshot.
type SystemStatusResponse struct {
	CPU         CPUStatusResponse     `json:"cpu"`
	Memory      MemoryStatusResponse  `json:"memory"`
	Battery     BatteryStatusResponse `json:"battery"`
	SystemInfo  SystemInfoResponse    `json:"system_info"`
	CollectedAt string                `json:"collected_at"`
}

// CPUStatusResponse holds processor load. Temperature is in Celsius.
type CPUStatusResponse struct {
	Percent     float64  `json:"percent"`
	Cores       int      `json:"cores"`
	Temperature *float64 `json:"temperature,omitempty"`
}

// MemoryStatusResponse holds memory usage in megabytes.
type MemoryStatusResponse struct {
	Percent float64 `json:"percent"`
	Used    float64 `json:"used"`
	Total   float64 `json:"total"`
}

// BatteryStatusResponse describes the host battery.
type BatteryStatusResponse struct {
	Present  bool    `json:"present"`
	Percent  float64 `json:"percent"`
	Charging bool    `json:"charging"`
	Status   string  `json:"status"`
}

// SystemInfoResponse holds static host facts. Uptime is in seconds.
type SystemInfoResponse struct {
	OS        string `json:"os"`
	OSVersion string `json:"os_version"`
	Platform  string `json:"platform"`
	Hostname  string `json:"hostname"`
	Processor string `json:"processor"`
	Uptime    int64  `json:"uptime"`
}

func toDeviceResponse(st model.DeviceStatus) DeviceResponse {
	resp := DeviceResponse{
		Name: st.Name,
		IP:   st.Address,
		Port: st.Port,
		Type: string(st.Kind),
	}
	if h := st.Health; h != nil {
		resp.Online = h.Online
		resp.Checked = true
		resp.LastCheck = h.LastCheckedAt.UTC().Format(time.RFC3339)
		resp.Info = h.RemoteInfo
		if h.LastError != nil {
			resp.Error = *h.LastError
		}
	}
	return resp
}

func toDevicesResponse(statuses []model.DeviceStatus) DevicesResponse {
	devices := make([]DeviceResponse, 0, len(statuses))
	for _, st := range statuses {
		devices = append(devices, toDeviceResponse(st))
	}
	return DevicesResponse{Devices: devices}
}

func toCommandsResponse(categories []model.CommandCategory) CommandsResponse {
	out := make([]CommandCategoryResponse, 0, len(categories))
	for _, c := range categories {
		commands := c.Commands
		if commands == nil {
			commands = []string{}
		}
		out = append(out, CommandCategoryResponse{Name: c.Name, Commands: commands})
	}
	return CommandsResponse{Categories: out}
}

func toHealthResponse(s application.HealthSummary, now time.Time) HealthResponse {
	return HealthResponse{
		Status: string(s.Status),
		Time:   now.UTC().Format(time.RFC3339),
		Devices: HealthDevicesCounts{
			Total:   s.Devices,
			Online:  s.Online,
			Offline: s.Offline,
			Pending: s.Pending,
		},
	}
}

func toSettingsResponse(s model.Settings) SettingsResponse {
	return SettingsResponse{
		Voice: VoiceSettingsResponse{
			Rate:     s.Voice.Rate,
			Volume:   s.Voice.Volume,
			WakeWord: s.Voice.WakeWord,
		},
		System: SystemSettingsResponse{
			RefreshInterval: s.System.RefreshInterval,
			Theme:           s.System.Theme,
			AutoStart:       s.System.AutoStart,
			LogActivity:     s.System.LogActivity,
			Notifications:   s.System.Notifications,
		},
	}
}

func (r SettingsRequest) toPatch() model.SettingsPatch {
	var p model.SettingsPatch
	if v := r.Voice; v != nil {
		p.Rate, p.Volume, p.WakeWord = v.Rate, v.Volume, v.WakeWord
	}
	if s := r.System; s != nil {
		p.RefreshInterval, p.Theme = s.RefreshInterval, s.Theme
		p.AutoStart, p.LogActivity, p.Notifications = s.AutoStart, s.LogActivity, s.Notifications
	}
	return p
}

func toSystemStatusResponse(st model.SystemStatus) SystemStatusResponse {
	return SystemStatusResponse{
		CPU: CPUStatusResponse{
			Percent:     st.CPU.Percent,
			Cores:       st.CPU.Cores,
			Temperature: st.CPU.Temperature,
		},
		Memory: MemoryStatusResponse{
			Percent: st.Memory.Percent,
			Used:    st.Memory.UsedMB,
			Total:   st.Memory.TotalMB,
		},
		Battery: BatteryStatusResponse{
			Present:  st.Battery.Present,
			Percent:  st.Battery.Percent,
			Charging: st.Battery.Charging,
			Status:   st.Battery.Status,
		},
		SystemInfo: SystemInfoResponse{
			OS:        st.Info.OS,
			OSVersion: st.Info.OSVersion,
			Platform:  st.Info.Platform,
			Hostname:  st.Info.Hostname,
			Processor: st.Info.Processor,
			Uptime:    int64(st.Info.Uptime / time.Second),
		},
		CollectedAt: st.CollectedAt.UTC().Format(time.RFC3339),
	}
}
