package model

// AppConfig is the persisted application document (config.json).
type AppConfig struct {
	WebServer      WebServerConfig      `json:"web_server"`
	VoiceAssistant VoiceAssistantConfig `json:"voice_assistant"`
	RemoteControl  RemoteControlConfig  `json:"remote_control"`
}

// WebServerConfig holds listener and UI preferences.
type WebServerConfig struct {
	Host            string `json:"host"`
	Port            int    `json:"port"`
	Debug           bool   `json:"debug"`
	RefreshInterval int    `json:"refresh_interval,omitempty"`
	Theme           string `json:"theme,omitempty"`
	AutoStart       *bool  `json:"auto_start,omitempty"`
	LogActivity     *bool  `json:"log_activity,omitempty"`
	Notifications   *bool  `json:"notifications,omitempty"`
}

// VoiceAssistantConfig holds the language-model settings. Voice fields are
// kept so the document round-trips, but nothing speaks.
type VoiceAssistantConfig struct {
	APIKey      string  `json:"ai_studio_api_key"`
	APIURL      string  `json:"ai_studio_url,omitempty"`
	Model       string  `json:"ai_studio_model,omitempty"`
	MaxHistory  int     `json:"max_history,omitempty"`
	VoiceRate   int     `json:"voice_rate"`
	VoiceVolume float64 `json:"voice_volume"`
	WakeWord    string  `json:"wake_word"`
}

// RemoteControlConfig holds registered devices and extra allowed commands.
type RemoteControlConfig struct {
	RemoteDevices   map[string]DeviceConfig `json:"remote_devices"`
	AllowedCommands []string                `json:"allowed_commands"`
}

// DeviceConfig is the persisted form of a Device.
type DeviceConfig struct {
	IP    string `json:"ip"`
	Port  int    `json:"port"`
	Type  string `json:"type"`
	Token string `json:"token"`
}

// DefaultAppConfig returns the document written when none exists.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		WebServer: WebServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		VoiceAssistant: VoiceAssistantConfig{
			VoiceRate:   150,
			VoiceVolume: 0.8,
			WakeWord:    "casa",
		},
		RemoteControl: RemoteControlConfig{
			RemoteDevices:   map[string]DeviceConfig{},
			AllowedCommands: []string{},
		},
	}
}

// Devices converts the persisted device map to domain devices.
func (c RemoteControlConfig) Devices() []Device {
	devices := make([]Device, 0, len(c.RemoteDevices))
	for name, dc := range c.RemoteDevices {
		devices = append(devices, Device{
			Name:      name,
			Address:   dc.IP,
			Port:      dc.Port,
			Kind:      ParseDeviceKind(dc.Type),
			AuthToken: dc.Token,
		})
	}
	return devices
}

// DeviceConfigs converts domain devices to their persisted form.
func DeviceConfigs(devices []Device) map[string]DeviceConfig {
	out := make(map[string]DeviceConfig, len(devices))
	for _, d := range devices {
		out[d.Name] = DeviceConfig{
			IP:    d.Address,
			Port:  d.Port,
			Type:  string(d.Kind),
			Token: d.AuthToken,
		}
	}
	return out
}
