package model

// Settings defaults applied when config.json leaves a field out.
const (
	DefaultRefreshInterval = 10
	DefaultTheme           = "auto"
)

// Themes accepted for the web UI.
var Themes = []string{"auto", "light", "dark"}

// Settings is the user-editable projection of AppConfig. It never carries
// secrets such as the assistant API key.
type Settings struct {
	Voice  VoiceSettings
	System SystemSettings
}

// VoiceSettings mirrors the voice fields of voice_assistant.
type VoiceSettings struct {
	Rate     int
	Volume   float64
	WakeWord string
}

// SystemSettings mirrors the UI preferences of web_server.
type SystemSettings struct {
	RefreshInterval int
	Theme           string
	AutoStart       bool
	LogActivity     bool
	Notifications   bool
}

// SettingsPatch carries a partial settings change. Nil fields are left as
// they are.
type SettingsPatch struct {
	Rate     *int
	Volume   *float64
	WakeWord *string

	RefreshInterval *int
	Theme           *string
	AutoStart       *bool
	LogActivity     *bool
	Notifications   *bool
}

// Settings returns the editable projection of c with defaults filled in.
func (c AppConfig) Settings() Settings {
	ws := c.WebServer
	s := Settings{
		Voice: VoiceSettings{
			Rate:     c.VoiceAssistant.VoiceRate,
			Volume:   c.VoiceAssistant.VoiceVolume,
			WakeWord: c.VoiceAssistant.WakeWord,
		},
		System: SystemSettings{
			RefreshInterval: ws.RefreshInterval,
			Theme:           ws.Theme,
			AutoStart:       boolOr(ws.AutoStart, true),
			LogActivity:     boolOr(ws.LogActivity, true),
			Notifications:   boolOr(ws.Notifications, true),
		},
	}
	if s.System.RefreshInterval <= 0 {
		s.System.RefreshInterval = DefaultRefreshInterval
	}
	if s.System.Theme == "" {
		s.System.Theme = DefaultTheme
	}
	return s
}

// ApplySettings writes the non-nil fields of p into c.
func (c *AppConfig) ApplySettings(p SettingsPatch) {
	va := &c.VoiceAssistant
	if p.Rate != nil {
		va.VoiceRate = *p.Rate
	}
	if p.Volume != nil {
		va.VoiceVolume = *p.Volume
	}
	if p.WakeWord != nil {
		va.WakeWord = *p.WakeWord
	}

	ws := &c.WebServer
	if p.RefreshInterval != nil {
		ws.RefreshInterval = *p.RefreshInterval
	}
	if p.Theme != nil {
		ws.Theme = *p.Theme
	}
	if p.AutoStart != nil {
		ws.AutoStart = boolPtr(*p.AutoStart)
	}
	if p.LogActivity != nil {
		ws.LogActivity = boolPtr(*p.LogActivity)
	}
	if p.Notifications != nil {
		ws.Notifications = boolPtr(*p.Notifications)
	}
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

func boolPtr(b bool) *bool { return &b }
