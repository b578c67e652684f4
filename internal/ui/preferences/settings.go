package preferences

import (
	"ringtimer/internal/core/model"
)

// Preset backends understood by storage.OpenPresetSink.
const (
	BackendMemory = "memory"
	BackendYAML   = "yaml"
	BackendSQLite = "sqlite"
)

// Settings defines the host defaults a timer is mounted with.
type Settings struct {
	Title       string
	Duration    int
	Elapsed     int
	Audio       model.AudioRef
	AlertVolume float64
	Muted       bool

	PresetBackend string
	LogLevel      string
	LogDir        string
}

// DefaultSettings returns default settings for RingTimer.
func DefaultSettings() Settings {
	return Settings{
		Title:         "My Timer",
		Duration:      300,
		Elapsed:       0,
		Audio:         model.AudioRef{Name: model.DefaultAudioName},
		AlertVolume:   0,
		Muted:         false,
		PresetBackend: BackendYAML,
		LogLevel:      "info",
	}
}

// TimerConfig converts settings to engine inputs.
func (settings Settings) TimerConfig() model.TimerConfig {
	return model.TimerConfig{
		Title:          settings.Title,
		TotalDuration:  settings.Duration,
		InitialElapsed: settings.Elapsed,
	}
}
