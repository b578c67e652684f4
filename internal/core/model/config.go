package model

import "fmt"

const (
	// MaxDuration is the longest supported countdown, 59:59.
	MaxDuration = 59*60 + 59
	// MaxMinutes bounds the minutes component of a duration.
	MaxMinutes = 59
	// MaxSeconds bounds the seconds component of a duration.
	MaxSeconds = 59
	// DefaultAudioName labels the built-in alert sound.
	DefaultAudioName = "Default"
)

// TimerConfig contains the immutable inputs a timer is built from.
type TimerConfig struct {
	Title          string
	TotalDuration  int
	InitialElapsed int
}

// Validate checks the duration ceiling and the elapsed bound.
func (config TimerConfig) Validate() error {
	if config.TotalDuration < 0 || config.TotalDuration > MaxDuration {
		return &ConfigurationError{
			Field:  "duration",
			Value:  config.TotalDuration,
			Reason: fmt.Sprintf("must be between 0 and %d seconds (59:59)", MaxDuration),
		}
	}
	if config.InitialElapsed < 0 || config.InitialElapsed > config.TotalDuration {
		return &ConfigurationError{
			Field:  "elapsed",
			Value:  config.InitialElapsed,
			Reason: fmt.Sprintf("must be between 0 and the duration (%d seconds)", config.TotalDuration),
		}
	}
	return nil
}

// Minutes returns the minutes component of the total duration.
func (config TimerConfig) Minutes() int {
	return config.TotalDuration / 60
}

// Seconds returns the seconds component of the total duration.
func (config TimerConfig) Seconds() int {
	return config.TotalDuration % 60
}

// TimerState is a point-in-time copy of the timer engine.
type TimerState struct {
	Title          string
	TotalDuration  int
	InitialElapsed int
	Elapsed        int
	Remaining      int
	Running        bool
	Ended          bool
	Muted          bool
}

// Config returns the inputs the state was built from.
func (state TimerState) Config() TimerConfig {
	return TimerConfig{
		Title:          state.Title,
		TotalDuration:  state.TotalDuration,
		InitialElapsed: state.InitialElapsed,
	}
}

// AudioRef points at an alert sound. An empty File selects the built-in tone.
type AudioRef struct {
	File string `yaml:"file" json:"file"`
	Name string `yaml:"name" json:"name"`
}

// IsDefault reports whether the reference selects the built-in tone.
func (ref AudioRef) IsDefault() bool {
	return ref.File == ""
}

// SavedTimer is a named timer preset.
type SavedTimer struct {
	ID            int64  `yaml:"id"`
	Title         string `yaml:"title"`
	Minutes       int    `yaml:"minutes"`
	Seconds       int    `yaml:"seconds"`
	AudioFile     string `yaml:"audio_file"`
	AudioFileName string `yaml:"audio_file_name"`
	ElapsedTime   int    `yaml:"elapsed_time"`
}

// Duration returns the preset length in seconds.
func (saved SavedTimer) Duration() int {
	return saved.Minutes*60 + saved.Seconds
}

// Config converts the preset into engine inputs.
func (saved SavedTimer) Config() TimerConfig {
	return TimerConfig{
		Title:          saved.Title,
		TotalDuration:  saved.Duration(),
		InitialElapsed: saved.ElapsedTime,
	}
}

// Audio returns the preset's alert sound reference.
func (saved SavedTimer) Audio() AudioRef {
	return AudioRef{File: saved.AudioFile, Name: saved.AudioFileName}
}

// Validate checks the component ranges and the elapsed bound.
func (saved SavedTimer) Validate() error {
	if saved.Minutes < 0 || saved.Minutes > MaxMinutes {
		return &ConfigurationError{Field: "minutes", Value: saved.Minutes, Reason: "must be between 0 and 59"}
	}
	if saved.Seconds < 0 || saved.Seconds > MaxSeconds {
		return &ConfigurationError{Field: "seconds", Value: saved.Seconds, Reason: "must be between 0 and 59"}
	}
	return saved.Config().Validate()
}
