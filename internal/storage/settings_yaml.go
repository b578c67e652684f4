package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"ringtimer/internal/audio"
	"ringtimer/internal/platform"
	"ringtimer/internal/ui/preferences"

	"gopkg.in/yaml.v3"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	Title         string  `yaml:"title"`
	Duration      *int    `yaml:"duration_seconds"`
	Elapsed       int     `yaml:"elapsed_seconds"`
	AlertFile     string  `yaml:"alert_file"`
	AlertVolume   float64 `yaml:"alert_volume"`
	Muted         bool    `yaml:"muted"`
	PresetBackend string  `yaml:"preset_backend"`
	LogLevel      string  `yaml:"log_level"`
	LogDir        string  `yaml:"log_dir"`
}

// LoadSettings reads host defaults from YAML.
// If the config file does not exist, default settings are returned.
// A duration or elapsed time out of range is a *model.ConfigurationError.
func LoadSettings(appName string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()
	configPath, err := resolveConfigPath(appName, settingsFileName)
	if err != nil {
		return settings, err
	}

	rawData, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	if err := settings.TimerConfig().Validate(); err != nil {
		return preferences.DefaultSettings(), fmt.Errorf("settings file %s: %w", configPath, err)
	}
	return settings, nil
}

// SaveSettings writes host defaults to YAML.
func SaveSettings(appName string, settings preferences.Settings) error {
	configPath, err := resolveConfigPath(appName, settingsFileName)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	duration := settings.Duration
	fileData := yamlSettings{
		Title:         settings.Title,
		Duration:      &duration,
		Elapsed:       settings.Elapsed,
		AlertFile:     settings.Audio.File,
		AlertVolume:   settings.AlertVolume,
		Muted:         settings.Muted,
		PresetBackend: settings.PresetBackend,
		LogLevel:      settings.LogLevel,
		LogDir:        settings.LogDir,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(configPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

// Dir returns the directory RingTimer files live in.
func Dir(appName string) (string, error) {
	configDir, err := platform.NewService().GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, appName), nil
}

func resolveConfigPath(appName, fileName string) (string, error) {
	dir, err := Dir(appName)
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, fileName), nil
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if fileData.Title != "" {
		settings.Title = fileData.Title
	}
	if fileData.Duration != nil {
		settings.Duration = *fileData.Duration
	}
	settings.Elapsed = fileData.Elapsed
	if fileData.AlertFile != "" {
		settings.Audio = audio.Ref(fileData.AlertFile)
	}
	if fileData.AlertVolume >= -10 && fileData.AlertVolume <= 2 {
		settings.AlertVolume = fileData.AlertVolume
	}
	switch fileData.PresetBackend {
	case preferences.BackendMemory, preferences.BackendYAML, preferences.BackendSQLite:
		settings.PresetBackend = fileData.PresetBackend
	}
	if fileData.LogLevel != "" {
		settings.LogLevel = fileData.LogLevel
	}

	settings.Muted = fileData.Muted
	settings.LogDir = fileData.LogDir
}
