package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// ConfigDirEnv overrides the configuration directory.
const ConfigDirEnv = "RINGTIMER_CONFIG_DIR"

// Service defines OS-specific helpers needed by the application.
type Service interface {
	GetConfigDir() (string, error)
}

type platformService struct{}

// NewService returns a platform-specific implementation.
func NewService() Service {
	return &platformService{}
}

// GetConfigDir returns RINGTIMER_CONFIG_DIR when set, otherwise the OS-standard configuration directory.
func (service *platformService) GetConfigDir() (string, error) {
	if override := os.Getenv(ConfigDirEnv); override != "" {
		return override, nil
	}

	configDir, err := os.UserConfigDir()
	if err == nil && configDir != "" {
		return configDir, nil
	}

	homeDir, homeErr := os.UserHomeDir()
	if homeErr != nil {
		if err != nil {
			return "", fmt.Errorf("get config dir: %w", err)
		}
		return "", fmt.Errorf("get config dir: %w", homeErr)
	}

	return filepath.Join(homeDir, ".config"), nil
}
