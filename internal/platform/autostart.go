package platform

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Autostart registers the application to launch at login.
type Autostart struct {
	appName  string
	execPath string
}

// NewAutostart validates the registration parameters.
func NewAutostart(appName, execPath string) (*Autostart, error) {
	if strings.TrimSpace(appName) == "" {
		return nil, errors.New("autostart: app name is empty")
	}
	if execPath == "" {
		return nil, errors.New("autostart: exec path is empty")
	}
	return &Autostart{appName: appName, execPath: execPath}, nil
}

// Apply enables or disables launch at login.
func (autostart *Autostart) Apply(enabled bool) error {
	if enabled {
		if err := autostart.enable(); err != nil {
			return fmt.Errorf("enable autostart: %w", err)
		}
		return nil
	}
	if err := autostart.disable(); err != nil {
		return fmt.Errorf("disable autostart: %w", err)
	}
	return nil
}

// ConfigDir returns the OS-standard configuration directory.
func ConfigDir() (string, error) {
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
	return fallbackConfigDir(homeDir), nil
}

func slug(appName string) string {
	name := strings.ToLower(strings.TrimSpace(appName))
	return strings.ReplaceAll(name, " ", "-")
}
