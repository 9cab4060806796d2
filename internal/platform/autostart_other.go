//go:build !linux && !darwin && !windows

package platform

import (
	"errors"
	"path/filepath"
)

var errAutostartUnsupported = errors.New("autostart is not supported on this platform")

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config")
}

func (autostart *Autostart) enable() error {
	return errAutostartUnsupported
}

func (autostart *Autostart) disable() error {
	return nil
}

// Enabled always reports false on unsupported platforms.
func (autostart *Autostart) Enabled() (bool, error) {
	return false, nil
}
