//go:build linux

package platform

import (
	"fmt"
	"path/filepath"
	"strings"
)

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config")
}

// entryPath points at an XDG autostart desktop entry.
func (autostart *Autostart) entryPath() (string, error) {
	configDir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "autostart", slug(autostart.appName)+".desktop"), nil
}

func (autostart *Autostart) entryContent() string {
	execLine := autostart.execPath
	if strings.Contains(execLine, " ") && !strings.HasPrefix(execLine, `"`) {
		execLine = `"` + execLine + `"`
	}

	return fmt.Sprintf(`[Desktop Entry]
Type=Application
Name=%s
Comment=Reminds you to rest your eyes
Exec=%s
X-GNOME-Autostart-enabled=true
Terminal=false
`, autostart.appName, execLine)
}
