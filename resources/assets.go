package resources

import (
	"embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

const (
	iconDir = "icons/"

	IconActive = "eye.svg"
	IconPaused = "eye_paused.svg"
)

//go:embed icons/*.svg
var iconFS embed.FS

var iconCache sync.Map

// Icon returns an embedded icon.
func Icon(fileName string) (fyne.Resource, error) {
	path := iconDir + fileName
	if cached, ok := iconCache.Load(path); ok {
		return cached.(fyne.Resource), nil
	}

	data, err := iconFS.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load resource %s: %w", path, err)
	}

	resource := fyne.NewStaticResource(fileName, data)
	iconCache.Store(path, resource)
	return resource, nil
}

// IconOrFallback returns an embedded icon, or the toolkit's generic icon
// when it cannot be loaded.
func IconOrFallback(fileName string, logger *slog.Logger) fyne.Resource {
	resource, err := Icon(fileName)
	if err != nil {
		logger.Warn("icon unavailable, using fallback", "icon", fileName, "error", err)
		return theme.VisibilityIcon()
	}
	return resource
}

// AppIcon loads a user supplied icon from disk, falling back to the embedded one.
func AppIcon(path string, logger *slog.Logger) fyne.Resource {
	if path == "" {
		return IconOrFallback(IconActive, logger)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("custom icon unavailable, using default", "path", path, "error", err)
		return IconOrFallback(IconActive, logger)
	}
	return fyne.NewStaticResource(filepath.Base(path), data)
}
