package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"eyeguard/internal/core/model"
	"eyeguard/internal/logging"
	"eyeguard/internal/platform"

	"gopkg.in/yaml.v3"
)

const configFileName = "config.yaml"

// AppConfig is the startup configuration of the application.
type AppConfig struct {
	Schedule       model.ScheduleConfig
	Logging        logging.Config
	Autostart      bool
	StartOnLaunch  bool
	IconPath       string
	OverlayOpacity float64
	Fullscreen     bool
}

type yamlConfig struct {
	ShortIntervalMinutes int         `yaml:"short_interval_minutes"`
	LongIntervalMinutes  int         `yaml:"long_interval_minutes"`
	ShortDurationSeconds int         `yaml:"short_duration_seconds"`
	LongDurationMinutes  int         `yaml:"long_duration_minutes"`
	Autostart            bool        `yaml:"autostart"`
	StartOnLaunch        *bool       `yaml:"start_on_launch"`
	IconPath             string      `yaml:"icon_path"`
	OverlayOpacity       float64     `yaml:"overlay_opacity"`
	Fullscreen           *bool       `yaml:"fullscreen"`
	Logging              yamlLogging `yaml:"logging"`
}

type yamlLogging struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// DefaultAppConfig returns the configuration used when no file exists.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		Schedule:       model.DefaultScheduleConfig(),
		Logging:        logging.DefaultConfig(),
		StartOnLaunch:  true,
		OverlayOpacity: 0.93,
		Fullscreen:     true,
	}
}

// DefaultConfigPath returns <user config dir>/<appName>/config.yaml.
func DefaultConfigPath(appName string) (string, error) {
	configDir, err := platform.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, appName, configFileName), nil
}

// LoadConfig reads the YAML config at path.
// If the file does not exist, defaults are returned.
func LoadConfig(path string) (AppConfig, error) {
	config := DefaultAppConfig()

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return config, nil
		}
		return config, fmt.Errorf("read config file: %w", err)
	}

	var fileData yamlConfig
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return config, fmt.Errorf("parse config yaml: %w", err)
	}

	applyYamlConfig(&config, fileData)
	return config, nil
}

func applyYamlConfig(config *AppConfig, fileData yamlConfig) {
	schedule := []struct {
		amount int
		unit   time.Duration
		dest   *time.Duration
	}{
		{fileData.ShortIntervalMinutes, time.Minute, &config.Schedule.ShortInterval},
		{fileData.LongIntervalMinutes, time.Minute, &config.Schedule.LongInterval},
		{fileData.ShortDurationSeconds, time.Second, &config.Schedule.ShortDuration},
		{fileData.LongDurationMinutes, time.Minute, &config.Schedule.LongDuration},
	}
	for _, field := range schedule {
		if value, ok := model.ScaleSetting(field.amount, field.unit); ok {
			*field.dest = value
		}
	}

	if fileData.OverlayOpacity >= 0.5 && fileData.OverlayOpacity <= 1 {
		config.OverlayOpacity = fileData.OverlayOpacity
	}
	if fileData.Fullscreen != nil {
		config.Fullscreen = *fileData.Fullscreen
	}
	if fileData.StartOnLaunch != nil {
		config.StartOnLaunch = *fileData.StartOnLaunch
	}
	config.Autostart = fileData.Autostart
	config.IconPath = strings.TrimSpace(fileData.IconPath)

	if level := strings.TrimSpace(fileData.Logging.Level); level != "" {
		config.Logging.Level = level
	}
	config.Logging.File = strings.TrimSpace(fileData.Logging.File)
	if fileData.Logging.MaxSizeMB > 0 {
		config.Logging.MaxSizeMB = fileData.Logging.MaxSizeMB
	}
	if fileData.Logging.MaxBackups > 0 {
		config.Logging.MaxBackups = fileData.Logging.MaxBackups
	}
	if fileData.Logging.MaxAgeDays > 0 {
		config.Logging.MaxAgeDays = fileData.Logging.MaxAgeDays
	}
}
