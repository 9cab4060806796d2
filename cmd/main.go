package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eyeguard/internal/core/model"
	"eyeguard/internal/core/scheduler"
	"eyeguard/internal/headless"
	"eyeguard/internal/logging"
	"eyeguard/internal/platform"
	"eyeguard/internal/storage"

	"github.com/spf13/pflag"
)

const appName = "EyeGuard"

type options struct {
	configPath string
	logLevel   string
	headless   bool
	autostart  *bool
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, err := parseOptions(args, os.Stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	appConfig, err := loadAppConfig(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 1
	}

	logger, closer, err := logging.New(appConfig.Logging, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		return 1
	}
	defer closer.Close()
	slog.SetDefault(logger)

	activations := make(chan struct{}, 1)
	guard, err := platform.AcquireSingleInstance(appName, func() {
		select {
		case activations <- struct{}{}:
		default:
		}
	})
	if err != nil {
		if errors.Is(err, platform.ErrAlreadyRunning) {
			if notifyErr := platform.NotifyRunningInstance(appName); notifyErr != nil {
				logger.Warn("could not reach running instance", "error", notifyErr)
			}
			logger.Info("another instance is already running")
			return 0
		}
		logger.Error("single instance", "error", err)
		return 1
	}
	defer guard.Release()

	applyAutostart(appConfig.Autostart, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.headless {
		return runHeadless(ctx, appConfig, logger, activations)
	}
	return runDesktop(ctx, appConfig, logger, activations)
}

func parseOptions(args []string, output io.Writer) (options, error) {
	flags := pflag.NewFlagSet(appName, pflag.ContinueOnError)
	flags.SetOutput(output)

	var opts options
	flags.StringVarP(&opts.configPath, "config", "c", "", "path to config.yaml (default: user config dir)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.BoolVar(&opts.headless, "headless", false, "run without a GUI and only log breaks")
	autostart := flags.Bool("autostart", false, "enable or disable launch at login")

	if err := flags.Parse(args); err != nil {
		return options{}, err
	}
	if flags.Changed("autostart") {
		opts.autostart = autostart
	}
	if opts.logLevel != "" {
		if _, err := logging.ParseLevel(opts.logLevel); err != nil {
			return options{}, err
		}
	}
	return opts, nil
}

func loadAppConfig(opts options) (storage.AppConfig, error) {
	path := opts.configPath
	if path == "" {
		defaultPath, err := storage.DefaultConfigPath(appName)
		if err != nil {
			return storage.AppConfig{}, err
		}
		path = defaultPath
	}

	appConfig, err := storage.LoadConfig(path)
	if err != nil {
		return storage.AppConfig{}, err
	}
	if opts.logLevel != "" {
		appConfig.Logging.Level = opts.logLevel
	}
	if opts.autostart != nil {
		appConfig.Autostart = *opts.autostart
	}
	return appConfig, nil
}

func applyAutostart(enabled bool, logger *slog.Logger) {
	execPath, err := os.Executable()
	if err != nil {
		logger.Warn("autostart: resolve executable", "error", err)
		return
	}
	autostart, err := platform.NewAutostart(appName, execPath)
	if err != nil {
		logger.Warn("autostart", "error", err)
		return
	}
	if err := autostart.Apply(enabled); err != nil {
		logger.Warn("autostart", "enabled", enabled, "error", err)
		return
	}
	installed, err := autostart.Enabled()
	if err != nil {
		logger.Warn("autostart: check login entry", "error", err)
		return
	}
	if installed != enabled {
		logger.Warn("autostart entry does not match config", "enabled", enabled, "installed", installed)
		return
	}
	logger.Debug("autostart applied", "enabled", installed)
}

func watchSession(ctx context.Context, observer platform.SessionObserver, logger *slog.Logger) {
	go func() {
		err := platform.NewSessionMonitor(logger).Run(ctx, observer)
		switch {
		case err == nil, errors.Is(err, context.Canceled):
		case errors.Is(err, platform.ErrSessionUnsupported):
			logger.Warn("session lock detection unavailable", "error", err)
		default:
			logger.Error("session monitor stopped", "error", err)
		}
	}()
}

func runHeadless(ctx context.Context, appConfig storage.AppConfig, logger *slog.Logger, activations <-chan struct{}) int {
	breaks := scheduler.New(appConfig.Schedule, &scheduler.Flags{}, headless.NewPresenter(logger), scheduler.Options{Logger: logger})
	watchSession(ctx, breaks, logger)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-activations:
				logger.Info("activation ignored in headless mode")
			}
		}
	}()

	logger.Info("running headless", "short_interval", appConfig.Schedule.ShortInterval, "long_interval", appConfig.Schedule.LongInterval)
	breaks.Run(ctx)
	return 0
}

func statusText(kind model.BreakKind, remaining time.Duration) string {
	if kind == model.BreakNone {
		return "idle"
	}
	return fmt.Sprintf("next %s break in %s", kind, formatRemaining(remaining))
}

// eventStatus returns the control window status for event. next is only
// called when the countdown has to be recomputed.
func eventStatus(event scheduler.Event, next func() string) (string, bool) {
	switch event.Type {
	case scheduler.EventBreakStarted:
		return fmt.Sprintf("On a %s break", event.Kind), true
	case scheduler.EventBreakFinished, scheduler.EventUnlocked:
		return next(), true
	case scheduler.EventLocked:
		return "Session locked", true
	case scheduler.EventProgress:
		return statusText(event.Kind, event.Remaining), true
	}
	return "", false
}

func formatRemaining(remaining time.Duration) string {
	if remaining < 0 {
		remaining = 0
	}
	seconds := int(remaining.Seconds())
	minutes := seconds / 60
	seconds = seconds % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

func opacityToAlpha(opacity float64) uint8 {
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	return uint8(opacity * 255)
}
