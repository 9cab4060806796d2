package main

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"eyeguard/internal/core/model"
	"eyeguard/internal/core/scheduler"
	"eyeguard/internal/storage"
	"eyeguard/internal/ui/control"
	"eyeguard/internal/ui/overlay"
	"eyeguard/internal/ui/preferences"
	"eyeguard/internal/ui/tray"
	"eyeguard/resources"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
)

func runDesktop(ctx context.Context, appConfig storage.AppConfig, logger *slog.Logger, activations <-chan struct{}) int {
	fyneApp := app.NewWithID("com.eyeguard.app")
	activeIcon := resources.AppIcon(appConfig.IconPath, logger)
	pausedIcon := resources.IconOrFallback(resources.IconPaused, logger)
	fyneApp.SetIcon(activeIcon)

	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		logger.Error("system tray unsupported on this platform")
		return 1
	}

	overlayWindow := overlay.New(fyneApp, overlay.Config{
		Opacity:    opacityToAlpha(appConfig.OverlayOpacity),
		Fullscreen: appConfig.Fullscreen,
		Image:      activeIcon,
	})
	breaks := scheduler.New(appConfig.Schedule, &scheduler.Flags{}, overlayWindow, scheduler.Options{Logger: logger})
	watchSession(ctx, breaks, logger)

	prefsWindow := preferences.New(fyneApp, breaks, logger)

	var (
		controlWindow *control.Window
		trayManager   *tray.Manager
		pauseMu       sync.Mutex
		pauseTimer    *time.Timer
	)

	// Must run on the fyne goroutine.
	showPaused := func(paused bool) {
		trayManager.SetPaused(paused)
		controlWindow.SetPaused(paused)
		if paused {
			desktopApp.SetSystemTrayIcon(pausedIcon)
		} else {
			desktopApp.SetSystemTrayIcon(activeIcon)
		}
	}
	showNextBreak := func() {
		status := statusText(breaks.NextBreak(time.Now()))
		trayManager.SetStatus(status)
		controlWindow.SetStatus(status)
	}

	cancelPauseTimer := func() {
		pauseMu.Lock()
		defer pauseMu.Unlock()
		if pauseTimer != nil {
			pauseTimer.Stop()
			pauseTimer = nil
		}
	}
	togglePause := func() {
		cancelPauseTimer()
		showPaused(breaks.TogglePause())
	}
	pauseFor := func(duration time.Duration) {
		cancelPauseTimer()
		breaks.Pause()
		showPaused(true)
		logger.Info("breaks disabled", "for", duration)

		pauseMu.Lock()
		pauseTimer = time.AfterFunc(duration, func() {
			breaks.Resume()
			fyne.Do(func() {
				showPaused(false)
			})
		})
		pauseMu.Unlock()
	}
	trigger := func(kind model.BreakKind) {
		go func() {
			if !breaks.TriggerBreak(ctx, kind) {
				logger.Info("break request ignored, another break is active", "kind", kind)
			}
		}()
	}

	handleEvent := func(event scheduler.Event) {
		switch event.Type {
		case scheduler.EventBreakStarted:
			trayManager.SetInBreak(true)
		case scheduler.EventBreakFinished:
			trayManager.SetInBreak(false)
		case scheduler.EventPaused:
			showPaused(true)
		case scheduler.EventResumed:
			showPaused(false)
		}

		status, ok := eventStatus(event, func() string {
			return statusText(breaks.NextBreak(time.Now()))
		})
		if !ok {
			return
		}
		controlWindow.SetStatus(status)
		if event.Type == scheduler.EventProgress || event.Type == scheduler.EventBreakFinished || event.Type == scheduler.EventUnlocked {
			trayManager.SetStatus(status)
		}
	}

	start := func() {
		if breaks.Flags().Running() {
			return
		}
		events := breaks.Subscribe(16)
		if !breaks.Start(ctx) {
			return
		}
		controlWindow.SetRunning(true)
		go func() {
			for event := range events {
				fyne.Do(func() {
					handleEvent(event)
				})
			}
			fyne.Do(func() {
				controlWindow.SetRunning(false)
				trayManager.SetStatus("stopped")
			})
		}()
	}

	controlWindow = control.New(fyneApp, appName, control.Callbacks{
		OnStart:       start,
		OnTogglePause: togglePause,
		OnTestShort:   func() { trigger(model.BreakShort) },
		OnTestLong:    func() { trigger(model.BreakLong) },
		OnSettings:    prefsWindow.Show,
	})
	trayManager = tray.New(desktopApp, tray.Callbacks{
		OnOpen:        controlWindow.Restore,
		OnSettings:    prefsWindow.Show,
		OnTogglePause: togglePause,
		OnPauseFor:    pauseFor,
		OnForceLong:   func() { trigger(model.BreakLong) },
		OnQuit: func() {
			cancelPauseTimer()
			breaks.Stop()
			fyneApp.Quit()
		},
	})
	desktopApp.SetSystemTrayIcon(activeIcon)

	prefsWindow.SetOnSaved(func(model.ScheduleConfig) {
		showNextBreak()
	})

	go func() {
		for {
			select {
			case <-ctx.Done():
				fyne.Do(fyneApp.Quit)
				return
			case <-activations:
				fyne.Do(controlWindow.Restore)
			}
		}
	}()

	if appConfig.StartOnLaunch {
		start()
	}
	controlWindow.Restore()
	fyneApp.Run()

	cancelPauseTimer()
	breaks.Stop()
	return 0
}
