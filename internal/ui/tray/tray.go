package tray

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

const menuTitle = "Eye Guard"

// PauseDurations are offered under "Disable breaks for...".
var PauseDurations = []time.Duration{5 * time.Minute, 15 * time.Minute, 30 * time.Minute, 60 * time.Minute}

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnOpen        func()
	OnSettings    func()
	OnTogglePause func()
	OnPauseFor    func(time.Duration)
	OnForceLong   func()
	OnQuit        func()
}

// Manager handles system tray state. Its methods must run on the fyne goroutine.
type Manager struct {
	app         desktop.App
	callbacks   Callbacks
	statusItem  *fyne.MenuItem
	pauseItem   *fyne.MenuItem
	forceLong   *fyne.MenuItem
	menu        *fyne.Menu
	paused      bool
	inBreak     bool
	statusLabel string
}

// New creates a tray manager and installs its menu.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:         app,
		callbacks:   callbacks,
		statusLabel: "starting...",
	}

	manager.statusItem = fyne.NewMenuItem("", nil)
	manager.statusItem.Disabled = true

	open := fyne.NewMenuItem("Open", invoke(callbacks.OnOpen))
	settings := fyne.NewMenuItem("Settings", invoke(callbacks.OnSettings))

	pauseFor := fyne.NewMenuItem("Disable breaks for...", nil)
	var pauseItems []*fyne.MenuItem
	for _, duration := range PauseDurations {
		duration := duration
		pauseItems = append(pauseItems, fyne.NewMenuItem(fmt.Sprintf("%d minutes", int(duration.Minutes())), func() {
			if manager.callbacks.OnPauseFor != nil {
				manager.callbacks.OnPauseFor(duration)
			}
		}))
	}
	pauseFor.ChildMenu = fyne.NewMenu("", pauseItems...)

	manager.forceLong = fyne.NewMenuItem("Take a long break now", invoke(callbacks.OnForceLong))
	manager.pauseItem = fyne.NewMenuItem("Pause", invoke(callbacks.OnTogglePause))
	quit := fyne.NewMenuItem("Quit", invoke(callbacks.OnQuit))

	manager.menu = fyne.NewMenu(menuTitle,
		manager.statusItem,
		fyne.NewMenuItemSeparator(),
		open,
		settings,
		pauseFor,
		manager.forceLong,
		manager.pauseItem,
		fyne.NewMenuItemSeparator(),
		quit,
	)
	manager.refreshStatus()
	return manager
}

// SetStatus updates the status label.
func (manager *Manager) SetStatus(status string) {
	if manager.statusLabel == status {
		return
	}
	manager.statusLabel = status
	manager.refreshStatus()
}

// SetPaused updates pause state.
func (manager *Manager) SetPaused(paused bool) {
	manager.paused = paused
	if paused {
		manager.pauseItem.Label = "Resume"
	} else {
		manager.pauseItem.Label = "Pause"
	}
	manager.refreshStatus()
}

// SetInBreak disables break actions while a break is shown.
func (manager *Manager) SetInBreak(inBreak bool) {
	manager.inBreak = inBreak
	manager.forceLong.Disabled = inBreak
	manager.refreshStatus()
}

func (manager *Manager) refreshStatus() {
	status := manager.statusLabel
	switch {
	case manager.inBreak:
		status = "on a break"
	case manager.paused:
		status = fmt.Sprintf("%s (paused)", status)
	}
	manager.statusItem.Label = fmt.Sprintf("Status: %s", status)
	if manager.app != nil {
		manager.app.SetSystemTrayMenu(manager.menu)
	}
}

func invoke(callback func()) func() {
	return func() {
		if callback != nil {
			callback()
		}
	}
}
