package control

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// Callbacks defines main window actions.
type Callbacks struct {
	OnStart       func()
	OnTogglePause func()
	OnTestShort   func()
	OnTestLong    func()
	OnSettings    func()
}

// Window is the main control window. Closing it hides the app to the tray.
type Window struct {
	window fyne.Window
	start  *widget.Button
	pause  *widget.Button
	status *widget.Label
}

// New builds the control window.
func New(app fyne.App, title string, callbacks Callbacks) *Window {
	window := app.NewWindow(title)

	control := &Window{
		window: window,
		status: widget.NewLabel("Timer stopped"),
	}
	control.status.Alignment = fyne.TextAlignCenter

	control.start = widget.NewButton("Start timer", invoke(callbacks.OnStart))
	control.start.Importance = widget.HighImportance
	control.pause = widget.NewButton("Pause", invoke(callbacks.OnTogglePause))

	window.SetContent(container.NewPadded(container.NewVBox(
		control.status,
		control.start,
		control.pause,
		widget.NewButton("Test short break", invoke(callbacks.OnTestShort)),
		widget.NewButton("Test long break", invoke(callbacks.OnTestLong)),
		widget.NewButton("Settings", invoke(callbacks.OnSettings)),
	)))
	window.Resize(fyne.NewSize(370, 360))
	window.SetFixedSize(true)
	window.CenterOnScreen()
	window.SetCloseIntercept(control.MinimizeToTray)

	return control
}

// Restore shows the window again.
func (control *Window) Restore() {
	control.window.Show()
	control.window.RequestFocus()
}

// MinimizeToTray hides the window without quitting.
func (control *Window) MinimizeToTray() {
	control.window.Hide()
}

// SetRunning reflects whether the scheduler loop is active.
func (control *Window) SetRunning(running bool) {
	if running {
		control.start.Disable()
		return
	}
	control.start.Enable()
	control.status.SetText("Timer stopped")
}

// SetPaused updates the pause button label.
func (control *Window) SetPaused(paused bool) {
	if paused {
		control.pause.SetText("Resume")
		return
	}
	control.pause.SetText("Pause")
}

// SetStatus updates the status line.
func (control *Window) SetStatus(status string) {
	control.status.SetText(status)
}

func invoke(callback func()) func() {
	return func() {
		if callback != nil {
			callback()
		}
	}
}
