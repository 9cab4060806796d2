package preferences

import (
	"log/slog"

	"eyeguard/internal/core/model"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Window handles the settings UI.
type Window struct {
	window   fyne.Window
	target   ConfigTarget
	logger   *slog.Logger
	onSaved  func(model.ScheduleConfig)
	shortInt *widget.Entry
	longInt  *widget.Entry
	shortDur *widget.Entry
	longDur  *widget.Entry
	save     *widget.Button
	notice   dialog.Dialog
}

// New creates a settings window editing the schedule held by target.
func New(app fyne.App, target ConfigTarget, logger *slog.Logger) *Window {
	window := app.NewWindow("Settings")

	shortInt := widget.NewEntry()
	longInt := widget.NewEntry()
	shortDur := widget.NewEntry()
	longDur := widget.NewEntry()

	form := container.NewVBox(
		widget.NewLabelWithStyle("Break intervals", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		container.NewBorder(nil, nil, widget.NewLabel("Short breaks every (min):"), nil, shortInt),
		container.NewBorder(nil, nil, widget.NewLabel("Long breaks every (min):"), nil, longInt),
		container.NewBorder(nil, nil, widget.NewLabel("Short break length (sec):"), nil, shortDur),
		container.NewBorder(nil, nil, widget.NewLabel("Long break length (min):"), nil, longDur),
	)

	saveButton := widget.NewButton("Save settings", nil)
	cancelButton := widget.NewButton("Cancel", func() {
		window.Hide()
	})
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(400, 320))
	window.SetCloseIntercept(func() {
		window.Hide()
	})

	prefs := &Window{
		window:   window,
		target:   target,
		logger:   logger,
		shortInt: shortInt,
		longInt:  longInt,
		shortDur: shortDur,
		longDur:  longDur,
		save:     saveButton,
	}
	saveButton.OnTapped = prefs.handleSave
	prefs.load(target.Config())

	return prefs
}

// SetOnSaved registers a callback fired after a schedule was applied.
func (prefs *Window) SetOnSaved(handler func(model.ScheduleConfig)) {
	prefs.onSaved = handler
}

// Show refreshes the form from the active schedule and displays the window.
func (prefs *Window) Show() {
	prefs.load(prefs.target.Config())
	prefs.window.Show()
	prefs.window.RequestFocus()
}

func (prefs *Window) load(config model.ScheduleConfig) {
	input := InputFromConfig(config)
	prefs.shortInt.SetText(input.ShortIntervalMinutes)
	prefs.longInt.SetText(input.LongIntervalMinutes)
	prefs.shortDur.SetText(input.ShortDurationSeconds)
	prefs.longDur.SetText(input.LongDurationMinutes)
}

func (prefs *Window) input() Input {
	return Input{
		ShortIntervalMinutes: prefs.shortInt.Text,
		LongIntervalMinutes:  prefs.longInt.Text,
		ShortDurationSeconds: prefs.shortDur.Text,
		LongDurationMinutes:  prefs.longDur.Text,
	}
}

func (prefs *Window) handleSave() {
	applied, err := Apply(prefs.target, prefs.input())
	if err != nil {
		prefs.logger.Warn("settings rejected", "error", err)
		dialog.ShowError(err, prefs.window)
		return
	}

	if prefs.onSaved != nil {
		prefs.onSaved(applied)
	}
	prefs.notice = dialog.NewInformation("Settings", "Settings saved.", prefs.window)
	prefs.notice.SetOnClosed(prefs.window.Hide)
	prefs.notice.Show()
}
