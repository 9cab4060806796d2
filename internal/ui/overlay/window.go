package overlay

import (
	"context"
	"fmt"
	"image/color"
	"sync"
	"time"

	"eyeguard/internal/core/model"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Config defines overlay visuals.
type Config struct {
	Opacity    uint8
	Fullscreen bool
	Image      fyne.Resource
}

// Window presents breaks in a topmost dimmed window.
type Window struct {
	window    fyne.Window
	config    Config
	backdrop  *canvas.Rectangle
	icon      *canvas.Image
	heading   *canvas.Text
	hint      *widget.Label
	countdown *canvas.Text
	skip      *widget.Button

	// onSkip is only touched on the fyne goroutine.
	onSkip func()
}

var (
	backdropColor  = color.NRGBA{R: 45, G: 52, B: 54}
	countdownColor = color.NRGBA{R: 116, G: 185, B: 255, A: 255}
	iconSize       = fyne.NewSize(160, 160)
	windowedMargin = fyne.NewSize(96, 64)
)

type undecoratedDriver interface {
	CreateSplashWindow() fyne.Window
}

// New creates the overlay window. It stays hidden until Present is called.
func New(app fyne.App, config Config) *Window {
	var window fyne.Window
	if drv, ok := app.Driver().(undecoratedDriver); ok {
		window = drv.CreateSplashWindow()
		window.SetTitle("Take a break")
	} else {
		window = app.NewWindow("Take a break")
	}
	if icon := app.Icon(); icon != nil {
		window.SetIcon(icon)
	}
	window.SetPadded(false)

	overlay := &Window{
		window:    window,
		config:    config,
		backdrop:  canvas.NewRectangle(withAlpha(backdropColor, config.Opacity)),
		icon:      canvas.NewImageFromResource(config.Image),
		heading:   canvas.NewText("", color.White),
		hint:      widget.NewLabel(""),
		countdown: canvas.NewText("--:--", countdownColor),
	}
	overlay.icon.FillMode = canvas.ImageFillContain
	overlay.icon.SetMinSize(iconSize)
	overlay.heading.TextStyle.Bold = true
	overlay.heading.TextSize = 24
	overlay.countdown.TextStyle.Bold = true
	overlay.countdown.TextSize = 18

	overlay.skip = widget.NewButton("Skip", overlay.requestSkip)
	window.SetCloseIntercept(overlay.requestSkip)

	text := container.NewVBox(overlay.heading, overlay.hint, layout.NewSpacer(), overlay.countdown)
	side := container.NewVBox(overlay.icon, overlay.skip)
	card := container.NewPadded(container.NewHBox(text, layout.NewSpacer(), side))
	window.SetContent(container.NewStack(overlay.backdrop, container.NewCenter(card)))

	return overlay
}

// Present shows a break and blocks until it is skipped, its duration
// elapses, or ctx is cancelled. It must not be called on the fyne goroutine.
func (overlay *Window) Present(ctx context.Context, kind model.BreakKind, duration time.Duration) {
	dismissed := make(chan struct{})
	var once sync.Once
	dismiss := func() {
		once.Do(func() { close(dismissed) })
	}

	fyne.DoAndWait(func() {
		overlay.onSkip = dismiss
		overlay.showUnsafe(kind, duration)
	})
	defer fyne.Do(func() {
		overlay.onSkip = nil
		overlay.hideUnsafe()
	})

	deadline := time.NewTimer(duration)
	defer deadline.Stop()
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	endsAt := time.Now().Add(duration)

	for {
		select {
		case <-ctx.Done():
			return
		case <-dismissed:
			return
		case <-deadline.C:
			return
		case now := <-ticker.C:
			remaining := endsAt.Sub(now)
			fyne.Do(func() {
				overlay.setRemainingUnsafe(remaining)
			})
		}
	}
}

func (overlay *Window) requestSkip() {
	if overlay.onSkip != nil {
		overlay.onSkip()
	}
}

func (overlay *Window) showUnsafe(kind model.BreakKind, duration time.Duration) {
	overlay.heading.Text = breakTitle(kind)
	overlay.heading.Refresh()
	overlay.hint.SetText(breakInstructions(kind))
	overlay.setRemainingUnsafe(duration)

	overlay.window.SetFullScreen(overlay.config.Fullscreen)
	if !overlay.config.Fullscreen {
		overlay.window.Resize(overlay.window.Content().MinSize().Add(windowedMargin))
		overlay.window.CenterOnScreen()
	}
	overlay.window.Show()
	overlay.applyNativeOpacity(overlay.config.Opacity)
	overlay.window.RequestFocus()
}

func (overlay *Window) hideUnsafe() {
	overlay.window.SetFullScreen(false)
	overlay.window.Hide()
}

func (overlay *Window) setRemainingUnsafe(remaining time.Duration) {
	overlay.countdown.Text = "Remaining: " + formatDuration(remaining)
	overlay.countdown.Refresh()
}

func withAlpha(base color.NRGBA, alpha uint8) color.NRGBA {
	base.A = alpha
	return base
}

func formatDuration(value time.Duration) string {
	total := int(max(value, 0).Round(time.Second) / time.Second)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

func breakTitle(kind model.BreakKind) string {
	if kind == model.BreakLong {
		return "Long break!"
	}
	return "Short break!"
}

func breakInstructions(kind model.BreakKind) string {
	if kind == model.BreakLong {
		return "1. Look into the distance\n2. Roll your eyes slowly\n3. Close your eyes for 5 seconds"
	}
	return "Blink 10 times!\nRelax your face muscles."
}
