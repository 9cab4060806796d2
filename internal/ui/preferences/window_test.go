package preferences

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"eyeguard/internal/core/model"

	"fyne.io/fyne/v2/test"
)

func TestWindowSaveAppliesSchedule(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	target := &fakeTarget{config: model.DefaultScheduleConfig()}
	prefs := New(app, target, slog.New(slog.NewTextHandler(io.Discard, nil)))

	var saved model.ScheduleConfig
	prefs.SetOnSaved(func(config model.ScheduleConfig) {
		saved = config
	})

	prefs.shortInt.SetText("12")
	test.Tap(prefs.save)

	if target.updates != 1 {
		t.Fatalf("expected one update, got %d", target.updates)
	}
	if target.config.ShortInterval != 12*time.Minute || saved != target.config {
		t.Fatalf("expected 12m short interval, got %+v", target.config)
	}
}

func TestWindowSaveShowsNoticeUntilDismissed(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	target := &fakeTarget{config: model.DefaultScheduleConfig()}
	prefs := New(app, target, slog.New(slog.NewTextHandler(io.Discard, nil)))
	prefs.Show()

	test.Tap(prefs.save)
	if prefs.notice == nil {
		t.Fatal("expected a saved notice")
	}
	overlays := prefs.window.Canvas().Overlays()
	if overlays.Top() == nil {
		t.Fatal("expected the notice on screen after saving")
	}

	prefs.notice.Hide()
	if overlays.Top() != nil {
		t.Fatal("expected the notice gone after dismissal")
	}
}

func TestWindowSaveRejectsInvalidInput(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	target := &fakeTarget{config: model.DefaultScheduleConfig()}
	prefs := New(app, target, slog.New(slog.NewTextHandler(io.Discard, nil)))

	prefs.longDur.SetText("five")
	test.Tap(prefs.save)

	if target.updates != 0 {
		t.Fatalf("expected no update, got %d", target.updates)
	}
	if target.config != model.DefaultScheduleConfig() {
		t.Fatalf("expected config unchanged, got %+v", target.config)
	}
}
