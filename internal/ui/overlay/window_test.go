package overlay

import (
	"testing"
	"time"

	"eyeguard/internal/core/model"

	"fyne.io/fyne/v2/test"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		value time.Duration
		want  string
	}{
		{value: -time.Second, want: "00:00"},
		{value: 8 * time.Second, want: "00:08"},
		{value: 5 * time.Minute, want: "05:00"},
		{value: 61*time.Second + 400*time.Millisecond, want: "01:01"},
	}
	for _, tc := range tests {
		if got := formatDuration(tc.value); got != tc.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tc.value, got, tc.want)
		}
	}
}

func TestBreakText(t *testing.T) {
	if breakTitle(model.BreakLong) == breakTitle(model.BreakShort) {
		t.Fatal("expected distinct titles for short and long breaks")
	}
	if breakInstructions(model.BreakShort) == "" || breakInstructions(model.BreakLong) == "" {
		t.Fatal("expected instructions for every break kind")
	}
}

func TestShowAndSkip(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	overlay := New(app, Config{Opacity: 200, Fullscreen: false})
	overlay.showUnsafe(model.BreakLong, 5*time.Minute)
	if overlay.heading.Text != "Long break!" {
		t.Fatalf("unexpected heading %q", overlay.heading.Text)
	}
	if overlay.countdown.Text != "Remaining: 05:00" {
		t.Fatalf("unexpected countdown %q", overlay.countdown.Text)
	}

	skipped := 0
	overlay.onSkip = func() { skipped++ }
	test.Tap(overlay.skip)
	if skipped != 1 {
		t.Fatalf("expected skip callback, got %d", skipped)
	}

	overlay.onSkip = nil
	test.Tap(overlay.skip)
	overlay.hideUnsafe()
}
