package scheduler

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"eyeguard/internal/core/model"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

var epoch = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (clock *fakeClock) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.now
}

func (clock *fakeClock) Set(offset time.Duration) time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.now = epoch.Add(offset)
	return clock.now
}

type recordingPresenter struct {
	mu    sync.Mutex
	calls []model.BreakKind
	flags *Flags
	seen  []bool
}

func (presenter *recordingPresenter) Present(_ context.Context, kind model.BreakKind, _ time.Duration) {
	presenter.mu.Lock()
	defer presenter.mu.Unlock()
	presenter.calls = append(presenter.calls, kind)
	if presenter.flags != nil {
		presenter.seen = append(presenter.seen, presenter.flags.BreakActive())
	}
}

func (presenter *recordingPresenter) Calls() []model.BreakKind {
	presenter.mu.Lock()
	defer presenter.mu.Unlock()
	return append([]model.BreakKind(nil), presenter.calls...)
}

func testConfig() model.ScheduleConfig {
	return model.ScheduleConfig{
		ShortInterval: 600 * time.Second,
		LongInterval:  3000 * time.Second,
		ShortDuration: 8 * time.Second,
		LongDuration:  5 * time.Minute,
		MinBreakGap:   60 * time.Second,
	}
}

func newTestScheduler(t *testing.T) (*Scheduler, *fakeClock, *recordingPresenter) {
	t.Helper()
	clock := &fakeClock{now: epoch}
	flags := &Flags{}
	presenter := &recordingPresenter{flags: flags}
	scheduler := New(testConfig(), flags, presenter, Options{Clock: clock, Logger: discardLogger})
	return scheduler, clock, presenter
}

func TestPollFiresShortBreakAtInterval(t *testing.T) {
	scheduler, clock, presenter := newTestScheduler(t)
	ctx := context.Background()

	for _, offset := range []time.Duration{time.Second, 300 * time.Second, 599 * time.Second} {
		if kind := scheduler.Poll(ctx, clock.Set(offset)); kind != model.BreakNone {
			t.Fatalf("poll at %v fired %q", offset, kind)
		}
	}

	now := clock.Set(600 * time.Second)
	if kind := scheduler.Poll(ctx, now); kind != model.BreakShort {
		t.Fatalf("expected short break at 600s, got %q", kind)
	}
	if calls := presenter.Calls(); len(calls) != 1 || calls[0] != model.BreakShort {
		t.Fatalf("expected one short presentation, got %v", calls)
	}

	lastShort, lastLong := scheduler.LastBreaks()
	if !lastShort.Equal(now) {
		t.Fatalf("expected lastShort=%v, got %v", now, lastShort)
	}
	if !lastLong.Equal(epoch) {
		t.Fatalf("expected lastLong unchanged, got %v", lastLong)
	}
}

func TestPollPrefersLongBreak(t *testing.T) {
	scheduler, clock, presenter := newTestScheduler(t)
	ctx := context.Background()

	// Both intervals are due; the long break must win.
	now := clock.Set(3000 * time.Second)
	if kind := scheduler.Poll(ctx, now); kind != model.BreakLong {
		t.Fatalf("expected long break, got %q", kind)
	}
	if calls := presenter.Calls(); len(calls) != 1 || calls[0] != model.BreakLong {
		t.Fatalf("expected exactly one long presentation, got %v", calls)
	}

	lastShort, lastLong := scheduler.LastBreaks()
	if !lastLong.Equal(now) {
		t.Fatalf("expected lastLong=%v, got %v", now, lastLong)
	}
	if !lastShort.Equal(epoch) {
		t.Fatalf("expected lastShort unchanged, got %v", lastShort)
	}
}

func TestPollRespectsMinBreakGap(t *testing.T) {
	scheduler, clock, presenter := newTestScheduler(t)
	ctx := context.Background()

	if kind := scheduler.Poll(ctx, clock.Set(2990*time.Second)); kind != model.BreakShort {
		t.Fatalf("expected short break, got %q", kind)
	}

	// Long interval is due but the last short break was less than a minute ago.
	for _, offset := range []time.Duration{3000 * time.Second, 3049 * time.Second} {
		if kind := scheduler.Poll(ctx, clock.Set(offset)); kind != model.BreakNone {
			t.Fatalf("poll at %v fired %q inside the break gap", offset, kind)
		}
	}
	if kind := scheduler.Poll(ctx, clock.Set(3050*time.Second)); kind != model.BreakLong {
		t.Fatalf("expected long break after the gap, got %q", kind)
	}

	if len(presenter.Calls()) != 2 {
		t.Fatalf("expected two presentations, got %v", presenter.Calls())
	}
}

func TestPollSkipsWhileHeld(t *testing.T) {
	tests := []struct {
		name  string
		setup func(flags *Flags)
	}{
		{name: "paused", setup: func(flags *Flags) { flags.SetPaused(true) }},
		{name: "locked", setup: func(flags *Flags) { flags.SetSessionLocked(true) }},
		{name: "break active", setup: func(flags *Flags) { flags.breakActive.Store(true) }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			scheduler, clock, presenter := newTestScheduler(t)
			tc.setup(scheduler.Flags())
			if kind := scheduler.Poll(context.Background(), clock.Set(time.Hour)); kind != model.BreakNone {
				t.Fatalf("expected no break, got %q", kind)
			}
			if calls := presenter.Calls(); len(calls) != 0 {
				t.Fatalf("expected no presentations, got %v", calls)
			}
		})
	}
}

func TestLockedTimeIsExcluded(t *testing.T) {
	scheduler, clock, presenter := newTestScheduler(t)
	ctx := context.Background()

	scheduler.Poll(ctx, clock.Set(500*time.Second))

	scheduler.OnLock()
	scheduler.Poll(ctx, clock.Set(501*time.Second))
	scheduler.Poll(ctx, clock.Set(2000*time.Second))
	scheduler.OnUnlock()

	if kind := scheduler.Poll(ctx, clock.Set(2000*time.Second)); kind != model.BreakNone {
		t.Fatalf("expected no break right after unlock, got %q", kind)
	}
	lastShort, lastLong := scheduler.LastBreaks()
	shift := 1499 * time.Second
	if !lastShort.Equal(epoch.Add(shift)) || !lastLong.Equal(epoch.Add(shift)) {
		t.Fatalf("expected both stamps shifted by %v, got short=%v long=%v", shift, lastShort.Sub(epoch), lastLong.Sub(epoch))
	}

	// 501s of active time counted before the lock; the break is due 99s after unlock.
	if kind := scheduler.Poll(ctx, clock.Set(2098*time.Second)); kind != model.BreakNone {
		t.Fatalf("expected no break at 2098s, got %q", kind)
	}
	if kind := scheduler.Poll(ctx, clock.Set(2099*time.Second)); kind != model.BreakShort {
		t.Fatalf("expected short break at 2099s, got %q", kind)
	}
	if len(presenter.Calls()) != 1 {
		t.Fatalf("expected one presentation, got %v", presenter.Calls())
	}
}

func TestPausedTimeIsExcluded(t *testing.T) {
	scheduler, clock, _ := newTestScheduler(t)
	ctx := context.Background()

	scheduler.Pause()
	scheduler.Poll(ctx, clock.Set(100*time.Second))
	scheduler.Poll(ctx, clock.Set(900*time.Second))
	scheduler.Resume()

	if kind := scheduler.Poll(ctx, clock.Set(900*time.Second)); kind != model.BreakNone {
		t.Fatalf("expected no break after resume, got %q", kind)
	}
	next, remaining := scheduler.NextBreak(clock.Now())
	if next != model.BreakShort || remaining != 500*time.Second {
		t.Fatalf("expected short break in 500s, got %q in %v", next, remaining)
	}
}

func TestUpdateConfigAppliesOnNextPoll(t *testing.T) {
	scheduler, clock, _ := newTestScheduler(t)
	ctx := context.Background()

	if kind := scheduler.Poll(ctx, clock.Set(200*time.Second)); kind != model.BreakNone {
		t.Fatalf("expected no break, got %q", kind)
	}

	config := testConfig()
	config.ShortInterval = 3 * time.Minute
	scheduler.UpdateConfig(config)

	if kind := scheduler.Poll(ctx, clock.Set(201*time.Second)); kind != model.BreakShort {
		t.Fatalf("expected short break with the new interval, got %q", kind)
	}
}

func TestBreakActiveDuringPresentation(t *testing.T) {
	scheduler, clock, presenter := newTestScheduler(t)

	scheduler.Poll(context.Background(), clock.Set(600*time.Second))
	if len(presenter.seen) != 1 || !presenter.seen[0] {
		t.Fatalf("expected breakActive during presentation, got %v", presenter.seen)
	}
	if scheduler.Flags().BreakActive() {
		t.Fatal("expected breakActive cleared after presentation")
	}
}

func TestTriggerBreakRejectsOverlap(t *testing.T) {
	clock := &fakeClock{now: epoch}
	flags := &Flags{}
	release := make(chan struct{})
	entered := make(chan struct{})
	presenter := PresenterFunc(func(ctx context.Context, kind model.BreakKind, duration time.Duration) {
		close(entered)
		<-release
	})
	scheduler := New(testConfig(), flags, presenter, Options{Clock: clock, Logger: discardLogger})

	done := make(chan bool)
	go func() {
		done <- scheduler.TriggerBreak(context.Background(), model.BreakLong)
	}()
	<-entered

	if scheduler.TriggerBreak(context.Background(), model.BreakShort) {
		t.Fatal("expected second break to be rejected while one is active")
	}
	if kind := scheduler.Poll(context.Background(), clock.Set(time.Hour)); kind != model.BreakNone {
		t.Fatalf("expected poll to skip during an active break, got %q", kind)
	}

	clock.Set(10 * time.Second)
	close(release)
	if !<-done {
		t.Fatal("expected first break to be presented")
	}
	_, lastLong := scheduler.LastBreaks()
	if !lastLong.Equal(epoch.Add(10 * time.Second)) {
		t.Fatalf("expected lastLong at completion time, got %v", lastLong.Sub(epoch))
	}
}

func TestTriggerBreakRejectsUnknownKind(t *testing.T) {
	scheduler, _, presenter := newTestScheduler(t)
	if scheduler.TriggerBreak(context.Background(), model.BreakNone) {
		t.Fatal("expected BreakNone to be rejected")
	}
	if len(presenter.Calls()) != 0 {
		t.Fatalf("expected no presentations, got %v", presenter.Calls())
	}
}

func TestNextBreak(t *testing.T) {
	scheduler, clock, _ := newTestScheduler(t)

	next, remaining := scheduler.NextBreak(clock.Set(100 * time.Second))
	if next != model.BreakShort || remaining != 500*time.Second {
		t.Fatalf("expected short in 500s, got %q in %v", next, remaining)
	}

	config := testConfig()
	config.LongInterval = 400 * time.Second
	scheduler.UpdateConfig(config)
	next, remaining = scheduler.NextBreak(clock.Now())
	if next != model.BreakLong || remaining != 300*time.Second {
		t.Fatalf("expected long in 300s, got %q in %v", next, remaining)
	}
}

func TestSubscribeReceivesEvents(t *testing.T) {
	scheduler, clock, _ := newTestScheduler(t)
	events := scheduler.Subscribe(8)

	scheduler.Poll(context.Background(), clock.Set(600*time.Second))

	var types []EventType
	for len(events) > 0 {
		types = append(types, (<-events).Type)
	}
	if len(types) != 2 || types[0] != EventBreakStarted || types[1] != EventBreakFinished {
		t.Fatalf("expected started/finished events, got %v", types)
	}
}

func TestRunStopsCooperatively(t *testing.T) {
	flags := &Flags{}
	scheduler := New(testConfig(), flags, nil, Options{
		PollInterval: 5 * time.Millisecond,
		HeldInterval: 5 * time.Millisecond,
		Logger:       discardLogger,
	})
	events := scheduler.Subscribe(64)

	if !scheduler.Start(context.Background()) {
		t.Fatal("expected scheduler to start")
	}
	if scheduler.Start(context.Background()) {
		t.Fatal("expected second start to be ignored")
	}

	deadline := time.After(time.Second)
	select {
	case event := <-events:
		if event.Type != EventProgress {
			t.Fatalf("expected progress event, got %v", event.Type)
		}
	case <-deadline:
		t.Fatal("timeout waiting for first poll")
	}

	scheduler.Stop()
	for {
		select {
		case _, ok := <-events:
			if !ok {
				if flags.Running() {
					t.Fatal("expected running flag cleared")
				}
				return
			}
		case <-deadline:
			t.Fatal("timeout waiting for the loop to exit")
		}
	}
}

func TestRunExitsOnContextCancel(t *testing.T) {
	scheduler := New(testConfig(), nil, nil, Options{PollInterval: 5 * time.Millisecond, Logger: discardLogger})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		scheduler.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
