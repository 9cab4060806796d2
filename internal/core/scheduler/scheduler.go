package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"eyeguard/internal/core/model"
)

// Presenter shows a break to the user and blocks until it is dismissed,
// the duration elapses, or ctx is cancelled.
type Presenter interface {
	Present(ctx context.Context, kind model.BreakKind, duration time.Duration)
}

// PresenterFunc adapts a function to Presenter.
type PresenterFunc func(ctx context.Context, kind model.BreakKind, duration time.Duration)

func (fn PresenterFunc) Present(ctx context.Context, kind model.BreakKind, duration time.Duration) {
	fn(ctx, kind, duration)
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Options contains runtime options for Scheduler.
type Options struct {
	// PollInterval is the wait after a poll that compared timestamps.
	PollInterval time.Duration
	// HeldInterval is the wait after a poll skipped because of pause, lock or an active break.
	HeldInterval time.Duration
	Clock        Clock
	Logger       *slog.Logger
}

// Scheduler decides when to fire short and long breaks.
type Scheduler struct {
	mu        sync.Mutex
	config    atomic.Pointer[model.ScheduleConfig]
	options   Options
	flags     *Flags
	presenter Presenter
	logger    *slog.Logger

	lastShort time.Time
	lastLong  time.Time
	heldSince time.Time
	cancel    context.CancelFunc

	eventsMu sync.Mutex
	events   []chan Event
}

// New creates a Scheduler. Both break timestamps start at the current clock time.
func New(config model.ScheduleConfig, flags *Flags, presenter Presenter, options Options) *Scheduler {
	if options.PollInterval <= 0 {
		options.PollInterval = time.Second
	}
	if options.HeldInterval <= 0 {
		options.HeldInterval = 500 * time.Millisecond
	}
	if options.Clock == nil {
		options.Clock = systemClock{}
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	if flags == nil {
		flags = &Flags{}
	}

	scheduler := &Scheduler{
		options:   options,
		flags:     flags,
		presenter: presenter,
		logger:    options.Logger.With("component", "scheduler"),
	}
	normalized := config.Normalized()
	scheduler.config.Store(&normalized)

	now := options.Clock.Now()
	scheduler.lastShort = now
	scheduler.lastLong = now
	return scheduler
}

// Flags returns the shared runtime flags.
func (scheduler *Scheduler) Flags() *Flags {
	return scheduler.flags
}

// Config returns the active schedule.
func (scheduler *Scheduler) Config() model.ScheduleConfig {
	return *scheduler.config.Load()
}

// UpdateConfig replaces the schedule. It takes effect on the next poll.
func (scheduler *Scheduler) UpdateConfig(config model.ScheduleConfig) {
	normalized := config.Normalized()
	scheduler.config.Store(&normalized)
	scheduler.logger.Info("schedule updated",
		"short_interval", normalized.ShortInterval,
		"long_interval", normalized.LongInterval,
		"short_duration", normalized.ShortDuration,
		"long_duration", normalized.LongDuration,
	)
	scheduler.emit(Event{Type: EventConfigUpdated, At: scheduler.now()})
}

// LastBreaks returns the completion times of the last short and long breaks.
func (scheduler *Scheduler) LastBreaks() (short, long time.Time) {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	return scheduler.lastShort, scheduler.lastLong
}

// Subscribe registers a new observer channel. Events are dropped for
// observers whose buffer is full.
func (scheduler *Scheduler) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	scheduler.eventsMu.Lock()
	scheduler.events = append(scheduler.events, ch)
	scheduler.eventsMu.Unlock()
	return ch
}

// Start launches the poll loop in a new goroutine. It returns false if the
// loop is already running.
func (scheduler *Scheduler) Start(ctx context.Context) bool {
	runCtx, ok := scheduler.begin(ctx)
	if !ok {
		return false
	}
	go scheduler.loop(runCtx)
	return true
}

// Run executes the poll loop until Stop is called or ctx is cancelled.
func (scheduler *Scheduler) Run(ctx context.Context) {
	runCtx, ok := scheduler.begin(ctx)
	if !ok {
		return
	}
	scheduler.loop(runCtx)
}

// Stop asks the poll loop to exit and cancels a break in progress.
func (scheduler *Scheduler) Stop() {
	scheduler.flags.running.Store(false)
	scheduler.mu.Lock()
	cancel := scheduler.cancel
	scheduler.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Pause stops break intervals from advancing.
func (scheduler *Scheduler) Pause() {
	if !scheduler.flags.SetPaused(true) {
		return
	}
	scheduler.logger.Info("paused")
	scheduler.emit(Event{Type: EventPaused, At: scheduler.now()})
}

// Resume lets break intervals advance again.
func (scheduler *Scheduler) Resume() {
	if !scheduler.flags.SetPaused(false) {
		return
	}
	scheduler.logger.Info("resumed")
	scheduler.emit(Event{Type: EventResumed, At: scheduler.now()})
}

// TogglePause flips the paused flag and returns the new value.
func (scheduler *Scheduler) TogglePause() bool {
	if scheduler.flags.Paused() {
		scheduler.Resume()
		return false
	}
	scheduler.Pause()
	return true
}

// OnLock records that the user session was locked.
func (scheduler *Scheduler) OnLock() {
	if !scheduler.flags.SetSessionLocked(true) {
		return
	}
	scheduler.logger.Info("session locked")
	scheduler.emit(Event{Type: EventLocked, At: scheduler.now()})
}

// OnUnlock records that the user session was unlocked.
func (scheduler *Scheduler) OnUnlock() {
	if !scheduler.flags.SetSessionLocked(false) {
		return
	}
	scheduler.logger.Info("session unlocked")
	scheduler.emit(Event{Type: EventUnlocked, At: scheduler.now()})
}

// TriggerBreak presents a break right away unless another break is active.
func (scheduler *Scheduler) TriggerBreak(ctx context.Context, kind model.BreakKind) bool {
	if kind != model.BreakShort && kind != model.BreakLong {
		return false
	}
	return scheduler.present(ctx, kind)
}

// Poll runs one scheduling step at now and returns the kind of break that
// fired, if any. It blocks while the break is presented.
func (scheduler *Scheduler) Poll(ctx context.Context, now time.Time) model.BreakKind {
	if scheduler.flags.held() {
		scheduler.mu.Lock()
		if scheduler.heldSince.IsZero() {
			scheduler.heldSince = now
		}
		scheduler.mu.Unlock()
		return model.BreakNone
	}

	scheduler.mu.Lock()
	scheduler.releaseHoldLocked(now)
	scheduler.mu.Unlock()

	if scheduler.flags.BreakActive() {
		return model.BreakNone
	}

	config := scheduler.Config()

	scheduler.mu.Lock()
	sinceShort := now.Sub(scheduler.lastShort)
	sinceLong := now.Sub(scheduler.lastLong)
	scheduler.mu.Unlock()

	kind := model.BreakNone
	switch {
	case sinceLong >= config.LongInterval && sinceShort >= config.MinBreakGap:
		kind = model.BreakLong
	case sinceShort >= config.ShortInterval && sinceLong >= config.MinBreakGap:
		kind = model.BreakShort
	}

	if kind == model.BreakNone {
		next, remaining := scheduler.NextBreak(now)
		scheduler.emit(Event{Type: EventProgress, Kind: next, Remaining: remaining, At: now})
		return model.BreakNone
	}
	if !scheduler.present(ctx, kind) {
		return model.BreakNone
	}
	return kind
}

// NextBreak reports which break comes next and how long until it is due.
// While paused or locked the countdown is frozen at the moment the hold began.
func (scheduler *Scheduler) NextBreak(now time.Time) (model.BreakKind, time.Duration) {
	config := scheduler.Config()

	scheduler.mu.Lock()
	reference := now
	if !scheduler.heldSince.IsZero() {
		reference = scheduler.heldSince
	}
	shortRemaining := config.ShortInterval - reference.Sub(scheduler.lastShort)
	longRemaining := config.LongInterval - reference.Sub(scheduler.lastLong)
	scheduler.mu.Unlock()

	if shortRemaining < 0 {
		shortRemaining = 0
	}
	if longRemaining < 0 {
		longRemaining = 0
	}
	if longRemaining <= shortRemaining {
		return model.BreakLong, longRemaining
	}
	return model.BreakShort, shortRemaining
}

func (scheduler *Scheduler) begin(ctx context.Context) (context.Context, bool) {
	if !scheduler.flags.running.CompareAndSwap(false, true) {
		return nil, false
	}
	runCtx, cancel := context.WithCancel(ctx)

	scheduler.mu.Lock()
	now := scheduler.options.Clock.Now()
	scheduler.lastShort = now
	scheduler.lastLong = now
	scheduler.heldSince = time.Time{}
	scheduler.cancel = cancel
	scheduler.mu.Unlock()

	scheduler.logger.Info("scheduler started")
	return runCtx, true
}

func (scheduler *Scheduler) loop(ctx context.Context) {
	defer func() {
		scheduler.flags.running.Store(false)
		scheduler.mu.Lock()
		if scheduler.cancel != nil {
			scheduler.cancel()
			scheduler.cancel = nil
		}
		scheduler.mu.Unlock()
		scheduler.closeSubscribers()
		scheduler.logger.Info("scheduler stopped")
	}()

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		if !scheduler.flags.Running() {
			return
		}

		interval := scheduler.options.PollInterval
		if scheduler.flags.held() || scheduler.flags.BreakActive() {
			interval = scheduler.options.HeldInterval
		}
		scheduler.Poll(ctx, scheduler.now())
		timer.Reset(interval)
	}
}

// releaseHoldLocked shifts both timestamps forward by the time spent paused or
// locked. A timestamp set during the hold only moves by the part after it.
func (scheduler *Scheduler) releaseHoldLocked(now time.Time) {
	if scheduler.heldSince.IsZero() {
		return
	}
	heldSince := scheduler.heldSince
	scheduler.heldSince = time.Time{}

	scheduler.lastShort = shiftPast(scheduler.lastShort, heldSince, now)
	scheduler.lastLong = shiftPast(scheduler.lastLong, heldSince, now)
	scheduler.logger.Debug("excluded held time", "held", now.Sub(heldSince))
}

func shiftPast(stamp, heldSince, now time.Time) time.Time {
	from := heldSince
	if stamp.After(from) {
		from = stamp
	}
	if !now.After(from) {
		return stamp
	}
	return stamp.Add(now.Sub(from))
}

func (scheduler *Scheduler) present(ctx context.Context, kind model.BreakKind) bool {
	if !scheduler.flags.beginBreak() {
		return false
	}
	defer scheduler.flags.endBreak()

	duration := scheduler.Config().Duration(kind)
	scheduler.logger.Info("break started", "kind", kind, "duration", duration)
	scheduler.emit(Event{Type: EventBreakStarted, Kind: kind, Remaining: duration, At: scheduler.now()})

	if scheduler.presenter != nil {
		scheduler.presenter.Present(ctx, kind, duration)
	}

	finished := scheduler.now()
	scheduler.mu.Lock()
	if kind == model.BreakLong {
		scheduler.lastLong = later(scheduler.lastLong, finished)
	} else {
		scheduler.lastShort = later(scheduler.lastShort, finished)
	}
	scheduler.mu.Unlock()

	scheduler.logger.Info("break finished", "kind", kind)
	scheduler.emit(Event{Type: EventBreakFinished, Kind: kind, At: finished})
	return true
}

func later(current, candidate time.Time) time.Time {
	if candidate.After(current) {
		return candidate
	}
	return current
}

func (scheduler *Scheduler) now() time.Time {
	return scheduler.options.Clock.Now()
}

func (scheduler *Scheduler) emit(event Event) {
	scheduler.eventsMu.Lock()
	defer scheduler.eventsMu.Unlock()
	for _, ch := range scheduler.events {
		select {
		case ch <- event:
		default:
		}
	}
}

func (scheduler *Scheduler) closeSubscribers() {
	scheduler.eventsMu.Lock()
	events := scheduler.events
	scheduler.events = nil
	scheduler.eventsMu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}
