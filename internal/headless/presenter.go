// Package headless presents breaks without a GUI by writing them to the log.
package headless

import (
	"context"
	"log/slog"
	"time"

	"eyeguard/internal/core/model"
)

// Presenter logs each break and waits for its duration.
type Presenter struct {
	logger *slog.Logger
}

// NewPresenter creates a log-only break presenter.
func NewPresenter(logger *slog.Logger) *Presenter {
	return &Presenter{logger: logger.With("component", "presenter")}
}

// Present blocks until duration elapses or ctx is cancelled.
func (presenter *Presenter) Present(ctx context.Context, kind model.BreakKind, duration time.Duration) {
	presenter.logger.Info("time for a break", "kind", kind, "duration", duration, "hint", hint(kind))

	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		presenter.logger.Info("break interrupted", "kind", kind)
	case <-timer.C:
		presenter.logger.Info("break over", "kind", kind)
	}
}

func hint(kind model.BreakKind) string {
	if kind == model.BreakLong {
		return "look into the distance, roll your eyes, close them for 5 seconds"
	}
	return "blink 10 times and relax your face"
}
