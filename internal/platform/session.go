package platform

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// ErrSessionUnsupported indicates session lock notifications are not available.
var ErrSessionUnsupported = errors.New("session lock monitoring unsupported")

// SessionObserver receives session lock transitions.
type SessionObserver interface {
	OnLock()
	OnUnlock()
}

// SessionMonitor watches the user session and reports lock transitions
// until ctx is cancelled.
type SessionMonitor interface {
	Run(ctx context.Context, observer SessionObserver) error
}

// NewSessionMonitor returns the monitor for the current platform.
func NewSessionMonitor(logger *slog.Logger) SessionMonitor {
	return newSessionMonitor(logger.With("component", "session"))
}

// lockTracker forwards only real transitions to the observer.
type lockTracker struct {
	mu       sync.Mutex
	observer SessionObserver
	known    bool
	locked   bool
}

func newLockTracker(observer SessionObserver) *lockTracker {
	return &lockTracker{observer: observer}
}

func (tracker *lockTracker) set(locked bool) {
	tracker.mu.Lock()
	if tracker.known && tracker.locked == locked {
		tracker.mu.Unlock()
		return
	}
	first := !tracker.known
	tracker.known = true
	tracker.locked = locked
	tracker.mu.Unlock()

	// The session starts unlocked from the observer's point of view.
	if first && !locked {
		return
	}
	if locked {
		tracker.observer.OnLock()
	} else {
		tracker.observer.OnUnlock()
	}
}
