package scheduler

import (
	"time"

	"eyeguard/internal/core/model"
)

// EventType defines the type of scheduler event.
type EventType string

const (
	EventBreakStarted  EventType = "break_started"
	EventBreakFinished EventType = "break_finished"
	EventPaused        EventType = "paused"
	EventResumed       EventType = "resumed"
	EventLocked        EventType = "locked"
	EventUnlocked      EventType = "unlocked"
	EventProgress      EventType = "progress"
	EventConfigUpdated EventType = "config_updated"
)

// Event represents a scheduler update for observers.
type Event struct {
	Type      EventType
	Kind      model.BreakKind
	Remaining time.Duration
	At        time.Time
}
