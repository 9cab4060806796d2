package scheduler

import "sync/atomic"

// Flags is the process-wide runtime state shared between the poll loop,
// the UI and the session monitor.
type Flags struct {
	running       atomic.Bool
	paused        atomic.Bool
	breakActive   atomic.Bool
	sessionLocked atomic.Bool
}

func (flags *Flags) Running() bool       { return flags.running.Load() }
func (flags *Flags) Paused() bool        { return flags.paused.Load() }
func (flags *Flags) BreakActive() bool   { return flags.breakActive.Load() }
func (flags *Flags) SessionLocked() bool { return flags.sessionLocked.Load() }

// SetPaused stores the paused flag and reports whether it changed.
func (flags *Flags) SetPaused(paused bool) bool {
	return flags.paused.Swap(paused) != paused
}

// SetSessionLocked stores the lock flag and reports whether it changed.
func (flags *Flags) SetSessionLocked(locked bool) bool {
	return flags.sessionLocked.Swap(locked) != locked
}

// held reports whether time should stop counting toward break intervals.
func (flags *Flags) held() bool {
	return flags.paused.Load() || flags.sessionLocked.Load()
}

func (flags *Flags) beginBreak() bool {
	return flags.breakActive.CompareAndSwap(false, true)
}

func (flags *Flags) endBreak() {
	flags.breakActive.Store(false)
}
