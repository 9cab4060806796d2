package model

import "time"

// BreakKind identifies which break prompt is shown.
type BreakKind string

const (
	BreakNone  BreakKind = ""
	BreakShort BreakKind = "short"
	BreakLong  BreakKind = "long"
)

// DefaultMinBreakGap is the minimum spacing between any two break prompts.
const DefaultMinBreakGap = time.Minute

// MaxScheduleValue caps every interval and duration a user can configure.
const MaxScheduleValue = 24 * time.Hour

// ScaleSetting converts a user supplied count of unit into a duration. It
// reports false unless the result lies in (0, MaxScheduleValue].
func ScaleSetting(amount int, unit time.Duration) (time.Duration, bool) {
	if amount <= 0 || unit <= 0 || int64(amount) > int64(MaxScheduleValue/unit) {
		return 0, false
	}
	return time.Duration(amount) * unit, true
}

// ScheduleConfig defines break intervals and durations.
type ScheduleConfig struct {
	ShortInterval time.Duration
	LongInterval  time.Duration
	ShortDuration time.Duration
	LongDuration  time.Duration
	MinBreakGap   time.Duration
}

// DefaultScheduleConfig returns the stock schedule: a short break every 10 minutes
// and a long one every 50.
func DefaultScheduleConfig() ScheduleConfig {
	return ScheduleConfig{
		ShortInterval: 10 * time.Minute,
		LongInterval:  50 * time.Minute,
		ShortDuration: 8 * time.Second,
		LongDuration:  5 * time.Minute,
		MinBreakGap:   DefaultMinBreakGap,
	}
}

// Duration returns how long a break of the given kind lasts.
func (config ScheduleConfig) Duration(kind BreakKind) time.Duration {
	if kind == BreakLong {
		return config.LongDuration
	}
	return config.ShortDuration
}

// Normalized replaces non-positive values with defaults.
func (config ScheduleConfig) Normalized() ScheduleConfig {
	defaults := DefaultScheduleConfig()
	if config.ShortInterval <= 0 {
		config.ShortInterval = defaults.ShortInterval
	}
	if config.LongInterval <= 0 {
		config.LongInterval = defaults.LongInterval
	}
	if config.ShortDuration <= 0 {
		config.ShortDuration = defaults.ShortDuration
	}
	if config.LongDuration <= 0 {
		config.LongDuration = defaults.LongDuration
	}
	if config.MinBreakGap <= 0 {
		config.MinBreakGap = defaults.MinBreakGap
	}
	return config
}
