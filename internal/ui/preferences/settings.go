package preferences

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"eyeguard/internal/core/model"
)

// ErrInvalidSettings is returned when a settings field is not a positive integer.
var ErrInvalidSettings = errors.New("invalid settings")

// Input holds the raw values typed into the settings form.
type Input struct {
	ShortIntervalMinutes string
	LongIntervalMinutes  string
	ShortDurationSeconds string
	LongDurationMinutes  string
}

// ConfigTarget receives a validated schedule.
type ConfigTarget interface {
	Config() model.ScheduleConfig
	UpdateConfig(config model.ScheduleConfig)
}

// InputFromConfig renders a schedule in the units the form uses.
func InputFromConfig(config model.ScheduleConfig) Input {
	return Input{
		ShortIntervalMinutes: strconv.Itoa(int(config.ShortInterval / time.Minute)),
		LongIntervalMinutes:  strconv.Itoa(int(config.LongInterval / time.Minute)),
		ShortDurationSeconds: strconv.Itoa(int(config.ShortDuration / time.Second)),
		LongDurationMinutes:  strconv.Itoa(int(config.LongDuration / time.Minute)),
	}
}

// ParseSchedule validates input and returns base with the four editable values replaced.
// On error base is returned unchanged.
func ParseSchedule(input Input, base model.ScheduleConfig) (model.ScheduleConfig, error) {
	parsed := base
	fields := []struct {
		name  string
		value string
		unit  time.Duration
		dest  *time.Duration
	}{
		{"short break interval", input.ShortIntervalMinutes, time.Minute, &parsed.ShortInterval},
		{"long break interval", input.LongIntervalMinutes, time.Minute, &parsed.LongInterval},
		{"short break duration", input.ShortDurationSeconds, time.Second, &parsed.ShortDuration},
		{"long break duration", input.LongDurationMinutes, time.Minute, &parsed.LongDuration},
	}

	for _, field := range fields {
		amount, err := parsePositiveInt(field.value)
		if err != nil {
			return base, fmt.Errorf("%w: %s: %v", ErrInvalidSettings, field.name, err)
		}
		value, ok := model.ScaleSetting(amount, field.unit)
		if !ok {
			return base, fmt.Errorf("%w: %s: %d exceeds %v", ErrInvalidSettings, field.name, amount, model.MaxScheduleValue)
		}
		*field.dest = value
	}
	return parsed, nil
}

// Apply parses input and hands the result to target. The target keeps its
// previous schedule when parsing fails.
func Apply(target ConfigTarget, input Input) (model.ScheduleConfig, error) {
	current := target.Config()
	parsed, err := ParseSchedule(input, current)
	if err != nil {
		return current, err
	}
	target.UpdateConfig(parsed)
	return parsed, nil
}

func parsePositiveInt(value string) (int, error) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", value)
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("%d must be greater than zero", parsed)
	}
	return parsed, nil
}
