package models

import (
	"fmt"
	"time"
)

// ScheduleMode selects how the day's slots are defined.
type ScheduleMode string

const (
	// ScheduleModeWeek uses a fixed per-weekday table of slot labels.
	ScheduleModeWeek ScheduleMode = "week"
	// ScheduleModeGrid generates a regular grid from open/close/step minutes.
	ScheduleModeGrid ScheduleMode = "grid"
)

// GridSchedule describes a regular slot grid in minutes from midnight.
type GridSchedule struct {
	OpenMinutes  int `bson:"open_minutes" json:"openMinutes"`
	CloseMinutes int `bson:"close_minutes" json:"closeMinutes"`
	StepMinutes  int `bson:"step_minutes" json:"stepMinutes"`
}

// ScheduleConfig is the process-wide slot configuration, stored as the
// "schedule" document of the settings collection. Only one of Week/Grid is
// consulted, per Mode.
type ScheduleConfig struct {
	Mode ScheduleMode `bson:"mode" json:"mode"`
	// Week maps weekday (0 = Sunday .. 6 = Saturday) to ordered slot labels.
	// A missing weekday is a closed day.
	Week      map[int][]string `bson:"week,omitempty" json:"week,omitempty"`
	Grid      GridSchedule     `bson:"grid,omitempty" json:"grid"`
	UpdatedAt time.Time        `bson:"updated_at" json:"updated_at"`
}

// DefaultScheduleConfig is the salon's standing weekly table, used until an
// admin saves a schedule document.
func DefaultScheduleConfig() ScheduleConfig {
	return ScheduleConfig{
		Mode: ScheduleModeWeek,
		Week: map[int][]string{
			// Sunday closed.
			1: {"10:00", "13:00", "17:00"},
			2: {"08:00", "10:00", "13:00", "17:00"},
			3: {"10:00", "13:00", "17:00"},
			4: {"08:00", "10:00", "13:00", "17:00"},
			5: {"10:00", "13:00", "17:00"},
			6: {"07:00", "08:00", "13:00", "14:00", "17:00"},
		},
	}
}

// Validate rejects configs an admin should not be able to save. A valid
// config can still yield empty days (that is the soft-fail path); validation
// only guards against unparseable labels and unknown modes.
func (c ScheduleConfig) Validate() error {
	fields := map[string]string{}
	switch c.Mode {
	case ScheduleModeWeek:
		for day, labels := range c.Week {
			if day < 0 || day > 6 {
				fields["week"] = fmt.Sprintf("weekday %d out of range 0..6", day)
				continue
			}
			for _, l := range labels {
				if _, err := time.Parse("15:04", l); err != nil {
					fields["week"] = fmt.Sprintf("invalid slot label %q", l)
				}
			}
		}
	case ScheduleModeGrid:
		// Negative values are nonsense even under soft-fail semantics.
		if c.Grid.OpenMinutes < 0 || c.Grid.CloseMinutes < 0 || c.Grid.StepMinutes < 0 {
			fields["grid"] = "minutes must not be negative"
		}
	default:
		fields["mode"] = fmt.Sprintf("unknown schedule mode %q", c.Mode)
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
