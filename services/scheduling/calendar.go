// Package scheduling holds the pure slot logic: which slots a calendar day
// offers, which of them are occupied, and whether a candidate placement is
// free. Nothing here touches the store.
package scheduling

import (
	"fmt"
	"sync/atomic"

	"salonbook/models"
)

// Calendar maps a calendar date to its ordered list of slot labels.
// Implementations are pure: the same date always yields the same labels.
type Calendar interface {
	SlotsForDate(d models.Date) []string
}

// WeekCalendar offers a fixed table of slots per weekday. A weekday missing
// from the table is a closed day.
type WeekCalendar struct {
	week map[int][]string
}

func NewWeekCalendar(week map[int][]string) *WeekCalendar {
	return &WeekCalendar{week: week}
}

func (c *WeekCalendar) SlotsForDate(d models.Date) []string {
	labels := c.week[int(d.Weekday())]
	if len(labels) == 0 {
		return nil
	}
	out := make([]string, len(labels))
	copy(out, labels)
	return out
}

// GridCalendar generates labels at open, open+step, ... while <= close.
// A non-positive step or open > close yields an empty day rather than an
// error: a misconfigured schedule offers no slots, it does not crash callers.
type GridCalendar struct {
	openMinutes  int
	closeMinutes int
	stepMinutes  int
}

func NewGridCalendar(grid models.GridSchedule) *GridCalendar {
	return &GridCalendar{
		openMinutes:  grid.OpenMinutes,
		closeMinutes: grid.CloseMinutes,
		stepMinutes:  grid.StepMinutes,
	}
}

func (c *GridCalendar) SlotsForDate(models.Date) []string {
	if c.stepMinutes <= 0 || c.openMinutes > c.closeMinutes || c.openMinutes < 0 {
		return nil
	}
	var labels []string
	for m := c.openMinutes; m <= c.closeMinutes; m += c.stepMinutes {
		labels = append(labels, MinutesToLabel(m))
	}
	return labels
}

// MinutesToLabel formats minutes from midnight as a zero-padded "HH:MM"
// label. Every producer and consumer of slot labels goes through this format;
// occupancy is compared by exact string equality.
func MinutesToLabel(totalMinutes int) string {
	return fmt.Sprintf("%02d:%02d", totalMinutes/60, totalMinutes%60)
}

type emptyCalendar struct{}

func (emptyCalendar) SlotsForDate(models.Date) []string { return nil }

// FromConfig builds the calendar the config describes. An unknown mode gets
// the empty calendar: no slots, no panic.
func FromConfig(cfg models.ScheduleConfig) Calendar {
	switch cfg.Mode {
	case models.ScheduleModeWeek:
		return NewWeekCalendar(cfg.Week)
	case models.ScheduleModeGrid:
		return NewGridCalendar(cfg.Grid)
	default:
		return emptyCalendar{}
	}
}

type holderState struct {
	cfg models.ScheduleConfig
	cal Calendar
}

// Holder carries the process-wide schedule config and its calendar. Readers
// see a consistent (config, calendar) pair; Swap replaces both atomically
// when an admin updates the schedule.
type Holder struct {
	v atomic.Value // holderState
}

func NewHolder(cfg models.ScheduleConfig) *Holder {
	h := &Holder{}
	h.Swap(cfg)
	return h
}

func (h *Holder) Swap(cfg models.ScheduleConfig) {
	h.v.Store(holderState{cfg: cfg, cal: FromConfig(cfg)})
}

func (h *Holder) Current() Calendar {
	return h.v.Load().(holderState).cal
}

func (h *Holder) Config() models.ScheduleConfig {
	return h.v.Load().(holderState).cfg
}
