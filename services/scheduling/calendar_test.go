package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salonbook/models"
)

func mustDate(t *testing.T, s string) models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestWeekCalendarUsesWeekdayTable(t *testing.T) {
	cal := NewWeekCalendar(models.DefaultScheduleConfig().Week)

	// 2025-08-18 is a Monday, 2025-08-19 a Tuesday.
	monday := mustDate(t, "2025-08-18")
	require.Equal(t, time.Monday, monday.Weekday())
	assert.Equal(t, []string{"10:00", "13:00", "17:00"}, cal.SlotsForDate(monday))

	tuesday := mustDate(t, "2025-08-19")
	assert.Equal(t, []string{"08:00", "10:00", "13:00", "17:00"}, cal.SlotsForDate(tuesday))

	saturday := mustDate(t, "2025-08-23")
	assert.Equal(t, []string{"07:00", "08:00", "13:00", "14:00", "17:00"}, cal.SlotsForDate(saturday))
}

func TestWeekCalendarClosedDayIsEmpty(t *testing.T) {
	cal := NewWeekCalendar(models.DefaultScheduleConfig().Week)

	sunday := mustDate(t, "2025-08-17")
	require.Equal(t, time.Sunday, sunday.Weekday())
	assert.Empty(t, cal.SlotsForDate(sunday))
}

func TestWeekCalendarReturnsCopies(t *testing.T) {
	week := map[int][]string{1: {"10:00", "11:00"}}
	cal := NewWeekCalendar(week)
	monday := mustDate(t, "2025-08-18")

	got := cal.SlotsForDate(monday)
	got[0] = "mutated"
	assert.Equal(t, []string{"10:00", "11:00"}, cal.SlotsForDate(monday))
}

func TestGridCalendarGeneratesInclusiveGrid(t *testing.T) {
	cal := NewGridCalendar(models.GridSchedule{
		OpenMinutes:  9 * 60,
		CloseMinutes: 11 * 60,
		StepMinutes:  30,
	})

	got := cal.SlotsForDate(mustDate(t, "2025-08-18"))
	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30", "11:00"}, got)
}

func TestGridCalendarSingleSlotWhenOpenEqualsClose(t *testing.T) {
	cal := NewGridCalendar(models.GridSchedule{
		OpenMinutes:  10 * 60,
		CloseMinutes: 10 * 60,
		StepMinutes:  15,
	})
	assert.Equal(t, []string{"10:00"}, cal.SlotsForDate(mustDate(t, "2025-08-18")))
}

func TestGridCalendarMisconfigurationYieldsNoSlots(t *testing.T) {
	d := mustDate(t, "2025-08-18")

	cases := map[string]models.GridSchedule{
		"zero step":        {OpenMinutes: 9 * 60, CloseMinutes: 17 * 60, StepMinutes: 0},
		"negative step":    {OpenMinutes: 9 * 60, CloseMinutes: 17 * 60, StepMinutes: -30},
		"open after close": {OpenMinutes: 18 * 60, CloseMinutes: 9 * 60, StepMinutes: 30},
		"negative open":    {OpenMinutes: -60, CloseMinutes: 9 * 60, StepMinutes: 30},
	}
	for name, grid := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Empty(t, NewGridCalendar(grid).SlotsForDate(d))
		})
	}
}

func TestMinutesToLabelZeroPads(t *testing.T) {
	assert.Equal(t, "00:00", MinutesToLabel(0))
	assert.Equal(t, "07:05", MinutesToLabel(7*60+5))
	assert.Equal(t, "13:30", MinutesToLabel(13*60+30))
}

func TestFromConfigUnknownModeIsEmpty(t *testing.T) {
	cal := FromConfig(models.ScheduleConfig{Mode: "lunar"})
	assert.Empty(t, cal.SlotsForDate(mustDate(t, "2025-08-18")))
}

func TestHolderSwapReplacesCalendarAndConfig(t *testing.T) {
	h := NewHolder(models.DefaultScheduleConfig())
	monday := mustDate(t, "2025-08-18")
	require.NotEmpty(t, h.Current().SlotsForDate(monday))

	gridCfg := models.ScheduleConfig{
		Mode: models.ScheduleModeGrid,
		Grid: models.GridSchedule{OpenMinutes: 10 * 60, CloseMinutes: 11 * 60, StepMinutes: 60},
	}
	h.Swap(gridCfg)

	assert.Equal(t, models.ScheduleModeGrid, h.Config().Mode)
	assert.Equal(t, []string{"10:00", "11:00"}, h.Current().SlotsForDate(monday))
}
