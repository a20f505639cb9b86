package scheduling

import "salonbook/models"

// CanPlace reports whether an appointment may take (date, timeLabel) given
// the appointment set. excludeID names an appointment to ignore, so an edit
// does not conflict with itself; pass "" when creating.
//
// This check is advisory. Callers race other writers between check and write,
// so the occupying write itself re-checks inside a store transaction; this
// function exists to fail fast and to drive slot pickers.
func CanPlace(date models.Date, timeLabel string, appointments []models.Appointment, excludeID string) bool {
	remaining := appointments
	if excludeID != "" {
		remaining = make([]models.Appointment, 0, len(appointments))
		for _, a := range appointments {
			if a.ID != excludeID {
				remaining = append(remaining, a)
			}
		}
	}
	for _, occupied := range OccupiedSlots(date, remaining) {
		if occupied == timeLabel {
			return false
		}
	}
	return true
}

// Contains reports whether label is one of the day's slots.
func Contains(slots []string, label string) bool {
	for _, s := range slots {
		if s == label {
			return true
		}
	}
	return false
}
