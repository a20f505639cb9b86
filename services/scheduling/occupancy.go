package scheduling

import (
	"sort"

	"salonbook/models"
)

// OccupiedSlots projects the appointments for one calendar day onto their
// time labels, sorted and de-duplicated. The double-booking invariant should
// make duplicates impossible, but the projection collapses them anyway rather
// than double-counting a corrupt collection.
//
// Whether a label belongs to the day's slot set is not this function's
// concern; it is a pure projection.
func OccupiedSlots(date models.Date, appointments []models.Appointment) []string {
	seen := make(map[string]struct{})
	var times []string
	for _, a := range appointments {
		if a.Date != date {
			continue
		}
		if _, dup := seen[a.Time]; dup {
			continue
		}
		seen[a.Time] = struct{}{}
		times = append(times, a.Time)
	}
	sort.Strings(times)
	return times
}
