package booking

import (
	"strings"
	"unicode"

	"salonbook/models"
	"salonbook/services/scheduling"
)

// Local phone convention: 10 digits (landline) or 11 (mobile) after the
// formatting mask is stripped.
const (
	phoneMinDigits = 10
	phoneMaxDigits = 11
)

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}

// validatePlacement checks the descriptive fields and that the time is one of
// the day's offered slots under the current schedule. It never consults
// occupancy: a submission may target a taken slot, and the conflict is
// resolved at approval.
func (s *DefaultBookingService) validatePlacement(title, client, phone string, date models.Date, timeLabel string) error {
	fields := map[string]string{}

	if strings.TrimSpace(title) == "" {
		fields["title"] = "service is required"
	}
	if strings.TrimSpace(client) == "" {
		fields["client"] = "name is required"
	}
	if strings.TrimSpace(phone) == "" {
		fields["phone"] = "phone is required"
	} else if n := countDigits(phone); n < phoneMinDigits || n > phoneMaxDigits {
		fields["phone"] = "phone must have 10 or 11 digits"
	}

	if date.IsZero() {
		fields["date"] = "date is required"
	}
	if strings.TrimSpace(timeLabel) == "" {
		fields["time"] = "time is required"
	}

	if len(fields) == 0 {
		slots := s.Schedule.Current().SlotsForDate(date)
		if !scheduling.Contains(slots, timeLabel) {
			// Covers closed days (empty slot set) and labels that were
			// never, or are no longer, part of the day's schedule.
			fields["time"] = "not an available time for this date"
		}
	}

	if len(fields) > 0 {
		return &models.ValidationError{Fields: fields}
	}
	return nil
}
