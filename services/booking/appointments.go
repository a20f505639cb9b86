package booking

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"salonbook/models"
	"salonbook/services/scheduling"
)

// CreateAppointment books a slot directly on behalf of an admin. Unlike a
// client submission, occupancy matters immediately: the repository's
// conditional write either takes the slot or returns ConflictError.
func (s *DefaultBookingService) CreateAppointment(ctx context.Context, in AppointmentInput) (*models.Appointment, error) {
	if err := s.validatePlacement(in.ServiceTitle, in.Client, in.Phone, in.Date, in.Time); err != nil {
		return nil, err
	}

	now := time.Now()
	appt := &models.Appointment{
		ID:        uuid.New().String(),
		Title:     strings.TrimSpace(in.ServiceTitle),
		Client:    strings.TrimSpace(in.Client),
		Phone:     strings.TrimSpace(in.Phone),
		Date:      in.Date,
		Time:      in.Time,
		Public:    in.Public,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Appointments.Create(ctx, appt); err != nil {
		return nil, err
	}

	s.invalidateBusy(ctx, appt.Date)
	s.Logger.Info("appointment created",
		zap.String("appointment_id", appt.ID),
		zap.String("date", appt.Date.String()),
		zap.String("time", appt.Time),
	)
	return appt, nil
}

// UpdateAppointment rewrites an appointment's fields, re-validated against
// the schedule and against occupancy with the appointment itself excluded.
func (s *DefaultBookingService) UpdateAppointment(ctx context.Context, id string, in AppointmentInput) (*models.Appointment, error) {
	existing, err := s.Appointments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validatePlacement(in.ServiceTitle, in.Client, in.Phone, in.Date, in.Time); err != nil {
		return nil, err
	}

	updated := *existing
	updated.Title = strings.TrimSpace(in.ServiceTitle)
	updated.Client = strings.TrimSpace(in.Client)
	updated.Phone = strings.TrimSpace(in.Phone)
	updated.Date = in.Date
	updated.Time = in.Time
	updated.Public = in.Public
	updated.UpdatedAt = time.Now()

	if err := s.Appointments.Update(ctx, &updated); err != nil {
		return nil, err
	}

	s.invalidateBusy(ctx, existing.Date)
	s.invalidateBusy(ctx, updated.Date)
	s.Logger.Info("appointment updated", zap.String("appointment_id", id))
	return &updated, nil
}

func (s *DefaultBookingService) DeleteAppointment(ctx context.Context, id string) error {
	existing, err := s.Appointments.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Appointments.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateBusy(ctx, existing.Date)
	s.Logger.Info("appointment deleted", zap.String("appointment_id", id))
	return nil
}

func (s *DefaultBookingService) AppointmentsForDate(ctx context.Context, date models.Date) ([]models.Appointment, error) {
	return s.Appointments.ListByDate(ctx, date)
}

// DaySchedule returns the day's slot labels and which of them are taken,
// which is everything a picker needs to render.
func (s *DefaultBookingService) DaySchedule(ctx context.Context, date models.Date) (*DaySchedule, error) {
	busy, err := s.BusyTimes(ctx, date, false)
	if err != nil {
		return nil, err
	}
	slots := s.Schedule.Current().SlotsForDate(date)
	if slots == nil {
		slots = []string{}
	}
	return &DaySchedule{Date: date, Slots: slots, Busy: busy}, nil
}

// BusyTimes lists the occupied labels for a date. publicOnly hides private
// appointments, for the unauthenticated calendar. Snapshots are cached
// briefly in Redis and dropped on every mutation of the date.
func (s *DefaultBookingService) BusyTimes(ctx context.Context, date models.Date, publicOnly bool) ([]string, error) {
	if cached, ok := s.cachedBusy(ctx, date, publicOnly); ok {
		return cached, nil
	}

	appts, err := s.Appointments.ListByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	if publicOnly {
		visible := appts[:0]
		for _, a := range appts {
			if a.Public {
				visible = append(visible, a)
			}
		}
		appts = visible
	}

	busy := scheduling.OccupiedSlots(date, appts)
	if busy == nil {
		busy = []string{}
	}
	s.storeBusy(ctx, date, publicOnly, busy)
	return busy, nil
}
