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

// SubmitRequest records a client's proposal for a slot. Occupancy is
// deliberately not checked here: two clients may race to request the same
// slot and both submissions succeed; the first approval wins the slot.
func (s *DefaultBookingService) SubmitRequest(ctx context.Context, in SubmitInput) (*models.BookingRequest, error) {
	if err := s.validatePlacement(in.ServiceTitle, in.Client, in.Phone, in.Date, in.Time); err != nil {
		return nil, err
	}

	now := time.Now()
	req := &models.BookingRequest{
		ID:        uuid.New().String(),
		Title:     strings.TrimSpace(in.ServiceTitle),
		Client:    strings.TrimSpace(in.Client),
		Phone:     strings.TrimSpace(in.Phone),
		Date:      in.Date,
		Time:      in.Time,
		Status:    models.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Requests.Create(ctx, req); err != nil {
		return nil, err
	}

	s.Logger.Info("booking request submitted",
		zap.String("request_id", req.ID),
		zap.String("date", req.Date.String()),
		zap.String("time", req.Time),
	)
	return req, nil
}

// ApproveRequest promotes a pending request into a confirmed appointment.
// The slot set is re-validated under the schedule in force now, not the one
// at submission time, because the configuration may have changed in between.
// The occupancy check here is only a fast path; the store transaction repeats
// it and has the final word, so losing a race against another approval (or a
// direct admin booking) surfaces as ConflictError with nothing written.
func (s *DefaultBookingService) ApproveRequest(ctx context.Context, requestID string) (*models.Appointment, error) {
	req, err := s.Requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.Status != models.StatusPending {
		return nil, &models.StateError{ID: req.ID, Status: req.Status}
	}

	slots := s.Schedule.Current().SlotsForDate(req.Date)
	if !scheduling.Contains(slots, req.Time) {
		return nil, models.NewValidationError("time", "slot is no longer offered under the current schedule")
	}

	if day, lerr := s.Appointments.ListByDate(ctx, req.Date); lerr == nil {
		if !scheduling.CanPlace(req.Date, req.Time, day, "") {
			return nil, &models.ConflictError{Date: req.Date, Time: req.Time}
		}
	}

	now := time.Now()
	appt := &models.Appointment{
		ID:        uuid.New().String(),
		Title:     req.Title,
		Client:    req.Client,
		Phone:     req.Phone,
		Date:      req.Date,
		Time:      req.Time,
		Public:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.Scheduler.Approve(ctx, req.ID, appt); err != nil {
		return nil, err
	}

	s.invalidateBusy(ctx, req.Date)
	s.archive(req.ID)

	s.Logger.Info("booking request approved",
		zap.String("request_id", req.ID),
		zap.String("appointment_id", appt.ID),
		zap.String("date", appt.Date.String()),
		zap.String("time", appt.Time),
	)
	return appt, nil
}

// RejectRequest moves a pending request to rejected. No appointment is
// touched. Rejecting an already-terminal request fails with StateError and
// writes nothing.
func (s *DefaultBookingService) RejectRequest(ctx context.Context, requestID string) error {
	req, err := s.Requests.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if req.Status.Terminal() {
		return &models.StateError{ID: req.ID, Status: req.Status}
	}

	if err := s.Requests.Transition(ctx, requestID, models.StatusPending, models.StatusRejected); err != nil {
		return err
	}

	s.archive(requestID)
	s.Logger.Info("booking request rejected", zap.String("request_id", requestID))
	return nil
}

func (s *DefaultBookingService) PendingRequests(ctx context.Context) ([]models.BookingRequest, error) {
	return s.Requests.ListByStatus(ctx, models.StatusPending)
}

func (s *DefaultBookingService) archive(requestID string) {
	if s.Archiver == nil {
		return
	}
	if err := s.Archiver.ScheduleArchive(requestID); err != nil {
		// Archival is housekeeping; a full queue must not fail the approval.
		s.Logger.Warn("failed to schedule request archival",
			zap.String("request_id", requestID), zap.Error(err))
	}
}
