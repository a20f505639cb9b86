// Package booking implements the request workflow (submit, approve, reject)
// and direct admin appointment management on top of the scheduling rules and
// the store repositories.
package booking

import (
	"context"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	appointmentsRepo "salonbook/database/repository/appointments"
	requestsRepo "salonbook/database/repository/requests"
	schedulerRepo "salonbook/database/repository/scheduler"
	"salonbook/models"
	"salonbook/services/scheduling"
)

// SubmitInput is a client's unauthenticated booking request.
type SubmitInput struct {
	ServiceTitle string      `json:"title"`
	Client       string      `json:"client"`
	Phone        string      `json:"phone"`
	Date         models.Date `json:"date"`
	Time         string      `json:"time"`
}

// AppointmentInput is an admin's direct create/edit payload.
type AppointmentInput struct {
	ServiceTitle string      `json:"title"`
	Client       string      `json:"client"`
	Phone        string      `json:"phone"`
	Date         models.Date `json:"date"`
	Time         string      `json:"time"`
	Public       bool        `json:"public"`
}

// DaySchedule is what a slot picker needs for one day.
type DaySchedule struct {
	Date  models.Date `json:"date"`
	Slots []string    `json:"slots"`
	Busy  []string    `json:"busy"`
}

// Archiver defers cleanup of a request that reached a terminal state.
type Archiver interface {
	ScheduleArchive(requestID string) error
}

// Service is the booking engine's application surface.
type Service interface {
	SubmitRequest(ctx context.Context, in SubmitInput) (*models.BookingRequest, error)
	ApproveRequest(ctx context.Context, requestID string) (*models.Appointment, error)
	RejectRequest(ctx context.Context, requestID string) error
	PendingRequests(ctx context.Context) ([]models.BookingRequest, error)

	CreateAppointment(ctx context.Context, in AppointmentInput) (*models.Appointment, error)
	UpdateAppointment(ctx context.Context, id string, in AppointmentInput) (*models.Appointment, error)
	DeleteAppointment(ctx context.Context, id string) error
	AppointmentsForDate(ctx context.Context, date models.Date) ([]models.Appointment, error)

	DaySchedule(ctx context.Context, date models.Date) (*DaySchedule, error)
	BusyTimes(ctx context.Context, date models.Date, publicOnly bool) ([]string, error)
}

// DefaultBookingService implements Service.
type DefaultBookingService struct {
	Requests     requestsRepo.Repository
	Appointments appointmentsRepo.Repository
	Scheduler    schedulerRepo.Repository
	Schedule     *scheduling.Holder
	Archiver     Archiver      // optional
	Cache        *redis.Client // optional, busy-slot snapshots
	Logger       *zap.Logger
}
