package appointmentsRepo

import (
	"context"

	"salonbook/models"
)

// Repository persists confirmed appointments. Create and Update are the
// occupying writes: both are conditional on the (date, time) slot being free
// at commit time, enforced inside a store transaction with a unique index as
// backstop. There is deliberately no unconditional insert.
type Repository interface {
	Create(ctx context.Context, appt *models.Appointment) error
	Update(ctx context.Context, appt *models.Appointment) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	ListByDate(ctx context.Context, date models.Date) ([]models.Appointment, error)
	List(ctx context.Context) ([]models.Appointment, error)
	Changes(ctx context.Context) (<-chan struct{}, error)
}
