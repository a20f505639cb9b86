package schedulerRepo

import (
	"context"

	"salonbook/models"
)

// Repository executes the one write that spans both collections: promoting a
// pending request into a confirmed appointment.
type Repository interface {
	Approve(ctx context.Context, requestID string, appt *models.Appointment) error
}
