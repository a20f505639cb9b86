package requestsRepo

import (
	"context"

	"salonbook/models"
)

// Repository persists booking requests. Status changes go through
// Transition, a conditional update that only fires when the request is still
// in the expected state; callers never write a status field directly.
type Repository interface {
	Create(ctx context.Context, req *models.BookingRequest) error
	GetByID(ctx context.Context, id string) (*models.BookingRequest, error)
	ListByStatus(ctx context.Context, status models.RequestStatus) ([]models.BookingRequest, error)
	List(ctx context.Context) ([]models.BookingRequest, error)
	Transition(ctx context.Context, id string, from, to models.RequestStatus) error
	Delete(ctx context.Context, id string) error
	Changes(ctx context.Context) (<-chan struct{}, error)
}
