package database

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	"salonbook/models"
)

// WrapErr classifies a driver error into the engine's taxonomy. Deadline
// overruns become TimeoutError (effects unknown, retry is safe); everything
// else is a StoreError.
func WrapErr(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || mongo.IsTimeout(err) {
		return &models.TimeoutError{Op: op, Err: err}
	}
	return &models.StoreError{Op: op, Err: err}
}
