package appointmentsRepo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"salonbook/database"
)

// Changes opens a change stream on the appointments collection and signals on
// every committed write. The channel coalesces bursts (a pending signal is
// enough; consumers re-read the full collection anyway) and closes when the
// stream ends, which consumers treat as "snapshot may be stale, reconnect".
func (r *MongoAppointmentRepo) Changes(ctx context.Context) (<-chan struct{}, error) {
	stream, err := r.coll.Watch(ctx, mongo.Pipeline{})
	if err != nil {
		return nil, database.WrapErr("watch appointments", err)
	}

	ch := make(chan struct{}, 1)
	go func() {
		defer close(ch)
		defer stream.Close(context.Background())
		for stream.Next(ctx) {
			select {
			case ch <- struct{}{}:
			default:
			}
		}
	}()
	return ch, nil
}
