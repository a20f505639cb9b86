package requestsRepo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"salonbook/database"
)

// Changes signals on every committed write to the requests collection. See
// the appointments repository for the channel semantics.
func (r *MongoRequestRepo) Changes(ctx context.Context) (<-chan struct{}, error) {
	stream, err := r.coll.Watch(ctx, mongo.Pipeline{})
	if err != nil {
		return nil, database.WrapErr("watch booking requests", err)
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
