package requestsRepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"salonbook/database"
	"salonbook/models"
)

const defaultTimeout = 5 * time.Second

// MongoRequestRepo implements Repository on the appointment_requests collection.
type MongoRequestRepo struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func NewMongoRequestRepo() *MongoRequestRepo {
	return &MongoRequestRepo{
		coll:    database.Collection("appointment_requests"),
		timeout: defaultTimeout,
	}
}

func (r *MongoRequestRepo) Create(ctx context.Context, req *models.BookingRequest) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, req); err != nil {
		return database.WrapErr("create booking request", err)
	}
	return nil
}

func (r *MongoRequestRepo) GetByID(ctx context.Context, id string) (*models.BookingRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var req models.BookingRequest
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&req)
	if err == mongo.ErrNoDocuments {
		return nil, &models.NotFoundError{Kind: "booking request", ID: id}
	}
	if err != nil {
		return nil, database.WrapErr("get booking request", err)
	}
	return &req, nil
}

func (r *MongoRequestRepo) ListByStatus(ctx context.Context, status models.RequestStatus) ([]models.BookingRequest, error) {
	return r.find(ctx, bson.M{"status": status})
}

func (r *MongoRequestRepo) List(ctx context.Context) ([]models.BookingRequest, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoRequestRepo) find(ctx context.Context, filter bson.M) ([]models.BookingRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, database.WrapErr("list booking requests", err)
	}
	defer cursor.Close(ctx)

	reqs := []models.BookingRequest{}
	if err := cursor.All(ctx, &reqs); err != nil {
		return nil, database.WrapErr("decode booking requests", err)
	}
	return reqs, nil
}

// Transition flips the status iff the request is still in the expected state.
// A lost race (the request moved under us) surfaces as StateError; a missing
// request as NotFoundError. The conditional filter is what makes terminal
// states sticky under concurrent admins.
func (r *MongoRequestRepo) Transition(ctx context.Context, id string, from, to models.RequestStatus) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"id": id, "status": from},
		bson.M{"$set": bson.M{"status": to, "updated_at": time.Now()}},
	)
	if err != nil {
		return database.WrapErr("transition booking request", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	// Nothing matched: distinguish vanished from already-terminal.
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return &models.StateError{ID: id, Status: current.Status}
}

func (r *MongoRequestRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return database.WrapErr("delete booking request", err)
	}
	if res.DeletedCount == 0 {
		return &models.NotFoundError{Kind: "booking request", ID: id}
	}
	return nil
}
