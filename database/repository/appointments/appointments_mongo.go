package appointmentsRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"salonbook/database"
	"salonbook/models"
)

const defaultTimeout = 5 * time.Second

// MongoAppointmentRepo implements Repository on the appointments collection.
type MongoAppointmentRepo struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func NewMongoAppointmentRepo() *MongoAppointmentRepo {
	return &MongoAppointmentRepo{
		coll:    database.Collection("appointments"),
		timeout: defaultTimeout,
	}
}

// Create inserts the appointment iff its (date, time) slot is free. The
// occupancy count and the insert run in one transaction; a duplicate-key
// error from the unique index is mapped to the same ConflictError, so the
// caller sees one failure mode regardless of which guard fired first.
func (r *MongoAppointmentRepo) Create(ctx context.Context, appt *models.Appointment) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	err := r.withTransaction(ctx, func(sc mongo.SessionContext) error {
		n, err := r.coll.CountDocuments(sc, bson.M{"date": appt.Date, "time": appt.Time})
		if err != nil {
			return fmt.Errorf("count occupancy: %w", err)
		}
		if n > 0 {
			return &models.ConflictError{Date: appt.Date, Time: appt.Time}
		}
		if _, err := r.coll.InsertOne(sc, appt); err != nil {
			return fmt.Errorf("insert appointment: %w", err)
		}
		return nil
	})
	return r.classifyWriteErr("create appointment", appt, err)
}

// Update rewrites the appointment's mutable fields, re-validating occupancy
// with the appointment itself excluded so a no-move edit does not conflict
// with its own slot.
func (r *MongoAppointmentRepo) Update(ctx context.Context, appt *models.Appointment) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	err := r.withTransaction(ctx, func(sc mongo.SessionContext) error {
		n, err := r.coll.CountDocuments(sc, bson.M{
			"date": appt.Date,
			"time": appt.Time,
			"id":   bson.M{"$ne": appt.ID},
		})
		if err != nil {
			return fmt.Errorf("count occupancy: %w", err)
		}
		if n > 0 {
			return &models.ConflictError{Date: appt.Date, Time: appt.Time}
		}

		res, err := r.coll.UpdateOne(sc, bson.M{"id": appt.ID}, bson.M{"$set": bson.M{
			"title":      appt.Title,
			"client":     appt.Client,
			"phone":      appt.Phone,
			"date":       appt.Date,
			"time":       appt.Time,
			"public":     appt.Public,
			"updated_at": appt.UpdatedAt,
		}})
		if err != nil {
			return fmt.Errorf("update appointment: %w", err)
		}
		if res.MatchedCount == 0 {
			return &models.NotFoundError{Kind: "appointment", ID: appt.ID}
		}
		return nil
	})
	return r.classifyWriteErr("update appointment", appt, err)
}

func (r *MongoAppointmentRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return database.WrapErr("delete appointment", err)
	}
	if res.DeletedCount == 0 {
		return &models.NotFoundError{Kind: "appointment", ID: id}
	}
	return nil
}

func (r *MongoAppointmentRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var appt models.Appointment
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&appt)
	if err == mongo.ErrNoDocuments {
		return nil, &models.NotFoundError{Kind: "appointment", ID: id}
	}
	if err != nil {
		return nil, database.WrapErr("get appointment", err)
	}
	return &appt, nil
}

func (r *MongoAppointmentRepo) ListByDate(ctx context.Context, date models.Date) ([]models.Appointment, error) {
	return r.find(ctx, bson.M{"date": date})
}

func (r *MongoAppointmentRepo) List(ctx context.Context) ([]models.Appointment, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoAppointmentRepo) find(ctx context.Context, filter bson.M) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, database.WrapErr("list appointments", err)
	}
	defer cursor.Close(ctx)

	appts := []models.Appointment{}
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, database.WrapErr("decode appointments", err)
	}
	return appts, nil
}

func (r *MongoAppointmentRepo) withTransaction(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	sess, err := r.coll.Database().Client().StartSession()
	if err != nil {
		return fmt.Errorf("start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	return mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := fn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	})
}

// classifyWriteErr keeps domain errors intact and maps everything else into
// the store taxonomy.
func (r *MongoAppointmentRepo) classifyWriteErr(op string, appt *models.Appointment, err error) error {
	if err == nil {
		return nil
	}
	var conflict *models.ConflictError
	var notFound *models.NotFoundError
	if errors.As(err, &conflict) || errors.As(err, &notFound) {
		return err
	}
	if mongo.IsDuplicateKeyError(err) {
		return &models.ConflictError{Date: appt.Date, Time: appt.Time}
	}
	return database.WrapErr(op, err)
}
