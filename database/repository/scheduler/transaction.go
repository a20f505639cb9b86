package schedulerRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"salonbook/database"
	"salonbook/models"
)

const defaultTimeout = 8 * time.Second

// MongoSchedulerRepo couples the appointments and appointment_requests
// collections for the approval write.
type MongoSchedulerRepo struct {
	appointmentColl *mongo.Collection
	requestColl     *mongo.Collection
	timeout         time.Duration
}

func NewMongoSchedulerRepo() *MongoSchedulerRepo {
	return &MongoSchedulerRepo{
		appointmentColl: database.Collection("appointments"),
		requestColl:     database.Collection("appointment_requests"),
		timeout:         defaultTimeout,
	}
}

// Approve atomically (1) re-checks that the target slot is unoccupied,
// (2) inserts the confirmed appointment and (3) flips the request from
// pending to approved. All three run in a single multi-document transaction:
// two admins approving into the same slot serialize at the store, the loser's
// transaction aborts, and exactly one appointment exists afterwards
// (last-committer-loses). A plain check-then-write here would reintroduce the
// double-booking race no application-level lock can fix, because approvals
// arrive from independent processes.
//
// The request flip is itself conditional on status == pending, so a request
// already approved or rejected by a concurrent admin aborts the transaction
// before any appointment is inserted.
func (repo *MongoSchedulerRepo) Approve(ctx context.Context, requestID string, appt *models.Appointment) error {
	ctx, cancel := context.WithTimeout(ctx, repo.timeout)
	defer cancel()

	client := repo.appointmentColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return database.WrapErr("approve request", fmt.Errorf("could not start mongo session: %w", err))
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		res, err := repo.requestColl.UpdateOne(sc,
			bson.M{"id": requestID, "status": models.StatusPending},
			bson.M{"$set": bson.M{"status": models.StatusApproved, "updated_at": time.Now()}},
		)
		if err != nil {
			return fmt.Errorf("mark request approved: %w", err)
		}
		if res.MatchedCount == 0 {
			return errRequestNotPending
		}

		n, err := repo.appointmentColl.CountDocuments(sc, bson.M{"date": appt.Date, "time": appt.Time})
		if err != nil {
			return fmt.Errorf("count occupancy: %w", err)
		}
		if n > 0 {
			return &models.ConflictError{Date: appt.Date, Time: appt.Time}
		}

		if _, err := repo.appointmentColl.InsertOne(sc, appt); err != nil {
			return fmt.Errorf("insert appointment: %w", err)
		}
		return nil
	}

	err = mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	})
	return repo.classifyErr(requestID, appt, err)
}

// errRequestNotPending is internal; classifyErr resolves it into NotFound or
// StateError by re-reading the request outside the aborted transaction.
var errRequestNotPending = errors.New("request not pending")

func (repo *MongoSchedulerRepo) classifyErr(requestID string, appt *models.Appointment, err error) error {
	if err == nil {
		return nil
	}
	var conflict *models.ConflictError
	if errors.As(err, &conflict) {
		return conflict
	}
	if mongo.IsDuplicateKeyError(err) {
		return &models.ConflictError{Date: appt.Date, Time: appt.Time}
	}
	if errors.Is(err, errRequestNotPending) {
		ctx, cancel := context.WithTimeout(context.Background(), repo.timeout)
		defer cancel()

		var req models.BookingRequest
		ferr := repo.requestColl.FindOne(ctx, bson.M{"id": requestID}).Decode(&req)
		if ferr == mongo.ErrNoDocuments {
			return &models.NotFoundError{Kind: "booking request", ID: requestID}
		}
		if ferr != nil {
			return database.WrapErr("reread request", ferr)
		}
		return &models.StateError{ID: requestID, Status: req.Status}
	}
	return database.WrapErr("approve request", err)
}
