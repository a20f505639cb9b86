package settingsRepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"salonbook/database"
	"salonbook/models"
)

const (
	defaultTimeout = 5 * time.Second
	scheduleDocID  = "schedule"
)

// Repository loads and stores the schedule configuration document.
type Repository interface {
	GetSchedule(ctx context.Context) (models.ScheduleConfig, error)
	PutSchedule(ctx context.Context, cfg models.ScheduleConfig) error
	Changes(ctx context.Context) (<-chan struct{}, error)
}

// MongoSettingsRepo implements Repository on the settings collection. The
// fallback config covers fresh deployments that never saved a schedule.
type MongoSettingsRepo struct {
	coll     *mongo.Collection
	fallback models.ScheduleConfig
	timeout  time.Duration
}

func NewMongoSettingsRepo(fallback models.ScheduleConfig) *MongoSettingsRepo {
	return &MongoSettingsRepo{
		coll:     database.Collection("settings"),
		fallback: fallback,
		timeout:  defaultTimeout,
	}
}

type scheduleDoc struct {
	ID       string                `bson:"id"`
	Schedule models.ScheduleConfig `bson:"schedule"`
}

func (r *MongoSettingsRepo) GetSchedule(ctx context.Context) (models.ScheduleConfig, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var doc scheduleDoc
	err := r.coll.FindOne(ctx, bson.M{"id": scheduleDocID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return r.fallback, nil
	}
	if err != nil {
		return models.ScheduleConfig{}, database.WrapErr("get schedule settings", err)
	}
	return doc.Schedule, nil
}

func (r *MongoSettingsRepo) PutSchedule(ctx context.Context, cfg models.ScheduleConfig) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cfg.UpdatedAt = time.Now()
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"id": scheduleDocID},
		bson.M{"$set": bson.M{"schedule": cfg}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return database.WrapErr("put schedule settings", err)
	}
	return nil
}

// Changes signals on settings writes so every process picks up a schedule
// swap made by any admin session.
func (r *MongoSettingsRepo) Changes(ctx context.Context) (<-chan struct{}, error) {
	stream, err := r.coll.Watch(ctx, mongo.Pipeline{})
	if err != nil {
		return nil, database.WrapErr("watch settings", err)
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
