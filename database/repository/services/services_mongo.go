package servicesRepo

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"salonbook/database"
	"salonbook/models"
)

const (
	defaultTimeout = 5 * time.Second
	catalogKey     = "services:catalog"
	catalogTTL     = 5 * time.Minute
)

// Repository serves the service catalog. Reads go through a Redis cache;
// writes invalidate it.
type Repository interface {
	List(ctx context.Context) ([]models.Service, error)
	Create(ctx context.Context, svc *models.Service) error
	Update(ctx context.Context, svc *models.Service) error
	Delete(ctx context.Context, id string) error
}

// MongoServiceRepo implements Repository on the services collection.
type MongoServiceRepo struct {
	coll    *mongo.Collection
	cache   *redis.Client
	timeout time.Duration
}

func NewMongoServiceRepo(cache *redis.Client) *MongoServiceRepo {
	return &MongoServiceRepo{
		coll:    database.Collection("services"),
		cache:   cache,
		timeout: defaultTimeout,
	}
}

func (r *MongoServiceRepo) List(ctx context.Context) ([]models.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if r.cache != nil {
		if raw, err := r.cache.Get(ctx, catalogKey).Result(); err == nil {
			var services []models.Service
			if jsonErr := json.Unmarshal([]byte(raw), &services); jsonErr == nil {
				return services, nil
			}
			// Corrupt cache entry; fall through to the store.
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, database.WrapErr("list services", err)
	}
	defer cursor.Close(ctx)

	services := []models.Service{}
	if err := cursor.All(ctx, &services); err != nil {
		return nil, database.WrapErr("decode services", err)
	}

	if r.cache != nil {
		if raw, err := json.Marshal(services); err == nil {
			r.cache.Set(ctx, catalogKey, raw, catalogTTL)
		}
	}
	return services, nil
}

func (r *MongoServiceRepo) Create(ctx context.Context, svc *models.Service) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, svc); err != nil {
		return database.WrapErr("create service", err)
	}
	r.invalidate(ctx)
	return nil
}

func (r *MongoServiceRepo) Update(ctx context.Context, svc *models.Service) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"id": svc.ID}, bson.M{"$set": svc})
	if err != nil {
		return database.WrapErr("update service", err)
	}
	if res.MatchedCount == 0 {
		return &models.NotFoundError{Kind: "service", ID: svc.ID}
	}
	r.invalidate(ctx)
	return nil
}

func (r *MongoServiceRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return database.WrapErr("delete service", err)
	}
	if res.DeletedCount == 0 {
		return &models.NotFoundError{Kind: "service", ID: id}
	}
	r.invalidate(ctx)
	return nil
}

func (r *MongoServiceRepo) invalidate(ctx context.Context) {
	if r.cache != nil {
		r.cache.Del(ctx, catalogKey)
	}
}
