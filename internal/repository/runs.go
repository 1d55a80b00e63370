package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/adamistheanswer/pokebay/internal/domain/model"
)

// RunsRepository persists and queries optimization run records.
type RunsRepository struct {
	collection *mongo.Collection
}

// NewRunsRepository creates a runs repository backed by the runs collection.
func NewRunsRepository(db *MongoDB) *RunsRepository {
	return &RunsRepository{collection: db.Runs}
}

// Create inserts a run record.
func (r *RunsRepository) Create(ctx context.Context, record *model.RunRecord) error {
	if record.ID.IsZero() {
		record.ID = primitive.NewObjectID()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, record)
	return err
}

// RunQueryOptions filters and limits run listings.
type RunQueryOptions struct {
	SetID  string
	Status string
	Limit  int
}

// List returns run records, newest first.
func (r *RunsRepository) List(ctx context.Context, opts RunQueryOptions) ([]*model.RunRecord, error) {
	filter := bson.M{}
	if opts.SetID != "" {
		filter["set_id"] = opts.SetID
	}
	if opts.Status != "" {
		filter["status"] = opts.Status
	}

	limit := int64(opts.Limit)
	if limit <= 0 {
		limit = 50
	}

	findOpts := options.Find().
		SetSort(bson.M{"timestamp": -1}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []*model.RunRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// EnsureIndexes creates the query and TTL indexes for the runs collection.
// A non-positive ttl disables expiry.
func (r *RunsRepository) EnsureIndexes(ctx context.Context, ttl time.Duration) error {
	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "set_id", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("set_id_timestamp"),
		},
		{
			Keys:    bson.D{{Key: "request_id", Value: 1}},
			Options: options.Index().SetName("request_id"),
		},
	}
	if ttl > 0 {
		models = append(models, mongo.IndexModel{
			Keys: bson.D{{Key: "timestamp", Value: 1}},
			Options: options.Index().
				SetName("timestamp_ttl").
				SetExpireAfterSeconds(int32(ttl.Seconds())),
		})
	}

	_, err := r.collection.Indexes().CreateMany(ctx, models)
	return err
}
