package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	apperrors "github.com/matzehuels/importchain/pkg/errors"
)

// MongoOptions configures [NewMongoStore].
type MongoOptions struct {
	URI        string
	Database   string // defaults to "importchain"
	Collection string // defaults to "snapshots"
	Timeout    time.Duration
}

// MongoStore keeps snapshots as documents in a MongoDB collection, with a
// unique index on graph_hash.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB, verifies the connection and ensures
// the graph_hash index exists.
func NewMongoStore(ctx context.Context, opts MongoOptions) (*MongoStore, error) {
	if opts.URI == "" {
		return nil, errors.New("mongo URI is required")
	}
	if opts.Database == "" {
		opts.Database = "importchain"
	}
	if opts.Collection == "" {
		opts.Collection = "snapshots"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	clientOpts := options.Client().ApplyURI(opts.URI).SetTimeout(opts.Timeout)
	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	coll := client.Database(opts.Database).Collection(opts.Collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "graph_hash", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("create index: %w", err)
	}
	return &MongoStore{client: client, coll: coll}, nil
}

func (m *MongoStore) Save(ctx context.Context, s *Snapshot) (*Snapshot, error) {
	existing, err := m.findOne(ctx, bson.M{"graph_hash": s.GraphHash})
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if _, err := m.coll.InsertOne(ctx, s); err != nil {
		// A concurrent writer stored the same graph first.
		if mongo.IsDuplicateKeyError(err) {
			return m.findOne(ctx, bson.M{"graph_hash": s.GraphHash})
		}
		return nil, apperrors.Wrap(apperrors.ErrCodeStorage, err, "insert snapshot")
	}
	return s, nil
}

func (m *MongoStore) Load(ctx context.Context, id string) (*Snapshot, error) {
	return m.findOne(ctx, bson.M{"_id": id})
}

func (m *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := m.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeStorage, err, "delete snapshot %s", id)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoStore) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func (m *MongoStore) findOne(ctx context.Context, filter bson.M) (*Snapshot, error) {
	var s Snapshot
	err := m.coll.FindOne(ctx, filter).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeStorage, err, "find snapshot")
	}
	return &s, nil
}

var _ GraphStore = (*MongoStore)(nil)
