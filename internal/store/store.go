// Package store wraps the document store connection and exposes the narrow
// collection API the repository layer is written against. The production
// implementation is MongoDB; an in-memory implementation backs tests and
// local development without a running server.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// ErrNoDocument is returned by FindOne when no document matches the filter.
var ErrNoDocument = errors.New("no matching document")

// UpdateResult reports how many documents an update matched and modified.
type UpdateResult struct {
	Matched  int64
	Modified int64
}

// Collection is the slice of a document collection the repositories use.
// Filters and updates are plain bson documents; the caller owns their shape.
type Collection interface {
	Find(ctx context.Context, filter bson.M) ([]bson.M, error)
	FindOne(ctx context.Context, filter bson.M) (bson.M, error)
	InsertOne(ctx context.Context, doc bson.M) (primitive.ObjectID, error)
	UpdateOne(ctx context.Context, filter, update bson.M) (UpdateResult, error)
}

// Database hands out collections by name.
type Database interface {
	Collection(name string) Collection
}

// DB holds the active store connection. Database returns nil when no
// connection is established; the repository manager translates that into its
// connection error.
type DB struct {
	client   *mongo.Client
	database Database
}

// Connect establishes a MongoDB connection and verifies it with a ping.
func Connect(ctx context.Context, uri, name string) (*DB, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &DB{
		client:   client,
		database: &mongoDatabase{db: client.Database(name)},
	}, nil
}

// NewWithDatabase wraps an already-constructed database, bypassing the
// MongoDB client. Used with the in-memory database in tests.
func NewWithDatabase(database Database) *DB {
	return &DB{database: database}
}

// Database returns the active database, or nil when disconnected.
func (db *DB) Database() Database {
	if db == nil {
		return nil
	}
	return db.database
}

// Disconnect releases the underlying client connection, if any.
func (db *DB) Disconnect(ctx context.Context) error {
	if db == nil || db.client == nil {
		return nil
	}
	return db.client.Disconnect(ctx)
}

type mongoDatabase struct {
	db *mongo.Database
}

func (d *mongoDatabase) Collection(name string) Collection {
	return &mongoCollection{coll: d.db.Collection(name)}
}

type mongoCollection struct {
	coll *mongo.Collection
}

func (c *mongoCollection) Find(ctx context.Context, filter bson.M) ([]bson.M, error) {
	cursor, err := c.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find failed: %w", err)
	}
	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("cursor decode failed: %w", err)
	}
	return docs, nil
}

func (c *mongoCollection) FindOne(ctx context.Context, filter bson.M) (bson.M, error) {
	var doc bson.M
	err := c.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoDocument
	}
	if err != nil {
		return nil, fmt.Errorf("find one failed: %w", err)
	}
	return doc, nil
}

func (c *mongoCollection) InsertOne(ctx context.Context, doc bson.M) (primitive.ObjectID, error) {
	res, err := c.coll.InsertOne(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert failed: %w", err)
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return id, nil
}

func (c *mongoCollection) UpdateOne(ctx context.Context, filter, update bson.M) (UpdateResult, error) {
	res, err := c.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return UpdateResult{}, fmt.Errorf("update failed: %w", err)
	}
	return UpdateResult{Matched: res.MatchedCount, Modified: res.ModifiedCount}, nil
}
