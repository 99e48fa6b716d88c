package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// Container is a partition-aware, create-only adapter over one collection.
// Every entity lives in exactly one partition, scoped by the value of its
// designated partition field. Conflict detection is delegated entirely to
// the store's unique-key enforcement; the adapter holds no locks.
type Container[T any] struct {
	coll           *mongo.Collection
	partitionField string
	log            *slog.Logger
}

func NewContainer[T any](coll *mongo.Collection, partitionField string, log *slog.Logger) *Container[T] {
	if log == nil {
		log = slog.Default()
	}
	return &Container[T]{coll: coll, partitionField: partitionField, log: log}
}

// Create persists a new entity under the given partition key. The partition
// field in the stored document is set from the argument, making the caller's
// key authoritative over whatever the encoded entity carried.
func (c *Container[T]) Create(ctx context.Context, entity *T, partitionKey string) error {
	if partitionKey == "" {
		return fmt.Errorf("store: empty partition key for %s", c.coll.Name())
	}
	doc, err := Encode(entity)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", c.coll.Name(), err)
	}
	doc[c.partitionField] = partitionKey
	if _, err := c.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConflict
		}
		return fmt.Errorf("store: insert %s: %w", c.coll.Name(), err)
	}
	return nil
}

// Get reads one entity by id within a partition.
func (c *Container[T]) Get(ctx context.Context, id uuid.UUID, partitionKey string) (*T, error) {
	return c.findOne(ctx, bson.M{"_id": HexID(id), c.partitionField: partitionKey})
}

// Find is the cross-partition point lookup: it matches on the identifier
// alone. Feedback read-one uses it because feedbacks are partitioned by
// owner and the owner is unknown at read time.
func (c *Container[T]) Find(ctx context.Context, id uuid.UUID) (*T, error) {
	return c.findOne(ctx, bson.M{"_id": HexID(id)})
}

func (c *Container[T]) findOne(ctx context.Context, filter bson.M) (*T, error) {
	var doc bson.M
	err := c.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", c.coll.Name(), err)
	}
	var out T
	if err := Decode(doc, &out); err != nil {
		return nil, fmt.Errorf("store: decode %s: %w", c.coll.Name(), err)
	}
	return &out, nil
}

// QueryPartition lists every entity in one partition.
func (c *Container[T]) QueryPartition(ctx context.Context, partitionKey string) ([]T, error) {
	return c.query(ctx, bson.M{c.partitionField: partitionKey})
}

// QueryAll lists every entity across all partitions.
func (c *Container[T]) QueryAll(ctx context.Context) ([]T, error) {
	return c.query(ctx, bson.M{})
}

func (c *Container[T]) query(ctx context.Context, filter bson.M) ([]T, error) {
	cursor, err := c.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("store: query %s: %w", c.coll.Name(), err)
	}
	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("store: query %s: %w", c.coll.Name(), err)
	}
	return decodeAll[T](c.coll.Name(), docs, c.log), nil
}

// decodeAll decodes each document independently so a single malformed record
// is skipped and logged instead of failing the whole listing.
func decodeAll[T any](collection string, docs []bson.M, log *slog.Logger) []T {
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		var item T
		if err := Decode(doc, &item); err != nil {
			log.Warn("skipping malformed record", "collection", collection, "id", doc["_id"], "error", err)
			continue
		}
		out = append(out, item)
	}
	return out
}

// EnsureIndexes creates the partition-field index used by partition-scoped
// queries. Identifier uniqueness rides on the _id index.
func (c *Container[T]) EnsureIndexes(ctx context.Context) error {
	_, err := c.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: c.partitionField, Value: 1}},
	})
	return err
}
