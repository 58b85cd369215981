package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCache stores entries as documents in a MongoDB collection. A TTL
// index on expires_at lets the server purge expired entries; reads check
// expiration as well since the purge runs only periodically.
type MongoCache struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// mongoEntry is the stored document.
type mongoEntry struct {
	Key       string     `bson:"_id"`
	Data      []byte     `bson:"data"`
	ExpiresAt *time.Time `bson:"expires_at,omitempty"`
}

// NewMongoCache connects to MongoDB at uri and uses database.collection.
func NewMongoCache(ctx context.Context, uri, database, collection string) (*MongoCache, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	coll := client.Database(database).Collection(collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("create ttl index: %w", err)
	}
	return &MongoCache{client: client, coll: coll}, nil
}

// Get retrieves a value from MongoDB.
func (c *MongoCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var entry mongoEntry
	err := c.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, Transient(err)
	}
	if entry.ExpiresAt != nil && time.Now().After(*entry.ExpiresAt) {
		return nil, false, nil
	}
	return entry.Data, true, nil
}

// Set upserts a value in MongoDB.
func (c *MongoCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	entry := mongoEntry{Key: key, Data: data}
	if ttl > 0 {
		exp := time.Now().Add(ttl)
		entry.ExpiresAt = &exp
	}
	_, err := c.coll.ReplaceOne(ctx, bson.M{"_id": key}, entry, options.Replace().SetUpsert(true))
	if err != nil {
		return Transient(err)
	}
	return nil
}

// Delete removes a value from MongoDB.
func (c *MongoCache) Delete(ctx context.Context, key string) error {
	_, err := c.coll.DeleteOne(ctx, bson.M{"_id": key})
	return err
}

// Clear deletes every document in the collection.
func (c *MongoCache) Clear(ctx context.Context) error {
	_, err := c.coll.DeleteMany(ctx, bson.M{})
	return err
}

// Close disconnects the client.
func (c *MongoCache) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return c.client.Disconnect(ctx)
}

var (
	_ Cache   = (*MongoCache)(nil)
	_ Clearer = (*MongoCache)(nil)
)
