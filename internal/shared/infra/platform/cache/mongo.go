package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCache guarda cada clave como un documento {_id, payload, updatedAt}.
// El payload se guarda como JSON en texto para no depender del mapeo BSON de los registros.
type MongoCache struct {
	coll *mongo.Collection
}

var _ Cache = (*MongoCache)(nil)

type mongoEntry struct {
	Key       string    `bson:"_id"`
	Payload   string    `bson:"payload"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func NewMongoCache(db *mongo.Database, collection string) *MongoCache {
	return &MongoCache{coll: db.Collection(collection)}
}

func (c *MongoCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	var entry mongoEntry
	err := c.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal([]byte(entry.Payload), dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *MongoCache) Set(ctx context.Context, key string, val interface{}) error {
	data, err := json.Marshal(val)
	if err != nil {
		return err
	}
	entry := mongoEntry{Key: key, Payload: string(data), UpdatedAt: time.Now().UTC()}
	_, err = c.coll.ReplaceOne(ctx, bson.M{"_id": key}, entry, options.Replace().SetUpsert(true))
	return err
}

func (c *MongoCache) Delete(ctx context.Context, key string) error {
	_, err := c.coll.DeleteOne(ctx, bson.M{"_id": key})
	return err
}
