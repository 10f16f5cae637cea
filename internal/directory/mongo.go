// Package directory adapts the external User Directory: it persists
// last-known presence out of the session hot path. The gateway never
// owns this data; every write here is advisory.
package directory

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Directory writes online flags to the directory's users collection.
type Directory struct {
	col *mongo.Collection
}

func NewDirectory(db *mongo.Database, collection string) *Directory {
	return &Directory{col: db.Collection(collection)}
}

// SetOnlineFlag upserts the user's is_online flag and last_seen time.
func (d *Directory) SetOnlineFlag(ctx context.Context, userID string, online bool) error {
	filter := bson.M{"user_id": userID}
	update := bson.M{"$set": bson.M{
		"is_online": online,
		"last_seen": time.Now().UTC(),
	}}
	_, err := d.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}
