package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/tablistplus/pkg/errors"
)

// MongoConfig configures a MongoStore.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// MongoStore keeps one document per hidden player.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// hiddenDoc is the document stored per hidden player.
type hiddenDoc struct {
	ID       string    `bson:"_id"`
	HiddenAt time.Time `bson:"hidden_at"`
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (Store, error) {
	if cfg.Database == "" || cfg.Collection == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "mongo store needs a database and a collection")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "mongo uri")
	}
	if err := instrument(ctx, "mongo", "ping", func() error {
		return mongoTransient(client.Ping(ctx, nil))
	}); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connecting to mongo")
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Hide upserts the player's document.
func (s *MongoStore) Hide(ctx context.Context, id uuid.UUID) error {
	return instrument(ctx, "mongo", "hide", func() error {
		_, err := s.coll.UpdateOne(ctx,
			bson.M{"_id": id.String()},
			bson.M{"$setOnInsert": bson.M{"hidden_at": time.Now().UTC()}},
			options.Update().SetUpsert(true),
		)
		return mongoTransient(err)
	})
}

// Unhide deletes the player's document.
func (s *MongoStore) Unhide(ctx context.Context, id uuid.UUID) error {
	return instrument(ctx, "mongo", "unhide", func() error {
		_, err := s.coll.DeleteOne(ctx, bson.M{"_id": id.String()})
		return mongoTransient(err)
	})
}

// Hidden returns the IDs of all documents. Documents whose ID is not a
// valid UUID are ignored.
func (s *MongoStore) Hidden(ctx context.Context) ([]uuid.UUID, error) {
	var docs []hiddenDoc
	err := instrument(ctx, "mongo", "hidden", func() error {
		cur, err := s.coll.Find(ctx, bson.M{})
		if err != nil {
			return mongoTransient(err)
		}
		docs = docs[:0]
		return mongoTransient(cur.All(ctx, &docs))
	})
	if err != nil {
		return nil, err
	}
	set := make(map[uuid.UUID]struct{}, len(docs))
	for _, d := range docs {
		if id, err := uuid.Parse(d.ID); err == nil {
			set[id] = struct{}{}
		}
	}
	return sortedIDs(set), nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func mongoTransient(err error) error {
	if err != nil && (mongo.IsNetworkError(err) || mongo.IsTimeout(err)) {
		return Retryable(err)
	}
	return transient(err)
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
