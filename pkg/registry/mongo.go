package registry

import (
	"context"
	stderrors "errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/molcanon/pkg/errors"
)

// MongoConfig configures a MongoStore.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string // default "molecules"
}

// MongoStore keeps entries in a MongoDB collection with a unique index on key.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects, pings the server and ensures the unique key index.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Collection == "" {
		cfg.Collection = "molecules"
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "connect to mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "ping mongo")
	}

	coll := client.Database(cfg.Database).Collection(cfg.Collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "key", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "create key index")
	}
	return &MongoStore{client: client, coll: coll}, nil
}

func (s *MongoStore) Put(ctx context.Context, e Entry) (Entry, bool, error) {
	e, err := prepare(e)
	if err != nil {
		return Entry{}, false, err
	}
	_, err = s.coll.InsertOne(ctx, e)
	if mongo.IsDuplicateKeyError(err) {
		existing, err := s.Get(ctx, e.Key)
		return existing, false, err
	}
	if err != nil {
		return Entry{}, false, errors.Wrap(errors.ErrCodeStorage, err, "register %s", e.Key)
	}
	return e, true, nil
}

func (s *MongoStore) Get(ctx context.Context, k string) (Entry, error) {
	k, err := normalize(k)
	if err != nil {
		return Entry{}, err
	}
	var e Entry
	err = s.coll.FindOne(ctx, bson.M{"key": k}).Decode(&e)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return Entry{}, notFound(k)
	}
	if err != nil {
		return Entry{}, errors.Wrap(errors.ErrCodeStorage, err, "lookup %s", k)
	}
	return e, nil
}

func (s *MongoStore) List(ctx context.Context) ([]Entry, error) {
	cur, err := s.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "key", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list registry")
	}
	var out []Entry
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "decode registry")
	}
	// mongo collation may differ from byte order
	sortByKey(out)
	return out, nil
}

func (s *MongoStore) Count(ctx context.Context) (int, error) {
	n, err := s.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeStorage, err, "count registry")
	}
	return int(n), nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}

var _ Store = (*MongoStore)(nil)
