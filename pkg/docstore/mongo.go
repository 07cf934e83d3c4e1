package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	mongoConnectTimeout = 5 * time.Second
	mongoPingTimeout    = 3 * time.Second
)

// Mongo is the MongoDB-backed Database.
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
}

// OpenMongo connects to uri, verifies the connection and selects database
// name. On failure the client is disconnected and the error wraps
// ErrUnavailable so the caller can fall back to an offline store.
func OpenMongo(ctx context.Context, uri, name string) (*Mongo, error) {
	opts := options.Client().ApplyURI(uri).
		SetConnectTimeout(mongoConnectTimeout).
		SetServerSelectionTimeout(mongoConnectTimeout).
		SetMaxPoolSize(50).
		SetMinPoolSize(2).
		SetMaxConnIdleTime(5 * time.Minute)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, unavailable(fmt.Errorf("mongo connect: %w", err))
	}

	pingCtx, cancel := context.WithTimeout(ctx, mongoPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, unavailable(fmt.Errorf("mongo ping: %w", err))
	}

	return &Mongo{client: client, db: client.Database(name)}, nil
}

// Database exposes the underlying handle, e.g. for the log sink.
func (m *Mongo) Database() *mongo.Database { return m.db }

func (m *Mongo) Insert(ctx context.Context, collection string, doc Document) (string, error) {
	stored := make(bson.M, len(doc)+1)
	for k, v := range doc {
		stored[k] = v
	}
	if _, ok := stored[IDKey]; !ok {
		stored[IDKey] = NewID()
	}

	if _, err := m.db.Collection(collection).InsertOne(ctx, stored); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", fmt.Errorf("%w: %v", ErrDuplicateKey, err)
		}
		return "", m.wrap("insert", err)
	}
	return IDString(stored), nil
}

func (m *Mongo) Find(ctx context.Context, collection string, filter Filter, limit int64) ([]Document, error) {
	opts := options.Find().SetSort(bson.D{{Key: IDKey, Value: 1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cur, err := m.db.Collection(collection).Find(ctx, bsonFilter(filter), opts)
	if err != nil {
		return nil, m.wrap("find", err)
	}
	defer cur.Close(ctx)

	var rows []bson.M
	if err := cur.All(ctx, &rows); err != nil {
		return nil, m.wrap("find", err)
	}

	out := make([]Document, 0, len(rows))
	for _, row := range rows {
		out = append(out, Document(row))
	}
	return out, nil
}

func (m *Mongo) FindOne(ctx context.Context, collection string, filter Filter) (Document, bool, error) {
	var row bson.M
	err := m.db.Collection(collection).FindOne(ctx, bsonFilter(filter)).Decode(&row)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, m.wrap("find one", err)
	}
	return Document(row), true, nil
}

func (m *Mongo) UpdateOne(ctx context.Context, collection string, filter Filter, patch Document) (int64, error) {
	set := bson.M{}
	for k, v := range patch {
		if k != IDKey {
			set[k] = v
		}
	}
	res, err := m.db.Collection(collection).UpdateOne(ctx, bsonFilter(filter), bson.M{"$set": set})
	if err != nil {
		return 0, m.wrap("update", err)
	}
	return res.MatchedCount, nil
}

func (m *Mongo) DeleteMany(ctx context.Context, collection string, filter Filter) (int64, error) {
	res, err := m.db.Collection(collection).DeleteMany(ctx, bsonFilter(filter))
	if err != nil {
		return 0, m.wrap("delete", err)
	}
	return res.DeletedCount, nil
}

func (m *Mongo) Count(ctx context.Context, collection string, filter Filter) (int64, error) {
	n, err := m.db.Collection(collection).CountDocuments(ctx, bsonFilter(filter))
	if err != nil {
		return 0, m.wrap("count", err)
	}
	return n, nil
}

func (m *Mongo) Name() string   { return m.db.Name() }
func (m *Mongo) Driver() string { return "mongo" }

func (m *Mongo) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, mongoPingTimeout)
	defer cancel()
	if err := m.client.Ping(pingCtx, readpref.Primary()); err != nil {
		return unavailable(err)
	}
	return nil
}

func (m *Mongo) Collections(ctx context.Context) ([]string, error) {
	names, err := m.db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, m.wrap("list collections", err)
	}
	return names, nil
}

func (m *Mongo) EnsureIndexes(ctx context.Context, specs []IndexSpec) error {
	for _, ix := range specs {
		model := mongo.IndexModel{
			Keys:    bson.D{{Key: ix.Field, Value: 1}},
			Options: options.Index().SetUnique(ix.Unique),
		}
		if _, err := m.db.Collection(ix.Collection).Indexes().CreateOne(ctx, model); err != nil {
			return m.wrap(fmt.Sprintf("index %s.%s", ix.Collection, ix.Field), err)
		}
	}
	return nil
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// wrap tags connectivity failures with ErrUnavailable and leaves other
// driver errors as they are.
func (m *Mongo) wrap(op string, err error) error {
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) ||
		errors.Is(err, mongo.ErrClientDisconnected) ||
		errors.Is(err, context.DeadlineExceeded) {
		return unavailable(fmt.Errorf("mongo %s: %w", op, err))
	}
	return fmt.Errorf("mongo %s: %w", op, err)
}

func bsonFilter(filter Filter) bson.M {
	if len(filter) == 0 {
		return bson.M{}
	}
	return bson.M(filter)
}
