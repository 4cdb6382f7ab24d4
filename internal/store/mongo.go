// MongoDB backend and connection manager.
//
// The Manager lazily establishes a single client per process and hands
// out collection handles bound to the configured logical database.
// The first caller dials; concurrent first callers block on the same
// mutex and reuse the handle the winner cached, so the store sees
// exactly one connection attempt. A failed dial leaves the cache empty,
// and a failed health-check ping clears it, so the next call
// re-attempts the connection.
package store

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// DialFunc establishes a connected, verified client. It is a seam so
// tests can count and stub connection attempts.
type DialFunc func(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error)

// dialMongo is the production DialFunc: connect, then ping to verify
// the deployment is actually reachable before the handle is cached.
func dialMongo(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	opts := options.Client().ApplyURI(uri).SetConnectTimeout(timeout)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

// Manager implements Store over a cached MongoDB client. The zero value
// is not usable; construct with NewManager.
type Manager struct {
	uri     string
	dbName  string
	timeout time.Duration

	dial DialFunc

	mu     sync.Mutex
	client *mongo.Client
	db     *mongo.Database
}

// NewManager returns a Manager for the given connection string and
// logical database name. No connection is made until the first
// Collection or Ping call. timeout bounds the dial and verification
// ping.
func NewManager(uri, dbName string, timeout time.Duration) *Manager {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Manager{
		uri:     uri,
		dbName:  dbName,
		timeout: timeout,
		dial:    dialMongo,
	}
}

// Collection returns a handle to the named collection, connecting on
// first use. A dial failure is reported as *ConnectionError and the
// cache stays empty so a later call retries.
func (m *Manager) Collection(ctx context.Context, name string) (Collection, error) {
	db, err := m.database(ctx)
	if err != nil {
		return nil, err
	}
	return &mongoCollection{col: db.Collection(name)}, nil
}

// database returns the cached database handle, dialing under the lock
// when the cache is empty. Holding the mutex across the dial is what
// collapses concurrent first calls into one attempt: the losers block
// here and find the cache populated when the winner releases the lock.
func (m *Manager) database(ctx context.Context) (*mongo.Database, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.db != nil {
		return m.db, nil
	}
	client, err := m.dial(ctx, m.uri, m.timeout)
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}
	m.client = client
	m.db = client.Database(m.dbName)
	return m.db, nil
}

// Ping reports store reachability without returning an error. A failed
// ping clears the cached handle so the next operation reconnects.
func (m *Manager) Ping(ctx context.Context) bool {
	m.mu.Lock()
	client := m.client
	m.mu.Unlock()

	if client == nil {
		if _, err := m.database(ctx); err != nil {
			return false
		}
		return true
	}

	pingCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		m.Reset()
		return false
	}
	return true
}

// Reset drops the cached handle. The abandoned client is disconnected
// best effort in the background.
func (m *Manager) Reset() {
	m.mu.Lock()
	client := m.client
	m.client = nil
	m.db = nil
	m.mu.Unlock()

	if client != nil {
		go func() { _ = client.Disconnect(context.Background()) }()
	}
}

// Disconnect closes the cached client, if any. Called on process
// shutdown; per-request teardown does not exist by design.
func (m *Manager) Disconnect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.client == nil {
		return nil
	}
	err := m.client.Disconnect(ctx)
	m.client = nil
	m.db = nil
	return err
}

// mongoCollection adapts *mongo.Collection to the Collection interface.
type mongoCollection struct {
	col *mongo.Collection
}

func (c *mongoCollection) InsertOne(ctx context.Context, doc any) (primitive.ObjectID, error) {
	res, err := c.col.InsertOne(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, nil
	}
	return id, nil
}

func (c *mongoCollection) FindOne(ctx context.Context, f Filter) (bson.Raw, error) {
	raw, err := c.col.FindOne(ctx, toBson(f)).Raw()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoDocuments
	}
	return raw, err
}

func (c *mongoCollection) Find(ctx context.Context, f Filter, o FindOptions) ([]bson.Raw, error) {
	opts := options.Find()
	if o.SortField != "" {
		dir := 1
		if o.SortDesc {
			dir = -1
		}
		opts.SetSort(bson.D{{Key: o.SortField, Value: dir}})
	}
	if o.Skip > 0 {
		opts.SetSkip(o.Skip)
	}
	if o.Limit > 0 {
		opts.SetLimit(o.Limit)
	}

	cur, err := c.col.Find(ctx, toBson(f), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []bson.Raw
	for cur.Next(ctx) {
		raw := make(bson.Raw, len(cur.Current))
		copy(raw, cur.Current)
		out = append(out, raw)
	}
	return out, cur.Err()
}

func (c *mongoCollection) UpdateOne(ctx context.Context, f Filter, set bson.M) (int64, error) {
	res, err := c.col.UpdateOne(ctx, toBson(f), bson.M{"$set": set})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

func (c *mongoCollection) CountDocuments(ctx context.Context, f Filter) (int64, error) {
	return c.col.CountDocuments(ctx, toBson(f))
}

// toBson translates the neutral Filter into a MongoDB filter document.
// Search terms are regex-escaped so user input is matched literally.
func toBson(f Filter) bson.M {
	m := bson.M{}
	if !f.IncludeInactive {
		m["isActive"] = true
	}
	if f.ID != primitive.NilObjectID {
		m["_id"] = f.ID
	}
	for k, v := range f.Equals {
		m[k] = v
	}
	if f.Search != "" && len(f.SearchFields) > 0 {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		or := make(bson.A, 0, len(f.SearchFields))
		for _, field := range f.SearchFields {
			or = append(or, bson.M{field: re})
		}
		m["$or"] = or
	}
	return m
}
