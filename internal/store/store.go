// Package store provides access to the document store backing the
// marketplace directory. It contains the connection manager for the real
// MongoDB backend (mongo.go), an in-memory backend with identical
// semantics (memory.go), and the driver-neutral query model both
// implement.
//
// The repository layer talks exclusively to the Store and Collection
// interfaces below, so backends are interchangeable: tests and local
// development run against the memory backend, production runs against
// MongoDB.
package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNoDocuments is returned by FindOne when the filter matches nothing.
var ErrNoDocuments = errors.New("store: no documents in result")

// ConnectionError wraps a failure to reach the document store. The
// connection manager guarantees its handle cache is never populated with
// a broken handle when one of these is returned, so a later call may
// retry the connection.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("store: connection failed: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// Store produces ready-to-use collection handles and reports store
// reachability. Implementations must be safe for concurrent use.
type Store interface {
	// Collection returns a handle to the named collection, establishing
	// the underlying connection on first use. Concurrent first calls
	// converge on a single connection attempt.
	Collection(ctx context.Context, name string) (Collection, error)

	// Ping reports whether the store is reachable. It never returns an
	// error; unreachable simply yields false.
	Ping(ctx context.Context) bool
}

// Collection is the subset of document-store operations the repository
// layer needs. Documents cross the boundary as BSON: writes accept any
// bson-marshalable value, reads return raw documents for the caller to
// decode.
type Collection interface {
	// InsertOne persists a new document and returns its assigned id.
	InsertOne(ctx context.Context, doc any) (primitive.ObjectID, error)

	// FindOne returns the first document matching the filter, or
	// ErrNoDocuments.
	FindOne(ctx context.Context, f Filter) (bson.Raw, error)

	// Find returns the documents matching the filter under the given
	// sort/skip/limit options.
	Find(ctx context.Context, f Filter, o FindOptions) ([]bson.Raw, error)

	// UpdateOne applies a partial $set-style update to the first
	// document matching the filter and reports how many matched (0 or 1).
	// Fields absent from set are left untouched.
	UpdateOne(ctx context.Context, f Filter, set bson.M) (int64, error)

	// CountDocuments counts the documents matching the filter.
	CountDocuments(ctx context.Context, f Filter) (int64, error)
}

// Filter is the driver-neutral selection criteria shared by both
// backends. The zero value matches every active document.
type Filter struct {
	// ID restricts the match to a single document when non-zero.
	ID primitive.ObjectID

	// IncludeInactive lifts the implicit isActive=true restriction.
	// Only the soft-delete path sets this: a record already inactive is
	// still found and re-marked, which makes delete idempotent.
	IncludeInactive bool

	// Equals requires exact field matches (e.g. subscriptionTier).
	Equals map[string]any

	// Search, when non-empty, requires a case-insensitive substring
	// match against at least one of SearchFields (logical OR).
	Search       string
	SearchFields []string
}

// FindOptions controls ordering and slicing of Find results.
type FindOptions struct {
	SortField string // empty means natural store order
	SortDesc  bool
	Skip      int64
	Limit     int64 // 0 means no limit
}
