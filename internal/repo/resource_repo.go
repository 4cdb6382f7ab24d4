// Package repo implements the generic data-access layer for directory
// records, backed by the document store. One algorithm serves every
// record kind: a Repository is instantiated per kind from a Descriptor
// (collection name plus searchable fields) instead of duplicating the
// pagination/search/soft-delete pattern per resource.
//
// All operations are context-aware and fetch their collection handle
// from the store on each call, so connection lifecycle stays with the
// store's connection manager.
//
// Error semantics:
//   - ErrInvalidID for malformed ids, always before any store call.
//   - ErrNotFound when no active record matches (soft-deleted records
//     are invisible to reads and updates; only SoftDelete itself still
//     finds them, which is what makes delete idempotent).
//   - ErrEmptyUpdate for updates with nothing to change.
//   - Store and driver errors are propagated for the service layer to
//     wrap; they are never interpreted here.
package repo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/coffeebridge/go-market-backend/internal/domain"
	"github.com/coffeebridge/go-market-backend/internal/store"
	"github.com/coffeebridge/go-market-backend/internal/utils"
)

// Descriptor parameterizes the generic repository for one record kind.
type Descriptor struct {
	// Collection is the store collection holding this kind.
	Collection string

	// SearchFields is the fixed set of text fields the Search operation
	// matches against.
	SearchFields []string
}

// Record is implemented by any domain model embedding domain.Meta.
type Record interface {
	DocMeta() *domain.Meta
}

// Repository is the generic paginated, searchable, soft-deletable
// resource repository. T is the record struct, PT its pointer type
// (e.g. Repository[domain.Farmer, *domain.Farmer]).
type Repository[T any, PT interface {
	*T
	Record
}] struct {
	store store.Store
	desc  Descriptor

	// now is injectable for deterministic timestamps in tests.
	now func() time.Time
}

// New constructs a Repository over the given store.
func New[T any, PT interface {
	*T
	Record
}](s store.Store, desc Descriptor) *Repository[T, PT] {
	return &Repository[T, PT]{
		store: s,
		desc:  desc,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the timestamp source. Test hook.
func (r *Repository[T, PT]) WithClock(now func() time.Time) *Repository[T, PT] {
	r.now = now
	return r
}

// collection obtains the collection handle from the connection manager.
func (r *Repository[T, PT]) collection(ctx context.Context) (store.Collection, error) {
	return r.store.Collection(ctx, r.desc.Collection)
}

// Create stamps the lifecycle fields (createdAt=updatedAt=now,
// isActive=true), persists the record, and returns it with its assigned
// id. Input validation is the service layer's job and has already
// happened by the time a record reaches this method.
func (r *Repository[T, PT]) Create(ctx context.Context, rec PT) (PT, error) {
	col, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	meta := rec.DocMeta()
	now := r.now()
	meta.ID = primitive.NilObjectID
	meta.CreatedAt = now
	meta.UpdatedAt = now
	meta.IsActive = true

	id, err := col.InsertOne(ctx, rec)
	if err != nil {
		return nil, err
	}
	meta.ID = id
	return rec, nil
}

// GetByID returns the active record with the given id. A malformed id
// yields ErrInvalidID without touching the store; a missing or
// soft-deleted record yields ErrNotFound.
func (r *Repository[T, PT]) GetByID(ctx context.Context, id string) (PT, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	col, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	raw, err := col.FindOne(ctx, store.Filter{ID: oid})
	if errors.Is(err, store.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decode[T, PT](raw)
}

// List returns one page of active records plus the total count over the
// same filter. The default ordering is createdAt descending.
func (r *Repository[T, PT]) List(ctx context.Context, page utils.PageRequest) ([]PT, utils.PageMeta, error) {
	return r.page(ctx, store.Filter{}, page)
}

// Search behaves like List with an additional case-insensitive
// substring match of query against the descriptor's searchable fields
// (logical OR). An empty query matches every active record.
func (r *Repository[T, PT]) Search(ctx context.Context, query string, page utils.PageRequest) ([]PT, utils.PageMeta, error) {
	return r.page(ctx, store.Filter{Search: query, SearchFields: r.desc.SearchFields}, page)
}

// ListAllWhere returns every active record whose field equals value,
// newest first, without pagination. Backs the categorical filter
// operations (e.g. roasters by subscription tier).
func (r *Repository[T, PT]) ListAllWhere(ctx context.Context, field string, value any) ([]PT, error) {
	col, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}
	raws, err := col.Find(ctx,
		store.Filter{Equals: map[string]any{field: value}},
		store.FindOptions{SortField: "createdAt", SortDesc: true},
	)
	if err != nil {
		return nil, err
	}
	return decodeAll[T, PT](raws)
}

// page runs the shared filter → count → sorted slice pipeline. The
// total is computed over the full filter, not the returned slice, so
// totalPages reflects the whole result set.
func (r *Repository[T, PT]) page(ctx context.Context, f store.Filter, page utils.PageRequest) ([]PT, utils.PageMeta, error) {
	if err := page.Validate(); err != nil {
		return nil, utils.PageMeta{}, err
	}
	col, err := r.collection(ctx)
	if err != nil {
		return nil, utils.PageMeta{}, err
	}

	total, err := col.CountDocuments(ctx, f)
	if err != nil {
		return nil, utils.PageMeta{}, err
	}

	sortBy := page.SortBy
	if sortBy == "" {
		sortBy = "createdAt"
	}
	raws, err := col.Find(ctx, f, store.FindOptions{
		SortField: sortBy,
		SortDesc:  page.Descending(),
		Skip:      page.Skip(),
		Limit:     int64(page.Limit),
	})
	if err != nil {
		return nil, utils.PageMeta{}, err
	}

	items, err := decodeAll[T, PT](raws)
	if err != nil {
		return nil, utils.PageMeta{}, err
	}
	return items, utils.NewPageMeta(page, total), nil
}

// Update applies the given fields to the active record with the given
// id (merge semantics: absent fields stay untouched), refreshes
// updatedAt, and returns the post-update record. An empty set yields
// ErrEmptyUpdate before any store call.
func (r *Repository[T, PT]) Update(ctx context.Context, id string, set map[string]any) (PT, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	if len(set) == 0 {
		return nil, ErrEmptyUpdate
	}
	col, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	doc := bson.M{}
	for k, v := range set {
		doc[k] = v
	}
	doc["updatedAt"] = r.now()

	matched, err := col.UpdateOne(ctx, store.Filter{ID: oid}, doc)
	if err != nil {
		return nil, err
	}
	if matched == 0 {
		return nil, ErrNotFound
	}

	raw, err := col.FindOne(ctx, store.Filter{ID: oid})
	if errors.Is(err, store.ErrNoDocuments) {
		// The record was deactivated between the write and the
		// read-back. Gone is gone.
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decode[T, PT](raw)
}

// SoftDelete marks the record inactive and refreshes updatedAt. The
// lookup deliberately includes inactive records: deleting an already
// deleted record succeeds again, and nothing is ever removed from
// storage.
func (r *Repository[T, PT]) SoftDelete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	col, err := r.collection(ctx)
	if err != nil {
		return err
	}

	matched, err := col.UpdateOne(ctx,
		store.Filter{ID: oid, IncludeInactive: true},
		bson.M{"isActive": false, "updatedAt": r.now()},
	)
	if err != nil {
		return err
	}
	if matched == 0 {
		return ErrNotFound
	}
	return nil
}

// parseID validates the identifier shape before any store access.
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return oid, nil
}

func decode[T any, PT interface {
	*T
	Record
}](raw bson.Raw) (PT, error) {
	var rec T
	if err := bson.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	return PT(&rec), nil
}

func decodeAll[T any, PT interface {
	*T
	Record
}](raws []bson.Raw) ([]PT, error) {
	out := make([]PT, 0, len(raws))
	for _, raw := range raws {
		rec, err := decode[T, PT](raw)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}
