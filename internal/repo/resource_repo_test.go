package repo

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/coffeebridge/go-market-backend/internal/domain"
	"github.com/coffeebridge/go-market-backend/internal/store"
	"github.com/coffeebridge/go-market-backend/internal/utils"
)

func newFarmerRepo() (*Repository[domain.Farmer, *domain.Farmer], *store.Memory) {
	s := store.NewMemory()
	r := New[domain.Farmer, *domain.Farmer](s, Descriptor{
		Collection:   domain.CollectionFarmers,
		SearchFields: domain.FarmerSearchFields,
	})
	return r, s
}

// tick returns a fake clock advancing one second per call.
func tick(start time.Time) func() time.Time {
	t := start
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func mustCreate(t *testing.T, r *Repository[domain.Farmer, *domain.Farmer], f *domain.Farmer) *domain.Farmer {
	t.Helper()
	created, err := r.Create(context.Background(), f)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return created
}

func TestRepository_CreateStampsLifecycle(t *testing.T) {
	r, _ := newFarmerRepo()
	r.WithClock(tick(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))

	created := mustCreate(t, r, &domain.Farmer{Name: "Finca Alta", Email: "a@b.co", Location: "Huila, Colombia"})

	if created.ID == primitive.NilObjectID {
		t.Fatalf("id not assigned")
	}
	if !created.IsActive {
		t.Fatalf("new record must be active")
	}
	if created.CreatedAt.IsZero() || !created.CreatedAt.Equal(created.UpdatedAt) {
		t.Fatalf("createdAt/updatedAt = %v/%v; want equal and non-zero",
			created.CreatedAt, created.UpdatedAt)
	}
}

func TestRepository_GetByID(t *testing.T) {
	r, _ := newFarmerRepo()
	ctx := context.Background()

	created := mustCreate(t, r, &domain.Farmer{Name: "Finca Alta", Email: "a@b.co", Location: "Huila"})

	got, err := r.GetByID(ctx, created.ID.Hex())
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Finca Alta" || got.ID != created.ID {
		t.Fatalf("round-trip mismatch: %+v", got)
	}

	if _, err := r.GetByID(ctx, primitive.NewObjectID().Hex()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing id: got %v; want ErrNotFound", err)
	}
}

// failingStore satisfies store.Store and fails the test if touched:
// malformed ids must be rejected before any store access.
type failingStore struct{ t *testing.T }

func (f failingStore) Collection(context.Context, string) (store.Collection, error) {
	f.t.Fatalf("store must not be touched for a malformed id")
	return nil, nil
}
func (failingStore) Ping(context.Context) bool { return true }

func TestRepository_InvalidIDRejectedBeforeStore(t *testing.T) {
	r := New[domain.Farmer, *domain.Farmer](failingStore{t}, Descriptor{Collection: "farmers"})
	ctx := context.Background()

	for _, id := range []string{"", "nope", "123", "zzzzzzzzzzzzzzzzzzzzzzzz"} {
		if _, err := r.GetByID(ctx, id); !errors.Is(err, ErrInvalidID) {
			t.Fatalf("GetByID(%q) = %v; want ErrInvalidID", id, err)
		}
		if _, err := r.Update(ctx, id, map[string]any{"name": "x"}); !errors.Is(err, ErrInvalidID) {
			t.Fatalf("Update(%q) = %v; want ErrInvalidID", id, err)
		}
		if err := r.SoftDelete(ctx, id); !errors.Is(err, ErrInvalidID) {
			t.Fatalf("SoftDelete(%q) = %v; want ErrInvalidID", id, err)
		}
	}
}

func TestRepository_SoftDeleteInvariant(t *testing.T) {
	r, s := newFarmerRepo()
	ctx := context.Background()

	created := mustCreate(t, r, &domain.Farmer{Name: "Finca Alta", Email: "a@b.co", Location: "Huila"})
	id := created.ID.Hex()

	if err := r.SoftDelete(ctx, id); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}

	// Invisible to every read path.
	if _, err := r.GetByID(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deleted record still readable: %v", err)
	}
	items, meta, err := r.List(ctx, utils.DefaultPageRequest())
	if err != nil || len(items) != 0 || meta.Total != 0 {
		t.Fatalf("deleted record still listed: %d items, total %d, %v", len(items), meta.Total, err)
	}
	if _, err := r.Update(ctx, id, map[string]any{"name": "zombie"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deleted record still updatable: %v", err)
	}

	// Never physically removed: the raw document is still in storage,
	// flagged inactive.
	col, err := s.Collection(ctx, domain.CollectionFarmers)
	if err != nil {
		t.Fatalf("collection: %v", err)
	}
	raw, err := col.FindOne(ctx, store.Filter{ID: created.ID, IncludeInactive: true})
	if err != nil {
		t.Fatalf("record physically removed: %v", err)
	}
	var doc bson.M
	_ = bson.Unmarshal(raw, &doc)
	if active, _ := doc["isActive"].(bool); active {
		t.Fatalf("stored record still flagged active")
	}
}

func TestRepository_SoftDeleteIdempotent(t *testing.T) {
	r, _ := newFarmerRepo()
	ctx := context.Background()

	created := mustCreate(t, r, &domain.Farmer{Name: "x", Email: "a@b.co", Location: "y"})
	id := created.ID.Hex()

	for i := 0; i < 3; i++ {
		if err := r.SoftDelete(ctx, id); err != nil {
			t.Fatalf("delete #%d: %v", i+1, err)
		}
	}
}

func TestRepository_UpdateMergesAndBumpsUpdatedAt(t *testing.T) {
	r, _ := newFarmerRepo()
	r.WithClock(tick(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
	ctx := context.Background()

	created := mustCreate(t, r, &domain.Farmer{
		Name:        "Finca Alta",
		Email:       "a@b.co",
		Location:    "Huila, Colombia",
		CoffeeTypes: []string{"arabica"},
	})

	updated, err := r.Update(ctx, created.ID.Hex(), map[string]any{"name": "Finca Nueva"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if updated.Name != "Finca Nueva" {
		t.Fatalf("updated field not applied: %q", updated.Name)
	}
	// Merge semantics: untouched fields survive.
	if updated.Email != "a@b.co" || updated.Location != "Huila, Colombia" || len(updated.CoffeeTypes) != 1 {
		t.Fatalf("untouched fields lost: %+v", updated)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("createdAt changed on update")
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Fatalf("updatedAt not strictly increased: %v -> %v", created.UpdatedAt, updated.UpdatedAt)
	}

	// And it keeps increasing on each mutation.
	again, err := r.Update(ctx, created.ID.Hex(), map[string]any{"phone": "+57 1 234"})
	if err != nil {
		t.Fatalf("second update: %v", err)
	}
	if !again.UpdatedAt.After(updated.UpdatedAt) {
		t.Fatalf("updatedAt not strictly increasing across updates")
	}
}

func TestRepository_UpdateEdgeCases(t *testing.T) {
	r, _ := newFarmerRepo()
	ctx := context.Background()

	created := mustCreate(t, r, &domain.Farmer{Name: "x", Email: "a@b.co", Location: "y"})

	if _, err := r.Update(ctx, created.ID.Hex(), map[string]any{}); !errors.Is(err, ErrEmptyUpdate) {
		t.Fatalf("empty set: got %v; want ErrEmptyUpdate", err)
	}
	if _, err := r.Update(ctx, primitive.NewObjectID().Hex(), map[string]any{"name": "z"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing record: got %v; want ErrNotFound", err)
	}
}

// vanishingCollection reports a successful update but no readable
// record afterwards: the window where a concurrent soft delete lands
// between the write and the read-back.
type vanishingCollection struct{}

func (vanishingCollection) InsertOne(context.Context, any) (primitive.ObjectID, error) {
	return primitive.NewObjectID(), nil
}
func (vanishingCollection) FindOne(context.Context, store.Filter) (bson.Raw, error) {
	return nil, store.ErrNoDocuments
}
func (vanishingCollection) Find(context.Context, store.Filter, store.FindOptions) ([]bson.Raw, error) {
	return nil, nil
}
func (vanishingCollection) UpdateOne(context.Context, store.Filter, bson.M) (int64, error) {
	return 1, nil
}
func (vanishingCollection) CountDocuments(context.Context, store.Filter) (int64, error) {
	return 0, nil
}

type vanishingStore struct{}

func (vanishingStore) Collection(context.Context, string) (store.Collection, error) {
	return vanishingCollection{}, nil
}
func (vanishingStore) Ping(context.Context) bool { return true }

func TestRepository_UpdateRacingDeleteReportsNotFound(t *testing.T) {
	r := New[domain.Farmer, *domain.Farmer](vanishingStore{}, Descriptor{Collection: "farmers"})

	_, err := r.Update(context.Background(), primitive.NewObjectID().Hex(), map[string]any{"name": "x"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("update racing a delete: got %v; want ErrNotFound", err)
	}
}

func TestRepository_ListPagination(t *testing.T) {
	r, _ := newFarmerRepo()
	r.WithClock(tick(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
	ctx := context.Background()

	for i := 1; i <= 25; i++ {
		mustCreate(t, r, &domain.Farmer{
			Name:     fmt.Sprintf("Farm %02d", i),
			Email:    fmt.Sprintf("farm%d@example.com", i),
			Location: "Minas Gerais, Brazil",
		})
	}

	page := utils.DefaultPageRequest() // limit 10, createdAt desc
	items, meta, err := r.List(ctx, page)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 10 {
		t.Fatalf("page 1 size = %d; want 10", len(items))
	}
	if meta.Total != 25 || meta.TotalPages != 3 {
		t.Fatalf("total/totalPages = %d/%d; want 25/3", meta.Total, meta.TotalPages)
	}
	if !meta.HasNext || meta.HasPrev {
		t.Fatalf("page 1 flags wrong: %+v", meta)
	}
	// Newest first under the default sort.
	if items[0].Name != "Farm 25" {
		t.Fatalf("default order not newest-first: got %q", items[0].Name)
	}

	page.Page = 3
	items, meta, err = r.List(ctx, page)
	if err != nil {
		t.Fatalf("List page 3: %v", err)
	}
	if len(items) != 5 {
		t.Fatalf("last page size = %d; want 5", len(items))
	}
	if meta.HasNext || !meta.HasPrev {
		t.Fatalf("last page flags wrong: %+v", meta)
	}

	// Past the end: empty slice, same metadata arithmetic.
	page.Page = 4
	items, meta, err = r.List(ctx, page)
	if err != nil || len(items) != 0 {
		t.Fatalf("past-end page: %d items, %v", len(items), err)
	}
	if meta.TotalPages != 3 || meta.HasNext {
		t.Fatalf("past-end meta wrong: %+v", meta)
	}
}

func TestRepository_ListRejectsBadPagination(t *testing.T) {
	r, _ := newFarmerRepo()
	ctx := context.Background()

	if _, _, err := r.List(ctx, utils.PageRequest{Page: 0, Limit: 10}); !errors.Is(err, utils.ErrBadPage) {
		t.Fatalf("page 0: got %v; want ErrBadPage", err)
	}
	if _, _, err := r.List(ctx, utils.PageRequest{Page: 1, Limit: 500}); !errors.Is(err, utils.ErrBadLimit) {
		t.Fatalf("limit 500: got %v; want ErrBadLimit", err)
	}
}

func TestRepository_SearchSubstringCaseInsensitive(t *testing.T) {
	r, _ := newFarmerRepo()
	ctx := context.Background()

	mustCreate(t, r, &domain.Farmer{Name: "Fazenda União", Email: "u@b.co", Location: "São Paulo, Brazil"})
	mustCreate(t, r, &domain.Farmer{Name: "Bergen Beans", Email: "n@b.co", Location: "Bergen, Norway"})

	for _, term := range []string{"paulo", "PAULO", "são"} {
		items, meta, err := r.Search(ctx, term, utils.DefaultPageRequest())
		if err != nil {
			t.Fatalf("Search(%q): %v", term, err)
		}
		if len(items) != 1 || meta.Total != 1 {
			t.Fatalf("Search(%q) = %d items, total %d; want 1", term, len(items), meta.Total)
		}
		if items[0].Location != "São Paulo, Brazil" {
			t.Fatalf("Search(%q) matched wrong record: %+v", term, items[0])
		}
	}

	// Empty query degenerates to List.
	items, meta, err := r.Search(ctx, "", utils.DefaultPageRequest())
	if err != nil || len(items) != 2 || meta.Total != 2 {
		t.Fatalf("empty search: %d items, total %d, %v; want all records", len(items), meta.Total, err)
	}
}

func TestRepository_ListAllWhere(t *testing.T) {
	s := store.NewMemory()
	r := New[domain.Roaster, *domain.Roaster](s, Descriptor{
		Collection:   domain.CollectionRoasters,
		SearchFields: domain.RoasterSearchFields,
	})
	r.WithClock(tick(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
	ctx := context.Background()

	for i, tier := range []string{"premium", "free", "premium"} {
		if _, err := r.Create(ctx, &domain.Roaster{
			BusinessName:     fmt.Sprintf("Roast %d", i),
			Email:            "r@b.co",
			Location:         "Portland",
			SubscriptionTier: tier,
		}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	premium, err := r.ListAllWhere(ctx, "subscriptionTier", "premium")
	if err != nil {
		t.Fatalf("ListAllWhere: %v", err)
	}
	if len(premium) != 2 {
		t.Fatalf("premium roasters = %d; want 2", len(premium))
	}
	// Newest first.
	if premium[0].BusinessName != "Roast 2" {
		t.Fatalf("order not newest-first: %q", premium[0].BusinessName)
	}

	none, err := r.ListAllWhere(ctx, "subscriptionTier", "enterprise")
	if err != nil || len(none) != 0 {
		t.Fatalf("no-match filter: %d items, %v", len(none), err)
	}
}
