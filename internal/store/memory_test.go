package store

import (
	"context"
	"sync"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func memCol(t *testing.T) Collection {
	t.Helper()
	col, err := NewMemory().Collection(context.Background(), "things")
	if err != nil {
		t.Fatalf("Collection: %v", err)
	}
	return col
}

func insertDoc(t *testing.T, col Collection, doc bson.M) primitive.ObjectID {
	t.Helper()
	id, err := col.InsertOne(context.Background(), doc)
	if err != nil {
		t.Fatalf("InsertOne: %v", err)
	}
	if id == primitive.NilObjectID {
		t.Fatalf("expected assigned id")
	}
	return id
}

func TestMemory_InsertAndFindOne(t *testing.T) {
	col := memCol(t)
	ctx := context.Background()

	id := insertDoc(t, col, bson.M{"name": "Finca Alta", "isActive": true})

	raw, err := col.FindOne(ctx, Filter{ID: id})
	if err != nil {
		t.Fatalf("FindOne: %v", err)
	}
	var got bson.M
	if err := bson.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got["name"] != "Finca Alta" {
		t.Fatalf("round-trip lost data: %+v", got)
	}
}

func TestMemory_FindOne_NoMatch(t *testing.T) {
	col := memCol(t)
	if _, err := col.FindOne(context.Background(), Filter{ID: primitive.NewObjectID()}); err != ErrNoDocuments {
		t.Fatalf("expected ErrNoDocuments, got %v", err)
	}
}

func TestMemory_InactiveExcludedByDefault(t *testing.T) {
	col := memCol(t)
	ctx := context.Background()

	id := insertDoc(t, col, bson.M{"name": "gone", "isActive": false})

	if _, err := col.FindOne(ctx, Filter{ID: id}); err != ErrNoDocuments {
		t.Fatalf("inactive doc visible to default filter: %v", err)
	}
	if _, err := col.FindOne(ctx, Filter{ID: id, IncludeInactive: true}); err != nil {
		t.Fatalf("inactive doc invisible even with IncludeInactive: %v", err)
	}

	n, err := col.CountDocuments(ctx, Filter{})
	if err != nil || n != 0 {
		t.Fatalf("count = %d, %v; want 0", n, err)
	}
	n, err = col.CountDocuments(ctx, Filter{IncludeInactive: true})
	if err != nil || n != 1 {
		t.Fatalf("count(IncludeInactive) = %d, %v; want 1", n, err)
	}
}

func TestMemory_SearchCaseFolded(t *testing.T) {
	col := memCol(t)
	ctx := context.Background()

	insertDoc(t, col, bson.M{"name": "Fazenda União", "location": "São Paulo, Brazil", "isActive": true})
	insertDoc(t, col, bson.M{"name": "Bergen Beans", "location": "Bergen, Norway", "isActive": true})

	fields := []string{"name", "location"}
	for _, term := range []string{"paulo", "PAULO", "São"} {
		raws, err := col.Find(ctx, Filter{Search: term, SearchFields: fields}, FindOptions{})
		if err != nil {
			t.Fatalf("Find(%q): %v", term, err)
		}
		if len(raws) != 1 {
			t.Fatalf("Find(%q) matched %d docs; want 1", term, len(raws))
		}
	}

	raws, err := col.Find(ctx, Filter{Search: "tokyo", SearchFields: fields}, FindOptions{})
	if err != nil || len(raws) != 0 {
		t.Fatalf("non-matching term returned %d docs, %v", len(raws), err)
	}
}

func TestMemory_SearchMatchesArrayFields(t *testing.T) {
	col := memCol(t)
	ctx := context.Background()

	insertDoc(t, col, bson.M{"name": "x", "coffeeTypes": bson.A{"arabica", "blend"}, "isActive": true})

	raws, err := col.Find(ctx, Filter{Search: "ARABICA", SearchFields: []string{"coffeeTypes"}}, FindOptions{})
	if err != nil || len(raws) != 1 {
		t.Fatalf("array-field search returned %d docs, %v; want 1", len(raws), err)
	}
}

func TestMemory_FindSortSkipLimit(t *testing.T) {
	col := memCol(t)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		insertDoc(t, col, bson.M{"rank": i, "isActive": true})
	}

	raws, err := col.Find(ctx, Filter{}, FindOptions{SortField: "rank", SortDesc: true, Skip: 1, Limit: 2})
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(raws) != 2 {
		t.Fatalf("got %d docs; want 2", len(raws))
	}
	var first, second bson.M
	_ = bson.Unmarshal(raws[0], &first)
	_ = bson.Unmarshal(raws[1], &second)
	if first["rank"] != int32(4) || second["rank"] != int32(3) {
		t.Fatalf("sort/skip order wrong: %v, %v", first["rank"], second["rank"])
	}
}

func TestMemory_FindSkipPastEnd(t *testing.T) {
	col := memCol(t)
	insertDoc(t, col, bson.M{"isActive": true})

	raws, err := col.Find(context.Background(), Filter{}, FindOptions{Skip: 10})
	if err != nil || len(raws) != 0 {
		t.Fatalf("skip past end returned %d docs, %v; want 0", len(raws), err)
	}
}

func TestMemory_UpdateOne(t *testing.T) {
	col := memCol(t)
	ctx := context.Background()

	id := insertDoc(t, col, bson.M{"name": "before", "keep": "me", "isActive": true})

	matched, err := col.UpdateOne(ctx, Filter{ID: id}, bson.M{"name": "after"})
	if err != nil || matched != 1 {
		t.Fatalf("UpdateOne = %d, %v; want 1", matched, err)
	}

	raw, err := col.FindOne(ctx, Filter{ID: id})
	if err != nil {
		t.Fatalf("FindOne: %v", err)
	}
	var got bson.M
	_ = bson.Unmarshal(raw, &got)
	if got["name"] != "after" || got["keep"] != "me" {
		t.Fatalf("merge update wrong: %+v", got)
	}

	matched, err = col.UpdateOne(ctx, Filter{ID: primitive.NewObjectID()}, bson.M{"name": "x"})
	if err != nil || matched != 0 {
		t.Fatalf("UpdateOne(miss) = %d, %v; want 0", matched, err)
	}
}

func TestMemory_EqualsFilter(t *testing.T) {
	col := memCol(t)
	ctx := context.Background()

	insertDoc(t, col, bson.M{"tier": "free", "isActive": true})
	insertDoc(t, col, bson.M{"tier": "premium", "isActive": true})
	insertDoc(t, col, bson.M{"tier": "premium", "isActive": false})

	raws, err := col.Find(ctx, Filter{Equals: map[string]any{"tier": "premium"}}, FindOptions{})
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(raws) != 1 {
		t.Fatalf("equals filter matched %d docs; want 1 (inactive excluded)", len(raws))
	}
}

func TestMemory_PingAlwaysTrue(t *testing.T) {
	if !NewMemory().Ping(context.Background()) {
		t.Fatalf("memory store must always be reachable")
	}
}

// Sorted reads must snapshot documents before the collection lock is
// released; otherwise a concurrent UpdateOne mutates the maps a Find is
// serializing. Run with -race.
func TestMemory_ConcurrentFindAndUpdate(t *testing.T) {
	col := memCol(t)
	ctx := context.Background()

	id := insertDoc(t, col, bson.M{"name": "Finca Alta", "rank": 0, "isActive": true})

	const iterations = 500
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			if _, err := col.Find(ctx, Filter{}, FindOptions{SortField: "name"}); err != nil {
				t.Errorf("Find: %v", err)
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			if _, err := col.UpdateOne(ctx, Filter{ID: id}, bson.M{"name": "Finca Baja", "rank": i}); err != nil {
				t.Errorf("UpdateOne: %v", err)
				return
			}
		}
	}()
	wg.Wait()
}
