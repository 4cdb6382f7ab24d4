// In-memory backend.
//
// Memory implements Store with the same observable semantics as the
// MongoDB backend: documents round-trip through BSON, filters apply the
// implicit isActive restriction, and search is a case-insensitive
// substring match (Unicode case folding, so "PAULO" matches
// "São Paulo"). It backs the test suite and local development without a
// running database.
package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/text/cases"
)

// Memory is an in-memory Store. Collections are created on first use.
// Safe for concurrent use.
type Memory struct {
	mu   sync.Mutex
	cols map[string]*memCollection
}

// NewMemory constructs an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{cols: make(map[string]*memCollection)}
}

// Collection returns the named collection, creating it when absent.
// It never fails: there is no connection to establish.
func (m *Memory) Collection(_ context.Context, name string) (Collection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	col, ok := m.cols[name]
	if !ok {
		col = &memCollection{}
		m.cols[name] = col
	}
	return col, nil
}

// Ping always reports reachable.
func (m *Memory) Ping(context.Context) bool { return true }

// memCollection holds documents as bson.M in insertion order, which
// doubles as the natural store order for unsorted reads.
type memCollection struct {
	mu   sync.RWMutex
	docs []bson.M
}

func (c *memCollection) InsertOne(_ context.Context, doc any) (primitive.ObjectID, error) {
	m, err := toDoc(doc)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, ok := m["_id"].(primitive.ObjectID)
	if !ok || id == primitive.NilObjectID {
		id = primitive.NewObjectID()
		m["_id"] = id
	}

	c.mu.Lock()
	c.docs = append(c.docs, m)
	c.mu.Unlock()
	return id, nil
}

func (c *memCollection) FindOne(_ context.Context, f Filter) (bson.Raw, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, d := range c.docs {
		if matches(d, f) {
			return bson.Marshal(d)
		}
	}
	return nil, ErrNoDocuments
}

// memHit is a matched document snapshotted under the collection lock:
// the serialized bytes plus the sort key, so sorting and slicing never
// touch the live bson.M a concurrent UpdateOne may be mutating.
type memHit struct {
	raw bson.Raw
	key any
}

func (c *memCollection) Find(_ context.Context, f Filter, o FindOptions) ([]bson.Raw, error) {
	c.mu.RLock()
	matched := make([]memHit, 0, len(c.docs))
	for _, d := range c.docs {
		if matches(d, f) {
			raw, err := bson.Marshal(d)
			if err != nil {
				c.mu.RUnlock()
				return nil, err
			}
			matched = append(matched, memHit{raw: raw, key: d[o.SortField]})
		}
	}
	c.mu.RUnlock()

	if o.SortField != "" {
		sort.SliceStable(matched, func(i, j int) bool {
			cmp := compareValues(matched[i].key, matched[j].key)
			if o.SortDesc {
				return cmp > 0
			}
			return cmp < 0
		})
	}

	if o.Skip > 0 {
		if o.Skip >= int64(len(matched)) {
			matched = nil
		} else {
			matched = matched[o.Skip:]
		}
	}
	if o.Limit > 0 && int64(len(matched)) > o.Limit {
		matched = matched[:o.Limit]
	}

	out := make([]bson.Raw, 0, len(matched))
	for _, h := range matched {
		out = append(out, h.raw)
	}
	return out, nil
}

func (c *memCollection) UpdateOne(_ context.Context, f Filter, set bson.M) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, d := range c.docs {
		if matches(d, f) {
			// Normalize set values through BSON so stored field types
			// match what the real backend would persist.
			norm, err := toDoc(set)
			if err != nil {
				return 0, err
			}
			for k, v := range norm {
				d[k] = v
			}
			return 1, nil
		}
	}
	return 0, nil
}

func (c *memCollection) CountDocuments(_ context.Context, f Filter) (int64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var n int64
	for _, d := range c.docs {
		if matches(d, f) {
			n++
		}
	}
	return n, nil
}

// toDoc round-trips a value through BSON into a generic document.
func toDoc(v any) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// matches evaluates the neutral Filter against a document, mirroring
// the MongoDB translation in toBson.
func matches(d bson.M, f Filter) bool {
	if !f.IncludeInactive {
		if active, _ := d["isActive"].(bool); !active {
			return false
		}
	}
	if f.ID != primitive.NilObjectID {
		id, _ := d["_id"].(primitive.ObjectID)
		if id != f.ID {
			return false
		}
	}
	for k, want := range f.Equals {
		if compareValues(d[k], want) != 0 {
			return false
		}
	}
	if f.Search != "" && len(f.SearchFields) > 0 {
		hit := false
		for _, field := range f.SearchFields {
			if containsFold(d[field], f.Search) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}

// containsFold reports whether the field value (a string, or an array of
// strings) contains term as a case-folded substring.
func containsFold(v any, term string) bool {
	fold := cases.Fold()
	needle := fold.String(term)

	switch s := v.(type) {
	case string:
		return strings.Contains(fold.String(s), needle)
	case bson.A:
		for _, el := range s {
			if str, ok := el.(string); ok && strings.Contains(fold.String(str), needle) {
				return true
			}
		}
	}
	return false
}

// compareValues orders two document values by their natural ordering:
// numeric for numbers, chronological for timestamps, lexicographic for
// strings. Mismatched or missing values sort before present ones.
func compareValues(a, b any) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}

	if af, aok := asFloat(a); aok {
		if bf, bok := asFloat(b); bok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			default:
				return 0
			}
		}
	}
	if as, ok := a.(string); ok {
		if bs, ok := b.(string); ok {
			return strings.Compare(as, bs)
		}
	}
	return strings.Compare(stringify(a), stringify(b))
}

// asFloat widens the numeric and timestamp types BSON decoding can
// produce into a comparable float64.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case primitive.DateTime:
		return float64(n), true
	default:
		return 0, false
	}
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	raw, err := bson.Marshal(bson.M{"v": v})
	if err != nil {
		return ""
	}
	return string(raw)
}
