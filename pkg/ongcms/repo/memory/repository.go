package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vereda-ong/vereda-api/pkg/ongcms"
)

// Store implements ongcms.DocumentStore using in-memory maps. Listing
// order is insertion order unless the query sorts.
type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string]ongcms.Document
	order       map[string][]string
}

// New creates a new in-memory document store
func New() ongcms.DocumentStore {
	return &Store{
		collections: make(map[string]map[string]ongcms.Document),
		order:       make(map[string][]string),
	}
}

func (s *Store) Insert(ctx context.Context, collection string, doc ongcms.Document) (ongcms.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.collections[collection] == nil {
		s.collections[collection] = make(map[string]ongcms.Document)
	}

	now := time.Now().UTC()
	stored := copyDoc(doc)
	stored["id"] = uuid.NewString()
	stored["createdAt"] = now
	stored["updatedAt"] = now

	id := stored["id"].(string)
	s.collections[collection][id] = stored
	s.order[collection] = append(s.order[collection], id)

	return copyDoc(stored), nil
}

func (s *Store) FindByID(ctx context.Context, collection, id string) (ongcms.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, exists := s.collections[collection][id]
	if !exists {
		return nil, ongcms.ErrEntityNotFound
	}
	return copyDoc(doc), nil
}

func (s *Store) Find(ctx context.Context, collection string, q ongcms.ListQuery) ([]ongcms.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := s.filtered(collection, q)
	sortDocs(docs, q.Sort)

	if q.Skip > 0 {
		if q.Skip >= int64(len(docs)) {
			docs = nil
		} else {
			docs = docs[q.Skip:]
		}
	}
	if q.Limit > 0 && int64(len(docs)) > q.Limit {
		docs = docs[:q.Limit]
	}

	out := make([]ongcms.Document, len(docs))
	for i, doc := range docs {
		out[i] = copyDoc(doc)
	}
	return out, nil
}

func (s *Store) Count(ctx context.Context, collection string, q ongcms.ListQuery) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.filtered(collection, q))), nil
}

func (s *Store) UpdateByID(ctx context.Context, collection, id string, set ongcms.Document) (ongcms.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, exists := s.collections[collection][id]
	if !exists {
		return nil, ongcms.ErrEntityNotFound
	}

	for k, v := range set {
		doc[k] = v
	}
	doc["updatedAt"] = time.Now().UTC()

	return copyDoc(doc), nil
}

func (s *Store) DeleteByID(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.collections[collection][id]; !exists {
		return ongcms.ErrEntityNotFound
	}
	delete(s.collections[collection], id)

	ids := s.order[collection]
	for i, existing := range ids {
		if existing == id {
			s.order[collection] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

// filtered returns the matching documents in insertion order. Callers hold
// the lock.
func (s *Store) filtered(collection string, q ongcms.ListQuery) []ongcms.Document {
	var docs []ongcms.Document
	for _, id := range s.order[collection] {
		doc := s.collections[collection][id]
		if matches(doc, q) {
			docs = append(docs, doc)
		}
	}
	return docs
}

func matches(doc ongcms.Document, q ongcms.ListQuery) bool {
	for field, want := range q.Equals {
		if !valueEquals(doc[field], want) {
			return false
		}
	}
	for _, m := range q.Match {
		if !matchesAny(doc, m) {
			return false
		}
	}
	if len(q.TimeFields) > 0 && (!q.After.IsZero() || !q.Before.IsZero()) {
		if !inTimeWindow(doc, q.TimeFields, q.After, q.Before) {
			return false
		}
	}
	return true
}

func matchesAny(doc ongcms.Document, m ongcms.TextMatch) bool {
	term := strings.ToLower(m.Term)
	for _, field := range m.Fields {
		switch v := doc[field].(type) {
		case string:
			if strings.Contains(strings.ToLower(v), term) {
				return true
			}
		case []any:
			for _, item := range v {
				if s, ok := item.(string); ok && strings.Contains(strings.ToLower(s), term) {
					return true
				}
			}
		case []string:
			for _, s := range v {
				if strings.Contains(strings.ToLower(s), term) {
					return true
				}
			}
		}
	}
	return false
}

func inTimeWindow(doc ongcms.Document, fields []string, after, before time.Time) bool {
	for _, field := range fields {
		t, ok := doc[field].(time.Time)
		if !ok {
			continue
		}
		if !after.IsZero() && t.Before(after) {
			continue
		}
		if !before.IsZero() && !t.Before(before) {
			continue
		}
		return true
	}
	return false
}

func valueEquals(have, want any) bool {
	if have == want {
		return true
	}
	// Numeric equality across int/float representations.
	hf, hok := asFloat(have)
	wf, wok := asFloat(want)
	return hok && wok && hf == wf
}

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
	}
	return 0, false
}

func sortDocs(docs []ongcms.Document, fields []ongcms.SortField) {
	if len(fields) == 0 {
		return
	}
	sort.SliceStable(docs, func(i, j int) bool {
		for _, f := range fields {
			c := compare(docs[i][f.Field], docs[j][f.Field])
			if c == 0 {
				continue
			}
			if f.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

func compare(a, b any) int {
	if at, ok := a.(time.Time); ok {
		if bt, ok := b.(time.Time); ok {
			return at.Compare(bt)
		}
	}
	if af, ok := asFloat(a); ok {
		if bf, ok := asFloat(b); ok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			}
			return 0
		}
	}
	if as, ok := a.(string); ok {
		if bs, ok := b.(string); ok {
			return strings.Compare(as, bs)
		}
	}
	// Missing values sort first.
	if a == nil && b != nil {
		return -1
	}
	if a != nil && b == nil {
		return 1
	}
	return 0
}

func copyDoc(doc ongcms.Document) ongcms.Document {
	out := make(ongcms.Document, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}
