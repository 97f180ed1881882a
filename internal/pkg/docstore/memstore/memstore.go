// Package memstore is an in-process docstore.Store. It keeps every document
// as encoded BSON so readers always receive a private copy, and it enforces
// unique indexes and the declared schema rules the same way the real stores do.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yigit/registrar/internal/pkg/dberrors"
	"github.com/yigit/registrar/internal/pkg/docstore"
)

type collection struct {
	spec docstore.CollectionSpec
	docs []bson.Raw
}

// Store is an in-memory document store
type Store struct {
	mu          sync.RWMutex
	collections map[string]*collection
}

var _ docstore.Store = (*Store)(nil)

// New creates an empty store
func New() *Store {
	return &Store{collections: make(map[string]*collection)}
}

func (s *Store) collection(name string) *collection {
	c, ok := s.collections[name]
	if !ok {
		c = &collection{spec: docstore.CollectionSpec{Name: name}}
		s.collections[name] = c
	}
	return c
}

// EnsureCollection registers the collection's indexes and schema rules
func (s *Store) EnsureCollection(_ context.Context, spec docstore.CollectionSpec) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.collection(spec.Name)
	c.spec = spec
	return nil
}

// InsertOne stores a document, assigning an _id when the document has none
func (s *Store) InsertOne(_ context.Context, name string, doc interface{}) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return fmt.Errorf("memstore: encode document: %w", err)
	}

	var d bson.D
	if err := bson.Unmarshal(raw, &d); err != nil {
		return fmt.Errorf("memstore: decode document: %w", err)
	}
	if !hasField(d, docstore.IDField) {
		d = append(bson.D{{Key: docstore.IDField, Value: primitive.NewObjectID()}}, d...)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.collection(name)
	if err := c.checkSchema(d); err != nil {
		return err
	}
	if err := c.checkUnique(d, -1); err != nil {
		return err
	}

	raw, err = bson.Marshal(d)
	if err != nil {
		return fmt.Errorf("memstore: encode document: %w", err)
	}
	c.docs = append(c.docs, raw)
	return nil
}

// Find decodes every matching document into out
func (s *Store) Find(_ context.Context, name string, filter docstore.Filter, out interface{}) error {
	matched, err := s.match(name, filter, -1)
	if err != nil {
		return err
	}
	return docstore.DecodeAll(matched, out)
}

// FindOne decodes the first matching document into out
func (s *Store) FindOne(_ context.Context, name string, filter docstore.Filter, out interface{}) error {
	matched, err := s.match(name, filter, 1)
	if err != nil {
		return err
	}
	if len(matched) == 0 {
		return docstore.ErrNoDocuments
	}
	if err := bson.Unmarshal(matched[0], out); err != nil {
		return fmt.Errorf("memstore: decode document: %w", err)
	}
	return nil
}

// Count returns the number of matching documents
func (s *Store) Count(_ context.Context, name string, filter docstore.Filter) (int64, error) {
	matched, err := s.match(name, filter, -1)
	if err != nil {
		return 0, err
	}
	return int64(len(matched)), nil
}

// Push appends value to the list at field
func (s *Store) Push(_ context.Context, name string, id primitive.ObjectID, field string, value interface{}) error {
	encoded, err := docstore.ToDocument(bson.M{"v": value})
	if err != nil {
		return err
	}

	return s.update(name, id, func(d bson.D) (bson.D, error) {
		list, _ := get(d, field)
		arr, ok := list.(bson.A)
		if list != nil && !ok {
			return nil, fmt.Errorf("memstore: field %s is not an array", field)
		}
		return set(d, field, append(arr, encoded["v"])), nil
	})
}

// Pull removes the list elements at field that match the filter
func (s *Store) Pull(_ context.Context, name string, id primitive.ObjectID, field string, match docstore.Filter) error {
	normalized, err := docstore.NormalizeFilter(match)
	if err != nil {
		return err
	}

	return s.update(name, id, func(d bson.D) (bson.D, error) {
		list, _ := get(d, field)
		arr, _ := list.(bson.A)
		kept := bson.A{}
		for _, el := range arr {
			if !docstore.Matches(el, normalized) {
				kept = append(kept, el)
			}
		}
		return set(d, field, kept), nil
	})
}

// DeleteOne removes the document with the given id
func (s *Store) DeleteOne(_ context.Context, name string, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.collection(name)
	for i, raw := range c.docs {
		if idOf(raw) == id {
			c.docs = append(c.docs[:i], c.docs[i+1:]...)
			return nil
		}
	}
	return docstore.ErrNoDocuments
}

// Indexes lists the primary key index followed by the declared indexes
func (s *Store) Indexes(_ context.Context, name string) ([]docstore.IndexSpec, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	specs := []docstore.IndexSpec{{Name: "_id_", Keys: []string{docstore.IDField}}}
	if c, ok := s.collections[name]; ok {
		specs = append(specs, c.spec.Indexes...)
	}
	return specs, nil
}

// Close is a no-op
func (s *Store) Close(context.Context) error {
	return nil
}

func (s *Store) match(name string, filter docstore.Filter, limit int) ([]bson.Raw, error) {
	normalized, err := docstore.NormalizeFilter(filter)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[name]
	if !ok {
		return nil, nil
	}

	var matched []bson.Raw
	for _, raw := range c.docs {
		var doc bson.M
		if err := bson.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("memstore: decode document: %w", err)
		}
		if docstore.Matches(doc, normalized) {
			matched = append(matched, raw)
			if limit > 0 && len(matched) == limit {
				break
			}
		}
	}
	return matched, nil
}

func (s *Store) update(name string, id primitive.ObjectID, fn func(bson.D) (bson.D, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.collection(name)
	for i, raw := range c.docs {
		if idOf(raw) != id {
			continue
		}

		var d bson.D
		if err := bson.Unmarshal(raw, &d); err != nil {
			return fmt.Errorf("memstore: decode document: %w", err)
		}
		d, err := fn(d)
		if err != nil {
			return err
		}
		updated, err := bson.Marshal(d)
		if err != nil {
			return fmt.Errorf("memstore: encode document: %w", err)
		}
		c.docs[i] = updated
		return nil
	}
	return docstore.ErrNoDocuments
}

func (c *collection) checkUnique(d bson.D, skip int) error {
	indexes := append([]docstore.IndexSpec{{Name: "_id_", Keys: []string{docstore.IDField}, Unique: true}}, c.spec.Indexes...)
	for _, idx := range indexes {
		if !idx.Unique {
			continue
		}
		want := keyOf(d, idx.Keys)
		for i, raw := range c.docs {
			if i == skip {
				continue
			}
			var existing bson.D
			if err := bson.Unmarshal(raw, &existing); err != nil {
				return fmt.Errorf("memstore: decode document: %w", err)
			}
			if docstore.Equal(keyOf(existing, idx.Keys), want) {
				return &dberrors.DuplicateKeyError{Collection: c.spec.Name, Index: idx.Name, Fields: idx.Keys}
			}
		}
	}
	return nil
}

func (c *collection) checkSchema(d bson.D) error {
	var violations []dberrors.SchemaViolation
	for _, field := range c.spec.Required {
		if !docstore.Present(d, field) {
			violations = append(violations, dberrors.SchemaViolation{Field: field, Operator: "required"})
		}
	}
	fields := make([]string, 0, len(c.spec.Enums))
	for field := range c.spec.Enums {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		allowed := c.spec.Enums[field]
		value, ok := get(d, field)
		if !ok {
			continue
		}
		s, _ := value.(string)
		if !contains(allowed, s) {
			violations = append(violations, dberrors.SchemaViolation{Field: field, Operator: "enum", Allowed: allowed})
		}
	}
	if len(violations) > 0 {
		return &dberrors.SchemaError{Collection: c.spec.Name, Violations: violations}
	}
	return nil
}

// keyOf extracts the first value at each key path; a missing path counts as null
func keyOf(d bson.D, keys []string) []interface{} {
	out := make([]interface{}, len(keys))
	for i, k := range keys {
		if values := docstore.Lookup(d, k); len(values) > 0 {
			out[i] = values[0]
		}
	}
	return out
}

func idOf(raw bson.Raw) primitive.ObjectID {
	id, _ := raw.Lookup(docstore.IDField).ObjectIDOK()
	return id
}

func hasField(d bson.D, key string) bool {
	_, ok := get(d, key)
	return ok
}

func get(d bson.D, key string) (interface{}, bool) {
	for _, e := range d {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

func set(d bson.D, key string, value interface{}) bson.D {
	for i, e := range d {
		if e.Key == key {
			d[i].Value = value
			return d
		}
	}
	return append(d, bson.E{Key: key, Value: value})
}

func contains(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}
