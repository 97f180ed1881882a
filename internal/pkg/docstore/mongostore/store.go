// Package mongostore is the MongoDB docstore.Store. Collections are created
// with a $jsonSchema validator and named unique indexes, so the server itself
// rejects documents that break the declared rules.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yigit/registrar/internal/pkg/dberrors"
	"github.com/yigit/registrar/internal/pkg/docstore"
	"github.com/yigit/registrar/internal/pkg/logger"
)

// Store is a docstore.Store over one MongoDB database
type Store struct {
	db *mongo.Database

	mu        sync.RWMutex
	indexKeys map[string][]string
}

var _ docstore.Store = (*Store)(nil)

// New creates a Store over db
func New(db *mongo.Database) *Store {
	return &Store{db: db, indexKeys: make(map[string][]string)}
}

// Validator builds the $jsonSchema validator document for a collection
func Validator(spec docstore.CollectionSpec) bson.M {
	schema := bson.M{"bsonType": "object"}
	if len(spec.Required) > 0 {
		schema["required"] = spec.Required
	}
	if len(spec.Enums) > 0 {
		props := bson.M{}
		for field, allowed := range spec.Enums {
			props[field] = bson.M{"enum": allowed}
		}
		schema["properties"] = props
	}
	return bson.M{"$jsonSchema": schema}
}

// IndexModels converts the declared indexes to driver index models
func IndexModels(spec docstore.CollectionSpec) []mongo.IndexModel {
	models := make([]mongo.IndexModel, 0, len(spec.Indexes))
	for _, idx := range spec.Indexes {
		keys := bson.D{}
		for _, k := range idx.Keys {
			keys = append(keys, bson.E{Key: k, Value: 1})
		}
		models = append(models, mongo.IndexModel{
			Keys:    keys,
			Options: options.Index().SetName(idx.Name).SetUnique(idx.Unique),
		})
	}
	return models
}

// EnsureCollection creates the collection or refreshes its validator, then creates its indexes
func (s *Store) EnsureCollection(ctx context.Context, spec docstore.CollectionSpec) error {
	names, err := s.db.ListCollectionNames(ctx, bson.M{"name": spec.Name})
	if err != nil {
		return fmt.Errorf("mongostore: list collections: %w", err)
	}

	validator := Validator(spec)
	if len(names) == 0 {
		opts := options.CreateCollection().SetValidator(validator)
		if err := s.db.CreateCollection(ctx, spec.Name, opts); err != nil {
			return fmt.Errorf("mongostore: create collection %s: %w", spec.Name, err)
		}
		logger.Info().Str("collection", spec.Name).Msg("Created collection")
	} else {
		cmd := bson.D{{Key: "collMod", Value: spec.Name}, {Key: "validator", Value: validator}}
		if err := s.db.RunCommand(ctx, cmd).Err(); err != nil {
			return fmt.Errorf("mongostore: update validator of %s: %w", spec.Name, err)
		}
	}

	if models := IndexModels(spec); len(models) > 0 {
		if _, err := s.db.Collection(spec.Name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("mongostore: create indexes on %s: %w", spec.Name, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, idx := range spec.Indexes {
		s.indexKeys[idx.Name] = idx.Keys
	}
	return nil
}

func filterDoc(f docstore.Filter) bson.M {
	if f == nil {
		return bson.M{}
	}
	return bson.M(f)
}

// InsertOne inserts a document
func (s *Store) InsertOne(ctx context.Context, collection string, doc interface{}) error {
	if _, err := s.db.Collection(collection).InsertOne(ctx, doc); err != nil {
		return s.translate(err, collection, "insert into")
	}
	return nil
}

// Find decodes every matching document into out
func (s *Store) Find(ctx context.Context, collection string, filter docstore.Filter, out interface{}) error {
	cur, err := s.db.Collection(collection).Find(ctx, filterDoc(filter))
	if err != nil {
		return fmt.Errorf("mongostore: find in %s: %w", collection, err)
	}
	if err := cur.All(ctx, out); err != nil {
		return fmt.Errorf("mongostore: decode results from %s: %w", collection, err)
	}
	return nil
}

// FindOne decodes the first matching document into out
func (s *Store) FindOne(ctx context.Context, collection string, filter docstore.Filter, out interface{}) error {
	err := s.db.Collection(collection).FindOne(ctx, filterDoc(filter)).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return docstore.ErrNoDocuments
	}
	if err != nil {
		return fmt.Errorf("mongostore: find one in %s: %w", collection, err)
	}
	return nil
}

// Count returns the number of matching documents
func (s *Store) Count(ctx context.Context, collection string, filter docstore.Filter) (int64, error) {
	n, err := s.db.Collection(collection).CountDocuments(ctx, filterDoc(filter))
	if err != nil {
		return 0, fmt.Errorf("mongostore: count in %s: %w", collection, err)
	}
	return n, nil
}

// Push appends value to the list at field
func (s *Store) Push(ctx context.Context, collection string, id primitive.ObjectID, field string, value interface{}) error {
	return s.update(ctx, collection, id, bson.M{"$push": bson.M{field: value}})
}

// Pull removes the list elements at field that match the filter
func (s *Store) Pull(ctx context.Context, collection string, id primitive.ObjectID, field string, match docstore.Filter) error {
	return s.update(ctx, collection, id, bson.M{"$pull": bson.M{field: filterDoc(match)}})
}

func (s *Store) update(ctx context.Context, collection string, id primitive.ObjectID, update bson.M) error {
	res, err := s.db.Collection(collection).UpdateOne(ctx, bson.M{docstore.IDField: id}, update)
	if err != nil {
		return s.translate(err, collection, "update")
	}
	if res.MatchedCount == 0 {
		return docstore.ErrNoDocuments
	}
	return nil
}

// DeleteOne removes the document with the given id
func (s *Store) DeleteOne(ctx context.Context, collection string, id primitive.ObjectID) error {
	res, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{docstore.IDField: id})
	if err != nil {
		return fmt.Errorf("mongostore: delete from %s: %w", collection, err)
	}
	if res.DeletedCount == 0 {
		return docstore.ErrNoDocuments
	}
	return nil
}

// Indexes lists the collection's indexes as the server reports them
func (s *Store) Indexes(ctx context.Context, collection string) ([]docstore.IndexSpec, error) {
	specs, err := s.db.Collection(collection).Indexes().ListSpecifications(ctx)
	if err != nil {
		return nil, fmt.Errorf("mongostore: list indexes of %s: %w", collection, err)
	}

	out := make([]docstore.IndexSpec, 0, len(specs))
	for _, spec := range specs {
		elems, err := spec.KeysDocument.Elements()
		if err != nil {
			return nil, fmt.Errorf("mongostore: read keys of index %s: %w", spec.Name, err)
		}
		idx := docstore.IndexSpec{Name: spec.Name, Unique: spec.Unique != nil && *spec.Unique}
		for _, e := range elems {
			idx.Keys = append(idx.Keys, e.Key())
		}
		out = append(out, idx)
	}
	return out, nil
}

// Close disconnects the underlying client
func (s *Store) Close(ctx context.Context) error {
	return s.db.Client().Disconnect(ctx)
}

// translate maps constraint failures to dberrors and wraps everything else
func (s *Store) translate(err error, collection, op string) error {
	translated := dberrors.FromMongo(err, collection, s.keysOf)

	var dup *dberrors.DuplicateKeyError
	var schemaErr *dberrors.SchemaError
	if errors.As(translated, &dup) || errors.As(translated, &schemaErr) {
		return translated
	}
	logger.Error().Err(err).Str("collection", collection).Msgf("Error executing %s", op)
	return fmt.Errorf("mongostore: %s %s: %w", op, collection, err)
}

func (s *Store) keysOf(index string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexKeys[index]
}
