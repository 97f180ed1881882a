// Package docstore defines the document store the registrar persists to.
//
// Backends live in sub-packages: mongostore (MongoDB), pgstore (PostgreSQL
// JSONB) and memstore (in-process, used by tests and demos). All of them
// share the equality-filter semantics implemented in this package: a dotted
// path that crosses an array matches when any element matches.
package docstore

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IDField is the storage key of every document's primary key
const IDField = "_id"

// ErrNoDocuments is returned by FindOne when nothing matches the filter
var ErrNoDocuments = errors.New("docstore: no documents in result")

// Filter is a conjunctive equality filter keyed by dotted field paths
type Filter map[string]interface{}

// IndexSpec describes one index of a collection
type IndexSpec struct {
	Name   string
	Keys   []string
	Unique bool
}

// CollectionSpec declares a collection, its unique keys and the schema rules
// enforced by the store itself
type CollectionSpec struct {
	Name     string
	Indexes  []IndexSpec
	Required []string
	// Enums maps a top-level field to its allowed values
	Enums map[string][]string
}

// Store is the persistence collaborator used by repositories
type Store interface {
	// EnsureCollection creates the collection, its schema rules and indexes if missing
	EnsureCollection(ctx context.Context, spec CollectionSpec) error
	InsertOne(ctx context.Context, collection string, doc interface{}) error
	// Find decodes every matching document into out, which must be a pointer to a slice
	Find(ctx context.Context, collection string, filter Filter, out interface{}) error
	// FindOne decodes the first matching document into out or returns ErrNoDocuments
	FindOne(ctx context.Context, collection string, filter Filter, out interface{}) error
	Count(ctx context.Context, collection string, filter Filter) (int64, error)
	// Push appends value to the list stored at field of one document
	Push(ctx context.Context, collection string, id primitive.ObjectID, field string, value interface{}) error
	// Pull removes every element of the list at field that matches match
	Pull(ctx context.Context, collection string, id primitive.ObjectID, field string, match Filter) error
	DeleteOne(ctx context.Context, collection string, id primitive.ObjectID) error
	// Indexes returns the index metadata of a collection, including the primary key index
	Indexes(ctx context.Context, collection string) ([]IndexSpec, error)
	Close(ctx context.Context) error
}
