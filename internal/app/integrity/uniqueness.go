// Package integrity holds the consistency rules enforced between operator
// input and the document store: composite uniqueness, delete guards and the
// embedded snapshots that tie child documents to their parents.
package integrity

import (
	"context"
	"fmt"

	"github.com/yigit/registrar/internal/pkg/apperrors"
	"github.com/yigit/registrar/internal/pkg/docstore"
)

// primaryKeyIndex is the store-managed _id index, never checked here
const primaryKeyIndex = "_id_"

// UniquenessChecker detects composite-unique key collisions before an insert
type UniquenessChecker struct {
	store docstore.Store
}

// NewUniquenessChecker creates a checker reading index metadata from store
func NewUniquenessChecker(store docstore.Store) *UniquenessChecker {
	return &UniquenessChecker{store: store}
}

// Check returns the names of the unique indexes of collection that candidate
// would violate, in index order. An empty result means the insert is safe.
func (c *UniquenessChecker) Check(ctx context.Context, collection string, candidate interface{}) ([]string, error) {
	violated, err := c.violated(ctx, collection, candidate)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(violated))
	for _, idx := range violated {
		names = append(names, idx.Name)
	}
	return names, nil
}

// Enforce is Check reported as an *apperrors.UniquenessViolation
func (c *UniquenessChecker) Enforce(ctx context.Context, collection string, candidate interface{}) error {
	violated, err := c.violated(ctx, collection, candidate)
	if err != nil {
		return err
	}
	return violation(collection, violated)
}

func (c *UniquenessChecker) violated(ctx context.Context, collection string, candidate interface{}) ([]docstore.IndexSpec, error) {
	doc, err := docstore.ToDocument(candidate)
	if err != nil {
		return nil, err
	}

	indexes, err := c.store.Indexes(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("read indexes of %s: %w", collection, err)
	}

	var violated []docstore.IndexSpec
	for _, idx := range indexes {
		if idx.Name == primaryKeyIndex || !idx.Unique {
			continue
		}

		filter := keyFilter(doc, idx.Keys)
		if len(filter) == 0 {
			// No key field is populated, so the key cannot be evaluated
			violated = append(violated, idx)
			continue
		}

		n, err := c.store.Count(ctx, collection, filter)
		if err != nil {
			return nil, fmt.Errorf("count %s matching %s: %w", collection, idx.Name, err)
		}
		if n > 0 {
			violated = append(violated, idx)
		}
	}
	return violated, nil
}

// CheckEmbedded runs the same test against an embedded list held in memory.
// It returns the names of the keys candidate collides on.
func CheckEmbedded[T any](existing []T, candidate T, keys []docstore.IndexSpec) ([]string, error) {
	violated, err := embeddedViolations(existing, candidate, keys)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(violated))
	for _, idx := range violated {
		names = append(names, idx.Name)
	}
	return names, nil
}

// EnforceEmbedded is CheckEmbedded reported as an *apperrors.UniquenessViolation
func EnforceEmbedded[T any](collection string, existing []T, candidate T, keys []docstore.IndexSpec) error {
	violated, err := embeddedViolations(existing, candidate, keys)
	if err != nil {
		return err
	}
	return violation(collection, violated)
}

func embeddedViolations[T any](existing []T, candidate T, keys []docstore.IndexSpec) ([]docstore.IndexSpec, error) {
	doc, err := docstore.ToDocument(candidate)
	if err != nil {
		return nil, err
	}

	docs := make([]interface{}, 0, len(existing))
	for _, e := range existing {
		d, err := docstore.ToDocument(e)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}

	var violated []docstore.IndexSpec
	for _, idx := range keys {
		filter := keyFilter(doc, idx.Keys)
		if len(filter) == 0 {
			violated = append(violated, idx)
			continue
		}
		for _, d := range docs {
			if docstore.Matches(d, filter) {
				violated = append(violated, idx)
				break
			}
		}
	}
	return violated, nil
}

// keyFilter builds an equality filter over the key fields present in doc
func keyFilter(doc interface{}, keys []string) docstore.Filter {
	filter := docstore.Filter{}
	for _, key := range keys {
		for _, v := range docstore.Lookup(doc, key) {
			if v != nil {
				filter[key] = v
				break
			}
		}
	}
	return filter
}

func violation(collection string, violated []docstore.IndexSpec) error {
	if len(violated) == 0 {
		return nil
	}
	constraints := make([]apperrors.Constraint, 0, len(violated))
	for _, idx := range violated {
		constraints = append(constraints, apperrors.Constraint{Name: idx.Name, Fields: idx.Keys})
	}
	return apperrors.NewUniquenessViolation(collection, constraints...)
}
