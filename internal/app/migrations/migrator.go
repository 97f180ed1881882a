package migrations

import (
	"context"
	"fmt"

	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/pkg/docstore"
	"github.com/yigit/registrar/internal/pkg/logger"
)

// Migrator creates the registrar collections with their schema rules and
// unique indexes
type Migrator struct {
	store       docstore.Store
	collections []docstore.CollectionSpec
}

// NewMigrator creates a new migrator for every registrar collection
func NewMigrator(store docstore.Store) *Migrator {
	return &Migrator{
		store:       store,
		collections: models.Collections(),
	}
}

// Migrate ensures each collection exists. Collections already present are
// left as they are, so running it again is harmless.
func (m *Migrator) Migrate(ctx context.Context) error {
	for _, spec := range m.collections {
		logger.Debug().Str("collection", spec.Name).Int("indexes", len(spec.Indexes)).Msg("Ensuring collection")
		if err := m.store.EnsureCollection(ctx, spec); err != nil {
			return fmt.Errorf("migration of collection %s failed: %w", spec.Name, err)
		}
	}
	logger.Info().Int("collections", len(m.collections)).Msg("Collections successfully migrated")
	return nil
}
