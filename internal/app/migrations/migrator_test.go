package migrations

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/pkg/docstore"
	"github.com/yigit/registrar/internal/pkg/docstore/memstore"
)

func TestMigrateCreatesEveryCollection(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	m := NewMigrator(store)

	require.NoError(t, m.Migrate(ctx))
	// A second run changes nothing
	require.NoError(t, m.Migrate(ctx))

	for _, spec := range models.Collections() {
		indexes, err := store.Indexes(ctx, spec.Name)
		require.NoError(t, err)

		names := map[string]bool{}
		for _, idx := range indexes {
			names[idx.Name] = true
		}
		for _, idx := range spec.Indexes {
			assert.True(t, names[idx.Name], "%s missing on %s", idx.Name, spec.Name)
		}
	}
}

type failingStore struct {
	*memstore.Store
	failOn string
}

func (s failingStore) EnsureCollection(ctx context.Context, spec docstore.CollectionSpec) error {
	if spec.Name == s.failOn {
		return errors.New("permission denied")
	}
	return s.Store.EnsureCollection(ctx, spec)
}

func TestMigrateStopsAtFirstFailure(t *testing.T) {
	store := failingStore{Store: memstore.New(), failOn: models.SectionsCollection}

	err := NewMigrator(store).Migrate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collection sections")
	assert.Contains(t, err.Error(), "permission denied")
}
