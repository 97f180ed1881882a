package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	appMigrations "github.com/yigit/registrar/internal/app/migrations"
	appRepos "github.com/yigit/registrar/internal/app/repositories"
	appServices "github.com/yigit/registrar/internal/app/services"
	"github.com/yigit/registrar/internal/config"
	"github.com/yigit/registrar/internal/db"
	"github.com/yigit/registrar/internal/pkg/docstore"
	"github.com/yigit/registrar/internal/pkg/docstore/memstore"
	"github.com/yigit/registrar/internal/pkg/docstore/mongostore"
	"github.com/yigit/registrar/internal/pkg/docstore/pgstore"
	"github.com/yigit/registrar/internal/pkg/logger"
	"github.com/yigit/registrar/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Store    docstore.Store
	Repos    *appRepos.Repositories
	Services *appServices.Services
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
// Every entry of the run carries a fresh session id.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:   logLevel,
		Pretty:  prettyLog,
		Session: uuid.NewString(),
	})

	logger.Info().
		Str("logLevel", string(logLevel)).
		Str("logFormat", cfg.Logging.Format).
		Str("driver", cfg.Store.Driver).
		Msg("Logger configured")
	return cfg, nil
}

// OpenStore connects the document store selected by store.driver
func OpenStore(ctx context.Context, cfg *config.Config) (docstore.Store, error) {
	logger.Info().Str("driver", cfg.Store.Driver).Msg("Establishing store connection...")

	switch cfg.Store.Driver {
	case config.DriverMongo:
		database, err := db.NewMongoDB(ctx, cfg)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to connect to MongoDB")
			return nil, err
		}
		return mongostore.New(database.Database), nil
	case config.DriverPostgres:
		database, err := db.NewPostgresDB(ctx, cfg)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to connect to PostgreSQL")
			return nil, err
		}
		return pgstore.New(database.Pool), nil
	case config.DriverMemory:
		logger.Warn().Msg("Using the in-memory store, nothing survives this session")
		return memstore.New(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// SetupStore opens the store and migrates its collections
func SetupStore(ctx context.Context, cfg *config.Config) (docstore.Store, error) {
	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	logger.Info().Msg("Running collection migrations...")
	if err := appMigrations.NewMigrator(store).Migrate(ctx); err != nil {
		logger.Error().Err(err).Msg("Collection migration error")
		_ = store.Close(context.Background())
		return nil, fmt.Errorf("collection migrations failed: %w", err)
	}
	return store, nil
}

// BuildDependencies initializes repositories and services over store and
// loads the sample data when seeding is enabled
func BuildDependencies(ctx context.Context, cfg *config.Config, store docstore.Store) (*Dependencies, error) {
	deps := &Dependencies{Store: store}
	deps.Repos = appRepos.NewRepositories(store)
	deps.Services = appServices.NewServices(store, deps.Repos)

	if cfg.Seed.Enabled {
		if err := seed.CreateDefaultData(ctx, deps.Services); err != nil {
			// Log the error but don't fail the startup
			logger.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
		}
	}
	return deps, nil
}
