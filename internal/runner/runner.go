package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yigit/registrar/internal/bootstrap"
	"github.com/yigit/registrar/internal/config"
	"github.com/yigit/registrar/internal/console"
	"github.com/yigit/registrar/internal/pkg/docstore"
	"github.com/yigit/registrar/internal/pkg/logger"
)

// Runner holds the state of one interactive registrar session
type Runner struct {
	config  *config.Config
	store   docstore.Store
	console *console.Console
}

// NewRunner loads configuration, opens and migrates the store and builds the
// console over it
func NewRunner(ctx context.Context, configPath string, in io.Reader, out io.Writer) (*Runner, error) {
	cfg, err := bootstrap.LoadConfigAndSetupLogger(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config or setup logger: %w", err)
	}

	store, err := bootstrap.SetupStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to setup store: %w", err)
	}

	deps, err := bootstrap.BuildDependencies(ctx, cfg, store)
	if err != nil {
		// Attempt to close the store if DI fails
		_ = store.Close(context.Background())
		return nil, fmt.Errorf("failed to setup dependencies: %w", err)
	}

	return &Runner{
		config:  cfg,
		store:   store,
		console: console.New(deps.Services, in, out, console.Options{Timeout: cfg.StoreTimeout()}),
	}, nil
}

// Run shows the menus until the operator exits, input ends or an OS signal
// arrives, then releases the store
func (r *Runner) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	logger.Info().Msg("Starting registrar session...")

	// Channel to listen for the end of the session
	sessionErrors := make(chan error, 1)
	go func() {
		sessionErrors <- r.console.Run(ctx)
	}()

	// Channel to listen for OS signals
	osSignals := make(chan os.Signal, 1)
	signal.Notify(osSignals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(osSignals)

	var runErr error
	select {
	case err := <-sessionErrors:
		if err != nil {
			runErr = fmt.Errorf("session ended with error: %w", err)
		}
	case sig := <-osSignals:
		logger.Info().Str("signal", sig.String()).Msg("Received OS signal, initiating shutdown...")
	case <-ctx.Done():
	}

	return errors.Join(runErr, r.Shutdown(context.Background()))
}

// Shutdown closes the store
func (r *Runner) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	logger.Info().Msg("Closing store connection...")
	if err := r.store.Close(ctx); err != nil {
		logger.Error().Err(err).Msg("Store shutdown error")
		return fmt.Errorf("store shutdown: %w", err)
	}
	logger.Info().Msg("Session shutdown process complete.")
	return nil
}
