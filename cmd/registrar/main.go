// Package main provides the registrar CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yigit/registrar/internal/bootstrap"
	"github.com/yigit/registrar/internal/pkg/logger"
	"github.com/yigit/registrar/internal/runner"
	"github.com/yigit/registrar/internal/seed"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "registrar",
		Short: "Registrar - department, course and enrollment records",
		Long: `Registrar keeps the departments, courses, sections, majors and students
of a university in a document store and guards their consistency:
unique keys are checked before every insert and nothing can be deleted
while other records still depend on it.

Running registrar without a subcommand opens the interactive menu.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := runner.NewRunner(cmd.Context(), configPath, cmd.InOrStdin(), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return r.Run(cmd.Context())
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", filepath.Join("configs", "config.yaml"), "Path to the configuration file")

	// Version command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "registrar v%s (%s)\n", version, commit)
		},
	})

	// Migrate command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create the collections, schema rules and unique indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := bootstrap.LoadConfigAndSetupLogger(configPath)
			if err != nil {
				return err
			}
			store, err := bootstrap.SetupStore(ctx, cfg)
			if err != nil {
				return err
			}
			return store.Close(ctx)
		},
	})

	// Seed command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "seed",
		Short: "Load the sample catalog regardless of seed.enabled",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := bootstrap.LoadConfigAndSetupLogger(configPath)
			if err != nil {
				return err
			}
			store, err := bootstrap.SetupStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer store.Close(context.Background())

			cfg.Seed.Enabled = false
			deps, err := bootstrap.BuildDependencies(ctx, cfg, store)
			if err != nil {
				return err
			}
			return seed.CreateDefaultData(ctx, deps.Services)
		},
	})

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logger.Error().Err(err).Msg("registrar failed")
		os.Exit(1)
	}
}
