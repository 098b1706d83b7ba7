// Package cli implements the library command line.
//
//	library serve
//	library books --category fiction
//	library export --out backup.json
//
// Every command reads the same environment configuration as the server;
// --db and --assets override DATABASE_PATH and ASSETS_DIR.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/bearthen/library/internal/config"
	"github.com/bearthen/library/internal/entrypoint"
	"github.com/bearthen/library/internal/library"
)

type rootOptions struct {
	cfg       *config.Config
	dbPath    string
	assetsDir string
}

// NewRootCommand builds the command tree. Running it without a subcommand
// starts the server.
func NewRootCommand(cfg *config.Config, version string) *cobra.Command {
	opts := &rootOptions{cfg: cfg}

	root := &cobra.Command{
		Use:           "library",
		Short:         "Local book library: catalogue, reading progress and reading lists",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return entrypoint.Run(opts.config(), version)
		},
	}

	root.PersistentFlags().StringVar(&opts.dbPath, "db", "", "Path to the library database (overrides DATABASE_PATH)")
	root.PersistentFlags().StringVar(&opts.assetsDir, "assets", "", "Asset directory for covers and EPUBs (overrides ASSETS_DIR)")

	root.AddCommand(
		newServeCommand(opts, version),
		newBooksCommand(opts),
		newListsCommand(opts),
		newExportCommand(opts),
		newBackupCommand(opts),
		newVerifyAssetsCommand(opts),
		newPruneCommand(opts),
		newMigrationsCommand(opts),
	)
	return root
}

// config applies flag overrides to the environment configuration.
func (o *rootOptions) config() *config.Config {
	cfg := *o.cfg
	if o.dbPath != "" {
		cfg.Database.Path = o.dbPath
	}
	if o.assetsDir != "" {
		cfg.Assets.Dir = o.assetsDir
	}
	return &cfg
}

// withStore opens the store for the duration of fn.
func (o *rootOptions) withStore(fn func(store *library.Store) error) error {
	store, err := entrypoint.OpenStore(o.config())
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func newServeCommand(opts *rootOptions, version string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API (default when no command is given)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return entrypoint.Run(opts.config(), version)
		},
	}
}
