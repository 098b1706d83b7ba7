package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bearthen/library/internal/exporters"
	"github.com/bearthen/library/internal/library"
)

func newExportCommand(opts *rootOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the whole library as JSON to stdout or a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withStore(func(store *library.Store) error {
				data, err := store.ExportJSON()
				if err != nil {
					return err
				}
				if out == "" {
					_, err = cmd.OutOrStdout().Write(append(data, '\n'))
					return err
				}
				if err := exporters.WriteFileAtomic(out, data); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d bytes to %s\n", len(data), out)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	return cmd
}

func newBackupCommand(opts *rootOptions) *cobra.Command {
	var (
		dir  string
		keep int
	)

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Write a timestamped export into the backup directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.config()
			if !cmd.Flags().Changed("dir") {
				dir = cfg.Backup.Dir
			}
			if !cmd.Flags().Changed("keep") {
				keep = cfg.Backup.Keep
			}
			return opts.withStore(func(store *library.Store) error {
				result, err := store.Backup(dir, keep)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Backed up %d books, %d lists to %s\n",
					result.BooksProcessed, result.ListsProcessed, result.Path)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Backup directory (default BACKUP_DIR)")
	cmd.Flags().IntVar(&keep, "keep", 0, "Newest backups to keep, 0 keeps all (default BACKUP_KEEP)")
	return cmd
}

func newVerifyAssetsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "verify-assets",
		Short: "Clear cover and EPUB paths whose files no longer exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withStore(func(store *library.Store) error {
				result, err := store.VerifyAssets(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Checked %d books: cleared %d covers, %d book files\n",
					result.Checked, result.ClearedCovers, result.ClearedFiles)
				return nil
			})
		},
	}
}

func newPruneCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove list entries and asset files of deleted books",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withStore(func(store *library.Store) error {
				result, err := store.PruneOrphans()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Removed %d orphan list entries\n", result.ListEntries)
				if result.AssetsSkipped {
					fmt.Fprintln(out, "No asset directory configured, asset files not checked")
				} else {
					fmt.Fprintf(out, "Removed %d orphan asset files\n", result.AssetFiles)
				}
				return nil
			})
		},
	}
}

func newMigrationsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrations",
		Short: "Show applied schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withStore(func(store *library.Store) error {
				versions, err := store.Database().AppliedVersions()
				if err != nil {
					return err
				}
				for _, v := range versions {
					fmt.Fprintf(cmd.OutOrStdout(), "%d\n", v)
				}
				return nil
			})
		},
	}
}
