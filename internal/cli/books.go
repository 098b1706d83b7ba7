package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/bearthen/library/internal/entities"
	"github.com/bearthen/library/internal/library"
)

func newBooksCommand(opts *rootOptions) *cobra.Command {
	var (
		category string
		recent   int
		since    int64
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "books",
		Short: "List books in the library",
		Example: `  library books
  library books --category fiction
  library books --recent 5
  library books --since 1700000000 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withStore(func(store *library.Store) error {
				var (
					books []entities.Book
					err   error
				)
				switch {
				case category != "":
					books, err = store.GetByCategory(category)
				case cmd.Flags().Changed("recent"):
					books, err = store.GetRecentlyRead(recent)
				case cmd.Flags().Changed("since"):
					books, err = store.GetSince(since)
				default:
					books, err = store.GetBooks()
				}
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), books)
				}
				return writeBooks(cmd.OutOrStdout(), books)
			})
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Only books in this category")
	cmd.Flags().IntVar(&recent, "recent", 0, "Recently read books, up to N (10 when N <= 0)")
	cmd.Flags().Int64Var(&since, "since", 0, "Books added or read after this Unix timestamp")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	cmd.MarkFlagsMutuallyExclusive("category", "recent", "since")
	return cmd
}

func writeBooks(w io.Writer, books []entities.Book) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tAUTHOR\tCATEGORY\tPROGRESS\tLAST READ")
	for _, b := range books {
		progress := fmt.Sprintf("%d%%", b.ReadPercent)
		if b.IsFinished {
			progress = "finished"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			b.ID, b.Title, b.Author, b.Category, progress, formatUnix(b.LastRead))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d books\n", len(books))
	return err
}

func formatUnix(ts int64) string {
	if ts == 0 {
		return "-"
	}
	return time.Unix(ts, 0).Format("2006-01-02 15:04")
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
