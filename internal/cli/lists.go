package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bearthen/library/internal/library"
)

func newListsCommand(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "lists",
		Short: "Show reading lists and their books",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withStore(func(store *library.Store) error {
				lists, err := store.GetLists()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if asJSON {
					return writeJSON(out, lists)
				}

				tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tNAME\tBOOKS\tUPDATED")
				for _, l := range lists {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
						l.ID, l.Name, strings.Join(l.BookIDs, ","), formatUnix(l.UpdatedAt))
				}
				if err := tw.Flush(); err != nil {
					return err
				}
				_, err = fmt.Fprintf(out, "%d lists\n", len(lists))
				return err
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}
