package commands

import (
	"fmt"

	"github.com/speakeasy-api/fieldmap/internal/sliceutil"
	"github.com/speakeasy-api/fieldmap/internal/snapshot"
	"github.com/spf13/cobra"
)

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <file> <query>",
		Short: "Fuzzy search the items of a view",
		Long: `Rank the items of one explorer view against a fuzzy query and print their ids,
best match first.

Views: fields (default), schemas, endpoints, graph, stats.

Examples:
  fieldmap search api.yaml usid
  fieldmap search api.yaml "post user" --view endpoints`,
		Args: cobra.ExactArgs(2),
		RunE: runSearch,
	}
	cmd.Flags().String("view", snapshot.KindFields.String(), "view to search: fields, schemas, endpoints, graph or stats")
	cmd.Flags().Int("min-score", 1, "minimum fuzzy score for a match")
	cmd.Flags().IntP("limit", "n", 0, "print at most this many results (0 for all)")
	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	viewFlag, _ := cmd.Flags().GetString("view")
	kind, err := snapshot.ParseKind(viewFlag)
	if err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt("limit")

	snap, sess, err := loadSnapshot(cmd, args[0])
	if err != nil {
		return err
	}
	defer sess.Close()

	ids := sliceutil.Take(snapshot.Search(snap, args[1], kind), limit)
	for _, id := range ids {
		fmt.Fprintln(cmd.OutOrStdout(), id)
	}
	if len(ids) == 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "no %s match %q\n", kind, args[1])
	}
	return nil
}
