package commands

import (
	"fmt"
	"strings"

	"github.com/speakeasy-api/fieldmap/internal/report"
	"github.com/speakeasy-api/fieldmap/internal/sliceutil"
	"github.com/speakeasy-api/fieldmap/internal/snapshot"
	"github.com/spf13/cobra"
)

const suggestionCount = 3

func newFieldCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "field <file> <name>",
		Short: "Show where a field is used and what changing it would affect",
		Long: `Report every schema and endpoint that uses a field.

The report includes the field's type, usage count, whether it is critical
(carried by a POST, PUT, PATCH or DELETE endpoint), a risk score, related
fields that share schemas with it and the schema it references when it
looks like a foreign key.

Output formats:
  text  - Human-readable report (default)
  json  - Machine-readable JSON
  yaml  - YAML

Examples:
  fieldmap field api.yaml user_id
  cat api.yaml | fieldmap field - id --format json`,
		Args: cobra.ExactArgs(2),
		RunE: runField,
	}
	cmd.Flags().StringP("format", "f", "text", "output format: text, json or yaml")
	cmd.Flags().Int("related", 10, "maximum number of related fields to list (0 for all)")
	return cmd
}

func runField(cmd *cobra.Command, args []string) error {
	formatFlag, _ := cmd.Flags().GetString("format")
	format, err := report.ParseFormat(formatFlag)
	if err != nil {
		return err
	}
	related, _ := cmd.Flags().GetInt("related")

	snap, sess, err := loadSnapshot(cmd, args[0])
	if err != nil {
		return err
	}
	defer sess.Close()

	name := args[1]
	r, ok := snap.Inspect(name, related)
	if !ok {
		return unknownFieldError(snap, name)
	}
	return report.WriteField(cmd.OutOrStdout(), r, format)
}

func unknownFieldError(snap *snapshot.Snapshot, name string) error {
	suggestions := sliceutil.Take(snapshot.Search(snap, name, snapshot.KindFields), suggestionCount)
	if len(suggestions) == 0 {
		return fmt.Errorf("field %q not found", name)
	}
	return fmt.Errorf("field %q not found (did you mean: %s?)", name, strings.Join(suggestions, ", "))
}
