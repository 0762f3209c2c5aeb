package commands

import (
	"github.com/speakeasy-api/fieldmap/cmd/fieldmap/commands/cmdutil"
	"github.com/speakeasy-api/fieldmap/internal/report"
	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats <file>",
		Short: "Summarize field usage, HTTP methods, the schema graph and warnings",
		Long: `Print the statistics shown in the explorer's Stats view: field type
distribution, HTTP method breakdown, the most used fields, schema graph
figures, detected foreign keys and numbered warnings.

Output formats:
  text  - Human-readable report (default)
  json  - Machine-readable JSON for CI pipelines
  yaml  - YAML

Stdin is supported. Pipe data or use '-':
  cat api.yaml | fieldmap stats --format json`,
		Args: cmdutil.StdinOrFileArgs(1, 1),
		RunE: runStats,
	}
	cmd.Flags().StringP("format", "f", "text", "output format: text, json or yaml")
	cmd.Flags().Int("top", 10, "number of most used fields to list")
	return cmd
}

func runStats(cmd *cobra.Command, args []string) error {
	formatFlag, _ := cmd.Flags().GetString("format")
	format, err := report.ParseFormat(formatFlag)
	if err != nil {
		return err
	}

	snap, sess, err := loadSnapshot(cmd, cmdutil.InputFileFromArgs(args))
	if err != nil {
		return err
	}
	defer sess.Close()

	r := report.NewStatsReport(snap.Stats, snap.GraphSummary, snap.ForeignKeys, snap.TopN)
	return report.WriteStats(cmd.OutOrStdout(), r, format)
}
