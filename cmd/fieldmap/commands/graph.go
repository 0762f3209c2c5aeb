package commands

import (
	"fmt"
	"io"

	"github.com/speakeasy-api/fieldmap/cmd/fieldmap/commands/cmdutil"
	"github.com/speakeasy-api/fieldmap/internal/graph"
	"github.com/spf13/cobra"
)

func newGraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph <file>",
		Short: "Render the schema dependency graph",
		Long: `Render the graph of schema references as Graphviz DOT or a Mermaid flowchart.

Edges are labelled with their kind (property, items, composition, nested) and,
where there is one, the field that holds the reference. Use --focus to render
only the neighborhood of one schema.

Examples:
  fieldmap graph api.yaml | dot -Tsvg > schemas.svg
  fieldmap graph api.yaml --format mermaid --focus User --hops 2`,
		Args: cmdutil.StdinOrFileArgs(1, 1),
		RunE: runGraph,
	}
	cmd.Flags().StringP("format", "f", "dot", "output format: dot or mermaid")
	cmd.Flags().String("focus", "", "render only the neighborhood of this schema")
	cmd.Flags().Int("hops", 1, "neighborhood radius around --focus")
	return cmd
}

func runGraph(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	focus, _ := cmd.Flags().GetString("focus")
	hops, _ := cmd.Flags().GetInt("hops")

	var render func(*graph.Graph, string, int) string
	switch format {
	case "dot":
		render = graph.EgoGraphToDOT
	case "mermaid":
		render = graph.EgoGraphToMermaid
	default:
		return fmt.Errorf("unknown format: %s (expected dot or mermaid)", format)
	}

	if focus == "" {
		hops = 0
	} else if hops < 1 {
		return fmt.Errorf("--hops must be at least 1, got %d", hops)
	}

	snap, sess, err := loadSnapshot(cmd, cmdutil.InputFileFromArgs(args))
	if err != nil {
		return err
	}
	defer sess.Close()

	out := render(snap.Graph, focus, hops)
	if out == "" {
		return fmt.Errorf("schema %q not found", focus)
	}
	_, err = io.WriteString(cmd.OutOrStdout(), out)
	return err
}
