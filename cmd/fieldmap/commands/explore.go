package commands

import (
	"github.com/speakeasy-api/fieldmap/cmd/fieldmap/commands/cmdutil"
	"github.com/speakeasy-api/fieldmap/internal/tui"
	"github.com/spf13/cobra"
)

func newExploreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explore <file>",
		Short: "Interactively explore fields, schemas and endpoints",
		Long: `Open an interactive explorer over an OpenAPI document.

The explorer has five views:
  1 Fields     every field with the schemas and endpoints that use it
  2 Schemas    schemas with their own and inherited fields
  3 Endpoints  operations with the fields they carry
  4 Graph      schemas in dependency order with their references
  5 Stats      type distribution, HTTP methods, top fields and warnings

Press / to search the active view, enter to select, tab to move between
panels, r to reload the document from disk and ? for help.

Stdin is supported. Pipe data or use '-':
  cat api.yaml | fieldmap explore
  cat api.yaml | fieldmap explore -`,
		Args: cmdutil.StdinOrFileArgs(1, 1),
		RunE: runExplore,
	}
}

func runExplore(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	sess, err := newSession(cmd, cmdutil.InputFileFromArgs(args))
	if err != nil {
		return err
	}
	defer sess.Close()

	snap, err := sess.load(ctx, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	opts := []tui.Option{tui.WithStatusTimeout(sess.cfg.TUI.StatusTimeout)}
	if sess.stdin {
		opts = append(opts, tui.WithInputTTY())
	}
	return tui.Run(ctx, snap, sess.loader, opts...)
}
