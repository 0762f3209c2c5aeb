// Package commands implements the fieldmap subcommands.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/speakeasy-api/fieldmap/cmd/fieldmap/commands/cmdutil"
	"github.com/speakeasy-api/fieldmap/internal/config"
	"github.com/speakeasy-api/fieldmap/internal/logging"
	"github.com/speakeasy-api/fieldmap/internal/resolve"
	"github.com/speakeasy-api/fieldmap/internal/snapshot"
	"github.com/spf13/cobra"
)

// Apply registers the persistent flags and every subcommand on root.
func Apply(root *cobra.Command) {
	flags := root.PersistentFlags()
	flags.BoolP("verbose", "v", false, "verbose output")
	flags.String("config", "", "config file (default .fieldmap.yaml in the working or home directory)")
	flags.Bool("debug", false, "log at debug level")
	flags.String("log-file", "", "write logs to this file")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.Int("max-depth", resolve.DefaultMaxDepth, "maximum reference resolution depth")
	flags.Bool("foreign-keys", true, "detect foreign-key fields such as user_id")

	root.AddCommand(newExploreCmd())
	root.AddCommand(newFieldCmd())
	root.AddCommand(newSearchCmd())
	root.AddCommand(newStatsCmd())
	root.AddCommand(newGraphCmd())
}

// session holds what every command needs after flag parsing: settings, a logger and the loader
// for the input document.
type session struct {
	cfg     *config.Config
	logger  *slog.Logger
	loader  *snapshot.Loader
	stdin   bool
	verbose bool

	closeLog func() error
}

func newSession(cmd *cobra.Command, path string) (*session, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath, cmd.Flags())
	if err != nil {
		return nil, err
	}

	debug, _ := cmd.Flags().GetBool("debug")
	logger, closeLog, err := logging.Setup(cfg.Log.File, cfg.Log.Level, debug)
	if err != nil {
		return nil, err
	}
	if cfg.File != "" {
		logger.Debug("using config file", slog.String("path", cfg.File))
	}

	src, err := cmdutil.SourceFor(path, cmd.InOrStdin())
	if err != nil {
		_ = closeLog()
		return nil, err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	return &session{
		cfg:      cfg,
		logger:   logger,
		loader:   snapshot.NewLoader(src, cfg.SnapshotOptions(logger)...),
		stdin:    cmdutil.IsStdin(path),
		verbose:  verbose,
		closeLog: closeLog,
	}, nil
}

func (s *session) Close() error {
	return s.closeLog()
}

// load builds the first snapshot. With --verbose it reports timing and any document validation
// findings on w.
func (s *session) load(ctx context.Context, w io.Writer) (*snapshot.Snapshot, error) {
	start := time.Now()
	snap, err := s.loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	if s.verbose {
		reportElapsed(w, "Indexing "+s.loader.SourceName(), time.Since(start))
		fmt.Fprintf(w, "%s\n", snap.Summary())
		for _, verr := range snap.ValidationErrors {
			fmt.Fprintf(w, "  validation: %v\n", verr)
		}
	}
	return snap, nil
}

// loadSnapshot is the common prologue of the report commands.
func loadSnapshot(cmd *cobra.Command, path string) (*snapshot.Snapshot, *session, error) {
	sess, err := newSession(cmd, path)
	if err != nil {
		return nil, nil, err
	}
	snap, err := sess.load(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		_ = sess.Close()
		return nil, nil, err
	}
	return snap, sess, nil
}

func reportElapsed(w io.Writer, action string, elapsed time.Duration) {
	roundedElapsed := elapsed.Round(time.Millisecond)
	if roundedElapsed < time.Millisecond {
		roundedElapsed = time.Millisecond
	}

	fmt.Fprintf(w, "%s completed in %s\n", action, roundedElapsed)
}
