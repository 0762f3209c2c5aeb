package snapshot

import (
	"context"
	"log/slog"

	"github.com/speakeasy-api/fieldmap/internal/spec"
)

// Loader reads a source and builds a snapshot from it. Each call to Load re-reads the source, so
// the same Loader serves the initial load and every reload.
type Loader struct {
	src      spec.Source
	opts     []Option
	loadOpts []spec.LoadOption
}

// NewLoader creates a loader for src. opts apply to every snapshot it builds.
func NewLoader(src spec.Source, opts ...Option) *Loader {
	return &Loader{src: src, opts: opts}
}

// WithLoadOptions sets the parser options used on every load.
func (l *Loader) WithLoadOptions(opts ...spec.LoadOption) *Loader {
	l.loadOpts = opts
	return l
}

// SourceName names the source being loaded.
func (l *Loader) SourceName() string {
	return l.src.Name()
}

// Load parses the source and builds a new snapshot. On failure nothing previously returned by the
// loader is affected.
func (l *Loader) Load(ctx context.Context) (*Snapshot, error) {
	o := newOptions(append([]Option{WithSourceName(l.src.Name())}, l.opts...))
	o.logger.Debug("loading document", slog.String("source", l.src.Name()))

	res, err := spec.Load(ctx, l.src, l.loadOpts...)
	if err != nil {
		o.logger.Error("failed to load document", slog.String("source", l.src.Name()), slog.String("error", err.Error()))
		return nil, err
	}

	s, err := build(ctx, res.Tree, o)
	if err != nil {
		o.logger.Error("failed to build index", slog.String("source", l.src.Name()), slog.String("error", err.Error()))
		return nil, err
	}
	s.ValidationErrors = res.ValidationErrors
	return s, nil
}
