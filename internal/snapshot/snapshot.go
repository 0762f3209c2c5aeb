// Package snapshot assembles everything derived from one load of an API description into a single
// immutable value. A reload builds a new Snapshot and swaps it in whole.
package snapshot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/speakeasy-api/fieldmap/internal/diag"
	"github.com/speakeasy-api/fieldmap/internal/graph"
	"github.com/speakeasy-api/fieldmap/internal/impact"
	"github.com/speakeasy-api/fieldmap/internal/index"
	"github.com/speakeasy-api/fieldmap/internal/resolve"
	"github.com/speakeasy-api/fieldmap/internal/search"
	"github.com/speakeasy-api/fieldmap/internal/spec"
)

// Snapshot is the published, read-only result of a build.
type Snapshot struct {
	// Source names where the tree came from.
	Source   string
	Tree     *spec.Tree
	Resolved *resolve.Result
	Index    *index.ReverseIndex
	Stats    *impact.Stats
	Warnings []diag.Warning

	Graph        *graph.Graph
	Cycles       *graph.Analysis
	GraphSummary graph.Summary

	// ForeignKeys is empty when detection is disabled.
	ForeignKeys []impact.ForeignKey
	// ValidationErrors are the parser's findings for the document, when loaded through a Loader.
	ValidationErrors []error
	// TopN is the number of fields listed under top fields.
	TopN    int
	BuiltAt time.Time

	detector   impact.ForeignKeyDetector
	minScore   int
	candidates [kindCount][]search.Candidate
}

type options struct {
	maxDepth int
	detector impact.ForeignKeyDetector
	minScore int
	topN     int
	logger   *slog.Logger
	source   string
}

// Option configures Build and Loader.
type Option func(*options)

// WithMaxDepth bounds reference resolution.
func WithMaxDepth(n int) Option {
	return func(o *options) {
		o.maxDepth = n
	}
}

// WithForeignKeyDetector sets the foreign-key heuristic. Nil disables detection.
func WithForeignKeyDetector(d impact.ForeignKeyDetector) Option {
	return func(o *options) {
		o.detector = d
	}
}

// WithMinScore sets the minimum fuzzy score for Search.
func WithMinScore(n int) Option {
	return func(o *options) {
		o.minScore = n
	}
}

// WithTopN sets the length of the top fields list.
func WithTopN(n int) Option {
	return func(o *options) {
		o.topN = n
	}
}

// WithLogger sets the logger that receives build stage timings.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithSourceName labels the snapshot.
func WithSourceName(name string) Option {
	return func(o *options) {
		o.source = name
	}
}

func newOptions(opts []Option) options {
	o := options{
		maxDepth: resolve.DefaultMaxDepth,
		detector: impact.SuffixIDDetector{RequireIDField: true},
		minScore: 1,
		topN:     10,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Build resolves, indexes and analyzes tree. It fails only with index.ErrNoComponentsSection,
// index.ErrNoEndpoints or a context error.
func Build(ctx context.Context, tree *spec.Tree, opts ...Option) (*Snapshot, error) {
	o := newOptions(opts)
	return build(ctx, tree, o)
}

func build(ctx context.Context, tree *spec.Tree, o options) (*Snapshot, error) {
	log := o.logger
	start := time.Now()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	warnings := diag.NewCollector()
	var resolved *resolve.Result
	if tree != nil && tree.Schemas != nil {
		resolved = resolve.Resolve(tree.Schemas, warnings, resolve.WithMaxDepth(o.maxDepth))
		log.Debug("resolved schemas", slog.Int("schemas", len(resolved.Schemas)), slog.Int("warnings", warnings.Len()))
	}

	idx, err := index.Build(tree, resolved, warnings)
	if err != nil {
		log.Debug("index build failed", slog.String("error", err.Error()))
		return nil, err
	}
	log.Debug("built index", slog.Int("fields", idx.Len()), slog.Int("endpoints", len(idx.Endpoints())))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	all := warnings.Warnings()
	g := graph.Build(tree)
	cycles := graph.Analyze(g)

	s := &Snapshot{
		Source:       o.source,
		Tree:         tree,
		Resolved:     resolved,
		Index:        idx,
		Stats:        impact.Analyze(idx, all),
		Warnings:     all,
		Graph:        g,
		Cycles:       cycles,
		GraphSummary: graph.Summarize(g, cycles),
		ForeignKeys:  impact.ForeignKeys(idx, o.detector),
		TopN:         o.topN,
		BuiltAt:      time.Now(),
		detector:     o.detector,
		minScore:     o.minScore,
	}
	s.buildCandidates()

	log.Info("snapshot built",
		slog.String("source", o.source),
		slog.Int("fields", idx.Len()),
		slog.Int("schemas", s.Stats.SchemaCount),
		slog.Int("endpoints", s.Stats.EndpointCount),
		slog.Int("warnings", len(all)),
		slog.Duration("took", time.Since(start)),
	)

	return s, nil
}

// Inspect returns the full report for a field using the snapshot's foreign-key detector.
func (s *Snapshot) Inspect(name string, relatedLimit int) (*impact.FieldReport, bool) {
	return impact.Inspect(s.Index, name, impact.InspectOptions{Detector: s.detector, RelatedLimit: relatedLimit})
}

// ForeignKeyTarget returns the schema a field is detected to reference.
func (s *Snapshot) ForeignKeyTarget(field string) (string, bool) {
	for _, fk := range s.ForeignKeys {
		if fk.Field == field {
			return fk.Target, true
		}
	}
	return "", false
}

// Summary is a one-line description used in status bars and logs.
func (s *Snapshot) Summary() string {
	return fmt.Sprintf("%d fields, %d schemas, %d endpoints, %d warnings",
		s.Stats.FieldCount, s.Stats.SchemaCount, s.Stats.EndpointCount, len(s.Warnings))
}
