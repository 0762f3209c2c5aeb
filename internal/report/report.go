// Package report writes field, stats and graph reports as text, JSON or YAML.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/speakeasy-api/fieldmap/internal/graph"
	"github.com/speakeasy-api/fieldmap/internal/impact"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// Format is an output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format %q (expected text, json or yaml)", s)
	}
}

var printer = message.NewPrinter(language.English)

// StatsReport is the encoded form of the stats surface.
type StatsReport struct {
	Title         string `json:"title,omitempty" yaml:"title,omitempty"`
	Version       string `json:"version,omitempty" yaml:"version,omitempty"`
	FieldCount    int    `json:"fieldCount" yaml:"fieldCount"`
	SchemaCount   int    `json:"schemaCount" yaml:"schemaCount"`
	EndpointCount int    `json:"endpointCount" yaml:"endpointCount"`
	PathCount     int    `json:"pathCount" yaml:"pathCount"`
	CriticalCount int    `json:"criticalCount" yaml:"criticalCount"`

	Types       []impact.TypeShare       `json:"types" yaml:"types"`
	Methods     []impact.MethodCount     `json:"methods" yaml:"methods"`
	TopFields   []impact.FieldRank       `json:"topFields" yaml:"topFields"`
	Graph       graph.Summary            `json:"graph" yaml:"graph"`
	ForeignKeys []impact.ForeignKey      `json:"foreignKeys,omitempty" yaml:"foreignKeys,omitempty"`
	Warnings    []impact.NumberedWarning `json:"warnings" yaml:"warnings"`
}

// NewStatsReport assembles a StatsReport listing the topN most used fields.
func NewStatsReport(s *impact.Stats, g graph.Summary, fks []impact.ForeignKey, topN int) *StatsReport {
	return &StatsReport{
		Title:         s.Title,
		Version:       s.Version,
		FieldCount:    s.FieldCount,
		SchemaCount:   s.SchemaCount,
		EndpointCount: s.EndpointCount,
		PathCount:     s.PathCount,
		CriticalCount: s.CriticalCount,
		Types:         s.Types,
		Methods:       s.Methods,
		TopFields:     s.TopFields(topN),
		Graph:         g,
		ForeignKeys:   fks,
		Warnings:      s.Warnings,
	}
}

// WriteStats writes r in the given format.
func WriteStats(w io.Writer, r *StatsReport, format Format) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, r)
	case FormatYAML:
		return writeYAML(w, r)
	default:
		writeStatsText(w, r)
		return nil
	}
}

// WriteField writes a field report in the given format.
func WriteField(w io.Writer, r *impact.FieldReport, format Format) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, r)
	case FormatYAML:
		return writeYAML(w, r)
	default:
		writeFieldText(w, r)
		return nil
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return enc.Close()
}

func writeStatsText(w io.Writer, r *StatsReport) {
	title := r.Title
	if r.Version != "" {
		title += " v" + r.Version
	}
	fmt.Fprintf(w, "Field Usage Report: %s\n", title)
	fmt.Fprintf(w, "%s\n\n", strings.Repeat("=", 60))

	fmt.Fprintf(w, "OVERVIEW\n")
	printer.Fprintf(w, "  Fields: %d  Schemas: %d  Endpoints: %d  Paths: %d\n", r.FieldCount, r.SchemaCount, r.EndpointCount, r.PathCount)
	printer.Fprintf(w, "  Critical fields: %d  Warnings: %d\n\n", r.CriticalCount, len(r.Warnings))

	if len(r.Types) > 0 {
		fmt.Fprintf(w, "FIELD TYPES\n")
		for _, t := range r.Types {
			printer.Fprintf(w, "  %-12s %6d  %5.1f%%\n", t.Type, t.Count, t.Percent)
		}
		fmt.Fprintln(w)
	}

	if len(r.Methods) > 0 {
		fmt.Fprintf(w, "HTTP METHODS\n")
		for _, m := range r.Methods {
			printer.Fprintf(w, "  %-8s %6d\n", m.Method, m.Count)
		}
		fmt.Fprintln(w)
	}

	if len(r.TopFields) > 0 {
		fmt.Fprintf(w, "TOP FIELDS\n")
		for i, f := range r.TopFields {
			marker := ""
			if f.Critical {
				marker = "  critical"
			}
			printer.Fprintf(w, "  %d. %-30s %d uses (%d schemas, %d endpoints)%s\n", i+1, f.Name, f.UsageCount, f.Schemas, f.Endpoints, marker)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "SCHEMA GRAPH\n")
	printer.Fprintf(w, "  Schemas: %d  Refs: %d  Density: %.3f\n", r.Graph.Nodes, r.Graph.Edges, r.Graph.Density)
	fmt.Fprintf(w, "  Cycles: %d  Largest: %d  Depth: %d\n", r.Graph.SCCCount, r.Graph.LargestSCCSize, r.Graph.Depth)
	if r.Graph.MaxFanIn.Schema != "" {
		fmt.Fprintf(w, "  Highest fan-in: %s (%d)\n", r.Graph.MaxFanIn.Schema, r.Graph.MaxFanIn.Count)
	}
	fmt.Fprintln(w)

	if len(r.ForeignKeys) > 0 {
		fmt.Fprintf(w, "FOREIGN KEYS\n")
		for _, fk := range r.ForeignKeys {
			fmt.Fprintf(w, "  %-30s -> %s\n", fk.Field, fk.Target)
		}
		fmt.Fprintln(w)
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintf(w, "WARNINGS (%d)\n", len(r.Warnings))
		for _, wr := range r.Warnings {
			fmt.Fprintf(w, "  %d. %s\n", wr.Number, wr.String())
		}
	}
}

func writeFieldText(w io.Writer, r *impact.FieldReport) {
	fmt.Fprintf(w, "Field: %s\n", r.Name)
	fmt.Fprintf(w, "%s\n", strings.Repeat("=", 60))

	typ := r.Type
	if typ == "" {
		typ = "unknown"
	}
	if r.Format != "" {
		typ += " (" + r.Format + ")"
	}
	fmt.Fprintf(w, "  Type:       %s\n", typ)
	if r.Description != "" {
		fmt.Fprintf(w, "  Description: %s\n", r.Description)
	}
	printer.Fprintf(w, "  Usage:      %d (%d schemas, %d endpoints)\n", r.UsageCount, len(r.Schemas), len(r.Endpoints))

	critical := "no"
	if r.Critical {
		parts := []string{}
		for _, m := range r.MutatingBreakdown() {
			parts = append(parts, fmt.Sprintf("%s:%d", m.Method, m.Count))
		}
		critical = "yes (" + strings.Join(parts, ", ") + ")"
	}
	fmt.Fprintf(w, "  Critical:   %s\n", critical)
	if r.Risk != nil {
		fmt.Fprintf(w, "  Risk:       %s (%.2f)\n", r.Risk.Level, r.Risk.Score)
	}
	if r.ForeignKey != "" {
		fmt.Fprintf(w, "  References: %s\n", r.ForeignKey)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "SCHEMAS (%d)\n", len(r.Schemas))
	for _, s := range r.Schemas {
		fmt.Fprintf(w, "  - %s\n", s)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "ENDPOINTS (%d)\n", len(r.Endpoints))
	for _, e := range r.Endpoints {
		fmt.Fprintf(w, "  - %s\n", e)
	}

	if len(r.RequiredIn) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "REQUIRED IN\n")
		for _, s := range r.RequiredIn {
			fmt.Fprintf(w, "  - %s\n", s)
		}
	}

	if len(r.Related) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "RELATED FIELDS\n")
		for _, rel := range r.Related {
			fmt.Fprintf(w, "  - %-30s %d shared schemas\n", rel.Field, rel.SharedSchemas)
		}
	}

	if r.Risk != nil {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s\n", r.Risk.Explanation)
	}
}
