// Package impact derives the figures used to judge the blast radius of changing a field: usage
// rankings, type and method distributions, numbered warnings and per-field risk.
package impact

import (
	"slices"
	"strings"

	"github.com/speakeasy-api/fieldmap/internal/diag"
	"github.com/speakeasy-api/fieldmap/internal/index"
)

// Color is the semantic color a renderer should use for an HTTP method.
type Color string

const (
	ColorGreen  Color = "green"
	ColorBlue   Color = "blue"
	ColorYellow Color = "yellow"
	ColorPurple Color = "purple"
	ColorRed    Color = "red"
	ColorGray   Color = "gray"
)

var methodOrder = []string{"GET", "POST", "PUT", "PATCH", "DELETE"}

// MethodColor returns the fixed color association: GET green, POST blue, PUT yellow,
// PATCH purple, DELETE red, everything else gray.
func MethodColor(method string) Color {
	switch strings.ToUpper(method) {
	case "GET":
		return ColorGreen
	case "POST":
		return ColorBlue
	case "PUT":
		return ColorYellow
	case "PATCH":
		return ColorPurple
	case "DELETE":
		return ColorRed
	default:
		return ColorGray
	}
}

// TypeShare is one row of the field type distribution.
type TypeShare struct {
	Type    string  `json:"type" yaml:"type"`
	Count   int     `json:"count" yaml:"count"`
	Percent float64 `json:"percent" yaml:"percent"`
}

// MethodCount is one row of the HTTP method breakdown.
type MethodCount struct {
	Method string `json:"method" yaml:"method"`
	Count  int    `json:"count" yaml:"count"`
	Color  Color  `json:"color" yaml:"color"`
}

// FieldRank is a field with its usage figures.
type FieldRank struct {
	Name       string `json:"name" yaml:"name"`
	UsageCount int    `json:"usageCount" yaml:"usageCount"`
	Schemas    int    `json:"schemas" yaml:"schemas"`
	Endpoints  int    `json:"endpoints" yaml:"endpoints"`
	Critical   bool   `json:"critical" yaml:"critical"`
}

// NumberedWarning is a warning with its stable 1-based position in the warning list.
type NumberedWarning struct {
	Number       int `json:"number" yaml:"number"`
	diag.Warning `yaml:",inline"`
}

// Stats is the derived view of an index shown in the stats view and reports.
type Stats struct {
	Title         string `json:"title,omitempty" yaml:"title,omitempty"`
	Version       string `json:"version,omitempty" yaml:"version,omitempty"`
	FieldCount    int    `json:"fieldCount" yaml:"fieldCount"`
	SchemaCount   int    `json:"schemaCount" yaml:"schemaCount"`
	EndpointCount int    `json:"endpointCount" yaml:"endpointCount"`
	PathCount     int    `json:"pathCount" yaml:"pathCount"`
	CriticalCount int    `json:"criticalCount" yaml:"criticalCount"`

	Types   []TypeShare   `json:"types" yaml:"types"`
	Methods []MethodCount `json:"methods" yaml:"methods"`
	// Mutating counts critical-making endpoint references per mutating method across all fields.
	Mutating []index.MethodCount `json:"mutating,omitempty" yaml:"mutating,omitempty"`
	// Ranked holds every field ordered by usage count descending, then name.
	Ranked   []FieldRank       `json:"ranked" yaml:"ranked"`
	Warnings []NumberedWarning `json:"warnings" yaml:"warnings"`
}

// Analyze computes Stats for an index and the warnings recorded while building it.
func Analyze(idx *index.ReverseIndex, warnings []diag.Warning) *Stats {
	s := &Stats{
		FieldCount:    idx.Len(),
		SchemaCount:   len(idx.SchemaNames()),
		EndpointCount: len(idx.Endpoints()),
		CriticalCount: idx.CriticalCount(),
	}
	if tree := idx.Tree(); tree != nil {
		s.Title = tree.Title
		s.Version = tree.Version
		s.PathCount = len(tree.Paths)
	}

	s.Types = typeDistribution(idx)
	s.Methods = methodBreakdown(idx)
	s.Mutating = mutatingTotals(idx)
	s.Ranked = rankFields(idx)

	s.Warnings = make([]NumberedWarning, 0, len(warnings))
	for i, w := range warnings {
		s.Warnings = append(s.Warnings, NumberedWarning{Number: i + 1, Warning: w})
	}

	return s
}

// TopFields returns the n most used fields. n <= 0 returns every field.
func (s *Stats) TopFields(n int) []FieldRank {
	if n <= 0 || n > len(s.Ranked) {
		n = len(s.Ranked)
	}
	return slices.Clone(s.Ranked[:n])
}

// MostConnected returns the field with the highest usage count.
func (s *Stats) MostConnected() (FieldRank, bool) {
	if len(s.Ranked) == 0 {
		return FieldRank{}, false
	}
	return s.Ranked[0], true
}

// WarningCounts returns the number of warnings per category, in diag.Categories order, omitting
// empty categories.
func (s *Stats) WarningCounts() []CategoryCount {
	counts := make(map[diag.Category]int)
	for _, w := range s.Warnings {
		counts[w.Category]++
	}
	var out []CategoryCount
	for _, c := range diag.Categories {
		if counts[c] > 0 {
			out = append(out, CategoryCount{Category: c, Count: counts[c]})
		}
	}
	return out
}

// CategoryCount is the number of warnings in a category.
type CategoryCount struct {
	Category diag.Category `json:"category" yaml:"category"`
	Count    int           `json:"count" yaml:"count"`
}

func typeDistribution(idx *index.ReverseIndex) []TypeShare {
	counts := make(map[string]int)
	total := 0
	for _, u := range idx.Usages() {
		t := u.Type
		if t == "" {
			t = "unknown"
		}
		counts[t]++
		total++
	}

	out := make([]TypeShare, 0, len(counts))
	for t, n := range counts {
		out = append(out, TypeShare{Type: t, Count: n, Percent: float64(n) * 100 / float64(total)})
	}
	slices.SortFunc(out, func(a, b TypeShare) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		return strings.Compare(a.Type, b.Type)
	})
	return out
}

func methodBreakdown(idx *index.ReverseIndex) []MethodCount {
	counts := make(map[string]int)
	for _, e := range idx.Endpoints() {
		counts[e.Method]++
	}

	out := make([]MethodCount, 0, len(counts))
	for m, n := range counts {
		out = append(out, MethodCount{Method: m, Count: n, Color: MethodColor(m)})
	}
	slices.SortFunc(out, func(a, b MethodCount) int {
		ai, bi := methodRank(a.Method), methodRank(b.Method)
		if ai != bi {
			return ai - bi
		}
		return strings.Compare(a.Method, b.Method)
	})
	return out
}

func methodRank(method string) int {
	if i := slices.Index(methodOrder, method); i >= 0 {
		return i
	}
	return len(methodOrder)
}

func mutatingTotals(idx *index.ReverseIndex) []index.MethodCount {
	totals := make(map[string]int)
	for _, u := range idx.Usages() {
		for m, n := range u.Mutating {
			totals[m] += n
		}
	}
	var out []index.MethodCount
	for _, m := range index.MutatingMethods {
		if totals[m] > 0 {
			out = append(out, index.MethodCount{Method: m, Count: totals[m]})
		}
	}
	return out
}

func rankFields(idx *index.ReverseIndex) []FieldRank {
	usages := idx.Usages()
	out := make([]FieldRank, 0, len(usages))
	for _, u := range usages {
		out = append(out, FieldRank{
			Name:       u.Name,
			UsageCount: u.UsageCount,
			Schemas:    len(u.Schemas),
			Endpoints:  len(u.Endpoints),
			Critical:   u.Critical,
		})
	}
	slices.SortFunc(out, func(a, b FieldRank) int {
		if a.UsageCount != b.UsageCount {
			return b.UsageCount - a.UsageCount
		}
		return strings.Compare(a.Name, b.Name)
	})
	return out
}
