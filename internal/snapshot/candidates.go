package snapshot

import (
	"fmt"
	"strings"

	"github.com/speakeasy-api/fieldmap/internal/search"
	"github.com/speakeasy-api/fieldmap/internal/sliceutil"
)

// Kind selects which candidate list of a snapshot a view browses.
type Kind int

const (
	KindFields Kind = iota
	KindSchemas
	KindEndpoints
	KindGraph
	KindStats

	kindCount
)

// Kinds lists every kind in view order.
var Kinds = []Kind{KindFields, KindSchemas, KindEndpoints, KindGraph, KindStats}

var kindNames = [kindCount]string{"fields", "schemas", "endpoints", "graph", "stats"}

func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind parses a kind name as printed by String.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if strings.EqualFold(s, name) {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown view %q (expected one of %s)", s, strings.Join(kindNames[:], ", "))
}

// Stats view section ids.
const (
	SectionOverview = "overview"
	SectionTypes    = "types"
	SectionMethods  = "methods"
	SectionTop      = "top"
	SectionWarnings = "warnings"
)

var statsSections = []search.Candidate{
	{ID: SectionOverview, Display: "Overview"},
	{ID: SectionTypes, Display: "Field types"},
	{ID: SectionMethods, Display: "HTTP methods"},
	{ID: SectionTop, Display: "Top fields"},
	{ID: SectionWarnings, Display: "Warnings"},
}

func (s *Snapshot) buildCandidates() {
	for _, name := range s.Index.FieldNames() {
		s.candidates[KindFields] = append(s.candidates[KindFields], search.Candidate{ID: name, Display: name})
	}
	for _, name := range s.Index.SchemaNames() {
		s.candidates[KindSchemas] = append(s.candidates[KindSchemas], search.Candidate{ID: name, Display: name})
	}
	for _, e := range s.Index.Endpoints() {
		label := e.ID().String()
		s.candidates[KindEndpoints] = append(s.candidates[KindEndpoints], search.Candidate{ID: label, Display: label})
	}
	for _, name := range s.Cycles.Ordered() {
		s.candidates[KindGraph] = append(s.candidates[KindGraph], search.Candidate{ID: name, Display: name})
	}
	s.candidates[KindStats] = statsSections
}

// Candidates returns the full, unfiltered candidate list of a kind. The slice must not be
// modified.
func (s *Snapshot) Candidates(k Kind) []search.Candidate {
	if s == nil || k < 0 || k >= kindCount {
		return nil
	}
	return s.candidates[k]
}

// Filter ranks the candidates of a kind against query.
func (s *Snapshot) Filter(k Kind, query string) []search.Candidate {
	return search.Rank(query, s.Candidates(k), search.WithMinScore(s.MinScore()))
}

// MinScore returns the smallest fuzzy score a candidate needs to match, at least 1.
func (s *Snapshot) MinScore() int {
	if s == nil || s.minScore < 1 {
		return 1
	}
	return s.minScore
}

// Search returns the ids of the candidates of a kind matching query, best first. An empty query
// returns every id in list order.
func Search(s *Snapshot, query string, k Kind) []string {
	return sliceutil.Map(s.Filter(k, query), func(c search.Candidate) string { return c.ID })
}
