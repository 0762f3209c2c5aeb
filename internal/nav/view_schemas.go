package nav

import (
	"fmt"
	"strings"

	"github.com/speakeasy-api/fieldmap/internal/search"
	"github.com/speakeasy-api/fieldmap/internal/snapshot"
)

type schemasView struct{ baseView }

func (schemasView) Kind() snapshot.Kind { return snapshot.KindSchemas }
func (schemasView) Title() string       { return "Schemas" }

func (schemasView) Candidates(snap *snapshot.Snapshot) []search.Candidate {
	return snap.Candidates(snapshot.KindSchemas)
}

func (schemasView) Detail(snap *snapshot.Snapshot, id string) []Line {
	s, ok := snap.Index.Schema(id)
	if !ok {
		return nil
	}

	lines := []Line{heading("%s", s.Name)}
	if s.Description != "" {
		lines = append(lines, property("Description", s.Description))
	}
	if len(s.References) > 0 {
		lines = append(lines, property("Composed from", strings.Join(s.References, ", ")))
	}
	if rs, ok := snap.Resolved.Get(id); ok && !rs.Resolved {
		lines = append(lines, Line{Kind: LineWarning, Text: "Resolution incomplete, see warnings"})
	}

	fields := snap.Index.SchemaFields(id)
	lines = append(lines, blank(), heading("Fields (%d)", len(fields)))
	for _, f := range fields {
		text := fmt.Sprintf("%s %s", f.Name, f.TypeLabel())
		if f.Required {
			text += " required"
		}
		if _, own := s.Field(f.Name); !own {
			text += " (inherited)"
		}
		lines = append(lines, bullet(text))
	}

	if in := snap.Graph.Incoming(id); len(in) > 0 {
		lines = append(lines, blank(), heading("Referenced by (%d)", len(in)))
		for _, name := range in {
			lines = append(lines, bullet(name))
		}
	}

	lines = append(lines, blank(), property("Endpoints", fmt.Sprintf("%d", len(snap.Index.SchemaEndpoints(id)))))
	return lines
}

func (schemasView) Related(snap *snapshot.Snapshot, id string) []Item {
	return endpointItems(snap.Index.SchemaEndpoints(id))
}
