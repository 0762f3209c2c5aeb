package nav

import (
	"fmt"
	"strings"

	"github.com/speakeasy-api/fieldmap/internal/impact"
	"github.com/speakeasy-api/fieldmap/internal/index"
	"github.com/speakeasy-api/fieldmap/internal/search"
	"github.com/speakeasy-api/fieldmap/internal/sliceutil"
	"github.com/speakeasy-api/fieldmap/internal/snapshot"
	"github.com/speakeasy-api/fieldmap/internal/spec"
)

const relatedFieldLimit = 5

type fieldsView struct{ baseView }

func (fieldsView) Kind() snapshot.Kind { return snapshot.KindFields }
func (fieldsView) Title() string       { return "Fields" }

func (fieldsView) Candidates(snap *snapshot.Snapshot) []search.Candidate {
	return snap.Candidates(snapshot.KindFields)
}

func (fieldsView) Detail(snap *snapshot.Snapshot, id string) []Line {
	r, ok := snap.Inspect(id, relatedFieldLimit)
	if !ok {
		return nil
	}

	typ := r.Type
	if typ == "" {
		typ = "unknown"
	}
	if r.Format != "" {
		typ += " (" + r.Format + ")"
	}
	if len(r.Types) > 1 {
		typ += ", also " + strings.Join(r.Types[1:], ", ")
	}

	lines := []Line{
		heading("%s", r.Name),
		property("Type", typ),
	}
	if r.Description != "" {
		lines = append(lines, property("Description", r.Description))
	}
	lines = append(lines, property("Usage", fmt.Sprintf("%d (%d schemas, %d endpoints)", r.UsageCount, len(r.Schemas), len(r.Endpoints))))

	if r.Critical {
		lines = append(lines, Line{Kind: LineWarning, Label: "Critical", Text: mutatingText(r.MutatingBreakdown())})
	} else {
		lines = append(lines, property("Critical", "no"))
	}
	lines = append(lines, Line{
		Kind:  LineProperty,
		Label: "Risk",
		Text:  fmt.Sprintf("%s (%.2f)", r.Risk.Level, r.Risk.Score),
		Color: riskColor(r.Risk.Level),
	})
	if r.ForeignKey != "" {
		lines = append(lines, property("References", r.ForeignKey))
	}
	if len(r.Locations) > 0 {
		locs := sliceutil.Map(r.Locations, func(l spec.ParamLocation) string { return string(l) })
		lines = append(lines, property("Parameter in", strings.Join(locs, ", ")))
	}

	lines = append(lines, blank(), heading("Schemas (%d)", len(r.Schemas)))
	for _, s := range r.Schemas {
		lines = append(lines, bullet(s))
	}

	if len(r.RequiredIn) > 0 {
		lines = append(lines, blank(), heading("Required in (%d)", len(r.RequiredIn)))
		for _, s := range r.RequiredIn {
			lines = append(lines, bullet(s))
		}
	}

	if len(r.Related) > 0 {
		lines = append(lines, blank(), heading("Related fields"))
		for _, rel := range r.Related {
			lines = append(lines, bullet(fmt.Sprintf("%s (%d shared)", rel.Field, rel.SharedSchemas)))
		}
	}

	lines = append(lines, blank(), Line{Kind: LineText, Text: r.Risk.Explanation})
	return lines
}

func (fieldsView) Related(snap *snapshot.Snapshot, id string) []Item {
	u, ok := snap.Index.Field(id)
	if !ok {
		return nil
	}
	return endpointItems(u.Endpoints)
}

func mutatingText(counts []index.MethodCount) string {
	parts := make([]string, len(counts))
	for i, c := range counts {
		parts[i] = fmt.Sprintf("%s %d", c.Method, c.Count)
	}
	return "yes (" + strings.Join(parts, ", ") + ")"
}

func riskColor(level impact.RiskLevel) impact.Color {
	switch level {
	case impact.RiskHigh:
		return impact.ColorRed
	case impact.RiskMedium:
		return impact.ColorYellow
	default:
		return impact.ColorGreen
	}
}
