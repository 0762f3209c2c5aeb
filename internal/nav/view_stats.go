package nav

import (
	"fmt"

	"github.com/speakeasy-api/fieldmap/internal/search"
	"github.com/speakeasy-api/fieldmap/internal/snapshot"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// numbers prints numbers with thousands separators.
var numbers = message.NewPrinter(language.English)

type statsView struct{ baseView }

func (statsView) Kind() snapshot.Kind { return snapshot.KindStats }
func (statsView) Title() string       { return "Stats" }

func (statsView) Candidates(snap *snapshot.Snapshot) []search.Candidate {
	return snap.Candidates(snapshot.KindStats)
}

func (statsView) Detail(snap *snapshot.Snapshot, id string) []Line {
	st := snap.Stats

	switch id {
	case snapshot.SectionOverview:
		lines := []Line{heading("Overview")}
		if st.Title != "" {
			lines = append(lines, property("API", st.Title+" "+st.Version))
		}
		lines = append(lines,
			property("Fields", numbers.Sprintf("%d", st.FieldCount)),
			property("Schemas", numbers.Sprintf("%d", st.SchemaCount)),
			property("Endpoints", numbers.Sprintf("%d", st.EndpointCount)),
			property("Paths", numbers.Sprintf("%d", st.PathCount)),
			property("Critical fields", numbers.Sprintf("%d", st.CriticalCount)),
			property("Warnings", numbers.Sprintf("%d", len(st.Warnings))),
		)
		if most, ok := st.MostConnected(); ok {
			lines = append(lines, property("Most connected", fmt.Sprintf("%s (%d)", most.Name, most.UsageCount)))
		}
		if len(snap.ForeignKeys) > 0 {
			lines = append(lines, property("Foreign keys", numbers.Sprintf("%d", len(snap.ForeignKeys))))
		}
		return lines

	case snapshot.SectionTypes:
		lines := []Line{heading("Field types")}
		for _, t := range st.Types {
			lines = append(lines, property(t.Type, numbers.Sprintf("%d (%.1f%%)", t.Count, t.Percent)))
		}
		return lines

	case snapshot.SectionMethods:
		lines := []Line{heading("HTTP methods")}
		for _, m := range st.Methods {
			lines = append(lines, Line{Kind: LineProperty, Label: m.Method, Text: numbers.Sprintf("%d", m.Count), Color: m.Color})
		}
		return lines

	case snapshot.SectionTop:
		top := st.TopFields(snap.TopN)
		lines := []Line{heading("Top %d fields", len(top))}
		for i, f := range top {
			text := fmt.Sprintf("%d. %s (%d)", i+1, f.Name, f.UsageCount)
			if f.Critical {
				lines = append(lines, Line{Kind: LineWarning, Text: text + " critical"})
				continue
			}
			lines = append(lines, bullet(text))
		}
		return lines

	case snapshot.SectionWarnings:
		lines := []Line{heading("Warnings (%d)", len(st.Warnings))}
		for _, c := range st.WarningCounts() {
			lines = append(lines, property(string(c.Category), numbers.Sprintf("%d", c.Count)))
		}
		if len(st.Warnings) > 0 {
			lines = append(lines, blank())
		}
		for _, w := range st.Warnings {
			lines = append(lines, Line{Kind: LineWarning, Text: fmt.Sprintf("%d. %s", w.Number, w.String())})
		}
		return lines
	}
	return nil
}

// Related is always empty: stats sections have nothing to drill into.
func (statsView) Related(*snapshot.Snapshot, string) []Item {
	return nil
}
