package nav

import (
	"fmt"
	"strings"

	"github.com/speakeasy-api/fieldmap/internal/search"
	"github.com/speakeasy-api/fieldmap/internal/snapshot"
)

type graphView struct{ baseView }

func (graphView) Kind() snapshot.Kind { return snapshot.KindGraph }
func (graphView) Title() string       { return "Graph" }

func (graphView) Candidates(snap *snapshot.Snapshot) []search.Candidate {
	return snap.Candidates(snapshot.KindGraph)
}

func (graphView) Detail(snap *snapshot.Snapshot, id string) []Line {
	g := snap.Graph
	if _, ok := g.Nodes[id]; !ok {
		return nil
	}

	lines := []Line{
		heading("%s", id),
		property("Layer", fmt.Sprintf("%d of %d", snap.Cycles.LayerOf(id)+1, snap.Cycles.DAG.Depth)),
		property("Fan-in", fmt.Sprintf("%d", g.FanIn(id))),
		property("Fan-out", fmt.Sprintf("%d", g.FanOut(id))),
	}
	if scc, ok := snap.Cycles.SCCOf(id); ok {
		lines = append(lines, Line{Kind: LineWarning, Label: "Cycle", Text: strings.Join(scc.NodeIDs, ", ")})
	}

	out := g.OutEdges[id]
	lines = append(lines, blank(), heading("References (%d)", len(out)))
	for _, e := range out {
		text := fmt.Sprintf("-> %s [%s]", e.To, e.Kind)
		if e.FieldName != "" {
			text = fmt.Sprintf("-> %s [%s %s]", e.To, e.Kind, e.FieldName)
		}
		lines = append(lines, bullet(text))
	}

	in := g.InEdges[id]
	lines = append(lines, blank(), heading("Referenced by (%d)", len(in)))
	for _, e := range in {
		text := fmt.Sprintf("<- %s [%s]", e.From, e.Kind)
		if e.FieldName != "" {
			text = fmt.Sprintf("<- %s [%s %s]", e.From, e.Kind, e.FieldName)
		}
		lines = append(lines, bullet(text))
	}

	sum := snap.GraphSummary
	lines = append(lines,
		blank(),
		heading("Graph"),
		property("Schemas", fmt.Sprintf("%d", sum.Nodes)),
		property("References", fmt.Sprintf("%d", sum.Edges)),
		property("Density", fmt.Sprintf("%.3f", sum.Density)),
		property("Cycles", fmt.Sprintf("%d", sum.SCCCount)),
		property("Critical fields", fmt.Sprintf("%d", snap.Stats.CriticalCount)),
	)
	if most, ok := snap.Stats.MostConnected(); ok {
		lines = append(lines, property("Most connected field", fmt.Sprintf("%s (%d)", most.Name, most.UsageCount)))
	}
	return lines
}

func (graphView) Related(snap *snapshot.Snapshot, id string) []Item {
	return endpointItems(snap.Index.SchemaEndpoints(id))
}
