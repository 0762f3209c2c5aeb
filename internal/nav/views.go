package nav

import (
	"fmt"
	"strings"

	"github.com/speakeasy-api/fieldmap/internal/impact"
	"github.com/speakeasy-api/fieldmap/internal/search"
	"github.com/speakeasy-api/fieldmap/internal/snapshot"
	"github.com/speakeasy-api/fieldmap/internal/spec"
)

// View is one of the five explorer views. The set is closed: only this package implements it.
type View interface {
	Kind() snapshot.Kind
	Title() string
	// Candidates returns the view's unfiltered left list.
	Candidates(snap *snapshot.Snapshot) []search.Candidate
	// Detail renders the center panel for the selected id.
	Detail(snap *snapshot.Snapshot, id string) []Line
	// Related lists the right panel items for the selected id.
	Related(snap *snapshot.Snapshot, id string) []Item

	view()
}

// ItemKind says what a right panel item refers to.
type ItemKind int

const (
	ItemEndpoint ItemKind = iota
	ItemField
	ItemSchema
)

// Item is an entry of the right panel.
type Item struct {
	ID    string
	Label string
	Kind  ItemKind
	Color impact.Color
}

// LineKind tells the renderer how to style a Line.
type LineKind int

const (
	LineText LineKind = iota
	LineHeading
	// LineProperty renders as "Label: Text".
	LineProperty
	LineBullet
	LineWarning
	LineBlank
)

// Line is one line of center panel or popup content.
type Line struct {
	Kind  LineKind
	Label string
	Text  string
	Color impact.Color
}

func heading(format string, args ...any) Line {
	return Line{Kind: LineHeading, Text: fmt.Sprintf(format, args...)}
}

func property(label, text string) Line {
	return Line{Kind: LineProperty, Label: label, Text: text}
}

func bullet(text string) Line {
	return Line{Kind: LineBullet, Text: text}
}

func blank() Line {
	return Line{Kind: LineBlank}
}

var views = [viewCount]View{
	fieldsView{},
	schemasView{},
	endpointsView{},
	graphView{},
	statsView{},
}

// ViewFor returns the view of a kind.
func ViewFor(k snapshot.Kind) View {
	if k < 0 || int(k) >= len(views) {
		return views[snapshot.KindFields]
	}
	return views[k]
}

type baseView struct{}

func (baseView) view() {}

func endpointItems(ids []spec.EndpointID) []Item {
	out := make([]Item, 0, len(ids))
	for _, id := range ids {
		out = append(out, Item{ID: id.String(), Label: id.String(), Kind: ItemEndpoint, Color: impact.MethodColor(id.Method)})
	}
	return out
}

// endpointPopup builds the detail overlay for an endpoint id in "METHOD /path" form.
func endpointPopup(snap *snapshot.Snapshot, label string) (Popup, bool) {
	if snap == nil {
		return Popup{}, false
	}
	id, err := spec.ParseEndpointID(label)
	if err != nil {
		return Popup{}, false
	}
	e, ok := snap.Index.Endpoint(id)
	if !ok {
		return Popup{}, false
	}
	return Popup{Title: id.String(), Lines: endpointLines(snap, e)}, true
}

func endpointLines(snap *snapshot.Snapshot, e *spec.Endpoint) []Line {
	id := e.ID()
	lines := []Line{
		{Kind: LineHeading, Text: id.String(), Color: impact.MethodColor(e.Method)},
	}
	if e.OperationID != "" {
		lines = append(lines, property("Operation", e.OperationID))
	}
	if e.Summary != "" {
		lines = append(lines, property("Summary", e.Summary))
	}
	if e.Description != "" {
		lines = append(lines, property("Description", e.Description))
	}
	if len(e.Tags) > 0 {
		lines = append(lines, property("Tags", strings.Join(e.Tags, ", ")))
	}
	if e.Deprecated {
		lines = append(lines, Line{Kind: LineWarning, Text: "Deprecated"})
	}

	if len(e.Parameters) > 0 {
		lines = append(lines, blank(), heading("Parameters (%d)", len(e.Parameters)))
		for _, p := range e.Parameters {
			text := fmt.Sprintf("%s (%s) %s", p.Name, p.In, p.TypeLabel())
			if p.Required {
				text += " required"
			}
			lines = append(lines, bullet(text))
		}
	}

	if e.RequestBody != nil {
		lines = append(lines, blank(), heading("Request body"))
		lines = append(lines, payloadLines(e.RequestBody)...)
	}

	if len(e.Responses) > 0 {
		lines = append(lines, blank(), heading("Responses"))
		for _, r := range e.Responses {
			text := r.Status
			if r.Description != "" {
				text += " " + r.Description
			}
			if r.Payload != nil && r.Payload.Ref != "" {
				text += " -> " + r.Payload.Ref
			}
			lines = append(lines, bullet(text))
		}
	}

	fields := snap.Index.EndpointFields(id)
	lines = append(lines, blank(), heading("Fields (%d)", len(fields)))
	for _, f := range fields {
		lines = append(lines, bullet(f))
	}
	return lines
}

func payloadLines(p *spec.Payload) []Line {
	var lines []Line
	if p.Ref != "" {
		lines = append(lines, property("Schema", p.Ref))
	}
	for _, f := range p.Fields {
		lines = append(lines, bullet(fmt.Sprintf("%s %s", f.Name, f.TypeLabel())))
	}
	for _, ref := range p.Refs {
		lines = append(lines, bullet("-> "+ref))
	}
	return lines
}
