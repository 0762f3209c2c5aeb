package nav

import (
	"github.com/speakeasy-api/fieldmap/internal/search"
	"github.com/speakeasy-api/fieldmap/internal/snapshot"
	"github.com/speakeasy-api/fieldmap/internal/spec"
)

type endpointsView struct{ baseView }

func (endpointsView) Kind() snapshot.Kind { return snapshot.KindEndpoints }
func (endpointsView) Title() string       { return "Endpoints" }

func (endpointsView) Candidates(snap *snapshot.Snapshot) []search.Candidate {
	return snap.Candidates(snapshot.KindEndpoints)
}

func (endpointsView) Detail(snap *snapshot.Snapshot, id string) []Line {
	e, ok := lookupEndpoint(snap, id)
	if !ok {
		return nil
	}
	return endpointLines(snap, e)
}

// Related lists the fields the endpoint carries. They are not endpoints, so Enter on them does
// nothing.
func (endpointsView) Related(snap *snapshot.Snapshot, id string) []Item {
	e, ok := lookupEndpoint(snap, id)
	if !ok {
		return nil
	}
	fields := snap.Index.EndpointFields(e.ID())
	out := make([]Item, 0, len(fields))
	for _, f := range fields {
		out = append(out, Item{ID: f, Label: f, Kind: ItemField})
	}
	return out
}

func lookupEndpoint(snap *snapshot.Snapshot, label string) (*spec.Endpoint, bool) {
	id, err := spec.ParseEndpointID(label)
	if err != nil {
		return nil, false
	}
	return snap.Index.Endpoint(id)
}
