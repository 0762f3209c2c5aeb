// Package graph extracts the directed graph of schema references from a spec tree and computes
// the connectivity figures shown in the graph view.
package graph

import (
	"slices"

	"github.com/speakeasy-api/fieldmap/internal/spec"
)

// EdgeKind describes how one schema references another.
type EdgeKind string

const (
	EdgeProperty    EdgeKind = "property"
	EdgeItems       EdgeKind = "items"
	EdgeComposition EdgeKind = "composition"
	// EdgeNested is a reference found deeper inside an inline property schema.
	EdgeNested EdgeKind = "nested"
)

// Node is a schema in the dependency graph.
type Node struct {
	ID            string
	FieldCount    int
	RequiredCount int
}

// Edge is a reference from one schema to another.
type Edge struct {
	From string
	To   string
	Kind EdgeKind
	// FieldName is set for property and items edges.
	FieldName  string
	IsRequired bool
}

// Graph is a directed graph of schema references.
type Graph struct {
	Nodes map[string]*Node
	Edges []*Edge

	OutEdges map[string][]*Edge
	InEdges  map[string][]*Edge

	order []string
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		Nodes:    make(map[string]*Node),
		OutEdges: make(map[string][]*Edge),
		InEdges:  make(map[string][]*Edge),
	}
}

func (g *Graph) addNode(n *Node) {
	if _, exists := g.Nodes[n.ID]; exists {
		return
	}
	g.Nodes[n.ID] = n
	g.order = append(g.order, n.ID)
}

func (g *Graph) addEdge(e *Edge) {
	g.Edges = append(g.Edges, e)
	g.OutEdges[e.From] = append(g.OutEdges[e.From], e)
	g.InEdges[e.To] = append(g.InEdges[e.To], e)
}

// NodeIDs returns the schema names in declaration order.
func (g *Graph) NodeIDs() []string {
	return slices.Clone(g.order)
}

// FanOut returns the number of distinct schemas this node references.
func (g *Graph) FanOut(nodeID string) int {
	seen := make(map[string]bool)
	for _, e := range g.OutEdges[nodeID] {
		seen[e.To] = true
	}
	return len(seen)
}

// FanIn returns the number of distinct schemas that reference this node.
func (g *Graph) FanIn(nodeID string) int {
	seen := make(map[string]bool)
	for _, e := range g.InEdges[nodeID] {
		seen[e.From] = true
	}
	return len(seen)
}

// Outgoing returns the distinct schemas this node references, in first-seen order.
func (g *Graph) Outgoing(nodeID string) []string {
	var out []string
	for _, e := range g.OutEdges[nodeID] {
		if !slices.Contains(out, e.To) {
			out = append(out, e.To)
		}
	}
	return out
}

// Incoming returns the distinct schemas referencing this node, in first-seen order.
func (g *Graph) Incoming(nodeID string) []string {
	var out []string
	for _, e := range g.InEdges[nodeID] {
		if !slices.Contains(out, e.From) {
			out = append(out, e.From)
		}
	}
	return out
}

// Density is the ratio of distinct directed edges to the n*(n-1) possible ones.
func (g *Graph) Density() float64 {
	n := len(g.Nodes)
	if n < 2 {
		return 0
	}
	distinct := make(map[[2]string]bool, len(g.Edges))
	for _, e := range g.Edges {
		if e.From != e.To {
			distinct[[2]string{e.From, e.To}] = true
		}
	}
	return float64(len(distinct)) / float64(n*(n-1))
}

// Build extracts the schema reference graph from a tree. References to schemas that are not
// declared are dropped; they are reported during resolution.
func Build(tree *spec.Tree) *Graph {
	g := New()
	if tree == nil || tree.Schemas == nil {
		return g
	}

	for name, s := range tree.Schemas.All() {
		n := &Node{ID: name, FieldCount: len(s.Fields)}
		for _, f := range s.Fields {
			if f.Required {
				n.RequiredCount++
			}
		}
		g.addNode(n)
	}

	for name, s := range tree.Schemas.All() {
		extractEdges(g, name, s)
	}

	return g
}

func extractEdges(g *Graph, sourceID string, s *spec.Schema) {
	known := func(target string) bool {
		_, ok := g.Nodes[target]
		return ok
	}

	fromFields := make(map[string]bool)
	for _, f := range s.Fields {
		if f.Ref == "" || !known(f.Ref) {
			continue
		}
		kind := EdgeProperty
		if f.Type == "array" {
			kind = EdgeItems
		}
		g.addEdge(&Edge{From: sourceID, To: f.Ref, Kind: kind, FieldName: f.Name, IsRequired: f.Required})
		fromFields[f.Ref] = true
	}

	for _, target := range s.References {
		if known(target) {
			g.addEdge(&Edge{From: sourceID, To: target, Kind: EdgeComposition})
		}
	}

	for _, target := range s.PropertyRefs {
		if fromFields[target] || !known(target) {
			continue
		}
		g.addEdge(&Edge{From: sourceID, To: target, Kind: EdgeNested})
	}
}
