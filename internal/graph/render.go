package graph

import (
	"fmt"
	"slices"
	"strings"
)

// Neighborhood returns the schemas within hops reference steps of nodeID in either direction,
// mapped to their distance. It is nil when nodeID is not in the graph.
func Neighborhood(g *Graph, nodeID string, hops int) map[string]int {
	if _, ok := g.Nodes[nodeID]; !ok {
		return nil
	}

	visited := map[string]int{nodeID: 0}
	queue := []string{nodeID}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		dist := visited[current]
		if dist >= hops {
			continue
		}
		for _, e := range g.OutEdges[current] {
			if _, seen := visited[e.To]; !seen {
				visited[e.To] = dist + 1
				queue = append(queue, e.To)
			}
		}
		for _, e := range g.InEdges[current] {
			if _, seen := visited[e.From]; !seen {
				visited[e.From] = dist + 1
				queue = append(queue, e.From)
			}
		}
	}
	return visited
}

// EgoGraphToMermaid renders the neighborhood of a node as a Mermaid flowchart. hops <= 0 renders
// the whole graph.
func EgoGraphToMermaid(g *Graph, nodeID string, hops int) string {
	nodes, center, ok := selectNodes(g, nodeID, hops)
	if !ok {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("graph LR\n")

	for _, id := range nodes {
		if id == center {
			fmt.Fprintf(&sb, "  %s((%s))\n", mermaidSafeID(id), id)
		} else {
			fmt.Fprintf(&sb, "  %s[%s]\n", mermaidSafeID(id), id)
		}
	}

	for _, e := range edgesBetween(g, nodes) {
		if label := edgeLabel(e); label != "" {
			fmt.Fprintf(&sb, "  %s -->|%s| %s\n", mermaidSafeID(e.From), label, mermaidSafeID(e.To))
		} else {
			fmt.Fprintf(&sb, "  %s --> %s\n", mermaidSafeID(e.From), mermaidSafeID(e.To))
		}
	}

	return sb.String()
}

// EgoGraphToDOT renders the neighborhood of a node in Graphviz DOT. hops <= 0 renders the whole
// graph.
func EgoGraphToDOT(g *Graph, nodeID string, hops int) string {
	nodes, center, ok := selectNodes(g, nodeID, hops)
	if !ok {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("digraph schemas {\n")
	sb.WriteString("  rankdir=LR;\n")
	sb.WriteString("  node [shape=box];\n")

	for _, id := range nodes {
		if id == center {
			fmt.Fprintf(&sb, "  %q [shape=doublecircle];\n", id)
		} else {
			fmt.Fprintf(&sb, "  %q;\n", id)
		}
	}

	for _, e := range edgesBetween(g, nodes) {
		fmt.Fprintf(&sb, "  %q -> %q [label=%q];\n", e.From, e.To, edgeLabel(e))
	}

	sb.WriteString("}\n")
	return sb.String()
}

// selectNodes returns the sorted node set to render. An empty nodeID selects the whole graph.
func selectNodes(g *Graph, nodeID string, hops int) ([]string, string, bool) {
	if nodeID == "" || hops <= 0 {
		if nodeID != "" {
			if _, ok := g.Nodes[nodeID]; !ok {
				return nil, "", false
			}
		}
		ids := g.NodeIDs()
		slices.Sort(ids)
		return ids, nodeID, true
	}

	visited := Neighborhood(g, nodeID, hops)
	if visited == nil {
		return nil, "", false
	}
	ids := make([]string, 0, len(visited))
	for id := range visited {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nodeID, true
}

func edgesBetween(g *Graph, nodes []string) []*Edge {
	var out []*Edge
	for _, e := range g.Edges {
		if slices.Contains(nodes, e.From) && slices.Contains(nodes, e.To) {
			out = append(out, e)
		}
	}
	return out
}

func mermaidSafeID(id string) string {
	r := strings.NewReplacer("-", "_", ".", "_", " ", "_")
	return r.Replace(id)
}

func edgeLabel(e *Edge) string {
	parts := []string{string(e.Kind)}
	if e.FieldName != "" {
		parts = append(parts, e.FieldName)
	}
	return strings.Join(parts, ":")
}
