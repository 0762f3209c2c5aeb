package graph

import (
	"slices"
)

// SCC is a strongly connected component: a set of schemas that are all mutually reachable
// through references.
type SCC struct {
	// NodeIDs is sorted.
	NodeIDs []string
	Size    int
	// IsTrivial is true if the SCC has only one node and no self-loop.
	IsTrivial bool
}

// CondensedDAG is the graph after collapsing each SCC into a single node.
type CondensedDAG struct {
	Nodes []*SCC
	// NodeToSCC maps schema ID to its index in Nodes.
	NodeToSCC map[string]int
	// Edges are the deduplicated [from, to] pairs between SCCs.
	Edges [][2]int
	Depth int
	// Layers groups SCCs by longest incoming path; layer 0 holds SCCs no other schema references.
	Layers [][]int
}

// Analysis holds the SCC and layering results for a graph.
type Analysis struct {
	// SCCs is every non-trivial strongly connected component.
	SCCs           []*SCC
	LargestSCCSize int
	NodesInCycles  map[string]bool
	DAG            *CondensedDAG
}

// Analyze runs SCC detection and DAG condensation.
func Analyze(g *Graph) *Analysis {
	result := &Analysis{
		NodesInCycles: make(map[string]bool),
	}

	sccs := tarjanSCC(g)
	for _, scc := range sccs {
		if scc.IsTrivial {
			continue
		}
		result.SCCs = append(result.SCCs, scc)
		result.LargestSCCSize = max(result.LargestSCCSize, scc.Size)
		for _, id := range scc.NodeIDs {
			result.NodesInCycles[id] = true
		}
	}

	result.DAG = buildCondensedDAG(g, sccs)

	return result
}

// SCCOf returns the non-trivial component containing nodeID.
func (a *Analysis) SCCOf(nodeID string) (*SCC, bool) {
	if !a.NodesInCycles[nodeID] {
		return nil, false
	}
	for _, scc := range a.SCCs {
		if slices.Contains(scc.NodeIDs, nodeID) {
			return scc, true
		}
	}
	return nil, false
}

// LayerOf returns the DAG layer of nodeID, or -1 when it is not in the graph.
func (a *Analysis) LayerOf(nodeID string) int {
	idx, ok := a.DAG.NodeToSCC[nodeID]
	if !ok {
		return -1
	}
	for layer, members := range a.DAG.Layers {
		if slices.Contains(members, idx) {
			return layer
		}
	}
	return -1
}

// Ordered returns every schema name, layer by layer, sorted by name within a layer.
func (a *Analysis) Ordered() []string {
	var out []string
	for _, layer := range a.DAG.Layers {
		var names []string
		for _, idx := range layer {
			names = append(names, a.DAG.Nodes[idx].NodeIDs...)
		}
		slices.Sort(names)
		out = append(out, names...)
	}
	return out
}

func tarjanSCC(g *Graph) []*SCC {
	var (
		index   int
		stack   []string
		onStack = make(map[string]bool)
		indices = make(map[string]int)
		lowlink = make(map[string]int)
		result  []*SCC
	)

	var strongConnect func(v string)
	strongConnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, e := range g.OutEdges[v] {
			if _, visited := indices[e.To]; !visited {
				strongConnect(e.To)
				lowlink[v] = min(lowlink[v], lowlink[e.To])
			} else if onStack[e.To] {
				lowlink[v] = min(lowlink[v], indices[e.To])
			}
		}

		if lowlink[v] != indices[v] {
			return
		}
		scc := &SCC{}
		for {
			w := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			onStack[w] = false
			scc.NodeIDs = append(scc.NodeIDs, w)
			if w == v {
				break
			}
		}
		scc.Size = len(scc.NodeIDs)
		scc.IsTrivial = scc.Size == 1 && !hasSelfLoop(g, scc.NodeIDs[0])
		slices.Sort(scc.NodeIDs)
		result = append(result, scc)
	}

	nodeIDs := g.NodeIDs()
	slices.Sort(nodeIDs)

	for _, id := range nodeIDs {
		if _, visited := indices[id]; !visited {
			strongConnect(id)
		}
	}

	return result
}

func hasSelfLoop(g *Graph, nodeID string) bool {
	return slices.ContainsFunc(g.OutEdges[nodeID], func(e *Edge) bool {
		return e.To == nodeID
	})
}

func buildCondensedDAG(g *Graph, sccs []*SCC) *CondensedDAG {
	dag := &CondensedDAG{
		Nodes:     sccs,
		NodeToSCC: make(map[string]int),
	}

	for i, scc := range sccs {
		for _, id := range scc.NodeIDs {
			dag.NodeToSCC[id] = i
		}
	}

	edgeSet := make(map[[2]int]bool)
	for _, e := range g.Edges {
		fromSCC, ok1 := dag.NodeToSCC[e.From]
		toSCC, ok2 := dag.NodeToSCC[e.To]
		if !ok1 || !ok2 || fromSCC == toSCC {
			continue
		}
		key := [2]int{fromSCC, toSCC}
		if !edgeSet[key] {
			edgeSet[key] = true
			dag.Edges = append(dag.Edges, key)
		}
	}

	dag.Layers = topologicalLayers(len(sccs), dag.Edges)
	dag.Depth = len(dag.Layers)

	return dag
}

// topologicalLayers assigns each node to a layer based on its longest incoming path.
func topologicalLayers(nodeCount int, edges [][2]int) [][]int {
	if nodeCount == 0 {
		return nil
	}

	inDegree := make([]int, nodeCount)
	adj := make([][]int, nodeCount)
	for _, e := range edges {
		adj[e[0]] = append(adj[e[0]], e[1])
		inDegree[e[1]]++
	}

	// Kahn's algorithm with layer tracking
	var queue []int
	layer := make([]int, nodeCount)
	for i := range nodeCount {
		if inDegree[i] == 0 {
			queue = append(queue, i)
		}
	}

	maxLayer := 0
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		for _, next := range adj[node] {
			layer[next] = max(layer[next], layer[node]+1)
			inDegree[next]--
			if inDegree[next] == 0 {
				queue = append(queue, next)
				maxLayer = max(maxLayer, layer[next])
			}
		}
	}

	layers := make([][]int, maxLayer+1)
	for i := range nodeCount {
		layers[layer[i]] = append(layers[layer[i]], i)
	}

	return layers
}
