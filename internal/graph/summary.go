package graph

// Summary is the set of connectivity figures shown for a schema graph.
type Summary struct {
	Nodes          int     `json:"nodes" yaml:"nodes"`
	Edges          int     `json:"edges" yaml:"edges"`
	Density        float64 `json:"density" yaml:"density"`
	SCCCount       int     `json:"sccCount" yaml:"sccCount"`
	LargestSCCSize int     `json:"largestSccSize" yaml:"largestSccSize"`
	Depth          int     `json:"depth" yaml:"depth"`
	MaxFanIn       Degree  `json:"maxFanIn" yaml:"maxFanIn"`
	MaxFanOut      Degree  `json:"maxFanOut" yaml:"maxFanOut"`
}

// Degree is a schema with its fan-in or fan-out.
type Degree struct {
	Schema string `json:"schema,omitempty" yaml:"schema,omitempty"`
	Count  int    `json:"count" yaml:"count"`
}

// Summarize computes the graph figures. Ties on fan-in and fan-out go to the earlier declared
// schema.
func Summarize(g *Graph, a *Analysis) Summary {
	s := Summary{
		Nodes:          len(g.Nodes),
		Edges:          len(g.Edges),
		Density:        g.Density(),
		SCCCount:       len(a.SCCs),
		LargestSCCSize: a.LargestSCCSize,
		Depth:          a.DAG.Depth,
	}
	for _, id := range g.NodeIDs() {
		if in := g.FanIn(id); in > s.MaxFanIn.Count {
			s.MaxFanIn = Degree{Schema: id, Count: in}
		}
		if out := g.FanOut(id); out > s.MaxFanOut.Count {
			s.MaxFanOut = Degree{Schema: id, Count: out}
		}
	}
	return s
}
