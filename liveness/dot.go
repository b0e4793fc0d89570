package liveness

import (
	"fmt"
	"sort"
	"strings"
)

// dotRecorder accumulates the explored product graph for GraphViz dot
// rendering, per §6's "optional dot-output file for the exploration
// graph". Nodes are recorded idempotently by Pair.Num since a pair may
// be visited (and re-recorded) across several replay passes.
type dotRecorder struct {
	nodes map[int]string
	edges map[[2]int]string
}

func newDotRecorder() *dotRecorder {
	return &dotRecorder{
		nodes: make(map[int]string),
		edges: make(map[[2]int]string),
	}
}

func (d *dotRecorder) recordNode(p *Pair) {
	label := fmt.Sprintf("q%d", p.AutomatonState)
	if p.SearchCycle {
		label += "*"
	}
	d.nodes[p.Num] = label
}

func (d *dotRecorder) recordEdge(from, to *Pair) {
	d.edges[[2]int{from.Num, to.Num}] = to.Move.String()
}

// render emits a deterministic (sorted) dot source, so repeated runs
// over the same exploration produce byte-identical output.
func (d *dotRecorder) render() string {
	var b strings.Builder
	b.WriteString("digraph liveness {\n")

	ids := make([]int, 0, len(d.nodes))
	for id := range d.nodes {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		fmt.Fprintf(&b, "  p%d [label=%q];\n", id, d.nodes[id])
	}

	type edge struct {
		from, to int
		label    string
	}
	edgeList := make([]edge, 0, len(d.edges))
	for k, label := range d.edges {
		edgeList = append(edgeList, edge{from: k[0], to: k[1], label: label})
	}
	sort.Slice(edgeList, func(i, j int) bool {
		if edgeList[i].from != edgeList[j].from {
			return edgeList[i].from < edgeList[j].from
		}
		return edgeList[i].to < edgeList[j].to
	})
	for _, e := range edgeList {
		fmt.Fprintf(&b, "  p%d -> p%d [label=%q];\n", e.from, e.to, e.label)
	}

	b.WriteString("}\n")
	return b.String()
}
