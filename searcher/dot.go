package searcher

import (
	"fmt"
	"io"
	"strconv"

	"github.com/awalterschulze/gographviz"
)

const graphName = "mcts"

// WriteDOT renders the nodes within depth edges of the root as a Graphviz
// digraph. Each node shows its edge atomic, side to move and statistics.
func (m *MCTS) WriteDOT(w io.Writer, depth int) error {
	if m.tree == nil {
		return fmt.Errorf("search has no root")
	}
	graph := gographviz.NewGraph()
	if err := graph.SetName(graphName); err != nil {
		return err
	}
	if err := graph.SetDir(true); err != nil {
		return err
	}

	type entry struct {
		node  int32
		depth int
	}
	queue := []entry{{node: 0}}
	for len(queue) > 0 {
		e := queue[0]
		queue = queue[1:]
		n := m.tree.nodes[e.node]

		attrs := map[string]string{"label": strconv.Quote(m.label(e.node))}
		if n.Terminal {
			attrs["shape"] = "box"
		}
		if err := graph.AddNode(graphName, dotName(e.node), attrs); err != nil {
			return err
		}
		if n.Parent != noNode {
			if err := graph.AddEdge(dotName(n.Parent), dotName(e.node), true, nil); err != nil {
				return err
			}
		}
		if e.depth >= depth {
			continue
		}
		for c := n.FirstChild; c < n.FirstChild+n.Children; c++ {
			queue = append(queue, entry{node: c, depth: e.depth + 1})
		}
	}

	_, err := io.WriteString(w, graph.String())
	return err
}

func (m *MCTS) label(i int32) string {
	n := m.tree.nodes[i]
	edge := "root"
	if i != 0 {
		edge = n.Atomic.String()
	}
	return fmt.Sprintf("%s\n%s %.1f/%d", edge, n.Mover, n.Value, n.Rollouts)
}

func dotName(i int32) string {
	return "n" + strconv.Itoa(int(i))
}
