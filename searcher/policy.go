package searcher

import "math"

type uct struct {
	numerator float64
}

func newUCT(cSquared float64, N float64) uct {
	if N == 0 {
		panic("N cannot be 0")
	}
	return uct{numerator: cSquared * math.Log(N)}
}

// evaluate returns q/n + sqrt(c^2*ln(N)/n), prioritizing unexplored nodes.
func (u uct) evaluate(q float64, n float64) float64 {
	if n == 0 {
		return math.Inf(1)
	}
	return q/n + math.Sqrt(u.numerator/n)
}

func (m *MCTS) Policy() Policy {
	policy := make(Policy)
	if m.tree == nil {
		return policy
	}
	root := m.tree.nodes[0]
	total := 0
	for c := root.FirstChild; c < root.FirstChild+root.Children; c++ {
		total += m.tree.nodes[c].Rollouts
	}
	for c := root.FirstChild; c < root.FirstChild+root.Children; c++ {
		child := m.tree.nodes[c]
		if total > 0 {
			policy[child.Atomic] = float64(child.Rollouts) / float64(total)
		} else {
			policy[child.Atomic] = 0
		}
	}
	return policy
}
