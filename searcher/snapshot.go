package searcher

import "snipehunt/game"

// Snapshot summarizes the search. Values are rollouts won by the side to
// move at the respective node.
type Snapshot struct {
	Mover        game.Player `json:"mover"`
	Value        float64     `json:"value"`
	Rollouts     int         `json:"rollouts"`
	Best         game.Atomic `json:"best"`
	BestMover    game.Player `json:"bestMover"`
	BestValue    float64     `json:"bestValue"`
	BestRollouts int         `json:"bestRollouts"`
}

// Mean is the root's win rate for its side to move.
func (s Snapshot) Mean() float64 {
	if s.Rollouts == 0 {
		return DRAW
	}
	return s.Value / float64(s.Rollouts)
}

// Snapshot returns false when there is no tree yet or the root is terminal.
func (m *MCTS) Snapshot() (Snapshot, bool) {
	if m.tree == nil {
		return Snapshot{}, false
	}
	root := m.tree.nodes[0]
	if root.Terminal {
		return Snapshot{}, false
	}
	best, ok := m.tree.mostVisited(0)
	if !ok {
		return Snapshot{}, false
	}
	b := m.tree.nodes[best]
	return Snapshot{
		Mover:        root.Mover,
		Value:        root.Value,
		Rollouts:     root.Rollouts,
		Best:         b.Atomic,
		BestMover:    b.Mover,
		BestValue:    b.Value,
		BestRollouts: b.Rollouts,
	}, true
}
