package searcher

import "snipehunt/game"

// Hyperparameters for MCTS

const CSquared = 2.0 // Exploration constant, UCB1 uses sqrt(2)

// Rollout outcomes, credited to the side to move at each node.
const (
	WIN  = 1.0
	DRAW = 0.5
	LOSS = 0.0
)

// MaxCutoff bounds the number of atomics in one rollout. Real games end long
// before it, reaching it counts as a draw.
const MaxCutoff = 20_000

// DefaultCapacity is the number of nodes the arena may hold before leaves are
// rolled out without being expanded.
const DefaultCapacity = 1 << 21

// Policy maps each root atomic to its share of the root's rollouts.
type Policy map[game.Atomic]float64
