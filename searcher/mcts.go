package searcher

import (
	"snipehunt/experiments/metrics"
	"snipehunt/game"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

type Option func(mcts *MCTS)

// MCTS searches a single position with UCB1 tree search and uniform random
// rollouts. It is not safe for concurrent use; an agent or a worker owns it.
type MCTS struct {
	duration time.Duration
	rollouts int
	cutoff   int
	capacity int
	rng      *rand.Rand
	metrics  metrics.Collector

	state *game.State // Root position
	tree  *tree
}

func WithDuration(duration time.Duration) Option {
	return func(m *MCTS) {
		if duration > 0 {
			m.duration = duration
		}
	}
}

func WithRollouts(rollouts int) Option {
	return func(m *MCTS) {
		if rollouts > 0 {
			m.rollouts = rollouts
		}
	}
}

func WithCutoff(depth int) Option {
	return func(m *MCTS) {
		if depth > 0 {
			m.cutoff = depth
		}
	}
}

func WithCapacity(nodes int) Option {
	return func(m *MCTS) {
		if nodes > 0 {
			m.capacity = nodes
		}
	}
}

func WithSeed(seed uint64) Option {
	return func(m *MCTS) {
		m.rng = rand.New(rand.NewSource(seed))
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = metrics.NewCollector()
	}
}

func NewMCTS(options ...Option) *MCTS {
	m := &MCTS{ // Default values
		cutoff:   MaxCutoff,
		capacity: DefaultCapacity,
		metrics:  metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	if m.rng == nil {
		m.rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	return m
}

// Root returns the position at the root of the tree, or nil before the first
// Reset.
func (m *MCTS) Root() *game.State {
	return m.state
}

// Rollouts returns the number of rollouts credited to the root.
func (m *MCTS) Rollouts() int {
	if m.tree == nil {
		return 0
	}
	return m.tree.nodes[0].Rollouts
}

// RootMean is the root's win rate for its side to move.
func (m *MCTS) RootMean() float64 {
	if m.tree == nil || m.tree.nodes[0].Rollouts == 0 {
		return DRAW
	}
	root := m.tree.nodes[0]
	return root.Value / float64(root.Rollouts)
}

func (m *MCTS) Nodes() int {
	if m.tree == nil {
		return 0
	}
	return len(m.tree.nodes)
}

// Reset discards the tree and starts a new one at state.
func (m *MCTS) Reset(state *game.State) {
	m.state = state
	m.tree = newTree(state.Turn(), m.capacity)
}

// Retarget moves the root to state. The subtree is kept when state continues
// the root's history along edges the tree has already expanded; otherwise the
// tree is discarded.
func (m *MCTS) Retarget(state *game.State) bool {
	root := m.traverse(state)
	if root == noNode {
		m.Reset(state)
		return false
	}
	if root != 0 {
		m.tree = m.tree.subtree(root)
	}
	m.state = state
	return true
}

func (m *MCTS) traverse(state *game.State) int32 {
	if m.tree == nil || m.state.Initial() != state.Initial() {
		return noNode
	}
	old := m.state.History()
	next := state.History()
	if len(next) < len(old) {
		return noNode
	}
	for i, a := range old {
		if next[i] != a {
			return noNode
		}
	}

	node := int32(0)
	for _, a := range next[len(old):] {
		child, ok := m.tree.child(node, a)
		if !ok { // Node has not expanded this atomic
			return noNode
		}
		node = child
	}
	if m.tree.nodes[node].Mover != state.Turn() {
		log.Warn().Msgf("node's side to move %s does not match state's %s", m.tree.nodes[node].Mover, state.Turn())
		return noNode
	}
	return node
}

// PerformRollout runs one selection, expansion, rollout and backpropagation
// cycle.
func (m *MCTS) PerformRollout() {
	if m.tree == nil {
		panic("search has no root")
	}
	leaf, state := m.descend()

	n := &m.tree.nodes[leaf]
	if n.Rollouts == 0 && leaf != 0 {
		m.rolloutFrom(leaf, state)
		return
	}
	if !n.Terminal {
		if winner, over := state.Winner(); over {
			n.Terminal = true
			n.Winner = winner
		}
	}
	if n.Terminal {
		m.tree.backup(leaf, n.Winner, true)
		m.metrics.AddRollout()
		m.metrics.AddFullPlayout()
		return
	}

	atomics := state.LegalAtomics()
	if !m.tree.expand(leaf, state, atomics) {
		m.rolloutFrom(leaf, state)
		return
	}
	m.rolloutFrom(m.tree.nodes[leaf].FirstChild, state.ForcePerform(atomics[0]))
}

func (m *MCTS) descend() (int32, *game.State) {
	node := int32(0)
	state := m.state
	for !m.tree.nodes[node].isLeaf() {
		node = m.tree.selectChild(node)
		state = state.ForcePerform(m.tree.nodes[node].Atomic)
	}
	return node, state
}

func (m *MCTS) rolloutFrom(node int32, state *game.State) {
	winner, decided := m.rollout(state)
	m.tree.backup(node, winner, decided)
	m.metrics.AddRollout()
}

func (m *MCTS) rollout(state *game.State) (game.Player, bool) {
	depth := 0
	atomics := state.LegalAtomics()
	// Rollout till game over or for cutoff number of atomics
	for len(atomics) > 0 && depth < m.cutoff {
		atomic := atomics[m.rng.Intn(len(atomics))] // Random rollout policy
		state = state.ForcePerform(atomic)
		atomics = state.LegalAtomics()
		depth++
	}

	if winner, over := state.Winner(); over {
		m.metrics.AddFullPlayout()
		return winner, true
	}
	m.metrics.AddCutoff()
	return 0, false
}

// BestAtomic returns the root atomic with the most rollouts.
func (m *MCTS) BestAtomic() (game.Atomic, bool) {
	if m.tree == nil {
		return game.Atomic{}, false
	}
	best, ok := m.tree.mostVisited(0)
	if !ok {
		return game.Atomic{}, false
	}
	return m.tree.nodes[best].Atomic, true
}

// Simulate searches state within the configured budget and returns the
// visit policy of the root.
func (m *MCTS) Simulate(state *game.State) (Policy, metrics.SearchMetric) {
	reused := m.Retarget(state)
	if reused {
		log.Debug().Int("rollouts", m.Rollouts()).Int("nodes", m.Nodes()).Msg("reusing search tree")
	}

	m.metrics.Start(m.cutoff)
	m.metrics.SetTreeReset(!reused)
	if m.rollouts > 0 {
		for i := 0; i < m.rollouts; i++ {
			m.PerformRollout()
		}
	} else if m.duration > 0 {
		deadline := time.Now().Add(m.duration)
		for time.Now().Before(deadline) {
			for i := 0; i < simulateBatch; i++ {
				m.PerformRollout()
			}
		}
	} else {
		panic("Must specify search rollouts or duration")
	}
	metric := m.metrics.Complete(m.Nodes())

	// Output atomic policy and search metrics
	return m.Policy(), metric
}

// Rollouts between deadline checks in Simulate.
const simulateBatch = 32
