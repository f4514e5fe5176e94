package agent

import (
	"snipehunt/experiments/metrics"
	"snipehunt/game"

	"golang.org/x/exp/rand"
)

type randomAgent struct {
	rng *rand.Rand
}

// NewRandomAgent returns a baseline that plays uniformly random legal atomics.
func NewRandomAgent(seed uint64) Agent {
	return &randomAgent{rng: rand.New(rand.NewSource(seed))}
}

func (a *randomAgent) FindAtomic(state *game.State) (game.Atomic, metrics.SearchMetric) {
	atomics := state.LegalAtomics()
	if len(atomics) == 0 {
		panic("no legal atomic for a finished game")
	}
	return atomics[a.rng.Intn(len(atomics))], metrics.SearchMetric{}
}
