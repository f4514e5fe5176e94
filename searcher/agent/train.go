package agent

import (
	"math"
	"sort"

	"snipehunt/experiments/metrics"
	"snipehunt/game"
	"snipehunt/searcher"

	"golang.org/x/exp/rand"
)

type samplingAgent struct {
	mcts        *searcher.MCTS
	temperature float64
	rng         *rand.Rand
}

// NewSamplingAgent returns an agent that samples atomics in proportion to
// their visit counts raised to 1/temperature, for varied self-play games.
func NewSamplingAgent(mcts *searcher.MCTS, temperature float64, seed uint64) Agent {
	if temperature <= 0 {
		panic("temperature must be positive")
	}
	return &samplingAgent{mcts: mcts, temperature: temperature, rng: rand.New(rand.NewSource(seed))}
}

func (a *samplingAgent) FindAtomic(state *game.State) (game.Atomic, metrics.SearchMetric) {
	policy, metric := a.mcts.Simulate(state)
	policy = adjustTemperature(policy, a.temperature)
	return sample(policy, a.rng.Float64()), metric
}

func adjustTemperature(policy searcher.Policy, temperature float64) searcher.Policy {
	// Compute temperature-adjusted atomic probabilities
	exponent := 1.0 / temperature
	sum := 0.0
	adjusted := make(searcher.Policy, len(policy))
	for atomic, visit := range policy {
		prob := math.Pow(visit, exponent)
		sum += prob
		adjusted[atomic] = prob
	}
	if sum == 0 {
		return adjusted
	}
	// Normalize
	for atomic := range adjusted {
		adjusted[atomic] /= sum
	}
	return adjusted
}

// sample walks the policy in a fixed order so that a seeded draw picks the
// same atomic every time.
func sample(policy searcher.Policy, sampled float64) game.Atomic {
	atomics := make([]game.Atomic, 0, len(policy))
	for atomic := range policy {
		atomics = append(atomics, atomic)
	}
	sort.Slice(atomics, func(i, j int) bool {
		return less(atomics[i], atomics[j])
	})

	cumulative := 0.0
	var last game.Atomic
	for _, atomic := range atomics {
		last = atomic
		cumulative += policy[atomic]
		if sampled < cumulative {
			return atomic
		}
	}
	return last // Fallback in case of rounding errors
}

func less(a, b game.Atomic) bool {
	if a.Type != b.Type {
		return a.Type < b.Type
	}
	if a.Kind != b.Kind {
		return a.Kind < b.Kind
	}
	return a.Destination < b.Destination
}
