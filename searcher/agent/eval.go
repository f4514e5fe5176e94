package agent

import (
	"snipehunt/experiments/metrics"
	"snipehunt/game"
	"snipehunt/searcher"
)

type evaluationAgent struct {
	mcts *searcher.MCTS
}

// NewEvaluationAgent returns an agent that plays the most visited atomic. The
// search tree is carried over between calls when the game continues.
func NewEvaluationAgent(mcts *searcher.MCTS) Agent {
	return evaluationAgent{mcts: mcts}
}

func (a evaluationAgent) FindAtomic(state *game.State) (game.Atomic, metrics.SearchMetric) {
	_, metric := a.mcts.Simulate(state)
	atomic, ok := a.mcts.BestAtomic()
	if !ok {
		panic("search found no atomic for a finished game")
	}
	return atomic, metric
}
