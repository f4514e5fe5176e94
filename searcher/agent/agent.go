package agent

import (
	"snipehunt/experiments/metrics"
	"snipehunt/game"
)

type Agent interface {
	// FindAtomic returns the chosen atomic and performance metrics (if collected) from the search
	FindAtomic(state *game.State) (game.Atomic, metrics.SearchMetric)
}
