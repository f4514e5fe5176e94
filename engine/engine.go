package engine

import "snipehunt/experiments/metrics"

type Engine interface {
	// Run plays a game till there's a winner or the atomic limit is reached.
	// The winner is empty when the limit was hit.
	Run() (winner string, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric)
}
