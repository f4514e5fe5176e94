package engine

import (
	"fmt"
	"time"

	"snipehunt/experiments/metrics"
	"snipehunt/game"
	"snipehunt/meta"
	"snipehunt/searcher/agent"

	"github.com/rs/zerolog/log"
)

var _ Engine = (*LocalEngine)(nil)

type LocalEngine struct {
	State    *game.State
	Agents   [2]agent.Agent // Indexed by game.Player
	MaxTurns int
}

func NewLocal(alpha, beta agent.Agent, state *game.State) *LocalEngine {
	if alpha == nil || beta == nil {
		panic("need an agent for both sides")
	}
	return &LocalEngine{
		State:    state,
		Agents:   [2]agent.Agent{game.Alpha: alpha, game.Beta: beta},
		MaxTurns: meta.MAX_TURNS,
	}
}

// Run executes the entire game loop until a winner is found.
func (e *LocalEngine) Run() (string, metrics.GameMetric, []metrics.MoveMetric) {
	gameMetric := metrics.GameMetric{
		StartingPlayer: int(e.State.Turn()),
		StartTime:      time.Now(),
	}
	log.Info().Msgf("%s is starting", e.State.Turn())

	var moveMetrics []metrics.MoveMetric
	step := 1
	for ; !e.State.IsGameOver() && step <= e.MaxTurns; step++ {
		mover := e.State.Turn()
		atomic, searchMetric := e.Agents[mover].FindAtomic(e.State)

		next, err := e.State.TryPerform(atomic)
		if err != nil {
			panic(fmt.Sprintf("%s agent chose %s: %v", mover, atomic, err))
		}
		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         step,
			Player:       int(mover),
			Atomic:       atomic.String(),
			SearchMetric: searchMetric,
		})
		log.Debug().Int("step", step).Str("player", mover.String()).Str("atomic", atomic.String()).Msg("atomic played")
		e.State = next
	}

	winner := ""
	if w, ok := e.State.Winner(); ok {
		winner = w.String()
		log.Info().Msgf("game ended after %d atomics, %s wins", len(moveMetrics), winner)
	} else {
		gameMetric.HitTurnLimit = true
		log.Info().Msgf("stopped after %d atomics (no winner yet)", len(moveMetrics))
	}

	gameMetric.Winner = winner
	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalAtomics = len(moveMetrics)
	gameMetric.TotalPlies = len(e.State.Plies())
	return winner, gameMetric, moveMetrics
}
