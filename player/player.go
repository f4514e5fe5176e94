package player

import (
	"context"

	"snipehunt/game"
	"snipehunt/gamemaster"
	"snipehunt/searcher/agent"

	"github.com/rs/zerolog/log"
)

// Player lets an agent play one side of an interactive session.
type Player struct {
	Side  game.Player
	Agent agent.Agent
}

func NewPlayer(side game.Player, a agent.Agent) *Player {
	return &Player{
		Side:  side,
		Agent: a,
	}
}

// Play answers every position where it is the player's turn until ctx is
// done. A position that changed while the agent was thinking is skipped.
func (p *Player) Play(ctx context.Context, session *gamemaster.Session) error {
	updates := session.Subscribe()
	for {
		select {
		case <-ctx.Done():
			return nil
		case state := <-updates:
			if state.IsGameOver() || state.Turn() != p.Side {
				continue
			}
			p.TakeTurn(session, state)
		}
	}
}

// TakeTurn plays the agent's atomic for state if state is still current.
func (p *Player) TakeTurn(session *gamemaster.Session, state *game.State) {
	atomic, metric := p.Agent.FindAtomic(state)
	if session.State() != state {
		log.Debug().Str("player", p.Side.String()).Msg("position changed while thinking")
		return
	}
	if err := session.Perform(atomic); err != nil {
		log.Warn().Err(err).Str("player", p.Side.String()).Msg("agent atomic rejected")
		return
	}
	log.Info().Msgf("[Player] %s played %s after %d rollouts", p.Side, atomic, metric.Rollouts)
}
