package player

import (
	"context"
	"testing"
	"time"

	"snipehunt/game"
	"snipehunt/gamemaster"
	"snipehunt/searcher/agent"

	"github.com/stretchr/testify/require"
)

func TestPlayer(t *testing.T) {
	t.Run("plays its own side only", func(t *testing.T) {
		session := gamemaster.NewSession(nil)
		session.Reset(1)
		side := session.State().Turn()
		p := NewPlayer(side, agent.NewRandomAgent(1))

		p.TakeTurn(session, session.State())

		history := session.State().History()
		require.Len(t, history, 1)
	})

	t.Run("stale position is skipped", func(t *testing.T) {
		session := gamemaster.NewSession(nil)
		session.Reset(1)
		stale := session.State()
		require.NoError(t, session.Perform(stale.LegalAtomics()[0]))
		p := NewPlayer(stale.Turn(), agent.NewRandomAgent(1))

		p.TakeTurn(session, stale)

		require.Len(t, session.State().History(), 1)
	})

	t.Run("two players finish a game", func(t *testing.T) {
		session := gamemaster.NewSession(nil)
		session.Reset(2)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		done := make(chan error, 2)
		for _, side := range []game.Player{game.Alpha, game.Beta} {
			p := NewPlayer(side, agent.NewRandomAgent(uint64(side)+1))
			go func() { done <- p.Play(ctx, session) }()
		}

		require.Eventually(t, func() bool {
			return session.State().IsGameOver() || len(session.State().History()) >= 50
		}, 10*time.Second, time.Millisecond)

		cancel()
		require.NoError(t, <-done)
		require.NoError(t, <-done)
	})
}
