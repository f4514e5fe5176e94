package searcher

import (
	"testing"

	"snipehunt/game"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func newRandom(seed uint64) *game.State {
	return game.NewRandom(rand.New(rand.NewSource(seed)))
}

// position builds a beta-to-move state from placements. Unplaced first
// copies go to alpha's reserve and unplaced second copies to beta's.
func position(t *testing.T, placements map[game.Location][]game.Piece) *game.State {
	t.Helper()

	var board game.Board
	placed := map[game.Kind]bool{}
	for location, pieces := range placements {
		for _, piece := range pieces {
			if !piece.IsSnipe {
				placed[piece.Kind] = true
			}
			board[location] = append(board[location], piece)
		}
	}
	for k := game.Kind(0); k < game.NumKinds; k++ {
		if placed[k] {
			continue
		}
		if k.Copy() == 0 {
			board[game.AlphaReserve] = append(board[game.AlphaReserve], game.Animal(k, game.Alpha))
		} else {
			board[game.BetaReserve] = append(board[game.BetaReserve], game.Animal(k, game.Beta))
		}
	}

	state, err := game.FromBoard(board)
	require.NoError(t, err)
	return state
}

// winInOne is a position where beta's Tiger2 completes a fire triplet in
// row 1 and captures the alpha snipe.
func winInOne(t *testing.T) (*game.State, game.Atomic) {
	t.Helper()
	state := position(t, map[game.Location][]game.Piece{
		game.Row1: {game.Snipe(game.Alpha), game.Animal(game.NewKind(game.Mouse, 0), game.Alpha), game.Animal(game.NewKind(game.Rooster, 0), game.Alpha)},
		game.Row2: {game.Animal(game.NewKind(game.Tiger, 1), game.Beta), game.Animal(game.NewKind(game.Ox, 1), game.Beta)},
		game.Row6: {game.Snipe(game.Beta), game.Animal(game.NewKind(game.Rabbit, 1), game.Beta)},
	})
	return state, game.NewAnimalStep(game.NewKind(game.Tiger, 1), game.Row1)
}

// finished is a position whose beta snipe already sits in alpha's reserve.
func finished(t *testing.T) *game.State {
	t.Helper()
	var board game.Board
	for k := game.Kind(0); k < game.NumKinds; k++ {
		board[game.Row1] = append(board[game.Row1], game.Animal(k, game.Alpha))
	}
	board[game.Row2] = []game.Piece{game.Snipe(game.Alpha)}
	board[game.AlphaReserve] = []game.Piece{game.Snipe(game.Beta)}

	state, err := game.FromBoard(board)
	require.NoError(t, err)
	return state
}
