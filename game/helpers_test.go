package game

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func k1(s Species) Kind { return NewKind(s, 0) }
func k2(s Species) Kind { return NewKind(s, 1) }

// position builds a state from explicit placements. Animals that are not
// placed go to restAlpha as alpha pieces (first copies) or to restBeta as beta
// pieces (second copies). Both snipes must be placed.
func position(t *testing.T, turn Player, placements map[Location][]Piece, restAlpha, restBeta Location) *State {
	t.Helper()

	var board Board
	var placed uint32
	for location, pieces := range placements {
		for _, piece := range pieces {
			if !piece.IsSnipe {
				placed |= piece.Kind.bit()
			}
			board[location] = append(board[location], piece)
		}
	}
	for k := Kind(0); k < NumKinds; k++ {
		if placed&k.bit() != 0 {
			continue
		}
		if k.Copy() == 0 {
			board[restAlpha] = append(board[restAlpha], Animal(k, Alpha))
		} else {
			board[restBeta] = append(board[restBeta], Animal(k, Beta))
		}
	}

	state, err := FromBoard(board)
	require.NoError(t, err, "test position should conserve every piece")
	state.turn = turn
	return state
}

func newRng(seed uint64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func contains(atomics []Atomic, a Atomic) bool {
	for _, candidate := range atomics {
		if candidate == a {
			return true
		}
	}
	return false
}

// randomWalk performs up to n uniformly random legal atomics, calling visit
// before each one.
func randomWalk(state *State, rng *rand.Rand, n int, visit func(state *State, next Atomic)) *State {
	for i := 0; i < n; i++ {
		atomics := state.LegalAtomics()
		if len(atomics) == 0 {
			return state
		}
		next := atomics[rng.Intn(len(atomics))]
		if visit != nil {
			visit(state, next)
		}
		state = state.ForcePerform(next)
	}
	return state
}

// betaOpening is a position where beta, moving first, can take two quiet
// animal-steps: Mouse2 from row 5 to row 4, then Ox2 from row 6 to row 5.
// Positions that are replayed from their initial board must start with beta
// to move.
func betaOpening(t *testing.T) *State {
	t.Helper()
	return position(t, Beta, map[Location][]Piece{
		Row1: {Snipe(Alpha)},
		Row5: {Animal(k2(Mouse), Beta), Animal(k2(Rabbit), Beta)},
		Row6: {Snipe(Beta), Animal(k2(Ox), Beta)},
	}, Row2, BetaReserve)
}
