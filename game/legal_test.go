package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func snipeSteps(atomics []Atomic) []Atomic {
	var steps []Atomic
	for _, a := range atomics {
		if a.Type == SnipeStep {
			steps = append(steps, a)
		}
	}
	return steps
}

func TestSnipeStep(t *testing.T) {
	t.Run("starting position only allows stepping towards the centre", func(t *testing.T) {
		for seed := uint64(1); seed <= 10; seed++ {
			state := NewRandom(newRng(seed))

			require.Equal(t, Beta, state.Turn(), "Beta should move first")
			require.Equal(t, []Atomic{NewSnipeStep(Row5)}, snipeSteps(state.LegalAtomics()))
		}
	})

	t.Run("empty adjacent row is out of range", func(t *testing.T) {
		state := position(t, Beta, map[Location][]Piece{
			Row1: {Snipe(Alpha), Animal(k1(Mouse), Alpha)},
			Row4: {Snipe(Beta), Animal(k2(Ox), Beta)},
			Row5: {Animal(k2(Rabbit), Beta)},
		}, AlphaReserve, BetaReserve)

		require.ErrorIs(t, state.FailureReason(NewSnipeStep(Row3)), ErrDestinationOutOfRange)
		require.NoError(t, state.FailureReason(NewSnipeStep(Row5)))
		require.Equal(t, []Atomic{NewSnipeStep(Row5)}, snipeSteps(state.LegalAtomics()))
	})

	t.Run("snipe cannot leave its row empty", func(t *testing.T) {
		state := position(t, Beta, map[Location][]Piece{
			Row1: {Snipe(Alpha), Animal(k1(Mouse), Alpha)},
			Row3: {Animal(k2(Ox), Beta)},
			Row4: {Snipe(Beta)},
			Row5: {Animal(k2(Rabbit), Beta)},
		}, AlphaReserve, BetaReserve)

		require.ErrorIs(t, state.FailureReason(NewSnipeStep(Row3)), ErrWouldEmptyRow)
		require.ErrorIs(t, state.FailureReason(NewSnipeStep(Row5)), ErrWouldEmptyRow)
		require.ErrorIs(t, state.FailureReason(NewSnipeStep(Row2)), ErrDestinationOutOfRange)
		require.Empty(t, snipeSteps(state.LegalAtomics()))
	})

	t.Run("snipe step ends the turn", func(t *testing.T) {
		state := NewRandom(newRng(3))

		next, err := state.TryPerform(NewSnipeStep(Row5))

		require.NoError(t, err)
		require.Equal(t, Alpha, next.Turn())
		require.Equal(t, Row5, next.LocationOf(Snipe(Beta)))
		require.Equal(t, []Ply{encodeSnipeStep(Row5)}, next.Plies())
	})
}

func TestDrop(t *testing.T) {
	t.Run("last piece of a reserve cannot be dropped", func(t *testing.T) {
		state := position(t, Beta, map[Location][]Piece{
			BetaReserve: {Animal(k2(Ox), Beta)},
			Row1:        {Snipe(Alpha)},
			Row6:        {Snipe(Beta)},
		}, Row2, Row5)

		require.ErrorIs(t, state.FailureReason(NewDrop(k2(Ox), Row3)), ErrWouldEmptyReserve)
		for _, a := range state.LegalAtomics() {
			require.NotEqual(t, Drop, a.Type, "No drop should be legal from a single-piece reserve")
		}
	})

	t.Run("drop from a larger reserve", func(t *testing.T) {
		state := position(t, Beta, map[Location][]Piece{
			BetaReserve: {Animal(k2(Ox), Beta), Animal(k2(Rabbit), Beta)},
			Row1:        {Snipe(Alpha)},
			Row6:        {Snipe(Beta)},
		}, Row2, Row5)

		require.NoError(t, state.FailureReason(NewDrop(k2(Ox), Row3)))
		require.ErrorIs(t, state.FailureReason(NewDrop(k2(Ox), BetaReserve)), ErrDestinationOutOfRange)
		require.ErrorIs(t, state.FailureReason(NewDrop(k1(Ox), Row3)), ErrNotInReserve)

		next := state.ForcePerform(NewDrop(k2(Ox), Row3))
		require.Equal(t, Row3, next.LocationOf(Animal(k2(Ox), Beta)))
		require.Equal(t, Alpha, next.Turn())
	})

	t.Run("retreaters cannot be dropped deep", func(t *testing.T) {
		beta := position(t, Beta, map[Location][]Piece{
			BetaReserve: {Animal(k2(Mouse), Beta), Animal(k2(Ox), Beta)},
			Row1:        {Snipe(Alpha)},
			Row6:        {Snipe(Beta)},
		}, Row2, Row5)

		require.ErrorIs(t, beta.FailureReason(NewDrop(k2(Mouse), Row1)), ErrRetreaterTooDeep)
		require.ErrorIs(t, beta.FailureReason(NewDrop(k2(Mouse), Row2)), ErrRetreaterTooDeep)
		require.NoError(t, beta.FailureReason(NewDrop(k2(Mouse), Row3)))
		require.NoError(t, beta.FailureReason(NewDrop(k2(Ox), Row1)))

		alpha := position(t, Alpha, map[Location][]Piece{
			AlphaReserve: {Animal(k1(Mouse), Alpha), Animal(k1(Ox), Alpha)},
			Row1:         {Snipe(Alpha)},
			Row6:         {Snipe(Beta)},
		}, Row2, Row5)

		require.ErrorIs(t, alpha.FailureReason(NewDrop(k1(Mouse), Row6)), ErrRetreaterTooDeep)
		require.ErrorIs(t, alpha.FailureReason(NewDrop(k1(Mouse), Row5)), ErrRetreaterTooDeep)
		require.NoError(t, alpha.FailureReason(NewDrop(k1(Mouse), Row4)))
	})
}

func TestAnimalStep(t *testing.T) {
	state := position(t, Alpha, map[Location][]Piece{
		Row1: {Snipe(Alpha), Animal(k1(Dog), Alpha)},
		Row2: {Animal(k1(Ox), Alpha), Animal(k1(Mouse), Alpha), Animal(k1(Rabbit), Alpha)},
		Row6: {Snipe(Beta), Animal(k1(Horse), Alpha)},
	}, AlphaReserve, Row5)

	tests := []struct {
		name   string
		atomic Atomic
		want   error
	}{
		{"forward", NewAnimalStep(k1(Ox), Row3), nil},
		{"retreater backward", NewAnimalStep(k1(Mouse), Row1), nil},
		{"non-retreater backward", NewAnimalStep(k1(Ox), Row1), ErrDestinationOutOfRange},
		{"two rows", NewAnimalStep(k1(Ox), Row4), ErrDestinationOutOfRange},
		{"into a reserve", NewAnimalStep(k1(Horse), BetaReserve), ErrDestinationOutOfRange},
		{"opponent animal", NewAnimalStep(k2(Ox), Row4), ErrNotYourPiece},
		{"animal in reserve", NewAnimalStep(k1(Tiger), Row1), ErrPieceInReserve},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := state.FailureReason(tt.atomic)
			if tt.want == nil {
				require.NoError(t, err)
				require.True(t, contains(state.LegalAtomics(), tt.atomic), "Legal atomics should include %s", tt.atomic)
				return
			}
			require.ErrorIs(t, err, tt.want)
			require.False(t, contains(state.LegalAtomics(), tt.atomic), "Legal atomics should not include %s", tt.atomic)
		})
	}
}

func TestTriplet(t *testing.T) {
	state := position(t, Alpha, map[Location][]Piece{
		Row1: {Snipe(Alpha), Animal(k1(Ox), Alpha)},
		Row2: {Animal(k1(Mouse), Alpha), Animal(k1(Rabbit), Alpha)},
		Row3: {Animal(k2(Rooster), Beta), Animal(k2(Tiger), Beta)},
		Row6: {Snipe(Beta)},
	}, AlphaReserve, Row5)
	first := NewAnimalStep(k1(Mouse), Row3)

	t.Run("no capture without a triple", func(t *testing.T) {
		partial := position(t, Alpha, map[Location][]Piece{
			Row1: {Snipe(Alpha), Animal(k1(Ox), Alpha)},
			Row2: {Animal(k1(Mouse), Alpha), Animal(k1(Rabbit), Alpha)},
			Row3: {Animal(k2(Rooster), Beta), Snipe(Beta)},
		}, AlphaReserve, Row5)

		next, err := partial.TryPerform(first)
		require.NoError(t, err)
		require.ElementsMatch(t, []Piece{Animal(k2(Rooster), Beta), Snipe(Beta), Animal(k1(Mouse), Alpha)}, next.Board()[Row3])
		require.False(t, next.IsGameOver())
	})

	t.Run("triple alone does not capture", func(t *testing.T) {
		lone := position(t, Alpha, map[Location][]Piece{
			Row1: {Snipe(Alpha)},
			Row2: {Animal(k1(Tiger), Alpha), Animal(k1(Ox), Alpha)},
			Row3: {Animal(k2(Ox), Beta)},
			Row6: {Snipe(Beta)},
		}, AlphaReserve, Row5)

		next, err := lone.TryPerform(NewAnimalStep(k1(Tiger), Row3))
		require.NoError(t, err)
		require.ElementsMatch(t, []Piece{Animal(k2(Ox), Beta), Animal(k1(Tiger), Alpha)}, next.Board()[Row3])
		require.NotContains(t, next.Board()[AlphaReserve], Animal(k2(Ox), Alpha))
	})

	t.Run("capture sends occupants to the mover's reserve", func(t *testing.T) {
		next, err := state.TryPerform(first)
		require.NoError(t, err)

		board := next.Board()
		require.Equal(t, []Piece{Animal(k1(Mouse), Alpha)}, board[Row3])
		require.Contains(t, board[AlphaReserve], Animal(k2(Rooster), Alpha), "Captured animals should change sides")
		require.Contains(t, board[AlphaReserve], Animal(k2(Tiger), Alpha), "Captured animals should change sides")
		require.NoError(t, board.Validate())

		pending, ok := next.Pending()
		require.True(t, ok)
		require.Equal(t, first, pending)
		require.Equal(t, Alpha, next.Turn(), "First animal-step should not end the turn")
		require.Empty(t, next.Plies())
		require.Equal(t, []Atomic{first}, next.History())
	})

	t.Run("second step constraints", func(t *testing.T) {
		next := state.ForcePerform(first)

		require.ErrorIs(t, next.FailureReason(NewAnimalStep(k1(Mouse), Row4)), ErrMovedTwice)
		require.ErrorIs(t, next.FailureReason(NewAnimalStep(k1(Rabbit), Row3)), ErrWouldEmptyRow)
		require.ErrorIs(t, next.FailureReason(NewDrop(k1(Tiger), Row4)), ErrAlreadyMoved)
		require.ErrorIs(t, next.FailureReason(NewSnipeStep(Row2)), ErrAlreadyMoved)
	})

	t.Run("second step completes the ply", func(t *testing.T) {
		second := NewAnimalStep(k1(Ox), Row2)
		next, err := state.ForcePerform(first).TryPerform(second)
		require.NoError(t, err)

		require.Equal(t, Beta, next.Turn())
		_, ok := next.Pending()
		require.False(t, ok)
		plies := next.Plies()
		require.Len(t, plies, 1)
		require.Equal(t, TagTwoAnimalSteps, plies[0].Type())
		require.Equal(t, []Atomic{first, second}, plies[0].Atomics())
	})
}

func TestSnipeCapture(t *testing.T) {
	t.Run("own snipe alone cannot be captured", func(t *testing.T) {
		state := position(t, Alpha, map[Location][]Piece{
			Row1: {Animal(k1(Tiger), Alpha), Animal(k1(Ox), Alpha)},
			Row2: {Snipe(Alpha), Animal(k1(Mouse), Alpha), Animal(k1(Rooster), Alpha)},
			Row6: {Snipe(Beta)},
		}, AlphaReserve, Row5)

		require.ErrorIs(t, state.FailureReason(NewAnimalStep(k1(Tiger), Row2)), ErrCapturesOwnSnipe)
	})

	t.Run("row may not be emptied without winning", func(t *testing.T) {
		state := position(t, Alpha, map[Location][]Piece{
			Row1: {Animal(k1(Ox), Alpha)},
			Row2: {Snipe(Alpha), Animal(k1(Rabbit), Alpha)},
			Row6: {Snipe(Beta)},
		}, AlphaReserve, Row5)

		require.ErrorIs(t, state.FailureReason(NewAnimalStep(k1(Ox), Row2)), ErrWouldEmptyRow)
	})

	t.Run("capturing both snipes wins", func(t *testing.T) {
		state := position(t, Alpha, map[Location][]Piece{
			Row1: {Animal(k1(Tiger), Alpha)},
			Row2: {Snipe(Alpha), Snipe(Beta), Animal(k2(Mouse), Beta), Animal(k2(Rooster), Beta)},
		}, AlphaReserve, Row5)
		step := NewAnimalStep(k1(Tiger), Row2)

		require.NoError(t, state.FailureReason(step), "Winning step may empty its origin")
		next := state.ForcePerform(step)

		winner, ok := next.Winner()
		require.True(t, ok)
		require.Equal(t, Alpha, winner)
		require.True(t, next.IsGameOver())
		require.Empty(t, next.LegalAtomics())
		require.ErrorIs(t, next.FailureReason(NewSnipeStep(Row3)), ErrSnipeCaptured)

		reserve := next.Board()[AlphaReserve]
		require.Contains(t, reserve, Snipe(Beta))
		require.Contains(t, reserve, Snipe(Alpha))
		require.Contains(t, reserve, Animal(k2(Mouse), Alpha))
		require.Contains(t, reserve, Animal(k2(Rooster), Alpha))
	})
}

func TestStalemate(t *testing.T) {
	row6 := []Piece{Snipe(Alpha)}
	var reserve []Piece
	for s := Species(0); s < NumSpecies; s++ {
		if PropertiesOf(k1(s)).CanRetreat {
			reserve = append(reserve, Animal(k1(s), Beta))
		} else {
			row6 = append(row6, Animal(k1(s), Alpha))
		}
	}
	state := position(t, Alpha, map[Location][]Piece{
		Row1:        {Snipe(Beta)},
		Row6:        row6,
		BetaReserve: reserve,
	}, AlphaReserve, Row2)

	require.Empty(t, state.LegalAtomics())
	winner, ok := state.Winner()
	require.True(t, ok, "Side without legal atomics should lose")
	require.Equal(t, Beta, winner)
}

func candidateAtomics() []Atomic {
	var candidates []Atomic
	for _, l := range AllLocations {
		candidates = append(candidates, NewSnipeStep(l))
		for k := Kind(0); k < NumKinds; k++ {
			candidates = append(candidates, NewDrop(k, l), NewAnimalStep(k, l))
		}
	}
	return candidates
}

func TestLegalAtomicsAgreesWithFailureReason(t *testing.T) {
	candidates := candidateAtomics()
	rng := newRng(11)
	randomWalk(NewRandom(rng), rng, 200, func(state *State, _ Atomic) {
		legal := state.LegalAtomics()
		for _, a := range candidates {
			err := state.FailureReason(a)
			require.Equal(t, err == nil, contains(legal, a), "Atomic %s: failure %v", a, err)
		}
	})
}

func TestRandomPlay(t *testing.T) {
	for seed := uint64(1); seed <= 5; seed++ {
		rng := newRng(seed)
		final := randomWalk(NewRandom(rng), rng, 1000, func(state *State, _ Atomic) {
			require.NoError(t, state.Board().Validate(), "Every position should conserve all pieces")
		})

		require.NoError(t, final.Board().Validate())
		_, captured := final.capturedWinner()
		require.Equal(t, captured || len(final.LegalAtomics()) == 0, final.IsGameOver())
	}
}
