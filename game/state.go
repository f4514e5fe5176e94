package game

import "fmt"

// State is an immutable game position together with the plies that led to
// it. Operations that change the position return a new State.
type State struct {
	initial Packed
	board   Packed
	turn    Player
	plies   []Ply
	pending uint32
}

// New starts a game from the given packed board. Beta moves first.
func New(initial Packed) *State {
	return &State{
		initial: initial,
		board:   initial,
		turn:    Beta,
	}
}

// FromBoard starts a game from a structured board after checking that every
// piece is present exactly once.
func FromBoard(b Board) (*State, error) {
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("invalid board: %w", err)
	}
	return New(Encode(b)), nil
}

func (s *State) Board() Board {
	return Decode(s.board)
}

func (s *State) Packed() Packed {
	return s.board
}

func (s *State) Initial() Packed {
	return s.initial
}

func (s *State) Turn() Player {
	return s.turn
}

func (s *State) Plies() []Ply {
	plies := make([]Ply, len(s.plies))
	copy(plies, s.plies)
	return plies
}

// Pending returns the animal-step taken this turn that still awaits its
// second step.
func (s *State) Pending() (Atomic, bool) {
	return decodePending(s.pending)
}

// LocationOf panics when the piece is on no location, since that means the
// conservation invariant is broken.
func (s *State) LocationOf(p Piece) Location {
	if p.IsSnipe {
		if l, ok := s.board.snipeLocation(p.Owner); ok {
			return l
		}
	} else if l, _, ok := s.board.animalLocation(p.Kind); ok {
		return l
	}
	panic(fmt.Sprintf("piece %s is missing from the board", p))
}

// capturedWinner reports the side holding the opponent's snipe in its
// reserve.
func (s *State) capturedWinner() (Player, bool) {
	if s.board.hasSnipe(AlphaReserve, Beta) {
		return Alpha, true
	}
	if s.board.hasSnipe(BetaReserve, Alpha) {
		return Beta, true
	}
	return 0, false
}

// Winner returns the winner of a finished game. A side without legal atomics
// loses.
func (s *State) Winner() (Player, bool) {
	if winner, ok := s.capturedWinner(); ok {
		return winner, true
	}
	if len(s.LegalAtomics()) == 0 {
		return s.turn.Opponent(), true
	}
	return 0, false
}

func (s *State) IsGameOver() bool {
	_, over := s.Winner()
	return over
}

// History flattens the plies and the pending half-turn into atomics, in the
// order they were performed.
func (s *State) History() []Atomic {
	history := make([]Atomic, 0, 2*len(s.plies)+1)
	for _, ply := range s.plies {
		history = append(history, ply.Atomics()...)
	}
	if pending, ok := s.Pending(); ok {
		history = append(history, pending)
	}
	return history
}

// TurnAfter returns the side to move once a is performed.
func (s *State) TurnAfter(a Atomic) Player {
	if a.Type == AnimalStep && s.pending == 0 {
		return s.turn
	}
	return s.turn.Opponent()
}

func (s *State) clone() *State {
	plies := make([]Ply, len(s.plies), len(s.plies)+1)
	copy(plies, s.plies)
	return &State{
		initial: s.initial,
		board:   s.board,
		turn:    s.turn,
		plies:   plies,
		pending: s.pending,
	}
}
