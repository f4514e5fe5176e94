package game

import (
	"fmt"
	"math/bits"
)

// FailureReason returns nil when a may be performed, or the legality failure
// that forbids it. The state is not modified.
func (s *State) FailureReason(a Atomic) error {
	if _, over := s.capturedWinner(); over {
		return ErrSnipeCaptured
	}
	switch a.Type {
	case SnipeStep:
		return s.snipeStepFailure(a.Destination)
	case Drop:
		return s.dropFailure(a.Kind, a.Destination)
	case AnimalStep:
		return s.animalStepFailure(a.Kind, a.Destination)
	}
	return fmt.Errorf("unknown atomic type %d", a.Type)
}

// LegalAtomics enumerates every atomic the side to move may perform. It is
// empty once the game is over.
func (s *State) LegalAtomics() []Atomic {
	if _, over := s.capturedWinner(); over {
		return nil
	}

	atomics := make([]Atomic, 0, 64)
	if s.pending == 0 {
		origin := s.LocationOf(Snipe(s.turn))
		for _, destination := range []Location{forward(origin, s.turn), backward(origin, s.turn)} {
			if s.snipeStepFailure(destination) == nil {
				atomics = append(atomics, NewSnipeStep(destination))
			}
		}

		reserve := s.board.animals(ReserveOf(s.turn), s.turn)
		for reserve != 0 {
			k := Kind(bits.TrailingZeros32(reserve))
			for _, destination := range Rows {
				if s.dropFailure(k, destination) == nil {
					atomics = append(atomics, NewDrop(k, destination))
				}
			}
			reserve &= reserve - 1
		}
	}

	for _, origin := range Rows {
		animals := s.board.animals(origin, s.turn)
		for animals != 0 {
			k := Kind(bits.TrailingZeros32(animals))
			destinations := []Location{forward(origin, s.turn)}
			if canRetreat(k) {
				destinations = append(destinations, backward(origin, s.turn))
			}
			for _, destination := range destinations {
				if s.animalStepFailure(k, destination) == nil {
					atomics = append(atomics, NewAnimalStep(k, destination))
				}
			}
			animals &= animals - 1
		}
	}
	return atomics
}

func (s *State) snipeStepFailure(destination Location) error {
	if s.pending != 0 {
		return ErrAlreadyMoved
	}
	origin := s.LocationOf(Snipe(s.turn))
	if origin.IsReserve() {
		return ErrPieceInReserve
	}
	if !destination.IsRow() || (destination != forward(origin, s.turn) && destination != backward(origin, s.turn)) {
		return ErrDestinationOutOfRange
	}
	// A snipe only steps into company.
	if s.board.occupants(destination) == 0 {
		return ErrDestinationOutOfRange
	}
	if s.board.occupants(origin) == 1 {
		return ErrWouldEmptyRow
	}
	return nil
}

func (s *State) dropFailure(k Kind, destination Location) error {
	if s.pending != 0 {
		return ErrAlreadyMoved
	}
	reserve := ReserveOf(s.turn)
	if k >= NumKinds || s.board.animals(reserve, s.turn)&k.bit() == 0 {
		return ErrNotInReserve
	}
	if !destination.IsRow() {
		return ErrDestinationOutOfRange
	}
	if s.board.occupants(reserve) < 2 {
		return ErrWouldEmptyReserve
	}
	if canRetreat(k) && isDeepRow(destination, s.turn) {
		return ErrRetreaterTooDeep
	}
	return nil
}

func (s *State) animalStepFailure(k Kind, destination Location) error {
	if k >= NumKinds {
		return ErrNotYourPiece
	}
	origin := s.LocationOf(Animal(k, s.turn))
	if s.board.animals(origin, s.turn)&k.bit() == 0 {
		return ErrNotYourPiece
	}
	if origin.IsReserve() {
		return ErrPieceInReserve
	}
	if pending, ok := s.Pending(); ok && pending.Kind == k {
		return ErrMovedTwice
	}
	if !destination.IsRow() {
		return ErrDestinationOutOfRange
	}
	if destination != forward(origin, s.turn) && !(canRetreat(k) && destination == backward(origin, s.turn)) {
		return ErrDestinationOutOfRange
	}

	captures := completesTriplet(k, s.board.elementCounts(destination))
	wins := captures && s.board.hasSnipe(destination, s.turn.Opponent())
	if captures && s.board.hasSnipe(destination, s.turn) && !wins {
		return ErrCapturesOwnSnipe
	}
	if s.board.occupants(origin) == 1 && !wins {
		return ErrWouldEmptyRow
	}
	return nil
}
