package game

import "fmt"

// TryPerform validates a and returns the resulting state.
func (s *State) TryPerform(a Atomic) (*State, error) {
	if err := s.FailureReason(a); err != nil {
		return nil, err
	}
	return s.ForcePerform(a), nil
}

// ForcePerform applies a without checking legality. Callers must have
// obtained a from LegalAtomics or checked it with FailureReason.
func (s *State) ForcePerform(a Atomic) *State {
	next := s.clone()
	switch a.Type {
	case SnipeStep:
		origin := s.LocationOf(Snipe(s.turn))
		next.board.clearSnipe(origin, s.turn)
		next.board.setSnipe(a.Destination, s.turn)
		next.completePly(encodeSnipeStep(a.Destination))

	case Drop:
		next.board.clearAnimal(ReserveOf(s.turn), s.turn, a.Kind)
		next.board.setAnimal(a.Destination, s.turn, a.Kind)
		next.completePly(encodeDrop(a.Kind, a.Destination))

	case AnimalStep:
		origin := s.LocationOf(Animal(a.Kind, s.turn))
		if completesTriplet(a.Kind, s.board.elementCounts(a.Destination)) {
			next.board.capture(a.Destination, s.turn)
		}
		next.board.clearAnimal(origin, s.turn, a.Kind)
		next.board.setAnimal(a.Destination, s.turn, a.Kind)

		if first, ok := s.Pending(); ok {
			next.pending = 0
			next.completePly(encodeTwoAnimalSteps(first, a))
		} else {
			next.pending = encodePending(a)
		}

	default:
		panic(fmt.Sprintf("unknown atomic type %d", a.Type))
	}
	return next
}

func (s *State) completePly(ply Ply) {
	s.plies = append(s.plies, ply)
	s.turn = s.turn.Opponent()
}

// capture sends every piece at l to the capturer's reserve. Captured animals
// change sides.
func (p *Packed) capture(l Location, capturer Player) {
	reserve := int(ReserveOf(capturer))*wordsPerLocation + animalOffset(capturer)
	base := int(l) * wordsPerLocation

	p[reserve] |= p[base+offsetAlphaAnimals] | p[base+offsetBetaAnimals]
	p[base+offsetAlphaAnimals] = 0
	p[base+offsetBetaAnimals] = 0

	p[int(ReserveOf(capturer))*wordsPerLocation+offsetSnipes] |= p[base+offsetSnipes]
	p[base+offsetSnipes] = 0
}
