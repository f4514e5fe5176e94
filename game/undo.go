package game

import "fmt"

// UndoLastSubPly takes back the most recent atomic and returns the resulting
// state along with the atomic that was undone. Only the current board and the
// ply log are stored, so the previous position is rebuilt by replaying the log
// from the initial board.
func (s *State) UndoLastSubPly() (*State, Atomic, error) {
	if pending, ok := s.Pending(); ok {
		return replayPlies(s.initial, s.plies, nil), pending, nil
	}
	if len(s.plies) == 0 {
		return nil, Atomic{}, ErrNothingToUndo
	}

	last := s.plies[len(s.plies)-1]
	kept := s.plies[:len(s.plies)-1]
	atomics := last.Atomics()
	if len(atomics) == 2 {
		return replayPlies(s.initial, kept, &atomics[0]), atomics[1], nil
	}
	return replayPlies(s.initial, kept, nil), atomics[0], nil
}

func replayPlies(initial Packed, plies []Ply, pending *Atomic) *State {
	state := New(initial)
	for _, ply := range plies {
		for _, atomic := range ply.Atomics() {
			state = state.ForcePerform(atomic)
		}
	}
	if pending != nil {
		state = state.ForcePerform(*pending)
	}
	return state
}

// Replay performs history from initial, checking every atomic.
func Replay(initial Packed, history []Atomic) (*State, error) {
	state := New(initial)
	for i, atomic := range history {
		next, err := state.TryPerform(atomic)
		if err != nil {
			return nil, fmt.Errorf("replaying atomic %d (%s): %w", i, atomic, err)
		}
		state = next
	}
	return state, nil
}
