package gamemaster

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"snipehunt/game"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

var ErrNothingToRedo = errors.New("nothing to redo")

// Session is an interactive game: atomics are tried, undone and redone one at
// a time, and every change is saved and published to subscribers.
type Session struct {
	mutex       sync.Mutex
	state       *game.State
	future      []game.Atomic // Undone atomics, the next to redo is last
	saver       Saver
	subscribers []chan *game.State
}

// NewSession resumes the saved game, or deals a new one when nothing is
// saved. A nil saver keeps the session in memory.
func NewSession(saver Saver) *Session {
	s := &Session{saver: saver}
	if saver != nil {
		state, future, err := saver.Load()
		if err != nil {
			log.Warn().Err(err).Msg("could not load session")
		}
		if state != nil {
			log.Info().Int("atomics", len(state.History())).Int("future", len(future)).Msg("session loaded")
			s.state, s.future = state, future
			return s
		}
	}
	s.state = game.NewRandom(rand.New(rand.NewSource(uint64(time.Now().UnixNano()))))
	s.save()
	return s
}

func (s *Session) State() *game.State {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.state
}

// Future returns the redo stack, the next atomic to redo last.
func (s *Session) Future() []game.Atomic {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return append([]game.Atomic(nil), s.future...)
}

// Perform plays a and forgets the redo stack.
func (s *Session) Perform(a game.Atomic) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	next, err := s.state.TryPerform(a)
	if err != nil {
		return fmt.Errorf("cannot perform %s: %w", a, err)
	}
	s.future = nil
	s.change(next)
	return nil
}

func (s *Session) Undo() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	previous, undone, err := s.state.UndoLastSubPly()
	if err != nil {
		return fmt.Errorf("cannot undo: %w", err)
	}
	s.future = append(s.future, undone)
	s.change(previous)
	return nil
}

func (s *Session) Redo() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if len(s.future) == 0 {
		return ErrNothingToRedo
	}
	a := s.future[len(s.future)-1]
	next, err := s.state.TryPerform(a)
	if err != nil {
		return fmt.Errorf("cannot redo %s: %w", a, err)
	}
	s.future = s.future[:len(s.future)-1]
	s.change(next)
	return nil
}

// Reset deals a new game from seed.
func (s *Session) Reset(seed uint64) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.future = nil
	s.change(game.NewRandom(rand.New(rand.NewSource(seed))))
	log.Info().Uint64("seed", seed).Msg("session reset")
}

// Subscribe returns a channel holding the latest state. Unread states are
// overwritten, so a slow reader only sees the newest one.
func (s *Session) Subscribe() <-chan *game.State {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	ch := make(chan *game.State, 1)
	ch <- s.state
	s.subscribers = append(s.subscribers, ch)
	return ch
}

func (s *Session) change(state *game.State) {
	s.state = state
	s.save()
	for _, ch := range s.subscribers {
		select {
		case ch <- state:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- state
		}
	}
}

func (s *Session) save() {
	if s.saver == nil {
		return
	}
	if err := s.saver.Save(s.state, s.future); err != nil {
		log.Warn().Err(err).Msg("could not save session")
	}
}
