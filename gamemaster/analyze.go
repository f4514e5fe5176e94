package gamemaster

import (
	"context"
	"time"

	"snipehunt/communication"
)

// Analyze keeps comm searching the session's current position until ctx is
// done.
func Analyze(ctx context.Context, s *Session, comm communication.Communicator, thinkingTime time.Duration) error {
	updates := s.Subscribe()
	for {
		select {
		case <-ctx.Done():
			return nil
		case state := <-updates:
			if err := comm.Update(ctx, state, thinkingTime); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
		}
	}
}
