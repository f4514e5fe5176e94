package game

import "errors"

// Legality failures. They are expected outcomes of user input and are
// returned, never raised.
var (
	ErrSnipeCaptured         = errors.New("snipe already captured")
	ErrAlreadyMoved          = errors.New("an animal already moved this turn")
	ErrDestinationOutOfRange = errors.New("step destination not in range")
	ErrWouldEmptyRow         = errors.New("cannot empty a row without winning immediately")
	ErrNotInReserve          = errors.New("dropped animal is not in reserve")
	ErrWouldEmptyReserve     = errors.New("cannot drop the last piece of a reserve")
	ErrRetreaterTooDeep      = errors.New("retreating animal cannot be dropped that deep")
	ErrPieceInReserve        = errors.New("cannot step a piece in reserve")
	ErrNotYourPiece          = errors.New("piece does not belong to the mover")
	ErrMovedTwice            = errors.New("same animal cannot move twice in one turn")
	ErrCapturesOwnSnipe      = errors.New("cannot capture own snipe without capturing the opponent's")
	ErrNothingToUndo         = errors.New("nothing to undo")
)
