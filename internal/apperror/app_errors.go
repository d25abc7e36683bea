package apperror

import "errors"

var (
	ErrNotFound = errors.New("not found")

	ErrGameFinished        = errors.New("game is already finished")
	ErrGameIsNotStarted    = errors.New("game is not started")
	ErrNotYourTurn         = errors.New("it's not your turn")
	ErrCellOccupied        = errors.New("cell is already occupied")
	ErrInvalidCell         = errors.New("invalid cell index")
	ErrModeAlreadySelected = errors.New("game mode is already selected")
	ErrModeNotSelected     = errors.New("game mode is not selected")
	ErrNotOpponentTurn     = errors.New("it's not the opponent's turn")
	ErrOpponentThinking    = errors.New("opponent move is already scheduled")
)
