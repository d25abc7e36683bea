package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-core/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
)

// validateMove - checks that a mark can be written to the cell right now.
func (that *Session) validateMove(cell int) error {
	switch that.status {
	case entity.StatusModeSelect:
		return apperror.ErrGameIsNotStarted
	case entity.StatusWon, entity.StatusTied:
		return apperror.ErrGameFinished
	}

	if cell < 0 || cell >= len(that.board) {
		return fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if that.board[cell] != entity.EmptyCell {
		return apperror.ErrCellOccupied
	}

	return nil
}

// placeMark - writes the current mark, passes the turn and recomputes the status.
// Callers must validate the move first.
func (that *Session) placeMark(cell int) {
	that.board[cell] = that.turn
	that.turn = that.turn.Opponent()

	that.updateGameStatus()
}

// updateGameStatus - maps the evaluator's outcome onto the session status.
func (that *Session) updateGameStatus() {
	that.outcome = Evaluate(that.board)

	switch that.outcome.Kind {
	case entity.OutcomeWin:
		that.status = entity.StatusWon
	case entity.OutcomeTie:
		that.status = entity.StatusTied
	default:
		that.status = entity.StatusPlaying
	}
}

func (that *Session) statusMessage() string {
	switch that.status {
	case entity.StatusWon:
		return fmt.Sprintf("Player %s wins!", that.outcome.Winner)
	case entity.StatusTied:
		return "It's a tie!"
	case entity.StatusModeSelect:
		return "Select a game mode"
	}

	if that.mode == entity.ModePlayerVsOpponent {
		if that.turn == that.opponentMark {
			return "Computer is thinking..."
		}

		return fmt.Sprintf("Your turn (%s)", that.turn)
	}

	return fmt.Sprintf("Player %s's turn", that.turn)
}
