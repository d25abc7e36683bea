package tictactoe

import "github.com/rocketscienceinc/tictactoe-core/internal/entity"

// Evaluate classifies the board. Lines are checked in WinCombos order and the first
// completed one wins.
func Evaluate(board entity.Board) entity.Outcome {
	for _, combo := range entity.WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != entity.EmptyCell && a == b && b == c {
			return entity.WinOutcome(a, combo)
		}
	}

	if board.IsFull() {
		return entity.TieOutcome()
	}

	return entity.InProgressOutcome()
}
