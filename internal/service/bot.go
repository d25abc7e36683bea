package service

import (
	"math/rand/v2"

	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
	"github.com/rocketscienceinc/tictactoe-core/internal/tictactoe"
)

const centerCell = 4

var (
	cornerCells = [...]int{0, 2, 6, 8}
	sideCells   = [...]int{1, 3, 5, 7}
)

// Picker returns an index in [0, n). n is always positive.
type Picker interface {
	Pick(n int) int
}

type PickerFunc func(n int) int

func (f PickerFunc) Pick(n int) int {
	return f(n)
}

type randomPicker struct{}

func (randomPicker) Pick(n int) int {
	return rand.IntN(n) //nolint: gosec // it's ok
}

type BotService interface {
	ChooseMove(board entity.Board, self, opponent entity.Mark) int
}

type botService struct {
	picker Picker
}

func NewBotService() BotService {
	return NewBotServiceWithPicker(randomPicker{})
}

// NewBotServiceWithPicker lets tests replace the random corner and side choice.
func NewBotServiceWithPicker(picker Picker) BotService {
	if picker == nil {
		picker = randomPicker{}
	}

	return &botService{picker: picker}
}

// ChooseMove picks a cell by fixed priority: win, block, center, random corner,
// random side, first empty cell. The board must have an empty cell; -1 is returned otherwise.
func (that *botService) ChooseMove(board entity.Board, self, opponent entity.Mark) int {
	if cell, ok := findWinningCell(board, self); ok {
		return cell
	}

	if cell, ok := findWinningCell(board, opponent); ok {
		return cell
	}

	if board[centerCell] == entity.EmptyCell {
		return centerCell
	}

	if cell, ok := that.pickEmpty(board, cornerCells[:]); ok {
		return cell
	}

	if cell, ok := that.pickEmpty(board, sideCells[:]); ok {
		return cell
	}

	for i, cell := range board {
		if cell == entity.EmptyCell {
			return i
		}
	}

	return -1
}

func (that *botService) pickEmpty(board entity.Board, candidates []int) (int, bool) {
	available := make([]int, 0, len(candidates))
	for _, cell := range candidates {
		if board[cell] == entity.EmptyCell {
			available = append(available, cell)
		}
	}

	if len(available) == 0 {
		return -1, false
	}

	return available[that.picker.Pick(len(available))], true
}

// findWinningCell - first empty cell (scanning 0..8) where mark would complete a line.
func findWinningCell(board entity.Board, mark entity.Mark) (int, bool) {
	for i, cell := range board {
		if cell != entity.EmptyCell {
			continue
		}

		board[i] = mark
		outcome := tictactoe.Evaluate(board)
		board[i] = entity.EmptyCell

		if outcome.IsWin() && outcome.Winner == mark {
			return i, true
		}
	}

	return -1, false
}
