package entity

import (
	"errors"
	"fmt"
	"strings"
)

type Mark string

const (
	EmptyCell Mark = ""
	PlayerX   Mark = "X"
	PlayerO   Mark = "O"
)

// Opponent returns the other player's mark. EmptyCell has no opponent.
func (that Mark) Opponent() Mark {
	switch that {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	default:
		return EmptyCell
	}
}

func (that Mark) IsPlayer() bool {
	return that == PlayerX || that == PlayerO
}

const BoardSize = 9

// Board is the 3x3 grid stored row-major: row = idx/3, col = idx%3.
type Board [BoardSize]Mark

func (that Board) IsFull() bool {
	for _, cell := range that {
		if cell == EmptyCell {
			return false
		}
	}

	return true
}

func (that Board) EmptyCells() []int {
	cells := make([]int, 0, len(that))
	for i, cell := range that {
		if cell == EmptyCell {
			cells = append(cells, i)
		}
	}

	return cells
}

// String renders the board as nine characters, "." for empty cells.
func (that Board) String() string {
	var sb strings.Builder
	for _, cell := range that {
		if cell == EmptyCell {
			sb.WriteByte('.')
			continue
		}
		sb.WriteString(string(cell))
	}

	return sb.String()
}

func (that Board) IsEmptyAt(cell int) bool {
	return cell >= 0 && cell < len(that) && that[cell] == EmptyCell
}

type Line [3]int

var WinCombos = [8]Line{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

type OutcomeKind int

const (
	OutcomeInProgress OutcomeKind = iota
	OutcomeWin
	OutcomeTie
)

// Outcome is the classification of a board. Winner and Line are only set for OutcomeWin.
type Outcome struct {
	Kind   OutcomeKind
	Winner Mark
	Line   Line
}

func InProgressOutcome() Outcome {
	return Outcome{Kind: OutcomeInProgress}
}

func WinOutcome(winner Mark, line Line) Outcome {
	return Outcome{Kind: OutcomeWin, Winner: winner, Line: line}
}

func TieOutcome() Outcome {
	return Outcome{Kind: OutcomeTie}
}

func (that Outcome) IsWin() bool {
	return that.Kind == OutcomeWin
}

func (that Outcome) IsTie() bool {
	return that.Kind == OutcomeTie
}

func (that Outcome) IsInProgress() bool {
	return that.Kind == OutcomeInProgress
}

type Mode string

const (
	ModeUnselected       Mode = ""
	ModePlayerVsPlayer   Mode = "pvp"
	ModePlayerVsOpponent Mode = "pvo"
)

var ErrUnknownMode = errors.New("unknown game mode")

func ParseMode(value string) (Mode, error) {
	switch mode := Mode(value); mode {
	case ModePlayerVsPlayer, ModePlayerVsOpponent:
		return mode, nil
	default:
		return ModeUnselected, fmt.Errorf("%w: %q", ErrUnknownMode, value)
	}
}

type Status string

const (
	StatusModeSelect Status = "mode_select"
	StatusPlaying    Status = "playing"
	StatusWon        Status = "won"
	StatusTied       Status = "tied"
)

func (that Status) IsFinished() bool {
	return that == StatusWon || that == StatusTied
}

// Snapshot is the read-only view of a session handed to hosts after every command.
type Snapshot struct {
	Board           Board  `json:"board"`
	Mode            Mode   `json:"mode"`
	Status          Status `json:"status"`
	CurrentTurn     Mark   `json:"current_turn"`
	Winner          Mark   `json:"winner,omitempty"`
	HighlightedLine *Line  `json:"highlighted_line,omitempty"`
	StatusMessage   string `json:"status_message"`
	Generation      uint64 `json:"generation"`
}
