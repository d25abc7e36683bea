package tictactoe

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/tictactoe-core/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
)

const DefaultOpponentDelay = 500 * time.Millisecond

type Strategy interface {
	ChooseMove(board entity.Board, self, opponent entity.Mark) int
}

// ScheduledMove is an opponent move waiting for its delay to pass. It only applies to the
// generation and request (ticket) it was issued for.
type ScheduledMove struct {
	Generation uint64
	Ticket     uint64
	Cell       int
}

// Session is the state machine of one game instance. It is not safe for concurrent use:
// the owner must serialize commands and scheduled tasks.
type Session struct {
	logger    *slog.Logger
	strategy  Strategy
	scheduler Scheduler

	firstMark     entity.Mark
	opponentMark  entity.Mark
	opponentDelay time.Duration

	mode       entity.Mode
	board      entity.Board
	turn       entity.Mark
	status     entity.Status
	outcome    entity.Outcome
	generation uint64

	lastTicket uint64
	pending    uint64
}

type Option func(*Session)

func WithFirstMark(mark entity.Mark) Option {
	return func(s *Session) {
		if mark.IsPlayer() {
			s.firstMark = mark
		}
	}
}

// WithOpponentMark sets the mark played by the automated opponent.
func WithOpponentMark(mark entity.Mark) Option {
	return func(s *Session) {
		if mark.IsPlayer() {
			s.opponentMark = mark
		}
	}
}

func WithOpponentDelay(delay time.Duration) Option {
	return func(s *Session) {
		if delay >= 0 {
			s.opponentDelay = delay
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewSession(strategy Strategy, scheduler Scheduler, opts ...Option) *Session {
	session := &Session{
		logger:        slog.New(slog.DiscardHandler),
		strategy:      strategy,
		scheduler:     scheduler,
		firstMark:     entity.PlayerX,
		opponentMark:  entity.PlayerO,
		opponentDelay: DefaultOpponentDelay,
	}

	for _, opt := range opts {
		opt(session)
	}

	session.restart()
	session.status = entity.StatusModeSelect

	return session
}

// SelectMode starts the first game of a session. It is rejected once a mode is chosen.
func (that *Session) SelectMode(mode entity.Mode) error {
	log := that.logger.With("method", "SelectMode", "mode", mode)

	if that.mode != entity.ModeUnselected {
		log.Debug("mode change ignored", "current", that.mode)
		return apperror.ErrModeAlreadySelected
	}

	if mode != entity.ModePlayerVsPlayer && mode != entity.ModePlayerVsOpponent {
		return fmt.Errorf("%w: %q", entity.ErrUnknownMode, mode)
	}

	that.mode = mode
	that.restart()

	log.Debug("mode selected")

	return nil
}

// ApplyMove places the current mark on behalf of the human side. A rejected move leaves
// the session untouched.
func (that *Session) ApplyMove(cell int) error {
	log := that.logger.With("method", "ApplyMove", "cell", cell)

	if err := that.validateMove(cell); err != nil {
		log.Debug("move ignored", "error", err)
		return err
	}

	if that.mode == entity.ModePlayerVsOpponent && that.turn == that.opponentMark {
		log.Debug("move ignored", "error", apperror.ErrNotYourTurn)
		return apperror.ErrNotYourTurn
	}

	that.placeMark(cell)

	return nil
}

// NeedsOpponentMove reports whether the host should call RequestOpponentMove now.
func (that *Session) NeedsOpponentMove() bool {
	return that.isOpponentTurn() && that.pending == 0
}

// RequestOpponentMove asks the strategy for a cell and schedules its application after the
// opponent delay.
func (that *Session) RequestOpponentMove() (ScheduledMove, error) {
	if !that.isOpponentTurn() {
		return ScheduledMove{}, apperror.ErrNotOpponentTurn
	}

	if that.pending != 0 {
		return ScheduledMove{}, apperror.ErrOpponentThinking
	}

	cell := that.strategy.ChooseMove(that.board, that.opponentMark, that.opponentMark.Opponent())

	that.lastTicket++
	move := ScheduledMove{
		Generation: that.generation,
		Ticket:     that.lastTicket,
		Cell:       cell,
	}
	that.pending = move.Ticket

	that.scheduler.AfterFunc(that.opponentDelay, func() {
		that.ResumeOpponentMove(move)
	})

	that.logger.Debug("opponent move scheduled", "cell", cell, "generation", move.Generation, "delay", that.opponentDelay)

	return move, nil
}

// ResumeOpponentMove applies a scheduled move. Stale moves and moves whose cell was taken
// in the meantime are discarded; it reports whether the board changed.
func (that *Session) ResumeOpponentMove(move ScheduledMove) bool {
	log := that.logger.With("method", "ResumeOpponentMove", "cell", move.Cell, "generation", move.Generation)

	if move.Generation != that.generation || move.Ticket != that.pending {
		log.Debug("stale opponent move discarded", "current_generation", that.generation)
		return false
	}

	that.pending = 0

	if !that.isOpponentTurn() || !that.board.IsEmptyAt(move.Cell) {
		log.Debug("opponent move discarded")
		return false
	}

	that.placeMark(move.Cell)

	return true
}

// Reset starts a fresh game in the current mode.
func (that *Session) Reset() error {
	if that.mode == entity.ModeUnselected {
		return apperror.ErrModeNotSelected
	}

	that.restart()

	return nil
}

// NewGame returns to mode selection and invalidates every scheduled opponent move.
func (that *Session) NewGame() {
	that.mode = entity.ModeUnselected
	that.generation++

	that.restart()
	that.status = entity.StatusModeSelect
}

func (that *Session) Snapshot() entity.Snapshot {
	snapshot := entity.Snapshot{
		Board:         that.board,
		Mode:          that.mode,
		Status:        that.status,
		CurrentTurn:   that.turn,
		StatusMessage: that.statusMessage(),
		Generation:    that.generation,
	}

	if that.outcome.IsWin() {
		line := that.outcome.Line
		snapshot.Winner = that.outcome.Winner
		snapshot.HighlightedLine = &line
	}

	return snapshot
}

func (that *Session) Mode() entity.Mode {
	return that.mode
}

func (that *Session) Status() entity.Status {
	return that.status
}

func (that *Session) Turn() entity.Mark {
	return that.turn
}

func (that *Session) Board() entity.Board {
	return that.board
}

func (that *Session) Outcome() entity.Outcome {
	return that.outcome
}

func (that *Session) Generation() uint64 {
	return that.generation
}

func (that *Session) OpponentMark() entity.Mark {
	return that.opponentMark
}

func (that *Session) isOpponentTurn() bool {
	return that.mode == entity.ModePlayerVsOpponent &&
		that.status == entity.StatusPlaying &&
		that.turn == that.opponentMark
}

func (that *Session) restart() {
	that.board = entity.Board{}
	that.turn = that.firstMark
	that.outcome = entity.InProgressOutcome()
	that.status = entity.StatusPlaying
	that.pending = 0
}
