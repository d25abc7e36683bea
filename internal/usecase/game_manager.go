package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
	"github.com/rocketscienceinc/tictactoe-core/internal/tictactoe"
)

var ErrManagerStopped = errors.New("game manager stopped")

const (
	updatesBuffer    = 16
	storageTimeout   = 2 * time.Second
	commandsCapacity = 1
)

type sessionRepo interface {
	CreateOrUpdate(ctx context.Context, id string, snapshot entity.Snapshot) error
	DeleteByID(ctx context.Context, id string) error
}

type resultRepo interface {
	Save(ctx context.Context, result *entity.Result) error
}

// taskScheduler delays opponent moves and hands them back to the manager loop.
type taskScheduler interface {
	tictactoe.Scheduler
	Tasks() <-chan func()
	Stop()
}

type command struct {
	apply func(session *tictactoe.Session) error
	reply chan reply
}

type reply struct {
	snapshot entity.Snapshot
	err      error
}

// GameManager drives one session for one connection. Commands and delayed opponent moves
// are executed by Run, so the session only ever has one writer.
type GameManager struct {
	logger *slog.Logger
	id     string

	session   *tictactoe.Session
	scheduler taskScheduler

	sessionRepo sessionRepo
	resultRepo  resultRepo

	commands chan command
	updates  chan entity.Snapshot
	done     chan struct{}

	published *entity.Snapshot
	recorded  bool
	round     uint64
	now       func() time.Time
}

func NewGameManager(
	logger *slog.Logger,
	id string,
	strategy tictactoe.Strategy,
	scheduler taskScheduler,
	sessionRepo sessionRepo,
	resultRepo resultRepo,
	opts ...tictactoe.Option,
) *GameManager {
	logger = logger.With("component", "game_manager", "session_id", id)

	opts = append([]tictactoe.Option{tictactoe.WithLogger(logger)}, opts...)

	return &GameManager{
		logger:      logger,
		id:          id,
		session:     tictactoe.NewSession(strategy, scheduler, opts...),
		scheduler:   scheduler,
		sessionRepo: sessionRepo,
		resultRepo:  resultRepo,
		commands:    make(chan command, commandsCapacity),
		updates:     make(chan entity.Snapshot, updatesBuffer),
		done:        make(chan struct{}),
		now:         time.Now,
	}
}

// Updates delivers every new snapshot. It is closed when Run returns.
func (that *GameManager) Updates() <-chan entity.Snapshot {
	return that.updates
}

// Run owns the session until ctx is canceled. It must be called exactly once.
func (that *GameManager) Run(ctx context.Context) error {
	log := that.logger.With("method", "Run")

	defer close(that.updates)
	defer close(that.done)
	defer that.scheduler.Stop()
	defer that.cleanup(ctx)

	that.afterChange(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Info("session closed")
			return nil
		case cmd := <-that.commands:
			err := cmd.apply(that.session)
			if err == nil {
				that.afterChange(ctx)
			}

			cmd.reply <- reply{snapshot: that.session.Snapshot(), err: err}
		case task := <-that.scheduler.Tasks():
			task()
			that.afterChange(ctx)
		}
	}
}

func (that *GameManager) SelectMode(ctx context.Context, mode entity.Mode) (entity.Snapshot, error) {
	return that.execute(ctx, func(session *tictactoe.Session) error {
		return session.SelectMode(mode)
	})
}

func (that *GameManager) MakeTurn(ctx context.Context, cell int) (entity.Snapshot, error) {
	return that.execute(ctx, func(session *tictactoe.Session) error {
		return session.ApplyMove(cell)
	})
}

func (that *GameManager) Reset(ctx context.Context) (entity.Snapshot, error) {
	return that.execute(ctx, func(session *tictactoe.Session) error {
		return session.Reset()
	})
}

func (that *GameManager) NewGame(ctx context.Context) (entity.Snapshot, error) {
	return that.execute(ctx, func(session *tictactoe.Session) error {
		session.NewGame()
		return nil
	})
}

func (that *GameManager) Snapshot(ctx context.Context) (entity.Snapshot, error) {
	return that.execute(ctx, func(*tictactoe.Session) error {
		return nil
	})
}

func (that *GameManager) execute(ctx context.Context, apply func(*tictactoe.Session) error) (entity.Snapshot, error) {
	cmd := command{
		apply: apply,
		reply: make(chan reply, 1),
	}

	select {
	case that.commands <- cmd:
	case <-that.done:
		return entity.Snapshot{}, ErrManagerStopped
	case <-ctx.Done():
		return entity.Snapshot{}, fmt.Errorf("failed to send command: %w", ctx.Err())
	}

	select {
	case res := <-cmd.reply:
		return res.snapshot, res.err
	case <-that.done:
		return entity.Snapshot{}, ErrManagerStopped
	case <-ctx.Done():
		return entity.Snapshot{}, fmt.Errorf("failed to wait for reply: %w", ctx.Err())
	}
}

// afterChange schedules the opponent when it is due, then persists and publishes the
// snapshot if it differs from the last one published.
func (that *GameManager) afterChange(ctx context.Context) {
	log := that.logger.With("method", "afterChange")

	if that.session.NeedsOpponentMove() {
		if _, err := that.session.RequestOpponentMove(); err != nil {
			log.Error("failed to request opponent move", "error", err)
		}
	}

	snapshot := that.session.Snapshot()
	if that.published != nil && reflect.DeepEqual(*that.published, snapshot) {
		return
	}

	that.published = &snapshot

	that.persist(ctx, snapshot)
	that.record(ctx, snapshot)

	select {
	case that.updates <- snapshot:
	case <-ctx.Done():
	}
}

func (that *GameManager) persist(ctx context.Context, snapshot entity.Snapshot) {
	ctx, cancel := context.WithTimeout(ctx, storageTimeout)
	defer cancel()

	if err := that.sessionRepo.CreateOrUpdate(ctx, that.id, snapshot); err != nil {
		that.logger.Error("failed to save session", "method", "persist", "error", err)
	}
}

// record stores each finished game once. The flag rearms as soon as a new game starts.
func (that *GameManager) record(ctx context.Context, snapshot entity.Snapshot) {
	if !snapshot.Status.IsFinished() {
		that.recorded = false
		return
	}

	if that.recorded {
		return
	}

	that.recorded = true
	that.round++

	ctx, cancel := context.WithTimeout(ctx, storageTimeout)
	defer cancel()

	result := entity.NewResult(that.id, that.round, snapshot, that.now().UTC())
	if err := that.resultRepo.Save(ctx, result); err != nil {
		that.logger.Error("failed to save result", "method", "record", "error", err)
		return
	}

	that.logger.Info("game finished", "winner", snapshot.Winner, "round", that.round)
}

func (that *GameManager) cleanup(ctx context.Context) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), storageTimeout)
	defer cancel()

	if err := that.sessionRepo.DeleteByID(ctx, that.id); err != nil {
		that.logger.Error("failed to delete session", "method", "cleanup", "error", err)
	}
}
