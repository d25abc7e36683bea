package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/rocketscienceinc/tictactoe-core/internal/config"
	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
	"github.com/rocketscienceinc/tictactoe-core/internal/repository"
	"github.com/rocketscienceinc/tictactoe-core/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-core/internal/service"
	"github.com/rocketscienceinc/tictactoe-core/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-core/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-core/transport/rest"
	"github.com/rocketscienceinc/tictactoe-core/transport/websocket"
)

const scheduledTasksBuffer = 4

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sessionOpts, err := sessionOptions(conf.Game)
	if err != nil {
		return fmt.Errorf("invalid game config: %w", err)
	}

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	sqliteStorage, err := storage.NewSQLiteStorage(ctx, conf.SQLiteStoragePath)
	if err != nil {
		return fmt.Errorf("could not open sqlite storage: %w", err)
	}

	defer func() {
		if err = sqliteStorage.Close(); err != nil {
			log.Error("could not close sqlite storage", "error", err)
		}
	}()

	sessionRepo := repository.NewSessionRepository(redisStorage.Connection)
	resultRepo := repository.NewResultRepository(sqliteStorage.Connection)
	if err = resultRepo.Init(ctx); err != nil {
		return fmt.Errorf("could not init results table: %w", err)
	}

	bot := service.NewBotService()

	newManager := func(sessionID string) websocket.Manager {
		return usecase.NewGameManager(
			logger,
			sessionID,
			bot,
			tictactoe.NewTimerScheduler(scheduledTasksBuffer),
			sessionRepo,
			resultRepo,
			sessionOpts...,
		)
	}

	wsServer := websocket.New(logger, newManager)
	restServer := rest.New(logger, sessionRepo, resultRepo)

	group, ctx := errgroup.WithContext(ctx)

	// run HTTP server
	group.Go(func() error {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := restServer.Start(ctx, conf.HTTPPort); httpErr != nil {
			return fmt.Errorf("HTTP server error: %w", httpErr)
		}

		return nil
	})

	// run Websocket server
	group.Go(func() error {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			return fmt.Errorf("WebSocket server error: %w", wsErr)
		}

		return nil
	})

	if err = group.Wait(); err != nil {
		return fmt.Errorf("application stopped: %w", err)
	}

	log.Info("Application context canceled, shutting down")

	return nil
}

// sessionOptions - maps the game config onto session options.
func sessionOptions(conf config.Game) ([]tictactoe.Option, error) {
	firstMark, err := parseMark(conf.FirstMark)
	if err != nil {
		return nil, fmt.Errorf("first mark: %w", err)
	}

	opponentMark, err := parseMark(conf.OpponentMark)
	if err != nil {
		return nil, fmt.Errorf("opponent mark: %w", err)
	}

	return []tictactoe.Option{
		tictactoe.WithFirstMark(firstMark),
		tictactoe.WithOpponentMark(opponentMark),
		tictactoe.WithOpponentDelay(conf.OpponentDelay),
	}, nil
}

var errInvalidMark = errors.New("mark must be X or O")

func parseMark(value string) (entity.Mark, error) {
	mark := entity.Mark(value)
	if !mark.IsPlayer() {
		return entity.EmptyCell, fmt.Errorf("%w: %q", errInvalidMark, value)
	}

	return mark, nil
}
