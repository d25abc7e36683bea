package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
)

type ResultRepository interface {
	Init(ctx context.Context) error
	Save(ctx context.Context, result *entity.Result) error
	Stats(ctx context.Context) (entity.Stats, error)
}

type resultRepository struct {
	conn *sqlx.DB
}

func NewResultRepository(conn *sqlx.DB) ResultRepository {
	return &resultRepository{
		conn: conn,
	}
}

func (that *resultRepository) Init(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		round INTEGER NOT NULL,
		mode TEXT NOT NULL,
		winner TEXT NOT NULL DEFAULT '',
		board TEXT NOT NULL,
		finished_at DATETIME NOT NULL,
		UNIQUE (session_id, round)
	)`

	if _, err := that.conn.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("can't create results table: %w", err)
	}

	return nil
}

// Save records a finished game. A second save for the same session round is ignored.
func (that *resultRepository) Save(ctx context.Context, result *entity.Result) error {
	query := `
	INSERT OR IGNORE INTO results (session_id, round, mode, winner, board, finished_at)
	VALUES (?, ?, ?, ?, ?, ?)`

	_, err := that.conn.ExecContext(ctx, query,
		result.SessionID,
		int64(result.Round), //nolint: gosec // rounds never approach MaxInt64
		string(result.Mode),
		string(result.Winner),
		result.Board,
		result.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("can't save result: %w", err)
	}

	return nil
}

func (that *resultRepository) Stats(ctx context.Context) (entity.Stats, error) {
	query := `
	SELECT
		COALESCE(SUM(CASE WHEN winner = 'X' THEN 1 ELSE 0 END), 0) AS x_wins,
		COALESCE(SUM(CASE WHEN winner = 'O' THEN 1 ELSE 0 END), 0) AS o_wins,
		COALESCE(SUM(CASE WHEN winner = '' THEN 1 ELSE 0 END), 0) AS ties,
		COUNT(*) AS total
	FROM results`

	var stats entity.Stats
	if err := that.conn.GetContext(ctx, &stats, query); err != nil {
		return entity.Stats{}, fmt.Errorf("can't get stats: %w", err)
	}

	return stats, nil
}
