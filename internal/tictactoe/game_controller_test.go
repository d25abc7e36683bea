package tictactoe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-core/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
)

func TestSession_validateMove(t *testing.T) {
	t.Run("No mode yet", func(t *testing.T) {
		session, _, _ := newTestSession(t)

		require.ErrorIs(t, session.validateMove(0), apperror.ErrGameIsNotStarted)
	})

	t.Run("Cell out of range", func(t *testing.T) {
		session, _, _ := newTestSession(t)
		require.NoError(t, session.SelectMode(entity.ModePlayerVsPlayer))

		require.ErrorIs(t, session.validateMove(-1), apperror.ErrInvalidCell)
		require.ErrorIs(t, session.validateMove(9), apperror.ErrInvalidCell)
	})

	t.Run("Error on cell already occupied", func(t *testing.T) {
		// Given: player X took cell 0
		session, _, _ := newTestSession(t)
		require.NoError(t, session.SelectMode(entity.ModePlayerVsPlayer))
		playMoves(t, session, 0)

		// When: cell 0 is validated again
		err := session.validateMove(0)

		// Then: it is reported as occupied
		require.ErrorIs(t, err, apperror.ErrCellOccupied)
	})

	t.Run("Finished game", func(t *testing.T) {
		session, _, _ := newTestSession(t)
		require.NoError(t, session.SelectMode(entity.ModePlayerVsPlayer))
		playMoves(t, session, 0, 3, 1, 4, 2)

		require.ErrorIs(t, session.validateMove(8), apperror.ErrGameFinished)
	})
}

func TestSession_placeMark(t *testing.T) {
	// Given: a fresh pvp game
	session, _, _ := newTestSession(t)
	require.NoError(t, session.SelectMode(entity.ModePlayerVsPlayer))

	// When: X is placed in the corner
	session.placeMark(8)

	// Then: the board reflects the turn and the turn passes to O
	assert.Equal(t, entity.PlayerX, session.board[8])
	assert.Equal(t, entity.PlayerO, session.turn)
	assert.Equal(t, entity.StatusPlaying, session.status)
}

func TestSession_updateGameStatus(t *testing.T) {
	tests := []struct {
		name   string
		board  entity.Board
		status entity.Status
	}{
		{
			name:   "In progress",
			board:  entity.Board{entity.PlayerX},
			status: entity.StatusPlaying,
		},
		{
			name: "Won",
			board: entity.Board{
				entity.PlayerO, entity.PlayerX, entity.EmptyCell,
				entity.PlayerO, entity.PlayerX, entity.EmptyCell,
				entity.PlayerO, entity.EmptyCell, entity.PlayerX,
			},
			status: entity.StatusWon,
		},
		{
			name: "Tied",
			board: entity.Board{
				entity.PlayerX, entity.PlayerO, entity.PlayerX,
				entity.PlayerO, entity.PlayerX, entity.PlayerO,
				entity.PlayerO, entity.PlayerX, entity.PlayerO,
			},
			status: entity.StatusTied,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, _, _ := newTestSession(t)
			session.board = tt.board

			session.updateGameStatus()

			assert.Equal(t, tt.status, session.status)
		})
	}
}
