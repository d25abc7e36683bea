package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
	"github.com/rocketscienceinc/tictactoe-core/testing/suite"
)

func wonSnapshot() entity.Snapshot {
	line := entity.Line{0, 1, 2}

	return entity.Snapshot{
		Board: entity.Board{
			entity.PlayerX, entity.PlayerX, entity.PlayerX,
			entity.PlayerO, entity.PlayerO, entity.EmptyCell,
			entity.EmptyCell, entity.EmptyCell, entity.EmptyCell,
		},
		Mode:            entity.ModePlayerVsPlayer,
		Status:          entity.StatusWon,
		CurrentTurn:     entity.PlayerO,
		Winner:          entity.PlayerX,
		HighlightedLine: &line,
		StatusMessage:   "Player X wins!",
		Generation:      3,
	}
}

func TestSessionRepository_CreateOrUpdate(t *testing.T) {
	ctx, st := suite.New(t)

	sessionRepo := NewSessionRepository(st.Storage)

	// Given: a session snapshot
	snapshot := wonSnapshot()

	// When: CreateOrUpdate is called twice
	require.NoError(t, sessionRepo.CreateOrUpdate(ctx, "123", entity.Snapshot{Status: entity.StatusModeSelect}))
	err := sessionRepo.CreateOrUpdate(ctx, "123", snapshot)

	// Then: the latest snapshot is stored
	require.NoError(t, err)

	stored, err := sessionRepo.GetByID(ctx, "123")
	require.NoError(t, err)
	assert.Equal(t, snapshot, stored)
}

func TestSessionRepository_GetByID(t *testing.T) {
	t.Run("GetByID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		sessionRepo := NewSessionRepository(st.Storage)

		// Given: a stored snapshot
		snapshot := wonSnapshot()
		require.NoError(t, sessionRepo.CreateOrUpdate(ctx, "abc", snapshot))

		// When: GetByID is called with existing ID
		retrieved, err := sessionRepo.GetByID(ctx, "abc")

		// Then: the snapshot round-trips with its highlighted line
		require.NoError(t, err)
		require.NotNil(t, retrieved.HighlightedLine)
		assert.Equal(t, entity.Line{0, 1, 2}, *retrieved.HighlightedLine)
		assert.Equal(t, entity.PlayerX, retrieved.Winner)
		assert.Equal(t, uint64(3), retrieved.Generation)
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		sessionRepo := NewSessionRepository(st.Storage)

		// When: GetByID is called with non-existent ID
		retrieved, err := sessionRepo.GetByID(ctx, "9999999")

		// Then: an ErrSessionNotFound error should be returned
		require.ErrorIs(t, err, ErrSessionNotFound)
		assert.Empty(t, retrieved.Status)
	})
}

func TestSessionRepository_DeleteByID(t *testing.T) {
	t.Run("DeleteByID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		sessionRepo := NewSessionRepository(st.Storage)

		// Given: a stored snapshot
		require.NoError(t, sessionRepo.CreateOrUpdate(ctx, "123", wonSnapshot()))

		// When: DeleteByID is called with existing ID
		err := sessionRepo.DeleteByID(ctx, "123")

		// Then: the session is gone
		require.NoError(t, err)

		_, err = sessionRepo.GetByID(ctx, "123")
		require.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("DeleteByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		sessionRepo := NewSessionRepository(st.Storage)

		// When: DeleteByID is called with non-existent ID
		err := sessionRepo.DeleteByID(ctx, "9999999")

		// Then: an ErrSessionNotFound error should be returned
		require.ErrorIs(t, err, ErrSessionNotFound)
	})
}
