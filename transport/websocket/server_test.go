package websocket

import (
	"context"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
	"github.com/rocketscienceinc/tictactoe-core/internal/service"
	"github.com/rocketscienceinc/tictactoe-core/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-core/internal/usecase"
)

const readTimeout = 2 * time.Second

type memorySessions struct{}

func (memorySessions) CreateOrUpdate(context.Context, string, entity.Snapshot) error { return nil }

func (memorySessions) DeleteByID(context.Context, string) error { return nil }

type memoryResults struct{}

func (memoryResults) Save(context.Context, *entity.Result) error { return nil }

func newTestClient(t *testing.T) *websocket.Conn {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	logger := slog.New(slog.DiscardHandler)
	server := New(logger, func(sessionID string) Manager {
		return usecase.NewGameManager(
			logger,
			sessionID,
			service.NewBotService(),
			tictactoe.NewTimerScheduler(8),
			memorySessions{},
			memoryResults{},
			tictactoe.WithOpponentDelay(time.Millisecond),
		)
	})

	httpServer := httptest.NewServer(server.Handler(ctx))
	t.Cleanup(httpServer.Close)

	url := "ws" + strings.TrimPrefix(httpServer.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return conn
}

func send(t *testing.T, conn *websocket.Conn, message string) {
	t.Helper()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(message)))
}

func receive(t *testing.T, conn *websocket.Conn) (string, ResponsePayload) {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(readTimeout)))

	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var message Message
	require.NoError(t, json.Unmarshal(data, &message))

	var payload ResponsePayload
	require.NoError(t, json.Unmarshal(message.Payload, &payload))

	return message.Action, payload
}

func receiveState(t *testing.T, conn *websocket.Conn) entity.Snapshot {
	t.Helper()

	action, payload := receive(t, conn)
	require.Equal(t, actionGameState, action)
	require.NotNil(t, payload.Game)

	return *payload.Game
}

func TestServer_PlayerVsPlayer(t *testing.T) {
	// Given: a fresh connection
	conn := newTestClient(t)

	// Then: the mode selection screen is pushed right away
	_, payload := receive(t, conn)
	require.NotNil(t, payload.Game)
	assert.NotEmpty(t, payload.Session)
	assert.Equal(t, entity.StatusModeSelect, payload.Game.Status)

	// When: the player picks pvp and plays the center
	send(t, conn, `{"action":"mode:select","payload":{"mode":"pvp"}}`)
	state := receiveState(t, conn)
	assert.Equal(t, "Player X's turn", state.StatusMessage)

	send(t, conn, `{"action":"game:turn","payload":{"cell":4}}`)
	state = receiveState(t, conn)

	// Then: the board shows the mark and O is next
	assert.Equal(t, entity.PlayerX, state.Board[4])
	assert.Equal(t, entity.PlayerO, state.CurrentTurn)

	t.Run("Occupied cell is reported", func(t *testing.T) {
		send(t, conn, `{"action":"game:turn","payload":{"cell":4}}`)

		action, payload := receive(t, conn)
		assert.Equal(t, actionGameTurn, action)
		assert.Contains(t, payload.Error, "cell is already occupied")
	})

	t.Run("Out of range cell fails validation", func(t *testing.T) {
		send(t, conn, `{"action":"game:turn","payload":{"cell":9}}`)

		action, payload := receive(t, conn)
		assert.Equal(t, actionGameTurn, action)
		assert.Contains(t, payload.Error, "invalid payload")
	})

	t.Run("Unknown action", func(t *testing.T) {
		send(t, conn, `{"action":"game:leave"}`)

		action, payload := receive(t, conn)
		assert.Equal(t, "game:leave", action)
		assert.Equal(t, "unknown action", payload.Error)
	})

	t.Run("Malformed message", func(t *testing.T) {
		send(t, conn, `not json`)

		action, payload := receive(t, conn)
		assert.Equal(t, actionError, action)
		assert.Equal(t, "malformed message", payload.Error)
	})

	t.Run("State on request", func(t *testing.T) {
		send(t, conn, `{"action":"game:state"}`)

		state := receiveState(t, conn)
		assert.Equal(t, entity.PlayerX, state.Board[4])
	})

	t.Run("New game returns to mode selection", func(t *testing.T) {
		send(t, conn, `{"action":"game:new"}`)

		state := receiveState(t, conn)
		assert.Equal(t, entity.StatusModeSelect, state.Status)
		assert.Equal(t, uint64(1), state.Generation)
	})
}

func TestServer_PlayerVsOpponent(t *testing.T) {
	conn := newTestClient(t)
	receiveState(t, conn)

	// Given: a game against the computer
	send(t, conn, `{"action":"mode:select","payload":{"mode":"pvo"}}`)
	state := receiveState(t, conn)
	assert.Equal(t, "Your turn (X)", state.StatusMessage)

	// When: the human plays the center
	send(t, conn, `{"action":"game:turn","payload":{"cell":4}}`)

	// Then: the computer thinks first, then answers with a corner
	state = receiveState(t, conn)
	assert.Equal(t, "Computer is thinking...", state.StatusMessage)

	state = receiveState(t, conn)
	assert.Equal(t, entity.PlayerX, state.CurrentTurn)
	var corners int
	for _, cell := range []int{0, 2, 6, 8} {
		if state.Board[cell] == entity.PlayerO {
			corners++
		}
	}
	assert.Equal(t, 1, corners)

	// When: the game is reset
	send(t, conn, `{"action":"game:reset"}`)

	// Then: the board is cleared in the same mode
	state = receiveState(t, conn)
	assert.Equal(t, entity.Board{}, state.Board)
	assert.Equal(t, entity.ModePlayerVsOpponent, state.Mode)
}
