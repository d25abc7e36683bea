package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
)

const (
	shutdownTimeout = 5 * time.Second
	writeTimeout    = 10 * time.Second
)

// Manager is the per-connection game driver.
type Manager interface {
	Run(ctx context.Context) error
	Updates() <-chan entity.Snapshot

	SelectMode(ctx context.Context, mode entity.Mode) (entity.Snapshot, error)
	MakeTurn(ctx context.Context, cell int) (entity.Snapshot, error)
	Reset(ctx context.Context) (entity.Snapshot, error)
	NewGame(ctx context.Context) (entity.Snapshot, error)
	Snapshot(ctx context.Context) (entity.Snapshot, error)
}

// ManagerFactory creates the game manager for a new connection.
type ManagerFactory func(sessionID string) Manager

type handlerFunc func(ctx context.Context, msg *Message, manager Manager, conn *connection) error

type Server struct {
	logger     *slog.Logger
	validate   *validator.Validate
	upgrader   websocket.Upgrader
	newManager ManagerFactory

	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, newManager ManagerFactory) *Server {
	server := &Server{
		logger:   logger.With("component", "websocket"),
		validate: validator.New(validator.WithRequiredStructEnabled()),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},
		newManager: newManager,
		handlers:   make(map[string]handlerFunc),
	}

	server.handlers[actionModeSelect] = server.handleModeSelect
	server.handlers[actionGameTurn] = server.handleGameTurn
	server.handlers[actionGameReset] = server.handleGameReset
	server.handlers[actionGameNew] = server.handleGameNew
	server.handlers[actionGameState] = server.handleGameState

	return server
}

func (that *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.serveWs(ctx, w, r)
	})

	return mux
}

// Start - starts WebSocket server and stops it when ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(ctx),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// serveWs - upgrades the connection and runs one game session for it.
func (that *Server) serveWs(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "serveWs")

	wsConn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	sessionID := uuid.NewString()
	conn := &connection{ws: wsConn}
	manager := that.newManager(sessionID)

	log = log.With("session_id", sessionID)
	log.Info("WebSocket connection established")

	ctx, cancel := context.WithCancel(ctx)
	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return manager.Run(ctx)
	})

	group.Go(func() error {
		return that.pushUpdates(sessionID, manager.Updates(), conn)
	})

	group.Go(func() error {
		<-ctx.Done()
		return conn.close()
	})

	if err = that.handleMessages(ctx, manager, conn); err != nil {
		log.Info("connection closed", "reason", err)
	}

	cancel()

	if err = group.Wait(); err != nil {
		log.Debug("session stopped", "error", err)
	}
}

// handleMessages - processes messages from the client until the connection fails.
func (that *Server) handleMessages(ctx context.Context, manager Manager, conn *connection) error {
	log := that.logger.With("method", "handleMessages")

	for {
		_, data, err := conn.ws.ReadMessage()
		if err != nil {
			return fmt.Errorf("failed to read message: %w", err)
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Debug("failed to unmarshal message", "error", err)
			that.sendError(conn, actionError, "malformed message")
			continue
		}

		if err = that.validate.Struct(&message); err != nil {
			that.sendError(conn, actionError, "action is required")
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Debug("unknown action", "action", message.Action)
			that.sendError(conn, message.Action, "unknown action")
			continue
		}

		if err = handler(ctx, &message, manager, conn); err != nil {
			log.Debug("error processing message", "action", message.Action, "error", err)
			that.sendError(conn, message.Action, err.Error())
		}
	}
}

// pushUpdates - forwards every snapshot to the client until the manager stops.
func (that *Server) pushUpdates(sessionID string, updates <-chan entity.Snapshot, conn *connection) error {
	for snapshot := range updates {
		payload := ResponsePayload{
			Session: sessionID,
			Game:    &snapshot,
		}

		if err := conn.send(actionGameState, payload); err != nil {
			return fmt.Errorf("failed to push state: %w", err)
		}
	}

	return nil
}

func (that *Server) sendError(conn *connection, action, errorMsg string) {
	if err := conn.send(action, ResponsePayload{Error: errorMsg}); err != nil {
		that.logger.Error("failed to send error response", "error", err)
	}
}

// connection serializes writes: gorilla connections allow one concurrent writer.
type connection struct {
	mu sync.Mutex
	ws *websocket.Conn
}

func (that *connection) send(action string, payload ResponsePayload) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	data, err := json.Marshal(Message{Action: action, Payload: raw})
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if err = that.ws.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err = that.ws.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *connection) close() error {
	if err := that.ws.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		return fmt.Errorf("failed to close connection: %w", err)
	}

	return nil
}
