package websocket

import (
	"context"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
)

var errInvalidPayload = errors.New("invalid payload")

func (that *Server) decodePayload(msg *Message, target any) error {
	if len(msg.Payload) == 0 {
		return fmt.Errorf("%w: payload is required", errInvalidPayload)
	}

	if err := json.Unmarshal(msg.Payload, target); err != nil {
		return fmt.Errorf("%w: %w", errInvalidPayload, err)
	}

	if err := that.validate.Struct(target); err != nil {
		return fmt.Errorf("%w: %w", errInvalidPayload, err)
	}

	return nil
}

func (that *Server) handleModeSelect(ctx context.Context, msg *Message, manager Manager, _ *connection) error {
	var payload ModePayload
	if err := that.decodePayload(msg, &payload); err != nil {
		return err
	}

	mode, err := entity.ParseMode(payload.Mode)
	if err != nil {
		return fmt.Errorf("failed to parse mode: %w", err)
	}

	if _, err = manager.SelectMode(ctx, mode); err != nil {
		return fmt.Errorf("failed to select mode: %w", err)
	}

	return nil
}

func (that *Server) handleGameTurn(ctx context.Context, msg *Message, manager Manager, _ *connection) error {
	var payload TurnPayload
	if err := that.decodePayload(msg, &payload); err != nil {
		return err
	}

	if _, err := manager.MakeTurn(ctx, *payload.Cell); err != nil {
		return fmt.Errorf("failed to make turn: %w", err)
	}

	return nil
}

func (that *Server) handleGameReset(ctx context.Context, _ *Message, manager Manager, _ *connection) error {
	if _, err := manager.Reset(ctx); err != nil {
		return fmt.Errorf("failed to reset game: %w", err)
	}

	return nil
}

func (that *Server) handleGameNew(ctx context.Context, _ *Message, manager Manager, _ *connection) error {
	if _, err := manager.NewGame(ctx); err != nil {
		return fmt.Errorf("failed to start new game: %w", err)
	}

	return nil
}

// handleGameState - answers with the current snapshot even when nothing changed.
func (that *Server) handleGameState(ctx context.Context, msg *Message, manager Manager, conn *connection) error {
	snapshot, err := manager.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("failed to get state: %w", err)
	}

	if err = conn.send(msg.Action, ResponsePayload{Game: &snapshot}); err != nil {
		return fmt.Errorf("failed to send state: %w", err)
	}

	return nil
}
