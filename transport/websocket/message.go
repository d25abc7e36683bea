package websocket

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	actionModeSelect = "mode:select"
	actionGameTurn   = "game:turn"
	actionGameReset  = "game:reset"
	actionGameNew    = "game:new"
	actionGameState  = "game:state"
	actionError      = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string              `json:"action" validate:"required"`
	Payload jsoniter.RawMessage `json:"payload,omitempty"`
}

type ModePayload struct {
	Mode string `json:"mode" validate:"required,oneof=pvp pvo"`
}

type TurnPayload struct {
	Cell *int `json:"cell" validate:"required,min=0,max=8"`
}

type ResponsePayload struct {
	Session string           `json:"session,omitempty"`
	Game    *entity.Snapshot `json:"game,omitempty"`
	Error   string           `json:"error,omitempty"`
}
