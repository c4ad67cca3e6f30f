package types

import "github.com/PranavOak12/dotsandboxes/internal/game"

type ClientMessage struct {
	Type string     `json:"type"` // "move" | "restart"
	Move *game.Line `json:"move,omitempty"`
}

type ServerMessage struct {
	Type        string      `json:"type"` // "assignment" | "state" | "peer_left" | "error"
	PlayerIndex int         `json:"playerIndex"`
	RoomID      string      `json:"roomId,omitempty"`
	Version     int         `json:"version"`
	State       *game.State `json:"state,omitempty"`
	Error       string      `json:"error,omitempty"`
}
