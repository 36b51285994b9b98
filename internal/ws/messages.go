package ws

import "soccer-impostor/internal/game"

// inbound is the client -> server envelope. Fields beyond Type are read per
// command; unknown fields are ignored.
type inbound struct {
	Type     string              `json:"type"`
	Code     string              `json:"code,omitempty"`
	Name     string              `json:"name,omitempty"`
	Token    string              `json:"token,omitempty"`
	Capacity int                 `json:"capacity,omitempty"`
	Text     string              `json:"text,omitempty"`
	Amount   int                 `json:"amount,omitempty"`
	TargetID string              `json:"targetId,omitempty"`
	Settings *game.SettingsPatch `json:"settings,omitempty"`
}

// outbound is the server -> client envelope.
type outbound struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}
