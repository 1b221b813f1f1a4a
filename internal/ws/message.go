package ws

import "encoding/json"

// Inbound is a client frame. Timestamp, position and user_id are opaque
// passthrough values; the server never interprets them.
type Inbound struct {
	Type      string          `json:"type"`
	Code      string          `json:"code"`
	Timestamp json.RawMessage `json:"timestamp"`
	Position  json.RawMessage `json:"position"`
	UserID    json.RawMessage `json:"user_id"`
}

const (
	TypeCodeUpdate     = "code_update"
	TypeCursorPosition = "cursor_position"
)

type InitMessage struct {
	Type       string `json:"type"`
	Code       string `json:"code"`
	Language   string `json:"language"`
	UsersCount int    `json:"users_count"`
}

type UserJoinedMessage struct {
	Type       string `json:"type"`
	UsersCount int    `json:"users_count"`
}

type UserLeftMessage struct {
	Type       string `json:"type"`
	UsersCount int    `json:"users_count"`
}

type CodeUpdateMessage struct {
	Type      string          `json:"type"`
	Code      string          `json:"code"`
	Timestamp json.RawMessage `json:"timestamp"`
}

type CursorPositionMessage struct {
	Type     string          `json:"type"`
	Position json.RawMessage `json:"position"`
	UserID   json.RawMessage `json:"user_id"`
}

type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
