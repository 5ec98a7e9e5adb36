package core

import (
	"encoding/json"

	"github.com/dkeye/Signal/internal/domain"
)

// Event names on the wire, inbound and outbound.
const (
	EventJoinRoom           = "join-room"
	EventLeaveRoom          = "leave-room"
	EventOffer              = "offer"
	EventAnswer             = "answer"
	EventICECandidate       = "ice-candidate"
	EventCameraState        = "camera-state"
	EventMicState           = "mic-state"
	EventRequestCameraState = "request-camera-state"
	EventChatMessage        = "chat-message"
	EventChatMessageSent    = "chat-message-sent"
	EventTyping             = "typing"
	EventFileShare          = "file-share"
	EventPing               = "ping"
	EventPong               = "pong"

	EventUserJoined       = "user-joined"
	EventRoomUsers        = "room-users"
	EventUserDisconnected = "user-disconnected"
)

// Reasons carried by user-disconnected.
const (
	ReasonLeft         = "left"
	ReasonDisconnected = "disconnected"
)

// Envelope is the frame shape in both directions.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Encode wraps data into an envelope frame.
func Encode(eventType string, data any) (Frame, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Type: eventType, Data: raw})
}

type UserJoined struct {
	UserID       domain.UserID `json:"userId"`
	ConnectionID domain.ConnID `json:"connectionId"`
	RoomID       domain.RoomID `json:"roomId"`
}

type RoomUsers struct {
	RoomID domain.RoomID   `json:"roomId"`
	Users  []PresenceEntry `json:"users"`
	Count  int             `json:"count"`
}

type UserDisconnected struct {
	UserID       domain.UserID `json:"userId"`
	ConnectionID domain.ConnID `json:"connectionId"`
	RoomID       domain.RoomID `json:"roomId"`
	Reason       string        `json:"reason"`
}

// MediaState is broadcast for camera-state and mic-state.
type MediaState struct {
	Enabled bool          `json:"enabled"`
	From    domain.ConnID `json:"from"`
	UserID  domain.UserID `json:"userId"`
}
