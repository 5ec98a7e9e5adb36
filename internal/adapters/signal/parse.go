package signal

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dkeye/Signal/internal/app/signaling"
	"github.com/dkeye/Signal/internal/domain"
)

var errMissingRoom = errors.New("missing room id")

// roomRef accepts both spellings of the room field; room wins. Numbers and
// booleans are taken by their JSON text, so {"roomId": 42} names room "42".
type roomRef struct {
	Room   json.RawMessage `json:"room"`
	RoomID json.RawMessage `json:"roomId"`
}

func (r roomRef) id() (domain.RoomID, error) {
	if id := scalar(r.Room); id != "" {
		return domain.RoomID(id), nil
	}
	if id := scalar(r.RoomID); id != "" {
		return domain.RoomID(id), nil
	}
	return "", errMissingRoom
}

// scalar renders a JSON string, number or boolean; anything else is empty.
func scalar(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	case '{', '[', 'n':
		return ""
	}
	return string(raw)
}

func decode(data json.RawMessage, v any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return errMissingRoom
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}

type joinRequest struct {
	Room   domain.RoomID
	UserID string
}

// parseJoin accepts a bare room string or {room|roomId, userId}.
func parseJoin(data json.RawMessage) (joinRequest, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var room string
		if err := json.Unmarshal(trimmed, &room); err != nil {
			return joinRequest{}, fmt.Errorf("decode room: %w", err)
		}
		if room == "" {
			return joinRequest{}, errMissingRoom
		}
		return joinRequest{Room: domain.RoomID(room)}, nil
	}
	var p struct {
		roomRef
		UserID string `json:"userId"`
	}
	if err := decode(data, &p); err != nil {
		return joinRequest{}, err
	}
	room, err := p.id()
	if err != nil {
		return joinRequest{}, err
	}
	return joinRequest{Room: room, UserID: p.UserID}, nil
}

func parseRoom(data json.RawMessage) (domain.RoomID, error) {
	var p roomRef
	if err := decode(data, &p); err != nil {
		return "", err
	}
	return p.id()
}

// parseFields keeps the whole object for verbatim relay.
func parseFields(data json.RawMessage) (domain.RoomID, signaling.Fields, error) {
	room, err := parseRoom(data)
	if err != nil {
		return "", nil, err
	}
	var f signaling.Fields
	if err := json.Unmarshal(data, &f); err != nil {
		return "", nil, fmt.Errorf("decode fields: %w", err)
	}
	return room, f, nil
}

type mediaRequest struct {
	Room    domain.RoomID
	Enabled bool
	UserID  string
}

func parseMedia(data json.RawMessage) (mediaRequest, error) {
	var p struct {
		roomRef
		Enabled bool   `json:"enabled"`
		UserID  string `json:"userId"`
	}
	if err := decode(data, &p); err != nil {
		return mediaRequest{}, err
	}
	room, err := p.id()
	if err != nil {
		return mediaRequest{}, err
	}
	return mediaRequest{Room: room, Enabled: p.Enabled, UserID: p.UserID}, nil
}

func parseTyping(data json.RawMessage) (signaling.TypingRequest, error) {
	var p struct {
		roomRef
		UserID   string `json:"userId"`
		IsTyping *bool  `json:"isTyping"`
	}
	if err := decode(data, &p); err != nil {
		return signaling.TypingRequest{}, err
	}
	room, err := p.id()
	if err != nil {
		return signaling.TypingRequest{}, err
	}
	return signaling.TypingRequest{Room: room, UserID: p.UserID, IsTyping: p.IsTyping}, nil
}

func parseFileShare(data json.RawMessage) (signaling.FileShareRequest, error) {
	var p struct {
		roomRef
		FileName string          `json:"fileName"`
		FileSize json.RawMessage `json:"fileSize"`
		FileType string          `json:"fileType"`
		FileURL  string          `json:"fileUrl"`
		Sender   string          `json:"sender"`
	}
	if err := decode(data, &p); err != nil {
		return signaling.FileShareRequest{}, err
	}
	room, err := p.id()
	if err != nil {
		return signaling.FileShareRequest{}, err
	}
	return signaling.FileShareRequest{
		Room:     room,
		FileName: p.FileName,
		FileSize: p.FileSize,
		FileType: p.FileType,
		FileURL:  p.FileURL,
		Sender:   p.Sender,
	}, nil
}
