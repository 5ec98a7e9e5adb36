// Package signaling relays peer handshake and chat traffic between members
// of a room. It keeps no state of its own.
package signaling

import (
	"encoding/json"
	"time"

	"github.com/dkeye/Signal/internal/app"
	"github.com/dkeye/Signal/internal/core"
	"github.com/dkeye/Signal/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// TimeFormat is RFC 3339 with milliseconds, always rendered in UTC.
const TimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Fields is a payload object kept as raw JSON so it can be forwarded verbatim.
type Fields map[string]json.RawMessage

type TypingRequest struct {
	Room     domain.RoomID
	UserID   string
	IsTyping *bool
}

type FileShareRequest struct {
	Room     domain.RoomID
	FileName string
	FileSize json.RawMessage
	FileType string
	FileURL  string
	Sender   string
}

type Router struct {
	Out   *app.Outbox
	Now   func() time.Time
	NewID func() string
}

func New(out *app.Outbox) *Router {
	return &Router{Out: out, Now: time.Now, NewID: uuid.NewString}
}

func (r *Router) Offer(conn domain.ConnID, room domain.RoomID, payload Fields) {
	r.relay(core.EventOffer, conn, room, payload)
}

func (r *Router) Answer(conn domain.ConnID, room domain.RoomID, payload Fields) {
	r.relay(core.EventAnswer, conn, room, payload)
}

func (r *Router) ICECandidate(conn domain.ConnID, room domain.RoomID, payload Fields) {
	r.relay(core.EventICECandidate, conn, room, payload)
}

func (r *Router) relay(event string, conn domain.ConnID, room domain.RoomID, payload Fields) {
	if room == "" {
		log.Debug().Str("module", "signaling").Str("conn", string(conn)).Str("type", event).Msg("relay without room dropped")
		return
	}
	body := payload.clone()
	body.set("from", conn)
	log.Debug().Str("module", "signaling").Str("conn", string(conn)).Str("room", string(room)).Str("type", event).Msg("relaying")
	r.broadcast(event, conn, room, body)
}

// Chat relays a chat message to the room and confirms it to the sender.
// The server-assigned id and timestamp replace any client values.
func (r *Router) Chat(conn domain.ConnID, room domain.RoomID, payload Fields) {
	if room == "" {
		log.Debug().Str("module", "signaling").Str("conn", string(conn)).Msg("chat without room dropped")
		return
	}
	msg := payload.clone()
	if s, _ := msg.str("sender"); s == "" {
		msg.set("sender", conn)
	}
	msg.set("id", r.NewID())
	msg.set("from", conn)
	msg.set("timestamp", r.stamp())

	r.broadcast(core.EventChatMessage, conn, room, msg)

	sent := msg.clone()
	sent.set("status", "sent")
	r.Out.Settle(room, r.Out.ToConn(conn, core.EventChatMessageSent, sent))
}

func (r *Router) Typing(conn domain.ConnID, req TypingRequest) {
	if req.Room == "" {
		return
	}
	typing := req.IsTyping == nil || *req.IsTyping
	r.broadcast(core.EventTyping, conn, req.Room, struct {
		UserID   domain.UserID `json:"userId"`
		IsTyping bool          `json:"isTyping"`
		From     domain.ConnID `json:"from"`
	}{domain.UserOrDefault(req.UserID, conn), typing, conn})
}

func (r *Router) FileShare(conn domain.ConnID, req FileShareRequest) {
	if req.Room == "" {
		return
	}
	sender := req.Sender
	if sender == "" {
		sender = string(conn)
	}
	size := req.FileSize
	if len(size) == 0 {
		size = json.RawMessage("null")
	}
	log.Debug().Str("module", "signaling").Str("conn", string(conn)).Str("room", string(req.Room)).Str("file", req.FileName).Msg("file share")
	r.broadcast(core.EventFileShare, conn, req.Room, struct {
		FileName  string          `json:"fileName"`
		FileSize  json.RawMessage `json:"fileSize"`
		FileType  string          `json:"fileType"`
		FileURL   string          `json:"fileUrl"`
		Sender    string          `json:"sender"`
		Timestamp string          `json:"timestamp"`
		From      domain.ConnID   `json:"from"`
	}{req.FileName, size, req.FileType, req.FileURL, sender, r.stamp(), conn})
}

func (r *Router) broadcast(event string, conn domain.ConnID, room domain.RoomID, body any) {
	r.Out.Settle(room, r.Out.ToRoom(room, conn, event, body))
}

func (r *Router) stamp() string {
	return r.Now().UTC().Format(TimeFormat)
}

func (f Fields) clone() Fields {
	out := make(Fields, len(f)+2)
	for k, v := range f {
		out[k] = v
	}
	return out
}

func (f Fields) set(key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	f[key] = raw
}

func (f Fields) str(key string) (string, bool) {
	raw, ok := f[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}
