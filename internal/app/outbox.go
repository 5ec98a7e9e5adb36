package app

import (
	"errors"

	"github.com/dkeye/Signal/internal/core"
	"github.com/dkeye/Signal/internal/domain"
	"github.com/dkeye/Signal/internal/metric"
	"github.com/rs/zerolog/log"
)

// Outbox encodes events and hands them to connections through the registry.
// Delivery never blocks; full queues come back in PublishResult.Dropped and
// are resolved by Settle once the caller has released its locks.
type Outbox struct {
	Registry *Registry
	Rooms    *RoomTable
	Policy   Policy
}

// ToConn sends one event to a single connection.
func (o *Outbox) ToConn(id domain.ConnID, eventType string, data any) core.PublishResult {
	f, ok := encode(eventType, data)
	if !ok {
		return core.PublishResult{}
	}
	err := o.Registry.Send(id, f)
	switch {
	case err == nil:
		metric.EventSent(eventType, 1)
		return core.PublishResult{SendTo: 1}
	case errors.Is(err, ErrUnknownConnection):
		log.Debug().Str("module", "app.outbox").Str("conn", string(id)).Str("type", eventType).Msg("send to unknown connection")
		return core.PublishResult{}
	default:
		return core.PublishResult{Dropped: []domain.ConnID{id}}
	}
}

// ToRoom sends one event to every member of the room except the given connection.
func (o *Outbox) ToRoom(room domain.RoomID, except domain.ConnID, eventType string, data any) core.PublishResult {
	f, ok := encode(eventType, data)
	if !ok {
		return core.PublishResult{}
	}
	res := o.Rooms.Broadcast(room, except, func(id domain.ConnID) error {
		return o.Registry.Send(id, f)
	})
	metric.EventSent(eventType, res.SendTo)
	return res
}

// Settle applies the backpressure policy to every dropped connection.
func (o *Outbox) Settle(room domain.RoomID, res core.PublishResult) {
	for _, id := range res.Dropped {
		action := KickMember
		if o.Policy != nil {
			action = o.Policy.OnBackPressure(room, id)
		}
		switch action {
		case KickMember:
			metric.FrameDropped("kick")
			log.Warn().Str("module", "app.outbox").Str("conn", string(id)).Str("room", string(room)).Msg("send queue full, kicking connection")
			o.Registry.Cancel(id)
		case DropFrame:
			metric.FrameDropped("drop")
			log.Warn().Str("module", "app.outbox").Str("conn", string(id)).Str("room", string(room)).Msg("send queue full, frame dropped")
		case NoAction:
		}
	}
}

func encode(eventType string, data any) (core.Frame, bool) {
	f, err := core.Encode(eventType, data)
	if err != nil {
		log.Error().Err(err).Str("module", "app.outbox").Str("type", eventType).Msg("encode event")
		return nil, false
	}
	return f, true
}
