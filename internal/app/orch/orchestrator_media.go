package orch

import (
	"github.com/dkeye/Signal/internal/core"
	"github.com/dkeye/Signal/internal/domain"
	"github.com/rs/zerolog/log"
)

// SetCameraState stores the camera flag and tells the rest of the room.
func (o *Orchestrator) SetCameraState(conn domain.ConnID, room domain.RoomID, enabled bool, user string) {
	o.setMedia(core.EventCameraState, conn, room, enabled, user, o.Registry.SetCamera)
}

// SetMicState stores the microphone flag and tells the rest of the room.
func (o *Orchestrator) SetMicState(conn domain.ConnID, room domain.RoomID, enabled bool, user string) {
	o.setMedia(core.EventMicState, conn, room, enabled, user, o.Registry.SetMic)
}

func (o *Orchestrator) setMedia(event string, conn domain.ConnID, room domain.RoomID, enabled bool, user string, set func(domain.ConnID, bool) bool) {
	var p pending
	o.mu.Lock()
	if set(conn, enabled) && room != "" {
		p.add(room, o.Out.ToRoom(room, conn, event, core.MediaState{
			Enabled: enabled,
			From:    conn,
			UserID:  domain.UserOrDefault(user, conn),
		}))
		log.Debug().Str("module", "orch").Str("conn", string(conn)).Str("room", string(room)).Str("event", event).Bool("enabled", enabled).Msg("media state changed")
	}
	o.mu.Unlock()
	o.flush(p)
}

// RequestCameraState re-announces the requester's stored camera flag to the room.
func (o *Orchestrator) RequestCameraState(conn domain.ConnID, room domain.RoomID) {
	if room == "" {
		return
	}
	var p pending
	o.mu.Lock()
	if c, ok := o.Registry.Get(conn); ok {
		p.add(room, o.Out.ToRoom(room, conn, core.EventCameraState, core.MediaState{
			Enabled: c.CameraEnabled,
			From:    conn,
			UserID:  c.UserID,
		}))
	}
	o.mu.Unlock()
	o.flush(p)
}
