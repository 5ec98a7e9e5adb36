package signal

import (
	"encoding/json"

	"github.com/dkeye/Signal/internal/core"
	"github.com/dkeye/Signal/internal/domain"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) handleJoin(id domain.ConnID, data json.RawMessage) {
	req, err := parseJoin(data)
	if err != nil {
		dropped(id, core.EventJoinRoom, err)
		return
	}
	if !ctl.Limiter.Allow(id) {
		log.Warn().Str("module", "signal").Str("conn", string(id)).Str("room", string(req.Room)).Msg("join rate limited")
		return
	}
	log.Info().Str("module", "signal").Str("conn", string(id)).Str("room", string(req.Room)).Msg("join")
	ctl.Orch.Join(id, req.Room, req.UserID)
}

// handleLeave leaves the room but keeps the socket open.
func (ctl *SignalWSController) handleLeave(id domain.ConnID, data json.RawMessage) {
	room, err := parseRoom(data)
	if err != nil {
		dropped(id, core.EventLeaveRoom, err)
		return
	}
	log.Info().Str("module", "signal").Str("conn", string(id)).Str("room", string(room)).Msg("leave")
	ctl.Orch.Leave(id, room)
}
