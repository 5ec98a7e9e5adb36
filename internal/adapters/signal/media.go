package signal

import (
	"encoding/json"

	"github.com/dkeye/Signal/internal/core"
	"github.com/dkeye/Signal/internal/domain"
)

func (ctl *SignalWSController) handleMediaState(id domain.ConnID, event string, data json.RawMessage) {
	req, err := parseMedia(data)
	if err != nil {
		dropped(id, event, err)
		return
	}
	if event == core.EventMicState {
		ctl.Orch.SetMicState(id, req.Room, req.Enabled, req.UserID)
		return
	}
	ctl.Orch.SetCameraState(id, req.Room, req.Enabled, req.UserID)
}

func (ctl *SignalWSController) handleRequestCameraState(id domain.ConnID, data json.RawMessage) {
	room, err := parseRoom(data)
	if err != nil {
		dropped(id, core.EventRequestCameraState, err)
		return
	}
	ctl.Orch.RequestCameraState(id, room)
}
