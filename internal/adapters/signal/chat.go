package signal

import (
	"encoding/json"

	"github.com/dkeye/Signal/internal/core"
	"github.com/dkeye/Signal/internal/domain"
)

func (ctl *SignalWSController) handleChat(id domain.ConnID, data json.RawMessage) {
	room, fields, err := parseFields(data)
	if err != nil {
		dropped(id, core.EventChatMessage, err)
		return
	}
	ctl.Router.Chat(id, room, fields)
}

func (ctl *SignalWSController) handleTyping(id domain.ConnID, data json.RawMessage) {
	req, err := parseTyping(data)
	if err != nil {
		dropped(id, core.EventTyping, err)
		return
	}
	ctl.Router.Typing(id, req)
}

func (ctl *SignalWSController) handleFileShare(id domain.ConnID, data json.RawMessage) {
	req, err := parseFileShare(data)
	if err != nil {
		dropped(id, core.EventFileShare, err)
		return
	}
	ctl.Router.FileShare(id, req)
}
