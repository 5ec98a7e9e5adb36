package signal

import (
	"encoding/json"

	"github.com/dkeye/Signal/internal/core"
	"github.com/dkeye/Signal/internal/domain"
)

// handleRelay forwards offer, answer and ice-candidate payloads untouched.
func (ctl *SignalWSController) handleRelay(id domain.ConnID, event string, data json.RawMessage) {
	room, fields, err := parseFields(data)
	if err != nil {
		dropped(id, event, err)
		return
	}
	switch event {
	case core.EventOffer:
		ctl.Router.Offer(id, room, fields)
	case core.EventAnswer:
		ctl.Router.Answer(id, room, fields)
	case core.EventICECandidate:
		ctl.Router.ICECandidate(id, room, fields)
	}
}
