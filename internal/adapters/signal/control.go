package signal

import (
	"encoding/json"

	"github.com/dkeye/Signal/internal/core"
	"github.com/dkeye/Signal/internal/domain"
)

// handlePing answers with pong, echoing whatever the client put in data.
func (ctl *SignalWSController) handlePing(id domain.ConnID, data json.RawMessage) {
	var body any = struct{}{}
	if len(data) > 0 {
		body = data
	}
	out := ctl.Orch.Out
	out.Settle("", out.ToConn(id, core.EventPong, body))
}
