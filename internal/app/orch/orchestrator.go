// Package orch is the presence coordinator: it owns room membership
// changes and the notifications that go with them.
package orch

import (
	"slices"
	"strings"
	"sync"

	"github.com/dkeye/Signal/internal/app"
	"github.com/dkeye/Signal/internal/core"
	"github.com/dkeye/Signal/internal/domain"
	"github.com/rs/zerolog/log"
)

// Orchestrator serializes every compound membership operation. Lock order
// is Orchestrator, then RoomTable, then Registry.
type Orchestrator struct {
	Registry *app.Registry
	Rooms    *app.RoomTable
	Out      *app.Outbox

	mu sync.Mutex
}

func New(reg *app.Registry, rooms *app.RoomTable, out *app.Outbox) *Orchestrator {
	return &Orchestrator{Registry: reg, Rooms: rooms, Out: out}
}

// Connect registers a fresh connection with no room.
func (o *Orchestrator) Connect(conn domain.ConnID, sc core.SignalConnection, cancel func()) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Registry.Initialize(conn, sc, cancel)
}

// Snapshot returns the presence list of a room in join order.
func (o *Orchestrator) Snapshot(room domain.RoomID) ([]core.PresenceEntry, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	members := o.Rooms.Members(room)
	if len(members) == 0 {
		return nil, false
	}
	return o.presence(members), true
}

// Stats reports the number of live rooms and connections.
func (o *Orchestrator) Stats() (rooms, connections int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.Rooms.Count(), o.Registry.Count()
}

// ListRooms lists live rooms ordered by id.
func (o *Orchestrator) ListRooms() []core.RoomInfo {
	list := o.Rooms.List()
	slices.SortFunc(list, func(a, b core.RoomInfo) int {
		return strings.Compare(string(a.ID), string(b.ID))
	})
	return list
}

func (o *Orchestrator) presence(members []domain.Member) []core.PresenceEntry {
	out := make([]core.PresenceEntry, 0, len(members))
	for _, m := range members {
		c, ok := o.Registry.Get(m.ConnID)
		if !ok {
			log.Warn().Str("module", "orch").Str("conn", string(m.ConnID)).Msg("room member missing from registry")
			continue
		}
		out = append(out, core.PresenceEntry{
			UserID:        m.UserID,
			ConnectionID:  m.ConnID,
			CameraEnabled: c.CameraEnabled,
			MicEnabled:    c.MicEnabled,
		})
	}
	return out
}

// pending collects fan-out results whose backpressure is settled after
// the coordinator lock is released.
type pending []settlement

type settlement struct {
	room domain.RoomID
	res  core.PublishResult
}

func (p *pending) add(room domain.RoomID, res core.PublishResult) {
	if len(res.Dropped) == 0 {
		return
	}
	*p = append(*p, settlement{room: room, res: res})
}

func (o *Orchestrator) flush(p pending) {
	for _, s := range p {
		o.Out.Settle(s.room, s.res)
	}
}
