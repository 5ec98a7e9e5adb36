package app

import (
	"errors"
	"sync"

	"github.com/dkeye/Signal/internal/core"
	"github.com/dkeye/Signal/internal/domain"
	"github.com/dkeye/Signal/internal/metric"
	"github.com/rs/zerolog/log"
)

// RoomTable maps room ids to member sets. Rooms appear on first join and
// disappear with their last member.
type RoomTable struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]*core.Room
}

func NewRoomTable() *RoomTable {
	return &RoomTable{rooms: make(map[domain.RoomID]*core.Room)}
}

// Join adds the member, creating the room if needed. It does not check
// whether conn is a member of some other room.
func (t *RoomTable) Join(id domain.RoomID, conn domain.ConnID, user domain.UserID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	room, ok := t.rooms[id]
	if !ok {
		room = core.NewRoom(id)
		t.rooms[id] = room
		metric.SetRooms(len(t.rooms))
		log.Info().Str("module", "app.rooms").Str("room", string(id)).Msg("room created")
	}
	room.Add(domain.Member{ConnID: conn, UserID: user})
	log.Info().Str("module", "app.rooms").Str("room", string(id)).Str("conn", string(conn)).Int("size", room.Len()).Msg("member added")
}

// Leave removes conn from the room and drops the room once it is empty.
// It returns the remaining members and whether the room still exists.
func (t *RoomTable) Leave(id domain.RoomID, conn domain.ConnID) ([]domain.Member, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	room, ok := t.rooms[id]
	if !ok {
		return nil, false
	}
	if _, removed := room.Remove(conn); removed {
		log.Info().Str("module", "app.rooms").Str("room", string(id)).Str("conn", string(conn)).Int("size", room.Len()).Msg("member removed")
	}
	if room.Len() == 0 {
		delete(t.rooms, id)
		metric.SetRooms(len(t.rooms))
		log.Info().Str("module", "app.rooms").Str("room", string(id)).Msg("room is empty, cleaning up")
		return nil, false
	}
	return room.Members(), true
}

// Members returns a copy of the member set, empty if the room is absent.
func (t *RoomTable) Members(id domain.RoomID) []domain.Member {
	t.mu.RLock()
	defer t.mu.RUnlock()
	room, ok := t.rooms[id]
	if !ok {
		return nil
	}
	return room.Members()
}

func (t *RoomTable) Size(id domain.RoomID) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if room, ok := t.rooms[id]; ok {
		return room.Len()
	}
	return 0
}

func (t *RoomTable) Has(id domain.RoomID, conn domain.ConnID) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	room, ok := t.rooms[id]
	return ok && room.Has(conn)
}

func (t *RoomTable) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rooms)
}

func (t *RoomTable) List() []core.RoomInfo {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]core.RoomInfo, 0, len(t.rooms))
	for id, r := range t.rooms {
		out = append(out, core.RoomInfo{ID: id, Count: r.Len()})
	}
	return out
}

// Broadcast calls send for every member except the given one while holding
// the read lock, so no member whose leave has completed is ever reached.
func (t *RoomTable) Broadcast(id domain.RoomID, except domain.ConnID, send func(domain.ConnID) error) core.PublishResult {
	t.mu.RLock()
	defer t.mu.RUnlock()
	res := core.PublishResult{}
	room, ok := t.rooms[id]
	if !ok {
		return res
	}
	room.Each(func(m domain.Member) {
		if m.ConnID == except {
			return
		}
		if err := send(m.ConnID); err != nil {
			if errors.Is(err, ErrUnknownConnection) {
				return
			}
			res.Dropped = append(res.Dropped, m.ConnID)
			return
		}
		res.SendTo++
	})
	log.Debug().Str("module", "app.rooms").Str("room", string(id)).Str("except", string(except)).Int("sent_to", res.SendTo).Int("dropped", len(res.Dropped)).Msg("broadcast result")
	return res
}
